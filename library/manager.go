package library

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"library-catalog/internal/logging"
)

// LibraryManager owns the catalog registry and enforces the circulation
// rules. All operations are serialised by one lock, so the loan limit check
// and the loan it guards happen as a single step.
type LibraryManager struct {
	mu     sync.Mutex
	store  Store
	policy Policy
	now    func() time.Time
	log    logging.Logger
	fold   cases.Caser
}

// Option configures a LibraryManager.
type Option func(*LibraryManager)

// WithStore replaces the default in-memory map store.
func WithStore(s Store) Option { return func(lm *LibraryManager) { lm.store = s } }

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option { return func(lm *LibraryManager) { lm.log = l } }

// WithClock sets the time source used for loan, due and return dates.
func WithClock(now func() time.Time) Option { return func(lm *LibraryManager) { lm.now = now } }

// NewLibraryManager returns an empty library governed by policy.
func NewLibraryManager(policy Policy, opts ...Option) (*LibraryManager, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	lm := &LibraryManager{
		policy: policy,
		now:    time.Now,
		log:    logging.NewNopLogger(),
		fold:   cases.Fold(),
	}
	for _, opt := range opts {
		opt(lm)
	}
	if lm.store == nil {
		lm.store = NewMemoryStore()
	}
	return lm, nil
}

// Close releases the underlying store.
func (lm *LibraryManager) Close() error { return lm.store.Close() }

// Policy returns the circulation rules in effect.
func (lm *LibraryManager) Policy() Policy { return lm.policy }

// ------------------ Books ------------------

// AddBook registers book as available. ISBNs must be unique (exact match)
// and the category must be one of Categories.
func (lm *LibraryManager) AddBook(book *BookModel) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if book == nil {
		return errors.Wrap(ErrInvalidArgument, "nil book")
	}
	b := book.Details()
	if !b.Category.Valid() {
		return errors.Wrapf(ErrInvalidCategory, "%q", b.Category)
	}
	// a new registration is never on loan
	b.Available = true

	_, exists, err := lm.store.BookByISBN(b.ISBN)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrDuplicateISBN, "isbn %s", b.ISBN)
	}
	if err := lm.store.InsertBook(b); err != nil {
		return err
	}
	lm.log.Debug("book added", "book_id", b.ID, "isbn", b.ISBN)
	return nil
}

// GetBook returns a snapshot of the book, or nil when id is unknown.
func (lm *LibraryManager) GetBook(id string) (*Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	b, ok, err := lm.store.Book(id)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// GetAllBooks returns every catalogued book.
func (lm *LibraryManager) GetAllBooks() ([]Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Books()
}

// GetAvailableBooks returns the books not on loan, restricted to category
// when one is given. The order is not part of the contract.
func (lm *LibraryManager) GetAvailableBooks(category ...Category) ([]Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.availableBooks(category...)
}

func (lm *LibraryManager) availableBooks(category ...Category) ([]Book, error) {
	books, err := lm.store.Books()
	if err != nil {
		return nil, err
	}
	out := []Book{}
	for _, b := range books {
		if !b.Available {
			continue
		}
		if len(category) > 0 && category[0] != "" && b.Category != category[0] {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// SearchBooks returns the books whose title or author contains query,
// ignoring case. An empty query matches everything.
func (lm *LibraryManager) SearchBooks(query string) ([]Book, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	books, err := lm.store.Books()
	if err != nil {
		return nil, err
	}
	q := lm.fold.String(query)
	out := []Book{}
	for _, b := range books {
		if strings.Contains(lm.fold.String(b.Title), q) || strings.Contains(lm.fold.String(b.Author), q) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ------------------ Members ------------------

// AddMember registers member. Emails must be unique (exact match) and the
// tier must be Standard or Premium.
func (lm *LibraryManager) AddMember(member *MemberModel) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if member == nil {
		return errors.Wrap(ErrInvalidArgument, "nil member")
	}
	m := member.Details()
	if !m.Tier.Valid() {
		return errors.Wrapf(ErrInvalidTier, "%q", m.Tier)
	}

	_, exists, err := lm.store.MemberByEmail(m.Email)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrDuplicateEmail, "email %s", m.Email)
	}
	if err := lm.store.InsertMember(m); err != nil {
		return err
	}
	lm.log.Debug("member added", "member_id", m.ID, "tier", m.Tier)
	return nil
}

// GetMember returns a snapshot of the member, or nil when id is unknown.
func (lm *LibraryManager) GetMember(id string) (*Member, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	m, ok, err := lm.store.Member(id)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// GetAllMembers returns every registered member.
func (lm *LibraryManager) GetAllMembers() ([]Member, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.store.Members()
}

// UpgradeMembership moves the member to the Premium tier. Upgrading a
// Premium member changes nothing.
func (lm *LibraryManager) UpgradeMembership(memberID string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	m, ok, err := lm.store.Member(memberID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "member %s", memberID)
	}
	model := memberModelFrom(m)
	model.UpgradeMembership()
	if err := lm.store.SetMemberTier(memberID, model.Details().Tier); err != nil {
		return err
	}
	lm.log.Info("membership upgraded", "member_id", memberID)
	return nil
}

// ------------------ Circulation ------------------

// LoanBook lends bookID to memberID. The due date is the loan date plus the
// member tier's loan duration.
func (lm *LibraryManager) LoanBook(memberID, bookID string) (Loan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	m, ok, err := lm.store.Member(memberID)
	if err != nil {
		return Loan{}, err
	}
	if !ok {
		return Loan{}, errors.Wrapf(ErrNotFound, "member %s", memberID)
	}
	b, ok, err := lm.store.Book(bookID)
	if err != nil {
		return Loan{}, err
	}
	if !ok {
		return Loan{}, errors.Wrapf(ErrNotFound, "book %s", bookID)
	}

	if !b.Available {
		lm.log.Debug("loan rejected", "reason", "unavailable", "member_id", memberID, "book_id", bookID)
		return Loan{}, errors.Wrapf(ErrUnavailable, "book %s", bookID)
	}

	active, err := lm.activeLoans(memberID)
	if err != nil {
		return Loan{}, err
	}
	if limit := lm.policy.LoanLimit(m.Tier); len(active) >= limit {
		lm.log.Debug("loan rejected", "reason", "limit", "member_id", memberID, "limit", limit)
		return Loan{}, errors.Wrapf(ErrLoanLimitExceeded, "member %s holds %d of %d", memberID, len(active), limit)
	}

	now := lm.now()
	loan := Loan{
		ID:       GenerateID(),
		MemberID: memberID,
		BookID:   bookID,
		LoanedAt: now,
		DueAt:    DueDateFrom(now, lm.policy.LoanDays(m.Tier)),
	}

	if err := lm.store.LendBook(loan); err != nil {
		return Loan{}, err
	}

	lm.log.Info("book loaned", "loan_id", loan.ID, "member_id", memberID, "book_id", bookID, "due", loan.DueAt)
	return loan, nil
}

// ReturnBook closes the loan and makes its book available again. A loan can
// be returned only once.
func (lm *LibraryManager) ReturnBook(loanID string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	loan, ok, err := lm.store.Loan(loanID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotFound, "loan %s", loanID)
	}
	if !loan.IsActive() {
		return errors.Wrapf(ErrAlreadyReturned, "loan %s", loanID)
	}

	_, ok, err = lm.store.Book(loan.BookID)
	if err != nil {
		return err
	}
	if !ok {
		lm.log.Error("loan references unknown book", "loan_id", loanID, "book_id", loan.BookID)
		// pkg/errors carries a single cause; the result must match both sentinels.
		return fmt.Errorf("book %s of loan %s: %w: %w", loan.BookID, loanID, ErrNotFound, ErrIntegrity)
	}

	now := lm.now()
	if err := lm.store.CloseLoan(loanID, now); err != nil {
		return err
	}
	lm.log.Info("book returned", "loan_id", loanID, "book_id", loan.BookID, "member_id", loan.MemberID)
	return nil
}

// GetLoan returns the loan, or nil when id is unknown.
func (lm *LibraryManager) GetLoan(id string) (*Loan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok, err := lm.store.Loan(id)
	if err != nil || !ok {
		return nil, err
	}
	return &l, nil
}

// GetMemberActiveLoans returns the member's unreturned loans.
func (lm *LibraryManager) GetMemberActiveLoans(memberID string) ([]Loan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.activeLoans(memberID)
}

func (lm *LibraryManager) activeLoans(memberID string) ([]Loan, error) {
	loans, err := lm.store.Loans()
	if err != nil {
		return nil, err
	}
	out := []Loan{}
	for _, l := range loans {
		if l.MemberID == memberID && l.IsActive() {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetMemberLoans returns the member's full loan history, most recent first.
func (lm *LibraryManager) GetMemberLoans(memberID string) ([]Loan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	loans, err := lm.store.Loans()
	if err != nil {
		return nil, err
	}
	out := []Loan{}
	for _, l := range loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoanedAt.After(out[j].LoanedAt) })
	return out, nil
}

// IsLoanOverdue reports whether the loan is active and past its due date.
// Unknown and returned loans are never overdue.
func (lm *LibraryManager) IsLoanOverdue(loanID string) (bool, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok, err := lm.store.Loan(loanID)
	if err != nil || !ok {
		return false, err
	}
	return l.IsOverdue(lm.now()), nil
}

// GetOverdueLoans returns every overdue loan, earliest due date first.
func (lm *LibraryManager) GetOverdueLoans() ([]Loan, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.overdueLoans()
}

func (lm *LibraryManager) overdueLoans() ([]Loan, error) {
	loans, err := lm.store.Loans()
	if err != nil {
		return nil, err
	}
	now := lm.now()
	out := []Loan{}
	for _, l := range loans {
		if l.IsOverdue(now) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

// ------------------ Statistics ------------------

// GetStatistics summarises the catalog. An empty catalog reports a loaned
// percentage of "0.00".
func (lm *LibraryManager) GetStatistics() (Statistics, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	books, err := lm.store.Books()
	if err != nil {
		return Statistics{}, err
	}
	available, err := lm.availableBooks()
	if err != nil {
		return Statistics{}, err
	}
	members, err := lm.store.Members()
	if err != nil {
		return Statistics{}, err
	}
	loans, err := lm.store.Loans()
	if err != nil {
		return Statistics{}, err
	}
	overdue, err := lm.overdueLoans()
	if err != nil {
		return Statistics{}, err
	}

	active := 0
	for _, l := range loans {
		if l.IsActive() {
			active++
		}
	}

	return Statistics{
		TotalBooks:       len(books),
		AvailableBooks:   len(available),
		TotalMembers:     len(members),
		ActiveLoans:      active,
		OverdueLoans:     len(overdue),
		LoanedPercentage: loanedPercentage(len(books), len(available)),
	}, nil
}

func loanedPercentage(total, available int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(total-available)/float64(total)*100)
}
