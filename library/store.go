package library

import (
	"time"

	"github.com/pkg/errors"
)

// Store holds the catalog registry. Listings return entries in insertion
// order. Lookups report absence with a false flag, never with an error.
// Implementations are not required to be safe for concurrent use;
// LibraryManager serialises access.
type Store interface {
	InsertBook(b Book) error
	SetBookAvailability(id string, available bool) error
	Book(id string) (Book, bool, error)
	BookByISBN(isbn string) (Book, bool, error)
	Books() ([]Book, error)

	InsertMember(m Member) error
	SetMemberTier(id string, tier Tier) error
	Member(id string) (Member, bool, error)
	MemberByEmail(email string) (Member, bool, error)
	Members() ([]Member, error)

	// LendBook stores l and marks its book unavailable as one step.
	LendBook(l Loan) error
	// CloseLoan stamps the loan's return date and marks its book available
	// as one step.
	CloseLoan(loanID string, returnedAt time.Time) error
	Loan(id string) (Loan, bool, error)
	Loans() ([]Loan, error)

	Close() error
}

type memoryStore struct {
	books     map[string]Book
	bookOrder []string
	members   map[string]Member
	memOrder  []string
	loans     map[string]Loan
	loanOrder []string
}

// NewMemoryStore returns a map-backed Store.
func NewMemoryStore() Store {
	return &memoryStore{
		books:   make(map[string]Book),
		members: make(map[string]Member),
		loans:   make(map[string]Loan),
	}
}

func (s *memoryStore) InsertBook(b Book) error {
	if _, ok := s.books[b.ID]; !ok {
		s.bookOrder = append(s.bookOrder, b.ID)
	}
	s.books[b.ID] = b
	return nil
}

func (s *memoryStore) SetBookAvailability(id string, available bool) error {
	b, ok := s.books[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "book %s", id)
	}
	b.Available = available
	s.books[id] = b
	return nil
}

func (s *memoryStore) Book(id string) (Book, bool, error) {
	b, ok := s.books[id]
	return b, ok, nil
}

func (s *memoryStore) BookByISBN(isbn string) (Book, bool, error) {
	for _, id := range s.bookOrder {
		if b := s.books[id]; b.ISBN == isbn {
			return b, true, nil
		}
	}
	return Book{}, false, nil
}

func (s *memoryStore) Books() ([]Book, error) {
	out := make([]Book, 0, len(s.bookOrder))
	for _, id := range s.bookOrder {
		out = append(out, s.books[id])
	}
	return out, nil
}

func (s *memoryStore) InsertMember(m Member) error {
	if _, ok := s.members[m.ID]; !ok {
		s.memOrder = append(s.memOrder, m.ID)
	}
	s.members[m.ID] = m
	return nil
}

func (s *memoryStore) SetMemberTier(id string, tier Tier) error {
	m, ok := s.members[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "member %s", id)
	}
	m.Tier = tier
	s.members[id] = m
	return nil
}

func (s *memoryStore) Member(id string) (Member, bool, error) {
	m, ok := s.members[id]
	return m, ok, nil
}

func (s *memoryStore) MemberByEmail(email string) (Member, bool, error) {
	for _, id := range s.memOrder {
		if m := s.members[id]; m.Email == email {
			return m, true, nil
		}
	}
	return Member{}, false, nil
}

func (s *memoryStore) Members() ([]Member, error) {
	out := make([]Member, 0, len(s.memOrder))
	for _, id := range s.memOrder {
		out = append(out, s.members[id])
	}
	return out, nil
}

func (s *memoryStore) LendBook(l Loan) error {
	if err := s.SetBookAvailability(l.BookID, false); err != nil {
		return err
	}
	if _, ok := s.loans[l.ID]; !ok {
		s.loanOrder = append(s.loanOrder, l.ID)
	}
	s.loans[l.ID] = l.clone()
	return nil
}

func (s *memoryStore) CloseLoan(loanID string, returnedAt time.Time) error {
	l, ok := s.loans[loanID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "loan %s", loanID)
	}
	if err := s.SetBookAvailability(l.BookID, true); err != nil {
		return err
	}
	l.ReturnedAt = &returnedAt
	s.loans[loanID] = l
	return nil
}

func (s *memoryStore) Loan(id string) (Loan, bool, error) {
	l, ok := s.loans[id]
	return l.clone(), ok, nil
}

func (s *memoryStore) Loans() ([]Loan, error) {
	out := make([]Loan, 0, len(s.loanOrder))
	for _, id := range s.loanOrder {
		out = append(out, s.loans[id].clone())
	}
	return out, nil
}

func (s *memoryStore) Close() error { return nil }
