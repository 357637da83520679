package library

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Category is the shelf a book is catalogued under.
type Category string

const (
	Fiction    Category = "Fiction"
	NonFiction Category = "Non-Fiction"
	Science    Category = "Science"
	Technology Category = "Technology"
)

// Categories lists every category in display order.
var Categories = []Category{Fiction, NonFiction, Science, Technology}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidCategory, "%q", s)
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Tier is a member's membership level.
type Tier string

const (
	Standard Tier = "Standard"
	Premium  Tier = "Premium"
)

// ParseTier matches s against the known tiers, ignoring case. An empty
// string yields Standard.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return Standard, nil
	case "premium":
		return Premium, nil
	}
	return "", errors.Wrapf(ErrInvalidTier, "%q", s)
}

func (t Tier) Valid() bool { return t == Standard || t == Premium }

// Book is a snapshot of a catalogued book. Mutating it has no effect on the
// library.
type Book struct {
	ID        string   `json:"id" db:"id"`
	Title     string   `json:"title" db:"title"`
	Author    string   `json:"author" db:"author"`
	ISBN      string   `json:"isbn" db:"isbn"`
	Available bool     `json:"available" db:"available"`
	Category  Category `json:"category" db:"category"`
}

// Member is a snapshot of a registered library member.
type Member struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Tier  Tier   `json:"membership_tier" db:"tier"`
}

// Loan records a book lent to a member. ReturnedAt is nil while the loan is
// active.
type Loan struct {
	ID         string     `json:"id"`
	MemberID   string     `json:"member_id"`
	BookID     string     `json:"book_id"`
	LoanedAt   time.Time  `json:"loan_date"`
	DueAt      time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_date,omitempty"`
}

// IsActive reports whether the loan has not been returned yet.
func (l Loan) IsActive() bool { return l.ReturnedAt == nil }

// IsOverdue reports whether the loan is active and now is strictly past its
// due date.
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueAt)
}

func (l Loan) clone() Loan {
	if l.ReturnedAt != nil {
		t := *l.ReturnedAt
		l.ReturnedAt = &t
	}
	return l
}

// Statistics summarises the catalog and circulation state.
type Statistics struct {
	TotalBooks       int    `json:"total_books"`
	AvailableBooks   int    `json:"available_books"`
	TotalMembers     int    `json:"total_members"`
	ActiveLoans      int    `json:"active_loans"`
	OverdueLoans     int    `json:"overdue_loans"`
	LoanedPercentage string `json:"loaned_percentage"`
}
