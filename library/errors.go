package library

import "github.com/pkg/errors"

var (
	// ErrDuplicateISBN is returned when a book with the same ISBN is already catalogued.
	ErrDuplicateISBN = errors.New("duplicate isbn")

	// ErrDuplicateEmail is returned when a member with the same email is already registered.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrNotFound is returned when a referenced member, book or loan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when lending a book that is currently on loan.
	ErrUnavailable = errors.New("book is not available")

	// ErrLoanLimitExceeded is returned when a member already holds as many
	// active loans as their tier allows.
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")

	// ErrAlreadyReturned is returned when returning a loan that is already closed.
	ErrAlreadyReturned = errors.New("loan already returned")

	// ErrIntegrity marks a registry state that breaks the catalog invariants,
	// such as a loan referencing a book that is not registered.
	ErrIntegrity = errors.New("registry integrity violation")

	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidTier     = errors.New("invalid membership tier")
	ErrInvalidPolicy   = errors.New("invalid loan policy")

	// ErrInvalidArgument is returned when a nil book or member is registered.
	ErrInvalidArgument = errors.New("invalid argument")
)
