package library

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Policy holds the circulation rules that vary per deployment.
type Policy struct {
	// StandardLoanDays is the loan duration for Standard members.
	StandardLoanDays int `yaml:"standard_loan_days"`

	// PremiumLoanDays is the loan duration for Premium members.
	PremiumLoanDays int `yaml:"premium_loan_days"`

	// StandardLoanLimit caps the active loans of a Standard member.
	StandardLoanLimit int `yaml:"standard_loan_limit"`

	// PremiumLoanLimit caps the active loans of a Premium member.
	PremiumLoanLimit int `yaml:"premium_loan_limit"`
}

// DefaultPolicy returns 14/21 loan days and 3/5 active loans for
// Standard/Premium members.
func DefaultPolicy() Policy {
	return Policy{
		StandardLoanDays:  14,
		PremiumLoanDays:   21,
		StandardLoanLimit: 3,
		PremiumLoanLimit:  5,
	}
}

// LoadPolicy decodes a YAML policy document. Keys missing from the document
// keep their DefaultPolicy values.
func LoadPolicy(r io.Reader) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, errors.Wrap(err, "decode policy")
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects negative durations and non-positive limits.
func (p Policy) Validate() error {
	switch {
	case p.StandardLoanDays < 0:
		return errors.Wrapf(ErrInvalidPolicy, "standard loan days %d", p.StandardLoanDays)
	case p.PremiumLoanDays < 0:
		return errors.Wrapf(ErrInvalidPolicy, "premium loan days %d", p.PremiumLoanDays)
	case p.StandardLoanLimit <= 0:
		return errors.Wrapf(ErrInvalidPolicy, "standard loan limit %d", p.StandardLoanLimit)
	case p.PremiumLoanLimit <= 0:
		return errors.Wrapf(ErrInvalidPolicy, "premium loan limit %d", p.PremiumLoanLimit)
	}
	return nil
}

// LoanDays returns the loan duration for tier.
func (p Policy) LoanDays(tier Tier) int {
	if tier == Premium {
		return p.PremiumLoanDays
	}
	return p.StandardLoanDays
}

// LoanLimit returns the active loan cap for tier.
func (p Policy) LoanLimit(tier Tier) int {
	if tier == Premium {
		return p.PremiumLoanLimit
	}
	return p.StandardLoanLimit
}
