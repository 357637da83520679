package library

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())

	assert.Equal(t, 14, p.LoanDays(Standard))
	assert.Equal(t, 21, p.LoanDays(Premium))
	assert.Equal(t, 3, p.LoanLimit(Standard))
	assert.Equal(t, 5, p.LoanLimit(Premium))
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy(strings.NewReader("premium_loan_days: 28\nstandard_loan_limit: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, Policy{StandardLoanDays: 14, PremiumLoanDays: 28, StandardLoanLimit: 2, PremiumLoanLimit: 5}, p)

	empty, err := LoadPolicy(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), empty)
}

func TestLoadPolicyErrors(t *testing.T) {
	_, err := LoadPolicy(strings.NewReader("standard_loan_days: -1\n"))
	assert.True(t, errors.Is(err, ErrInvalidPolicy))

	_, err = LoadPolicy(strings.NewReader("premium_loan_limit: 0\n"))
	assert.True(t, errors.Is(err, ErrInvalidPolicy))

	_, err = LoadPolicy(strings.NewReader("loan_days: 3\n"))
	assert.Error(t, err, "unknown key")

	_, err = LoadPolicy(strings.NewReader("standard_loan_days: [1\n"))
	assert.Error(t, err, "malformed yaml")
}
