package library

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Fiction", Fiction},
		{"non-fiction", NonFiction},
		{" SCIENCE ", Science},
		{"technology", Technology},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("Poetry")
	assert.True(t, errors.Is(err, ErrInvalidCategory))
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"": Standard, "standard": Standard, "Premium": Premium, " PREMIUM": Premium} {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	// The misspelled tier is not a synonym.
	_, err := ParseTier("premiun")
	assert.True(t, errors.Is(err, ErrInvalidTier))
}

func TestLoanIsOverdue(t *testing.T) {
	due := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	loan := Loan{DueAt: due}

	assert.False(t, loan.IsOverdue(due.Add(-time.Second)))
	assert.False(t, loan.IsOverdue(due))
	assert.True(t, loan.IsOverdue(due.Add(time.Nanosecond)))

	returned := due.Add(-time.Hour)
	loan.ReturnedAt = &returned
	assert.False(t, loan.IsActive())
	assert.False(t, loan.IsOverdue(due.Add(24*time.Hour)))
}

func TestNewBook(t *testing.T) {
	m := NewBook("Neuromancer", "William Gibson", "978-0441569595", Fiction)
	b := m.Details()

	assert.Equal(t, "Neuromancer", b.Title)
	assert.Equal(t, "William Gibson", b.Author)
	assert.Equal(t, "978-0441569595", b.ISBN)
	assert.Equal(t, Fiction, b.Category)
	assert.True(t, b.Available)
	assert.NotEmpty(t, b.ID)

	b.Available = false
	assert.True(t, m.Details().Available, "details are a copy")

	m.SetAvailability(false)
	assert.False(t, m.Details().Available)
	m.SetAvailability(false)
	assert.False(t, m.Details().Available)
	m.SetAvailability(true)
	assert.True(t, m.Details().Available)
}

func TestNewMember(t *testing.T) {
	m := NewMember("Grace", "grace@example.org")
	assert.Equal(t, Standard, m.Details().Tier)
	assert.NotEmpty(t, m.Details().ID)

	p := NewMember("Linus", "linus@example.org", Premium)
	assert.Equal(t, Premium, p.Details().Tier)

	d := m.Details()
	d.Tier = Premium
	assert.Equal(t, Standard, m.Details().Tier, "details are a copy")

	m.UpgradeMembership()
	assert.Equal(t, Premium, m.Details().Tier)
	m.UpgradeMembership()
	assert.Equal(t, Premium, m.Details().Tier)
}

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}
}

func TestDueDateFromRollsOver(t *testing.T) {
	tests := []struct {
		start time.Time
		days  int
		want  time.Time
	}{
		{time.Date(2024, time.January, 25, 10, 0, 0, 0, time.UTC), 14, time.Date(2024, time.February, 8, 10, 0, 0, 0, time.UTC)},
		{time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC), 14, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)},
		{time.Date(2023, time.February, 20, 10, 0, 0, 0, time.UTC), 14, time.Date(2023, time.March, 6, 10, 0, 0, 0, time.UTC)},
		{time.Date(2024, time.December, 25, 10, 0, 0, 0, time.UTC), 21, time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)},
		{time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 0, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DueDateFrom(tt.start, tt.days), "%v + %d", tt.start, tt.days)
	}
}

func TestCalculateDueDate(t *testing.T) {
	before := time.Now()
	due := CalculateDueDate(14)
	after := time.Now()

	assert.False(t, due.Before(before.AddDate(0, 0, 14)))
	assert.False(t, due.After(after.AddDate(0, 0, 14)))
}
