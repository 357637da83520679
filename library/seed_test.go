package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
books:
  - title: The Hobbit
    author: J.R.R. Tolkien
    isbn: 978-0547928227
    category: fiction
  - title: A Brief History of Time
    author: Stephen Hawking
    isbn: 978-0553380163
    category: Science
  - title: The Hobbit (duplicate)
    author: J.R.R. Tolkien
    isbn: 978-0547928227
    category: fiction
  - title: Collected Poems
    author: Anon
    isbn: 978-0000000001
    category: poetry
members:
  - name: Ada
    email: ada@example.org
    tier: premium
  - name: Alan
    email: alan@example.org
  - name: Ada Twin
    email: ada@example.org
`

func TestApplySeed(t *testing.T) {
	eachBackend(t, func(t *testing.T, lm *LibraryManager, _ *fakeClock) {
		seed, err := LoadSeed(strings.NewReader(seedYAML))
		require.NoError(t, err)
		require.Len(t, seed.Books, 4)
		require.Len(t, seed.Members, 3)

		rep, err := lm.ApplySeed(seed)
		require.NoError(t, err)
		assert.Equal(t, 2, rep.BooksAdded)
		assert.Equal(t, 2, rep.MembersAdded)
		assert.Equal(t, 3, rep.Skipped)
		require.Len(t, rep.SkippedReasons, 3)
		assert.Contains(t, rep.SkippedReasons[0], "duplicate isbn")
		assert.Contains(t, rep.SkippedReasons[1], "invalid category")
		assert.Contains(t, rep.SkippedReasons[2], "duplicate email")

		members, err := lm.GetAllMembers()
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, Premium, members[0].Tier)
		assert.Equal(t, Standard, members[1].Tier)
	})
}

func TestLoadSeedRejectsUnknownKeys(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("shelves: []\n"))
	assert.Error(t, err)
}
