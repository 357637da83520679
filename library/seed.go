package library

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Seed is a starter catalog read from YAML:
//
//	books:
//	  - title: The Hobbit
//	    author: J.R.R. Tolkien
//	    isbn: 978-0547928227
//	    category: fiction
//	members:
//	  - name: Ada
//	    email: ada@example.org
//	    tier: premium
type Seed struct {
	Books   []SeedBook   `yaml:"books"`
	Members []SeedMember `yaml:"members"`
}

type SeedBook struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	ISBN     string `yaml:"isbn"`
	Category string `yaml:"category"`
}

type SeedMember struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Tier  string `yaml:"tier"`
}

// SeedReport counts what ApplySeed registered and what it skipped.
type SeedReport struct {
	BooksAdded     int
	MembersAdded   int
	Skipped        int
	SkippedReasons []string
}

// LoadSeed decodes a seed document. Unknown keys are rejected.
func LoadSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, errors.Wrap(err, "decode seed")
	}
	return s, nil
}

// ApplySeed registers the seed's books and members. Entries with an invalid
// category or tier, or a duplicate ISBN or email, are skipped and reported;
// any other failure aborts.
func (lm *LibraryManager) ApplySeed(s Seed) (SeedReport, error) {
	var rep SeedReport
	skip := func(err error) {
		rep.Skipped++
		rep.SkippedReasons = append(rep.SkippedReasons, err.Error())
	}

	for _, sb := range s.Books {
		cat, err := ParseCategory(sb.Category)
		if err != nil {
			skip(errors.Wrapf(err, "book %q", sb.Title))
			continue
		}
		err = lm.AddBook(NewBook(sb.Title, sb.Author, sb.ISBN, cat))
		switch {
		case errors.Is(err, ErrDuplicateISBN):
			skip(errors.Wrapf(err, "book %q", sb.Title))
		case err != nil:
			return rep, err
		default:
			rep.BooksAdded++
		}
	}

	for _, sm := range s.Members {
		tier, err := ParseTier(sm.Tier)
		if err != nil {
			skip(errors.Wrapf(err, "member %q", sm.Name))
			continue
		}
		err = lm.AddMember(NewMember(sm.Name, sm.Email, tier))
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			skip(errors.Wrapf(err, "member %q", sm.Name))
		case err != nil:
			return rep, err
		default:
			rep.MembersAdded++
		}
	}

	lm.log.Info("seed applied", "books", rep.BooksAdded, "members", rep.MembersAdded, "skipped", rep.Skipped)
	return rep, nil
}
