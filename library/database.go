package library

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Database is a Store backed by an in-memory SQLite database. Each Database
// gets its own private shared-cache database that disappears on Close.
type Database struct {
	db *sqlx.DB
}

// NewDatabase opens a fresh in-memory SQLite database and applies the schema.
func NewDatabase() (*Database, error) {
	// A named shared-cache memory database lives as long as one connection
	// is open, so the pool is pinned to a single connection.
	dsn := fmt.Sprintf("file:catalog-%s?mode=memory&cache=shared&_foreign_keys=1", GenerateID())
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

// Close drops the database.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return errors.Wrap(err, "create meta")
	}

	var current int
	_ = db.Get(&current, `SELECT value FROM meta WHERE key='schema_version';`)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS members (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            tier TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            isbn TEXT NOT NULL UNIQUE,
            available BOOLEAN NOT NULL DEFAULT 1,
            category TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            member_id TEXT NOT NULL REFERENCES members(id),
            book_id TEXT NOT NULL REFERENCES books(id),
            loaned_at INTEGER NOT NULL,
            due_at INTEGER NOT NULL,
            returned_at INTEGER
        );`,
		`CREATE INDEX IF NOT EXISTS idx_loans_member ON loans(member_id);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrap(err, "apply migration")
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return errors.Wrap(err, "record schema version")
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

const bookColumns = `id,title,author,isbn,available,category`

func (d *Database) InsertBook(b Book) error {
	_, err := d.db.NamedExec(`INSERT INTO books(`+bookColumns+`)
        VALUES(:id,:title,:author,:isbn,:available,:category)`, b)
	return errors.Wrapf(err, "insert book %s", b.ID)
}

func (d *Database) SetBookAvailability(id string, available bool) error {
	return setBookAvailability(d.db, id, available)
}

func setBookAvailability(ex sqlx.Execer, id string, available bool) error {
	res, err := ex.Exec(`UPDATE books SET available=? WHERE id=?`, available, id)
	if err != nil {
		return errors.Wrapf(err, "update book %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "book %s", id)
	}
	return nil
}

func (d *Database) Book(id string) (Book, bool, error) {
	var b Book
	err := d.db.Get(&b, `SELECT `+bookColumns+` FROM books WHERE id=?`, id)
	return b, found(err), ignoreNoRows(err)
}

func (d *Database) BookByISBN(isbn string) (Book, bool, error) {
	var b Book
	err := d.db.Get(&b, `SELECT `+bookColumns+` FROM books WHERE isbn=?`, isbn)
	return b, found(err), ignoreNoRows(err)
}

func (d *Database) Books() ([]Book, error) {
	books := []Book{}
	if err := d.db.Select(&books, `SELECT `+bookColumns+` FROM books ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	return books, nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

const memberColumns = `id,name,email,tier`

func (d *Database) InsertMember(m Member) error {
	_, err := d.db.NamedExec(`INSERT INTO members(`+memberColumns+`)
        VALUES(:id,:name,:email,:tier)`, m)
	return errors.Wrapf(err, "insert member %s", m.ID)
}

func (d *Database) SetMemberTier(id string, tier Tier) error {
	res, err := d.db.Exec(`UPDATE members SET tier=? WHERE id=?`, tier, id)
	if err != nil {
		return errors.Wrapf(err, "update member %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "member %s", id)
	}
	return nil
}

func (d *Database) Member(id string) (Member, bool, error) {
	var m Member
	err := d.db.Get(&m, `SELECT `+memberColumns+` FROM members WHERE id=?`, id)
	return m, found(err), ignoreNoRows(err)
}

func (d *Database) MemberByEmail(email string) (Member, bool, error) {
	var m Member
	err := d.db.Get(&m, `SELECT `+memberColumns+` FROM members WHERE email=?`, email)
	return m, found(err), ignoreNoRows(err)
}

func (d *Database) Members() ([]Member, error) {
	members := []Member{}
	if err := d.db.Select(&members, `SELECT `+memberColumns+` FROM members ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "list members")
	}
	return members, nil
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

const loanColumns = `id,member_id,book_id,loaned_at,due_at,returned_at`

// loanRow stores timestamps as Unix nanoseconds so that ordering and
// comparison stay exact.
type loanRow struct {
	ID         string        `db:"id"`
	MemberID   string        `db:"member_id"`
	BookID     string        `db:"book_id"`
	LoanedAt   int64         `db:"loaned_at"`
	DueAt      int64         `db:"due_at"`
	ReturnedAt sql.NullInt64 `db:"returned_at"`
}

func toLoanRow(l Loan) loanRow {
	r := loanRow{
		ID:       l.ID,
		MemberID: l.MemberID,
		BookID:   l.BookID,
		LoanedAt: l.LoanedAt.UnixNano(),
		DueAt:    l.DueAt.UnixNano(),
	}
	if l.ReturnedAt != nil {
		r.ReturnedAt = sql.NullInt64{Int64: l.ReturnedAt.UnixNano(), Valid: true}
	}
	return r
}

func (r loanRow) loan() Loan {
	l := Loan{
		ID:       r.ID,
		MemberID: r.MemberID,
		BookID:   r.BookID,
		LoanedAt: time.Unix(0, r.LoanedAt),
		DueAt:    time.Unix(0, r.DueAt),
	}
	if r.ReturnedAt.Valid {
		t := time.Unix(0, r.ReturnedAt.Int64)
		l.ReturnedAt = &t
	}
	return l
}

// LendBook records the loan and flips availability in one transaction.
func (d *Database) LendBook(l Loan) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := setBookAvailability(tx, l.BookID, false); err != nil {
		return err
	}
	if _, err := tx.NamedExec(`INSERT INTO loans(`+loanColumns+`)
        VALUES(:id,:member_id,:book_id,:loaned_at,:due_at,:returned_at)`, toLoanRow(l)); err != nil {
		return errors.Wrapf(err, "insert loan %s", l.ID)
	}
	return tx.Commit()
}

// CloseLoan stamps the return date and makes the book available again in one
// transaction.
func (d *Database) CloseLoan(loanID string, returnedAt time.Time) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID string
	if err := tx.Get(&bookID, `SELECT book_id FROM loans WHERE id=?`, loanID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.Wrapf(ErrNotFound, "loan %s", loanID)
		}
		return err
	}
	if _, err := tx.Exec(`UPDATE loans SET returned_at=? WHERE id=?`, returnedAt.UnixNano(), loanID); err != nil {
		return errors.Wrapf(err, "close loan %s", loanID)
	}
	if err := setBookAvailability(tx, bookID, true); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *Database) Loan(id string) (Loan, bool, error) {
	var r loanRow
	err := d.db.Get(&r, `SELECT `+loanColumns+` FROM loans WHERE id=?`, id)
	if err != nil {
		return Loan{}, false, ignoreNoRows(err)
	}
	return r.loan(), true, nil
}

func (d *Database) Loans() ([]Loan, error) {
	var rows []loanRow
	if err := d.db.Select(&rows, `SELECT `+loanColumns+` FROM loans ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "list loans")
	}
	loans := make([]Loan, 0, len(rows))
	for _, r := range rows {
		loans = append(loans, r.loan())
	}
	return loans, nil
}

func found(err error) bool { return err == nil }

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
