package library

// BookModel wraps a book's state. Once added to a LibraryManager the manager
// keeps its own copy; later changes to the model are not seen by the library.
type BookModel struct {
	book Book
}

// NewBook creates an available book with a fresh id.
func NewBook(title, author, isbn string, category Category) *BookModel {
	return &BookModel{book: Book{
		ID:        GenerateID(),
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Available: true,
		Category:  category,
	}}
}

// Details returns a copy of the book.
func (m *BookModel) Details() Book { return m.book }

// SetAvailability sets the availability flag without any checks.
func (m *BookModel) SetAvailability(available bool) { m.book.Available = available }
