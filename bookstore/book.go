package bookstore

import (
	"time"
)

// BookIDString is a type alias for string, representing the opaque id of a Book.
type BookIDString = string

// Book is a stored book record together with its reading-progress metadata.
//
// Year is free-form: whatever value the client supplied is stored and returned unchanged,
// nil if it supplied none.
// Finished is derived from ReadPage and PageCount whenever the Book is written,
// it can't be set independently. Books should only be constructed with NewBook
// and mutated with Apply so that the derived field and the timestamps stay consistent.
type Book struct {
	ID         BookIDString
	Name       string
	Year       any
	Author     string
	Summary    string
	Publisher  string
	PageCount  int
	ReadPage   int
	Finished   bool
	Reading    bool
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Books is an alias type for a slice of Book.
type Books = []Book

// BookFields holds the client-writable fields of a Book.
//
// Name is a pointer so that an absent (or null) name can be told apart from an empty one.
// Year is free-form, see Book. All other fields are optional, absent values are their zero values.
type BookFields struct {
	Name      *string
	Year      any
	Author    string
	Summary   string
	Publisher string
	PageCount int
	ReadPage  int
	Reading   bool
}

// BookSummary is the reduced projection of a Book returned by list operations.
type BookSummary struct {
	ID        BookIDString
	Name      string
	Publisher string
}

// Validate checks the fields in this order:
//   - ErrMissingName if Name is nil
//   - ErrReadPageExceedsPageCount if ReadPage > PageCount
func (f BookFields) Validate() error {
	if f.Name == nil {
		return ErrMissingName
	}

	if f.ReadPage > f.PageCount {
		return ErrReadPageExceedsPageCount
	}

	return nil
}

// NewBook is a factory method for Book.
//
// It stamps InsertedAt and UpdatedAt with now and derives Finished.
// The fields are expected to be validated already.
func NewBook(id BookIDString, fields BookFields, now time.Time) Book {
	book := Book{
		ID:         id,
		InsertedAt: now,
	}

	return book.Apply(fields, now)
}

// Apply returns a copy of the Book with all writable fields replaced by fields.
//
// ID and InsertedAt are kept, UpdatedAt is set to now and Finished is derived again.
func (b Book) Apply(fields BookFields, now time.Time) Book {
	if fields.Name != nil {
		b.Name = *fields.Name
	}

	b.Year = fields.Year
	b.Author = fields.Author
	b.Summary = fields.Summary
	b.Publisher = fields.Publisher
	b.PageCount = fields.PageCount
	b.ReadPage = fields.ReadPage
	b.Reading = fields.Reading
	b.Finished = fields.ReadPage == fields.PageCount
	b.UpdatedAt = now

	return b
}

// Summarize returns the BookSummary projection of the Book.
func (b Book) Summarize() BookSummary {
	return BookSummary{
		ID:        b.ID,
		Name:      b.Name,
		Publisher: b.Publisher,
	}
}

// StringPtr returns a pointer to s, handy for building BookFields.
func StringPtr(s string) *string {
	return &s
}
