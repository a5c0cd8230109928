package memengine

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const (
	defaultMaxIDAttempts = 3
	logMsgBookCreated    = "book created"
	logMsgBooksListed    = "books listed"
	logMsgBookFetched    = "book fetched"
	logMsgBookUpdated    = "book updated"
	logMsgBookDeleted    = "book deleted"
	logMsgIDCollision    = "generated book id collides with a stored book"
	logMsgIDsExhausted   = "no unique book id after max attempts"
	logMsgRejected       = "bookstore operation rejected"
	logMsgFailed         = "bookstore operation failed"
	logMsgStarted        = "bookstore operation started"
	logMsgOperation      = "bookstore operation: "
	logAttrError         = "error"
	logAttrErrorType     = "error_type"
	logAttrOperation     = "operation"
	logAttrBookID        = "book_id"
	logAttrBookCount     = "book_count"
	logAttrBooksStored   = "books_stored"
	logAttrDurationMS    = "duration_ms"
	logAttrAttempt       = "attempt"
	logAttrMaxAttempts   = "max_attempts"
	logAttrFiltered      = "filtered"
	operationCreate      = "create"
	operationList        = "list"
	operationGet         = "get"
	operationUpdate      = "update"
	operationDelete      = "delete"
)

// BookStore is the in-memory book store.
//
// It owns the ordered collection of books exclusively: every method copies books in and out,
// so callers can never mutate the collection without holding the lock.
// The zero value is not usable, construct it with NewBookStore.
type BookStore struct {
	mu    sync.RWMutex
	books bookstore.Books

	newID         bookstore.IDGenerator
	now           bookstore.Clock
	maxIDAttempts int

	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewBookStore creates a new, empty BookStore with optional configuration.
func NewBookStore(options ...Option) (*BookStore, error) {
	s := &BookStore{
		books:         make(bookstore.Books, 0),
		newID:         bookstore.NewUUIDv4,
		now:           bookstore.SystemClock,
		maxIDAttempts: defaultMaxIDAttempts,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Create validates the fields, stores a new book at the end of the collection and returns its id.
//
// Validation errors are bookstore.ErrMissingName and bookstore.ErrReadPageExceedsPageCount.
// If no unique id could be generated, bookstore.ErrBookNotInserted is returned.
// A failed Create never mutates the collection.
func (s *BookStore) Create(ctx context.Context, fields bookstore.BookFields) (bookstore.BookIDString, error) {
	observer, ctx := s.startOperation(ctx, operationCreate, nil)

	if err := ctx.Err(); err != nil {
		return "", observer.finishError(err)
	}

	if err := fields.Validate(); err != nil {
		return "", observer.finishError(err)
	}

	book, stored, err := s.insert(ctx, fields)
	if err != nil {
		return "", observer.finishError(err)
	}

	observer.recordStored(stored)
	observer.finishSuccess(
		logMsgBookCreated,
		map[string]string{logAttrBookID: book.ID},
		logAttrBookID, book.ID,
		logAttrBooksStored, stored,
	)

	return book.ID, nil
}

// insert generates a unique id and appends the new book while holding the write lock.
func (s *BookStore) insert(ctx context.Context, fields bookstore.BookFields) (bookstore.Book, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueIDLocked(ctx)
	if err != nil {
		return bookstore.Book{}, len(s.books), err
	}

	book := bookstore.NewBook(id, fields, s.now())
	s.books = append(s.books, book)

	return book, len(s.books), nil
}

// uniqueIDLocked returns an id that no stored book uses. The caller must hold the write lock.
func (s *BookStore) uniqueIDLocked(ctx context.Context) (bookstore.BookIDString, error) {
	for attempt := 1; attempt <= s.maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && s.indexOfLocked(id) == -1 {
			return id, nil
		}

		s.recordIDCollision(ctx, attempt)
	}

	s.logWarn(ctx, logMsgIDsExhausted, logAttrMaxAttempts, s.maxIDAttempts)

	return "", bookstore.ErrBookNotInserted
}

// List returns the summaries of all books matching the filter, in collection order.
// The result is never nil, no match yields an empty slice.
func (s *BookStore) List(ctx context.Context, filter bookstore.ListFilter) ([]bookstore.BookSummary, error) {
	observer, ctx := s.startOperation(ctx, operationList, listFilterAttrs(filter))

	if err := ctx.Err(); err != nil {
		return nil, observer.finishError(err)
	}

	s.mu.RLock()
	summaries := make([]bookstore.BookSummary, 0, len(s.books))
	for _, book := range s.books {
		if filter.Matches(book) {
			summaries = append(summaries, book.Summarize())
		}
	}
	s.mu.RUnlock()

	observer.recordListed(len(summaries))
	observer.finishSuccess(
		logMsgBooksListed,
		map[string]string{logAttrBookCount: strconv.Itoa(len(summaries))},
		logAttrBookCount, len(summaries),
		logAttrFiltered, !filter.IsEmpty(),
	)

	return summaries, nil
}

// Get returns a copy of the book with the given id or bookstore.ErrBookNotFound.
func (s *BookStore) Get(ctx context.Context, id bookstore.BookIDString) (bookstore.Book, error) {
	observer, ctx := s.startOperation(ctx, operationGet, map[string]string{logAttrBookID: id})

	if err := ctx.Err(); err != nil {
		return bookstore.Book{}, observer.finishError(err)
	}

	s.mu.RLock()
	idx := s.indexOfLocked(id)
	var book bookstore.Book
	if idx != -1 {
		book = s.books[idx]
	}
	s.mu.RUnlock()

	if idx == -1 {
		return bookstore.Book{}, observer.finishError(bookstore.ErrBookNotFound)
	}

	observer.finishSuccess(logMsgBookFetched, nil, logAttrBookID, id)

	return book, nil
}

// Update replaces all writable fields of the book with the given id, in place.
//
// The incoming fields are validated before the book is looked up, so a request that is
// both invalid and addressed to an unknown id fails with the validation error.
// The book keeps its id, InsertedAt and position; UpdatedAt is refreshed and Finished derived again.
func (s *BookStore) Update(ctx context.Context, id bookstore.BookIDString, fields bookstore.BookFields) error {
	observer, ctx := s.startOperation(ctx, operationUpdate, map[string]string{logAttrBookID: id})

	if err := ctx.Err(); err != nil {
		return observer.finishError(err)
	}

	if err := fields.Validate(); err != nil {
		return observer.finishError(err)
	}

	if err := s.replace(id, fields); err != nil {
		return observer.finishError(err)
	}

	observer.finishSuccess(logMsgBookUpdated, nil, logAttrBookID, id)

	return nil
}

// replace applies the fields to the stored book while holding the write lock.
func (s *BookStore) replace(id bookstore.BookIDString, fields bookstore.BookFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx == -1 {
		return bookstore.ErrBookNotFound
	}

	s.books[idx] = s.books[idx].Apply(fields, s.now())

	return nil
}

// Delete removes the book with the given id, preserving the order of the remaining books.
func (s *BookStore) Delete(ctx context.Context, id bookstore.BookIDString) error {
	observer, ctx := s.startOperation(ctx, operationDelete, map[string]string{logAttrBookID: id})

	if err := ctx.Err(); err != nil {
		return observer.finishError(err)
	}

	stored, err := s.remove(id)
	if err != nil {
		return observer.finishError(err)
	}

	observer.recordStored(stored)
	observer.finishSuccess(
		logMsgBookDeleted,
		nil,
		logAttrBookID, id,
		logAttrBooksStored, stored,
	)

	return nil
}

// remove deletes the stored book while holding the write lock and returns the new collection size.
func (s *BookStore) remove(id bookstore.BookIDString) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx == -1 {
		return len(s.books), bookstore.ErrBookNotFound
	}

	s.books = slices.Delete(s.books, idx, idx+1)

	return len(s.books), nil
}

// Len returns the number of stored books.
func (s *BookStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.books)
}

// indexOfLocked returns the position of the book with the given id or -1. The caller must hold a lock.
func (s *BookStore) indexOfLocked(id bookstore.BookIDString) int {
	return slices.IndexFunc(s.books, func(b bookstore.Book) bool {
		return b.ID == id
	})
}
