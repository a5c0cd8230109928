package api

import (
	"context"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

// BookStore is what the HTTP handlers need from a book store.
// memengine.BookStore implements it.
type BookStore interface {
	Create(ctx context.Context, fields bookstore.BookFields) (bookstore.BookIDString, error)
	List(ctx context.Context, filter bookstore.ListFilter) ([]bookstore.BookSummary, error)
	Get(ctx context.Context, id bookstore.BookIDString) (bookstore.Book, error)
	Update(ctx context.Context, id bookstore.BookIDString, fields bookstore.BookFields) error
	Delete(ctx context.Context, id bookstore.BookIDString) error
	Len() int
}
