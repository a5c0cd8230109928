// Package bookstore provides core abstractions and types for a store of book records
// with reading-progress metadata.
//
// This package defines the fundamental types used across different store implementations,
// including the book record, the writable fields, list filters, identity capabilities
// and common error definitions.
//
// A book's "finished" flag is derived from its page data on every write:
//
//	finished == (readPage == pageCount)
//
// Key types:
//   - Book: A stored book record
//   - BookFields: The writable fields supplied by clients on create and update
//   - BookSummary: The reduced projection returned by list operations
//   - ListFilter: Criteria for listing books (name substring, reading, finished)
//
// Common usage pattern:
//
//	filter := BuildListFilter().
//		WithNameContaining("war").
//		WithReading(FlagTrue).
//		Finalize()
//
//	summaries, err := store.List(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	bookID, err := store.Create(ctx, fields)
package bookstore
