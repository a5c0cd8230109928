// Package memengine provides an in-memory implementation of the book store.
//
// The BookStore owns a single ordered collection of books. Insertion order is preserved
// and observable in list results. The collection starts empty and is lost when the process ends.
//
// Key features:
//   - Mutual exclusion for every read-modify-write (create, update, delete)
//   - Shared read access for list and get
//   - Injectable id generator and clock for deterministic tests
//   - Optional logging, contextual logging, metrics and tracing
//
// Usage examples:
//
//	// Basic usage
//	store, _ := memengine.NewBookStore()
//
//	// With deterministic ids and observability
//	store, _ := memengine.NewBookStore(
//		memengine.WithIDGenerator(myGenerator),
//		memengine.WithLogger(slog.Default()),
//		memengine.WithMetrics(metricsCollector),
//		memengine.WithTracing(tracingCollector),
//	)
//
//	bookID, _ := store.Create(ctx, fields)
//	book, _ := store.Get(ctx, bookID)
package memengine
