package memengine

import (
	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

// Logger is the basic logger used by the BookStore.
type Logger = bookstore.Logger

// ContextualLogger is the context-aware logger used by the BookStore.
type ContextualLogger = bookstore.ContextualLogger

// MetricsCollector receives the BookStore metrics.
type MetricsCollector = bookstore.MetricsCollector

// TracingCollector receives the BookStore tracing spans.
type TracingCollector = bookstore.TracingCollector

// SpanContext is an active tracing span.
type SpanContext = bookstore.SpanContext

// Option defines a functional option for configuring BookStore.
type Option func(*BookStore) error

// WithIDGenerator sets the generator for new book ids. The default is bookstore.NewUUIDv4.
func WithIDGenerator(generator bookstore.IDGenerator) Option {
	return func(s *BookStore) error {
		if generator == nil {
			return bookstore.ErrNilIDGenerator
		}

		s.newID = generator

		return nil
	}
}

// WithClock sets the clock used for the timestamps. The default is bookstore.SystemClock.
func WithClock(clock bookstore.Clock) Option {
	return func(s *BookStore) error {
		if clock == nil {
			return bookstore.ErrNilClock
		}

		s.now = clock

		return nil
	}
}

// WithMaxIDAttempts sets how often a new id is generated when it collides with a stored one.
// Once all attempts collide, Create fails with bookstore.ErrBookNotInserted.
func WithMaxIDAttempts(attempts int) Option {
	return func(s *BookStore) error {
		if attempts < 1 {
			return bookstore.ErrInvalidMaxIDAttempts
		}

		s.maxIDAttempts = attempts

		return nil
	}
}

// WithLogger sets the logger for the BookStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: Operation start with the operation name
// Info level: Completed operations with durations and rejected requests (validation, not found)
// Warn level: Id collisions
// Error level: Unexpected failures.
func WithLogger(logger Logger) Option {
	return func(s *BookStore) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the BookStore.
// The contextual logger receives the same messages as the Logger, together with the context,
// which enables trace correlation. When both are set, the contextual logger wins.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *BookStore) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the BookStore.
// It receives operation durations, error counts, id collisions and the number of stored books.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *BookStore) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the BookStore.
// It receives one span per operation with the outcome and error type.
func WithTracing(collector TracingCollector) Option {
	return func(s *BookStore) error {
		s.tracingCollector = collector
		return nil
	}
}
