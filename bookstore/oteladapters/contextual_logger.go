// Package oteladapters provides OpenTelemetry adapters for the bookstore observability interfaces.
// They let the BookStore report spans, metrics and logs to OpenTelemetry without any glue code.
package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const (
	logAttrTraceID = "trace_id"
	logAttrSpanID  = "span_id"
)

// SlogBridgeLogger implements bookstore.ContextualLogger on top of a *slog.Logger.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLoggerWithHandler creates a contextual logger that writes to the given handler as-is.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

// NewTeeSlogBridgeLogger creates a contextual logger that writes to the given handler
// and to the OpenTelemetry slog bridge at the same time.
// Bridged records carry the span of the logging context, so exported logs are correlated with traces.
func NewTeeSlogBridgeLogger(name string, provider log.LoggerProvider, handler slog.Handler) *SlogBridgeLogger {
	bridge := otelslog.NewHandler(name, otelslog.WithLoggerProvider(provider))

	return &SlogBridgeLogger{logger: slog.New(NewTeeHandler(handler, bridge))}
}

// DebugContext logs a debug message with context.
func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

// InfoContext logs an info message with context.
func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

// WarnContext logs a warning message with context.
func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

var _ bookstore.ContextualLogger = (*SlogBridgeLogger)(nil)
