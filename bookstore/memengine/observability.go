package memengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const (
	// MetricOperationDuration tracks the duration of every BookStore operation (seconds).
	MetricOperationDuration = "bookstore_operation_duration_seconds"

	// MetricOperationErrors counts failed BookStore operations by error type.
	MetricOperationErrors = "bookstore_operation_errors_total"

	// MetricIDCollisions counts generated ids that collided with a stored book.
	MetricIDCollisions = "bookstore_id_collisions_total"

	// MetricBooksStored records the number of stored books after each write.
	MetricBooksStored = "bookstore_books_stored"

	// MetricBooksListed records the number of books returned by a list operation.
	MetricBooksListed = "bookstore_books_listed"

	// SpanNamePrefix is prepended to the operation name to form the span name, e.g. "bookstore.create".
	SpanNamePrefix = "bookstore."

	// StatusSuccess marks an operation that completed.
	StatusSuccess = "success"

	// StatusError marks an operation that failed with a store or validation error.
	StatusError = "error"

	// StatusCanceled marks an operation whose context was canceled.
	StatusCanceled = "canceled"

	// StatusTimeout marks an operation whose context deadline was exceeded.
	StatusTimeout = "timeout"

	// ErrorTypeValidation labels missing name and readPage > pageCount failures.
	ErrorTypeValidation = "validation"

	// ErrorTypeNotFound labels lookups of an unknown book id.
	ErrorTypeNotFound = "not_found"

	// ErrorTypeNotInserted labels creates that found no unique id.
	ErrorTypeNotInserted = "not_inserted"

	// ErrorTypeCanceled labels operations ended by a canceled context.
	ErrorTypeCanceled = "context_canceled"

	// ErrorTypeTimeout labels operations ended by an exceeded deadline.
	ErrorTypeTimeout = "context_deadline_exceeded"

	// ErrorTypeOther labels every unclassified error.
	ErrorTypeOther = "other"

	spanAttrOperation     = "operation"
	spanAttrFilterName    = "filter_name"
	spanAttrFilterReading = "filter_reading"
	spanAttrFilterFinish  = "filter_finished"
	spanAttrStatus        = "status"
	spanAttrErrorType     = "error_type"
	spanAttrDurationMS    = "duration_ms"
	metricLabelAttempt    = "attempt"
	metricLabelStatus     = "status"
	metricLabelOperation  = "operation"
	metricLabelErrorClass = "error_type"
)

// === Operation Observer Pattern ===
// The observer bundles tracing, metrics and logging for a single BookStore operation.

// operationObserver encapsulates the observability lifecycle of one operation.
type operationObserver struct {
	s         *BookStore
	ctx       context.Context
	operation string
	span      SpanContext
	start     time.Time
}

// startOperation starts the tracing span and the timer for an operation.
func (s *BookStore) startOperation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*operationObserver, context.Context) {

	spanAttrs := map[string]string{spanAttrOperation: operation}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	newCtx, span := s.startTraceSpan(ctx, SpanNamePrefix+operation, spanAttrs)
	s.logDebug(newCtx, logMsgStarted, logAttrOperation, operation)

	return &operationObserver{
		s:         s,
		ctx:       newCtx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, newCtx
}

// finishSuccess records metrics, finishes the span and logs the completed operation.
func (o *operationObserver) finishSuccess(message string, spanAttrs map[string]string, logArgs ...any) {
	duration := time.Since(o.start)

	o.s.recordDurationMetrics(o.ctx, o.operation, StatusSuccess, duration)

	attrs := map[string]string{spanAttrDurationMS: formatDurationMS(duration)}
	for key, value := range spanAttrs {
		attrs[key] = value
	}
	o.s.finishTraceSpan(o.span, StatusSuccess, attrs)

	args := append([]any{logAttrDurationMS, toMilliseconds(duration)}, logArgs...)
	o.s.logInfo(o.ctx, logMsgOperation+message, args...)
}

// finishError records metrics, finishes the span and logs the failed operation.
// It returns err unchanged so that callers can return it directly.
func (o *operationObserver) finishError(err error) error {
	duration := time.Since(o.start)
	status, errorType := classifyError(err)

	o.s.recordDurationMetrics(o.ctx, o.operation, status, duration)
	o.s.recordErrorMetrics(o.ctx, o.operation, status, errorType)
	o.s.finishTraceSpan(o.span, status, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatDurationMS(duration),
	})

	args := []any{
		logAttrOperation, o.operation,
		logAttrErrorType, errorType,
		logAttrError, err.Error(),
		logAttrDurationMS, toMilliseconds(duration),
	}

	switch errorType {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeCanceled, ErrorTypeTimeout:
		o.s.logInfo(o.ctx, logMsgRejected, args...)
	default:
		o.s.logError(o.ctx, logMsgFailed, args...)
	}

	return err
}

// recordStored records the collection size after a write.
func (o *operationObserver) recordStored(stored int) {
	o.s.recordValueMetrics(o.ctx, MetricBooksStored, float64(stored), o.operation, StatusSuccess)
}

// recordListed records the number of books a list operation returned.
func (o *operationObserver) recordListed(count int) {
	o.s.recordValueMetrics(o.ctx, MetricBooksListed, float64(count), o.operation, StatusSuccess)
}

// listFilterAttrs describes the criteria of a list operation, nil for an unfiltered list.
func listFilterAttrs(filter bookstore.ListFilter) map[string]string {
	if filter.IsEmpty() {
		return nil
	}

	return map[string]string{
		spanAttrFilterName:    filter.NameContains(),
		spanAttrFilterReading: filter.Reading().String(),
		spanAttrFilterFinish:  filter.Finished().String(),
	}
}

// classifyError maps an error to the status and error type used in metrics, spans and logs.
func classifyError(err error) (string, string) {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusCanceled, ErrorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout, ErrorTypeTimeout
	case bookstore.IsValidationError(err):
		return StatusError, ErrorTypeValidation
	case errors.Is(err, bookstore.ErrBookNotFound):
		return StatusError, ErrorTypeNotFound
	case errors.Is(err, bookstore.ErrBookNotInserted):
		return StatusError, ErrorTypeNotInserted
	default:
		return StatusError, ErrorTypeOther
	}
}

// recordIDCollision counts and logs a generated id that was already taken.
func (s *BookStore) recordIDCollision(ctx context.Context, attempt int) {
	s.logWarn(ctx, logMsgIDCollision, logAttrAttempt, attempt, logAttrMaxAttempts, s.maxIDAttempts)

	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelOperation: operationCreate,
		metricLabelAttempt:   strconv.Itoa(attempt),
	}

	if contextualCollector, ok := s.metricsCollector.(bookstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, MetricIDCollisions, labels)
	} else {
		s.metricsCollector.IncrementCounter(MetricIDCollisions, labels)
	}
}

// recordDurationMetrics records duration metrics with context if the collector supports it.
func (s *BookStore) recordDurationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelOperation: operation,
		metricLabelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(bookstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, MetricOperationDuration, duration, labels)
	} else {
		s.metricsCollector.RecordDuration(MetricOperationDuration, duration, labels)
	}
}

// recordErrorMetrics records error metrics with context if the collector supports it.
func (s *BookStore) recordErrorMetrics(ctx context.Context, operation, status, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelOperation:  operation,
		metricLabelStatus:     status,
		metricLabelErrorClass: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(bookstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, MetricOperationErrors, labels)
	} else {
		s.metricsCollector.IncrementCounter(MetricOperationErrors, labels)
	}
}

// recordValueMetrics records value metrics with context if the collector supports it.
func (s *BookStore) recordValueMetrics(ctx context.Context, metricName string, value float64, operation, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelOperation: operation,
		metricLabelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(bookstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		s.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (s *BookStore) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, SpanContext) {

	if s.tracingCollector != nil {
		return s.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (s *BookStore) finishTraceSpan(span SpanContext, status string, attrs map[string]string) {
	if s.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	span.AddAttribute(spanAttrStatus, status)
	s.tracingCollector.FinishSpan(span, status, attrs)
}

// === Logging ===
// The contextual logger wins over the basic logger when both are configured.

func (s *BookStore) logDebug(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *BookStore) logInfo(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *BookStore) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *BookStore) logError(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, args...)
	} else if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// formatDurationMS formats duration in milliseconds for span attributes.
func formatDurationMS(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}
