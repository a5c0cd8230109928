package api

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

const defaultAllowedOrigin = "*"

// Option defines a functional option for configuring the router.
type Option func(*router) error

// WithLogger sets the logger for request and error logging.
func WithLogger(logger bookstore.Logger) Option {
	return func(r *router) error {
		r.logger = logger

		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It wins over the logger set with WithLogger.
func WithContextualLogger(logger bookstore.ContextualLogger) Option {
	return func(r *router) error {
		r.contextualLogger = logger

		return nil
	}
}

// WithTracer starts a server span for every request.
// The span travels in the request context, so BookStore spans become its children.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *router) error {
		r.tracer = tracer

		return nil
	}
}

// WithAllowedOrigin sets the value of the Access-Control-Allow-Origin header. The default is "*".
func WithAllowedOrigin(origin string) Option {
	return func(r *router) error {
		if origin == "" {
			return ErrEmptyAllowedOrigin
		}

		r.allowedOrigin = origin

		return nil
	}
}

func (r *router) logInfo(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, msg, args...)
	} else if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *router) logWarn(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, msg, args...)
	} else if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

func (r *router) logError(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, msg, args...)
	} else if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
