package api

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	logMsgRequestServed = "http request served"
	logMsgRequestFailed = "http request failed"
	logMsgPanic         = "recovered from panic while handling request"

	spanAttrMethod     = "http.request.method"
	spanAttrRoute      = "http.route"
	spanAttrPath       = "url.path"
	spanAttrStatusCode = "http.response.status_code"
)

// recovery turns a panic into a 500 fail response carrying the panic text.
func (r *router) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		message := fmt.Sprint(recovered)
		if err, ok := recovered.(error); ok {
			message = err.Error()
		}

		r.logError(c.Request.Context(), logMsgPanic,
			logAttrPanic, message,
			logAttrMethod, c.Request.Method,
			logAttrPath, c.Request.URL.Path,
		)

		renderJSON(c, http.StatusInternalServerError, failEnvelope(message))
		c.Abort()
	})
}

// tracing starts a server span per request and stores it in the request context.
func (r *router) tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		spanName := c.Request.Method
		if route != "" {
			spanName += " " + route
		}

		ctx, span := r.tracer.Start(
			c.Request.Context(),
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String(spanAttrMethod, c.Request.Method),
				attribute.String(spanAttrRoute, route),
				attribute.String(spanAttrPath, c.Request.URL.Path),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int(spanAttrStatusCode, status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// requestLogging logs every request after it was handled. 5xx responses are logged as errors.
func (r *router) requestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		args := []any{
			logAttrMethod, c.Request.Method,
			logAttrPath, c.Request.URL.Path,
			logAttrRoute, c.FullPath(),
			logAttrStatus, status,
			logAttrDurationMS, toMilliseconds(time.Since(start)),
			logAttrClientIP, c.ClientIP(),
		}

		if status >= http.StatusInternalServerError {
			r.logError(c.Request.Context(), logMsgRequestFailed, args...)
			return
		}

		r.logInfo(c.Request.Context(), logMsgRequestServed, args...)
	}
}

// cors allows cross-origin calls and answers preflight requests directly.
func (r *router) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", r.allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
