package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

var (
	// ErrNilBookStore is returned when NewRouter is called without a store.
	ErrNilBookStore = errors.New("nil book store supplied")

	// ErrEmptyAllowedOrigin is returned when WithAllowedOrigin is called with an empty origin.
	ErrEmptyAllowedOrigin = errors.New("empty allowed origin supplied")
)

// router holds the handler dependencies. Its methods are the gin handlers and middleware.
type router struct {
	store         BookStore
	allowedOrigin string

	logger           bookstore.Logger
	contextualLogger bookstore.ContextualLogger
	tracer           trace.Tracer
}

// NewRouter builds the gin.Engine serving the book routes on top of store.
//
// The engine is created with gin.New, so only this package's middleware runs:
// panic recovery, optional request tracing, request logging and CORS.
func NewRouter(store BookStore, options ...Option) (*gin.Engine, error) {
	if store == nil {
		return nil, ErrNilBookStore
	}

	r := &router{
		store:         store,
		allowedOrigin: defaultAllowedOrigin,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	engine := gin.New()
	engine.Use(r.recovery())

	if r.tracer != nil {
		engine.Use(r.tracing())
	}

	engine.Use(r.requestLogging(), r.cors())

	books := engine.Group("/books")
	{
		books.POST("", r.createBook)
		books.GET("", r.listBooks)
		books.GET("/:id", r.getBook)
		books.PUT("/:id", r.updateBook)
		books.DELETE("/:id", r.deleteBook)
	}

	engine.GET("/healthz", r.healthz)
	engine.NoRoute(r.routeNotFound)

	return engine, nil
}
