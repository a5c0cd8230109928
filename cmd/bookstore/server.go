package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/bookstore-go/api"
	"github.com/AntonStoeckl/bookstore-go/bookstore"
	"github.com/AntonStoeckl/bookstore-go/bookstore/memengine"
	"github.com/AntonStoeckl/bookstore-go/bookstore/oteladapters"
	"github.com/AntonStoeckl/bookstore-go/config"
)

const instrumentationName = "github.com/AntonStoeckl/bookstore-go"

// serve listens on cfg.HTTPAddr and runs the API until ctx ends.
func serve(ctx context.Context, cfg config.Config, logOutput io.Writer) error {
	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}

	return run(ctx, cfg, listener, logOutput)
}

// run wires telemetry, store and router and serves HTTP on listener until ctx ends.
// On shutdown, in-flight requests get cfg.ShutdownTimeout to finish before telemetry is flushed.
func run(ctx context.Context, cfg config.Config, listener net.Listener, logOutput io.Writer) (err error) {
	handler, err := cfg.NewLogHandler(logOutput)
	if err != nil {
		return err
	}
	logger := slog.New(handler)

	providers, err := cfg.SetupObservability(ctx, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown telemetry: %w", shutdownErr))
		}
	}()

	engine, store, err := newEngine(cfg, handler, providers)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	logger.Info("bookstore listening",
		"addr", listener.Addr().String(),
		"version", version,
		"id_format", cfg.IDFormat,
		"otel_enabled", providers.Enabled,
	)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logger.Info("bookstore shutting down", "books_stored", store.Len())

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}

		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve http: %w", err)
	}
}

// newEngine builds the BookStore and the gin engine serving it.
func newEngine(cfg config.Config, handler slog.Handler, providers *config.ObservabilityProviders) (*gin.Engine, *memengine.BookStore, error) {
	idGenerator, err := cfg.IDGenerator()
	if err != nil {
		return nil, nil, err
	}

	var contextualLogger bookstore.ContextualLogger = oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	if providers.Enabled {
		contextualLogger = oteladapters.NewTeeSlogBridgeLogger(instrumentationName, providers.LoggerProvider, handler)
	}

	storeOptions := []memengine.Option{
		memengine.WithIDGenerator(idGenerator),
		memengine.WithMaxIDAttempts(cfg.MaxIDAttempts),
		memengine.WithContextualLogger(contextualLogger),
	}

	routerOptions := []api.Option{
		api.WithContextualLogger(contextualLogger),
		api.WithAllowedOrigin(cfg.AllowedOrigin),
	}

	if providers.Enabled {
		tracer := providers.TracerProvider.Tracer(instrumentationName)

		storeOptions = append(storeOptions,
			memengine.WithMetrics(oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(instrumentationName))),
			memengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
		)
		routerOptions = append(routerOptions, api.WithTracer(tracer))
	}

	store, err := memengine.NewBookStore(storeOptions...)
	if err != nil {
		return nil, nil, err
	}

	gin.SetMode(gin.ReleaseMode)

	engine, err := api.NewRouter(store, routerOptions...)
	if err != nil {
		return nil, nil, err
	}

	return engine, store, nil
}
