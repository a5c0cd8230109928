package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
	"github.com/AntonStoeckl/bookstore-go/bookstore/memengine"
	"github.com/AntonStoeckl/bookstore-go/bookstore/oteladapters"
	"github.com/AntonStoeckl/bookstore-go/testutil/helper"
)

func newInMemoryTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	collector, exporter := newInMemoryTracingCollector()

	ctx, spanCtx := collector.StartSpan(context.Background(), "bookstore.get", map[string]string{
		"operation": "get",
		"book_id":   "book-1",
	})
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "returned context should carry the span")

	collector.FinishSpan(spanCtx, "success", map[string]string{"duration_ms": "0.12"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "bookstore.get", spans[0].Name)
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "operation", "get")
	assertSpanHasAttribute(t, spans[0], "book_id", "book-1")
	assertSpanHasAttribute(t, spans[0], "duration_ms", "0.12")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Error},
		{status: "timeout", expectedCode: codes.Error},
		{status: "something_else", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			collector, exporter := newInMemoryTracingCollector()

			_, spanCtx := collector.StartSpan(context.Background(), "bookstore.list", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContexts(t *testing.T) {
	collector, exporter := newInMemoryTracingCollector()

	assert.NotPanics(t, func() {
		collector.FinishSpan(&helper.SpySpanContext{}, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}

func Test_TracingCollector_WiredIntoBookStore(t *testing.T) {
	// setup
	ctx := context.Background()
	collector, exporter := newInMemoryTracingCollector()
	store, err := memengine.NewBookStore(memengine.WithTracing(collector))
	require.NoError(t, err)

	// act
	id, err := store.Create(ctx, helper.FixtureBookFields("Dune", 10, 1, true))
	require.NoError(t, err)
	err = store.Update(ctx, id, helper.FixtureBookFields("Dune", 10, 11, true))
	require.ErrorIs(t, err, bookstore.ErrReadPageExceedsPageCount)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, memengine.SpanNamePrefix+"create", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "book_id", id)

	assert.Equal(t, memengine.SpanNamePrefix+"update", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assertSpanHasAttribute(t, spans[1], "error_type", memengine.ErrorTypeValidation)
	assertSpanHasAttribute(t, spans[1], "status", memengine.StatusError)
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == expectedValue {
			return
		}
	}

	assert.Fail(t, "span attribute missing", "span %s should have attribute %s=%s", span.Name, key, expectedValue)
}
