// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name string
		set  func(context.Context, string) context.Context
		get  func(context.Context) string
	}{
		{name: "request", set: ContextWithRequestID, get: RequestIDFromContext},
		{name: "correlation", set: ContextWithCorrelationID, get: CorrelationIDFromContext},
		{name: "reload", set: ContextWithReloadID, get: ReloadIDFromContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract
			assert.Equal(t, "id-1", tt.get(tt.set(nil, "id-1")))
			assert.Equal(t, "id-2", tt.get(tt.set(context.Background(), "id-2")))
			assert.Empty(t, tt.get(context.Background()))
			//nolint:staticcheck // nil context is part of the contract
			assert.Empty(t, tt.get(nil))
		})
	}
}

func TestRequestIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, 123)
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestWithContext_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	ctx = ContextWithReloadID(ctx, "reload-456")
	enriched := WithContext(ctx, l)
	enriched.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry[FieldRequestID])
	assert.Equal(t, "reload-456", entry[FieldReloadID])
}

func TestWithContext_EmptyContextKeepsLogger(t *testing.T) {
	l := WithComponent("test")
	got := WithContext(context.Background(), l)
	assert.Equal(t, l.GetLevel(), got.GetLevel())
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	Reconfigure(Config{Output: &buf, Level: "info"})
	defer Reconfigure(Config{})

	var inner *zerolog.Logger
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/config", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "req-9"))
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, inner)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request.handled", entry[FieldEvent])
	assert.Equal(t, "api", entry[FieldComponent])
	assert.Equal(t, "req-9", entry[FieldRequestID])
	assert.Equal(t, "/v1/config", entry[FieldPath])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}

func TestWithTraceContext(t *testing.T) {
	noopTracer := noop.NewTracerProvider().Tracer("test")
	ctx, span := noopTracer.Start(context.Background(), "test-span")
	defer span.End()
	_ = WithTraceContext(ctx)

	t.Run("valid span", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

		var buf bytes.Buffer
		Reconfigure(Config{Output: &buf, Level: "info"})
		defer Reconfigure(Config{})

		logger := WithTraceContext(ctx)
		logger.Info().Msg("test with trace")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
		assert.Equal(t, "confj", entry[FieldService])
	})
}
