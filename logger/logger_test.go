package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestLogger(t *testing.T) { //nolint:paralleltest
	// Configure logging for JSON output
	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
	})

	// Use logger with no args (will embed subsystem but nothing else)
	Get().Info("should have the default subsystem")

	// Use logger with an embedded request ID
	ctx := WithRequestId(t.Context(), "req-1234")
	Get(ctx).Info("should have request-id and default subsystem")

	// Use logger with an overridden subsystem
	ctx = WithSubsystem(t.Context(), "overridden")
	Get(ctx).Info("should have overridden subsystem")

	// Use logger with extra context values
	ctx = With(t.Context(), "connector", "salesforce")
	Get(ctx).Info("should have connector value")
}

func TestMuted(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		Output:    &buf,
	})

	Get(WithMuted(t.Context(), true)).Info("must not appear")
	assert.Empty(t, buf.String())

	Get(t.Context()).Info("must appear")
	assert.Contains(t, buf.String(), "must appear")
}

func TestAnnotateError(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		Output:    &buf,
	})

	errOops := errors.New("oops")

	annotated := AnnotateError(errOops, "operation", "flush")
	require.ErrorIs(t, annotated, errOops)

	slog.Error("operation failed", "error", annotated)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "oops", record["error"])
	assert.Equal(t, "flush", record["operation"])
}

func TestAnnotateErrorNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, AnnotateError(nil, "ignored", true))
}

func TestSpanContextEnrichment(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "test",
		JSON:      true,
		Output:    &buf,
	})

	traceID, err := trace.TraceIDFromHex("6856d52a9c4bf26ab4c7e30b3d2102f3")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("b4c7e30b3d2102f3")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(t.Context(),
		trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

	slog.InfoContext(ctx, "inside span")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, traceID.String(), record["trace_id"])
	assert.Equal(t, spanID.String(), record["span_id"])
}

func TestErrorAttrHandlerWithTestLogger(t *testing.T) {
	t.Parallel()

	log := slogt.New(t, slogt.Factory(func(w io.Writer) slog.Handler {
		return &errorAttrHandler{inner: slog.NewTextHandler(w, nil)}
	}))

	log.Error("annotated", "error",
		AnnotateError(errors.New("oops"), "attempt", 3))
}
