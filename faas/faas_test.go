package faas_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/amp-labs/amp-otel/faas"
	"github.com/amp-labs/amp-otel/spans"
)

func newRecordingContext(t *testing.T) (context.Context, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	})

	return spans.WithTracer(context.Background(), provider.Tracer("test")), exporter
}

func coldstartAttr(span tracetest.SpanStub) (bool, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == attribute.Key("faas.coldstart") {
			return kv.Value.AsBool(), true
		}
	}

	return false, false
}

func TestWrap(t *testing.T) { //nolint:paralleltest // coldstart state is process-wide
	ctx, exporter := newRecordingContext(t)

	type event struct{ Name string }

	handler := faas.Wrap("greet",
		func(_ context.Context, ev event) (string, error) {
			return "hello " + ev.Name, nil
		},
		faas.WithTrigger(faas.TriggerHTTP))

	value, err := handler(ctx, event{Name: "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", value)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, "greet", exported[0].Name)
	assert.Equal(t, trace.SpanKindServer, exported[0].SpanKind)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)

	cold, found := coldstartAttr(exported[0])
	require.True(t, found)
	assert.True(t, cold)

	// Second invocation in the same process is warm.
	_, err = handler(ctx, event{Name: "again"})
	require.NoError(t, err)

	exported = exporter.GetSpans()
	require.Len(t, exported, 2)

	cold, found = coldstartAttr(exported[1])
	require.True(t, found)
	assert.False(t, cold)
}

func TestWrapErrorPassthrough(t *testing.T) { //nolint:paralleltest // coldstart state is process-wide
	ctx, exporter := newRecordingContext(t)

	errHandler := errors.New("handler failed")

	handler := faas.Wrap("failing",
		func(context.Context, struct{}) (int, error) {
			return 0, errHandler
		})

	_, err := handler(ctx, struct{}{})
	require.ErrorIs(t, err, errHandler)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Error, exported[0].Status.Code)
}
