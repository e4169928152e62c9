package instrument_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/amp-labs/amp-otel/instrument"
	"github.com/amp-labs/amp-otel/spans"
)

var errNotFound = errors.New("not found")

func newTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	})

	return provider.Tracer("test"), exporter
}

func TestOperation_ResultPassthrough(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	op := instrument.NewOperation(spans.Internal("lookup").Tracer(tracer),
		func(context.Context) (string, error) {
			return "value", nil
		})

	value, err := op.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)
}

func TestOperation_ErrorPassthroughAndClassification(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	op := instrument.NewOperation(spans.Client("fetch").Tracer(tracer),
		func(context.Context) (int, error) {
			return 0, errNotFound
		}).
		Classify(func(_ int, err error) instrument.Outcome {
			return instrument.Error(err.Error(),
				attribute.String("error.type", "not_found"))
		})

	_, err := op.Run(context.Background())
	require.ErrorIs(t, err, errNotFound)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Error, exported[0].Status.Code)
	assert.Equal(t, "not found", exported[0].Status.Description)
	assert.Equal(t,
		[]attribute.KeyValue{attribute.String("error.type", "not_found")},
		exported[0].Attributes)
}

func TestOperation_SpanStartsAtRunTime(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	op := instrument.NewOperation(spans.Internal("deferred").Tracer(tracer),
		func(context.Context) (struct{}, error) {
			return struct{}{}, nil
		})

	time.Sleep(10 * time.Millisecond)
	require.Empty(t, exporter.GetSpans())

	before := time.Now()
	_, err := op.Run(context.Background())
	require.NoError(t, err)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.False(t, exported[0].StartTime.Before(before))
}

func TestOperation_InnerSeesSpanContext(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	var inner trace.SpanContext

	op := instrument.NewOperation(spans.Internal("outer").Tracer(tracer),
		func(ctx context.Context) (struct{}, error) {
			inner = trace.SpanContextFromContext(ctx)

			return struct{}{}, nil
		})

	_, err := op.Run(context.Background())
	require.NoError(t, err)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, exported[0].SpanContext.SpanID(), inner.SpanID())
}

func TestOperation_CancellationEndsSpanUnset(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	ctx, cancel := context.WithCancel(context.Background())

	op := instrument.NewOperation(spans.Internal("cancelled").Tracer(tracer),
		func(ctx context.Context) (int, error) {
			cancel()
			<-ctx.Done()

			return 0, ctx.Err()
		}).
		Classify(func(int, error) instrument.Outcome {
			return instrument.Error("classifier must not run",
				attribute.Bool("classified", true))
		})

	_, err := op.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Unset, exported[0].Status.Code)
	assert.Empty(t, exported[0].Attributes)
}

func TestOperation_PanicStillEndsSpan(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	op := instrument.NewOperation(spans.Internal("explodes").Tracer(tracer),
		func(context.Context) (int, error) {
			panic("boom")
		})

	assert.Panics(t, func() {
		_, _ = op.Run(context.Background())
	})

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Unset, exported[0].Status.Code)
}

func TestOperation_ClassifierPanicFallsBackToByError(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	op := instrument.NewOperation(spans.Internal("classified").Tracer(tracer),
		func(context.Context) (int, error) {
			return 7, nil
		}).
		Classify(func(int, error) instrument.Outcome {
			panic("bad classifier")
		})

	value, err := op.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, value)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)
}

func TestOperation_Go(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	fut := instrument.NewOperation(spans.Internal("async").Tracer(tracer),
		func(context.Context) (string, error) {
			return "async-value", nil
		}).
		Go(context.Background())

	value, err := fut.Await()
	require.NoError(t, err)
	assert.Equal(t, "async-value", value)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)
}

func TestOperation_GoCancelEndsSpanUnset(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	started := make(chan struct{})

	fut := instrument.NewOperation(spans.Internal("async-cancel").Tracer(tracer),
		func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()

			return 0, ctx.Err()
		}).
		Go(context.Background())

	<-started
	fut.Cancel()

	_, err := fut.Await()
	require.ErrorIs(t, err, context.Canceled)

	// The worker goroutine ends the span after the future unblocks.
	require.Eventually(t, func() bool {
		return len(exporter.GetSpans()) == 1
	}, time.Second, 5*time.Millisecond)

	exported := exporter.GetSpans()
	assert.Equal(t, codes.Unset, exported[0].Status.Code)
}

func TestInstrument_Shorthand(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	value, err := instrument.Instrument(context.Background(),
		spans.Internal("short").Tracer(tracer),
		func(context.Context) (int, error) {
			return 5, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 5, value)
	assert.Len(t, exporter.GetSpans(), 1)
}

func seqOf[T any](items []T, terminal error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}

		if terminal != nil {
			var zero T

			yield(zero, terminal)
		}
	}
}

func TestStream_OneSpanPerSequence(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	var total int

	stream := instrument.NewStream(spans.Client("scan").Tracer(tracer),
		seqOf([]int{1, 2, 3}, nil)).
		Each(func(item int) { total += item }).
		Classify(func(count int, err error) instrument.Outcome {
			require.NoError(t, err)

			return instrument.Ok(attribute.Int("items.count", count))
		})

	items, err := stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, items)
	assert.Equal(t, 6, total)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)
	assert.Equal(t,
		[]attribute.KeyValue{attribute.Int("items.count", 3)},
		exported[0].Attributes)
}

func TestStream_EmptySequenceStillEndsSpan(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	stream := instrument.NewStream(spans.Client("empty").Tracer(tracer),
		seqOf[int](nil, nil))

	items, err := stream.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Ok, exported[0].Status.Code)
}

func TestStream_ErrorEndsSpanBeforeConsumerSeesIt(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	stream := instrument.NewStream(spans.Client("failing").Tracer(tracer),
		seqOf([]int{1, 2}, errNotFound))

	var sawError bool

	for _, err := range stream.Items(context.Background()) {
		if err != nil {
			sawError = true

			assert.Len(t, exporter.GetSpans(), 1)
		}
	}

	require.True(t, sawError)

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Error, exported[0].Status.Code)
	assert.Equal(t, "not found", exported[0].Status.Description)
}

func TestStream_EarlyStopEndsSpanUnset(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	stream := instrument.NewStream(spans.Client("abandoned").Tracer(tracer),
		seqOf([]int{1, 2, 3}, nil)).
		Classify(func(int, error) instrument.Outcome {
			return instrument.Ok(attribute.Bool("classified", true))
		})

	for item := range stream.Items(context.Background()) {
		if item == 2 {
			break
		}
	}

	exported := exporter.GetSpans()
	require.Len(t, exported, 1)
	assert.Equal(t, codes.Unset, exported[0].Status.Code)
	assert.Empty(t, exported[0].Attributes)
}

func TestStream_SpanStartsAtIterationTime(t *testing.T) {
	t.Parallel()

	tracer, exporter := newTestTracer(t)

	stream := instrument.NewStream(spans.Client("lazy").Tracer(tracer),
		seqOf([]int{1}, nil))

	seq := stream.Items(context.Background())
	require.Empty(t, exporter.GetSpans())

	for range seq { //nolint:revive
	}

	assert.Len(t, exporter.GetSpans(), 1)
}
