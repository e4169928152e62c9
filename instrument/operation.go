package instrument

import (
	"context"
	"errors"

	"github.com/amp-labs/amp-otel/contexts"
	"github.com/amp-labs/amp-otel/future"
	"github.com/amp-labs/amp-otel/spans"
)

// Operation wraps a single-shot function together with the span that should
// cover its execution. The span is described up front but starts only when
// Run is called, so queueing time before the work is scheduled is not
// attributed to the span.
type Operation[T any] struct {
	builder  *spans.Builder
	classify Classifier[T]
	run      func(ctx context.Context) (T, error)
}

// NewOperation wraps run with the span described by builder. The outcome is
// classified with ByError unless Classify overrides it.
func NewOperation[T any](builder *spans.Builder, run func(ctx context.Context) (T, error)) *Operation[T] {
	return &Operation[T]{
		builder:  builder,
		classify: ByError[T],
		run:      run,
	}
}

// Classify replaces the operation's outcome classifier.
func (o *Operation[T]) Classify(classify Classifier[T]) *Operation[T] {
	if classify != nil {
		o.classify = classify
	}

	return o
}

// Run starts the span, drives the wrapped function to completion, classifies
// its result, and ends the span. The function receives a context carrying
// the started span so nested instrumentation parents correctly. The wrapped
// result is returned unchanged.
//
// When ctx is cancelled and the wrapped function returns the cancellation,
// the span ends with an unset status and no classifier output.
func (o *Operation[T]) Run(ctx context.Context) (T, error) {
	ctx = contexts.EnsureContext(ctx)

	span := o.builder.Start(ctx)
	// Abandon is a no-op once the span is ended below. It closes the span
	// with an unset status if the wrapped function panics.
	defer span.Abandon()

	value, err := o.run(span.Context())

	if isCancellation(ctx, err) {
		span.Abandon()

		return value, err
	}

	outcome := classifyOutcome(o.classify, value, err)
	span.End(outcome.Code, outcome.Description, outcome.Attributes...)

	return value, err
}

// Go runs the operation in a new goroutine and returns a future for its
// result. Cancelling the future cancels the operation's context, which ends
// the span with an unset status once the wrapped function observes the
// cancellation and returns.
func (o *Operation[T]) Go(ctx context.Context) *future.Future[T] {
	return future.GoContext(contexts.EnsureContext(ctx), o.Run)
}

// Instrument is shorthand for NewOperation(builder, run).Run(ctx).
func Instrument[T any](ctx context.Context, builder *spans.Builder, run func(ctx context.Context) (T, error)) (T, error) {
	return NewOperation(builder, run).Run(ctx)
}

// isCancellation reports whether err is the governing context's own
// cancellation rather than a failure of the wrapped work.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() == nil || err == nil {
		return false
	}

	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// classifyOutcome runs the classifier, falling back to ByError if the
// classifier panics. Classifier misbehavior degrades the recorded outcome,
// never the caller's result.
func classifyOutcome[T any](classify Classifier[T], value T, err error) (outcome Outcome) {
	defer func() {
		if recover() != nil {
			outcome = ByError(value, err)
		}
	}()

	return classify(value, err)
}
