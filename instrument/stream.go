package instrument

import (
	"context"
	"iter"

	"github.com/amp-labs/amp-otel/contexts"
	"github.com/amp-labs/amp-otel/spans"
)

// Stream wraps a multi-item sequence with a single span covering the whole
// sequence. One logical operation, such as a paginated read, produces one
// span no matter how many items flow through it.
//
// The classifier receives the number of items yielded so far together with
// the terminal error, so aggregate attributes like item counts are recorded
// once at the end rather than per item.
type Stream[T any] struct {
	builder  *spans.Builder
	classify Classifier[int]
	each     func(item T)
	source   iter.Seq2[T, error]
}

// NewStream wraps source with the span described by builder. The outcome is
// classified with ByError over the final item count unless Classify
// overrides it.
func NewStream[T any](builder *spans.Builder, source iter.Seq2[T, error]) *Stream[T] {
	return &Stream[T]{
		builder:  builder,
		classify: ByError[int],
		source:   source,
	}
}

// Classify replaces the stream's outcome classifier. The classifier's value
// argument is the count of items yielded before the terminal signal.
func (s *Stream[T]) Classify(classify Classifier[int]) *Stream[T] {
	if classify != nil {
		s.classify = classify
	}

	return s
}

// Each registers a per-item accumulator invoked for every successfully
// yielded item before it reaches the consumer. The accumulator typically
// feeds state that the classifier turns into aggregate attributes.
func (s *Stream[T]) Each(each func(item T)) *Stream[T] {
	s.each = each

	return s
}

// Items returns the instrumented sequence. The span starts when iteration
// begins, not when Items is called, and ends exactly once:
//
//   - on exhaustion, with the classified outcome over the item count
//   - on the first error, with the classified outcome, before the error is
//     yielded to the consumer
//   - on early consumer stop, with an unset status and no classifier output
//
// An empty source still produces exactly one started and ended span.
func (s *Stream[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	ctx = contexts.EnsureContext(ctx)

	return func(yield func(T, error) bool) {
		span := s.builder.Start(ctx)
		// Covers early consumer stop and panics inside the consumer.
		defer span.Abandon()

		count := 0

		for item, err := range s.source {
			if err != nil {
				outcome := classifyOutcome(s.classify, count, err)
				span.End(outcome.Code, outcome.Description, outcome.Attributes...)

				yield(item, err)

				return
			}

			if s.each != nil {
				s.each(item)
			}

			count++

			if !yield(item, nil) {
				return
			}
		}

		outcome := classifyOutcome(s.classify, count, nil)
		span.End(outcome.Code, outcome.Description, outcome.Attributes...)
	}
}

// Collect drains the instrumented sequence into a slice. It stops at the
// first error and returns the items yielded before it.
func (s *Stream[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T

	for item, err := range s.Items(ctx) {
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}
