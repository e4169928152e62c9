// Package faas instruments serverless function invocations. Each invocation
// is covered by a Server span carrying the FAAS semantic-convention
// attributes, including a coldstart flag that is true for the first
// invocation in the process. Pending spans are force-flushed after every
// invocation because serverless runtimes freeze the process between calls.
package faas

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/atomic"

	"github.com/amp-labs/amp-otel/instrument"
	"github.com/amp-labs/amp-otel/spans"
	"github.com/amp-labs/amp-otel/telemetry"
)

// Trigger identifies what caused a function invocation, following the FAAS
// semantic conventions.
const (
	TriggerHTTP       = "http"
	TriggerPubSub     = "pubsub"
	TriggerTimer      = "timer"
	TriggerDatasource = "datasource"
	TriggerOther      = "other"
)

// coldstart is true until the first invocation completes its span setup.
var coldstart = atomic.NewBool(true) //nolint:gochecknoglobals

// Handler is the shape of a serverless entry point: one typed event in, one
// typed result out.
type Handler[T, R any] func(ctx context.Context, event T) (R, error)

// Option configures a wrapped handler.
type Option func(*config)

type config struct {
	trigger string
}

// WithTrigger sets the faas.trigger attribute. Defaults to TriggerOther.
func WithTrigger(trigger string) Option {
	return func(cfg *config) {
		cfg.trigger = trigger
	}
}

// Wrap covers handler with a Server span per invocation. The handler's
// result is returned unchanged; telemetry failures, including flush
// failures, are logged and swallowed.
func Wrap[T, R any](name string, handler Handler[T, R], opts ...Option) Handler[T, R] {
	cfg := &config{trigger: TriggerOther}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return func(ctx context.Context, event T) (R, error) {
		cold := coldstart.CompareAndSwap(true, false)

		builder := spans.Server(name).
			Attributes(
				semconv.FaaSTriggerKey.String(cfg.trigger),
				semconv.FaaSExecutionKey.String(uuid.NewString()),
				semconv.FaaSColdstartKey.Bool(cold),
			)

		value, err := instrument.NewOperation(builder,
			func(ctx context.Context) (R, error) {
				return handler(ctx, event)
			}).
			Run(ctx)

		// The runtime may freeze the process as soon as we return.
		if flushErr := telemetry.ForceFlush(ctx); flushErr != nil {
			slog.Warn("trace flush after invocation failed", "error", flushErr)
		}

		return value, err
	}
}
