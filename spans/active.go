package spans

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// Active is a handle to a started span. It owns exactly one underlying span
// and guarantees the span is ended exactly once: the first call to End or
// Abandon wins, and every later operation is a silent no-op. All methods are
// nil-safe, so a forgotten Start can never panic a caller.
//
// Active is built for single-owner handoff: it can be moved into a wrapper
// and ended from a different point of control than where it started, but it
// must not be ended concurrently from two paths. The CAS on the ended flag
// keeps even that misuse harmless.
type Active struct {
	ctx   context.Context //nolint:containedctx // span-bearing context for child operations
	span  trace.Span
	ended atomic.Bool
}

// Context returns a context carrying the started span, for propagating to
// child operations. Falls back to the background context on a nil handle.
func (a *Active) Context() context.Context {
	if a == nil || a.ctx == nil {
		return context.Background()
	}

	return a.ctx
}

// SpanContext returns the identifying trace/span ids of the started span.
func (a *Active) SpanContext() trace.SpanContext {
	if a == nil || a.span == nil {
		return trace.SpanContext{}
	}

	return a.span.SpanContext()
}

// SetAttributes adds attributes to the span. No-op after the span has ended.
func (a *Active) SetAttributes(kvs ...attribute.KeyValue) {
	if a.recording() {
		a.span.SetAttributes(kvs...)
	}
}

// RecordError records err as a span event. Nil errors and ended spans are
// no-ops.
func (a *Active) RecordError(err error) {
	if err != nil && a.recording() {
		a.span.RecordError(err)
	}
}

// SetStatus sets the span status. No-op after the span has ended.
func (a *Active) SetStatus(code codes.Code, description string) {
	if a.recording() {
		a.span.SetStatus(code, description)
	}
}

// End records the given attributes and status, then ends the span. Only the
// first End or Abandon takes effect; later calls are no-ops.
func (a *Active) End(code codes.Code, description string, kvs ...attribute.KeyValue) {
	if a == nil || a.span == nil {
		return
	}

	if !a.ended.CompareAndSwap(false, true) {
		return
	}

	if len(kvs) > 0 {
		a.span.SetAttributes(kvs...)
	}

	a.span.SetStatus(code, description)
	a.span.End()
}

// Abandon ends the span with an unset status and no attributes. This is the
// cancellation path: a wrapper whose governing context is cancelled before
// the operation resolves still closes the span, just without an outcome.
// Safe to defer alongside a normal End; whichever runs first wins.
func (a *Active) Abandon() {
	a.End(codes.Unset, "")
}

// IsEnded reports whether the span has already been ended.
func (a *Active) IsEnded() bool {
	return a != nil && a.ended.Load()
}

func (a *Active) recording() bool {
	return a != nil && a.span != nil && !a.ended.Load()
}
