package spans

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/amp-labs/amp-otel/contexts"
)

// defaultScope is the instrumentation scope used when no tracer is supplied
// explicitly or through the context.
const defaultScope = "github.com/amp-labs/amp-otel"

// Builder describes a prospective span. It is a mutable description until
// Start is called; Start itself never mutates the builder, so one builder can
// produce any number of independent spans.
type Builder struct {
	name   string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	parent context.Context //nolint:containedctx // explicit parent override, carried until Start
	tracer trace.Tracer
	scope  string
}

// Describe creates a Builder for a span with the given name and kind.
func Describe(name string, kind trace.SpanKind) *Builder {
	return &Builder{
		name:  name,
		kind:  kind,
		scope: defaultScope,
	}
}

// Internal creates a Builder for an internal span.
func Internal(name string) *Builder {
	return Describe(name, trace.SpanKindInternal)
}

// Server creates a Builder for a server span (inbound request handling).
func Server(name string) *Builder {
	return Describe(name, trace.SpanKindServer)
}

// Client creates a Builder for a client span (outbound remote call).
func Client(name string) *Builder {
	return Describe(name, trace.SpanKindClient)
}

// Producer creates a Builder for a producer span (message publish).
func Producer(name string) *Builder {
	return Describe(name, trace.SpanKindProducer)
}

// Consumer creates a Builder for a consumer span (message receive).
func Consumer(name string) *Builder {
	return Describe(name, trace.SpanKindConsumer)
}

// Name returns the span name the builder will use.
func (b *Builder) Name() string {
	return b.name
}

// Kind returns the span kind the builder will use.
func (b *Builder) Kind() trace.SpanKind {
	return b.kind
}

// Attribute appends a single initial attribute. Order is preserved;
// duplicate keys are allowed and resolved downstream by the exporter.
func (b *Builder) Attribute(kv attribute.KeyValue) *Builder {
	b.attrs = append(b.attrs, kv)

	return b
}

// Attributes appends initial attributes in order.
func (b *Builder) Attributes(kvs ...attribute.KeyValue) *Builder {
	b.attrs = append(b.attrs, kvs...)

	return b
}

// Context sets an explicit parent context, overriding the ambient context
// passed to Start. Use this when the span's logical parent differs from the
// goroutine's current context, e.g. after extracting a remote parent from
// inbound headers.
func (b *Builder) Context(parent context.Context) *Builder {
	b.parent = parent

	return b
}

// Tracer sets an explicit tracer, overriding both the context-stored tracer
// and the global tracer provider.
func (b *Builder) Tracer(tracer trace.Tracer) *Builder {
	b.tracer = tracer

	return b
}

// Scope sets the instrumentation scope name used when falling back to the
// global tracer provider.
func (b *Builder) Scope(scope string) *Builder {
	b.scope = scope

	return b
}

// Start starts a new span from the description and returns an Active handle
// owning it. The parent is the builder's explicit context if one was set,
// otherwise the ctx given here; in both cases the parent is read now, at
// Start time. Each call creates an independent span.
func (b *Builder) Start(ctx context.Context) *Active {
	parent := contexts.EnsureContext(b.parent, ctx)

	spanCtx, span := b.resolveTracer(parent).Start(parent, b.name,
		trace.WithSpanKind(b.kind),
		trace.WithAttributes(b.attrs...),
	)

	return &Active{
		ctx:  spanCtx,
		span: span,
	}
}

// resolveTracer picks the tracer in priority order: explicit, context-stored,
// global provider. Global fallbacks are counted so instrumentation gaps are
// visible in metrics.
func (b *Builder) resolveTracer(parent context.Context) trace.Tracer {
	if b.tracer != nil {
		return b.tracer
	}

	if tracer, found := TracerFromContext(parent); found {
		return tracer
	}

	spanWithoutTracerCounter.WithLabelValues(b.name).Inc()

	return otel.Tracer(b.scope)
}
