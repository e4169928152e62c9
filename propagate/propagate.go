// Package propagate serializes trace context across process boundaries in
// multiple interoperable wire formats. Several formats can be active at
// once: injection writes every configured format's headers, extraction tries
// formats in priority order and takes the first that parses. Malformed or
// absent headers never fail a request; extraction falls back to the inbound
// context unchanged.
package propagate

import (
	"context"

	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Format encodes and decodes one trace-context wire format over a text
// carrier.
type Format = propagation.TextMapPropagator

// TraceContext returns the W3C Trace Context format (traceparent and
// tracestate headers).
func TraceContext() Format {
	return propagation.TraceContext{}
}

// Baggage returns the W3C Baggage format (baggage header).
func Baggage() Format {
	return propagation.Baggage{}
}

// B3Single returns the Zipkin B3 format using the single b3 header.
func B3Single() Format {
	return b3.New(b3.WithInjectEncoding(b3.B3SingleHeader))
}

// B3Multi returns the Zipkin B3 format using the x-b3-* multi-header
// encoding.
func B3Multi() Format {
	return b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader))
}

// XRay returns the AWS X-Amzn-Trace-Id format.
func XRay() Format {
	return xray.Propagator{}
}

// None returns a format that injects and extracts nothing.
func None() Format {
	return noop{}
}

type noop struct{}

func (noop) Inject(context.Context, propagation.TextMapCarrier) {}

func (noop) Extract(ctx context.Context, _ propagation.TextMapCarrier) context.Context {
	return ctx
}

func (noop) Fields() []string {
	return nil
}

// Chain composes formats. Inject writes every format's headers into the
// carrier so mixed fleets can interoperate during a migration. Extract tries
// the formats in the given priority order and returns the context produced
// by the first format that yields a valid remote span context or non-empty
// baggage; when none do, the inbound context is returned unchanged.
func Chain(formats ...Format) Format {
	if len(formats) == 1 {
		return formats[0]
	}

	return chain(formats)
}

type chain []Format

func (c chain) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	for _, format := range c {
		format.Inject(ctx, carrier)
	}
}

func (c chain) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	for _, format := range c {
		extracted := format.Extract(ctx, carrier)
		if extractedSomething(ctx, extracted) {
			return extracted
		}
	}

	return ctx
}

func (c chain) Fields() []string {
	seen := make(map[string]struct{})

	var fields []string

	for _, format := range c {
		for _, field := range format.Fields() {
			if _, ok := seen[field]; ok {
				continue
			}

			seen[field] = struct{}{}
			fields = append(fields, field)
		}
	}

	return fields
}

// extractedSomething reports whether extraction produced more than the
// inbound context already carried: a valid remote span context or new
// baggage members.
func extractedSomething(inbound, extracted context.Context) bool {
	if extracted == inbound {
		return false
	}

	if trace.SpanContextFromContext(extracted).IsValid() {
		return true
	}

	return baggage.FromContext(extracted).Len() > baggage.FromContext(inbound).Len()
}

// Split builds an asymmetric propagator that extracts with one format chain
// and injects with another. Useful mid-migration, when a service must keep
// emitting a legacy format while already accepting the new one.
func Split(extract, inject Format) Format {
	return split{extract: extract, inject: inject}
}

type split struct {
	extract Format
	inject  Format
}

func (s split) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	s.inject.Inject(ctx, carrier)
}

func (s split) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return s.extract.Extract(ctx, carrier)
}

func (s split) Fields() []string {
	return s.inject.Fields()
}
