// Package middleware wires tracing into HTTP servers and clients. The server
// middleware extracts the inbound trace context, covers the handler with a
// Server span classified by response status, and hands the response a
// request id. The client transport covers each outbound call with a Client
// span and injects the trace context into the request headers.
package middleware

import (
	"net/http"

	"github.com/amp-labs/amp-otel/propagate"
)

// requestIdHeader carries the per-request correlation id on both the inbound
// request and the response.
const requestIdHeader = "X-Request-Id"

// Option configures the server middleware and the client transport.
type Option func(*config)

type config struct {
	format   propagate.Format
	filter   func(*http.Request) bool
	spanName func(*http.Request) string
}

func readOptions(opts ...Option) *config {
	cfg := &config{
		format:   propagate.Chain(propagate.TraceContext(), propagate.Baggage()),
		spanName: defaultSpanName,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}

// WithPropagator overrides the propagation format used to extract inbound
// and inject outbound trace context. Defaults to tracecontext plus baggage.
func WithPropagator(format propagate.Format) Option {
	return func(cfg *config) {
		cfg.format = format
	}
}

// WithFilter skips tracing for requests the filter rejects. Useful for
// health checks and other high-frequency noise.
func WithFilter(filter func(*http.Request) bool) Option {
	return func(cfg *config) {
		cfg.filter = filter
	}
}

// WithSpanName overrides how span names are derived from requests. The
// default is "METHOD /path".
func WithSpanName(spanName func(*http.Request) string) Option {
	return func(cfg *config) {
		cfg.spanName = spanName
	}
}

func defaultSpanName(req *http.Request) string {
	return req.Method + " " + req.URL.Path
}
