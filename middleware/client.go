package middleware

import (
	"context"
	"net/http"

	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/amp-labs/amp-otel/instrument"
	"github.com/amp-labs/amp-otel/propagate"
	"github.com/amp-labs/amp-otel/spans"
)

// NewTransport wraps an http.RoundTripper so every outbound request is
// covered by a Client span with the trace context injected into the request
// headers. Pass nil to wrap http.DefaultTransport.
func NewTransport(base http.RoundTripper, opts ...Option) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &tracingTransport{
		base: base,
		cfg:  readOptions(opts...),
	}
}

type tracingTransport struct {
	base http.RoundTripper
	cfg  *config
}

var _ http.RoundTripper = (*tracingTransport)(nil)

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cfg.filter != nil && !t.cfg.filter(req) {
		return t.base.RoundTrip(req)
	}

	builder := spans.Client(t.cfg.spanName(req)).
		Attributes(
			semconv.HTTPMethodKey.String(req.Method),
			semconv.HTTPURLKey.String(req.URL.String()),
		)

	operation := instrument.NewOperation(builder,
		func(ctx context.Context) (*http.Response, error) {
			// Per RoundTripper contract the request must not be mutated.
			outbound := req.Clone(ctx)
			propagate.InjectRequest(t.cfg.format, outbound)

			return t.base.RoundTrip(outbound)
		}).
		Classify(classifyResponse)

	return operation.Run(req.Context())
}

// classifyResponse maps an outbound call's result to a span outcome,
// following the client semconv convention: transport errors and any 4xx or
// 5xx status mark the span as failed.
func classifyResponse(resp *http.Response, err error) instrument.Outcome {
	if err != nil {
		return instrument.Error(err.Error())
	}

	outcome := instrument.Ok(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		outcome = instrument.Error(http.StatusText(resp.StatusCode),
			semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
	}

	return outcome
}
