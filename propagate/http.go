package propagate

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// InjectHTTP writes the trace context carried by ctx into the headers using
// the given format. A nil header map is left untouched.
func InjectHTTP(ctx context.Context, format Format, header http.Header) {
	if header == nil {
		return
	}

	format.Inject(ctx, propagation.HeaderCarrier(header))
}

// ExtractHTTP reads a parent trace context from the headers using the given
// format. Missing or malformed headers return ctx unchanged.
func ExtractHTTP(ctx context.Context, format Format, header http.Header) context.Context {
	if header == nil {
		return ctx
	}

	return format.Extract(ctx, propagation.HeaderCarrier(header))
}

// InjectRequest injects the trace context from the request's own context
// into its headers, readying it for an outbound call.
func InjectRequest(format Format, req *http.Request) {
	if req == nil {
		return
	}

	InjectHTTP(req.Context(), format, req.Header)
}

// ExtractRequest returns the request context extended with any parent trace
// context found in the request headers.
func ExtractRequest(format Format, req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}

	return ExtractHTTP(req.Context(), format, req.Header)
}
