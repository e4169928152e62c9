package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/amp-labs/amp-otel/instrument"
	"github.com/amp-labs/amp-otel/logger"
	"github.com/amp-labs/amp-otel/propagate"
	"github.com/amp-labs/amp-otel/spans"
)

// NewServerMiddleware returns a middleware that traces inbound requests. For
// each request it extracts the parent trace context from the headers, starts
// a Server span covering the handler, classifies the span by response status
// (5xx is an error), and echoes a request id on the response so callers can
// correlate.
func NewServerMiddleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := readOptions(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			if cfg.filter != nil && !cfg.filter(req) {
				next.ServeHTTP(writer, req)

				return
			}

			ctx := propagate.ExtractRequest(cfg.format, req)

			requestId := req.Header.Get(requestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}

			ctx = logger.WithRequestId(ctx, requestId)
			writer.Header().Set(requestIdHeader, requestId)

			recorder := &statusRecorder{ResponseWriter: writer}

			builder := spans.Server(cfg.spanName(req)).
				Attributes(
					semconv.HTTPMethodKey.String(req.Method),
					semconv.HTTPTargetKey.String(req.URL.RequestURI()),
					semconv.HTTPHostKey.String(req.Host),
				)

			operation := instrument.NewOperation(builder,
				func(ctx context.Context) (int, error) {
					next.ServeHTTP(recorder, req.WithContext(ctx))

					return recorder.status(), nil
				}).
				Classify(classifyStatus)

			status, _ := operation.Run(ctx)

			serverRequestsCounter.WithLabelValues(
				req.Method, statusClass(status)).Inc()
		})
	}
}

// classifyStatus maps an HTTP status code to a span outcome, following the
// server semconv convention: only 5xx marks the span as failed.
func classifyStatus(status int, err error) instrument.Outcome {
	kvs := []attribute.KeyValue{semconv.HTTPStatusCodeKey.Int(status)}

	if err != nil {
		return instrument.Error(err.Error(), kvs...)
	}

	if status >= http.StatusInternalServerError {
		return instrument.Error(http.StatusText(status), kvs...)
	}

	return instrument.Ok(kvs...)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// statusRecorder captures the response status code for classification.
type statusRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if r.statusCode == 0 {
		r.statusCode = statusCode
	}

	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(data []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}

	return r.ResponseWriter.Write(data)
}

// status returns the recorded status, defaulting to 200 for handlers that
// never write an explicit header.
func (r *statusRecorder) status() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}

	return r.statusCode
}
