package spans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// spanWithoutTracerCounter tracks the number of times a span was started
// without an explicit tracer or a tracer in the parent context, falling back
// to the global provider. This helps identify instrumentation gaps where
// spans.WithTracer() may not have been called.
//
// Metric name: ampotel_spans_global_tracer_fallback_total
// Labels:
//   - span_name: The name of the span that was started
//
// Example PromQL query:
//
//	sum by (span_name) (rate(ampotel_spans_global_tracer_fallback_total[5m]))
var spanWithoutTracerCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ampotel",
		Subsystem: "spans",
		Name:      "global_tracer_fallback_total",
		Help:      "Total number of spans started via the global tracer provider fallback",
	},
	[]string{"span_name"},
)
