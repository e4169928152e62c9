package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverRequestsCounter tracks traced inbound requests by method and status
// class.
//
// Metric name: ampotel_http_server_requests_total
// Labels:
//   - method: The HTTP method of the request
//   - status_class: The response status bucket (2xx, 4xx, ...)
//
// Example PromQL query:
//
//	sum by (status_class) (rate(ampotel_http_server_requests_total[5m]))
var serverRequestsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ampotel",
		Subsystem: "http",
		Name:      "server_requests_total",
		Help:      "Total number of traced inbound HTTP requests",
	},
	[]string{"method", "status_class"},
)
