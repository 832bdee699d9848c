// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the folio backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for CRUD request latencies,
// ranging from 1ms to 10s. The upper buckets cover password hashing, the
// only CPU-heavy step in the pipeline.
var APIBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// TokenVerificationsTotal counts bearer token verifications by outcome
	// (valid, expired, invalid).
	TokenVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_token_verifications_total",
			Help: "Bearer token verifications",
		},
		[]string{"outcome"},
	)

	// SignInsTotal counts sign-in attempts by outcome
	// (success, failure, ratelimited).
	SignInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_signins_total",
			Help: "Sign-in attempts",
		},
		[]string{"outcome"},
	)

	// AuthorizationDenialsTotal counts policy denials by resource and action.
	AuthorizationDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_authorization_denials_total",
			Help: "Authorization denials",
		},
		[]string{"resource", "action"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TokenVerificationsTotal,
		SignInsTotal,
		AuthorizationDenialsTotal,
	)
}
