package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scorer outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeRejected = "rejected"
	OutcomeDegraded = "degraded"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ScorerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_requests_total",
			Help: "Calls to the external scorer by outcome",
		},
		[]string{"outcome"},
	)

	// ScorerBreakerState is 0 closed, 1 half-open, 2 open.
	ScorerBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scorer_breaker_state",
			Help: "State of the scorer circuit breaker",
		},
	)

	SuggestionsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suggestions_returned",
			Help:    "Number of dishes returned per suggestion request",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
		[]string{"mode"},
	)

	LiveClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_clients",
			Help: "Connected live suggestion websocket clients",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		ScorerRequests,
		ScorerBreakerState,
		SuggestionsReturned,
		LiveClients,
	)
}
