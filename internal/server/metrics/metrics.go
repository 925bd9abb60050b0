// Package metrics declares the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var (
	// HTTP API
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeshare_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain
	RatingsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_ratings_submitted_total",
			Help: "Total number of accepted ratings",
		},
	)

	CommentsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_comments_added_total",
			Help: "Total number of comments added",
		},
	)

	ImageDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeshare_image_delete_failures_total",
			Help: "Image assets that could not be removed after their recipe changed",
		},
	)

	// External provider
	ExternalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeshare_external_requests_total",
			Help: "Requests to the external recipe provider by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipeshare_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// BreakerStateValue maps a breaker state onto the CircuitBreakerState gauge.
func BreakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
