package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts handled requests by route template and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration observes handler latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// LoginAttempts counts credential checks on the login and token endpoints.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	// TicketTransitions counts repair ticket status changes by target status.
	TicketTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repair_ticket_transitions_total",
			Help: "Repair ticket status transitions by target status",
		},
		[]string{"status"},
	)

	// RateLimited counts requests rejected by the limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limited_total",
			Help: "Requests rejected with 429",
		},
	)
)
