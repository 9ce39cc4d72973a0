package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eservice_portal_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eservice_portal_active_connections",
			Help: "Number of active connections",
		},
	)

	// UpstreamRequests counts calls to the verification API
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eservice_portal_upstream_requests_total",
			Help: "Number of requests sent to the verification API",
		},
		[]string{"operation", "status"},
	)

	// UpstreamDuration tracks verification API latency
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eservice_portal_upstream_duration_seconds",
			Help:    "Duration of verification API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// FormDeletions counts individual deletes issued by bulk delete
	FormDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eservice_portal_form_deletions_total",
			Help: "Number of per-form delete calls issued by bulk delete",
		},
		[]string{"status"},
	)

	// VerificationLookups counts public reference-number lookups
	VerificationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eservice_portal_verification_lookups_total",
			Help: "Number of public document lookups",
		},
		[]string{"result"},
	)

	// RateLimitRejections counts public lookups rejected by the rate limiter
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eservice_portal_rate_limit_rejections_total",
			Help: "Number of requests rejected by the rate limiter",
		},
		[]string{"backend"},
	)

	// SignIns counts sign-in attempts
	SignIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eservice_portal_signins_total",
			Help: "Number of sign-in attempts",
		},
		[]string{"result"},
	)
)
