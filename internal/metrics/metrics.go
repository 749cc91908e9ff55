package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// MembershipChanges counts favorite/cart/follow toggles by set and outcome.
	MembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_changes_total",
			Help: "Membership set add/remove attempts",
		},
		[]string{"set", "op", "result"},
	)

	ShoppingListExports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Number of shopping lists exported",
		},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Distinct ingredient lines per exported shopping list",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)
)
