// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eventgate_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_store_queries_total",
			Help: "Total number of event store queries",
		},
		[]string{"result"},
	)

	TierResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_tier_resolutions_total",
			Help: "Total number of requester tier resolutions",
		},
		[]string{"source", "tier"},
	)

	LockDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_lock_decisions_total",
			Help: "Total number of per-event lock decisions",
		},
		[]string{"locked"},
	)
)
