package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommerceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_requests_total",
			Help: "Total number of commerce API calls by outcome",
		},
		[]string{"operation", "status"},
	)

	CommerceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"operation"},
	)

	CommerceRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_retries_total",
			Help: "Total number of retried commerce API calls",
		},
		[]string{"operation", "reason"},
	)

	CommerceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "commerce_request_duration_seconds",
			Help: "Duration of commerce API calls in seconds",
		},
		[]string{"operation"},
	)

	CatalogFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallbacks_total",
			Help: "Total number of catalog reads served from the local fallback",
		},
		[]string{"operation"},
	)

	ValidationRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "validation_rejections_total",
			Help: "Total number of remote records dropped by schema validation",
		},
	)
)
