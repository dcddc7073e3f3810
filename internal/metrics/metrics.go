// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status", "strategy", "mode"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to filter, score and rank one request",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"strategy"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of products passing the candidate filter per request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	RecommendationSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_scoring_skipped_total",
			Help: "Candidates skipped because their score could not be computed",
		},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Catalog Metrics
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products in the live catalog snapshot",
		},
	)

	CatalogSnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_version",
			Help: "Generation number of the live catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog reload attempts by result",
		},
		[]string{"trigger", "result"}, // result: "success", "failure", "busy"
	)

	CatalogReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_reload_duration_seconds",
			Help:    "Duration of catalog reloads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	CatalogRejectedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rejected_rows_total",
			Help: "Catalog rows rejected during loads",
		},
	)

	CatalogRatingsAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_ratings_available",
			Help: "1 when the live snapshot carries rating data, 0 otherwise",
		},
	)

	// History Metrics
	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_writes_total",
			Help: "Recommendation history writes by result",
		},
		[]string{"result"}, // result: "success", "failure", "rejected"
	)

	HistoryDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_dropped_total",
			Help: "History records dropped before being written",
		},
		[]string{"reason"}, // reason: "queue_full", "stopped"
	)

	HistoryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "history_queue_depth",
			Help: "History records waiting to be written",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(status, strategy, mode string, candidates, skipped int, cacheHit bool, duration time.Duration) {
	RecommendationRequests.WithLabelValues(status, strategy, mode).Inc()
	if cacheHit {
		CacheHits.WithLabelValues("recommendation").Inc()
		return
	}
	CacheMisses.WithLabelValues("recommendation").Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendationCandidates.Observe(float64(candidates))
	if skipped > 0 {
		RecommendationSkipped.Add(float64(skipped))
	}
}

// RecordRecommendationError records a request that failed before ranking.
func RecordRecommendationError(reason string) {
	RecommendationRequests.WithLabelValues(reason, "", "").Inc()
}

// RecordCatalogReload records the outcome of a reload attempt. Durations
// are observed for successful reloads only.
func RecordCatalogReload(trigger, result string, duration time.Duration) {
	CatalogReloads.WithLabelValues(trigger, result).Inc()
	if result == "success" {
		CatalogReloadDuration.Observe(duration.Seconds())
	}
}

// UpdateCatalogSnapshot publishes the gauges of a newly installed snapshot.
func UpdateCatalogSnapshot(version int64, products, rejected int, ratings bool) {
	CatalogSnapshotVersion.Set(float64(version))
	CatalogProducts.Set(float64(products))
	CatalogRejectedRows.Add(float64(rejected))
	if ratings {
		CatalogRatingsAvailable.Set(1)
	} else {
		CatalogRatingsAvailable.Set(0)
	}
}

// RecordHistoryWrite records a history write by result.
func RecordHistoryWrite(result string) {
	HistoryWrites.WithLabelValues(result).Inc()
}

// RecordHistoryDropped records a history record dropped before writing.
func RecordHistoryDropped(reason string) {
	HistoryDropped.WithLabelValues(reason).Inc()
}
