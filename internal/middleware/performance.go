// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSlowThreshold is the latency above which a request is logged.
const DefaultSlowThreshold = time.Second

// RequestMetrics tracks performance metrics for API requests
type RequestMetrics struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// EndpointStats contains aggregated statistics for an endpoint over the
// monitor's sliding window.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MinDuration  int64   `json:"min_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps the last N request metrics in a ring buffer
// and logs requests slower than its threshold.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	window  []RequestMetrics
	next    int
	full    bool
	slow    time.Duration
	logger  zerolog.Logger
	slowLog int64
}

// NewPerformanceMonitor creates a monitor keeping the last maxMetrics
// requests. A non-positive slow threshold uses DefaultSlowThreshold.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceMonitor(maxMetrics int, slow time.Duration, logger zerolog.Logger) *PerformanceMonitor {
	if maxMetrics <= 0 {
		maxMetrics = 1
	}
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return &PerformanceMonitor{
		window: make([]RequestMetrics, maxMetrics),
		slow:   slow,
		logger: logger.With().Str("component", "performance").Logger(),
	}
}

// RecordRequest adds a request metric, overwriting the oldest one when
// the window is full.
func (pm *PerformanceMonitor) RecordRequest(metric *RequestMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.window[pm.next] = *metric
	pm.next++
	if pm.next == len(pm.window) {
		pm.next = 0
		pm.full = true
	}
}

// snapshot returns the window contents oldest first. Caller holds mu.
func (pm *PerformanceMonitor) snapshot() []RequestMetrics {
	if !pm.full {
		out := make([]RequestMetrics, pm.next)
		copy(out, pm.window[:pm.next])
		return out
	}
	out := make([]RequestMetrics, 0, len(pm.window))
	out = append(out, pm.window[pm.next:]...)
	out = append(out, pm.window[:pm.next]...)
	return out
}

// GetStats returns aggregated statistics per "METHOD route", busiest
// endpoint first.
func (pm *PerformanceMonitor) GetStats() []EndpointStats {
	pm.mu.RLock()
	window := pm.snapshot()
	pm.mu.RUnlock()

	durations := make(map[string][]int64)
	errs := make(map[string]int64)
	for _, m := range window {
		key := m.Method + " " + m.Route
		durations[key] = append(durations[key], m.DurationMS)
		if m.StatusCode >= http.StatusInternalServerError {
			errs[key]++
		}
	}

	stats := make([]EndpointStats, 0, len(durations))
	for endpoint, ds := range durations {
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })

		var sum int64
		for _, d := range ds {
			sum += d
		}

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(ds)),
			ErrorCount:   errs[endpoint],
			AvgDuration:  float64(sum) / float64(len(ds)),
			P50Duration:  percentile(ds, 0.50),
			P95Duration:  percentile(ds, 0.95),
			P99Duration:  percentile(ds, 0.99),
			MinDuration:  ds[0],
			MaxDuration:  ds[len(ds)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// GetRecentMetrics returns the most recent n metrics, oldest first.
func (pm *PerformanceMonitor) GetRecentMetrics(n int) []RequestMetrics {
	pm.mu.RLock()
	window := pm.snapshot()
	pm.mu.RUnlock()

	if n > len(window) {
		n = len(window)
	}
	if n <= 0 {
		return []RequestMetrics{}
	}
	return window[len(window)-n:]
}

// SlowRequests returns how many slow requests have been logged.
func (pm *PerformanceMonitor) SlowRequests() int64 {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.slowLog
}

// Middleware creates an HTTP middleware for performance monitoring
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		route := RoutePattern(r)

		pm.RecordRequest(&RequestMetrics{
			Route:      route,
			Method:     r.Method,
			DurationMS: duration.Milliseconds(),
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})

		if duration > pm.slow {
			pm.mu.Lock()
			pm.slowLog++
			pm.mu.Unlock()
			pm.logger.Warn().
				Str("method", r.Method).
				Str("route", route).
				Int("status", wrapper.statusCode).
				Int64("duration_ms", duration.Milliseconds()).
				Int64("threshold_ms", pm.slow.Milliseconds()).
				Str("request_id", GetRequestID(r.Context())).
				Msg("slow request detected")
		}
	})
}

// percentile calculates the percentile value from a sorted slice
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
