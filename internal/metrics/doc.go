// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package initialization and exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Recommendation Metrics:
  - recommendation_requests_total: Requests by outcome (counter)
    Labels: status (ok, no_matches, invalid_profile, unavailable), strategy, mode
  - recommendation_duration_seconds: Filter, score and rank time (histogram)
    Labels: strategy
  - recommendation_candidates: Filter survivors per request (histogram)
  - recommendation_scoring_skipped_total: Unscorable candidates (counter)
  - cache_hits_total, cache_misses_total: Response cache (counter)
    Labels: cache_type

Catalog Metrics:
  - catalog_products: Products in the live snapshot (gauge)
  - catalog_snapshot_version: Live snapshot generation (gauge)
  - catalog_reloads_total: Reload attempts (counter)
    Labels: trigger (startup, periodic, api), result (success, failure, busy)
  - catalog_reload_duration_seconds: Successful reload time (histogram)
  - catalog_rejected_rows_total: Rows rejected by the loader (counter)
  - catalog_ratings_available: Rating data present (gauge, 0 or 1)

History Metrics:
  - history_writes_total: Writes by result (counter)
    Labels: result (success, failure, rejected)
  - history_dropped_total: Records dropped before writing (counter)
    Labels: reason (queue_full, stopped)
  - history_queue_depth: Records waiting to be written (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx, req)
	if err == nil {
	    metrics.RecordRecommendation(string(resp.Status), resp.Metadata.Strategy,
	        resp.Metadata.Mode, resp.Metadata.TotalCandidates, resp.Metadata.Skipped,
	        resp.Metadata.CacheHit, time.Since(start))
	}
*/
package metrics
