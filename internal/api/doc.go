// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package api provides the HTTP REST API layer for Skinmatch.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers for the recommendation, catalog, history,
    health and stats endpoints
  - Response formatting: models.APIResponse envelopes with ETag headers
  - Error mapping: engine errors become models.APIError codes

Endpoints:

	POST /api/v1/recommend                  ranked products for a profile
	POST /api/v1/recommend/analyze          free-text analysis, then recommend
	GET  /api/v1/products/{id}              one catalog product
	GET  /api/v1/products/{id}/similar?k=   products with similar text features
	GET  /api/v1/users/{user}/history?limit= latest recommendations for a user
	GET  /api/v1/catalog                    snapshot version, load report, ratings
	POST /api/v1/catalog/reload             reload catalog and ratings
	GET  /api/v1/stats                      engine counters and route latencies
	GET  /api/v1/health                     readiness summary (also /live, /ready)
	GET  /metrics                           Prometheus exposition

Middleware Stack:

Global: request ID with logging context, RealIP, Recoverer, CORS and gzip
compression. The /api/v1 group adds per-IP rate limiting, security
headers, Prometheus instrumentation and the performance monitor. Health
routes have their own permissive limit; catalog reload a strict one.

Error Codes:

	VALIDATION_ERROR     400  malformed body, bad parameter, invalid profile
	NOT_FOUND            404  unknown product
	RELOAD_IN_PROGRESS   409  a catalog reload is already running
	CATALOG_UNAVAILABLE  503  no snapshot loaded yet, or a reload failed
	HISTORY_DISABLED     503  history storage not configured
	INTERNAL_ERROR       500  anything else

An empty candidate set is not an error: the recommendation payload carries
status "no_matches" with HTTP 200.
*/
package api
