// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: request ID tracking, shared with the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - PerformanceMonitor: sliding-window latency percentiles per route and
    slow request logging

Middleware here uses the func(http.HandlerFunc) http.HandlerFunc shape
except PerformanceMonitor.Middleware, which is a plain http.Handler
wrapper. The api package adapts both to chi's r.Use().

Metrics and performance stats are labelled by chi route pattern
(RoutePattern), never by raw URL path:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(monitor.Middleware)
	    r.Get("/products/{id}/similar", h.Similar)
	})

A request for /api/v1/products/42/similar is recorded under
"/api/v1/products/{id}/similar".
*/
package middleware
