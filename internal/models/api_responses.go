// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"status": "ok", "items": [...], "metadata": {...}},
//	  "metadata": {
//	    "timestamp": "2026-03-02T12:00:00Z",
//	    "query_time_ms": 3,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "max_price must be greater than or equal to min_price",
//	    "details": {"field": "max_price"}
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata. QueryTimeMS is the engine latency;
// Cached is set when the recommendation came from the response cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - VALIDATION_ERROR: invalid request body, query parameter or profile
//   - NOT_FOUND: unknown product
//   - CATALOG_UNAVAILABLE: no catalog snapshot loaded, or the reload failed
//   - RELOAD_IN_PROGRESS: a catalog reload is already running
//   - HISTORY_DISABLED: history storage is not configured
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	// Status is "healthy" once a catalog snapshot is live, else "degraded".
	Status          string     `json:"status"`
	Version         string     `json:"version"`
	CatalogReady    bool       `json:"catalog_ready"`
	SnapshotVersion int64      `json:"snapshot_version"`
	Products        int        `json:"products"`
	RatingsLoaded   bool       `json:"ratings_loaded"`
	HistoryEnabled  bool       `json:"history_enabled"`
	LastReload      *time.Time `json:"last_reload,omitempty"`
	Uptime          float64    `json:"uptime_seconds"`
}
