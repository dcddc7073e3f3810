// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skinmatch/internal/middleware"
	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// StatsResult is the payload of the stats endpoint.
type StatsResult struct {
	Engine    recommend.Metrics          `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// Health handles GET /api/v1/health. It always answers 200; the status
// field reports whether a catalog snapshot is live.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, h.healthStatus(), models.Metadata{})
}

// HealthLive handles GET /api/v1/health/live: the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready: 503 until the first
// catalog snapshot is installed.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	health := h.healthStatus()
	if !health.CatalogReady {
		respondError(w, http.StatusServiceUnavailable, CodeCatalogUnavailable, "Catalog is not loaded yet", nil)
		return
	}
	respondSuccess(w, health, models.Metadata{})
}

func (h *Handler) healthStatus() models.HealthStatus {
	st := h.engine.Status()
	health := models.HealthStatus{
		Status:          "degraded",
		Version:         Version,
		CatalogReady:    st.Ready,
		SnapshotVersion: st.Version,
		Products:        st.Products,
		RatingsLoaded:   st.Ratings.Available,
		HistoryEnabled:  h.history != nil,
		Uptime:          time.Since(h.startTime).Seconds(),
	}
	if st.Ready {
		health.Status = "healthy"
		loaded := st.LoadedAt
		health.LastReload = &loaded
	}
	return health
}

// Stats handles GET /api/v1/stats: engine counters and per-route latency
// percentiles over the performance monitor's window.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	endpoints := []middleware.EndpointStats{}
	if h.perfMon != nil {
		endpoints = h.perfMon.GetStats()
	}
	respondSuccess(w, StatsResult{Engine: h.engine.GetMetrics(), Endpoints: endpoints}, models.Metadata{})
}
