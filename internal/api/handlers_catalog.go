// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/models"
)

// TriggerManual labels reloads requested through the API.
const TriggerManual = "manual"

// CatalogStatus handles GET /api/v1/catalog. It answers 200 before the
// first load too, with ready=false.
func (h *Handler) CatalogStatus(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, h.engine.Status(), models.Metadata{})
}

// CatalogReload handles POST /api/v1/catalog/reload. A reload already in
// progress answers 409; a failed reload answers 503 and the previous
// snapshot stays live.
func (h *Handler) CatalogReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status, err := h.reloader.ReloadCatalog(r.Context(), TriggerManual)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("version", status.Version).
		Int("products", status.Products).
		Msg("catalog reloaded on request")

	respondSuccess(w, status, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}
