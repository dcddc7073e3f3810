// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// HistoryResult is the payload of the history endpoint.
type HistoryResult struct {
	UserID  string                    `json:"user_id"`
	Records []recommend.HistoryRecord `json:"records"`
	Count   int                       `json:"count"`
}

// History handles GET /api/v1/users/{user}/history?limit=. Records are
// newest first; the limit defaults to the configured page size and is
// clamped to the configured maximum.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondEngineError(w, ErrHistoryDisabled)
		return
	}

	limit, ok := getIntParam(r, "limit", h.config.HistoryDefaultLimit)
	if !ok {
		respondAPIError(w, http.StatusBadRequest, invalidParam("limit"), nil)
		return
	}
	req := HistoryRequest{
		UserID: chi.URLParam(r, "user"),
		Limit:  limit,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if req.Limit > h.config.HistoryMaxLimit {
		req.Limit = h.config.HistoryMaxLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	start := time.Now()
	records, err := h.history.List(ctx, req.UserID, req.Limit)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if records == nil {
		records = []recommend.HistoryRecord{}
	}

	respondSuccess(w, HistoryResult{UserID: req.UserID, Records: records, Count: len(records)}, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}
