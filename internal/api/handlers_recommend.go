// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/metrics"
	"github.com/tomtom215/skinmatch/internal/middleware"
	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// AnalyzeResult is the payload of the analyze endpoint.
type AnalyzeResult struct {
	Analysis        recommend.Analysis  `json:"analysis"`
	Recommendations *recommend.Response `json:"recommendations"`
}

// SimilarResult is the payload of the similar-products endpoint.
type SimilarResult struct {
	ProductID int                              `json:"product_id"`
	Items     []recommend.RecommendationResult `json:"items"`
	Count     int                              `json:"count"`
}

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body models.RecommendRequest
	if apiErr := decodeJSONBody(w, r, &body); apiErr != nil {
		metrics.RecordRecommendationError("bad_request")
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		metrics.RecordRecommendationError("invalid_request")
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	req := toEngineRequest(&body, middleware.GetRequestID(r.Context()))
	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		h.recommendFailed(w, r, err)
		return
	}

	recordResponse(resp)
	respondSuccess(w, resp, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// Analyze handles POST /api/v1/recommend/analyze. The text is analysed
// for a skin type, concerns and age, then recommendations are computed for
// the merged profile.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body models.AnalyzeRequest
	if apiErr := decodeJSONBody(w, r, &body); apiErr != nil {
		metrics.RecordRecommendationError("bad_request")
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		metrics.RecordRecommendationError("invalid_request")
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	req := toEngineRequest(&body.RecommendRequest, middleware.GetRequestID(r.Context()))
	analysis, resp, err := h.engine.AnalyzeAndRecommend(ctx, body.Text, req)
	if err != nil {
		h.recommendFailed(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("skin_type", analysis.SkinType).
		Strs("concerns", analysis.Concerns).
		Msg("free-text profile analysed")

	recordResponse(resp)
	respondSuccess(w, AnalyzeResult{Analysis: analysis, Recommendations: resp}, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// Product handles GET /api/v1/products/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondAPIError(w, http.StatusBadRequest, invalidParam("id"), nil)
		return
	}
	req := ProductRequest{ID: id}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	product, err := h.engine.Product(req.ID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, product, models.Metadata{})
}

// Similar handles GET /api/v1/products/{id}/similar?k=.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondAPIError(w, http.StatusBadRequest, invalidParam("id"), nil)
		return
	}
	k, ok := getIntParam(r, "k", 0)
	if !ok {
		respondAPIError(w, http.StatusBadRequest, invalidParam("k"), nil)
		return
	}
	req := SimilarRequest{ID: id, K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	start := time.Now()
	items, err := h.engine.Similar(ctx, req.ID, req.K)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, SimilarResult{ProductID: req.ID, Items: items, Count: len(items)}, models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}

func (h *Handler) recommendFailed(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr, reason := classifyError(err)
	metrics.RecordRecommendationError(reason)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
	}
	respondAPIError(w, status, apiErr, nil)
}

func recordResponse(resp *recommend.Response) {
	metrics.RecordRecommendation(
		string(resp.Status),
		resp.Metadata.Strategy,
		resp.Metadata.Mode,
		resp.Metadata.TotalCandidates,
		resp.Metadata.Skipped,
		resp.Metadata.CacheHit,
		time.Duration(resp.Metadata.LatencyMS)*time.Millisecond,
	)
}
