// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// SimilarRequest represents the validated parameters of
// GET /api/v1/products/{id}/similar. K of 0 uses the engine default.
type SimilarRequest struct {
	ID int `json:"id" validate:"gte=0"`
	K  int `json:"k" validate:"gte=0,lte=100"`
}

// ProductRequest represents the validated parameters of
// GET /api/v1/products/{id}.
type ProductRequest struct {
	ID int `json:"id" validate:"gte=0"`
}

// HistoryRequest represents the validated parameters of
// GET /api/v1/users/{user}/history. The limit is clamped to the
// configured maximum after validation.
type HistoryRequest struct {
	UserID string `json:"user" validate:"required,max=254,nocontrol"`
	Limit  int    `json:"limit" validate:"gte=1,lte=1000"`
}

// toEngineRequest converts a validated request body to an engine request.
// Because the body was validated, the mode always parses.
func toEngineRequest(body *models.RecommendRequest, requestID string) recommend.Request {
	mode, _ := recommend.ParseMode(body.Mode)
	return recommend.Request{
		Profile: recommend.UserProfile{
			SkinType:    body.SkinType,
			Concerns:    body.Concerns,
			Age:         body.Age,
			MinPrice:    body.MinPrice,
			MaxPrice:    body.MaxPrice,
			ProductType: body.ProductType,
		},
		TopN:      body.TopN,
		Mode:      mode,
		Strategy:  recommend.Strategy(body.Strategy),
		Budget:    body.Budget,
		Birthdate: body.Birthdate,
		RaterID:   body.RaterID,
		UserID:    body.UserID,
		RequestID: requestID,
	}
}
