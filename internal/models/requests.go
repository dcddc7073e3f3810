// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package models

// RecommendRequest is the request body of POST /api/v1/recommend.
//
// Every field is optional. An empty skin type or concern list matches
// any product on that attribute. Unknown budget names are rejected by the
// engine, not here, because presets are configurable. top_n above the
// engine's configured maximum is clamped and reported as
// metadata.top_n_clamped.
//
// Example:
//
//	{
//	  "skin_type": "oily",
//	  "concerns": ["acne", "pores"],
//	  "age": 24,
//	  "max_price": 800,
//	  "product_type": "serum",
//	  "top_n": 5,
//	  "mode": "routine"
//	}
type RecommendRequest struct {
	SkinType    string   `json:"skin_type" validate:"omitempty,max=64,nocontrol"`
	Concerns    []string `json:"concerns" validate:"omitempty,max=20,dive,max=64,nocontrol"`
	Age         *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	MinPrice    *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	ProductType string   `json:"product_type,omitempty" validate:"omitempty,max=64,nocontrol"`
	TopN        int      `json:"top_n,omitempty" validate:"omitempty,gte=1,lte=100"`
	Mode        string   `json:"mode,omitempty" validate:"omitempty,oneof=top_n top routine"`
	Strategy    string   `json:"strategy,omitempty" validate:"omitempty,oneof=rules hybrid"`
	Budget      string   `json:"budget,omitempty" validate:"omitempty,max=32,nocontrol"`
	Birthdate   string   `json:"birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RaterID     *int     `json:"rater_id,omitempty" validate:"omitempty,gte=0"`

	// UserID is an email or account id. When set, the recommendation is
	// recorded in the user's history.
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=254,nocontrol"`
}

// AnalyzeRequest is the request body of POST /api/v1/recommend/analyze.
// Text is analysed for skin type, concerns and age; explicit profile
// fields in the embedded request take precedence over what the text yields.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,max=4000"`

	RecommendRequest
}
