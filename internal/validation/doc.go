// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct metadata across requests.
// Field errors are reported under their JSON names, so a failure on
// MaxPrice reads "max_price must be greater than or equal to 0". Beyond the
// built-in tags, "nocontrol" rejects strings with control characters.
//
// Validation here is structural: types, ranges, enumerations and formats.
// Semantic profile rules such as max_price >= min_price belong to the
// recommendation engine, which reports them as InvalidProfileError.
//
//	type RecommendRequest struct {
//	    SkinType string   `json:"skin_type" validate:"max=64,nocontrol"`
//	    TopN     int      `json:"top_n" validate:"gte=0,lte=50"`
//	    MinPrice *float64 `json:"min_price" validate:"omitempty,gte=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
