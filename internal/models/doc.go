// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package models defines the HTTP wire types shared by the API layer.

Key Components:

  - APIResponse: standard response wrapper with Metadata and APIError
  - RecommendRequest: request body for POST /api/v1/recommend
  - AnalyzeRequest: request body for POST /api/v1/recommend/analyze
  - HealthStatus: payload of GET /api/v1/health

Request bodies carry go-playground/validator tags. They check structure
only (lengths, ranges, enumerations, date format); semantic checks such as
max_price >= min_price belong to the recommendation engine.

Result types (recommend.Response, recommend.CatalogStatus and history
records) are defined next to the code that produces them and are embedded
in APIResponse.Data as-is.
*/
package models
