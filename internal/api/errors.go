// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/skinmatch/internal/models"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// API error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeReloadInProgress   = "RELOAD_IN_PROGRESS"
	CodeHistoryDisabled    = "HISTORY_DISABLED"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrHistoryDisabled is returned by history endpoints when no history
// store is configured.
var ErrHistoryDisabled = errors.New("recommendation history is disabled")

// classifyError maps an engine error onto an HTTP status and API error.
// The reason string labels the recommendation error metric.
func classifyError(err error) (status int, apiErr *models.APIError, reason string) {
	var profileErrs recommend.ProfileErrors
	var profileErr *recommend.InvalidProfileError
	var loadErr *recommend.CatalogLoadError

	switch {
	case errors.As(err, &profileErrs) && len(profileErrs) > 0:
		fields := make([]map[string]interface{}, len(profileErrs))
		for i, fe := range profileErrs {
			fields[i] = map[string]interface{}{"field": fe.Field, "message": fe.Message}
		}
		details := map[string]interface{}{"fields": fields}
		if len(profileErrs) == 1 {
			details = map[string]interface{}{"field": profileErrs[0].Field}
		}
		return http.StatusBadRequest, &models.APIError{
			Code:    CodeValidation,
			Message: profileMessage(profileErrs),
			Details: details,
		}, "invalid_profile"

	case errors.As(err, &profileErr):
		return http.StatusBadRequest, &models.APIError{
			Code:    CodeValidation,
			Message: profileErr.Field + " " + profileErr.Message,
			Details: map[string]interface{}{"field": profileErr.Field},
		}, "invalid_profile"

	case errors.Is(err, recommend.ErrProductNotFound):
		return http.StatusNotFound, &models.APIError{
			Code:    CodeNotFound,
			Message: "Product not found",
		}, "not_found"

	case errors.Is(err, recommend.ErrNoSnapshot):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeCatalogUnavailable,
			Message: "Catalog is not loaded yet",
		}, "no_snapshot"

	case errors.Is(err, recommend.ErrReloadInProgress):
		return http.StatusConflict, &models.APIError{
			Code:    CodeReloadInProgress,
			Message: "A catalog reload is already running",
		}, "reload_in_progress"

	case errors.As(err, &loadErr):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeCatalogUnavailable,
			Message: "Catalog reload failed: " + loadErr.Reason,
		}, "catalog_load"

	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeHistoryDisabled,
			Message: "Recommendation history is not enabled",
		}, "history_disabled"

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeInternal,
			Message: "Request timed out",
		}, "timeout"

	default:
		return http.StatusInternalServerError, &models.APIError{
			Code:    CodeInternal,
			Message: "Internal server error",
		}, "internal"
	}
}

func profileMessage(errs recommend.ProfileErrors) string {
	parts := make([]string, len(errs))
	for i, fe := range errs {
		parts[i] = fe.Field + " " + fe.Message
	}
	return strings.Join(parts, "; ")
}
