// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogEmpty marks a loaded catalog with no accepted products.
	// It is a warning: the snapshot is installed and every request answers
	// with StatusNoMatches.
	ErrCatalogEmpty = errors.New("catalog is empty")

	// ErrNoSnapshot is returned when no catalog has been loaded yet.
	ErrNoSnapshot = errors.New("no catalog snapshot loaded")

	// ErrReloadInProgress is returned when a reload is already running.
	ErrReloadInProgress = errors.New("catalog reload already in progress")

	// ErrProductNotFound is returned for an unknown product ID.
	ErrProductNotFound = errors.New("product not found")
)

// CatalogLoadError reports a catalog that cannot be served at all, such as
// a provider failure or missing mandatory columns.
type CatalogLoadError struct {
	Reason string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog load failed: %s: %v", e.Reason, e.Err)
	}
	return "catalog load failed: " + e.Reason
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// InvalidProfileError reports a structurally invalid request field.
type InvalidProfileError struct {
	Field   string
	Message string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s: %s", e.Field, e.Message)
}

// ProfileErrors collects every invalid field of one request.
type ProfileErrors []*InvalidProfileError

func (e ProfileErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

// As lets errors.As find the first field error.
func (e ProfileErrors) As(target any) bool {
	if t, ok := target.(**InvalidProfileError); ok && len(e) > 0 {
		*t = e[0]
		return true
	}
	return false
}

// RatingAggregationWarning records a rating source that failed or returned
// unusable data. Scoring degrades to content-only signals.
type RatingAggregationWarning struct {
	Err error
}

func (w *RatingAggregationWarning) Error() string {
	return "ratings unavailable, using content-only scoring: " + w.Err.Error()
}

func (w *RatingAggregationWarning) Unwrap() error {
	return w.Err
}

// IsClientError reports whether err was caused by request input.
func IsClientError(err error) bool {
	var pe *InvalidProfileError
	return errors.As(err, &pe)
}
