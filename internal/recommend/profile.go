// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	birthdateLayout = "2006-01-02"
	maxAge          = 150
)

// ResolveProfile validates a request and returns the effective profile:
// the budget preset is applied when no explicit price bound is set, the
// birthdate supplies the age when none is given, and concerns are trimmed
// with empty entries dropped.
//
// Every invalid field is reported at once as ProfileErrors.
func ResolveProfile(req *Request, tables *KeywordTables, now time.Time) (UserProfile, error) {
	p := req.Profile
	var errs ProfileErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, &InvalidProfileError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	p.SkinType = strings.TrimSpace(p.SkinType)
	p.ProductType = strings.TrimSpace(p.ProductType)

	concerns := make([]string, 0, len(p.Concerns))
	for _, c := range p.Concerns {
		if c = strings.TrimSpace(c); c != "" {
			concerns = append(concerns, c)
		}
	}
	p.Concerns = concerns

	if req.Budget != "" && !p.HasPriceBound() {
		preset, ok := tables.Preset(req.Budget)
		if !ok {
			add("budget", "unknown budget %q", req.Budget)
		} else {
			p.MinPrice, p.MaxPrice = preset.Min, preset.Max
		}
	}

	if p.MinPrice != nil {
		if math.IsNaN(*p.MinPrice) || *p.MinPrice < 0 {
			add("min_price", "must be a non-negative number")
		}
	}
	if p.MaxPrice != nil {
		if math.IsNaN(*p.MaxPrice) || *p.MaxPrice < 0 {
			add("max_price", "must be a non-negative number")
		}
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MaxPrice < *p.MinPrice {
		add("max_price", "must be >= min_price, got %g < %g", *p.MaxPrice, *p.MinPrice)
	}

	if p.Age == nil && req.Birthdate != "" {
		age, err := AgeFromBirthdate(req.Birthdate, now)
		if err != nil {
			add("birthdate", "%v", err)
		} else {
			p.Age = &age
		}
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > maxAge) {
		add("age", "must be between 0 and %d, got %d", maxAge, *p.Age)
	}

	if req.TopN < 0 {
		add("top_n", "must be non-negative, got %d", req.TopN)
	}
	if req.Strategy != "" && !req.Strategy.Valid() {
		add("strategy", "unknown strategy %q", req.Strategy)
	}

	if len(errs) > 0 {
		return UserProfile{}, errs
	}
	return p, nil
}

// AgeFromBirthdate returns completed years between a YYYY-MM-DD birthdate
// and now.
func AgeFromBirthdate(birthdate string, now time.Time) (int, error) {
	b, err := time.Parse(birthdateLayout, strings.TrimSpace(birthdate))
	if err != nil {
		return 0, fmt.Errorf("expected YYYY-MM-DD, got %q", birthdate)
	}
	if b.After(now) {
		return 0, fmt.Errorf("birthdate %s is in the future", birthdate)
	}
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, nil
}

// QueryText joins the skin type and concerns into the text projected into
// the similarity index.
func (p *UserProfile) QueryText() string {
	parts := make([]string, 0, len(p.Concerns)+1)
	if p.SkinType != "" {
		parts = append(parts, p.SkinType)
	}
	parts = append(parts, p.Concerns...)
	return strings.Join(parts, " ")
}
