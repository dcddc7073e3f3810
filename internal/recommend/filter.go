// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import "strings"

// Candidate is a product that passed every hard filter. Position is its
// catalog insertion index and serves as the ranking tie-breaker.
type Candidate struct {
	Product  *Product
	Position int
}

// candidatePredicate decides whether a product may be recommended.
type candidatePredicate func(p *Product) bool

// FilterCandidates narrows the catalog to products compatible with the
// profile. The predicates are independent, so their order only affects
// how early a product is rejected. An empty result is a normal outcome.
func FilterCandidates(catalog *Catalog, profile *UserProfile, tables *KeywordTables) []Candidate {
	predicates := []candidatePredicate{
		skinTypePredicate(profile.SkinType, tables),
		categoryPredicate(profile.ProductType, tables),
		pricePredicate(profile.MinPrice, profile.MaxPrice),
	}

	out := make([]Candidate, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		p := catalog.At(i)
		pass := true
		for _, pred := range predicates {
			if !pred(p) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, Candidate{Product: p, Position: i})
		}
	}
	return out
}

// skinTypePredicate passes products whose tags mention the requested type
// (or one of its aliases) and products tagged for every skin type.
func skinTypePredicate(skinType string, tables *KeywordTables) candidatePredicate {
	if tables.IsAnySkinType(skinType) {
		return func(*Product) bool { return true }
	}
	terms := tables.SkinTypeTerms(skinType)
	return func(p *Product) bool {
		tags := normalizeText(p.SkinTypeTags)
		return containsAny(tags, terms) || tables.IsUniversal(tags)
	}
}

// categoryPredicate matches only the leading token of the requested type so
// compound labels such as "Cleanser (ล้างหน้า)" still match "cleanser".
func categoryPredicate(productType string, tables *KeywordTables) candidatePredicate {
	fields := strings.Fields(normalizeText(productType))
	if len(fields) == 0 || tables.IsAllCategories(productType) {
		return func(*Product) bool { return true }
	}
	token := fields[0]
	return func(p *Product) bool {
		return strings.Contains(normalizeText(p.Category), token)
	}
}

// pricePredicate excludes unknown prices only when a bound is set.
func pricePredicate(minPrice, maxPrice *float64) candidatePredicate {
	if minPrice == nil && maxPrice == nil {
		return func(*Product) bool { return true }
	}
	return func(p *Product) bool {
		if !p.PriceKnown {
			return false
		}
		if minPrice != nil && p.Price < *minPrice {
			return false
		}
		if maxPrice != nil && p.Price > *maxPrice {
			return false
		}
		return true
	}
}
