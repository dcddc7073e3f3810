// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Rank selects products by relevance and orders them by routine step.
//
// The scored list is sorted by descending total with catalog position as
// the tie-breaker. ModeTopN takes the first topN. ModeRoutine keeps at most
// one product per routine step (unscheduled products share one step) until
// topN are selected. The selection is then re-sorted by step; products in
// the same step keep their relevance order. The input slice is reordered.
func Rank(scored []ScoredProduct, topN int, mode RecommendMode, tables *KeywordTables) []ScoredProduct {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Total != scored[j].Total {
			return scored[i].Total > scored[j].Total
		}
		return scored[i].Position < scored[j].Position
	})

	for i := range scored {
		scored[i].Step = tables.RoutineStep(scored[i].Product.Category)
	}

	var selected []ScoredProduct
	switch mode {
	case ModeRoutine:
		selected = make([]ScoredProduct, 0, topN)
		seen := make(map[int]bool)
		for i := range scored {
			if len(selected) >= topN {
				break
			}
			if seen[scored[i].Step] {
				continue
			}
			seen[scored[i].Step] = true
			selected = append(selected, scored[i])
		}
	default:
		n := topN
		if n > len(scored) {
			n = len(scored)
		}
		selected = make([]ScoredProduct, n)
		copy(selected, scored[:n])
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Step < selected[j].Step
	})
	return selected
}

// toResults converts ranked products to response items.
func toResults(ranked []ScoredProduct, profile *UserProfile) []RecommendationResult {
	items := make([]RecommendationResult, len(ranked))
	for i := range ranked {
		sp := &ranked[i]
		p := sp.Product

		var price *float64
		if p.PriceKnown {
			v := p.Price
			price = &v
		}

		components := make(map[string]float64, len(sp.Components))
		for k, v := range sp.Components {
			components[k] = round2(v)
		}

		diag := sp.Diagnostics
		diag.Quality = round2(diag.Quality)
		diag.Trend = round2(diag.Trend)

		items[i] = RecommendationResult{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Type:        p.Category,
			Price:       price,
			Score:       round2(sp.Total),
			RoutineStep: sp.Step,
			Components:  components,
			Diagnostics: diag,
			Insight:     insight(sp, profile),
		}
	}
	return items
}

// insight renders a short summary such as "Match 82% for oily skin,
// targets acne".
func insight(sp *ScoredProduct, profile *UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match %d%%", int(math.Round(sp.Total)))
	switch sp.Diagnostics.SkinMatch {
	case SkinMatchExact, SkinMatchPartial:
		fmt.Fprintf(&b, " for %s skin", profile.SkinType)
	case SkinMatchUniversal:
		b.WriteString(" for all skin types")
	}
	if len(sp.MatchedConcerns) > 0 {
		b.WriteString(", targets ")
		b.WriteString(strings.Join(sp.MatchedConcerns, ", "))
	}
	return b.String()
}
