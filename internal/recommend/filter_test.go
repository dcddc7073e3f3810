// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"testing"
)

func mustCatalog(t *testing.T, products ...Product) *Catalog {
	t.Helper()
	c, err := NewCatalog(products)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func candidateIDs(cands []Candidate) []int {
	ids := make([]int, len(cands))
	for i, c := range cands {
		ids[i] = c.Product.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterCandidates(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t,
		Product{ID: 1, Name: "Oil Gel", SkinTypeTags: "oily, combination", Category: "Moisturizer", Price: 300, PriceKnown: true},
		Product{ID: 2, Name: "Rich Cream", SkinTypeTags: "dry", Category: "Cream", Price: 900, PriceKnown: true},
		Product{ID: 3, Name: "Daily Wash", SkinTypeTags: "ทุกสภาพผิว", Category: "Cleanser (ล้างหน้า)", Price: 150, PriceKnown: true},
		Product{ID: 4, Name: "Mystery Serum", SkinTypeTags: "ผิวมัน", Category: "Serum"},
	)
	tables := testTables()

	tests := []struct {
		name    string
		profile UserProfile
		want    []int
	}{
		{name: "no constraints", profile: UserProfile{}, want: []int{1, 2, 3, 4}},
		{name: "skin type all", profile: UserProfile{SkinType: "all"}, want: []int{1, 2, 3, 4}},
		{name: "oily matches english and thai tags plus universal", profile: UserProfile{SkinType: "Oily"}, want: []int{1, 3, 4}},
		{name: "dry", profile: UserProfile{SkinType: "dry"}, want: []int{2, 3}},
		{name: "category uses first token", profile: UserProfile{ProductType: "cleanser (ล้างหน้า)"}, want: []int{3}},
		{name: "category all sentinel", profile: UserProfile{ProductType: "All"}, want: []int{1, 2, 3, 4}},
		{name: "upper bound excludes unknown price", profile: UserProfile{MaxPrice: floatPtr(500)}, want: []int{1, 3}},
		{name: "lower bound", profile: UserProfile{MinPrice: floatPtr(300)}, want: []int{1, 2}},
		{name: "bounds inclusive", profile: UserProfile{MinPrice: floatPtr(300), MaxPrice: floatPtr(900)}, want: []int{1, 2}},
		{name: "combined predicates", profile: UserProfile{SkinType: "oily", MaxPrice: floatPtr(200)}, want: []int{3}},
		{name: "nothing passes", profile: UserProfile{SkinType: "dry", ProductType: "serum"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := candidateIDs(FilterCandidates(catalog, &tt.profile, tables))
			if !equalInts(got, tt.want) {
				t.Errorf("FilterCandidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterCandidates_UniversalPassesEveryType(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, Product{ID: 1, SkinTypeTags: "Suitable for all skin types"})
	tables := testTables()
	for _, skin := range []string{"oily", "dry", "combination", "sensitive", "normal", "ผิวแห้ง"} {
		if got := FilterCandidates(catalog, &UserProfile{SkinType: skin}, tables); len(got) != 1 {
			t.Errorf("universal product rejected for skin type %q", skin)
		}
	}
}

func TestFilterCandidates_OnlyOilyCatalogForDrySkin(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t,
		Product{ID: 1, SkinTypeTags: "oily"},
		Product{ID: 2, SkinTypeTags: "oily, acne-prone"},
	)
	if got := FilterCandidates(catalog, &UserProfile{SkinType: "dry"}, testTables()); len(got) != 0 {
		t.Errorf("FilterCandidates() = %v, want none", candidateIDs(got))
	}
}

func TestFilterCandidates_PositionsFollowCatalog(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, Product{ID: 10}, Product{ID: 20}, Product{ID: 30})
	for i, c := range FilterCandidates(catalog, &UserProfile{}, testTables()) {
		if c.Position != i {
			t.Errorf("candidate %d has position %d", c.Product.ID, c.Position)
		}
	}
}

func TestFilterCandidates_EmptyValuesWithoutTableSentinels(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t,
		Product{ID: 1, SkinTypeTags: "oily", Category: "Serum"},
		Product{ID: 2, SkinTypeTags: "dry", Category: "Cream"},
	)
	tables := DefaultKeywordTables()
	tables.AllCategories = []string{"all", "ทุกประเภท"}
	tables.AnySkinType = []string{"all"}
	tables.Normalize()
	if err := tables.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name    string
		profile UserProfile
		want    []int
	}{
		{name: "empty skin type and category", profile: UserProfile{}, want: []int{1, 2}},
		{name: "empty category with skin type", profile: UserProfile{SkinType: "oily"}, want: []int{1}},
		{name: "blank category", profile: UserProfile{ProductType: " \t "}, want: []int{1, 2}},
		{name: "table sentinel still applies", profile: UserProfile{SkinType: "All", ProductType: "ทุกประเภท"}, want: []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := candidateIDs(FilterCandidates(catalog, &tt.profile, &tables))
			if !equalInts(got, tt.want) {
				t.Errorf("FilterCandidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterCandidates_UniversalNeedsWholeWord(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t,
		Product{ID: 1, SkinTypeTags: "allergy-prone"},
		Product{ID: 2, SkinTypeTags: "small pores"},
		Product{ID: 3, SkinTypeTags: "all skin types"},
	)
	got := candidateIDs(FilterCandidates(catalog, &UserProfile{SkinType: "dry"}, testTables()))
	if !equalInts(got, []int{3}) {
		t.Errorf("FilterCandidates() = %v, want [3]", got)
	}
}
