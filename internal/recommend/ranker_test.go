// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"sort"
	"testing"
)

func scoredOf(totals []float64, categories []string) []ScoredProduct {
	out := make([]ScoredProduct, len(totals))
	for i := range totals {
		p := &Product{ID: i + 1, Name: "p", Category: categories[i]}
		out[i] = ScoredProduct{Candidate: Candidate{Product: p, Position: i}, Total: totals[i]}
	}
	return out
}

func rankedIDs(r []ScoredProduct) []int {
	ids := make([]int, len(r))
	for i := range r {
		ids[i] = r[i].Product.ID
	}
	return ids
}

func TestRank_TopNThenRoutineOrder(t *testing.T) {
	t.Parallel()

	scored := scoredOf(
		[]float64{40, 90, 70, 10, 80},
		[]string{"cleanser", "sunscreen", "serum", "toner", "moisturizer"},
	)
	got := rankedIDs(Rank(scored, 3, ModeTopN, testTables()))

	// top three by score are 2 (90), 5 (80), 3 (70); presented by step 3, 4, 5
	want := []int{3, 5, 2}
	if !equalInts(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	scored := scoredOf([]float64{50, 50, 50}, []string{"serum", "serum", "serum"})
	// shuffle input order; ties must still resolve by catalog position
	scored[0], scored[2] = scored[2], scored[0]

	got := rankedIDs(Rank(scored, 3, ModeTopN, testTables()))
	if !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("Rank() = %v, want catalog order [1 2 3]", got)
	}
}

func TestRank_Stable(t *testing.T) {
	t.Parallel()

	totals := []float64{33, 71, 71, 12, 90, 45}
	cats := []string{"toner", "serum", "cream", "mask", "cleanser", "spf"}

	first := rankedIDs(Rank(scoredOf(totals, cats), 4, ModeTopN, testTables()))
	for i := 0; i < 5; i++ {
		again := rankedIDs(Rank(scoredOf(totals, cats), 4, ModeTopN, testTables()))
		if !equalInts(first, again) {
			t.Fatalf("run %d: %v differs from %v", i, again, first)
		}
	}
}

func TestRank_RoutineOrderPreservesSelection(t *testing.T) {
	t.Parallel()

	totals := []float64{10, 20, 30, 40, 50, 60, 70}
	cats := []string{"mask", "sunscreen", "cream", "serum", "toner", "cleanser", "essence"}

	scored := scoredOf(totals, cats)
	byScore := make([]ScoredProduct, len(scored))
	copy(byScore, scored)
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].Total > byScore[j].Total })
	wantSet := rankedIDs(byScore[:5])

	got := Rank(scored, 5, ModeTopN, testTables())
	gotSet := rankedIDs(got)
	sort.Ints(wantSet)
	sort.Ints(gotSet)
	if !equalInts(gotSet, wantSet) {
		t.Errorf("selected set = %v, want %v", gotSet, wantSet)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Step > got[i].Step {
			t.Errorf("steps out of order: %d before %d", got[i-1].Step, got[i].Step)
		}
	}
}

func TestRank_RoutineMode(t *testing.T) {
	t.Parallel()

	scored := scoredOf(
		[]float64{95, 90, 85, 80, 75, 70},
		[]string{"serum", "essence", "cleanser", "mask", "foam cleanser", "sheet mask"},
	)
	got := Rank(scored, 5, ModeRoutine, testTables())

	// serum (3), cleanser (1) and mask (6) are the best per step
	want := []int{3, 1, 4}
	if !equalInts(rankedIDs(got), want) {
		t.Errorf("Rank(routine) = %v, want %v", rankedIDs(got), want)
	}
	seen := map[int]bool{}
	for _, sp := range got {
		if seen[sp.Step] {
			t.Errorf("step %d selected twice", sp.Step)
		}
		seen[sp.Step] = true
	}
}

func TestRank_RoutineModeStopsAtTopN(t *testing.T) {
	t.Parallel()

	scored := scoredOf(
		[]float64{90, 80, 70, 60},
		[]string{"cleanser", "toner", "serum", "cream"},
	)
	if got := Rank(scored, 2, ModeRoutine, testTables()); !equalInts(rankedIDs(got), []int{1, 2}) {
		t.Errorf("Rank(routine, 2) = %v, want [1 2]", rankedIDs(got))
	}
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()

	if got := Rank(nil, 5, ModeTopN, testTables()); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}

func TestToResults(t *testing.T) {
	t.Parallel()

	sp := ScoredProduct{
		Candidate:       Candidate{Product: &Product{ID: 7, Name: "Gel", Brand: "B", Category: "serum", Price: 390.5, PriceKnown: true}},
		Total:           81.23456,
		Components:      map[string]float64{ComponentSkin: 30, ComponentConcern: 35.33333},
		Diagnostics:     Diagnostics{SkinMatch: SkinMatchExact, Quality: 4.256},
		MatchedConcerns: []string{"acne"},
		Step:            3,
	}
	r := toResults([]ScoredProduct{sp, {Candidate: Candidate{Product: &Product{ID: 8}}}}, &UserProfile{SkinType: "oily"})

	if r[0].Score != 81.23 {
		t.Errorf("Score = %f, want 81.23", r[0].Score)
	}
	if r[0].Components[ComponentConcern] != 35.33 {
		t.Errorf("component = %f, want 35.33", r[0].Components[ComponentConcern])
	}
	if r[0].Price == nil || *r[0].Price != 390.5 {
		t.Errorf("Price = %v, want 390.5", r[0].Price)
	}
	if r[0].Diagnostics.Quality != 4.26 {
		t.Errorf("Quality = %f, want 4.26", r[0].Diagnostics.Quality)
	}
	if r[0].Insight != "Match 81% for oily skin, targets acne" {
		t.Errorf("Insight = %q", r[0].Insight)
	}
	if r[1].Price != nil {
		t.Error("unknown price should be nil")
	}
}
