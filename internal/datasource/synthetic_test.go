// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package datasource

import (
	"context"
	"testing"
)

func productRange(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

func TestGenerateRatings_Defaults(t *testing.T) {
	t.Parallel()

	ratings, err := GenerateRatings(SyntheticConfig{}, productRange(200))
	if err != nil {
		t.Fatal(err)
	}
	if len(ratings) == 0 || len(ratings) > 1000 {
		t.Fatalf("got %d ratings, want between 1 and 1000", len(ratings))
	}

	type pair struct{ u, p int }
	seen := map[pair]bool{}
	valid := map[int]bool{}
	for _, id := range productRange(200) {
		valid[id] = true
	}
	for _, r := range ratings {
		if r.UserID < 1 || r.UserID > 100 {
			t.Errorf("user id %d outside 1..100", r.UserID)
		}
		if r.Value < 3 || r.Value > 5 || r.Value != float64(int(r.Value)) {
			t.Errorf("rating %v outside integer 3..5", r.Value)
		}
		if !valid[r.ProductID] {
			t.Errorf("product id %d not in the catalog", r.ProductID)
		}
		k := pair{r.UserID, r.ProductID}
		if seen[k] {
			t.Errorf("duplicate pair %+v", k)
		}
		seen[k] = true
	}
}

func TestGenerateRatings_Deterministic(t *testing.T) {
	t.Parallel()

	ids := productRange(50)
	a, _ := GenerateRatings(DefaultSyntheticConfig(), ids)
	b, _ := GenerateRatings(DefaultSyntheticConfig(), ids)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("rating %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	cfg := DefaultSyntheticConfig()
	cfg.Seed = 7
	c, _ := GenerateRatings(cfg, ids)
	same := len(a) == len(c)
	for i := 0; same && i < len(a); i++ {
		same = a[i] == c[i]
	}
	if same {
		t.Error("different seeds produced identical ratings")
	}
}

func TestGenerateRatings_EdgeCases(t *testing.T) {
	t.Parallel()

	got, err := GenerateRatings(DefaultSyntheticConfig(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("empty catalog = %v, %v; want no ratings", got, err)
	}

	cfg := DefaultSyntheticConfig()
	cfg.MinRating, cfg.MaxRating = 5, 2
	if _, err := GenerateRatings(cfg, productRange(3)); err == nil {
		t.Error("expected error for inverted rating range")
	}

	// one user, one product: only the first draw survives
	cfg = SyntheticConfig{Users: 1, Draws: 10}
	got, _ = GenerateRatings(cfg, []int{9})
	if len(got) != 1 || got[0].ProductID != 9 {
		t.Errorf("got %+v, want a single rating of product 9", got)
	}
}

func TestSyntheticRatingProvider(t *testing.T) {
	t.Parallel()

	p := NewSyntheticRatingProvider(DefaultSyntheticConfig())
	got, err := p.LoadRatings(context.Background(), productRange(10))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Error("expected generated ratings")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.LoadRatings(ctx, productRange(10)); err == nil {
		t.Error("expected error for canceled context")
	}
}
