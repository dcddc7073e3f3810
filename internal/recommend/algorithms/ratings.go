// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package algorithms

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Rating is one user's rating of one product.
type Rating struct {
	UserID    int     `json:"user_id"`
	ProductID int     `json:"product_id"`
	Value     float64 `json:"rating"`
}

// PeerConfig contains configuration for the item-based peer signal.
type PeerConfig struct {
	// Neighbors is the number of most similar products kept per product.
	// Default: 20.
	Neighbors int

	// MinSimilarity drops neighbors below this adjusted-cosine similarity.
	// Default: 0.05.
	MinSimilarity float64

	// Shrinkage regularizes similarity for pairs with few common raters:
	// sim = raw_sim * n / (n + shrinkage).
	// Default: 10.
	Shrinkage float64

	// MinCommonUsers is the minimum number of users who rated both products
	// for a similarity to be computed.
	// Default: 2.
	MinCommonUsers int

	// Scale is the maximum rating value. Ratings outside (0, Scale] are
	// discarded and counted as skipped.
	// Default: 5.
	Scale float64

	// NumWorkers is the number of parallel workers used for neighbor search.
	// Default: 4.
	NumWorkers int
}

// DefaultPeerConfig returns default peer configuration for a 1-5 scale.
func DefaultPeerConfig() PeerConfig {
	return PeerConfig{
		Neighbors:      20,
		MinSimilarity:  0.05,
		Shrinkage:      10,
		MinCommonUsers: 2,
		Scale:          5,
		NumWorkers:     4,
	}
}

// neighbor represents a similar product with its similarity score.
type neighbor struct {
	ID         int
	Similarity float64
}

// RatingTable aggregates ratings into a per-product quality signal and a
// peer signal.
//
// The peer signal is item-based collaborative filtering over user-centred
// ratings (each user's mean is subtracted from their ratings before product
// vectors are compared, i.e. adjusted cosine). For product p with
// neighbors N(p):
//
//	peer(p) = sum_{j in N(p)} sim(p, j) * avg(j) / sum_{j in N(p)} |sim(p, j)| / scale
//
// The personalised form used by PredictForUser substitutes the user's own
// rating r(u, j) for avg(j), restricted to neighbors the user rated.
type RatingTable struct {
	BaseAlgorithm
	config PeerConfig

	// averages and counts are keyed by product ID
	averages map[int]float64
	counts   map[int]int

	// itemVectors stores user-centred ratings (productID -> userID -> value)
	itemVectors map[int]map[int]float64

	// userRatings stores raw ratings (userID -> productID -> value)
	userRatings map[int]map[int]float64

	neighbors map[int][]neighbor
	peer      map[int]float64

	total   int
	skipped int
}

// BuildRatingTable builds a rating table. Duplicate (user, product) pairs
// keep the last rating seen. An empty input yields an empty, usable table.
func BuildRatingTable(ctx context.Context, ratings []Rating, cfg PeerConfig) (*RatingTable, error) {
	cfg = applyPeerDefaults(cfg)

	t := &RatingTable{
		BaseAlgorithm: NewBaseAlgorithm("item_peer_cf"),
		config:        cfg,
		averages:      make(map[int]float64),
		counts:        make(map[int]int),
		itemVectors:   make(map[int]map[int]float64),
		userRatings:   make(map[int]map[int]float64),
		neighbors:     make(map[int][]neighbor),
		peer:          make(map[int]float64),
	}

	for _, r := range ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value <= 0 || r.Value > cfg.Scale {
			t.skipped++
			continue
		}
		if t.userRatings[r.UserID] == nil {
			t.userRatings[r.UserID] = make(map[int]float64)
		}
		t.userRatings[r.UserID][r.ProductID] = r.Value
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	sums := make(map[int]float64)
	for userID, items := range t.userRatings {
		var userSum float64
		for _, v := range items {
			userSum += v
		}
		userMean := userSum / float64(len(items))

		for productID, v := range items {
			sums[productID] += v
			t.counts[productID]++
			t.total++

			if t.itemVectors[productID] == nil {
				t.itemVectors[productID] = make(map[int]float64)
			}
			t.itemVectors[productID][userID] = v - userMean
		}
	}
	for productID, sum := range sums {
		t.averages[productID] = sum / float64(t.counts[productID])
	}

	if err := t.computeNeighbors(ctx); err != nil {
		return nil, err
	}

	for productID, ns := range t.neighbors {
		var num, den float64
		for _, n := range ns {
			num += n.Similarity * t.averages[n.ID]
			den += math.Abs(n.Similarity)
		}
		if den > 0 {
			t.peer[productID] = clamp01(num / den / cfg.Scale)
		}
	}

	return t, nil
}

func applyPeerDefaults(cfg PeerConfig) PeerConfig {
	def := DefaultPeerConfig()
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = def.Neighbors
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = def.MinSimilarity
	}
	if cfg.Shrinkage < 0 {
		cfg.Shrinkage = 0
	}
	if cfg.MinCommonUsers <= 0 {
		cfg.MinCommonUsers = def.MinCommonUsers
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	return cfg
}

// computeNeighbors precomputes the top neighbors of every rated product.
func (t *RatingTable) computeNeighbors(ctx context.Context) error {
	productIDs := make([]int, 0, len(t.itemVectors))
	for id := range t.itemVectors {
		productIDs = append(productIDs, id)
	}
	sort.Ints(productIDs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	chunkSize := (len(productIDs) + t.config.NumWorkers - 1) / t.config.NumWorkers

	for w := 0; w < t.config.NumWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(productIDs) {
			end = len(productIDs)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(slice []int) {
			defer wg.Done()

			for _, pid := range slice {
				if ContextCancelled(ctx) {
					return
				}

				ns := t.productNeighbors(pid, productIDs)

				mu.Lock()
				if len(ns) > 0 {
					t.neighbors[pid] = ns
				}
				mu.Unlock()
			}
		}(productIDs[start:end])
	}

	wg.Wait()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}
	return nil
}

// productNeighbors returns the most similar products to productID, highest
// similarity first; ties are broken by ascending product ID.
func (t *RatingTable) productNeighbors(productID int, all []int) []neighbor {
	vec := t.itemVectors[productID]
	ns := make([]neighbor, 0)

	for _, otherID := range all {
		if otherID == productID {
			continue
		}
		sim := t.similarity(vec, t.itemVectors[otherID])
		if sim >= t.config.MinSimilarity {
			ns = append(ns, neighbor{ID: otherID, Similarity: sim})
		}
	}

	sort.Slice(ns, func(a, b int) bool {
		if ns[a].Similarity != ns[b].Similarity {
			return ns[a].Similarity > ns[b].Similarity
		}
		return ns[a].ID < ns[b].ID
	})

	if len(ns) > t.config.Neighbors {
		ns = ns[:t.config.Neighbors]
	}
	return ns
}

// similarity computes shrunk cosine similarity between two centred vectors
// over their common users.
func (t *RatingTable) similarity(a, b map[int]float64) float64 {
	var common int
	var dot, normA, normB float64
	for user, va := range a {
		vb, ok := b[user]
		if !ok {
			continue
		}
		common++
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if common < t.config.MinCommonUsers || normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if t.config.Shrinkage > 0 {
		sim = sim * float64(common) / (float64(common) + t.config.Shrinkage)
	}
	return sim
}

// AverageRating returns the mean rating of productID, or 0 if unrated.
func (t *RatingTable) AverageRating(productID int) float64 {
	return t.averages[productID]
}

// RatingCount returns the number of ratings kept for productID.
func (t *RatingTable) RatingCount(productID int) int {
	return t.counts[productID]
}

// HasRatings reports whether productID has at least one rating.
func (t *RatingTable) HasRatings(productID int) bool {
	return t.counts[productID] > 0
}

// PeerScore returns the non-personalised peer signal of productID in
// [0, 1], or 0 if the product has no neighbors.
func (t *RatingTable) PeerScore(productID int) float64 {
	return t.peer[productID]
}

// HasUser reports whether userID has rated anything.
func (t *RatingTable) HasUser(userID int) bool {
	return len(t.userRatings[userID]) > 0
}

// PredictForUser returns the personalised peer signal of productID for
// userID in [0, 1]. ok is false when none of the product's neighbors were
// rated by the user.
func (t *RatingTable) PredictForUser(userID, productID int) (score float64, ok bool) {
	rated := t.userRatings[userID]
	if len(rated) == 0 {
		return 0, false
	}

	var num, den float64
	for _, n := range t.neighbors[productID] {
		if r, found := rated[n.ID]; found {
			num += n.Similarity * r
			den += math.Abs(n.Similarity)
		}
	}
	if den == 0 {
		return 0, false
	}
	return clamp01(num / den / t.config.Scale), true
}

// Scale returns the maximum rating value.
func (t *RatingTable) Scale() float64 {
	return t.config.Scale
}

// Stats returns the number of ratings kept, ratings skipped as invalid,
// rated products and raters.
func (t *RatingTable) Stats() (kept, skipped, products, users int) {
	return t.total, t.skipped, len(t.counts), len(t.userRatings)
}
