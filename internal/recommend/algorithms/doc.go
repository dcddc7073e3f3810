// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package algorithms implements the similarity models behind product scoring.
//
// Two models are provided, both built once per catalog generation and
// immutable afterwards:
//
//   - TFIDFIndex: character n-gram (word-boundary aware) TF-IDF vectors over
//     each product's descriptive text, queried with cosine similarity.
//   - RatingTable: per-product mean ratings plus an item-based peer signal
//     computed from user-centred rating vectors.
//
// # Thread Safety
//
// Neither model is mutated after its Build function returns, so a single
// instance can be shared by any number of concurrent requests without
// locking. Rebuilding produces a new instance; callers swap the reference.
//
// # Usage
//
//	idx, err := algorithms.BuildTFIDFIndex(ctx, docs, algorithms.DefaultNGramConfig())
//	if err != nil {
//	    return err
//	}
//	scores := idx.Similarity("oily acne")
//
//	table, err := algorithms.BuildRatingTable(ctx, ratings, algorithms.DefaultPeerConfig())
//	avg := table.AverageRating(productID)
//	peer := table.PeerScore(productID)
package algorithms
