// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package datasource

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

// SyntheticConfig controls generated ratings.
type SyntheticConfig struct {
	// Seed makes generation reproducible. Default: 42.
	Seed uint64

	// Users is the number of distinct user ids, numbered from 1.
	// Default: 100.
	Users int

	// Draws is the number of (user, product) samples taken before
	// duplicate pairs are dropped. Default: 1000.
	Draws int

	// MinRating and MaxRating bound the integer rating values.
	// Default: 3 and 5.
	MinRating int
	MaxRating int
}

// DefaultSyntheticConfig returns the default generator settings.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{Seed: 42, Users: 100, Draws: 1000, MinRating: 3, MaxRating: 5}
}

func (c SyntheticConfig) withDefaults() SyntheticConfig {
	d := DefaultSyntheticConfig()
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	if c.Users <= 0 {
		c.Users = d.Users
	}
	if c.Draws <= 0 {
		c.Draws = d.Draws
	}
	if c.MinRating <= 0 {
		c.MinRating = d.MinRating
	}
	if c.MaxRating <= 0 {
		c.MaxRating = d.MaxRating
	}
	return c
}

// GenerateRatings draws cfg.Draws random ratings over productIDs and keeps
// the first rating of each (user, product) pair. The same config and ids
// always produce the same ratings.
func GenerateRatings(cfg SyntheticConfig, productIDs []int) ([]recommend.Rating, error) {
	cfg = cfg.withDefaults()
	if cfg.MaxRating < cfg.MinRating {
		return nil, fmt.Errorf("max rating %d is below min rating %d", cfg.MaxRating, cfg.MinRating)
	}
	if len(productIDs) == 0 {
		return []recommend.Rating{}, nil
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // not security sensitive
	type pair struct{ user, product int }
	seen := make(map[pair]bool, cfg.Draws)
	out := make([]recommend.Rating, 0, cfg.Draws)

	span := cfg.MaxRating - cfg.MinRating + 1
	for i := 0; i < cfg.Draws; i++ {
		user := rng.IntN(cfg.Users) + 1
		product := productIDs[rng.IntN(len(productIDs))]
		value := cfg.MinRating + rng.IntN(span)

		k := pair{user, product}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, recommend.Rating{UserID: user, ProductID: product, Value: float64(value)})
	}
	return out, nil
}

// SyntheticRatingProvider generates ratings for whatever catalog is being
// loaded.
type SyntheticRatingProvider struct {
	config SyntheticConfig
}

// NewSyntheticRatingProvider creates a generated rating source.
func NewSyntheticRatingProvider(cfg SyntheticConfig) *SyntheticRatingProvider {
	return &SyntheticRatingProvider{config: cfg}
}

// LoadRatings generates ratings over productIDs.
func (p *SyntheticRatingProvider) LoadRatings(ctx context.Context, productIDs []int) ([]recommend.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return GenerateRatings(p.config, productIDs)
}
