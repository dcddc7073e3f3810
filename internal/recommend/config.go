// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/skinmatch/internal/recommend/algorithms"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights are the rule-strategy component weights. They must sum to 100.
	Weights ScoringWeights `json:"weights"`

	// Blend contains the hybrid-strategy blend ratios.
	Blend BlendConfig `json:"blend"`

	// Scoring contains strategy selection and thresholds.
	Scoring ScoringConfig `json:"scoring"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Text contains parameters for the character n-gram index.
	Text TextConfig `json:"text"`

	// Peer contains parameters for the rating peer signal.
	Peer PeerConfig `json:"peer"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache"`

	// Keywords holds the keyword heuristics tables.
	Keywords KeywordTables `json:"keywords"`
}

// ScoringWeights are the maximum points of each rule component.
type ScoringWeights struct {
	// Skin is the skin-type match weight.
	// Default: 30.
	Skin float64 `json:"skin"`

	// Concern is the concern match weight.
	// Default: 35.
	Concern float64 `json:"concern"`

	// Age is the age-appropriateness weight.
	// Default: 15.
	Age float64 `json:"age"`

	// Price is the relative price weight.
	// Default: 20.
	Price float64 `json:"price"`
}

// Sum returns the total of all weights.
func (w ScoringWeights) Sum() float64 {
	return w.Skin + w.Concern + w.Age + w.Price
}

// ToMap returns the weights as a string-keyed map.
func (w ScoringWeights) ToMap() map[string]float64 {
	return map[string]float64{
		ComponentSkin:    w.Skin,
		ComponentConcern: w.Concern,
		ComponentAge:     w.Age,
		ComponentPrice:   w.Price,
	}
}

// BlendConfig contains the hybrid-strategy blend.
type BlendConfig struct {
	// Content, Rating and Peer are blend ratios applied when the product has
	// rating data. They must sum to 1.
	// Default: 0.6 / 0.2 / 0.2.
	Content float64 `json:"content"`
	Rating  float64 `json:"rating"`
	Peer    float64 `json:"peer"`

	// NoRatingDiscount multiplies the content score of products without
	// rating data.
	// Default: 0.95.
	NoRatingDiscount float64 `json:"no_rating_discount"`
}

// ScoringConfig contains strategy selection and thresholds.
type ScoringConfig struct {
	// Strategy is used when a request does not name one.
	// Default: rules.
	Strategy Strategy `json:"strategy"`

	// AgePartialCredit is awarded when age is known but no bucket keyword
	// matches.
	// Default: 5.
	AgePartialCredit float64 `json:"age_partial_credit"`

	// MinScore drops candidates scoring below it before ranking.
	// Default: 0.
	MinScore float64 `json:"min_score"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request does not set top_n.
	// Default: 5.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the maximum allowed top_n.
	// Default: 50.
	MaxTopN int `json:"max_top_n"`

	// DefaultSimilar is the default number of similar products.
	// Default: 5.
	DefaultSimilar int `json:"default_similar"`

	// ReloadTimeout bounds one catalog and ratings reload.
	// Default: 2m.
	ReloadTimeout time.Duration `json:"reload_timeout"`
}

// TextConfig contains parameters for the character n-gram index.
type TextConfig struct {
	// MinN and MaxN bound the n-gram length.
	// Default: 3 and 5.
	MinN int `json:"min_n"`
	MaxN int `json:"max_n"`

	// MaxFeatures caps the vocabulary size; zero keeps every n-gram.
	// Default: 0.
	MaxFeatures int `json:"max_features"`
}

// PeerConfig contains parameters for the rating peer signal.
type PeerConfig struct {
	// Neighbors is the number of similar products kept per product.
	// Default: 20.
	Neighbors int `json:"neighbors"`

	// MinSimilarity drops weakly correlated neighbors.
	// Default: 0.05.
	MinSimilarity float64 `json:"min_similarity"`

	// Shrinkage damps similarities backed by few common raters.
	// Default: 10.
	Shrinkage float64 `json:"shrinkage"`

	// MinCommonUsers is the minimum number of shared raters.
	// Default: 2.
	MinCommonUsers int `json:"min_common_users"`

	// Scale is the maximum rating value.
	// Default: 5.
	Scale float64 `json:"scale"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: ScoringWeights{
			Skin:    30,
			Concern: 35,
			Age:     15,
			Price:   20,
		},
		Blend: BlendConfig{
			Content:          0.6,
			Rating:           0.2,
			Peer:             0.2,
			NoRatingDiscount: 0.95,
		},
		Scoring: ScoringConfig{
			Strategy:         StrategyRules,
			AgePartialCredit: 5,
			MinScore:         0,
		},
		Limits: LimitsConfig{
			DefaultTopN:    5,
			MaxTopN:        50,
			DefaultSimilar: 5,
			ReloadTimeout:  2 * time.Minute,
		},
		Text: TextConfig{
			MinN: 3,
			MaxN: 5,
		},
		Peer: PeerConfig{
			Neighbors:      20,
			MinSimilarity:  0.05,
			Shrinkage:      10,
			MinCommonUsers: 2,
			Scale:          5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Keywords: DefaultKeywordTables(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Skin < 0 || c.Weights.Concern < 0 || c.Weights.Age < 0 || c.Weights.Price < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if sum := c.Weights.Sum(); math.Abs(sum-100) > 1e-6 {
		return fmt.Errorf("weights must sum to 100, got %g", sum)
	}

	if c.Blend.Content < 0 || c.Blend.Rating < 0 || c.Blend.Peer < 0 {
		return fmt.Errorf("blend ratios must be non-negative, got %+v", c.Blend)
	}
	if sum := c.Blend.Content + c.Blend.Rating + c.Blend.Peer; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("blend ratios must sum to 1, got %g", sum)
	}
	if c.Blend.NoRatingDiscount < 0 || c.Blend.NoRatingDiscount > 1 {
		return fmt.Errorf("blend.no_rating_discount must be in [0, 1], got %f", c.Blend.NoRatingDiscount)
	}

	if !c.Scoring.Strategy.Valid() {
		return fmt.Errorf("scoring.strategy must be rules or hybrid, got %q", c.Scoring.Strategy)
	}
	if c.Scoring.AgePartialCredit < 0 || c.Scoring.AgePartialCredit > c.Weights.Age {
		return fmt.Errorf("scoring.age_partial_credit must be in [0, weights.age], got %f", c.Scoring.AgePartialCredit)
	}
	if c.Scoring.MinScore < 0 || c.Scoring.MinScore > 100 {
		return fmt.Errorf("scoring.min_score must be in [0, 100], got %f", c.Scoring.MinScore)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.DefaultSimilar < 1 {
		return fmt.Errorf("limits.default_similar must be positive, got %d", c.Limits.DefaultSimilar)
	}
	if c.Limits.ReloadTimeout <= 0 {
		return fmt.Errorf("limits.reload_timeout must be positive, got %v", c.Limits.ReloadTimeout)
	}

	if c.Text.MinN < 1 || c.Text.MaxN < c.Text.MinN {
		return fmt.Errorf("text n-gram range must satisfy 1 <= min_n <= max_n, got [%d, %d]", c.Text.MinN, c.Text.MaxN)
	}
	if c.Text.MaxFeatures < 0 {
		return fmt.Errorf("text.max_features must be non-negative, got %d", c.Text.MaxFeatures)
	}

	if c.Peer.Scale <= 0 {
		return fmt.Errorf("peer.scale must be positive, got %f", c.Peer.Scale)
	}
	if c.Peer.Neighbors < 1 {
		return fmt.Errorf("peer.neighbors must be positive, got %d", c.Peer.Neighbors)
	}

	if c.Cache.Enabled && (c.Cache.TTL <= 0 || c.Cache.MaxEntries < 1) {
		return fmt.Errorf("cache.ttl and cache.max_entries must be positive when caching is enabled")
	}

	return c.Keywords.Validate()
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Keywords = c.Keywords.clone()
	return &clone
}

func (t KeywordTables) clone() KeywordTables {
	out := t
	out.RoutineSteps = make([]RoutineRule, len(t.RoutineSteps))
	for i, r := range t.RoutineSteps {
		r.Keywords = append([]string(nil), r.Keywords...)
		out.RoutineSteps[i] = r
	}
	out.UniversalSkinTags = append([]string(nil), t.UniversalSkinTags...)
	out.AnySkinType = append([]string(nil), t.AnySkinType...)
	out.AllCategories = append([]string(nil), t.AllCategories...)
	out.SkinTypeAliases = cloneAliases(t.SkinTypeAliases)
	out.ConcernAliases = cloneAliases(t.ConcernAliases)
	out.AgeBuckets = make([]AgeBucket, len(t.AgeBuckets))
	for i, b := range t.AgeBuckets {
		b.Keywords = append([]string(nil), b.Keywords...)
		out.AgeBuckets[i] = b
	}
	out.PricePresets = make(map[string]PricePreset, len(t.PricePresets))
	for k, v := range t.PricePresets {
		out.PricePresets[k] = v
	}
	return out
}

func cloneAliases(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ngramConfig converts text settings for the index builder.
func (c *Config) ngramConfig() algorithms.NGramConfig {
	return algorithms.NGramConfig{MinN: c.Text.MinN, MaxN: c.Text.MaxN, MaxFeatures: c.Text.MaxFeatures}
}

// peerConfig converts peer settings for the rating table builder.
func (c *Config) peerConfig() algorithms.PeerConfig {
	pc := algorithms.DefaultPeerConfig()
	pc.Neighbors = c.Peer.Neighbors
	pc.MinSimilarity = c.Peer.MinSimilarity
	pc.Shrinkage = c.Peer.Shrinkage
	pc.MinCommonUsers = c.Peer.MinCommonUsers
	pc.Scale = c.Peer.Scale
	return pc
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Limits struct {
			DefaultTopN    int    `json:"default_top_n"`
			MaxTopN        int    `json:"max_top_n"`
			DefaultSimilar int    `json:"default_similar"`
			ReloadTimeout  string `json:"reload_timeout"`
		} `json:"limits"`
		Cache struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Limits: struct {
			DefaultTopN    int    `json:"default_top_n"`
			MaxTopN        int    `json:"max_top_n"`
			DefaultSimilar int    `json:"default_similar"`
			ReloadTimeout  string `json:"reload_timeout"`
		}{
			DefaultTopN:    c.Limits.DefaultTopN,
			MaxTopN:        c.Limits.MaxTopN,
			DefaultSimilar: c.Limits.DefaultSimilar,
			ReloadTimeout:  c.Limits.ReloadTimeout.String(),
		},
		Cache: struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		}{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
