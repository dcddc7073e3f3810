// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

// EngineConfig builds the engine configuration. A nil tables argument uses
// the built-in keyword tables.
func (r *RecommendConfig) EngineConfig(tables *recommend.KeywordTables) *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.ScoringWeights{
		Skin:    r.Weights.Skin,
		Concern: r.Weights.Concern,
		Age:     r.Weights.Age,
		Price:   r.Weights.Price,
	}
	cfg.Blend = recommend.BlendConfig{
		Content:          r.Blend.Content,
		Rating:           r.Blend.Rating,
		Peer:             r.Blend.Peer,
		NoRatingDiscount: r.Blend.NoRatingDiscount,
	}
	cfg.Scoring = recommend.ScoringConfig{
		Strategy:         recommend.Strategy(r.Strategy),
		AgePartialCredit: r.AgePartialCredit,
		MinScore:         r.MinScore,
	}
	cfg.Limits = recommend.LimitsConfig{
		DefaultTopN:    r.DefaultTopN,
		MaxTopN:        r.MaxTopN,
		DefaultSimilar: r.DefaultSimilar,
		ReloadTimeout:  r.ReloadTimeout,
	}
	cfg.Text = recommend.TextConfig{
		MinN:        r.Text.MinN,
		MaxN:        r.Text.MaxN,
		MaxFeatures: r.Text.MaxFeatures,
	}
	cfg.Peer = recommend.PeerConfig{
		Neighbors:      r.Peer.Neighbors,
		MinSimilarity:  r.Peer.MinSimilarity,
		Shrinkage:      r.Peer.Shrinkage,
		MinCommonUsers: r.Peer.MinCommonUsers,
		Scale:          r.Peer.Scale,
	}
	cfg.Cache = recommend.CacheConfig{
		Enabled:    r.Cache.Enabled,
		TTL:        r.Cache.TTL,
		MaxEntries: r.Cache.MaxEntries,
	}
	if tables != nil {
		cfg.Keywords = *tables
	}
	return cfg
}

// keywordTableKeys are the top-level keys of a keywords file.
var keywordTableKeys = []string{
	"routine_steps",
	"unscheduled_step",
	"universal_skin_tags",
	"any_skin_type",
	"all_categories",
	"skin_type_aliases",
	"concern_aliases",
	"age_buckets",
	"price_presets",
}

// LoadKeywords reads keyword tables from a YAML file. Each table present in
// the file replaces the built-in table of the same name; omitted tables keep
// their defaults. An empty path returns the built-in tables.
//
// Keys are split on ".", so alias and preset names must not contain dots.
//
//	routine_steps:
//	  - {step: 1, label: cleanse, keywords: [cleanser, foam]}
//	concern_aliases:
//	  acne: [acne, สิว]
func LoadKeywords(path string) (recommend.KeywordTables, error) {
	tables := recommend.DefaultKeywordTables()
	if path == "" {
		return tables, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return tables, fmt.Errorf("failed to load keywords file %s: %w", path, err)
	}

	var fromFile recommend.KeywordTables
	if err := k.Unmarshal("", &fromFile); err != nil {
		return tables, fmt.Errorf("failed to unmarshal keywords file %s: %w", path, err)
	}

	for _, key := range keywordTableKeys {
		if !k.Exists(key) {
			continue
		}
		switch key {
		case "routine_steps":
			tables.RoutineSteps = fromFile.RoutineSteps
		case "unscheduled_step":
			tables.UnscheduledStep = fromFile.UnscheduledStep
		case "universal_skin_tags":
			tables.UniversalSkinTags = fromFile.UniversalSkinTags
		case "any_skin_type":
			tables.AnySkinType = fromFile.AnySkinType
		case "all_categories":
			tables.AllCategories = fromFile.AllCategories
		case "skin_type_aliases":
			tables.SkinTypeAliases = fromFile.SkinTypeAliases
		case "concern_aliases":
			tables.ConcernAliases = fromFile.ConcernAliases
		case "age_buckets":
			tables.AgeBuckets = fromFile.AgeBuckets
		case "price_presets":
			tables.PricePresets = fromFile.PricePresets
		}
	}

	if err := tables.Validate(); err != nil {
		return tables, fmt.Errorf("keywords file %s: %w", path, err)
	}
	return tables, nil
}
