// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"weights sum", func(c *Config) { c.Weights.Price = 10 }, "sum to 100"},
		{"negative weight", func(c *Config) { c.Weights.Skin = -10; c.Weights.Price = 60 }, "non-negative"},
		{"blend sum", func(c *Config) { c.Blend.Peer = 0.5 }, "sum to 1"},
		{"discount range", func(c *Config) { c.Blend.NoRatingDiscount = 1.5 }, "no_rating_discount"},
		{"strategy", func(c *Config) { c.Scoring.Strategy = "neural" }, "scoring.strategy"},
		{"partial credit above age weight", func(c *Config) { c.Scoring.AgePartialCredit = 20 }, "age_partial_credit"},
		{"min score", func(c *Config) { c.Scoring.MinScore = 101 }, "min_score"},
		{"default top n", func(c *Config) { c.Limits.DefaultTopN = 0 }, "default_top_n"},
		{"max top n", func(c *Config) { c.Limits.MaxTopN = 2 }, "max_top_n"},
		{"reload timeout", func(c *Config) { c.Limits.ReloadTimeout = 0 }, "reload_timeout"},
		{"ngram range", func(c *Config) { c.Text.MinN = 6 }, "n-gram"},
		{"peer scale", func(c *Config) { c.Peer.Scale = 0 }, "peer.scale"},
		{"cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("disabled cache skips cache checks", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Cache.Enabled = false
		cfg.Cache.TTL = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestConfig_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	clone := orig.Clone()
	clone.Weights.Skin = 1
	clone.Keywords.RoutineSteps[0].Keywords[0] = "changed"
	clone.Keywords.ConcernAliases["acne"][0] = "changed"
	delete(clone.Keywords.PricePresets, "low")

	if orig.Weights.Skin != 30 {
		t.Error("weights shared with clone")
	}
	if orig.Keywords.RoutineSteps[0].Keywords[0] == "changed" {
		t.Error("routine keywords shared with clone")
	}
	if orig.Keywords.ConcernAliases["acne"][0] == "changed" {
		t.Error("concern aliases shared with clone")
	}
	if _, ok := orig.Keywords.PricePresets["low"]; !ok {
		t.Error("price presets shared with clone")
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Limits struct {
			ReloadTimeout string `json:"reload_timeout"`
		} `json:"limits"`
		Cache struct {
			TTL string `json:"ttl"`
		} `json:"cache"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Limits.ReloadTimeout != (2 * time.Minute).String() {
		t.Errorf("reload_timeout = %q", out.Limits.ReloadTimeout)
	}
	if out.Cache.TTL != (5 * time.Minute).String() {
		t.Errorf("cache ttl = %q", out.Cache.TTL)
	}
}
