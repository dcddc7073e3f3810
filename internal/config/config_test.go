// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/skinmatch/internal/recommend"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown environment", func(c *Config) { c.Server.Environment = "prod" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, true},
		{"rate limit out of range", func(c *Config) { c.Security.RateLimitReqs = 0 }, true},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
		{"csv catalog without path", func(c *Config) { c.Catalog.Path = "" }, true},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "s3" }, true},
		{"negative reload interval", func(c *Config) { c.Catalog.ReloadInterval = -time.Second }, true},
		{"postgres catalog without dsn", func(c *Config) { c.Catalog.Source = SourcePostgres }, true},
		{"postgres catalog with dsn", func(c *Config) {
			c.Catalog.Source = SourcePostgres
			c.Database.DSN = "postgres://localhost/skinmatch"
		}, false},
		{"csv ratings without path", func(c *Config) { c.Ratings.Source = SourceCSV }, true},
		{"synthetic ratings", func(c *Config) { c.Ratings.Source = SourceSynthetic }, false},
		{"synthetic ratings above scale", func(c *Config) {
			c.Ratings.Source = SourceSynthetic
			c.Ratings.MaxRating = 10
		}, true},
		{"history without path", func(c *Config) { c.History.Path = "" }, true},
		{"in-memory history without path", func(c *Config) {
			c.History.Path = ""
			c.History.InMemory = true
		}, false},
		{"history disabled skips checks", func(c *Config) {
			c.History.Enabled = false
			c.History.QueueSize = 0
		}, false},
		{"history limits inverted", func(c *Config) { c.History.MaxLimit = 1 }, true},
		{"weights not summing to 100", func(c *Config) { c.Recommend.Weights.Price = 30 }, true},
		{"unknown strategy", func(c *Config) { c.Recommend.Strategy = "svd" }, true},
		{"min score above 100", func(c *Config) { c.Recommend.MinScore = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in development should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in production should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://shop.example.com"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	rc := defaultConfig().Recommend
	rc.Strategy = "hybrid"
	rc.MinScore = 1
	rc.DefaultTopN = 3

	ec := rc.EngineConfig(nil)
	if ec.Scoring.Strategy != recommend.StrategyHybrid || ec.Scoring.MinScore != 1 {
		t.Errorf("scoring = %+v", ec.Scoring)
	}
	if ec.Limits.DefaultTopN != 3 || ec.Limits.MaxTopN != 50 {
		t.Errorf("limits = %+v", ec.Limits)
	}
	if ec.Weights.Sum() != 100 {
		t.Errorf("weights sum = %g", ec.Weights.Sum())
	}
	if len(ec.Keywords.RoutineSteps) == 0 {
		t.Error("nil tables should use the built-in keyword tables")
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	custom := recommend.DefaultKeywordTables()
	custom.UniversalSkinTags = []string{"universal"}
	if got := rc.EngineConfig(&custom); got.Keywords.UniversalSkinTags[0] != "universal" {
		t.Errorf("custom tables not applied: %v", got.Keywords.UniversalSkinTags)
	}
}

func TestLoadKeywords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := `
routine_steps:
  - step: 1
    label: cleanse
    keywords: [cleanser]
  - step: 2
    label: hydrate
    keywords: [essence, mist]
concern_aliases:
  redness: [redness, rosacea]
price_presets:
  budget:
    max: 300
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}
	if len(tables.RoutineSteps) != 2 || tables.RoutineSteps[1].Label != "hydrate" {
		t.Errorf("routine steps = %+v", tables.RoutineSteps)
	}
	if _, ok := tables.ConcernAliases["redness"]; !ok {
		t.Errorf("concern aliases = %v", tables.ConcernAliases)
	}
	if _, ok := tables.ConcernAliases["acne"]; ok {
		t.Error("file concern_aliases should replace the built-in table")
	}
	budget, ok := tables.PricePresets["budget"]
	if !ok || budget.Max == nil || *budget.Max != 300 || budget.Min != nil {
		t.Errorf("budget preset = %+v", budget)
	}

	// omitted tables keep their defaults
	defaults := recommend.DefaultKeywordTables()
	if len(tables.AgeBuckets) != len(defaults.AgeBuckets) {
		t.Errorf("age buckets = %d, want defaults (%d)", len(tables.AgeBuckets), len(defaults.AgeBuckets))
	}
	if len(tables.SkinTypeAliases) != len(defaults.SkinTypeAliases) {
		t.Error("skin type aliases should keep their defaults")
	}
}

func TestLoadKeywords_Errors(t *testing.T) {
	t.Parallel()

	tables, err := LoadKeywords("")
	if err != nil || len(tables.RoutineSteps) == 0 {
		t.Errorf("LoadKeywords(\"\") = %v, %v; want defaults", tables.RoutineSteps, err)
	}

	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := "age_buckets:\n  - {name: any, max_age: 0, keywords: [x]}\n  - {name: young, max_age: 25, keywords: [y]}\n"
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadKeywords(path); err == nil {
		t.Error("expected error for unbounded age bucket not last")
	}
}
