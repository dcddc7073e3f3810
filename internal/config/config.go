// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	addr := cfg.Server.Address()
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Ratings   RatingsConfig   `koanf:"ratings"`
	Database  DatabaseConfig  `koanf:"database"`
	History   HistoryConfig   `koanf:"history"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Catalog and rating sources.
const (
	SourceNone      = "none"
	SourceCSV       = "csv"
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic"
)

// CatalogConfig selects where products are loaded from.
//
// Environment Variables:
//   - CATALOG_SOURCE: csv or postgres (default: csv)
//   - CATALOG_PATH: CSV file path (default: data/products.csv)
//   - CATALOG_RELOAD_INTERVAL: Periodic reload interval, 0 disables (default: 0)
type CatalogConfig struct {
	Source         string        `koanf:"source"`
	Path           string        `koanf:"path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// RatingsConfig selects where ratings are loaded from. The synthetic source
// generates seeded ratings over the loaded catalog.
type RatingsConfig struct {
	Source         string `koanf:"source"`
	Path           string `koanf:"path"`
	SyntheticSeed  uint64 `koanf:"synthetic_seed"`
	SyntheticUsers int    `koanf:"synthetic_users"`
	SyntheticCount int    `koanf:"synthetic_count"`
	MinRating      int    `koanf:"min_rating"`
	MaxRating      int    `koanf:"max_rating"`
}

// DatabaseConfig holds PostgreSQL settings, used when the catalog or
// ratings source is postgres.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// HistoryConfig controls recommendation history persistence.
//
// Environment Variables:
//   - HISTORY_ENABLED: Record history for requests carrying a user id (default: true)
//   - HISTORY_PATH: Badger directory (default: /data/history)
//   - HISTORY_IN_MEMORY: Keep history in memory only (default: false)
type HistoryConfig struct {
	Enabled             bool          `koanf:"enabled"`
	Path                string        `koanf:"path"`
	InMemory            bool          `koanf:"in_memory"`
	RetentionTTL        time.Duration `koanf:"retention_ttl"`
	QueueSize           int           `koanf:"queue_size"`
	WriteTimeout        time.Duration `koanf:"write_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	DefaultLimit        int           `koanf:"default_limit"`
	MaxLimit            int           `koanf:"max_limit"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// Strategy is the default scoring strategy: rules or hybrid.
	Strategy string `koanf:"strategy"`

	MinScore         float64       `koanf:"min_score"`
	AgePartialCredit float64       `koanf:"age_partial_credit"`
	DefaultTopN      int           `koanf:"default_top_n"`
	MaxTopN          int           `koanf:"max_top_n"`
	DefaultSimilar   int           `koanf:"default_similar"`
	ReloadTimeout    time.Duration `koanf:"reload_timeout"`

	Weights WeightsConfig `koanf:"weights"`
	Blend   BlendConfig   `koanf:"blend"`
	Text    TextConfig    `koanf:"text"`
	Peer    PeerConfig    `koanf:"peer"`
	Cache   CacheConfig   `koanf:"cache"`

	// KeywordsFile is an optional YAML file overriding the built-in keyword
	// tables. Tables it omits keep their defaults.
	KeywordsFile string `koanf:"keywords_file"`
}

// WeightsConfig holds the rule-strategy component weights.
type WeightsConfig struct {
	Skin    float64 `koanf:"skin"`
	Concern float64 `koanf:"concern"`
	Age     float64 `koanf:"age"`
	Price   float64 `koanf:"price"`
}

// BlendConfig holds the hybrid-strategy blend ratios.
type BlendConfig struct {
	Content          float64 `koanf:"content"`
	Rating           float64 `koanf:"rating"`
	Peer             float64 `koanf:"peer"`
	NoRatingDiscount float64 `koanf:"no_rating_discount"`
}

// TextConfig holds character n-gram index settings.
type TextConfig struct {
	MinN        int `koanf:"min_n"`
	MaxN        int `koanf:"max_n"`
	MaxFeatures int `koanf:"max_features"`
}

// PeerConfig holds item-neighbor peer score settings.
type PeerConfig struct {
	Neighbors      int     `koanf:"neighbors"`
	MinSimilarity  float64 `koanf:"min_similarity"`
	Shrinkage      float64 `koanf:"shrinkage"`
	MinCommonUsers int     `koanf:"min_common_users"`
	Scale          float64 `koanf:"scale"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// Load loads configuration with LoadWithKoanf.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
