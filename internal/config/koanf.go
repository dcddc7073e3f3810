// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skinmatch/config.yaml",
	"/etc/skinmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Source: SourceCSV,
			Path:   "data/products.csv",
		},
		Ratings: RatingsConfig{
			Source:         SourceNone,
			SyntheticSeed:  42,
			SyntheticUsers: 100,
			SyntheticCount: 1000,
			MinRating:      3,
			MaxRating:      5,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		History: HistoryConfig{
			Enabled:             true,
			Path:                "/data/history",
			QueueSize:           1024,
			WriteTimeout:        5 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      30 * time.Second,
			DefaultLimit:        10,
			MaxLimit:            100,
		},
		Recommend: RecommendConfig{
			Strategy:         "rules",
			MinScore:         0,
			AgePartialCredit: 5,
			DefaultTopN:      5,
			MaxTopN:          50,
			DefaultSimilar:   5,
			ReloadTimeout:    2 * time.Minute,
			Weights:          WeightsConfig{Skin: 30, Concern: 35, Age: 15, Price: 20},
			Blend:            BlendConfig{Content: 0.6, Rating: 0.2, Peer: 0.2, NoRatingDiscount: 0.95},
			Text:             TextConfig{MinN: 3, MaxN: 5},
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
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// The returned configuration has been validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, CATALOG_PATH -> catalog.path, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices for the
// known slice fields. Values from YAML are already slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"rate_limit_disabled": "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_source":          "catalog.source",
	"catalog_path":            "catalog.path",
	"catalog_reload_interval": "catalog.reload_interval",

	// Ratings
	"ratings_source":          "ratings.source",
	"ratings_path":            "ratings.path",
	"ratings_synthetic_seed":  "ratings.synthetic_seed",
	"ratings_synthetic_users": "ratings.synthetic_users",
	"ratings_synthetic_count": "ratings.synthetic_count",

	// Database
	"database_dsn":               "database.dsn",
	"database_max_open_conns":    "database.max_open_conns",
	"database_max_idle_conns":    "database.max_idle_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",
	"database_auto_migrate":      "database.auto_migrate",

	// History
	"history_enabled":       "history.enabled",
	"history_path":          "history.path",
	"history_in_memory":     "history.in_memory",
	"history_retention_ttl": "history.retention_ttl",
	"history_queue_size":    "history.queue_size",

	// Recommendation engine
	"recommend_strategy":           "recommend.strategy",
	"recommend_min_score":          "recommend.min_score",
	"recommend_default_top_n":      "recommend.default_top_n",
	"recommend_max_top_n":          "recommend.max_top_n",
	"recommend_reload_timeout":     "recommend.reload_timeout",
	"recommend_cache_enabled":      "recommend.cache.enabled",
	"recommend_cache_ttl":          "recommend.cache.ttl",
	"recommend_cache_max_entries":  "recommend.cache.max_entries",
	"recommend_keywords_file":      "recommend.keywords_file",
	"recommend_peer_neighbors":     "recommend.peer.neighbors",
	"recommend_text_max_features":  "recommend.text.max_features",
	"recommend_age_partial_credit": "recommend.age_partial_credit",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
