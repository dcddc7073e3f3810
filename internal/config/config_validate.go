// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateCatalog,
		c.validateRatings,
		c.validateDatabase,
		c.validateHistory,
		c.validateRecommend,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case SourceCSV:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE=csv")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: csv, postgres")
	}
	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateRatings() error {
	r := c.Ratings
	switch r.Source {
	case SourceNone, SourcePostgres:
	case SourceCSV:
		if r.Path == "" {
			return fmt.Errorf("RATINGS_PATH is required when RATINGS_SOURCE=csv")
		}
	case SourceSynthetic:
		if r.SyntheticUsers < 1 || r.SyntheticCount < 1 {
			return fmt.Errorf("synthetic ratings need positive users and count")
		}
		if r.MinRating < 1 || r.MaxRating < r.MinRating {
			return fmt.Errorf("synthetic rating range must satisfy 1 <= min <= max, got [%d, %d]", r.MinRating, r.MaxRating)
		}
		if float64(r.MaxRating) > c.Recommend.Peer.Scale {
			return fmt.Errorf("synthetic max_rating %d exceeds recommend.peer.scale %g", r.MaxRating, c.Recommend.Peer.Scale)
		}
	default:
		return fmt.Errorf("RATINGS_SOURCE must be one of: none, csv, postgres, synthetic")
	}
	return nil
}

// UsesPostgres reports whether any source reads from PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.Catalog.Source == SourcePostgres || c.Ratings.Source == SourcePostgres
}

func (c *Config) validateDatabase() error {
	if !c.UsesPostgres() {
		return nil
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required when a source is postgres")
	}
	if c.Database.MaxOpenConns < 1 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must be positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	h := c.History
	if !h.Enabled {
		return nil
	}
	if !h.InMemory && h.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required unless HISTORY_IN_MEMORY=true")
	}
	if h.QueueSize < 1 {
		return fmt.Errorf("HISTORY_QUEUE_SIZE must be positive")
	}
	if h.BreakerFailureRatio <= 0 || h.BreakerFailureRatio > 1 {
		return fmt.Errorf("history.breaker_failure_ratio must be in (0, 1]")
	}
	if h.DefaultLimit < 1 || h.MaxLimit < h.DefaultLimit {
		return fmt.Errorf("history limits must satisfy 1 <= default_limit <= max_limit")
	}
	if h.RetentionTTL < 0 {
		return fmt.Errorf("HISTORY_RETENTION_TTL must not be negative")
	}
	return nil
}

// validateRecommend checks engine settings through the engine's own
// validation, using the built-in keyword tables. The keywords file is
// validated when it is loaded.
func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig(nil).Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
