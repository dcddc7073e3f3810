// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package config provides centralized configuration management for Skinmatch.

Configuration is layered with Koanf v2, later sources winning:

 1. Built-in defaults (defaultConfig, via the structs provider)
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/skinmatch/config.yaml or /etc/skinmatch/config.yml
 3. Environment variables, mapped explicitly by envTransformFunc

Only mapped environment variables are read. The main ones:

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Security:
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Catalog and ratings:
  - CATALOG_SOURCE (csv, postgres), CATALOG_PATH, CATALOG_RELOAD_INTERVAL
  - RATINGS_SOURCE (none, csv, postgres, synthetic), RATINGS_PATH
  - DATABASE_DSN and pool settings for the postgres sources

History:
  - HISTORY_ENABLED, HISTORY_PATH, HISTORY_IN_MEMORY, HISTORY_RETENTION_TTL

Recommendation engine:
  - RECOMMEND_STRATEGY (rules, hybrid), RECOMMEND_MIN_SCORE
  - RECOMMEND_DEFAULT_TOP_N, RECOMMEND_MAX_TOP_N
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL
  - RECOMMEND_KEYWORDS_FILE: YAML keyword tables, see LoadKeywords

Load validates the result; an invalid configuration is a startup error.
RecommendConfig.EngineConfig converts the recommend section into the
engine's configuration.
*/
package config
