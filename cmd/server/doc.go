// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package main is the entry point for the Skinmatch server.

Skinmatch recommends skincare products for a user profile (skin type,
concerns, age and budget) from a product catalog, optionally blending in
user ratings. It serves a JSON API under /api/v1 and Prometheus metrics on
/metrics.

# Application Architecture

	RootSupervisor ("skinmatch")
	├── storage-layer
	│   └── history-dispatcher (HISTORY_ENABLED=true)
	├── catalog-layer
	│   └── catalog-reload-service
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Keyword tables: built-in or RECOMMEND_KEYWORDS_FILE
 4. Catalog and rating providers: CSV, PostgreSQL (GORM) or synthetic ratings
 5. History: Badger store behind a circuit-breaking dispatcher
 6. Initial catalog load; failure exits the process
 7. Supervisor tree with the HTTP server

# Configuration

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Catalog
	CATALOG_SOURCE=csv           # csv or postgres
	CATALOG_PATH=data/products.csv
	CATALOG_RELOAD_INTERVAL=0    # e.g. 15m; 0 disables periodic reloads

	# Ratings (hybrid strategy and peer score)
	RATINGS_SOURCE=none          # none, csv, postgres or synthetic
	RATINGS_PATH=data/ratings.csv
	DATABASE_DSN=postgres://user:pass@db:5432/skinmatch

	# History
	HISTORY_ENABLED=true
	HISTORY_PATH=/data/history

See package config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree: the HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT and the history dispatcher
flushes its queue before the Badger store is closed.

# Example Usage

	export CATALOG_PATH=./products.csv
	export RATINGS_SOURCE=synthetic
	./skinmatch

	curl -s localhost:8080/api/v1/recommend \
	  -d '{"skin_type":"oily","concerns":["acne"],"budget":"low","top_n":3}'
*/
package main
