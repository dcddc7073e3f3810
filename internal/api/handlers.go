// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/skinmatch/internal/middleware"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// Version is reported by the health endpoint. Overridden at build time
// with -ldflags "-X github.com/tomtom215/skinmatch/internal/api.Version=...".
var Version = "dev"

// HistoryReader lists stored recommendation history, newest first.
type HistoryReader interface {
	List(ctx context.Context, userID string, limit int) ([]recommend.HistoryRecord, error)
}

// CatalogReloader reloads the catalog on demand. The trigger labels the
// reload in logs and metrics.
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context, trigger string) (recommend.CatalogStatus, error)
}

// HandlerConfig holds the request limits the handlers enforce.
type HandlerConfig struct {
	HistoryDefaultLimit int
	HistoryMaxLimit     int
	RequestTimeout      time.Duration
}

// DefaultHandlerConfig returns the default handler limits.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		HistoryDefaultLimit: 10,
		HistoryMaxLimit:     100,
		RequestTimeout:      30 * time.Second,
	}
}

// Handler serves the API endpoints.
type Handler struct {
	engine    *recommend.Engine
	reloader  CatalogReloader
	history   HistoryReader // nil when history is disabled
	perfMon   *middleware.PerformanceMonitor
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// A nil reloader reloads through the engine directly; a nil history
// reader disables the history endpoint; a nil performance monitor leaves
// route latencies out of the stats endpoint.
func NewHandler(engine *recommend.Engine, reloader CatalogReloader, history HistoryReader, perfMon *middleware.PerformanceMonitor, cfg HandlerConfig) *Handler {
	def := DefaultHandlerConfig()
	if cfg.HistoryDefaultLimit <= 0 {
		cfg.HistoryDefaultLimit = def.HistoryDefaultLimit
	}
	if cfg.HistoryMaxLimit <= 0 {
		cfg.HistoryMaxLimit = def.HistoryMaxLimit
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if reloader == nil {
		reloader = engineReloader{engine: engine}
	}
	return &Handler{
		engine:    engine,
		reloader:  reloader,
		history:   history,
		perfMon:   perfMon,
		config:    cfg,
		startTime: time.Now(),
	}
}

// engineReloader reloads without the supervisor's bookkeeping.
type engineReloader struct {
	engine *recommend.Engine
}

func (r engineReloader) ReloadCatalog(ctx context.Context, _ string) (recommend.CatalogStatus, error) {
	return r.engine.Reload(ctx)
}
