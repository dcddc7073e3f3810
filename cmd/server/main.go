// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/skinmatch/internal/api"
	"github.com/tomtom215/skinmatch/internal/config"
	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/middleware"
	"github.com/tomtom215/skinmatch/internal/recommend"
	"github.com/tomtom215/skinmatch/internal/supervisor"
	"github.com/tomtom215/skinmatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// perfMonWindow is the number of recent requests kept for /api/v1/stats.
const perfMonWindow = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	api.Version = version

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Str("ratings_source", cfg.Ratings.Source).
		Str("strategy", cfg.Recommend.Strategy).
		Msg("Starting Skinmatch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Skinmatch stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential startup wiring
func run(ctx context.Context, cfg *config.Config) error {
	tables, err := config.LoadKeywords(cfg.Recommend.KeywordsFile)
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(&tables), logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	sources, err := openSources(ctx, cfg)
	if err != nil {
		return err
	}
	defer sources.Close()

	engine.SetCatalogProvider(sources.catalog)
	if sources.ratings != nil {
		engine.SetRatingProvider(sources.ratings)
	}

	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	var historyReader api.HistoryReader
	if hist.dispatcher != nil {
		engine.SetHistorySink(hist.dispatcher)
		historyReader = hist.dispatcher
	}

	reloadSvc := services.NewReloadService(engine, services.ReloadServiceConfig{
		Interval: cfg.Catalog.ReloadInterval,
	}, logging.WithComponent("supervisor"))

	// A catalog that cannot be loaded at startup is fatal.
	if _, err := reloadSvc.ReloadCatalog(ctx, services.TriggerStartup); err != nil {
		return err
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}

	perfMon := middleware.NewPerformanceMonitor(perfMonWindow, middleware.DefaultSlowThreshold, logging.WithComponent("http"))
	handler := api.NewHandler(engine, reloadSvc, historyReader, perfMon, api.HandlerConfig{
		HistoryDefaultLimit: cfg.History.DefaultLimit,
		HistoryMaxLimit:     cfg.History.MaxLimit,
		RequestTimeout:      cfg.Server.Timeout,
	})
	chiMw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMw, perfMon)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	if hist.dispatcher != nil {
		tree.AddStorageService(hist.dispatcher)
	}
	tree.AddCatalogService(reloadSvc)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
