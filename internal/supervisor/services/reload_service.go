// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/skinmatch/internal/metrics"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// Reload triggers, used as the trigger label of the reload metric.
const (
	TriggerStartup  = "startup"
	TriggerPeriodic = "periodic"
)

// CatalogEngine is the part of the recommendation engine the reload
// service drives.
type CatalogEngine interface {
	Reload(ctx context.Context) (recommend.CatalogStatus, error)
}

// ReloadServiceConfig holds configuration for the catalog reload service.
type ReloadServiceConfig struct {
	// Interval between periodic reloads. Zero disables them; the service
	// then only serves manual reloads.
	Interval time.Duration
}

// ReloadService rebuilds the catalog snapshot on a schedule and on demand.
// Every reload, whatever its trigger, goes through ReloadCatalog so that
// outcomes are logged and counted in one place. A failed reload leaves the
// previous snapshot serving.
type ReloadService struct {
	engine CatalogEngine
	config ReloadServiceConfig
	logger zerolog.Logger
	name   string
}

// NewReloadService creates a new catalog reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(engine CatalogEngine, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	return &ReloadService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "catalog-reload").Logger(),
		name:   "catalog-reload-service",
	}
}

// Serve implements the suture.Service interface. It runs periodic reloads
// until ctx is canceled.
func (s *ReloadService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Info().Msg("periodic catalog reload disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.config.Interval).Msg("catalog reload service running")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			// failures are logged and counted; the next tick retries
			_, _ = s.ReloadCatalog(ctx, TriggerPeriodic)
		}
	}
}

// ReloadCatalog runs one reload. It satisfies api.CatalogReloader.
func (s *ReloadService) ReloadCatalog(ctx context.Context, trigger string) (recommend.CatalogStatus, error) {
	start := time.Now()
	status, err := s.engine.Reload(ctx)
	duration := time.Since(start)

	switch {
	case errors.Is(err, recommend.ErrReloadInProgress):
		metrics.RecordCatalogReload(trigger, "busy", duration)
		s.logger.Info().Str("trigger", trigger).Msg("catalog reload already running")
		return status, err

	case err != nil:
		metrics.RecordCatalogReload(trigger, "failure", duration)
		s.logger.Error().Err(err).
			Str("trigger", trigger).
			Dur("duration", duration).
			Msg("catalog reload failed, keeping previous snapshot")
		return status, err
	}

	metrics.RecordCatalogReload(trigger, "success", duration)
	metrics.UpdateCatalogSnapshot(status.Version, status.Products, status.Report.Rejected, status.Ratings.Available)

	event := s.logger.Info()
	if len(status.Warnings) > 0 {
		event = s.logger.Warn().Strs("warnings", status.Warnings)
	}
	event.Str("trigger", trigger).
		Int64("version", status.Version).
		Int("products", status.Products).
		Int("rejected", status.Report.Rejected).
		Bool("ratings", status.Ratings.Available).
		Dur("duration", duration).
		Msg("catalog reloaded")
	return status, nil
}

// String returns the service name for logging.
func (s *ReloadService) String() string {
	return s.name
}
