// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tomtom215/skinmatch/internal/config"
	"github.com/tomtom215/skinmatch/internal/datasource"
	"github.com/tomtom215/skinmatch/internal/history"
	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

// dataSources holds the configured catalog and rating providers and the
// database connection behind them, if any.
type dataSources struct {
	catalog recommend.CatalogProvider
	ratings recommend.RatingProvider
	db      *gorm.DB
}

// openSources builds the providers selected by the catalog and ratings
// sections. PostgreSQL is opened once and shared when both use it.
func openSources(ctx context.Context, cfg *config.Config) (*dataSources, error) {
	logger := logging.WithComponent("datasource")
	src := &dataSources{}

	postgres := func() (*gorm.DB, error) {
		if src.db != nil {
			return src.db, nil
		}
		db, err := datasource.OpenPostgres(ctx, datasource.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := datasource.Migrate(db); err != nil {
				return nil, err
			}
		}
		src.db = db
		return db, nil
	}

	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		db, err := postgres()
		if err != nil {
			return nil, err
		}
		src.catalog = datasource.NewGormCatalogProvider(db)
	default:
		src.catalog = datasource.NewCSVCatalogProvider(cfg.Catalog.Path, logger)
	}

	switch cfg.Ratings.Source {
	case config.SourceCSV:
		src.ratings = datasource.NewCSVRatingProvider(cfg.Ratings.Path, logger)
	case config.SourcePostgres:
		db, err := postgres()
		if err != nil {
			src.Close()
			return nil, err
		}
		src.ratings = datasource.NewGormRatingProvider(db)
	case config.SourceSynthetic:
		src.ratings = datasource.NewSyntheticRatingProvider(datasource.SyntheticConfig{
			Seed:      cfg.Ratings.SyntheticSeed,
			Users:     cfg.Ratings.SyntheticUsers,
			Draws:     cfg.Ratings.SyntheticCount,
			MinRating: cfg.Ratings.MinRating,
			MaxRating: cfg.Ratings.MaxRating,
		})
	}

	return src, nil
}

// Close releases the database connection.
func (s *dataSources) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}

// historyStack is the badger store and the dispatcher writing to it. Both
// are nil when history is disabled.
type historyStack struct {
	store      *history.BadgerStore
	dispatcher *history.Dispatcher
}

func openHistory(cfg *config.Config) (*historyStack, error) {
	if !cfg.History.Enabled {
		logging.Info().Msg("Recommendation history disabled (HISTORY_ENABLED=false)")
		return &historyStack{}, nil
	}

	store, err := history.OpenBadgerStore(history.StoreConfig{
		Path:         cfg.History.Path,
		InMemory:     cfg.History.InMemory,
		RetentionTTL: cfg.History.RetentionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	dcfg := history.DefaultDispatcherConfig()
	dcfg.QueueSize = cfg.History.QueueSize
	dcfg.WriteTimeout = cfg.History.WriteTimeout
	dcfg.BreakerMinRequests = cfg.History.BreakerMinRequests
	dcfg.BreakerFailureRatio = cfg.History.BreakerFailureRatio
	dcfg.BreakerTimeout = cfg.History.BreakerTimeout

	logging.Info().
		Str("path", cfg.History.Path).
		Bool("in_memory", cfg.History.InMemory).
		Dur("retention", cfg.History.RetentionTTL).
		Msg("Recommendation history enabled")

	return &historyStack{
		store:      store,
		dispatcher: history.NewDispatcher(store, dcfg, logging.WithComponent("history")),
	}, nil
}

// Close closes the badger store. The dispatcher must have stopped.
func (h *historyStack) Close() {
	if h.store == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing history store")
	}
}
