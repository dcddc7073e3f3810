// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Command mockratings writes a reproducible ratings CSV for a product
// catalog, or stores the ratings in PostgreSQL.
//
//	mockratings -catalog data/products.csv -out data/ratings.csv -seed 42
//	mockratings -catalog data/products.csv -dsn postgres://localhost/skinmatch
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/skinmatch/internal/datasource"
	"github.com/tomtom215/skinmatch/internal/logging"
	"github.com/tomtom215/skinmatch/internal/recommend"
)

func main() {
	def := datasource.DefaultSyntheticConfig()

	catalogPath := flag.String("catalog", "data/products.csv", "product catalog CSV")
	out := flag.String("out", "-", "output CSV path, - for stdout")
	dsn := flag.String("dsn", "", "PostgreSQL DSN; when set, ratings are stored instead of written as CSV")
	seed := flag.Uint64("seed", def.Seed, "random seed")
	users := flag.Int("users", def.Users, "number of distinct users")
	draws := flag.Int("draws", def.Draws, "number of ratings drawn before de-duplication")
	minRating := flag.Int("min", def.MinRating, "lowest rating")
	maxRating := flag.Int("max", def.MaxRating, "highest rating")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, *catalogPath, *out, *dsn, datasource.SyntheticConfig{
		Seed:      *seed,
		Users:     *users,
		Draws:     *draws,
		MinRating: *minRating,
		MaxRating: *maxRating,
	}); err != nil {
		logging.Error().Err(err).Msg("mockratings failed")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, catalogPath, out, dsn string, cfg datasource.SyntheticConfig) error {
	logger := logging.WithComponent("mockratings")

	rows, err := datasource.NewCSVCatalogProvider(catalogPath, logger).LoadCatalog(ctx)
	if err != nil {
		return err
	}
	catalog, report, err := recommend.LoadCatalog(rows)
	if err != nil {
		return err
	}
	ratings, err := datasource.GenerateRatings(cfg, catalog.IDs())
	if err != nil {
		return err
	}
	logger.Info().
		Int("products", report.Accepted).
		Int("ratings", len(ratings)).
		Uint64("seed", cfg.Seed).
		Msg("generated ratings")

	if dsn != "" {
		db, err := datasource.OpenPostgres(ctx, datasource.PostgresConfig{DSN: dsn}, logger)
		if err != nil {
			return err
		}
		if err := datasource.Migrate(db); err != nil {
			return err
		}
		return datasource.SaveRatings(ctx, db, ratings)
	}

	if out == "-" {
		return datasource.WriteRatingsCSV(os.Stdout, ratings)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := datasource.WriteRatingsCSV(f, ratings); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
