// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package datasource provides the catalog and rating providers consumed by
// the recommendation engine.
//
// # Providers
//
//   - CSVCatalogProvider, CSVRatingProvider: read exported spreadsheets.
//     A UTF-8 byte order mark is tolerated and column names are passed
//     through untouched; the engine's catalog loader normalizes them.
//   - GormCatalogProvider, GormRatingProvider: read the products and
//     ratings tables through GORM (PostgreSQL in production).
//   - SyntheticRatingProvider: deterministic generated ratings for
//     deployments without real rating data.
//
// Every provider returns rows in a stable order. Catalog order is
// significant: it is the tie-break for equal scores.
package datasource
