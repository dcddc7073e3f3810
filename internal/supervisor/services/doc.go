// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package services provides suture services for the supervisor tree.
//
// HTTPServerService adapts *http.Server to suture's Serve(ctx) contract with
// graceful shutdown. ReloadService drives catalog reloads: it runs them on a
// ticker and is also the api.CatalogReloader behind POST
// /api/v1/catalog/reload, so startup, periodic and manual reloads are logged
// and counted the same way.
package services
