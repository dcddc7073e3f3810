// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package logging provides centralized zerolog-based logging for Skinmatch.
//
// A single global logger is configured once at startup from the logging
// section of the configuration:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// Request-scoped logging attaches the request id that the API middleware
// stores in the context:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Recommendation failed")
//
// Components take a zerolog.Logger by value; WithComponent builds one with
// a component field. SlogHandler bridges the global logger to log/slog for
// the supervisor tree, and SanitizeUserID masks user ids (often email
// addresses) before they are written to logs.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never emitted.
package logging
