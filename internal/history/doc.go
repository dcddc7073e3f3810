// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

// Package history stores the recommendations served to identified users.
//
// The engine hands records to a Dispatcher, which buffers them and writes
// them to a BadgerStore from its own supervised goroutine. History is
// best effort: a full queue, a failing store or an open circuit breaker
// drops records, and none of these ever affects the recommendation
// response.
//
//	store, err := history.OpenBadgerStore(history.StoreConfig{Path: "/data/history"})
//	dispatcher := history.NewDispatcher(store, history.DefaultDispatcherConfig(), logger)
//	engine.SetHistorySink(dispatcher)
//	tree.AddMessagingService(dispatcher)
package history
