// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package cache provides a thread-safe generic LRU cache with TTL support.

The recommendation engine caches complete responses keyed by the
normalized request and the catalog snapshot version, so a reload never
serves results computed against an older catalog.

# Usage

	c := cache.NewLRUCache[*recommend.Response](10000, 5*time.Minute)
	c.Add(key, resp)
	if resp, ok := c.Get(key); ok {
	    // cache hit
	}

Expiration is lazy: expired entries are dropped on Get or by an explicit
CleanupExpired call.
*/
package cache
