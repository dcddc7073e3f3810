// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(capacity int, ttl time.Duration) (*LRUCache[int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_BasicOperations(t *testing.T) {
	cache, _ := newTestCache(3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := cache.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if cache.Len() != 3 {
		t.Errorf("Expected len 3, got %d", cache.Len())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	cache, _ := newTestCache(3, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	// Access 'a' to make it most recently used
	cache.Get("a")

	// Add new item, should evict 'b' (least recently used)
	cache.Add("d", 4)

	if _, found := cache.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := cache.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
	if cache.Evictions() != 1 {
		t.Errorf("Evictions() = %d, want 1", cache.Evictions())
	}
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	cache, clock := newTestCache(10, time.Minute)

	cache.Add("a", 1)
	if _, found := cache.Get("a"); !found {
		t.Error("Expected to find key 'a' immediately")
	}

	clock.Advance(61 * time.Second)

	if cache.Contains("a") {
		t.Error("Contains() should report expired key as absent")
	}
	if _, found := cache.Get("a"); found {
		t.Error("Expected key 'a' to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be dropped on Get, len = %d", cache.Len())
	}
}

func TestLRUCache_Remove(t *testing.T) {
	cache, _ := newTestCache(10, time.Minute)

	cache.Add("a", 1)
	if !cache.Remove("a") {
		t.Error("Remove() should return true for existing key")
	}
	if cache.Remove("a") {
		t.Error("Remove() should return false for missing key")
	}
	if _, found := cache.Get("a"); found {
		t.Error("Expected 'a' to be removed")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	cache, _ := newTestCache(10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Expected len 0 after Clear, got %d", cache.Len())
	}
	cache.Add("c", 3)
	if v, found := cache.Get("c"); !found || v != 3 {
		t.Error("cache should be usable after Clear")
	}
}

func TestLRUCache_CleanupExpired(t *testing.T) {
	cache, clock := newTestCache(10, time.Minute)

	cache.Add("old1", 1)
	cache.Add("old2", 2)
	clock.Advance(30 * time.Second)
	cache.Add("fresh", 3)
	clock.Advance(45 * time.Second)

	if removed := cache.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if !cache.Contains("fresh") {
		t.Error("fresh entry should survive cleanup")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache, _ := newTestCache(10, time.Minute)

	cache.Add("a", 1)
	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	hits, misses, size := cache.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (2, 1, 1)", hits, misses, size)
	}
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	cache, clock := newTestCache(2, time.Minute)

	cache.Add("a", 1)
	clock.Advance(50 * time.Second)
	cache.Add("a", 2)
	clock.Advance(50 * time.Second)

	// update refreshed the TTL
	v, found := cache.Get("a")
	if !found {
		t.Fatal("updated entry should not have expired")
	}
	if v != 2 {
		t.Errorf("Get() = %d, want 2", v)
	}
	if cache.Len() != 1 {
		t.Errorf("update should not add an entry, len = %d", cache.Len())
	}
}

func TestLRUCache_PointerValues(t *testing.T) {
	type payload struct{ items []string }
	cache := NewLRUCache[*payload](4, time.Minute)

	p := &payload{items: []string{"x"}}
	cache.Add("k", p)

	got, found := cache.Get("k")
	if !found || got != p {
		t.Fatal("expected the stored pointer back")
	}
	if _, found := cache.Get("nope"); found {
		t.Error("missing key should not be found")
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	cache := NewLRUCache[int](100, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%150)
				cache.Add(key, i)
				cache.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if cache.Len() > 100 {
		t.Errorf("Len() = %d, exceeds capacity 100", cache.Len())
	}
}

func BenchmarkLRUCache_Add(b *testing.B) {
	cache := NewLRUCache[int](10000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Add(fmt.Sprintf("key%d", i%10000), i)
	}
}

func BenchmarkLRUCache_Get(b *testing.B) {
	cache := NewLRUCache[int](10000, time.Minute)
	for i := 0; i < 10000; i++ {
		cache.Add(fmt.Sprintf("key%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("key%d", i%10000))
	}
}
