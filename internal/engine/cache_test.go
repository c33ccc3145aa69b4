// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"testing"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

var cacheNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCacheKeyNormalization(t *testing.T) {
	a := cacheKey("  Neural   Networks ", types.SortRelevance)
	b := cacheKey("neural networks", types.SortRelevance)
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}

	c := cacheKey("neural networks", types.SortRecent)
	if a == c {
		t.Error("sort strategy must be part of the key")
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	c := newQueryCache(types.CacheConfig{MaxEntries: 10, TTL: 5 * time.Minute})
	c.put("k", []string{"p1", "p2"}, cacheNow)

	ids, ok := c.get("k", cacheNow.Add(time.Minute))
	if !ok {
		t.Fatal("expected hit within TTL")
	}
	if len(ids) != 2 || ids[0] != "p1" {
		t.Errorf("ids = %v, want [p1 p2]", ids)
	}

	st := c.stats()
	if st.Hits != 1 || st.Misses != 0 {
		t.Errorf("stats = %+v, want 1 hit, 0 misses", st)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := newQueryCache(types.CacheConfig{MaxEntries: 10, TTL: 5 * time.Minute})
	c.put("k", []string{"p1"}, cacheNow)

	if _, ok := c.get("k", cacheNow.Add(6*time.Minute)); ok {
		t.Fatal("expected expired entry to miss")
	}

	st := c.stats()
	if st.Entries != 0 {
		t.Errorf("Entries = %d, want 0 after expiry", st.Entries)
	}
	if st.Misses != 1 || st.Evictions != 1 {
		t.Errorf("stats = %+v, want 1 miss, 1 eviction", st)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := newQueryCache(types.CacheConfig{MaxEntries: 2, TTL: time.Hour})
	c.put("a", []string{"p1"}, cacheNow)
	c.put("b", []string{"p2"}, cacheNow.Add(time.Second))

	// Touch "a" so "b" becomes the least recently used entry.
	if _, ok := c.get("a", cacheNow.Add(2*time.Second)); !ok {
		t.Fatal("expected hit on a")
	}

	c.put("c", []string{"p3"}, cacheNow.Add(3*time.Second))

	if _, ok := c.get("b", cacheNow.Add(4*time.Second)); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.get("a", cacheNow.Add(4*time.Second)); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.get("c", cacheNow.Add(4*time.Second)); !ok {
		t.Error("c should be present")
	}

	if st := c.stats(); st.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", st.Evictions)
	}
}

func TestCacheResetKeepsCounters(t *testing.T) {
	c := newQueryCache(types.CacheConfig{MaxEntries: 10, TTL: time.Hour})
	c.put("k", []string{"p1"}, cacheNow)
	c.get("k", cacheNow)
	c.get("missing", cacheNow)

	c.reset()

	st := c.stats()
	if st.Entries != 0 {
		t.Errorf("Entries = %d, want 0 after reset", st.Entries)
	}
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v, counters should survive reset", st)
	}
}

func TestCacheDefaults(t *testing.T) {
	c := newQueryCache(types.CacheConfig{})
	if c.cfg.MaxEntries != 100 {
		t.Errorf("MaxEntries = %d, want 100", c.cfg.MaxEntries)
	}
	if c.cfg.TTL != 5*time.Minute {
		t.Errorf("TTL = %v, want 5m", c.cfg.TTL)
	}
}
