// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// cacheEntry stores the ranked identifier order for one (query, sort) pair.
type cacheEntry struct {
	ids        []string
	createdAt  time.Time
	lastAccess time.Time
}

// queryCache is a TTL+LRU bounded cache. Entries expire a fixed time after
// creation; when the bound is exceeded the least-recently-accessed entry is
// evicted. The engine's mutex guards all access, so the cache itself holds
// no lock.
type queryCache struct {
	cfg       types.CacheConfig
	entries   map[string]*cacheEntry
	hits      int64
	misses    int64
	evictions int64
}

func newQueryCache(cfg types.CacheConfig) *queryCache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &queryCache{
		cfg:     cfg,
		entries: make(map[string]*cacheEntry),
	}
}

// cacheKey normalizes the query text and couples it with the sort strategy.
func cacheKey(queryText string, sort types.SortStrategy) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(queryText)), " ")
	return normalized + "|" + string(sort)
}

// get returns the cached identifier order, expiring the entry when its TTL
// has elapsed.
func (c *queryCache) get(key string, now time.Time) ([]string, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if now.Sub(e.createdAt) > c.cfg.TTL {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		return nil, false
	}
	e.lastAccess = now
	c.hits++
	return e.ids, true
}

// put stores an identifier order, evicting the least-recently-accessed entry
// when the bound is exceeded.
func (c *queryCache) put(key string, ids []string, now time.Time) {
	c.entries[key] = &cacheEntry{
		ids:        ids,
		createdAt:  now,
		lastAccess: now,
	}
	for len(c.entries) > c.cfg.MaxEntries {
		c.evictOldest()
	}
}

func (c *queryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range c.entries {
		if first || e.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = e.lastAccess
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}

// reset drops every entry; counters survive so observers keep totals across
// index rebuilds.
func (c *queryCache) reset() {
	c.entries = make(map[string]*cacheEntry)
}

func (c *queryCache) stats() types.CacheStats {
	return types.CacheStats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
