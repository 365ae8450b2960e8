package signals

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// DefaultCacheSize and DefaultTTL match Config's snapshot_ttl_ms / the
// bounded-64-entries LRU described in §3 "Lifecycles".
const (
	DefaultCacheSize = 64
	DefaultTTL       = 10 * time.Minute
)

type cacheEntry struct {
	signals Signals
	expires time.Time
}

// Cache is the per-session, url_origin-keyed, TTL-bounded LRU signal cache
// (§3, §5 "the signal LRU is per-session"). It wraps groupcache/lru, which
// gives size-bounded eviction; the TTL check is layered on top since
// groupcache/lru has no notion of expiry.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
	ttl time.Duration
}

// NewCache builds a Cache bounded to maxEntries with the given TTL. A
// maxEntries of 0 uses DefaultCacheSize; a ttl of 0 uses DefaultTTL.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: lru.New(maxEntries), ttl: ttl}
}

// Get returns the cached Signals for origin if present and still fresh.
func (c *Cache) Get(origin string) (Signals, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.lru.Get(origin)
	if !ok {
		return Signals{}, false
	}
	entry := val.(cacheEntry)
	if time.Now().After(entry.expires) {
		c.lru.Remove(origin)
		return Signals{}, false
	}
	return entry.signals, true
}

// Put stores sig for origin, resetting its TTL.
func (c *Cache) Put(origin string, sig Signals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(origin, cacheEntry{signals: sig, expires: time.Now().Add(c.ttl)})
}

// Invalidate forces a recomputation of origin on the next Probe, e.g. on a
// detected URL/navigation change.
func (c *Cache) Invalidate(origin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(origin)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
