package cache

import (
	"context"
	"sync"
	"time"
)

// cacheEntry holds a cached value with its expiry.
type cacheEntry struct {
	value     string
	expiresAt time.Time // zero means never
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
type InMemoryCache struct {
	cache      map[string]cacheEntry
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// A zero or negative TTL means entries never expire.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithMaxEntries bounds the cache size. When full, expired entries are
// purged first and then an arbitrary entry is evicted.
func (c *InMemoryCache) WithMaxEntries(n int) *InMemoryCache {
	c.maxEntries = n
	return c
}

// MaxEntries returns the size bound, 0 when unbounded.
func (c *InMemoryCache) MaxEntries() int {
	return c.maxEntries
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	now := c.now()
	if c.expired(entry, now) {
		c.mu.Lock()
		// A Set may have replaced the entry since the read lock was released
		if cur, ok := c.cache[key]; ok && c.expired(cur, now) {
			delete(c.cache, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(ctx context.Context, key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.cache[key]; !exists && c.maxEntries > 0 && len(c.cache) >= c.maxEntries {
		c.evictLocked(now)
	}

	entry := cacheEntry{value: value}
	if c.ttl > 0 {
		entry.expiresAt = now.Add(c.ttl)
	}
	c.cache[key] = entry

	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
}

func (c *InMemoryCache) expired(e cacheEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// evictLocked makes room for one entry (must be called with lock held).
func (c *InMemoryCache) evictLocked(now time.Time) {
	for key, entry := range c.cache {
		if c.expired(entry, now) {
			delete(c.cache, key)
		}
	}
	if len(c.cache) < c.maxEntries {
		return
	}
	for key := range c.cache {
		delete(c.cache, key)
		return
	}
}

// Verify InMemoryCache implements TranslationCache
var _ TranslationCache = (*InMemoryCache)(nil)
