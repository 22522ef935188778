package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"frbus-sweep/internal/scenario"
)

// CacheEntry is one cached scenario.
type CacheEntry struct {
	Result    scenario.Result
	ExpiresAt time.Time
}

// ResultCache keeps on-demand scenario results in memory for a TTL.
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewResultCache returns a cache, or nil when ttl <= 0 (caching disabled).
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return nil
	}
	return &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached result if present and not expired.
func (c *ResultCache) Get(key string) (scenario.Result, bool) {
	if c == nil {
		return scenario.Result{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return scenario.Result{}, false
	}
	return entry.Result, true
}

func (c *ResultCache) Set(key string, r scenario.Result) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Result:    r,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Prune removes expired entries and returns how many were dropped.
func (c *ResultCache) Prune() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
			n++
		}
	}
	return n
}

// RunCleanup prunes every interval until ctx is done.
func (c *ResultCache) RunCleanup(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune()
		}
	}
}

// CacheKey builds a deterministic key from simulation inputs.
func CacheKey(nPeriods, onset int, shock, persistence, monetaryResponse float64) string {
	return fmt.Sprintf("%d:%d:%g:%g:%g", nPeriods, onset, shock, persistence, monetaryResponse)
}
