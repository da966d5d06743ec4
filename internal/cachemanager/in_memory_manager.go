package cachemanager

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/chartwell/internal/log"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Stats counts lookups against an InMemoryCacheManager.
type Stats struct {
	Hits   uint64
	Misses uint64
	Items  int
}

// InMemoryCacheManager is a CacheManager backed by go-cache.
type InMemoryCacheManager[K ~string, V any] struct {
	name   string
	cache  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[string, int])(nil)

// NewInMemoryCacheManager creates a cache. name only labels log lines.
func NewInMemoryCacheManager[K ~string, V any](name string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		name:  name,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the value cached under key.
func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		c.misses.Add(1)
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "Cached value has unexpected type", "cache", c.name, "key", key)
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	log.Debug(log.CatCache, "Cache hit", "cache", c.name, "key", key)
	return v, true
}

// Set stores value under key for ttl. gocache.DefaultExpiration uses the
// cache's default.
func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes keys. Unknown keys are ignored.
func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) {
	c.cache.Flush()
}

// Stats returns lookup counters and the current item count.
func (c *InMemoryCacheManager[K, V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Items:  c.cache.ItemCount(),
	}
}
