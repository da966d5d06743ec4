package cachemanager

import (
	"context"
	"time"
)

// Loader produces the value for a key on a cache miss.
type Loader[K ~string, V any] func(ctx context.Context, key K) (V, error)

// ReadThroughCache serves values from cache and falls back to a Loader.
// Failed loads are not cached.
type ReadThroughCache[K ~string, V any] struct {
	cache CacheManager[K, V]
	load  Loader[K, V]
	ttl   time.Duration
	skip  bool
}

// NewReadThroughCache creates a read-through cache. With skipCache set every
// Get goes straight to load.
func NewReadThroughCache[K ~string, V any](cache CacheManager[K, V], load Loader[K, V], ttl time.Duration, skipCache bool) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache: cache,
		load:  load,
		ttl:   ttl,
		skip:  skipCache,
	}
}

// Get returns the cached value for key, loading and caching it on a miss.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if r.skip {
		return r.load(ctx, key)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.load(ctx, key)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

// Invalidate drops keys so the next Get reloads them.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context, keys ...K) {
	if len(keys) == 0 {
		return
	}
	r.cache.Delete(ctx, keys...)
}

// Reset drops every cached value.
func (r *ReadThroughCache[K, V]) Reset(ctx context.Context) {
	r.cache.Flush(ctx)
}
