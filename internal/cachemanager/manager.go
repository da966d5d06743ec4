// Package cachemanager provides the in-memory cache that sits in front of
// dataset file reads.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
}
