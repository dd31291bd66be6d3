package cachemanager

import (
	"context"
	"sync"
	"time"
)

// ReadThroughCache serves values from cache and falls back to fn on a miss,
// storing whatever fn returns.
//
// A value computed while Invalidate ran is returned but not stored, so a
// flush can never be undone by a fill that read the old state.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool

	mu         sync.Mutex
	generation uint64 // bumped by every Invalidate
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache || cache == nil,
	}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	r.mu.Lock()
	generation := r.generation
	r.mu.Unlock()

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation == generation {
		r.cache.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// Invalidate drops every cached value and discards fills still in flight.
// No-op when caching is skipped.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context) error {
	if r.shouldSkipCache {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	return r.cache.Flush(ctx)
}
