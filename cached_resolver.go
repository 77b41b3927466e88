package access

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheSize bounds a CachedResolver created with size <= 0.
const DefaultCacheSize = 1024

// CachedResolver wraps a ProfileResolver with a TTL and size bounded cache.
// This avoids hitting the profile store on every access check.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	cache *expirable.LRU[U, Profile] // nil when caching is disabled
}

// NewCachedResolver wraps a resolver with caching.
// ttl is how long profiles are cached before re-fetching; ttl <= 0 disables
// the cache and every Resolve reaches inner.
func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration, size int) *CachedResolver[U] {
	r := &CachedResolver[U]{inner: inner}
	if ttl <= 0 {
		return r
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	r.cache = expirable.NewLRU[U, Profile](size, nil, ttl)
	return r
}

// Resolve returns the profile for requester, using the cache when it can.
// Errors from the inner resolver are not cached.
func (r *CachedResolver[U]) Resolve(ctx context.Context, requester U) (Profile, error) {
	if r.cache == nil {
		return r.inner.Resolve(ctx, requester)
	}
	if profile, ok := r.cache.Get(requester); ok {
		return profile, nil
	}
	profile, err := r.inner.Resolve(ctx, requester)
	if err != nil {
		return nil, err
	}
	r.cache.Add(requester, profile)
	return profile, nil
}

// Invalidate drops the cached profile of one requester.
// Call this when a user's profile assignment changes.
func (r *CachedResolver[U]) Invalidate(requester U) {
	if r.cache != nil {
		r.cache.Remove(requester)
	}
}

// InvalidateAll clears the entire cache.
// Call this when profile permissions are modified.
func (r *CachedResolver[U]) InvalidateAll() {
	if r.cache != nil {
		r.cache.Purge()
	}
}
