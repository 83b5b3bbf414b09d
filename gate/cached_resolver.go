package gate

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedResolver wraps a ProfileResolver with a TTL-bounded LRU cache.
// This avoids hitting the database on every authorization check.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	cache *lru.LRU[U, cacheEntry]
}

type cacheEntry struct {
	profile Profile
}

// NewCachedResolver wraps a resolver with caching.
// size caps the number of cached subjects (0 means unbounded); ttl is how long
// profiles are cached before re-fetching.
func NewCachedResolver[U comparable](inner ProfileResolver[U], size int, ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		cache: lru.NewLRU[U, cacheEntry](size, nil, ttl),
	}
}

// Resolve returns the profile for the given subject, using cache if available.
// A missing profile is cached as well.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	if entry, ok := r.cache.Get(user); ok {
		return entry.profile, nil
	}

	profile, err := r.inner.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	r.cache.Add(user, cacheEntry{profile: profile})
	return profile, nil
}

// Invalidate removes a subject from the cache.
// Call this when a user's profile assignment changes.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.cache.Remove(user)
}

// InvalidateAll clears the entire cache.
// Call this when profile access is modified.
func (r *CachedResolver[U]) InvalidateAll() {
	r.cache.Purge()
}

// Len reports the number of cached subjects.
func (r *CachedResolver[U]) Len() int {
	return r.cache.Len()
}
