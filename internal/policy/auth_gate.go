package policy

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/events"
)

// AuthGate holds the configured Gate with caching.
// Use this as a central authorization point in your application.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate creates a fully configured authorization gate.
//   - db: GORM database connection for profile lookups
//   - size: maximum number of cached users
//   - cacheTTL: how long to cache user profiles (e.g., 5*time.Minute)
func NewAuthGate(db *gorm.DB, size int, cacheTTL time.Duration) *AuthGate {
	cachedResolver := gate.NewCachedResolver[uint](NewDBProfileResolver(db), size, cacheTTL)
	return &AuthGate{
		Gate:          gate.NewGate[uint](cachedResolver),
		CacheResolver: cachedResolver,
	}
}

// Listen drops the whole cache whenever profile access changes on bus.
func (ag *AuthGate) Listen(bus *events.Bus) {
	bus.Subscribe(func(context.Context, *events.ProfileEvent) error {
		ag.InvalidateAll()
		return nil
	}, events.ProfileResourceAccessUpdated, events.ProfileModuleAccessUpdated)
}

// Authorize checks if the user can perform action on the resource code.
// Returns nil if authorized, gate.ErrUnauthorized or gate.ErrNoProfile otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, userID uint, action gate.Action, resource string) error {
	return ag.Gate.Authorize(ctx, userID, action, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, userID uint, action gate.Action, resource string) bool {
	return ag.Gate.Can(ctx, userID, action, resource)
}

// CanModule checks access to a module code.
func (ag *AuthGate) CanModule(ctx context.Context, userID uint, action gate.Action, module string) bool {
	return ag.Gate.Can(ctx, userID, action, ModulePrefix+module)
}

// Invalidate clears the cache for a specific user. It satisfies
// services.Invalidator so profile assignment can drop stale entries.
func (ag *AuthGate) Invalidate(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// InvalidateAll clears the entire profile cache.
func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}
