// Package gate provides profile based authorization over resource access bitmasks.
//
// A profile binds resource codes (e.g. "admin.address") to an access value in
// which every named Action owns one bit. AccessManager evaluates such a value;
// Gate resolves a subject to its profile and checks resource:action permissions.
//
// The package has no dependency on storage; resolvers adapt whatever backs the
// profiles:
//   - Gate[uint] for simple user ID based auth
//   - Gate[string] for token subject based auth
package gate

import (
	"context"
	"fmt"
)

// Gate is the central authorization checkpoint.
// U is the subject type (must be comparable for zero-value check).
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
}

// NewGate creates a gate resolving profiles through resolver.
func NewGate[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize checks:
//  1. Subject is valid (non-zero)
//  2. Subject has a profile
//  3. The profile grants action on resource
//
// Resolver failures are returned wrapped; denials return ErrUnauthorized or ErrNoProfile.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resource string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return fmt.Errorf("gate: resolve profile: %w", err)
	}
	if profile == nil {
		return ErrNoProfile
	}
	if !profile.HasPermission(NewPermission(resource, action)) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resource string) bool {
	return g.Authorize(ctx, user, action, resource) == nil
}
