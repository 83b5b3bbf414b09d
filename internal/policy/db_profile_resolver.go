package policy

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/models"
)

// ModulePrefix namespaces module codes in permissions, e.g. "module.Carousel:view".
const ModulePrefix = "module."

// DBProfileResolver fetches user profiles from the database.
// It implements the gate.ProfileResolver interface for uint user IDs.
type DBProfileResolver struct {
	DB *gorm.DB
}

// NewDBProfileResolver creates a new database-backed profile resolver.
func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve looks up the user's profile with its resource and module bindings.
// Returns nil if the user has no profile assigned or does not exist.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Profile.Resources.Resource").
		Preload("Profile.Modules.Module").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.Profile == nil {
		return nil, nil
	}
	return newProfileAdapter(user.Profile), nil
}

// profileAdapter exposes a models.Profile as a gate.Profile. Every binding is
// expanded into resource:action permissions once, at resolve time.
type profileAdapter struct {
	id    uint
	code  string
	perms []gate.Permission
}

func newProfileAdapter(p *models.Profile) *profileAdapter {
	a := &profileAdapter{id: p.ID, code: p.Code}
	for _, b := range p.Resources {
		a.perms = append(a.perms, gate.PermissionsFor(b.Resource.Code, b.AccessManager())...)
	}
	for _, b := range p.Modules {
		a.perms = append(a.perms, gate.PermissionsFor(ModulePrefix+b.Module.Code, b.AccessManager())...)
	}
	sort.Slice(a.perms, func(i, j int) bool { return a.perms[i] < a.perms[j] })
	return a
}

func (a *profileAdapter) ID() uint     { return a.id }
func (a *profileAdapter) Code() string { return a.code }

// HasPermission reports whether a binding grants the requested permission.
func (a *profileAdapter) HasPermission(perm gate.Permission) bool {
	for _, p := range a.perms {
		if p.Matches(perm) {
			return true
		}
	}
	return false
}

func (a *profileAdapter) Permissions() []gate.Permission {
	return append([]gate.Permission(nil), a.perms...)
}
