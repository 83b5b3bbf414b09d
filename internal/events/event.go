// Package events carries profile action input/output and dispatches the
// resulting notifications to listeners.
package events

import (
	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/models"
)

// Event names dispatched by the profile actions.
const (
	ProfileCreated               = "profile.created"
	ProfileUpdated               = "profile.updated"
	ProfileResourceAccessUpdated = "profile.resource_access.updated"
	ProfileModuleAccessUpdated   = "profile.module_access.updated"
)

// ProfileEvent is the input of a profile action and, once the action returns,
// its output: Profile holds the persisted entity.
//
// Nil text fields are left untouched by Update.
type ProfileEvent struct {
	ID     uint   `json:"id,omitempty"`
	Code   string `json:"code,omitempty"`
	Locale string `json:"locale,omitempty"`

	Title        *string `json:"title,omitempty"`
	Chapo        *string `json:"chapo,omitempty"`
	Description  *string `json:"description,omitempty"`
	Postscriptum *string `json:"postscriptum,omitempty"`

	// ResourceAccess maps a resource code to the actions granted on it.
	ResourceAccess map[string][]gate.Action `json:"resource_access,omitempty"`
	// ModuleAccess maps a module code to the actions granted on it.
	ModuleAccess map[string][]gate.Action `json:"module_access,omitempty"`

	Profile *models.Profile `json:"-"`
}

// String returns a pointer to s for the optional text fields.
func String(s string) *string { return &s }
