package models

import (
	"time"

	"github.com/diewo77/go-profiles/gate"
)

// Profile represents an administration role: a unique code, localized display
// text and the access it grants on resources and modules.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Code is set on creation and never changes afterwards.
	Code         string            `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Translations []ProfileI18n     `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	Resources    []ProfileResource `gorm:"constraint:OnDelete:CASCADE" json:"resources,omitempty"`
	Modules      []ProfileModule   `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

// ProfileI18n holds the display fields of a profile for one locale.
type ProfileI18n struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	ProfileID    uint   `gorm:"uniqueIndex:idx_profile_locale;not null" json:"-"`
	Locale       string `gorm:"uniqueIndex:idx_profile_locale;size:10;not null" json:"locale"`
	Title        string `gorm:"size:255" json:"title"`
	Chapo        string `gorm:"type:text" json:"chapo,omitempty"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	Postscriptum string `gorm:"type:text" json:"postscriptum,omitempty"`
}

// TableName keeps the conventional i18n table name.
func (ProfileI18n) TableName() string { return "profile_i18n" }

// Translation returns the fields stored for locale. The zero value carries the
// requested locale when nothing is stored.
func (p *Profile) Translation(locale string) ProfileI18n {
	for _, t := range p.Translations {
		if t.Locale == locale {
			return t
		}
	}
	return ProfileI18n{ProfileID: p.ID, Locale: locale}
}

// ResourceCodes returns the codes of the bound resources in binding order.
func (p *Profile) ResourceCodes() []string {
	codes := make([]string, 0, len(p.Resources))
	for _, r := range p.Resources {
		codes = append(codes, r.Resource.Code)
	}
	return codes
}

// ResourceAccess returns the access manager bound to a resource code.
func (p *Profile) ResourceAccess(code string) (gate.AccessManager, bool) {
	for _, r := range p.Resources {
		if r.Resource.Code == code {
			return r.AccessManager(), true
		}
	}
	return gate.AccessManager{}, false
}

// ModuleAccess returns the access manager bound to a module code.
func (p *Profile) ModuleAccess(code string) (gate.AccessManager, bool) {
	for _, m := range p.Modules {
		if m.Module.Code == code {
			return m.AccessManager(), true
		}
	}
	return gate.AccessManager{}, false
}

// ProfileResource binds a profile to a resource with an access bitmask.
// There is at most one binding per (profile, resource).
type ProfileResource struct {
	ID         uint     `gorm:"primaryKey" json:"-"`
	ProfileID  uint     `gorm:"uniqueIndex:idx_profile_resource;not null" json:"-"`
	ResourceID uint     `gorm:"uniqueIndex:idx_profile_resource;not null" json:"-"`
	Resource   Resource `json:"resource"`
	Access     uint     `gorm:"not null;default:0" json:"access"`
}

// AccessManager evaluates the binding's access value.
func (r ProfileResource) AccessManager() gate.AccessManager {
	return gate.NewAccessManager(r.Access)
}

// ProfileModule binds a profile to a module with an access bitmask.
type ProfileModule struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProfileID uint   `gorm:"uniqueIndex:idx_profile_module;not null" json:"-"`
	ModuleID  uint   `gorm:"uniqueIndex:idx_profile_module;not null" json:"-"`
	Module    Module `json:"module"`
	Access    uint   `gorm:"not null;default:0" json:"access"`
}

// AccessManager evaluates the binding's access value.
func (m ProfileModule) AccessManager() gate.AccessManager {
	return gate.NewAccessManager(m.Access)
}

// Resource is a named capability domain of the back office (e.g. "admin.address").
type Resource struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	Code  string `gorm:"uniqueIndex;size:255;not null" json:"code"`
	Title string `gorm:"size:255" json:"title,omitempty"`
}

// Module is an installable extension whose back office access is granted per profile.
type Module struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	Code  string `gorm:"uniqueIndex;size:100;not null" json:"code"`
	Title string `gorm:"size:255" json:"title,omitempty"`
}
