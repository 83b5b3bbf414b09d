package main

import (
	"time"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/models"
)

type translationView struct {
	Locale       string `json:"locale" yaml:"locale"`
	Title        string `json:"title" yaml:"title"`
	Chapo        string `json:"chapo,omitempty" yaml:"chapo,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Postscriptum string `json:"postscriptum,omitempty" yaml:"postscriptum,omitempty"`
}

type profileView struct {
	ID           uint                     `json:"id" yaml:"id"`
	Code         string                   `json:"code" yaml:"code"`
	UpdatedAt    time.Time                `json:"updated_at" yaml:"updated_at"`
	Translations []translationView        `json:"translations,omitempty" yaml:"translations,omitempty"`
	Resources    map[string][]gate.Action `json:"resources,omitempty" yaml:"resources,omitempty"`
	Modules      map[string][]gate.Action `json:"modules,omitempty" yaml:"modules,omitempty"`
}

func newProfileView(p *models.Profile) profileView {
	v := profileView{ID: p.ID, Code: p.Code, UpdatedAt: p.UpdatedAt.UTC()}
	for _, t := range p.Translations {
		v.Translations = append(v.Translations, translationView{
			Locale:       t.Locale,
			Title:        t.Title,
			Chapo:        t.Chapo,
			Description:  t.Description,
			Postscriptum: t.Postscriptum,
		})
	}
	if len(p.Resources) > 0 {
		v.Resources = make(map[string][]gate.Action, len(p.Resources))
		for _, r := range p.Resources {
			v.Resources[r.Resource.Code] = r.AccessManager().Actions()
		}
	}
	if len(p.Modules) > 0 {
		v.Modules = make(map[string][]gate.Action, len(p.Modules))
		for _, m := range p.Modules {
			v.Modules[m.Module.Code] = m.AccessManager().Actions()
		}
	}
	return v
}

type userView struct {
	ID        uint   `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	ProfileID *uint  `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
}

type checkView struct {
	UserID   uint        `json:"user_id" yaml:"user_id"`
	Resource string      `json:"resource" yaml:"resource"`
	Action   gate.Action `json:"action" yaml:"action"`
	Allowed  bool        `json:"allowed" yaml:"allowed"`
	Reason   string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}
