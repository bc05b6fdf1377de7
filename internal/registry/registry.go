// Package registry holds the customize metadata tree: settings with their
// types, capabilities and sanitizers, plus the descriptive panels, sections,
// controls and partials served on the read-only surface. The registry is an
// explicit value constructed once at startup and passed into services; there
// is no ambient global.
package registry

import (
	"regexp"
	"sort"

	"customize-api/internal/domain"
)

// DynamicPattern registers a family of setting ids (e.g. nav_menu_item[123])
// that resolve on demand instead of being enumerated up front.
type DynamicPattern struct {
	Pattern *regexp.Regexp
	Build   func(id string) *domain.SettingDefinition
}

type Registry struct {
	settings map[string]*domain.SettingDefinition
	dynamics []DynamicPattern
	panels   map[string]*domain.Panel
	sections map[string]*domain.Section
	controls map[string]*domain.Control
	partials map[string]*domain.Partial
}

func New() *Registry {
	return &Registry{
		settings: make(map[string]*domain.SettingDefinition),
		panels:   make(map[string]*domain.Panel),
		sections: make(map[string]*domain.Section),
		controls: make(map[string]*domain.Control),
		partials: make(map[string]*domain.Partial),
	}
}

func (r *Registry) AddSetting(def *domain.SettingDefinition) {
	if def.Sanitize == nil {
		def.Sanitize = SanitizeAny
	}
	r.settings[def.ID] = def
}

func (r *Registry) AddDynamicPattern(p DynamicPattern) {
	r.dynamics = append(r.dynamics, p)
}

func (r *Registry) AddPanel(p *domain.Panel)     { r.panels[p.ID] = p }
func (r *Registry) AddSection(s *domain.Section) { r.sections[s.ID] = s }
func (r *Registry) AddControl(c *domain.Control) { r.controls[c.ID] = c }
func (r *Registry) AddPartial(p *domain.Partial) { r.partials[p.ID] = p }

// ResolveSetting resolves a setting id against static registrations first,
// then dynamic patterns. Every settings-document write goes through here.
func (r *Registry) ResolveSetting(id string) (*domain.SettingDefinition, bool) {
	if def, ok := r.settings[id]; ok {
		return def, true
	}
	for _, dyn := range r.dynamics {
		if dyn.Pattern.MatchString(id) {
			def := dyn.Build(id)
			if def.Sanitize == nil {
				def.Sanitize = SanitizeAny
			}
			return def, true
		}
	}
	return nil, false
}

func (r *Registry) Panel(id string) (*domain.Panel, bool) {
	p, ok := r.panels[id]
	return p, ok
}

func (r *Registry) Section(id string) (*domain.Section, bool) {
	s, ok := r.sections[id]
	return s, ok
}

func (r *Registry) Control(id string) (*domain.Control, bool) {
	c, ok := r.controls[id]
	return c, ok
}

func (r *Registry) Partial(id string) (*domain.Partial, bool) {
	p, ok := r.partials[id]
	return p, ok
}

// Settings returns the statically registered settings ordered by id.
func (r *Registry) Settings() []*domain.SettingDefinition {
	out := make([]*domain.SettingDefinition, 0, len(r.settings))
	for _, def := range r.settings {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Panels() []*domain.Panel {
	out := make([]*domain.Panel, 0, len(r.panels))
	for _, p := range r.panels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Sections() []*domain.Section {
	out := make([]*domain.Section, 0, len(r.sections))
	for _, s := range r.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Controls() []*domain.Control {
	out := make([]*domain.Control, 0, len(r.controls))
	for _, c := range r.controls {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Partials() []*domain.Partial {
	out := make([]*domain.Partial, 0, len(r.partials))
	for _, p := range r.partials {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
