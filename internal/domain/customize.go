package domain

// Capability tags the permission bit a setting or action requires. The
// CapabilityChecker in the registry package resolves them against a user.
type Capability string

const (
	CapCustomize            Capability = "customize"
	CapEditChangesets       Capability = "edit_changesets"
	CapEditOthersChangesets Capability = "edit_others_changesets"
	CapPublishChangesets    Capability = "publish_changesets"
	CapDeleteChangesets     Capability = "delete_changesets"
	CapManageOptions        Capability = "manage_options"
	CapEditThemeOptions     Capability = "edit_theme_options"
)

// Setting type tags, snapshotted into changeset entries.
const (
	SettingTypeOption      = "option"
	SettingTypeThemeMod    = "theme_mod"
	SettingTypeNavMenu     = "nav_menu"
	SettingTypeNavMenuItem = "nav_menu_item"
	SettingTypeWidget      = "widget"
)

// LiveSettingKey maps a setting onto its option-store row. Plain options use
// their id as-is, every other type is namespaced by its type tag.
func LiveSettingKey(def *SettingDefinition, id string) string {
	if def.Type == SettingTypeOption {
		return id
	}
	return def.Type + ":" + id
}

// SanitizeFunc validates and normalizes a proposed value. On rejection it
// returns a validity code (e.g. "illegal") and a human message.
type SanitizeFunc func(value any) (any, string, string)

// SettingDefinition describes a registered setting: its type, the capability
// required to touch it, and its sanitizer.
type SettingDefinition struct {
	ID            string       `json:"id"`
	Type          string       `json:"type"`
	Capability    Capability   `json:"-"`
	Transport     string       `json:"transport"`
	Default       any          `json:"default"`
	ThemeSupports []string     `json:"theme_supports"`
	Sanitize      SanitizeFunc `json:"-"`
}

// SettingResponse is the REST representation of one setting.
type SettingResponse struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Transport     string   `json:"transport"`
	Default       any      `json:"default"`
	Value         any      `json:"value"`
	Dirty         bool     `json:"dirty"`
	ThemeSupports []string `json:"theme_supports"`
}

type Panel struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	Priority              int        `json:"priority"`
	Type                  string     `json:"type"`
	Capability            Capability `json:"-"`
	AutoExpandSoleSection bool       `json:"auto_expand_sole_section"`
	Sections              []string   `json:"sections"`
	ThemeSupports         []string   `json:"theme_supports"`
}

type Section struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Panel         string     `json:"panel"`
	Priority      int        `json:"priority"`
	Type          string     `json:"type"`
	Capability    Capability `json:"-"`
	Controls      []string   `json:"controls"`
	ThemeSupports []string   `json:"theme_supports"`
}

type Control struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Section     string     `json:"section"`
	Priority    int        `json:"priority"`
	Type        string     `json:"type"`
	Capability  Capability `json:"-"`
	Settings    []string   `json:"settings"`
	Choices     []string   `json:"choices,omitempty"`
}

type Partial struct {
	ID                 string     `json:"id"`
	Selector           string     `json:"selector"`
	Type               string     `json:"type"`
	Capability         Capability `json:"-"`
	Settings           []string   `json:"settings"`
	FallbackRefresh    bool       `json:"fallback_refresh"`
	ContainerInclusive bool       `json:"container_inclusive"`
}
