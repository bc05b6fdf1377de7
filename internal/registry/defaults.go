package registry

import (
	"regexp"

	"customize-api/internal/domain"
)

var (
	navMenuPattern     = regexp.MustCompile(`^nav_menu\[-?\d+\]$`)
	navMenuItemPattern = regexp.MustCompile(`^nav_menu_item\[-?\d+\]$`)
	widgetPattern      = regexp.MustCompile(`^widget_[a-z0-9_-]+(\[\d+\])?$`)
	sidebarPattern     = regexp.MustCompile(`^sidebars_widgets\[[a-z0-9_-]+\]$`)
)

// Default builds the site registry: core identity and display settings, the
// dynamic menu/widget families, and the descriptive tree the read-only
// endpoints serve.
func Default() *Registry {
	r := New()

	r.AddSetting(&domain.SettingDefinition{
		ID:         "blogname",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "postMessage",
		Default:    "",
		Sanitize:   SanitizeText,
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "blogdescription",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "postMessage",
		Default:    "",
		Sanitize:   SanitizeText,
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "site_icon",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "postMessage",
		Default:    float64(0),
		Sanitize:   SanitizeInt,
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "show_on_front",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "refresh",
		Default:    "posts",
		Sanitize:   SanitizeEnum("posts", "page"),
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "page_on_front",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "refresh",
		Default:    float64(0),
		Sanitize:   SanitizeInt,
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "home_url",
		Type:       domain.SettingTypeOption,
		Capability: domain.CapManageOptions,
		Transport:  "refresh",
		Default:    "",
		Sanitize:   SanitizeURL,
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:            "custom_logo",
		Type:          domain.SettingTypeThemeMod,
		Capability:    domain.CapEditThemeOptions,
		Transport:     "postMessage",
		Default:       float64(0),
		Sanitize:      SanitizeInt,
		ThemeSupports: []string{"custom-logo"},
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:            "header_textcolor",
		Type:          domain.SettingTypeThemeMod,
		Capability:    domain.CapEditThemeOptions,
		Transport:     "postMessage",
		Default:       "",
		Sanitize:      SanitizeText,
		ThemeSupports: []string{"custom-header"},
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:            "background_color",
		Type:          domain.SettingTypeThemeMod,
		Capability:    domain.CapEditThemeOptions,
		Transport:     "postMessage",
		Default:       "ffffff",
		Sanitize:      SanitizeText,
		ThemeSupports: []string{"custom-background"},
	})
	r.AddSetting(&domain.SettingDefinition{
		ID:         "nav_menu_locations",
		Type:       domain.SettingTypeThemeMod,
		Capability: domain.CapEditThemeOptions,
		Transport:  "refresh",
		Default:    map[string]any{},
		Sanitize:   SanitizeObject,
	})

	r.AddDynamicPattern(DynamicPattern{
		Pattern: navMenuPattern,
		Build: func(id string) *domain.SettingDefinition {
			return &domain.SettingDefinition{
				ID:         id,
				Type:       domain.SettingTypeNavMenu,
				Capability: domain.CapEditThemeOptions,
				Transport:  "postMessage",
				Sanitize:   SanitizeObject,
			}
		},
	})
	r.AddDynamicPattern(DynamicPattern{
		Pattern: navMenuItemPattern,
		Build: func(id string) *domain.SettingDefinition {
			return &domain.SettingDefinition{
				ID:         id,
				Type:       domain.SettingTypeNavMenuItem,
				Capability: domain.CapEditThemeOptions,
				Transport:  "postMessage",
				Sanitize:   SanitizeObject,
			}
		},
	})
	r.AddDynamicPattern(DynamicPattern{
		Pattern: widgetPattern,
		Build: func(id string) *domain.SettingDefinition {
			return &domain.SettingDefinition{
				ID:         id,
				Type:       domain.SettingTypeWidget,
				Capability: domain.CapEditThemeOptions,
				Transport:  "refresh",
				Sanitize:   SanitizeObject,
			}
		},
	})
	r.AddDynamicPattern(DynamicPattern{
		Pattern: sidebarPattern,
		Build: func(id string) *domain.SettingDefinition {
			return &domain.SettingDefinition{
				ID:         id,
				Type:       domain.SettingTypeOption,
				Capability: domain.CapEditThemeOptions,
				Transport:  "refresh",
			}
		},
	})

	addDefaultTree(r)
	return r
}

func addDefaultTree(r *Registry) {
	r.AddPanel(&domain.Panel{
		ID:                    "nav_menus",
		Title:                 "Menus",
		Description:           "Site navigation menus",
		Priority:              100,
		Type:                  "default",
		Capability:            domain.CapEditThemeOptions,
		AutoExpandSoleSection: true,
		Sections:              []string{"menu_locations"},
	})
	r.AddPanel(&domain.Panel{
		ID:         "widgets",
		Title:      "Widgets",
		Priority:   110,
		Type:       "default",
		Capability: domain.CapEditThemeOptions,
		Sections:   []string{"sidebar_primary"},
	})

	r.AddSection(&domain.Section{
		ID:         "title_tagline",
		Title:      "Site Identity",
		Priority:   20,
		Type:       "default",
		Capability: domain.CapManageOptions,
		Controls:   []string{"blogname", "blogdescription", "site_icon", "custom_logo"},
	})
	r.AddSection(&domain.Section{
		ID:            "colors",
		Title:         "Colors",
		Priority:      40,
		Type:          "default",
		Capability:    domain.CapEditThemeOptions,
		Controls:      []string{"header_textcolor", "background_color"},
		ThemeSupports: []string{"custom-background", "custom-header"},
	})
	r.AddSection(&domain.Section{
		ID:         "static_front_page",
		Title:      "Homepage Settings",
		Priority:   120,
		Type:       "default",
		Capability: domain.CapManageOptions,
		Controls:   []string{"show_on_front", "page_on_front"},
	})
	r.AddSection(&domain.Section{
		ID:         "menu_locations",
		Title:      "Menu Locations",
		Panel:      "nav_menus",
		Priority:   30,
		Type:       "default",
		Capability: domain.CapEditThemeOptions,
		Controls:   []string{"nav_menu_locations"},
	})
	r.AddSection(&domain.Section{
		ID:         "sidebar_primary",
		Title:      "Primary Sidebar",
		Panel:      "widgets",
		Priority:   10,
		Type:       "sidebar",
		Capability: domain.CapEditThemeOptions,
	})

	r.AddControl(&domain.Control{
		ID:         "blogname",
		Label:      "Site Title",
		Section:    "title_tagline",
		Priority:   10,
		Type:       "text",
		Capability: domain.CapManageOptions,
		Settings:   []string{"blogname"},
	})
	r.AddControl(&domain.Control{
		ID:         "blogdescription",
		Label:      "Tagline",
		Section:    "title_tagline",
		Priority:   20,
		Type:       "text",
		Capability: domain.CapManageOptions,
		Settings:   []string{"blogdescription"},
	})
	r.AddControl(&domain.Control{
		ID:         "site_icon",
		Label:      "Site Icon",
		Section:    "title_tagline",
		Priority:   60,
		Type:       "media",
		Capability: domain.CapManageOptions,
		Settings:   []string{"site_icon"},
	})
	r.AddControl(&domain.Control{
		ID:         "custom_logo",
		Label:      "Logo",
		Section:    "title_tagline",
		Priority:   8,
		Type:       "media",
		Capability: domain.CapEditThemeOptions,
		Settings:   []string{"custom_logo"},
	})
	r.AddControl(&domain.Control{
		ID:         "header_textcolor",
		Label:      "Header Text Color",
		Section:    "colors",
		Priority:   10,
		Type:       "color",
		Capability: domain.CapEditThemeOptions,
		Settings:   []string{"header_textcolor"},
	})
	r.AddControl(&domain.Control{
		ID:         "background_color",
		Label:      "Background Color",
		Section:    "colors",
		Priority:   20,
		Type:       "color",
		Capability: domain.CapEditThemeOptions,
		Settings:   []string{"background_color"},
	})
	r.AddControl(&domain.Control{
		ID:         "show_on_front",
		Label:      "Your homepage displays",
		Section:    "static_front_page",
		Priority:   10,
		Type:       "radio",
		Capability: domain.CapManageOptions,
		Settings:   []string{"show_on_front"},
		Choices:    []string{"posts", "page"},
	})
	r.AddControl(&domain.Control{
		ID:         "page_on_front",
		Label:      "Homepage",
		Section:    "static_front_page",
		Priority:   20,
		Type:       "dropdown-pages",
		Capability: domain.CapManageOptions,
		Settings:   []string{"page_on_front"},
	})
	r.AddControl(&domain.Control{
		ID:         "nav_menu_locations",
		Label:      "Menu Locations",
		Section:    "menu_locations",
		Priority:   10,
		Type:       "nav_menu_locations",
		Capability: domain.CapEditThemeOptions,
		Settings:   []string{"nav_menu_locations"},
	})

	r.AddPartial(&domain.Partial{
		ID:              "blogname",
		Selector:        ".site-title a",
		Type:            "default",
		Capability:      domain.CapManageOptions,
		Settings:        []string{"blogname"},
		FallbackRefresh: true,
	})
	r.AddPartial(&domain.Partial{
		ID:              "blogdescription",
		Selector:        ".site-description",
		Type:            "default",
		Capability:      domain.CapManageOptions,
		Settings:        []string{"blogdescription"},
		FallbackRefresh: true,
	})
	r.AddPartial(&domain.Partial{
		ID:                 "custom_logo",
		Selector:           ".custom-logo-link",
		Type:               "default",
		Capability:         domain.CapEditThemeOptions,
		Settings:           []string{"custom_logo"},
		FallbackRefresh:    true,
		ContainerInclusive: true,
	})
}
