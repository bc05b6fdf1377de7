package registry

import "customize-api/internal/domain"

// CapabilityChecker resolves whether a user holds a capability, optionally
// scoped to a target id (e.g. a specific changeset).
type CapabilityChecker interface {
	Can(user *domain.User, cap domain.Capability, targetID string) bool
}

// RoleChecker maps roles to capability sets. Viewers can read, editors can
// draft, admins can publish and touch site options.
type RoleChecker struct{}

func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

var roleCapabilities = map[string]map[domain.Capability]bool{
	string(domain.RoleViewer): {
		domain.CapCustomize: true,
	},
	string(domain.RoleEditor): {
		domain.CapCustomize:        true,
		domain.CapEditChangesets:   true,
		domain.CapDeleteChangesets: true,
		domain.CapEditThemeOptions: true,
	},
	string(domain.RoleAdmin): {
		domain.CapCustomize:            true,
		domain.CapEditChangesets:       true,
		domain.CapEditOthersChangesets: true,
		domain.CapPublishChangesets:    true,
		domain.CapDeleteChangesets:     true,
		domain.CapEditThemeOptions:     true,
		domain.CapManageOptions:        true,
	},
}

func (c *RoleChecker) Can(user *domain.User, cap domain.Capability, targetID string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	caps, ok := roleCapabilities[user.Role]
	if !ok {
		return false
	}
	return caps[cap]
}
