package rbac

import "strings"

// Permission is a capability tag carried by staff profiles.
type Permission string

// Closed permission set understood by the backend.
const (
	PermManageUsers      Permission = "MANAGE_USERS"
	PermManageCategories Permission = "MANAGE_PLAYGROUND_CATEGORY"
	PermManageManagers   Permission = "MANAGE_MANAGERS"
	PermManagePopular    Permission = "MANAGE_POPULAR_GROUND"
	PermManageEvents     Permission = "MANAGE_EVENTS"
	PermViewDashboard    Permission = "VIEW_DASHBOARD"
)

// PermissionDefinition describes a permission for the staff form.
type PermissionDefinition struct {
	Key         Permission `json:"key"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
}

// PermissionCatalog enumerates assignable permissions in display order.
var PermissionCatalog = []PermissionDefinition{
	{Key: PermManageUsers, Label: "Manage Users", Description: "Can view and manage end-users"},
	{Key: PermManageCategories, Label: "Manage Playground Categories", Description: "Can create, edit, and delete playground categories"},
	{Key: PermManageManagers, Label: "Manage Managers", Description: "Can create, edit, and delete playground managers"},
	{Key: PermManagePopular, Label: "Manage Popular Grounds", Description: "Can manage popular/featured grounds"},
	{Key: PermManageEvents, Label: "Manage Events", Description: "Can create, edit, and delete events"},
	{Key: PermViewDashboard, Label: "View Dashboard", Description: "Can view dashboard analytics"},
}

// AllPermissions returns every defined permission.
func AllPermissions() []Permission {
	out := make([]Permission, 0, len(PermissionCatalog))
	for _, def := range PermissionCatalog {
		out = append(out, def.Key)
	}
	return out
}

func (p Permission) String() string { return string(p) }

// Label returns the human readable name, or the raw tag when unknown.
func (p Permission) Label() string {
	for _, def := range PermissionCatalog {
		if def.Key == p {
			return def.Label
		}
	}
	return string(p)
}

// ParsePermission accepts a tag in any case.
func ParsePermission(raw string) (Permission, bool) {
	candidate := Permission(strings.ToUpper(strings.TrimSpace(raw)))
	for _, def := range PermissionCatalog {
		if def.Key == candidate {
			return candidate, true
		}
	}
	return "", false
}

// ParsePermissions splits raw values into known permissions and rejected
// inputs. Duplicates are dropped.
func ParsePermissions(values []string) ([]Permission, []string) {
	seen := make(map[Permission]struct{}, len(values))
	var valid []Permission
	var invalid []string
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, ok := ParsePermission(raw)
		if !ok {
			invalid = append(invalid, raw)
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		valid = append(valid, p)
	}
	return valid, invalid
}
