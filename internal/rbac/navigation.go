package rbac

// NavItem is one entry of the console navigation.
type NavItem struct {
	Text       string
	Path       string
	Permission Permission
	AdminOnly  bool
}

// DefaultNavigation returns the console navigation in display order.
func DefaultNavigation() []NavItem {
	return []NavItem{
		{Text: "Dashboard", Path: "/dashboard", Permission: PermViewDashboard},
		{Text: "Users", Path: "/dashboard/users", Permission: PermManageUsers},
		{Text: "Managers", Path: "/dashboard/managers", Permission: PermManageManagers},
		{Text: "Staff", Path: "/dashboard/staff", AdminOnly: true},
		{Text: "Playground Categories", Path: "/dashboard/categories", Permission: PermManageCategories},
		{Text: "Popular Grounds", Path: "/dashboard/popular", Permission: PermManagePopular},
		{Text: "Events", Path: "/dashboard/events", Permission: PermManageEvents},
		{Text: "Notifications", Path: "/dashboard/notifications", AdminOnly: true},
	}
}

// VisibleTo reports whether profile may see the item.
func (n NavItem) VisibleTo(profile Profile) bool {
	if profile.IsSystemAdmin() {
		return true
	}
	if n.AdminOnly {
		return false
	}
	if n.Permission == "" {
		return true
	}
	return profile.Has(n.Permission)
}

// FilterNavigation keeps the items visible to profile, preserving order.
func FilterNavigation(profile Profile, items []NavItem) []NavItem {
	visible := make([]NavItem, 0, len(items))
	for _, item := range items {
		if item.VisibleTo(profile) {
			visible = append(visible, item)
		}
	}
	return visible
}

// Navigation filters DefaultNavigation for profile.
func Navigation(profile Profile) []NavItem {
	return FilterNavigation(profile, DefaultNavigation())
}
