// Package navigation builds the role-filtered menu tree. The menu is static
// configuration; Build only filters, it never reorders.
package navigation

import "github.com/fieldforge/servicedesk/pkg/auth"

// Item is one navigation node. Roles lists who sees it; Children are
// themselves role-scoped.
type Item struct {
	Title    string      `json:"title"`
	Path     string      `json:"path"`
	Icon     string      `json:"icon,omitempty"`
	Roles    []auth.Role `json:"-"`
	Children []Item      `json:"children,omitempty"`
}

// defaultMenu is the full menu in declaration order. Output order is always
// this order, filtered.
var defaultMenu = []Item{
	{
		Title: "Dashboard", Path: "/dashboard", Icon: "home",
		Roles: auth.AllRoles(),
	},
	{
		Title: "Vehicles", Path: "/vehicles", Icon: "truck",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
	},
	{
		Title: "Work Orders", Path: "/work-orders", Icon: "clipboard",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},
	},
	{
		Title: "Service Trackers", Path: "/service-trackers", Icon: "activity",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
	},
	{
		Title: "Customers", Path: "/customers", Icon: "users",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator},
	},
	{
		Title: "Billing", Path: "/invoices", Icon: "credit-card",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		Children: []Item{
			{Title: "Invoices", Path: "/invoices", Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant}},
			{Title: "Payments", Path: "/payments", Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant}},
			{Title: "Reports", Path: "/reports", Roles: []auth.Role{auth.RoleAdmin, auth.RoleAccountant}},
		},
	},
	{
		Title: "Team", Path: "/team", Icon: "user-plus",
		Roles: []auth.Role{auth.RoleAdmin, auth.RoleManager},
	},
	{
		Title: "Settings", Path: "/settings", Icon: "settings",
		Roles: []auth.Role{auth.RoleAdmin},
	},
	{
		Title: "About", Path: "/about", Icon: "info",
		Roles: auth.AllRoles(),
	},
}

// Build returns the menu visible to the role, in declaration order. An
// unknown role yields an empty menu, not an error. A parent with children
// is included only when at least one child survives filtering.
func Build(role auth.Role) []Item {
	if !role.Valid() {
		return []Item{}
	}
	return filter(defaultMenu, role)
}

func filter(items []Item, role auth.Role) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !contains(item.Roles, role) {
			continue
		}
		if len(item.Children) > 0 {
			children := filter(item.Children, role)
			if len(children) == 0 {
				continue
			}
			item.Children = children
		}
		out = append(out, item)
	}
	return out
}

func contains(roles []auth.Role, role auth.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
