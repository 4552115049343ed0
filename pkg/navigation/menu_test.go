package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestBuildAdminSeesFullMenu(t *testing.T) {
	menu := Build(auth.RoleAdmin)
	assert.Equal(t, []string{
		"Dashboard", "Vehicles", "Work Orders", "Service Trackers",
		"Customers", "Billing", "Team", "Settings", "About",
	}, titles(menu))

	var billing *Item
	for i := range menu {
		if menu[i].Title == "Billing" {
			billing = &menu[i]
		}
	}
	require.NotNil(t, billing)
	assert.Equal(t, []string{"Invoices", "Payments", "Reports"}, titles(billing.Children))
}

func TestBuildRoleFiltering(t *testing.T) {
	tests := []struct {
		role auth.Role
		want []string
	}{
		{auth.RoleManager, []string{
			"Dashboard", "Vehicles", "Work Orders", "Service Trackers",
			"Customers", "Billing", "Team", "About",
		}},
		{auth.RoleCoordinator, []string{
			"Dashboard", "Vehicles", "Service Trackers", "Customers", "About",
		}},
		{auth.RoleInstaller, []string{
			"Dashboard", "Vehicles", "Work Orders", "Service Trackers", "About",
		}},
		{auth.RoleAccountant, []string{
			"Dashboard", "Billing", "About",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Build(tt.role)))
		})
	}
}

func TestBuildManagerBillingChildren(t *testing.T) {
	// Reports is admin/accountant only, so a manager's Billing section keeps
	// the parent but drops that child.
	menu := Build(auth.RoleManager)
	for _, item := range menu {
		if item.Title == "Billing" {
			assert.Equal(t, []string{"Invoices", "Payments"}, titles(item.Children))
			return
		}
	}
	t.Fatal("manager menu missing Billing")
}

func TestBuildUnknownRole(t *testing.T) {
	assert.Empty(t, Build(auth.Role("wizard")))
	assert.Empty(t, Build(auth.Role("")))
}

func TestBuildDoesNotMutateDefaultMenu(t *testing.T) {
	before := len(defaultMenu[5].Children)
	_ = Build(auth.RoleManager)
	assert.Equal(t, before, len(defaultMenu[5].Children))
}

func TestBuildSubsetRelation(t *testing.T) {
	adminPaths := map[string]bool{}
	for _, item := range Build(auth.RoleAdmin) {
		adminPaths[item.Path] = true
	}
	for _, role := range auth.AllRoles() {
		for _, item := range Build(role) {
			assert.True(t, adminPaths[item.Path],
				"role %s sees %s which admin does not", role, item.Path)
		}
	}
}
