package rbac

import "github.com/fieldforge/servicedesk/pkg/auth"

// Route tables for the two authorization surfaces. Both are exhaustive:
// a path absent from its table is denied for every role.

func pageTable() map[string][]auth.Role {
	all := auth.AllRoles()
	return map[string][]auth.Role{
		"/dashboard": all,
		"/about":     all,

		"/vehicles":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
		"/vehicles/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},

		"/work-orders":      {auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},
		"/work-orders/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},

		"/service-trackers":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
		"/service-trackers/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},

		"/customers":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator},
		"/customers/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator},

		"/invoices":      {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/invoices/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/payments":      {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/reports":       {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},

		"/team":      {auth.RoleAdmin, auth.RoleManager},
		"/team/{id}": {auth.RoleAdmin, auth.RoleManager},

		"/settings": {auth.RoleAdmin},
	}
}

func apiTable() map[string][]auth.Role {
	all := auth.AllRoles()
	return map[string][]auth.Role{
		"/api/navigation": all,

		"/api/vehicles":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
		"/api/vehicles/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},

		"/api/work-orders":             {auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},
		"/api/work-orders/{id}":        {auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},
		"/api/work-orders/{id}/status": {auth.RoleAdmin, auth.RoleManager, auth.RoleInstaller},

		"/api/service-trackers":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},
		"/api/service-trackers/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator, auth.RoleInstaller},

		"/api/customers":      {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator},
		"/api/customers/{id}": {auth.RoleAdmin, auth.RoleManager, auth.RoleCoordinator},

		"/api/invoices":          {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/invoices/{id}":     {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/invoices/{id}/pdf": {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/payments":          {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/export/payments":   {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/export/invoices":   {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},
		"/api/reports/summary":   {auth.RoleAdmin, auth.RoleManager, auth.RoleAccountant},

		"/api/team":              {auth.RoleAdmin, auth.RoleManager},
		"/api/team/{id}":         {auth.RoleAdmin, auth.RoleManager},
		"/api/tenant/settings":   {auth.RoleAdmin},
		"/api/tenant/reactivate": {auth.RoleAdmin},
	}
}

// Checker answers route-permission questions for both surfaces.
type Checker struct {
	pages *Matrix
	api   *Matrix
}

// NewChecker compiles the default page and API matrices.
func NewChecker() *Checker {
	return &Checker{
		pages: NewMatrix(pageTable()),
		api:   NewMatrix(apiTable()),
	}
}

// CheckPageAccess reports whether the role may open the page route.
func (c *Checker) CheckPageAccess(role auth.Role, path string) bool {
	return c.pages.Allowed(role, path)
}

// CheckAPIAccess reports whether the role may call the API route.
func (c *Checker) CheckAPIAccess(role auth.Role, path string) bool {
	return c.api.Allowed(role, path)
}

// PageMatrix exposes the compiled page matrix.
func (c *Checker) PageMatrix() *Matrix { return c.pages }

// APIMatrix exposes the compiled API matrix.
func (c *Checker) APIMatrix() *Matrix { return c.api }
