package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

// navigationEntries is the full UI navigation tree. Entries with roles are
// hidden from users who hold none of them.
var navigationEntries = api.NavigationEntries{
	{Label: "Dashboard", Path: "/", Icon: "dashboard"},
	{Label: "T&M Tickets", Path: "/tnm", Icon: "receipt"},
	{Label: "New Ticket", Path: "/tnm/new", Icon: "add"},
	{Label: "Projects", Path: "/projects", Icon: "engineering",
		AllowedRoles: []string{models.RoleAdmin, models.RoleProjectManager, models.RoleOfficeStaff}},
	{Label: "Audit Trail", Path: "/audits", Icon: "history",
		AllowedRoles: []string{models.RoleAdmin}},
	{Label: "Settings", Path: "/settings", Icon: "settings",
		AllowedRoles: []string{models.RoleAdmin, models.RoleOfficeStaff}},
}

// swagger:operation GET /navigation Navigation NavigationList
//
// NavigationList
//
// list the navigation entries visible to the current user, with the route to
// land on when a page is denied
//
// ---
// responses:
//   '200':
//     description: navigation entries in display order
//     schema:
//       "$ref": "#/definitions/Navigation"
func navigationList(c buffalo.Context) error {
	user := models.CurrentUser(c)
	return renderOk(c, api.Navigation{
		Entries:      api.FilterNavigation(user.Roles, navigationEntries),
		FallbackPath: navigationFallback(user),
	})
}

// navigationFallback picks where a denied navigation attempt lands: users who
// only work in the field go to ticket creation, everyone else to the dashboard
func navigationFallback(user models.User) string {
	for _, r := range user.Roles {
		if r != models.RoleForeman {
			return "/"
		}
	}
	if user.HasRole(models.RoleForeman) {
		return "/tnm/new"
	}
	return "/"
}
