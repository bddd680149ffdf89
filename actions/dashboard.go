package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/models"
)

// swagger:operation GET /dashboard Dashboard DashboardView
//
// DashboardView
//
// summary numbers for the landing page
//
// ---
// responses:
//   '200':
//     description: ticket counts, dollar totals and recent activity
//     schema:
//       "$ref": "#/definitions/Dashboard"
func dashboardView(c buffalo.Context) error {
	dashboard, err := models.BuildDashboard(models.Tx(c))
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, dashboard)
}
