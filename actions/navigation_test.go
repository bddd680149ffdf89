package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_navigationList() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	admin := models.CreateAdminUserFixture(db)

	tests := []struct {
		name         string
		actor        models.User
		wantLabels   []string
		skipLabels   []string
		wantFallback string
	}{
		{
			name:         "foreman sees the field entries only",
			actor:        foreman,
			wantLabels:   []string{"Dashboard", "T&M Tickets", "New Ticket"},
			skipLabels:   []string{"Audit Trail", "Settings", "Projects"},
			wantFallback: "/tnm/new",
		},
		{
			name:         "admin sees everything",
			actor:        admin,
			wantLabels:   []string{"Dashboard", "T&M Tickets", "New Ticket", "Projects", "Audit Trail", "Settings"},
			wantFallback: "/",
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/navigation")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Get()

			as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

			var nav api.Navigation
			as.NoError(as.decodeBody(res.Body.Bytes(), &nav))

			labels := make([]string, len(nav.Entries))
			for i, e := range nav.Entries {
				labels[i] = e.Label
			}

			for _, want := range tt.wantLabels {
				as.Contains(labels, want, "navigation is missing an entry")
			}
			for _, skip := range tt.skipLabels {
				as.NotContains(labels, skip, "navigation has an entry this role should not see")
			}
			as.Equal(tt.wantFallback, nav.FallbackPath, "incorrect fallback path")
		})
	}
}
