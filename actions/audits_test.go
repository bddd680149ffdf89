package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_auditsList() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	admin := models.CreateAdminUserFixture(db)
	project := models.CreateProjectFixtures(db, 1).Projects[0]

	// create a ticket through the API so an audit entry exists
	input := api.TNMTicketInput{
		ProjectID: project.ID,
		Title:     "Patch slab at column line B",
	}
	req := as.JSON("/tnms")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)
	res := req.Post(input)
	as.Require().Equal(http.StatusOK, res.Code, "ticket create failed: %s", res.Body.String())

	var ticket api.TNMTicket
	as.NoError(as.decodeBody(res.Body.Bytes(), &ticket))

	tests := []struct {
		name       string
		actor      models.User
		wantStatus int
	}{
		{
			name:       "foreman may not read the audit trail",
			actor:      foreman,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin reads the audit trail",
			actor:      admin,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/audits/tnms/%s", ticket.ID)
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Get()

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := res.Body.String()
			as.Contains(body, `"action":"create"`, "missing the create audit entry")
			as.Contains(body, foreman.ID.String(), "audit entry should name the acting user")
		})
	}
}
