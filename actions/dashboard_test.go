package actions

import (
	"fmt"
	"net/http"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_dashboardView() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 3,
		ItemsPerTicket:    1,
	})
	foreman := f.Users[0]

	sent := f.TNMTickets[0]
	as.NoError(sent.SubmitForReview(db))
	as.NoError(sent.MarkReadyToSend(db))
	as.NoError(sent.Send(db))

	req := as.JSON("/dashboard")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)

	res := req.Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var dashboard api.Dashboard
	as.NoError(as.decodeBody(res.Body.Bytes(), &dashboard))

	as.Equal(2, dashboard.StatusCounts[api.TNMStatusDraft], "incorrect draft count")
	as.Equal(1, dashboard.StatusCounts[api.TNMStatusSent], "incorrect sent count")
	as.Equal(3, dashboard.OpenTickets, "incorrect open ticket count")
	as.Equal(1, dashboard.AwaitingGCReply, "incorrect awaiting count")
	as.True(dashboard.TotalApproved.IsZero(), "nothing has been approved yet")
	as.False(dashboard.TotalProposed.IsZero(), "proposed total should cover the fixture tickets")
	as.Len(dashboard.RecentActivity, 3, "incorrect recent activity length")
}
