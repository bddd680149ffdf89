package actions

import (
	"net/http"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// sendTicketFixture pushes a fixture ticket out to the GC and returns it with
// its live approval token.
func (as *ActionSuite) sendTicketFixture() (models.Fixtures, models.TNMTicket, models.ApprovalToken) {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})

	ticket := f.TNMTickets[0]
	as.NoError(ticket.SubmitForReview(db))
	as.NoError(ticket.MarkReadyToSend(db))
	as.NoError(ticket.Send(db))

	var token models.ApprovalToken
	as.NoError(token.FindOpenForTicket(db, ticket.ID))

	return f, ticket, token
}

func (as *ActionSuite) Test_approvalsView() {
	db := as.DB

	f, ticket, token := as.sendTicketFixture()

	res := as.JSON("/approvals/%s", token.ID).Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var view api.ApprovalView
	as.NoError(as.decodeBody(res.Body.Bytes(), &view))
	as.Equal(ticket.TNMNumber, view.TNMNumber)
	as.Equal(f.Projects[0].Name, view.ProjectName)
	as.Len(view.LaborItems, 1, "labor items missing from the approval view")

	// opening the link marks the ticket viewed
	var fresh models.TNMTicket
	as.NoError(fresh.FindByID(db, ticket.ID))
	as.Equal(api.TNMStatusViewed, fresh.Status)
	as.True(fresh.ViewedAt.Valid, "viewed_at was not stamped")
}

func (as *ActionSuite) Test_approvalsView_badToken() {
	as.sendTicketFixture()

	res := as.JSON("/approvals/%s", domain.GetUUID()).Get()
	as.Equal(http.StatusNotFound, res.Code, "an unknown token should 404")

	res = as.JSON("/approvals/not-a-uuid").Get()
	as.Equal(http.StatusNotFound, res.Code, "a malformed token should 404")
}

func (as *ActionSuite) Test_approvalsSubmit() {
	db := as.DB

	_, ticket, token := as.sendTicketFixture()

	input := api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionApproveAll,
		SignerName: "Pat Keller",
	}

	res := as.JSON("/approvals/%s", token.ID).Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var result api.ApprovalResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &result))
	as.Equal(api.TNMStatusApproved, result.Status)
	as.True(result.ApprovedAmount.Equal(ticket.ProposalAmount),
		"approved amount %s should match the proposal %s", result.ApprovedAmount, ticket.ProposalAmount)

	// the one-time token is burned by the response
	var gone models.ApprovalToken
	err := gone.FindOpenForTicket(db, ticket.ID)
	as.Error(err, "the approval token should be destroyed after a response")

	res = as.JSON("/approvals/%s", token.ID).Post(input)
	as.Equal(http.StatusNotFound, res.Code, "a burned token should no longer work")

	// a confirmation email is queued back to the GC
	var emails models.EmailLogs
	as.NoError(emails.FindByTicket(db, ticket.ID))
	as.Require().Len(emails, 2, "expected the RFCO and a confirmation entry")
	as.Equal(models.EmailKindConfirmation, emails[0].Kind)
	as.Equal(models.EmailStatusQueued, emails[0].Status)
}

func (as *ActionSuite) Test_approvalsSubmit_denyAll() {
	db := as.DB

	_, ticket, token := as.sendTicketFixture()

	input := api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionDenyAll,
		SignerName: "Pat Keller",
		Comment:    "Pricing is out of scope, resubmit against CO-12.",
	}

	res := as.JSON("/approvals/%s", token.ID).Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var result api.ApprovalResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &result))
	as.Equal(api.TNMStatusDenied, result.Status)
	as.True(result.ApprovedAmount.IsZero(), "denied tickets should have no approved amount")

	var fresh models.TNMTicket
	as.NoError(fresh.FindByID(db, ticket.ID))
	as.Equal(api.TNMStatusDenied, fresh.Status)
	as.True(fresh.ResponseDate.Valid, "response date was not stamped")
}
