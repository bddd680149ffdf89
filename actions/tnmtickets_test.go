package actions

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_ticketsCreate() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	project := models.CreateProjectFixtures(db, 1).Projects[0]

	input := api.TNMTicketInput{
		ProjectID:   project.ID,
		Title:       "Rework storm drain tie-in",
		Description: "Existing tie-in was 2 ft off the civil drawings.",
	}

	req := as.JSON("/tnms")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)

	res := req.Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var ticket api.TNMTicket
	as.NoError(as.decodeBody(res.Body.Bytes(), &ticket))
	as.Equal(api.TNMStatusDraft, ticket.Status, "new ticket should start as a draft")
	as.Equal(project.ProjectNumber+"-TNM-001", ticket.TNMNumber, "incorrect ticket number")
	as.Equal("Rework storm drain tie-in", ticket.Title)
}

func (as *ActionSuite) Test_ticketsList() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  2,
		TicketsPerProject: 2,
		ItemsPerTicket:    1,
	})
	foreman := f.Users[0]

	tests := []struct {
		name        string
		query       string
		wantTickets int
	}{
		{
			name:        "all tickets",
			query:       "",
			wantTickets: 4,
		},
		{
			name:        "filtered by project",
			query:       "?project_id=" + f.Projects[0].ID.String(),
			wantTickets: 2,
		},
		{
			name:        "filtered by status",
			query:       "?status=" + string(api.TNMStatusDraft),
			wantTickets: 4,
		},
		{
			name:        "filtered to an empty status",
			query:       "?status=" + string(api.TNMStatusPaid),
			wantTickets: 0,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/tnms" + tt.query)
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)

			res := req.Get()

			as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

			var tickets api.TNMTickets
			as.NoError(as.decodeBody(res.Body.Bytes(), &tickets))
			as.Len(tickets, tt.wantTickets, "incorrect number of tickets")
		})
	}
}

// Test_ticketsLifecycle walks one ticket from draft to sent through the API
// and verifies the review gates along the way.
func (as *ActionSuite) Test_ticketsLifecycle() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]
	admin := models.CreateAdminUserFixture(db)

	post := func(actor models.User, sub string) *api.TNMTicket {
		req := as.JSON("/tnms/%s/%s", ticket.ID, sub)
		req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", actor.Email)

		res := req.Post(nil)
		if res.Code != http.StatusOK {
			as.T().Logf("body: %s", res.Body.String())
			return nil
		}

		var got api.TNMTicket
		as.NoError(as.decodeBody(res.Body.Bytes(), &got))
		return &got
	}

	// send before review is rejected
	req := as.JSON("/tnms/%s/%s", ticket.ID, api.ResourceSend)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)
	res := req.Post(nil)
	as.Equal(http.StatusBadRequest, res.Code, "sending an unreviewed draft should fail")

	// creator submits the draft for review
	got := post(creator, api.ResourceSubmit)
	as.Require().NotNil(got, "submit request failed")
	as.Equal(api.TNMStatusPendingReview, got.Status)

	// the creator cannot approve the office review
	req = as.JSON("/tnms/%s/%s", ticket.ID, api.ResourceReady)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)
	res = req.Post(nil)
	as.Equal(http.StatusNotFound, res.Code, "foreman should not pass the office review")

	got = post(admin, api.ResourceReady)
	as.Require().NotNil(got, "ready request failed")
	as.Equal(api.TNMStatusReadyToSend, got.Status)

	got = post(admin, api.ResourceSend)
	as.Require().NotNil(got, "send request failed")
	as.Equal(api.TNMStatusSent, got.Status)
	as.Equal(1, got.EmailSentCount)

	// a live approval token and a queued RFCO email should now exist
	var token models.ApprovalToken
	as.NoError(token.FindOpenForTicket(db, ticket.ID))
	as.Equal(f.Projects[0].GCEmail, token.GCEmail)

	var emails models.EmailLogs
	as.NoError(emails.FindByTicket(db, ticket.ID))
	as.Require().Len(emails, 1, "expected exactly one email log entry")
	as.Equal(models.EmailKindRFCO, emails[0].Kind)
	as.Equal(models.EmailStatusQueued, emails[0].Status)

	got = post(admin, api.ResourceRemind)
	as.Require().NotNil(got, "remind request failed")
	as.Equal(1, got.ReminderCount)

	// paying an unanswered ticket is rejected
	req = as.JSON("/tnms/%s/%s", ticket.ID, api.ResourceMarkPaid)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)
	res = req.Post(nil)
	as.Equal(http.StatusBadRequest, res.Code, "marking an unanswered ticket paid should fail")

	// manual approval recorded by the office
	got = post(admin, api.ResourceApprove)
	as.Require().NotNil(got, "approve request failed")
	as.Equal(api.TNMStatusApproved, got.Status)

	got = post(admin, api.ResourceMarkPaid)
	as.Require().NotNil(got, "mark-paid request failed")
	as.Equal(api.TNMStatusPaid, got.Status)
}

func (as *ActionSuite) Test_ticketsPDF() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]

	req := as.JSON("/tnms/%s/pdf", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)

	res := req.Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)
	as.True(bytes.HasPrefix(res.Body.Bytes(), []byte("%PDF")), "response body is not a PDF document")
	as.Contains(res.Header().Get("Content-Disposition"), "RFCO-"+ticket.TNMNumber+".pdf")
}

func (as *ActionSuite) Test_ticketsEmails() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]
	admin := models.CreateAdminUserFixture(db)

	as.NoError(ticket.SubmitForReview(db))
	as.NoError(ticket.MarkReadyToSend(db))
	as.NoError(ticket.Send(db))

	// the email history is office-facing
	req := as.JSON("/tnms/%s/emails", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)
	res := req.Get()
	as.Equal(http.StatusNotFound, res.Code, "a foreman should not see the email log")

	req = as.JSON("/tnms/%s/emails", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)
	res = req.Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var logs api.EmailLogs
	as.NoError(as.decodeBody(res.Body.Bytes(), &logs))
	as.Require().Len(logs, 1)
	as.Equal(models.EmailKindRFCO, logs[0].Kind)
	as.Equal(models.EmailStatusQueued, logs[0].Status)
	as.Equal(f.Projects[0].GCEmail, logs[0].Recipient)
}

func (as *ActionSuite) Test_ticketsBulkRemind() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 2,
		ItemsPerTicket:    1,
	})
	admin := models.CreateAdminUserFixture(db)

	sentTicket := f.TNMTickets[0]
	as.NoError(sentTicket.SubmitForReview(db))
	as.NoError(sentTicket.MarkReadyToSend(db))
	as.NoError(sentTicket.Send(db))

	draftTicket := f.TNMTickets[1]

	input := api.BulkTicketsInput{IDs: []uuid.UUID{sentTicket.ID, draftTicket.ID}}

	req := as.JSON("/tnms/bulk-remind")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)

	res := req.Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var results []api.BulkTicketResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &results))
	as.Require().Len(results, 2)

	as.True(results[0].OK, "reminder on the sent ticket should succeed")
	as.False(results[1].OK, "reminder on a draft should fail")
	as.NotEmpty(results[1].Error)
}

func (as *ActionSuite) Test_ticketsBulkApproveAndMarkPaid() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 2,
		ItemsPerTicket:    1,
	})
	admin := models.CreateAdminUserFixture(db)

	for i := range f.TNMTickets {
		t := &f.TNMTickets[i]
		as.NoError(t.SubmitForReview(db))
		as.NoError(t.MarkReadyToSend(db))
		as.NoError(t.Send(db))
	}

	input := api.BulkTicketsInput{IDs: []uuid.UUID{f.TNMTickets[0].ID, f.TNMTickets[1].ID}}

	req := as.JSON("/tnms/bulk-approve")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)
	res := req.Post(input)
	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var results []api.BulkTicketResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &results))
	as.Require().Len(results, 2)
	as.True(results[0].OK)
	as.True(results[1].OK)

	req = as.JSON("/tnms/bulk-mark-paid")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)
	res = req.Post(input)
	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	as.NoError(as.decodeBody(res.Body.Bytes(), &results))
	as.Require().Len(results, 2)
	as.True(results[0].OK)
	as.True(results[1].OK)

	var paid models.TNMTicket
	as.NoError(paid.FindByID(db, f.TNMTickets[0].ID))
	as.Equal(api.TNMStatusPaid, paid.Status)
}
