package actions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_laborItemsCreate() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]

	input := api.LaborItemInput{
		Description: "Saturday overtime crew",
		LaborType:   api.LaborTypeLaborer,
		Hours:       decimal.NewFromInt(8),
		RatePerHour: decimal.NewFromInt(55),
	}

	req := as.JSON("/tnms/%s/items/labor", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)

	res := req.Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var got api.TNMTicket
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got.LaborItems, 2, "new labor item missing from the repriced ticket")
	as.True(got.ProposalAmount.GreaterThan(ticket.ProposalAmount),
		"adding a line should raise the proposal amount")
}

func (as *ActionSuite) Test_laborItemsCreate_lockedTicket() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]

	as.NoError(ticket.SubmitForReview(db))
	as.NoError(ticket.MarkReadyToSend(db))
	as.NoError(ticket.Send(db))

	input := api.LaborItemInput{
		Description: "too late",
		LaborType:   api.LaborTypeLaborer,
		Hours:       decimal.NewFromInt(1),
		RatePerHour: decimal.NewFromInt(55),
	}

	req := as.JSON("/tnms/%s/items/labor", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)

	res := req.Post(input)

	as.Equal(http.StatusBadRequest, res.Code, "items may not be added once the ticket went out")
}

func (as *ActionSuite) Test_subcontractorItemsCreate_proposalDate() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]

	proposalDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	input := api.SubcontractorItemInput{
		CompanyName:  "Valley Electric",
		Description:  "panel upgrade",
		Amount:       decimal.NewFromInt(1800),
		ProposalDate: &proposalDate,
	}

	req := as.JSON("/tnms/%s/items/subcontractor", ticket.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)

	res := req.Post(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var got api.TNMTicket
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Require().Len(got.SubcontractorItems, 2)

	var added *api.SubcontractorItem
	for i := range got.SubcontractorItems {
		if got.SubcontractorItems[i].CompanyName == input.CompanyName {
			added = &got.SubcontractorItems[i]
		}
	}
	as.Require().NotNil(added, "new subcontractor item missing from the repriced ticket")
	as.Require().NotNil(added.ProposalDate, "proposal date was dropped")
	as.True(proposalDate.Equal(*added.ProposalDate), "proposal date was %s", added.ProposalDate)
}

func (as *ActionSuite) Test_subcontractorItemsDelete() {
	db := as.DB

	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	creator := f.Users[0]
	ticket := f.TNMTickets[0]

	ticket.LoadLineItems(db, true)
	as.Require().Len(ticket.SubcontractorItems, 1)
	item := ticket.SubcontractorItems[0]

	req := as.JSON("/tnms/%s/items/subcontractor/%s", ticket.ID, item.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", creator.Email)

	res := req.Delete()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var got api.TNMTicket
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got.SubcontractorItems, 0, "subcontractor item should be gone")
	as.True(got.SubcontractorTotal.IsZero(), "subcontractor total should reprice to zero")
}
