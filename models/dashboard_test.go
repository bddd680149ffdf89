package models

import (
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
)

func (ms *ModelSuite) TestBuildDashboard() {
	f := CreateTicketFixtures(ms.DB, FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 4,
		ItemsPerTicket:    1,
	})

	// one awaiting the GC, one approved in full, one denied, one still draft
	sent := f.TNMTickets[0]
	ms.NoError(sent.SubmitForReview(ms.DB))
	ms.NoError(sent.MarkReadyToSend(ms.DB))
	ms.NoError(sent.Send(ms.DB))

	approved := f.TNMTickets[1]
	ms.NoError(approved.SubmitForReview(ms.DB))
	ms.NoError(approved.MarkReadyToSend(ms.DB))
	ms.NoError(approved.Send(ms.DB))
	ms.NoError(approved.ManualOverride(ms.DB, true))

	denied := f.TNMTickets[2]
	ms.NoError(denied.SubmitForReview(ms.DB))
	ms.NoError(denied.MarkReadyToSend(ms.DB))
	ms.NoError(denied.Send(ms.DB))
	ms.NoError(denied.ManualOverride(ms.DB, false))

	dashboard, err := BuildDashboard(ms.DB)
	ms.NoError(err)

	ms.Equal(1, dashboard.StatusCounts[api.TNMStatusDraft])
	ms.Equal(1, dashboard.StatusCounts[api.TNMStatusSent])
	ms.Equal(1, dashboard.StatusCounts[api.TNMStatusApproved])
	ms.Equal(1, dashboard.StatusCounts[api.TNMStatusDenied])

	ms.Equal(2, dashboard.OpenTickets, "draft and sent tickets are open")
	ms.Equal(1, dashboard.AwaitingGCReply)

	// each fixture ticket proposes 1426.875, displayed rounded
	ms.Equal("5707.50", dashboard.TotalProposed.StringFixed(2), "proposed was %s", dashboard.TotalProposed)
	ms.Equal("1426.88", dashboard.TotalApproved.StringFixed(2), "approved was %s", dashboard.TotalApproved)
	ms.True(dashboard.TotalPaid.IsZero())

	// one approval out of two responses
	ms.True(dashboard.ApprovalRate.Equal(decimal.NewFromInt(50)), "approval rate was %s", dashboard.ApprovalRate)

	ms.Equal(4, len(dashboard.RecentActivity))
}

func (ms *ModelSuite) TestBuildDashboard_empty() {
	dashboard, err := BuildDashboard(ms.DB)
	ms.NoError(err)

	ms.Equal(0, dashboard.OpenTickets)
	ms.True(dashboard.TotalProposed.IsZero())
	ms.True(dashboard.ApprovalRate.IsZero())
	ms.Equal(0, len(dashboard.RecentActivity))
}
