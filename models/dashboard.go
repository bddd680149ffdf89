package models

import (
	"github.com/gobuffalo/pop/v6"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/pricing"
)

const dashboardActivityLimit = 10

// BuildDashboard aggregates ticket counts and dollar totals across all
// projects. Cancelled tickets are excluded from the dollar totals.
func BuildDashboard(tx *pop.Connection) (api.Dashboard, error) {
	dashboard := api.Dashboard{
		StatusCounts:  map[api.TNMStatus]int{},
		TotalProposed: decimal.Zero,
		TotalApproved: decimal.Zero,
		TotalPaid:     decimal.Zero,
		ApprovalRate:  decimal.Zero,
	}

	var tickets TNMTickets
	if err := tx.Order("updated_at desc").All(&tickets); err != nil {
		return dashboard, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	var responded, approved int
	for _, t := range tickets {
		dashboard.StatusCounts[t.Status]++

		switch t.Status {
		case api.TNMStatusDraft, api.TNMStatusPendingReview, api.TNMStatusReadyToSend:
			dashboard.OpenTickets++
		case api.TNMStatusSent, api.TNMStatusViewed:
			dashboard.OpenTickets++
			dashboard.AwaitingGCReply++
		case api.TNMStatusApproved, api.TNMStatusPartiallyApproved:
			responded++
			approved++
			dashboard.TotalApproved = dashboard.TotalApproved.Add(t.ApprovedAmount)
		case api.TNMStatusDenied:
			responded++
		case api.TNMStatusPaid:
			responded++
			approved++
			dashboard.TotalApproved = dashboard.TotalApproved.Add(t.ApprovedAmount)
			dashboard.TotalPaid = dashboard.TotalPaid.Add(t.ApprovedAmount)
		}

		if t.Status != api.TNMStatusCancelled {
			dashboard.TotalProposed = dashboard.TotalProposed.Add(t.ProposalAmount)
		}

		if len(dashboard.RecentActivity) < dashboardActivityLimit {
			dashboard.RecentActivity = append(dashboard.RecentActivity, api.DashboardActivity{
				TicketID:  t.ID,
				TNMNumber: t.TNMNumber,
				Status:    t.Status,
				UpdatedAt: t.UpdatedAt,
			})
		}
	}

	if responded > 0 {
		dashboard.ApprovalRate = decimal.NewFromInt(int64(approved * 100)).
			Div(decimal.NewFromInt(int64(responded)))
	}

	dashboard.TotalProposed = pricing.RoundCents(dashboard.TotalProposed)
	dashboard.TotalApproved = pricing.RoundCents(dashboard.TotalApproved)
	dashboard.TotalPaid = pricing.RoundCents(dashboard.TotalPaid)
	dashboard.ApprovalRate = dashboard.ApprovalRate.Round(1)

	return dashboard, nil
}
