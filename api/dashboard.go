package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// summary numbers for the landing page
// swagger:model
type Dashboard struct {
	// ticket counts keyed by status
	StatusCounts map[TNMStatus]int `json:"status_counts"`

	TotalProposed decimal.Decimal `json:"total_proposed"`
	TotalApproved decimal.Decimal `json:"total_approved"`
	TotalPaid     decimal.Decimal `json:"total_paid"`

	// approved ÷ responded, as a percent, zero when nothing has been answered
	ApprovalRate decimal.Decimal `json:"approval_rate"`

	OpenTickets     int `json:"open_tickets"`
	AwaitingGCReply int `json:"awaiting_gc_reply"`

	RecentActivity []DashboardActivity `json:"recent_activity"`
}

// swagger:model
type DashboardActivity struct {
	// swagger:strfmt uuid4
	TicketID uuid.UUID `json:"ticket_id"`

	TNMNumber string    `json:"tnm_number"`
	Status    TNMStatus `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
