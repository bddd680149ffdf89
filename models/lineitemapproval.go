package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
)

// LineItemApproval records the GC's answer on one line item. One row per
// line item per response; undoing a response deletes them.
type LineItemApproval struct {
	ID           uuid.UUID `db:"id"`
	TicketID     uuid.UUID `db:"ticket_id" validate:"required"`
	LineItemID   uuid.UUID `db:"line_item_id" validate:"required"`
	LineItemType string    `db:"line_item_type" validate:"required"`
	Approved     bool      `db:"approved"`
	Note         string    `db:"note"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type LineItemApprovals []LineItemApproval

func (l *LineItemApproval) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(l), nil
}

func (l *LineItemApproval) Create(tx *pop.Connection) error {
	return create(tx, l)
}

func (ls *LineItemApprovals) FindByTicket(tx *pop.Connection, ticketID uuid.UUID) error {
	err := tx.Where("ticket_id = ?", ticketID).All(ls)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// DestroyApprovalsForTicket clears all recorded line decisions for a ticket
func DestroyApprovalsForTicket(tx *pop.Connection, ticketID uuid.UUID) error {
	var approvals LineItemApprovals
	if err := approvals.FindByTicket(tx, ticketID); err != nil {
		return err
	}
	for i := range approvals {
		if err := destroy(tx, &approvals[i]); err != nil {
			return err
		}
	}
	return nil
}
