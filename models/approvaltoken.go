package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

// ApprovalToken is a one-time link credential mailed to the GC. The row ID
// is the token itself, carried in the approval URL. It is destroyed when the
// GC responds, when the ticket is resolved another way, or when it expires.
type ApprovalToken struct {
	ID        uuid.UUID `db:"id"`
	TicketID  uuid.UUID `db:"ticket_id" validate:"required"`
	GCEmail   string    `db:"gc_email" validate:"required,email"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Ticket TNMTicket `belongs_to:"tnm_tickets" validate:"-"`
}

type ApprovalTokens []ApprovalToken

func (a *ApprovalToken) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

// Create stores the token, replacing any earlier open token for the same
// ticket so exactly one link is live at a time.
func (a *ApprovalToken) Create(tx *pop.Connection) error {
	if err := DestroyTokensForTicket(tx, a.TicketID); err != nil {
		return err
	}

	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = time.Now().UTC().AddDate(0, 0, domain.Env.ApprovalTokenLifetimeDays)
	}

	if err := create(tx, a); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiApprovalTokenCreated,
		Message: "approval token created for ticket " + a.TicketID.String(),
		Payload: events.Payload{domain.EventPayloadID: a.ID},
	})
	return nil
}

// FindValid looks up a presented token and enforces its expiration. Expired
// tokens are destroyed on sight.
func (a *ApprovalToken) FindValid(tx *pop.Connection, token uuid.UUID) error {
	if err := tx.Find(a, token); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return api.NewAppError(err, api.ErrorApprovalTokenNotFound, api.CategoryNotFound)
	}

	if a.ExpiresAt.Before(time.Now().UTC()) {
		if err := destroy(tx, a); err != nil {
			return err
		}
		return api.NewAppError(
			fmt.Errorf("approval token %s expired at %s", a.ID, a.ExpiresAt),
			api.ErrorApprovalTokenExpired,
			api.CategoryNotFound,
		)
	}

	return nil
}

// GetTicket loads the ticket this token belongs to
func (a *ApprovalToken) GetTicket(tx *pop.Connection) (TNMTicket, error) {
	if err := tx.Load(a, "Ticket"); err != nil {
		return TNMTicket{}, fmt.Errorf("error loading ticket for approval token: %w", err)
	}
	return a.Ticket, nil
}

func (a *ApprovalToken) Destroy(tx *pop.Connection) error {
	return destroy(tx, a)
}

// ApprovalURL is the link mailed to the GC
func (a *ApprovalToken) ApprovalURL() string {
	return domain.Env.UIURL + "/approve/" + a.ID.String()
}

// FindOpenForTicket loads the live token for the given ticket
func (a *ApprovalToken) FindOpenForTicket(tx *pop.Connection, ticketID uuid.UUID) error {
	if err := tx.Where("ticket_id = ?", ticketID).First(a); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return api.NewAppError(err, api.ErrorApprovalTokenNotFound, api.CategoryNotFound)
	}
	return nil
}

// DestroyTokensForTicket removes all open tokens for the given ticket
func DestroyTokensForTicket(tx *pop.Connection, ticketID uuid.UUID) error {
	var tokens ApprovalTokens
	if err := tx.Where("ticket_id = ?", ticketID).All(&tokens); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range tokens {
		if err := destroy(tx, &tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

// DestroyExpiredTokens sweeps tokens past their expiration, returning the
// number removed. Run on a schedule by the background job.
func DestroyExpiredTokens(tx *pop.Connection) (int, error) {
	var tokens ApprovalTokens
	if err := tx.Where("expires_at < ?", time.Now().UTC()).All(&tokens); err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range tokens {
		if err := destroy(tx, &tokens[i]); err != nil {
			return i, err
		}
	}
	return len(tokens), nil
}
