package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

const (
	EmailKindRFCO         = "rfco"
	EmailKindReminder     = "reminder"
	EmailKindConfirmation = "confirmation"
)

const (
	EmailStatusQueued = "queued"
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog tracks every outbound email about a ticket, from the moment it is
// queued until the delivery worker marks the outcome.
type EmailLog struct {
	ID        uuid.UUID  `db:"id"`
	TicketID  uuid.UUID  `db:"ticket_id" validate:"required"`
	Recipient string     `db:"recipient" validate:"required,email"`
	Kind      string     `db:"kind" validate:"required"`
	Status    string     `db:"status" validate:"required"`
	Error     string     `db:"error"`
	SentAt    nulls.Time `db:"sent_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type EmailLogs []EmailLog

func (e *EmailLog) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(e), nil
}

// Create stores the entry and announces it so the delivery worker picks it up
func (e *EmailLog) Create(tx *pop.Connection) error {
	if err := create(tx, e); err != nil {
		return err
	}

	if e.Status == EmailStatusQueued {
		emitEvent(events.Event{
			Kind:    domain.EventApiEmailQueued,
			Message: fmt.Sprintf("%s email queued for %s", e.Kind, e.Recipient),
			Payload: events.Payload{domain.EventPayloadID: e.ID},
		})
	}
	return nil
}

func (e *EmailLog) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, e, id)
}

// MarkSent records successful delivery
func (e *EmailLog) MarkSent(tx *pop.Connection) error {
	e.Status = EmailStatusSent
	e.Error = ""
	e.SentAt = nulls.NewTime(time.Now().UTC())
	return update(tx, e)
}

// MarkFailed records a delivery failure with its cause
func (e *EmailLog) MarkFailed(tx *pop.Connection, cause error) error {
	e.Status = EmailStatusFailed
	if cause != nil {
		e.Error = cause.Error()
	}
	return update(tx, e)
}

func (es *EmailLogs) FindByTicket(tx *pop.Connection, ticketID uuid.UUID) error {
	err := tx.Where("ticket_id = ?", ticketID).Order("created_at desc").All(es)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (e *EmailLog) ConvertToAPI() api.EmailLog {
	return api.EmailLog{
		ID:        e.ID,
		Recipient: e.Recipient,
		Kind:      e.Kind,
		Status:    e.Status,
		Error:     e.Error,
		SentAt:    convertTimeToAPI(e.SentAt),
		CreatedAt: e.CreatedAt,
	}
}

func (es *EmailLogs) ConvertToAPI() api.EmailLogs {
	logs := make(api.EmailLogs, len(*es))
	for i, e := range *es {
		logs[i] = e.ConvertToAPI()
	}
	return logs
}
