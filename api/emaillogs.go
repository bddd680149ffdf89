package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type EmailLogs []EmailLog

// one outbound email about a ticket, from queueing to delivery
// swagger:model
type EmailLog struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Recipient string `json:"recipient"`

	// rfco, reminder or confirmation
	Kind string `json:"kind"`

	// queued, sent or failed
	Status string `json:"status"`

	// cause of the last delivery failure, if any
	Error string `json:"error,omitempty"`

	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
