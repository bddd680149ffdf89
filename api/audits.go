package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type AuditLogs []AuditLog

// one recorded change, queryable by admins
// swagger:model
type AuditLog struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	EntityType string `json:"entity_type"`

	// swagger:strfmt uuid4
	EntityID uuid.UUID `json:"entity_id"`

	Action string `json:"action"`

	// field-level before/after values
	Changes map[string]any `json:"changes,omitempty"`

	// null for actions taken through a public approval link
	UserID *uuid.UUID `json:"user_id,omitempty"`

	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
