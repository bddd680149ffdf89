package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/pop/v6/slices"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
)

// AuditLog is an append-only record of who did what. UserID is null for
// actions taken by the GC through the public approval link.
type AuditLog struct {
	ID         uuid.UUID  `db:"id"`
	EntityType string     `db:"entity_type" validate:"required"`
	EntityID   uuid.UUID  `db:"entity_id" validate:"required"`
	Action     string     `db:"action" validate:"required"`
	Changes    slices.Map `db:"changes"`
	UserID     nulls.UUID `db:"user_id"`
	IPAddress  string     `db:"ip_address"`
	UserAgent  string     `db:"user_agent"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

type AuditLogs []AuditLog

func (a *AuditLog) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

func (a *AuditLog) Create(tx *pop.Connection) error {
	return create(tx, a)
}

func (as *AuditLogs) FindByEntity(tx *pop.Connection, entityType string, entityID uuid.UUID) error {
	err := tx.Where("entity_type = ? and entity_id = ?", entityType, entityID).
		Order("created_at desc").All(as)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// Recent loads the newest audit entries, for the dashboard activity feed
func (as *AuditLogs) Recent(tx *pop.Connection, limit int) error {
	err := tx.Order("created_at desc").Limit(limit).All(as)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (a *AuditLog) ConvertToAPI() api.AuditLog {
	out := api.AuditLog{
		ID:         a.ID,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Action:     a.Action,
		IPAddress:  a.IPAddress,
		UserAgent:  a.UserAgent,
		UserID:     convertUUIDToAPI(a.UserID),
		CreatedAt:  a.CreatedAt,
	}
	if a.Changes != nil {
		out.Changes = map[string]any(a.Changes)
	}
	return out
}

func (as *AuditLogs) ConvertToAPI() api.AuditLogs {
	logs := make(api.AuditLogs, len(*as))
	for i, a := range *as {
		logs[i] = a.ConvertToAPI()
	}
	return logs
}
