package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
)

// Project is a construction project that T&M tickets are written against
type Project struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name" validate:"required"`
	ProjectNumber string    `db:"project_number" validate:"required"`
	GCName        string    `db:"gc_name"`
	GCEmail       string    `db:"gc_email" validate:"omitempty,email"`

	// default OH&P percents for this project's tickets; null inherits from
	// the global settings
	OHPLabor         decimal.NullDecimal `db:"ohp_labor"`
	OHPMaterial      decimal.NullDecimal `db:"ohp_material"`
	OHPEquipment     decimal.NullDecimal `db:"ohp_equipment"`
	OHPSubcontractor decimal.NullDecimal `db:"ohp_subcontractor"`

	RemindersEnabled      bool `db:"reminders_enabled"`
	ReminderFrequencyDays int  `db:"reminder_frequency_days" validate:"min=0"`
	MaxReminders          int  `db:"max_reminders" validate:"min=0"`

	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Projects []Project

func (p *Project) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *Project) Create(tx *pop.Connection) error {
	return create(tx, p)
}

func (p *Project) Update(tx *pop.Connection) error {
	return update(tx, p)
}

// Destroy removes the project, refusing while any tickets still reference it
func (p *Project) Destroy(tx *pop.Connection) error {
	count, err := tx.Where("project_id = ?", p.ID).Count(&TNMTicket{})
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	if count > 0 {
		return api.NewAppError(
			fmt.Errorf("project %s has %d ticket(s)", p.ID, count),
			api.ErrorProjectHasTickets,
			api.CategoryUser,
		)
	}
	return destroy(tx, p)
}

func (p *Project) GetID() uuid.UUID {
	return p.ID
}

func (p *Project) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, p, id)
}

// IsActorAllowedTo allows anyone authenticated to read projects. Writes are
// for admins, project managers and office staff; foremen only file tickets.
func (p *Project) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	switch perm {
	case PermissionView, PermissionList:
		return true
	}
	return actor.IsAuthorized([]string{RoleAdmin, RoleProjectManager, RoleOfficeStaff})
}

func (ps *Projects) All(tx *pop.Connection) error {
	err := tx.Order("project_number asc").All(ps)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// NextTNMNumber produces the next ticket number for this project, in the
// form "{PROJECT_NUMBER}-TNM-{NNN}".
func (p *Project) NextTNMNumber(tx *pop.Connection) (string, error) {
	if p.ID == uuid.Nil {
		return "", errors.New("cannot number a ticket on an unsaved project")
	}

	count, err := tx.Where("project_id = ?", p.ID).Count(&TNMTicket{})
	if err != nil {
		return "", appErrorFromDB(err, api.ErrorQueryFailure)
	}

	return fmt.Sprintf("%s-TNM-%03d", p.ProjectNumber, count+1), nil
}

func (p *Project) ConvertToAPI(tx *pop.Connection) api.Project {
	out := api.Project{
		ID:                    p.ID,
		Name:                  p.Name,
		ProjectNumber:         p.ProjectNumber,
		GCName:                p.GCName,
		GCEmail:               p.GCEmail,
		OHPLabor:              convertNullDecimalToAPI(p.OHPLabor),
		OHPMaterial:           convertNullDecimalToAPI(p.OHPMaterial),
		OHPEquipment:          convertNullDecimalToAPI(p.OHPEquipment),
		OHPSubcontractor:      convertNullDecimalToAPI(p.OHPSubcontractor),
		RemindersEnabled:      p.RemindersEnabled,
		ReminderFrequencyDays: p.ReminderFrequencyDays,
		MaxReminders:          p.MaxReminders,
		IsActive:              p.IsActive,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}

	if count, err := tx.Where("project_id = ?", p.ID).Count(&TNMTicket{}); err == nil {
		out.TicketCount = count
	}

	return out
}

func (ps *Projects) ConvertToAPI(tx *pop.Connection) api.Projects {
	projects := make(api.Projects, len(*ps))
	for i, p := range *ps {
		projects[i] = p.ConvertToAPI(tx)
	}
	return projects
}

func convertNullDecimalToAPI(d decimal.NullDecimal) *decimal.Decimal {
	if d.Valid {
		return &d.Decimal
	}
	return nil
}

func (p Project) String() string {
	jp, _ := json.Marshal(p)
	return string(jp)
}
