package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// swagger:model
type Projects []Project

// construction project
// swagger:model
type Project struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Name          string `json:"name"`
	ProjectNumber string `json:"project_number"`

	// General Contractor contact used for change-order approval requests
	GCName  string `json:"gc_name"`
	GCEmail string `json:"gc_email"`

	// default OH&P percents for tickets on this project; null means inherit
	// from the global settings
	OHPLabor         *decimal.Decimal `json:"ohp_labor,omitempty"`
	OHPMaterial      *decimal.Decimal `json:"ohp_material,omitempty"`
	OHPEquipment     *decimal.Decimal `json:"ohp_equipment,omitempty"`
	OHPSubcontractor *decimal.Decimal `json:"ohp_subcontractor,omitempty"`

	RemindersEnabled      bool `json:"reminders_enabled"`
	ReminderFrequencyDays int  `json:"reminder_frequency_days"`
	MaxReminders          int  `json:"max_reminders"`

	IsActive bool `json:"is_active"`

	TicketCount int `json:"ticket_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// project create/update input
// swagger:model
type ProjectInput struct {
	Name          string `json:"name"`
	ProjectNumber string `json:"project_number"`
	GCName        string `json:"gc_name"`
	GCEmail       string `json:"gc_email"`

	OHPLabor         *decimal.Decimal `json:"ohp_labor,omitempty"`
	OHPMaterial      *decimal.Decimal `json:"ohp_material,omitempty"`
	OHPEquipment     *decimal.Decimal `json:"ohp_equipment,omitempty"`
	OHPSubcontractor *decimal.Decimal `json:"ohp_subcontractor,omitempty"`

	RemindersEnabled      *bool `json:"reminders_enabled,omitempty"`
	ReminderFrequencyDays *int  `json:"reminder_frequency_days,omitempty"`
	MaxReminders          *int  `json:"max_reminders,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}
