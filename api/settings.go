package api

import "github.com/shopspring/decimal"

// global application settings
// swagger:model
type Settings struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address,omitempty"`
	CompanyEmail   string `json:"company_email,omitempty"`

	// default OH&P percents applied when neither the ticket nor the
	// project overrides them
	OHPLabor         decimal.Decimal `json:"ohp_labor"`
	OHPMaterial      decimal.Decimal `json:"ohp_material"`
	OHPEquipment     decimal.Decimal `json:"ohp_equipment"`
	OHPSubcontractor decimal.Decimal `json:"ohp_subcontractor"`

	RemindersEnabled      bool `json:"reminders_enabled"`
	ReminderFrequencyDays int  `json:"reminder_frequency_days"`
	MaxReminders          int  `json:"max_reminders"`
}

// settings update input; nil fields are left unchanged
// swagger:model
type SettingsInput struct {
	CompanyName    *string `json:"company_name,omitempty"`
	CompanyAddress *string `json:"company_address,omitempty"`
	CompanyEmail   *string `json:"company_email,omitempty"`

	OHPLabor         *decimal.Decimal `json:"ohp_labor,omitempty"`
	OHPMaterial      *decimal.Decimal `json:"ohp_material,omitempty"`
	OHPEquipment     *decimal.Decimal `json:"ohp_equipment,omitempty"`
	OHPSubcontractor *decimal.Decimal `json:"ohp_subcontractor,omitempty"`

	RemindersEnabled      *bool `json:"reminders_enabled,omitempty"`
	ReminderFrequencyDays *int  `json:"reminder_frequency_days,omitempty"`
	MaxReminders          *int  `json:"max_reminders,omitempty"`
}
