package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

// the settings table holds exactly one row, with this fixed ID
const appSettingsIDString = "a2f9e8a0-74b2-4b95-9f3c-0e1d6b9f4c11"

var appSettingsID = uuid.FromStringOrNil(appSettingsIDString)

// AppSettings is the single row of company-wide configuration: branding for
// outbound mail and the global OH&P and reminder defaults.
type AppSettings struct {
	ID             uuid.UUID `db:"id"`
	CompanyName    string    `db:"company_name"`
	CompanyAddress string    `db:"company_address"`
	CompanyEmail   string    `db:"company_email" validate:"omitempty,email"`

	OHPLabor         decimal.Decimal `db:"ohp_labor"`
	OHPMaterial      decimal.Decimal `db:"ohp_material"`
	OHPEquipment     decimal.Decimal `db:"ohp_equipment"`
	OHPSubcontractor decimal.Decimal `db:"ohp_subcontractor"`

	RemindersEnabled      bool `db:"reminders_enabled"`
	ReminderFrequencyDays int  `db:"reminder_frequency_days" validate:"min=0"`
	MaxReminders          int  `db:"max_reminders" validate:"min=0"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (a *AppSettings) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(a), nil
}

func (a *AppSettings) Update(tx *pop.Connection) error {
	return update(tx, a)
}

// GetAppSettings loads the settings row, creating it from env defaults the
// first time it is needed.
func GetAppSettings(tx *pop.Connection) (AppSettings, error) {
	var settings AppSettings
	err := tx.Find(&settings, appSettingsID)
	if err == nil {
		return settings, nil
	}
	if domain.IsOtherThanNoRows(err) {
		return settings, appErrorFromDB(err, api.ErrorQueryFailure)
	}

	settings = AppSettings{
		ID:                    appSettingsID,
		CompanyName:           domain.Env.CompanyName,
		CompanyEmail:          domain.Env.EmailFromAddress,
		OHPLabor:              domain.Env.DefaultOHPLabor,
		OHPMaterial:           domain.Env.DefaultOHPMaterial,
		OHPEquipment:          domain.Env.DefaultOHPEquipment,
		OHPSubcontractor:      domain.Env.DefaultOHPSubcontractor,
		RemindersEnabled:      true,
		ReminderFrequencyDays: domain.Env.ReminderFrequencyDays,
		MaxReminders:          domain.Env.MaxReminders,
	}
	if err := tx.Create(&settings); err != nil {
		return settings, appErrorFromDB(err, api.ErrorCreateFailure)
	}
	return settings, nil
}

func (a *AppSettings) ConvertToAPI() api.Settings {
	return api.Settings{
		CompanyName:           a.CompanyName,
		CompanyAddress:        a.CompanyAddress,
		CompanyEmail:          a.CompanyEmail,
		OHPLabor:              a.OHPLabor,
		OHPMaterial:           a.OHPMaterial,
		OHPEquipment:          a.OHPEquipment,
		OHPSubcontractor:      a.OHPSubcontractor,
		RemindersEnabled:      a.RemindersEnabled,
		ReminderFrequencyDays: a.ReminderFrequencyDays,
		MaxReminders:          a.MaxReminders,
	}
}
