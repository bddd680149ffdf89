package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// swagger:operation GET /settings Settings SettingsView
//
// SettingsView
//
// get the company-wide settings
//
// ---
// responses:
//   '200':
//     description: the application settings
//     schema:
//       "$ref": "#/definitions/Settings"
func settingsView(c buffalo.Context) error {
	settings, err := models.GetAppSettings(models.Tx(c))
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, settings.ConvertToAPI())
}

// swagger:operation PUT /settings Settings SettingsUpdate
//
// SettingsUpdate
//
// update the company-wide settings, nil fields are left unchanged
//
// ---
// parameters:
// - name: settings input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/SettingsInput"
// responses:
//   '200':
//     description: the updated application settings
//     schema:
//       "$ref": "#/definitions/Settings"
func settingsUpdate(c buffalo.Context) error {
	user := models.CurrentUser(c)
	if !user.IsAdmin() && !user.HasRole(models.RoleOfficeStaff) {
		err := errors.New("only admins and office staff may change settings")
		return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
	}

	var input api.SettingsInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	settings, err := models.GetAppSettings(tx)
	if err != nil {
		return reportError(c, err)
	}

	if input.CompanyName != nil {
		settings.CompanyName = *input.CompanyName
	}
	if input.CompanyAddress != nil {
		settings.CompanyAddress = *input.CompanyAddress
	}
	if input.CompanyEmail != nil {
		settings.CompanyEmail = *input.CompanyEmail
	}
	if input.OHPLabor != nil {
		settings.OHPLabor = *input.OHPLabor
	}
	if input.OHPMaterial != nil {
		settings.OHPMaterial = *input.OHPMaterial
	}
	if input.OHPEquipment != nil {
		settings.OHPEquipment = *input.OHPEquipment
	}
	if input.OHPSubcontractor != nil {
		settings.OHPSubcontractor = *input.OHPSubcontractor
	}
	if input.RemindersEnabled != nil {
		settings.RemindersEnabled = *input.RemindersEnabled
	}
	if input.ReminderFrequencyDays != nil {
		settings.ReminderFrequencyDays = *input.ReminderFrequencyDays
	}
	if input.MaxReminders != nil {
		settings.MaxReminders = *input.MaxReminders
	}

	if err := settings.Update(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeSetting, settings.ID, "update", nil)

	return renderOk(c, settings.ConvertToAPI())
}
