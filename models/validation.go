package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
)

// Model validation tool
var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"tnmStatus": validateTNMStatus,
	"laborType": validateLaborType,
	"assetType": validateAssetType,
}

func validateModel(m any) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			vErrs.Add(err.StructNamespace(), err.Error())
		}
	}
	return vErrs
}

// flattenPopErrors - pop validation errors are complex structures, this flattens them to a simple string
func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, val := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(val, ", ")))
	}
	msg := strings.Join(msgs, " |")
	return msg
}

func validateTNMStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.TNMStatus); ok {
		_, valid := ValidTNMStatus[value]
		return valid
	}
	return false
}

func validateLaborType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.LaborType); ok {
		_, valid := ValidLaborTypes[value]
		return valid
	}
	return false
}

func validateAssetType(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.AssetType); ok {
		_, valid := ValidAssetTypes[value]
		return valid
	}
	return false
}

// OH&P percent overrides must be sane when present: not negative and not
// absurdly large. A markup above 100% is almost certainly a data entry error.
func validOHPOverride(d decimal.NullDecimal) bool {
	if !d.Valid {
		return true
	}
	return !d.Decimal.IsNegative() && d.Decimal.LessThanOrEqual(decimal.NewFromInt(100))
}

func tnmTicketStructLevelValidation(sl validator.StructLevel) {
	ticket := sl.Current().Interface().(TNMTicket)

	for name, d := range map[string]decimal.NullDecimal{
		"OHPLabor":         ticket.OHPLabor,
		"OHPMaterial":      ticket.OHPMaterial,
		"OHPEquipment":     ticket.OHPEquipment,
		"OHPSubcontractor": ticket.OHPSubcontractor,
	} {
		if !validOHPOverride(d) {
			sl.ReportError(d, name, name, "ohpPercent", "")
		}
	}
}

func projectStructLevelValidation(sl validator.StructLevel) {
	project := sl.Current().Interface().(Project)

	for name, d := range map[string]decimal.NullDecimal{
		"OHPLabor":         project.OHPLabor,
		"OHPMaterial":      project.OHPMaterial,
		"OHPEquipment":     project.OHPEquipment,
		"OHPSubcontractor": project.OHPSubcontractor,
	} {
		if !validOHPOverride(d) {
			sl.ReportError(d, name, name, "ohpPercent", "")
		}
	}

	if project.RemindersEnabled && project.GCEmail == "" {
		sl.ReportError(project.GCEmail, "GCEmail", "GCEmail", "required", "")
	}
}
