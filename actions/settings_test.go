package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_settingsView() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]

	req := as.JSON("/settings")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)

	res := req.Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	var settings api.Settings
	as.NoError(as.decodeBody(res.Body.Bytes(), &settings))
	as.True(settings.OHPLabor.Equal(decimal.NewFromInt(15)), "default labor OH&P should be 15")
	as.True(settings.OHPSubcontractor.Equal(decimal.NewFromInt(5)), "default subcontractor OH&P should be 5")
	as.True(settings.RemindersEnabled)
}

func (as *ActionSuite) Test_settingsUpdate() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	admin := models.CreateAdminUserFixture(db)

	newLabor := decimal.NewFromInt(20)
	newName := "TRE Construction, Inc."
	input := api.SettingsInput{
		CompanyName: &newName,
		OHPLabor:    &newLabor,
	}

	tests := []struct {
		name       string
		actor      models.User
		wantStatus int
	}{
		{
			name:       "foreman may not change settings",
			actor:      foreman,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin updates settings",
			actor:      admin,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/settings")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Put(input)

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var settings api.Settings
			as.NoError(as.decodeBody(res.Body.Bytes(), &settings))
			as.Equal(newName, settings.CompanyName)
			as.True(settings.OHPLabor.Equal(newLabor), "labor OH&P was not updated")

			// untouched fields keep their values
			as.True(settings.OHPMaterial.Equal(decimal.NewFromInt(15)), "material OH&P should be unchanged")
		})
	}
}
