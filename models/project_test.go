package models

import (
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
)

func (ms *ModelSuite) TestProject_NextTNMNumber() {
	f := CreateTicketFixtures(ms.DB, FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 2,
		ItemsPerTicket:    1,
	})
	project := f.Projects[0]

	got, err := project.NextTNMNumber(ms.DB)
	ms.NoError(err)
	ms.Equal(project.ProjectNumber+"-TNM-003", got)

	ms.Equal(project.ProjectNumber+"-TNM-001", f.TNMTickets[0].TNMNumber)
	ms.Equal(project.ProjectNumber+"-TNM-002", f.TNMTickets[1].TNMNumber)
}

func (ms *ModelSuite) TestProject_NextTNMNumber_unsaved() {
	p := Project{Name: "unsaved", ProjectNumber: "9999"}
	_, err := p.NextTNMNumber(ms.DB)
	ms.Error(err)
}

func (ms *ModelSuite) TestProject_Destroy() {
	f := CreateTicketFixtures(ms.DB, FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	withTickets := f.Projects[0]

	err := withTickets.Destroy(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorProjectHasTickets, Category: api.CategoryUser}, err)

	empty := CreateProjectFixtures(ms.DB, 1).Projects[0]
	ms.NoError(empty.Destroy(ms.DB))
}

func (ms *ModelSuite) TestProject_Validate_ohpRange() {
	project := CreateProjectFixtures(ms.DB, 1).Projects[0]

	project.OHPLabor = decimal.NewNullDecimal(decimal.NewFromInt(20))
	ms.NoError(project.Update(ms.DB))

	project.OHPLabor = decimal.NewNullDecimal(decimal.NewFromInt(101))
	err := project.Update(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorValidation, Category: api.CategoryUser}, err)

	project.OHPLabor = decimal.NewNullDecimal(decimal.NewFromInt(-1))
	err = project.Update(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorValidation, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestProject_ConvertToAPI() {
	f := CreateTicketFixtures(ms.DB, FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 2,
		ItemsPerTicket:    1,
	})
	project := f.Projects[0]
	project.OHPMaterial = decimal.NewNullDecimal(decimal.NewFromInt(15))
	ms.NoError(project.Update(ms.DB))

	got := project.ConvertToAPI(ms.DB)
	ms.Equal(project.ID, got.ID)
	ms.Equal(2, got.TicketCount)
	ms.Nil(got.OHPLabor)
	ms.NotNil(got.OHPMaterial)
	ms.True(got.OHPMaterial.Equal(decimal.NewFromInt(15)))
}
