package grifts

import (
	"fmt"
	"time"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		countUsers := models.Users{}
		count, err := models.DB.Count(countUsers)
		if err != nil {
			return err
		}

		if count > 1 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v users.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			if _, err := models.GetAppSettings(tx); err != nil {
				return err
			}

			fixUsers, err := createUserFixtures(tx)
			if err != nil {
				return err
			}

			fixProjects, err := createProjectFixtures(tx)
			if err != nil {
				return err
			}

			return createTicketFixtures(tx, fixProjects, fixUsers)
		})
	})
})

func createUserFixtures(tx *pop.Connection) ([]*models.User, error) {
	userUUIDs := []string{
		"11147366-26b2-4256-b2ab-58c92c3d54c1",
		"11247366-26b2-4256-b2ab-58c92c3d54c2",
		"11347366-26b2-4256-b2ab-58c92c3d54c3",
		"1249902f-c204-4922-b479-57f0ec41eab4",
		"125cf980-e1f0-42d3-b2b0-2e4704159f45",
	}

	fixUsers := []*models.User{
		{
			Email:     "rita.moreno@example.org",
			FirstName: "Rita",
			LastName:  "Moreno",
			SubjectID: "seed-rita",
			Roles:     []string{models.RoleAdmin},
		},
		{
			Email:     "pat.sanchez@example.org",
			FirstName: "Pat",
			LastName:  "Sanchez",
			SubjectID: "seed-pat",
			Roles:     []string{models.RoleProjectManager},
		},
		{
			Email:     "dana.kovach@example.org",
			FirstName: "Dana",
			LastName:  "Kovach",
			SubjectID: "seed-dana",
			Roles:     []string{models.RoleOfficeStaff},
		},
		{
			Email:     "lou.ferraro@example.org",
			FirstName: "Lou",
			LastName:  "Ferraro",
			SubjectID: "seed-lou",
			Roles:     []string{models.RoleForeman},
		},
		{
			Email:     "sam.okafor@example.org",
			FirstName: "Sam",
			LastName:  "Okafor",
			SubjectID: "seed-sam",
			Roles:     []string{models.RoleForeman},
		},
	}

	for i, uu := range userUUIDs {
		fixUsers[i].ID = uuid.FromStringOrNil(uu)
		fixUsers[i].LastLoginUTC = time.Now().UTC().Add(time.Hour * time.Duration(-12*(i+1)))
		if err := fixUsers[i].Create(tx); err != nil {
			return fixUsers, fmt.Errorf("error creating user fixture ... %+v\n %v",
				fixUsers[i], err.Error())
		}
	}

	return fixUsers, nil
}

func createProjectFixtures(tx *pop.Connection) ([]*models.Project, error) {
	projectUUIDs := []string{
		"31147366-26b2-4256-b2ab-58c92c3d54cc",
		"31247366-26b2-4256-b2ab-58c92c3d54cc",
		"31347366-26b2-4256-b2ab-58c92c3d54cc",
	}

	fixProjects := []*models.Project{
		{
			Name:          "Maple Street Office Park",
			ProjectNumber: "2601",
			GCName:        "Hensel Builders",
			GCEmail:       "approvals@henselbuilders.example.com",
			IsActive:      true,
		},
		{
			Name:          "Riverside Medical Annex",
			ProjectNumber: "2602",
			GCName:        "Corrigan Construction",
			GCEmail:       "pm@corrigan.example.com",
			IsActive:      true,
		},
		{
			Name:          "Westgate Warehouse Retrofit",
			ProjectNumber: "2518",
			GCName:        "Brightline GC",
			GCEmail:       "office@brightline.example.com",
			IsActive:      false,
		},
	}

	for i, uu := range projectUUIDs {
		fixProjects[i].ID = uuid.FromStringOrNil(uu)
		fixProjects[i].RemindersEnabled = fixProjects[i].IsActive
		fixProjects[i].ReminderFrequencyDays = 3
		fixProjects[i].MaxReminders = 5
		if err := fixProjects[i].Create(tx); err != nil {
			return fixProjects, fmt.Errorf("error creating project fixture ... %+v\n %v",
				fixProjects[i], err.Error())
		}
	}

	return fixProjects, nil
}

func createTicketFixtures(tx *pop.Connection, fixProjects []*models.Project, fixUsers []*models.User) error {
	foreman := fixUsers[len(fixUsers)-1]

	for i, project := range fixProjects {
		if !project.IsActive {
			continue
		}

		ticket := models.TNMTicket{
			ProjectID:   project.ID,
			Title:       fmt.Sprintf("Unforeseen demo work, area %d", i+1),
			Description: "Removed concealed conduit found during demolition and reworked framing around it.",
			CreatedByID: foreman.ID,
		}
		if err := ticket.Create(tx); err != nil {
			return fmt.Errorf("error creating ticket fixture ... %+v\n %v", ticket, err.Error())
		}

		labor := models.LaborItem{
			TicketID:    ticket.ID,
			Description: "Carpenter crew, demo and reframe",
			LaborType:   api.LaborTypeCarpenter,
			Hours:       decimal.NewFromInt(16),
			RatePerHour: decimal.NewFromInt(78),
		}
		if err := labor.Create(tx); err != nil {
			return err
		}

		material := models.MaterialItem{
			TicketID:    ticket.ID,
			Description: "2x4 studs and fasteners",
			Quantity:    decimal.NewFromInt(40),
			UnitPrice:   decimal.RequireFromString("6.75"),
		}
		if err := material.Create(tx); err != nil {
			return err
		}

		equipment := models.EquipmentItem{
			TicketID:    ticket.ID,
			Description: "Scissor lift, daily rate",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(185),
		}
		if err := equipment.Create(tx); err != nil {
			return err
		}

		sub := models.SubcontractorItem{
			TicketID:    ticket.ID,
			CompanyName: "Apex Electric",
			Description: "Reroute abandoned conduit",
			Amount:      decimal.NewFromInt(950),
		}
		if err := sub.Create(tx); err != nil {
			return err
		}

		if err := ticket.RecalculateTotals(tx); err != nil {
			return fmt.Errorf("error pricing ticket fixture %s, %v", ticket.TNMNumber, err)
		}
	}

	return nil
}
