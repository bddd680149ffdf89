package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_projectsCreate() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	admin := models.CreateAdminUserFixture(db)

	input := api.ProjectInput{
		Name:          "North Tower Fit-Out",
		ProjectNumber: "2417",
		GCName:        "Summit GC",
		GCEmail:       "pm@summitgc.example.com",
	}

	tests := []struct {
		name       string
		actor      models.User
		wantStatus int
	}{
		{
			name:       "foreman may not create projects",
			actor:      foreman,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin creates a project",
			actor:      admin,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/projects")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Post(input)

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			as.verifyResponseData([]string{
				`"name":"North Tower Fit-Out"`,
				`"project_number":"2417"`,
				`"gc_email":"pm@summitgc.example.com"`,
				`"is_active":true`,
			}, res.Body.String(), "Projects Create fields")
		})
	}
}

func (as *ActionSuite) Test_projectsList() {
	db := as.DB

	foreman := models.CreateUserFixtures(db, 1).Users[0]
	projects := models.CreateProjectFixtures(db, 3).Projects

	req := as.JSON("/projects")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", foreman.Email)

	res := req.Get()

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	body := res.Body.String()
	for _, p := range projects {
		as.Contains(body, p.ID.String(), "project list is missing a project")
	}
}

func (as *ActionSuite) Test_projectsUpdate() {
	db := as.DB

	admin := models.CreateAdminUserFixture(db)
	project := models.CreateProjectFixtures(db, 1).Projects[0]

	inactive := false
	input := api.ProjectInput{
		Name:          project.Name,
		ProjectNumber: project.ProjectNumber,
		GCName:        "New GC",
		GCEmail:       "new.gc@example.com",
		IsActive:      &inactive,
	}

	req := as.JSON("/projects/%s", project.ID)
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)

	res := req.Put(input)

	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	as.verifyResponseData([]string{
		`"gc_name":"New GC"`,
		`"gc_email":"new.gc@example.com"`,
		`"is_active":false`,
	}, res.Body.String(), "Projects Update fields")
}

func (as *ActionSuite) Test_projectsDelete() {
	db := as.DB

	admin := models.CreateAdminUserFixture(db)
	emptyProject := models.CreateProjectFixtures(db, 1).Projects[0]
	f := models.CreateTicketFixtures(db, models.FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	busyProject := f.Projects[0]

	tests := []struct {
		name       string
		project    models.Project
		wantStatus int
	}{
		{
			name:       "project with tickets may not be deleted",
			project:    busyProject,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty project is deleted",
			project:    emptyProject,
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/projects/%s", tt.project.ID)
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", admin.Email)

			res := req.Delete()

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
		})
	}
}
