package actions

import (
	"github.com/gobuffalo/buffalo"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// swagger:operation GET /projects Projects ProjectsList
//
// ProjectsList
//
// list all projects
//
// ---
// responses:
//   '200':
//     description: all projects
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/Project"
func projectsList(c buffalo.Context) error {
	tx := models.Tx(c)
	var projects models.Projects
	if err := projects.All(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, projects.ConvertToAPI(tx))
}

// swagger:operation GET /projects/{id} Projects ProjectsView
//
// ProjectsView
//
// view one project
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: project ID
// responses:
//   '200':
//     description: a Project
//     schema:
//       "$ref": "#/definitions/Project"
func projectsView(c buffalo.Context) error {
	tx := models.Tx(c)
	project := getReferencedProjectFromCtx(c)
	return renderOk(c, project.ConvertToAPI(tx))
}

// swagger:operation POST /projects Projects ProjectsCreate
//
// ProjectsCreate
//
// create a new project
//
// ---
// parameters:
// - name: project input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/ProjectInput"
// responses:
//   '200':
//     description: the new Project
//     schema:
//       "$ref": "#/definitions/Project"
func projectsCreate(c buffalo.Context) error {
	var input api.ProjectInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)

	project := models.Project{
		Name:                  input.Name,
		ProjectNumber:         input.ProjectNumber,
		GCName:                input.GCName,
		GCEmail:               input.GCEmail,
		OHPLabor:              nullDecimalFromAPI(input.OHPLabor),
		OHPMaterial:           nullDecimalFromAPI(input.OHPMaterial),
		OHPEquipment:          nullDecimalFromAPI(input.OHPEquipment),
		OHPSubcontractor:      nullDecimalFromAPI(input.OHPSubcontractor),
		ReminderFrequencyDays: domain.Env.ReminderFrequencyDays,
		MaxReminders:          domain.Env.MaxReminders,
		IsActive:              true,
	}
	if input.RemindersEnabled != nil {
		project.RemindersEnabled = *input.RemindersEnabled
	}
	if input.ReminderFrequencyDays != nil {
		project.ReminderFrequencyDays = *input.ReminderFrequencyDays
	}
	if input.MaxReminders != nil {
		project.MaxReminders = *input.MaxReminders
	}

	if err := project.Create(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeProject, project.ID, "create", nil)

	return renderOk(c, project.ConvertToAPI(tx))
}

// swagger:operation PUT /projects/{id} Projects ProjectsUpdate
//
// ProjectsUpdate
//
// update a project
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: project ID
// - name: project input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/ProjectInput"
// responses:
//   '200':
//     description: the updated Project
//     schema:
//       "$ref": "#/definitions/Project"
func projectsUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	project := getReferencedProjectFromCtx(c)

	var input api.ProjectInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	project.Name = input.Name
	project.ProjectNumber = input.ProjectNumber
	project.GCName = input.GCName
	project.GCEmail = input.GCEmail
	project.OHPLabor = nullDecimalFromAPI(input.OHPLabor)
	project.OHPMaterial = nullDecimalFromAPI(input.OHPMaterial)
	project.OHPEquipment = nullDecimalFromAPI(input.OHPEquipment)
	project.OHPSubcontractor = nullDecimalFromAPI(input.OHPSubcontractor)
	if input.RemindersEnabled != nil {
		project.RemindersEnabled = *input.RemindersEnabled
	}
	if input.ReminderFrequencyDays != nil {
		project.ReminderFrequencyDays = *input.ReminderFrequencyDays
	}
	if input.MaxReminders != nil {
		project.MaxReminders = *input.MaxReminders
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := project.Update(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeProject, project.ID, "update", nil)

	return renderOk(c, project.ConvertToAPI(tx))
}

// swagger:operation DELETE /projects/{id} Projects ProjectsDelete
//
// ProjectsDelete
//
// delete a project that has no tickets
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: project ID
// responses:
//   '204':
//     description: no content
func projectsDelete(c buffalo.Context) error {
	tx := models.Tx(c)
	project := getReferencedProjectFromCtx(c)

	if err := project.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeProject, project.ID, "delete", nil)

	return c.Render(204, nil)
}

func getReferencedProjectFromCtx(c buffalo.Context) *models.Project {
	project, ok := c.Value(domain.TypeProject).(*models.Project)
	if !ok {
		panic("project not found in context")
	}
	return project
}

func nullDecimalFromAPI(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
