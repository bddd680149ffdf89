package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6/slices"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

// recordAudit writes one audit entry for the current request. The user is
// taken from the context; public approval-link actions have none. Audit
// failures are logged but never fail the request.
func recordAudit(c buffalo.Context, entityType string, entityID uuid.UUID, action string, changes map[string]any) {
	entry := models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		IPAddress:  c.Request().RemoteAddr,
		UserAgent:  c.Request().UserAgent(),
	}

	if user := models.CurrentUser(c); user.ID != uuid.Nil {
		entry.UserID = nulls.NewUUID(user.ID)
	}
	if changes != nil {
		entry.Changes = slices.Map(changes)
	}

	if err := entry.Create(models.Tx(c)); err != nil {
		log.WithContext(c).Errorf("failed to write audit entry for %s %s: %s", entityType, entityID, err)
	}
}

// swagger:operation GET /audits/{entityType}/{id} Audits AuditsList
//
// AuditsList
//
// list the audit trail for one entity, admin only
//
// ---
// parameters:
// - name: entityType
//   in: path
//   required: true
//   description: entity type, e.g. tnms or projects
// - name: id
//   in: path
//   required: true
//   description: entity ID
// responses:
//   '200':
//     description: audit entries, newest first
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/AuditLog"
func auditsList(c buffalo.Context) error {
	user := models.CurrentUser(c)
	if !user.IsAdmin() {
		err := errors.New("only admins may read audit trails")
		return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
	}

	entityType := c.Param("entityType")
	entityID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorInvalidResourceID, api.CategoryUser))
	}

	tx := models.Tx(c)
	var audits models.AuditLogs
	if err := audits.FindByEntity(tx, entityType, entityID); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, audits.ConvertToAPI())
}
