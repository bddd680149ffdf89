package actions

import (
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/pricing"
)

// The approval endpoints are public. The emailed one-time token is the only
// credential, so every handler starts by validating it.

// swagger:operation GET /approvals/{token} Approvals ApprovalsView
//
// ApprovalsView
//
// view the ticket behind an approval link, as the GC sees it
//
// ---
// parameters:
// - name: token
//   in: path
//   required: true
//   description: one-time approval token from the emailed link
// responses:
//   '200':
//     description: the ticket summary for approval
//     schema:
//       "$ref": "#/definitions/ApprovalView"
func approvalsView(c buffalo.Context) error {
	tx := models.Tx(c)

	token, ticket, err := findApprovalTicket(c)
	if err != nil {
		return reportError(c, err)
	}

	if err := ticket.RecordViewed(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "gc-viewed", nil)

	settings, err := models.GetAppSettings(tx)
	if err != nil {
		return reportError(c, err)
	}

	ticket.LoadProject(tx, false)
	ticket.LoadLineItems(tx, false)

	view := api.ApprovalView{
		TNMNumber:          ticket.TNMNumber,
		Title:              ticket.Title,
		Description:        ticket.Description,
		ProjectName:        ticket.Project.Name,
		CompanyName:        settings.CompanyName,
		ProposalAmount:     pricing.RoundCents(ticket.ProposalAmount),
		LaborTotal:         pricing.RoundCents(ticket.LaborTotal),
		MaterialTotal:      pricing.RoundCents(ticket.MaterialTotal),
		EquipmentTotal:     pricing.RoundCents(ticket.EquipmentTotal),
		SubcontractorTotal: pricing.RoundCents(ticket.SubcontractorTotal),
		LaborItems:         ticket.LaborItems.ConvertToAPI(),
		MaterialItems:      ticket.MaterialItems.ConvertToAPI(),
		EquipmentItems:     ticket.EquipmentItems.ConvertToAPI(),
		SubcontractorItems: ticket.SubcontractorItems.ConvertToAPI(),
		ExpiresAt:          token.ExpiresAt,
	}
	if ticket.WorkDate.Valid {
		view.WorkDate = &ticket.WorkDate.Time
	}

	return renderOk(c, view)
}

// swagger:operation POST /approvals/{token} Approvals ApprovalsSubmit
//
// ApprovalsSubmit
//
// record the GC's decision on the ticket and burn the token
//
// ---
// parameters:
// - name: token
//   in: path
//   required: true
//   description: one-time approval token from the emailed link
// - name: approval input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/ApprovalSubmitInput"
// responses:
//   '200':
//     description: the outcome of the decision
//     schema:
//       "$ref": "#/definitions/ApprovalResult"
func approvalsSubmit(c buffalo.Context) error {
	tx := models.Tx(c)

	token, ticket, err := findApprovalTicket(c)
	if err != nil {
		return reportError(c, err)
	}

	var input api.ApprovalSubmitInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if input.SignatureImage != "" {
		asset, err := models.StoreSignature(tx, input.SignatureImage, ticket.TNMNumber)
		if err != nil {
			return reportError(c, err)
		}
		ticket.GCSignatureAssetID = nulls.NewUUID(asset.ID)
	}

	result, err := ticket.ApplyApprovalResponse(tx, input)
	if err != nil {
		return reportError(c, err)
	}

	// the link is one-time: a recorded response burns it
	if err := token.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	// queue the confirmation back to the GC
	emailLog := models.EmailLog{
		TicketID:  ticket.ID,
		Recipient: token.GCEmail,
		Kind:      models.EmailKindConfirmation,
		Status:    models.EmailStatusQueued,
	}
	if err := emailLog.Create(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "gc-responded", map[string]any{
		"decision":    string(input.Decision),
		"signer_name": input.SignerName,
	})

	return renderOk(c, result)
}

// findApprovalTicket validates the token in the path and loads its ticket
func findApprovalTicket(c buffalo.Context) (*models.ApprovalToken, *models.TNMTicket, error) {
	tokenID, err := uuid.FromString(c.Param("token"))
	if err != nil {
		return nil, nil, api.NewAppError(err, api.ErrorApprovalTokenNotFound, api.CategoryNotFound)
	}

	tx := models.Tx(c)

	var token models.ApprovalToken
	if err := token.FindValid(tx, tokenID); err != nil {
		return nil, nil, err
	}

	ticket, err := token.GetTicket(tx)
	if err != nil {
		return nil, nil, err
	}

	return &token, &ticket, nil
}
