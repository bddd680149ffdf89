package actions

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/messages"
	"github.com/treconstruction/changeorderino-api/models"
)

// swagger:operation GET /tnms Tickets TicketsList
//
// TicketsList
//
// list all T&M tickets, optionally filtered by project or status
//
// ---
// parameters:
// - name: project_id
//   in: query
//   required: false
//   description: limit to one project
// - name: status
//   in: query
//   required: false
//   description: limit to one lifecycle status
// responses:
//   '200':
//     description: a list of tickets
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/TNMTicket"
func ticketsList(c buffalo.Context) error {
	tx := models.Tx(c)

	var tickets models.TNMTickets

	if projectID := uuid.FromStringOrNil(c.Param("project_id")); projectID != uuid.Nil {
		if err := tickets.FindByProject(tx, projectID); err != nil {
			return reportError(c, err)
		}
	} else if err := tickets.All(tx); err != nil {
		return reportError(c, err)
	}

	if status := api.TNMStatus(c.Param("status")); status != "" {
		filtered := make(models.TNMTickets, 0, len(tickets))
		for _, t := range tickets {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}

	return renderOk(c, tickets.ConvertToAPI(tx))
}

// swagger:operation GET /tnms/{id} Tickets TicketsView
//
// TicketsView
//
// view one ticket with its line items
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: a TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsView(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)
	return renderOk(c, ticket.ConvertToAPI(tx, true))
}

// swagger:operation GET /tnms/{id}/pdf Tickets TicketsPDF
//
// TicketsPDF
//
// download the RFCO document for a ticket
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// produces:
// - application/pdf
// responses:
//   '200':
//     description: the RFCO document as a PDF download
func ticketsPDF(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	document, err := messages.RenderRFCO(models.Tx(c), ticket)
	if err != nil {
		return reportError(c, err)
	}

	return c.Render(http.StatusOK, r.Download(c, "RFCO-"+ticket.TNMNumber+".pdf", bytes.NewReader(document)))
}

// swagger:operation GET /tnms/{id}/emails Tickets TicketsEmails
//
// TicketsEmails
//
// list the outbound emails logged for a ticket, newest first
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: a list of email log entries
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/EmailLog"
func ticketsEmails(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var logs models.EmailLogs
	if err := logs.FindByTicket(models.Tx(c), ticket.ID); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, logs.ConvertToAPI())
}

// swagger:operation POST /tnms Tickets TicketsCreate
//
// TicketsCreate
//
// create a new draft ticket
//
// ---
// parameters:
// - name: ticket input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/TNMTicketInput"
// responses:
//   '200':
//     description: the new TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsCreate(c buffalo.Context) error {
	var input api.TNMTicketInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	user := models.CurrentUser(c)

	ticket := models.TNMTicket{
		ProjectID:        input.ProjectID,
		Title:            input.Title,
		Description:      input.Description,
		OHPLabor:         nullDecimalFromAPI(input.OHPLabor),
		OHPMaterial:      nullDecimalFromAPI(input.OHPMaterial),
		OHPEquipment:     nullDecimalFromAPI(input.OHPEquipment),
		OHPSubcontractor: nullDecimalFromAPI(input.OHPSubcontractor),
		CreatedByID:      user.ID,
	}
	if input.WorkDate != nil {
		ticket.WorkDate = nulls.NewTime(*input.WorkDate)
	}

	if err := ticket.Create(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "create", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, true))
}

// swagger:operation PUT /tnms/{id} Tickets TicketsUpdate
//
// TicketsUpdate
//
// update an unlocked ticket's details
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// - name: ticket input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/TNMTicketInput"
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsUpdate(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if ticket.IsLocked() {
		err := fmt.Errorf("ticket %s is locked in status %s", ticket.TNMNumber, ticket.Status)
		return reportError(c, api.NewAppError(err, api.ErrorTicketLocked, api.CategoryUser))
	}

	var input api.TNMTicketInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	ticket.Title = input.Title
	ticket.Description = input.Description
	ticket.OHPLabor = nullDecimalFromAPI(input.OHPLabor)
	ticket.OHPMaterial = nullDecimalFromAPI(input.OHPMaterial)
	ticket.OHPEquipment = nullDecimalFromAPI(input.OHPEquipment)
	ticket.OHPSubcontractor = nullDecimalFromAPI(input.OHPSubcontractor)
	ticket.WorkDate = nulls.Time{}
	if input.WorkDate != nil {
		ticket.WorkDate = nulls.NewTime(*input.WorkDate)
	}

	if err := ticket.Update(tx); err != nil {
		return reportError(c, err)
	}

	// OH&P overrides change the pricing
	if err := ticket.RecalculateTotals(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "update", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, true))
}

// swagger:operation POST /tnms/{id}/submit Tickets TicketsSubmit
//
// TicketsSubmit
//
// submit a draft ticket for office review
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsSubmit(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.SubmitForReview(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "submit", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/ready Tickets TicketsReady
//
// TicketsReady
//
// approve the office review, making the ticket sendable
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsReady(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.MarkReadyToSend(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "ready-to-send", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/send Tickets TicketsSend
//
// TicketsSend
//
// email the RFCO approval request to the project's GC
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsSend(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.Send(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "send", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/remind Tickets TicketsRemind
//
// TicketsRemind
//
// send a manual reminder to the GC
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsRemind(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.Remind(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "remind", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/approve Tickets TicketsApprove
//
// TicketsApprove
//
// record an in-office approval, e.g. received by phone or on paper
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsApprove(c buffalo.Context) error {
	return ticketsManualOverride(c, true)
}

// swagger:operation POST /tnms/{id}/deny Tickets TicketsDeny
//
// TicketsDeny
//
// record an in-office denial
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsDeny(c buffalo.Context) error {
	return ticketsManualOverride(c, false)
}

func ticketsManualOverride(c buffalo.Context, approve bool) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.ManualOverride(tx, approve); err != nil {
		return reportError(c, err)
	}

	action := "manual-deny"
	if approve {
		action = "manual-approve"
	}
	recordAudit(c, domain.TypeTNMTicket, ticket.ID, action, nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/undo Tickets TicketsUndo
//
// TicketsUndo
//
// reverse a recorded GC response, returning the ticket to sent
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsUndo(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.UndoResponse(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "undo-response", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/mark-paid Tickets TicketsMarkPaid
//
// TicketsMarkPaid
//
// close out an approved ticket as paid
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsMarkPaid(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.MarkPaid(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "mark-paid", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/{id}/cancel Tickets TicketsCancel
//
// TicketsCancel
//
// withdraw a ticket
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// responses:
//   '200':
//     description: the updated TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func ticketsCancel(c buffalo.Context) error {
	tx := models.Tx(c)
	ticket := getReferencedTicketFromCtx(c)

	if err := ticket.Cancel(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, "cancel", nil)

	return renderOk(c, ticket.ConvertToAPI(tx, false))
}

// swagger:operation POST /tnms/bulk-remind Tickets TicketsBulkRemind
//
// TicketsBulkRemind
//
// send reminders for several tickets at once
//
// ---
// parameters:
// - name: ids input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/BulkTicketsInput"
// responses:
//   '200':
//     description: one result per requested ticket
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/BulkTicketResult"
func ticketsBulkRemind(c buffalo.Context) error {
	return ticketsBulkApply(c, api.ResourceRemind, "remind",
		func(tx *pop.Connection, t *models.TNMTicket) error {
			return t.Remind(tx)
		})
}

// swagger:operation POST /tnms/bulk-approve Tickets TicketsBulkApprove
//
// TicketsBulkApprove
//
// record in-office approvals for several tickets at once
//
// ---
// parameters:
// - name: ids input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/BulkTicketsInput"
// responses:
//   '200':
//     description: one result per requested ticket
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/BulkTicketResult"
func ticketsBulkApprove(c buffalo.Context) error {
	return ticketsBulkApply(c, api.ResourceApprove, "manual-approve",
		func(tx *pop.Connection, t *models.TNMTicket) error {
			return t.ManualOverride(tx, true)
		})
}

// swagger:operation POST /tnms/bulk-mark-paid Tickets TicketsBulkMarkPaid
//
// TicketsBulkMarkPaid
//
// close out several approved tickets as paid at once
//
// ---
// parameters:
// - name: ids input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/BulkTicketsInput"
// responses:
//   '200':
//     description: one result per requested ticket
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/BulkTicketResult"
func ticketsBulkMarkPaid(c buffalo.Context) error {
	return ticketsBulkApply(c, api.ResourceMarkPaid, "mark-paid",
		func(tx *pop.Connection, t *models.TNMTicket) error {
			return t.MarkPaid(tx)
		})
}

// ticketsBulkApply runs one ticket operation over a list of IDs. Each ticket
// succeeds or fails on its own; the batch never aborts part way.
func ticketsBulkApply(c buffalo.Context, sub string, auditAction string,
	op func(tx *pop.Connection, t *models.TNMTicket) error) error {

	var input api.BulkTicketsInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	user := models.CurrentUser(c)

	results := make([]api.BulkTicketResult, len(input.IDs))
	for i, id := range input.IDs {
		results[i].ID = id

		var ticket models.TNMTicket
		if err := ticket.FindByID(tx, id); err != nil {
			results[i].Error = "ticket not found"
			continue
		}

		if !ticket.IsActorAllowedTo(tx, user, models.PermissionUpdate,
			models.SubResource(sub), nil) {
			results[i].Error = "not allowed"
			continue
		}

		if err := op(tx, &ticket); err != nil {
			results[i].Error = err.Error()
			continue
		}

		recordAudit(c, domain.TypeTNMTicket, ticket.ID, auditAction, nil)
		results[i].OK = true
	}

	return renderOk(c, results)
}

func getReferencedTicketFromCtx(c buffalo.Context) *models.TNMTicket {
	ticket, ok := c.Value(domain.TypeTNMTicket).(*models.TNMTicket)
	if !ok {
		panic("tnm ticket not found in context")
	}
	return ticket
}
