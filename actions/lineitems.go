package actions

import (
	"fmt"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/nulls"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// Line item handlers follow one shape: bind the input, write the row, then
// reprice the ticket and return it with items hydrated.

// swagger:operation POST /tnms/{id}/items/labor LineItems LaborItemsCreate
//
// LaborItemsCreate
//
// add a labor line to an unlocked ticket
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// - name: labor item input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/LaborItemInput"
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func laborItemsCreate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var input api.LaborItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item := models.LaborItem{
		TicketID:    ticket.ID,
		Description: input.Description,
		LaborType:   input.LaborType,
		Hours:       input.Hours,
		RatePerHour: input.RatePerHour,
	}
	return saveLineItem(c, ticket, &item, "add-labor-item")
}

// swagger:operation PUT /tnms/{id}/items/labor/{itemID} LineItems LaborItemsUpdate
//
// LaborItemsUpdate
//
// update a labor line on an unlocked ticket
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// - name: itemID
//   in: path
//   required: true
//   description: line item ID
// - name: labor item input
//   in: body
//   required: true
//   schema:
//     "$ref": "#/definitions/LaborItemInput"
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func laborItemsUpdate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.LaborItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}

	var input api.LaborItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item.Description = input.Description
	item.LaborType = input.LaborType
	item.Hours = input.Hours
	item.RatePerHour = input.RatePerHour

	return saveLineItem(c, ticket, &item, "update-labor-item")
}

// swagger:operation DELETE /tnms/{id}/items/labor/{itemID} LineItems LaborItemsDelete
//
// LaborItemsDelete
//
// remove a labor line from an unlocked ticket
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: ticket ID
// - name: itemID
//   in: path
//   required: true
//   description: line item ID
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func laborItemsDelete(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.LaborItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}
	return deleteLineItem(c, ticket, &item, "delete-labor-item")
}

// swagger:operation POST /tnms/{id}/items/material LineItems MaterialItemsCreate
//
// MaterialItemsCreate
//
// add a material line to an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func materialItemsCreate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var input api.MaterialItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item := models.MaterialItem{
		TicketID:    ticket.ID,
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}
	return saveLineItem(c, ticket, &item, "add-material-item")
}

// swagger:operation PUT /tnms/{id}/items/material/{itemID} LineItems MaterialItemsUpdate
//
// MaterialItemsUpdate
//
// update a material line on an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func materialItemsUpdate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.MaterialItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}

	var input api.MaterialItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item.Description = input.Description
	item.Quantity = input.Quantity
	item.UnitPrice = input.UnitPrice

	return saveLineItem(c, ticket, &item, "update-material-item")
}

// swagger:operation DELETE /tnms/{id}/items/material/{itemID} LineItems MaterialItemsDelete
//
// MaterialItemsDelete
//
// remove a material line from an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func materialItemsDelete(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.MaterialItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}
	return deleteLineItem(c, ticket, &item, "delete-material-item")
}

// swagger:operation POST /tnms/{id}/items/equipment LineItems EquipmentItemsCreate
//
// EquipmentItemsCreate
//
// add an equipment line to an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func equipmentItemsCreate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var input api.EquipmentItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item := models.EquipmentItem{
		TicketID:    ticket.ID,
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}
	return saveLineItem(c, ticket, &item, "add-equipment-item")
}

// swagger:operation PUT /tnms/{id}/items/equipment/{itemID} LineItems EquipmentItemsUpdate
//
// EquipmentItemsUpdate
//
// update an equipment line on an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func equipmentItemsUpdate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.EquipmentItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}

	var input api.EquipmentItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item.Description = input.Description
	item.Quantity = input.Quantity
	item.UnitPrice = input.UnitPrice

	return saveLineItem(c, ticket, &item, "update-equipment-item")
}

// swagger:operation DELETE /tnms/{id}/items/equipment/{itemID} LineItems EquipmentItemsDelete
//
// EquipmentItemsDelete
//
// remove an equipment line from an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func equipmentItemsDelete(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.EquipmentItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}
	return deleteLineItem(c, ticket, &item, "delete-equipment-item")
}

// swagger:operation POST /tnms/{id}/items/subcontractor LineItems SubcontractorItemsCreate
//
// SubcontractorItemsCreate
//
// add a subcontractor line to an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func subcontractorItemsCreate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var input api.SubcontractorItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item := models.SubcontractorItem{
		TicketID:    ticket.ID,
		CompanyName: input.CompanyName,
		Description: input.Description,
		Amount:      input.Amount,
	}
	if input.ProposalDate != nil {
		item.ProposalDate = nulls.NewTime(*input.ProposalDate)
	}
	return saveLineItem(c, ticket, &item, "add-subcontractor-item")
}

// swagger:operation PUT /tnms/{id}/items/subcontractor/{itemID} LineItems SubcontractorItemsUpdate
//
// SubcontractorItemsUpdate
//
// update a subcontractor line on an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func subcontractorItemsUpdate(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.SubcontractorItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}

	var input api.SubcontractorItemInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	item.CompanyName = input.CompanyName
	item.Description = input.Description
	item.Amount = input.Amount
	item.ProposalDate = nulls.Time{}
	if input.ProposalDate != nil {
		item.ProposalDate = nulls.NewTime(*input.ProposalDate)
	}

	return saveLineItem(c, ticket, &item, "update-subcontractor-item")
}

// swagger:operation DELETE /tnms/{id}/items/subcontractor/{itemID} LineItems SubcontractorItemsDelete
//
// SubcontractorItemsDelete
//
// remove a subcontractor line from an unlocked ticket
//
// ---
// responses:
//   '200':
//     description: the repriced TNMTicket
//     schema:
//       "$ref": "#/definitions/TNMTicket"
func subcontractorItemsDelete(c buffalo.Context) error {
	ticket := getReferencedTicketFromCtx(c)

	var item models.SubcontractorItem
	if err := findTicketLineItem(c, ticket, &item); err != nil {
		return reportError(c, err)
	}
	return deleteLineItem(c, ticket, &item, "delete-subcontractor-item")
}

// findTicketLineItem loads the addressed line item and verifies it belongs
// to the addressed ticket.
func findTicketLineItem(c buffalo.Context, ticket *models.TNMTicket, item models.TicketLineItem) error {
	itemID, err := uuid.FromString(c.Param("item_id"))
	if err != nil {
		return api.NewAppError(err, api.ErrorInvalidResourceID, api.CategoryUser)
	}

	tx := models.Tx(c)
	if err := item.FindByID(tx, itemID); err != nil {
		return api.NewAppError(err, api.ErrorLineItemNotFound, api.CategoryNotFound)
	}

	if item.GetTicketID() != ticket.ID {
		err := fmt.Errorf("line item %s does not belong to ticket %s", itemID, ticket.ID)
		return api.NewAppError(err, api.ErrorLineItemNotFound, api.CategoryNotFound)
	}
	return nil
}

// saveLineItem writes the item, reprices the ticket and renders it
func saveLineItem(c buffalo.Context, ticket *models.TNMTicket, item models.TicketLineItem, action string) error {
	tx := models.Tx(c)

	var err error
	if item.GetID() == uuid.Nil {
		err = item.Create(tx)
	} else {
		err = item.Update(tx)
	}
	if err != nil {
		return reportError(c, err)
	}

	if err := ticket.RecalculateTotals(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, action, nil)

	return renderOk(c, ticket.ConvertToAPI(tx, true))
}

// deleteLineItem removes the item, reprices the ticket and renders it
func deleteLineItem(c buffalo.Context, ticket *models.TNMTicket, item models.TicketLineItem, action string) error {
	tx := models.Tx(c)

	if err := item.Destroy(tx); err != nil {
		return reportError(c, err)
	}

	if err := ticket.RecalculateTotals(tx); err != nil {
		return reportError(c, err)
	}

	recordAudit(c, domain.TypeTNMTicket, ticket.ID, action, nil)

	return renderOk(c, ticket.ConvertToAPI(tx, true))
}
