package messages

import (
	"fmt"

	"github.com/gobuffalo/pop/v6"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/notifications"
	"github.com/treconstruction/changeorderino-api/pdf"
	"github.com/treconstruction/changeorderino-api/pricing"
)

// newRFCOMessage builds the approval request sent to the GC, with the RFCO
// document attached.
func newRFCOMessage(tx *pop.Connection, ticket *models.TNMTicket, recipient string) (notifications.Message, error) {
	msg, err := newTicketMessage(tx, ticket, recipient, true)
	if err != nil {
		return msg, err
	}

	msg.Template = MessageTemplateRFCO
	msg.Subject = fmt.Sprintf("Change Order %s awaits your approval", ticket.TNMNumber)

	document, err := RenderRFCO(tx, ticket)
	if err != nil {
		return msg, err
	}
	msg.Attachments = append(msg.Attachments, notifications.Attachment{
		Name:        ticket.TNMNumber + ".pdf",
		ContentType: "application/pdf",
		Content:     document,
	})

	return msg, nil
}

// newReminderMessage builds the nudge for a ticket still awaiting a response
func newReminderMessage(tx *pop.Connection, ticket *models.TNMTicket, recipient string) (notifications.Message, error) {
	msg, err := newTicketMessage(tx, ticket, recipient, true)
	if err != nil {
		return msg, err
	}

	msg.Template = MessageTemplateReminder
	msg.Subject = fmt.Sprintf("Reminder: Change Order %s still needs your response", ticket.TNMNumber)
	return msg, nil
}

// newConfirmationMessage builds the receipt sent after the GC responds
func newConfirmationMessage(tx *pop.Connection, ticket *models.TNMTicket, recipient string) (notifications.Message, error) {
	msg, err := newTicketMessage(tx, ticket, recipient, false)
	if err != nil {
		return msg, err
	}

	msg.Template = MessageTemplateConfirmation
	msg.Subject = fmt.Sprintf("Response received for Change Order %s", ticket.TNMNumber)
	msg.Data["decision"] = decisionLabel(ticket.Status)
	msg.Data["approvedAmount"] = pricing.RoundCents(ticket.ApprovedAmount).StringFixed(2)
	return msg, nil
}

// newTicketMessage assembles the data shared by every ticket email. When
// withLink is true the live approval token is resolved into a URL.
func newTicketMessage(tx *pop.Connection, ticket *models.TNMTicket, recipient string, withLink bool) (notifications.Message, error) {
	settings, err := models.GetAppSettings(tx)
	if err != nil {
		return notifications.Message{}, err
	}

	ticket.LoadProject(tx, false)

	msg := notifications.NewEmailMessage()
	msg.FromName = settings.CompanyName
	msg.ToEmail = recipient
	msg.Data["companyName"] = settings.CompanyName
	msg.Data["projectName"] = ticket.Project.Name
	msg.Data["tnmNumber"] = ticket.TNMNumber
	msg.Data["title"] = ticket.Title
	msg.Data["proposalAmount"] = pricing.RoundCents(ticket.ProposalAmount).StringFixed(2)

	if withLink {
		var token models.ApprovalToken
		if err := token.FindOpenForTicket(tx, ticket.ID); err != nil {
			return msg, fmt.Errorf("no open approval token for ticket %s: %w", ticket.TNMNumber, err)
		}
		msg.Data["approvalURL"] = token.ApprovalURL()
		msg.Data["expiresAt"] = token.ExpiresAt.Format(domain.LocalizedDate)
	}

	return msg, nil
}

// RenderRFCO assembles the RFCO document for a ticket. The same PDF is
// attached to the approval request email and served for download.
func RenderRFCO(tx *pop.Connection, ticket *models.TNMTicket) ([]byte, error) {
	settings, err := models.GetAppSettings(tx)
	if err != nil {
		return nil, err
	}

	rates, err := ticket.EffectiveRates(tx)
	if err != nil {
		return nil, err
	}

	ticket.LoadProject(tx, false)
	ticket.LoadLineItems(tx, false)

	data := pdf.RFCOData{
		CompanyName:    settings.CompanyName,
		CompanyAddress: settings.CompanyAddress,
		CompanyEmail:   settings.CompanyEmail,
		TNMNumber:      ticket.TNMNumber,
		Title:          ticket.Title,
		Description:    ticket.Description,
		ProjectName:    ticket.Project.Name,
		ProposalAmount: pricing.RoundCents(ticket.ProposalAmount),
	}
	if ticket.WorkDate.Valid {
		data.WorkDate = ticket.WorkDate.Time.Format(domain.DateFormat)
	}

	labor := pdf.RFCOSection{Title: "Labor", OHPPercent: rates.Labor}
	for _, item := range ticket.LaborItems {
		labor.Lines = append(labor.Lines, pdf.RFCOLine{
			Description: item.Description,
			Detail:      fmt.Sprintf("%s hrs @ $%s", item.Hours.String(), item.RatePerHour.StringFixed(2)),
			Subtotal:    pricing.RoundCents(pricing.LineSubtotal(item.PricingItem())),
		})
	}
	labor.Total = sectionTotal(ticket.LaborTotal)

	material := pdf.RFCOSection{Title: "Material", OHPPercent: rates.Material}
	for _, item := range ticket.MaterialItems {
		material.Lines = append(material.Lines, pdf.RFCOLine{
			Description: item.Description,
			Detail:      fmt.Sprintf("%s @ $%s", item.Quantity.String(), item.UnitPrice.StringFixed(2)),
			Subtotal:    pricing.RoundCents(pricing.LineSubtotal(item.PricingItem())),
		})
	}
	material.Total = sectionTotal(ticket.MaterialTotal)

	equipment := pdf.RFCOSection{Title: "Equipment", OHPPercent: rates.Equipment}
	for _, item := range ticket.EquipmentItems {
		equipment.Lines = append(equipment.Lines, pdf.RFCOLine{
			Description: item.Description,
			Detail:      fmt.Sprintf("%s @ $%s", item.Quantity.String(), item.UnitPrice.StringFixed(2)),
			Subtotal:    pricing.RoundCents(pricing.LineSubtotal(item.PricingItem())),
		})
	}
	equipment.Total = sectionTotal(ticket.EquipmentTotal)

	sub := pdf.RFCOSection{Title: "Subcontractor", OHPPercent: rates.Subcontractor}
	for _, item := range ticket.SubcontractorItems {
		sub.Lines = append(sub.Lines, pdf.RFCOLine{
			Description: item.CompanyName,
			Detail:      item.Description,
			Subtotal:    pricing.RoundCents(item.Amount),
		})
	}
	sub.Total = sectionTotal(ticket.SubcontractorTotal)

	data.Sections = []pdf.RFCOSection{labor, material, equipment, sub}

	return pdf.GenerateRFCO(&data)
}

func sectionTotal(total decimal.Decimal) decimal.Decimal {
	return pricing.RoundCents(total)
}

func decisionLabel(status api.TNMStatus) string {
	switch status {
	case api.TNMStatusApproved:
		return "Approved"
	case api.TNMStatusPartiallyApproved:
		return "Partially Approved"
	case api.TNMStatusDenied:
		return "Denied"
	}
	return string(status)
}
