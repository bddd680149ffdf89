// Package messages builds the outbound emails recorded in the email log.
package messages

import (
	"fmt"

	"github.com/gobuffalo/pop/v6"

	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/notifications"
)

// Email templates
const (
	MessageTemplateRFCO         = "mail/rfco.plush.html"
	MessageTemplateReminder     = "mail/reminder.plush.html"
	MessageTemplateConfirmation = "mail/confirmation.plush.html"
)

// BuildForEmailLog assembles the full message for a queued email log entry
func BuildForEmailLog(tx *pop.Connection, entry *models.EmailLog) (notifications.Message, error) {
	var ticket models.TNMTicket
	if err := ticket.FindByID(tx, entry.TicketID); err != nil {
		return notifications.Message{}, fmt.Errorf("error loading ticket for email log %s: %w", entry.ID, err)
	}

	switch entry.Kind {
	case models.EmailKindRFCO:
		return newRFCOMessage(tx, &ticket, entry.Recipient)
	case models.EmailKindReminder:
		return newReminderMessage(tx, &ticket, entry.Recipient)
	case models.EmailKindConfirmation:
		return newConfirmationMessage(tx, &ticket, entry.Recipient)
	}

	return notifications.Message{}, fmt.Errorf("unrecognized email kind %q on email log %s", entry.Kind, entry.ID)
}
