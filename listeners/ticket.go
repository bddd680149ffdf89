package listeners

import (
	"fmt"

	"github.com/gobuffalo/events"

	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/notifications"
	"github.com/treconstruction/changeorderino-api/pricing"
)

// ticketResponded lets the office know a GC decision came in, so nobody has
// to poll the dashboard for it
func ticketResponded(e events.Event) {
	if e.Kind != domain.EventApiTicketResponded {
		return
	}

	defer panicRecover(e.Kind)

	var ticket models.TNMTicket
	if err := findObject(e.Payload, &ticket, e.Kind); err != nil {
		return
	}

	var admins models.Users
	if err := admins.FindAdmins(models.DB); err != nil {
		log.Errorf("failed to find admins for response notification: %s", err)
		return
	}

	ticket.LoadProject(models.DB, false)

	for _, admin := range admins {
		msg := notifications.NewEmailMessage()
		msg.ToName = admin.Name()
		msg.ToEmail = admin.Email
		msg.Subject = fmt.Sprintf("GC responded to Change Order %s", ticket.TNMNumber)
		msg.Body = fmt.Sprintf(
			"<p>The general contractor has responded to change order <strong>%s</strong> on project %s.</p>"+
				"<p>Status: <strong>%s</strong><br>Approved amount: $%s</p>",
			ticket.TNMNumber, ticket.Project.Name, ticket.Status,
			pricing.RoundCents(ticket.ApprovedAmount).StringFixed(2))

		if err := notifications.Send(msg); err != nil {
			log.Errorf("failed to send response notification to %s: %s", admin.Email, err)
		}
	}
}
