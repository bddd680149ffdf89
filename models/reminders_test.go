package models

import (
	"time"

	"github.com/treconstruction/changeorderino-api/api"
)

func (ms *ModelSuite) sentTicketFixture() (TNMTicket, Project) {
	ticket, project := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))
	return ticket, project
}

// backdateTicketEmails shifts the ticket's email history into the past so
// reminder due-date math can be exercised without waiting
func (ms *ModelSuite) backdateTicketEmails(ticket TNMTicket, days int) {
	past := time.Now().UTC().AddDate(0, 0, -days)
	err := ms.DB.RawQuery(
		"update email_logs set created_at = ? where ticket_id = ?", past, ticket.ID).Exec()
	ms.NoError(err)
}

func (ms *ModelSuite) TestSendDueReminders_notDueYet() {
	ticket, _ := ms.sentTicketFixture()

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(0, n, "the RFCO just went out, nothing should be due")

	ms.NoError(ticket.FindByID(ms.DB, ticket.ID))
	ms.Equal(0, ticket.ReminderCount)
}

func (ms *ModelSuite) TestSendDueReminders_due() {
	ticket, _ := ms.sentTicketFixture()
	ms.backdateTicketEmails(ticket, 4)

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(1, n)

	ms.NoError(ticket.FindByID(ms.DB, ticket.ID))
	ms.Equal(1, ticket.ReminderCount)

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(2, len(emails), "expected the RFCO email plus one reminder")
	ms.Equal(EmailKindReminder, emails[0].Kind)
}

func (ms *ModelSuite) TestSendDueReminders_partiallyApproved() {
	ticket, _ := ms.sentTicketFixture()

	ticket.LoadLineItems(ms.DB, true)
	_, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionPartial,
		SignerName: "Pat GC",
		Lines: []api.LineDecisionInput{
			{LineItemID: ticket.LaborItems[0].ID, Approved: true},
		},
	})
	ms.NoError(err)
	ms.backdateTicketEmails(ticket, 4)

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(1, n, "a partially approved ticket still has undecided lines")

	ms.NoError(ticket.FindByID(ms.DB, ticket.ID))
	ms.Equal(1, ticket.ReminderCount)
}

func (ms *ModelSuite) TestSendDueReminders_projectDisabled() {
	ticket, project := ms.sentTicketFixture()
	ms.backdateTicketEmails(ticket, 4)

	project.RemindersEnabled = false
	ms.NoError(project.Update(ms.DB))

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(0, n, "a project with reminders off should be skipped")
}

func (ms *ModelSuite) TestSendDueReminders_projectFrequencyOverride() {
	ticket, project := ms.sentTicketFixture()
	ms.backdateTicketEmails(ticket, 4)

	project.ReminderFrequencyDays = 10
	ms.NoError(project.Update(ms.DB))

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(0, n, "the project frequency should override the app setting")
}

func (ms *ModelSuite) TestSendDueReminders_maxReached() {
	ticket, _ := ms.sentTicketFixture()
	ms.backdateTicketEmails(ticket, 4)

	ticket.ReminderCount = 5
	ms.NoError(update(ms.DB, &ticket))

	n, err := SendDueReminders(ms.DB)
	ms.NoError(err)
	ms.Equal(0, n, "the reminder cap should stop further nudges")
}
