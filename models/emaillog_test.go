package models

import (
	"errors"
)

func (ms *ModelSuite) TestEmailLog_MarkSent() {
	ticket, _ := ms.sentTicketFixture()

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(1, len(emails))

	entry := emails[0]
	ms.Equal(EmailStatusQueued, entry.Status)

	ms.NoError(entry.MarkSent(ms.DB))
	ms.Equal(EmailStatusSent, entry.Status)
	ms.True(entry.SentAt.Valid)
	ms.Equal("", entry.Error)
}

func (ms *ModelSuite) TestEmailLog_MarkFailed() {
	ticket, _ := ms.sentTicketFixture()

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(1, len(emails))

	entry := emails[0]
	ms.NoError(entry.MarkFailed(ms.DB, errors.New("mailbox full")))
	ms.Equal(EmailStatusFailed, entry.Status)
	ms.Equal("mailbox full", entry.Error)
	ms.False(entry.SentAt.Valid)
}
