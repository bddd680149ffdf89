package models

import (
	"time"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

func (ms *ModelSuite) approvalTokenFixture() (ApprovalToken, TNMTicket) {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	var tokens ApprovalTokens
	ms.NoError(ms.DB.Where("ticket_id = ?", ticket.ID).All(&tokens))
	ms.Equal(1, len(tokens))
	return tokens[0], ticket
}

func (ms *ModelSuite) TestApprovalToken_Create_defaults() {
	token, _ := ms.approvalTokenFixture()

	wantExpiry := time.Now().UTC().AddDate(0, 0, domain.Env.ApprovalTokenLifetimeDays)
	ms.WithinDuration(wantExpiry, token.ExpiresAt, time.Minute)
}

func (ms *ModelSuite) TestApprovalToken_Create_replacesOpenToken() {
	first, ticket := ms.approvalTokenFixture()

	// re-sending issues a new link and kills the old one
	ms.NoError(ticket.ManualOverride(ms.DB, false))
	ticket.Status = api.TNMStatusSent
	ms.NoError(ticket.Update(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	var tokens ApprovalTokens
	ms.NoError(ms.DB.Where("ticket_id = ?", ticket.ID).All(&tokens))
	ms.Equal(1, len(tokens))
	ms.NotEqual(first.ID, tokens[0].ID)
}

func (ms *ModelSuite) TestApprovalToken_FindValid() {
	token, ticket := ms.approvalTokenFixture()

	var found ApprovalToken
	ms.NoError(found.FindValid(ms.DB, token.ID))
	ms.Equal(ticket.ID, found.TicketID)

	var missing ApprovalToken
	err := missing.FindValid(ms.DB, domain.GetUUID())
	ms.EqualAppError(api.AppError{Key: api.ErrorApprovalTokenNotFound, Category: api.CategoryNotFound}, err)
}

func (ms *ModelSuite) TestApprovalToken_FindValid_expired() {
	token, _ := ms.approvalTokenFixture()

	token.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	ms.NoError(update(ms.DB, &token))

	var found ApprovalToken
	err := found.FindValid(ms.DB, token.ID)
	ms.EqualAppError(api.AppError{Key: api.ErrorApprovalTokenExpired, Category: api.CategoryNotFound}, err)

	// expired tokens are destroyed on sight
	var remaining ApprovalTokens
	ms.NoError(ms.DB.Where("id = ?", token.ID).All(&remaining))
	ms.Equal(0, len(remaining))
}

func (ms *ModelSuite) TestDestroyExpiredTokens() {
	token, _ := ms.approvalTokenFixture()

	n, err := DestroyExpiredTokens(ms.DB)
	ms.NoError(err)
	ms.Equal(0, n)

	token.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	ms.NoError(update(ms.DB, &token))

	n, err = DestroyExpiredTokens(ms.DB)
	ms.NoError(err)
	ms.Equal(1, n)
}

func (ms *ModelSuite) TestApprovalToken_ApprovalURL() {
	token, _ := ms.approvalTokenFixture()
	ms.Equal(domain.Env.UIURL+"/approve/"+token.ID.String(), token.ApprovalURL())
}
