package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
)

// fixture tickets carry one line item per category:
// labor 10h x $75 = 750, material 5 x $12.50 = 62.50,
// equipment 2 x $100 = 200, subcontractor = 250
func (ms *ModelSuite) ticketFixture() (TNMTicket, Project) {
	f := CreateTicketFixtures(ms.DB, FixturesConfig{
		NumberOfProjects:  1,
		TicketsPerProject: 1,
		ItemsPerTicket:    1,
	})
	return f.TNMTickets[0], f.Projects[0]
}

func (ms *ModelSuite) TestTNMTicket_RecalculateTotals_envDefaults() {
	ticket, _ := ms.ticketFixture()

	// env defaults: 15% on labor, material, equipment and 5% on subs
	ms.True(ticket.LaborTotal.Equal(decimal.RequireFromString("862.5")), "labor total was %s", ticket.LaborTotal)
	ms.True(ticket.MaterialTotal.Equal(decimal.RequireFromString("71.875")), "material total was %s", ticket.MaterialTotal)
	ms.True(ticket.EquipmentTotal.Equal(decimal.RequireFromString("230")), "equipment total was %s", ticket.EquipmentTotal)
	ms.True(ticket.SubcontractorTotal.Equal(decimal.RequireFromString("262.5")), "sub total was %s", ticket.SubcontractorTotal)
	ms.True(ticket.ProposalAmount.Equal(decimal.RequireFromString("1426.875")), "proposal was %s", ticket.ProposalAmount)
}

func (ms *ModelSuite) TestTNMTicket_EffectiveRates_precedence() {
	ticket, project := ms.ticketFixture()

	// project default overrides the global setting
	project.OHPLabor = decimal.NewNullDecimal(decimal.NewFromInt(10))
	ms.NoError(project.Update(ms.DB))

	ticket.Project = Project{}
	rates, err := ticket.EffectiveRates(ms.DB)
	ms.NoError(err)
	ms.True(rates.Labor.Equal(decimal.NewFromInt(10)), "labor rate was %s", rates.Labor)

	// ticket override wins over the project
	ticket.OHPLabor = decimal.NewNullDecimal(decimal.NewFromInt(20))
	ms.NoError(ticket.Update(ms.DB))

	rates, err = ticket.EffectiveRates(ms.DB)
	ms.NoError(err)
	ms.True(rates.Labor.Equal(decimal.NewFromInt(20)))

	// 10h x $75 at 20% comes to $900
	ms.NoError(ticket.RecalculateTotals(ms.DB))
	ms.True(ticket.LaborTotal.Equal(decimal.NewFromInt(900)), "labor total was %s", ticket.LaborTotal)
}

func (ms *ModelSuite) TestTNMTicket_statusTransitions() {
	tests := []struct {
		from    api.TNMStatus
		to      api.TNMStatus
		allowed bool
	}{
		{api.TNMStatusDraft, api.TNMStatusPendingReview, true},
		{api.TNMStatusDraft, api.TNMStatusSent, false},
		{api.TNMStatusPendingReview, api.TNMStatusDraft, true},
		{api.TNMStatusReadyToSend, api.TNMStatusSent, true},
		{api.TNMStatusSent, api.TNMStatusViewed, true},
		{api.TNMStatusViewed, api.TNMStatusSent, true},
		{api.TNMStatusViewed, api.TNMStatusPartiallyApproved, true},
		{api.TNMStatusApproved, api.TNMStatusPaid, true},
		{api.TNMStatusApproved, api.TNMStatusSent, true},
		{api.TNMStatusDenied, api.TNMStatusSent, true},
		{api.TNMStatusPaid, api.TNMStatusSent, false},
		{api.TNMStatusCancelled, api.TNMStatusDraft, false},
		{api.TNMStatusSent, api.TNMStatusDraft, false},
	}

	for _, tt := range tests {
		ms.T().Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			ms.Equal(tt.allowed, isTicketTransitionValid(tt.from, tt.to))
		})
	}
}

func (ms *ModelSuite) TestTNMTicket_Update_rejectsBadTransition() {
	ticket, _ := ms.ticketFixture()

	ticket.Status = api.TNMStatusPaid
	err := ticket.Update(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketStatus, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_Create_inactiveProject() {
	project := CreateProjectFixtures(ms.DB, 1).Projects[0]
	project.IsActive = false
	ms.NoError(project.Update(ms.DB))

	user := CreateUserFixtures(ms.DB, 1).Users[0]

	ticket := TNMTicket{
		ProjectID:   project.ID,
		Title:       "after hours work",
		CreatedByID: user.ID,
	}
	err := ticket.Create(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorProjectInactive, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_Send() {
	ticket, project := ms.ticketFixture()

	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ms.Equal(api.TNMStatusSent, ticket.Status)
	ms.Equal(1, ticket.EmailSentCount)

	var tokens ApprovalTokens
	ms.NoError(ms.DB.Where("ticket_id = ?", ticket.ID).All(&tokens))
	ms.Equal(1, len(tokens))
	ms.Equal(project.GCEmail, tokens[0].GCEmail)

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(1, len(emails))
	ms.Equal(EmailKindRFCO, emails[0].Kind)
	ms.Equal(EmailStatusQueued, emails[0].Status)
}

func (ms *ModelSuite) TestTNMTicket_Send_resendAfterViewed() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))
	ms.NoError(ticket.RecordViewed(ms.DB))

	// the GC opened the link but never answered
	ms.NoError(ticket.Send(ms.DB))
	ms.Equal(api.TNMStatusSent, ticket.Status)
	ms.Equal(2, ticket.EmailSentCount)

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(2, len(emails))
}

func (ms *ModelSuite) TestTNMTicket_Send_requiresGCEmail() {
	ticket, project := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))

	project.GCEmail = ""
	ms.NoError(project.Update(ms.DB))

	ticket.Project = Project{}
	err := ticket.Send(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketMissingGCEmail, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_Send_requiresLineItems() {
	project := CreateProjectFixtures(ms.DB, 1).Projects[0]
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	ticket := TNMTicket{
		ProjectID:   project.ID,
		Title:       "empty ticket",
		CreatedByID: user.ID,
	}
	ms.NoError(ticket.Create(ms.DB))
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))

	err := ticket.Send(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketNoLineItems, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_Remind() {
	ticket, _ := ms.ticketFixture()

	err := ticket.Remind(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketNotAwaitingReply, Category: api.CategoryUser}, err)

	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))
	ms.NoError(ticket.Remind(ms.DB))
	ms.Equal(1, ticket.ReminderCount)

	var emails EmailLogs
	ms.NoError(emails.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(2, len(emails), "expected the send email plus one reminder")
}

func (ms *ModelSuite) TestTNMTicket_Remind_partiallyApproved() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ticket.LoadLineItems(ms.DB, true)
	_, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionPartial,
		SignerName: "Pat GC",
		Lines: []api.LineDecisionInput{
			{LineItemID: ticket.LaborItems[0].ID, Approved: true},
		},
	})
	ms.NoError(err)
	ms.Equal(api.TNMStatusPartiallyApproved, ticket.Status)

	// lines are still undecided, so nudging the GC stays allowed
	ms.NoError(ticket.Remind(ms.DB))
	ms.Equal(1, ticket.ReminderCount)
}

func (ms *ModelSuite) TestTNMTicket_RecordViewed() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ms.NoError(ticket.RecordViewed(ms.DB))
	ms.Equal(api.TNMStatusViewed, ticket.Status)
	ms.True(ticket.ViewedAt.Valid)

	firstViewed := ticket.ViewedAt.Time

	// a second view keeps the original timestamp
	ms.NoError(ticket.RecordViewed(ms.DB))
	ms.Equal(firstViewed, ticket.ViewedAt.Time)
}

func (ms *ModelSuite) TestTNMTicket_ApplyApprovalResponse_approveAll() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	result, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionApproveAll,
		SignerName: "Pat GC",
	})
	ms.NoError(err)

	ms.Equal(api.TNMStatusApproved, result.Status)
	ms.True(result.ApprovedAmount.Equal(decimal.RequireFromString("1426.875")),
		"approved amount was %s", result.ApprovedAmount)
	ms.True(ticket.ResponseDate.Valid)

	var approvals LineItemApprovals
	ms.NoError(approvals.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(4, len(approvals))
	for _, a := range approvals {
		ms.True(a.Approved)
	}
}

func (ms *ModelSuite) TestTNMTicket_ApplyApprovalResponse_denyAll() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	result, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionDenyAll,
		SignerName: "Pat GC",
		Comment:    "out of scope",
	})
	ms.NoError(err)

	ms.Equal(api.TNMStatusDenied, result.Status)
	ms.True(result.ApprovedAmount.IsZero())
}

func (ms *ModelSuite) TestTNMTicket_ApplyApprovalResponse_partial() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ticket.LoadLineItems(ms.DB, true)
	labor := ticket.LaborItems[0]

	result, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionPartial,
		SignerName: "Pat GC",
		Lines: []api.LineDecisionInput{
			{LineItemID: labor.ID, Approved: true},
		},
	})
	ms.NoError(err)

	ms.Equal(api.TNMStatusPartiallyApproved, result.Status)
	// only labor approved: 750 at 15% = 862.50
	ms.True(result.ApprovedAmount.Equal(decimal.RequireFromString("862.5")),
		"approved amount was %s", result.ApprovedAmount)
}

func (ms *ModelSuite) TestTNMTicket_ApplyApprovalResponse_partialNeedsLines() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	_, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision:   api.ApprovalDecisionPartial,
		SignerName: "Pat GC",
	})
	ms.EqualAppError(api.AppError{Key: api.ErrorApprovalInvalidDecision, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_ApplyApprovalResponse_onlyOnce() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	_, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision: api.ApprovalDecisionApproveAll,
	})
	ms.NoError(err)

	_, err = ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision: api.ApprovalDecisionDenyAll,
	})
	ms.EqualAppError(api.AppError{Key: api.ErrorApprovalAlreadyRecorded, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_ManualOverride() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ms.NoError(ticket.ManualOverride(ms.DB, true))
	ms.Equal(api.TNMStatusApproved, ticket.Status)
	ms.True(ticket.ApprovedAmount.Equal(ticket.ProposalAmount))

	// the open token is revoked once a response exists
	var tokens ApprovalTokens
	ms.NoError(ms.DB.Where("ticket_id = ?", ticket.ID).All(&tokens))
	ms.Equal(0, len(tokens))
}

func (ms *ModelSuite) TestTNMTicket_UndoResponse() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	_, err := ticket.ApplyApprovalResponse(ms.DB, api.ApprovalSubmitInput{
		Decision: api.ApprovalDecisionApproveAll,
	})
	ms.NoError(err)

	ms.NoError(ticket.UndoResponse(ms.DB))
	ms.Equal(api.TNMStatusSent, ticket.Status)
	ms.True(ticket.ApprovedAmount.IsZero())
	ms.False(ticket.ResponseDate.Valid)

	var approvals LineItemApprovals
	ms.NoError(approvals.FindByTicket(ms.DB, ticket.ID))
	ms.Equal(0, len(approvals))
}

func (ms *ModelSuite) TestTNMTicket_MarkPaid() {
	ticket, _ := ms.ticketFixture()

	err := ticket.MarkPaid(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketStatus, Category: api.CategoryUser}, err)

	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))
	ms.NoError(ticket.ManualOverride(ms.DB, true))

	ms.NoError(ticket.MarkPaid(ms.DB))
	ms.Equal(api.TNMStatusPaid, ticket.Status)
}

func (ms *ModelSuite) TestTNMTicket_lineItemsLockAfterSend() {
	ticket, _ := ms.ticketFixture()
	ms.NoError(ticket.SubmitForReview(ms.DB))
	ms.NoError(ticket.MarkReadyToSend(ms.DB))
	ms.NoError(ticket.Send(ms.DB))

	ticket.LoadLineItems(ms.DB, true)
	labor := ticket.LaborItems[0]
	labor.Hours = decimal.NewFromInt(99)

	err := labor.Update(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketLocked, Category: api.CategoryUser}, err)

	err = labor.Destroy(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketLocked, Category: api.CategoryUser}, err)

	newItem := LaborItem{
		TicketID:    ticket.ID,
		Description: "late addition",
		LaborType:   api.LaborTypeLaborer,
		Hours:       decimal.NewFromInt(1),
		RatePerHour: decimal.NewFromInt(50),
	}
	err = newItem.Create(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorTicketLocked, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestTNMTicket_ConvertToAPI_roundsForDisplay() {
	ticket, _ := ms.ticketFixture()

	got := ticket.ConvertToAPI(ms.DB, true)
	ms.Equal("71.88", got.MaterialTotal.String())
	ms.Equal("1426.88", got.ProposalAmount.String())
	ms.Equal(1, len(got.LaborItems))
	ms.Equal("750", got.LaborItems[0].Subtotal.String())
}
