package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/pricing"
)

var ValidTNMStatus = map[api.TNMStatus]struct{}{
	api.TNMStatusDraft:             {},
	api.TNMStatusPendingReview:     {},
	api.TNMStatusReadyToSend:       {},
	api.TNMStatusSent:              {},
	api.TNMStatusViewed:            {},
	api.TNMStatusPartiallyApproved: {},
	api.TNMStatusApproved:          {},
	api.TNMStatusDenied:            {},
	api.TNMStatusCancelled:         {},
	api.TNMStatusPaid:              {},
}

var ValidLaborTypes = map[api.LaborType]struct{}{
	api.LaborTypeProjectManager: {},
	api.LaborTypeSuperintendent: {},
	api.LaborTypeCarpenter:      {},
	api.LaborTypeLaborer:        {},
}

// ticketStatusTransitions defines the lifecycle. Cancelled and paid are
// terminal. Undoing a GC response goes back through sent.
var ticketStatusTransitions = map[api.TNMStatus][]api.TNMStatus{
	api.TNMStatusDraft: {
		api.TNMStatusPendingReview,
		api.TNMStatusReadyToSend,
		api.TNMStatusCancelled,
	},
	api.TNMStatusPendingReview: {
		api.TNMStatusDraft,
		api.TNMStatusReadyToSend,
		api.TNMStatusSent,
		api.TNMStatusCancelled,
	},
	api.TNMStatusReadyToSend: {
		api.TNMStatusDraft,
		api.TNMStatusSent,
		api.TNMStatusCancelled,
	},
	api.TNMStatusSent: {
		api.TNMStatusViewed,
		api.TNMStatusApproved,
		api.TNMStatusPartiallyApproved,
		api.TNMStatusDenied,
		api.TNMStatusCancelled,
	},
	api.TNMStatusViewed: {
		api.TNMStatusSent,
		api.TNMStatusApproved,
		api.TNMStatusPartiallyApproved,
		api.TNMStatusDenied,
		api.TNMStatusCancelled,
	},
	api.TNMStatusPartiallyApproved: {
		api.TNMStatusSent,
		api.TNMStatusPaid,
	},
	api.TNMStatusApproved: {
		api.TNMStatusSent,
		api.TNMStatusPaid,
	},
	api.TNMStatusDenied: {
		api.TNMStatusSent,
		api.TNMStatusCancelled,
	},
	api.TNMStatusCancelled: {},
	api.TNMStatusPaid:      {},
}

func isTicketTransitionValid(status1, status2 api.TNMStatus) bool {
	targets, ok := ticketStatusTransitions[status1]
	if !ok {
		return false
	}
	for _, target := range targets {
		if target == status2 {
			return true
		}
	}
	return false
}

// TNMTicket is one Time & Materials change-order request
type TNMTicket struct {
	ID          uuid.UUID     `db:"id"`
	ProjectID   uuid.UUID     `db:"project_id" validate:"required"`
	TNMNumber   string        `db:"tnm_number"`
	Title       string        `db:"title" validate:"required"`
	Description string        `db:"description"`
	WorkDate    nulls.Time    `db:"work_date"`
	Status      api.TNMStatus `db:"status" validate:"tnmStatus"`

	OHPLabor         decimal.NullDecimal `db:"ohp_labor"`
	OHPMaterial      decimal.NullDecimal `db:"ohp_material"`
	OHPEquipment     decimal.NullDecimal `db:"ohp_equipment"`
	OHPSubcontractor decimal.NullDecimal `db:"ohp_subcontractor"`

	LaborTotal         decimal.Decimal `db:"labor_total"`
	MaterialTotal      decimal.Decimal `db:"material_total"`
	EquipmentTotal     decimal.Decimal `db:"equipment_total"`
	SubcontractorTotal decimal.Decimal `db:"subcontractor_total"`
	ProposalAmount     decimal.Decimal `db:"proposal_amount"`
	ApprovedAmount     decimal.Decimal `db:"approved_amount"`

	EmailSentCount int        `db:"email_sent_count"`
	ReminderCount  int        `db:"reminder_count"`
	ViewedAt       nulls.Time `db:"viewed_at"`
	ResponseDate   nulls.Time `db:"response_date"`

	GCSignatureAssetID nulls.UUID `db:"gc_signature_asset_id"`
	CreatedByID        uuid.UUID  `db:"created_by_id" validate:"required"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Project            Project            `belongs_to:"projects" validate:"-"`
	LaborItems         LaborItems         `has_many:"labor_items" validate:"-"`
	MaterialItems      MaterialItems      `has_many:"material_items" validate:"-"`
	EquipmentItems     EquipmentItems     `has_many:"equipment_items" validate:"-"`
	SubcontractorItems SubcontractorItems `has_many:"subcontractor_items" validate:"-"`
}

type TNMTickets []TNMTicket

func (t *TNMTicket) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(t), nil
}

// Create stores a new ticket, assigning its number from the project sequence
func (t *TNMTicket) Create(tx *pop.Connection) error {
	t.LoadProject(tx, false)
	if !t.Project.IsActive {
		return api.NewAppError(
			fmt.Errorf("project %s is not active", t.ProjectID),
			api.ErrorProjectInactive,
			api.CategoryUser,
		)
	}

	number, err := t.Project.NextTNMNumber(tx)
	if err != nil {
		return err
	}
	t.TNMNumber = number

	if t.Status == "" {
		t.Status = api.TNMStatusDraft
	}

	return create(tx, t)
}

// Update writes ticket changes, enforcing the status transition rules
func (t *TNMTicket) Update(tx *pop.Connection) error {
	var oldTicket TNMTicket
	if err := oldTicket.FindByID(tx, t.ID); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}

	if t.Status != oldTicket.Status && !isTicketTransitionValid(oldTicket.Status, t.Status) {
		err := fmt.Errorf("ticket status cannot be changed from %s to %s", oldTicket.Status, t.Status)
		return api.NewAppError(err, api.ErrorTicketStatus, api.CategoryUser)
	}

	// the assigned number never changes
	t.TNMNumber = oldTicket.TNMNumber

	return update(tx, t)
}

func (t *TNMTicket) GetID() uuid.UUID {
	return t.ID
}

func (t *TNMTicket) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, t, id)
}

// IsLocked reports whether line items and pricing fields may no longer be
// edited. Once a ticket has gone out to the GC, only the approval flow or an
// undo may change its numbers.
func (t *TNMTicket) IsLocked() bool {
	switch t.Status {
	case api.TNMStatusDraft, api.TNMStatusPendingReview, api.TNMStatusReadyToSend:
		return false
	}
	return true
}

// AwaitingGCReply is true while the GC can still answer the approval request
func (t *TNMTicket) AwaitingGCReply() bool {
	return t.Status == api.TNMStatusSent || t.Status == api.TNMStatusViewed
}

// CanBeReminded is true while a nudge to the GC still makes sense. A partial
// approval leaves lines undecided, so those tickets stay remindable.
func (t *TNMTicket) CanBeReminded() bool {
	return t.AwaitingGCReply() || t.Status == api.TNMStatusPartiallyApproved
}

// IsActorAllowedTo gates ticket operations. Reading and creating is open to
// all authenticated users. Review and GC-facing operations need a
// management role; the creator keeps control of their own drafts.
func (t *TNMTicket) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	managers := []string{RoleAdmin, RoleProjectManager, RoleOfficeStaff}

	switch string(sub) {
	case "":
		// plain CRUD
	case api.ResourceSubmit, api.ResourceItems:
		return actor.ID == t.CreatedByID || actor.IsAuthorized(managers)
	case api.ResourcePDF:
		return actor.ID == t.CreatedByID || actor.IsAuthorized(managers)
	case api.ResourceReady, api.ResourceSend, api.ResourceRemind, api.ResourceApprove, api.ResourceDeny,
		api.ResourceUndo, api.ResourceMarkPaid, api.ResourceCancel, api.ResourceEmails:
		return actor.IsAuthorized(managers)
	default:
		return false
	}

	switch perm {
	case PermissionView, PermissionList, PermissionCreate:
		return true
	case PermissionUpdate:
		return actor.ID == t.CreatedByID || actor.IsAuthorized(managers)
	case PermissionDelete:
		return actor.IsAdmin()
	}
	return false
}

// EffectiveRates resolves the OH&P percents for this ticket: a ticket
// override wins, then the project default, then the stored global settings.
func (t *TNMTicket) EffectiveRates(tx *pop.Connection) (pricing.RateSet, error) {
	t.LoadProject(tx, false)

	settings, err := GetAppSettings(tx)
	if err != nil {
		return pricing.RateSet{}, err
	}

	resolve := func(ticket, project decimal.NullDecimal, global decimal.Decimal) decimal.Decimal {
		if ticket.Valid {
			return ticket.Decimal
		}
		if project.Valid {
			return project.Decimal
		}
		return global
	}

	return pricing.RateSet{
		Labor:         resolve(t.OHPLabor, t.Project.OHPLabor, settings.OHPLabor),
		Material:      resolve(t.OHPMaterial, t.Project.OHPMaterial, settings.OHPMaterial),
		Equipment:     resolve(t.OHPEquipment, t.Project.OHPEquipment, settings.OHPEquipment),
		Subcontractor: resolve(t.OHPSubcontractor, t.Project.OHPSubcontractor, settings.OHPSubcontractor),
	}, nil
}

// pricingItems flattens all line items for the pricing engine
func (t *TNMTicket) pricingItems() []pricing.LineItem {
	items := make([]pricing.LineItem, 0,
		len(t.LaborItems)+len(t.MaterialItems)+len(t.EquipmentItems)+len(t.SubcontractorItems))

	for _, i := range t.LaborItems {
		items = append(items, i.PricingItem())
	}
	for _, i := range t.MaterialItems {
		items = append(items, i.PricingItem())
	}
	for _, i := range t.EquipmentItems {
		items = append(items, i.PricingItem())
	}
	for _, i := range t.SubcontractorItems {
		items = append(items, i.PricingItem())
	}
	return items
}

// RecalculateTotals reprices the ticket from its line items and stores the
// category totals and proposal amount. Full precision is kept; rounding
// happens at presentation.
func (t *TNMTicket) RecalculateTotals(tx *pop.Connection) error {
	t.LoadLineItems(tx, true)

	rates, err := t.EffectiveRates(tx)
	if err != nil {
		return err
	}

	b := pricing.ComputeProposal(t.pricingItems(), rates)

	t.LaborTotal = b.LaborTotal
	t.MaterialTotal = b.MaterialTotal
	t.EquipmentTotal = b.EquipmentTotal
	t.SubcontractorTotal = b.SubcontractorTotal
	t.ProposalAmount = b.ProposalAmount

	return update(tx, t)
}

// SubmitForReview moves a draft to pending_review
func (t *TNMTicket) SubmitForReview(tx *pop.Connection) error {
	if t.Status != api.TNMStatusDraft {
		return api.NewAppError(
			fmt.Errorf("cannot submit a ticket in status %s for review", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	t.Status = api.TNMStatusPendingReview
	if err := t.Update(tx); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketSubmitted,
		Message: "TNM ticket submitted for review: " + t.TNMNumber,
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})
	return nil
}

// MarkReadyToSend flags the ticket as reviewed and sendable
func (t *TNMTicket) MarkReadyToSend(tx *pop.Connection) error {
	if t.Status != api.TNMStatusPendingReview {
		return api.NewAppError(
			fmt.Errorf("cannot mark a ticket in status %s ready to send", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	t.Status = api.TNMStatusReadyToSend
	return t.Update(tx)
}

// Send issues the approval request to the GC: a fresh one-time token, a
// queued email record, and the status change to sent. The listener picks up
// the emitted event and queues the actual email with the RFCO document.
func (t *TNMTicket) Send(tx *pop.Connection) error {
	switch t.Status {
	case api.TNMStatusPendingReview, api.TNMStatusReadyToSend, api.TNMStatusSent, api.TNMStatusViewed:
		// sendable, including straight from review and a re-send while
		// awaiting the GC
	default:
		return api.NewAppError(
			fmt.Errorf("cannot send a ticket in status %s", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	t.LoadProject(tx, false)

	if t.Project.GCEmail == "" {
		return api.NewAppError(
			fmt.Errorf("project %s has no GC email", t.ProjectID),
			api.ErrorTicketMissingGCEmail,
			api.CategoryUser,
		)
	}

	t.LoadLineItems(tx, false)
	if len(t.pricingItems()) == 0 {
		return api.NewAppError(
			errors.New("ticket has no line items"),
			api.ErrorTicketNoLineItems,
			api.CategoryUser,
		)
	}

	token := ApprovalToken{
		TicketID: t.ID,
		GCEmail:  t.Project.GCEmail,
	}
	if err := token.Create(tx); err != nil {
		return err
	}

	emailLog := EmailLog{
		TicketID:  t.ID,
		Recipient: t.Project.GCEmail,
		Kind:      EmailKindRFCO,
		Status:    EmailStatusQueued,
	}
	if err := emailLog.Create(tx); err != nil {
		return err
	}

	t.Status = api.TNMStatusSent
	t.EmailSentCount++
	if err := t.Update(tx); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketSent,
		Message: "RFCO sent for " + t.TNMNumber,
		Payload: events.Payload{domain.EventPayloadID: t.ID, "token_id": token.ID},
	})
	return nil
}

// Remind records another nudge to the GC and lets the listener queue the email
func (t *TNMTicket) Remind(tx *pop.Connection) error {
	if !t.CanBeReminded() {
		return api.NewAppError(
			fmt.Errorf("cannot remind on a ticket in status %s", t.Status),
			api.ErrorTicketNotAwaitingReply,
			api.CategoryUser,
		)
	}

	t.LoadProject(tx, false)

	emailLog := EmailLog{
		TicketID:  t.ID,
		Recipient: t.Project.GCEmail,
		Kind:      EmailKindReminder,
		Status:    EmailStatusQueued,
	}
	if err := emailLog.Create(tx); err != nil {
		return err
	}

	t.ReminderCount++
	if err := update(tx, t); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketReminder,
		Message: "reminder for " + t.TNMNumber,
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})
	return nil
}

// RecordViewed stamps the first time the GC opened the approval link
func (t *TNMTicket) RecordViewed(tx *pop.Connection) error {
	if !t.ViewedAt.Valid {
		t.ViewedAt = nulls.NewTime(time.Now().UTC())
	}

	if t.Status == api.TNMStatusSent {
		t.Status = api.TNMStatusViewed
	}
	if err := update(tx, t); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketViewed,
		Message: "approval link viewed for " + t.TNMNumber,
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})
	return nil
}

// ApplyApprovalResponse records the GC's decision: per-line approval rows,
// the approved amount with OH&P applied, and the resulting status.
func (t *TNMTicket) ApplyApprovalResponse(tx *pop.Connection, input api.ApprovalSubmitInput) (api.ApprovalResult, error) {
	if !t.AwaitingGCReply() {
		return api.ApprovalResult{}, api.NewAppError(
			fmt.Errorf("ticket %s already has a response, status %s", t.TNMNumber, t.Status),
			api.ErrorApprovalAlreadyRecorded,
			api.CategoryUser,
		)
	}

	t.LoadLineItems(tx, true)
	rates, err := t.EffectiveRates(tx)
	if err != nil {
		return api.ApprovalResult{}, err
	}

	decisions, err := t.lineDecisions(input)
	if err != nil {
		return api.ApprovalResult{}, err
	}

	approvedAmount := decimal.Zero
	approvedCount := 0
	for _, d := range decisions {
		if err := d.approval.Create(tx); err != nil {
			return api.ApprovalResult{}, err
		}
		if d.approval.Approved {
			approvedCount++
			approvedAmount = approvedAmount.Add(pricing.LineTotal(d.item, rates))
		}
	}

	var status api.TNMStatus
	switch {
	case approvedCount == len(decisions):
		status = api.TNMStatusApproved
	case approvedCount == 0:
		status = api.TNMStatusDenied
	default:
		status = api.TNMStatusPartiallyApproved
	}

	now := time.Now().UTC()
	t.Status = status
	t.ApprovedAmount = approvedAmount
	t.ResponseDate = nulls.NewTime(now)
	if err := t.Update(tx); err != nil {
		return api.ApprovalResult{}, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketResponded,
		Message: fmt.Sprintf("GC responded %s on %s", status, t.TNMNumber),
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})

	return api.ApprovalResult{
		Status:         status,
		ApprovedAmount: approvedAmount,
		ResponseDate:   now,
	}, nil
}

type lineDecision struct {
	approval LineItemApproval
	item     pricing.LineItem
}

// lineDecisions expands the GC's submission into one decision per line item.
// approve_all and deny_all ignore the per-line list; partial requires it.
func (t *TNMTicket) lineDecisions(input api.ApprovalSubmitInput) ([]lineDecision, error) {
	byLine := map[uuid.UUID]api.LineDecisionInput{}
	switch input.Decision {
	case api.ApprovalDecisionApproveAll, api.ApprovalDecisionDenyAll:
	case api.ApprovalDecisionPartial:
		if len(input.Lines) == 0 {
			return nil, api.NewAppError(
				errors.New("partial decision requires line decisions"),
				api.ErrorApprovalInvalidDecision,
				api.CategoryUser,
			)
		}
		for _, l := range input.Lines {
			byLine[l.LineItemID] = l
		}
	default:
		return nil, api.NewAppError(
			fmt.Errorf("invalid approval decision %q", input.Decision),
			api.ErrorApprovalInvalidDecision,
			api.CategoryUser,
		)
	}

	decide := func(id uuid.UUID) (bool, string) {
		switch input.Decision {
		case api.ApprovalDecisionApproveAll:
			return true, ""
		case api.ApprovalDecisionDenyAll:
			return false, input.Comment
		}
		l, ok := byLine[id]
		if !ok {
			// lines the GC didn't mention in a partial response are denied
			return false, ""
		}
		return l.Approved, l.Note
	}

	var decisions []lineDecision
	add := func(id uuid.UUID, category pricing.Category, item pricing.LineItem) {
		approved, note := decide(id)
		decisions = append(decisions, lineDecision{
			approval: LineItemApproval{
				TicketID:     t.ID,
				LineItemID:   id,
				LineItemType: string(category),
				Approved:     approved,
				Note:         note,
			},
			item: item,
		})
	}

	for _, i := range t.LaborItems {
		add(i.ID, pricing.CategoryLabor, i.PricingItem())
	}
	for _, i := range t.MaterialItems {
		add(i.ID, pricing.CategoryMaterial, i.PricingItem())
	}
	for _, i := range t.EquipmentItems {
		add(i.ID, pricing.CategoryEquipment, i.PricingItem())
	}
	for _, i := range t.SubcontractorItems {
		add(i.ID, pricing.CategorySubcontractor, i.PricingItem())
	}

	return decisions, nil
}

// ManualOverride records an in-office approval or denial, used when the GC
// answers by phone or on paper instead of through the link.
func (t *TNMTicket) ManualOverride(tx *pop.Connection, approve bool) error {
	if !t.AwaitingGCReply() {
		return api.NewAppError(
			fmt.Errorf("cannot record a response on a ticket in status %s", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	status := api.TNMStatusDenied
	if approve {
		status = api.TNMStatusApproved
	}

	t.Status = status
	t.ResponseDate = nulls.NewTime(time.Now().UTC())
	if approve {
		t.ApprovedAmount = t.ProposalAmount
	} else {
		t.ApprovedAmount = decimal.Zero
	}

	if err := t.Update(tx); err != nil {
		return err
	}

	// a response, manual or not, ends the reminder loop and the open tokens
	if err := DestroyTokensForTicket(tx, t.ID); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketManualOverride,
		Message: fmt.Sprintf("manual %s recorded for %s", status, t.TNMNumber),
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})
	return nil
}

// UndoResponse reverses a recorded response while it has not been paid,
// returning the ticket to sent and clearing the decision data.
func (t *TNMTicket) UndoResponse(tx *pop.Connection) error {
	switch t.Status {
	case api.TNMStatusApproved, api.TNMStatusPartiallyApproved, api.TNMStatusDenied:
		// a recorded response that has not been paid out yet
	default:
		return api.NewAppError(
			fmt.Errorf("no response to undo on a ticket in status %s", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	t.Status = api.TNMStatusSent
	t.ApprovedAmount = decimal.Zero
	t.ResponseDate = nulls.Time{}

	if err := t.Update(tx); err != nil {
		return err
	}

	return DestroyApprovalsForTicket(tx, t.ID)
}

// MarkPaid closes out a ticket the GC has approved
func (t *TNMTicket) MarkPaid(tx *pop.Connection) error {
	if err := t.markPaidTransition(tx); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiTicketMarkedPaid,
		Message: t.TNMNumber + " marked paid",
		Payload: events.Payload{domain.EventPayloadID: t.ID},
	})
	return nil
}

func (t *TNMTicket) markPaidTransition(tx *pop.Connection) error {
	if t.Status != api.TNMStatusApproved && t.Status != api.TNMStatusPartiallyApproved {
		return api.NewAppError(
			fmt.Errorf("only approved tickets can be marked paid, status is %s", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}
	t.Status = api.TNMStatusPaid
	return t.Update(tx)
}

// Cancel withdraws the ticket
func (t *TNMTicket) Cancel(tx *pop.Connection) error {
	if t.Status == api.TNMStatusPaid || t.Status == api.TNMStatusCancelled {
		return api.NewAppError(
			fmt.Errorf("cannot cancel a ticket in status %s", t.Status),
			api.ErrorTicketStatus,
			api.CategoryUser,
		)
	}

	t.Status = api.TNMStatusCancelled
	if err := t.Update(tx); err != nil {
		return err
	}
	return DestroyTokensForTicket(tx, t.ID)
}

// LoadProject - a simple wrapper method for loading the project
func (t *TNMTicket) LoadProject(tx *pop.Connection, reload bool) {
	if t.Project.ID == uuid.Nil || reload {
		if err := tx.Load(t, "Project"); err != nil {
			panic("error loading ticket project: " + err.Error())
		}
	}
}

// LoadLineItems loads all four line item collections
func (t *TNMTicket) LoadLineItems(tx *pop.Connection, reload bool) {
	if reload || (t.LaborItems == nil && t.MaterialItems == nil &&
		t.EquipmentItems == nil && t.SubcontractorItems == nil) {
		if err := tx.Load(t, "LaborItems", "MaterialItems", "EquipmentItems", "SubcontractorItems"); err != nil {
			panic("error loading ticket line items: " + err.Error())
		}
	}
}

func (ts *TNMTickets) All(tx *pop.Connection) error {
	err := tx.Order("created_at desc").All(ts)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (ts *TNMTickets) FindByProject(tx *pop.Connection, projectID uuid.UUID) error {
	err := tx.Where("project_id = ?", projectID).Order("tnm_number asc").All(ts)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (t *TNMTicket) ConvertToAPI(tx *pop.Connection, hydrate bool) api.TNMTicket {
	out := api.TNMTicket{
		ID:                 t.ID,
		ProjectID:          t.ProjectID,
		TNMNumber:          t.TNMNumber,
		Title:              t.Title,
		Description:        t.Description,
		WorkDate:           convertTimeToAPI(t.WorkDate),
		Status:             t.Status,
		OHPLabor:           convertNullDecimalToAPI(t.OHPLabor),
		OHPMaterial:        convertNullDecimalToAPI(t.OHPMaterial),
		OHPEquipment:       convertNullDecimalToAPI(t.OHPEquipment),
		OHPSubcontractor:   convertNullDecimalToAPI(t.OHPSubcontractor),
		LaborTotal:         pricing.RoundCents(t.LaborTotal),
		MaterialTotal:      pricing.RoundCents(t.MaterialTotal),
		EquipmentTotal:     pricing.RoundCents(t.EquipmentTotal),
		SubcontractorTotal: pricing.RoundCents(t.SubcontractorTotal),
		ProposalAmount:     pricing.RoundCents(t.ProposalAmount),
		ApprovedAmount:     pricing.RoundCents(t.ApprovedAmount),
		EmailSentCount:     t.EmailSentCount,
		ReminderCount:      t.ReminderCount,
		ViewedAt:           convertTimeToAPI(t.ViewedAt),
		ResponseDate:       convertTimeToAPI(t.ResponseDate),
		GCSignatureAssetID: convertUUIDToAPI(t.GCSignatureAssetID),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}

	if hydrate {
		t.LoadLineItems(tx, false)
		out.LaborItems = t.LaborItems.ConvertToAPI()
		out.MaterialItems = t.MaterialItems.ConvertToAPI()
		out.EquipmentItems = t.EquipmentItems.ConvertToAPI()
		out.SubcontractorItems = t.SubcontractorItems.ConvertToAPI()
	}

	return out
}

func (ts *TNMTickets) ConvertToAPI(tx *pop.Connection) api.TNMTickets {
	tickets := make(api.TNMTickets, len(*ts))
	for i, t := range *ts {
		tickets[i] = t.ConvertToAPI(tx, false)
	}
	return tickets
}

func (t TNMTicket) String() string {
	jt, _ := json.Marshal(t)
	return string(jt)
}
