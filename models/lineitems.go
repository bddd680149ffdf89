package models

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/pricing"
)

// TicketLineItem is the behavior shared by the four line item types, for
// handlers that operate on any of them.
type TicketLineItem interface {
	GetID() uuid.UUID
	GetTicketID() uuid.UUID
	FindByID(*pop.Connection, uuid.UUID) error
	Create(*pop.Connection) error
	Update(*pop.Connection) error
	Destroy(*pop.Connection) error
}

// checkTicketUnlocked refuses line item changes once the ticket has gone out
// to the GC.
func checkTicketUnlocked(tx *pop.Connection, ticketID uuid.UUID) (TNMTicket, error) {
	var ticket TNMTicket
	if err := ticket.FindByID(tx, ticketID); err != nil {
		return ticket, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	if ticket.IsLocked() {
		return ticket, api.NewAppError(
			fmt.Errorf("ticket %s is locked in status %s", ticket.TNMNumber, ticket.Status),
			api.ErrorTicketLocked,
			api.CategoryUser,
		)
	}
	return ticket, nil
}

// LaborItem is one labor line on a ticket, priced as hours times rate
type LaborItem struct {
	ID          uuid.UUID       `db:"id"`
	TicketID    uuid.UUID       `db:"ticket_id" validate:"required"`
	Description string          `db:"description" validate:"required"`
	LaborType   api.LaborType   `db:"labor_type" validate:"laborType"`
	Hours       decimal.Decimal `db:"hours"`
	RatePerHour decimal.Decimal `db:"rate_per_hour"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type LaborItems []LaborItem

func (l *LaborItem) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(l), nil
}

func (l *LaborItem) Create(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, l.TicketID); err != nil {
		return err
	}
	return create(tx, l)
}

func (l *LaborItem) Update(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, l.TicketID); err != nil {
		return err
	}
	return update(tx, l)
}

func (l *LaborItem) Destroy(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, l.TicketID); err != nil {
		return err
	}
	return destroy(tx, l)
}

func (l *LaborItem) GetID() uuid.UUID {
	return l.ID
}

func (l *LaborItem) GetTicketID() uuid.UUID {
	return l.TicketID
}

func (l *LaborItem) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, l, id)
}

func (l *LaborItem) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	return lineItemActorAllowed(tx, actor, p, l.TicketID)
}

func (l *LaborItem) PricingItem() pricing.LineItem {
	return pricing.LineItem{
		Category:    pricing.CategoryLabor,
		Hours:       l.Hours,
		RatePerHour: l.RatePerHour,
	}
}

func (l *LaborItem) ConvertToAPI() api.LaborItem {
	return api.LaborItem{
		ID:          l.ID,
		Description: l.Description,
		LaborType:   l.LaborType,
		Hours:       l.Hours,
		RatePerHour: l.RatePerHour,
		Subtotal:    pricing.RoundCents(pricing.LineSubtotal(l.PricingItem())),
	}
}

func (ls *LaborItems) ConvertToAPI() api.LaborItems {
	items := make(api.LaborItems, len(*ls))
	for i, l := range *ls {
		items[i] = l.ConvertToAPI()
	}
	return items
}

// MaterialItem is one material line, priced as quantity times unit price
type MaterialItem struct {
	ID          uuid.UUID       `db:"id"`
	TicketID    uuid.UUID       `db:"ticket_id" validate:"required"`
	Description string          `db:"description" validate:"required"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type MaterialItems []MaterialItem

func (m *MaterialItem) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(m), nil
}

func (m *MaterialItem) Create(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, m.TicketID); err != nil {
		return err
	}
	return create(tx, m)
}

func (m *MaterialItem) Update(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, m.TicketID); err != nil {
		return err
	}
	return update(tx, m)
}

func (m *MaterialItem) Destroy(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, m.TicketID); err != nil {
		return err
	}
	return destroy(tx, m)
}

func (m *MaterialItem) GetID() uuid.UUID {
	return m.ID
}

func (m *MaterialItem) GetTicketID() uuid.UUID {
	return m.TicketID
}

func (m *MaterialItem) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, m, id)
}

func (m *MaterialItem) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	return lineItemActorAllowed(tx, actor, p, m.TicketID)
}

func (m *MaterialItem) PricingItem() pricing.LineItem {
	return pricing.LineItem{
		Category:  pricing.CategoryMaterial,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
	}
}

func (m *MaterialItem) ConvertToAPI() api.MaterialItem {
	return api.MaterialItem{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    pricing.RoundCents(pricing.LineSubtotal(m.PricingItem())),
	}
}

func (ms *MaterialItems) ConvertToAPI() api.MaterialItems {
	items := make(api.MaterialItems, len(*ms))
	for i, m := range *ms {
		items[i] = m.ConvertToAPI()
	}
	return items
}

// EquipmentItem is one equipment line, priced as quantity times unit price
type EquipmentItem struct {
	ID          uuid.UUID       `db:"id"`
	TicketID    uuid.UUID       `db:"ticket_id" validate:"required"`
	Description string          `db:"description" validate:"required"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type EquipmentItems []EquipmentItem

func (e *EquipmentItem) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(e), nil
}

func (e *EquipmentItem) Create(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, e.TicketID); err != nil {
		return err
	}
	return create(tx, e)
}

func (e *EquipmentItem) Update(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, e.TicketID); err != nil {
		return err
	}
	return update(tx, e)
}

func (e *EquipmentItem) Destroy(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, e.TicketID); err != nil {
		return err
	}
	return destroy(tx, e)
}

func (e *EquipmentItem) GetID() uuid.UUID {
	return e.ID
}

func (e *EquipmentItem) GetTicketID() uuid.UUID {
	return e.TicketID
}

func (e *EquipmentItem) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, e, id)
}

func (e *EquipmentItem) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	return lineItemActorAllowed(tx, actor, p, e.TicketID)
}

func (e *EquipmentItem) PricingItem() pricing.LineItem {
	return pricing.LineItem{
		Category:  pricing.CategoryEquipment,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice,
	}
}

func (e *EquipmentItem) ConvertToAPI() api.EquipmentItem {
	return api.EquipmentItem{
		ID:          e.ID,
		Description: e.Description,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		Subtotal:    pricing.RoundCents(pricing.LineSubtotal(e.PricingItem())),
	}
}

func (es *EquipmentItems) ConvertToAPI() api.EquipmentItems {
	items := make(api.EquipmentItems, len(*es))
	for i, e := range *es {
		items[i] = e.ConvertToAPI()
	}
	return items
}

// SubcontractorItem is a flat-amount line from a sub
type SubcontractorItem struct {
	ID           uuid.UUID       `db:"id"`
	TicketID     uuid.UUID       `db:"ticket_id" validate:"required"`
	CompanyName  string          `db:"company_name" validate:"required"`
	Description  string          `db:"description"`
	Amount       decimal.Decimal `db:"amount"`
	ProposalDate nulls.Time      `db:"proposal_date"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type SubcontractorItems []SubcontractorItem

func (s *SubcontractorItem) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(s), nil
}

func (s *SubcontractorItem) Create(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, s.TicketID); err != nil {
		return err
	}
	return create(tx, s)
}

func (s *SubcontractorItem) Update(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, s.TicketID); err != nil {
		return err
	}
	return update(tx, s)
}

func (s *SubcontractorItem) Destroy(tx *pop.Connection) error {
	if _, err := checkTicketUnlocked(tx, s.TicketID); err != nil {
		return err
	}
	return destroy(tx, s)
}

func (s *SubcontractorItem) GetID() uuid.UUID {
	return s.ID
}

func (s *SubcontractorItem) GetTicketID() uuid.UUID {
	return s.TicketID
}

func (s *SubcontractorItem) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, s, id)
}

func (s *SubcontractorItem) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	return lineItemActorAllowed(tx, actor, p, s.TicketID)
}

func (s *SubcontractorItem) PricingItem() pricing.LineItem {
	return pricing.LineItem{
		Category: pricing.CategorySubcontractor,
		Amount:   s.Amount,
	}
}

func (s *SubcontractorItem) ConvertToAPI() api.SubcontractorItem {
	return api.SubcontractorItem{
		ID:           s.ID,
		CompanyName:  s.CompanyName,
		Description:  s.Description,
		Amount:       pricing.RoundCents(s.Amount),
		ProposalDate: convertTimeToAPI(s.ProposalDate),
	}
}

func (ss *SubcontractorItems) ConvertToAPI() api.SubcontractorItems {
	items := make(api.SubcontractorItems, len(*ss))
	for i, s := range *ss {
		items[i] = s.ConvertToAPI()
	}
	return items
}

// lineItemActorAllowed defers to the owning ticket's items rule
func lineItemActorAllowed(tx *pop.Connection, actor User, p Permission, ticketID uuid.UUID) bool {
	var ticket TNMTicket
	if err := ticket.FindByID(tx, ticketID); err != nil {
		return false
	}
	return ticket.IsActorAllowedTo(tx, actor, p, SubResource(api.ResourceItems), nil)
}
