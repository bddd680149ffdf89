package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// TNMStatus is the lifecycle state of a Time & Materials ticket
//
// swagger:model
type TNMStatus string

const (
	TNMStatusDraft             = TNMStatus("draft")
	TNMStatusPendingReview     = TNMStatus("pending_review")
	TNMStatusReadyToSend       = TNMStatus("ready_to_send")
	TNMStatusSent              = TNMStatus("sent")
	TNMStatusViewed            = TNMStatus("viewed")
	TNMStatusPartiallyApproved = TNMStatus("partially_approved")
	TNMStatusApproved          = TNMStatus("approved")
	TNMStatusDenied            = TNMStatus("denied")
	TNMStatusCancelled         = TNMStatus("cancelled")
	TNMStatusPaid              = TNMStatus("paid")
)

// LaborType categorizes labor line items for rate lookup
//
// swagger:model
type LaborType string

const (
	LaborTypeProjectManager = LaborType("project_manager")
	LaborTypeSuperintendent = LaborType("superintendent")
	LaborTypeCarpenter      = LaborType("carpenter")
	LaborTypeLaborer        = LaborType("laborer")
)

// swagger:model
type TNMTickets []TNMTicket

// Time & Materials change-order ticket
// swagger:model
type TNMTicket struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// project the ticket belongs to
	//
	// swagger:strfmt uuid4
	ProjectID uuid.UUID `json:"project_id"`

	// ticket number, e.g. "2417-TNM-003"
	TNMNumber string `json:"tnm_number"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// date the work was performed
	WorkDate *time.Time `json:"work_date,omitempty"`

	Status TNMStatus `json:"status"`

	// per-category OH&P percent overrides; null means inherit from the project
	OHPLabor         *decimal.Decimal `json:"ohp_labor,omitempty"`
	OHPMaterial      *decimal.Decimal `json:"ohp_material,omitempty"`
	OHPEquipment     *decimal.Decimal `json:"ohp_equipment,omitempty"`
	OHPSubcontractor *decimal.Decimal `json:"ohp_subcontractor,omitempty"`

	// marked-up category totals and the resulting proposal amount
	LaborTotal         decimal.Decimal `json:"labor_total"`
	MaterialTotal      decimal.Decimal `json:"material_total"`
	EquipmentTotal     decimal.Decimal `json:"equipment_total"`
	SubcontractorTotal decimal.Decimal `json:"subcontractor_total"`
	ProposalAmount     decimal.Decimal `json:"proposal_amount"`

	// sum of the line totals the GC approved
	ApprovedAmount decimal.Decimal `json:"approved_amount"`

	EmailSentCount int        `json:"email_sent_count"`
	ReminderCount  int        `json:"reminder_count"`
	ViewedAt       *time.Time `json:"viewed_at,omitempty"`
	ResponseDate   *time.Time `json:"response_date,omitempty"`

	// signature image captured on GC approval
	//
	// swagger:strfmt uuid4
	GCSignatureAssetID *uuid.UUID `json:"gc_signature_asset_id,omitempty"`

	LaborItems         LaborItems         `json:"labor_items,omitempty"`
	MaterialItems      MaterialItems      `json:"material_items,omitempty"`
	EquipmentItems     EquipmentItems     `json:"equipment_items,omitempty"`
	SubcontractorItems SubcontractorItems `json:"subcontractor_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TNM ticket create/update input
// swagger:model
type TNMTicketInput struct {
	// swagger:strfmt uuid4
	ProjectID uuid.UUID `json:"project_id"`

	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	WorkDate    *time.Time `json:"work_date,omitempty"`

	OHPLabor         *decimal.Decimal `json:"ohp_labor,omitempty"`
	OHPMaterial      *decimal.Decimal `json:"ohp_material,omitempty"`
	OHPEquipment     *decimal.Decimal `json:"ohp_equipment,omitempty"`
	OHPSubcontractor *decimal.Decimal `json:"ohp_subcontractor,omitempty"`
}

// swagger:model
type LaborItems []LaborItem

// swagger:model
type LaborItem struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Description string          `json:"description"`
	LaborType   LaborType       `json:"labor_type"`
	Hours       decimal.Decimal `json:"hours"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// swagger:model
type LaborItemInput struct {
	Description string          `json:"description"`
	LaborType   LaborType       `json:"labor_type"`
	Hours       decimal.Decimal `json:"hours"`
	RatePerHour decimal.Decimal `json:"rate_per_hour"`
}

// swagger:model
type MaterialItems []MaterialItem

// swagger:model
type MaterialItem struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// swagger:model
type MaterialItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// swagger:model
type EquipmentItems []EquipmentItem

// swagger:model
type EquipmentItem struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// swagger:model
type EquipmentItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// swagger:model
type SubcontractorItems []SubcontractorItem

// swagger:model
type SubcontractorItem struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	CompanyName string          `json:"company_name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`

	// date on the sub's proposal backing this line
	ProposalDate *time.Time `json:"proposal_date,omitempty"`
}

// swagger:model
type SubcontractorItemInput struct {
	CompanyName  string          `json:"company_name"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	ProposalDate *time.Time      `json:"proposal_date,omitempty"`
}

// result of one ticket in a bulk operation
// swagger:model
type BulkTicketResult struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// swagger:model
type BulkTicketsInput struct {
	// ticket IDs to operate on
	IDs []uuid.UUID `json:"ids"`
}
