package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalDecision is the GC's overall answer on a ticket
//
// swagger:model
type ApprovalDecision string

const (
	ApprovalDecisionApproveAll = ApprovalDecision("approve_all")
	ApprovalDecisionDenyAll    = ApprovalDecision("deny_all")
	ApprovalDecisionPartial    = ApprovalDecision("partial")
)

// what the GC sees when opening an approval link
// swagger:model
type ApprovalView struct {
	TNMNumber      string          `json:"tnm_number"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	ProjectName    string          `json:"project_name"`
	CompanyName    string          `json:"company_name"`
	WorkDate       *time.Time      `json:"work_date,omitempty"`
	ProposalAmount decimal.Decimal `json:"proposal_amount"`

	LaborTotal         decimal.Decimal `json:"labor_total"`
	MaterialTotal      decimal.Decimal `json:"material_total"`
	EquipmentTotal     decimal.Decimal `json:"equipment_total"`
	SubcontractorTotal decimal.Decimal `json:"subcontractor_total"`

	LaborItems         LaborItems         `json:"labor_items"`
	MaterialItems      MaterialItems      `json:"material_items"`
	EquipmentItems     EquipmentItems     `json:"equipment_items"`
	SubcontractorItems SubcontractorItems `json:"subcontractor_items"`

	ExpiresAt time.Time `json:"expires_at"`
}

// one GC decision on a single line item
// swagger:model
type LineDecisionInput struct {
	// swagger:strfmt uuid4
	LineItemID uuid.UUID `json:"line_item_id"`

	Approved bool   `json:"approved"`
	Note     string `json:"note,omitempty"`
}

// the GC's response to an approval request
// swagger:model
type ApprovalSubmitInput struct {
	Decision ApprovalDecision `json:"decision"`

	// per-line decisions; required when decision is 'partial'
	Lines []LineDecisionInput `json:"lines,omitempty"`

	// name typed or drawn by the approver
	SignerName string `json:"signer_name"`

	// base64-encoded PNG of the signature, optional
	SignatureImage string `json:"signature_image,omitempty"`

	Comment string `json:"comment,omitempty"`
}

// swagger:model
type ApprovalResult struct {
	Status         TNMStatus       `json:"status"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ResponseDate   time.Time       `json:"response_date"`
}
