// Package pricing computes Time & Materials change-order amounts. It is pure
// math over decimal values, with no database or HTTP dependencies, so the
// same numbers come out wherever a ticket is priced.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Category identifies which OH&P percent applies to a line item
type Category string

const (
	CategoryLabor         = Category("labor")
	CategoryMaterial      = Category("material")
	CategoryEquipment     = Category("equipment")
	CategorySubcontractor = Category("subcontractor")
)

var Categories = []Category{CategoryLabor, CategoryMaterial, CategoryEquipment, CategorySubcontractor}

var oneHundred = decimal.NewFromInt(100)

// LineItem carries the quantities needed to price one line. Only the fields
// for its category are read: labor uses Hours and RatePerHour,
// material/equipment use Quantity and UnitPrice, subcontractor uses Amount.
type LineItem struct {
	Category    Category
	Hours       decimal.Decimal
	RatePerHour decimal.Decimal
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// RateSet holds the effective OH&P percent for each category
type RateSet struct {
	Labor         decimal.Decimal
	Material      decimal.Decimal
	Equipment     decimal.Decimal
	Subcontractor decimal.Decimal
}

// For returns the percent for the given category, zero for an unknown one
func (r RateSet) For(c Category) decimal.Decimal {
	switch c {
	case CategoryLabor:
		return r.Labor
	case CategoryMaterial:
		return r.Material
	case CategoryEquipment:
		return r.Equipment
	case CategorySubcontractor:
		return r.Subcontractor
	}
	return decimal.Zero
}

// Breakdown is the result of pricing a full set of line items. Subtotals are
// pre-markup sums per category; totals have OH&P applied. Nothing is rounded:
// rounding to cents belongs at the presentation edge, see RoundCents.
type Breakdown struct {
	LaborSubtotal         decimal.Decimal
	MaterialSubtotal      decimal.Decimal
	EquipmentSubtotal     decimal.Decimal
	SubcontractorSubtotal decimal.Decimal

	LaborTotal         decimal.Decimal
	MaterialTotal      decimal.Decimal
	EquipmentTotal     decimal.Decimal
	SubcontractorTotal decimal.Decimal

	ProposalAmount decimal.Decimal
}

// FromFloat converts a float to a decimal, coercing NaN and ±Inf to zero.
// Garbage quantities price as nothing rather than poisoning a proposal.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// LineSubtotal computes the pre-markup amount for a single line item. An
// unknown category prices as zero; it never errors.
func LineSubtotal(item LineItem) decimal.Decimal {
	switch item.Category {
	case CategoryLabor:
		return item.Hours.Mul(item.RatePerHour)
	case CategoryMaterial, CategoryEquipment:
		return item.Quantity.Mul(item.UnitPrice)
	case CategorySubcontractor:
		return item.Amount
	}
	return decimal.Zero
}

// SumCategory sums the subtotals of the items in the given category
func SumCategory(items []LineItem, c Category) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.Category == c {
			sum = sum.Add(LineSubtotal(item))
		}
	}
	return sum
}

// ApplyOHP marks up a subtotal by the given percent: subtotal × (1 + p/100)
func ApplyOHP(subtotal, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(percent.Div(oneHundred)))
}

// LineTotal is a line's subtotal with its category's OH&P applied
func LineTotal(item LineItem, rates RateSet) decimal.Decimal {
	return ApplyOHP(LineSubtotal(item), rates.For(item.Category))
}

// ComputeProposal prices all line items: per-category subtotals, marked-up
// totals, and the proposal amount as their sum.
func ComputeProposal(items []LineItem, rates RateSet) Breakdown {
	b := Breakdown{
		LaborSubtotal:         SumCategory(items, CategoryLabor),
		MaterialSubtotal:      SumCategory(items, CategoryMaterial),
		EquipmentSubtotal:     SumCategory(items, CategoryEquipment),
		SubcontractorSubtotal: SumCategory(items, CategorySubcontractor),
	}

	b.LaborTotal = ApplyOHP(b.LaborSubtotal, rates.Labor)
	b.MaterialTotal = ApplyOHP(b.MaterialSubtotal, rates.Material)
	b.EquipmentTotal = ApplyOHP(b.EquipmentSubtotal, rates.Equipment)
	b.SubcontractorTotal = ApplyOHP(b.SubcontractorSubtotal, rates.Subcontractor)

	b.ProposalAmount = b.LaborTotal.
		Add(b.MaterialTotal).
		Add(b.EquipmentTotal).
		Add(b.SubcontractorTotal)

	return b
}

// RoundCents rounds to two decimal places for display. Stored amounts keep
// full precision.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
