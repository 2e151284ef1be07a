package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle state of a settlement.
// Settlements only move forward: DRAFT -> FINALIZED -> PAID.
type SettlementStatus string

const (
	SettlementDraft     SettlementStatus = "DRAFT"
	SettlementFinalized SettlementStatus = "FINALIZED"
	SettlementPaid      SettlementStatus = "PAID"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	return s == SettlementDraft || s == SettlementFinalized || s == SettlementPaid
}

// PeriodType is the granularity of a settlement period.
type PeriodType string

const (
	PeriodWeekly   PeriodType = "WEEKLY"
	PeriodBiweekly PeriodType = "BIWEEKLY"
)

// Settlement is a batch of carrier pays for one carrier over one period.
//
// GrossPay, Deductions and NetSettlement are a snapshot taken at creation;
// later changes to linked carrier pays do not alter them.
type Settlement struct {
	// ID is the unique identifier (UUID format).
	ID string

	// SettlementNumber is the human-readable number, e.g. "STL-1042".
	SettlementNumber string

	CarrierID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodType  PeriodType

	// GrossPay is the sum of the linked carrier pays' amounts.
	GrossPay decimal.Decimal

	// Deductions is quick-pay discounts plus invoice factoring fees for the period.
	Deductions decimal.Decimal

	// NetSettlement is always GrossPay - Deductions.
	NetSettlement decimal.Decimal

	Notes  string
	Status SettlementStatus

	// CreatedBy is the user ID of the operator who created the settlement.
	CreatedBy string

	CreatedAt   time.Time
	FinalizedAt *time.Time
	PaidAt      *time.Time

	// Carrier and CarrierPays are populated for display on detail reads.
	Carrier     *Carrier
	CarrierPays []*CarrierPay
}

// SettlementFilter narrows ListSettlements. Zero values match everything.
type SettlementFilter struct {
	CarrierID string
	Status    SettlementStatus
	Page      int
	PageSize  int
}
