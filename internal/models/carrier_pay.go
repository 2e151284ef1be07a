package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarrierPayStatus is the lifecycle state of a carrier pay record.
type CarrierPayStatus string

const (
	CarrierPayPending    CarrierPayStatus = "PENDING"
	CarrierPayScheduled  CarrierPayStatus = "SCHEDULED"
	CarrierPayProcessing CarrierPayStatus = "PROCESSING"
	CarrierPayApproved   CarrierPayStatus = "APPROVED"
	CarrierPayPaid       CarrierPayStatus = "PAID"
	CarrierPayRejected   CarrierPayStatus = "REJECTED"
)

// Terminal reports whether no further transition is possible.
func (s CarrierPayStatus) Terminal() bool {
	return s == CarrierPayPaid || s == CarrierPayRejected
}

// Valid reports whether s is a known status.
func (s CarrierPayStatus) Valid() bool {
	switch s {
	case CarrierPayPending, CarrierPayScheduled, CarrierPayProcessing,
		CarrierPayApproved, CarrierPayPaid, CarrierPayRejected:
		return true
	}
	return false
}

// SettleableStatuses are the statuses a record may have to be swept into a settlement.
// APPROVED is not one of them.
var SettleableStatuses = []CarrierPayStatus{
	CarrierPayPending,
	CarrierPayScheduled,
	CarrierPayProcessing,
	CarrierPayPaid,
}

// PaymentMethodStandard marks a carrier pay that is paid through the normal settlement cycle.
// Quick-pay records carry their tier code instead.
const PaymentMethodStandard = "STANDARD"

// Documents tracks the paperwork received for the load behind a carrier pay.
type Documents struct {
	BOLReceived            bool
	PODReceived            bool
	RateConfirmationSigned bool
	CarrierInvoiceReceived bool
}

// CarrierPay is one payable obligation owed to a carrier for a specific load.
type CarrierPay struct {
	// ID is the unique identifier (UUID format).
	ID string

	CarrierID string
	LoadID    string

	// Amount is the gross amount owed. It never changes after creation.
	Amount decimal.Decimal

	// QuickPayDiscount is the fee withheld for quick pay, set when quick pay is requested.
	QuickPayDiscount decimal.NullDecimal

	// NetAmount is what the carrier receives after the quick-pay discount.
	NetAmount decimal.NullDecimal

	// PaymentMethod is STANDARD or the quick-pay tier code.
	PaymentMethod string

	Status CarrierPayStatus

	// SettlementID is empty until the record is linked to a settlement.
	// Once set it is never reassigned.
	SettlementID string

	Documents Documents

	// ScheduledFor is the quick-pay payout date promised by the tier.
	ScheduledFor *time.Time

	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

// IsQuickPay reports whether a quick-pay quote has been recorded on the record.
func (c *CarrierPay) IsQuickPay() bool {
	return c.QuickPayDiscount.Valid
}

// Settled reports whether the record is linked to a settlement.
func (c *CarrierPay) Settled() bool {
	return c.SettlementID != ""
}

// CarrierPayFilter narrows ListCarrierPays. Zero values match everything.
type CarrierPayFilter struct {
	CarrierID    string
	SettlementID string
	Status       CarrierPayStatus
	Page         int
	PageSize     int
}

// StatusTotal is the count and gross amount of carrier pays in one status.
type StatusTotal struct {
	Count  int
	Amount decimal.Decimal
}

// CarrierPaySummary aggregates a carrier's pay records for display.
type CarrierPaySummary struct {
	CarrierID string
	Count     int
	Total     decimal.Decimal

	// Unsettled is the gross amount not yet linked to any settlement.
	Unsettled decimal.Decimal

	// QuickPayFees is the sum of quick-pay discounts taken.
	QuickPayFees decimal.Decimal

	ByStatus map[CarrierPayStatus]StatusTotal
}
