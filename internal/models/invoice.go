package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the part of a customer invoice the settlement batcher reads.
// Invoices are written by the billing system; the ledger never changes them.
type Invoice struct {
	ID        string
	CarrierID string
	LoadID    string
	Amount    decimal.Decimal

	// FactoringFee is deducted from the carrier's settlement for the period
	// the invoice was created in.
	FactoringFee decimal.NullDecimal

	CreatedAt time.Time
}
