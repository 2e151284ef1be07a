package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundTransactionType classifies a movement of the factoring fund.
type FundTransactionType string

const (
	FundDeposit              FundTransactionType = "DEPOSIT"
	FundWithdrawal           FundTransactionType = "WITHDRAWAL"
	FundQuickPayFee          FundTransactionType = "QUICK_PAY_FEE"
	FundQuickPayDisbursement FundTransactionType = "QUICK_PAY_DISBURSEMENT"
	FundInterest             FundTransactionType = "INTEREST"
	FundAdjustment           FundTransactionType = "ADJUSTMENT"
)

// Valid reports whether t is a known transaction type.
func (t FundTransactionType) Valid() bool {
	switch t {
	case FundDeposit, FundWithdrawal, FundQuickPayFee,
		FundQuickPayDisbursement, FundInterest, FundAdjustment:
		return true
	}
	return false
}

// FundTransaction is one immutable entry in the factoring fund ledger.
type FundTransaction struct {
	// Seq orders the ledger. It starts at 1 and has no gaps.
	Seq int64

	// ID is the unique identifier (UUID format).
	ID string

	Type FundTransactionType

	// Amount is signed: negative entries reduce the fund.
	Amount decimal.Decimal

	Description string

	// Reference optionally points at the carrier pay that caused the entry.
	Reference string

	// BalanceAfter is the running sum of Amount up to and including this entry.
	BalanceAfter decimal.Decimal

	CreatedAt time.Time
}
