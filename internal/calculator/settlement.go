package calculator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/models"
)

// SettlementNumberPrefix precedes every settlement number.
const SettlementNumberPrefix = "STL-"

// FirstSettlementSequence seeds numbering when no settlement exists yet.
const FirstSettlementSequence = 1001

// NextSettlementNumber returns the number following latest.
// An empty latest means no settlement exists and numbering starts at STL-1001.
func NextSettlementNumber(latest string) (string, error) {
	if latest == "" {
		return FormatSettlementNumber(FirstSettlementSequence), nil
	}
	seq, err := ParseSettlementNumber(latest)
	if err != nil {
		return "", err
	}
	return FormatSettlementNumber(seq + 1), nil
}

// ParseSettlementNumber strips the prefix and returns the integer suffix.
func ParseSettlementNumber(number string) (int64, error) {
	suffix, ok := strings.CutPrefix(number, SettlementNumberPrefix)
	if !ok {
		return 0, fmt.Errorf("settlement number %q missing prefix %q", number, SettlementNumberPrefix)
	}
	seq, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("settlement number %q has invalid suffix: %w", number, err)
	}
	return seq, nil
}

// FormatSettlementNumber renders seq with the settlement prefix.
func FormatSettlementNumber(seq int64) string {
	return SettlementNumberPrefix + strconv.FormatInt(seq, 10)
}

// SettlementTotals is the frozen money snapshot of a settlement.
type SettlementTotals struct {
	GrossPay      decimal.Decimal
	Deductions    decimal.Decimal
	NetSettlement decimal.Decimal
}

// NewSettlementTotals derives the net from gross and deductions.
func NewSettlementTotals(gross, deductions decimal.Decimal) SettlementTotals {
	return SettlementTotals{
		GrossPay:      gross,
		Deductions:    deductions,
		NetSettlement: gross.Sub(deductions),
	}
}

// Balanced reports whether net == gross - deductions.
func (t SettlementTotals) Balanced() bool {
	return t.GrossPay.Sub(t.Deductions).Equal(t.NetSettlement)
}

// GrossPay sums the gross amounts of pays.
func GrossPay(pays []*models.CarrierPay) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pays {
		total = total.Add(p.Amount)
	}
	return total
}

// QuickPayDiscounts sums the quick-pay discounts of pays, counting missing ones as zero.
func QuickPayDiscounts(pays []*models.CarrierPay) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pays {
		if p.QuickPayDiscount.Valid {
			total = total.Add(p.QuickPayDiscount.Decimal)
		}
	}
	return total
}

// FactoringFees sums the factoring fees recorded on invoices.
func FactoringFees(invoices []*models.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.FactoringFee.Valid {
			total = total.Add(inv.FactoringFee.Decimal)
		}
	}
	return total
}

// SummarizeCarrierPays aggregates one carrier's pay records by status.
func SummarizeCarrierPays(carrierID string, pays []*models.CarrierPay) *models.CarrierPaySummary {
	summary := &models.CarrierPaySummary{
		CarrierID:    carrierID,
		Total:        decimal.Zero,
		Unsettled:    decimal.Zero,
		QuickPayFees: decimal.Zero,
		ByStatus:     make(map[models.CarrierPayStatus]models.StatusTotal),
	}

	for _, p := range pays {
		summary.Count++
		summary.Total = summary.Total.Add(p.Amount)
		if !p.Settled() {
			summary.Unsettled = summary.Unsettled.Add(p.Amount)
		}
		if p.QuickPayDiscount.Valid {
			summary.QuickPayFees = summary.QuickPayFees.Add(p.QuickPayDiscount.Decimal)
		}

		bucket, ok := summary.ByStatus[p.Status]
		if !ok {
			bucket.Amount = decimal.Zero
		}
		bucket.Count++
		bucket.Amount = bucket.Amount.Add(p.Amount)
		summary.ByStatus[p.Status] = bucket
	}

	return summary
}
