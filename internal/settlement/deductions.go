package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

// Batch is what a DeductionSource sees while a settlement is being built.
type Batch struct {
	CarrierID   string
	PeriodStart time.Time
	PeriodEnd   time.Time

	// CarrierPays are the records selected for the settlement.
	CarrierPays []*models.CarrierPay
}

// DeductionSource contributes one kind of deduction to a settlement.
// Deductions runs inside the settlement transaction and reads through repo.
type DeductionSource interface {
	Name() string
	Deductions(ctx context.Context, repo storage.Repository, batch Batch) (decimal.Decimal, error)
}

// QuickPayDiscounts deducts the quick-pay fees recorded on the selected carrier pays.
type QuickPayDiscounts struct{}

func (QuickPayDiscounts) Name() string { return "quick_pay_discounts" }

func (QuickPayDiscounts) Deductions(_ context.Context, _ storage.Repository, batch Batch) (decimal.Decimal, error) {
	return calculator.QuickPayDiscounts(batch.CarrierPays), nil
}

// InvoiceFactoringFees deducts factoring fees on the carrier's invoices created in the period.
type InvoiceFactoringFees struct{}

func (InvoiceFactoringFees) Name() string { return "invoice_factoring_fees" }

func (InvoiceFactoringFees) Deductions(ctx context.Context, repo storage.Repository, batch Batch) (decimal.Decimal, error) {
	invoices, err := repo.ListInvoicesInPeriod(ctx, batch.CarrierID, batch.PeriodStart, batch.PeriodEnd)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.FactoringFees(invoices), nil
}

// DefaultDeductionSources are the sources a Batcher uses when none are given.
func DefaultDeductionSources() []DeductionSource {
	return []DeductionSource{QuickPayDiscounts{}, InvoiceFactoringFees{}}
}
