package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/pkg/api"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

// parseAmount reads a decimal money field. Amounts carry at most two decimal places.
func parseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Decimal{}, apperr.Validation("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, apperr.Validation("%s is not a decimal: %q", field, value)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, apperr.Validation("%s has more than two decimal places: %q", field, value)
	}
	return d, nil
}

// parsePositiveAmount is parseAmount for fields that must be greater than zero.
func parsePositiveAmount(field, value string) (decimal.Decimal, error) {
	d, err := parseAmount(field, value)
	if err != nil {
		return d, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, apperr.Validation("%s must be greater than zero", field)
	}
	return d, nil
}

func documentsToAPI(d models.Documents) api.Documents {
	return api.Documents{
		BOLReceived:            d.BOLReceived,
		PODReceived:            d.PODReceived,
		RateConfirmationSigned: d.RateConfirmationSigned,
		CarrierInvoiceReceived: d.CarrierInvoiceReceived,
	}
}

func documentsFromAPI(d api.Documents) models.Documents {
	return models.Documents{
		BOLReceived:            d.BOLReceived,
		PODReceived:            d.PODReceived,
		RateConfirmationSigned: d.RateConfirmationSigned,
		CarrierInvoiceReceived: d.CarrierInvoiceReceived,
	}
}

func carrierToAPI(c *models.Carrier) *api.Carrier {
	if c == nil {
		return nil
	}
	return &api.Carrier{
		ID:           c.ID,
		Name:         c.Name,
		MCNumber:     c.MCNumber,
		QuickPayTier: c.QuickPayTier,
		CreatedAt:    c.CreatedAt,
	}
}

func carrierPayToAPI(cp *models.CarrierPay) *api.CarrierPay {
	return &api.CarrierPay{
		ID:               cp.ID,
		CarrierID:        cp.CarrierID,
		LoadID:           cp.LoadID,
		Amount:           money(cp.Amount),
		QuickPayDiscount: nullMoney(cp.QuickPayDiscount),
		NetAmount:        nullMoney(cp.NetAmount),
		PaymentMethod:    cp.PaymentMethod,
		Status:           string(cp.Status),
		SettlementID:     cp.SettlementID,
		Documents:        documentsToAPI(cp.Documents),
		ScheduledFor:     cp.ScheduledFor,
		ApprovedBy:       cp.ApprovedBy,
		ApprovedAt:       cp.ApprovedAt,
		RejectionReason:  cp.RejectionReason,
		CreatedAt:        cp.CreatedAt,
		UpdatedAt:        cp.UpdatedAt,
		PaidAt:           cp.PaidAt,
	}
}

func carrierPaysToAPI(pays []*models.CarrierPay) []*api.CarrierPay {
	out := make([]*api.CarrierPay, len(pays))
	for i, cp := range pays {
		out[i] = carrierPayToAPI(cp)
	}
	return out
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	out := &api.Settlement{
		ID:               s.ID,
		SettlementNumber: s.SettlementNumber,
		CarrierID:        s.CarrierID,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		PeriodType:       string(s.PeriodType),
		GrossPay:         money(s.GrossPay),
		Deductions:       money(s.Deductions),
		NetSettlement:    money(s.NetSettlement),
		Notes:            s.Notes,
		Status:           string(s.Status),
		CreatedBy:        s.CreatedBy,
		CreatedAt:        s.CreatedAt,
		FinalizedAt:      s.FinalizedAt,
		PaidAt:           s.PaidAt,
		Carrier:          carrierToAPI(s.Carrier),
	}
	if len(s.CarrierPays) > 0 {
		out.CarrierPays = carrierPaysToAPI(s.CarrierPays)
	}
	return out
}

func fundTransactionToAPI(tx *models.FundTransaction) *api.FundTransaction {
	return &api.FundTransaction{
		Seq:          tx.Seq,
		ID:           tx.ID,
		Type:         string(tx.Type),
		Amount:       money(tx.Amount),
		Description:  tx.Description,
		Reference:    tx.Reference,
		BalanceAfter: money(tx.BalanceAfter),
		CreatedAt:    tx.CreatedAt,
	}
}

func fundTransactionsToAPI(txs []*models.FundTransaction) []*api.FundTransaction {
	out := make([]*api.FundTransaction, len(txs))
	for i, tx := range txs {
		out[i] = fundTransactionToAPI(tx)
	}
	return out
}

func invoiceToAPI(inv *models.Invoice) *api.Invoice {
	return &api.Invoice{
		ID:           inv.ID,
		CarrierID:    inv.CarrierID,
		LoadID:       inv.LoadID,
		Amount:       money(inv.Amount),
		FactoringFee: nullMoney(inv.FactoringFee),
		CreatedAt:    inv.CreatedAt,
	}
}

func quoteToAPI(q calculator.Quote) *api.QuickPayQuote {
	return &api.QuickPayQuote{
		Tier:            string(q.Tier),
		GrossAmount:     money(q.Gross),
		FeePercent:      q.FeePercent.StringFixed(1),
		FeeAmount:       money(q.FeeAmount),
		NetAmount:       money(q.NetAmount),
		PayoutSpeed:     q.PayoutSpeed,
		PayoutDelayDays: int(q.PayoutDelay.Hours() / 24),
	}
}

func summaryToAPI(s *models.CarrierPaySummary) *api.CarrierPaySummary {
	byStatus := make(map[string]api.StatusTotal, len(s.ByStatus))
	for status, total := range s.ByStatus {
		byStatus[string(status)] = api.StatusTotal{Count: total.Count, Amount: money(total.Amount)}
	}
	return &api.CarrierPaySummary{
		CarrierID:    s.CarrierID,
		Count:        s.Count,
		Total:        money(s.Total),
		Unsettled:    money(s.Unsettled),
		QuickPayFees: money(s.QuickPayFees),
		ByStatus:     byStatus,
	}
}
