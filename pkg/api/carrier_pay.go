package api

type ListCarrierPaysRequest struct {
	CarrierID    string `json:"carrierId,omitempty"`
	SettlementID string `json:"settlementId,omitempty"`
	Status       string `json:"status,omitempty"`
	Page         int    `json:"page,omitempty"`
	PageSize     int    `json:"pageSize,omitempty"`
}

type ListCarrierPaysResponse struct {
	CarrierPays []*CarrierPay `json:"carrierPays"`
	Total       int           `json:"total"`
}

type GetCarrierPayRequest struct {
	CarrierPayID string `json:"carrierPayId"`
}

type GetCarrierPayResponse struct {
	CarrierPay *CarrierPay `json:"carrierPay"`
	Warnings   []string    `json:"warnings,omitempty"`
}

type GetCarrierPaySummaryRequest struct {
	CarrierID string `json:"carrierId"`
}

type GetCarrierPaySummaryResponse struct {
	Summary *CarrierPaySummary `json:"summary"`
}

// QuoteQuickPayRequest prices a quick pay without writing anything. Either
// CarrierPayID is set (the carrier's tier and the record's amount are used) or
// both Tier and Amount are.
type QuoteQuickPayRequest struct {
	CarrierPayID string `json:"carrierPayId,omitempty"`
	Tier         string `json:"tier,omitempty"`
	Amount       string `json:"amount,omitempty"`
}

type QuoteQuickPayResponse struct {
	Quote *QuickPayQuote `json:"quote"`
}

type RequestQuickPayRequest struct {
	CarrierPayID string `json:"carrierPayId"`
}

type RequestQuickPayResponse struct {
	CarrierPay *CarrierPay    `json:"carrierPay"`
	Quote      *QuickPayQuote `json:"quote"`
	Warnings   []string       `json:"warnings,omitempty"`
}

type ApproveCarrierPayRequest struct {
	CarrierPayID string `json:"carrierPayId"`
}

type ApproveCarrierPayResponse struct {
	CarrierPay       *CarrierPay        `json:"carrierPay"`
	FundTransactions []*FundTransaction `json:"fundTransactions,omitempty"`
	Warnings         []string           `json:"warnings,omitempty"`
}

type RejectCarrierPayRequest struct {
	CarrierPayID string `json:"carrierPayId"`
	Reason       string `json:"reason"`
}

type RejectCarrierPayResponse struct {
	CarrierPay *CarrierPay `json:"carrierPay"`
}
