package api

type UpsertCarrierRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MCNumber     string `json:"mcNumber,omitempty"`
	QuickPayTier string `json:"quickPayTier,omitempty"`
}

type UpsertCarrierResponse struct {
	Carrier *Carrier `json:"carrier"`
}

type CreateCarrierPayRequest struct {
	CarrierID string     `json:"carrierId"`
	LoadID    string     `json:"loadId"`
	Amount    string     `json:"amount"`
	Documents *Documents `json:"documents,omitempty"`
}

type CreateCarrierPayResponse struct {
	CarrierPay *CarrierPay `json:"carrierPay"`
}

type RecordInvoiceRequest struct {
	CarrierID    string `json:"carrierId"`
	LoadID       string `json:"loadId"`
	Amount       string `json:"amount"`
	FactoringFee string `json:"factoringFee,omitempty"`
}

type RecordInvoiceResponse struct {
	Invoice *Invoice `json:"invoice"`
}

type UpdateDocumentsRequest struct {
	CarrierPayID string    `json:"carrierPayId"`
	Documents    Documents `json:"documents"`
}

type UpdateDocumentsResponse struct {
	CarrierPay *CarrierPay `json:"carrierPay"`
	Warnings   []string    `json:"warnings,omitempty"`
}
