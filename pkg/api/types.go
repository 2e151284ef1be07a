// Package api defines the request and response messages of the freightledger.v1
// Connect services. Messages travel as JSON: money is a decimal string with two
// places ("1250.00"), timestamps are RFC 3339.
package api

import "time"

type Documents struct {
	BOLReceived            bool `json:"bolReceived"`
	PODReceived            bool `json:"podReceived"`
	RateConfirmationSigned bool `json:"rateConfirmationSigned"`
	CarrierInvoiceReceived bool `json:"carrierInvoiceReceived"`
}

type Carrier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MCNumber     string    `json:"mcNumber,omitempty"`
	QuickPayTier string    `json:"quickPayTier,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CarrierPay struct {
	ID               string     `json:"id"`
	CarrierID        string     `json:"carrierId"`
	LoadID           string     `json:"loadId"`
	Amount           string     `json:"amount"`
	QuickPayDiscount string     `json:"quickPayDiscount,omitempty"`
	NetAmount        string     `json:"netAmount,omitempty"`
	PaymentMethod    string     `json:"paymentMethod"`
	Status           string     `json:"status"`
	SettlementID     string     `json:"settlementId,omitempty"`
	Documents        Documents  `json:"documents"`
	ScheduledFor     *time.Time `json:"scheduledFor,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	RejectionReason  string     `json:"rejectionReason,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

type Settlement struct {
	ID               string        `json:"id"`
	SettlementNumber string        `json:"settlementNumber"`
	CarrierID        string        `json:"carrierId"`
	PeriodStart      time.Time     `json:"periodStart"`
	PeriodEnd        time.Time     `json:"periodEnd"`
	PeriodType       string        `json:"periodType"`
	GrossPay         string        `json:"grossPay"`
	Deductions       string        `json:"deductions"`
	NetSettlement    string        `json:"netSettlement"`
	Notes            string        `json:"notes,omitempty"`
	Status           string        `json:"status"`
	CreatedBy        string        `json:"createdBy,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	FinalizedAt      *time.Time    `json:"finalizedAt,omitempty"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"`
	Carrier          *Carrier      `json:"carrier,omitempty"`
	CarrierPays      []*CarrierPay `json:"carrierPays,omitempty"`
}

type FundTransaction struct {
	Seq          int64     `json:"seq"`
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	Description  string    `json:"description"`
	Reference    string    `json:"reference,omitempty"`
	BalanceAfter string    `json:"balanceAfter"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Invoice struct {
	ID           string    `json:"id"`
	CarrierID    string    `json:"carrierId"`
	LoadID       string    `json:"loadId"`
	Amount       string    `json:"amount"`
	FactoringFee string    `json:"factoringFee,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type QuickPayQuote struct {
	Tier            string `json:"tier"`
	GrossAmount     string `json:"grossAmount"`
	FeePercent      string `json:"feePercent"`
	FeeAmount       string `json:"feeAmount"`
	NetAmount       string `json:"netAmount"`
	PayoutSpeed     string `json:"payoutSpeed"`
	PayoutDelayDays int    `json:"payoutDelayDays"`
}

type StatusTotal struct {
	Count  int    `json:"count"`
	Amount string `json:"amount"`
}

type CarrierPaySummary struct {
	CarrierID    string                 `json:"carrierId"`
	Count        int                    `json:"count"`
	Total        string                 `json:"total"`
	Unsettled    string                 `json:"unsettled"`
	QuickPayFees string                 `json:"quickPayFees"`
	ByStatus     map[string]StatusTotal `json:"byStatus"`
}
