package api

import "time"

type ListSettlementsRequest struct {
	CarrierID string `json:"carrierId,omitempty"`
	Status    string `json:"status,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
	Total       int           `json:"total"`
}

type GetSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type CreateSettlementRequest struct {
	CarrierID   string    `json:"carrierId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	PeriodType  string    `json:"periodType"`
	Notes       string    `json:"notes,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type FinalizeSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type FinalizeSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type MarkSettlementPaidRequest struct {
	SettlementID string `json:"settlementId"`
}

type MarkSettlementPaidResponse struct {
	Settlement *Settlement `json:"settlement"`
}
