package api

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Balance string `json:"balance"`

	// LastSeq is the seq of the newest transaction, 0 for an empty fund.
	LastSeq int64 `json:"lastSeq"`
}

type ListTransactionsRequest struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*FundTransaction `json:"transactions"`
	Total        int                `json:"total"`
}

type DepositRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type DepositResponse struct {
	Transaction *FundTransaction `json:"transaction"`
}

type WithdrawRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type WithdrawResponse struct {
	Transaction *FundTransaction `json:"transaction"`
}

// AdjustRequest records a signed correction; a negative amount reduces the fund.
type AdjustRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type AdjustResponse struct {
	Transaction *FundTransaction `json:"transaction"`
}
