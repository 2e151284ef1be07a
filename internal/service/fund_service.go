package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/fund"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/pkg/api"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
)

// FundService implements the Connect FundService
type FundService struct {
	ledger *fund.Ledger
}

var _ apiconnect.FundServiceHandler = (*FundService)(nil)

// NewFundService creates a new FundService backed by the given ledger.
func NewFundService(ledger *fund.Ledger) *FundService {
	return &FundService{ledger: ledger}
}

// GetBalance returns the balance after the newest fund transaction.
func (s *FundService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	txs, _, err := s.ledger.History(ctx, 1, 1)
	if err != nil {
		slog.Error("GetBalance failed", "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.GetBalanceResponse{Balance: money(decimal.Zero)}
	if len(txs) > 0 {
		resp.Balance = money(txs[0].BalanceAfter)
		resp.LastSeq = txs[0].Seq
	}
	return connect.NewResponse(resp), nil
}

// ListTransactions returns one page of fund transactions, newest first.
func (s *FundService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	slog.Info("ListTransactions request received", "page", req.Msg.Page, "page_size", req.Msg.PageSize)

	txs, total, err := s.ledger.History(ctx, req.Msg.Page, req.Msg.PageSize)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{
		Transactions: fundTransactionsToAPI(txs),
		Total:        total,
	}), nil
}

// Deposit adds capital to the fund.
func (s *FundService) Deposit(ctx context.Context, req *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error) {
	tx, err := s.record(ctx, models.FundDeposit, req.Msg.Amount, req.Msg.Description, s.ledger.Deposit)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DepositResponse{Transaction: fundTransactionToAPI(tx)}), nil
}

// Withdraw removes capital from the fund.
func (s *FundService) Withdraw(ctx context.Context, req *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error) {
	tx, err := s.record(ctx, models.FundWithdrawal, req.Msg.Amount, req.Msg.Description, s.ledger.Withdraw)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.WithdrawResponse{Transaction: fundTransactionToAPI(tx)}), nil
}

// Adjust records a signed correction.
func (s *FundService) Adjust(ctx context.Context, req *connect.Request[api.AdjustRequest]) (*connect.Response[api.AdjustResponse], error) {
	tx, err := s.record(ctx, models.FundAdjustment, req.Msg.Amount, req.Msg.Description, s.ledger.Adjust)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.AdjustResponse{Transaction: fundTransactionToAPI(tx)}), nil
}

type recordFunc func(ctx context.Context, amount decimal.Decimal, description string) (*models.FundTransaction, error)

func (s *FundService) record(ctx context.Context, typ models.FundTransactionType, amount, description string, fn recordFunc) (*models.FundTransaction, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("Fund transaction request received",
		"type", typ,
		"amount", amount,
		"user_id", actor.UserID,
	)

	// Adjustments are signed; every other manual entry takes a positive amount.
	parse := parsePositiveAmount
	if typ == models.FundAdjustment {
		parse = parseAmount
	}
	d, err := parse("amount", amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	tx, err := fn(ctx, d, description)
	if err != nil {
		slog.Error("Fund transaction failed", "type", typ, "error", err)
		return nil, toConnectError(err)
	}
	return tx, nil
}
