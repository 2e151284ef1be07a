package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/pkg/api"
)

// FundServiceName is the fully-qualified name of the FundService.
const FundServiceName = "freightledger.v1.FundService"

// Procedure paths of the FundService.
const (
	FundServiceGetBalanceProcedure       = "/freightledger.v1.FundService/GetBalance"
	FundServiceListTransactionsProcedure = "/freightledger.v1.FundService/ListTransactions"
	FundServiceDepositProcedure          = "/freightledger.v1.FundService/Deposit"
	FundServiceWithdrawProcedure         = "/freightledger.v1.FundService/Withdraw"
	FundServiceAdjustProcedure           = "/freightledger.v1.FundService/Adjust"
)

// FundServiceHandler is implemented by the server side of the FundService.
type FundServiceHandler interface {
	// GetBalance returns the current factoring fund balance.
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	// ListTransactions returns fund transactions, newest first.
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	// Deposit adds capital to the fund.
	Deposit(context.Context, *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error)
	// Withdraw removes capital from the fund.
	Withdraw(context.Context, *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error)
	// Adjust records a signed correction.
	Adjust(context.Context, *connect.Request[api.AdjustRequest]) (*connect.Response[api.AdjustResponse], error)
}

// NewFundServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewFundServiceHandler(svc FundServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(FundServiceGetBalanceProcedure, connect.NewUnaryHandler(FundServiceGetBalanceProcedure, svc.GetBalance, opts...))
	mux.Handle(FundServiceListTransactionsProcedure, connect.NewUnaryHandler(FundServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(FundServiceDepositProcedure, connect.NewUnaryHandler(FundServiceDepositProcedure, svc.Deposit, opts...))
	mux.Handle(FundServiceWithdrawProcedure, connect.NewUnaryHandler(FundServiceWithdrawProcedure, svc.Withdraw, opts...))
	mux.Handle(FundServiceAdjustProcedure, connect.NewUnaryHandler(FundServiceAdjustProcedure, svc.Adjust, opts...))
	return "/" + FundServiceName + "/", mux
}

// FundServiceClient is a client for the FundService.
type FundServiceClient interface {
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	Deposit(context.Context, *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error)
	Withdraw(context.Context, *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error)
	Adjust(context.Context, *connect.Request[api.AdjustRequest]) (*connect.Response[api.AdjustResponse], error)
}

// NewFundServiceClient constructs a client for the FundService at baseURL.
func NewFundServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FundServiceClient {
	opts = clientOptions(opts)
	return &fundServiceClient{
		getBalance:       connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+FundServiceGetBalanceProcedure, opts...),
		listTransactions: connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+FundServiceListTransactionsProcedure, opts...),
		deposit:          connect.NewClient[api.DepositRequest, api.DepositResponse](httpClient, baseURL+FundServiceDepositProcedure, opts...),
		withdraw:         connect.NewClient[api.WithdrawRequest, api.WithdrawResponse](httpClient, baseURL+FundServiceWithdrawProcedure, opts...),
		adjust:           connect.NewClient[api.AdjustRequest, api.AdjustResponse](httpClient, baseURL+FundServiceAdjustProcedure, opts...),
	}
}

type fundServiceClient struct {
	getBalance       *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	listTransactions *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	deposit          *connect.Client[api.DepositRequest, api.DepositResponse]
	withdraw         *connect.Client[api.WithdrawRequest, api.WithdrawResponse]
	adjust           *connect.Client[api.AdjustRequest, api.AdjustResponse]
}

func (c *fundServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *fundServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *fundServiceClient) Deposit(ctx context.Context, req *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error) {
	return c.deposit.CallUnary(ctx, req)
}

func (c *fundServiceClient) Withdraw(ctx context.Context, req *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error) {
	return c.withdraw.CallUnary(ctx, req)
}

func (c *fundServiceClient) Adjust(ctx context.Context, req *connect.Request[api.AdjustRequest]) (*connect.Response[api.AdjustResponse], error) {
	return c.adjust.CallUnary(ctx, req)
}
