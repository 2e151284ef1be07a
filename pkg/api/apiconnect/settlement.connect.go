package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService.
const SettlementServiceName = "freightledger.v1.SettlementService"

// Procedure paths of the SettlementService.
const (
	SettlementServiceListSettlementsProcedure    = "/freightledger.v1.SettlementService/ListSettlements"
	SettlementServiceGetSettlementProcedure      = "/freightledger.v1.SettlementService/GetSettlement"
	SettlementServiceCreateSettlementProcedure   = "/freightledger.v1.SettlementService/CreateSettlement"
	SettlementServiceFinalizeSettlementProcedure = "/freightledger.v1.SettlementService/FinalizeSettlement"
	SettlementServiceMarkSettlementPaidProcedure = "/freightledger.v1.SettlementService/MarkSettlementPaid"
)

// SettlementServiceHandler is implemented by the server side of the SettlementService.
type SettlementServiceHandler interface {
	// ListSettlements returns settlements, newest first.
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	// GetSettlement returns a settlement with its carrier and carrier pays.
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	// CreateSettlement batches a carrier's unsettled pays for a period.
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	// FinalizeSettlement moves a DRAFT settlement to FINALIZED.
	FinalizeSettlement(context.Context, *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error)
	// MarkSettlementPaid moves a FINALIZED settlement to PAID.
	MarkSettlementPaid(context.Context, *connect.Request[api.MarkSettlementPaidRequest]) (*connect.Response[api.MarkSettlementPaidResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServiceListSettlementsProcedure, connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(SettlementServiceGetSettlementProcedure, connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...))
	mux.Handle(SettlementServiceCreateSettlementProcedure, connect.NewUnaryHandler(SettlementServiceCreateSettlementProcedure, svc.CreateSettlement, opts...))
	mux.Handle(SettlementServiceFinalizeSettlementProcedure, connect.NewUnaryHandler(SettlementServiceFinalizeSettlementProcedure, svc.FinalizeSettlement, opts...))
	mux.Handle(SettlementServiceMarkSettlementPaidProcedure, connect.NewUnaryHandler(SettlementServiceMarkSettlementPaidProcedure, svc.MarkSettlementPaid, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// SettlementServiceClient is a client for the SettlementService.
type SettlementServiceClient interface {
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	FinalizeSettlement(context.Context, *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error)
	MarkSettlementPaid(context.Context, *connect.Request[api.MarkSettlementPaidRequest]) (*connect.Response[api.MarkSettlementPaidResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService at baseURL.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	opts = clientOptions(opts)
	return &settlementServiceClient{
		listSettlements:    connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		getSettlement:      connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		createSettlement:   connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+SettlementServiceCreateSettlementProcedure, opts...),
		finalizeSettlement: connect.NewClient[api.FinalizeSettlementRequest, api.FinalizeSettlementResponse](httpClient, baseURL+SettlementServiceFinalizeSettlementProcedure, opts...),
		markSettlementPaid: connect.NewClient[api.MarkSettlementPaidRequest, api.MarkSettlementPaidResponse](httpClient, baseURL+SettlementServiceMarkSettlementPaidProcedure, opts...),
	}
}

type settlementServiceClient struct {
	listSettlements    *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	getSettlement      *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	createSettlement   *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	finalizeSettlement *connect.Client[api.FinalizeSettlementRequest, api.FinalizeSettlementResponse]
	markSettlementPaid *connect.Client[api.MarkSettlementPaidRequest, api.MarkSettlementPaidResponse]
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) FinalizeSettlement(ctx context.Context, req *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error) {
	return c.finalizeSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkSettlementPaid(ctx context.Context, req *connect.Request[api.MarkSettlementPaidRequest]) (*connect.Response[api.MarkSettlementPaidResponse], error) {
	return c.markSettlementPaid.CallUnary(ctx, req)
}
