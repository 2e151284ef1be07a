package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/pkg/api"
)

// CarrierPayServiceName is the fully-qualified name of the CarrierPayService.
const CarrierPayServiceName = "freightledger.v1.CarrierPayService"

// Procedure paths of the CarrierPayService.
const (
	CarrierPayServiceListCarrierPaysProcedure      = "/freightledger.v1.CarrierPayService/ListCarrierPays"
	CarrierPayServiceGetCarrierPayProcedure        = "/freightledger.v1.CarrierPayService/GetCarrierPay"
	CarrierPayServiceGetCarrierPaySummaryProcedure = "/freightledger.v1.CarrierPayService/GetCarrierPaySummary"
	CarrierPayServiceQuoteQuickPayProcedure        = "/freightledger.v1.CarrierPayService/QuoteQuickPay"
	CarrierPayServiceRequestQuickPayProcedure      = "/freightledger.v1.CarrierPayService/RequestQuickPay"
	CarrierPayServiceApproveCarrierPayProcedure    = "/freightledger.v1.CarrierPayService/ApproveCarrierPay"
	CarrierPayServiceRejectCarrierPayProcedure     = "/freightledger.v1.CarrierPayService/RejectCarrierPay"
)

// CarrierPayServiceHandler is implemented by the server side of the CarrierPayService.
type CarrierPayServiceHandler interface {
	// ListCarrierPays returns carrier pays, newest first.
	ListCarrierPays(context.Context, *connect.Request[api.ListCarrierPaysRequest]) (*connect.Response[api.ListCarrierPaysResponse], error)
	// GetCarrierPay returns one carrier pay with document warnings.
	GetCarrierPay(context.Context, *connect.Request[api.GetCarrierPayRequest]) (*connect.Response[api.GetCarrierPayResponse], error)
	// GetCarrierPaySummary aggregates a carrier's pays by status.
	GetCarrierPaySummary(context.Context, *connect.Request[api.GetCarrierPaySummaryRequest]) (*connect.Response[api.GetCarrierPaySummaryResponse], error)
	// QuoteQuickPay prices a quick pay without writing.
	QuoteQuickPay(context.Context, *connect.Request[api.QuoteQuickPayRequest]) (*connect.Response[api.QuoteQuickPayResponse], error)
	// RequestQuickPay schedules a carrier pay for quick pay.
	RequestQuickPay(context.Context, *connect.Request[api.RequestQuickPayRequest]) (*connect.Response[api.RequestQuickPayResponse], error)
	// ApproveCarrierPay approves a carrier pay or disburses a quick pay.
	ApproveCarrierPay(context.Context, *connect.Request[api.ApproveCarrierPayRequest]) (*connect.Response[api.ApproveCarrierPayResponse], error)
	// RejectCarrierPay rejects a carrier pay.
	RejectCarrierPay(context.Context, *connect.Request[api.RejectCarrierPayRequest]) (*connect.Response[api.RejectCarrierPayResponse], error)
}

// NewCarrierPayServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewCarrierPayServiceHandler(svc CarrierPayServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(CarrierPayServiceListCarrierPaysProcedure, connect.NewUnaryHandler(CarrierPayServiceListCarrierPaysProcedure, svc.ListCarrierPays, opts...))
	mux.Handle(CarrierPayServiceGetCarrierPayProcedure, connect.NewUnaryHandler(CarrierPayServiceGetCarrierPayProcedure, svc.GetCarrierPay, opts...))
	mux.Handle(CarrierPayServiceGetCarrierPaySummaryProcedure, connect.NewUnaryHandler(CarrierPayServiceGetCarrierPaySummaryProcedure, svc.GetCarrierPaySummary, opts...))
	mux.Handle(CarrierPayServiceQuoteQuickPayProcedure, connect.NewUnaryHandler(CarrierPayServiceQuoteQuickPayProcedure, svc.QuoteQuickPay, opts...))
	mux.Handle(CarrierPayServiceRequestQuickPayProcedure, connect.NewUnaryHandler(CarrierPayServiceRequestQuickPayProcedure, svc.RequestQuickPay, opts...))
	mux.Handle(CarrierPayServiceApproveCarrierPayProcedure, connect.NewUnaryHandler(CarrierPayServiceApproveCarrierPayProcedure, svc.ApproveCarrierPay, opts...))
	mux.Handle(CarrierPayServiceRejectCarrierPayProcedure, connect.NewUnaryHandler(CarrierPayServiceRejectCarrierPayProcedure, svc.RejectCarrierPay, opts...))
	return "/" + CarrierPayServiceName + "/", mux
}

// CarrierPayServiceClient is a client for the CarrierPayService.
type CarrierPayServiceClient interface {
	ListCarrierPays(context.Context, *connect.Request[api.ListCarrierPaysRequest]) (*connect.Response[api.ListCarrierPaysResponse], error)
	GetCarrierPay(context.Context, *connect.Request[api.GetCarrierPayRequest]) (*connect.Response[api.GetCarrierPayResponse], error)
	GetCarrierPaySummary(context.Context, *connect.Request[api.GetCarrierPaySummaryRequest]) (*connect.Response[api.GetCarrierPaySummaryResponse], error)
	QuoteQuickPay(context.Context, *connect.Request[api.QuoteQuickPayRequest]) (*connect.Response[api.QuoteQuickPayResponse], error)
	RequestQuickPay(context.Context, *connect.Request[api.RequestQuickPayRequest]) (*connect.Response[api.RequestQuickPayResponse], error)
	ApproveCarrierPay(context.Context, *connect.Request[api.ApproveCarrierPayRequest]) (*connect.Response[api.ApproveCarrierPayResponse], error)
	RejectCarrierPay(context.Context, *connect.Request[api.RejectCarrierPayRequest]) (*connect.Response[api.RejectCarrierPayResponse], error)
}

// NewCarrierPayServiceClient constructs a client for the CarrierPayService at baseURL.
func NewCarrierPayServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CarrierPayServiceClient {
	opts = clientOptions(opts)
	return &carrierPayServiceClient{
		listCarrierPays:      connect.NewClient[api.ListCarrierPaysRequest, api.ListCarrierPaysResponse](httpClient, baseURL+CarrierPayServiceListCarrierPaysProcedure, opts...),
		getCarrierPay:        connect.NewClient[api.GetCarrierPayRequest, api.GetCarrierPayResponse](httpClient, baseURL+CarrierPayServiceGetCarrierPayProcedure, opts...),
		getCarrierPaySummary: connect.NewClient[api.GetCarrierPaySummaryRequest, api.GetCarrierPaySummaryResponse](httpClient, baseURL+CarrierPayServiceGetCarrierPaySummaryProcedure, opts...),
		quoteQuickPay:        connect.NewClient[api.QuoteQuickPayRequest, api.QuoteQuickPayResponse](httpClient, baseURL+CarrierPayServiceQuoteQuickPayProcedure, opts...),
		requestQuickPay:      connect.NewClient[api.RequestQuickPayRequest, api.RequestQuickPayResponse](httpClient, baseURL+CarrierPayServiceRequestQuickPayProcedure, opts...),
		approveCarrierPay:    connect.NewClient[api.ApproveCarrierPayRequest, api.ApproveCarrierPayResponse](httpClient, baseURL+CarrierPayServiceApproveCarrierPayProcedure, opts...),
		rejectCarrierPay:     connect.NewClient[api.RejectCarrierPayRequest, api.RejectCarrierPayResponse](httpClient, baseURL+CarrierPayServiceRejectCarrierPayProcedure, opts...),
	}
}

type carrierPayServiceClient struct {
	listCarrierPays      *connect.Client[api.ListCarrierPaysRequest, api.ListCarrierPaysResponse]
	getCarrierPay        *connect.Client[api.GetCarrierPayRequest, api.GetCarrierPayResponse]
	getCarrierPaySummary *connect.Client[api.GetCarrierPaySummaryRequest, api.GetCarrierPaySummaryResponse]
	quoteQuickPay        *connect.Client[api.QuoteQuickPayRequest, api.QuoteQuickPayResponse]
	requestQuickPay      *connect.Client[api.RequestQuickPayRequest, api.RequestQuickPayResponse]
	approveCarrierPay    *connect.Client[api.ApproveCarrierPayRequest, api.ApproveCarrierPayResponse]
	rejectCarrierPay     *connect.Client[api.RejectCarrierPayRequest, api.RejectCarrierPayResponse]
}

func (c *carrierPayServiceClient) ListCarrierPays(ctx context.Context, req *connect.Request[api.ListCarrierPaysRequest]) (*connect.Response[api.ListCarrierPaysResponse], error) {
	return c.listCarrierPays.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) GetCarrierPay(ctx context.Context, req *connect.Request[api.GetCarrierPayRequest]) (*connect.Response[api.GetCarrierPayResponse], error) {
	return c.getCarrierPay.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) GetCarrierPaySummary(ctx context.Context, req *connect.Request[api.GetCarrierPaySummaryRequest]) (*connect.Response[api.GetCarrierPaySummaryResponse], error) {
	return c.getCarrierPaySummary.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) QuoteQuickPay(ctx context.Context, req *connect.Request[api.QuoteQuickPayRequest]) (*connect.Response[api.QuoteQuickPayResponse], error) {
	return c.quoteQuickPay.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) RequestQuickPay(ctx context.Context, req *connect.Request[api.RequestQuickPayRequest]) (*connect.Response[api.RequestQuickPayResponse], error) {
	return c.requestQuickPay.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) ApproveCarrierPay(ctx context.Context, req *connect.Request[api.ApproveCarrierPayRequest]) (*connect.Response[api.ApproveCarrierPayResponse], error) {
	return c.approveCarrierPay.CallUnary(ctx, req)
}

func (c *carrierPayServiceClient) RejectCarrierPay(ctx context.Context, req *connect.Request[api.RejectCarrierPayRequest]) (*connect.Response[api.RejectCarrierPayResponse], error) {
	return c.rejectCarrierPay.CallUnary(ctx, req)
}
