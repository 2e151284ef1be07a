package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/pkg/api"
)

// IntakeServiceName is the fully-qualified name of the IntakeService.
const IntakeServiceName = "freightledger.v1.IntakeService"

// Procedure paths of the IntakeService.
const (
	IntakeServiceUpsertCarrierProcedure    = "/freightledger.v1.IntakeService/UpsertCarrier"
	IntakeServiceCreateCarrierPayProcedure = "/freightledger.v1.IntakeService/CreateCarrierPay"
	IntakeServiceRecordInvoiceProcedure    = "/freightledger.v1.IntakeService/RecordInvoice"
	IntakeServiceUpdateDocumentsProcedure  = "/freightledger.v1.IntakeService/UpdateDocuments"
)

// IntakeServiceHandler is implemented by the server side of the IntakeService.
type IntakeServiceHandler interface {
	// UpsertCarrier creates or refreshes a carrier profile.
	UpsertCarrier(context.Context, *connect.Request[api.UpsertCarrierRequest]) (*connect.Response[api.UpsertCarrierResponse], error)
	// CreateCarrierPay records a new carrier pay.
	CreateCarrierPay(context.Context, *connect.Request[api.CreateCarrierPayRequest]) (*connect.Response[api.CreateCarrierPayResponse], error)
	// RecordInvoice records an invoice and its factoring fee.
	RecordInvoice(context.Context, *connect.Request[api.RecordInvoiceRequest]) (*connect.Response[api.RecordInvoiceResponse], error)
	// UpdateDocuments replaces a carrier pay's document flags.
	UpdateDocuments(context.Context, *connect.Request[api.UpdateDocumentsRequest]) (*connect.Response[api.UpdateDocumentsResponse], error)
}

// NewIntakeServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewIntakeServiceHandler(svc IntakeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(IntakeServiceUpsertCarrierProcedure, connect.NewUnaryHandler(IntakeServiceUpsertCarrierProcedure, svc.UpsertCarrier, opts...))
	mux.Handle(IntakeServiceCreateCarrierPayProcedure, connect.NewUnaryHandler(IntakeServiceCreateCarrierPayProcedure, svc.CreateCarrierPay, opts...))
	mux.Handle(IntakeServiceRecordInvoiceProcedure, connect.NewUnaryHandler(IntakeServiceRecordInvoiceProcedure, svc.RecordInvoice, opts...))
	mux.Handle(IntakeServiceUpdateDocumentsProcedure, connect.NewUnaryHandler(IntakeServiceUpdateDocumentsProcedure, svc.UpdateDocuments, opts...))
	return "/" + IntakeServiceName + "/", mux
}

// IntakeServiceClient is a client for the IntakeService.
type IntakeServiceClient interface {
	UpsertCarrier(context.Context, *connect.Request[api.UpsertCarrierRequest]) (*connect.Response[api.UpsertCarrierResponse], error)
	CreateCarrierPay(context.Context, *connect.Request[api.CreateCarrierPayRequest]) (*connect.Response[api.CreateCarrierPayResponse], error)
	RecordInvoice(context.Context, *connect.Request[api.RecordInvoiceRequest]) (*connect.Response[api.RecordInvoiceResponse], error)
	UpdateDocuments(context.Context, *connect.Request[api.UpdateDocumentsRequest]) (*connect.Response[api.UpdateDocumentsResponse], error)
}

// NewIntakeServiceClient constructs a client for the IntakeService at baseURL.
func NewIntakeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) IntakeServiceClient {
	opts = clientOptions(opts)
	return &intakeServiceClient{
		upsertCarrier:    connect.NewClient[api.UpsertCarrierRequest, api.UpsertCarrierResponse](httpClient, baseURL+IntakeServiceUpsertCarrierProcedure, opts...),
		createCarrierPay: connect.NewClient[api.CreateCarrierPayRequest, api.CreateCarrierPayResponse](httpClient, baseURL+IntakeServiceCreateCarrierPayProcedure, opts...),
		recordInvoice:    connect.NewClient[api.RecordInvoiceRequest, api.RecordInvoiceResponse](httpClient, baseURL+IntakeServiceRecordInvoiceProcedure, opts...),
		updateDocuments:  connect.NewClient[api.UpdateDocumentsRequest, api.UpdateDocumentsResponse](httpClient, baseURL+IntakeServiceUpdateDocumentsProcedure, opts...),
	}
}

type intakeServiceClient struct {
	upsertCarrier    *connect.Client[api.UpsertCarrierRequest, api.UpsertCarrierResponse]
	createCarrierPay *connect.Client[api.CreateCarrierPayRequest, api.CreateCarrierPayResponse]
	recordInvoice    *connect.Client[api.RecordInvoiceRequest, api.RecordInvoiceResponse]
	updateDocuments  *connect.Client[api.UpdateDocumentsRequest, api.UpdateDocumentsResponse]
}

func (c *intakeServiceClient) UpsertCarrier(ctx context.Context, req *connect.Request[api.UpsertCarrierRequest]) (*connect.Response[api.UpsertCarrierResponse], error) {
	return c.upsertCarrier.CallUnary(ctx, req)
}

func (c *intakeServiceClient) CreateCarrierPay(ctx context.Context, req *connect.Request[api.CreateCarrierPayRequest]) (*connect.Response[api.CreateCarrierPayResponse], error) {
	return c.createCarrierPay.CallUnary(ctx, req)
}

func (c *intakeServiceClient) RecordInvoice(ctx context.Context, req *connect.Request[api.RecordInvoiceRequest]) (*connect.Response[api.RecordInvoiceResponse], error) {
	return c.recordInvoice.CallUnary(ctx, req)
}

func (c *intakeServiceClient) UpdateDocuments(ctx context.Context, req *connect.Request[api.UpdateDocumentsRequest]) (*connect.Response[api.UpdateDocumentsResponse], error) {
	return c.updateDocuments.CallUnary(ctx, req)
}
