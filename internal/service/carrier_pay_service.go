package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/approval"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
	"github.com/mmynk/freightledger/pkg/api"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
)

// CarrierPayService implements the Connect CarrierPayService
type CarrierPayService struct {
	store    storage.Store
	workflow *approval.Workflow
	policy   approval.DocumentPolicy
}

var _ apiconnect.CarrierPayServiceHandler = (*CarrierPayService)(nil)

// NewCarrierPayService creates a new CarrierPayService.
func NewCarrierPayService(store storage.Store, workflow *approval.Workflow) *CarrierPayService {
	return &CarrierPayService{store: store, workflow: workflow}
}

// ListCarrierPays returns one page of carrier pays, newest first.
func (s *CarrierPayService) ListCarrierPays(ctx context.Context, req *connect.Request[api.ListCarrierPaysRequest]) (*connect.Response[api.ListCarrierPaysResponse], error) {
	slog.Info("ListCarrierPays request received",
		"carrier_id", req.Msg.CarrierID,
		"settlement_id", req.Msg.SettlementID,
		"status", req.Msg.Status,
	)

	status := models.CarrierPayStatus(req.Msg.Status)
	if status != "" && !status.Valid() {
		return nil, toConnectError(apperr.Validation("unknown carrier pay status %q", req.Msg.Status))
	}

	pays, total, err := s.store.ListCarrierPays(ctx, models.CarrierPayFilter{
		CarrierID:    req.Msg.CarrierID,
		SettlementID: req.Msg.SettlementID,
		Status:       status,
		Page:         req.Msg.Page,
		PageSize:     req.Msg.PageSize,
	})
	if err != nil {
		slog.Error("ListCarrierPays failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListCarrierPays successful", "count", len(pays), "total", total)

	return connect.NewResponse(&api.ListCarrierPaysResponse{
		CarrierPays: carrierPaysToAPI(pays),
		Total:       total,
	}), nil
}

// GetCarrierPay returns a carrier pay and the paperwork it is still missing.
func (s *CarrierPayService) GetCarrierPay(ctx context.Context, req *connect.Request[api.GetCarrierPayRequest]) (*connect.Response[api.GetCarrierPayResponse], error) {
	slog.Info("GetCarrierPay request received", "carrier_pay_id", req.Msg.CarrierPayID)

	cp, err := s.store.GetCarrierPay(ctx, req.Msg.CarrierPayID)
	if err != nil {
		slog.Error("GetCarrierPay failed", "carrier_pay_id", req.Msg.CarrierPayID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetCarrierPayResponse{
		CarrierPay: carrierPayToAPI(cp),
		Warnings:   s.policy.Warnings(cp.Documents),
	}), nil
}

// GetCarrierPaySummary aggregates every pay record of one carrier.
func (s *CarrierPayService) GetCarrierPaySummary(ctx context.Context, req *connect.Request[api.GetCarrierPaySummaryRequest]) (*connect.Response[api.GetCarrierPaySummaryResponse], error) {
	slog.Info("GetCarrierPaySummary request received", "carrier_id", req.Msg.CarrierID)

	if req.Msg.CarrierID == "" {
		return nil, toConnectError(apperr.Validation("carrierId is required"))
	}
	pays, err := s.store.ListCarrierPaysByCarrier(ctx, req.Msg.CarrierID)
	if err != nil {
		slog.Error("GetCarrierPaySummary failed", "carrier_id", req.Msg.CarrierID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetCarrierPaySummaryResponse{
		Summary: summaryToAPI(calculator.SummarizeCarrierPays(req.Msg.CarrierID, pays)),
	}), nil
}

// QuoteQuickPay prices a quick pay, either for an existing carrier pay or for
// an explicit tier and amount. Nothing is written.
func (s *CarrierPayService) QuoteQuickPay(ctx context.Context, req *connect.Request[api.QuoteQuickPayRequest]) (*connect.Response[api.QuoteQuickPayResponse], error) {
	slog.Info("QuoteQuickPay request received",
		"carrier_pay_id", req.Msg.CarrierPayID,
		"tier", req.Msg.Tier,
		"amount", req.Msg.Amount,
	)

	var (
		quote calculator.Quote
		err   error
	)
	if req.Msg.CarrierPayID != "" {
		quote, err = s.workflow.Preview(ctx, req.Msg.CarrierPayID)
	} else {
		quote, err = quoteFor(req.Msg.Tier, req.Msg.Amount)
	}
	if err != nil {
		slog.Error("QuoteQuickPay failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.QuoteQuickPayResponse{Quote: quoteToAPI(quote)}), nil
}

func quoteFor(tierCode, amount string) (calculator.Quote, error) {
	if tierCode == "" {
		return calculator.Quote{}, apperr.Validation("either carrierPayId or tier is required")
	}
	tier, err := calculator.ParseTier(tierCode)
	if err != nil {
		return calculator.Quote{}, err
	}
	gross, err := parsePositiveAmount("amount", amount)
	if err != nil {
		return calculator.Quote{}, err
	}
	return calculator.QuoteQuickPay(tier, gross)
}

// RequestQuickPay schedules a carrier pay for early payout on its carrier's tier.
func (s *CarrierPayService) RequestQuickPay(ctx context.Context, req *connect.Request[api.RequestQuickPayRequest]) (*connect.Response[api.RequestQuickPayResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("RequestQuickPay request received", "carrier_pay_id", req.Msg.CarrierPayID, "user_id", actor.UserID)

	res, err := s.workflow.RequestQuickPay(ctx, actor, req.Msg.CarrierPayID)
	if err != nil {
		slog.Error("RequestQuickPay failed", "carrier_pay_id", req.Msg.CarrierPayID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RequestQuickPayResponse{
		CarrierPay: carrierPayToAPI(res.CarrierPay),
		Quote:      quoteToAPI(*res.Quote),
		Warnings:   res.Warnings,
	}), nil
}

// ApproveCarrierPay approves a PENDING carrier pay or disburses a SCHEDULED quick pay.
func (s *CarrierPayService) ApproveCarrierPay(ctx context.Context, req *connect.Request[api.ApproveCarrierPayRequest]) (*connect.Response[api.ApproveCarrierPayResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("ApproveCarrierPay request received", "carrier_pay_id", req.Msg.CarrierPayID, "user_id", actor.UserID)

	res, err := s.workflow.Approve(ctx, actor, req.Msg.CarrierPayID)
	if err != nil {
		slog.Error("ApproveCarrierPay failed", "carrier_pay_id", req.Msg.CarrierPayID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ApproveCarrierPayResponse{
		CarrierPay:       carrierPayToAPI(res.CarrierPay),
		FundTransactions: fundTransactionsToAPI(res.FundTransactions),
		Warnings:         res.Warnings,
	}), nil
}

// RejectCarrierPay marks a carrier pay REJECTED.
func (s *CarrierPayService) RejectCarrierPay(ctx context.Context, req *connect.Request[api.RejectCarrierPayRequest]) (*connect.Response[api.RejectCarrierPayResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("RejectCarrierPay request received", "carrier_pay_id", req.Msg.CarrierPayID, "user_id", actor.UserID)

	res, err := s.workflow.Reject(ctx, actor, req.Msg.CarrierPayID, req.Msg.Reason)
	if err != nil {
		slog.Error("RejectCarrierPay failed", "carrier_pay_id", req.Msg.CarrierPayID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RejectCarrierPayResponse{
		CarrierPay: carrierPayToAPI(res.CarrierPay),
	}), nil
}
