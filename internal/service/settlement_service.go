package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/settlement"
	"github.com/mmynk/freightledger/pkg/api"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	batcher *settlement.Batcher
}

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a new SettlementService backed by the given batcher.
func NewSettlementService(batcher *settlement.Batcher) *SettlementService {
	return &SettlementService{batcher: batcher}
}

// ListSettlements returns one page of settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received",
		"carrier_id", req.Msg.CarrierID,
		"status", req.Msg.Status,
		"page", req.Msg.Page,
	)

	settlements, total, err := s.batcher.List(ctx, models.SettlementFilter{
		CarrierID: req.Msg.CarrierID,
		Status:    models.SettlementStatus(req.Msg.Status),
		Page:      req.Msg.Page,
		PageSize:  req.Msg.PageSize,
	})
	if err != nil {
		slog.Error("ListSettlements failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}

	slog.Info("ListSettlements successful", "count", len(out), "total", total)

	return connect.NewResponse(&api.ListSettlementsResponse{
		Settlements: out,
		Total:       total,
	}), nil
}

// GetSettlement returns a settlement with its carrier and linked carrier pays.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "settlement_id", req.Msg.SettlementID)

	st, err := s.batcher.Get(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("GetSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetSettlementResponse{
		Settlement: settlementToAPI(st),
	}), nil
}

// CreateSettlement batches the carrier's unsettled pays for the period into a DRAFT settlement.
func (s *SettlementService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateSettlement request received",
		"carrier_id", req.Msg.CarrierID,
		"period_start", req.Msg.PeriodStart,
		"period_end", req.Msg.PeriodEnd,
		"period_type", req.Msg.PeriodType,
	)

	st, err := s.batcher.CreateSettlement(ctx, actor, settlement.CreateInput{
		CarrierID:   req.Msg.CarrierID,
		PeriodStart: req.Msg.PeriodStart,
		PeriodEnd:   req.Msg.PeriodEnd,
		PeriodType:  models.PeriodType(req.Msg.PeriodType),
		Notes:       req.Msg.Notes,
	})
	if err != nil {
		slog.Error("CreateSettlement failed", "carrier_id", req.Msg.CarrierID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateSettlementResponse{
		Settlement: settlementToAPI(st),
	}), nil
}

// FinalizeSettlement moves a DRAFT settlement to FINALIZED.
func (s *SettlementService) FinalizeSettlement(ctx context.Context, req *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("FinalizeSettlement request received", "settlement_id", req.Msg.SettlementID)

	st, err := s.batcher.Finalize(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		slog.Error("FinalizeSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.FinalizeSettlementResponse{
		Settlement: settlementToAPI(st),
	}), nil
}

// MarkSettlementPaid moves a FINALIZED settlement to PAID and marks its carrier pays paid.
func (s *SettlementService) MarkSettlementPaid(ctx context.Context, req *connect.Request[api.MarkSettlementPaidRequest]) (*connect.Response[api.MarkSettlementPaidResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("MarkSettlementPaid request received", "settlement_id", req.Msg.SettlementID)

	st, err := s.batcher.MarkPaid(ctx, actor, req.Msg.SettlementID)
	if err != nil {
		slog.Error("MarkSettlementPaid failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.MarkSettlementPaidResponse{
		Settlement: settlementToAPI(st),
	}), nil
}
