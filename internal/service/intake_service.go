package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/approval"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
	"github.com/mmynk/freightledger/internal/validate"
	"github.com/mmynk/freightledger/pkg/api"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
)

// IntakeService implements the Connect IntakeService. It receives the carrier
// profiles, carrier pays and invoices that other systems own.
type IntakeService struct {
	store  storage.Store
	policy approval.DocumentPolicy
}

var _ apiconnect.IntakeServiceHandler = (*IntakeService)(nil)

// NewIntakeService creates a new IntakeService with the given storage backend.
func NewIntakeService(store storage.Store) *IntakeService {
	return &IntakeService{store: store}
}

type carrierInput struct {
	ID   string `validate:"required,max=64"`
	Name string `validate:"required,max=200"`
}

type loadInput struct {
	CarrierID string `validate:"required"`
	LoadID    string `validate:"required,max=64"`
}

// UpsertCarrier creates or refreshes a carrier profile.
func (s *IntakeService) UpsertCarrier(ctx context.Context, req *connect.Request[api.UpsertCarrierRequest]) (*connect.Response[api.UpsertCarrierResponse], error) {
	slog.Info("UpsertCarrier request received",
		"carrier_id", req.Msg.ID,
		"quick_pay_tier", req.Msg.QuickPayTier,
	)

	if err := validate.Struct(carrierInput{ID: req.Msg.ID, Name: req.Msg.Name}); err != nil {
		return nil, toConnectError(err)
	}

	carrier := &models.Carrier{
		ID:       req.Msg.ID,
		Name:     strings.TrimSpace(req.Msg.Name),
		MCNumber: req.Msg.MCNumber,
	}
	if req.Msg.QuickPayTier != "" {
		tier, err := calculator.ParseTier(req.Msg.QuickPayTier)
		if err != nil {
			return nil, toConnectError(err)
		}
		carrier.QuickPayTier = string(tier)
	}

	if err := s.store.UpsertCarrier(ctx, carrier); err != nil {
		slog.Error("UpsertCarrier failed", "carrier_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Carrier upserted", "carrier_id", carrier.ID)

	return connect.NewResponse(&api.UpsertCarrierResponse{Carrier: carrierToAPI(carrier)}), nil
}

// CreateCarrierPay records a new PENDING carrier pay for a known carrier.
func (s *IntakeService) CreateCarrierPay(ctx context.Context, req *connect.Request[api.CreateCarrierPayRequest]) (*connect.Response[api.CreateCarrierPayResponse], error) {
	slog.Info("CreateCarrierPay request received",
		"carrier_id", req.Msg.CarrierID,
		"load_id", req.Msg.LoadID,
		"amount", req.Msg.Amount,
	)

	if err := validate.Struct(loadInput{CarrierID: req.Msg.CarrierID, LoadID: req.Msg.LoadID}); err != nil {
		return nil, toConnectError(err)
	}
	amount, err := parsePositiveAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	cp := &models.CarrierPay{
		CarrierID: req.Msg.CarrierID,
		LoadID:    req.Msg.LoadID,
		Amount:    amount,
	}
	if req.Msg.Documents != nil {
		cp.Documents = documentsFromAPI(*req.Msg.Documents)
	}

	err = s.store.WithTx(ctx, func(repo storage.Repository) error {
		if _, err := repo.GetCarrier(ctx, cp.CarrierID); err != nil {
			return err
		}
		return repo.CreateCarrierPay(ctx, cp)
	})
	if err != nil {
		slog.Error("CreateCarrierPay failed", "carrier_id", req.Msg.CarrierID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Carrier pay created", "carrier_pay_id", cp.ID, "carrier_id", cp.CarrierID)

	return connect.NewResponse(&api.CreateCarrierPayResponse{CarrierPay: carrierPayToAPI(cp)}), nil
}

// RecordInvoice records an invoice whose factoring fee is deducted from the
// carrier's settlement for the period it falls in.
func (s *IntakeService) RecordInvoice(ctx context.Context, req *connect.Request[api.RecordInvoiceRequest]) (*connect.Response[api.RecordInvoiceResponse], error) {
	slog.Info("RecordInvoice request received",
		"carrier_id", req.Msg.CarrierID,
		"load_id", req.Msg.LoadID,
		"amount", req.Msg.Amount,
		"factoring_fee", req.Msg.FactoringFee,
	)

	if err := validate.Struct(loadInput{CarrierID: req.Msg.CarrierID, LoadID: req.Msg.LoadID}); err != nil {
		return nil, toConnectError(err)
	}
	amount, err := parsePositiveAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	inv := &models.Invoice{
		CarrierID: req.Msg.CarrierID,
		LoadID:    req.Msg.LoadID,
		Amount:    amount,
	}
	if req.Msg.FactoringFee != "" {
		fee, err := parseAmount("factoringFee", req.Msg.FactoringFee)
		if err != nil {
			return nil, toConnectError(err)
		}
		if fee.IsNegative() {
			return nil, toConnectError(apperr.Validation("factoringFee must not be negative"))
		}
		inv.FactoringFee = decimal.NewNullDecimal(fee)
	}

	err = s.store.WithTx(ctx, func(repo storage.Repository) error {
		if _, err := repo.GetCarrier(ctx, inv.CarrierID); err != nil {
			return err
		}
		return repo.CreateInvoice(ctx, inv)
	})
	if err != nil {
		slog.Error("RecordInvoice failed", "carrier_id", req.Msg.CarrierID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Invoice recorded", "invoice_id", inv.ID, "carrier_id", inv.CarrierID)

	return connect.NewResponse(&api.RecordInvoiceResponse{Invoice: invoiceToAPI(inv)}), nil
}

// UpdateDocuments replaces the document flags of a carrier pay.
func (s *IntakeService) UpdateDocuments(ctx context.Context, req *connect.Request[api.UpdateDocumentsRequest]) (*connect.Response[api.UpdateDocumentsResponse], error) {
	slog.Info("UpdateDocuments request received", "carrier_pay_id", req.Msg.CarrierPayID)

	var cp *models.CarrierPay
	err := s.store.WithTx(ctx, func(repo storage.Repository) error {
		if err := repo.SetCarrierPayDocuments(ctx, req.Msg.CarrierPayID, documentsFromAPI(req.Msg.Documents)); err != nil {
			return err
		}
		var err error
		cp, err = repo.GetCarrierPay(ctx, req.Msg.CarrierPayID)
		return err
	})
	if err != nil {
		slog.Error("UpdateDocuments failed", "carrier_pay_id", req.Msg.CarrierPayID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateDocumentsResponse{
		CarrierPay: carrierPayToAPI(cp),
		Warnings:   s.policy.Warnings(cp.Documents),
	}), nil
}
