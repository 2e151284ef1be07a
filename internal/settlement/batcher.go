// Package settlement batches a carrier's unsettled pay records into numbered
// settlements and moves settlements through DRAFT -> FINALIZED -> PAID.
package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
	"github.com/mmynk/freightledger/internal/validate"
)

// createAttempts bounds how often CreateSettlement re-runs its transaction
// after losing a race for a settlement number.
const createAttempts = 3

// CreateInput requests a settlement for one carrier and period.
// The period is inclusive at both ends.
type CreateInput struct {
	CarrierID   string            `validate:"required"`
	PeriodStart time.Time         `validate:"required"`
	PeriodEnd   time.Time         `validate:"required,gtefield=PeriodStart"`
	PeriodType  models.PeriodType `validate:"required,oneof=WEEKLY BIWEEKLY"`
	Notes       string            `validate:"max=2000"`
}

// Batcher creates settlements and drives their state machine.
type Batcher struct {
	store   storage.Store
	sources []DeductionSource
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewBatcher creates a Batcher. With no sources it uses DefaultDeductionSources.
func NewBatcher(store storage.Store, logger *slog.Logger, m *metrics.Metrics, sources ...DeductionSource) *Batcher {
	if logger == nil {
		logger = slog.Default()
	}
	if len(sources) == 0 {
		sources = DefaultDeductionSources()
	}
	return &Batcher{
		store:   store,
		sources: sources,
		logger:  logger.With("component", "settlement"),
		metrics: m,
		now:     time.Now,
	}
}

func requireLedgerRole(actor models.Actor, action string) error {
	if !actor.Role.CanManageLedger() {
		return apperr.PermissionDenied("role %q may not %s", actor.Role, action)
	}
	return nil
}

// CreateSettlement selects the carrier's unsettled records in the period,
// totals them and links them to a new DRAFT settlement in one transaction.
func (b *Batcher) CreateSettlement(ctx context.Context, actor models.Actor, in CreateInput) (*models.Settlement, error) {
	if err := requireLedgerRole(actor, "create settlements"); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var (
		s   *models.Settlement
		err error
	)
	for attempt := 1; attempt <= createAttempts; attempt++ {
		s, err = b.createOnce(ctx, actor, in)
		if err == nil || !errors.Is(err, apperr.ErrConflict) || attempt == createAttempts {
			break
		}
		b.logger.Warn("Settlement creation conflicted, retrying",
			"carrier_id", in.CarrierID,
			"attempt", attempt,
			"error", err,
		)
	}
	if err != nil {
		return nil, err
	}

	b.metrics.SettlementCreated()
	b.logger.Info("Settlement created",
		"settlement_id", s.ID,
		"settlement_number", s.SettlementNumber,
		"carrier_id", s.CarrierID,
		"carrier_pays", len(s.CarrierPays),
		"gross_pay", s.GrossPay.StringFixed(2),
		"deductions", s.Deductions.StringFixed(2),
		"net_settlement", s.NetSettlement.StringFixed(2),
	)
	return s, nil
}

func (b *Batcher) createOnce(ctx context.Context, actor models.Actor, in CreateInput) (*models.Settlement, error) {
	var s *models.Settlement

	err := b.store.WithTx(ctx, func(repo storage.Repository) error {
		carrier, err := repo.GetCarrier(ctx, in.CarrierID)
		if err != nil {
			return err
		}

		latest, err := repo.LatestSettlementNumber(ctx)
		if err != nil {
			return err
		}
		number, err := calculator.NextSettlementNumber(latest)
		if err != nil {
			return err
		}

		pays, err := repo.FindUnsettled(ctx, in.CarrierID, in.PeriodStart, in.PeriodEnd)
		if err != nil {
			return err
		}
		if len(pays) == 0 {
			return apperr.Validation("no unsettled carrier pays for carrier %s between %s and %s",
				in.CarrierID, in.PeriodStart.Format(time.DateOnly), in.PeriodEnd.Format(time.DateOnly))
		}

		batch := Batch{
			CarrierID:   in.CarrierID,
			PeriodStart: in.PeriodStart,
			PeriodEnd:   in.PeriodEnd,
			CarrierPays: pays,
		}
		deductions := decimal.Zero
		for _, src := range b.sources {
			amount, err := src.Deductions(ctx, repo, batch)
			if err != nil {
				return err
			}
			b.logger.Debug("Deduction source applied", "source", src.Name(), "amount", amount.StringFixed(2))
			deductions = deductions.Add(amount)
		}
		totals := calculator.NewSettlementTotals(calculator.GrossPay(pays), deductions)

		s = &models.Settlement{
			SettlementNumber: number,
			CarrierID:        in.CarrierID,
			PeriodStart:      in.PeriodStart,
			PeriodEnd:        in.PeriodEnd,
			PeriodType:       in.PeriodType,
			GrossPay:         totals.GrossPay,
			Deductions:       totals.Deductions,
			NetSettlement:    totals.NetSettlement,
			Notes:            in.Notes,
			Status:           models.SettlementDraft,
			CreatedBy:        actor.UserID,
			CreatedAt:        b.now().UTC(),
		}
		if err := repo.CreateSettlement(ctx, s); err != nil {
			return err
		}

		ids := make([]string, len(pays))
		for i, p := range pays {
			ids[i] = p.ID
		}
		if err := repo.LinkToSettlement(ctx, ids, s.ID); err != nil {
			return err
		}
		for _, p := range pays {
			p.SettlementID = s.ID
		}

		s.Carrier = carrier
		s.CarrierPays = pays
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Finalize moves a DRAFT settlement to FINALIZED.
func (b *Batcher) Finalize(ctx context.Context, actor models.Actor, id string) (*models.Settlement, error) {
	if err := requireLedgerRole(actor, "finalize settlements"); err != nil {
		return nil, err
	}

	err := b.store.WithTx(ctx, func(repo storage.Repository) error {
		return b.transition(ctx, repo, id, models.SettlementDraft, models.SettlementFinalized,
			"Only DRAFT settlements can be finalized")
	})
	if err != nil {
		return nil, err
	}

	b.metrics.SettlementTransitioned(string(models.SettlementFinalized))
	b.logger.Info("Settlement finalized", "settlement_id", id, "user_id", actor.UserID)
	return b.Get(ctx, id)
}

// MarkPaid moves a FINALIZED settlement to PAID and marks every linked
// carrier pay that is not yet paid as PAID, in the same transaction.
func (b *Batcher) MarkPaid(ctx context.Context, actor models.Actor, id string) (*models.Settlement, error) {
	if err := requireLedgerRole(actor, "mark settlements paid"); err != nil {
		return nil, err
	}

	var cascaded int64
	err := b.store.WithTx(ctx, func(repo storage.Repository) error {
		if err := b.transition(ctx, repo, id, models.SettlementFinalized, models.SettlementPaid,
			"Only FINALIZED settlements can be marked paid"); err != nil {
			return err
		}
		var err error
		cascaded, err = repo.MarkSettlementCarrierPaysPaid(ctx, id, b.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	b.metrics.SettlementTransitioned(string(models.SettlementPaid))
	b.logger.Info("Settlement marked paid",
		"settlement_id", id,
		"user_id", actor.UserID,
		"carrier_pays_marked_paid", cascaded,
	)
	return b.Get(ctx, id)
}

func (b *Batcher) transition(ctx context.Context, repo storage.Repository, id string, from, to models.SettlementStatus, msg string) error {
	s, err := repo.GetSettlement(ctx, id)
	if err != nil {
		return err
	}
	if s.Status != from {
		return apperr.InvalidState("%s (settlement %s is %s)", msg, s.SettlementNumber, s.Status)
	}
	ok, err := repo.TransitionSettlement(ctx, id, from, to, b.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("%s (settlement %s changed concurrently)", msg, s.SettlementNumber)
	}
	return nil
}

// Get returns a settlement with its carrier and linked carrier pays.
func (b *Batcher) Get(ctx context.Context, id string) (*models.Settlement, error) {
	s, err := b.store.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}

	carrier, err := b.store.GetCarrier(ctx, s.CarrierID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	s.Carrier = carrier

	pays, err := b.linkedCarrierPays(ctx, id)
	if err != nil {
		return nil, err
	}
	s.CarrierPays = pays
	return s, nil
}

func (b *Batcher) linkedCarrierPays(ctx context.Context, settlementID string) ([]*models.CarrierPay, error) {
	var all []*models.CarrierPay
	for page := 1; ; page++ {
		pays, total, err := b.store.ListCarrierPays(ctx, models.CarrierPayFilter{
			SettlementID: settlementID,
			Page:         page,
			PageSize:     storage.MaxPageSize,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, pays...)
		if len(pays) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

// List returns one page of settlements, newest first, and the total match count.
func (b *Batcher) List(ctx context.Context, filter models.SettlementFilter) ([]*models.Settlement, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Validation("unknown settlement status %q", filter.Status)
	}
	return b.store.ListSettlements(ctx, filter)
}
