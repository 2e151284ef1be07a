// Package approval gates individual carrier pays through approval, quick pay
// and rejection, moving fund money when a quick pay is disbursed.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/fund"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

// Result is the outcome of a workflow step.
type Result struct {
	CarrierPay *models.CarrierPay

	// Quote is set by RequestQuickPay.
	Quote *calculator.Quote

	// FundTransactions are the entries a quick-pay disbursement wrote.
	FundTransactions []*models.FundTransaction

	// Warnings come from the DocumentPolicy and never block the step.
	Warnings []string
}

// Workflow runs approval steps against the store and the fund ledger.
type Workflow struct {
	store   storage.Store
	ledger  *fund.Ledger
	policy  DocumentPolicy
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewWorkflow creates a Workflow. m may be nil.
func NewWorkflow(store storage.Store, ledger *fund.Ledger, logger *slog.Logger, m *metrics.Metrics) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		store:   store,
		ledger:  ledger,
		logger:  logger.With("component", "approval"),
		metrics: m,
		now:     time.Now,
	}
}

// Preview prices a quick pay for the carrier pay on its carrier's tier without writing anything.
func (w *Workflow) Preview(ctx context.Context, id string) (calculator.Quote, error) {
	cp, err := w.store.GetCarrierPay(ctx, id)
	if err != nil {
		return calculator.Quote{}, err
	}
	tier, err := carrierTier(ctx, w.store, cp.CarrierID)
	if err != nil {
		return calculator.Quote{}, err
	}
	return calculator.QuoteQuickPay(tier, cp.Amount)
}

func carrierTier(ctx context.Context, repo storage.Repository, carrierID string) (calculator.Tier, error) {
	carrier, err := repo.GetCarrier(ctx, carrierID)
	if err != nil {
		return "", err
	}
	if carrier.QuickPayTier == "" {
		return "", apperr.Validation("carrier %s is not enrolled in quick pay", carrierID)
	}
	return calculator.ParseTier(carrier.QuickPayTier)
}

// RequestQuickPay quotes the carrier pay on its carrier's tier and schedules
// it for early payout. The record must be PENDING or APPROVED and not yet
// linked to a settlement.
func (w *Workflow) RequestQuickPay(ctx context.Context, actor models.Actor, id string) (*Result, error) {
	var (
		cp    *models.CarrierPay
		quote calculator.Quote
	)
	err := w.store.WithTx(ctx, func(repo storage.Repository) error {
		var err error
		cp, err = repo.GetCarrierPay(ctx, id)
		if err != nil {
			return err
		}
		if cp.Settled() {
			return apperr.InvalidState("carrier pay %s is already part of settlement %s", id, cp.SettlementID)
		}
		if cp.Status != models.CarrierPayPending && cp.Status != models.CarrierPayApproved {
			return apperr.InvalidState("quick pay can only be requested for PENDING or APPROVED carrier pays (carrier pay %s is %s)", id, cp.Status)
		}

		tier, err := carrierTier(ctx, repo, cp.CarrierID)
		if err != nil {
			return err
		}
		quote, err = calculator.QuoteQuickPay(tier, cp.Amount)
		if err != nil {
			return err
		}

		scheduled := quote.PayoutDate(w.now().UTC())
		cp.QuickPayDiscount = decimal.NewNullDecimal(quote.FeeAmount)
		cp.NetAmount = decimal.NewNullDecimal(quote.NetAmount)
		cp.PaymentMethod = string(quote.Tier)
		cp.ScheduledFor = &scheduled
		cp.Status = models.CarrierPayScheduled
		return repo.UpdateCarrierPay(ctx, cp)
	})
	if err != nil {
		return nil, err
	}

	res := &Result{CarrierPay: cp, Quote: &quote, Warnings: w.warn(cp)}
	w.logger.Info("Quick pay requested",
		"carrier_pay_id", cp.ID,
		"user_id", actor.UserID,
		"tier", quote.Tier,
		"fee", quote.FeeAmount.StringFixed(2),
		"net", quote.NetAmount.StringFixed(2),
		"scheduled_for", cp.ScheduledFor,
	)
	return res, nil
}

// Approve approves a PENDING carrier pay, or disburses a SCHEDULED quick pay:
// the fund pays out the net amount and books the fee, and the record becomes PAID.
func (w *Workflow) Approve(ctx context.Context, actor models.Actor, id string) (*Result, error) {
	if err := requireLedgerRole(actor, "approve carrier pays"); err != nil {
		return nil, err
	}

	var (
		cp  *models.CarrierPay
		txs []*models.FundTransaction
	)
	err := w.store.WithTx(ctx, func(repo storage.Repository) error {
		var err error
		cp, err = repo.GetCarrierPay(ctx, id)
		if err != nil {
			return err
		}

		now := w.now().UTC()
		switch cp.Status {
		case models.CarrierPayPending:
			cp.Status = models.CarrierPayApproved
		case models.CarrierPayScheduled:
			if cp.Settled() {
				return apperr.InvalidState("carrier pay %s is part of settlement %s", id, cp.SettlementID)
			}
			txs, err = w.disburse(ctx, repo, cp)
			if err != nil {
				return err
			}
			cp.Status = models.CarrierPayPaid
			cp.PaidAt = &now
		default:
			return apperr.InvalidState("only PENDING or SCHEDULED carrier pays can be approved (carrier pay %s is %s)", id, cp.Status)
		}
		cp.ApprovedBy = actor.UserID
		cp.ApprovedAt = &now
		return repo.UpdateCarrierPay(ctx, cp)
	})
	if err != nil {
		return nil, err
	}

	res := &Result{CarrierPay: cp, FundTransactions: txs, Warnings: w.warn(cp)}
	if len(txs) > 0 {
		w.ledger.Observe(txs...)
		w.metrics.QuickPayPaid(cp.PaymentMethod)
		w.logger.Info("Quick pay disbursed",
			"carrier_pay_id", cp.ID,
			"user_id", actor.UserID,
			"tier", cp.PaymentMethod,
			"net", cp.NetAmount.Decimal.StringFixed(2),
			"fee", cp.QuickPayDiscount.Decimal.StringFixed(2),
		)
		return res, nil
	}
	w.logger.Info("Carrier pay approved", "carrier_pay_id", cp.ID, "user_id", actor.UserID)
	return res, nil
}

// disburse writes the fund entries for a scheduled quick pay.
func (w *Workflow) disburse(ctx context.Context, repo storage.Repository, cp *models.CarrierPay) ([]*models.FundTransaction, error) {
	if !cp.IsQuickPay() || !cp.NetAmount.Valid {
		return nil, apperr.InvalidState("carrier pay %s is SCHEDULED without a quick pay quote", cp.ID)
	}

	var txs []*models.FundTransaction
	out, err := w.ledger.Append(ctx, repo, fund.Entry{
		Type:        models.FundQuickPayDisbursement,
		Amount:      cp.NetAmount.Decimal,
		Description: fmt.Sprintf("Quick pay %s for load %s", cp.PaymentMethod, cp.LoadID),
		Reference:   cp.ID,
	})
	if err != nil {
		return nil, err
	}
	txs = append(txs, out)

	// ELITE carries no fee, and the ledger rejects zero entries.
	if fee := cp.QuickPayDiscount.Decimal; !fee.IsZero() {
		in, err := w.ledger.Append(ctx, repo, fund.Entry{
			Type:        models.FundQuickPayFee,
			Amount:      fee,
			Description: fmt.Sprintf("Quick pay %s fee for load %s", cp.PaymentMethod, cp.LoadID),
			Reference:   cp.ID,
		})
		if err != nil {
			return nil, err
		}
		txs = append(txs, in)
	}
	return txs, nil
}

// Reject marks a carrier pay REJECTED with the given reason. No money moves.
func (w *Workflow) Reject(ctx context.Context, actor models.Actor, id, reason string) (*Result, error) {
	if err := requireLedgerRole(actor, "reject carrier pays"); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("rejection reason is required")
	}

	var cp *models.CarrierPay
	err := w.store.WithTx(ctx, func(repo storage.Repository) error {
		var err error
		cp, err = repo.GetCarrierPay(ctx, id)
		if err != nil {
			return err
		}
		if cp.Status.Terminal() {
			return apperr.InvalidState("carrier pay %s is already %s", id, cp.Status)
		}
		if cp.Settled() {
			return apperr.InvalidState("carrier pay %s is part of settlement %s", id, cp.SettlementID)
		}
		cp.Status = models.CarrierPayRejected
		cp.RejectionReason = reason
		return repo.UpdateCarrierPay(ctx, cp)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("Carrier pay rejected", "carrier_pay_id", cp.ID, "user_id", actor.UserID, "reason", reason)
	return &Result{CarrierPay: cp}, nil
}

func (w *Workflow) warn(cp *models.CarrierPay) []string {
	warnings := w.policy.Warnings(cp.Documents)
	if len(warnings) > 0 {
		w.logger.Warn("Carrier pay documents incomplete",
			"carrier_pay_id", cp.ID,
			"load_id", cp.LoadID,
			"missing", warnings,
		)
	}
	return warnings
}

func requireLedgerRole(actor models.Actor, action string) error {
	if !actor.Role.CanManageLedger() {
		return apperr.PermissionDenied("role %q may not %s", actor.Role, action)
	}
	return nil
}
