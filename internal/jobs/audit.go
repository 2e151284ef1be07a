// Package jobs runs the ledger's scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/storage"
)

const auditBatchSize = 500

// Discrepancy is one broken ledger invariant found by an audit.
type Discrepancy struct {
	Kind   string
	Ref    string
	Detail string
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Ref, d.Detail)
}

// AuditReport summarizes one audit run.
type AuditReport struct {
	FundTransactions int
	Settlements      int
	Balance          decimal.Decimal
	Discrepancies    []Discrepancy
}

// Clean reports whether the audit found nothing wrong.
func (r *AuditReport) Clean() bool {
	return len(r.Discrepancies) == 0
}

// LedgerAuditor re-verifies the stored ledger against its invariants: the fund
// seq chain is gap-free, every balanceAfter equals the running sum, and every
// settlement's net equals gross minus deductions.
type LedgerAuditor struct {
	store     storage.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
}

func NewLedgerAuditor(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *LedgerAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerAuditor{
		store:     store,
		logger:    logger.With("component", "audit"),
		metrics:   m,
		batchSize: auditBatchSize,
	}
}

// Run audits the whole ledger once.
func (a *LedgerAuditor) Run(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{Balance: decimal.Zero}

	if err := a.auditFund(ctx, report); err != nil {
		a.metrics.AuditCompleted(0, err)
		return nil, err
	}
	if err := a.auditSettlements(ctx, report); err != nil {
		a.metrics.AuditCompleted(0, err)
		return nil, err
	}

	for _, d := range report.Discrepancies {
		a.logger.Error("Ledger discrepancy", "kind", d.Kind, "ref", d.Ref, "detail", d.Detail)
	}
	a.metrics.AuditCompleted(len(report.Discrepancies), nil)
	a.metrics.SetFundBalance(report.Balance)
	a.logger.Info("Ledger audit completed",
		"fund_transactions", report.FundTransactions,
		"settlements", report.Settlements,
		"balance", report.Balance.StringFixed(2),
		"discrepancies", len(report.Discrepancies),
	)
	return report, nil
}

func (a *LedgerAuditor) auditFund(ctx context.Context, report *AuditReport) error {
	var after int64
	running := decimal.Zero
	for {
		batch, err := a.store.ListFundTransactionsAfter(ctx, after, a.batchSize)
		if err != nil {
			return err
		}
		for _, ft := range batch {
			ref := fmt.Sprintf("seq=%d", ft.Seq)
			if ft.Seq != after+1 {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					Kind:   "fund_seq_gap",
					Ref:    ref,
					Detail: fmt.Sprintf("expected seq %d", after+1),
				})
			}
			running = running.Add(ft.Amount)
			if !ft.BalanceAfter.Equal(running) {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					Kind:   "fund_balance_mismatch",
					Ref:    ref,
					Detail: fmt.Sprintf("balanceAfter %s, running sum %s", ft.BalanceAfter.StringFixed(2), running.StringFixed(2)),
				})
				running = ft.BalanceAfter
			}
			after = ft.Seq
			report.FundTransactions++
		}
		if len(batch) < a.batchSize {
			break
		}
	}
	report.Balance = running
	return nil
}

func (a *LedgerAuditor) auditSettlements(ctx context.Context, report *AuditReport) error {
	var after int64
	for {
		batch, err := a.store.ListSettlementsAfter(ctx, after, a.batchSize)
		if err != nil {
			return err
		}
		for _, s := range batch {
			seq, err := calculator.ParseSettlementNumber(s.SettlementNumber)
			if err != nil {
				return fmt.Errorf("audit settlement %s: %w", s.ID, err)
			}
			after = seq
			report.Settlements++

			totals := calculator.SettlementTotals{
				GrossPay:      s.GrossPay,
				Deductions:    s.Deductions,
				NetSettlement: s.NetSettlement,
			}
			if !totals.Balanced() {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					Kind: "settlement_unbalanced",
					Ref:  s.SettlementNumber,
					Detail: fmt.Sprintf("gross %s - deductions %s != net %s",
						s.GrossPay.StringFixed(2), s.Deductions.StringFixed(2), s.NetSettlement.StringFixed(2)),
				})
			}
		}
		if len(batch) < a.batchSize {
			return nil
		}
	}
}
