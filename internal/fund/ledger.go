// Package fund implements the factoring fund ledger: an insert-only log of
// fund movements with a running balance.
//
// Every append reads the latest entry and writes the next one inside a single
// store transaction, so balanceAfter always equals the sum of all amounts up to
// and including the entry, even with concurrent writers.
package fund

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

// Entry is a fund movement to append.
type Entry struct {
	Type models.FundTransactionType

	// Amount is taken as an absolute value for every type except ADJUSTMENT,
	// whose sign is kept.
	Amount decimal.Decimal

	Description string

	// Reference optionally names the carrier pay behind the movement.
	Reference string
}

// SignedAmount returns the amount as it affects the fund balance.
func SignedAmount(t models.FundTransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, apperr.Validation("fund transaction amount must be non-zero")
	}
	switch t {
	case models.FundDeposit, models.FundQuickPayFee, models.FundInterest:
		return amount.Abs(), nil
	case models.FundWithdrawal, models.FundQuickPayDisbursement:
		return amount.Abs().Neg(), nil
	case models.FundAdjustment:
		return amount, nil
	default:
		return decimal.Zero, apperr.Validation("unknown fund transaction type %q", t)
	}
}

// Ledger appends to and reads the factoring fund.
type Ledger struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLedger creates a Ledger. m may be nil.
func NewLedger(store storage.Store, logger *slog.Logger, m *metrics.Metrics) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:   store,
		logger:  logger.With("component", "fund"),
		metrics: m,
		now:     time.Now,
	}
}

// Append writes the next ledger entry through repo, which must be a
// transaction handle from storage.Store.WithTx. Callers publish the committed
// entries with Observe.
func (l *Ledger) Append(ctx context.Context, repo storage.Repository, e Entry) (*models.FundTransaction, error) {
	signed, err := SignedAmount(e.Type, e.Amount)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(e.Description)
	if description == "" {
		return nil, apperr.Validation("fund transaction description is required")
	}

	latest, err := repo.LatestFundTransaction(ctx)
	if err != nil {
		return nil, err
	}
	seq, balance := int64(1), decimal.Zero
	if latest != nil {
		seq = latest.Seq + 1
		balance = latest.BalanceAfter
	}

	ft := &models.FundTransaction{
		Seq:          seq,
		Type:         e.Type,
		Amount:       signed,
		Description:  description,
		Reference:    e.Reference,
		BalanceAfter: balance.Add(signed),
		CreatedAt:    l.now().UTC(),
	}
	if err := repo.InsertFundTransaction(ctx, ft); err != nil {
		return nil, err
	}

	if ft.BalanceAfter.IsNegative() {
		l.logger.Warn("Fund balance is negative",
			"seq", ft.Seq,
			"type", ft.Type,
			"amount", ft.Amount.StringFixed(2),
			"balance_after", ft.BalanceAfter.StringFixed(2),
			"reference", ft.Reference,
		)
	}
	return ft, nil
}

// Observe publishes committed entries to metrics.
func (l *Ledger) Observe(txs ...*models.FundTransaction) {
	for _, ft := range txs {
		l.metrics.ObserveFundTransaction(string(ft.Type), ft.BalanceAfter)
	}
}

// RecordTransaction appends one entry in its own transaction.
func (l *Ledger) RecordTransaction(ctx context.Context, e Entry) (*models.FundTransaction, error) {
	var ft *models.FundTransaction
	err := l.store.WithTx(ctx, func(repo storage.Repository) error {
		var err error
		ft, err = l.Append(ctx, repo, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Observe(ft)
	l.logger.Info("Fund transaction recorded",
		"seq", ft.Seq,
		"type", ft.Type,
		"amount", ft.Amount.StringFixed(2),
		"balance_after", ft.BalanceAfter.StringFixed(2),
	)
	return ft, nil
}

// Deposit adds capital to the fund.
func (l *Ledger) Deposit(ctx context.Context, amount decimal.Decimal, description string) (*models.FundTransaction, error) {
	return l.RecordTransaction(ctx, Entry{Type: models.FundDeposit, Amount: amount, Description: description})
}

// Withdraw removes capital from the fund.
func (l *Ledger) Withdraw(ctx context.Context, amount decimal.Decimal, description string) (*models.FundTransaction, error) {
	return l.RecordTransaction(ctx, Entry{Type: models.FundWithdrawal, Amount: amount, Description: description})
}

// Adjust records a signed correction.
func (l *Ledger) Adjust(ctx context.Context, amount decimal.Decimal, description string) (*models.FundTransaction, error) {
	return l.RecordTransaction(ctx, Entry{Type: models.FundAdjustment, Amount: amount, Description: description})
}

// CurrentBalance returns the balance after the latest entry, or zero for an empty fund.
func (l *Ledger) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	latest, err := l.store.LatestFundTransaction(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.BalanceAfter, nil
}

// History returns one page of entries, newest first, and the total entry count.
func (l *Ledger) History(ctx context.Context, page, pageSize int) ([]*models.FundTransaction, int, error) {
	return l.store.ListFundTransactions(ctx, page, pageSize)
}
