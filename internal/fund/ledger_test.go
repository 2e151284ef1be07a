package fund

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/metrics"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage/sqlite"
)

func newTestLedger(t *testing.T) (*Ledger, *metrics.Metrics) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "fund.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	return NewLedger(store, nil, m), m
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name    string
		txType  models.FundTransactionType
		amount  string
		want    string
		wantErr bool
	}{
		{"deposit is positive", models.FundDeposit, "100.00", "100.00", false},
		{"deposit ignores sign", models.FundDeposit, "-100.00", "100.00", false},
		{"fee is positive", models.FundQuickPayFee, "50.00", "50.00", false},
		{"interest is positive", models.FundInterest, "1.25", "1.25", false},
		{"withdrawal is negative", models.FundWithdrawal, "40.00", "-40.00", false},
		{"disbursement is negative", models.FundQuickPayDisbursement, "950.00", "-950.00", false},
		{"disbursement ignores sign", models.FundQuickPayDisbursement, "-950.00", "-950.00", false},
		{"adjustment keeps positive", models.FundAdjustment, "12.34", "12.34", false},
		{"adjustment keeps negative", models.FundAdjustment, "-12.34", "-12.34", false},
		{"zero amount", models.FundDeposit, "0", "", true},
		{"unknown type", models.FundTransactionType("REFUND"), "10.00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(tt.txType, d(tt.amount))
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("SignedAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBalanceInvariant(t *testing.T) {
	ledger, m := newTestLedger(t)
	ctx := context.Background()

	balance, err := ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance failed: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("empty fund balance = %s, want 0", balance)
	}

	entries := []Entry{
		{Type: models.FundDeposit, Amount: d("10000.00"), Description: "initial capital"},
		{Type: models.FundQuickPayDisbursement, Amount: d("950.00"), Description: "quick pay", Reference: "cp-1"},
		{Type: models.FundQuickPayFee, Amount: d("50.00"), Description: "quick pay fee", Reference: "cp-1"},
		{Type: models.FundInterest, Amount: d("3.17"), Description: "monthly interest"},
		{Type: models.FundWithdrawal, Amount: d("2000.00"), Description: "owner draw"},
		{Type: models.FundAdjustment, Amount: d("-0.17"), Description: "bank rounding"},
	}
	for _, e := range entries {
		if _, err := ledger.RecordTransaction(ctx, e); err != nil {
			t.Fatalf("RecordTransaction(%s) failed: %v", e.Type, err)
		}
	}

	balance, err = ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance failed: %v", err)
	}
	if !balance.Equal(d("7103.00")) {
		t.Errorf("balance = %s, want 7103.00", balance)
	}
	if got := testutil.ToFloat64(m.FundBalance); got != 7103 {
		t.Errorf("balance gauge = %v, want 7103", got)
	}

	history, total, err := ledger.History(ctx, 1, 100)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if total != len(entries) {
		t.Fatalf("total = %d, want %d", total, len(entries))
	}
	running := decimal.Zero
	for i := len(history) - 1; i >= 0; i-- {
		running = running.Add(history[i].Amount)
		if !history[i].BalanceAfter.Equal(running) {
			t.Errorf("seq %d: balanceAfter %s, running sum %s", history[i].Seq, history[i].BalanceAfter, running)
		}
	}
	if history[0].Seq != int64(len(entries)) {
		t.Errorf("history not newest first: first seq %d", history[0].Seq)
	}
}

func TestConcurrentAppends(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := ledger.Deposit(ctx, d("100.00"), "deposit")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := ledger.Withdraw(ctx, d("25.00"), "withdrawal")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append failed: %v", err)
		}
	}

	balance, err := ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance failed: %v", err)
	}
	if !balance.Equal(d("750.00")) {
		t.Errorf("balance = %s, want 750.00", balance)
	}

	history, total, err := ledger.History(ctx, 1, 100)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if total != workers*2 {
		t.Fatalf("total = %d, want %d", total, workers*2)
	}
	for i, ft := range history {
		if want := int64(total - i); ft.Seq != want {
			t.Errorf("seq at %d = %d, want %d", i, ft.Seq, want)
		}
	}
}

func TestNegativeBalanceAllowed(t *testing.T) {
	ledger, m := newTestLedger(t)
	ctx := context.Background()

	ft, err := ledger.Withdraw(ctx, d("500.00"), "overdraw")
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if !ft.BalanceAfter.Equal(d("-500.00")) {
		t.Errorf("balanceAfter = %s, want -500.00", ft.BalanceAfter)
	}
	if got := testutil.ToFloat64(m.NegativeBalance); got != 1 {
		t.Errorf("negative balance counter = %v, want 1", got)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry Entry
	}{
		{"zero amount", Entry{Type: models.FundDeposit, Amount: decimal.Zero, Description: "nothing"}},
		{"unknown type", Entry{Type: "BONUS", Amount: d("1.00"), Description: "bonus"}},
		{"missing description", Entry{Type: models.FundDeposit, Amount: d("1.00"), Description: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.RecordTransaction(ctx, tt.entry)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	_, total, err := ledger.History(ctx, 1, 20)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if total != 0 {
		t.Errorf("rejected entries were written: total %d", total)
	}
}
