package approval

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/fund"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/settlement"
	"github.com/mmynk/freightledger/internal/storage"
	"github.com/mmynk/freightledger/internal/storage/sqlite"
)

var (
	ceo     = models.Actor{UserID: "ceo-1", Role: models.RoleCEO}
	carrier = models.Actor{UserID: "carrier-user", Role: models.RoleCarrier}
)

type fixture struct {
	store    storage.Store
	ledger   *fund.Ledger
	workflow *Workflow
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "approval.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for id, tier := range map[string]string{"flash": "FLASH", "elite": "elite", "none": ""} {
		if err := store.UpsertCarrier(ctx, &models.Carrier{ID: id, Name: id, QuickPayTier: tier}); err != nil {
			t.Fatalf("UpsertCarrier failed: %v", err)
		}
	}

	ledger := fund.NewLedger(store, nil, nil)
	w := NewWorkflow(store, ledger, nil, nil)
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	return &fixture{store: store, ledger: ledger, workflow: w, now: now}
}

func (f *fixture) pay(t *testing.T, carrierID, amount string) *models.CarrierPay {
	t.Helper()
	cp := &models.CarrierPay{CarrierID: carrierID, LoadID: "load-1", Amount: decimal.RequireFromString(amount)}
	if err := f.store.CreateCarrierPay(context.Background(), cp); err != nil {
		t.Fatalf("CreateCarrierPay failed: %v", err)
	}
	return cp
}

func TestDocumentPolicy(t *testing.T) {
	tests := []struct {
		name string
		docs models.Documents
		want []string
	}{
		{"complete", models.Documents{BOLReceived: true, PODReceived: true, RateConfirmationSigned: true, CarrierInvoiceReceived: true}, nil},
		{"missing pod and invoice", models.Documents{BOLReceived: true, RateConfirmationSigned: true},
			[]string{"proof of delivery not received", "carrier invoice not received"}},
		{"nothing", models.Documents{}, []string{
			"bill of lading not received",
			"proof of delivery not received",
			"rate confirmation not signed",
			"carrier invoice not received",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (DocumentPolicy{}).Warnings(tt.docs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Warnings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuickPayDisbursement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.ledger.Deposit(ctx, decimal.RequireFromString("5000.00"), "seed capital"); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	cp := f.pay(t, "flash", "1000.00")

	req, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID)
	if err != nil {
		t.Fatalf("RequestQuickPay failed: %v", err)
	}
	got := req.CarrierPay
	if got.Status != models.CarrierPayScheduled {
		t.Errorf("status = %s, want SCHEDULED", got.Status)
	}
	if got.PaymentMethod != "FLASH" {
		t.Errorf("payment method = %s, want FLASH", got.PaymentMethod)
	}
	if got.QuickPayDiscount.Decimal.StringFixed(2) != "50.00" || got.NetAmount.Decimal.StringFixed(2) != "950.00" {
		t.Errorf("discount %s net %s, want 50.00 / 950.00", got.QuickPayDiscount.Decimal, got.NetAmount.Decimal)
	}
	if got.ScheduledFor == nil || !got.ScheduledFor.Equal(f.now) {
		t.Errorf("scheduledFor = %v, want same day %v", got.ScheduledFor, f.now)
	}
	if len(req.Warnings) != 4 {
		t.Errorf("expected 4 document warnings, got %v", req.Warnings)
	}

	res, err := f.workflow.Approve(ctx, ceo, cp.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.CarrierPay.Status != models.CarrierPayPaid || res.CarrierPay.PaidAt == nil {
		t.Errorf("status %s paidAt %v, want PAID with paidAt", res.CarrierPay.Status, res.CarrierPay.PaidAt)
	}
	if res.CarrierPay.ApprovedBy != ceo.UserID {
		t.Errorf("approvedBy = %q, want %q", res.CarrierPay.ApprovedBy, ceo.UserID)
	}
	if len(res.FundTransactions) != 2 {
		t.Fatalf("fund transactions = %d, want 2", len(res.FundTransactions))
	}
	for _, ft := range res.FundTransactions {
		if ft.Reference != cp.ID {
			t.Errorf("fund transaction %d references %q, want %q", ft.Seq, ft.Reference, cp.ID)
		}
	}

	// 5000 - 950 + 50
	balance, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance failed: %v", err)
	}
	if balance.StringFixed(2) != "4100.00" {
		t.Errorf("balance = %s, want 4100.00", balance.StringFixed(2))
	}

	stored, err := f.store.GetCarrierPay(ctx, cp.ID)
	if err != nil {
		t.Fatalf("GetCarrierPay failed: %v", err)
	}
	if stored.Status != models.CarrierPayPaid {
		t.Errorf("stored status = %s, want PAID", stored.Status)
	}
}

func TestApproveSettledQuickPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.ledger.Deposit(ctx, decimal.RequireFromString("5000.00"), "seed capital"); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	cp := f.pay(t, "flash", "1000.00")
	if _, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID); err != nil {
		t.Fatalf("RequestQuickPay failed: %v", err)
	}

	batcher := settlement.NewBatcher(f.store, nil, nil)
	s, err := batcher.CreateSettlement(ctx, ceo, settlement.CreateInput{
		CarrierID:   "flash",
		PeriodStart: cp.CreatedAt.Add(-time.Hour),
		PeriodEnd:   cp.CreatedAt.Add(time.Hour),
		PeriodType:  models.PeriodWeekly,
	})
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	if _, err := f.workflow.Approve(ctx, ceo, cp.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected InvalidState approving a settled quick pay, got %v", err)
	}

	history, total, err := f.ledger.History(ctx, 1, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if total != 1 || len(history) != 1 {
		t.Errorf("fund transactions = %d, want only the seed deposit", total)
	}
	balance, err := f.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("CurrentBalance failed: %v", err)
	}
	if balance.StringFixed(2) != "5000.00" {
		t.Errorf("balance = %s, want 5000.00", balance.StringFixed(2))
	}

	stored, err := f.store.GetCarrierPay(ctx, cp.ID)
	if err != nil {
		t.Fatalf("GetCarrierPay failed: %v", err)
	}
	if stored.Status != models.CarrierPayScheduled || stored.SettlementID != s.ID {
		t.Errorf("stored status %s settlement %q, want SCHEDULED in %q", stored.Status, stored.SettlementID, s.ID)
	}
}

func TestEliteQuickPayBooksNoFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cp := f.pay(t, "elite", "1000.00")

	req, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID)
	if err != nil {
		t.Fatalf("RequestQuickPay failed: %v", err)
	}
	if want := f.now.Add(14 * 24 * time.Hour); !req.CarrierPay.ScheduledFor.Equal(want) {
		t.Errorf("scheduledFor = %v, want %v", req.CarrierPay.ScheduledFor, want)
	}

	res, err := f.workflow.Approve(ctx, ceo, cp.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if len(res.FundTransactions) != 1 || res.FundTransactions[0].Type != models.FundQuickPayDisbursement {
		t.Fatalf("expected a single disbursement, got %+v", res.FundTransactions)
	}
	if res.FundTransactions[0].Amount.StringFixed(2) != "-1000.00" {
		t.Errorf("disbursement = %s, want -1000.00", res.FundTransactions[0].Amount)
	}
}

func TestApprovePendingMovesNoMoney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cp := f.pay(t, "none", "800.00")

	res, err := f.workflow.Approve(ctx, ceo, cp.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.CarrierPay.Status != models.CarrierPayApproved || res.CarrierPay.ApprovedAt == nil {
		t.Errorf("status %s approvedAt %v", res.CarrierPay.Status, res.CarrierPay.ApprovedAt)
	}
	if len(res.FundTransactions) != 0 {
		t.Errorf("unexpected fund transactions: %v", res.FundTransactions)
	}

	if _, err := f.workflow.Approve(ctx, ceo, cp.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Errorf("expected InvalidState approving APPROVED, got %v", err)
	}
}

func TestRequestQuickPayPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("carrier not enrolled", func(t *testing.T) {
		cp := f.pay(t, "none", "100.00")
		if _, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("expected Validation, got %v", err)
		}
	})

	t.Run("already scheduled", func(t *testing.T) {
		cp := f.pay(t, "flash", "100.00")
		if _, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID); err != nil {
			t.Fatalf("RequestQuickPay failed: %v", err)
		}
		if _, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID); !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("expected InvalidState, got %v", err)
		}
	})

	t.Run("approved record may request quick pay", func(t *testing.T) {
		cp := f.pay(t, "flash", "200.00")
		if _, err := f.workflow.Approve(ctx, ceo, cp.ID); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		res, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID)
		if err != nil {
			t.Fatalf("RequestQuickPay failed: %v", err)
		}
		if res.Quote.FeeAmount.StringFixed(2) != "10.00" {
			t.Errorf("fee = %s, want 10.00", res.Quote.FeeAmount)
		}
	})

	t.Run("unknown carrier pay", func(t *testing.T) {
		if _, err := f.workflow.RequestQuickPay(ctx, carrier, "missing"); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("carrier role is denied", func(t *testing.T) {
		cp := f.pay(t, "none", "100.00")
		if _, err := f.workflow.Reject(ctx, carrier, cp.ID, "duplicate"); !errors.Is(err, apperr.ErrPermissionDenied) {
			t.Errorf("expected PermissionDenied, got %v", err)
		}
		if _, err := f.workflow.Approve(ctx, carrier, cp.ID); !errors.Is(err, apperr.ErrPermissionDenied) {
			t.Errorf("expected PermissionDenied, got %v", err)
		}
	})

	t.Run("reason is required", func(t *testing.T) {
		cp := f.pay(t, "none", "100.00")
		if _, err := f.workflow.Reject(ctx, ceo, cp.ID, "   "); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("expected Validation, got %v", err)
		}
	})

	t.Run("pending is rejected once", func(t *testing.T) {
		cp := f.pay(t, "none", "100.00")
		res, err := f.workflow.Reject(ctx, ceo, cp.ID, "load cancelled")
		if err != nil {
			t.Fatalf("Reject failed: %v", err)
		}
		if res.CarrierPay.Status != models.CarrierPayRejected || res.CarrierPay.RejectionReason != "load cancelled" {
			t.Errorf("status %s reason %q", res.CarrierPay.Status, res.CarrierPay.RejectionReason)
		}
		if _, err := f.workflow.Reject(ctx, ceo, cp.ID, "again"); !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("expected InvalidState, got %v", err)
		}
	})

	t.Run("paid cannot be rejected", func(t *testing.T) {
		cp := f.pay(t, "flash", "100.00")
		if _, err := f.workflow.RequestQuickPay(ctx, carrier, cp.ID); err != nil {
			t.Fatalf("RequestQuickPay failed: %v", err)
		}
		if _, err := f.workflow.Approve(ctx, ceo, cp.ID); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if _, err := f.workflow.Reject(ctx, ceo, cp.ID, "too late"); !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("expected InvalidState, got %v", err)
		}
	})
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	cp := f.pay(t, "flash", "1234.56")

	quote, err := f.workflow.Preview(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// 1234.56 * 5% = 61.728
	if quote.FeeAmount.StringFixed(2) != "61.73" || quote.NetAmount.StringFixed(2) != "1172.83" {
		t.Errorf("fee %s net %s, want 61.73 / 1172.83", quote.FeeAmount, quote.NetAmount)
	}

	stored, err := f.store.GetCarrierPay(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("GetCarrierPay failed: %v", err)
	}
	if stored.Status != models.CarrierPayPending || stored.IsQuickPay() {
		t.Errorf("Preview wrote to the record: status %s", stored.Status)
	}
}
