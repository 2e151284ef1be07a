package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/approval"
	"github.com/mmynk/freightledger/internal/fund"
	"github.com/mmynk/freightledger/internal/middleware"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/settlement"
	"github.com/mmynk/freightledger/internal/storage/sqlite"
	"github.com/mmynk/freightledger/pkg/api"
	"github.com/mmynk/freightledger/pkg/api/apiconnect"
)

// roleHeader lets a test pick the caller's role per request.
const roleHeader = "X-Test-Role"

// testAuthInterceptor returns a Connect interceptor that puts a test caller in the context.
// The role comes from roleHeader and defaults to ACCOUNTING.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			role := models.Role(req.Header().Get(roleHeader))
			if role == "" {
				role = models.RoleAccounting
			}
			ctx = middleware.WithActor(ctx, models.Actor{UserID: "alice", Role: role})
			return next(ctx, req)
		}
	}
}

type testClients struct {
	settlements apiconnect.SettlementServiceClient
	fund        apiconnect.FundServiceClient
	carrierPays apiconnect.CarrierPayServiceClient
	intake      apiconnect.IntakeServiceClient
}

// setupTestServer creates a test server with every service on a temporary SQLite database
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ledger := fund.NewLedger(store, nil, nil)
	batcher := settlement.NewBatcher(store, nil, nil)
	workflow := approval.NewWorkflow(store, ledger, nil, nil)

	interceptors := connect.WithInterceptors(
		testAuthInterceptor(),
		middleware.RequireLedgerRole(apiconnect.LedgerProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(batcher), interceptors))
	mux.Handle(apiconnect.NewFundServiceHandler(NewFundService(ledger), interceptors))
	mux.Handle(apiconnect.NewCarrierPayServiceHandler(NewCarrierPayService(store, workflow), interceptors))
	mux.Handle(apiconnect.NewIntakeServiceHandler(NewIntakeService(store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		fund:        apiconnect.NewFundServiceClient(http.DefaultClient, server.URL),
		carrierPays: apiconnect.NewCarrierPayServiceClient(http.DefaultClient, server.URL),
		intake:      apiconnect.NewIntakeServiceClient(http.DefaultClient, server.URL),
	}
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func (c testClients) mustCarrier(t *testing.T, id, tier string) {
	t.Helper()
	_, err := c.intake.UpsertCarrier(context.Background(), connect.NewRequest(&api.UpsertCarrierRequest{
		ID:           id,
		Name:         "Carrier " + id,
		QuickPayTier: tier,
	}))
	if err != nil {
		t.Fatalf("UpsertCarrier failed: %v", err)
	}
}

func (c testClients) mustCarrierPay(t *testing.T, carrierID, loadID, amount string) *api.CarrierPay {
	t.Helper()
	resp, err := c.intake.CreateCarrierPay(context.Background(), connect.NewRequest(&api.CreateCarrierPayRequest{
		CarrierID: carrierID,
		LoadID:    loadID,
		Amount:    amount,
	}))
	if err != nil {
		t.Fatalf("CreateCarrierPay failed: %v", err)
	}
	return resp.Msg.CarrierPay
}

// currentPeriod spans the day around now, so freshly created carrier pays fall inside it.
func currentPeriod() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestSettlementLifecycle(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	c.mustCarrier(t, "carrier-1", "")
	c.mustCarrierPay(t, "carrier-1", "L-1", "500.00")
	c.mustCarrierPay(t, "carrier-1", "L-2", "750.00")
	c.mustCarrierPay(t, "carrier-1", "L-3", "250.00")

	start, end := currentPeriod()
	createResp, err := c.settlements.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		CarrierID:   "carrier-1",
		PeriodStart: start,
		PeriodEnd:   end,
		PeriodType:  "WEEKLY",
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	st := createResp.Msg.Settlement
	if st.SettlementNumber != "STL-1001" {
		t.Errorf("settlement number: expected STL-1001, got %s", st.SettlementNumber)
	}
	if st.GrossPay != "1500.00" || st.Deductions != "0.00" || st.NetSettlement != "1500.00" {
		t.Errorf("totals: expected 1500.00/0.00/1500.00, got %s/%s/%s", st.GrossPay, st.Deductions, st.NetSettlement)
	}
	if st.Status != "DRAFT" {
		t.Errorf("status: expected DRAFT, got %s", st.Status)
	}
	if st.CreatedBy != "alice" {
		t.Errorf("created by: expected alice, got %s", st.CreatedBy)
	}

	_, err = c.settlements.MarkSettlementPaid(ctx, connect.NewRequest(&api.MarkSettlementPaidRequest{SettlementID: st.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	if _, err := c.settlements.FinalizeSettlement(ctx, connect.NewRequest(&api.FinalizeSettlementRequest{SettlementID: st.ID})); err != nil {
		t.Fatalf("FinalizeSettlement failed: %v", err)
	}
	_, err = c.settlements.FinalizeSettlement(ctx, connect.NewRequest(&api.FinalizeSettlementRequest{SettlementID: st.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	paidResp, err := c.settlements.MarkSettlementPaid(ctx, connect.NewRequest(&api.MarkSettlementPaidRequest{SettlementID: st.ID}))
	if err != nil {
		t.Fatalf("MarkSettlementPaid failed: %v", err)
	}
	if paidResp.Msg.Settlement.Status != "PAID" || paidResp.Msg.Settlement.PaidAt == nil {
		t.Errorf("expected PAID with paidAt, got %s", paidResp.Msg.Settlement.Status)
	}

	getResp, err := c.settlements.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{SettlementID: st.ID}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	got := getResp.Msg.Settlement
	if got.Carrier == nil || got.Carrier.ID != "carrier-1" {
		t.Errorf("expected carrier-1 on the settlement, got %+v", got.Carrier)
	}
	if len(got.CarrierPays) != 3 {
		t.Fatalf("carrier pays: expected 3, got %d", len(got.CarrierPays))
	}
	for _, cp := range got.CarrierPays {
		if cp.Status != "PAID" || cp.SettlementID != st.ID {
			t.Errorf("carrier pay %s: expected PAID in %s, got %s in %s", cp.ID, st.ID, cp.Status, cp.SettlementID)
		}
	}

	// Everything in the period is settled now.
	_, err = c.settlements.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		CarrierID:   "carrier-1",
		PeriodStart: start,
		PeriodEnd:   end,
		PeriodType:  "WEEKLY",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	listResp, err := c.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{CarrierID: "carrier-1"}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if listResp.Msg.Total != 1 || len(listResp.Msg.Settlements) != 1 {
		t.Errorf("expected 1 settlement, got %d (total %d)", len(listResp.Msg.Settlements), listResp.Msg.Total)
	}
}

func TestCreateSettlement_DeductsFactoringFees(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	c.mustCarrier(t, "carrier-1", "")
	c.mustCarrierPay(t, "carrier-1", "L-1", "1000.00")
	if _, err := c.intake.RecordInvoice(ctx, connect.NewRequest(&api.RecordInvoiceRequest{
		CarrierID:    "carrier-1",
		LoadID:       "L-1",
		Amount:       "1200.00",
		FactoringFee: "30.00",
	})); err != nil {
		t.Fatalf("RecordInvoice failed: %v", err)
	}

	start, end := currentPeriod()
	resp, err := c.settlements.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		CarrierID:   "carrier-1",
		PeriodStart: start,
		PeriodEnd:   end,
		PeriodType:  "BIWEEKLY",
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if resp.Msg.Settlement.Deductions != "30.00" || resp.Msg.Settlement.NetSettlement != "970.00" {
		t.Errorf("expected deductions 30.00 and net 970.00, got %s and %s",
			resp.Msg.Settlement.Deductions, resp.Msg.Settlement.NetSettlement)
	}
}

func TestCreateSettlement_Validation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	c.mustCarrier(t, "carrier-1", "")
	start, end := currentPeriod()

	tests := []struct {
		name string
		req  *api.CreateSettlementRequest
		code connect.Code
	}{
		{"unknown carrier", &api.CreateSettlementRequest{CarrierID: "ghost", PeriodStart: start, PeriodEnd: end, PeriodType: "WEEKLY"}, connect.CodeNotFound},
		{"inverted period", &api.CreateSettlementRequest{CarrierID: "carrier-1", PeriodStart: end, PeriodEnd: start, PeriodType: "WEEKLY"}, connect.CodeInvalidArgument},
		{"bad period type", &api.CreateSettlementRequest{CarrierID: "carrier-1", PeriodStart: start, PeriodEnd: end, PeriodType: "MONTHLY"}, connect.CodeInvalidArgument},
		{"no carrier pays", &api.CreateSettlementRequest{CarrierID: "carrier-1", PeriodStart: start, PeriodEnd: end, PeriodType: "WEEKLY"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settlements.CreateSettlement(ctx, connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}
}

func TestGetSettlement_NotFound(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.settlements.GetSettlement(context.Background(), connect.NewRequest(&api.GetSettlementRequest{
		SettlementID: "nonexistent-id",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestLedgerRoleGate(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	c.mustCarrier(t, "carrier-1", "")
	c.mustCarrierPay(t, "carrier-1", "L-1", "100.00")
	start, end := currentPeriod()

	for _, role := range []models.Role{models.RoleDispatcher, models.RoleCarrier} {
		req := connect.NewRequest(&api.CreateSettlementRequest{
			CarrierID:   "carrier-1",
			PeriodStart: start,
			PeriodEnd:   end,
			PeriodType:  "WEEKLY",
		})
		req.Header().Set(roleHeader, string(role))
		_, err := c.settlements.CreateSettlement(ctx, req)
		expectCode(t, err, connect.CodePermissionDenied)

		deposit := connect.NewRequest(&api.DepositRequest{Amount: "10.00", Description: "seed"})
		deposit.Header().Set(roleHeader, string(role))
		_, err = c.fund.Deposit(ctx, deposit)
		expectCode(t, err, connect.CodePermissionDenied)

		// Reads stay open to every authenticated role.
		list := connect.NewRequest(&api.ListSettlementsRequest{})
		list.Header().Set(roleHeader, string(role))
		if _, err := c.settlements.ListSettlements(ctx, list); err != nil {
			t.Errorf("ListSettlements as %s failed: %v", role, err)
		}
	}

	// The rejected calls wrote nothing.
	listResp, err := c.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if listResp.Msg.Total != 0 {
		t.Errorf("expected no settlements, got %d", listResp.Msg.Total)
	}
}

func TestQuickPayThroughFund(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	if _, err := c.fund.Deposit(ctx, connect.NewRequest(&api.DepositRequest{Amount: "5000.00", Description: "Initial capital"})); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	c.mustCarrier(t, "carrier-1", "FLASH")
	cp := c.mustCarrierPay(t, "carrier-1", "L-1", "1000.00")

	reqResp, err := c.carrierPays.RequestQuickPay(ctx, connect.NewRequest(&api.RequestQuickPayRequest{CarrierPayID: cp.ID}))
	if err != nil {
		t.Fatalf("RequestQuickPay failed: %v", err)
	}
	if reqResp.Msg.Quote.FeeAmount != "50.00" || reqResp.Msg.Quote.NetAmount != "950.00" {
		t.Errorf("quote: expected 50.00/950.00, got %s/%s", reqResp.Msg.Quote.FeeAmount, reqResp.Msg.Quote.NetAmount)
	}
	if reqResp.Msg.CarrierPay.Status != "SCHEDULED" || reqResp.Msg.CarrierPay.PaymentMethod != "FLASH" {
		t.Errorf("expected SCHEDULED via FLASH, got %s via %s", reqResp.Msg.CarrierPay.Status, reqResp.Msg.CarrierPay.PaymentMethod)
	}
	if len(reqResp.Msg.Warnings) != 4 {
		t.Errorf("expected 4 document warnings, got %v", reqResp.Msg.Warnings)
	}

	approveResp, err := c.carrierPays.ApproveCarrierPay(ctx, connect.NewRequest(&api.ApproveCarrierPayRequest{CarrierPayID: cp.ID}))
	if err != nil {
		t.Fatalf("ApproveCarrierPay failed: %v", err)
	}
	if approveResp.Msg.CarrierPay.Status != "PAID" {
		t.Errorf("expected PAID, got %s", approveResp.Msg.CarrierPay.Status)
	}
	txs := approveResp.Msg.FundTransactions
	if len(txs) != 2 {
		t.Fatalf("expected 2 fund transactions, got %d", len(txs))
	}
	if txs[0].Type != "QUICK_PAY_DISBURSEMENT" || txs[0].Amount != "-950.00" || txs[0].Reference != cp.ID {
		t.Errorf("unexpected disbursement: %+v", txs[0])
	}
	if txs[1].Type != "QUICK_PAY_FEE" || txs[1].Amount != "50.00" {
		t.Errorf("unexpected fee: %+v", txs[1])
	}

	balResp, err := c.fund.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{}))
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balResp.Msg.Balance != "4100.00" || balResp.Msg.LastSeq != 3 {
		t.Errorf("expected balance 4100.00 at seq 3, got %s at seq %d", balResp.Msg.Balance, balResp.Msg.LastSeq)
	}

	listResp, err := c.fund.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{}))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if listResp.Msg.Total != 3 || listResp.Msg.Transactions[0].Seq != 3 {
		t.Errorf("expected 3 transactions newest first, got %d starting at seq %d",
			listResp.Msg.Total, listResp.Msg.Transactions[0].Seq)
	}

	// A paid record cannot be approved or rejected again.
	_, err = c.carrierPays.ApproveCarrierPay(ctx, connect.NewRequest(&api.ApproveCarrierPayRequest{CarrierPayID: cp.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)
	_, err = c.carrierPays.RejectCarrierPay(ctx, connect.NewRequest(&api.RejectCarrierPayRequest{CarrierPayID: cp.ID, Reason: "late"}))
	expectCode(t, err, connect.CodeFailedPrecondition)
}

func TestRequestQuickPay_NotEnrolled(t *testing.T) {
	c := setupTestServer(t)
	c.mustCarrier(t, "carrier-1", "")
	cp := c.mustCarrierPay(t, "carrier-1", "L-1", "1000.00")

	_, err := c.carrierPays.RequestQuickPay(context.Background(), connect.NewRequest(&api.RequestQuickPayRequest{CarrierPayID: cp.ID}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestQuoteQuickPay(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	resp, err := c.carrierPays.QuoteQuickPay(ctx, connect.NewRequest(&api.QuoteQuickPayRequest{Tier: "express", Amount: "1000.00"}))
	if err != nil {
		t.Fatalf("QuoteQuickPay failed: %v", err)
	}
	q := resp.Msg.Quote
	if q.Tier != "EXPRESS" || q.FeePercent != "3.5" || q.FeeAmount != "35.00" || q.NetAmount != "965.00" || q.PayoutDelayDays != 3 {
		t.Errorf("unexpected quote: %+v", q)
	}

	c.mustCarrier(t, "carrier-1", "ELITE")
	cp := c.mustCarrierPay(t, "carrier-1", "L-1", "1000.00")
	resp, err = c.carrierPays.QuoteQuickPay(ctx, connect.NewRequest(&api.QuoteQuickPayRequest{CarrierPayID: cp.ID}))
	if err != nil {
		t.Fatalf("QuoteQuickPay by carrier pay failed: %v", err)
	}
	if resp.Msg.Quote.FeeAmount != "0.00" || resp.Msg.Quote.NetAmount != "1000.00" || resp.Msg.Quote.PayoutDelayDays != 14 {
		t.Errorf("unexpected ELITE quote: %+v", resp.Msg.Quote)
	}

	// Quoting writes nothing.
	getResp, err := c.carrierPays.GetCarrierPay(ctx, connect.NewRequest(&api.GetCarrierPayRequest{CarrierPayID: cp.ID}))
	if err != nil {
		t.Fatalf("GetCarrierPay failed: %v", err)
	}
	if getResp.Msg.CarrierPay.Status != "PENDING" || getResp.Msg.CarrierPay.QuickPayDiscount != "" {
		t.Errorf("expected untouched PENDING record, got %+v", getResp.Msg.CarrierPay)
	}

	_, err = c.carrierPays.QuoteQuickPay(ctx, connect.NewRequest(&api.QuoteQuickPayRequest{Tier: "TURBO", Amount: "10.00"}))
	expectCode(t, err, connect.CodeInvalidArgument)
	_, err = c.carrierPays.QuoteQuickPay(ctx, connect.NewRequest(&api.QuoteQuickPayRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestFundEntries_Validation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.fund.Withdraw(ctx, connect.NewRequest(&api.WithdrawRequest{Amount: "-5.00", Description: "oops"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.fund.Deposit(ctx, connect.NewRequest(&api.DepositRequest{Amount: "1.005", Description: "too precise"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.fund.Deposit(ctx, connect.NewRequest(&api.DepositRequest{Amount: "10.00"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.fund.Adjust(ctx, connect.NewRequest(&api.AdjustRequest{Amount: "0", Description: "nothing"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	resp, err := c.fund.Adjust(ctx, connect.NewRequest(&api.AdjustRequest{Amount: "-25.50", Description: "Bank fee correction"}))
	if err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if resp.Msg.Transaction.Seq != 1 || resp.Msg.Transaction.BalanceAfter != "-25.50" {
		t.Errorf("expected seq 1 with balance -25.50, got seq %d with %s",
			resp.Msg.Transaction.Seq, resp.Msg.Transaction.BalanceAfter)
	}

	withdrawResp, err := c.fund.Withdraw(ctx, connect.NewRequest(&api.WithdrawRequest{Amount: "100.00", Description: "Owner draw"}))
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if withdrawResp.Msg.Transaction.Amount != "-100.00" || withdrawResp.Msg.Transaction.BalanceAfter != "-125.50" {
		t.Errorf("unexpected withdrawal: %+v", withdrawResp.Msg.Transaction)
	}
}

func TestCarrierPayIntake(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.intake.CreateCarrierPay(ctx, connect.NewRequest(&api.CreateCarrierPayRequest{
		CarrierID: "ghost",
		LoadID:    "L-1",
		Amount:    "100.00",
	}))
	expectCode(t, err, connect.CodeNotFound)

	c.mustCarrier(t, "carrier-1", "priority")
	_, err = c.intake.CreateCarrierPay(ctx, connect.NewRequest(&api.CreateCarrierPayRequest{
		CarrierID: "carrier-1",
		LoadID:    "L-1",
		Amount:    "0",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = c.intake.UpsertCarrier(ctx, connect.NewRequest(&api.UpsertCarrierRequest{ID: "carrier-2", Name: "Two", QuickPayTier: "TURBO"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	cp := c.mustCarrierPay(t, "carrier-1", "L-1", "1234.56")
	if cp.Status != "PENDING" || cp.PaymentMethod != "STANDARD" || cp.Amount != "1234.56" {
		t.Errorf("unexpected carrier pay: %+v", cp)
	}

	docsResp, err := c.intake.UpdateDocuments(ctx, connect.NewRequest(&api.UpdateDocumentsRequest{
		CarrierPayID: cp.ID,
		Documents:    api.Documents{BOLReceived: true, PODReceived: true, RateConfirmationSigned: true},
	}))
	if err != nil {
		t.Fatalf("UpdateDocuments failed: %v", err)
	}
	if len(docsResp.Msg.Warnings) != 1 || docsResp.Msg.Warnings[0] != "carrier invoice not received" {
		t.Errorf("expected only the carrier invoice warning, got %v", docsResp.Msg.Warnings)
	}
	if !docsResp.Msg.CarrierPay.Documents.PODReceived {
		t.Error("expected POD flag to be stored")
	}

	_, err = c.intake.UpdateDocuments(ctx, connect.NewRequest(&api.UpdateDocumentsRequest{CarrierPayID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestCarrierPaySummaryAndList(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	c.mustCarrier(t, "carrier-1", "FLASH")
	c.mustCarrierPay(t, "carrier-1", "L-1", "100.00")
	cp := c.mustCarrierPay(t, "carrier-1", "L-2", "200.00")
	rejected := c.mustCarrierPay(t, "carrier-1", "L-3", "300.00")

	if _, err := c.carrierPays.RequestQuickPay(ctx, connect.NewRequest(&api.RequestQuickPayRequest{CarrierPayID: cp.ID})); err != nil {
		t.Fatalf("RequestQuickPay failed: %v", err)
	}
	if _, err := c.carrierPays.RejectCarrierPay(ctx, connect.NewRequest(&api.RejectCarrierPayRequest{CarrierPayID: rejected.ID, Reason: "duplicate load"})); err != nil {
		t.Fatalf("RejectCarrierPay failed: %v", err)
	}

	sumResp, err := c.carrierPays.GetCarrierPaySummary(ctx, connect.NewRequest(&api.GetCarrierPaySummaryRequest{CarrierID: "carrier-1"}))
	if err != nil {
		t.Fatalf("GetCarrierPaySummary failed: %v", err)
	}
	s := sumResp.Msg.Summary
	if s.Count != 3 || s.Total != "600.00" || s.Unsettled != "600.00" || s.QuickPayFees != "10.00" {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.ByStatus["SCHEDULED"].Count != 1 || s.ByStatus["REJECTED"].Amount != "300.00" {
		t.Errorf("unexpected status buckets: %+v", s.ByStatus)
	}

	listResp, err := c.carrierPays.ListCarrierPays(ctx, connect.NewRequest(&api.ListCarrierPaysRequest{
		CarrierID: "carrier-1",
		Status:    "REJECTED",
	}))
	if err != nil {
		t.Fatalf("ListCarrierPays failed: %v", err)
	}
	if listResp.Msg.Total != 1 || listResp.Msg.CarrierPays[0].RejectionReason != "duplicate load" {
		t.Errorf("expected the rejected record, got %+v", listResp.Msg.CarrierPays)
	}

	_, err = c.carrierPays.ListCarrierPays(ctx, connect.NewRequest(&api.ListCarrierPaysRequest{Status: "LOST"}))
	expectCode(t, err, connect.CodeInvalidArgument)
}
