// Package metrics holds the Prometheus collectors the ledger publishes.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "freightledger"

// Metrics is the set of ledger collectors.
type Metrics struct {
	FundBalance           prometheus.Gauge
	NegativeBalance       prometheus.Counter
	FundTransactions      *prometheus.CounterVec
	SettlementsCreated    prometheus.Counter
	SettlementTransitions *prometheus.CounterVec
	QuickPayDisbursed     *prometheus.CounterVec
	AuditDiscrepancies    prometheus.Gauge
	AuditRuns             *prometheus.CounterVec
	RPCDuration           *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FundBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fund_balance",
			Help:      "Current factoring fund balance after the latest transaction.",
		}),
		NegativeBalance: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fund_negative_balance_total",
			Help:      "Fund transactions that left the balance below zero.",
		}),
		FundTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fund_transactions_total",
			Help:      "Fund transactions recorded, by type.",
		}, []string{"type"}),
		SettlementsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_created_total",
			Help:      "Settlements created.",
		}),
		SettlementTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transitions_total",
			Help:      "Settlement status transitions, by target status.",
		}, []string{"status"}),
		QuickPayDisbursed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quick_pay_disbursed_total",
			Help:      "Quick pays disbursed from the fund, by tier.",
		}, []string{"tier"}),
		AuditDiscrepancies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_discrepancies",
			Help:      "Discrepancies found by the latest ledger audit.",
		}),
		AuditRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_runs_total",
			Help:      "Ledger audit runs, by result.",
		}, []string{"result"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling time, by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	reg.MustRegister(
		m.FundBalance,
		m.NegativeBalance,
		m.FundTransactions,
		m.SettlementsCreated,
		m.SettlementTransitions,
		m.QuickPayDisbursed,
		m.AuditDiscrepancies,
		m.AuditRuns,
		m.RPCDuration,
	)
	return m
}

// ObserveFundTransaction records one appended fund entry and the resulting balance.
func (m *Metrics) ObserveFundTransaction(txType string, balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.FundTransactions.WithLabelValues(txType).Inc()
	m.FundBalance.Set(balance.InexactFloat64())
	if balance.IsNegative() {
		m.NegativeBalance.Inc()
	}
}

// SetFundBalance publishes a balance read from the store, for example at startup.
func (m *Metrics) SetFundBalance(balance decimal.Decimal) {
	if m == nil {
		return
	}
	m.FundBalance.Set(balance.InexactFloat64())
}

func (m *Metrics) SettlementCreated() {
	if m == nil {
		return
	}
	m.SettlementsCreated.Inc()
}

func (m *Metrics) SettlementTransitioned(status string) {
	if m == nil {
		return
	}
	m.SettlementTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) QuickPayPaid(tier string) {
	if m == nil {
		return
	}
	m.QuickPayDisbursed.WithLabelValues(tier).Inc()
}

// AuditCompleted publishes the discrepancy count of a finished audit run.
func (m *Metrics) AuditCompleted(discrepancies int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.AuditRuns.WithLabelValues("error").Inc()
		return
	}
	m.AuditDiscrepancies.Set(float64(discrepancies))
	if discrepancies > 0 {
		m.AuditRuns.WithLabelValues("discrepancies").Inc()
		return
	}
	m.AuditRuns.WithLabelValues("clean").Inc()
}

func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
