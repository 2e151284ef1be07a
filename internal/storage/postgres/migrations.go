package postgres

// schema mirrors the SQLite schema with native types: NUMERIC for money,
// BOOLEAN for document flags. Timestamps stay Unix nanoseconds so the shared SQL
// binds the same values on both backends.
const schema = `
CREATE TABLE IF NOT EXISTS carriers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    mc_number TEXT NOT NULL DEFAULT '',
    quick_pay_tier TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    settlement_number TEXT NOT NULL UNIQUE,
    carrier_id TEXT NOT NULL REFERENCES carriers(id),
    period_start BIGINT NOT NULL,
    period_end BIGINT NOT NULL,
    period_type TEXT NOT NULL,
    gross_pay NUMERIC(14,2) NOT NULL,
    deductions NUMERIC(14,2) NOT NULL,
    net_settlement NUMERIC(14,2) NOT NULL,
    notes TEXT,
    status TEXT NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    finalized_at BIGINT,
    paid_at BIGINT
);

CREATE TABLE IF NOT EXISTS carrier_pays (
    id TEXT PRIMARY KEY,
    carrier_id TEXT NOT NULL REFERENCES carriers(id),
    load_id TEXT NOT NULL,
    amount NUMERIC(14,2) NOT NULL,
    quick_pay_discount NUMERIC(14,2),
    net_amount NUMERIC(14,2),
    payment_method TEXT NOT NULL,
    status TEXT NOT NULL,
    settlement_id TEXT REFERENCES settlements(id),
    bol_received BOOLEAN NOT NULL DEFAULT FALSE,
    pod_received BOOLEAN NOT NULL DEFAULT FALSE,
    rate_confirmation_signed BOOLEAN NOT NULL DEFAULT FALSE,
    carrier_invoice_received BOOLEAN NOT NULL DEFAULT FALSE,
    scheduled_for BIGINT,
    approved_by TEXT NOT NULL DEFAULT '',
    approved_at BIGINT,
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    paid_at BIGINT
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    carrier_id TEXT NOT NULL,
    load_id TEXT NOT NULL,
    amount NUMERIC(14,2) NOT NULL,
    factoring_fee NUMERIC(14,2),
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS fund_transactions (
    seq BIGINT PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    amount NUMERIC(14,2) NOT NULL,
    description TEXT NOT NULL,
    reference TEXT,
    balance_after NUMERIC(14,2) NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_carrier_pays_unsettled ON carrier_pays(carrier_id, settlement_id, created_at);
CREATE INDEX IF NOT EXISTS idx_carrier_pays_settlement_id ON carrier_pays(settlement_id);
CREATE INDEX IF NOT EXISTS idx_settlements_carrier_id ON settlements(carrier_id);
CREATE INDEX IF NOT EXISTS idx_invoices_carrier_created ON invoices(carrier_id, created_at);
`
