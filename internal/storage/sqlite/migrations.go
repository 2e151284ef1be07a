package sqlite

// schema sets up the ledger tables. It runs on every startup, so every
// statement is idempotent.
// Money columns are TEXT so decimals round-trip exactly; timestamps are Unix nanoseconds.
// IMPORTANT: carriers and settlements must be created BEFORE carrier_pays due to foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS carriers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    mc_number TEXT NOT NULL DEFAULT '',
    quick_pay_tier TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    settlement_number TEXT NOT NULL UNIQUE,
    carrier_id TEXT NOT NULL,
    period_start INTEGER NOT NULL,
    period_end INTEGER NOT NULL,
    period_type TEXT NOT NULL,
    gross_pay TEXT NOT NULL,
    deductions TEXT NOT NULL,
    net_settlement TEXT NOT NULL,
    notes TEXT,
    status TEXT NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    finalized_at INTEGER,
    paid_at INTEGER,
    FOREIGN KEY (carrier_id) REFERENCES carriers(id)
);

CREATE TABLE IF NOT EXISTS carrier_pays (
    id TEXT PRIMARY KEY,
    carrier_id TEXT NOT NULL,
    load_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    quick_pay_discount TEXT,
    net_amount TEXT,
    payment_method TEXT NOT NULL,
    status TEXT NOT NULL,
    settlement_id TEXT,
    bol_received INTEGER NOT NULL DEFAULT 0,
    pod_received INTEGER NOT NULL DEFAULT 0,
    rate_confirmation_signed INTEGER NOT NULL DEFAULT 0,
    carrier_invoice_received INTEGER NOT NULL DEFAULT 0,
    scheduled_for INTEGER,
    approved_by TEXT NOT NULL DEFAULT '',
    approved_at INTEGER,
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    paid_at INTEGER,
    FOREIGN KEY (carrier_id) REFERENCES carriers(id),
    FOREIGN KEY (settlement_id) REFERENCES settlements(id)
);

CREATE TABLE IF NOT EXISTS invoices (
    id TEXT PRIMARY KEY,
    carrier_id TEXT NOT NULL,
    load_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    factoring_fee TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fund_transactions (
    seq INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    amount TEXT NOT NULL,
    description TEXT NOT NULL,
    reference TEXT,
    balance_after TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_carrier_pays_unsettled ON carrier_pays(carrier_id, settlement_id, created_at);
CREATE INDEX IF NOT EXISTS idx_carrier_pays_settlement_id ON carrier_pays(settlement_id);
CREATE INDEX IF NOT EXISTS idx_settlements_carrier_id ON settlements(carrier_id);
CREATE INDEX IF NOT EXISTS idx_invoices_carrier_created ON invoices(carrier_id, created_at);
`
