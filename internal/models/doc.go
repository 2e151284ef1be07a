// Package models defines the core domain models for the freight ledger.
//
// # Models
//
//   - CarrierPay: one payable owed to a carrier for one load
//   - Settlement: a numbered batch of carrier pays for one carrier over one period
//   - FundTransaction: one insert-only entry against the shared factoring fund
//   - Carrier: the slice of the carrier profile the ledger needs (quick-pay tier)
//   - Invoice: the slice of an invoice the ledger needs (factoring fee)
//
// # Design Principles
//
// 1. **Money is decimal**: every amount is a decimal.Decimal, never a float
// 2. **History is never edited**: corrections are new ADJUSTMENT transactions or REJECTED status
// 3. **Avoid circular references**: relationships are ID strings; display-only
// expansions (Settlement.Carrier, Settlement.CarrierPays) are filled on read
package models
