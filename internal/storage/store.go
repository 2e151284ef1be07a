// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/freightledger/internal/models"
)

// DefaultPageSize and MaxPageSize bound every paginated listing.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page normalizes a 1-based page number and page size into a limit and offset.
func Page(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// CarrierPays is the carrier pay store.
type CarrierPays interface {
	// CreateCarrierPay persists a new record in status PENDING.
	// The ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateCarrierPay(ctx context.Context, cp *models.CarrierPay) error

	// GetCarrierPay returns apperr.ErrNotFound if the record does not exist.
	GetCarrierPay(ctx context.Context, id string) (*models.CarrierPay, error)

	// ListCarrierPays returns a page of records newest-first and the total match count.
	ListCarrierPays(ctx context.Context, filter models.CarrierPayFilter) ([]*models.CarrierPay, int, error)

	// ListCarrierPaysByCarrier returns every record of a carrier, oldest first.
	ListCarrierPaysByCarrier(ctx context.Context, carrierID string) ([]*models.CarrierPay, error)

	// FindUnsettled returns the carrier's records that are not linked to a settlement,
	// have a settleable status, and were created within [start, end].
	FindUnsettled(ctx context.Context, carrierID string, start, end time.Time) ([]*models.CarrierPay, error)

	// LinkToSettlement re-parents every id to settlementID in one statement.
	// It fails with apperr.ErrConflict if any id is already linked and
	// apperr.ErrNotFound if any id does not exist. Callers run it inside WithTx
	// so a failure leaves no partial writes.
	LinkToSettlement(ctx context.Context, ids []string, settlementID string) error

	// UpdateCarrierPay writes the workflow fields of cp (status, quick-pay quote,
	// schedule, approval, rejection, paid timestamp). Amount and SettlementID are never written.
	UpdateCarrierPay(ctx context.Context, cp *models.CarrierPay) error

	// SetCarrierPayDocuments replaces the document flags of a record.
	SetCarrierPayDocuments(ctx context.Context, id string, docs models.Documents) error

	// MarkSettlementCarrierPaysPaid sets every linked record that is not yet PAID
	// to PAID with paidAt, in one statement. It returns the number of rows changed.
	MarkSettlementCarrierPaysPaid(ctx context.Context, settlementID string, paidAt time.Time) (int64, error)
}

// Settlements is the settlement store.
type Settlements interface {
	// CreateSettlement inserts a settlement row. ID and CreatedAt are populated
	// by the store when empty. A duplicate settlement number fails with apperr.ErrConflict.
	CreateSettlement(ctx context.Context, s *models.Settlement) error

	// GetSettlement returns apperr.ErrNotFound if the settlement does not exist.
	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)

	// ListSettlements returns a page of settlements newest-first and the total match count.
	ListSettlements(ctx context.Context, filter models.SettlementFilter) ([]*models.Settlement, int, error)

	// ListSettlementsAfter returns up to limit settlements whose number suffix is
	// greater than afterNumber, in ascending numeric order.
	ListSettlementsAfter(ctx context.Context, afterNumber int64, limit int) ([]*models.Settlement, error)

	// LatestSettlementNumber returns the highest settlement number, or "" if none exist.
	LatestSettlementNumber(ctx context.Context) (string, error)

	// TransitionSettlement moves a settlement from one status to another and stamps at
	// on the matching timestamp column. It returns false if the settlement was not in from.
	TransitionSettlement(ctx context.Context, id string, from, to models.SettlementStatus, at time.Time) (bool, error)
}

// FundLedger is the insert-only factoring fund transaction log.
type FundLedger interface {
	// LatestFundTransaction returns the newest entry, or nil if the ledger is empty.
	LatestFundTransaction(ctx context.Context) (*models.FundTransaction, error)

	// InsertFundTransaction appends an entry. Seq must be the previous Seq + 1;
	// a duplicate Seq fails with apperr.ErrConflict.
	InsertFundTransaction(ctx context.Context, tx *models.FundTransaction) error

	// ListFundTransactions returns a page of entries newest-first and the total count.
	ListFundTransactions(ctx context.Context, page, pageSize int) ([]*models.FundTransaction, int, error)

	// ListFundTransactionsAfter returns up to limit entries with Seq > afterSeq, oldest first.
	ListFundTransactionsAfter(ctx context.Context, afterSeq int64, limit int) ([]*models.FundTransaction, error)
}

// Carriers mirrors the carrier profiles the ledger needs.
type Carriers interface {
	// UpsertCarrier inserts or replaces a carrier profile.
	UpsertCarrier(ctx context.Context, c *models.Carrier) error

	// GetCarrier returns apperr.ErrNotFound if the carrier does not exist.
	GetCarrier(ctx context.Context, id string) (*models.Carrier, error)
}

// Invoices mirrors the invoice fields the settlement batcher reads.
type Invoices interface {
	// CreateInvoice records an invoice. ID and CreatedAt are populated when empty.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error

	// ListInvoicesInPeriod returns the carrier's invoices created within [start, end].
	ListInvoicesInPeriod(ctx context.Context, carrierID string, start, end time.Time) ([]*models.Invoice, error)
}

// Repository is every store operation. It is implemented both by the Store
// (each call on its own) and by the transaction handle passed to WithTx.
type Repository interface {
	CarrierPays
	Settlements
	FundLedger
	Carriers
	Invoices
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the ledger components.
type Store interface {
	Repository

	// WithTx runs fn inside one serialized transaction. If fn returns an error
	// the transaction is rolled back and the error returned unchanged.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	// Close releases any resources held by the store.
	Close() error
}
