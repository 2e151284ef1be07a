package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/freightledger/internal/models"
)

// CreateInvoice records the ledger-relevant fields of an invoice.
func (q *queries) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err := q.exec(ctx,
		`INSERT INTO invoices (id, carrier_id, load_id, amount, factoring_fee, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.CarrierID, inv.LoadID, inv.Amount, inv.FactoringFee, toUnixNano(inv.CreatedAt),
	)
	if err != nil {
		return q.wrap(err, "insert invoice")
	}
	return nil
}

// ListInvoicesInPeriod returns the carrier's invoices created within [start, end].
func (q *queries) ListInvoicesInPeriod(ctx context.Context, carrierID string, start, end time.Time) ([]*models.Invoice, error) {
	rows, err := q.query(ctx,
		`SELECT id, carrier_id, load_id, amount, factoring_fee, created_at FROM invoices
		 WHERE carrier_id = ? AND created_at >= ? AND created_at <= ?
		 ORDER BY created_at, id`,
		carrierID, toUnixNano(start), toUnixNano(end),
	)
	if err != nil {
		return nil, q.wrap(err, "list invoices in period")
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{}
		var createdAt int64
		if err := rows.Scan(&inv.ID, &inv.CarrierID, &inv.LoadID, &inv.Amount, &inv.FactoringFee, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.CreatedAt = fromUnixNano(createdAt)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}
