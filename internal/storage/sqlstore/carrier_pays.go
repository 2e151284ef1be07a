package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

const carrierPayColumns = `id, carrier_id, load_id, amount, quick_pay_discount, net_amount,
	payment_method, status, settlement_id,
	bol_received, pod_received, rate_confirmation_signed, carrier_invoice_received,
	scheduled_for, approved_by, approved_at, rejection_reason,
	created_at, updated_at, paid_at`

func scanCarrierPay(row rowScanner) (*models.CarrierPay, error) {
	cp := &models.CarrierPay{}
	var (
		settlementID             sql.NullString
		scheduledFor, approvedAt sql.NullInt64
		paidAt                   sql.NullInt64
		createdAt, updatedAt     int64
	)

	err := row.Scan(
		&cp.ID, &cp.CarrierID, &cp.LoadID, &cp.Amount, &cp.QuickPayDiscount, &cp.NetAmount,
		&cp.PaymentMethod, &cp.Status, &settlementID,
		&cp.Documents.BOLReceived, &cp.Documents.PODReceived,
		&cp.Documents.RateConfirmationSigned, &cp.Documents.CarrierInvoiceReceived,
		&scheduledFor, &cp.ApprovedBy, &approvedAt, &cp.RejectionReason,
		&createdAt, &updatedAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	if settlementID.Valid {
		cp.SettlementID = settlementID.String
	}
	cp.ScheduledFor = fromNullUnixNano(scheduledFor)
	cp.ApprovedAt = fromNullUnixNano(approvedAt)
	cp.PaidAt = fromNullUnixNano(paidAt)
	cp.CreatedAt = fromUnixNano(createdAt)
	cp.UpdatedAt = fromUnixNano(updatedAt)

	return cp, nil
}

func scanCarrierPays(rows *sql.Rows) ([]*models.CarrierPay, error) {
	defer rows.Close()

	var pays []*models.CarrierPay
	for rows.Next() {
		cp, err := scanCarrierPay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carrier pay: %w", err)
		}
		pays = append(pays, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate carrier pays: %w", err)
	}
	return pays, nil
}

// CreateCarrierPay persists a new carrier pay in status PENDING.
func (q *queries) CreateCarrierPay(ctx context.Context, cp *models.CarrierPay) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	cp.UpdatedAt = cp.CreatedAt
	if cp.PaymentMethod == "" {
		cp.PaymentMethod = models.PaymentMethodStandard
	}
	cp.Status = models.CarrierPayPending
	cp.SettlementID = ""

	_, err := q.exec(ctx,
		`INSERT INTO carrier_pays (`+carrierPayColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.CarrierID, cp.LoadID, cp.Amount, cp.QuickPayDiscount, cp.NetAmount,
		cp.PaymentMethod, cp.Status, nullString(cp.SettlementID),
		cp.Documents.BOLReceived, cp.Documents.PODReceived,
		cp.Documents.RateConfirmationSigned, cp.Documents.CarrierInvoiceReceived,
		nullUnixNano(cp.ScheduledFor), cp.ApprovedBy, nullUnixNano(cp.ApprovedAt), cp.RejectionReason,
		toUnixNano(cp.CreatedAt), toUnixNano(cp.UpdatedAt), nullUnixNano(cp.PaidAt),
	)
	if err != nil {
		return q.wrap(err, "insert carrier pay")
	}
	return nil
}

// GetCarrierPay retrieves a carrier pay by ID.
func (q *queries) GetCarrierPay(ctx context.Context, id string) (*models.CarrierPay, error) {
	cp, err := scanCarrierPay(q.queryRow(ctx,
		`SELECT `+carrierPayColumns+` FROM carrier_pays WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("carrier pay not found: %s", id)
	}
	if err != nil {
		return nil, q.wrap(err, "get carrier pay")
	}
	return cp, nil
}

// ListCarrierPays returns one page of carrier pays, newest first.
func (q *queries) ListCarrierPays(ctx context.Context, filter models.CarrierPayFilter) ([]*models.CarrierPay, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CarrierID != "" {
		conds = append(conds, "carrier_id = ?")
		args = append(args, filter.CarrierID)
	}
	if filter.SettlementID != "" {
		conds = append(conds, "settlement_id = ?")
		args = append(args, filter.SettlementID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	where := whereClause(conds)

	var total int
	if err := q.queryRow(ctx, `SELECT COUNT(*) FROM carrier_pays`+where, args...).Scan(&total); err != nil {
		return nil, 0, q.wrap(err, "count carrier pays")
	}

	limit, offset := storage.Page(filter.Page, filter.PageSize)
	rows, err := q.query(ctx,
		`SELECT `+carrierPayColumns+` FROM carrier_pays`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, q.wrap(err, "list carrier pays")
	}
	pays, err := scanCarrierPays(rows)
	if err != nil {
		return nil, 0, err
	}
	return pays, total, nil
}

// ListCarrierPaysByCarrier returns every carrier pay of a carrier, oldest first.
func (q *queries) ListCarrierPaysByCarrier(ctx context.Context, carrierID string) ([]*models.CarrierPay, error) {
	rows, err := q.query(ctx,
		`SELECT `+carrierPayColumns+` FROM carrier_pays WHERE carrier_id = ? ORDER BY created_at, id`,
		carrierID,
	)
	if err != nil {
		return nil, q.wrap(err, "list carrier pays by carrier")
	}
	return scanCarrierPays(rows)
}

// FindUnsettled returns the carrier pays a settlement for the period would sweep up.
// Linked records are excluded by the settlement_id filter, so running it again
// after a settlement is created never selects the same record twice.
func (q *queries) FindUnsettled(ctx context.Context, carrierID string, start, end time.Time) ([]*models.CarrierPay, error) {
	args := []any{carrierID}
	for _, status := range models.SettleableStatuses {
		args = append(args, status)
	}
	args = append(args, toUnixNano(start), toUnixNano(end))

	rows, err := q.query(ctx,
		`SELECT `+carrierPayColumns+` FROM carrier_pays
		 WHERE carrier_id = ?
		   AND settlement_id IS NULL
		   AND status IN (`+placeholders(len(models.SettleableStatuses))+`)
		   AND created_at >= ? AND created_at <= ?
		 ORDER BY created_at, id`,
		args...,
	)
	if err != nil {
		return nil, q.wrap(err, "find unsettled carrier pays")
	}
	return scanCarrierPays(rows)
}

// LinkToSettlement re-parents carrier pays to a settlement in one statement.
func (q *queries) LinkToSettlement(ctx context.Context, ids []string, settlementID string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	idArgs := make([]any, len(ids))
	for i, id := range ids {
		idArgs[i] = id
	}

	rows, err := q.query(ctx,
		`SELECT id, settlement_id FROM carrier_pays WHERE id IN (`+placeholders(len(ids))+`)`,
		idArgs...,
	)
	if err != nil {
		return q.wrap(err, "check carrier pays before linking")
	}
	linked := make(map[string]string, len(ids))
	for rows.Next() {
		var id string
		var current sql.NullString
		if err := rows.Scan(&id, &current); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan carrier pay link: %w", err)
		}
		linked[id] = current.String
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate carrier pay links: %w", err)
	}

	for _, id := range ids {
		current, ok := linked[id]
		if !ok {
			return apperr.NotFound("carrier pay not found: %s", id)
		}
		if current != "" {
			return apperr.Conflict("carrier pay %s is already linked to settlement %s", id, current)
		}
	}

	args := append([]any{settlementID, toUnixNano(time.Now())}, idArgs...)
	res, err := q.exec(ctx,
		`UPDATE carrier_pays SET settlement_id = ?, updated_at = ?
		 WHERE id IN (`+placeholders(len(ids))+`) AND settlement_id IS NULL`,
		args...,
	)
	if err != nil {
		return q.wrap(err, "link carrier pays")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read linked row count: %w", err)
	}
	if n != int64(len(ids)) {
		return apperr.Conflict("linked %d of %d carrier pays to settlement %s", n, len(ids), settlementID)
	}
	return nil
}

// UpdateCarrierPay writes the workflow fields of a carrier pay.
func (q *queries) UpdateCarrierPay(ctx context.Context, cp *models.CarrierPay) error {
	cp.UpdatedAt = time.Now().UTC()

	res, err := q.exec(ctx,
		`UPDATE carrier_pays SET
			quick_pay_discount = ?, net_amount = ?, payment_method = ?, status = ?,
			scheduled_for = ?, approved_by = ?, approved_at = ?, rejection_reason = ?,
			updated_at = ?, paid_at = ?
		 WHERE id = ?`,
		cp.QuickPayDiscount, cp.NetAmount, cp.PaymentMethod, cp.Status,
		nullUnixNano(cp.ScheduledFor), cp.ApprovedBy, nullUnixNano(cp.ApprovedAt), cp.RejectionReason,
		toUnixNano(cp.UpdatedAt), nullUnixNano(cp.PaidAt),
		cp.ID,
	)
	if err != nil {
		return q.wrap(err, "update carrier pay")
	}
	return expectOneRow(res, "carrier pay", cp.ID)
}

// SetCarrierPayDocuments replaces the document flags of a carrier pay.
func (q *queries) SetCarrierPayDocuments(ctx context.Context, id string, docs models.Documents) error {
	res, err := q.exec(ctx,
		`UPDATE carrier_pays SET
			bol_received = ?, pod_received = ?, rate_confirmation_signed = ?, carrier_invoice_received = ?,
			updated_at = ?
		 WHERE id = ?`,
		docs.BOLReceived, docs.PODReceived, docs.RateConfirmationSigned, docs.CarrierInvoiceReceived,
		toUnixNano(time.Now()), id,
	)
	if err != nil {
		return q.wrap(err, "update carrier pay documents")
	}
	return expectOneRow(res, "carrier pay", id)
}

// MarkSettlementCarrierPaysPaid marks every linked, not-yet-paid carrier pay PAID.
func (q *queries) MarkSettlementCarrierPaysPaid(ctx context.Context, settlementID string, paidAt time.Time) (int64, error) {
	res, err := q.exec(ctx,
		`UPDATE carrier_pays SET status = ?, paid_at = ?, updated_at = ?
		 WHERE settlement_id = ? AND status <> ?`,
		models.CarrierPayPaid, toUnixNano(paidAt), toUnixNano(paidAt),
		settlementID, models.CarrierPayPaid,
	)
	if err != nil {
		return 0, q.wrap(err, "mark settlement carrier pays paid")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read paid row count: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("%s not found: %s", entity, id)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
