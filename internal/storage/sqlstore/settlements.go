package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/calculator"
	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

const settlementColumns = `id, settlement_number, carrier_id, period_start, period_end, period_type,
	gross_pay, deductions, net_settlement, notes, status, created_by,
	created_at, finalized_at, paid_at`

// settlementSequence orders settlement numbers numerically rather than as text,
// so STL-10000 sorts after STL-9999.
var settlementSequence = "CAST(SUBSTR(settlement_number, " +
	strconv.Itoa(len(calculator.SettlementNumberPrefix)+1) + ") AS BIGINT)"

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	s := &models.Settlement{}
	var (
		periodStart, periodEnd, createdAt int64
		finalizedAt, paidAt               sql.NullInt64
		notes                             sql.NullString
	)

	err := row.Scan(
		&s.ID, &s.SettlementNumber, &s.CarrierID, &periodStart, &periodEnd, &s.PeriodType,
		&s.GrossPay, &s.Deductions, &s.NetSettlement, &notes, &s.Status, &s.CreatedBy,
		&createdAt, &finalizedAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		s.Notes = notes.String
	}
	s.PeriodStart = fromUnixNano(periodStart)
	s.PeriodEnd = fromUnixNano(periodEnd)
	s.CreatedAt = fromUnixNano(createdAt)
	s.FinalizedAt = fromNullUnixNano(finalizedAt)
	s.PaidAt = fromNullUnixNano(paidAt)

	return s, nil
}

// CreateSettlement persists a new settlement.
func (q *queries) CreateSettlement(ctx context.Context, s *models.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := q.exec(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SettlementNumber, s.CarrierID, toUnixNano(s.PeriodStart), toUnixNano(s.PeriodEnd), s.PeriodType,
		s.GrossPay, s.Deductions, s.NetSettlement, nullString(s.Notes), s.Status, s.CreatedBy,
		toUnixNano(s.CreatedAt), nullUnixNano(s.FinalizedAt), nullUnixNano(s.PaidAt),
	)
	if err != nil {
		return q.wrap(err, "insert settlement")
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (q *queries) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	s, err := scanSettlement(q.queryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("settlement not found: %s", id)
	}
	if err != nil {
		return nil, q.wrap(err, "get settlement")
	}
	return s, nil
}

// ListSettlements returns one page of settlements, newest first.
func (q *queries) ListSettlements(ctx context.Context, filter models.SettlementFilter) ([]*models.Settlement, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CarrierID != "" {
		conds = append(conds, "carrier_id = ?")
		args = append(args, filter.CarrierID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	where := whereClause(conds)

	var total int
	if err := q.queryRow(ctx, `SELECT COUNT(*) FROM settlements`+where, args...).Scan(&total); err != nil {
		return nil, 0, q.wrap(err, "count settlements")
	}

	limit, offset := storage.Page(filter.Page, filter.PageSize)
	rows, err := q.query(ctx,
		`SELECT `+settlementColumns+` FROM settlements`+where+
			` ORDER BY `+settlementSequence+` DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, q.wrap(err, "list settlements")
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, total, nil
}

// ListSettlementsAfter walks settlements forward by number from afterNumber.
func (q *queries) ListSettlementsAfter(ctx context.Context, afterNumber int64, limit int) ([]*models.Settlement, error) {
	rows, err := q.query(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE `+settlementSequence+` > ?
		 ORDER BY `+settlementSequence+` LIMIT ?`,
		afterNumber, limit,
	)
	if err != nil {
		return nil, q.wrap(err, "list settlements after number")
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// LatestSettlementNumber returns the numerically highest settlement number.
func (q *queries) LatestSettlementNumber(ctx context.Context) (string, error) {
	var number string
	err := q.queryRow(ctx,
		`SELECT settlement_number FROM settlements ORDER BY `+settlementSequence+` DESC LIMIT 1`,
	).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", q.wrap(err, "read latest settlement number")
	}
	return number, nil
}

// TransitionSettlement moves a settlement between statuses if it is still in from.
func (q *queries) TransitionSettlement(ctx context.Context, id string, from, to models.SettlementStatus, at time.Time) (bool, error) {
	var column string
	switch to {
	case models.SettlementFinalized:
		column = "finalized_at"
	case models.SettlementPaid:
		column = "paid_at"
	default:
		return false, apperr.InvalidState("settlements cannot transition to %s", to)
	}

	res, err := q.exec(ctx,
		`UPDATE settlements SET status = ?, `+column+` = ? WHERE id = ? AND status = ?`,
		to, toUnixNano(at), id, from,
	)
	if err != nil {
		return false, q.wrap(err, "transition settlement")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read transitioned row count: %w", err)
	}
	return n == 1, nil
}
