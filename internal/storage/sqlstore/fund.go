package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/freightledger/internal/models"
	"github.com/mmynk/freightledger/internal/storage"
)

const fundColumns = `seq, id, type, amount, description, reference, balance_after, created_at`

func scanFundTransaction(row rowScanner) (*models.FundTransaction, error) {
	ft := &models.FundTransaction{}
	var (
		reference sql.NullString
		createdAt int64
	)
	err := row.Scan(&ft.Seq, &ft.ID, &ft.Type, &ft.Amount, &ft.Description, &reference, &ft.BalanceAfter, &createdAt)
	if err != nil {
		return nil, err
	}
	if reference.Valid {
		ft.Reference = reference.String
	}
	ft.CreatedAt = fromUnixNano(createdAt)
	return ft, nil
}

func scanFundTransactions(rows *sql.Rows) ([]*models.FundTransaction, error) {
	defer rows.Close()

	var out []*models.FundTransaction
	for rows.Next() {
		ft, err := scanFundTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund transaction: %w", err)
		}
		out = append(out, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund transactions: %w", err)
	}
	return out, nil
}

// LatestFundTransaction returns the newest ledger entry, or nil when the ledger is empty.
func (q *queries) LatestFundTransaction(ctx context.Context) (*models.FundTransaction, error) {
	ft, err := scanFundTransaction(q.queryRow(ctx,
		`SELECT `+fundColumns+` FROM fund_transactions ORDER BY seq DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, q.wrap(err, "read latest fund transaction")
	}
	return ft, nil
}

// InsertFundTransaction appends a ledger entry. The seq primary key rejects a
// second writer that computed the same position.
func (q *queries) InsertFundTransaction(ctx context.Context, ft *models.FundTransaction) error {
	if ft.ID == "" {
		ft.ID = uuid.New().String()
	}
	if ft.CreatedAt.IsZero() {
		ft.CreatedAt = time.Now().UTC()
	}

	_, err := q.exec(ctx,
		`INSERT INTO fund_transactions (`+fundColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ft.Seq, ft.ID, ft.Type, ft.Amount, ft.Description, nullString(ft.Reference), ft.BalanceAfter, toUnixNano(ft.CreatedAt),
	)
	if err != nil {
		return q.wrap(err, "insert fund transaction")
	}
	return nil
}

// ListFundTransactions returns one page of ledger entries, newest first.
func (q *queries) ListFundTransactions(ctx context.Context, page, pageSize int) ([]*models.FundTransaction, int, error) {
	var total int
	if err := q.queryRow(ctx, `SELECT COUNT(*) FROM fund_transactions`).Scan(&total); err != nil {
		return nil, 0, q.wrap(err, "count fund transactions")
	}

	limit, offset := storage.Page(page, pageSize)
	rows, err := q.query(ctx,
		`SELECT `+fundColumns+` FROM fund_transactions ORDER BY seq DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, q.wrap(err, "list fund transactions")
	}
	txs, err := scanFundTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ListFundTransactionsAfter walks the ledger forward from afterSeq.
func (q *queries) ListFundTransactionsAfter(ctx context.Context, afterSeq int64, limit int) ([]*models.FundTransaction, error) {
	rows, err := q.query(ctx,
		`SELECT `+fundColumns+` FROM fund_transactions WHERE seq > ? ORDER BY seq LIMIT ?`,
		afterSeq, limit,
	)
	if err != nil {
		return nil, q.wrap(err, "list fund transactions after seq")
	}
	return scanFundTransactions(rows)
}
