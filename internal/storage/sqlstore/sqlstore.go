// Package sqlstore implements storage.Store on database/sql.
//
// The SQL is written once with "?" placeholders; a Dialect supplies the
// schema, placeholder style, transaction isolation and conflict detection for
// each backend (see the sqlite and postgres packages).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/storage"
)

// Dialect describes the differences between SQL backends.
type Dialect struct {
	// Name identifies the backend in logs.
	Name string

	// Schema is executed on open. It must be idempotent.
	Schema string

	// NumberedPlaceholders rewrites "?" to "$1", "$2", ... before execution.
	NumberedPlaceholders bool

	// TxOptions are passed to BeginTx for every WithTx call.
	TxOptions *sql.TxOptions

	// IsConflict reports whether a driver error is a unique violation or a
	// serialization failure.
	IsConflict func(err error) bool
}

// DBTX is the subset of *sql.DB and *sql.Tx the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store over a *sql.DB.
type Store struct {
	*queries
	db *sql.DB
}

// New runs the dialect's schema on db and returns a Store.
// The Store takes ownership of db and closes it on Close.
func New(db *sql.DB, dialect Dialect) (*Store, error) {
	if _, err := db.Exec(dialect.Schema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{
		queries: &queries{db: db, dialect: &dialect},
		db:      db,
	}, nil
}

// DB exposes the underlying handle for tests and health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside one transaction opened with the dialect's options.
func (s *Store) WithTx(ctx context.Context, fn func(repo storage.Repository) error) error {
	tx, err := s.db.BeginTx(ctx, s.dialect.TxOptions)
	if err != nil {
		if s.dialect.IsConflict(err) {
			return apperr.WrapConflict(err, "failed to begin transaction")
		}
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{db: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if s.dialect.IsConflict(err) {
			return apperr.WrapConflict(err, "transaction aborted by a concurrent write")
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queries implements storage.Repository against either the database or a transaction.
type queries struct {
	db      DBTX
	dialect *Dialect
}

func (q *queries) rebind(query string) string {
	if !q.dialect.NumberedPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (q *queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(query), args...)
}

func (q *queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(query), args...)
}

func (q *queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(query), args...)
}

// wrap classifies driver conflicts and otherwise adds the "failed to" context.
func (q *queries) wrap(err error, action string) error {
	if q.dialect.IsConflict(err) {
		return apperr.WrapConflict(err, "failed to %s", action)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Timestamps are stored as Unix nanoseconds so period bounds compare exactly.

func toUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func nullUnixNano(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNullUnixNano(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnixNano(v.Int64)
	return &t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// whereClause joins conditions with AND, or returns "" when there are none.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
