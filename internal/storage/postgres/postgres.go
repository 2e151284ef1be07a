// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mmynk/freightledger/internal/storage/sqlstore"
)

const (
	uniqueViolation      = pq.ErrorCode("23505")
	serializationFailure = pq.ErrorCode("40001")
	deadlockDetected     = pq.ErrorCode("40P01")
)

// Dialect is the PostgreSQL flavour of the shared ledger SQL.
// Every WithTx runs SERIALIZABLE, so two read-then-write transactions that
// race on the same rows cannot both commit.
var Dialect = sqlstore.Dialect{
	Name:                 "postgres",
	Schema:               schema,
	NumberedPlaceholders: true,
	TxOptions:            &sql.TxOptions{Isolation: sql.LevelSerializable},
	IsConflict:           isConflict,
}

// New connects to the database at dsn and runs migrations.
func New(dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := sqlstore.New(db, Dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case uniqueViolation, serializationFailure, deadlockDetected:
		return true
	}
	return false
}
