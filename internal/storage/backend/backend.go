// Package backend opens the storage backend named by the configuration.
package backend

import (
	"fmt"

	"github.com/mmynk/freightledger/internal/config"
	"github.com/mmynk/freightledger/internal/storage/postgres"
	"github.com/mmynk/freightledger/internal/storage/sqlite"
	"github.com/mmynk/freightledger/internal/storage/sqlstore"
)

// Open connects to the configured database and applies its schema.
func Open(cfg config.DatabaseConfig) (*sqlstore.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverPostgres:
		return postgres.New(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Describe names the database for logs without leaking credentials.
func Describe(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	return cfg.Driver
}
