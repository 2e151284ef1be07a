package models

import "time"

// Carrier is the part of a carrier profile the ledger reads.
// The profile itself is owned by the carrier management system.
type Carrier struct {
	ID       string
	Name     string
	MCNumber string

	// QuickPayTier is the carrier's configured tier code. Empty means the
	// carrier is not enrolled in quick pay.
	QuickPayTier string

	CreatedAt time.Time
}
