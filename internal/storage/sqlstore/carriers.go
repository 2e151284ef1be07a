package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/models"
)

// UpsertCarrier inserts a carrier profile or refreshes an existing one.
func (q *queries) UpsertCarrier(ctx context.Context, c *models.Carrier) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := q.exec(ctx,
		`INSERT INTO carriers (id, name, mc_number, quick_pay_tier, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			mc_number = excluded.mc_number,
			quick_pay_tier = excluded.quick_pay_tier`,
		c.ID, c.Name, c.MCNumber, c.QuickPayTier, toUnixNano(c.CreatedAt),
	)
	if err != nil {
		return q.wrap(err, "upsert carrier")
	}
	return nil
}

// GetCarrier retrieves a carrier profile by ID.
func (q *queries) GetCarrier(ctx context.Context, id string) (*models.Carrier, error) {
	c := &models.Carrier{}
	var createdAt int64
	err := q.queryRow(ctx,
		`SELECT id, name, mc_number, quick_pay_tier, created_at FROM carriers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.MCNumber, &c.QuickPayTier, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("carrier not found: %s", id)
	}
	if err != nil {
		return nil, q.wrap(err, "get carrier")
	}
	c.CreatedAt = fromUnixNano(createdAt)
	return c, nil
}
