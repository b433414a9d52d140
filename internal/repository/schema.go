package repository

import (
	"context"
	"fmt"

	"tgstore/pkg/storage/postgres"
)

const _schema = `
CREATE TABLE IF NOT EXISTS orders (
    id                        TEXT PRIMARY KEY,
    status                    TEXT NOT NULL,
    customer_name             TEXT NOT NULL DEFAULT '',
    customer_telegram_user_id BIGINT NOT NULL DEFAULT 0,
    customer_telegram_chat_id BIGINT NOT NULL DEFAULT 0,
    payment_total             DOUBLE PRECISION NOT NULL DEFAULT 0,
    delivery_method           TEXT NOT NULL DEFAULT '',
    delivery_tracking_number  TEXT NOT NULL DEFAULT '',
    verification_video_url    TEXT NOT NULL DEFAULT '',
    verification_status       TEXT NOT NULL DEFAULT '',
    notes                     TEXT NOT NULL DEFAULT '',
    created_at                TEXT NOT NULL,
    updated_at                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);
`

// EnsureSchema creates the orders table on startup if it does not exist yet.
func EnsureSchema(ctx context.Context, db *postgres.Postgres) error {
	if _, err := db.Pool.Exec(ctx, _schema); err != nil {
		return fmt.Errorf("repository.EnsureSchema: %w", err)
	}
	return nil
}
