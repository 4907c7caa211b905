// Package schema owns the table layout shared by all repositories.
package schema

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
        principal  TEXT NOT NULL,
        role       TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        PRIMARY KEY (principal, role)
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id             INTEGER PRIMARY KEY AUTOINCREMENT,
        name           TEXT NOT NULL,
        seller         TEXT NOT NULL,
        seller_name    TEXT NOT NULL,
        price          INTEGER NOT NULL,
        selling_price  INTEGER NOT NULL,
        token_uri      TEXT NOT NULL,
        stage          INTEGER NOT NULL,
        batch_id       TEXT,
        batch_position INTEGER,
        recalled       INTEGER NOT NULL DEFAULT 0,
        created_at     TIMESTAMP NOT NULL,
        updated_at     TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS shipments (
        id         INTEGER PRIMARY KEY AUTOINCREMENT,
        product_id INTEGER NOT NULL REFERENCES products(id),
        sender     TEXT NOT NULL,
        receiver   TEXT NOT NULL,
        location   TEXT NOT NULL,
        stage      INTEGER NOT NULL,
        created_at TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_shipments_product ON shipments(product_id, id)`,
	`CREATE TABLE IF NOT EXISTS owners (
        product_id INTEGER PRIMARY KEY REFERENCES products(id),
        owner      TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS escrow_entries (
        product_id INTEGER PRIMARY KEY REFERENCES products(id),
        amount     INTEGER NOT NULL,
        payer      TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS seller_credits (
        seller     TEXT PRIMARY KEY,
        amount     INTEGER NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS batches (
        id         TEXT PRIMARY KEY,
        seller     TEXT NOT NULL,
        size       INTEGER NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS return_requests (
        id           TEXT PRIMARY KEY,
        product_id   INTEGER NOT NULL REFERENCES products(id),
        requested_by TEXT NOT NULL,
        reason       TEXT NOT NULL,
        approved     INTEGER NOT NULL DEFAULT 0,
        is_recall    INTEGER NOT NULL DEFAULT 0,
        created_at   TIMESTAMP NOT NULL,
        updated_at   TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_return_requests_product ON return_requests(product_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS events (
        id         TEXT PRIMARY KEY,
        type       TEXT NOT NULL,
        product_id INTEGER,
        batch_id   TEXT,
        actor      TEXT NOT NULL,
        payload    TEXT NOT NULL,
        published  INTEGER NOT NULL DEFAULT 0,
        created_at TIMESTAMP NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_events_unpublished ON events(published, created_at)`,
}

// Apply creates any missing tables and indexes. Safe to run on every start.
func Apply(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
