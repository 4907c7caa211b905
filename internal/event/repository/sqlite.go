package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type SqliteRepository struct{}

func NewSqliteRepository() *SqliteRepository {
	return &SqliteRepository{}
}

func (r *SqliteRepository) Append(ctx context.Context, q sqlx.ExtContext, ev *model.Event) error {
	_, err := sqlx.NamedExecContext(ctx, q, `
        INSERT INTO events (id, type, product_id, batch_id, actor, payload, published, created_at)
        VALUES (:id, :type, :product_id, :batch_id, :actor, :payload, :published, :created_at)
    `, ev)
	return err
}

func (r *SqliteRepository) ListByProduct(ctx context.Context, q sqlx.ExtContext, productID int64) ([]model.Event, error) {
	var events []model.Event
	err := sqlx.SelectContext(ctx, q, &events,
		`SELECT * FROM events WHERE product_id = ? ORDER BY created_at, rowid`, productID)
	return events, err
}

func (r *SqliteRepository) Unpublished(ctx context.Context, q sqlx.ExtContext, limit int) ([]model.Event, error) {
	var events []model.Event
	err := sqlx.SelectContext(ctx, q, &events,
		`SELECT * FROM events WHERE published = 0 ORDER BY created_at, rowid LIMIT ?`, limit)
	return events, err
}

func (r *SqliteRepository) MarkPublished(ctx context.Context, q sqlx.ExtContext, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := q.ExecContext(ctx,
		`UPDATE events SET published = 1 WHERE id IN (`+placeholders+`)`, args...)
	return err
}
