package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type SqliteRepository struct{}

func NewSqliteRepository() *SqliteRepository {
	return &SqliteRepository{}
}

func (r *SqliteRepository) Create(ctx context.Context, q sqlx.ExtContext, b *model.Batch) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := sqlx.NamedExecContext(ctx, q, `
        INSERT INTO batches (id, seller, size, created_at, updated_at)
        VALUES (:id, :seller, :size, :created_at, :updated_at)
    `, b)
	return err
}

func (r *SqliteRepository) FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Batch, error) {
	var b model.Batch
	err := sqlx.GetContext(ctx, q, &b, `SELECT * FROM batches WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
