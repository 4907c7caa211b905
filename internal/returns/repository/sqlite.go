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

func (r *SqliteRepository) Create(ctx context.Context, q sqlx.ExtContext, req *model.ReturnRequest) error {
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	_, err := sqlx.NamedExecContext(ctx, q, `
        INSERT INTO return_requests (id, product_id, requested_by, reason, approved, is_recall, created_at, updated_at)
        VALUES (:id, :product_id, :requested_by, :reason, :approved, :is_recall, :created_at, :updated_at)
    `, req)
	return err
}

func (r *SqliteRepository) Latest(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.ReturnRequest, error) {
	var req model.ReturnRequest
	err := sqlx.GetContext(ctx, q, &req, `
        SELECT * FROM return_requests
        WHERE product_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT 1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *SqliteRepository) Open(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.ReturnRequest, error) {
	var req model.ReturnRequest
	err := sqlx.GetContext(ctx, q, &req, `
        SELECT * FROM return_requests
        WHERE product_id = ? AND approved = 0 AND is_recall = 0
        ORDER BY created_at DESC, rowid DESC
        LIMIT 1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *SqliteRepository) Approve(ctx context.Context, q sqlx.ExtContext, id string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE return_requests SET approved = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	return err
}
