package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type SqliteRepository struct{}

func NewSqliteRepository() *SqliteRepository {
	return &SqliteRepository{}
}

func (r *SqliteRepository) Grant(ctx context.Context, q sqlx.ExtContext, principal string, role model.Role) error {
	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO roles (principal, role, created_at) VALUES (?, ?, ?)`,
		principal, role, time.Now().UTC(),
	)
	return err
}

func (r *SqliteRepository) Has(ctx context.Context, q sqlx.ExtContext, principal string, role model.Role) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count,
		`SELECT count(*) FROM roles WHERE principal = ? AND role = ?`,
		principal, role,
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
