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

func (r *SqliteRepository) Balance(ctx context.Context, q sqlx.ExtContext, productID int64) (int64, error) {
	var balance int64
	err := sqlx.GetContext(ctx, q, &balance,
		`SELECT COALESCE((SELECT amount FROM escrow_entries WHERE product_id = ?), 0)`,
		productID,
	)
	return balance, err
}

func (r *SqliteRepository) Hold(ctx context.Context, q sqlx.ExtContext, entry *model.EscrowEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	// A zeroed row from an earlier deposit/release cycle is overwritten.
	_, err := q.ExecContext(ctx, `
        INSERT INTO escrow_entries (product_id, amount, payer, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(product_id) DO UPDATE SET
            amount = excluded.amount,
            payer = excluded.payer,
            updated_at = excluded.updated_at`,
		entry.ProductID, entry.Amount, entry.Payer, entry.CreatedAt, entry.UpdatedAt,
	)
	return err
}

func (r *SqliteRepository) Zero(ctx context.Context, q sqlx.ExtContext, productID int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE escrow_entries SET amount = 0, updated_at = ? WHERE product_id = ?`,
		time.Now().UTC(), productID,
	)
	return err
}

func (r *SqliteRepository) CreditSeller(ctx context.Context, q sqlx.ExtContext, seller string, amount int64) error {
	_, err := q.ExecContext(ctx, `
        INSERT INTO seller_credits (seller, amount, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(seller) DO UPDATE SET
            amount = amount + excluded.amount,
            updated_at = excluded.updated_at`,
		seller, amount, time.Now().UTC(),
	)
	return err
}

func (r *SqliteRepository) SellerBalance(ctx context.Context, q sqlx.ExtContext, seller string) (int64, error) {
	var balance int64
	err := sqlx.GetContext(ctx, q, &balance,
		`SELECT COALESCE((SELECT amount FROM seller_credits WHERE seller = ?), 0)`,
		seller,
	)
	return balance, err
}
