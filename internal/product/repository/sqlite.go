package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type SqliteRepository struct{}

func NewSqliteRepository() *SqliteRepository {
	return &SqliteRepository{}
}

func (r *SqliteRepository) Create(ctx context.Context, q sqlx.ExtContext, p *model.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := q.ExecContext(ctx, `
        INSERT INTO products (
            name, seller, seller_name, price, selling_price, token_uri,
            stage, batch_id, batch_position, recalled, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Seller, p.SellerName, p.Price, p.SellingPrice, p.TokenURI,
		p.Stage, p.BatchID, p.BatchPosition, p.Recalled, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SqliteRepository) FindByID(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Product, error) {
	var p model.Product
	err := sqlx.GetContext(ctx, q, &p, `SELECT * FROM products WHERE id = ? LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SqliteRepository) ListBySeller(ctx context.Context, q sqlx.ExtContext, seller string) ([]model.Product, error) {
	var products []model.Product
	err := sqlx.SelectContext(ctx, q, &products,
		`SELECT * FROM products WHERE seller = ? ORDER BY id`, seller)
	return products, err
}

func (r *SqliteRepository) ListByBatch(ctx context.Context, q sqlx.ExtContext, batchID string) ([]model.Product, error) {
	var products []model.Product
	err := sqlx.SelectContext(ctx, q, &products,
		`SELECT * FROM products WHERE batch_id = ? ORDER BY batch_position`, batchID)
	return products, err
}

func (r *SqliteRepository) UpdateStage(ctx context.Context, q sqlx.ExtContext, id int64, stage model.Stage) error {
	_, err := q.ExecContext(ctx,
		`UPDATE products SET stage = ?, updated_at = ? WHERE id = ?`,
		stage, time.Now().UTC(), id,
	)
	return err
}

func (r *SqliteRepository) MarkRecalled(ctx context.Context, q sqlx.ExtContext, id int64, stage model.Stage) error {
	_, err := q.ExecContext(ctx,
		`UPDATE products SET recalled = 1, stage = ?, updated_at = ? WHERE id = ?`,
		stage, time.Now().UTC(), id,
	)
	return err
}

func (r *SqliteRepository) CreateShipment(ctx context.Context, q sqlx.ExtContext, sh *model.Shipment) error {
	sh.CreatedAt = time.Now().UTC()

	res, err := q.ExecContext(ctx, `
        INSERT INTO shipments (product_id, sender, receiver, location, stage, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		sh.ProductID, sh.Sender, sh.Receiver, sh.Location, sh.Stage, sh.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	sh.ID = id
	return nil
}

func (r *SqliteRepository) CurrentShipment(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.Shipment, error) {
	var sh model.Shipment
	err := sqlx.GetContext(ctx, q, &sh,
		`SELECT * FROM shipments WHERE product_id = ? ORDER BY id DESC LIMIT 1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sh, nil
}

func (r *SqliteRepository) ListShipments(ctx context.Context, q sqlx.ExtContext, productID int64) ([]model.Shipment, error) {
	var shipments []model.Shipment
	err := sqlx.SelectContext(ctx, q, &shipments,
		`SELECT * FROM shipments WHERE product_id = ? ORDER BY id`, productID)
	return shipments, err
}

func (r *SqliteRepository) SyncShipmentStage(ctx context.Context, q sqlx.ExtContext, productID int64, stage model.Stage) error {
	// Only the most recent shipment reflects the live stage.
	_, err := q.ExecContext(ctx, `
        UPDATE shipments SET stage = ?
        WHERE id = (SELECT id FROM shipments WHERE product_id = ? ORDER BY id DESC LIMIT 1)`,
		stage, productID,
	)
	return err
}
