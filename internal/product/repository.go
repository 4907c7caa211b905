package product

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, q sqlx.ExtContext, p *model.Product) error
	FindByID(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Product, error)
	ListBySeller(ctx context.Context, q sqlx.ExtContext, seller string) ([]model.Product, error)
	ListByBatch(ctx context.Context, q sqlx.ExtContext, batchID string) ([]model.Product, error)

	UpdateStage(ctx context.Context, q sqlx.ExtContext, id int64, stage model.Stage) error
	// MarkRecalled sets the sticky recalled flag and forces the stage.
	MarkRecalled(ctx context.Context, q sqlx.ExtContext, id int64, stage model.Stage) error

	CreateShipment(ctx context.Context, q sqlx.ExtContext, sh *model.Shipment) error
	CurrentShipment(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.Shipment, error)
	ListShipments(ctx context.Context, q sqlx.ExtContext, productID int64) ([]model.Shipment, error)
	// SyncShipmentStage mirrors a stage change onto the current shipment.
	SyncShipmentStage(ctx context.Context, q sqlx.ExtContext, productID int64, stage model.Stage) error
}
