package product

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	CreateShipment(ctx context.Context, productID int64, receiver, location string) (*model.Shipment, error)
	UpdateStage(ctx context.Context, productID int64, newStage model.Stage) error

	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetCurrentShipment(ctx context.Context, productID int64) (*model.Shipment, error)
	ListShipments(ctx context.Context, productID int64) ([]model.Shipment, error)
	ListBySeller(ctx context.Context, seller string) ([]model.Product, error)
}

// OwnerSeeder records the minted product's first owner inside the creation
// transaction. Implemented by the identity store.
type OwnerSeeder interface {
	SetInitialOwner(ctx context.Context, q sqlx.ExtContext, productID int64, owner string) error
}
