package batch

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, q sqlx.ExtContext, b *model.Batch) error
	FindByID(ctx context.Context, q sqlx.ExtContext, id string) (*model.Batch, error)
}
