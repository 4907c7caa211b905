package returns

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, q sqlx.ExtContext, req *model.ReturnRequest) error
	// Latest returns the most recent request for a product, nil when none.
	Latest(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.ReturnRequest, error)
	// Open returns the unapproved, non-recall request, nil when none.
	Open(ctx context.Context, q sqlx.ExtContext, productID int64) (*model.ReturnRequest, error)
	Approve(ctx context.Context, q sqlx.ExtContext, id string) error
}
