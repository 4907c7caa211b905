package event

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

// Repository persists the append-only log. Append runs inside the same
// transaction as the state change it records.
type Repository interface {
	Append(ctx context.Context, q sqlx.ExtContext, ev *model.Event) error
	ListByProduct(ctx context.Context, q sqlx.ExtContext, productID int64) ([]model.Event, error)
	Unpublished(ctx context.Context, q sqlx.ExtContext, limit int) ([]model.Event, error)
	MarkPublished(ctx context.Context, q sqlx.ExtContext, ids []string) error
}
