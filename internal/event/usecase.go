package event

import (
	"context"

	"github.com/tracechain/supplychain-service/internal/model"
)

type UseCase interface {
	// History returns the full event trail for a product in append order.
	History(ctx context.Context, productID int64) ([]model.Event, error)
}
