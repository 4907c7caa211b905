package returns

import (
	"context"

	"github.com/tracechain/supplychain-service/internal/model"
)

// RecallResult reports the outcome for one product of a recall sweep.
// Recalls are per-product independent; one failure does not undo the rest.
type RecallResult struct {
	ProductID int64
	Err       error
}

type UseCase interface {
	// RequestReturn opens a return for the product's current owner.
	RequestReturn(ctx context.Context, productID int64, reason string) (*model.ReturnRequest, error)
	// ApproveReturn approves the open request and forces the stage to
	// Returned, bypassing the adjacency table.
	ApproveReturn(ctx context.Context, productID int64) error
	// RecallProducts recalls each product independently: the request is
	// created pre-approved, the stage is forced to Recalled and the
	// sticky recalled flag set.
	RecallProducts(ctx context.Context, productIDs []int64, reason string) ([]RecallResult, error)

	GetReturnRequest(ctx context.Context, productID int64) (*model.ReturnRequest, error)
}
