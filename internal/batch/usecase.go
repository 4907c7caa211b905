package batch

import (
	"context"

	"github.com/tracechain/supplychain-service/internal/batch/dto"
	"github.com/tracechain/supplychain-service/internal/model"
)

// UseCase applies create/ship/stage-update across a batch atomically.
// Every operation is all-or-nothing over the full member set.
type UseCase interface {
	CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*model.Batch, []model.Product, error)
	CreateBatchShipment(ctx context.Context, batchID, receiver, location string) ([]model.Shipment, error)
	UpdateBatchStage(ctx context.Context, batchID string, newStage model.Stage) error
	GetBatchProducts(ctx context.Context, batchID string) ([]int64, error)
}
