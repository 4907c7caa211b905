package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/identity"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/returns"
	"github.com/tracechain/supplychain-service/internal/role"
	"github.com/tracechain/supplychain-service/pkg/cache"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type returnsUseCase struct {
	db       *sqlx.DB
	repo     returns.Repository
	products product.Repository
	events   event.Repository
	owners   identity.Registry
	roles    role.UseCase
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewReturnsUseCase(
	db *sqlx.DB,
	repo returns.Repository,
	products product.Repository,
	events event.Repository,
	owners identity.Registry,
	roles role.UseCase,
	cache *cache.RedisClient,
	log logger.ZapLogger,
) returns.UseCase {
	return &returnsUseCase{
		db:       db,
		repo:     repo,
		products: products,
		events:   events,
		owners:   owners,
		roles:    roles,
		cache:    cache,
		logger:   log,
	}
}

func (uc *returnsUseCase) RequestReturn(ctx context.Context, productID int64, reason string) (*model.ReturnRequest, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Ownership lives in the external identity layer; resolve it before
	// the transaction takes the write connection.
	owner, err := uc.owners.OwnerOf(ctx, productID)
	if err != nil {
		return nil, err
	}
	if owner != caller {
		return nil, auth.ErrUnauthorized
	}

	req := &model.ReturnRequest{
		BaseModel:   model.BaseModel{ID: uuid.New().String()},
		ProductID:   productID,
		RequestedBy: caller,
		Reason:      reason,
		Approved:    false,
		IsRecall:    false,
	}

	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		p, err := uc.products.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}
		if p.Recalled {
			return product.ErrProductRecalled
		}

		open, err := uc.repo.Open(ctx, tx, productID)
		if err != nil {
			return err
		}
		if open != nil {
			return returns.ErrDuplicateReturnRequest
		}

		if err := uc.repo.Create(ctx, tx, req); err != nil {
			return err
		}
		ev, err := event.Build(model.EventReturnRequested, caller, &productID, p.BatchID, req)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("return requested",
		zap.Int64("product_id", productID),
		zap.String("requested_by", caller),
	)
	return req, nil
}

func (uc *returnsUseCase) ApproveReturn(ctx context.Context, productID int64) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := uc.products.FindByID(ctx, uc.db, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return product.ErrNotFound
	}
	if caller != p.Seller {
		if err := uc.roles.RequireAny(ctx, caller, model.RoleAdmin); err != nil {
			return err
		}
	}

	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		cur, err := uc.products.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if cur == nil {
			return product.ErrNotFound
		}
		if cur.Recalled {
			return product.ErrProductRecalled
		}

		open, err := uc.repo.Open(ctx, tx, productID)
		if err != nil {
			return err
		}
		if open == nil {
			return returns.ErrNoOpenRequest
		}

		if err := uc.repo.Approve(ctx, tx, open.ID); err != nil {
			return err
		}
		// Approval is one of the two operations allowed to force a stage
		// outside the adjacency table.
		if err := uc.products.UpdateStage(ctx, tx, productID, model.StageReturned); err != nil {
			return err
		}
		if err := uc.products.SyncShipmentStage(ctx, tx, productID, model.StageReturned); err != nil {
			return err
		}

		payload := map[string]any{"request_id": open.ID}
		ev, err := event.Build(model.EventReturnApproved, caller, &productID, cur.BatchID, payload)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return err
	}

	uc.cache.Del(ctx, fmt.Sprintf("products:id:%d", productID))
	uc.logger.Info("return approved",
		zap.Int64("product_id", productID),
		zap.String("approved_by", caller),
	)
	return nil
}

func (uc *returnsUseCase) RecallProducts(ctx context.Context, productIDs []int64, reason string) ([]returns.RecallResult, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.RoleAdmin, model.RoleManufacturer); err != nil {
		return nil, err
	}

	results := make([]returns.RecallResult, 0, len(productIDs))
	for _, id := range productIDs {
		err := uc.recallOne(ctx, caller, id, reason)
		if err != nil {
			uc.logger.Warn("recall failed",
				zap.Int64("product_id", id),
				zap.Error(err),
			)
		} else {
			uc.cache.Del(ctx, fmt.Sprintf("products:id:%d", id))
			uc.logger.Info("product recalled",
				zap.Int64("product_id", id),
				zap.String("recalled_by", caller),
			)
		}
		results = append(results, returns.RecallResult{ProductID: id, Err: err})
	}
	return results, nil
}

func (uc *returnsUseCase) recallOne(ctx context.Context, caller string, productID int64, reason string) error {
	return sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		p, err := uc.products.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}
		if p.Recalled {
			return product.ErrProductRecalled
		}

		// No separate approval step: the recall request is born approved.
		req := &model.ReturnRequest{
			BaseModel:   model.BaseModel{ID: uuid.New().String()},
			ProductID:   productID,
			RequestedBy: caller,
			Reason:      reason,
			Approved:    true,
			IsRecall:    true,
		}
		if err := uc.repo.Create(ctx, tx, req); err != nil {
			return err
		}

		if err := uc.products.MarkRecalled(ctx, tx, productID, model.StageRecalled); err != nil {
			return err
		}
		if err := uc.products.SyncShipmentStage(ctx, tx, productID, model.StageRecalled); err != nil {
			return err
		}

		payload := map[string]any{"reason": reason}
		ev, err := event.Build(model.EventProductRecalled, caller, &productID, p.BatchID, payload)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
}

func (uc *returnsUseCase) GetReturnRequest(ctx context.Context, productID int64) (*model.ReturnRequest, error) {
	req, err := uc.repo.Latest(ctx, uc.db, productID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, returns.ErrNoRequest
	}
	return req, nil
}
