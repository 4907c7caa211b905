package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/batch"
	"github.com/tracechain/supplychain-service/internal/batch/dto"
	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/role"
	"github.com/tracechain/supplychain-service/pkg/cache"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type batchUseCase struct {
	db       *sqlx.DB
	repo     batch.Repository
	products product.Repository
	events   event.Repository
	owners   product.OwnerSeeder
	roles    role.UseCase
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewBatchUseCase(
	db *sqlx.DB,
	repo batch.Repository,
	products product.Repository,
	events event.Repository,
	owners product.OwnerSeeder,
	roles role.UseCase,
	cache *cache.RedisClient,
	log logger.ZapLogger,
) batch.UseCase {
	return &batchUseCase{
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

func (uc *batchUseCase) CreateBatch(ctx context.Context, input *dto.CreateBatchInput) (*model.Batch, []model.Product, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return nil, nil, err
	}
	if err := validateBatchInput(input); err != nil {
		return nil, nil, err
	}

	b := &model.Batch{
		BaseModel: model.BaseModel{ID: uuid.New().String()},
		Seller:    caller,
		Size:      int64(len(input.Names)),
	}

	products := make([]model.Product, len(input.Names))
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		if err := uc.repo.Create(ctx, tx, b); err != nil {
			return err
		}

		for i := range input.Names {
			pos := int64(i)
			p := &model.Product{
				Name:          input.Names[i],
				Seller:        caller,
				SellerName:    input.SellerName,
				Price:         input.Prices[i],
				SellingPrice:  input.SellingPrices[i],
				TokenURI:      input.TokenURIs[i],
				Stage:         model.StageCreated,
				BatchID:       &b.ID,
				BatchPosition: &pos,
			}
			if err := uc.products.Create(ctx, tx, p); err != nil {
				return err
			}
			if err := uc.owners.SetInitialOwner(ctx, tx, p.ID, caller); err != nil {
				return fmt.Errorf("seed owner: %w", err)
			}
			ev, err := event.Build(model.EventProductCreated, caller, &p.ID, &b.ID, p)
			if err != nil {
				return err
			}
			if err := uc.events.Append(ctx, tx, ev); err != nil {
				return err
			}
			products[i] = *p
		}

		payload := map[string]any{"size": b.Size}
		ev, err := event.Build(model.EventBatchCreated, caller, nil, &b.ID, payload)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("batch created",
		zap.String("batch_id", b.ID),
		zap.Int64("size", b.Size),
		zap.String("seller", caller),
	)
	return b, products, nil
}

func (uc *batchUseCase) CreateBatchShipment(ctx context.Context, batchID, receiver, location string) ([]model.Shipment, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return nil, err
	}
	if receiver == "" || location == "" {
		return nil, fmt.Errorf("%w: receiver and location are required", batch.ErrBatchValidation)
	}

	var shipments []model.Shipment
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		members, err := uc.members(ctx, tx, batchID)
		if err != nil {
			return err
		}
		for i := range members {
			if members[i].Recalled {
				return fmt.Errorf("product %d: %w", members[i].ID, product.ErrProductRecalled)
			}
		}

		shipments = make([]model.Shipment, 0, len(members))
		for i := range members {
			sh := &model.Shipment{
				ProductID: members[i].ID,
				Sender:    caller,
				Receiver:  receiver,
				Location:  location,
				Stage:     members[i].Stage,
			}
			if err := uc.products.CreateShipment(ctx, tx, sh); err != nil {
				return err
			}
			ev, err := event.Build(model.EventShipmentCreated, caller, &sh.ProductID, &batchID, sh)
			if err != nil {
				return err
			}
			if err := uc.events.Append(ctx, tx, ev); err != nil {
				return err
			}
			shipments = append(shipments, *sh)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range shipments {
		uc.cache.Del(ctx, fmt.Sprintf("products:id:%d", shipments[i].ProductID))
	}
	uc.logger.Info("batch shipment created",
		zap.String("batch_id", batchID),
		zap.Int("members", len(shipments)),
	)
	return shipments, nil
}

// UpdateBatchStage validates every member before committing any change.
// A single failing member leaves the whole batch untouched.
func (uc *batchUseCase) UpdateBatchStage(ctx context.Context, batchID string, newStage model.Stage) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return err
	}

	var memberIDs []int64
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		members, err := uc.members(ctx, tx, batchID)
		if err != nil {
			return err
		}

		// Phase one: validate all.
		for i := range members {
			m := &members[i]
			if m.Recalled {
				return fmt.Errorf("product %d: %w", m.ID, product.ErrProductRecalled)
			}
			if !newStage.Valid() || !m.Stage.CanTransition(newStage) {
				return fmt.Errorf("product %d: %w: %s -> %s",
					m.ID, product.ErrInvalidTransition, m.Stage, newStage)
			}
		}

		// Phase two: commit all.
		for i := range members {
			m := &members[i]
			if err := uc.products.UpdateStage(ctx, tx, m.ID, newStage); err != nil {
				return err
			}
			if err := uc.products.SyncShipmentStage(ctx, tx, m.ID, newStage); err != nil {
				return err
			}
			payload := map[string]any{"from": m.Stage, "to": newStage}
			ev, err := event.Build(model.EventStageUpdated, caller, &m.ID, &batchID, payload)
			if err != nil {
				return err
			}
			if err := uc.events.Append(ctx, tx, ev); err != nil {
				return err
			}
			memberIDs = append(memberIDs, m.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range memberIDs {
		uc.cache.Del(ctx, fmt.Sprintf("products:id:%d", id))
	}
	uc.logger.Info("batch stage updated",
		zap.String("batch_id", batchID),
		zap.String("stage", newStage.String()),
		zap.Int("members", len(memberIDs)),
	)
	return nil
}

func (uc *batchUseCase) GetBatchProducts(ctx context.Context, batchID string) ([]int64, error) {
	members, err := uc.members(ctx, uc.db, batchID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i := range members {
		ids[i] = members[i].ID
	}
	return ids, nil
}

func (uc *batchUseCase) members(ctx context.Context, q sqlx.ExtContext, batchID string) ([]model.Product, error) {
	b, err := uc.repo.FindByID(ctx, q, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, batch.ErrNotFound
	}
	return uc.products.ListByBatch(ctx, q, batchID)
}

func validateBatchInput(input *dto.CreateBatchInput) error {
	n := len(input.Names)
	if n == 0 {
		return fmt.Errorf("%w: batch must not be empty", batch.ErrBatchValidation)
	}
	if len(input.Prices) != n || len(input.TokenURIs) != n || len(input.SellingPrices) != n {
		return fmt.Errorf("%w: array lengths differ", batch.ErrBatchValidation)
	}
	for i := 0; i < n; i++ {
		if input.Names[i] == "" {
			return fmt.Errorf("%w: entry %d has an empty name", batch.ErrBatchValidation, i)
		}
		if input.Prices[i] <= 0 || input.SellingPrices[i] <= 0 {
			return fmt.Errorf("%w: entry %d has a non-positive price", batch.ErrBatchValidation, i)
		}
	}
	return nil
}
