package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/product/dto"
	"github.com/tracechain/supplychain-service/internal/role"
	"github.com/tracechain/supplychain-service/pkg/cache"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type productUseCase struct {
	db     *sqlx.DB
	repo   product.Repository
	events event.Repository
	owners product.OwnerSeeder
	roles  role.UseCase
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewProductUseCase(
	db *sqlx.DB,
	repo product.Repository,
	events event.Repository,
	owners product.OwnerSeeder,
	roles role.UseCase,
	cache *cache.RedisClient,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		db:     db,
		repo:   repo,
		events: events,
		owners: owners,
		roles:  roles,
		cache:  cache,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return nil, err
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:         input.Name,
		Seller:       caller,
		SellerName:   input.SellerName,
		Price:        input.Price,
		SellingPrice: input.SellingPrice,
		TokenURI:     input.TokenURI,
		Stage:        model.StageCreated,
	}

	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		if err := uc.repo.Create(ctx, tx, p); err != nil {
			return err
		}
		// The registry mints to the seller; transfers belong to the
		// external identity layer.
		if err := uc.owners.SetInitialOwner(ctx, tx, p.ID, caller); err != nil {
			return fmt.Errorf("seed owner: %w", err)
		}
		ev, err := event.Build(model.EventProductCreated, caller, &p.ID, nil, p)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("seller", caller),
	)
	return p, nil
}

func (uc *productUseCase) CreateShipment(ctx context.Context, productID int64, receiver, location string) (*model.Shipment, error) {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return nil, err
	}
	if receiver == "" || location == "" {
		return nil, fmt.Errorf("%w: receiver and location are required", product.ErrInvalidInput)
	}

	var sh *model.Shipment
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		p, err := uc.repo.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}
		if p.Recalled {
			return product.ErrProductRecalled
		}

		sh = &model.Shipment{
			ProductID: productID,
			Sender:    caller,
			Receiver:  receiver,
			Location:  location,
			Stage:     p.Stage,
		}
		if err := uc.repo.CreateShipment(ctx, tx, sh); err != nil {
			return err
		}
		ev, err := event.Build(model.EventShipmentCreated, caller, &productID, p.BatchID, sh)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, productID)
	uc.logger.Info("shipment created",
		zap.Int64("product_id", productID),
		zap.String("receiver", receiver),
		zap.String("location", location),
	)
	return sh, nil
}

func (uc *productUseCase) UpdateStage(ctx context.Context, productID int64, newStage model.Stage) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := uc.roles.RequireAny(ctx, caller, model.SellerRoles...); err != nil {
		return err
	}

	var from model.Stage
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		p, err := uc.repo.FindByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return product.ErrNotFound
		}
		if p.Recalled {
			return product.ErrProductRecalled
		}
		if !newStage.Valid() || !p.Stage.CanTransition(newStage) {
			return fmt.Errorf("%w: %s -> %s", product.ErrInvalidTransition, p.Stage, newStage)
		}
		from = p.Stage

		if err := uc.repo.UpdateStage(ctx, tx, productID, newStage); err != nil {
			return err
		}
		if err := uc.repo.SyncShipmentStage(ctx, tx, productID, newStage); err != nil {
			return err
		}

		payload := map[string]any{"from": from, "to": newStage}
		ev, err := event.Build(model.EventStageUpdated, caller, &productID, p.BatchID, payload)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return err
	}

	uc.invalidate(ctx, productID)
	uc.logger.Info("stage updated",
		zap.Int64("product_id", productID),
		zap.String("from", from.String()),
		zap.String("to", newStage.String()),
	)
	return nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	key := cacheKey(id)
	if val, ok := uc.cache.Get(ctx, key); ok {
		var p model.Product
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return &p, nil
		}
	}

	p, err := uc.repo.FindByID(ctx, uc.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	if data, err := json.Marshal(p); err == nil {
		uc.cache.Set(ctx, key, data, 5*time.Minute)
	}
	return p, nil
}

func (uc *productUseCase) GetCurrentShipment(ctx context.Context, productID int64) (*model.Shipment, error) {
	sh, err := uc.repo.CurrentShipment(ctx, uc.db, productID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, fmt.Errorf("%w: no shipment for product %d", product.ErrNotFound, productID)
	}
	return sh, nil
}

func (uc *productUseCase) ListShipments(ctx context.Context, productID int64) ([]model.Shipment, error) {
	return uc.repo.ListShipments(ctx, uc.db, productID)
}

func (uc *productUseCase) ListBySeller(ctx context.Context, seller string) ([]model.Product, error) {
	return uc.repo.ListBySeller(ctx, uc.db, seller)
}

func (uc *productUseCase) invalidate(ctx context.Context, productID int64) {
	uc.cache.Del(ctx, cacheKey(productID))
}

func cacheKey(productID int64) string {
	return fmt.Sprintf("products:id:%d", productID)
}

func validateCreateInput(input *dto.CreateProductInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name must not be empty", product.ErrInvalidInput)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", product.ErrInvalidInput)
	}
	if input.SellingPrice <= 0 {
		return fmt.Errorf("%w: selling price must be positive", product.ErrInvalidInput)
	}
	return nil
}
