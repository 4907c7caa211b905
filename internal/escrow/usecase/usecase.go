package usecase

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/escrow"
	"github.com/tracechain/supplychain-service/internal/event"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/role"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type escrowUseCase struct {
	db       *sqlx.DB
	repo     escrow.Repository
	products product.Repository
	events   event.Repository
	roles    role.UseCase
	logger   logger.ZapLogger
}

func NewEscrowUseCase(
	db *sqlx.DB,
	repo escrow.Repository,
	products product.Repository,
	events event.Repository,
	roles role.UseCase,
	log logger.ZapLogger,
) escrow.UseCase {
	return &escrowUseCase{
		db:       db,
		repo:     repo,
		products: products,
		events:   events,
		roles:    roles,
		logger:   log,
	}
}

// Deposit and Release both read and write the balance inside a single
// serialized transaction, which is what makes the pair linearizable.
func (uc *escrowUseCase) Deposit(ctx context.Context, productID int64, amount int64) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
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

		balance, err := uc.repo.Balance(ctx, tx, productID)
		if err != nil {
			return err
		}
		// Balance check comes first: a duplicate payment is rejected as
		// such even when the amount is also wrong.
		if balance != 0 {
			return escrow.ErrDuplicatePayment
		}
		if amount != p.SellingPrice {
			return fmt.Errorf("%w: got %d, want %d", escrow.ErrAmountMismatch, amount, p.SellingPrice)
		}

		entry := &model.EscrowEntry{
			ProductID: productID,
			Amount:    amount,
			Payer:     caller,
		}
		if err := uc.repo.Hold(ctx, tx, entry); err != nil {
			return err
		}

		ev, err := event.Build(model.EventPaymentReceived, caller, &productID, p.BatchID, entry)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("payment received",
		zap.Int64("product_id", productID),
		zap.Int64("amount", amount),
		zap.String("payer", caller),
	)
	return nil
}

func (uc *escrowUseCase) Release(ctx context.Context, productID int64) error {
	caller, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}

	// Authorization is resolved before the transaction opens: the seller
	// on a product never changes, and the single-connection pool would
	// block a nested query while the transaction holds the connection.
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

	var amount int64
	seller := p.Seller
	err = sqlite.WithinTx(ctx, uc.db, func(tx *sqlx.Tx) error {
		amount, err = uc.repo.Balance(ctx, tx, productID)
		if err != nil {
			return err
		}
		if amount == 0 {
			return escrow.ErrNoPayment
		}

		if err := uc.repo.Zero(ctx, tx, productID); err != nil {
			return err
		}
		if err := uc.repo.CreditSeller(ctx, tx, seller, amount); err != nil {
			return err
		}

		payload := map[string]any{"seller": seller, "amount": amount}
		ev, err := event.Build(model.EventPaymentReleased, caller, &productID, p.BatchID, payload)
		if err != nil {
			return err
		}
		return uc.events.Append(ctx, tx, ev)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("payment released",
		zap.Int64("product_id", productID),
		zap.Int64("amount", amount),
		zap.String("seller", seller),
	)
	return nil
}

func (uc *escrowUseCase) Balance(ctx context.Context, productID int64) (int64, error) {
	return uc.repo.Balance(ctx, uc.db, productID)
}

func (uc *escrowUseCase) SellerBalance(ctx context.Context, seller string) (int64, error) {
	return uc.repo.SellerBalance(ctx, uc.db, seller)
}
