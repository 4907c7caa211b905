package usecase_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracechain/supplychain-service/internal/auth"
	"github.com/tracechain/supplychain-service/internal/escrow"
	"github.com/tracechain/supplychain-service/internal/escrow/repository"
	"github.com/tracechain/supplychain-service/internal/escrow/usecase"
	eventrepo "github.com/tracechain/supplychain-service/internal/event/repository"
	"github.com/tracechain/supplychain-service/internal/identity"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/product/dto"
	productrepo "github.com/tracechain/supplychain-service/internal/product/repository"
	productuc "github.com/tracechain/supplychain-service/internal/product/usecase"
	rolerepo "github.com/tracechain/supplychain-service/internal/role/repository"
	roleuc "github.com/tracechain/supplychain-service/internal/role/usecase"
	"github.com/tracechain/supplychain-service/internal/schema"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type fixture struct {
	db      *sqlx.DB
	escrows escrow.UseCase
	product *model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	require.NoError(t, schema.Apply(ctx, db))

	log := logger.NewNop()
	roles := roleuc.NewRoleUseCase(db, rolerepo.NewSqliteRepository(), log)
	require.NoError(t, roles.Bootstrap(ctx, "root"))
	adminCtx := auth.WithPrincipal(ctx, "root")
	require.NoError(t, roles.Grant(adminCtx, model.RoleManufacturer, "acme"))

	products := productrepo.NewSqliteRepository()
	events := eventrepo.NewSqliteRepository()
	productUC := productuc.NewProductUseCase(db, products, events, identity.NewStore(db), roles, nil, log)

	p, err := productUC.CreateProduct(auth.WithPrincipal(ctx, "acme"), &dto.CreateProductInput{
		Name:         "widget",
		SellerName:   "Acme Corp",
		Price:        100,
		SellingPrice: 200,
		TokenURI:     "ipfs://widget",
	})
	require.NoError(t, err)

	return &fixture{
		db:      db,
		escrows: usecase.NewEscrowUseCase(db, repository.NewSqliteRepository(), products, events, roles, log),
		product: p,
	}
}

func buyerCtx() context.Context {
	return auth.WithPrincipal(context.Background(), "buyer")
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.escrows.Deposit(buyerCtx(), f.product.ID, 200))

	balance, err := f.escrows.Balance(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)
}

func TestDepositAmountMustMatchSellingPrice(t *testing.T) {
	f := newFixture(t)

	err := f.escrows.Deposit(buyerCtx(), f.product.ID, 150)
	assert.ErrorIs(t, err, escrow.ErrAmountMismatch)

	balance, err := f.escrows.Balance(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Zero(t, balance, "a rejected deposit must not be held")
}

func TestDuplicateDepositRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.escrows.Deposit(buyerCtx(), f.product.ID, 200))

	err := f.escrows.Deposit(buyerCtx(), f.product.ID, 200)
	assert.ErrorIs(t, err, escrow.ErrDuplicatePayment)

	// The duplicate wins over the amount check even when the amount is
	// also wrong.
	err = f.escrows.Deposit(buyerCtx(), f.product.ID, 999)
	assert.ErrorIs(t, err, escrow.ErrDuplicatePayment)

	balance, err := f.escrows.Balance(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance)
}

func TestDepositUnknownProduct(t *testing.T) {
	f := newFixture(t)
	err := f.escrows.Deposit(buyerCtx(), 9999, 200)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestReleaseCreditsSellerExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.escrows.Deposit(buyerCtx(), f.product.ID, 200))

	sellerCtx := auth.WithPrincipal(ctx, "acme")
	require.NoError(t, f.escrows.Release(sellerCtx, f.product.ID))

	balance, err := f.escrows.Balance(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Zero(t, balance, "release must zero the held amount")

	credit, err := f.escrows.SellerBalance(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(200), credit)

	// A second release has nothing to move.
	err = f.escrows.Release(sellerCtx, f.product.ID)
	assert.ErrorIs(t, err, escrow.ErrNoPayment)

	credit, err = f.escrows.SellerBalance(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(200), credit, "failed release must not credit again")
}

func TestReleaseWithoutDeposit(t *testing.T) {
	f := newFixture(t)
	err := f.escrows.Release(auth.WithPrincipal(context.Background(), "acme"), f.product.ID)
	assert.ErrorIs(t, err, escrow.ErrNoPayment)
}

func TestReleaseAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.escrows.Deposit(buyerCtx(), f.product.ID, 200))

	err := f.escrows.Release(auth.WithPrincipal(ctx, "buyer"), f.product.ID)
	assert.ErrorIs(t, err, auth.ErrUnauthorized, "the payer must not be able to release")

	// The admin can release on the seller's behalf; the credit still goes
	// to the seller.
	require.NoError(t, f.escrows.Release(auth.WithPrincipal(ctx, "root"), f.product.ID))

	credit, err := f.escrows.SellerBalance(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(200), credit)
}

func TestDepositRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	err := f.escrows.Deposit(context.Background(), f.product.ID, 200)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}
