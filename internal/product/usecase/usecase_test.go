package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/tracechain/supplychain-service/internal/auth"
	eventrepo "github.com/tracechain/supplychain-service/internal/event/repository"
	"github.com/tracechain/supplychain-service/internal/identity"
	"github.com/tracechain/supplychain-service/internal/model"
	"github.com/tracechain/supplychain-service/internal/product"
	"github.com/tracechain/supplychain-service/internal/product/dto"
	"github.com/tracechain/supplychain-service/internal/product/repository"
	"github.com/tracechain/supplychain-service/internal/product/usecase"
	"github.com/tracechain/supplychain-service/internal/role"
	rolerepo "github.com/tracechain/supplychain-service/internal/role/repository"
	roleuc "github.com/tracechain/supplychain-service/internal/role/usecase"
	"github.com/tracechain/supplychain-service/internal/schema"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
	"github.com/tracechain/supplychain-service/pkg/logger"
)

type fixture struct {
	db       *sqlx.DB
	products product.UseCase
	repo     product.Repository
	owners   *identity.Store
	roles    role.UseCase
	events   *eventrepo.SqliteRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := schema.Apply(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	log := logger.NewNop()
	roles := roleuc.NewRoleUseCase(db, rolerepo.NewSqliteRepository(), log)
	if err := roles.Bootstrap(ctx, "root"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	adminCtx := auth.WithPrincipal(ctx, "root")
	for _, grant := range []struct {
		role      model.Role
		principal string
	}{
		{model.RoleManufacturer, "acme"},
		{model.RoleDistributor, "hauler"},
		{model.RoleRetailer, "shop"},
	} {
		if err := roles.Grant(adminCtx, grant.role, grant.principal); err != nil {
			t.Fatalf("grant %s to %s: %v", grant.role, grant.principal, err)
		}
	}

	repo := repository.NewSqliteRepository()
	events := eventrepo.NewSqliteRepository()
	owners := identity.NewStore(db)
	return &fixture{
		db:       db,
		products: usecase.NewProductUseCase(db, repo, events, owners, roles, nil, log),
		repo:     repo,
		owners:   owners,
		roles:    roles,
		events:   events,
	}
}

func asCtx(principal string) context.Context {
	return auth.WithPrincipal(context.Background(), principal)
}

func (f *fixture) mustCreate(t *testing.T, seller string) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(asCtx(seller), &dto.CreateProductInput{
		Name:         "widget",
		SellerName:   "Acme Corp",
		Price:        100,
		SellingPrice: 200,
		TokenURI:     "ipfs://widget",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	p := f.mustCreate(t, "acme")
	if p.ID == 0 {
		t.Error("product should be assigned an id")
	}
	if p.Seller != "acme" {
		t.Errorf("seller = %q, want acme", p.Seller)
	}
	if p.Stage != model.StageCreated {
		t.Errorf("stage = %s, want Created", p.Stage)
	}

	owner, err := f.owners.OwnerOf(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner != "acme" {
		t.Errorf("initial owner = %q, want acme", owner)
	}

	trail, err := f.events.ListByProduct(context.Background(), f.db, p.ID)
	if err != nil {
		t.Fatalf("event trail: %v", err)
	}
	if len(trail) != 1 || trail[0].Type != model.EventProductCreated {
		t.Errorf("trail = %+v, want a single ProductCreated event", trail)
	}
}

func TestCreateProductAuthorization(t *testing.T) {
	f := newFixture(t)
	input := &dto.CreateProductInput{Name: "widget", Price: 100, SellingPrice: 200}

	_, err := f.products.CreateProduct(context.Background(), input)
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("no principal: got %v, want ErrUnauthorized", err)
	}

	_, err = f.products.CreateProduct(asCtx("stranger"), input)
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("no role: got %v, want ErrUnauthorized", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"empty name", dto.CreateProductInput{Price: 100, SellingPrice: 200}},
		{"zero price", dto.CreateProductInput{Name: "w", Price: 0, SellingPrice: 200}},
		{"negative selling price", dto.CreateProductInput{Name: "w", Price: 100, SellingPrice: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.products.CreateProduct(asCtx("acme"), &c.input)
			if !errors.Is(err, product.ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUpdateStage(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "acme")
	ctx := asCtx("acme")

	for _, next := range []model.Stage{model.StageInProduction, model.StageManufactured} {
		if err := f.products.UpdateStage(ctx, p.ID, next); err != nil {
			t.Fatalf("update to %s: %v", next, err)
		}
	}

	got, err := f.products.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stage != model.StageManufactured {
		t.Errorf("stage = %s, want Manufactured", got.Stage)
	}
}

func TestUpdateStageRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "acme")
	ctx := asCtx("acme")

	// Created -> Delivered skips the lifecycle and must fail.
	err := f.products.UpdateStage(ctx, p.ID, model.StageDelivered)
	if !errors.Is(err, product.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}

	// Re-issuing the current stage is not a transition.
	err = f.products.UpdateStage(ctx, p.ID, model.StageCreated)
	if !errors.Is(err, product.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}

	// Returned and Recalled are reserved for the return/recall workflow.
	for _, forced := range []model.Stage{model.StageReturned, model.StageRecalled} {
		err = f.products.UpdateStage(ctx, p.ID, forced)
		if !errors.Is(err, product.ErrInvalidTransition) {
			t.Fatalf("to %s: got %v, want ErrInvalidTransition", forced, err)
		}
	}

	got, err := f.products.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Stage != model.StageCreated {
		t.Errorf("failed transitions must not move the stage, got %s", got.Stage)
	}
}

func TestUpdateStageUnknownProduct(t *testing.T) {
	f := newFixture(t)
	err := f.products.UpdateStage(asCtx("acme"), 9999, model.StageInProduction)
	if !errors.Is(err, product.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreateShipment(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "acme")
	ctx := asCtx("acme")

	sh, err := f.products.CreateShipment(ctx, p.ID, "hauler", "Rotterdam")
	if err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if sh.Stage != model.StageCreated {
		t.Errorf("shipment stage = %s, want the product's stage", sh.Stage)
	}

	if _, err := f.products.CreateShipment(ctx, p.ID, "", "Rotterdam"); !errors.Is(err, product.ErrInvalidInput) {
		t.Errorf("empty receiver: got %v, want ErrInvalidInput", err)
	}

	cur, err := f.products.GetCurrentShipment(ctx, p.ID)
	if err != nil {
		t.Fatalf("current shipment: %v", err)
	}
	if cur.ID != sh.ID {
		t.Errorf("current shipment id = %d, want %d", cur.ID, sh.ID)
	}
}

func TestShipmentStageFollowsProduct(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, "acme")
	ctx := asCtx("acme")

	if _, err := f.products.CreateShipment(ctx, p.ID, "hauler", "Rotterdam"); err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if err := f.products.UpdateStage(ctx, p.ID, model.StageInProduction); err != nil {
		t.Fatalf("update stage: %v", err)
	}

	cur, err := f.products.GetCurrentShipment(ctx, p.ID)
	if err != nil {
		t.Fatalf("current shipment: %v", err)
	}
	if cur.Stage != model.StageInProduction {
		t.Errorf("shipment stage = %s, want InProduction", cur.Stage)
	}
}

func TestListBySeller(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "acme")
	f.mustCreate(t, "acme")
	f.mustCreate(t, "shop")

	mine, err := f.products.ListBySeller(context.Background(), "acme")
	if err != nil {
		t.Fatalf("list by seller: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d products for acme, want 2", len(mine))
	}
}

func TestGetProductNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.GetProduct(context.Background(), 9999)
	if !errors.Is(err, product.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// TestLifecycleEndToEnd walks one product through the happy path: mint,
// ship, advance through production and transit, change hands, and verify
// the current shipment mirrors the final stage.
func TestLifecycleEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.CreateProduct(asCtx("acme"), &dto.CreateProductInput{
		Name:         "engine",
		SellerName:   "Acme Corp",
		Price:        1_000_000,
		SellingPrice: 2_000_000,
		TokenURI:     "ipfs://engine",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := f.products.CreateShipment(asCtx("acme"), p.ID, "hauler", "Hamburg"); err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	if err := f.products.UpdateStage(asCtx("acme"), p.ID, model.StageInProduction); err != nil {
		t.Fatalf("to InProduction: %v", err)
	}
	if err := f.products.UpdateStage(asCtx("acme"), p.ID, model.StageManufactured); err != nil {
		t.Fatalf("to Manufactured: %v", err)
	}

	// Ownership changes hands outside the core.
	if err := f.owners.Transfer(ctx, p.ID, "hauler"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, err := f.owners.OwnerOf(ctx, p.ID)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner != "hauler" {
		t.Fatalf("owner = %q, want hauler", owner)
	}

	if err := f.products.UpdateStage(asCtx("hauler"), p.ID, model.StageDelivered); err != nil {
		t.Fatalf("to Delivered: %v", err)
	}

	cur, err := f.products.GetCurrentShipment(ctx, p.ID)
	if err != nil {
		t.Fatalf("current shipment: %v", err)
	}
	if cur.Stage != model.StageDelivered {
		t.Errorf("current shipment stage = %s, want Delivered", cur.Stage)
	}

	trail, err := f.events.ListByProduct(ctx, f.db, p.ID)
	if err != nil {
		t.Fatalf("event trail: %v", err)
	}
	wantTypes := []string{
		model.EventProductCreated,
		model.EventShipmentCreated,
		model.EventStageUpdated,
		model.EventStageUpdated,
		model.EventStageUpdated,
	}
	if len(trail) != len(wantTypes) {
		t.Fatalf("trail has %d events, want %d", len(trail), len(wantTypes))
	}
	for i, want := range wantTypes {
		if trail[i].Type != want {
			t.Errorf("trail[%d].Type = %s, want %s", i, trail[i].Type, want)
		}
	}
}
