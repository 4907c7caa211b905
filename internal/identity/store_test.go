package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tracechain/supplychain-service/internal/identity"
	"github.com/tracechain/supplychain-service/internal/schema"
	"github.com/tracechain/supplychain-service/pkg/database/sqlite"
)

func TestStore(t *testing.T) {
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := schema.Apply(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	store := identity.NewStore(db)

	if _, err := store.OwnerOf(ctx, 1); !errors.Is(err, identity.ErrOwnerUnknown) {
		t.Fatalf("got %v, want ErrOwnerUnknown", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO products (id, name, seller, seller_name, price, selling_price, token_uri, stage, created_at, updated_at)
         VALUES (1, 'widget', 'acme', 'Acme Corp', 100, 200, '', 0, datetime('now'), datetime('now'))`); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := store.SetInitialOwner(ctx, db, 1, "acme"); err != nil {
		t.Fatalf("set initial owner: %v", err)
	}

	owner, err := store.OwnerOf(ctx, 1)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner != "acme" {
		t.Errorf("owner = %q, want acme", owner)
	}

	if err := store.Transfer(ctx, 1, "buyer"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, err = store.OwnerOf(ctx, 1)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner != "buyer" {
		t.Errorf("owner = %q, want buyer", owner)
	}

	if err := store.Transfer(ctx, 99, "buyer"); !errors.Is(err, identity.ErrOwnerUnknown) {
		t.Errorf("transfer of unknown product: got %v, want ErrOwnerUnknown", err)
	}
}

func TestStaticRegistry(t *testing.T) {
	reg := identity.NewStaticRegistry()
	ctx := context.Background()

	if _, err := reg.OwnerOf(ctx, 1); !errors.Is(err, identity.ErrOwnerUnknown) {
		t.Fatalf("got %v, want ErrOwnerUnknown", err)
	}

	reg.SetOwner(1, "acme")
	owner, err := reg.OwnerOf(ctx, 1)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if owner != "acme" {
		t.Errorf("owner = %q, want acme", owner)
	}
}
