package role

import (
	"context"

	"github.com/tracechain/supplychain-service/internal/model"
)

type UseCase interface {
	// Grant gives a principal a role. Admin-only, idempotent.
	Grant(ctx context.Context, role model.Role, principal string) error
	// Has is a pure query.
	Has(ctx context.Context, principal string, role model.Role) (bool, error)
	// RequireAny fails with auth.ErrUnauthorized unless the principal
	// holds at least one of the roles.
	RequireAny(ctx context.Context, principal string, roles ...model.Role) error
	// Bootstrap grants the admin role without an admin check. Called once
	// from the composition root.
	Bootstrap(ctx context.Context, principal string) error
}
