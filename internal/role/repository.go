package role

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

// Repository methods take the executor so they run equally inside a
// transaction or against the bare connection.
type Repository interface {
	Grant(ctx context.Context, q sqlx.ExtContext, principal string, role model.Role) error
	Has(ctx context.Context, q sqlx.ExtContext, principal string, role model.Role) (bool, error)
}
