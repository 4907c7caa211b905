package escrow

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tracechain/supplychain-service/internal/model"
)

type Repository interface {
	Balance(ctx context.Context, q sqlx.ExtContext, productID int64) (int64, error)
	Hold(ctx context.Context, q sqlx.ExtContext, entry *model.EscrowEntry) error
	// Zero clears the held amount, keeping the row for audit.
	Zero(ctx context.Context, q sqlx.ExtContext, productID int64) error
	CreditSeller(ctx context.Context, q sqlx.ExtContext, seller string, amount int64) error
	SellerBalance(ctx context.Context, q sqlx.ExtContext, seller string) (int64, error)
}
