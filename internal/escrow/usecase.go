package escrow

import "context"

type UseCase interface {
	// Deposit holds the buyer's payment. Requires a zero balance and an
	// amount equal to the product's selling price.
	Deposit(ctx context.Context, productID int64, amount int64) error
	// Release zeroes the balance and credits the seller. Irreversible:
	// there is no refund path if a return or recall happens afterwards.
	Release(ctx context.Context, productID int64) error

	Balance(ctx context.Context, productID int64) (int64, error)
	SellerBalance(ctx context.Context, seller string) (int64, error)
}
