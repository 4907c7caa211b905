package escrow

import "errors"

var (
	// ErrDuplicatePayment fires whenever the balance is already nonzero,
	// independent of the offered amount.
	ErrDuplicatePayment = errors.New("escrow already holds a payment for product")
	ErrAmountMismatch   = errors.New("payment amount does not match selling price")
	ErrNoPayment        = errors.New("no escrow balance to release")
)
