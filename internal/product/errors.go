package product

import "errors"

var (
	ErrNotFound = errors.New("product not found")
	// ErrProductRecalled blocks every mutating operation on a recalled
	// product, regardless of the caller's role.
	ErrProductRecalled = errors.New("product has been recalled")
	// ErrInvalidTransition covers stage changes outside the adjacency
	// table, including re-issuing the current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrInvalidInput      = errors.New("invalid product input")
)
