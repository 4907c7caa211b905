package batch

import "errors"

var (
	ErrNotFound = errors.New("batch not found")
	// ErrBatchValidation rejects the whole call; no product from the
	// batch is created.
	ErrBatchValidation = errors.New("invalid batch input")
)
