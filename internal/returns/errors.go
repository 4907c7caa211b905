package returns

import "errors"

var (
	// ErrDuplicateReturnRequest rejects a second request while one is
	// still open (unapproved, non-recall).
	ErrDuplicateReturnRequest = errors.New("a return request is already open for product")
	ErrNoOpenRequest          = errors.New("no open return request for product")
	ErrNoRequest              = errors.New("no return request recorded for product")
)
