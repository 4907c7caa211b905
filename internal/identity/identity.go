// Package identity is the boundary to the external ownership layer. The
// core looks up current owners; it never transfers ownership itself.
package identity

import (
	"context"
	"errors"
)

var ErrOwnerUnknown = errors.New("no owner recorded for product")

type Registry interface {
	OwnerOf(ctx context.Context, productID int64) (string, error)
}
