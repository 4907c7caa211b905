package identity

import (
	"context"
	"sync"
)

// StaticRegistry is an in-memory Registry for tests.
type StaticRegistry struct {
	mu     sync.RWMutex
	owners map[int64]string
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{owners: make(map[int64]string)}
}

func (r *StaticRegistry) SetOwner(productID int64, owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[productID] = owner
}

func (r *StaticRegistry) OwnerOf(_ context.Context, productID int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[productID]
	if !ok {
		return "", ErrOwnerUnknown
	}
	return owner, nil
}
