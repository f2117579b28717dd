package state

import (
	"context"
	"sync"

	"autoparts-storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns a Backend that keeps blobs in process memory.
func NewMemory() Backend {
	return &memoryRepo{blobs: make(map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *memoryRepo) Put(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	r.mu.Lock()
	r.blobs[key] = stored
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.blobs, key)
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}
