package state

import (
	"context"
	"errors"

	"autoparts-storefront/internal/domain"
)

// List stores a slice of T as one enveloped blob under a fixed key.
type List[T any] struct {
	backend Backend
	key     string
}

// NewList binds a list blob to key on backend.
func NewList[T any](backend Backend, key string) *List[T] {
	return &List[T]{backend: backend, key: key}
}

// Load returns the stored items. A missing blob is an empty list; an
// undecodable one is reported as ErrCorrupt.
func (l *List[T]) Load(ctx context.Context) ([]T, error) {
	data, err := l.backend.Get(ctx, l.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := DecodeList(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save overwrites the blob with items.
func (l *List[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := EncodeList(items)
	if err != nil {
		return err
	}
	return l.backend.Put(ctx, l.key, data)
}

// Discard removes the blob.
func (l *List[T]) Discard(ctx context.Context) error {
	return l.backend.Delete(ctx, l.key)
}
