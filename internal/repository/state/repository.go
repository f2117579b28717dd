package state

import (
	"context"
	"strings"
)

// Backend persists opaque client-state blobs by key. Get returns
// domain.ErrNotFound when nothing is stored under key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type scoped struct {
	inner  Backend
	prefix string
}

// Scope namespaces every key of inner under namespace, so one backend can
// hold the state of many browser clients.
func Scope(inner Backend, namespace string) Backend {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return inner
	}
	return &scoped{inner: inner, prefix: namespace + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Put(ctx context.Context, key string, value []byte) error {
	return s.inner.Put(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}
