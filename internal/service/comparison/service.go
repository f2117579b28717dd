// Package comparison keeps the products a client has pinned for
// side-by-side comparison.
package comparison

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"sync"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/notify"
	"autoparts-storefront/internal/repository/state"
)

// StorageKey is the blob key the comparison set is stored under.
const StorageKey = "comparisonItems"

type persistence interface {
	Load(ctx context.Context) ([]domain.ComparisonItem, error)
	Save(ctx context.Context, items []domain.ComparisonItem) error
	Discard(ctx context.Context) error
}

// Set is one client's comparison list, unique by product id and unbounded.
type Set struct {
	mu        sync.Mutex
	persist   persistence
	logger    *log.Logger
	observers notify.Observers
}

// NewSet builds a Set stored on backend.
func NewSet(backend state.Backend, logger *log.Logger) *Set {
	return newSet(state.NewList[domain.ComparisonItem](backend, StorageKey), logger)
}

func newSet(p persistence, logger *log.Logger) *Set {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Set{persist: p, logger: logger}
}

// Subscribe registers fn to run after every saved change.
func (s *Set) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

// Items returns the pinned products in the order they were added.
func (s *Set) Items(ctx context.Context) ([]domain.ComparisonItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Count is the number of pinned products.
func (s *Set) Count(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	return len(items), err
}

// Contains reports whether product id is pinned.
func (s *Set) Contains(ctx context.Context, id int64) (bool, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(items, id) >= 0, nil
}

// Add pins item. Pinning an already pinned product changes nothing.
func (s *Set) Add(ctx context.Context, item domain.ComparisonItem) ([]domain.ComparisonItem, error) {
	return s.mutate(ctx, func(items []domain.ComparisonItem) ([]domain.ComparisonItem, bool) {
		if indexOf(items, item.ID) >= 0 {
			return items, false
		}
		return append(items, item), true
	})
}

// Remove unpins product id.
func (s *Set) Remove(ctx context.Context, id int64) ([]domain.ComparisonItem, error) {
	return s.mutate(ctx, func(items []domain.ComparisonItem) ([]domain.ComparisonItem, bool) {
		idx := indexOf(items, id)
		if idx < 0 {
			return items, false
		}
		return slices.Delete(items, idx, idx+1), true
	})
}

// Clear unpins everything.
func (s *Set) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.persist.Discard(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.observers.Notify()
	return nil
}

func (s *Set) mutate(ctx context.Context, fn func([]domain.ComparisonItem) ([]domain.ComparisonItem, bool)) ([]domain.ComparisonItem, error) {
	s.mu.Lock()
	items, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next, changed := fn(items)
	if !changed {
		s.mu.Unlock()
		return next, nil
	}
	err = s.persist.Save(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.observers.Notify()
	return next, nil
}

func (s *Set) load(ctx context.Context) ([]domain.ComparisonItem, error) {
	items, err := s.persist.Load(ctx)
	if errors.Is(err, state.ErrCorrupt) {
		s.logger.Printf("discarding unreadable comparison list: %v", err)
		if derr := s.persist.Discard(ctx); derr != nil {
			s.logger.Printf("discard comparison list: %v", derr)
		}
		return []domain.ComparisonItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ComparisonItem{}
	}
	return items, nil
}

func indexOf(items []domain.ComparisonItem, id int64) int {
	return slices.IndexFunc(items, func(it domain.ComparisonItem) bool { return it.ID == id })
}

type lease struct {
	set  *Set
	refs int
}

// Manager shares one Set per browser client among its current holders and
// drops it once the last one releases it.
type Manager struct {
	mu      sync.Mutex
	backend state.Backend
	logger  *log.Logger
	leases  map[string]*lease
}

// NewManager builds a Manager over backend.
func NewManager(backend state.Backend, logger *log.Logger) *Manager {
	return &Manager{backend: backend, logger: logger, leases: make(map[string]*lease)}
}

// Acquire returns the set of clientID and pins it until release is called.
func (m *Manager) Acquire(clientID string) (set *Set, release func()) {
	m.mu.Lock()
	l, ok := m.leases[clientID]
	if !ok {
		l = &lease{set: NewSet(state.Scope(m.backend, clientID), m.logger)}
		m.leases[clientID] = l
	}
	l.refs++
	m.mu.Unlock()

	var once sync.Once
	return l.set, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			l.refs--
			if l.refs == 0 && m.leases[clientID] == l {
				delete(m.leases, clientID)
			}
		})
	}
}

// Len reports how many client sets are pinned.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leases)
}
