// Package cart keeps a client's pre-checkout cart. The persisted blob is the
// single source of truth; every read goes back to it.
package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/notify"
	"autoparts-storefront/internal/repository/state"
)

// StorageKey is the blob key the cart is stored under.
const StorageKey = "cart"

// ErrInvalidQuantity rejects an add of fewer than one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Persistence loads and saves the cart's line items.
type Persistence interface {
	Load(ctx context.Context) ([]domain.CartLineItem, error)
	Save(ctx context.Context, items []domain.CartLineItem) error
	Discard(ctx context.Context) error
}

// NewBlobPersistence stores the cart as a versioned blob under StorageKey.
func NewBlobPersistence(backend state.Backend) Persistence {
	return state.NewList[domain.CartLineItem](backend, StorageKey)
}

// Store is one client's cart. Mutations are serialised; observers are told
// about a change only after it has been saved.
type Store struct {
	mu        sync.Mutex
	persist   Persistence
	logger    *log.Logger
	observers notify.Observers
}

// NewStore builds a Store over persist.
func NewStore(persist Persistence, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{persist: persist, logger: logger}
}

// Subscribe registers fn to run after every saved change.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

// Subscribers reports how many observers are registered.
func (s *Store) Subscribers() int {
	return s.observers.Len()
}

// Load reads the cart. Unreadable data is logged, discarded and replaced by
// an empty cart; storage failures are returned.
func (s *Store) Load(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Count is the number of units in the cart, as shown on the header badge.
func (s *Store) Count(ctx context.Context) (int, error) {
	cart, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Save overwrites the cart.
func (s *Store) Save(ctx context.Context, cart domain.Cart) error {
	return s.mutate(ctx, func(domain.Cart) (domain.Cart, bool) {
		return cart, true
	})
}

// Add puts item in the cart, merging its quantity into an existing line with
// the same id.
func (s *Store) Add(ctx context.Context, item domain.CartLineItem) (domain.Cart, error) {
	if item.Quantity < 1 {
		return domain.Cart{}, ErrInvalidQuantity
	}
	var out domain.Cart
	err := s.mutate(ctx, func(cart domain.Cart) (domain.Cart, bool) {
		if idx := cart.Find(item.ID); idx >= 0 {
			cart.Items[idx].Quantity += item.Quantity
		} else {
			cart.Items = append(cart.Items, item)
		}
		out = cart
		return cart, true
	})
	return out, err
}

// SetQuantity changes the quantity of line id. Quantities below one are
// ignored rather than treated as a removal; use Remove for that. Unknown ids
// are ignored too.
func (s *Store) SetQuantity(ctx context.Context, id int64, qty int) (domain.Cart, error) {
	var out domain.Cart
	err := s.mutate(ctx, func(cart domain.Cart) (domain.Cart, bool) {
		out = cart
		idx := cart.Find(id)
		if qty < 1 || idx < 0 || cart.Items[idx].Quantity == qty {
			return cart, false
		}
		cart.Items[idx].Quantity = qty
		return cart, true
	})
	return out, err
}

// Remove drops line id.
func (s *Store) Remove(ctx context.Context, id int64) (domain.Cart, error) {
	var out domain.Cart
	err := s.mutate(ctx, func(cart domain.Cart) (domain.Cart, bool) {
		out = cart
		idx := cart.Find(id)
		if idx < 0 {
			return cart, false
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		out = cart
		return cart, true
	})
	return out, err
}

// Clear empties the cart and removes its blob.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.persist.Discard(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.observers.Notify()
	return nil
}

// mutate applies fn to a fresh copy of the stored cart and saves the result
// when fn reports a change. Nothing is notified if the save fails.
func (s *Store) mutate(ctx context.Context, fn func(domain.Cart) (domain.Cart, bool)) error {
	s.mu.Lock()
	cart, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, changed := fn(cart)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	err = s.persist.Save(ctx, next.Items)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.observers.Notify()
	return nil
}

func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	items, err := s.persist.Load(ctx)
	if errors.Is(err, state.ErrCorrupt) {
		s.logger.Printf("discarding unreadable cart: %v", err)
		if derr := s.persist.Discard(ctx); derr != nil {
			s.logger.Printf("discard cart: %v", derr)
		}
		return domain.Cart{Items: []domain.CartLineItem{}}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return domain.Cart{Items: items}, nil
}
