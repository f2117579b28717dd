package cart

import (
	"context"
	"errors"
	"testing"

	"autoparts-storefront/internal/domain"
	"autoparts-storefront/internal/repository/state"
)

type stubPersistence struct {
	items        []domain.CartLineItem
	loadErr      error
	saveErr      error
	saveCalls    int
	discardCalls int
	lastSaved    []domain.CartLineItem
}

func (s *stubPersistence) Load(_ context.Context) ([]domain.CartLineItem, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubPersistence) Save(_ context.Context, items []domain.CartLineItem) error {
	s.saveCalls++
	s.lastSaved = items
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items = append([]domain.CartLineItem(nil), items...)
	return nil
}

func (s *stubPersistence) Discard(_ context.Context) error {
	s.discardCalls++
	s.items = nil
	s.loadErr = nil
	return nil
}

func countSignals(store *Store) *int {
	n := 0
	store.Subscribe(func() { n++ })
	return &n
}

func TestAddMergesQuantity(t *testing.T) {
	persist := &stubPersistence{items: []domain.CartLineItem{{ID: 1, Name: "Oil filter", Price: 50, Quantity: 1}}}
	store := NewStore(persist, nil)
	signals := countSignals(store)

	cart, err := store.Add(context.Background(), domain.CartLineItem{ID: 1, Name: "Oil filter", Price: 50, Quantity: 2})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line, got %+v", cart.Items)
	}
	cart, err = store.Add(context.Background(), domain.CartLineItem{ID: 2, Name: "Spark plug", Price: 20, Quantity: 4})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(cart.Items) != 2 || cart.Items[1].ID != 2 {
		t.Fatalf("expected appended line, got %+v", cart.Items)
	}
	if *signals != 2 {
		t.Fatalf("expected 2 signals, got %d", *signals)
	}
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	persist := &stubPersistence{}
	store := NewStore(persist, nil)
	_, err := store.Add(context.Background(), domain.CartLineItem{ID: 1, Quantity: 0})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if persist.saveCalls != 0 {
		t.Fatalf("expected no save")
	}
}

func TestSetQuantityBelowOneIsIgnored(t *testing.T) {
	persist := &stubPersistence{items: []domain.CartLineItem{{ID: 1, Price: 10, Quantity: 2}}}
	store := NewStore(persist, nil)
	signals := countSignals(store)

	for _, qty := range []int{0, -3} {
		cart, err := store.SetQuantity(context.Background(), 1, qty)
		if err != nil {
			t.Fatalf("SetQuantity(%d): %v", qty, err)
		}
		if cart.Items[0].Quantity != 2 {
			t.Fatalf("SetQuantity(%d) changed quantity to %d", qty, cart.Items[0].Quantity)
		}
	}
	if persist.saveCalls != 0 || *signals != 0 {
		t.Fatalf("guard should not save or signal, saves=%d signals=%d", persist.saveCalls, *signals)
	}
}

func TestSetQuantityUpdatesLine(t *testing.T) {
	persist := &stubPersistence{items: []domain.CartLineItem{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}}
	store := NewStore(persist, nil)
	signals := countSignals(store)

	cart, err := store.SetQuantity(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if cart.Items[1].Quantity != 5 || persist.items[1].Quantity != 5 {
		t.Fatalf("quantity not written through: cart=%+v stored=%+v", cart.Items, persist.items)
	}
	if *signals != 1 {
		t.Fatalf("expected 1 signal, got %d", *signals)
	}

	if _, err := store.SetQuantity(context.Background(), 99, 3); err != nil {
		t.Fatalf("unknown id: %v", err)
	}
	if persist.saveCalls != 1 {
		t.Fatalf("unknown id should not save, saves=%d", persist.saveCalls)
	}
}

func TestRemoveAndClear(t *testing.T) {
	persist := &stubPersistence{items: []domain.CartLineItem{{ID: 1, Quantity: 2}, {ID: 2, Quantity: 1}}}
	store := NewStore(persist, nil)
	signals := countSignals(store)

	cart, err := store.Remove(context.Background(), 1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != 2 {
		t.Fatalf("unexpected cart %+v", cart.Items)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if persist.discardCalls != 1 {
		t.Fatalf("expected blob discarded")
	}
	count, err := store.Count(context.Background())
	if err != nil || count != 0 {
		t.Fatalf("expected empty cart, count=%d err=%v", count, err)
	}
	if *signals != 2 {
		t.Fatalf("expected 2 signals, got %d", *signals)
	}
}

func TestSaveFailureLeavesStateAndSkipsSignal(t *testing.T) {
	persist := &stubPersistence{
		items:   []domain.CartLineItem{{ID: 1, Quantity: 2}},
		saveErr: errors.New("disk full"),
	}
	store := NewStore(persist, nil)
	signals := countSignals(store)

	if _, err := store.SetQuantity(context.Background(), 1, 4); err == nil {
		t.Fatalf("expected save error")
	}
	if persist.items[0].Quantity != 2 {
		t.Fatalf("stored state changed after failed save: %+v", persist.items)
	}
	cart, err := store.Load(context.Background())
	if err != nil || cart.Items[0].Quantity != 2 {
		t.Fatalf("readers should still see the old cart, got %+v err=%v", cart.Items, err)
	}
	if *signals != 0 {
		t.Fatalf("failed save must not signal")
	}
}

func TestLoadDiscardsCorruptCart(t *testing.T) {
	persist := &stubPersistence{loadErr: state.ErrCorrupt}
	store := NewStore(persist, nil)

	cart, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt cart should not surface an error, got %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if persist.discardCalls != 1 {
		t.Fatalf("expected corrupt blob discarded")
	}
}

func TestLoadReturnsStorageErrors(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewStore(&stubPersistence{loadErr: boom}, nil)
	if _, err := store.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPersistedCartMatchesAfterEveryOperation(t *testing.T) {
	ctx := context.Background()
	backend := state.NewMemory()
	persist := NewBlobPersistence(backend)
	store := NewStore(persist, nil)

	steps := []func() (domain.Cart, error){
		func() (domain.Cart, error) {
			return store.Add(ctx, domain.CartLineItem{ID: 1, Name: "Brake pad", Price: 100, Quantity: 2})
		},
		func() (domain.Cart, error) {
			return store.Add(ctx, domain.CartLineItem{ID: 2, Name: "Wiper", Price: 80, Quantity: 1})
		},
		func() (domain.Cart, error) { return store.SetQuantity(ctx, 1, 5) },
		func() (domain.Cart, error) { return store.SetQuantity(ctx, 2, 0) },
		func() (domain.Cart, error) { return store.Remove(ctx, 1) },
	}
	for i, step := range steps {
		cart, err := step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		stored, err := persist.Load(ctx)
		if err != nil {
			t.Fatalf("step %d load: %v", i, err)
		}
		if len(stored) != len(cart.Items) {
			t.Fatalf("step %d: stored %+v, in memory %+v", i, stored, cart.Items)
		}
		for j := range stored {
			if stored[j] != cart.Items[j] {
				t.Fatalf("step %d line %d: stored %+v, in memory %+v", i, j, stored[j], cart.Items[j])
			}
		}
	}
}

func TestMalformedBlobYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	backend := state.NewMemory()
	_ = backend.Put(ctx, StorageKey, []byte(`[{"id":1,"price":`))
	store := NewStore(NewBlobPersistence(backend), nil)

	cart, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
	if _, err := backend.Get(ctx, StorageKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected corrupt blob removed, got %v", err)
	}
}

func TestLegacyCartLoads(t *testing.T) {
	ctx := context.Background()
	backend := state.NewMemory()
	_ = backend.Put(ctx, StorageKey, []byte(`[{"id":7,"title":"Air filter","price":120,"quantity":2}]`))
	store := NewStore(NewBlobPersistence(backend), nil)

	cart, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Name != "Air filter" || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected legacy cart %+v", cart.Items)
	}
}
