// Package notify carries payload-less change signals from a store to the
// views that mirror it.
package notify

import (
	"maps"
	"slices"
	"sync"
)

// Observers is a registry of callbacks fired after a store persists a change.
// The zero value is ready to use.
type Observers struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func()
}

// Subscribe registers fn and returns a handle that removes it. Calling the
// handle more than once is harmless.
func (o *Observers) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	if o.subs == nil {
		o.subs = make(map[uint64]func())
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

// Notify calls every subscriber in registration order. Subscribers run
// outside the lock so they may re-read the store or unsubscribe.
func (o *Observers) Notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.subs))
	for _, id := range slices.Sorted(maps.Keys(o.subs)) {
		fns = append(fns, o.subs[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of live subscribers.
func (o *Observers) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}
