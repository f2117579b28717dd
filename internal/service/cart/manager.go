package cart

import (
	"io"
	"log"
	"sync"

	"autoparts-storefront/internal/repository/state"
)

type lease struct {
	store *Store
	refs  int
}

// Manager shares one Store per browser client among everything currently
// holding it, so concurrent requests are serialised and event streams see
// every change. A store is dropped once its last holder releases it.
type Manager struct {
	mu      sync.Mutex
	backend state.Backend
	logger  *log.Logger
	leases  map[string]*lease
}

// NewManager builds a Manager whose stores share backend, each under its own
// client namespace.
func NewManager(backend state.Backend, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{backend: backend, logger: logger, leases: make(map[string]*lease)}
}

// Acquire returns the store of clientID and pins it until release is called.
// Calling release more than once is harmless.
func (m *Manager) Acquire(clientID string) (store *Store, release func()) {
	m.mu.Lock()
	l, ok := m.leases[clientID]
	if !ok {
		l = &lease{store: NewStore(NewBlobPersistence(state.Scope(m.backend, clientID)), m.logger)}
		m.leases[clientID] = l
	}
	l.refs++
	m.mu.Unlock()

	var once sync.Once
	return l.store, func() {
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

// Len reports how many client stores are pinned.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leases)
}
