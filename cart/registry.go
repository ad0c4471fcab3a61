package cart

import (
	"sync"
	"time"
)

// Registry maps a session id to its cart.
type Registry struct {
	mu    sync.RWMutex
	clock Clock
	carts map[string]*Store
}

func NewRegistry() *Registry {
	return NewRegistryWithClock(systemClock{})
}

func NewRegistryWithClock(clock Clock) *Registry {
	if clock == nil {
		clock = systemClock{}
	}
	return &Registry{clock: clock, carts: map[string]*Store{}}
}

// Get returns the cart of sessionID, creating an empty one on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.RLock()
	s, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.carts[sessionID]; ok {
		return s
	}
	s = NewStoreWithClock(r.clock)
	r.carts[sessionID] = s
	return s
}

// Lookup returns the cart of sessionID without creating it.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.carts[sessionID]
	return s, ok
}

// Sweep drops carts with no activity for longer than idle and returns how
// many were removed. Carts with a live subscriber are kept, since dropping
// them would orphan the socket from later Get calls.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.clock.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.carts {
		if s.LastActivity().Before(cutoff) && !s.hasSubscribers() {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
