package mapstate

import (
	"sync"
	"sync/atomic"
)

// Holder publishes the current map. Readers Load a pointer once per unit of
// work and keep using it; a concurrent Swap never changes what they see.
type Holder struct {
	mu         sync.Mutex // serializes writers only
	current    atomic.Pointer[Map]
	generation atomic.Uint64
}

// Load returns the current map, nil before the first Swap.
func (h *Holder) Load() *Map {
	return h.current.Load()
}

// Swap publishes a copy of m stamped with the next generation and returns
// the published map and the one it replaced.
func (h *Holder) Swap(m *Map) (published, prev *Map) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := *m
	next.Generation = h.generation.Add(1)
	prev = h.current.Swap(&next)
	return &next, prev
}

// Generation returns the number of maps published so far.
func (h *Holder) Generation() uint64 {
	return h.generation.Load()
}

// Reload builds a replacement off to the side and publishes it only if the
// build succeeds. On error the current map stays in place.
func (h *Holder) Reload(build func() (*Map, error)) (*Map, error) {
	m, err := build()
	if err != nil {
		return nil, err
	}
	published, _ := h.Swap(m)
	return published, nil
}
