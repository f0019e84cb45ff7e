package tileprops

import (
	"sync"
	"sync/atomic"
)

// TilesetHandle identifies a registered tileset.
type TilesetHandle int

// TileRef is the (tileset, local id) pair stored per grid cell.
type TileRef struct {
	Tileset TilesetHandle
	LocalID int
}

// Registry composes tilesets into a single namespace. It is append-only
// until sealed, either by Seal or by the first query; after that every
// read is lock-free.
type Registry struct {
	mu       sync.Mutex
	sealed   atomic.Bool
	tilesets []*Tileset
	byName   map[string]TilesetHandle
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]TilesetHandle),
	}
}

// Register adds a tileset and returns its handle.
func (r *Registry) Register(ts *Tileset) (TilesetHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return 0, &RegistrySealedError{Tileset: ts.Name()}
	}
	if _, exists := r.byName[ts.Name()]; exists {
		return 0, &DuplicateTilesetError{Name: ts.Name()}
	}

	h := TilesetHandle(len(r.tilesets))
	r.tilesets = append(r.tilesets, ts)
	r.byName[ts.Name()] = h
	return h, nil
}

// Seal stops further registration. Sealing twice is a no-op.
func (r *Registry) Seal() {
	if r.sealed.Load() {
		return
	}
	// Taking the lock orders any in-flight Register before readers.
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Len returns the number of registered tilesets.
func (r *Registry) Len() int {
	r.Seal()
	return len(r.tilesets)
}

// Handle looks up a tileset by name.
func (r *Registry) Handle(name string) (TilesetHandle, bool) {
	r.Seal()
	h, ok := r.byName[name]
	return h, ok
}

// Tileset returns the tileset behind a handle.
func (r *Registry) Tileset(h TilesetHandle) (*Tileset, error) {
	r.Seal()
	if h < 0 || int(h) >= len(r.tilesets) {
		return nil, &UnknownTilesetError{Handle: h}
	}
	return r.tilesets[h], nil
}

// Resolve returns the property of localID within the tileset h.
func (r *Registry) Resolve(h TilesetHandle, localID int) (TileProperty, error) {
	ts, err := r.Tileset(h)
	if err != nil {
		return TileProperty{}, err
	}
	p, ok := ts.Lookup(localID)
	if !ok {
		return TileProperty{}, &UnknownTileError{Tileset: ts.Name(), LocalID: localID}
	}
	return p, nil
}

// ResolveRef is Resolve for a TileRef.
func (r *Registry) ResolveRef(ref TileRef) (TileProperty, error) {
	return r.Resolve(ref.Tileset, ref.LocalID)
}
