package snapshot

import (
	"errors"
	"fmt"

	"github.com/quasilyte/gdata"

	"github.com/automoto/oc-terrain/shared/mapstate"
)

// ItemStore is the key/value surface the cache needs. *gdata.Manager
// satisfies it.
type ItemStore interface {
	SaveItem(key string, data []byte) error
	LoadItem(key string) ([]byte, error)
}

// Cache keeps one snapshot per map name.
type Cache struct {
	store ItemStore
}

// NewCache wraps store.
func NewCache(store ItemStore) *Cache {
	return &Cache{store: store}
}

// OpenCache opens the per-user gdata store of appName.
func OpenCache(appName string) (*Cache, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache %q: %w", appName, err)
	}
	return NewCache(m), nil
}

func itemKey(name string) string {
	return "terrain_" + name
}

// Load returns the cached map named name. A missing or outdated snapshot
// is a miss, not an error.
func (c *Cache) Load(name string) (mapstate.RawMap, bool, error) {
	data, err := c.store.LoadItem(itemKey(name))
	if err != nil {
		return mapstate.RawMap{}, false, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if len(data) == 0 {
		return mapstate.RawMap{}, false, nil
	}

	raw, err := Decode(data)
	if errors.Is(err, ErrVersion) {
		return mapstate.RawMap{}, false, nil
	}
	if err != nil {
		return mapstate.RawMap{}, false, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return raw, true, nil
}

// Save stores raw under its name, replacing any earlier snapshot.
func (c *Cache) Save(raw mapstate.RawMap) error {
	data, err := Encode(raw)
	if err != nil {
		return err
	}
	if err := c.store.SaveItem(itemKey(raw.Name), data); err != nil {
		return fmt.Errorf("save snapshot %q: %w", raw.Name, err)
	}
	return nil
}

// Drop clears the snapshot of name.
func (c *Cache) Drop(name string) error {
	if err := c.store.SaveItem(itemKey(name), nil); err != nil {
		return fmt.Errorf("drop snapshot %q: %w", name, err)
	}
	return nil
}
