package core

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/solarlune/resolv"

	"github.com/automoto/oc-terrain/shared/gridindex"
	"github.com/automoto/oc-terrain/shared/leveldata"
	"github.com/automoto/oc-terrain/shared/mapstate"
	"github.com/automoto/oc-terrain/shared/snapshot"
	"github.com/automoto/oc-terrain/shared/tileprops"
)

// tablesTimeout bounds one read of the property tables.
const tablesTimeout = 5 * time.Second

// TableSource serves property tables that override the tilesets embedded in
// a map, matched by tileset name. *pgtables.Source implements it.
type TableSource interface {
	Tilesets(ctx context.Context) ([]tileprops.RawTileset, error)
}

// Terrain is one published map together with its collision spaces. The
// spaces are only touched by the simulation goroutine.
type Terrain struct {
	Map          *mapstate.Map
	ManSpace     *resolv.Space
	VehicleSpace *resolv.Space
	CellSize     int
}

// Space returns the blocking space of kind.
func (t *Terrain) Space(kind gridindex.UnitKind) *resolv.Space {
	if kind == gridindex.Vehicle {
		return t.VehicleSpace
	}
	return t.ManSpace
}

// LevelOptions configures how a level is read and built.
type LevelOptions struct {
	MapsDir  string
	Layer    string
	CellSize int
	Engine   mapstate.Options
	Cache    *snapshot.Cache // nil disables the snapshot cache
	Tables   TableSource     // nil keeps the map's own tilesets
}

// Level loads one named map and republishes it on Reload. Readers call
// Terrain once per tick.
type Level struct {
	name   string
	fsys   fs.FS
	opts   LevelOptions
	holder mapstate.Holder

	mu      sync.Mutex // serializes reloads
	terrain atomic.Pointer[Terrain]
}

// NewLevel loads the map `name` from fsys. A cached snapshot is used when
// present.
func NewLevel(fsys fs.FS, name string, opts LevelOptions) (*Level, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = 1
	}
	l := &Level{name: name, fsys: fsys, opts: opts}
	if _, err := l.load(true); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the map name.
func (l *Level) Name() string { return l.name }

// Terrain returns the current terrain.
func (l *Level) Terrain() *Terrain { return l.terrain.Load() }

// Generation returns the generation of the terrain Terrain returns, 0 before
// the first load.
func (l *Level) Generation() uint64 {
	if t := l.terrain.Load(); t != nil {
		return t.Map.Generation
	}
	return 0
}

// Reload rereads the map from its TMX source and swaps it in. On error the
// current terrain stays published.
func (l *Level) Reload() (*Terrain, error) {
	return l.load(false)
}

func (l *Level) load(useCache bool) (*Terrain, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	published, err := l.holder.Reload(func() (*mapstate.Map, error) {
		raw, err := l.readRaw(useCache)
		if err != nil {
			return nil, err
		}
		if err := l.applyTables(&raw); err != nil {
			return nil, err
		}
		return mapstate.Build(raw, l.opts.Engine)
	})
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", l.name, err)
	}

	t := &Terrain{
		Map:          published,
		ManSpace:     published.Grid.BlockingSpace(gridindex.Man, l.opts.CellSize),
		VehicleSpace: published.Grid.BlockingSpace(gridindex.Vehicle, l.opts.CellSize),
		CellSize:     l.opts.CellSize,
	}
	l.terrain.Store(t)

	log.Printf("Loaded level %s (generation %d): %dx%d cells, %d tilesets, %d distinct tiles",
		l.name, published.Generation, published.Grid.Width(), published.Grid.Height(),
		published.Registry.Len(), published.Grid.Distinct())
	return t, nil
}

func (l *Level) readRaw(useCache bool) (mapstate.RawMap, error) {
	cache := l.opts.Cache
	if cache != nil && useCache {
		raw, ok, err := cache.Load(l.name)
		if err != nil {
			log.Printf("Warning: snapshot cache: %v", err)
		} else if ok {
			log.Printf("Level %s read from snapshot cache", l.name)
			return raw, nil
		}
	}

	raw, err := leveldata.LoadMapWith(l.fsys, leveldata.MapPath(l.opts.MapsDir, l.name),
		leveldata.Options{Layer: l.opts.Layer})
	if err != nil {
		return mapstate.RawMap{}, err
	}

	if cache != nil {
		if err := cache.Save(raw); err != nil {
			log.Printf("Warning: snapshot cache: %v", err)
		}
	}
	return raw, nil
}

// applyTables swaps in the table source's version of every tileset the map
// names. Tilesets the source does not know are left alone.
func (l *Level) applyTables(raw *mapstate.RawMap) error {
	if l.opts.Tables == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), tablesTimeout)
	defer cancel()
	sets, err := l.opts.Tables.Tilesets(ctx)
	if err != nil {
		return fmt.Errorf("read property tables: %w", err)
	}

	byName := make(map[string]tileprops.RawTileset, len(sets))
	for _, ts := range sets {
		byName[ts.Name] = ts
	}
	replaced := 0
	for i, ts := range raw.Tilesets {
		table, ok := byName[ts.Name]
		if !ok {
			continue
		}
		if table.ImageRef == "" {
			table.ImageRef = ts.ImageRef
		}
		raw.Tilesets[i] = table
		replaced++
	}
	if replaced > 0 {
		log.Printf("Level %s: %d of %d tilesets read from property tables", l.name, replaced, len(raw.Tilesets))
	}
	return nil
}
