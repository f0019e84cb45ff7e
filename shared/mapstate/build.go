package mapstate

import (
	"fmt"

	"github.com/automoto/oc-terrain/config"
	"github.com/automoto/oc-terrain/shared/gridindex"
	"github.com/automoto/oc-terrain/shared/query"
	"github.com/automoto/oc-terrain/shared/tileprops"
)

// Options selects the engine strategies a map is built with.
type Options struct {
	Connectivity gridindex.Connectivity
	CostModel    query.CostModel
	Marcher      query.Marcher
}

// DefaultOptions returns 8-connectivity, flat costs and Bresenham marching.
func DefaultOptions() Options {
	return Options{
		Connectivity: gridindex.Eight,
		CostModel:    query.Flat{},
		Marcher:      query.Bresenham,
	}
}

// OptionsFromConfig parses an engine configuration.
func OptionsFromConfig(c config.EngineConfig) (Options, error) {
	conn, err := gridindex.ParseConnectivity(c.Connectivity)
	if err != nil {
		return Options{}, err
	}
	cost, err := query.ParseCostModel(c.CostModel)
	if err != nil {
		return Options{}, err
	}
	marcher, err := query.ParseMarcher(c.Marcher)
	if err != nil {
		return Options{}, err
	}
	return Options{Connectivity: conn, CostModel: cost, Marcher: marcher}, nil
}

// Map is one fully built, immutable map.
type Map struct {
	Name       string
	Registry   *tileprops.Registry
	Grid       *gridindex.Grid
	Engine     *query.Engine
	Generation uint64 // stamped by Holder.Swap, 0 if never published
}

// Build registers every tileset of raw, seals the registry and realizes the
// grid. Any bad tileset, tile or cell rejects the whole map.
func Build(raw RawMap, opts Options) (*Map, error) {
	reg := tileprops.NewRegistry()
	for _, rts := range raw.Tilesets {
		ts, err := tileprops.NewTilesetFromRaw(rts)
		if err != nil {
			return nil, fmt.Errorf("map %q: %w", raw.Name, err)
		}
		if _, err := reg.Register(ts); err != nil {
			return nil, fmt.Errorf("map %q: %w", raw.Name, err)
		}
	}
	reg.Seal()

	if raw.Width <= 0 || raw.Height <= 0 || raw.Width > len(raw.Cells)/raw.Height || raw.Width*raw.Height != len(raw.Cells) {
		return nil, fmt.Errorf("map %q: %w", raw.Name,
			&gridindex.DimensionMismatchError{Width: raw.Width, Height: raw.Height, Cells: len(raw.Cells)})
	}

	refs := make([]tileprops.TileRef, len(raw.Cells))
	for i, cell := range raw.Cells {
		h, ok := reg.Handle(cell.Tileset)
		if !ok {
			return nil, fmt.Errorf("map %q: cell (%d,%d): %w", raw.Name, i%raw.Width, i/raw.Width,
				&tileprops.UnknownTilesetError{Name: cell.Tileset})
		}
		refs[i] = tileprops.TileRef{Tileset: h, LocalID: cell.LocalID}
	}

	conn := opts.Connectivity
	if conn == 0 {
		conn = gridindex.Eight
	}
	grid, err := gridindex.New(reg, raw.Width, raw.Height, refs, gridindex.WithConnectivity(conn))
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", raw.Name, err)
	}

	return &Map{
		Name:     raw.Name,
		Registry: reg,
		Grid:     grid,
		Engine:   query.New(grid, query.WithCostModel(opts.CostModel), query.WithMarcher(opts.Marcher)),
	}, nil
}

// Describe returns what a renderer needs for cell (x, y): the tile name and
// the image reference of its tileset.
func (m *Map) Describe(x, y int) (name, imageRef string, err error) {
	ref, err := m.Grid.Ref(x, y)
	if err != nil {
		return "", "", err
	}
	ts, err := m.Registry.Tileset(ref.Tileset)
	if err != nil {
		return "", "", err
	}
	tile, _ := ts.Lookup(ref.LocalID)
	return tile.Name, ts.ImageRef(), nil
}
