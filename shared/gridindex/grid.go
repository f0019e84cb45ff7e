// Package gridindex realizes one loaded map as a row-major grid of tile
// references with O(1) coordinate-to-property resolution. A Grid is built
// once and never mutated, so any number of goroutines may read it.
package gridindex

import (
	"fmt"

	"github.com/automoto/oc-terrain/shared/tileprops"
)

// Coord is a zero-based cell coordinate.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Connectivity selects which adjacent cells Neighbors yields.
type Connectivity int

const (
	Eight Connectivity = 8
	Four  Connectivity = 4
)

// ParseConnectivity accepts 4 or 8.
func ParseConnectivity(n int) (Connectivity, error) {
	switch Connectivity(n) {
	case Four, Eight:
		return Connectivity(n), nil
	}
	return 0, fmt.Errorf("connectivity must be 4 or 8, got %d", n)
}

// Option configures a Grid at build time.
type Option func(*Grid)

// WithConnectivity sets the neighbourhood used by Neighbors. Default Eight.
func WithConnectivity(c Connectivity) Option {
	return func(g *Grid) {
		g.conn = c
	}
}

// Grid is the immutable tile grid of one map.
type Grid struct {
	width  int
	height int
	conn   Connectivity

	// Distinct refs are resolved once; cells hold an index into them.
	palette     []tileprops.TileProperty
	paletteRefs []tileprops.TileRef
	cells       []uint32
}

// New builds a Grid from row-major refs of length width*height. Every ref is
// resolved against reg up front, so a map with an unknown tile fails here
// rather than at query time. Building seals reg.
func New(reg *tileprops.Registry, width, height int, refs []tileprops.TileRef, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 || width > len(refs)/height || width*height != len(refs) {
		return nil, &DimensionMismatchError{Width: width, Height: height, Cells: len(refs)}
	}

	g := &Grid{
		width:  width,
		height: height,
		conn:   Eight,
		cells:  make([]uint32, len(refs)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.conn != Four && g.conn != Eight {
		return nil, fmt.Errorf("invalid connectivity %d", g.conn)
	}

	reg.Seal()
	seen := make(map[tileprops.TileRef]uint32)
	for i, ref := range refs {
		idx, ok := seen[ref]
		if !ok {
			prop, err := reg.ResolveRef(ref)
			if err != nil {
				return nil, &CellError{At: Coord{X: i % width, Y: i / width}, Ref: ref, Err: err}
			}
			idx = uint32(len(g.palette))
			g.palette = append(g.palette, prop)
			g.paletteRefs = append(g.paletteRefs, ref)
			seen[ref] = idx
		}
		g.cells[i] = idx
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Cells() int  { return len(g.cells) }

func (g *Grid) Connectivity() Connectivity { return g.conn }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) checkBounds(x, y int) error {
	if !g.InBounds(x, y) {
		return &OutOfBoundsError{X: x, Y: y, Width: g.width, Height: g.height}
	}
	return nil
}

// Get returns the property of cell (x, y). Coordinates are never clamped.
func (g *Grid) Get(x, y int) (tileprops.TileProperty, error) {
	if err := g.checkBounds(x, y); err != nil {
		return tileprops.TileProperty{}, err
	}
	return g.palette[g.cells[y*g.width+x]], nil
}

// At is Get for a Coord.
func (g *Grid) At(c Coord) (tileprops.TileProperty, error) {
	return g.Get(c.X, c.Y)
}

// Ref returns the tile reference stored at (x, y).
func (g *Grid) Ref(x, y int) (tileprops.TileRef, error) {
	if err := g.checkBounds(x, y); err != nil {
		return tileprops.TileRef{}, err
	}
	return g.paletteRefs[g.cells[y*g.width+x]], nil
}

// Distinct returns the number of distinct tile refs on the map.
func (g *Grid) Distinct() int {
	return len(g.palette)
}

// get is the unchecked accessor for callers that already validated bounds.
func (g *Grid) get(x, y int) tileprops.TileProperty {
	return g.palette[g.cells[y*g.width+x]]
}
