package query

import (
	"fmt"
	"slices"

	"github.com/automoto/oc-terrain/shared/gridindex"
)

// Marcher selects how a segment between two cell centers is discretized.
type Marcher int

const (
	// Bresenham takes one cell per step along the major axis, the one whose
	// center lies within half a cell of the ideal line. Exact half-cell ties
	// round away from the walk's start.
	Bresenham Marcher = iota
	// Supercover takes every cell the segment touches. When the segment
	// crosses a cell corner exactly, both cells beside the corner are taken.
	Supercover
)

func (m Marcher) String() string {
	switch m {
	case Bresenham:
		return "bresenham"
	case Supercover:
		return "supercover"
	}
	return "unknown"
}

// ParseMarcher accepts "bresenham" or "supercover".
func ParseMarcher(s string) (Marcher, error) {
	switch s {
	case "", "bresenham":
		return Bresenham, nil
	case "supercover":
		return Supercover, nil
	}
	return 0, fmt.Errorf("unknown marcher %q", s)
}

// canonical orders two endpoints by Y then X. Every walk starts from the
// first returned coord so a pair yields the same cells in both directions.
func canonical(a, b gridindex.Coord) (gridindex.Coord, gridindex.Coord, bool) {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		return b, a, true
	}
	return a, b, false
}

// march appends the cells from a to b, both included, to buf.
func (m Marcher) march(a, b gridindex.Coord, buf []gridindex.Coord) []gridindex.Coord {
	dx, dy := b.X-a.X, b.Y-a.Y
	sx, sy := 1, 1
	if dx < 0 {
		sx, dx = -1, -dx
	}
	if dy < 0 {
		sy, dy = -1, -dy
	}

	if m == Supercover {
		return supercover(a, dx, dy, sx, sy, buf)
	}
	return bresenham(a, dx, dy, sx, sy, buf)
}

func bresenham(a gridindex.Coord, dx, dy, sx, sy int, buf []gridindex.Coord) []gridindex.Coord {
	if dx == 0 && dy == 0 {
		return append(buf, a)
	}
	if dx >= dy {
		for i := 0; i <= dx; i++ {
			off := (2*i*dy + dx) / (2 * dx)
			buf = append(buf, gridindex.Coord{X: a.X + sx*i, Y: a.Y + sy*off})
		}
		return buf
	}
	for i := 0; i <= dy; i++ {
		off := (2*i*dx + dy) / (2 * dy)
		buf = append(buf, gridindex.Coord{X: a.X + sx*off, Y: a.Y + sy*i})
	}
	return buf
}

func supercover(a gridindex.Coord, dx, dy, sx, sy int, buf []gridindex.Coord) []gridindex.Coord {
	x, y := a.X, a.Y
	buf = append(buf, a)
	for ix, iy := 0, 0; ix < dx || iy < dy; {
		// Compare where the segment next crosses a vertical and a horizontal
		// cell boundary: (0.5+ix)/dx against (0.5+iy)/dy.
		d := (1+2*ix)*dy - (1+2*iy)*dx
		switch {
		case d == 0:
			buf = append(buf, gridindex.Coord{X: x + sx, Y: y}, gridindex.Coord{X: x, Y: y + sy})
			x += sx
			y += sy
			ix++
			iy++
		case d < 0:
			x += sx
			ix++
		default:
			y += sy
			iy++
		}
		buf = append(buf, gridindex.Coord{X: x, Y: y})
	}
	return buf
}

func (m Marcher) capacity(a, b gridindex.Coord) int {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	if m == Supercover {
		return dx + dy + 1
	}
	return max(dx, dy) + 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// walk returns the cells between from and to in canonical order and whether
// that order runs from `to` to `from`.
func (e *Engine) walk(from, to gridindex.Coord) ([]gridindex.Coord, bool, error) {
	if _, err := e.grid.At(from); err != nil {
		return nil, false, err
	}
	if _, err := e.grid.At(to); err != nil {
		return nil, false, err
	}
	a, b, swapped := canonical(from, to)
	cells := e.marcher.march(a, b, make([]gridindex.Coord, 0, e.marcher.capacity(a, b)))
	return cells, swapped, nil
}

// Line returns the cells a sight ray between from and to crosses, ordered
// from `from` to `to`.
func (e *Engine) Line(from, to gridindex.Coord) ([]gridindex.Coord, error) {
	cells, swapped, err := e.walk(from, to)
	if err != nil {
		return nil, err
	}
	if swapped {
		slices.Reverse(cells)
	}
	return cells, nil
}
