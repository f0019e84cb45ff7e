package gridindex

import (
	"iter"

	"github.com/automoto/oc-terrain/shared/tileprops"
)

// Neighbour offsets, N, NE, E, SE, S, SW, W, NW.
var dirEight = [8]Coord{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// N, E, S, W.
var dirFour = [4]Coord{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
}

// Neighbors returns the in-bounds cells adjacent to (x, y), in fixed
// clockwise order starting north. The sequence may be ranged over any
// number of times.
func (g *Grid) Neighbors(x, y int) (iter.Seq2[Coord, tileprops.TileProperty], error) {
	if err := g.checkBounds(x, y); err != nil {
		return nil, err
	}

	dirs := dirEight[:]
	if g.conn == Four {
		dirs = dirFour[:]
	}

	return func(yield func(Coord, tileprops.TileProperty) bool) {
		for _, d := range dirs {
			nx, ny := x+d.X, y+d.Y
			if !g.InBounds(nx, ny) {
				continue
			}
			if !yield(Coord{X: nx, Y: ny}, g.get(nx, ny)) {
				return
			}
		}
	}, nil
}
