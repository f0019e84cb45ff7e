package gridindex

import (
	"github.com/solarlune/resolv"
)

// Resolv tags for cells a unit kind cannot enter.
const (
	TagBlockedMan     = "blocked_man"
	TagBlockedVehicle = "blocked_vehicle"
)

// BlockingTag returns the resolv tag used for kind.
func BlockingTag(kind UnitKind) string {
	if kind == Vehicle {
		return TagBlockedVehicle
	}
	return TagBlockedMan
}

// BlockingSpace builds a resolv space, cellSize world units per cell, holding
// solid objects over every cell kind cannot enter. Horizontal runs of blocked
// cells are merged into one object per run.
func (g *Grid) BlockingSpace(kind UnitKind, cellSize int) *resolv.Space {
	space := resolv.NewSpace(g.width*cellSize, g.height*cellSize, cellSize, cellSize)
	cs := float64(cellSize)
	tag := BlockingTag(kind)

	for y := 0; y < g.height; y++ {
		runStart := -1
		for x := 0; x <= g.width; x++ {
			blocked := x < g.width && !Traversable(g.get(x, y), kind)
			if blocked && runStart < 0 {
				runStart = x
				continue
			}
			if !blocked && runStart >= 0 {
				w := float64(x-runStart) * cs
				obj := resolv.NewObject(float64(runStart)*cs, float64(y)*cs, w, cs, tag)
				obj.SetShape(resolv.NewRectangle(0, 0, w, cs))
				space.Add(obj)
				runStart = -1
			}
		}
	}
	return space
}
