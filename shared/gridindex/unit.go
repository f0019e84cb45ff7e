package gridindex

import (
	"fmt"

	"github.com/automoto/oc-terrain/shared/tileprops"
)

// UnitKind is the movement category of an actor.
type UnitKind int

const (
	Man UnitKind = iota
	Vehicle
)

func (k UnitKind) String() string {
	switch k {
	case Man:
		return "man"
	case Vehicle:
		return "vehicle"
	}
	return "unknown"
}

// ParseUnitKind accepts "man" or "vehicle".
func ParseUnitKind(s string) (UnitKind, error) {
	switch s {
	case "man":
		return Man, nil
	case "vehicle":
		return Vehicle, nil
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

// Traversable reports whether kind may enter a tile with property p.
func Traversable(p tileprops.TileProperty, kind UnitKind) bool {
	if kind == Vehicle {
		return p.TraversableByVehicle
	}
	return p.TraversableByMan
}
