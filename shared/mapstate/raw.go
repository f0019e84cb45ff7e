// Package mapstate turns the raw tables handed over by a map loader into a
// queryable map, and publishes maps to concurrent readers by atomic swap.
package mapstate

import (
	"github.com/automoto/oc-terrain/shared/tileprops"
)

// RawRef names a cell's tile by tileset name and local id, as loaders see it.
type RawRef struct {
	Tileset string
	LocalID int
}

// RawMap is everything a loader produces for one map.
type RawMap struct {
	Name     string
	Width    int
	Height   int
	Tilesets []tileprops.RawTileset
	Cells    []RawRef // row-major, len Width*Height
}
