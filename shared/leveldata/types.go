// Package leveldata reads TMX maps into the raw property tables and cell
// references a terrain map is built from. It has no dependencies on the
// engine packages beyond their raw input types.
package leveldata

import "fmt"

// Tile property names read from tilesets.
const (
	PropName                 = "name"
	PropTraversableByMan     = "traversable_by_man"
	PropTraversableByVehicle = "traversable_by_vehicle"
	PropOpacity              = "opacity"
	PropHeight               = "height"
	PropLegacyKind           = "ID" // older tilesets name a terrain kind only
)

// TerrainLayer is the tile layer read by default. Maps without it use their
// first tile layer.
const TerrainLayer = "terrain"

// EmptyCellError reports a terrain layer cell with no tile.
type EmptyCellError struct {
	Map  string
	X, Y int
}

func (e *EmptyCellError) Error() string {
	return fmt.Sprintf("map %q: cell (%d,%d) has no tile", e.Map, e.X, e.Y)
}

// PropertyError reports a tile property whose value cannot be parsed.
type PropertyError struct {
	Tileset string
	LocalID int
	Name    string
	Value   string
	Err     error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("tileset %q tile %d: property %s=%q: %v", e.Tileset, e.LocalID, e.Name, e.Value, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// NoLayerError reports a map without any tile layer.
type NoLayerError struct {
	Map string
}

func (e *NoLayerError) Error() string {
	return fmt.Sprintf("map %q: no tile layer", e.Map)
}
