package components

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/oc-terrain/shared/gridindex"
)

// PositionData is the cell an actor stands on.
type PositionData struct {
	Cell gridindex.Coord
}

// MobilityData holds how an actor moves and where it is going.
type MobilityData struct {
	Kind       gridindex.UnitKind
	Elevation  float64           // height of the current cell
	Route      []gridindex.Coord // remaining cells, next step first
	Goal       gridindex.Coord
	Idle       int    // ticks left before the next goal search
	Generation uint64 // map generation the route was planned on
}

// SightData holds an actor's sight range and what it saw last tick.
type SightData struct {
	Budget       float64
	Visible      int     // other actors in sight
	Nearest      int     // index of the nearest visible actor, -1 if none
	NearestDelta float64 // elevation of Nearest relative to this actor
}

var Position = donburi.NewComponentType[PositionData]()
var Mobility = donburi.NewComponentType[MobilityData]()
var Sight = donburi.NewComponentType[SightData]()
