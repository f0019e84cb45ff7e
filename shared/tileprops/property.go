// Package tileprops holds the immutable tile property tables of a map and the
// registry that composes them into one (tileset, local id) namespace.
// It has no dependencies on any loader or rendering library, pure data only.
package tileprops

import (
	"math"
)

// Defaults applied when a source table omits a field.
const (
	DefaultTraversableByMan     = true
	DefaultTraversableByVehicle = true
	DefaultOpacity              = 0.0
	DefaultHeight               = 0.0
)

// TileProperty is the fixed-shape property record of one tile.
type TileProperty struct {
	ID                   int
	Name                 string
	TraversableByMan     bool
	TraversableByVehicle bool
	Opacity              float64 // >= 0, sight blocked per cell
	Height               float64 // signed relative elevation, 0 = ground level
}

// RawTile is a tile as a loader sees it. Nil fields were absent in the
// source table and get the package defaults on Normalize.
type RawTile struct {
	ID                   int
	Name                 string
	Kind                 string // legacy "ID" property, "" if absent
	TraversableByMan     *bool
	TraversableByVehicle *bool
	Opacity              *float64
	Height               *float64
}

// RawTileset is one property table as produced by a loader.
type RawTileset struct {
	Name     string
	ImageRef string
	Tiles    []RawTile
}

// Normalize fills absent fields and validates the record. tileset is only
// used to identify the offending table in errors.
func (r RawTile) Normalize(tileset string) (TileProperty, error) {
	p := TileProperty{
		ID:                   r.ID,
		Name:                 r.Name,
		TraversableByMan:     DefaultTraversableByMan,
		TraversableByVehicle: DefaultTraversableByVehicle,
		Opacity:              DefaultOpacity,
		Height:               DefaultHeight,
	}

	if r.Kind != "" {
		base, ok := LegacyKinds[r.Kind]
		if !ok {
			return TileProperty{}, &UnknownKindError{Tileset: tileset, LocalID: r.ID, Kind: r.Kind}
		}
		p.TraversableByMan = base.TraversableByMan
		p.TraversableByVehicle = base.TraversableByVehicle
		p.Opacity = base.Opacity
		p.Height = base.Height
		if p.Name == "" {
			p.Name = r.Kind
		}
	}

	if r.TraversableByMan != nil {
		p.TraversableByMan = *r.TraversableByMan
	}
	if r.TraversableByVehicle != nil {
		p.TraversableByVehicle = *r.TraversableByVehicle
	}
	if r.Opacity != nil {
		p.Opacity = *r.Opacity
	}
	if r.Height != nil {
		p.Height = *r.Height
	}

	if math.IsNaN(p.Opacity) || math.IsInf(p.Opacity, 0) || p.Opacity < 0 {
		return TileProperty{}, &InvalidPropertyError{Tileset: tileset, LocalID: r.ID, Field: "opacity", Value: p.Opacity}
	}
	if math.IsNaN(p.Height) || math.IsInf(p.Height, 0) {
		return TileProperty{}, &InvalidPropertyError{Tileset: tileset, LocalID: r.ID, Field: "height", Value: p.Height}
	}
	return p, nil
}

// LegacyKinds maps the string kinds of the older tileset format to their
// property records. Older maps carry only the kind name per tile.
var LegacyKinds = map[string]TileProperty{
	"ShortGrass":  {Name: "ShortGrass", TraversableByMan: true, TraversableByVehicle: true, Opacity: 0.0},
	"MiddleGrass": {Name: "MiddleGrass", TraversableByMan: true, TraversableByVehicle: true, Opacity: 0.025},
	"HighGrass":   {Name: "HighGrass", TraversableByMan: true, TraversableByVehicle: true, Opacity: 0.1},
	"Dirt":        {Name: "Dirt", TraversableByMan: true, TraversableByVehicle: true, Opacity: 0.0},
	"Mud":         {Name: "Mud", TraversableByMan: true, TraversableByVehicle: true, Opacity: 0.02},
	"Concrete":    {Name: "Concrete", TraversableByMan: true, TraversableByVehicle: false, Opacity: 0.0},
	"BrickWall":   {Name: "BrickWall", TraversableByMan: true, TraversableByVehicle: false, Opacity: 1.0},
}

// Bool and Float return pointers for building RawTile literals.
func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }
