package tileprops

import "fmt"

// DuplicateTilesetError is returned when a tileset name is registered twice.
type DuplicateTilesetError struct {
	Name string
}

func (e *DuplicateTilesetError) Error() string {
	return fmt.Sprintf("tileset %q already registered", e.Name)
}

// DuplicateTileError is returned when a tileset declares the same local id twice.
type DuplicateTileError struct {
	Tileset string
	LocalID int
}

func (e *DuplicateTileError) Error() string {
	return fmt.Sprintf("tileset %q: duplicate tile id %d", e.Tileset, e.LocalID)
}

// UnknownTilesetError is returned for a handle or name the registry does not know.
type UnknownTilesetError struct {
	Handle TilesetHandle
	Name   string
}

func (e *UnknownTilesetError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown tileset %q", e.Name)
	}
	return fmt.Sprintf("unknown tileset handle %d", e.Handle)
}

// UnknownTileError is returned when a local id is not present in its tileset.
type UnknownTileError struct {
	Tileset string
	LocalID int
}

func (e *UnknownTileError) Error() string {
	return fmt.Sprintf("tileset %q: unknown tile id %d", e.Tileset, e.LocalID)
}

// RegistrySealedError is returned by Register once the registry is sealed.
type RegistrySealedError struct {
	Tileset string
}

func (e *RegistrySealedError) Error() string {
	return fmt.Sprintf("registry sealed: cannot register tileset %q", e.Tileset)
}

// InvalidPropertyError reports a property value outside its allowed range.
type InvalidPropertyError struct {
	Tileset string
	LocalID int
	Field   string
	Value   float64
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("tileset %q: tile %d: invalid %s %v", e.Tileset, e.LocalID, e.Field, e.Value)
}

// UnknownKindError is returned for a legacy kind name with no known record.
type UnknownKindError struct {
	Tileset string
	LocalID int
	Kind    string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("tileset %q: tile %d: unknown kind %q", e.Tileset, e.LocalID, e.Kind)
}
