package tileprops

// Tileset is a named, immutable collection of tile properties sharing one
// source image.
type Tileset struct {
	name     string
	imageRef string
	tiles    []TileProperty // source order
	index    map[int]int    // local id -> position in tiles
}

// NewTileset normalizes raw tiles into a Tileset. Tiles keep their source
// order; a repeated local id is rejected.
func NewTileset(name, imageRef string, raw []RawTile) (*Tileset, error) {
	ts := &Tileset{
		name:     name,
		imageRef: imageRef,
		tiles:    make([]TileProperty, 0, len(raw)),
		index:    make(map[int]int, len(raw)),
	}
	for _, r := range raw {
		if _, dup := ts.index[r.ID]; dup {
			return nil, &DuplicateTileError{Tileset: name, LocalID: r.ID}
		}
		p, err := r.Normalize(name)
		if err != nil {
			return nil, err
		}
		ts.index[r.ID] = len(ts.tiles)
		ts.tiles = append(ts.tiles, p)
	}
	return ts, nil
}

// NewTilesetFromRaw is NewTileset for a loader-produced table.
func NewTilesetFromRaw(raw RawTileset) (*Tileset, error) {
	return NewTileset(raw.Name, raw.ImageRef, raw.Tiles)
}

func (t *Tileset) Name() string { return t.name }

// ImageRef is passed through for rendering, never interpreted here.
func (t *Tileset) ImageRef() string { return t.imageRef }

func (t *Tileset) Len() int { return len(t.tiles) }

// Lookup returns the property of a local tile id.
func (t *Tileset) Lookup(localID int) (TileProperty, bool) {
	i, ok := t.index[localID]
	if !ok {
		return TileProperty{}, false
	}
	return t.tiles[i], true
}

// Tiles returns a copy of the properties in source order.
func (t *Tileset) Tiles() []TileProperty {
	out := make([]TileProperty, len(t.tiles))
	copy(out, t.tiles)
	return out
}
