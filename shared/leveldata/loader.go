package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/automoto/oc-terrain/shared/mapstate"
	"github.com/automoto/oc-terrain/shared/tileprops"
)

// Options tunes LoadMap.
type Options struct {
	Layer string // terrain layer name, TerrainLayer if empty
}

// LoadMap parses a TMX file and returns its tilesets and terrain cells. It
// takes an fs.FS so callers can pass embed.FS or os.DirFS.
func LoadMap(fsys fs.FS, tmxPath string) (mapstate.RawMap, error) {
	return LoadMapWith(fsys, tmxPath, Options{})
}

// LoadMapWith is LoadMap with an explicit terrain layer.
func LoadMapWith(fsys fs.FS, tmxPath string, opts Options) (mapstate.RawMap, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return mapstate.RawMap{}, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	raw := mapstate.RawMap{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width:  levelMap.Width,
		Height: levelMap.Height,
	}

	for _, ts := range levelMap.Tilesets {
		rts, err := rawTileset(ts)
		if err != nil {
			return mapstate.RawMap{}, fmt.Errorf("load TMX %s: %w", tmxPath, err)
		}
		raw.Tilesets = append(raw.Tilesets, rts)
	}

	layer := terrainLayer(levelMap, opts.Layer)
	if layer == nil {
		return mapstate.RawMap{}, &NoLayerError{Map: raw.Name}
	}

	raw.Cells = make([]mapstate.RawRef, 0, levelMap.Width*levelMap.Height)
	for y := 0; y < levelMap.Height; y++ {
		for x := 0; x < levelMap.Width; x++ {
			i := y*levelMap.Width + x
			if i >= len(layer.Tiles) {
				return mapstate.RawMap{}, &EmptyCellError{Map: raw.Name, X: x, Y: y}
			}
			tile := layer.Tiles[i]
			if tile == nil || tile.IsNil() || tile.Tileset == nil {
				return mapstate.RawMap{}, &EmptyCellError{Map: raw.Name, X: x, Y: y}
			}
			raw.Cells = append(raw.Cells, mapstate.RawRef{Tileset: tile.Tileset.Name, LocalID: int(tile.ID)})
		}
	}

	return raw, nil
}

func terrainLayer(m *tiled.Map, name string) *tiled.Layer {
	if name == "" {
		name = TerrainLayer
	}
	for _, layer := range m.Layers {
		if layer.Name == name {
			return layer
		}
	}
	if len(m.Layers) > 0 {
		return m.Layers[0]
	}
	return nil
}

// rawTileset reads the property table of ts. Only tiles listed in the
// tileset get a record; cells using any other tile fail when the map is built.
func rawTileset(ts *tiled.Tileset) (tileprops.RawTileset, error) {
	rts := tileprops.RawTileset{Name: ts.Name}
	if ts.Image != nil {
		rts.ImageRef = ts.Image.Source
	}
	for _, tile := range ts.Tiles {
		rt, err := rawTile(ts.Name, int(tile.ID), tile.Properties)
		if err != nil {
			return tileprops.RawTileset{}, err
		}
		rts.Tiles = append(rts.Tiles, rt)
	}
	return rts, nil
}

func rawTile(tileset string, id int, props tiled.Properties) (tileprops.RawTile, error) {
	rt := tileprops.RawTile{ID: id}
	for _, p := range props {
		var err error
		switch p.Name {
		case PropName:
			rt.Name = p.Value
		case PropLegacyKind:
			rt.Kind = p.Value
		case PropTraversableByMan:
			rt.TraversableByMan, err = parseBool(p.Value)
		case PropTraversableByVehicle:
			rt.TraversableByVehicle, err = parseBool(p.Value)
		case PropOpacity:
			rt.Opacity, err = parseFloat(p.Value)
		case PropHeight:
			rt.Height, err = parseFloat(p.Value)
		}
		if err != nil {
			return tileprops.RawTile{}, &PropertyError{Tileset: tileset, LocalID: id, Name: p.Name, Value: p.Value, Err: err}
		}
	}
	return rt, nil
}

func parseBool(s string) (*bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(s string) (*float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MapNames returns the sorted stem names of the .tmx files in mapsDir.
func MapNames(fsys fs.FS, mapsDir string) ([]string, error) {
	pattern := mapsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .tmx files found in %s", mapsDir)
	}

	names := make([]string, 0, len(matches))
	for _, path := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(path), ".tmx"))
	}
	sort.Strings(names)
	return names, nil
}

// MapPath returns the path LoadMap expects for the map named name.
func MapPath(mapsDir, name string) string {
	return mapsDir + "/" + name + ".tmx"
}

// LoadAllMaps discovers all .tmx files in mapsDir within fsys, loads each,
// and returns them keyed by stem name plus a sorted list of names.
func LoadAllMaps(fsys fs.FS, mapsDir string) (map[string]mapstate.RawMap, []string, error) {
	names, err := MapNames(fsys, mapsDir)
	if err != nil {
		return nil, nil, err
	}

	maps := make(map[string]mapstate.RawMap, len(names))
	for _, name := range names {
		path := MapPath(mapsDir, name)
		raw, err := LoadMap(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		maps[name] = raw
	}
	return maps, names, nil
}
