package tileprops

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func terrainRaw() []RawTile {
	return []RawTile{
		{ID: 0, Name: "Grass", TraversableByMan: Bool(true), TraversableByVehicle: Bool(true), Opacity: Float(0), Height: Float(0)},
		{ID: 1, Name: "Wood wall", TraversableByMan: Bool(false), TraversableByVehicle: Bool(false), Opacity: Float(100), Height: Float(2)},
		{ID: 2, Name: "Bitume", TraversableByMan: Bool(true), TraversableByVehicle: Bool(true), Opacity: Float(0), Height: Float(0)},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	p, err := RawTile{ID: 7, Name: "Grass"}.Normalize("terrain")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := TileProperty{ID: 7, Name: "Grass", TraversableByMan: true, TraversableByVehicle: true}
	if p != want {
		t.Errorf("Expected %+v, got %+v", want, p)
	}
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawTile
		field string
	}{
		{"negative opacity", RawTile{ID: 1, Opacity: Float(-1)}, "opacity"},
		{"nan opacity", RawTile{ID: 1, Opacity: Float(math.NaN())}, "opacity"},
		{"infinite height", RawTile{ID: 1, Height: Float(math.Inf(-1))}, "height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.raw.Normalize("terrain")
			var ipe *InvalidPropertyError
			if !errors.As(err, &ipe) {
				t.Fatalf("Expected InvalidPropertyError, got %v", err)
			}
			if ipe.Field != tt.field || ipe.Tileset != "terrain" || ipe.LocalID != 1 {
				t.Errorf("Unexpected error fields: %+v", ipe)
			}
		})
	}
}

func TestNormalizeNegativeHeightAllowed(t *testing.T) {
	p, err := RawTile{ID: 3, Name: "Trench", Height: Float(-1.5)}.Normalize("terrain")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Height != -1.5 {
		t.Errorf("Expected height -1.5, got %v", p.Height)
	}
}

func TestNormalizeLegacyKind(t *testing.T) {
	p, err := RawTile{ID: 6, Kind: "BrickWall"}.Normalize("terrain")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Name != "BrickWall" || p.Opacity != 1.0 || p.TraversableByVehicle || !p.TraversableByMan {
		t.Errorf("Unexpected legacy record: %+v", p)
	}

	// explicit properties override the kind
	p, err = RawTile{ID: 6, Kind: "BrickWall", Opacity: Float(5)}.Normalize("terrain")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Opacity != 5 {
		t.Errorf("Expected overridden opacity 5, got %v", p.Opacity)
	}

	_, err = RawTile{ID: 100, Kind: "Trunk"}.Normalize("terrain")
	var uke *UnknownKindError
	if !errors.As(err, &uke) || uke.Kind != "Trunk" {
		t.Errorf("Expected UnknownKindError for Trunk, got %v", err)
	}
}

func TestNewTilesetDuplicateID(t *testing.T) {
	raw := append(terrainRaw(), RawTile{ID: 1, Name: "again"})
	_, err := NewTileset("terrain", "terrain.png", raw)
	var dte *DuplicateTileError
	if !errors.As(err, &dte) || dte.LocalID != 1 {
		t.Fatalf("Expected DuplicateTileError for id 1, got %v", err)
	}
}

func TestTilesetKeepsOrderAndCopies(t *testing.T) {
	ts, err := NewTileset("terrain", "terrain.png", terrainRaw())
	if err != nil {
		t.Fatalf("NewTileset: %v", err)
	}
	if ts.ImageRef() != "terrain.png" || ts.Len() != 3 {
		t.Errorf("Unexpected tileset: image=%q len=%d", ts.ImageRef(), ts.Len())
	}
	tiles := ts.Tiles()
	for i, p := range tiles {
		if p.ID != i {
			t.Errorf("Expected id %d at position %d, got %d", i, i, p.ID)
		}
	}
	tiles[0].Name = "mutated"
	if p, _ := ts.Lookup(0); p.Name != "Grass" {
		t.Errorf("Tiles() leaked internal storage: %q", p.Name)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry()
	ts, err := NewTileset("terrain", "terrain.png", terrainRaw())
	if err != nil {
		t.Fatalf("NewTileset: %v", err)
	}
	h, err := reg.Register(ts)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, raw := range terrainRaw() {
		want, _ := raw.Normalize("terrain")
		got, err := reg.Resolve(h, raw.ID)
		if err != nil {
			t.Fatalf("Resolve(%d): %v", raw.ID, err)
		}
		if got != want {
			t.Errorf("Resolve(%d): expected %+v, got %+v", raw.ID, want, got)
		}
	}

	_, err = reg.Resolve(h, 42)
	var ute *UnknownTileError
	if !errors.As(err, &ute) || ute.Tileset != "terrain" || ute.LocalID != 42 {
		t.Errorf("Expected UnknownTileError terrain/42, got %v", err)
	}

	_, err = reg.Resolve(h+5, 0)
	var uts *UnknownTilesetError
	if !errors.As(err, &uts) {
		t.Errorf("Expected UnknownTilesetError, got %v", err)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := NewRegistry()
	a, _ := NewTileset("terrain", "a.png", terrainRaw())
	b, _ := NewTileset("terrain", "b.png", terrainRaw())
	if _, err := reg.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := reg.Register(b)
	var dup *DuplicateTilesetError
	if !errors.As(err, &dup) || dup.Name != "terrain" {
		t.Errorf("Expected DuplicateTilesetError, got %v", err)
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := NewRegistry()
	a, _ := NewTileset("terrain", "a.png", terrainRaw())
	b, _ := NewTileset("decor", "b.png", nil)
	if _, err := reg.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	reg.Seal()
	reg.Seal() // no-op
	if !reg.Sealed() {
		t.Fatal("Expected registry to be sealed")
	}

	_, err := reg.Register(b)
	var sealed *RegistrySealedError
	if !errors.As(err, &sealed) || sealed.Tileset != "decor" {
		t.Errorf("Expected RegistrySealedError, got %v", err)
	}
}

func TestRegistryFirstQuerySeals(t *testing.T) {
	reg := NewRegistry()
	a, _ := NewTileset("terrain", "a.png", terrainRaw())
	h, _ := reg.Register(a)
	if reg.Sealed() {
		t.Fatal("Registry sealed before any query")
	}
	if _, err := reg.Resolve(h, 0); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reg.Sealed() {
		t.Error("Expected first query to seal the registry")
	}
}

func TestRegistryConcurrentResolve(t *testing.T) {
	reg := NewRegistry()
	a, _ := NewTileset("terrain", "a.png", terrainRaw())
	h, _ := reg.Register(a)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				p, err := reg.Resolve(h, i%3)
				if err != nil || p.ID != i%3 {
					t.Errorf("Resolve(%d) = %+v, %v", i%3, p, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
