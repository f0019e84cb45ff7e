package pgtables

import (
	"context"
	"os"
	"testing"

	"github.com/automoto/oc-terrain/shared/tileprops"
)

func openTestSource(t *testing.T) *Source {
	t.Helper()
	dsn := os.Getenv("TERRAIN_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TERRAIN_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	src, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	if err := src.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return src
}

func TestSaveAndReadTilesets(t *testing.T) {
	src := openTestSource(t)
	ctx := context.Background()

	ts := tileprops.RawTileset{
		Name:     "pgtables_test_terrain",
		ImageRef: "terrain.png",
		Tiles: []tileprops.RawTile{
			{ID: 0, Name: "Grass"},
			{ID: 1, Name: "Wood wall", TraversableByMan: tileprops.Bool(false), TraversableByVehicle: tileprops.Bool(false), Opacity: tileprops.Float(100), Height: tileprops.Float(2)},
			{ID: 4, Kind: "Mud"},
		},
	}
	if err := src.SaveTileset(ctx, ts); err != nil {
		t.Fatalf("SaveTileset: %v", err)
	}
	t.Cleanup(func() {
		src.db.Exec(`DELETE FROM terrain_tilesets WHERE name = $1`, ts.Name)
	})

	sets, err := src.Tilesets(ctx)
	if err != nil {
		t.Fatalf("Tilesets: %v", err)
	}
	var got *tileprops.RawTileset
	for i := range sets {
		if sets[i].Name == ts.Name {
			got = &sets[i]
		}
	}
	if got == nil {
		t.Fatalf("Saved tileset not returned")
	}
	if got.ImageRef != "terrain.png" || len(got.Tiles) != 3 {
		t.Fatalf("Unexpected tileset %+v", got)
	}

	built, err := tileprops.NewTilesetFromRaw(*got)
	if err != nil {
		t.Fatalf("NewTilesetFromRaw: %v", err)
	}
	grass, _ := built.Lookup(0)
	if !grass.TraversableByMan || !grass.TraversableByVehicle || grass.Opacity != 0 || grass.Height != 0 {
		t.Errorf("Expected NULL columns to read as defaults, got %+v", grass)
	}
	wall, _ := built.Lookup(1)
	if wall.TraversableByMan || wall.Opacity != 100 || wall.Height != 2 {
		t.Errorf("Unexpected wall %+v", wall)
	}
	mud, _ := built.Lookup(4)
	if mud.Name != "Mud" || mud.Opacity != 0.02 {
		t.Errorf("Expected legacy kind record, got %+v", mud)
	}
}

func TestNullHelpers(t *testing.T) {
	if nullBool(nil).Valid || nullFloat(nil).Valid || nullString("").Valid {
		t.Error("Expected absent values to map to NULL")
	}
	if b := nullBool(tileprops.Bool(false)); !b.Valid || b.Bool {
		t.Errorf("Unexpected %+v", b)
	}
	if f := nullFloat(tileprops.Float(0)); !f.Valid || f.Float64 != 0 {
		t.Errorf("Unexpected %+v", f)
	}
}
