// Package pgtables reads tile property tables from PostgreSQL, for
// deployments that keep terrain data next to the rest of the game state.
package pgtables

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/automoto/oc-terrain/shared/tileprops"
)

const schema = `
CREATE TABLE IF NOT EXISTS terrain_tilesets (
	name TEXT PRIMARY KEY,
	image_ref TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS terrain_tiles (
	tileset TEXT NOT NULL REFERENCES terrain_tilesets(name) ON DELETE CASCADE,
	local_id INTEGER NOT NULL,
	name TEXT,
	kind TEXT,
	traversable_by_man BOOLEAN,
	traversable_by_vehicle BOOLEAN,
	opacity DOUBLE PRECISION,
	height DOUBLE PRECISION,
	PRIMARY KEY (tileset, local_id)
);
`

// Source serves property tables stored in the terrain_* tables. NULL
// columns read as absent and get the tileprops defaults.
type Source struct {
	db *sql.DB
}

// Open connects to dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*Source, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Source{db: db}, nil
}

// NewSource wraps an already open database.
func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

// InitSchema creates the terrain tables if missing.
func (s *Source) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init terrain schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Source) Close() error {
	return s.db.Close()
}

// Tilesets returns every stored tileset ordered by name, tiles in local id
// order.
func (s *Source) Tilesets(ctx context.Context) ([]tileprops.RawTileset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, image_ref FROM terrain_tilesets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tilesets: %w", err)
	}
	var sets []tileprops.RawTileset
	index := make(map[string]int)
	for rows.Next() {
		var ts tileprops.RawTileset
		if err := rows.Scan(&ts.Name, &ts.ImageRef); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tileset: %w", err)
		}
		index[ts.Name] = len(sets)
		sets = append(sets, ts)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tilesets: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
	SELECT tileset, local_id, name, kind, traversable_by_man, traversable_by_vehicle, opacity, height
	FROM terrain_tiles ORDER BY tileset, local_id`)
	if err != nil {
		return nil, fmt.Errorf("query tiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tileset  string
			tile     tileprops.RawTile
			name     sql.NullString
			kind     sql.NullString
			man, veh sql.NullBool
			opacity  sql.NullFloat64
			height   sql.NullFloat64
		)
		if err := rows.Scan(&tileset, &tile.ID, &name, &kind, &man, &veh, &opacity, &height); err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		tile.Name = name.String
		tile.Kind = kind.String
		if man.Valid {
			tile.TraversableByMan = tileprops.Bool(man.Bool)
		}
		if veh.Valid {
			tile.TraversableByVehicle = tileprops.Bool(veh.Bool)
		}
		if opacity.Valid {
			tile.Opacity = tileprops.Float(opacity.Float64)
		}
		if height.Valid {
			tile.Height = tileprops.Float(height.Float64)
		}

		i, ok := index[tileset]
		if !ok {
			return nil, fmt.Errorf("tile %d references unknown tileset %q", tile.ID, tileset)
		}
		sets[i].Tiles = append(sets[i].Tiles, tile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tiles: %w", err)
	}
	return sets, nil
}

// SaveTileset replaces the stored copy of ts.
func (s *Source) SaveTileset(ctx context.Context, ts tileprops.RawTileset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save tileset %q: %w", ts.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO terrain_tilesets (name, image_ref) VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET image_ref = $2`, ts.Name, ts.ImageRef); err != nil {
		return fmt.Errorf("save tileset %q: %w", ts.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM terrain_tiles WHERE tileset = $1`, ts.Name); err != nil {
		return fmt.Errorf("save tileset %q: %w", ts.Name, err)
	}
	for _, t := range ts.Tiles {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO terrain_tiles (tileset, local_id, name, kind, traversable_by_man, traversable_by_vehicle, opacity, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ts.Name, t.ID, nullString(t.Name), nullString(t.Kind),
			nullBool(t.TraversableByMan), nullBool(t.TraversableByVehicle),
			nullFloat(t.Opacity), nullFloat(t.Height)); err != nil {
			return fmt.Errorf("save tileset %q tile %d: %w", ts.Name, t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save tileset %q: %w", ts.Name, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
