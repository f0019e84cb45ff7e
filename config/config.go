package config

// EngineConfig contains terrain engine defaults applied when a map is built
type EngineConfig struct {
	Connectivity int    // 4 or 8 neighbours reported per cell
	CostModel    string // "flat" or "height:<factor>"
	Marcher      string // "bresenham" or "supercover"
}

// LevelConfig contains map loading configuration
type LevelConfig struct {
	AssetsDir    string // Root directory handed to os.DirFS
	MapsDir      string // Directory of .tmx files inside AssetsDir
	TerrainLayer string // Tile layer holding terrain; first tile layer if missing
	CellSize     int    // World units per cell for collision spaces
	CacheApp     string // gdata application name for the snapshot cache, empty = disabled
	TablesDSN    string // PostgreSQL DSN of tile property tables overriding map tilesets, empty = disabled
}

// HarnessConfig contains the headless load harness configuration
type HarnessConfig struct {
	TickRate    int     // Ticks per second
	Ticks       int     // Stop after this many ticks, 0 = run until signalled
	Actors      int     // Actors spawned per map
	VehicleRate float64 // Share of actors spawned as vehicles
	Workers     int     // Concurrent query workers per tick
	SightBudget float64 // Opacity budget of every actor
	Seed        int64   // Spawn and goal RNG seed
	StatsEvery  int     // Log tick stats every N ticks
}

// PathfindingConfig contains route search limits
type PathfindingConfig struct {
	MaxRouteLength int // Routes longer than this many cells are discarded
	MaxGoalTries   int // Goals tried per actor per tick before idling
	IdleTicks      int // Ticks an actor waits after no goal was reachable
}

// Global configuration instances
var Engine EngineConfig
var Level LevelConfig
var Harness HarnessConfig
var Pathfinding PathfindingConfig

func init() {
	Engine = EngineConfig{
		Connectivity: 8,
		CostModel:    "flat",
		Marcher:      "bresenham",
	}

	Level = LevelConfig{
		AssetsDir:    "assets",
		MapsDir:      "maps",
		TerrainLayer: "terrain",
		CellSize:     8, // matches the shared terrain tileset tile size
		CacheApp:     "",
		TablesDSN:    "",
	}

	Harness = HarnessConfig{
		TickRate:    10,
		Ticks:       0,
		Actors:      200,
		VehicleRate: 0.2,
		Workers:     8,
		SightBudget: 1.0,
		Seed:        1,
		StatsEvery:  50,
	}

	Pathfinding = PathfindingConfig{
		MaxRouteLength: 512,
		MaxGoalTries:   3,
		IdleTicks:      10,
	}
}
