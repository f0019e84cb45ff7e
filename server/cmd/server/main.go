package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/oc-terrain/config"
	"github.com/automoto/oc-terrain/server/core"
	"github.com/automoto/oc-terrain/shared/leveldata"
	"github.com/automoto/oc-terrain/shared/mapstate"
	"github.com/automoto/oc-terrain/shared/pgtables"
	"github.com/automoto/oc-terrain/shared/snapshot"
)

func main() {
	assets := flag.String("assets", config.Level.AssetsDir, "Assets directory")
	mapName := flag.String("map", "", "Map to load from the maps directory (empty = first by name)")
	layer := flag.String("layer", config.Level.TerrainLayer, "Terrain tile layer name")
	tickRate := flag.Int("tickrate", config.Harness.TickRate, "Simulation tick rate (ticks per second)")
	ticks := flag.Int("ticks", config.Harness.Ticks, "Stop after this many ticks (0 = run until signalled)")
	actors := flag.Int("actors", config.Harness.Actors, "Actors to spawn")
	workers := flag.Int("workers", config.Harness.Workers, "Concurrent query workers per tick")
	budget := flag.Float64("budget", config.Harness.SightBudget, "Opacity budget of every actor")
	cost := flag.String("cost", config.Engine.CostModel, `Cost model ("flat" or "height:<factor>")`)
	connectivity := flag.Int("connectivity", config.Engine.Connectivity, "Neighbour connectivity (4 or 8)")
	marcher := flag.String("marcher", config.Engine.Marcher, `Line marcher ("bresenham" or "supercover")`)
	seed := flag.Int64("seed", config.Harness.Seed, "Spawn and goal RNG seed")
	cacheApp := flag.String("cache", config.Level.CacheApp, "Snapshot cache application name (empty = disabled)")
	tablesDSN := flag.String("tables", config.Level.TablesDSN, "PostgreSQL DSN of tile property tables (empty = use map tilesets)")
	flag.Parse()

	config.Engine.CostModel = *cost
	config.Engine.Connectivity = *connectivity
	config.Engine.Marcher = *marcher
	engineOpts, err := mapstate.OptionsFromConfig(config.Engine)
	if err != nil {
		log.Fatalf("Invalid engine options: %v", err)
	}

	fsys := os.DirFS(*assets)
	name := *mapName
	if name == "" {
		names, err := leveldata.MapNames(fsys, config.Level.MapsDir)
		if err != nil {
			log.Fatalf("Failed to list maps: %v", err)
		}
		name = names[0]
	}

	var cache *snapshot.Cache
	if *cacheApp != "" {
		cache, err = snapshot.OpenCache(*cacheApp)
		if err != nil {
			log.Printf("Warning: running without snapshot cache: %v", err)
		}
	}

	levelOpts := core.LevelOptions{
		MapsDir:  config.Level.MapsDir,
		Layer:    *layer,
		CellSize: config.Level.CellSize,
		Engine:   engineOpts,
		Cache:    cache,
	}
	if *tablesDSN != "" {
		tables, err := pgtables.Open(context.Background(), *tablesDSN)
		if err != nil {
			log.Fatalf("Failed to open property tables: %v", err)
		}
		defer tables.Close()
		levelOpts.Tables = tables
	}

	level, err := core.NewLevel(fsys, name, levelOpts)
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}

	sim := core.NewSim(level, core.SimOptions{
		Workers:        *workers,
		SightBudget:    *budget,
		VehicleRate:    config.Harness.VehicleRate,
		Seed:           *seed,
		MaxRouteLength: config.Pathfinding.MaxRouteLength,
		MaxGoalTries:   config.Pathfinding.MaxGoalTries,
		IdleTicks:      config.Pathfinding.IdleTicks,
	})
	placed := sim.Spawn(*actors)
	if placed < *actors {
		log.Printf("Warning: only %d of %d actors found a free cell", placed, *actors)
	}

	loop := core.NewGameLoop(sim, *tickRate, *ticks, config.Harness.StatsEvery)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				if _, err := level.Reload(); err != nil {
					log.Printf("Reload failed, keeping generation %d: %v", level.Generation(), err)
				}
				continue
			}
			log.Println("Shutting down...")
			loop.Stop()
			return
		}
	}()

	log.Printf("Starting terrain harness on map %q (tick rate: %d/s, workers: %d, cost: %s, marcher: %s)",
		name, *tickRate, *workers, *cost, *marcher)
	if err := loop.Run(); err != nil {
		log.Fatalf("Simulation error: %v", err)
	}
	last := loop.Last()
	log.Printf("Last %v", last)
}
