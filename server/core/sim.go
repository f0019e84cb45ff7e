package core

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"golang.org/x/sync/errgroup"

	"github.com/automoto/oc-terrain/components"
	"github.com/automoto/oc-terrain/shared/gridindex"
	"github.com/automoto/oc-terrain/tags"
)

// SimOptions configures a simulation.
type SimOptions struct {
	Workers        int
	SightBudget    float64
	VehicleRate    float64
	Seed           int64
	MaxRouteLength int
	MaxGoalTries   int
	IdleTicks      int
}

// TickStats summarizes one tick.
type TickStats struct {
	Tick        uint64
	Generation  uint64
	Actors      int
	Moved       int
	Routed      int
	Replanned   int
	Relocated   int
	SightChecks int
	Visible     int
	Duration    time.Duration
}

func (s TickStats) String() string {
	return fmt.Sprintf("tick %d gen %d: %d actors, %d moved, %d routed, %d replanned, %d relocated, %d/%d visible, %v",
		s.Tick, s.Generation, s.Actors, s.Moved, s.Routed, s.Replanned, s.Relocated, s.Visible, s.SightChecks, s.Duration)
}

// Sim moves actors over a level and keeps their sight up to date. Tick is
// not safe for concurrent use; the queries it fans out are.
type Sim struct {
	world  donburi.World
	level  *Level
	opts   SimOptions
	rng    *rand.Rand
	actors []donburi.Entity
	tick   uint64
}

// NewSim creates a simulation with no actors.
func NewSim(level *Level, opts SimOptions) *Sim {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxGoalTries <= 0 {
		opts.MaxGoalTries = 1
	}
	return &Sim{
		world: donburi.NewWorld(),
		level: level,
		opts:  opts,
		rng:   rand.New(rand.NewPCG(uint64(opts.Seed), 0)),
	}
}

// World returns the actor world.
func (s *Sim) World() donburi.World { return s.world }

// Actors returns the number of spawned actors.
func (s *Sim) Actors() int { return len(s.actors) }

// Spawn places n actors on free cells their unit kind can enter and returns
// how many were placed.
func (s *Sim) Spawn(n int) int {
	t := s.level.Terrain()
	grid := t.Map.Grid
	occupied := make(map[gridindex.Coord]bool, len(s.actors)+n)
	for _, e := range s.actors {
		occupied[components.Position.Get(s.world.Entry(e)).Cell] = true
	}

	placed := 0
	for i := 0; i < n; i++ {
		kind := gridindex.Man
		if s.rng.Float64() < s.opts.VehicleRate {
			kind = gridindex.Vehicle
		}

		var cell gridindex.Coord
		found := false
		for try := 0; try < grid.Cells(); try++ {
			c := gridindex.Coord{X: s.rng.IntN(grid.Width()), Y: s.rng.IntN(grid.Height())}
			if !occupied[c] && cellFree(t, c, kind) {
				cell, found = c, true
				break
			}
		}
		if !found {
			continue
		}
		occupied[cell] = true

		kindTag := tags.Man
		if kind == gridindex.Vehicle {
			kindTag = tags.Vehicle
		}
		entity := s.world.Create(tags.Actor, kindTag, components.Position, components.Mobility, components.Sight)
		entry := s.world.Entry(entity)
		p, _ := grid.At(cell)
		components.Position.Set(entry, &components.PositionData{Cell: cell})
		components.Mobility.Set(entry, &components.MobilityData{Kind: kind, Elevation: p.Height})
		components.Sight.Set(entry, &components.SightData{Budget: s.opts.SightBudget, Nearest: -1})
		s.actors = append(s.actors, entity)
		placed++
	}
	return placed
}

// cellFree checks c against the blocking space of kind with a temporary
// object inset inside the cell.
func cellFree(t *Terrain, c gridindex.Coord, kind gridindex.UnitKind) bool {
	space := t.Space(kind)
	cs := float64(t.CellSize)
	inset := cs / 4
	sample := resolv.NewObject(float64(c.X)*cs+inset, float64(c.Y)*cs+inset, cs-2*inset, cs-2*inset, tags.ResolvSample)
	space.Add(sample)
	blocked := sample.Check(0, 0, blockedTag(kind)) != nil
	space.Remove(sample)
	return !blocked
}

// nearestFree returns the free cell closest to c, ties going to the first in
// row-major order.
func nearestFree(t *Terrain, c gridindex.Coord, kind gridindex.UnitKind) (gridindex.Coord, bool) {
	grid := t.Map.Grid
	best, found := gridindex.Coord{}, false
	bestDist := math.Inf(1)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			cand := gridindex.Coord{X: x, Y: y}
			if d := stepLength(c, cand); d < bestDist && cellFree(t, cand, kind) {
				best, bestDist, found = cand, d, true
			}
		}
	}
	return best, found
}

func blockedTag(kind gridindex.UnitKind) string {
	if kind == gridindex.Vehicle {
		return tags.ResolvBlockedVehicle
	}
	return tags.ResolvBlockedMan
}

// actorState is the per-tick copy of an actor the workers read.
type actorState struct {
	cell     gridindex.Coord
	mobility components.MobilityData
	budget   float64
}

// actorResult is what a worker computed for one actor.
type actorResult struct {
	mobility     components.MobilityData
	next         gridindex.Coord
	moved        bool
	routed       bool
	replanned    bool
	checks       int
	visible      int
	nearest      int
	nearestDelta float64
}

// Tick advances every actor by one step. Actor state is read once, the
// per-actor work runs on up to Workers goroutines against one terrain
// snapshot, and the results are written back in actor order.
func (s *Sim) Tick(ctx context.Context) (TickStats, error) {
	start := time.Now()
	s.tick++
	t := s.level.Terrain()

	grid := t.Map.Grid
	relocated := 0
	states := make([]actorState, len(s.actors))
	for i, e := range s.actors {
		entry := s.world.Entry(e)
		st := actorState{
			cell:     components.Position.Get(entry).Cell,
			mobility: *components.Mobility.Get(entry),
			budget:   components.Sight.Get(entry).Budget,
		}
		// a reload may have shrunk the map or raised a wall under the actor
		if !grid.InBounds(st.cell.X, st.cell.Y) {
			st.cell = gridindex.Coord{X: clampInt(st.cell.X, 0, grid.Width()-1), Y: clampInt(st.cell.Y, 0, grid.Height()-1)}
			st.mobility.Route = nil
		}
		if p, _ := grid.At(st.cell); !gridindex.Traversable(p, st.mobility.Kind) {
			if c, ok := nearestFree(t, st.cell, st.mobility.Kind); ok {
				st.cell = c
				p, _ = grid.At(c)
				st.mobility.Elevation = p.Height
				relocated++
			}
			st.mobility.Route = nil
		}
		states[i] = st
	}

	routers := map[gridindex.UnitKind]*Router{
		gridindex.Man:     NewRouter(t.Map.Engine, gridindex.Man, s.opts.MaxRouteLength),
		gridindex.Vehicle: NewRouter(t.Map.Engine, gridindex.Vehicle, s.opts.MaxRouteLength),
	}

	results := make([]actorResult, len(states))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := range states {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.step(t, routers, states, i)
			if err != nil {
				return fmt.Errorf("actor %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TickStats{}, err
	}

	stats := TickStats{Tick: s.tick, Generation: t.Map.Generation, Actors: len(s.actors), Relocated: relocated}
	for i, e := range s.actors {
		r := results[i]
		entry := s.world.Entry(e)
		components.Position.Set(entry, &components.PositionData{Cell: r.next})
		mob := r.mobility
		components.Mobility.Set(entry, &mob)
		sight := components.Sight.Get(entry)
		sight.Visible = r.visible
		sight.Nearest = r.nearest
		sight.NearestDelta = r.nearestDelta

		stats.SightChecks += r.checks
		stats.Visible += r.visible
		if r.moved {
			stats.Moved++
		}
		if r.routed {
			stats.Routed++
		}
		if r.replanned {
			stats.Replanned++
		}
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// step computes the next state of actor i. It only reads shared state.
func (s *Sim) step(t *Terrain, routers map[gridindex.UnitKind]*Router, states []actorState, i int) (actorResult, error) {
	engine := t.Map.Engine
	st := states[i]
	res := actorResult{mobility: st.mobility, next: st.cell, nearest: -1}
	mob := &res.mobility

	// routes planned on an older map may cross cells that changed
	if mob.Generation != t.Map.Generation && len(mob.Route) > 0 {
		mob.Route = nil
		res.replanned = true
	}

	if len(mob.Route) == 0 {
		if mob.Idle > 0 {
			mob.Idle--
		} else {
			rng := rand.New(rand.NewPCG(uint64(s.opts.Seed)^s.tick, uint64(i)))
			router := routers[mob.Kind]
			grid := engine.Grid()
			for try := 0; try < s.opts.MaxGoalTries; try++ {
				goal := gridindex.Coord{X: rng.IntN(grid.Width()), Y: rng.IntN(grid.Height())}
				if route, _, ok := router.Route(st.cell, goal); ok && len(route) > 0 {
					mob.Route = route
					mob.Goal = goal
					mob.Generation = t.Map.Generation
					res.routed = true
					break
				}
			}
			if !res.routed {
				mob.Idle = s.opts.IdleTicks
			}
		}
	}

	if len(mob.Route) > 0 {
		next := mob.Route[0]
		cost, err := engine.TraversalCost(next, mob.Kind, mob.Elevation)
		if err != nil {
			return actorResult{}, err
		}
		if cost.Blocked {
			mob.Route = nil
		} else {
			mob.Route = mob.Route[1:]
			res.next = next
			res.moved = true
			p, err := engine.Grid().At(next)
			if err != nil {
				return actorResult{}, err
			}
			mob.Elevation = p.Height
		}
	}

	// sight is taken from where the actor stood at the start of the tick
	bestDist := math.Inf(1)
	for j, other := range states {
		if j == i {
			continue
		}
		sight, err := engine.LineOfSight(st.cell, other.cell, st.budget)
		if err != nil {
			return actorResult{}, err
		}
		res.checks++
		if !sight.Visible {
			continue
		}
		res.visible++
		if d := stepLength(st.cell, other.cell); d < bestDist {
			bestDist = d
			res.nearest = j
		}
	}
	if res.nearest >= 0 {
		delta, err := engine.ElevationDelta(st.cell, states[res.nearest].cell)
		if err != nil {
			return actorResult{}, err
		}
		res.nearestDelta = delta
	}
	return res, nil
}

func clampInt(v, minVal, maxVal int) int {
	return max(minVal, min(maxVal, v))
}
