package core

import (
	"context"
	"log"
	"sync"
	"time"
)

type GameLoop struct {
	sim        *Sim
	tickRate   int
	maxTicks   int
	statsEvery int
	stopChan   chan struct{}
	stopOnce   sync.Once

	mu   sync.Mutex
	last TickStats
}

// NewGameLoop ticks sim tickRate times per second. maxTicks 0 runs until
// Stop; stats are logged every statsEvery ticks, 0 disables logging.
func NewGameLoop(sim *Sim, tickRate, maxTicks, statsEvery int) *GameLoop {
	if tickRate <= 0 {
		tickRate = 1
	}
	return &GameLoop{
		sim:        sim,
		tickRate:   tickRate,
		maxTicks:   maxTicks,
		statsEvery: statsEvery,
		stopChan:   make(chan struct{}),
	}
}

// Run blocks until Stop, maxTicks or a tick error.
func (g *GameLoop) Run() error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-g.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Printf("Game loop started at %d ticks/second with %d actors", g.tickRate, g.sim.Actors())

	for ticks := 0; g.maxTicks == 0 || ticks < g.maxTicks; ticks++ {
		select {
		case <-g.stopChan:
			log.Println("Game loop stopped")
			return nil
		case <-ticker.C:
			if err := g.tick(ctx); err != nil {
				select {
				case <-g.stopChan:
					log.Println("Game loop stopped")
					return nil
				default:
				}
				return err
			}
		}
	}
	log.Printf("Game loop finished after %d ticks", g.maxTicks)
	return nil
}

func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

// Last returns the stats of the most recent tick.
func (g *GameLoop) Last() TickStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func (g *GameLoop) tick(ctx context.Context) error {
	stats, err := g.sim.Tick(ctx)
	if err != nil {
		log.Printf("Tick error: %v", err)
		return err
	}

	g.mu.Lock()
	g.last = stats
	g.mu.Unlock()

	if g.statsEvery > 0 && stats.Tick%uint64(g.statsEvery) == 0 {
		log.Printf("%v", stats)
	}
	return nil
}
