package core

import (
	"math"

	astar "github.com/beefsack/go-astar"

	"github.com/automoto/oc-terrain/shared/gridindex"
	"github.com/automoto/oc-terrain/shared/query"
)

// Router plans routes for one unit kind over a map's query engine. It holds
// no per-search state and may be shared between goroutines.
type Router struct {
	engine *query.Engine
	kind   gridindex.UnitKind
	maxLen int
}

// NewRouter creates a router. Routes longer than maxLen cells are
// discarded, 0 means no limit.
func NewRouter(engine *query.Engine, kind gridindex.UnitKind, maxLen int) *Router {
	return &Router{engine: engine, kind: kind, maxLen: maxLen}
}

// search holds the nodes of one A* run. go-astar keys its open and closed
// sets by Pather, so every cell must map to a single node.
type search struct {
	r     *Router
	nodes map[gridindex.Coord]*routeNode
}

func (s *search) node(c gridindex.Coord) *routeNode {
	n, ok := s.nodes[c]
	if !ok {
		n = &routeNode{c: c, s: s}
		s.nodes[c] = n
	}
	return n
}

// routeNode implements astar.Pather
type routeNode struct {
	c gridindex.Coord
	s *search
}

// PathNeighbors returns the adjacent cells the unit kind can enter.
func (n *routeNode) PathNeighbors() []astar.Pather {
	grid := n.s.r.engine.Grid()
	seq, err := grid.Neighbors(n.c.X, n.c.Y)
	if err != nil {
		return nil
	}
	var neighbors []astar.Pather
	for c, p := range seq {
		if gridindex.Traversable(p, n.s.r.kind) {
			neighbors = append(neighbors, n.s.node(c))
		}
	}
	return neighbors
}

// PathNeighborCost prices the step by the engine's cost model, relative to
// the height of the cell being left, scaled by the step length.
func (n *routeNode) PathNeighborCost(to astar.Pather) float64 {
	toNode := to.(*routeNode)
	from, err := n.s.r.engine.Grid().At(n.c)
	if err != nil {
		return math.Inf(1)
	}
	cost, err := n.s.r.engine.TraversalCost(toNode.c, n.s.r.kind, from.Height)
	if err != nil || cost.Blocked {
		return math.Inf(1)
	}
	return cost.Value * stepLength(n.c, toNode.c)
}

// PathEstimatedCost is the Euclidean distance. Every step costs at least
// its length, so the estimate never overshoots.
func (n *routeNode) PathEstimatedCost(to astar.Pather) float64 {
	return stepLength(n.c, to.(*routeNode).c)
}

func stepLength(a, b gridindex.Coord) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Route returns the cells from `from` (exclusive) to `to` (inclusive) and
// the route cost. ok is false when no route exists, either end is not
// enterable or the route is longer than the limit.
func (r *Router) Route(from, to gridindex.Coord) (route []gridindex.Coord, cost float64, ok bool) {
	grid := r.engine.Grid()
	start, err := grid.At(from)
	if err != nil || !gridindex.Traversable(start, r.kind) {
		return nil, 0, false
	}
	goal, err := grid.At(to)
	if err != nil || !gridindex.Traversable(goal, r.kind) {
		return nil, 0, false
	}
	if from == to {
		return nil, 0, true
	}

	s := &search{r: r, nodes: make(map[gridindex.Coord]*routeNode)}
	path, dist, found := astar.Path(s.node(from), s.node(to))
	if !found {
		return nil, 0, false
	}

	// go-astar returns the path goal first
	route = make([]gridindex.Coord, 0, len(path)-1)
	for i := len(path) - 2; i >= 0; i-- {
		route = append(route, path[i].(*routeNode).c)
	}
	if r.maxLen > 0 && len(route) > r.maxLen {
		return nil, 0, false
	}
	return route, dist, true
}
