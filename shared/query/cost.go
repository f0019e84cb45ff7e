package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/automoto/oc-terrain/shared/gridindex"
	"github.com/automoto/oc-terrain/shared/tileprops"
)

// Cost is the price of entering a cell. Value is meaningless when Blocked.
type Cost struct {
	Value   float64
	Blocked bool
}

// CostModel turns a traversable tile into a movement cost. Implementations
// must be monotonically non-decreasing in |tile.Height - refElevation|.
type CostModel interface {
	Cost(tile tileprops.TileProperty, refElevation float64) float64
}

// Flat charges 1.0 for every traversable cell.
type Flat struct{}

func (Flat) Cost(tileprops.TileProperty, float64) float64 { return 1.0 }

func (Flat) String() string { return "flat" }

// HeightWeighted charges 1 + Factor*|height - ref|. A negative or non-finite
// Factor charges like Flat.
type HeightWeighted struct {
	Factor float64
}

func (h HeightWeighted) Cost(tile tileprops.TileProperty, refElevation float64) float64 {
	f := h.Factor
	if !(f > 0) || math.IsInf(f, 1) {
		f = 0
	}
	return 1.0 + f*math.Abs(tile.Height-refElevation)
}

func (h HeightWeighted) String() string {
	return "height:" + strconv.FormatFloat(h.Factor, 'g', -1, 64)
}

// ParseCostModel accepts "flat" or "height:<factor>" with factor >= 0.
func ParseCostModel(s string) (CostModel, error) {
	if s == "" || s == "flat" {
		return Flat{}, nil
	}
	rest, ok := strings.CutPrefix(s, "height:")
	if !ok {
		return nil, fmt.Errorf("unknown cost model %q", s)
	}
	f, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return nil, fmt.Errorf("cost model %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, fmt.Errorf("cost model %q: factor must be a finite value >= 0", s)
	}
	return HeightWeighted{Factor: f}, nil
}

// TraversalCost prices entering c for kind, relative to the caller's
// current elevation.
func (e *Engine) TraversalCost(c gridindex.Coord, kind gridindex.UnitKind, refElevation float64) (Cost, error) {
	tile, err := e.grid.At(c)
	if err != nil {
		return Cost{}, err
	}
	if !gridindex.Traversable(tile, kind) {
		return Cost{Blocked: true}, nil
	}
	return Cost{Value: e.cost.Cost(tile, refElevation)}, nil
}
