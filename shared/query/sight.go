package query

import (
	"fmt"
	"math"
	"slices"

	"github.com/automoto/oc-terrain/shared/gridindex"
)

// Sight is the result of a line-of-sight query.
type Sight struct {
	Visible bool
	Opacity float64 // accumulated over every counted cell
}

// SightOptions tunes a line-of-sight query. Budget has no default: callers
// pass the sight range of the observing unit.
type SightOptions struct {
	Budget float64
	// SkipFirst and SkipLast leave the opacity of the first/last cells of
	// the walk from `from` out of the sum, e.g. an observer lying in high
	// grass, or a target that just revealed itself by firing.
	SkipFirst int
	SkipLast  int
}

// InvalidBudgetError rejects a negative or NaN visibility budget.
type InvalidBudgetError struct {
	Budget float64
}

func (e *InvalidBudgetError) Error() string {
	return fmt.Sprintf("invalid visibility budget %v", e.Budget)
}

// LineOfSight sums the opacity of every cell between the centers of from
// and to, both ends included. The target is visible while the sum stays
// within budget. The result is identical for (from, to) and (to, from).
func (e *Engine) LineOfSight(from, to gridindex.Coord, budget float64) (Sight, error) {
	return e.LineOfSightWith(from, to, SightOptions{Budget: budget})
}

// LineOfSightWith is LineOfSight with skip windows. Swapping from and to
// together with SkipFirst and SkipLast yields the same result.
func (e *Engine) LineOfSightWith(from, to gridindex.Coord, opts SightOptions) (Sight, error) {
	if math.IsNaN(opts.Budget) || opts.Budget < 0 {
		return Sight{}, &InvalidBudgetError{Budget: opts.Budget}
	}
	if opts.SkipFirst < 0 || opts.SkipLast < 0 {
		return Sight{}, fmt.Errorf("negative skip window %d/%d", opts.SkipFirst, opts.SkipLast)
	}

	cells, swapped, err := e.walk(from, to)
	if err != nil {
		return Sight{}, err
	}

	head, tail := opts.SkipFirst, opts.SkipLast
	if swapped {
		head, tail = tail, head
	}

	// Summed in canonical order only, so float rounding cannot differ
	// between the two directions.
	var sum float64
	for i := head; i < len(cells)-tail; i++ {
		tile, _ := e.grid.At(cells[i])
		sum += tile.Opacity
	}

	return Sight{Visible: sum <= opts.Budget, Opacity: sum}, nil
}

// Step is one cell of a traced sight ray.
type Step struct {
	At          gridindex.Coord
	Opacity     float64
	Accumulated float64
}

// Trace returns every cell of a sight ray from `from` to `to` with its own
// and the running opacity, for debug overlays.
func (e *Engine) Trace(from, to gridindex.Coord) ([]Step, error) {
	cells, swapped, err := e.walk(from, to)
	if err != nil {
		return nil, err
	}
	if swapped {
		slices.Reverse(cells)
	}

	steps := make([]Step, len(cells))
	var acc float64
	for i, c := range cells {
		tile, _ := e.grid.At(c)
		acc += tile.Opacity
		steps[i] = Step{At: c, Opacity: tile.Opacity, Accumulated: acc}
	}
	return steps, nil
}
