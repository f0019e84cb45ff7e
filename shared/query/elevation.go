package query

import (
	"github.com/automoto/oc-terrain/shared/gridindex"
)

// ElevationDelta returns height(b) - height(a). Positive means b is above a.
func (e *Engine) ElevationDelta(a, b gridindex.Coord) (float64, error) {
	ta, err := e.grid.At(a)
	if err != nil {
		return 0, err
	}
	tb, err := e.grid.At(b)
	if err != nil {
		return 0, err
	}
	return tb.Height - ta.Height, nil
}
