package gridindex

import (
	"fmt"

	"github.com/automoto/oc-terrain/shared/tileprops"
)

// DimensionMismatchError rejects a map whose cell count is not width*height.
type DimensionMismatchError struct {
	Width, Height int
	Cells         int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("grid %dx%d needs %d cells, got %d", e.Width, e.Height, e.Width*e.Height, e.Cells)
}

// OutOfBoundsError is returned for coordinates outside the grid.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) outside %dx%d grid", e.X, e.Y, e.Width, e.Height)
}

// CellError identifies the first cell whose tile ref failed to resolve.
type CellError struct {
	At  Coord
	Ref tileprops.TileRef
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %s: %v", e.At, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }
