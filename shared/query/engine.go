// Package query answers movement, visibility and elevation questions over an
// immutable grid. An Engine holds no mutable state; it may be shared by any
// number of goroutines for the lifetime of its grid.
package query

import (
	"github.com/automoto/oc-terrain/shared/gridindex"
)

// Engine runs queries against one grid.
type Engine struct {
	grid    *gridindex.Grid
	cost    CostModel
	marcher Marcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithCostModel sets the traversal cost strategy. Default Flat.
func WithCostModel(m CostModel) Option {
	return func(e *Engine) {
		if m != nil {
			e.cost = m
		}
	}
}

// WithMarcher sets the line-of-sight cell walk. Default Bresenham.
func WithMarcher(m Marcher) Option {
	return func(e *Engine) {
		e.marcher = m
	}
}

// New creates an Engine over grid.
func New(grid *gridindex.Grid, opts ...Option) *Engine {
	e := &Engine{
		grid:    grid,
		cost:    Flat{},
		marcher: Bresenham,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Grid() *gridindex.Grid { return e.grid }

func (e *Engine) CostModel() CostModel { return e.cost }

func (e *Engine) Marcher() Marcher { return e.marcher }
