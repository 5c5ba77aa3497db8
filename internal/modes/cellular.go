package modes

import (
	"fmt"
	"sync"

	"github.com/san-kum/primeviz/internal/compute"
	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// maxNeighborSum is the largest Moore-neighborhood sum of base-60 cells.
const maxNeighborSum = 8 * (palette.Base - 1)

// rows per goroutine before a step is split across workers
const cellularMinRows = 16

// SeedFunc returns the initial value of the cell at row i, column j. It
// must be deterministic; the result is reduced with Mod60.
type SeedFunc func(i, j, width, height int) int

// LinearSeed numbers cells in row-major order: Mod60(i*width + j).
func LinearSeed(i, j, width, _ int) int {
	return i*width + j
}

// Cellular is a base-60 automaton on a torus. Each step a cell moves up
// one state when its Moore-neighborhood sum is prime and down one
// otherwise, with an extra +1 when enough neighbors hold prime values.
// Steps are synchronous: the grid is double-buffered and swapped only
// after every cell has been computed from the previous snapshot.
type Cellular struct {
	oracle *prime.Oracle
	params *scene.ParamSet
	seed   SeedFunc

	w, h       int
	cur, nxt   []int
	generation int
}

func NewCellular(oracle *prime.Oracle) *Cellular {
	return &Cellular{
		oracle: oracle,
		seed:   LinearSeed,
		params: scene.NewParamSet("cellular",
			scene.ParamSpec{Name: "width", Default: 64, Min: 1, Max: 1024, Integer: true},
			scene.ParamSpec{Name: "height", Default: 40, Min: 1, Max: 1024, Integer: true},
			scene.ParamSpec{Name: "stepsPerFrame", Default: 1, Min: 1, Max: 64, Integer: true},
			scene.ParamSpec{Name: "primeNeighborThreshold", Default: 3, Min: 0, Max: 9, Integer: true},
		),
	}
}

// WithSeed replaces the seeding function used by Init.
func (c *Cellular) WithSeed(fn SeedFunc) *Cellular {
	c.seed = fn
	return c
}

func (c *Cellular) ID() string                         { return "cellular" }
func (c *Cellular) Name() string                       { return "Prime Automaton" }
func (c *Cellular) Params() map[string]float64         { return c.params.Params() }
func (c *Cellular) SetParam(n string, v float64) error { return c.params.SetParam(n, v) }

func (c *Cellular) Init(gs *scene.GlobalState) error {
	if err := c.params.Validate(); err != nil {
		return err
	}
	if c.oracle == nil || c.oracle.Max() < maxNeighborSum {
		return fmt.Errorf("%w: cellular needs a sieve of at least %d", scene.ErrConfiguration, maxNeighborSum)
	}
	if c.seed == nil {
		return fmt.Errorf("%w: cellular has no seed function", scene.ErrConfiguration)
	}

	c.w, c.h = c.params.Int("width"), c.params.Int("height")
	c.cur = make([]int, c.w*c.h)
	c.nxt = make([]int, c.w*c.h)
	for i := 0; i < c.h; i++ {
		for j := 0; j < c.w; j++ {
			c.cur[i*c.w+j] = palette.Mod60(c.seed(i, j, c.w, c.h))
		}
	}
	c.generation = 0
	return nil
}

func (c *Cellular) Update(dt float64, gs *scene.GlobalState) error {
	for s := 0; s < c.params.Int("stepsPerFrame"); s++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the grid by one synchronous generation.
func (c *Cellular) Step() error {
	if c.cur == nil {
		return fmt.Errorf("%w: cellular stepped before init", scene.ErrConfiguration)
	}
	threshold := c.params.Int("primeNeighborThreshold")

	var (
		mu       sync.Mutex
		firstErr error
	)
	compute.ParallelFor(c.h, cellularMinRows, func(start, end int) {
		if err := c.stepRows(start, end, threshold); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	if firstErr != nil {
		return firstErr
	}

	c.cur, c.nxt = c.nxt, c.cur
	c.generation++
	return nil
}

func (c *Cellular) stepRows(start, end, threshold int) error {
	w, h := c.w, c.h
	for i := start; i < end; i++ {
		for j := 0; j < w; j++ {
			sum, primeNeighbors := 0, 0
			for di := -1; di <= 1; di++ {
				for dj := -1; dj <= 1; dj++ {
					if di == 0 && dj == 0 {
						continue
					}
					v := c.cur[((i+di+h)%h)*w+(j+dj+w)%w]
					sum += v
					p, err := c.oracle.IsPrime(v)
					if err != nil {
						return err
					}
					if p {
						primeNeighbors++
					}
				}
			}

			next := c.cur[i*w+j]
			sumPrime, err := c.oracle.IsPrime(sum)
			if err != nil {
				return err
			}
			if sumPrime {
				next++
			} else {
				next--
			}
			if primeNeighbors >= threshold {
				next++
			}
			c.nxt[i*w+j] = palette.Mod60(next)
		}
	}
	return nil
}

func (c *Cellular) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	if c.cur == nil {
		return nil
	}
	cell := min(float64(gs.Width())/float64(c.w), float64(gs.Height())/float64(c.h)) * gs.Params.Zoom
	origin := geom.Vec2{
		X: (float64(gs.Width()) - cell*float64(c.w)) / 2,
		Y: (float64(gs.Height()) - cell*float64(c.h)) / 2,
	}

	// Only cells intersecting the viewport are emitted.
	i0, j0 := geom.CanvasToGrid(geom.Vec2{}, cell, origin)
	i1, j1 := geom.CanvasToGrid(geom.Vec2{X: float64(gs.Width()), Y: float64(gs.Height())}, cell, origin)
	colLo, colHi := max(i0, 0), min(i1, c.w-1)
	rowLo, rowHi := max(j0, 0), min(j1, c.h-1)

	for row := rowLo; row <= rowHi; row++ {
		for col := colLo; col <= colHi; col++ {
			v := c.cur[row*c.w+col]
			p, err := c.oracle.IsPrime(v)
			if err != nil {
				return err
			}
			r.FillRect(geom.Rect{Min: geom.GridToCanvas(col, row, cell, origin), W: cell, H: cell},
				palette.ColorForState(v, p, gs.Params.PrimeEmphasis))
		}
	}
	return nil
}

// HandleInput steps once on "s", useful while the engine is paused.
func (c *Cellular) HandleInput(key string, gs *scene.GlobalState) bool {
	if key != "s" || c.cur == nil {
		return false
	}
	return c.Step() == nil
}

func (c *Cellular) Stats() map[string]float64 {
	primes := 0
	for _, v := range c.cur {
		if p, _ := c.oracle.IsPrime(v); p {
			primes++
		}
	}
	frac := 0.0
	if len(c.cur) > 0 {
		frac = float64(primes) / float64(len(c.cur))
	}
	return map[string]float64{
		"generation":  float64(c.generation),
		"prime_cells": frac,
	}
}

// Grid returns a copy of the current cells as rows.
func (c *Cellular) Grid() [][]int {
	out := make([][]int, c.h)
	for i := range out {
		out[i] = append([]int(nil), c.cur[i*c.w:(i+1)*c.w]...)
	}
	return out
}

func (c *Cellular) Generation() int { return c.generation }
