package modes

import (
	"math"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// SpiralCoords returns the Ulam square-spiral cell of 1..n. Index 0 is
// unused; 1 sits at the origin and the walk goes right, up, left, down
// with run lengths 1, 1, 2, 2, 3, 3, ... Y grows downward on the canvas,
// so "up" is -1.
func SpiralCoords(n int) [][2]int {
	coords := make([][2]int, n+1)
	if n < 1 {
		return coords
	}
	dirs := [4][2]int{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}
	x, y, k := 0, 0, 1
	coords[1] = [2]int{0, 0}
	for run, d := 1, 0; k < n; d++ {
		for s := 0; s < run && k < n; s++ {
			x += dirs[d%4][0]
			y += dirs[d%4][1]
			k++
			coords[k] = [2]int{x, y}
		}
		if d%2 == 1 {
			run++
		}
	}
	return coords
}

// Ulam reveals the integers along a square spiral, filling the primes.
type Ulam struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	coords   [][2]int
	side     int
	revealed float64
}

func NewUlam(oracle *prime.Oracle) *Ulam {
	return &Ulam{
		oracle: oracle,
		params: scene.NewParamSet("ulam",
			scene.ParamSpec{Name: "limit", Default: 3600, Min: 1, Max: 1 << 16, Integer: true},
			scene.ParamSpec{Name: "revealRate", Default: 240, Min: 0, Max: 1e6},
			scene.ParamSpec{Name: "showComposites", Default: 0, Min: 0, Max: 1, Integer: true},
		),
	}
}

func (m *Ulam) ID() string                         { return "ulam" }
func (m *Ulam) Name() string                       { return "Ulam Spiral" }
func (m *Ulam) Params() map[string]float64         { return m.params.Params() }
func (m *Ulam) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Ulam) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	limit := m.params.Int("limit")
	if err := requireSieve(m.ID(), m.oracle, limit); err != nil {
		return err
	}
	m.coords = SpiralCoords(limit)
	m.side = int(math.Ceil(math.Sqrt(float64(limit))))
	m.revealed = 1
	return nil
}

func (m *Ulam) Update(dt float64, gs *scene.GlobalState) error {
	limit := float64(len(m.coords) - 1)
	m.revealed += m.params.Get("revealRate") * dt * gs.Params.Speed
	if m.revealed > limit {
		// Start the walk over once the square is full.
		m.revealed = 1 + math.Mod(m.revealed-1, limit)
	}
	return nil
}

func (m *Ulam) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	if m.side == 0 {
		return nil
	}
	cell := gs.MinDim() / float64(m.side+1) * gs.Params.Zoom
	c := center(gs)
	origin := c.Sub(geom.Vec2{X: cell / 2, Y: cell / 2})
	showComposites := m.params.Bool("showComposites")

	n := min(int(m.revealed), len(m.coords)-1)
	for k := 1; k <= n; k++ {
		p, err := m.oracle.IsPrime(k)
		if err != nil {
			return err
		}
		if !p && !showComposites {
			continue
		}
		at := geom.GridToCanvas(m.coords[k][0], m.coords[k][1], cell, origin)
		col := palette.ColorForState(k, p, gs.Params.PrimeEmphasis)
		if p {
			r.FillRect(geom.Rect{Min: at, W: cell, H: cell}, col)
		} else {
			r.Point(at.Add(geom.Vec2{X: cell / 2, Y: cell / 2}), cell/6, col.WithAlpha(0.5))
		}
	}
	return nil
}

func (m *Ulam) Revealed() int { return int(m.revealed) }
