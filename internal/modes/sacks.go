package modes

import (
	"math"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// Sacks plots n at polar (√n, 2π√n): perfect squares line up on the
// positive axis and primes gather on curved arms.
type Sacks struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	primes []int
	limit  int
	spin   float64
}

func NewSacks(oracle *prime.Oracle) *Sacks {
	return &Sacks{
		oracle: oracle,
		params: scene.NewParamSet("sacks",
			scene.ParamSpec{Name: "limit", Default: 6000, Min: 2, Max: 1 << 16, Integer: true},
			scene.ParamSpec{Name: "spinRate", Default: 0.05, Min: -10, Max: 10},
			scene.ParamSpec{Name: "showSquares", Default: 1, Min: 0, Max: 1, Integer: true},
		),
	}
}

func (m *Sacks) ID() string                         { return "sacks" }
func (m *Sacks) Name() string                       { return "Sacks Spiral" }
func (m *Sacks) Params() map[string]float64         { return m.params.Params() }
func (m *Sacks) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Sacks) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	limit := m.params.Int("limit")
	if err := requireSieve(m.ID(), m.oracle, limit); err != nil {
		return err
	}
	seq, err := m.oracle.PrimesInRange(2, limit)
	if err != nil {
		return err
	}
	m.limit = limit
	m.primes = m.primes[:0]
	for p := range seq {
		m.primes = append(m.primes, p)
	}
	m.spin = 0
	return nil
}

func (m *Sacks) Update(dt float64, gs *scene.GlobalState) error {
	m.spin = geom.WrapAngle(m.spin + m.params.Get("spinRate")*dt*gs.Params.Speed)
	return nil
}

func (m *Sacks) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	limit := m.limit
	if len(m.primes) == 0 {
		return nil
	}
	c := center(gs)
	unit := gs.MinDim() / 2 / math.Sqrt(float64(limit)) * gs.Params.Zoom

	if m.params.Bool("showSquares") {
		for k := 1; k*k <= limit; k++ {
			pos := c.Add(geom.PolarToCartesian(unit*float64(k), m.spin))
			r.Point(pos, gs.Params.LineThickness/2, palette.ColorForState(k*k, false, 0).WithAlpha(0.6))
		}
	}

	for _, p := range m.primes {
		s := math.Sqrt(float64(p))
		pos := c.Add(geom.PolarToCartesian(unit*s, 2*math.Pi*s+m.spin))
		r.Point(pos, pointRadius(gs, true), palette.ColorForState(p, true, gs.Params.PrimeEmphasis))
	}
	return nil
}

func (m *Sacks) PrimeCount() int { return len(m.primes) }
