package modes

import (
	"fmt"
	"math"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// Harmonograph draws a damped Lissajous figure whose x and y frequencies
// are two consecutive primes. The relative phase drifts with time.
type Harmonograph struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	a, b    int
	trail   int
	phase   float64
	isPrime []bool
}

// maxHarmonographBase bounds the base param. Stepping past it is refused so
// the stored base always passes Init.
const maxHarmonographBase = 10000

func NewHarmonograph(oracle *prime.Oracle) *Harmonograph {
	return &Harmonograph{
		oracle: oracle,
		params: scene.NewParamSet("harmonograph",
			scene.ParamSpec{Name: "base", Default: 2, Min: 0, Max: maxHarmonographBase, Integer: true},
			scene.ParamSpec{Name: "trail", Default: 1200, Min: 16, Max: 20000, Integer: true},
			scene.ParamSpec{Name: "decay", Default: 0.35, Min: 0, Max: 10},
			scene.ParamSpec{Name: "drift", Default: 0.3, Min: -10, Max: 10},
		),
	}
}

func (m *Harmonograph) ID() string                         { return "harmonograph" }
func (m *Harmonograph) Name() string                       { return "Harmonograph" }
func (m *Harmonograph) Params() map[string]float64         { return m.params.Params() }
func (m *Harmonograph) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Harmonograph) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	trail := m.params.Int("trail")
	if err := requireSieve(m.ID(), m.oracle, trail); err != nil {
		return err
	}
	if err := m.pickPair(m.params.Int("base")); err != nil {
		return err
	}

	m.trail = trail
	m.isPrime = make([]bool, trail+1)
	seq, err := m.oracle.PrimesInRange(0, trail)
	if err != nil {
		return err
	}
	for p := range seq {
		m.isPrime[p] = true
	}
	m.phase = 0
	return nil
}

// pickPair selects the first two primes above base-1, so a prime base is
// itself the first frequency.
func (m *Harmonograph) pickPair(base int) error {
	a, err := m.oracle.NextPrime(max(base-1, 0))
	if err != nil {
		return fmt.Errorf("%w: harmonograph base %d: %w", scene.ErrConfiguration, base, err)
	}
	b, err := m.oracle.NextPrime(a)
	if err != nil {
		return fmt.Errorf("%w: harmonograph base %d: %w", scene.ErrConfiguration, base, err)
	}
	m.a, m.b = a, b
	return nil
}

func (m *Harmonograph) Update(dt float64, gs *scene.GlobalState) error {
	m.phase = geom.WrapAngle(m.phase + m.params.Get("drift")*dt*gs.Params.Speed)
	return nil
}

// Sample returns the curve point at trail index s in [-1, 1]².
func (m *Harmonograph) Sample(s int) geom.Vec2 {
	tau := float64(s) / float64(m.trail) * 2 * math.Pi
	damp := math.Exp(-m.params.Get("decay") * float64(s) / float64(m.trail))
	return geom.Vec2{
		X: math.Sin(float64(m.a)*tau+m.phase) * damp,
		Y: math.Sin(float64(m.b)*tau) * damp,
	}
}

func (m *Harmonograph) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	if m.a == 0 {
		return nil
	}
	trail := m.trail
	c := center(gs)
	half := gs.MinDim() * 0.45 * gs.Params.Zoom
	toCanvas := func(p geom.Vec2) geom.Vec2 {
		return geom.Vec2{X: c.X + p.X*half, Y: c.Y - p.Y*half}
	}

	prev := toCanvas(m.Sample(0))
	for s := 1; s <= trail; s++ {
		cur := toCanvas(m.Sample(s))
		// Hue walks the full base-60 wheel along the trail.
		state := s * palette.Base / trail
		col := palette.ColorForState(state, m.isPrime[s], gs.Params.PrimeEmphasis)
		w := gs.Params.LineThickness
		if m.isPrime[s] {
			w *= 1 + gs.Params.PrimeEmphasis
		}
		r.Line(prev, cur, w, col)
		prev = cur
	}
	r.Text(geom.Vec2{X: 4, Y: 4}, fmt.Sprintf("%d:%d", m.a, m.b), 12, palette.White)
	return nil
}

// HandleInput steps to the next prime pair on "]" and back on "[".
func (m *Harmonograph) HandleInput(key string, gs *scene.GlobalState) bool {
	if m.a == 0 {
		return false
	}
	var base int
	switch key {
	case "]":
		base = m.b
	case "[":
		base = m.a - 1
		for base > 2 {
			if p, _ := m.oracle.IsPrime(base); p {
				break
			}
			base--
		}
	default:
		return false
	}
	if base > maxHarmonographBase {
		return false
	}
	prev := m.params.Get("base")
	if err := m.params.SetParam("base", float64(base)); err != nil {
		return false
	}
	if err := m.pickPair(base); err != nil {
		m.params.SetParam("base", prev)
		return false
	}
	return true
}

// Ratio returns the current pair of prime frequencies.
func (m *Harmonograph) Ratio() (int, int) { return m.a, m.b }
