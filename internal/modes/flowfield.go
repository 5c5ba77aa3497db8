package modes

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// plastic is the real root of x³ = x + 1; its inverse powers give the R2
// low-discrepancy sequence used to scatter particles without an RNG.
const plastic = 1.32471795724474602596

// R2Point returns the k-th point of the R2 sequence in the unit square.
func R2Point(k int) geom.Vec2 {
	a1, a2 := 1/plastic, 1/(plastic*plastic)
	x := 0.5 + a1*float64(k)
	y := 0.5 + a2*float64(k)
	return geom.Vec2{X: x - math.Floor(x), Y: y - math.Floor(y)}
}

// Flowfield advects particles through a slowly evolving OpenSimplex noise
// field. Positions live in the unit square and wrap at its edges.
type Flowfield struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	noise opensimplex.Noise
	pos   []geom.Vec2
	prev  []geom.Vec2
	phase float64
}

func NewFlowfield(oracle *prime.Oracle) *Flowfield {
	return &Flowfield{
		oracle: oracle,
		params: scene.NewParamSet("flowfield",
			scene.ParamSpec{Name: "particles", Default: 600, Min: 1, Max: 20000, Integer: true},
			scene.ParamSpec{Name: "frequency", Default: 2.5, Min: 0.01, Max: 100},
			scene.ParamSpec{Name: "octaves", Default: 2, Min: 1, Max: 6, Integer: true},
			scene.ParamSpec{Name: "stepSize", Default: 0.12, Min: 0, Max: 10},
			scene.ParamSpec{Name: "evolve", Default: 0.15, Min: 0, Max: 10},
			scene.ParamSpec{Name: "seed", Default: 7, Min: 0, Max: 1 << 31, Integer: true},
		),
	}
}

func (m *Flowfield) ID() string                         { return "flowfield" }
func (m *Flowfield) Name() string                       { return "Flow Field" }
func (m *Flowfield) Params() map[string]float64         { return m.params.Params() }
func (m *Flowfield) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Flowfield) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	n := m.params.Int("particles")
	if err := requireSieve(m.ID(), m.oracle, n); err != nil {
		return err
	}
	m.noise = opensimplex.NewNormalized(int64(m.params.Int("seed")))
	m.pos = make([]geom.Vec2, n)
	m.prev = make([]geom.Vec2, n)
	for k := range m.pos {
		m.pos[k] = R2Point(k + 1)
		m.prev[k] = m.pos[k]
	}
	m.phase = 0
	return nil
}

// fieldAngle layers octaves of noise the way terrain generators do and
// maps the normalized result onto two full turns.
func (m *Flowfield) fieldAngle(x, y float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	freq := m.params.Get("frequency")
	for i := 0; i < m.params.Int("octaves"); i++ {
		total += m.noise.Eval3(x*freq, y*freq, m.phase) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		freq *= 2
	}
	return total / maxVal * 4 * math.Pi
}

func (m *Flowfield) Update(dt float64, gs *scene.GlobalState) error {
	if m.noise == nil {
		return nil
	}
	k := dt * gs.Params.Speed
	m.phase += m.params.Get("evolve") * k
	step := m.params.Get("stepSize") * k * (1 + gs.AudioLevel())
	for i, p := range m.pos {
		sin, cos := geom.DefaultTrigTable.SinCos(m.fieldAngle(p.X, p.Y))
		m.prev[i] = p
		m.pos[i] = geom.Vec2{X: wrap01(p.X + cos*step), Y: wrap01(p.Y + sin*step)}
	}
	return nil
}

func (m *Flowfield) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	side := gs.MinDim() * gs.Params.Zoom
	origin := center(gs).Sub(geom.Vec2{X: side / 2, Y: side / 2})
	toCanvas := func(p geom.Vec2) geom.Vec2 { return origin.Add(p.Scale(side)) }

	for i, p := range m.pos {
		idx := i + 1
		isP, err := m.oracle.IsPrime(idx)
		if err != nil {
			return err
		}
		col := palette.ColorForState(idx, isP, gs.Params.PrimeEmphasis)
		a, b := m.prev[i], p
		// A particle that wrapped this frame would draw a line across the field.
		if math.Abs(a.X-b.X) < 0.5 && math.Abs(a.Y-b.Y) < 0.5 {
			r.Line(toCanvas(a), toCanvas(b), gs.Params.LineThickness, col.WithAlpha(0.6))
		}
		r.Point(toCanvas(b), pointRadius(gs, isP), col)
	}
	return nil
}

// wrap01 reduces x into [0, 1). A tiny negative x rounds to exactly 1
// after subtracting its floor, so that case folds back to 0.
func wrap01(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		return 0
	}
	return x
}

// Positions returns a copy of the particle positions in the unit square.
func (m *Flowfield) Positions() []geom.Vec2 {
	return append([]geom.Vec2(nil), m.pos...)
}
