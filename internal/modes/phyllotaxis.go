package modes

import (
	"math"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// Phyllotaxis places seed k at radius √k and angle k·GoldenAngle, the
// sunflower arrangement, and spins the whole head over time.
type Phyllotaxis struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	radius []float64
	theta  []float64
	spin   float64
}

func NewPhyllotaxis(oracle *prime.Oracle) *Phyllotaxis {
	return &Phyllotaxis{
		oracle: oracle,
		params: scene.NewParamSet("phyllotaxis",
			scene.ParamSpec{Name: "count", Default: 900, Min: 1, Max: 20000, Integer: true},
			scene.ParamSpec{Name: "spread", Default: 1, Min: 0.1, Max: 10},
			scene.ParamSpec{Name: "spinRate", Default: 0.1, Min: -10, Max: 10},
		),
	}
}

func (m *Phyllotaxis) ID() string                         { return "phyllotaxis" }
func (m *Phyllotaxis) Name() string                       { return "Phyllotaxis" }
func (m *Phyllotaxis) Params() map[string]float64         { return m.params.Params() }
func (m *Phyllotaxis) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Phyllotaxis) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	n := m.params.Int("count")
	if err := requireSieve(m.ID(), m.oracle, n); err != nil {
		return err
	}
	m.radius = make([]float64, n+1)
	m.theta = make([]float64, n+1)
	for k := 1; k <= n; k++ {
		m.radius[k] = math.Sqrt(float64(k))
		m.theta[k] = float64(k) * GoldenAngle
	}
	m.spin = 0
	return nil
}

func (m *Phyllotaxis) Update(dt float64, gs *scene.GlobalState) error {
	m.spin = geom.WrapAngle(m.spin + m.params.Get("spinRate")*dt*gs.Params.Speed)
	return nil
}

func (m *Phyllotaxis) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	n := len(m.radius) - 1
	if n < 1 {
		return nil
	}
	c := center(gs)
	unit := gs.MinDim() / 2 / math.Sqrt(float64(n)) * m.params.Get("spread") * gs.Params.Zoom

	for k := 1; k <= n; k++ {
		p, err := m.oracle.IsPrime(k)
		if err != nil {
			return err
		}
		pos := c.Add(geom.DefaultTrigTable.Polar(unit*m.radius[k], m.theta[k]+m.spin))
		r.Point(pos, pointRadius(gs, p), palette.ColorForState(k, p, gs.Params.PrimeEmphasis))
	}
	return nil
}

func (m *Phyllotaxis) Spin() float64 { return m.spin }
