package modes

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// Sexagesimal is a base-60 clock. Each ring has 60 ticks and shows one
// base-60 digit of the elapsed scaled time; the outermost ring is the
// least significant digit.
type Sexagesimal struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	elapsed float64
}

func NewSexagesimal(oracle *prime.Oracle) *Sexagesimal {
	return &Sexagesimal{
		oracle: oracle,
		params: scene.NewParamSet("sexagesimal",
			scene.ParamSpec{Name: "rings", Default: 3, Min: 1, Max: 6, Integer: true},
			scene.ParamSpec{Name: "timeScale", Default: 60, Min: 0, Max: 1e6},
			scene.ParamSpec{Name: "showLabel", Default: 1, Min: 0, Max: 1, Integer: true},
		),
	}
}

func (m *Sexagesimal) ID() string                         { return "sexagesimal" }
func (m *Sexagesimal) Name() string                       { return "Sexagesimal Clock" }
func (m *Sexagesimal) Params() map[string]float64         { return m.params.Params() }
func (m *Sexagesimal) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Sexagesimal) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	if err := requireSieve(m.ID(), m.oracle, palette.Base); err != nil {
		return err
	}
	m.elapsed = 0
	return nil
}

func (m *Sexagesimal) Update(dt float64, gs *scene.GlobalState) error {
	m.elapsed += dt * gs.Params.Speed * m.params.Get("timeScale")
	// Roll over once every ring has wrapped.
	period := math.Pow(palette.Base, float64(m.params.Int("rings")))
	if m.elapsed >= period {
		m.elapsed = math.Mod(m.elapsed, period)
	}
	return nil
}

// Digits returns the clock reading, one digit per ring, most significant
// first and zero padded to the ring count.
func (m *Sexagesimal) Digits() []int {
	rings := m.params.Int("rings")
	d := palette.Sexagesimal(int(m.elapsed))
	if len(d) >= rings {
		return d[len(d)-rings:]
	}
	return append(make([]int, rings-len(d)), d...)
}

// tickAngle puts tick 0 at twelve o'clock and runs clockwise on a y-down
// canvas.
func tickAngle(n float64) float64 {
	return n*2*math.Pi/palette.Base - math.Pi/2
}

func (m *Sexagesimal) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	digits := m.Digits()
	rings := len(digits)
	c := center(gs)
	outer := gs.MinDim() / 2 * 0.95 * gs.Params.Zoom
	em := gs.Params.PrimeEmphasis
	lw := gs.Params.LineThickness

	for ring := 0; ring < rings; ring++ {
		// digits[rings-1] is least significant and sits on the outer ring.
		digit := digits[ring]
		radius := outer * float64(ring+1) / float64(rings)

		for n := 0; n < palette.Base; n++ {
			p, err := m.oracle.IsPrime(n)
			if err != nil {
				return err
			}
			inner := 0.92
			if n%5 == 0 {
				inner = 0.85
			}
			a := tickAngle(float64(n))
			col := palette.ColorForState(n, p, em)
			if n != digit {
				col = col.WithAlpha(0.45)
			}
			r.Line(
				c.Add(geom.PolarToCartesian(radius*inner, a)),
				c.Add(geom.PolarToCartesian(radius, a)),
				lw, col,
			)
		}

		// The least significant hand sweeps smoothly between ticks.
		pos := float64(digit)
		if ring == rings-1 {
			pos += m.elapsed - math.Floor(m.elapsed)
		}
		p, err := m.oracle.IsPrime(digit)
		if err != nil {
			return err
		}
		tip := c.Add(geom.PolarToCartesian(radius*0.8, tickAngle(pos)))
		r.Line(c, tip, lw*2, palette.ColorForState(digit, p, em))
		r.Circle(c, radius, lw/2, palette.White.WithAlpha(0.15))
	}

	if m.params.Bool("showLabel") {
		parts := make([]string, rings)
		for i, d := range digits {
			parts[i] = fmt.Sprintf("%02d", d)
		}
		r.Text(geom.Vec2{X: 4, Y: 4}, strings.Join(parts, ":"), 12, palette.White)
	}
	return nil
}

func (m *Sexagesimal) Elapsed() float64 { return m.elapsed }
