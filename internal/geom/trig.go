package geom

import "math"

// TrigTable is a linearly interpolated sine table. Cosine is read a quarter
// turn ahead in the same table, so the table extends past 2π instead of
// wrapping indices.
type TrigTable struct {
	sin     []float64
	n       int
	quarter int
	step    float64
}

// DefaultTrigTable has 4096 steps per turn, about 0.0015 rad apart.
var DefaultTrigTable = NewTrigTable(4096)

// NewTrigTable rounds n up to a multiple of four.
func NewTrigTable(n int) *TrigTable {
	n = max(4, (n+3)/4*4)
	t := &TrigTable{n: n, quarter: n / 4, step: 2 * math.Pi / float64(n)}
	t.sin = make([]float64, n+t.quarter+2)
	for i := range t.sin {
		t.sin[i] = math.Sin(float64(i) * t.step)
	}
	return t
}

func (t *TrigTable) lookup(i int, frac float64) float64 {
	return t.sin[i] + (t.sin[i+1]-t.sin[i])*frac
}

// SinCos returns interpolated sin and cos of x.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	pos := WrapAngle(x) / t.step
	i := min(int(pos), t.n)
	frac := pos - float64(i)
	return t.lookup(i, frac), t.lookup(i+t.quarter, frac)
}

// Polar is PolarToCartesian through the table; modes that place thousands
// of points per frame use it.
func (t *TrigTable) Polar(r, theta float64) Vec2 {
	s, c := t.SinCos(theta)
	return Vec2{X: r * c, Y: r * s}
}
