package modes

import (
	"fmt"
	"math/bits"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

const (
	TesseractVertices = 16
	TesseractEdges    = 32
)

// Edge joins two vertex indices that differ in exactly one coordinate.
type Edge struct {
	A, B int
}

// HypercubeVertices enumerates {-1,+1}^4. Bit d of the index selects the
// sign of coordinate d (0=X, 1=Y, 2=Z, 3=W), so indices are stable.
func HypercubeVertices() [TesseractVertices]geom.Vec4 {
	var vs [TesseractVertices]geom.Vec4
	sign := func(k, bit int) float64 {
		if k&(1<<bit) != 0 {
			return 1
		}
		return -1
	}
	for k := range vs {
		vs[k] = geom.Vec4{X: sign(k, 0), Y: sign(k, 1), Z: sign(k, 2), W: sign(k, 3)}
	}
	return vs
}

// HypercubeEdges lists the 32 edges in ascending (A, B) order.
func HypercubeEdges() []Edge {
	edges := make([]Edge, 0, TesseractEdges)
	for a := 0; a < TesseractVertices; a++ {
		for b := a + 1; b < TesseractVertices; b++ {
			if bits.OnesCount(uint(a^b)) == 1 {
				edges = append(edges, Edge{A: a, B: b})
			}
		}
	}
	return edges
}

// Tesseract rotates the unit hypercube in the XW, YW and ZW planes and
// draws its perspective projection.
type Tesseract struct {
	oracle *prime.Oracle
	params *scene.ParamSet

	vertices [TesseractVertices]geom.Vec4
	edges    []Edge
	rot      geom.Rot4
}

func NewTesseract(oracle *prime.Oracle) *Tesseract {
	return &Tesseract{
		oracle: oracle,
		params: scene.NewParamSet("tesseract",
			scene.ParamSpec{Name: "rotationSpeedXW", Default: 0.50, Min: 0, Max: 20},
			scene.ParamSpec{Name: "rotationSpeedYW", Default: 0.35, Min: 0, Max: 20},
			scene.ParamSpec{Name: "rotationSpeedZW", Default: 0.20, Min: 0, Max: 20},
			scene.ParamSpec{Name: "depth", Default: 3, Min: 2.01, Max: 100},
			scene.ParamSpec{Name: "scale", Default: 1, Min: 0.01, Max: 10},
		),
	}
}

func (m *Tesseract) ID() string                         { return "tesseract" }
func (m *Tesseract) Name() string                       { return "Tesseract" }
func (m *Tesseract) Params() map[string]float64         { return m.params.Params() }
func (m *Tesseract) SetParam(n string, v float64) error { return m.params.SetParam(n, v) }

func (m *Tesseract) Init(gs *scene.GlobalState) error {
	if err := m.params.Validate(); err != nil {
		return err
	}
	// Vertex and edge-endpoint sums stay below 32.
	if m.oracle == nil || m.oracle.Max() < 2*TesseractVertices {
		return fmt.Errorf("%w: tesseract needs a sieve of at least %d", scene.ErrConfiguration, 2*TesseractVertices)
	}
	m.vertices = HypercubeVertices()
	m.edges = HypercubeEdges()
	m.rot = geom.Rot4{}
	return nil
}

func (m *Tesseract) Update(dt float64, gs *scene.GlobalState) error {
	k := dt * gs.Params.Speed
	m.rot.XW = geom.WrapAngle(m.rot.XW + m.params.Get("rotationSpeedXW")*k)
	m.rot.YW = geom.WrapAngle(m.rot.YW + m.params.Get("rotationSpeedYW")*k)
	m.rot.ZW = geom.WrapAngle(m.rot.ZW + m.params.Get("rotationSpeedZW")*k)
	return nil
}

func (m *Tesseract) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	if m.edges == nil {
		return nil
	}
	center := geom.Vec2{X: float64(gs.Width()) / 2, Y: float64(gs.Height()) / 2}
	// Projected coordinates stay within roughly ±3 at the default depth.
	scale := m.params.Get("scale") * gs.MinDim() / 7 * gs.Params.Zoom
	depth := m.params.Get("depth")
	emphasis := gs.Params.PrimeEmphasis

	var (
		screen  [TesseractVertices]geom.Vec2
		visible [TesseractVertices]bool
	)
	for k, v := range m.vertices {
		p, ok := geom.Project4D(v, m.rot, depth, scale)
		// Canvas Y grows downward.
		screen[k] = geom.Vec2{X: center.X + p.X, Y: center.Y - p.Y}
		visible[k] = ok
	}

	for _, e := range m.edges {
		if !visible[e.A] || !visible[e.B] {
			continue
		}
		sumPrime, err := m.oracle.IsPrime(e.A + e.B)
		if err != nil {
			return err
		}
		xorPrime, err := m.oracle.IsPrime(e.A ^ e.B)
		if err != nil {
			return err
		}
		col := palette.ColorForState((e.A+e.B)*2, sumPrime || xorPrime, emphasis)
		r.Line(screen[e.A], screen[e.B], gs.Params.LineThickness, col)
	}

	for k := range m.vertices {
		if !visible[k] {
			continue
		}
		p, err := m.oracle.IsPrime(k)
		if err != nil {
			return err
		}
		radius := 2 * gs.Params.LineThickness
		if p {
			radius *= 1 + emphasis
		}
		r.Point(screen[k], radius, palette.ColorForState(k*4, p, emphasis))
	}
	return nil
}

// Rotation returns the accumulated plane angles.
func (m *Tesseract) Rotation() geom.Rot4 { return m.rot }

// Vertices returns the fixed vertex set.
func (m *Tesseract) Vertices() [TesseractVertices]geom.Vec4 { return m.vertices }

func (m *Tesseract) Stats() map[string]float64 {
	return map[string]float64{
		"rot_xw": m.rot.XW,
		"rot_yw": m.rot.YW,
		"rot_zw": m.rot.ZW,
	}
}
