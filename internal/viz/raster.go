package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/scene"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

var _ scene.Renderer = (*Raster)(nil)

// Raster is a braille canvas that implements scene.Renderer. Each terminal
// cell holds 2x4 sub-pixels and a single color, so canvas coordinates map
// one to one onto sub-pixels.
type Raster struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]palette.Color
	text          [][]rune
	bg            palette.Color
	styles        map[palette.Color]lipgloss.Style
}

func NewRaster(w, h int, bg palette.Color) *Raster {
	r := &Raster{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]palette.Color, h),
		text:   make([][]rune, h),
		bg:     bg,
		styles: make(map[palette.Color]lipgloss.Style),
	}
	for i := range r.Grid {
		r.Grid[i] = make([]rune, w)
		r.Colors[i] = make([]palette.Color, w)
		r.text[i] = make([]rune, w)
	}
	r.Clear()
	return r
}

// PixelWidth and PixelHeight give the canvas size in sub-pixels.
func (r *Raster) PixelWidth() int  { return r.Width * 2 }
func (r *Raster) PixelHeight() int { return r.Height * 4 }

func (r *Raster) SetBackground(bg palette.Color) { r.bg = bg }

// Set lights the sub-pixel at (x, y) and mixes c into the cell color by
// its alpha. Out of range coordinates are ignored.
func (r *Raster) Set(x, y int, c palette.Color) {
	if x < 0 || y < 0 || c.A == 0 {
		return
	}
	col, row := x/2, y/4
	if col >= r.Width || row >= r.Height {
		return
	}

	base := r.Colors[row][col]
	if r.Grid[row][col] == brailleBase {
		base = r.bg
	}
	mixed := c
	if c.A < 255 {
		mixed = palette.Blend(base, c, float64(c.A)/255)
	}
	mixed.A = 255

	r.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	r.Colors[row][col] = mixed
}

func (r *Raster) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= r.Width || row >= r.Height {
		return
	}

	r.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if r.Grid[row][col] < brailleBase {
		r.Grid[row][col] = brailleBase
	}
}

// Lit reports whether the sub-pixel at (x, y) is set.
func (r *Raster) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= r.Width || y/4 >= r.Height {
		return false
	}
	return r.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (r *Raster) Clear() {
	for i := range r.Grid {
		for j := range r.Grid[i] {
			r.Grid[i][j] = brailleBase
			r.Colors[i][j] = r.bg
			r.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (r *Raster) DrawLine(x0, y0, x1, y1 int, c palette.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		r.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Raster) FillRect(rect geom.Rect, c palette.Color) {
	x0, y0 := r.clampX(rect.Min.X), r.clampY(rect.Min.Y)
	x1, y1 := r.clampX(rect.Min.X+rect.W), r.clampY(rect.Min.Y+rect.H)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.Set(x, y, c)
		}
	}
}

// StrokeRect outlines the pixels FillRect would cover. Each side goes
// through Line so off-canvas and non-finite rects are clipped away.
func (r *Raster) StrokeRect(rect geom.Rect, width float64, c palette.Color) {
	end := rect.Max()
	tl := rect.Min
	tr := geom.Vec2{X: end.X - 1, Y: rect.Min.Y}
	br := geom.Vec2{X: end.X - 1, Y: end.Y - 1}
	bl := geom.Vec2{X: rect.Min.X, Y: end.Y - 1}
	r.Line(tl, tr, width, c)
	r.Line(tr, br, width, c)
	r.Line(br, bl, width, c)
	r.Line(bl, tl, width, c)
}

// Line ignores width; one sub-pixel is already a thick stroke in a terminal.
func (r *Raster) Line(a, b geom.Vec2, width float64, c palette.Color) {
	if !finite(a) || !finite(b) {
		return
	}
	a, b, ok := r.clip(a, b)
	if !ok {
		return
	}
	r.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), c)
}

// clip trims segment ab to the canvas (Liang-Barsky).
func (r *Raster) clip(a, b geom.Vec2) (geom.Vec2, geom.Vec2, bool) {
	xmin, ymin := -1.0, -1.0
	xmax, ymax := float64(r.PixelWidth()), float64(r.PixelHeight())
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, a.X - xmin},
		{dx, xmax - a.X},
		{-dy, a.Y - ymin},
		{dy, ymax - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return geom.Vec2{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Vec2{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func (r *Raster) Point(p geom.Vec2, radius float64, c palette.Color) {
	if !finite(p) {
		return
	}
	cx, cy := round(p.X), round(p.Y)
	if !(radius > 1) {
		r.Set(cx, cy, c)
		return
	}
	radius = math.Min(radius, float64(r.PixelWidth()+r.PixelHeight()))
	ri := int(math.Ceil(radius))
	r2 := radius * radius
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				r.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// Circle uses the midpoint algorithm.
func (r *Raster) Circle(center geom.Vec2, radius, width float64, c palette.Color) {
	if !finite(center) || !(radius > 0) || radius > float64(4*(r.PixelWidth()+r.PixelHeight())) {
		return
	}
	cx, cy := round(center.X), round(center.Y)
	x, y := round(radius), 0
	err := 1 - x
	for x >= y {
		for _, o := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			r.Set(cx+o[0], cy+o[1], c)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// Text writes s into whole cells starting at the cell containing p.
func (r *Raster) Text(p geom.Vec2, s string, size float64, c palette.Color) {
	if !finite(p) {
		return
	}
	col, row := round(p.X)/2, round(p.Y)/4
	if row < 0 || row >= r.Height {
		return
	}
	for _, ch := range s {
		if col >= r.Width {
			break
		}
		if col >= 0 {
			r.text[row][col] = ch
			c.A = 255
			r.Colors[row][col] = c
		}
		col++
	}
}

// String returns the plain braille picture without colors.
func (r *Raster) String() string {
	var b strings.Builder
	for i, row := range r.Grid {
		for j, ch := range row {
			if t := r.text[i][j]; t != 0 {
				ch = t
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render returns the picture with each run of same-colored cells styled
// through lipgloss.
func (r *Raster) Render() string {
	var b strings.Builder
	var run strings.Builder
	for i, row := range r.Grid {
		cur := palette.Color{}
		for j, ch := range row {
			if t := r.text[i][j]; t != 0 {
				ch = t
			}
			c := r.Colors[i][j]
			if ch == brailleBase {
				c = r.bg
			}
			if c != cur && run.Len() > 0 {
				b.WriteString(r.style(cur).Render(run.String()))
				run.Reset()
			}
			cur = c
			run.WriteRune(ch)
		}
		if run.Len() > 0 {
			b.WriteString(r.style(cur).Render(run.String()))
			run.Reset()
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Raster) style(c palette.Color) lipgloss.Style {
	if s, ok := r.styles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	r.styles[c] = s
	return s
}

func (r *Raster) clampX(v float64) int { return clampInt(round(v), 0, r.PixelWidth()) }
func (r *Raster) clampY(v float64) int { return clampInt(round(v), 0, r.PixelHeight()) }

func round(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(math.Min(v, math.MaxInt32), math.MinInt32)
	return int(math.Round(v))
}

func finite(p geom.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
