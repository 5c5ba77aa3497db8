package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/scene"
)

var _ scene.Renderer = (*SVG)(nil)

// SVG is a scene.Renderer that writes each primitive as an SVG element.
type SVG struct {
	width, height int
	sb            strings.Builder
	elements      int
}

func NewSVG(width, height int, background palette.Color) *SVG {
	s := &SVG{width: width, height: height}
	s.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background.Hex()))
	return s
}

// FromDisplayList renders a recorded frame.
func FromDisplayList(dl *scene.DisplayList, width, height int, background palette.Color) *SVG {
	s := NewSVG(width, height, background)
	dl.Replay(s, 1)
	return s
}

func opacity(c palette.Color) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(` opacity="%.3f"`, float64(c.A)/255)
}

func (s *SVG) FillRect(r geom.Rect, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>
`, r.Min.X, r.Min.Y, r.W, r.H, c.Hex(), opacity(c)))
}

func (s *SVG) StrokeRect(r geom.Rect, width float64, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"%s/>
`, r.Min.X, r.Min.Y, r.W, r.H, c.Hex(), width, opacity(c)))
}

func (s *SVG) Line(a, b geom.Vec2, width float64, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>
`, a.X, a.Y, b.X, b.Y, c.Hex(), width, opacity(c)))
}

func (s *SVG) Point(p geom.Vec2, radius float64, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>
`, p.X, p.Y, radius, c.Hex(), opacity(c)))
}

func (s *SVG) Circle(center geom.Vec2, radius, width float64, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"%s/>
`, center.X, center.Y, radius, c.Hex(), width, opacity(c)))
}

func (s *SVG) Text(p geom.Vec2, text string, size float64, c palette.Color) {
	s.elements++
	s.sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="monospace" font-size="%.1f" dominant-baseline="hanging" fill="%s"%s>%s</text>
`, p.X, p.Y, size, c.Hex(), opacity(c), escape(text)))
}

// Elements returns the number of primitives written so far.
func (s *SVG) Elements() int { return s.elements }

// String returns the finished document.
func (s *SVG) String() string {
	return s.sb.String() + "</svg>\n"
}

func (s *SVG) WriteFile(path string) error {
	return os.WriteFile(path, []byte(s.String()), 0644)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

// SeriesToSVG plots a sampled series as a polyline scaled to fit, for
// frame-time and statistic columns of a capture.
func SeriesToSVG(values []float64, width, height int, stroke string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
