package scene

import (
	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
)

// Renderer is the painter collaborator. All coordinates are canvas pixels
// with the origin at the top-left of the viewport.
type Renderer interface {
	FillRect(r geom.Rect, c palette.Color)
	StrokeRect(r geom.Rect, width float64, c palette.Color)
	Line(a, b geom.Vec2, width float64, c palette.Color)
	Point(p geom.Vec2, radius float64, c palette.Color)
	Circle(center geom.Vec2, radius, width float64, c palette.Color)
	Text(p geom.Vec2, s string, size float64, c palette.Color)
}

type Kind uint8

const (
	KindFillRect Kind = iota
	KindStrokeRect
	KindLine
	KindPoint
	KindCircle
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindFillRect:
		return "fill_rect"
	case KindStrokeRect:
		return "stroke_rect"
	case KindLine:
		return "line"
	case KindPoint:
		return "point"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Command is one recorded drawing primitive. A is the line start, point,
// circle center or text anchor; B is the line end.
type Command struct {
	Kind   Kind
	Rect   geom.Rect
	A, B   geom.Vec2
	Radius float64
	Width  float64
	Size   float64
	Text   string
	Color  palette.Color
}

// DisplayList records primitives in emission order so a frame can be
// replayed, blended or exported.
type DisplayList struct {
	cmds []Command
}

func NewDisplayList() *DisplayList {
	return &DisplayList{cmds: make([]Command, 0, 256)}
}

func (d *DisplayList) FillRect(r geom.Rect, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindFillRect, Rect: r, Color: c})
}

func (d *DisplayList) StrokeRect(r geom.Rect, width float64, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindStrokeRect, Rect: r, Width: width, Color: c})
}

func (d *DisplayList) Line(a, b geom.Vec2, width float64, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindLine, A: a, B: b, Width: width, Color: c})
}

func (d *DisplayList) Point(p geom.Vec2, radius float64, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindPoint, A: p, Radius: radius, Color: c})
}

func (d *DisplayList) Circle(center geom.Vec2, radius, width float64, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindCircle, A: center, Radius: radius, Width: width, Color: c})
}

func (d *DisplayList) Text(p geom.Vec2, s string, size float64, c palette.Color) {
	d.cmds = append(d.cmds, Command{Kind: KindText, A: p, Text: s, Size: size, Color: c})
}

func (d *DisplayList) Len() int { return len(d.cmds) }

// Commands returns the recorded primitives. The slice must not be modified.
func (d *DisplayList) Commands() []Command { return d.cmds }

func (d *DisplayList) Reset() { d.cmds = d.cmds[:0] }

// Replay emits every command to r with alpha scaled by alpha.
func (d *DisplayList) Replay(r Renderer, alpha float64) {
	for _, c := range d.cmds {
		col := c.Color
		if alpha != 1 {
			col = col.WithAlpha(alpha)
		}
		switch c.Kind {
		case KindFillRect:
			r.FillRect(c.Rect, col)
		case KindStrokeRect:
			r.StrokeRect(c.Rect, c.Width, col)
		case KindLine:
			r.Line(c.A, c.B, c.Width, col)
		case KindPoint:
			r.Point(c.A, c.Radius, col)
		case KindCircle:
			r.Circle(c.A, c.Radius, c.Width, col)
		case KindText:
			r.Text(c.A, c.Text, c.Size, col)
		}
	}
}

// Census counts commands by kind.
func (d *DisplayList) Census() map[Kind]int {
	out := make(map[Kind]int)
	for _, c := range d.cmds {
		out[c.Kind]++
	}
	return out
}
