package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/scene"
)

const circleSegments = 64

var _ scene.Renderer = (*Painter)(nil)

// Painter draws scene primitives with raylib. It must be used between
// BeginDrawing and EndDrawing.
type Painter struct {
	Font    rl.Font
	HasFont bool
}

func toRL(c palette.Color) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func vec(p geom.Vec2) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func (p *Painter) FillRect(r geom.Rect, c palette.Color) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(r.Min.X), float32(r.Min.Y), float32(r.W), float32(r.H)), toRL(c))
}

func (p *Painter) StrokeRect(r geom.Rect, width float64, c palette.Color) {
	rl.DrawRectangleLinesEx(rl.NewRectangle(float32(r.Min.X), float32(r.Min.Y), float32(r.W), float32(r.H)), float32(width), toRL(c))
}

func (p *Painter) Line(a, b geom.Vec2, width float64, c palette.Color) {
	rl.DrawLineEx(vec(a), vec(b), float32(width), toRL(c))
}

func (p *Painter) Point(at geom.Vec2, radius float64, c palette.Color) {
	rl.DrawCircleV(vec(at), float32(max(radius, 0.5)), toRL(c))
}

func (p *Painter) Circle(center geom.Vec2, radius, width float64, c palette.Color) {
	half := max(width, 1) / 2
	inner := max(radius-half, 0)
	rl.DrawRing(vec(center), float32(inner), float32(radius+half), 0, 360, circleSegments, toRL(c))
}

func (p *Painter) Text(at geom.Vec2, s string, size float64, c palette.Color) {
	if p.HasFont {
		rl.DrawTextEx(p.Font, s, vec(at), float32(size), 1, toRL(c))
		return
	}
	rl.DrawText(s, int32(at.X), int32(at.Y), int32(size), toRL(c))
}
