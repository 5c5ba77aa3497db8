package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
)

var red = palette.Color{R: 255, A: 255}

func TestRasterSetUnset(t *testing.T) {
	r := NewRaster(2, 1, palette.Black)
	if r.PixelWidth() != 4 || r.PixelHeight() != 4 {
		t.Fatalf("pixel size %dx%d", r.PixelWidth(), r.PixelHeight())
	}

	r.Set(0, 0, red)
	r.Set(1, 3, red)
	if r.Grid[0][0] != brailleBase|0x1|0x80 {
		t.Errorf("cell = %U", r.Grid[0][0])
	}
	if !r.Lit(1, 3) || r.Lit(0, 1) {
		t.Error("Lit mismatch")
	}
	if r.Colors[0][0] != red {
		t.Errorf("color = %+v", r.Colors[0][0])
	}

	r.Unset(0, 0)
	r.Unset(1, 3)
	if r.Grid[0][0] != brailleBase {
		t.Errorf("after unset = %U", r.Grid[0][0])
	}
}

func TestRasterBounds(t *testing.T) {
	r := NewRaster(4, 2, palette.Black)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}} {
		r.Set(p[0], p[1], red)
	}
	if strings.ContainsFunc(r.String(), func(c rune) bool { return c > brailleBase && c < brailleBase+0x100 }) {
		t.Error("out of range writes lit a cell")
	}

	// Primitives far off canvas or non-finite must not panic or hang.
	r.Line(geom.Vec2{X: -1e12, Y: -1e12}, geom.Vec2{X: 1e12, Y: 1e12}, 1, red)
	r.Line(geom.Vec2{X: math.NaN()}, geom.Vec2{X: 1, Y: 1}, 1, red)
	r.Point(geom.Vec2{X: 2, Y: 2}, math.NaN(), red)
	r.Point(geom.Vec2{X: 2, Y: 2}, 1e9, red)
	r.Circle(geom.Vec2{X: 2, Y: 2}, 1e12, 1, red)
	r.FillRect(geom.Rect{Min: geom.Vec2{X: -50, Y: -50}, W: 1e6, H: 1e6}, red)
	for y := 0; y < r.PixelHeight(); y++ {
		for x := 0; x < r.PixelWidth(); x++ {
			if !r.Lit(x, y) {
				t.Fatalf("(%d,%d) not covered by fill", x, y)
			}
		}
	}
}

func TestRasterStrokeRectClips(t *testing.T) {
	r := NewRaster(4, 2, palette.Black)

	r.StrokeRect(geom.Rect{Min: geom.Vec2{X: -1e12, Y: -1e12}, W: 4e12, H: 4e12}, 1, red)
	r.StrokeRect(geom.Rect{Min: geom.Vec2{X: math.NaN(), Y: 1}, W: 3, H: 3}, 1, red)
	r.StrokeRect(geom.Rect{Min: geom.Vec2{X: math.Inf(-1), Y: 1}, W: 3, H: 3}, 1, red)
	if strings.ContainsFunc(r.String(), func(c rune) bool { return c > brailleBase && c < brailleBase+0x100 }) {
		t.Error("off-canvas or non-finite rect lit a cell")
	}

	// Only the top edge crosses the canvas.
	r.StrokeRect(geom.Rect{Min: geom.Vec2{X: -1e9, Y: 2}, W: 2e9, H: 1e9}, 1, red)
	for y := 0; y < r.PixelHeight(); y++ {
		for x := 0; x < r.PixelWidth(); x++ {
			if r.Lit(x, y) != (y == 2) {
				t.Fatalf("(%d,%d) lit = %v", x, y, r.Lit(x, y))
			}
		}
	}
}

func TestRasterPrimitives(t *testing.T) {
	tests := []struct {
		name string
		draw func(r *Raster)
		lit  [][2]int
		dark [][2]int
	}{
		{
			"horizontal line",
			func(r *Raster) { r.Line(geom.Vec2{X: 1, Y: 2}, geom.Vec2{X: 6, Y: 2}, 1, red) },
			[][2]int{{1, 2}, {3, 2}, {6, 2}},
			[][2]int{{0, 2}, {7, 2}, {3, 3}},
		},
		{
			"diagonal clipped",
			func(r *Raster) { r.Line(geom.Vec2{X: -10, Y: -10}, geom.Vec2{X: 20, Y: 20}, 1, red) },
			[][2]int{{0, 0}, {5, 5}, {7, 7}},
			[][2]int{{1, 0}, {7, 0}},
		},
		{
			"fill rect",
			func(r *Raster) { r.FillRect(geom.Rect{Min: geom.Vec2{X: 2, Y: 2}, W: 2, H: 2}, red) },
			[][2]int{{2, 2}, {3, 3}},
			[][2]int{{4, 4}, {1, 2}},
		},
		{
			"stroke rect",
			func(r *Raster) { r.StrokeRect(geom.Rect{Min: geom.Vec2{X: 1, Y: 1}, W: 5, H: 5}, 1, red) },
			[][2]int{{1, 1}, {5, 1}, {5, 5}, {1, 5}, {3, 1}},
			[][2]int{{3, 3}},
		},
		{
			"circle",
			func(r *Raster) { r.Circle(geom.Vec2{X: 4, Y: 4}, 3, 1, red) },
			[][2]int{{7, 4}, {1, 4}, {4, 1}, {4, 7}},
			[][2]int{{4, 4}},
		},
		{
			"disc point",
			func(r *Raster) { r.Point(geom.Vec2{X: 4, Y: 4}, 2, red) },
			[][2]int{{4, 4}, {6, 4}, {4, 2}, {5, 5}},
			[][2]int{{6, 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRaster(4, 2, palette.Black)
			tt.draw(r)
			for _, p := range tt.lit {
				if !r.Lit(p[0], p[1]) {
					t.Errorf("(%d,%d) should be lit", p[0], p[1])
				}
			}
			for _, p := range tt.dark {
				if r.Lit(p[0], p[1]) {
					t.Errorf("(%d,%d) should be dark", p[0], p[1])
				}
			}
		})
	}
}

func TestRasterAlphaAndText(t *testing.T) {
	r := NewRaster(6, 1, palette.Black)
	r.Set(0, 0, red.WithAlpha(0.5))
	if got := r.Colors[0][0]; got.R == 0 || got.R == 255 || got.A != 255 {
		t.Errorf("half alpha over black = %+v", got)
	}
	r.Set(2, 0, red.WithAlpha(0))
	if r.Lit(2, 0) {
		t.Error("transparent color lit a pixel")
	}

	r.Text(geom.Vec2{X: 4, Y: 0}, "2:3", 12, palette.White)
	line := strings.Split(r.String(), "\n")[0]
	if !strings.HasSuffix(line, "2:3\u2800") {
		t.Errorf("text row = %q", line)
	}

	r.Clear()
	if strings.Contains(r.String(), "2") || r.Lit(0, 0) {
		t.Error("clear left content")
	}
	if out := r.Render(); strings.Count(out, "\n") != 1 {
		t.Errorf("render rows = %d", strings.Count(out, "\n"))
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "dark" {
		t.Error("unknown theme should fall back to dark")
	}
	if NextTheme("sunset").Name != Themes[0].Name {
		t.Error("NextTheme should wrap")
	}
	if c := ThemeOcean.CanvasColor(); c != (palette.Color{R: 0x00, G: 0x1a, B: 0x33, A: 255}) {
		t.Errorf("ocean canvas = %+v", c)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length")
	}
}

func TestSparklineAndBar(t *testing.T) {
	if got := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := []rune(SparklineChart([]float64{5, 5, 5, 9, 1}, 2)); len(got) != 2 || got[0] != '█' || got[1] != '▁' {
		t.Errorf("tail sparkline = %q", string(got))
	}
	if ProgressBar(0.5, 4) != "██░░" || ProgressBar(2, 2) != "██" {
		t.Error("progress bar")
	}
}
