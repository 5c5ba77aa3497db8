// Package geom holds the pure coordinate transforms shared by every mode:
// grid to canvas, polar to Cartesian, and 4D rotation with the 4D to 3D to
// 2D projection chain.
package geom

import (
	"errors"
	"math"
)

// ErrUndefinedAngle is returned when converting the origin to polar form.
var ErrUndefinedAngle = errors.New("geom: angle undefined at origin")

// gridEpsilon absorbs the rounding of i*cellSize/cellSize so integer grid
// coordinates survive a round trip through canvas space.
const gridEpsilon = 1e-9

// GridToCanvas returns the top-left corner of cell (i, j), where i is the
// column and j the row.
func GridToCanvas(i, j int, cellSize float64, origin Vec2) Vec2 {
	return Vec2{
		X: origin.X + float64(i)*cellSize,
		Y: origin.Y + float64(j)*cellSize,
	}
}

// CanvasToGrid returns the cell containing p. It is the exact inverse of
// GridToCanvas for integer cells.
func CanvasToGrid(p Vec2, cellSize float64, origin Vec2) (i, j int) {
	return gridIndex(p.X-origin.X, cellSize), gridIndex(p.Y-origin.Y, cellSize)
}

func gridIndex(offset, cellSize float64) int {
	q := offset / cellSize
	r := math.Round(q)
	if math.Abs(q-r) <= gridEpsilon*math.Max(1, math.Abs(q)) {
		return int(r)
	}
	return int(math.Floor(q))
}

func PolarToCartesian(r, theta float64) Vec2 {
	return Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// CartesianToPolar returns radius and angle in (-π, π].
func CartesianToPolar(p Vec2) (r, theta float64, err error) {
	if p.X == 0 && p.Y == 0 {
		return 0, 0, ErrUndefinedAngle
	}
	return math.Hypot(p.X, p.Y), math.Atan2(p.Y, p.X), nil
}

// WrapAngle reduces a to [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
