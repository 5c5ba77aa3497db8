// Package modes implements the eight visualization modes and their fixed
// registry order. Every mode reseeds all private state in Init, so
// revisiting a mode replays it from the same starting point.
package modes

import (
	"fmt"
	"math"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// GoldenAngle is π(3-√5) radians, about 137.5077°.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

func center(gs *scene.GlobalState) geom.Vec2 {
	return geom.Vec2{X: float64(gs.Width()) / 2, Y: float64(gs.Height()) / 2}
}

// requireSieve fails init when the oracle cannot answer every query the
// mode will make.
func requireSieve(mode string, o *prime.Oracle, n int) error {
	if o == nil {
		return fmt.Errorf("%w: %s has no prime oracle", scene.ErrConfiguration, mode)
	}
	if o.Max() < n {
		return fmt.Errorf("%w: %s needs a sieve of at least %d, have %d", scene.ErrConfiguration, mode, n, o.Max())
	}
	return nil
}

// pointRadius grows highlighted markers with the emphasis control.
func pointRadius(gs *scene.GlobalState, isPrime bool) float64 {
	r := gs.Params.LineThickness
	if isPrime {
		r *= 1 + 2*gs.Params.PrimeEmphasis
	}
	return r
}
