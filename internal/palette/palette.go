// Package palette maps integer states onto the base-60 color wheel.
//
// A state n is reduced with a true modulo ([Mod60]) and mapped linearly to a
// hue in [0, 360) degrees, six degrees per step. Prime states can be
// emphasized with more saturation and brightness.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	Base = 60

	// DegreesPerState is the hue distance between adjacent base-60 states.
	DegreesPerState = 360.0 / Base

	baseSaturation = 0.55
	baseValue      = 0.70
)

// Color is a straight (non-premultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha scales the alpha channel by f, clamped to [0, 1].
func (c Color) WithAlpha(f float64) Color {
	f = clamp01(f)
	c.A = uint8(math.Round(float64(c.A) * f))
	return c
}

func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, alpha uint8) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: alpha}
}

// Blend mixes a toward b by t in [0, 1]. The result keeps b's alpha.
func Blend(a, b Color, t float64) Color {
	return fromColorful(a.colorful().BlendRgb(b.colorful(), clamp01(t)), b.A)
}

// Mod60 returns the true (non-negative) modulo of n by 60.
func Mod60(n int) int {
	return ((n % Base) + Base) % Base
}

// StateToHue maps a state to a hue in degrees, [0, 360).
func StateToHue(n int) float64 {
	return float64(Mod60(n)) * DegreesPerState
}

// ColorForState returns the hue of n with a baseline saturation and value.
// When isPrime is set both are raised linearly with emphasis, so an
// emphasis of zero renders primes and composites identically.
func ColorForState(n int, isPrime bool, emphasis float64) Color {
	s, v := baseSaturation, baseValue
	if isPrime {
		e := clamp01(emphasis)
		s += (1 - baseSaturation) * e
		v += (1 - baseValue) * e
	}
	return fromColorful(colorful.Hsv(StateToHue(n), s, v), 255)
}

// Sexagesimal splits a non-negative n into base-60 digits, most
// significant first. Negative input is treated as its absolute value.
func Sexagesimal(n int) []int {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return []int{0}
	}
	var digits []int
	for n > 0 {
		digits = append(digits, n%Base)
		n /= Base
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
