package palette

import (
	"slices"
	"testing"
)

func TestMod60(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{59, 59},
		{60, 0},
		{61, 1},
		{-1, 59},
		{-60, 0},
		{-61, 59},
		{-125, 55},
	}
	for _, tt := range tests {
		if got := Mod60(tt.n); got != tt.want {
			t.Errorf("Mod60(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}

	for n := -1000; n <= 1000; n++ {
		if m := Mod60(n); m < 0 || m >= 60 {
			t.Fatalf("Mod60(%d) = %d escapes [0,60)", n, m)
		}
	}
}

func TestStateToHue(t *testing.T) {
	if StateToHue(0) != 0 {
		t.Errorf("expected hue 0 for state 0, got %f", StateToHue(0))
	}
	if StateToHue(10) != 60 {
		t.Errorf("expected hue 60 for state 10, got %f", StateToHue(10))
	}

	for n := -200; n <= 200; n++ {
		h := StateToHue(n)
		if h < 0 || h >= 360 {
			t.Fatalf("hue %f out of [0,360) for %d", h, n)
		}
		if h != StateToHue(n+60) {
			t.Fatalf("hue not periodic at %d", n)
		}
	}
}

func TestColorForState_ZeroEmphasis(t *testing.T) {
	for n := 0; n < 60; n++ {
		if ColorForState(n, true, 0) != ColorForState(n, false, 0) {
			t.Errorf("state %d: prime and composite differ at zero emphasis", n)
		}
	}
}

func TestColorForState_MonotonicEmphasis(t *testing.T) {
	brightness := func(c Color) int { return max(int(c.R), int(c.G), int(c.B)) }

	prev := brightness(ColorForState(7, true, 0))
	for _, e := range []float64{0.25, 0.5, 0.75, 1} {
		b := brightness(ColorForState(7, true, e))
		if b < prev {
			t.Errorf("brightness decreased at emphasis %.2f: %d < %d", e, b, prev)
		}
		prev = b
	}

	if ColorForState(7, false, 1) != ColorForState(7, false, 0) {
		t.Error("composite color should ignore emphasis")
	}
	if ColorForState(7, true, 5) != ColorForState(7, true, 1) {
		t.Error("emphasis above 1 should clamp")
	}
}

func TestColorHexAndAlpha(t *testing.T) {
	c := Color{R: 255, G: 16, B: 0, A: 200}
	if c.Hex() != "#ff1000" {
		t.Errorf("unexpected hex %s", c.Hex())
	}
	if got := c.WithAlpha(0.5).A; got != 100 {
		t.Errorf("expected alpha 100, got %d", got)
	}
	if got := c.WithAlpha(-1).A; got != 0 {
		t.Errorf("expected alpha 0, got %d", got)
	}
}

func TestBlend(t *testing.T) {
	if got := Blend(Black, White, 0); got.R != 0 || got.A != 255 {
		t.Errorf("blend at 0 should be start color, got %+v", got)
	}
	if got := Blend(Black, White, 1); got != White {
		t.Errorf("blend at 1 should be end color, got %+v", got)
	}
}

func TestSexagesimal(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{0, []int{0}},
		{59, []int{59}},
		{60, []int{1, 0}},
		{3661, []int{1, 1, 1}},
		{-61, []int{1, 1}},
	}
	for _, tt := range tests {
		if got := Sexagesimal(tt.n); !slices.Equal(got, tt.want) {
			t.Errorf("Sexagesimal(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
