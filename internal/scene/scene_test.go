package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
)

func TestNewGlobalState(t *testing.T) {
	gs, clock, err := NewGlobalState(160, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.AspectRatio() != 2 {
		t.Errorf("expected aspect 2, got %f", gs.AspectRatio())
	}
	if gs.T() != 0 || gs.Frame() != 0 || gs.Dt() != 0 {
		t.Error("time fields should start at zero")
	}

	clock.Advance(0.5)
	clock.Advance(0.25)
	if gs.T() != 0.75 || gs.Frame() != 2 || gs.Dt() != 0.25 {
		t.Errorf("unexpected time fields t=%f frame=%d dt=%f", gs.T(), gs.Frame(), gs.Dt())
	}

	clock.Reset()
	if gs.Snapshot() != (TimeSnapshot{}) {
		t.Error("reset should zero time fields")
	}
}

func TestViewportValidation(t *testing.T) {
	tests := []struct{ w, h int }{{0, 10}, {10, 0}, {-1, -1}}
	for _, tt := range tests {
		if _, _, err := NewGlobalState(tt.w, tt.h); !errors.Is(err, ErrViewport) {
			t.Errorf("%dx%d: expected ErrViewport, got %v", tt.w, tt.h, err)
		}
	}
}

func TestAudioLevelRequiresReactive(t *testing.T) {
	gs, clock, _ := NewGlobalState(10, 10)
	clock.SetAudioLevel(0.8)
	if gs.AudioLevel() != 0 {
		t.Error("audio level should read zero while AudioReactive is off")
	}
	gs.Params.AudioReactive = true
	if gs.AudioLevel() != 0.8 {
		t.Errorf("expected 0.8, got %f", gs.AudioLevel())
	}
	clock.SetAudioLevel(math.NaN())
	if gs.AudioLevel() != 0 {
		t.Error("NaN level should be stored as zero")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Params)
	}{
		{"zero speed", func(p *Params) { p.Speed = 0 }},
		{"negative zoom", func(p *Params) { p.Zoom = -1 }},
		{"zero emphasis", func(p *Params) { p.PrimeEmphasis = 0 }},
		{"emphasis above one", func(p *Params) { p.PrimeEmphasis = 1.2 }},
		{"nan thickness", func(p *Params) { p.LineThickness = math.NaN() }},
		{"blend above one", func(p *Params) { p.ModeBlend = 1.5 }},
		{"negative blend", func(p *Params) { p.ModeBlend = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mod(&p)
			if err := p.Validate(); !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestParamSet(t *testing.T) {
	ps := NewParamSet("demo",
		ParamSpec{Name: "width", Default: 10, Min: 1, Max: 100, Integer: true},
		ParamSpec{Name: "wrap", Default: 1, Min: 0, Max: 1, Integer: true},
	)

	if ps.Int("width") != 10 || !ps.Bool("wrap") {
		t.Fatal("defaults not applied")
	}
	if err := ps.SetParam("height", 3); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if err := ps.SetParam("width", math.Inf(1)); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	// Out-of-range values are stored and rejected by Validate.
	if err := ps.SetParam("width", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ps.Validate()
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Param != "width" || ce.Mode != "demo" {
		t.Errorf("expected ConfigError for demo.width, got %#v", err)
	}

	if err := ps.SetParam("width", 2.5); err != nil {
		t.Fatal(err)
	}
	if err := ps.Validate(); err == nil {
		t.Error("fractional value for integer param should fail validation")
	}

	ps.Reset()
	if err := ps.Validate(); err != nil {
		t.Errorf("reset should restore valid defaults: %v", err)
	}
	if names := ps.Names(); len(names) != 2 || names[0] != "width" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestDisplayListReplay(t *testing.T) {
	src := NewDisplayList()
	red := palette.Color{R: 255, A: 200}
	src.FillRect(geom.Rect{W: 2, H: 2}, red)
	src.Line(geom.Vec2{}, geom.Vec2{X: 5}, 1, red)
	src.Point(geom.Vec2{X: 1}, 2, red)
	src.Text(geom.Vec2{}, "hi", 12, red)

	dst := NewDisplayList()
	src.Replay(dst, 0.5)

	if dst.Len() != src.Len() {
		t.Fatalf("expected %d commands, got %d", src.Len(), dst.Len())
	}
	for i, c := range dst.Commands() {
		if c.Kind != src.Commands()[i].Kind {
			t.Errorf("command %d kind %v, want %v", i, c.Kind, src.Commands()[i].Kind)
		}
		if c.Color.A != 100 {
			t.Errorf("command %d alpha %d, want 100", i, c.Color.A)
		}
	}

	census := src.Census()
	if census[KindFillRect] != 1 || census[KindText] != 1 {
		t.Errorf("unexpected census %v", census)
	}

	src.Reset()
	if src.Len() != 0 {
		t.Error("reset should clear commands")
	}
}

func TestOscillatorSource(t *testing.T) {
	src := OscillatorSource{Freq: 1, Ripple: 0.3}
	for ts := 0.0; ts < 3; ts += 0.01 {
		v, ok := src.Level(ts)
		if !ok || v < 0 || v > 1 {
			t.Fatalf("level %f at t=%f out of [0,1]", v, ts)
		}
	}
	a, _ := src.Level(0.4)
	b, _ := src.Level(0.4)
	if a != b {
		t.Error("oscillator should be deterministic")
	}
}
