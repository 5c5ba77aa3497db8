package scene

import (
	"fmt"
	"math"
)

// Params are the global controls shared by every mode. The UI layer is the
// only writer; modes and the engine read them.
type Params struct {
	Speed         float64 `yaml:"speed"`
	Zoom          float64 `yaml:"zoom"`
	PrimeEmphasis float64 `yaml:"prime_emphasis"`
	LineThickness float64 `yaml:"line_thickness"`
	ModeBlend     float64 `yaml:"mode_blend"`
	AudioReactive bool    `yaml:"audio_reactive"`
}

func DefaultParams() Params {
	return Params{
		Speed:         1.0,
		Zoom:          1.0,
		PrimeEmphasis: 0.6,
		LineThickness: 1.0,
		ModeBlend:     0.0,
	}
}

func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"speed", p.Speed},
		{"zoom", p.Zoom},
		{"prime_emphasis", p.PrimeEmphasis},
		{"line_thickness", p.LineThickness},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrParameterBounds, f.name, f.v)
		}
	}
	if p.PrimeEmphasis > 1 {
		return fmt.Errorf("%w: prime_emphasis must be at most 1, got %g", ErrParameterBounds, p.PrimeEmphasis)
	}
	if !(p.ModeBlend >= 0 && p.ModeBlend <= 1) {
		return fmt.Errorf("%w: mode_blend must be in [0,1], got %g", ErrParameterBounds, p.ModeBlend)
	}
	return nil
}

// ParamNames lists the keys accepted by Set, in yaml spelling.
var ParamNames = []string{"speed", "zoom", "prime_emphasis", "line_thickness", "mode_blend", "audio_reactive"}

// Set assigns a control by its yaml name. audio_reactive takes 0 or 1.
// The result is not validated; call Validate afterwards.
func (p *Params) Set(name string, v float64) error {
	switch name {
	case "speed":
		p.Speed = v
	case "zoom":
		p.Zoom = v
	case "prime_emphasis":
		p.PrimeEmphasis = v
	case "line_thickness":
		p.LineThickness = v
	case "mode_blend":
		p.ModeBlend = v
	case "audio_reactive":
		p.AudioReactive = v != 0
	default:
		return fmt.Errorf("%w: global.%s", ErrUnknownParam, name)
	}
	return nil
}

// GlobalState is the process-wide context passed by reference into every
// mode call. Time fields and the audio level have no setters here; they are
// written only through the Clock returned alongside the state, which the
// engine owns. Params and the viewport belong to the UI layer.
type GlobalState struct {
	t          float64
	frame      int
	dt         float64
	audioLevel float64

	width, height int

	Params Params
}

// Clock is the single writer of GlobalState's time fields.
type Clock struct {
	gs *GlobalState
}

// NewGlobalState creates the shared state with default params and the
// clock that advances it.
func NewGlobalState(width, height int) (*GlobalState, *Clock, error) {
	gs := &GlobalState{Params: DefaultParams()}
	if err := gs.SetViewport(width, height); err != nil {
		return nil, nil, err
	}
	return gs, &Clock{gs: gs}, nil
}

func (g *GlobalState) T() float64      { return g.t }
func (g *GlobalState) Frame() int      { return g.frame }
func (g *GlobalState) Dt() float64     { return g.dt }
func (g *GlobalState) Width() int      { return g.width }
func (g *GlobalState) Height() int     { return g.height }
func (g *GlobalState) AspectRatio() float64 {
	return float64(g.width) / float64(g.height)
}

// AudioLevel is the reactive input for the current frame, or zero when
// AudioReactive is off or no source reported a level.
func (g *GlobalState) AudioLevel() float64 {
	if !g.Params.AudioReactive {
		return 0
	}
	return g.audioLevel
}

// MinDim returns the smaller viewport dimension.
func (g *GlobalState) MinDim() float64 {
	return float64(min(g.width, g.height))
}

func (g *GlobalState) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrViewport, width, height)
	}
	g.width, g.height = width, height
	return nil
}

// TimeSnapshot captures the engine-owned fields so callers can verify a
// mode left them untouched.
type TimeSnapshot struct {
	T     float64
	Frame int
	Dt    float64
}

func (g *GlobalState) Snapshot() TimeSnapshot {
	return TimeSnapshot{T: g.t, Frame: g.frame, Dt: g.dt}
}

// Advance adds dt to the elapsed time and bumps the frame counter.
func (c *Clock) Advance(dt float64) {
	c.gs.t += dt
	c.gs.frame++
	c.gs.dt = dt
}

// SetAudioLevel records this frame's reactive level; negative or NaN
// values are stored as zero.
func (c *Clock) SetAudioLevel(level float64) {
	if math.IsNaN(level) || level < 0 {
		level = 0
	}
	c.gs.audioLevel = level
}

// Reset returns the time fields to zero.
func (c *Clock) Reset() {
	c.gs.t, c.gs.frame, c.gs.dt, c.gs.audioLevel = 0, 0, 0, 0
}
