// Package scene defines the contract between the engine and its modes: the
// shared GlobalState, the Mode lifecycle, the Renderer collaborator and the
// recorded DisplayList.
//
// # Ownership
//
// There is one GlobalState per process. The engine owns its time fields
// through [Clock]; the UI layer owns Params and the viewport. Modes receive
// the state by reference and only read it.
//
// # Lifecycle
//
//	Init(gs)        // once after every switch, must fully reseed private state
//	Update(dt, gs)  // once per frame, mutates only the mode's own state
//	Draw(gs, r)     // once per frame, emits primitives to r
package scene

import (
	"fmt"
	"math"
	"sort"
)

// ModeCount is the fixed size of the mode registry.
const ModeCount = 8

// Mode is a self-contained simulation plus its draw procedure.
type Mode interface {
	ID() string
	Name() string
	Params() map[string]float64
	SetParam(name string, value float64) error
	Init(gs *GlobalState) error
	Update(dt float64, gs *GlobalState) error
	Draw(gs *GlobalState, r Renderer) error
}

// InputHandler is implemented by modes that react to keys beyond the
// global bindings.
type InputHandler interface {
	HandleInput(key string, gs *GlobalState) bool
}

// Reporter is implemented by modes that expose per-frame statistics.
type Reporter interface {
	Stats() map[string]float64
}

// AudioSource supplies the reactive level for the frame at time t. A false
// second result means no level is available and the mode sees zero.
type AudioSource interface {
	Level(t float64) (float64, bool)
}

// OscillatorSource is a deterministic stand-in for live audio: a slow
// rectified sine with a faster ripple, in [0, 1].
type OscillatorSource struct {
	Freq   float64
	Ripple float64
}

func (o OscillatorSource) Level(t float64) (float64, bool) {
	f := o.Freq
	if f <= 0 {
		f = 0.5
	}
	base := math.Abs(math.Sin(2 * math.Pi * f * t))
	ripple := 0.5 + 0.5*math.Sin(2*math.Pi*f*7*t)
	return base*(1-o.Ripple) + ripple*o.Ripple*base, true
}

// ParamSpec describes one tunable mode parameter. Booleans are encoded as
// 0/1 with Min 0 and Max 1.
type ParamSpec struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
	Integer bool
}

// ParamSet stores a mode's tunables. SetParam accepts any finite value for
// a known name; bounds are enforced by Validate, which modes call from
// Init so bad configuration fails fast there.
type ParamSet struct {
	mode   string
	specs  []ParamSpec
	values map[string]float64
}

func NewParamSet(mode string, specs ...ParamSpec) *ParamSet {
	p := &ParamSet{mode: mode, specs: specs, values: make(map[string]float64, len(specs))}
	p.Reset()
	return p
}

func (p *ParamSet) Reset() {
	for _, s := range p.specs {
		p.values[s.Name] = s.Default
	}
}

func (p *ParamSet) Params() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Names returns the parameter names in sorted order.
func (p *ParamSet) Names() []string {
	names := make([]string, 0, len(p.specs))
	for _, s := range p.specs {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

func (p *ParamSet) SetParam(name string, value float64) error {
	if _, ok := p.values[name]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownParam, p.mode, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ConfigError{Mode: p.mode, Param: name, Value: value, Wrapped: ErrParameterBounds}
	}
	p.values[name] = value
	return nil
}

func (p *ParamSet) Get(name string) float64 { return p.values[name] }
func (p *ParamSet) Int(name string) int     { return int(math.Round(p.values[name])) }
func (p *ParamSet) Bool(name string) bool   { return p.values[name] != 0 }

// Validate checks every value against its spec and wraps failures in
// ErrConfiguration.
func (p *ParamSet) Validate() error {
	for _, s := range p.specs {
		v := p.values[s.Name]
		bad := v < s.Min || v > s.Max
		if s.Integer && v != math.Trunc(v) {
			bad = true
		}
		if bad {
			return &ConfigError{
				Mode:    p.mode,
				Param:   s.Name,
				Value:   v,
				Wrapped: fmt.Errorf("%w: want [%g, %g]", ErrConfiguration, s.Min, s.Max),
			}
		}
	}
	return nil
}
