// Package engine owns the mode registry and drives one frame at a time:
// advance the clock, run a pending init, update and draw the active mode,
// then replay the recorded output to the caller's renderer.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/primeviz/internal/scene"
)

// Phase is the engine's lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhasePendingInit
	PhaseActive
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePendingInit:
		return "pending_init"
	case PhaseActive:
		return "active"
	case PhaseHalted:
		return "halted"
	}
	return "unknown"
}

// Frame summarizes one completed tick.
type Frame struct {
	Index    int
	T        float64
	Dt       float64
	ModeID   string
	Commands int
	Census   map[scene.Kind]int
	Stats    map[string]float64
	Elapsed  time.Duration
}

// Observer is notified after every successful frame.
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithAudio sets the source sampled once per frame while AudioReactive
// is on.
func WithAudio(src scene.AudioSource) Option {
	return func(e *Engine) { e.audio = src }
}

type Engine struct {
	gs    *scene.GlobalState
	clock *scene.Clock
	modes []scene.Mode

	phase   Phase
	current int
	halts   []*ModeError

	prev, cur *scene.DisplayList

	audio     scene.AudioSource
	observers []Observer
	log       *slog.Logger
	last      Frame
}

// New takes ownership of the clock. The registry must hold exactly
// scene.ModeCount modes with distinct IDs.
func New(gs *scene.GlobalState, clock *scene.Clock, modes []scene.Mode, opts ...Option) (*Engine, error) {
	if gs == nil || clock == nil {
		return nil, ErrNoState
	}
	if len(modes) != scene.ModeCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRegistrySize, len(modes), scene.ModeCount)
	}
	seen := make(map[string]bool, len(modes))
	for _, m := range modes {
		if seen[m.ID()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMode, m.ID())
		}
		seen[m.ID()] = true
	}

	e := &Engine{
		gs:    gs,
		clock: clock,
		modes: append([]scene.Mode(nil), modes...),
		halts: make([]*ModeError, len(modes)),
		prev:  scene.NewDisplayList(),
		cur:   scene.NewDisplayList(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) State() *scene.GlobalState { return e.gs }
func (e *Engine) Phase() Phase              { return e.phase }
func (e *Engine) LastFrame() Frame          { return e.last }

// Modes returns the registry in order.
func (e *Engine) Modes() []scene.Mode {
	return append([]scene.Mode(nil), e.modes...)
}

// Current returns the selected mode index, or -1 before the first switch.
func (e *Engine) Current() int {
	if e.phase == PhaseUninitialized {
		return -1
	}
	return e.current
}

// CurrentMode returns the selected mode, or nil before the first switch.
func (e *Engine) CurrentMode() scene.Mode {
	if e.phase == PhaseUninitialized {
		return nil
	}
	return e.modes[e.current]
}

// HaltErr returns the failure that halted mode k, if any.
func (e *Engine) HaltErr(k int) error {
	if k < 0 || k >= len(e.halts) || e.halts[k] == nil {
		return nil
	}
	return e.halts[k]
}

// Switch selects mode k. Its Init runs at the start of the next Tick.
// Switching to a halted mode clears the halt so Init is retried.
func (e *Engine) Switch(k int) error {
	if k < 0 || k >= len(e.modes) {
		return fmt.Errorf("%w: index %d", ErrUnknownMode, k)
	}
	from := "none"
	if e.phase != PhaseUninitialized {
		from = e.modes[e.current].ID()
	}
	e.current = k
	e.halts[k] = nil
	e.phase = PhasePendingInit
	e.log.Info("mode switch", "from", from, "to", e.modes[k].ID(), "frame", e.gs.Frame())
	return nil
}

func (e *Engine) SwitchTo(id string) error {
	for k, m := range e.modes {
		if m.ID() == id {
			return e.Switch(k)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownMode, id)
}

// HandleInput forwards key to the active mode when it accepts input.
func (e *Engine) HandleInput(key string) bool {
	if e.phase != PhaseActive {
		return false
	}
	h, ok := e.modes[e.current].(scene.InputHandler)
	if !ok {
		return false
	}
	return h.HandleInput(key, e.gs)
}

// Tick advances one frame and replays its output to r. When ModeBlend is
// positive the previous frame is replayed first at alpha ModeBlend. A
// failure halts the active mode and is returned as *ModeError; ticking a
// halted mode keeps the clock running and returns the same error.
func (e *Engine) Tick(dt float64, r scene.Renderer) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidDt, dt)
	}
	if e.phase == PhaseUninitialized {
		return ErrNotStarted
	}
	start := time.Now()

	e.clock.Advance(dt)
	if e.gs.Params.AudioReactive {
		e.clock.SetAudioLevel(e.sampleAudio())
	}

	if e.phase == PhaseHalted {
		return e.halts[e.current]
	}

	mode := e.modes[e.current]
	if e.phase == PhasePendingInit {
		if err := e.call(mode, "init", func() error { return mode.Init(e.gs) }); err != nil {
			return err
		}
		e.phase = PhaseActive
		e.log.Debug("mode init", "mode", mode.ID(), "frame", e.gs.Frame())
	}

	if err := e.call(mode, "update", func() error { return mode.Update(dt, e.gs) }); err != nil {
		return err
	}

	e.cur.Reset()
	if err := e.call(mode, "draw", func() error { return mode.Draw(e.gs, e.cur) }); err != nil {
		e.cur.Reset()
		return err
	}

	if r != nil {
		if blend := e.gs.Params.ModeBlend; blend > 0 && e.prev.Len() > 0 {
			e.prev.Replay(r, blend)
		}
		e.cur.Replay(r, 1)
	}

	e.last = Frame{
		Index:    e.gs.Frame(),
		T:        e.gs.T(),
		Dt:       dt,
		ModeID:   mode.ID(),
		Commands: e.cur.Len(),
		Census:   e.cur.Census(),
		Elapsed:  time.Since(start),
	}
	if rep, ok := mode.(scene.Reporter); ok {
		e.last.Stats = rep.Stats()
	}
	e.prev, e.cur = e.cur, e.prev

	for _, o := range e.observers {
		o.OnFrame(e.last)
	}
	return nil
}

func (e *Engine) sampleAudio() float64 {
	if e.audio == nil {
		return 0
	}
	level, ok := e.audio.Level(e.gs.T())
	if !ok {
		return 0
	}
	return level
}

// call runs one lifecycle method with panic recovery and halts the mode
// on failure.
func (e *Engine) call(mode scene.Mode, phase string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrModePanic, rec)
		}
		if err != nil {
			err = e.halt(mode, phase, err)
		}
	}()
	return fn()
}

func (e *Engine) halt(mode scene.Mode, phase string, err error) error {
	me := &ModeError{ModeID: mode.ID(), Phase: phase, Frame: e.gs.Frame(), Err: err}
	e.halts[e.current] = me
	e.phase = PhaseHalted
	e.log.Error("mode halted", "mode", me.ModeID, "phase", phase, "frame", me.Frame, "error", err)
	return me
}
