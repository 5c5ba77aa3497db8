package engine_test

import (
	"fmt"

	"github.com/san-kum/primeviz/internal/geom"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/scene"
)

// fakeMode records every lifecycle call and can be told to fail or panic
// in a given phase.
type fakeMode struct {
	id string

	inits, updates, draws int
	seed                  int

	failIn  string
	panicIn string

	seenLevel float64
	seenTimes []scene.TimeSnapshot
	keys      []string
}

func newFake(id string) *fakeMode { return &fakeMode{id: id} }

func fakes(n int) []*fakeMode {
	out := make([]*fakeMode, n)
	for i := range out {
		out[i] = newFake(fmt.Sprintf("fake%d", i))
	}
	return out
}

func asModes(fs []*fakeMode) []scene.Mode {
	out := make([]scene.Mode, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func (f *fakeMode) ID() string                     { return f.id }
func (f *fakeMode) Name() string                   { return "Fake " + f.id }
func (f *fakeMode) Params() map[string]float64     { return map[string]float64{"seed": float64(f.seed)} }
func (f *fakeMode) SetParam(string, float64) error { return nil }

func (f *fakeMode) trip(phase string) error {
	if f.panicIn == phase {
		panic("boom in " + phase)
	}
	if f.failIn == phase {
		return fmt.Errorf("%w: %s failed", scene.ErrConfiguration, phase)
	}
	return nil
}

func (f *fakeMode) Init(gs *scene.GlobalState) error {
	f.inits++
	f.seed = 0
	return f.trip("init")
}

func (f *fakeMode) Update(dt float64, gs *scene.GlobalState) error {
	f.updates++
	f.seed++
	f.seenLevel = gs.AudioLevel()
	f.seenTimes = append(f.seenTimes, gs.Snapshot())
	return f.trip("update")
}

func (f *fakeMode) Draw(gs *scene.GlobalState, r scene.Renderer) error {
	f.draws++
	// One primitive before a possible failure, so partial output exists.
	r.Point(geom.Vec2{X: float64(f.seed)}, 1, palette.White)
	if err := f.trip("draw"); err != nil {
		return err
	}
	r.Line(geom.Vec2{}, geom.Vec2{X: 1, Y: 1}, 1, palette.White)
	return nil
}

func (f *fakeMode) HandleInput(key string, gs *scene.GlobalState) bool {
	f.keys = append(f.keys, key)
	return key == "x"
}

func (f *fakeMode) Stats() map[string]float64 {
	return map[string]float64{"seed": float64(f.seed)}
}

type fixedAudio struct {
	level float64
	ok    bool
}

func (a fixedAudio) Level(float64) (float64, bool) { return a.level, a.ok }
