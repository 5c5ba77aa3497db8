package engine_test

import (
	"errors"
	"io"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Engine", func() {
	var (
		gs    *scene.GlobalState
		clock *scene.Clock
		fs    []*fakeMode
		eng   *engine.Engine
		out   *scene.DisplayList
	)

	BeforeEach(func() {
		var err error
		gs, clock, err = scene.NewGlobalState(200, 100)
		Expect(err).NotTo(HaveOccurred())
		fs = fakes(scene.ModeCount)
		eng, err = engine.New(gs, clock, asModes(fs), engine.WithLogger(quiet))
		Expect(err).NotTo(HaveOccurred())
		out = scene.NewDisplayList()
	})

	Describe("construction", func() {
		It("requires exactly eight modes", func() {
			_, err := engine.New(gs, clock, asModes(fakes(7)))
			Expect(err).To(MatchError(engine.ErrRegistrySize))
		})

		It("rejects duplicate ids", func() {
			dup := fakes(scene.ModeCount)
			dup[5].id = dup[2].id
			_, err := engine.New(gs, clock, asModes(dup))
			Expect(err).To(MatchError(engine.ErrDuplicateMode))
		})

		It("requires the state and its clock", func() {
			_, err := engine.New(nil, clock, asModes(fs))
			Expect(err).To(MatchError(engine.ErrNoState))
		})

		It("starts uninitialized", func() {
			Expect(eng.Phase()).To(Equal(engine.PhaseUninitialized))
			Expect(eng.Current()).To(Equal(-1))
			Expect(eng.CurrentMode()).To(BeNil())
			Expect(eng.Modes()).To(HaveLen(scene.ModeCount))
		})
	})

	Describe("ticking", func() {
		It("refuses to tick before a mode is selected", func() {
			Expect(eng.Tick(0.1, out)).To(MatchError(engine.ErrNotStarted))
			Expect(gs.Frame()).To(Equal(0))
		})

		DescribeTable("rejects bad dt",
			func(dt float64) {
				Expect(eng.Switch(0)).To(Succeed())
				Expect(eng.Tick(dt, out)).To(MatchError(engine.ErrInvalidDt))
				Expect(gs.Frame()).To(Equal(0))
			},
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		It("advances time before the mode updates", func() {
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.25, out)).To(Succeed())
			Expect(eng.Tick(0.5, out)).To(Succeed())

			Expect(gs.T()).To(BeNumerically("~", 0.75, 1e-12))
			Expect(gs.Frame()).To(Equal(2))
			Expect(gs.Dt()).To(Equal(0.5))
			Expect(fs[0].seenTimes).To(Equal([]scene.TimeSnapshot{
				{T: 0.25, Frame: 1, Dt: 0.25},
				{T: 0.75, Frame: 2, Dt: 0.5},
			}))
		})

		It("accepts a zero dt", func() {
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0, out)).To(Succeed())
			Expect(gs.T()).To(BeZero())
			Expect(gs.Frame()).To(Equal(1))
		})

		It("replays the drawn frame to the renderer", func() {
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(out.Census()).To(Equal(map[scene.Kind]int{scene.KindPoint: 1, scene.KindLine: 1}))
		})
	})

	Describe("mode switching", func() {
		It("inits exactly once before the first update", func() {
			Expect(eng.Switch(3)).To(Succeed())
			Expect(eng.Phase()).To(Equal(engine.PhasePendingInit))
			Expect(fs[3].inits).To(Equal(0))

			for i := 0; i < 5; i++ {
				Expect(eng.Tick(0.1, out)).To(Succeed())
			}
			Expect(eng.Phase()).To(Equal(engine.PhaseActive))
			Expect(fs[3].inits).To(Equal(1))
			Expect(fs[3].updates).To(Equal(5))
		})

		It("only inits the last of several pending switches", func() {
			Expect(eng.Switch(1)).To(Succeed())
			Expect(eng.Switch(2)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[1].inits).To(Equal(0))
			Expect(fs[2].inits).To(Equal(1))
		})

		It("re-inits a mode when it is revisited", func() {
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].seed).To(Equal(2))

			Expect(eng.SwitchTo("fake4")).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].updates).To(Equal(2))

			Expect(eng.SwitchTo("fake0")).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].inits).To(Equal(2))
			Expect(fs[0].seed).To(Equal(1))
		})

		It("rejects unknown modes", func() {
			Expect(eng.Switch(-1)).To(MatchError(engine.ErrUnknownMode))
			Expect(eng.Switch(scene.ModeCount)).To(MatchError(engine.ErrUnknownMode))
			Expect(eng.SwitchTo("nope")).To(MatchError(engine.ErrUnknownMode))
			Expect(eng.Phase()).To(Equal(engine.PhaseUninitialized))
		})
	})

	Describe("failure isolation", func() {
		It("halts a mode whose update fails", func() {
			fs[2].failIn = "update"
			Expect(eng.Switch(2)).To(Succeed())

			err := eng.Tick(0.1, out)
			var me *engine.ModeError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(me.ModeID).To(Equal("fake2"))
			Expect(me.Phase).To(Equal("update"))
			Expect(me.Frame).To(Equal(1))
			Expect(err).To(MatchError(scene.ErrConfiguration))
			Expect(eng.Phase()).To(Equal(engine.PhaseHalted))
			Expect(eng.HaltErr(2)).To(Equal(err))
			Expect(out.Len()).To(BeZero())

			// Time keeps flowing but the halted mode is not called again.
			Expect(eng.Tick(0.1, out)).To(Equal(err))
			Expect(gs.Frame()).To(Equal(2))
			Expect(fs[2].updates).To(Equal(1))
		})

		It("leaves other modes and params untouched", func() {
			gs.Params.Zoom = 2.5
			fs[1].failIn = "init"
			Expect(eng.Switch(1)).To(Succeed())
			Expect(eng.Tick(0.1, out)).NotTo(Succeed())

			Expect(eng.Switch(6)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[6].updates).To(Equal(1))
			Expect(gs.Params.Zoom).To(Equal(2.5))
			Expect(eng.HaltErr(1)).To(HaveOccurred())
			Expect(eng.HaltErr(6)).NotTo(HaveOccurred())
		})

		It("recovers panics and discards partial output", func() {
			fs[4].panicIn = "draw"
			Expect(eng.Switch(4)).To(Succeed())

			err := eng.Tick(0.1, out)
			Expect(err).To(MatchError(engine.ErrModePanic))
			Expect(err.Error()).To(ContainSubstring("boom in draw"))
			Expect(out.Len()).To(BeZero())
		})

		It("retries init when a halted mode is selected again", func() {
			fs[5].failIn = "init"
			Expect(eng.Switch(5)).To(Succeed())
			Expect(eng.Tick(0.1, out)).NotTo(Succeed())

			fs[5].failIn = ""
			Expect(eng.Switch(5)).To(Succeed())
			Expect(eng.HaltErr(5)).NotTo(HaveOccurred())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[5].inits).To(Equal(2))
			Expect(eng.Phase()).To(Equal(engine.PhaseActive))
		})
	})

	Describe("mode blend", func() {
		It("replays the previous frame faded before the current one", func() {
			gs.Params.ModeBlend = 0.5
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(out.Len()).To(Equal(2))

			out.Reset()
			Expect(eng.Tick(0.1, out)).To(Succeed())
			cmds := out.Commands()
			Expect(cmds).To(HaveLen(4))

			faded := palette.White.WithAlpha(0.5)
			Expect(cmds[0].Color).To(Equal(faded))
			Expect(cmds[0].A.X).To(Equal(1.0)) // seed after the first update
			Expect(cmds[2].Color).To(Equal(palette.White))
			Expect(cmds[2].A.X).To(Equal(2.0))
		})

		It("does not replay anything when blend is zero", func() {
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			out.Reset()
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(out.Len()).To(Equal(2))
		})
	})

	Describe("audio", func() {
		It("feeds the level only while audio reactive", func() {
			var err error
			eng, err = engine.New(gs, clock, asModes(fs),
				engine.WithLogger(quiet), engine.WithAudio(fixedAudio{level: 0.7, ok: true}))
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Switch(0)).To(Succeed())

			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].seenLevel).To(BeZero())

			gs.Params.AudioReactive = true
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].seenLevel).To(Equal(0.7))
		})

		It("treats a missing level as silence", func() {
			var err error
			eng, err = engine.New(gs, clock, asModes(fs),
				engine.WithLogger(quiet), engine.WithAudio(fixedAudio{level: 0.9, ok: false}))
			Expect(err).NotTo(HaveOccurred())
			gs.Params.AudioReactive = true
			Expect(eng.Switch(0)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(fs[0].seenLevel).To(BeZero())
		})
	})

	Describe("observers and input", func() {
		It("reports each completed frame", func() {
			var frames []engine.Frame
			eng.AddObserver(engine.ObserverFunc(func(f engine.Frame) { frames = append(frames, f) }))
			Expect(eng.Switch(7)).To(Succeed())
			Expect(eng.Tick(0.2, out)).To(Succeed())
			Expect(eng.Tick(0.2, out)).To(Succeed())

			Expect(frames).To(HaveLen(2))
			last := eng.LastFrame()
			Expect(last.Index).To(Equal(2))
			Expect(last.ModeID).To(Equal("fake7"))
			Expect(last.Commands).To(Equal(2))
			Expect(last.Stats).To(HaveKeyWithValue("seed", 2.0))
		})

		It("forwards keys to the active mode", func() {
			Expect(eng.HandleInput("x")).To(BeFalse())
			Expect(eng.Switch(3)).To(Succeed())
			Expect(eng.Tick(0.1, out)).To(Succeed())
			Expect(eng.HandleInput("x")).To(BeTrue())
			Expect(eng.HandleInput("y")).To(BeFalse())
			Expect(fs[3].keys).To(Equal([]string{"x", "y"}))
		})
	})

	Describe("with the real registry", func() {
		It("runs every mode through a switch cycle", func() {
			oracle, err := prime.New(prime.DefaultMax)
			Expect(err).NotTo(HaveOccurred())
			eng, err = engine.New(gs, clock, modes.NewRegistry(oracle).All(), engine.WithLogger(quiet))
			Expect(err).NotTo(HaveOccurred())

			for k := range scene.ModeCount {
				Expect(eng.Switch(k)).To(Succeed())
				for i := 0; i < 3; i++ {
					out.Reset()
					Expect(eng.Tick(1.0/60, out)).To(Succeed())
				}
				Expect(out.Len()).To(BeNumerically(">", 0), modes.Order[k])
			}
			Expect(gs.Frame()).To(Equal(3 * scene.ModeCount))
		})
	})
})
