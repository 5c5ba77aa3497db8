package control

import (
	"fmt"
	"math"

	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/scene"
)

type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionSwitch
	ActionParams
	ActionReinit
	ActionTheme
	ActionForward
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionPause:
		return "pause"
	case ActionSwitch:
		return "switch"
	case ActionParams:
		return "params"
	case ActionReinit:
		return "reinit"
	case ActionTheme:
		return "theme"
	case ActionForward:
		return "forward"
	}
	return "none"
}

// Result reports what a key did. Err is set when a switch failed.
type Result struct {
	Action Action
	Err    error
}

const (
	scaleStep = 1.25
	blendStep = 0.1
)

// Controls holds the host-side interaction state for one engine.
type Controls struct {
	eng    *engine.Engine
	paused bool
}

func New(eng *engine.Engine) *Controls {
	return &Controls{eng: eng}
}

func (c *Controls) Paused() bool { return c.paused }

// Key applies one key press using bubbletea key names.
func (c *Controls) Key(key string) Result {
	gs := c.eng.State()

	switch key {
	case "q", "ctrl+c":
		return Result{Action: ActionQuit}
	case " ", "space":
		c.paused = !c.paused
		return Result{Action: ActionPause}
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return Result{Action: ActionSwitch, Err: c.eng.Switch(int(key[0] - '1'))}
	case "tab":
		return Result{Action: ActionSwitch, Err: c.eng.Switch(c.offset(1))}
	case "shift+tab":
		return Result{Action: ActionSwitch, Err: c.eng.Switch(c.offset(-1))}
	case "r":
		k := max(c.eng.Current(), 0)
		return Result{Action: ActionReinit, Err: c.eng.Switch(k)}
	case "t":
		return Result{Action: ActionTheme}
	case "0":
		audio := gs.Params.AudioReactive
		gs.Params = scene.DefaultParams()
		gs.Params.AudioReactive = audio
		return Result{Action: ActionParams}
	}

	if c.adjust(key, &gs.Params) {
		return Result{Action: ActionParams}
	}
	if c.eng.HandleInput(key) {
		return Result{Action: ActionForward}
	}
	return Result{}
}

func (c *Controls) offset(d int) int {
	n := len(c.eng.Modes())
	k := c.eng.Current()
	if k < 0 {
		k = 0
	}
	return ((k+d)%n + n) % n
}

// adjust edits a copy and commits it only when the result validates.
func (c *Controls) adjust(key string, p *scene.Params) bool {
	next := *p
	switch key {
	case "+", "=":
		next.Speed *= scaleStep
	case "-", "_":
		next.Speed /= scaleStep
	case "up":
		next.Zoom *= scaleStep
	case "down":
		next.Zoom /= scaleStep
	case "e":
		next.PrimeEmphasis = math.Min(1, next.PrimeEmphasis*scaleStep)
	case "E":
		next.PrimeEmphasis /= scaleStep
	case "w":
		next.LineThickness *= scaleStep
	case "W":
		next.LineThickness /= scaleStep
	case "b":
		next.ModeBlend = math.Min(1, next.ModeBlend+blendStep)
	case "B":
		next.ModeBlend = math.Max(0, next.ModeBlend-blendStep)
	case "a":
		next.AudioReactive = !next.AudioReactive
	default:
		return false
	}
	if next.Validate() != nil {
		return true
	}
	*p = next
	return true
}

// Summary renders the global controls on one line.
func Summary(p scene.Params) string {
	audio := "off"
	if p.AudioReactive {
		audio = "on"
	}
	return fmt.Sprintf("speed %.2f  zoom %.2f  emphasis %.2f  thickness %.2f  blend %.1f  audio %s",
		p.Speed, p.Zoom, p.PrimeEmphasis, p.LineThickness, p.ModeBlend, audio)
}
