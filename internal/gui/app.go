package gui

import (
	"fmt"
	"os"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/primeviz/internal/control"
	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/scene"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColError   = rl.NewColor(230, 70, 70, 255)
)

const (
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	maxFrameTime = 0.25
	telemetryLen = 200
)

type Options struct {
	Width, Height int
	FPS           int
}

// App is the windowed host. It ticks the engine into a display list and
// replays that list each frame, so a paused mode stays on screen.
type App struct {
	eng       *engine.Engine
	ctl       *control.Controls
	painter   *Painter
	frame     *scene.DisplayList
	font      rl.Font
	hasFont   bool
	telemetry []float64
	lastErr   error
}

// loadFont loads the Liberation Mono font when present and enables
// bilinear filtering. Without it raylib's default font is used.
func loadFont() (rl.Font, bool) {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.Font{}, false
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

// Run opens the window, sizes the engine viewport to it and blocks until
// the window is closed or q is pressed.
func Run(eng *engine.Engine, opts Options) error {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = eng.State().Width(), eng.State().Height()
	}
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), "primeviz")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(max(opts.FPS, 1)))
	rl.SetExitKey(0)

	if err := eng.State().SetViewport(w, h); err != nil {
		return err
	}

	font, ok := loadFont()
	if ok {
		defer rl.UnloadFont(font)
	}
	app := &App{
		eng:       eng,
		ctl:       control.New(eng),
		painter:   &Painter{Font: font, HasFont: ok},
		frame:     scene.NewDisplayList(),
		font:      font,
		hasFont:   ok,
		telemetry: make([]float64, 0, telemetryLen),
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the engine. It reports whether the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsWindowResized() {
		if err := a.eng.State().SetViewport(int(rl.GetScreenWidth()), int(rl.GetScreenHeight())); err != nil {
			a.lastErr = err
		}
	}

	forwarded := false
	for _, key := range pressedKeys() {
		res := a.ctl.Key(key)
		switch res.Action {
		case control.ActionQuit:
			return true
		case control.ActionSwitch, control.ActionReinit:
			a.lastErr = res.Err
		case control.ActionForward:
			forwarded = true
		}
	}

	switch {
	case !a.ctl.Paused():
		a.step(min(float64(rl.GetFrameTime()), maxFrameTime))
	case forwarded:
		a.step(0)
	}
	return false
}

func (a *App) step(dt float64) {
	a.frame.Reset()
	a.lastErr = a.eng.Tick(dt, a.frame)
	if a.lastErr != nil {
		return
	}
	if len(a.telemetry) >= telemetryLen {
		a.telemetry = a.telemetry[1:]
	}
	a.telemetry = append(a.telemetry, float64(a.eng.LastFrame().Elapsed.Microseconds())/1000)
}

// pressedKeys drains this frame's key presses as control key names.
func pressedKeys() []string {
	var keys []string
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		keys = append(keys, string(rune(ch)))
	}
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if rl.IsKeyPressed(rl.KeyTab) {
		if shift {
			keys = append(keys, "shift+tab")
		} else {
			keys = append(keys, "tab")
		}
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		keys = append(keys, "up")
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		keys = append(keys, "down")
	}
	return keys
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.frame.Replay(a.painter, 1)
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	h := int(rl.GetScreenHeight())
	w := int(rl.GetScreenWidth())

	a.drawText("primeviz", 20, 16, 24, ColSelect)
	if mode := a.eng.CurrentMode(); mode != nil {
		a.drawText(fmt.Sprintf(":: %d %s", a.eng.Current()+1, mode.Name()), 140, 20, 16, ColText)
	}

	status, col := "RUNNING", ColSelect
	switch {
	case a.eng.Phase() == engine.PhaseHalted:
		status, col = "HALTED", ColError
	case a.ctl.Paused():
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-120, 20, 16, col)

	a.drawText(control.Summary(a.eng.State().Params), 20, h-52, 14, ColAccent)
	a.drawText("[1-8] MODE  [SPACE] PAUSE  [+/-] SPEED  [B] BLEND  [Q] QUIT", 20, h-28, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-80, h-28, 14, ColTextDim)

	if a.lastErr != nil {
		a.drawText(a.lastErr.Error(), 20, 48, 14, ColError)
	}
	a.drawStats(w-220, 56)
	a.DrawTelemetry(w-420, h-120)
}

func (a *App) drawStats(x, y int) {
	stats := a.eng.LastFrame().Stats
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		a.drawText(fmt.Sprintf("%-14s %.4g", k, stats[k]), x, y+i*18, 14, ColText)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	if a.hasFont {
		rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
		return
	}
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}

// DrawTelemetry plots recent frame times as a line strip.
func (a *App) DrawTelemetry(rectX, rectY int) {
	if len(a.telemetry) < 2 {
		return
	}
	width, height := 400, 60

	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("%.2f ms", a.telemetry[len(a.telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
