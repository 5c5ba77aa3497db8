package viz

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/primeviz/internal/control"
	"github.com/san-kum/primeviz/internal/engine"
)

const (
	defaultCols     = 80
	defaultRows     = 30
	panelWidth      = 44
	historyCapacity = 120
	gifPath         = "primeviz.gif"
)

type TickMsg time.Time

type Options struct {
	FPS   int
	Theme string
	// Frames stops the program after this many ticks; zero runs forever.
	Frames int
}

// Model is the terminal host: it ticks the engine into a braille raster and
// routes keys through the shared control bindings.
type Model struct {
	eng       *engine.Engine
	ctl       *control.Controls
	raster    *Raster
	theme     Theme
	styles    Styles
	fps       int
	maxFrames int
	ticks     int

	frameTimes []float64
	audioLevel []float64
	lastErr    error
	editor     *paramEditor
	showHelp   bool
	recorder   *Recorder
	recording  bool
}

// NewModel sizes the viewport to the default raster. The engine should
// already have a mode selected.
func NewModel(eng *engine.Engine, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		eng:        eng,
		ctl:        control.New(eng),
		theme:      theme,
		styles:     NewStyles(theme),
		fps:        fps,
		maxFrames:  opts.Frames,
		frameTimes: make([]float64, 0, historyCapacity),
		recorder:   &Recorder{},
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Raster() *Raster { return m.raster }
func (m Model) Theme() Theme    { return m.theme }
func (m Model) Paused() bool    { return m.ctl.Paused() }
func (m Model) Err() error      { return m.lastErr }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case TickMsg:
		if !m.ctl.Paused() {
			m.step(1 / float64(m.fps))
		}
		m.ticks++
		if m.maxFrames > 0 && m.ticks >= m.maxFrames {
			return m, m.quit()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.editor != nil {
		switch m.editor.key(key) {
		case editorApply:
			if err := m.editor.apply(); err != nil {
				m.editor.err = err
				return m, nil
			}
			m.lastErr = m.eng.Switch(m.eng.Current())
			m.editor = nil
		case editorCancel:
			m.editor = nil
		}
		return m, nil
	}

	switch key {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "p":
		if mode := m.eng.CurrentMode(); mode != nil {
			m.editor = newParamEditor(mode)
		}
		return m, nil
	case "g":
		m.recording = !m.recording
		if !m.recording {
			m.saveRecording()
		}
		return m, nil
	}

	res := m.ctl.Key(key)
	switch res.Action {
	case control.ActionQuit:
		return m, m.quit()
	case control.ActionTheme:
		m.setTheme(NextTheme(m.theme.Name))
	case control.ActionSwitch, control.ActionReinit:
		m.lastErr = res.Err
	case control.ActionForward:
		// Show the mode's reaction while paused without advancing time.
		if m.ctl.Paused() {
			m.step(0)
		}
	}
	return m, nil
}

func (m *Model) quit() tea.Cmd {
	if m.recording {
		m.recording = false
		m.saveRecording()
	}
	return tea.Quit
}

func (m *Model) saveRecording() {
	n := m.recorder.Len()
	if err := m.recorder.Save(gifPath); err != nil {
		m.lastErr = err
		return
	}
	if n > 0 {
		slog.Info("recording saved", "path", gifPath, "frames", n)
	}
}

func (m *Model) step(dt float64) {
	m.raster.Clear()
	err := m.eng.Tick(dt, m.raster)
	m.lastErr = err
	if err != nil {
		return
	}
	if m.recording {
		m.recorder.Capture(m.raster)
	}
	ms := float64(m.eng.LastFrame().Elapsed.Microseconds()) / 1000
	m.frameTimes = pushHistory(m.frameTimes, ms)
	if gs := m.eng.State(); gs.Params.AudioReactive {
		m.audioLevel = pushHistory(m.audioLevel, gs.AudioLevel())
	}
}

func pushHistory(h []float64, v float64) []float64 {
	if len(h) >= historyCapacity {
		h = h[1:]
	}
	return append(h, v)
}

// resize fits the raster to cols x rows cells and hands the sub-pixel size
// to the engine as the viewport.
func (m *Model) resize(cols, rows int) {
	cols, rows = max(cols, 16), max(rows, 8)
	if m.raster != nil && m.raster.Width == cols && m.raster.Height == rows {
		return
	}
	m.raster = NewRaster(cols, rows, m.theme.CanvasColor())
	if err := m.eng.State().SetViewport(m.raster.PixelWidth(), m.raster.PixelHeight()); err != nil {
		m.lastErr = err
	}
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = NewStyles(t)
	m.raster.SetBackground(t.CanvasColor())
}

func (m Model) status() (string, lipgloss.Style) {
	var me *engine.ModeError
	switch {
	case m.eng.Phase() == engine.PhaseHalted:
		return "HALTED", m.styles.Halted
	case errors.As(m.lastErr, &me):
		return "HALTED", m.styles.Halted
	case m.ctl.Paused():
		return "PAUSED", m.styles.Paused
	case m.recording:
		return fmt.Sprintf("REC %d", m.recorder.Len()), m.styles.Halted
	}
	return "RUNNING", m.styles.Running
}

func (m Model) View() string {
	st := m.styles
	canvasView := st.Canvas.Render(strings.TrimSuffix(m.raster.Render(), "\n"))

	var s strings.Builder
	title := "PRIMEVIZ"
	if mode := m.eng.CurrentMode(); mode != nil {
		title += " :: " + strings.ToUpper(mode.Name())
	}
	s.WriteString(st.Header.Render(title) + "\n")
	status, statusStyle := m.status()
	s.WriteString(statusStyle.Render(status) + "\n\n")

	if m.editor != nil {
		s.WriteString(m.editor.view(st))
		return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))
	}

	gs := m.eng.State()
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Mode", fmt.Sprintf("%d/%d", m.eng.Current()+1, len(m.eng.Modes())))
	row("Frame", fmt.Sprintf("%d", gs.Frame()))
	row("Time", fmt.Sprintf("%.2fs", gs.T()))
	row("Viewport", fmt.Sprintf("%dx%d", gs.Width(), gs.Height()))
	row("Theme", m.theme.Name)

	p := gs.Params
	s.WriteString("\n")
	row("Speed", fmt.Sprintf("%.2f", p.Speed))
	row("Zoom", fmt.Sprintf("%.2f", p.Zoom))
	row("Emphasis", fmt.Sprintf("%.2f", p.PrimeEmphasis))
	row("Thickness", fmt.Sprintf("%.2f", p.LineThickness))
	row("Blend", ProgressBar(p.ModeBlend, 10)+fmt.Sprintf(" %.1f", p.ModeBlend))
	audio := "off"
	if p.AudioReactive {
		audio = fmt.Sprintf("on %.2f %s", gs.AudioLevel(), SparklineChart(m.audioLevel, 16))
	}
	row("Audio", audio)

	if stats := m.eng.LastFrame().Stats; len(stats) > 0 {
		s.WriteString("\n")
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row(k, fmt.Sprintf("%.4g", stats[k]))
		}
	}

	if len(m.frameTimes) > 1 {
		chart := asciigraph.Plot(m.frameTimes, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("frame ms"))
		s.WriteString("\n" + st.Graph.Render(chart) + "\n")
	}

	if m.lastErr != nil {
		s.WriteString("\n" + st.Halted.Render(m.lastErr.Error()) + "\n")
	}

	s.WriteString(st.Help.Render("\n1-8:Mode SP:Pause P:Params\nT:Theme G:Record ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.Panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  1-8      - Switch mode              ║
║  Tab      - Next mode                ║
║  Space    - Pause/Resume             ║
║  + / -    - Speed                    ║
║  Up/Down  - Zoom                     ║
║  e / E    - Prime emphasis           ║
║  w / W    - Line thickness           ║
║  b / B    - Mode blend               ║
║  a        - Audio reactive           ║
║  r        - Re-init mode             ║
║  0        - Default controls         ║
║  p        - Edit mode parameters     ║
║  g        - Toggle GIF recording     ║
║  t        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the terminal host on the alternate screen.
func Run(eng *engine.Engine, opts Options) error {
	_, err := tea.NewProgram(NewModel(eng, opts), tea.WithAltScreen()).Run()
	return err
}
