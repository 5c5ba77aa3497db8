package viz

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/primeviz/internal/scene"
)

// paramEditor edits the active mode's parameters. Changes are collected
// locally and pushed to the mode on apply, which the caller follows with a
// re-init so they are validated.
type paramEditor struct {
	mode    scene.Mode
	names   []string
	values  map[string]float64
	cursor  int
	editing bool
	editBuf string
	err     error
}

func newParamEditor(mode scene.Mode) *paramEditor {
	values := mode.Params()
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	return &paramEditor{mode: mode, names: names, values: values}
}

type editorResult int

const (
	editorOpen editorResult = iota
	editorApply
	editorCancel
)

func (e *paramEditor) key(k string) editorResult {
	if e.editing {
		switch k {
		case "enter":
			v, err := strconv.ParseFloat(e.editBuf, 64)
			if err != nil {
				e.err = fmt.Errorf("%s: %w", e.names[e.cursor], err)
			} else {
				e.values[e.names[e.cursor]] = v
				e.err = nil
			}
			e.editing, e.editBuf = false, ""
		case "esc":
			e.editing, e.editBuf = false, ""
		case "backspace":
			if len(e.editBuf) > 0 {
				e.editBuf = e.editBuf[:len(e.editBuf)-1]
			}
		default:
			if len(k) == 1 && strings.ContainsAny(k, "0123456789.-e") {
				e.editBuf += k
			}
		}
		return editorOpen
	}

	if len(e.names) == 0 {
		if k == "esc" || k == "p" || k == "s" || k == "enter" {
			return editorCancel
		}
		return editorOpen
	}

	switch k {
	case "esc", "p":
		return editorCancel
	case "s":
		return editorApply
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.names)-1 {
			e.cursor++
		}
	case "left", "h":
		e.nudge(-1)
	case "right", "l":
		e.nudge(1)
	case "enter":
		e.editing = true
		e.editBuf = strconv.FormatFloat(e.values[e.names[e.cursor]], 'g', -1, 64)
	}
	return editorOpen
}

// nudge moves whole-number values by whole steps and others by ten percent.
func (e *paramEditor) nudge(dir float64) {
	name := e.names[e.cursor]
	v := e.values[name]
	var step float64
	switch {
	case v == math.Trunc(v):
		step = math.Max(1, math.Round(math.Abs(v)*0.1))
	default:
		step = math.Abs(v) * 0.1
	}
	e.values[name] = v + dir*step
}

// apply pushes every value to the mode and stops at the first rejection.
func (e *paramEditor) apply() error {
	for _, name := range e.names {
		if err := e.mode.SetParam(name, e.values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (e *paramEditor) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Active.Render(strings.ToUpper(e.mode.Name())) + "\n\n")
	if len(e.names) == 0 {
		b.WriteString(st.Label.Render("(none)") + "\n")
	}
	for i, name := range e.names {
		val := strconv.FormatFloat(e.values[name], 'g', 6, 64)
		if e.editing && i == e.cursor {
			val = e.editBuf + "_"
		}
		line := fmt.Sprintf("%-22s %10s", name, val)
		if i == e.cursor {
			b.WriteString(st.Active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.Label.UnsetWidth().Render(line) + "\n")
		}
	}
	if e.err != nil {
		b.WriteString("\n" + st.Halted.Render(e.err.Error()) + "\n")
	}
	b.WriteString(st.Help.Render("\nj/k select  h/l adjust  enter type\ns apply  esc cancel"))
	return b.String()
}
