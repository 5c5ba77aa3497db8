package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/export"
	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/scene"
)

// Scenario is a scripted sequence of mode visits run without a display.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep selects a mode, adjusts controls and runs a number of
// frames. Params holds global controls by yaml name; ModeParams goes to
// the mode before its init.
type ScenarioStep struct {
	Mode       string             `yaml:"mode"`
	Preset     string             `yaml:"preset"`
	Frames     int                `yaml:"frames"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	ModeParams map[string]float64 `yaml:"mode_params"`
	Keys       []string           `yaml:"keys"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult summarizes the last frame of a step.
type StepResult struct {
	Mode   string
	Frames int
	T      float64
	Last   engine.Frame
	SVG    string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// RunScenario executes every step on eng in order. Cancellation is
// checked between frames.
func RunScenario(ctx context.Context, scenario *Scenario, eng *engine.Engine) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	gs := eng.State()

	for i, step := range scenario.Steps {
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "mode", step.Mode)

		idx := modes.Index(step.Mode)
		if idx < 0 {
			return results, fmt.Errorf("step %d: unknown mode %q", i+1, step.Mode)
		}
		mode := eng.Modes()[idx]

		if step.Preset != "" {
			p, err := modes.Preset(step.Mode, step.Preset)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			if err := modes.Apply(mode, p); err != nil {
				return results, fmt.Errorf("step %d preset: %w", i+1, err)
			}
		}
		if err := modes.Apply(mode, step.ModeParams); err != nil {
			return results, fmt.Errorf("step %d mode params: %w", i+1, err)
		}
		if err := applyGlobals(gs, step.Params); err != nil {
			return results, fmt.Errorf("step %d params: %w", i+1, err)
		}

		if err := eng.Switch(idx); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		dt := step.Dt
		if dt <= 0 {
			dt = 1.0 / 30
		}
		frames := max(step.Frames, 1)

		last := scene.NewDisplayList()
		for f := 0; f < frames; f++ {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			default:
			}

			last.Reset()
			if err := eng.Tick(dt, last); err != nil {
				return results, fmt.Errorf("step %d frame %d: %w", i+1, f+1, err)
			}
			// Keys are delivered once the mode is active.
			if f == 0 {
				for _, k := range step.Keys {
					eng.HandleInput(k)
				}
			}
		}

		res := StepResult{Mode: step.Mode, Frames: frames, T: gs.T(), Last: eng.LastFrame()}
		if step.SaveAs != "" {
			svg := export.FromDisplayList(last, gs.Width(), gs.Height(), palette.Black)
			if err := svg.WriteFile(step.SaveAs); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.SVG = step.SaveAs
		}
		results = append(results, res)
	}

	return results, nil
}

func applyGlobals(gs *scene.GlobalState, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	next := gs.Params
	for _, name := range names {
		if err := next.Set(name, params[name]); err != nil {
			return err
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	gs.Params = next
	return nil
}

// ParameterSweep runs one mode repeatedly across a range of values for a
// single mode parameter.
type ParameterSweep struct {
	Mode      string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Dt        float64
}

// SweepResult holds the final-frame summary for one swept value.
type SweepResult struct {
	ParamValue float64
	Commands   int
	Stats      map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, eng *engine.Engine) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	idx := modes.Index(sweep.Mode)
	if idx < 0 {
		return nil, fmt.Errorf("unknown mode %q", sweep.Mode)
	}
	mode := eng.Modes()[idx]

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}
	dt := sweep.Dt
	if dt <= 0 {
		dt = 1.0 / 30
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		if err := mode.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		if err := eng.Switch(idx); err != nil {
			return nil, err
		}

		for f := 0; f < max(sweep.Frames, 1); f++ {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			default:
			}
			if err := eng.Tick(dt, nil); err != nil {
				return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
			}
		}

		last := eng.LastFrame()
		results = append(results, SweepResult{
			ParamValue: paramVal,
			Commands:   last.Commands,
			Stats:      last.Stats,
		})
		slog.Debug("sweep", "step", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}
