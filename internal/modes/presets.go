package modes

import (
	"fmt"
	"sort"
)

// Presets holds named parameter sets per mode ID.
var Presets = map[string]map[string]map[string]float64{
	"cellular": {
		"small":   {"width": 24, "height": 16, "stepsPerFrame": 1, "primeNeighborThreshold": 3},
		"dense":   {"width": 160, "height": 100, "stepsPerFrame": 1, "primeNeighborThreshold": 4},
		"fast":    {"width": 64, "height": 40, "stepsPerFrame": 8, "primeNeighborThreshold": 3},
		"starved": {"width": 64, "height": 40, "stepsPerFrame": 1, "primeNeighborThreshold": 9},
	},
	"tesseract": {
		"slow":    {"rotationSpeedXW": 0.2, "rotationSpeedYW": 0.1, "rotationSpeedZW": 0.05},
		"tumble":  {"rotationSpeedXW": 1.3, "rotationSpeedYW": 0.9, "rotationSpeedZW": 0.7},
		"xw_only": {"rotationSpeedXW": 0.8, "rotationSpeedYW": 0, "rotationSpeedZW": 0},
		"deep":    {"depth": 6, "scale": 1.8},
	},
	"phyllotaxis": {
		"sparse": {"count": 300, "spread": 1},
		"dense":  {"count": 5000, "spread": 1},
		"still":  {"spinRate": 0},
	},
	"ulam": {
		"small":  {"limit": 400, "revealRate": 60},
		"large":  {"limit": 40000, "revealRate": 4000},
		"static": {"limit": 3600, "revealRate": 0, "showComposites": 1},
	},
	"sacks": {
		"small": {"limit": 1000},
		"large": {"limit": 60000, "showSquares": 0},
	},
	"sexagesimal": {
		"realtime": {"timeScale": 1, "rings": 3},
		"fast":     {"timeScale": 3600, "rings": 4},
	},
	"flowfield": {
		"calm":      {"particles": 300, "frequency": 1.2, "stepSize": 0.05, "evolve": 0.05},
		"turbulent": {"particles": 2000, "frequency": 6, "octaves": 4, "stepSize": 0.2},
	},
	"harmonograph": {
		"simple": {"base": 2, "trail": 600, "decay": 0.1},
		"dense":  {"base": 97, "trail": 8000, "decay": 0.6},
		"frozen": {"base": 11, "drift": 0},
	},
}

// Preset looks up a named parameter set for a mode.
func Preset(mode, name string) (map[string]float64, error) {
	byName, ok := Presets[mode]
	if !ok {
		return nil, fmt.Errorf("no presets for mode: %s", mode)
	}
	p, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q for mode %s", name, mode)
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, nil
}

// PresetNames lists a mode's preset names in sorted order.
func PresetNames(mode string) []string {
	return sortedKeys(Presets[mode])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
