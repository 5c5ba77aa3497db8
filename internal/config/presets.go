package config

import "github.com/san-kum/primeviz/internal/modes"

// GetPreset returns a config that starts in mode with the named preset
// applied, or nil when either is unknown.
func GetPreset(mode, name string) *Config {
	p, err := modes.Preset(mode, name)
	if err != nil {
		return nil
	}
	cfg := DefaultConfig()
	cfg.StartMode = mode
	cfg.Modes = map[string]map[string]float64{mode: p}
	return cfg
}

func ListPresets(mode string) []string {
	names := modes.PresetNames(mode)
	if len(names) == 0 {
		return nil
	}
	return names
}
