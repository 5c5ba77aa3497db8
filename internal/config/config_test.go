package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StartMode != "cellular" {
		t.Errorf("expected start mode cellular, got %s", cfg.StartMode)
	}
	if cfg.Dt() <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primeviz.yaml")
	cfg := DefaultConfig()
	cfg.StartMode = "tesseract"
	cfg.Params.Zoom = 1.5
	cfg.Params.AudioReactive = true
	cfg.Modes = map[string]map[string]float64{"tesseract": {"depth": 4}}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.StartMode != "tesseract" || got.Params.Zoom != 1.5 || !got.Params.AudioReactive {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Modes["tesseract"]["depth"] != 4 {
		t.Errorf("mode params = %v", got.Modes)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("start_mode: ulam\nparams:\n  speed: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StartMode != "ulam" || cfg.Params.Speed != 2 {
		t.Errorf("explicit fields not loaded: %+v", cfg)
	}
	if cfg.Width != DefaultWidth || cfg.Params.Zoom != 1 {
		t.Errorf("defaults not kept: width=%d zoom=%g", cfg.Width, cfg.Params.Zoom)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative frames", func(c *Config) { c.Frames = -1 }},
		{"tiny sieve", func(c *Config) { c.SieveMax = 1 }},
		{"unknown start", func(c *Config) { c.StartMode = "mandelbrot" }},
		{"unknown mode params", func(c *Config) { c.Modes = map[string]map[string]float64{"x": {}} }},
		{"blend above one", func(c *Config) { c.Params.ModeBlend = 1.2 }},
		{"zero zoom", func(c *Config) { c.Params.Zoom = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, scene.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestApplyModeParams(t *testing.T) {
	oracle, err := prime.New(1000)
	if err != nil {
		t.Fatal(err)
	}
	all := modes.NewRegistry(oracle).All()

	cfg := DefaultConfig()
	cfg.Modes = map[string]map[string]float64{"cellular": {"width": 10}}
	if err := cfg.ApplyModeParams(all); err != nil {
		t.Fatal(err)
	}
	if all[0].Params()["width"] != 10 {
		t.Errorf("width = %g", all[0].Params()["width"])
	}

	cfg.Modes = map[string]map[string]float64{"cellular": {"bogus": 1}}
	if err := cfg.ApplyModeParams(all); !errors.Is(err, scene.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cellular", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.StartMode != "cellular" {
		t.Errorf("expected start mode cellular, got %s", cfg.StartMode)
	}
	if cfg.Modes["cellular"]["width"] != 24 {
		t.Errorf("expected width 24, got %g", cfg.Modes["cellular"]["width"])
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("cellular", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "small"); cfg != nil {
		t.Error("expected nil for nonexistent mode")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("tesseract"); len(presets) == 0 {
		t.Error("expected presets for tesseract")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent mode")
	}
}
