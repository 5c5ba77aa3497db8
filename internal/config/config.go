package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

const (
	DefaultWidth    = 960
	DefaultHeight   = 600
	DefaultFPS      = 30
	DefaultFrames   = 300
	DefaultTheme    = "dark"
	DefaultDataDir  = "data"
	DefaultStart    = "cellular"
	DefaultSieveMax = prime.DefaultMax
)

type Config struct {
	Width     int                           `yaml:"width"`
	Height    int                           `yaml:"height"`
	StartMode string                        `yaml:"start_mode"`
	FPS       int                           `yaml:"fps"`
	Frames    int                           `yaml:"frames"`
	SieveMax  int                           `yaml:"sieve_max"`
	Theme     string                        `yaml:"theme"`
	DataDir   string                        `yaml:"data_dir"`
	Audio     AudioConfig                   `yaml:"audio"`
	Params    scene.Params                  `yaml:"params"`
	Modes     map[string]map[string]float64 `yaml:"modes,omitempty"`
}

// AudioConfig drives the oscillator stand-in used when audio_reactive is on.
type AudioConfig struct {
	Freq   float64 `yaml:"freq"`
	Ripple float64 `yaml:"ripple"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		StartMode: DefaultStart,
		FPS:       DefaultFPS,
		Frames:    DefaultFrames,
		SieveMax:  DefaultSieveMax,
		Theme:     DefaultTheme,
		DataDir:   DefaultDataDir,
		Audio:     AudioConfig{Freq: 0.5, Ripple: 0.3},
		Params:    scene.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the engine and modes cannot check themselves.
// Per-mode parameter bounds are left to each mode's Init.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", scene.ErrParameterBounds, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", scene.ErrParameterBounds, c.FPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", scene.ErrParameterBounds, c.Frames)
	}
	if c.SieveMax < 2 {
		return fmt.Errorf("%w: sieve_max must be at least 2, got %d", scene.ErrParameterBounds, c.SieveMax)
	}
	if modes.Index(c.StartMode) < 0 {
		return fmt.Errorf("%w: unknown start_mode %q", scene.ErrParameterBounds, c.StartMode)
	}
	for id := range c.Modes {
		if modes.Index(id) < 0 {
			return fmt.Errorf("%w: params for unknown mode %q", scene.ErrParameterBounds, id)
		}
	}
	return c.Params.Validate()
}

// Dt is the fixed frame delta for headless runs.
func (c *Config) Dt() float64 {
	return 1.0 / float64(c.FPS)
}

// ApplyModeParams pushes the per-mode overrides onto a registry built in
// modes.Order.
func (c *Config) ApplyModeParams(all []scene.Mode) error {
	for _, m := range all {
		p, ok := c.Modes[m.ID()]
		if !ok {
			continue
		}
		if err := modes.Apply(m, p); err != nil {
			return fmt.Errorf("mode %s: %w", m.ID(), err)
		}
	}
	return nil
}

// AudioSource returns the oscillator stand-in configured for this run.
func (c *Config) AudioSource() scene.AudioSource {
	return scene.OscillatorSource{Freq: c.Audio.Freq, Ripple: c.Audio.Ripple}
}
