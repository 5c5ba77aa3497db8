package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/primeviz/internal/config"
	"github.com/san-kum/primeviz/internal/storage"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(append(args, "--log-level", "error"))
	return root.Execute()
}

func TestRunCommandCapturesFrames(t *testing.T) {
	dir := t.TempDir()
	if err := execute(t, "run", "ulam", "--frames", "5", "--data", dir, "--width", "200", "--height", "100"); err != nil {
		t.Fatal(err)
	}

	runs, err := storage.New(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	meta := runs[0]
	if meta.Mode != "ulam" || meta.Frames != 5 || meta.Width != 200 || meta.Halted != "" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.ModeParams["limit"] == 0 {
		t.Errorf("mode params not captured: %v", meta.ModeParams)
	}

	if err := execute(t, "plot", meta.ID, "--data", dir, "--column", "elapsed_us", "--svg", filepath.Join(dir, "plot.svg")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plot.svg")); err != nil {
		t.Error(err)
	}
	if err := execute(t, "plot", meta.ID, "--data", dir, "--column", "nope"); err == nil {
		t.Error("expected unknown column error")
	}

	if err := execute(t, "analyze", meta.ID, "--data", dir, "--column", "commands"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "analyze", meta.ID, "--data", dir, "--column", "nope"); err == nil {
		t.Error("expected unknown column error from analyze")
	}
	if err := execute(t, "analyze", "missing-run", "--data", dir); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestRunCommandHalts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	cfg := config.DefaultConfig()
	cfg.Modes = map[string]map[string]float64{"cellular": {"width": 0}}
	if err := config.Save(cfgPath, cfg); err != nil {
		t.Fatal(err)
	}

	err := execute(t, "run", "--config", cfgPath, "--frames", "3", "--data", dir)
	if err == nil || !strings.Contains(err.Error(), "stopped early") {
		t.Fatalf("err = %v", err)
	}
	runs, _ := storage.New(dir).List()
	if len(runs) != 1 || runs[0].Halted == "" {
		t.Errorf("halted run not saved: %+v", runs)
	}
}

func TestSVGCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "t.svg")
	if err := execute(t, "svg", "tesseract", "--preset", "tumble", "--frames", "3", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "<line"); got != 32 {
		t.Errorf("lines = %d, want 32 edges", got)
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := execute(t, "init-config", path, "--fps", "12", "--speed", "2"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 12 || cfg.Params.Speed != 2 || cfg.Width != config.DefaultWidth {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := execute(t, "init-config", path, "--zoom", "0"); err == nil {
		t.Error("expected validation error for zero zoom")
	}
	if err := execute(t, "svg", "ulam", "--preset", "nope"); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestInfoCommands(t *testing.T) {
	for _, args := range [][]string{
		{"modes"},
		{"presets", "cellular"},
		{"primes", "1", "100"},
		{"sweep", "cellular", "primeNeighborThreshold", "--min", "1", "--max", "3", "--steps", "3", "--frames", "2"},
	} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
	if err := execute(t, "primes", "50", "10"); err == nil {
		t.Error("expected empty interval error")
	}
}
