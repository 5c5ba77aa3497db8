package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/primeviz/internal/config"
	"github.com/san-kum/primeviz/internal/engine"
	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
	"github.com/san-kum/primeviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	// Viewport and timing
	width    int
	height   int
	fps      int
	frames   int
	sieveMax int
	theme    string
	// Global controls
	speed    float64
	zoom     float64
	emphasis float64
	blend    float64
	audio    bool
	// Output
	outFile string
	svgFile string
	columns []string
	// Sweep
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "primeviz [mode]",
		Short:         "prime and base-60 visualization host",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "capture directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&preset, "preset", "", "mode preset to apply to the start mode")
	pf.IntVar(&width, "width", config.DefaultWidth, "viewport width")
	pf.IntVar(&height, "height", config.DefaultHeight, "viewport height")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to run (0 runs interactive hosts forever)")
	pf.IntVar(&sieveMax, "sieve-max", config.DefaultSieveMax, "largest integer the prime sieve covers")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "terminal theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.Float64Var(&speed, "speed", 1, "global speed")
	pf.Float64Var(&zoom, "zoom", 1, "global zoom")
	pf.Float64Var(&emphasis, "emphasis", scene.DefaultParams().PrimeEmphasis, "prime emphasis")
	pf.Float64Var(&blend, "blend", 0, "mode blend in [0,1]")
	pf.BoolVar(&audio, "audio", false, "enable the audio-reactive oscillator")

	tuiCmd := &cobra.Command{
		Use:   "tui [mode]",
		Short: "interactive terminal host",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui [mode]",
		Short: "interactive window host (raylib)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [mode]",
		Short: "run a mode headless and capture per-frame data",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captured runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot captured columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to plot (default: elapsed_us and mode stats)")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the first column as an SVG line chart")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize captured columns and find periodic behaviour",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&columns, "column", nil, "columns to show a power spectrum for")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a captured run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [mode]",
		Short: "render the last of --frames frames to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "frame.svg", "output file")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [mode] [param]",
		Short: "re-run a mode across a range of one parameter",
		Args:  cobra.ExactArgs(2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "list modes and their parameters",
		RunE:  listModes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for mode: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				params, _ := modes.Preset(args[0], p)
				fmt.Printf("  %-10s %s\n", p, formatParams(params))
			}
			return nil
		},
	}

	primesCmd := &cobra.Command{
		Use:   "primes [lo] [hi]",
		Short: "list primes in [lo, hi] with their base-60 digits",
		Args:  cobra.ExactArgs(2),
		RunE:  listPrimes,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, svgCmd,
		scriptCmd, sweepCmd, modesCmd, presetsCmd, primesCmd, initConfigCmd)
	return rootCmd
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then flags the user actually set, then the preset's mode
// params. An optional mode argument selects the start mode.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.StartMode = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("sieve-max") {
		cfg.SieveMax = sieveMax
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("speed") {
		cfg.Params.Speed = speed
	}
	if flags.Changed("zoom") {
		cfg.Params.Zoom = zoom
	}
	if flags.Changed("emphasis") {
		cfg.Params.PrimeEmphasis = emphasis
	}
	if flags.Changed("blend") {
		cfg.Params.ModeBlend = blend
	}
	if flags.Changed("audio") {
		cfg.Params.AudioReactive = audio
	}

	if preset != "" {
		p := config.GetPreset(cfg.StartMode, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.StartMode))
		}
		if cfg.Modes == nil {
			cfg.Modes = make(map[string]map[string]float64)
		}
		merged := make(map[string]float64)
		for k, v := range cfg.Modes[cfg.StartMode] {
			merged[k] = v
		}
		for k, v := range p.Modes[cfg.StartMode] {
			merged[k] = v
		}
		cfg.Modes[cfg.StartMode] = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine builds the sieve, the shared state and the registry, and
// selects the start mode.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	oracle, err := prime.New(cfg.SieveMax)
	if err != nil {
		return nil, err
	}
	gs, clock, err := scene.NewGlobalState(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	gs.Params = cfg.Params

	all := modes.NewRegistry(oracle).All()
	if err := cfg.ApplyModeParams(all); err != nil {
		return nil, err
	}

	eng, err := engine.New(gs, clock, all,
		engine.WithLogger(slog.Default()),
		engine.WithAudio(cfg.AudioSource()))
	if err != nil {
		return nil, err
	}
	if err := eng.SwitchTo(cfg.StartMode); err != nil {
		return nil, err
	}
	slog.Debug("engine ready", "mode", cfg.StartMode, "sieve_max", oracle.Max(), "primes", oracle.Count())
	return eng, nil
}

func formatParams(params map[string]float64) string {
	keys := sortedKeys(params)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}
