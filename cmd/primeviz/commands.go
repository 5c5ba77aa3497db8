package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/primeviz/internal/analysis"
	"github.com/san-kum/primeviz/internal/automation"
	"github.com/san-kum/primeviz/internal/export"
	"github.com/san-kum/primeviz/internal/gui"
	"github.com/san-kum/primeviz/internal/modes"
	"github.com/san-kum/primeviz/internal/palette"
	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
	"github.com/san-kum/primeviz/internal/storage"
	"github.com/san-kum/primeviz/internal/viz"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	limit := 0
	if cmd.Flags().Changed("frames") {
		limit = cfg.Frames
	}
	return viz.Run(eng, viz.Options{FPS: cfg.FPS, Theme: cfg.Theme, Frames: limit})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	return gui.Run(eng, gui.Options{Width: cfg.Width, Height: cfg.Height, FPS: cfg.FPS})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := &storage.Recorder{}
	eng.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d frames...\n", cfg.StartMode, cfg.Frames)
	start := time.Now()

	dt := cfg.Dt()
	var runErr error
	for f := 0; f < cfg.Frames; f++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := eng.Tick(dt, nil); err != nil {
			runErr = err
			break
		}
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Mode:       cfg.StartMode,
		Dt:         dt,
		Width:      cfg.Width,
		Height:     cfg.Height,
		SieveMax:   cfg.SieveMax,
		Params:     eng.State().Params,
		ModeParams: eng.CurrentMode().Params(),
	}
	if runErr != nil {
		meta.Halted = runErr.Error()
	}
	runID, err := st.Save(meta, rec.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %s\n", humanize.Comma(int64(len(rec.Frames))))
	if stats := eng.LastFrame().Stats; len(stats) > 0 {
		fmt.Println("\nstats:")
		for _, k := range sortedKeys(stats) {
			fmt.Printf("  %s: %.6g\n", k, stats[k])
		}
	}

	if runErr != nil {
		return fmt.Errorf("run %s stopped early: %w", runID, runErr)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Printf("no runs found in %s\n", st.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tWHEN\tFRAMES\tDURATION\tVIEWPORT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Halted != "" {
			status = "halted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%dx%d\t%s\n",
			run.ID,
			run.Mode,
			humanize.Time(run.Timestamp),
			humanize.Comma(int64(run.Frames)),
			run.Duration,
			run.Width, run.Height,
			status,
		)
	}

	return w.Flush()
}

var fixedColumns = map[string]bool{"frame": true, "t": true, "dt": true}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("frames: %s\n\n", humanize.Comma(int64(len(table.Rows))))

	cols := columns
	if len(cols) == 0 {
		cols = append(cols, "elapsed_us")
		cols = append(cols, sortedKeys(meta.Stats)...)
	}

	for _, name := range cols {
		if fixedColumns[name] {
			continue
		}
		data := table.Column(name)
		if data == nil {
			return fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(table.Columns, ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgFile != "" && len(cols) > 0 {
		svg := export.SeriesToSVG(table.Column(cols[0]), 800, 240, "#00ccff")
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to analyze")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("mode: %s\n\n", meta.Mode)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tMEAN\tSTD\tMIN\tMAX\tMEDIAN\tPERIOD")
	for _, name := range table.Columns {
		if fixedColumns[name] {
			continue
		}
		data := table.Column(name)
		s := analysis.Summarize(data)
		period := "-"
		if p, ok := analysis.DominantPeriod(data, meta.Dt); ok {
			period = fmt.Sprintf("%.3fs", p)
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%s\n",
			name, s.Mean, s.Std, s.Min, s.Max, s.Median, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, name := range columns {
		data := table.Column(name)
		if data == nil {
			return fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(table.Columns, ", "))
		}
		mean := analysis.Summarize(data).Mean
		centered := make([]float64, len(data))
		for i, v := range data {
			centered[i] = v - mean
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(analysis.PowerSpectrum(centered),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+name+")"),
		))
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	dl := scene.NewDisplayList()
	for f := 0; f < max(cfg.Frames, 1); f++ {
		dl.Reset()
		if err := eng.Tick(cfg.Dt(), dl); err != nil {
			return err
		}
	}

	svg := export.FromDisplayList(dl, cfg.Width, cfg.Height, palette.Black)
	if err := svg.WriteFile(outFile); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s elements, frame %d)\n", outFile, humanize.Comma(int64(svg.Elements())), eng.State().Frame())
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, eng)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODE\tFRAMES\tT\tCOMMANDS\tSVG")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2fs\t%d\t%s\n", i+1, r.Mode, r.Frames, r.T, r.Last.Commands, r.SVG)
	}
	if ferr := w.Flush(); ferr != nil {
		return errors.Join(err, ferr)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Mode:      args[0],
		ParamName: args[1],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    cfg.Frames,
		Dt:        cfg.Dt(),
	}, eng)
	if err != nil {
		return err
	}

	statKeys := []string{}
	if len(results) > 0 {
		statKeys = sortedKeys(results[0].Stats)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOMMANDS", strings.ToUpper(args[1]))
	for _, k := range statKeys {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(k))
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d", r.ParamValue, r.Commands)
		for _, k := range statKeys {
			fmt.Fprintf(w, "\t%.4g", r.Stats[k])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func listModes(cmd *cobra.Command, args []string) error {
	oracle, err := prime.New(2)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tID\tNAME\tPARAMS")
	for i, m := range modes.NewRegistry(oracle).All() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, m.ID(), m.Name(), formatParams(m.Params()))
	}
	return w.Flush()
}

func listPrimes(cmd *cobra.Command, args []string) error {
	lo, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	hi, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	oracle, err := prime.New(max(hi, 2))
	if err != nil {
		return err
	}
	seq, err := oracle.PrimesInRange(lo, hi)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIME\tBASE60\tHUE")
	count := 0
	for p := range seq {
		digits := palette.Sexagesimal(p)
		parts := make([]string, len(digits))
		for i, d := range digits {
			parts[i] = fmt.Sprintf("%02d", d)
		}
		fmt.Fprintf(w, "%d\t%s\t%.0f°\n", p, strings.Join(parts, ":"), palette.StateToHue(p))
		count++
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%s primes in [%d, %d]\n", humanize.Comma(int64(count)), lo, hi)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
