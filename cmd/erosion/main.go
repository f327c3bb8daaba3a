package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/erosion/internal/automation"
	"github.com/san-kum/erosion/internal/config"
	"github.com/san-kum/erosion/internal/dynamo"
	"github.com/san-kum/erosion/internal/experiment"
	"github.com/san-kum/erosion/internal/export"
	"github.com/san-kum/erosion/internal/gui"
	"github.com/san-kum/erosion/internal/metrics"
	"github.com/san-kum/erosion/internal/optim"
	"github.com/san-kum/erosion/internal/sim"
	"github.com/san-kum/erosion/internal/storage"
	"github.com/san-kum/erosion/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger

	// Arena flags, shared by every command that builds a config.
	preset     string
	configFile string
	seed       int64
	bodies     int
	cols, rows int
	width      float64
	height     float64
	minSpeed   float64
	maxSpeed   float64
	pattern    string
	frameDt    float64
	jitter     float64
	maxFrames  int
	autoPause  bool

	// Command specific.
	noSave   bool
	runs     int
	theme    string
	series   []string
	outPath  string
	withData bool

	snapshotOut string
	svgOut      string
	svgSeries   string

	sweepBodies []float64
	sweepSpeeds []float64
	objective   string
)

// main registers commands and flags, then executes the root command. It
// exits with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "erosion",
		Short:         "destructible arena ball simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".erosion", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store its samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addArenaFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the arena in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addArenaFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "genuary", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "watch the arena in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addArenaFlags(guiCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run several seeds in parallel and compare them",
		Args:  cobra.NoArgs,
		RunE:  benchArena,
	}
	addArenaFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run samples",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"coverage", "painted", "substeps"}, "series to plot ("+strings.Join(dynamo.SeriesNames, ", ")+")")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, optionally with samples, as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withData, "samples", false, "include samples")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write or show arena configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  configInit,
	}
	addArenaFlags(configInitCmd)
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE:  configShow,
	}
	addArenaFlags(configShowCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write the final arena as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshotArena,
	}
	addArenaFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "arena.svg", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one run series as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgSeries, "series", "coverage", "series to draw ("+strings.Join(dynamo.SeriesNames, ", ")+")")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "write to file instead of stdout")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search body count and max speed",
		Args:  cobra.NoArgs,
		RunE:  sweepArena,
	}
	addArenaFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepBodies, "sweep-bodies", []float64{5, 15, 30}, "body counts to try")
	sweepCmd.Flags().Float64SliceVar(&sweepSpeeds, "sweep-speeds", []float64{500, 1000, 2000}, "max speeds to try")
	sweepCmd.Flags().StringVar(&objective, "objective", "clear_time", "clear_time or a metric name to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario and store every step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, benchCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		presetsCmd, configCmd, snapshotCmd, exportSVGCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addArenaFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "genuary", "preset to start from")
	f.StringVar(&configFile, "config", "", "config file path (yaml), applied over the preset")
	f.Int64Var(&seed, "seed", defaults.Seed, "random seed")
	f.IntVar(&bodies, "bodies", defaults.Bodies.Initial, "initial bodies")
	f.IntVar(&cols, "cols", defaults.Grid.Cols, "grid columns")
	f.IntVar(&rows, "rows", defaults.Grid.Rows, "grid rows")
	f.Float64Var(&width, "width", defaults.Canvas.Width, "canvas width")
	f.Float64Var(&height, "height", defaults.Canvas.Height, "canvas height")
	f.Float64Var(&minSpeed, "min-speed", defaults.Bodies.MinSpeed, "minimum spawn speed")
	f.Float64Var(&maxSpeed, "max-speed", defaults.Bodies.MaxSpeed, "maximum spawn speed")
	f.StringVar(&pattern, "pattern", defaults.Pattern, "terrain pattern: banner, none, or literal rows")
	f.Float64Var(&frameDt, "frame-dt", defaults.FrameDt, "headless frame time in seconds")
	f.Float64Var(&jitter, "jitter", defaults.Jitter, "relative frame time jitter in [0, 1)")
	f.IntVar(&maxFrames, "frames", defaults.MaxFrames, "maximum headless frames")
	f.BoolVar(&autoPause, "auto-pause", defaults.AutoPause, "pause once the board is cleared")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order, and validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if fileCfg.Name == "" {
			fileCfg.Name = cfg.Name
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Initial = bodies
	}
	if flags.Changed("cols") {
		cfg.Grid.Cols = cols
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = rows
	}
	if flags.Changed("width") {
		cfg.Canvas.Width = width
	}
	if flags.Changed("height") {
		cfg.Canvas.Height = height
	}
	if flags.Changed("min-speed") {
		cfg.Bodies.MinSpeed = minSpeed
	}
	if flags.Changed("max-speed") {
		cfg.Bodies.MaxSpeed = maxSpeed
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("frame-dt") {
		cfg.FrameDt = frameDt
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if flags.Changed("frames") {
		cfg.MaxFrames = maxFrames
	}
	if flags.Changed("auto-pause") {
		cfg.AutoPause = autoPause
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("running %s arena (seed %d)...\n", cfg.Name, cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d (%.2fs simulated)\n", result.Frames, result.Time)
	if result.Cleared {
		fmt.Println("board cleared")
	}
	fmt.Println("\nmetrics:")
	for _, name := range metrics.Names {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6g\n", name, val)
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := viz.NewModel(sim.New(cfg.Options(), quiet), viz.LiveOptions{
		Title:     cfg.Name,
		Width:     cfg.Canvas.Width,
		Height:    cfg.Canvas.Height,
		FrameDt:   cfg.FrameDt,
		AutoPause: cfg.AutoPause,
		Theme:     theme,
		Seed:      cfg.Seed,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	gui.Run(sim.New(cfg.Options(), logger), gui.Options{
		Title:     "erosion :: " + cfg.Name,
		Width:     int(cfg.Canvas.Width),
		Height:    int(cfg.Canvas.Height),
		AutoPause: cfg.AutoPause,
		Seed:      cfg.Seed,
	}, logger)
	return nil
}

func benchArena(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("%w: runs must be >= 1, got %d", dynamo.ErrInvalidConfig, runs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %s with %d seeds from %d\n\n", cfg.Name, runs, cfg.Seed)
	start := time.Now()
	results, err := experiment.NewEnsemble(cfg, runs, cfg.Seed, logger).Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tSIM TIME\tCLEARED\tCOVERAGE\tSUBSTEPS\tMAX SPEED")

	totalFrames := 0
	for i, r := range results {
		totalFrames += r.Frames
		fmt.Fprintf(w, "%d\t%d\t%.2fs\t%v\t%.1f%%\t%.2f\t%.0f\n",
			cfg.Seed+int64(i),
			r.Frames,
			r.Time,
			r.Cleared,
			100*r.Metrics["coverage"],
			r.Metrics["substeps"],
			r.Metrics["max_speed"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d frames in %v (%.0f frames/sec)\n", totalFrames, elapsed, float64(totalFrames)/elapsed.Seconds())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tFRAMES\tSIM TIME\tCLEARED\tCOVERAGE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%v\t%.1f%%\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Frames,
			run.SimTime,
			run.Cleared,
			100*run.Metrics["coverage"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	for _, name := range series {
		data := result.Series(name)
		if data == nil {
			return fmt.Errorf("unknown series %q (available: %v)", name, dynamo.SeriesNames)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if !withData {
		if outPath != "" {
			return fmt.Errorf("--out requires --samples")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if outPath != "" {
		return storage.ExportJSON(outPath, meta, samples)
	}
	return storage.EncodeJSON(os.Stdout, meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSamplesCSV(os.Stdout, samples)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tBODIES\tSPEED\tPATTERN")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.0f-%.0f\t%s\n",
			name,
			cfg.Grid.Cols, cfg.Grid.Rows,
			cfg.Bodies.Initial,
			cfg.Bodies.MinSpeed, cfg.Bodies.MaxSpeed,
			patternLabel(cfg.Pattern),
		)
	}
	return w.Flush()
}

func patternLabel(p string) string {
	switch p {
	case "":
		return config.PatternNone
	case config.PatternBanner, config.PatternNone:
		return p
	}
	return fmt.Sprintf("custom (%d rows)", len(strings.Split(strings.Trim(p, "\n"), "\n")))
}

func configInit(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func configShow(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func snapshotArena(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	s := exp.Simulation()
	svg := export.ArenaToSVG(s.Grid(), s.Bodies(), export.DefaultColors)
	if err := os.WriteFile(snapshotOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d frames (%d painted cells left)\n", snapshotOut, result.Frames, s.CountPainted())
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	data := result.Series(svgSeries)
	if data == nil {
		return fmt.Errorf("unknown series %q (available: %v)", svgSeries, dynamo.SeriesNames)
	}

	svg := export.SeriesToSVG(data, 800, 300, "#00ff00")
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func sweepArena(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	obj := optim.ClearTime
	if objective != "clear_time" {
		obj = optim.Metric(objective)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch([]optim.Param{
		{Name: "bodies", Values: sweepBodies},
		{Name: "max_speed", Values: sweepSpeeds},
	}, logger)

	fmt.Printf("sweeping %d x %d configurations of %s...\n\n", len(sweepBodies), len(sweepSpeeds), cfg.Name)
	best, trials, err := gs.Search(ctx, cfg, obj)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "BODIES\tMAX SPEED\tFRAMES\tCLEARED\t%s\n", strings.ToUpper(objective))
	for _, tr := range trials {
		fmt.Fprintf(w, "%.0f\t%.0f\t%d\t%v\t%.4g\n",
			tr.Params["bodies"], tr.Params["max_speed"], tr.Frames, tr.Cleared, tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: bodies=%.0f max_speed=%.0f (%s %.4g)\n",
		best.Params["bodies"], best.Params["max_speed"], objective, best.Value)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tRUN ID\tFRAMES\tCLEARED\tCOVERAGE")
	for _, r := range results {
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%v\t%.1f%%\n",
			r.Step, r.Config.Name, runID, r.Result.Frames, r.Result.Cleared, 100*r.Result.Metrics["coverage"])
	}
	return w.Flush()
}
