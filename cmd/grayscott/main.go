package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/model"
)

var (
	dataDir string
	// Simulation settings, layered as defaults < config file < preset < flags.
	configFile    string
	preset        string
	du, dv        float64
	feed, kill    float64
	gridSize      int
	spacing       float64
	dt            float64
	steps         int
	boundary      string
	strategy      string
	initName      string
	seed          uint64
	workers       int
	snapshotEvery int
	onInstability string
	// Output
	fieldName string
	colormap  string
	pngFile   string
	gifFile   string
	frameStep int
	theme     string
	// Sweep
	fMin, fMax, kMin, kMax float64
	fSteps, kSteps         int
	parallel               int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the grayscott commands. With no subcommand the root
// opens the live view with default settings. Flags whose defaults differ
// between commands (output, scale) are read from each command's own flag
// set rather than shared variables.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grayscott",
		Short: "Gray-Scott reaction-diffusion lab",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".grayscott", "data directory")
	addSimFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&pngFile, "png", "", "also write the final U field as PNG")
	runCmd.Flags().StringVar(&gifFile, "gif", "", "also write snapshot frames as an animated GIF")
	runCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap for images")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean U over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "draw the final field in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&fieldName, "field", "u", "field to draw (u or v)")
	showCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export the final field as a colormapped PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&fieldName, "field", "u", "field to export (u or v)")
	exportPNGCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap")
	exportPNGCmd.Flags().Int("scale", 4, "pixels per grid cell")
	exportPNGCmd.Flags().StringP("output", "o", "", "output path (default <run_id>_<field>.png)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final field as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&fieldName, "field", "u", "field to export (u or v)")
	exportSVGCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap")
	exportSVGCmd.Flags().StringP("output", "o", "", "output path (default <run_id>_<field>.svg)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the final field as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&fieldName, "field", "u", "field to export (u or v)")
	exportCSVCmd.Flags().StringP("output", "o", "", "output path (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and field statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "pattern and spectrum analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "render a stored run's snapshots to an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().StringVar(&fieldName, "field", "u", "field to render (u or v)")
	replayCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap")
	replayCmd.Flags().Int("scale", 2, "pixels per grid cell")
	replayCmd.Flags().StringP("output", "o", "", "output path (default <run_id>.gif)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")

	movieCmd := &cobra.Command{
		Use:   "movie",
		Short: "render a simulation to an animated GIF",
		Args:  cobra.NoArgs,
		RunE:  renderMovie,
	}
	addSimFlags(movieCmd)
	movieCmd.Flags().IntVar(&frameStep, "every", 100, "steps between frames")
	movieCmd.Flags().StringVar(&fieldName, "field", "u", "field to render (u or v)")
	movieCmd.Flags().StringVar(&colormap, "colormap", "jet", "colormap")
	movieCmd.Flags().Int("scale", 2, "pixels per grid cell")
	movieCmd.Flags().StringP("output", "o", "grayscott.gif", "output path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time every Laplacian strategy and boundary mode",
		Args:  cobra.NoArgs,
		RunE:  benchStrategies,
	}
	addSimFlags(benchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [strategy1] [strategy2] ...",
		Short: "run the same problem with several strategies and compare fields",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareStrategies,
	}
	addSimFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list (F, k) presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of (F, k) values",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&fMin, "f-min", 0.01, "smallest F")
	sweepCmd.Flags().Float64Var(&fMax, "f-max", 0.06, "largest F")
	sweepCmd.Flags().IntVar(&fSteps, "f-steps", 6, "number of F values")
	sweepCmd.Flags().Float64Var(&kMin, "k-min", 0.045, "smallest k")
	sweepCmd.Flags().Float64Var(&kMax, "k-max", 0.07, "largest k")
	sweepCmd.Flags().IntVar(&kSteps, "k-steps", 6, "number of k values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "simulations in flight (default one per CPU)")
	sweepCmd.Flags().StringP("output", "o", "", "write points as JSON")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, showCmd, exportPNGCmd, exportSVGCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, replayCmd, deleteCmd, liveCmd, movieCmd, benchCmd, compareCmd, presetsCmd, sweepCmd, scenarioCmd)
	return rootCmd
}

func outputFlag(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("output")
	return path
}

func scaleFlag(cmd *cobra.Command) int {
	scale, _ := cmd.Flags().GetInt("scale")
	return scale
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "named (F, k) preset")
	f.Float64Var(&du, "du", model.DefaultDu, "diffusion rate of U")
	f.Float64Var(&dv, "dv", model.DefaultDv, "diffusion rate of V")
	f.Float64Var(&feed, "f", model.DefaultF, "feed rate F")
	f.Float64Var(&kill, "k", model.DefaultK, "kill rate k")
	f.IntVar(&gridSize, "n", model.DefaultN, "grid size")
	f.Float64Var(&spacing, "h", model.DefaultH, "grid spacing")
	f.Float64Var(&dt, "dt", model.DefaultDt, "time step")
	f.IntVar(&steps, "steps", model.DefaultSteps, "number of steps")
	f.StringVar(&boundary, "boundary", config.DefaultBoundary, "boundary mode (periodic or ghost)")
	f.StringVar(&strategy, "strategy", config.DefaultStrategy, "laplacian strategy (loop, shift or convolution)")
	f.StringVar(&initName, "init", config.DefaultInit, "initial condition (seed or uniform)")
	f.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.IntVar(&workers, "workers", 0, "row workers per simulation (default one per CPU)")
	f.IntVar(&snapshotEvery, "snapshot-every", 0, "keep a snapshot every k steps")
	f.StringVar(&onInstability, "on-instability", config.DefaultOnInstability, "abort or warn on NaN/Inf")
}

// buildConfig layers the config file, the preset and any flags the user set
// explicitly over the defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("du", func() { cfg.Du = du })
	set("dv", func() { cfg.Dv = dv })
	set("f", func() { cfg.F = feed })
	set("k", func() { cfg.K = kill })
	set("n", func() { cfg.N = gridSize })
	set("h", func() { cfg.H = spacing })
	set("dt", func() { cfg.Dt = dt })
	set("steps", func() { cfg.Steps = steps })
	set("boundary", func() { cfg.Boundary = boundary })
	set("strategy", func() { cfg.Strategy = strategy })
	set("init", func() { cfg.Init = initName })
	set("seed", func() { cfg.Seed = seed })
	set("workers", func() { cfg.Workers = workers })
	set("snapshot-every", func() { cfg.SnapshotEvery = snapshotEvery })
	set("on-instability", func() { cfg.OnInstability = onInstability })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if limit := cfg.StabilityLimit(); cfg.Dt > limit {
		fmt.Fprintf(os.Stderr, "warning: dt=%g exceeds the diffusion stability limit %.4g\n", cfg.Dt, limit)
	}
	return cfg, nil
}

func runName() string {
	if preset != "" {
		return preset
	}
	return "grayscott"
}
