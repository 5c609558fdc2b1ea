package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/grayscott/internal/config"
	"github.com/san-kum/grayscott/internal/experiment"
	"github.com/san-kum/grayscott/internal/field"
	"github.com/san-kum/grayscott/internal/stencil"
	"github.com/san-kum/grayscott/internal/storage"
	"github.com/san-kum/grayscott/internal/sweep"
)

// benchStrategies times one Laplacian evaluation and one full run per
// strategy and boundary mode, and reports the largest deviation from the
// loop/periodic reference.
func benchStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") {
		cfg.Steps = 200
	}

	r := rand.New(rand.NewPCG(cfg.Seed, 0))
	src := field.New(cfg.N)
	for k := range src.Cells() {
		src.Cells()[k] = r.Float64()
	}
	ref := stencil.Laplacian(stencil.NewLoop(stencil.Periodic, 1), src, cfg.H2())

	fmt.Printf("benchmarking n=%d, %d steps, workers=%d\n\n", cfg.N, cfg.Steps, field.Workers(cfg.Workers))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tBOUNDARY\tLAPLACIAN\tRUN\tSTEPS/SEC\tMAX DIFF")

	const reps = 20
	for _, name := range stencil.Strategies {
		for _, mode := range []stencil.BoundaryMode{stencil.Periodic, stencil.Ghost} {
			op, err := stencil.New(name, mode, cfg.Workers)
			if err != nil {
				return err
			}
			dst := field.New(cfg.N)
			start := time.Now()
			for i := 0; i < reps; i++ {
				op.Apply(dst, src, cfg.H2())
			}
			perApply := time.Since(start) / reps

			var diff float64
			for k, v := range dst.Cells() {
				diff = math.Max(diff, math.Abs(v-ref.Cells()[k]))
			}

			runCfg := cfg.Clone()
			runCfg.Strategy, runCfg.Boundary = name, mode.String()
			runCfg.SnapshotEvery = 0
			exp, err := experiment.New(runCfg)
			if err != nil {
				return err
			}
			start = time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%.0f\t%.2e\n",
				name, mode, perApply, elapsed, float64(result.StepsTaken)/elapsed.Seconds(), diff)
		}
	}

	return w.Flush()
}

// compareStrategies runs the configured problem once per named strategy and
// prints how far each final U field is from the first.
func compareStrategies(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing strategies on n=%d for %d steps\n\n", base.N, base.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tTIME\tMEAN U\tMAX |ΔU|\tMAX |ΔV|")

	var refU, refV []float64
	for _, name := range args {
		cfg := base.Clone()
		cfg.Strategy = name
		exp, err := experiment.New(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)

		snap := exp.GetSimulator().Snapshot()
		if refU == nil {
			refU, refV = snap.U, snap.V
		}
		var maxU, maxV float64
		for k := range snap.U {
			maxU = math.Max(maxU, math.Abs(snap.U[k]-refU[k]))
			maxV = math.Max(maxV, math.Abs(snap.V[k]-refV[k]))
		}

		fmt.Fprintf(w, "%s\t%v\t%.6f\t%.2e\t%.2e\n",
			name, elapsed, result.MeanU[len(result.MeanU)-1], maxU, maxV)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tF\tK\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%s\n", name, p.F, p.K, p.Description)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sw := &sweep.Sweep{
		F:        sweep.Axis{Min: fMin, Max: fMax, Steps: fSteps},
		K:        sweep.Axis{Min: kMin, Max: kMax, Steps: kSteps},
		Parallel: parallel,
		Progress: func(done, total int, p sweep.Point) {
			fmt.Printf("\r%d/%d  F=%.4f k=%.4f", done, total, p.F, p.K)
		},
	}

	start := time.Now()
	points, runErr := sw.Run(ctx, base)
	fmt.Println()
	if runErr != nil && len(points) == 0 {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("stopped after %d points: %v\n\n", len(points), runErr)
	} else {
		fmt.Printf("swept %d points in %v\n\n", len(points), time.Since(start))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "F\tK\tPATTERN\tMEAN U\tWAVELENGTH")
	for _, p := range points {
		if p.Unstable {
			fmt.Fprintf(w, "%.4f\t%.4f\tunstable\t-\t-\n", p.F, p.K)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%s\t%.4f\t%.2f\n", p.F, p.K, p.Pattern, p.MeanU, p.Wavelength)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if outFile := outputFlag(cmd); outFile != "" {
		if err := writePoints(outFile, points); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}
	return runErr
}

func writePoints(path string, points []sweep.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := sweep.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, runErr := sweep.RunScenario(context.Background(), sc, base)
	for i, r := range results {
		name := r.Step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%d", sc.Name, i+1)
		}
		runID, err := st.Save(name, r.Config, r.Result, r.Final)
		if err != nil {
			return err
		}
		fmt.Printf("  %d: F=%.4f k=%.4f steps=%d -> %s\n", i+1, r.Config.F, r.Config.K, r.Result.StepsTaken, runID)
	}
	return runErr
}
