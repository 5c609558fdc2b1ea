package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/grayscott/internal/experiment"
	"github.com/san-kum/grayscott/internal/export"
	"github.com/san-kum/grayscott/internal/model"
	"github.com/san-kum/grayscott/internal/sim"
	"github.com/san-kum/grayscott/internal/storage"
	"github.com/san-kum/grayscott/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if gifFile != "" && cfg.SnapshotEvery == 0 {
		cfg.SnapshotEvery = max(1, cfg.Steps/100)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running gray-scott n=%d F=%.4f k=%.4f (%s/%s)...\n", cfg.N, cfg.F, cfg.K, cfg.Strategy, cfg.Boundary)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	final := exp.GetSimulator().Snapshot()
	runID, err := st.Save(runName(), cfg, result, final)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%.0f steps/sec)\n", result.StepsTaken, float64(result.StepsTaken)/elapsed.Seconds())
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %v\n", w)
	}

	if pngFile != "" {
		cm, err := export.GetColormap(colormap)
		if err != nil {
			return err
		}
		if err := export.SavePNG(pngFile, final.N, final.U, cm, export.Range{}, 4); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngFile)
	}
	if gifFile != "" {
		if err := saveFrames(gifFile, result.Snapshots, "u", 2); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d frames)\n", gifFile, len(result.Snapshots))
	}

	var ie *sim.InstabilityError
	if errors.As(runErr, &ie) {
		fmt.Printf("stopped: %v\n", ie)
	}
	return runErr
}

func saveFrames(path string, snaps []sim.Snapshot, which string, scale int) error {
	if len(snaps) == 0 {
		return fmt.Errorf("no frames captured")
	}
	cm, err := export.GetColormap(colormap)
	if err != nil {
		return err
	}
	movie := export.NewMovie(snaps[0].N, cm, export.Range{Lo: 0, Hi: 1}, max(scale, 1), 4)
	for _, snap := range snaps {
		values, err := pick(snap, which)
		if err != nil {
			return err
		}
		if err := movie.AddFrame(values); err != nil {
			return err
		}
	}
	return movie.Save(path)
}

func pick(snap sim.Snapshot, which string) ([]float64, error) {
	switch which {
	case "u", "U":
		return snap.U, nil
	case "v", "V":
		return snap.V, nil
	}
	return nil, fmt.Errorf("unknown field: %s (want u or v)", which)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	// The live view steps indefinitely; snapshots would grow without bound.
	cfg.SnapshotEvery = 0
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	return viz.Run(exp, theme)
}

// renderMovie captures a frame every frameStep steps and writes a GIF.
func renderMovie(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if frameStep < 1 {
		return &model.ParamError{Name: "every", Value: float64(frameStep), Reason: "must be positive"}
	}
	if _, err := pick(sim.Snapshot{}, fieldName); err != nil {
		return err
	}
	cfg.SnapshotEvery = frameStep

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("rendering %d steps, one frame every %d...\n", cfg.Steps, frameStep)
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	outFile := outputFlag(cmd)
	if err := saveFrames(outFile, result.Snapshots, fieldName, scaleFlag(cmd)); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames)\n", outFile, len(result.Snapshots))
	return runErr
}
