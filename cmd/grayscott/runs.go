package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/grayscott/internal/analysis"
	"github.com/san-kum/grayscott/internal/export"
	"github.com/san-kum/grayscott/internal/sim"
	"github.com/san-kum/grayscott/internal/storage"
	"github.com/san-kum/grayscott/internal/viz"
)

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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tF\tK\tSTEPS\tSTRATEGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.4f\t%d\t%s/%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Params.F,
			run.Params.K,
			run.StepsTaken,
			run.Strategy,
			run.Boundary,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	steps, means, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(means) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("F=%.4f k=%.4f n=%d\n", meta.Params.F, meta.Params.K, meta.Params.N)
	fmt.Printf("steps: %d..%d\n\n", steps[0], steps[len(steps)-1])

	graph := asciigraph.Plot(means,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("mean U vs step"),
	)
	fmt.Println(graph)
	return nil
}

func loadField(runID string) (sim.Snapshot, []float64, error) {
	st := storage.New(dataDir)
	snap, err := st.LoadFields(runID)
	if err != nil {
		return sim.Snapshot{}, nil, err
	}
	values, err := pick(snap, fieldName)
	if err != nil {
		return sim.Snapshot{}, nil, err
	}
	return snap, values, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	snap, values, err := loadField(args[0])
	if err != nil {
		return err
	}
	cm, err := export.GetColormap(colormap)
	if err != nil {
		return err
	}
	cols := min(snap.N, 96)
	fmt.Println(viz.Heatmap(snap.N, values, cm, export.Range{}, cols, cols/2))
	fmt.Printf("%s at step %d\n", fieldName, snap.Step)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	snap, values, err := loadField(args[0])
	if err != nil {
		return err
	}
	cm, err := export.GetColormap(colormap)
	if err != nil {
		return err
	}
	path := outputFlag(cmd)
	if path == "" {
		path = fmt.Sprintf("%s_%s.png", args[0], fieldName)
	}
	if err := export.SavePNG(path, snap.N, values, cm, export.Range{}, scaleFlag(cmd)); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	snap, values, err := loadField(args[0])
	if err != nil {
		return err
	}
	cm, err := export.GetColormap(colormap)
	if err != nil {
		return err
	}
	svg, err := export.FieldToSVG(snap.N, values, cm, export.Range{}, 4)
	if err != nil {
		return err
	}
	path := outputFlag(cmd)
	if path == "" {
		path = fmt.Sprintf("%s_%s.svg", args[0], fieldName)
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	snap, values, err := loadField(args[0])
	if err != nil {
		return err
	}
	outFile := outputFlag(cmd)
	if outFile == "" {
		return storage.WriteGrid(os.Stdout, snap.N, values)
	}
	if err := storage.WriteGridFile(outFile, snap.N, values); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snap, err := st.LoadFields(runID)
	if err != nil {
		return err
	}

	out := struct {
		*storage.RunMetadata
		U analysis.FieldStats `json:"u_stats"`
		V analysis.FieldStats `json:"v_stats"`
	}{meta, analysis.Describe(snap.U), analysis.Describe(snap.V)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snap, err := st.LoadFields(runID)
	if err != nil {
		return err
	}
	_, means, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (F=%.4f k=%.4f)\n\n", meta.ID, meta.Params.F, meta.Params.K)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tMEAN\tSTD\tMIN\tMAX\tNON-FINITE")
	for _, f := range []struct {
		name   string
		values []float64
	}{{"U", snap.U}, {"V", snap.V}} {
		s := analysis.Describe(f.values)
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.5f\t%.5f\t%d\n", f.name, s.Mean, s.Std, s.Min, s.Max, s.NonFinite)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	spec, err := analysis.Spectrum(snap.N, snap.U)
	if err != nil {
		return err
	}
	k := spec.Dominant()
	fmt.Printf("\npattern: %s\n", analysis.Pattern(snap.V, 0.1))
	fmt.Printf("dominant wavenumber: %d (wavelength %.2f)\n", k, spec.Wavelength(k, meta.Params.H))

	if period := analysis.Oscillation(means); period < float64(len(means)) {
		fmt.Printf("mean U oscillation period: %.1f steps\n", period)
	} else {
		fmt.Println("mean U oscillation: none")
	}

	if len(spec.Power) > 1 {
		graph := asciigraph.Plot(spec.Power[1:],
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("radial power spectrum (k ≥ 1)"),
		)
		fmt.Println("\n" + graph)
	}
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	if !st.HasSnapshots(runID) {
		return fmt.Errorf("run %s has no snapshots (run with --snapshot-every)", runID)
	}
	sf, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	path := outputFlag(cmd)
	if path == "" {
		path = runID + ".gif"
	}
	if err := saveFrames(path, sf.Snapshots, fieldName, scaleFlag(cmd)); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames, every %d steps)\n", path, len(sf.Snapshots), sf.Every)
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	if err := storage.New(dataDir).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}
