package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionlab/internal/export"
	"github.com/san-kum/motionlab/internal/storage"
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
	fmt.Fprintln(w, "ID\tKIND\tROUTE\tTIME\tELAPSED\tFINAL\tOK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%s\t%t\n",
			run.ID,
			run.Kind,
			run.Route,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Elapsed,
			run.Final,
			run.Completed,
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
	p, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", len(trace))

	plotProfile(p)

	if len(trace) < 2 {
		return nil
	}
	left := make([]float64, len(trace))
	right := make([]float64, len(trace))
	xs := make([]float64, len(trace))
	for i, s := range trace {
		left[i] = s.Left
		right[i] = s.Right
		xs[i] = s.X
	}
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"left wheel (in/s)", left},
		{"right wheel (in/s)", right},
		{"x position (in)", xs},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func outputFile(runID, ext string) string {
	if output != "" {
		return output
	}
	return runID + ext
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	p, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	driven := make([]r2.Point, len(trace))
	for i, s := range trace {
		driven[i] = r2.Point{X: s.X, Y: s.Y}
	}

	file := outputFile(runID, ".svg")
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer f.Close()

	err = export.FieldSVG(f, width, height,
		export.Series{Name: "planned", Points: p.Polyline(), Stroke: "#ffaa00"},
		export.Series{Name: "driven", Points: driven, Stroke: "#00ff88"},
	)
	if err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", file)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	p, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	file := outputFile(runID, ".png")
	if err := export.ProfilePNG(file, p, trace); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", file)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	p, err := st.LoadPath(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(err, "failed to create file")
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteJSON(w, export.NewData(*meta, p, trace)); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported to %s\n", output)
	}
	return nil
}
