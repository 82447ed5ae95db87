package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionlab/internal/experiment"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
	"github.com/san-kum/motionlab/internal/storage"
	"github.com/san-kum/motionlab/internal/tui"
)

func newExperiment(cmd *cobra.Command, opts ...experiment.Option) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, logger, opts...)
}

func planRoute(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	p, err := exp.PlanNamed(exp.Config().Route)
	if err != nil {
		return err
	}

	fmt.Printf("route: %s\n", exp.Config().Route)
	fmt.Printf("points: %d\n", len(p))
	fmt.Printf("length: %.2f in\n", p.Length())
	fmt.Printf("duration: %.3f s\n", p.Duration())
	fmt.Printf("peak velocity: %.2f in/s\n\n", p.PeakVelocity())

	plotProfile(p)
	return nil
}

func plotProfile(p path.Path) {
	if len(p) < 2 {
		return
	}
	fmt.Println(asciigraph.Plot(p.Velocities(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("velocity (in/s)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(p.AngularVelocities(),
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("angular velocity (rad/s)"),
	))
	fmt.Println()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func followRoute(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("following %s with %s...\n", exp.Config().Route, tracker)
	run, err := exp.Track(ctx, tracker, exp.Config().Route)
	if err != nil {
		return err
	}
	return report(exp, run)
}

func watchRoute(cmd *cobra.Command, args []string) error {
	// Info lines would scroll through the alt screen.
	if !cmd.Flags().Changed("log-level") {
		logLevel = "warn"
	}
	exp, err := newExperiment(cmd, experiment.WithSleeper(func(r *sim.Robot) hardware.Sleeper {
		return sim.NewPaced(r, speed)
	}))
	if err != nil {
		return err
	}
	p, err := exp.PlanNamed(exp.Config().Route)
	if err != nil {
		return err
	}

	// The run goroutine may still be stopping when the view quits, so its
	// result comes back over a channel.
	runs := make(chan *experiment.Run, 1)
	title := fmt.Sprintf("%s · %s", exp.Config().Route, tracker)
	view := tui.NewWatch(context.Background(), title, p, exp.Robot(), func(ctx context.Context) error {
		run, err := exp.Track(ctx, tracker, exp.Config().Route)
		runs <- run
		if err != nil {
			return err
		}
		return run.Err
	})
	if _, err := tui.Run(view); err != nil {
		return err
	}
	run := <-runs
	if run == nil {
		return nil
	}
	return report(exp, run)
}

func moveRobot(cmd *cobra.Command, args []string) error {
	values := make([]float64, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return errors.Wrapf(err, "argument %q", a)
		}
		values = append(values, v)
	}

	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	run := exp.Move(ctx, args[0], values)
	if errors.Is(run.Err, experiment.ErrUnknownPrimitive) || errors.Is(run.Err, experiment.ErrPrimitiveArgs) {
		return run.Err
	}
	return report(exp, run)
}

// report prints the outcome of run and stores it unless --no-save is set.
func report(exp *experiment.Experiment, run *experiment.Run) error {
	status := "completed"
	if !run.Completed() {
		status = "stopped: " + run.Err.Error()
	}
	fmt.Printf("%s in %v\n", status, run.Elapsed)
	fmt.Printf("final pose: %s\n", run.Final)
	fmt.Printf("samples: %d\n", len(run.Trace))

	if len(run.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		names := make([]string, 0, len(run.Metrics))
		for name := range run.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, run.Metrics[name])
		}
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(run.Metadata(exp.Config().Planner), run.Path, run.Trace)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listPrimitives(cmd *cobra.Command, args []string) error {
	for _, p := range experiment.Primitives() {
		fmt.Printf("  %s\n", p.Usage())
	}
	return nil
}

func listRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSEGMENTS\tSTART\tEND")
	for _, name := range cfg.ListRoutes() {
		r, err := cfg.GetRoute(name)
		if err != nil {
			return err
		}
		marker := ""
		if name == cfg.Route {
			marker = " *"
		}
		var start, end string
		if len(r) > 0 {
			start = fmt.Sprintf("(%.1f, %.1f)", r[0].Start.X, r[0].Start.Y)
			end = fmt.Sprintf("(%.1f, %.1f)", r[len(r)-1].End.X, r[len(r)-1].End.Y)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name+marker, len(r), start, end)
	}
	return w.Flush()
}
