package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/motionlab/internal/automation"
)

var (
	trials        int
	positionNoise float64
	headingNoise  float64
	seed          int64
)

func runRoutine(cmd *cobra.Command, args []string) error {
	routine, err := automation.LoadRoutine(args[0])
	if err != nil {
		return err
	}
	exp, err := newExperiment(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running routine %s (%d steps)\n", routine.Name, len(routine.Steps))
	runs, runErr := automation.RunRoutine(ctx, exp, routine, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMOTION\tELAPSED\tFINAL\tOK")
	for i, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%t\n", i+1, routine.Steps[i], run.Elapsed, run.Final, run.Completed())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, cfg, automation.MonteCarloConfig{
		Route:         cfg.Route,
		Tracker:       tracker,
		Trials:        trials,
		PositionNoise: positionNoise,
		HeadingNoise:  headingNoise,
		Seed:          seed,
	}, logger)
	if err != nil {
		return err
	}

	stats := automation.Summarize(results)
	fmt.Printf("trials: %d (completed %d, failed %d)\n", len(results), stats.Completed, stats.Failed)
	fmt.Printf("final error: mean %.3f in, std %.3f in, max %.3f in\n", stats.MeanError, stats.StdError, stats.MaxError)
	return nil
}
