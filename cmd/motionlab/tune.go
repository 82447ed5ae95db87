package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/experiment"
	"github.com/san-kum/motionlab/internal/logging"
	"github.com/san-kum/motionlab/internal/optim"
)

var (
	grid    []string
	metric  string
	workers int
	top     int
)

// parseGrid reads name=v1,v2,... entries into sorted names and ranges.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	values := map[string][]float64{}
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, errors.Errorf("grid entry %q: want name=v1,v2", e)
		}
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "grid entry %q", e)
			}
			values[name] = append(values[name], v)
		}
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, name := range names {
		ranges[i] = values[name]
	}
	return names, ranges, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := base.GetParam(name); err != nil {
			return errors.Wrapf(err, "available: %s", strings.Join(config.Tunables(), ", "))
		}
	}
	search, err := optim.NewGridSearch(names, ranges, workers)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Infow("tuning", "route", base.Route, "tracker", tracker, "trials", search.Size(), "metric", metric)
	best, trials, err := search.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}
		exp, err := experiment.New(cfg, logging.Nop())
		if err != nil {
			return 0, err
		}
		run, err := exp.Track(ctx, tracker, cfg.Route)
		if err != nil {
			return 0, err
		}
		if run.Err != nil {
			return 0, run.Err
		}
		score, ok := run.Metrics[metric]
		if !ok {
			return 0, errors.Errorf("unknown metric: %s", metric)
		}
		return score, nil
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for i, t := range trials {
		if i == top {
			break
		}
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", t.Params[name])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "failed: %v\n", t.Err)
			continue
		}
		fmt.Fprintf(w, "%.6f\n", t.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best.Params[name])
	}
	return nil
}
