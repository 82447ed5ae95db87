package automation

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/experiment"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/logging"
)

// MonteCarloConfig perturbs the configured start pose uniformly by up to
// PositionNoise inches and HeadingNoise degrees for each trial.
type MonteCarloConfig struct {
	Route         string
	Tracker       string
	Trials        int
	PositionNoise float64
	HeadingNoise  float64
	Seed          int64
}

type MonteCarloResult struct {
	TrialID    int
	Start      hardware.Pose
	Final      hardware.Pose
	FinalError float64
	Completed  bool
}

// RunMonteCarlo follows cfg.Route once per trial, each on a fresh robot.
func RunMonteCarlo(ctx context.Context, base *config.Config, mc MonteCarloConfig, logger *zap.SugaredLogger) ([]MonteCarloResult, error) {
	if mc.Trials <= 0 {
		return nil, errors.Errorf("automation: need at least one trial, got %d", mc.Trials)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	rng := rand.New(rand.NewSource(mc.Seed))
	noise := func(scale float64) float64 { return (rng.Float64() - 0.5) * 2 * scale }

	results := make([]MonteCarloResult, 0, mc.Trials)
	for trial := 0; trial < mc.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := base.Clone()
		cfg.Start = hardware.Pose{
			X:       base.Start.X + noise(mc.PositionNoise),
			Y:       base.Start.Y + noise(mc.PositionNoise),
			Heading: base.Start.Heading + noise(mc.HeadingNoise),
		}
		exp, err := experiment.New(cfg, logging.Nop())
		if err != nil {
			return results, err
		}
		run, err := exp.Track(ctx, mc.Tracker, mc.Route)
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Start:      cfg.Start,
			Final:      run.Final,
			FinalError: run.Metrics["final_error"],
			Completed:  run.Completed(),
		})

		if (trial+1)%10 == 0 {
			logger.Infow("monte carlo", "done", trial+1, "of", mc.Trials)
		}
	}

	return results, nil
}

// MonteCarloStats summarises final position error over every trial.
type MonteCarloStats struct {
	Completed int
	Failed    int
	MeanError float64
	StdError  float64
	MaxError  float64
}

func Summarize(results []MonteCarloResult) MonteCarloStats {
	var s MonteCarloStats
	errs := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Completed {
			s.Completed++
		} else {
			s.Failed++
		}
		errs = append(errs, r.FinalError)
		s.MaxError = max(s.MaxError, r.FinalError)
	}
	switch {
	case len(errs) > 1:
		s.MeanError, s.StdError = stat.MeanStdDev(errs, nil)
	case len(errs) == 1:
		s.MeanError = errs[0]
	}
	return s
}
