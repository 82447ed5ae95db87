// Package automation scripts runs on one experiment: autonomous routines
// that chain paths and chassis motions, and Monte Carlo trials of a route
// from perturbed start poses.
package automation

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionlab/internal/experiment"
)

var ErrInvalidStep = errors.New("automation: step needs exactly one of follow or move")

// Routine is an ordered list of motions run back to back without resetting
// the robot.
type Routine struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step either follows a route or runs a chassis primitive.
type Step struct {
	Follow  string    `yaml:"follow,omitempty"`
	Tracker string    `yaml:"tracker,omitempty"`
	Move    string    `yaml:"move,omitempty"`
	Args    []float64 `yaml:"args,omitempty"`
}

func (s Step) String() string {
	if s.Follow != "" {
		return "follow " + s.Follow
	}
	return "move " + s.Move
}

func (r *Routine) Validate() error {
	if len(r.Steps) == 0 {
		return errors.Errorf("automation: routine %q has no steps", r.Name)
	}
	var err error
	for i, s := range r.Steps {
		if (s.Follow == "") == (s.Move == "") {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidStep, "step %d", i+1))
			continue
		}
		if s.Move != "" {
			if _, lerr := experiment.LookupPrimitive(s.Move); lerr != nil {
				err = multierr.Append(err, errors.Wrapf(lerr, "step %d", i+1))
			}
		}
	}
	return err
}

func LoadRoutine(file string) (*Routine, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "automation: read routine")
	}

	var routine Routine
	if err := yaml.Unmarshal(data, &routine); err != nil {
		return nil, errors.Wrapf(err, "automation: parse %s", file)
	}
	if err := routine.Validate(); err != nil {
		return nil, err
	}
	return &routine, nil
}

// RunRoutine executes every step in order and stops at the first one that
// does not complete. The runs so far are returned either way.
func RunRoutine(ctx context.Context, exp *experiment.Experiment, routine *Routine, logger *zap.SugaredLogger) ([]*experiment.Run, error) {
	if err := routine.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	runs := make([]*experiment.Run, 0, len(routine.Steps))
	for i, step := range routine.Steps {
		logger.Infow("routine step", "routine", routine.Name, "step", i+1, "of", len(routine.Steps), "motion", step.String())

		var run *experiment.Run
		if step.Follow != "" {
			tracker := step.Tracker
			if tracker == "" {
				tracker = experiment.TrackerRamsete
			}
			var err error
			if run, err = exp.Track(ctx, tracker, step.Follow); err != nil {
				return runs, errors.Wrapf(err, "step %d", i+1)
			}
		} else {
			run = exp.Move(ctx, step.Move, step.Args)
		}
		runs = append(runs, run)

		if run.Err != nil {
			return runs, errors.Wrapf(run.Err, "step %d (%s)", i+1, step)
		}
	}
	return runs, nil
}
