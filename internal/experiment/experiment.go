// Package experiment assembles a simulated robot with the chassis, planner
// and trackers from a config, and runs one motion at a time against it.
package experiment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/motionlab/internal/config"
	"github.com/san-kum/motionlab/internal/drivetrain"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/metrics"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
	"github.com/san-kum/motionlab/internal/storage"
	"github.com/san-kum/motionlab/internal/tracking"
)

const (
	TrackerRamsete = "ramsete"
	TrackerStanley = "stanley"
)

// ErrUnknownTracker is returned by Track for names other than the trackers above.
var ErrUnknownTracker = errors.New("experiment: unknown tracker")

const (
	KindFollow  = "follow"
	KindStanley = "stanley"
	KindMove    = "move"
)

// settleTime is simulated after every run so the final pose is at rest.
const settleTime = 250 * time.Millisecond

// Run is the outcome of one motion.
type Run struct {
	Kind    string
	Route   string
	Path    path.Path
	Trace   []sim.Sample
	Metrics map[string]float64
	Final   hardware.Pose
	Elapsed time.Duration
	Err     error
}

// Completed reports whether the motion reached its end without error.
func (r *Run) Completed() bool {
	return r.Err == nil
}

// Metadata describes the run for storage.
func (r *Run) Metadata(limits path.Limits) storage.RunMetadata {
	meta := storage.RunMetadata{
		Kind:            r.Kind,
		Route:           r.Route,
		Points:          len(r.Path),
		Planned:         r.Path.Duration(),
		Elapsed:         r.Elapsed.Seconds(),
		MaxVelocity:     storage.Float(limits.MaxVelocity),
		MaxAcceleration: storage.Float(limits.MaxAcceleration),
		PointSpacing:    storage.Float(limits.PointSpacing),
		Final:           r.Final,
		Completed:       r.Completed(),
		Metrics:         r.Metrics,
	}
	if r.Err != nil {
		meta.Error = r.Err.Error()
	}
	return meta
}

type Experiment struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	robot    *sim.Robot
	recorder *sim.Recorder
	sleeper  hardware.Sleeper
	drive    *hardware.Drive
	planner  *path.Planner
	chassis  *drivetrain.Chassis
	ramsete  *tracking.Ramsete
	stanley  *tracking.Stanley
	metrics  metrics.Set
}

type Option func(*options)

type options struct {
	sleeper func(*sim.Robot) hardware.Sleeper
}

// WithSleeper replaces the robot as the loop sleeper, for example with a
// sim.Paced to watch a run in real time.
func WithSleeper(fn func(*sim.Robot) hardware.Sleeper) Option {
	return func(o *options) { o.sleeper = fn }
}

func New(cfg *config.Config, logger *zap.SugaredLogger, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "experiment: invalid config")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	robot, err := sim.NewRobot(cfg.Robot)
	if err != nil {
		return nil, err
	}
	e := &Experiment{
		cfg:      cfg,
		logger:   logger,
		robot:    robot,
		recorder: sim.NewRecorder(),
		sleeper:  robot,
		drive:    robot.Drive(),
		metrics:  metrics.Standard(robot.Params().MaxWheelSpeed()),
	}
	if o.sleeper != nil {
		e.sleeper = o.sleeper(robot)
	}
	robot.AddObserver(e.recorder)

	if e.planner, err = path.NewPlanner(cfg.Planner); err != nil {
		return nil, err
	}

	wheel := robot.TrackingWheel()
	e.chassis, err = drivetrain.New(cfg.Chassis, drivetrain.Deps{
		Drive:    e.drive,
		IMU:      robot.IMU(),
		Distance: hardware.RotationTracking(wheel, wheel.DegreesToDistance()),
		Poses:    robot.Poses(),
		Sleeper:  e.sleeper,
	}, logger.Named("chassis"))
	if err != nil {
		return nil, err
	}

	e.ramsete, err = tracking.NewRamsete(cfg.Ramsete, robot.Poses(), e.drive, e.sleeper, logger.Named("ramsete"))
	if err != nil {
		return nil, err
	}
	e.ramsete.AddObserver(e.metrics)

	e.stanley = tracking.NewStanley(logger.Named("stanley"))
	e.stanley.AddObserver(e.metrics)

	robot.Place(cfg.Start)
	return e, nil
}

func (e *Experiment) Robot() *sim.Robot { return e.robot }

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Chassis() *drivetrain.Chassis { return e.chassis }

// Plan generates the profiled path for route.
func (e *Experiment) Plan(route path.Route) (path.Path, error) {
	return e.planner.Generate(route)
}

// PlanNamed resolves a configured or preset route and plans it.
func (e *Experiment) PlanNamed(name string) (path.Path, error) {
	route, err := e.cfg.GetRoute(name)
	if err != nil {
		return nil, err
	}
	return e.Plan(route)
}

// Reset puts the robot back at the configured start and clears the trace
// and metrics.
func (e *Experiment) Reset() {
	e.robot.Place(e.cfg.Start)
	e.recorder.Reset()
	e.metrics.Reset()
	e.stanley.Reset()
}

// Follow tracks p with Ramsete.
func (e *Experiment) Follow(ctx context.Context, p path.Path) *Run {
	run := e.begin(KindFollow)
	run.Path = p
	run.Err = e.ramsete.Follow(ctx, p)
	return e.finish(run)
}

// FollowStanley steers along the path's polyline with Stanley.
func (e *Experiment) FollowStanley(ctx context.Context, p path.Path) *Run {
	run := e.begin(KindStanley)
	run.Path = p
	run.Err = e.stanley.Follow(ctx, e.drive, e.robot.Poses(), e.sleeper, p.Polyline(), e.cfg.Stanley)
	return e.finish(run)
}

// Track plans the named route and follows it with tracker. Only planning
// and lookup failures are returned; how the motion ended is in Run.Err.
func (e *Experiment) Track(ctx context.Context, tracker, route string) (*Run, error) {
	if tracker != TrackerRamsete && tracker != TrackerStanley {
		return nil, errors.Wrap(ErrUnknownTracker, tracker)
	}
	p, err := e.PlanNamed(route)
	if err != nil {
		return nil, err
	}
	var run *Run
	if tracker == TrackerStanley {
		run = e.FollowStanley(ctx, p)
	} else {
		run = e.Follow(ctx, p)
	}
	run.Route = route
	return run, nil
}

// Move runs one named chassis primitive.
func (e *Experiment) Move(ctx context.Context, name string, args []float64) *Run {
	run := e.begin(KindMove)
	run.Route = name
	prim, err := LookupPrimitive(name)
	if err == nil {
		err = prim.check(args)
	}
	if err != nil {
		run.Err = err
		return e.finish(run)
	}
	_, run.Err = prim.run(ctx, e.chassis, args)
	return e.finish(run)
}

func (e *Experiment) begin(kind string) *Run {
	e.recorder.Reset()
	e.metrics.Reset()
	return &Run{Kind: kind, Route: e.cfg.Route, Elapsed: e.robot.Elapsed()}
}

func (e *Experiment) finish(run *Run) *Run {
	e.sleeper.Sleep(settleTime)
	run.Elapsed = e.robot.Elapsed() - run.Elapsed
	run.Trace = e.recorder.Samples()
	run.Final = e.robot.Pose()
	run.Metrics = e.metrics.Values()
	if fault := e.robot.Fault(); fault != nil && run.Err == nil {
		run.Err = errors.Wrap(fault, "simulation")
	}
	if len(run.Path) > 0 {
		run.Metrics["final_error"] = metrics.FinalError(run.Path[len(run.Path)-1], run.Final)
	}
	if run.Err != nil {
		e.logger.Warnw("run ended early", "kind", run.Kind, "error", run.Err)
	} else {
		e.logger.Infow("run finished", "kind", run.Kind, "elapsed", run.Elapsed, "final", run.Final.String())
	}
	return run
}
