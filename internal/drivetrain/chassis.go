// Package drivetrain implements closed-loop chassis motions on a
// differential drive: straight drives with optional heading hold, point
// turns, swings and arcs, each run by a PID at a fixed 10 ms cadence.
package drivetrain

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
)

// NoTimeout runs a motion until its PID settles.
const NoTimeout = time.Duration(math.MaxInt64)

// Direction is the sense of a swing or arc.
type Direction int

const (
	TurnRight Direction = iota
	TurnLeft
)

func (d Direction) String() string {
	if d == TurnLeft {
		return "left"
	}
	return "right"
}

// sign is +1 for clockwise (right) turns.
func (d Direction) sign() float64 {
	if d == TurnLeft {
		return -1
	}
	return 1
}

// outer returns the side that drives the turn; the inner side is held or slowed.
func (d Direction) outer() hardware.Side {
	if d == TurnLeft {
		return hardware.Right
	}
	return hardware.Left
}

// Config holds the per-mode gain sets and the drive geometry.
type Config struct {
	TrackWidth float64       `yaml:"track_width"`
	Drive      control.Gains `yaml:"drive"`
	HeadingKp  float64       `yaml:"heading_kp"`
	Turn       control.Gains `yaml:"turn"`
	Swing      control.Gains `yaml:"swing"`
	Arc        control.Gains `yaml:"arc"`
}

func (c Config) Validate() error {
	var err error
	if !(c.TrackWidth > 0) {
		err = multierr.Append(err, errors.Errorf("drivetrain: track width must be positive, got %v", c.TrackWidth))
	}
	sets := []struct {
		name  string
		gains control.Gains
	}{{"drive", c.Drive}, {"turn", c.Turn}, {"swing", c.Swing}, {"arc", c.Arc}}
	for _, s := range sets {
		if gerr := s.gains.Validate(); gerr != nil {
			err = multierr.Append(err, errors.Wrapf(gerr, "%s gains", s.name))
		}
	}
	return err
}

// Deps are the devices a Chassis commands and reads.
type Deps struct {
	Drive    *hardware.Drive
	IMU      hardware.HeadingSensor
	Distance hardware.DistanceSource
	Poses    hardware.PoseProvider
	Sleeper  hardware.Sleeper
}

type Chassis struct {
	cfg      Config
	drive    *hardware.Drive
	imu      hardware.HeadingSensor
	distance hardware.DistanceSource
	poses    hardware.PoseProvider
	sleeper  hardware.Sleeper
	logger   *zap.SugaredLogger
}

func New(cfg Config, deps Deps, logger *zap.SugaredLogger) (*Chassis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case deps.Drive == nil:
		return nil, errors.New("drivetrain: drive is required")
	case deps.IMU == nil:
		return nil, errors.New("drivetrain: heading sensor is required")
	case !deps.Distance.Valid():
		return nil, errors.New("drivetrain: distance source is required")
	case deps.Sleeper == nil:
		return nil, errors.New("drivetrain: sleeper is required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Chassis{
		cfg:      cfg,
		drive:    deps.Drive,
		imu:      deps.IMU,
		distance: deps.Distance,
		poses:    deps.Poses,
		sleeper:  deps.Sleeper,
		logger:   logger,
	}, nil
}

func (c *Chassis) Config() Config { return c.cfg }

// TimedOut reports whether a motion ended on its timeout rather than by settling.
func TimedOut(elapsed, timeout time.Duration) bool {
	return timeout != NoTimeout && elapsed >= timeout
}

// multiplier is the inner-to-outer wheel speed ratio for an arc of radius r.
func (c *Chassis) multiplier(radius float64) float64 {
	half := c.cfg.TrackWidth / 2
	return (radius - half) / (radius + half)
}

// run drives pid to settle. step computes and sends one cycle of commands.
// Both sides are stopped with hold on every exit path.
func (c *Chassis) run(ctx context.Context, name string, timeout time.Duration, pid *control.PID, step func() error) (time.Duration, error) {
	release, err := c.drive.Acquire(name)
	if err != nil {
		return 0, err
	}
	defer release()

	var elapsed time.Duration
	for !pid.IsSettled() && elapsed < timeout {
		if err := ctx.Err(); err != nil {
			return elapsed, multierr.Combine(err, c.drive.Stop(hardware.Hold))
		}
		if err := step(); err != nil {
			return elapsed, multierr.Combine(errors.Wrap(err, name), c.drive.Stop(hardware.Hold))
		}
		c.sleeper.Sleep(control.DefaultCycle)
		elapsed += control.DefaultCycle
	}

	if pid.IsSettled() {
		c.logger.Debugf("%s settled after %v", name, elapsed)
	} else {
		c.logger.Debugf("%s timed out after %v", name, elapsed)
	}
	return elapsed, c.drive.Stop(hardware.Hold)
}
