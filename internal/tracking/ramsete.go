package tracking

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/units"
)

// stationaryGain replaces zero feed-forward targets at a stationary point so
// the law still pulls the robot onto it.
const stationaryGain = 0.01

// RamseteConfig holds the tracker gains and drive geometry. Lengths share
// the planner's units.
type RamseteConfig struct {
	Beta          float64       `yaml:"beta"`
	Zeta          float64       `yaml:"zeta"`
	TrackWidth    float64       `yaml:"track_width"`
	WheelDiameter float64       `yaml:"wheel_diameter"`
	GearRatio     float64       `yaml:"gear_ratio"`
	Tolerance     float64       `yaml:"tolerance"`
	Timeout       time.Duration `yaml:"timeout"`
	// CanonicalLaw switches the angular law to the textbook form, which
	// feeds back the heading error and evaluates the coupling through sinc.
	CanonicalLaw bool `yaml:"canonical_law"`
}

func (c RamseteConfig) Validate() error {
	var err error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"beta", c.Beta},
		{"zeta", c.Zeta},
		{"track width", c.TrackWidth},
		{"wheel diameter", c.WheelDiameter},
		{"gear ratio", c.GearRatio},
		{"tolerance", c.Tolerance},
	} {
		if !(f.v > 0) {
			err = multierr.Append(err, errors.Errorf("tracking: ramsete %s must be positive, got %v", f.name, f.v))
		}
	}
	return err
}

// Command is one cycle of Ramsete output.
type Command struct {
	Target          int     `json:"target"`
	Velocity        float64 `json:"velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
	LeftVelocity    float64 `json:"left_velocity"`
	RightVelocity   float64 `json:"right_velocity"`
	LeftRPM         float64 `json:"left_rpm"`
	RightRPM        float64 `json:"right_rpm"`
}

// Observer sees every command a follower sends.
type Observer interface {
	OnCommand(target path.ProfiledPoint, pose hardware.Pose, cmd Command)
}

// Ramsete tracks a profiled path. One instance follows one path at a time.
type Ramsete struct {
	cfg     RamseteConfig
	poses   hardware.PoseProvider
	drive   *hardware.Drive
	sleeper hardware.Sleeper
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	path      path.Path
	current   int
	observers []Observer
}

func NewRamsete(cfg RamseteConfig, poses hardware.PoseProvider, drive *hardware.Drive, sleeper hardware.Sleeper, logger *zap.SugaredLogger) (*Ramsete, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ramsete{cfg: cfg, poses: poses, drive: drive, sleeper: sleeper, logger: logger}, nil
}

func (r *Ramsete) AddObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Load replaces the tracked path and rewinds to its first point.
func (r *Ramsete) Load(p path.Path) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = p
	r.current = 0
}

// CurrentTarget returns the point being tracked, and false once the path
// is finished or none is loaded.
func (r *Ramsete) CurrentTarget() (path.ProfiledPoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current >= len(r.path) {
		return path.ProfiledPoint{}, false
	}
	return r.path[r.current], true
}

// Done reports whether every point has been reached.
func (r *Ramsete) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current >= len(r.path)
}

// advance skips every point already within tolerance of pose.
func (r *Ramsete) advance(pose hardware.Pose) {
	for r.current < len(r.path) {
		pt := r.path[r.current]
		if pose.DistanceTo(pt.X, pt.Y) > r.cfg.Tolerance {
			return
		}
		r.current++
	}
}

// Step advances past reached points and computes the command for pose. The
// second result is true once the end of the path has been reached, in which
// case the command is zero.
func (r *Ramsete) Step(pose hardware.Pose) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(pose)
	if r.current >= len(r.path) {
		return Command{Target: len(r.path)}, true
	}
	return r.command(r.path[r.current], pose), false
}

func (r *Ramsete) command(target path.ProfiledPoint, pose hardware.Pose) Command {
	forward, right, headingErr := LocalError(target, pose)

	vd := target.Velocity
	wd := target.AngularVelocity
	if vd == 0 && wd == 0 {
		vd = stationaryGain * forward
		wd = stationaryGain * headingErr
	}

	k := 2 * r.cfg.Zeta * math.Sqrt(wd*wd+r.cfg.Beta*vd*vd)
	v := vd*math.Cos(headingErr) + k*forward

	var w float64
	if r.cfg.CanonicalLaw {
		w = wd + k*headingErr + r.cfg.Beta*vd*sinc(headingErr)*right
	} else {
		w = wd + k*forward
		if headingErr != 0 {
			w += r.cfg.Beta * vd * math.Sin(headingErr) * right / headingErr
		}
	}

	// v ± ω·tw/2 is ω·(v/ω ± tw/2) without the division, so ω = 0 is defined.
	half := r.cfg.TrackWidth / 2
	cmd := Command{
		Target:          r.current,
		Velocity:        v,
		AngularVelocity: w,
		LeftVelocity:    v + w*half,
		RightVelocity:   v - w*half,
	}
	cmd.LeftRPM = r.toRPM(cmd.LeftVelocity)
	cmd.RightRPM = r.toRPM(cmd.RightVelocity)
	return cmd
}

func (r *Ramsete) toRPM(wheel float64) float64 {
	return wheel * 60 / (r.cfg.GearRatio * math.Pi * r.cfg.WheelDiameter)
}

// LocalError expresses the target relative to pose: distance ahead, distance
// to the right, and the heading error in radians wrapped to [-pi, pi].
func LocalError(target path.ProfiledPoint, pose hardware.Pose) (forward, right, heading float64) {
	h := units.DegToRad(pose.Heading)
	ex := target.X - pose.X
	ey := target.Y - pose.Y
	sin, cos := math.Sincos(h)
	forward = sin*ex + cos*ey
	right = cos*ex - sin*ey
	heading = units.WrapRad(target.Heading - h)
	return forward, right, heading
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-9 {
		return 1
	}
	return math.Sin(x) / x
}

// Follow drives p to its end, commanding wheel velocities every 10 ms, then
// holds both sides once. It holds the drive lease for the whole run.
func (r *Ramsete) Follow(ctx context.Context, p path.Path) error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	release, err := r.drive.Acquire("Ramsete")
	if err != nil {
		return err
	}
	defer release()

	r.Load(p)
	r.logger.Debugf("received a Ramsete follow with points:%d, duration:%.2fs", len(p), p.Duration())

	var elapsed time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return multierr.Combine(err, r.drive.Stop(hardware.Hold))
		}
		if r.cfg.Timeout > 0 && elapsed >= r.cfg.Timeout {
			r.logger.Warnf("ramsete timed out at point %d of %d", r.current, len(p))
			return multierr.Combine(ErrFollowTimeout, r.drive.Stop(hardware.Hold))
		}

		pose := r.poses.Pose()
		cmd, done := r.Step(pose)
		if done {
			break
		}
		if err := r.drive.Tank(cmd.LeftRPM, cmd.RightRPM, hardware.Velocity); err != nil {
			return multierr.Combine(err, r.drive.Stop(hardware.Hold))
		}
		r.notify(p[cmd.Target], pose, cmd)

		r.sleeper.Sleep(control.DefaultCycle)
		elapsed += control.DefaultCycle
	}

	r.logger.Debugf("ramsete finished after %v", elapsed)
	return r.drive.Stop(hardware.Hold)
}

func (r *Ramsete) notify(target path.ProfiledPoint, pose hardware.Pose, cmd Command) {
	r.mu.Lock()
	observers := append([]Observer(nil), r.observers...)
	r.mu.Unlock()
	for _, o := range observers {
		o.OnCommand(target, pose, cmd)
	}
}
