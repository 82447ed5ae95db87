package tracking

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/units"
)

// minStanleyVelocity keeps the cross-track term finite when the robot is
// standing still.
const minStanleyVelocity = 1e-4

// StanleyConfig tunes the Stanley follow loop. Voltages are in motor volts;
// lengths share the polyline's units.
type StanleyConfig struct {
	Kt               float64       `yaml:"kt"`
	SteerKp          float64       `yaml:"steer_kp"`
	Cruise           float64       `yaml:"cruise"`
	MinVoltage       float64       `yaml:"min_voltage"`
	MaxVoltage       float64       `yaml:"max_voltage"`
	SlowdownDistance float64       `yaml:"slowdown_distance"`
	// Softening is added to the measured speed in the cross-track term.
	Softening        float64       `yaml:"softening"`
	Tolerance        float64       `yaml:"tolerance"`
	Timeout          time.Duration `yaml:"timeout"`
}

func (c StanleyConfig) Validate() error {
	var err error
	if c.Kt < 0 {
		err = multierr.Append(err, errors.Errorf("tracking: stanley kt must not be negative, got %v", c.Kt))
	}
	if c.SteerKp < 0 {
		err = multierr.Append(err, errors.Errorf("tracking: stanley steer kp must not be negative, got %v", c.SteerKp))
	}
	if !(c.Cruise > 0) || c.Cruise > c.MaxVoltage {
		err = multierr.Append(err, errors.Errorf("tracking: stanley cruise %v must be in (0, %v]", c.Cruise, c.MaxVoltage))
	}
	if c.MinVoltage < 0 || c.MinVoltage > c.Cruise {
		err = multierr.Append(err, errors.Errorf("tracking: stanley min voltage %v must be in [0, cruise]", c.MinVoltage))
	}
	if c.SlowdownDistance < 0 {
		err = multierr.Append(err, errors.Errorf("tracking: stanley slowdown distance must not be negative, got %v", c.SlowdownDistance))
	}
	if c.Softening < 0 {
		err = multierr.Append(err, errors.Errorf("tracking: stanley softening must not be negative, got %v", c.Softening))
	}
	if !(c.Tolerance > 0) {
		err = multierr.Append(err, errors.Errorf("tracking: stanley tolerance must be positive, got %v", c.Tolerance))
	}
	return err
}

// Stanley is a lateral controller over a polyline. It remembers the segment
// it last matched and only ever searches forward from it until Reset.
type Stanley struct {
	current int
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	observers []Observer
}

func NewStanley(logger *zap.SugaredLogger) *Stanley {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Stanley{logger: logger}
}

func (s *Stanley) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *Stanley) notify(target path.ProfiledPoint, pose hardware.Pose, cmd Command) {
	s.mu.Lock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		o.OnCommand(target, pose, cmd)
	}
}

// Reset rewinds the segment search to the start of the polyline.
func (s *Stanley) Reset() {
	s.current = 0
}

// Segment returns the index of the segment currently matched.
func (s *Stanley) Segment() int {
	return s.current
}

// projection describes pose relative to one polyline segment.
type projection struct {
	// distance to the closest point of the segment.
	distance float64
	// cross is the signed distance, positive when left of the segment.
	cross float64
	// t is the unclamped parameter of the foot point along the segment.
	t       float64
	closest r2.Point
}

func project(a, b r2.Point, p r2.Point) projection {
	d := b.Sub(a)
	rel := p.Sub(a)
	length := d.Norm()
	if length == 0 {
		dist := rel.Norm()
		return projection{distance: dist, t: 1, closest: a}
	}
	t := rel.Dot(d) / (length * length)
	closest := a.Add(d.Mul(math.Max(0, math.Min(1, t))))
	dist := p.Sub(closest).Norm()

	// With x right and y forward, d×rel is positive on the left.
	var cross float64
	if c := d.Cross(rel); c != 0 {
		cross = math.Copysign(dist, c)
	}
	return projection{distance: dist, cross: cross, t: t, closest: closest}
}

// match advances the remembered segment to the closest one at or after it.
func (s *Stanley) match(polyline []r2.Point, pos r2.Point) projection {
	if s.current > len(polyline)-2 {
		s.current = len(polyline) - 2
	}
	best := project(polyline[s.current], polyline[s.current+1], pos)
	for i := s.current + 1; i < len(polyline)-1; i++ {
		pr := project(polyline[i], polyline[i+1], pos)
		if pr.distance < best.distance {
			best = pr
			s.current = i
		}
	}
	return best
}

// TargetHeading returns the steering correction in degrees for a robot at
// pose moving at velocity: the heading error to the matched segment plus
// atan(kt*crossTrack/velocity). Positive means turn clockwise.
func (s *Stanley) TargetHeading(polyline []r2.Point, pose hardware.Pose, kt, velocity float64) (float64, error) {
	if len(polyline) < 2 {
		return 0, ErrShortPolyline
	}
	pr := s.match(polyline, r2.Point{X: pose.X, Y: pose.Y})

	a, b := polyline[s.current], polyline[s.current+1]
	segHeading := units.Bearing(a.X, a.Y, b.X, b.Y)
	headingErr := units.WrapDeg(segHeading - pose.Heading)

	v := math.Abs(velocity)
	if v < minStanleyVelocity {
		v = minStanleyVelocity
	}
	return headingErr + units.RadToDeg(math.Atan(kt*pr.cross/v)), nil
}

// TargetDistance is the distance left to travel: from the robot to the end of
// the matched segment, then along the rest of the polyline.
func (s *Stanley) TargetDistance(polyline []r2.Point, pose hardware.Pose) (float64, error) {
	if len(polyline) < 2 {
		return 0, ErrShortPolyline
	}
	s.match(polyline, r2.Point{X: pose.X, Y: pose.Y})

	end := polyline[s.current+1]
	total := pose.DistanceTo(end.X, end.Y)
	for i := s.current + 2; i < len(polyline); i++ {
		total += polyline[i].Sub(polyline[i-1]).Norm()
	}
	return total, nil
}

// Follow steers along polyline at cruise voltage until the remaining
// distance drops below tolerance or the robot passes the final point, then
// holds both sides.
func (s *Stanley) Follow(ctx context.Context, drive *hardware.Drive, poses hardware.PoseProvider, sleeper hardware.Sleeper, polyline []r2.Point, cfg StanleyConfig) error {
	if len(polyline) < 2 {
		return ErrShortPolyline
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	release, err := drive.Acquire("Stanley")
	if err != nil {
		return err
	}
	defer release()

	s.Reset()
	s.logger.Debugf("received a Stanley follow with points:%d, kt:%.3f, cruise:%.2f", len(polyline), cfg.Kt, cfg.Cruise)

	dt := control.DefaultCycle.Seconds()
	last := poses.Pose()
	var elapsed time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return multierr.Combine(err, drive.Stop(hardware.Hold))
		}
		if cfg.Timeout > 0 && elapsed >= cfg.Timeout {
			s.logger.Warnf("stanley timed out on segment %d of %d", s.current, len(polyline)-1)
			return multierr.Combine(ErrFollowTimeout, drive.Stop(hardware.Hold))
		}

		pose := poses.Pose()
		remaining, _ := s.TargetDistance(polyline, pose)
		pr := project(polyline[s.current], polyline[s.current+1], r2.Point{X: pose.X, Y: pose.Y})
		if remaining < cfg.Tolerance || (s.current == len(polyline)-2 && pr.t >= 1) {
			break
		}

		velocity := pose.DistanceTo(last.X, last.Y) / dt
		steer, _ := s.TargetHeading(polyline, pose, cfg.Kt, velocity+cfg.Softening)

		speed := cfg.Cruise
		if cfg.SlowdownDistance > 0 && remaining < cfg.SlowdownDistance {
			speed = math.Max(cfg.MinVoltage, cfg.Cruise*remaining/cfg.SlowdownDistance)
		}
		turn := cfg.SteerKp * steer
		cmd := Command{
			Target:          s.current,
			Velocity:        speed,
			AngularVelocity: turn,
			LeftVelocity:    control.Clamp(speed+turn, -cfg.MaxVoltage, cfg.MaxVoltage),
			RightVelocity:   control.Clamp(speed-turn, -cfg.MaxVoltage, cfg.MaxVoltage),
		}
		if err := drive.Tank(cmd.LeftVelocity, cmd.RightVelocity, hardware.Voltage); err != nil {
			return multierr.Combine(err, drive.Stop(hardware.Hold))
		}

		target := path.ProfiledPoint{
			X:       pr.closest.X,
			Y:       pr.closest.Y,
			Heading: units.DegToRad(units.Bearing(polyline[s.current].X, polyline[s.current].Y, polyline[s.current+1].X, polyline[s.current+1].Y)),
		}
		s.notify(target, pose, cmd)

		last = pose
		sleeper.Sleep(control.DefaultCycle)
		elapsed += control.DefaultCycle
	}

	s.logger.Debugf("stanley finished after %v", elapsed)
	return drive.Stop(hardware.Hold)
}
