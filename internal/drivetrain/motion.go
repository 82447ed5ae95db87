package drivetrain

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/units"
)

// ErrNoPose is returned by position-based motions when the chassis has no pose provider.
var ErrNoPose = errors.New("drivetrain: no pose provider configured")

// DriveFor drives distance forward (negative for reverse) measured by the
// distance source. With WithHeading the chassis also holds that heading.
// It returns the time spent in the loop.
func (c *Chassis) DriveFor(ctx context.Context, distance float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	g := o.gainsOr(c.cfg.Drive)
	c.logger.Debugf("received a DriveFor with distance:%.2f, timeout:%v", distance, o.timeout)

	drivePID := control.NewPID(g)

	headingKp := 0.0
	target := 0.0
	if o.heading != nil {
		target = *o.heading
		headingKp = c.cfg.HeadingKp
	}
	if o.headingKp != nil {
		headingKp = *o.headingKp
	}
	headingPID := control.NewPID(control.Gains{
		Kp:        headingKp,
		MinOutput: g.MinOutput,
		MaxOutput: g.MaxOutput,
		CycleTime: control.DefaultCycle,
	})

	initial := c.distance.Distance()
	return c.run(ctx, "DriveFor", o.timeout, drivePID, func() error {
		driveOut := drivePID.Output(distance - (c.distance.Distance() - initial))
		turnOut := 0.0
		if o.heading != nil {
			turnOut = headingPID.Output(units.WrapDeg(target - c.imu.Heading()))
		}
		return c.drive.Tank(
			control.Clamp(driveOut+turnOut, g.MinOutput, g.MaxOutput),
			control.Clamp(driveOut-turnOut, g.MinOutput, g.MaxOutput),
			hardware.Voltage,
		)
	})
}

// TurnFor turns in place by degrees relative to the current rotation,
// clockwise positive.
func (c *Chassis) TurnFor(ctx context.Context, degrees float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received a TurnFor with degrees:%.2f, timeout:%v", degrees, o.timeout)

	pid := control.NewPID(o.gainsOr(c.cfg.Turn))
	target := c.imu.Rotation() + degrees
	return c.run(ctx, "TurnFor", o.timeout, pid, func() error {
		out := pid.Output(target - c.imu.Rotation())
		return c.drive.Tank(out, -out, hardware.Voltage)
	})
}

// TurnTo turns in place to an absolute compass heading by the shorter way.
func (c *Chassis) TurnTo(ctx context.Context, heading float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received a TurnTo with heading:%.2f, timeout:%v", heading, o.timeout)

	pid := control.NewPID(o.gainsOr(c.cfg.Turn))
	return c.run(ctx, "TurnTo", o.timeout, pid, func() error {
		out := pid.Output(units.WrapDeg(heading - c.imu.Heading()))
		return c.drive.Tank(out, -out, hardware.Voltage)
	})
}

// TurnToPosition turns to face the field point (x, y).
func (c *Chassis) TurnToPosition(ctx context.Context, x, y float64, opts ...MoveOption) (time.Duration, error) {
	return c.turnToPosition(ctx, x, y, 0, opts)
}

// TurnToPositionReverse turns so the back of the robot faces (x, y).
func (c *Chassis) TurnToPositionReverse(ctx context.Context, x, y float64, opts ...MoveOption) (time.Duration, error) {
	return c.turnToPosition(ctx, x, y, 180, opts)
}

func (c *Chassis) turnToPosition(ctx context.Context, x, y, offset float64, opts []MoveOption) (time.Duration, error) {
	if c.poses == nil {
		return 0, ErrNoPose
	}
	pose := c.poses.Pose()
	// Pose to target, so a forward turn faces the point rather than away from it.
	return c.TurnTo(ctx, units.ModDeg(units.Bearing(pose.X, pose.Y, x, y)+offset), opts...)
}

// DriveTo turns toward (x, y) and then drives the remaining straight-line
// distance while holding the heading reached by the turn. WithTurnTimeout
// bounds the turn and WithTimeout the drive. The two elapsed times are summed.
func (c *Chassis) DriveTo(ctx context.Context, x, y float64, opts ...MoveOption) (time.Duration, error) {
	return c.driveTo(ctx, x, y, false, opts)
}

// DriveToReverse backs into (x, y).
func (c *Chassis) DriveToReverse(ctx context.Context, x, y float64, opts ...MoveOption) (time.Duration, error) {
	return c.driveTo(ctx, x, y, true, opts)
}

func (c *Chassis) driveTo(ctx context.Context, x, y float64, reverse bool, opts []MoveOption) (time.Duration, error) {
	if c.poses == nil {
		return 0, ErrNoPose
	}
	o := collect(opts)
	c.logger.Debugf("received a DriveTo with x:%.2f, y:%.2f, reverse:%t", x, y, reverse)

	turnOpts := []MoveOption{WithTimeout(o.turnTimeout)}
	offset := 0.0
	if reverse {
		offset = 180
	}
	turnTime, err := c.turnToPosition(ctx, x, y, offset, turnOpts)
	if err != nil {
		return turnTime, err
	}

	distance := c.poses.Pose().DistanceTo(x, y)
	if reverse {
		distance = -distance
	}
	driveOpts := []MoveOption{WithTimeout(o.timeout), WithHeading(c.imu.Heading())}
	if o.gains != nil {
		driveOpts = append(driveOpts, WithGains(*o.gains))
	}
	if o.headingKp != nil {
		driveOpts = append(driveOpts, WithHeadingKp(*o.headingKp))
	}
	driveTime, err := c.DriveFor(ctx, distance, driveOpts...)
	return turnTime + driveTime, err
}

// SwingFor pivots about the inner wheels by degrees. The inner side is held
// and only the outer side is driven.
func (c *Chassis) SwingFor(ctx context.Context, dir Direction, degrees float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received a SwingFor with direction:%s, degrees:%.2f", dir, degrees)

	pid := control.NewPID(o.gainsOr(c.cfg.Swing))
	s := dir.sign()
	target := c.imu.Rotation() + s*degrees
	return c.swing(ctx, "SwingFor", dir, o.timeout, pid, func() float64 {
		return s * (target - c.imu.Rotation())
	})
}

// SwingTo pivots about the inner wheels to an absolute heading.
func (c *Chassis) SwingTo(ctx context.Context, dir Direction, heading float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received a SwingTo with direction:%s, heading:%.2f", dir, heading)

	pid := control.NewPID(o.gainsOr(c.cfg.Swing))
	s := dir.sign()
	return c.swing(ctx, "SwingTo", dir, o.timeout, pid, func() float64 {
		return s * units.WrapDeg(heading-c.imu.Heading())
	})
}

func (c *Chassis) swing(ctx context.Context, name string, dir Direction, timeout time.Duration, pid *control.PID, errFn func() float64) (time.Duration, error) {
	outer := c.drive.Side(dir.outer())
	inner := c.drive.Side(dir.outer().Opposite())
	held := false
	return c.run(ctx, name, timeout, pid, func() error {
		if !held {
			if err := inner.Stop(hardware.Hold); err != nil {
				return err
			}
			held = true
		}
		return outer.Spin(hardware.Forward, pid.Output(errFn()), hardware.Voltage)
	})
}

// ArcFor turns by degrees along an arc of the given radius, measured to the
// robot's centre. Both sides drive, the inner one scaled down.
func (c *Chassis) ArcFor(ctx context.Context, dir Direction, radius, degrees float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received an ArcFor with direction:%s, radius:%.2f, degrees:%.2f", dir, radius, degrees)

	pid := control.NewPID(o.gainsOr(c.cfg.Arc))
	s := dir.sign()
	target := c.imu.Rotation() + s*degrees
	return c.arc(ctx, "ArcFor", dir, radius, o.timeout, pid, func() float64 {
		return s * (target - c.imu.Rotation())
	})
}

// ArcTo follows an arc of the given radius until reaching an absolute heading.
func (c *Chassis) ArcTo(ctx context.Context, dir Direction, radius, heading float64, opts ...MoveOption) (time.Duration, error) {
	o := collect(opts)
	c.logger.Debugf("received an ArcTo with direction:%s, radius:%.2f, heading:%.2f", dir, radius, heading)

	pid := control.NewPID(o.gainsOr(c.cfg.Arc))
	s := dir.sign()
	return c.arc(ctx, "ArcTo", dir, radius, o.timeout, pid, func() float64 {
		return s * units.WrapDeg(heading-c.imu.Heading())
	})
}

func (c *Chassis) arc(ctx context.Context, name string, dir Direction, radius float64, timeout time.Duration, pid *control.PID, errFn func() float64) (time.Duration, error) {
	if math.IsNaN(radius) || radius <= 0 {
		return 0, errors.Errorf("drivetrain: %s radius must be positive, got %v", name, radius)
	}
	m := c.multiplier(radius)
	outer := c.drive.Side(dir.outer())
	inner := c.drive.Side(dir.outer().Opposite())
	return c.run(ctx, name, timeout, pid, func() error {
		out := pid.Output(errFn())
		if err := outer.Spin(hardware.Forward, out, hardware.Voltage); err != nil {
			return err
		}
		return inner.Spin(hardware.Forward, m*out, hardware.Voltage)
	})
}
