package drivetrain

import (
	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/hardware"
)

// command runs fn with a momentary lease so open-loop calls cannot
// interleave with a running motion.
func (c *Chassis) command(name string, fn func() error) error {
	release, err := c.drive.Acquire(name)
	if err != nil {
		return err
	}
	defer release()
	return errors.Wrap(fn(), name)
}

// SetDriveSpeed spins both sides forward at speed.
func (c *Chassis) SetDriveSpeed(speed float64, unit hardware.SpinUnit) error {
	return c.command("SetDriveSpeed", func() error {
		return c.drive.Tank(speed, speed, unit)
	})
}

// SetTurnSpeed spins in place, clockwise for positive speed.
func (c *Chassis) SetTurnSpeed(speed float64, unit hardware.SpinUnit) error {
	return c.command("SetTurnSpeed", func() error {
		return c.drive.Tank(speed, -speed, unit)
	})
}

// SetSwingSpeed holds the inner side and spins the outer side.
func (c *Chassis) SetSwingSpeed(dir Direction, speed float64, unit hardware.SpinUnit) error {
	return c.command("SetSwingSpeed", func() error {
		if err := c.drive.Side(dir.outer().Opposite()).Stop(hardware.Hold); err != nil {
			return err
		}
		return c.drive.Side(dir.outer()).Spin(hardware.Forward, speed, unit)
	})
}

// SetArcSpeed drives an arc of the given radius with the outer side at speed.
func (c *Chassis) SetArcSpeed(dir Direction, radius, speed float64, unit hardware.SpinUnit) error {
	m := c.multiplier(radius)
	return c.command("SetArcSpeed", func() error {
		if err := c.drive.Side(dir.outer()).Spin(hardware.Forward, speed, unit); err != nil {
			return err
		}
		return c.drive.Side(dir.outer().Opposite()).Spin(hardware.Forward, m*speed, unit)
	})
}

// StopDrive stops both sides.
func (c *Chassis) StopDrive(mode hardware.BrakeMode) error {
	return c.command("StopDrive", func() error {
		return c.drive.Stop(mode)
	})
}
