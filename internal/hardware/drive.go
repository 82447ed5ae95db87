package hardware

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

// ErrDriveBusy is returned when a motion is requested while another holds the drive.
var ErrDriveBusy = errors.New("hardware: drive is busy")

// Drive owns the left and right motor groups of a differential drive. At most
// one motion may command it at a time; motions take a lease with Acquire.
type Drive struct {
	Left  MotorGroup
	Right MotorGroup

	busy  atomic.Bool
	owner atomic.String
}

func NewDrive(left, right MotorGroup) *Drive {
	return &Drive{Left: left, Right: right}
}

// Acquire takes exclusive ownership of the drive. The returned release func
// must be called exactly once; extra calls are ignored.
func (d *Drive) Acquire(owner string) (func(), error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, errors.Wrapf(ErrDriveBusy, "held by %s", d.owner.Load())
	}
	d.owner.Store(owner)

	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			d.owner.Store("")
			d.busy.Store(false)
		}
	}, nil
}

// Owner names the current lease holder, or "" when idle.
func (d *Drive) Owner() string {
	return d.owner.Load()
}

// Side returns the motor group for s.
func (d *Drive) Side(s Side) MotorGroup {
	if s == Right {
		return d.Right
	}
	return d.Left
}

// Tank spins both sides forward with signed magnitudes.
func (d *Drive) Tank(left, right float64, unit SpinUnit) error {
	return multierr.Combine(
		d.Left.Spin(Forward, left, unit),
		d.Right.Spin(Forward, right, unit),
	)
}

// Stop stops both sides with the given brake mode.
func (d *Drive) Stop(mode BrakeMode) error {
	return multierr.Combine(d.Left.Stop(mode), d.Right.Stop(mode))
}
