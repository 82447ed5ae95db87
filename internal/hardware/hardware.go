// Package hardware declares the actuator and sensor capabilities the motion
// stack needs, independent of any particular robot or simulator.
package hardware

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidCommand is returned by motor groups for non-finite magnitudes.
var ErrInvalidCommand = errors.New("hardware: invalid motor command")

type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Sign is +1 for Forward and -1 for Reverse.
func (d Direction) Sign() float64 {
	if d == Reverse {
		return -1
	}
	return 1
}

// SpinUnit selects how Spin interprets its magnitude: volts or RPM.
type SpinUnit int

const (
	Voltage SpinUnit = iota
	Velocity
)

func (u SpinUnit) String() string {
	if u == Velocity {
		return "rpm"
	}
	return "volt"
}

type BrakeMode int

const (
	Coast BrakeMode = iota
	Brake
	Hold
)

func (m BrakeMode) String() string {
	switch m {
	case Brake:
		return "brake"
	case Hold:
		return "hold"
	default:
		return "coast"
	}
}

type AngleUnit int

const (
	Degrees AngleUnit = iota
	Turns
)

// Side names one half of a differential drive.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// Encoder reports accumulated shaft rotation.
type Encoder interface {
	Position(unit AngleUnit) float64
}

// MotorGroup is one side of the drive: one or more motors commanded together.
// A negative magnitude spins opposite to dir.
type MotorGroup interface {
	Encoder
	Spin(dir Direction, magnitude float64, unit SpinUnit) error
	Stop(mode BrakeMode) error
}

// HeadingSensor is an inertial sensor. Heading wraps to [0, 360) while
// Rotation is the unbounded cumulative angle, both clockwise positive.
type HeadingSensor interface {
	Heading() float64
	Rotation() float64
	Calibrate(ctx context.Context) error
}

// Sleeper blocks for a control period. clock.Clock satisfies it for real
// time and the simulator satisfies it by stepping its physics.
type Sleeper interface {
	Sleep(d time.Duration)
}
