package sim

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/control"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/units"
)

// Motor is one side of the simulated drive.
type Motor struct {
	robot *Robot
	side  hardware.Side
}

func (m *Motor) Spin(dir hardware.Direction, magnitude float64, unit hardware.SpinUnit) error {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return errors.Wrapf(hardware.ErrInvalidCommand, "%s side: %v %s", m.side, magnitude, unit)
	}
	p := m.robot.params
	magnitude *= dir.Sign()

	var c command
	switch unit {
	case hardware.Velocity:
		rpm := control.Clamp(magnitude, -p.MaxRPM, p.MaxRPM)
		c = command{target: p.RPMToSpeed(rpm), rate: 2 / p.TimeConstant}
	default:
		volts := control.Clamp(magnitude, -p.MaxVoltage, p.MaxVoltage)
		c = command{target: volts / p.MaxVoltage * p.MaxWheelSpeed(), rate: 1 / p.TimeConstant}
	}
	m.robot.setCommand(m.side, c)
	return nil
}

func (m *Motor) Stop(mode hardware.BrakeMode) error {
	p := m.robot.params
	tc := p.BrakeTimeConstant
	if mode == hardware.Coast {
		tc = p.CoastTimeConstant
	}
	m.robot.setCommand(m.side, command{target: 0, rate: 1 / tc})
	return nil
}

// Position reports motor shaft rotation.
func (m *Motor) Position(unit hardware.AngleUnit) float64 {
	p := m.robot.params
	turns := m.robot.distance(m.side) / (math.Pi * p.WheelDiameter) / p.GearRatio
	if unit == hardware.Turns {
		return turns
	}
	return turns * 360
}

// DegreesToDistance is the ratio MotorTracking needs for this side.
func (m *Motor) DegreesToDistance() float64 {
	p := m.robot.params
	return units.DegreesToDistance(p.WheelDiameter, p.GearRatio)
}

// IMU is an ideal heading sensor.
type IMU struct {
	robot *Robot
}

func (i *IMU) Heading() float64 {
	return units.ModDeg(i.Rotation())
}

func (i *IMU) Rotation() float64 {
	r := i.robot
	r.mu.Lock()
	defer r.mu.Unlock()
	return units.RadToDeg(r.x[IdxTheta])
}

// Calibrate is instantaneous in simulation.
func (i *IMU) Calibrate(ctx context.Context) error {
	return ctx.Err()
}

// TrackingWheel is an unpowered wheel on the robot's centreline.
type TrackingWheel struct {
	robot *Robot
}

func (w *TrackingWheel) Position(unit hardware.AngleUnit) float64 {
	r := w.robot
	s := (r.distance(hardware.Left) + r.distance(hardware.Right)) / 2
	turns := s / (math.Pi * r.params.TrackingWheelDiameter)
	if unit == hardware.Turns {
		return turns
	}
	return turns * 360
}

func (w *TrackingWheel) DegreesToDistance() float64 {
	return units.DegreesToDistance(w.robot.params.TrackingWheelDiameter, 1)
}
