package sim

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Params describe the simulated robot. Lengths are in inches.
type Params struct {
	TrackWidth            float64       `yaml:"track_width"`
	WheelDiameter         float64       `yaml:"wheel_diameter"`
	GearRatio             float64       `yaml:"gear_ratio"`
	TrackingWheelDiameter float64       `yaml:"tracking_wheel_diameter"`
	MaxRPM                float64       `yaml:"max_rpm"`
	MaxVoltage            float64       `yaml:"max_voltage"`
	TimeConstant          float64       `yaml:"time_constant"`
	BrakeTimeConstant     float64       `yaml:"brake_time_constant"`
	CoastTimeConstant     float64       `yaml:"coast_time_constant"`
	Step                  time.Duration `yaml:"step"`
	Integrator            string        `yaml:"integrator"`
}

func DefaultParams() Params {
	return Params{
		TrackWidth:            12,
		WheelDiameter:         3.25,
		GearRatio:             0.75,
		TrackingWheelDiameter: 2.75,
		MaxRPM:                600,
		MaxVoltage:            12,
		TimeConstant:          0.08,
		BrakeTimeConstant:     0.03,
		CoastTimeConstant:     0.6,
		Step:                  time.Millisecond,
		Integrator:            "rk4",
	}
}

// MaxWheelSpeed is the wheel surface speed at full voltage.
func (p Params) MaxWheelSpeed() float64 {
	return p.RPMToSpeed(p.MaxRPM)
}

// RPMToSpeed converts motor RPM to wheel surface speed.
func (p Params) RPMToSpeed(rpm float64) float64 {
	return rpm * p.GearRatio * math.Pi * p.WheelDiameter / 60
}

func (p Params) Validate() error {
	var err error
	positive := []struct {
		name string
		v    float64
	}{
		{"track width", p.TrackWidth},
		{"wheel diameter", p.WheelDiameter},
		{"gear ratio", p.GearRatio},
		{"tracking wheel diameter", p.TrackingWheelDiameter},
		{"max rpm", p.MaxRPM},
		{"max voltage", p.MaxVoltage},
		{"time constant", p.TimeConstant},
		{"brake time constant", p.BrakeTimeConstant},
		{"coast time constant", p.CoastTimeConstant},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			err = multierr.Append(err, errors.Errorf("sim: %s must be positive, got %v", f.name, f.v))
		}
	}
	if p.Step <= 0 {
		err = multierr.Append(err, errors.Errorf("sim: step must be positive, got %v", p.Step))
	}
	return err
}
