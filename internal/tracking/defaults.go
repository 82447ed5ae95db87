package tracking

import "time"

// DefaultRamseteConfig matches the simulator's default drive geometry.
func DefaultRamseteConfig() RamseteConfig {
	return RamseteConfig{
		Beta:          4,
		Zeta:          0.25,
		TrackWidth:    12,
		WheelDiameter: 3.25,
		GearRatio:     0.75,
		Tolerance:     1.5,
		Timeout:       30 * time.Second,
	}
}

func DefaultStanleyConfig() StanleyConfig {
	return StanleyConfig{
		Kt:               4,
		SteerKp:          0.05,
		Cruise:           6,
		MinVoltage:       1.5,
		MaxVoltage:       12,
		SlowdownDistance: 12,
		Softening:        10,
		Tolerance:        1,
		Timeout:          30 * time.Second,
	}
}
