package drivetrain

import (
	"time"

	"github.com/san-kum/motionlab/internal/control"
)

// DefaultConfig returns gains tuned for a 12 in track, 12 V drive.
func DefaultConfig() Config {
	return Config{
		TrackWidth: 12,
		Drive: control.Gains{
			Kp: 0.6, Ki: 0.02, Kd: 5,
			IntegralTolerance: 2, SettleTolerance: 0.5, SettleTime: 100 * time.Millisecond,
			MinOutput: -12, MaxOutput: 12, CycleTime: control.DefaultCycle,
		},
		HeadingKp: 0.2,
		Turn: control.Gains{
			Kp: 0.15, Ki: 0.01, Kd: 1,
			IntegralTolerance: 5, SettleTolerance: 1, SettleTime: 100 * time.Millisecond,
			MinOutput: -12, MaxOutput: 12, CycleTime: control.DefaultCycle,
		},
		Swing: control.Gains{
			Kp: 0.3, Ki: 0.01, Kd: 2,
			IntegralTolerance: 5, SettleTolerance: 1, SettleTime: 100 * time.Millisecond,
			MinOutput: -12, MaxOutput: 12, CycleTime: control.DefaultCycle,
		},
		Arc: control.Gains{
			Kp: 0.6, Ki: 0.01, Kd: 4,
			IntegralTolerance: 5, SettleTolerance: 1, SettleTime: 100 * time.Millisecond,
			MinOutput: -12, MaxOutput: 12, CycleTime: control.DefaultCycle,
		},
	}
}
