// Package metrics scores a tracking run. Each metric observes the commands
// a follower issues and reduces them to one number.
package metrics

import (
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/tracking"
)

type Metric interface {
	tracking.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans observations out to several metrics.
type Set []Metric

// Standard returns the metrics recorded for every run.
func Standard(maxWheel float64) Set {
	return Set{
		NewCrossTrack(),
		NewMaxCrossTrack(),
		NewHeadingError(),
		NewControlEffort(),
		NewSaturation(maxWheel),
		NewOscillation(),
	}
}

func (s Set) OnCommand(target path.ProfiledPoint, pose hardware.Pose, cmd tracking.Command) {
	for _, m := range s {
		m.OnCommand(target, pose, cmd)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}
