package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/tracking"
	"github.com/san-kum/motionlab/internal/units"
)

// CrossTrack is the RMS lateral distance from the robot to its target.
type CrossTrack struct {
	errs []float64
}

func NewCrossTrack() *CrossTrack { return &CrossTrack{} }

func (c *CrossTrack) Name() string { return "cross_track_rms" }

func (c *CrossTrack) OnCommand(target path.ProfiledPoint, pose hardware.Pose, _ tracking.Command) {
	_, right, _ := tracking.LocalError(target, pose)
	c.errs = append(c.errs, right)
}

func (c *CrossTrack) Value() float64 {
	if len(c.errs) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(c.errs, c.errs) / float64(len(c.errs)))
}

func (c *CrossTrack) Reset() { c.errs = c.errs[:0] }

type MaxCrossTrack struct {
	max float64
}

func NewMaxCrossTrack() *MaxCrossTrack { return &MaxCrossTrack{} }

func (m *MaxCrossTrack) Name() string { return "cross_track_max" }

func (m *MaxCrossTrack) OnCommand(target path.ProfiledPoint, pose hardware.Pose, _ tracking.Command) {
	_, right, _ := tracking.LocalError(target, pose)
	m.max = math.Max(m.max, math.Abs(right))
}

func (m *MaxCrossTrack) Value() float64 { return m.max }

func (m *MaxCrossTrack) Reset() { m.max = 0 }

// HeadingError is the mean absolute heading error in degrees.
type HeadingError struct {
	errs []float64
}

func NewHeadingError() *HeadingError { return &HeadingError{} }

func (h *HeadingError) Name() string { return "heading_error_mean" }

func (h *HeadingError) OnCommand(target path.ProfiledPoint, pose hardware.Pose, _ tracking.Command) {
	_, _, e := tracking.LocalError(target, pose)
	h.errs = append(h.errs, math.Abs(units.RadToDeg(e)))
}

func (h *HeadingError) Value() float64 {
	if len(h.errs) == 0 {
		return 0
	}
	return stat.Mean(h.errs, nil)
}

func (h *HeadingError) Reset() { h.errs = h.errs[:0] }

// ControlEffort is the mean of |left| + |right| over every command, in the
// follower's command units.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) OnCommand(_ path.ProfiledPoint, _ hardware.Pose, cmd tracking.Command) {
	c.sum += math.Abs(cmd.LeftVelocity) + math.Abs(cmd.RightVelocity)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Saturation is the fraction of commands that asked either wheel for more
// than threshold. 0 means the follower never exceeded the drive.
type Saturation struct {
	threshold  float64
	violations int
	samples    int
}

func NewSaturation(threshold float64) *Saturation {
	return &Saturation{threshold: threshold}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) OnCommand(_ path.ProfiledPoint, _ hardware.Pose, cmd tracking.Command) {
	s.samples++
	if math.Abs(cmd.LeftVelocity) > s.threshold || math.Abs(cmd.RightVelocity) > s.threshold {
		s.violations++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}

// FinalError is the distance between a finishing pose and the goal.
func FinalError(goal path.ProfiledPoint, pose hardware.Pose) float64 {
	return pose.DistanceTo(goal.X, goal.Y)
}
