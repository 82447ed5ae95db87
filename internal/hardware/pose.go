package hardware

import (
	"fmt"
	"math"

	"go.uber.org/atomic"
)

// Pose is a field-relative position with a compass heading in degrees
// (0 faces +y, clockwise positive).
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.1f°)", p.X, p.Y, p.Heading)
}

// DistanceTo returns the planar distance to (x, y).
func (p Pose) DistanceTo(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

// PoseProvider supplies the most recent pose estimate.
type PoseProvider interface {
	Pose() Pose
}

// PoseFunc adapts a plain function to PoseProvider.
type PoseFunc func() Pose

func (f PoseFunc) Pose() Pose { return f() }

// PoseCell holds the latest pose for concurrent readers. A writer (the
// estimator or simulator) calls Store each cycle; readers always see a
// complete snapshot.
type PoseCell struct {
	p atomic.Pointer[Pose]
}

func NewPoseCell(initial Pose) *PoseCell {
	c := &PoseCell{}
	c.Store(initial)
	return c
}

func (c *PoseCell) Store(p Pose) {
	c.p.Store(&p)
}

func (c *PoseCell) Pose() Pose {
	if p := c.p.Load(); p != nil {
		return *p
	}
	return Pose{}
}
