package path

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"
)

// ProfiledPoint is one retained sample of a route together with its motion
// profile. Heading is in radians (compass convention), ArcLength is the
// distance from the previous point and Time is seconds from the start.
// Radius is +Inf on straight sections, so JSON carries Curvature instead.
type ProfiledPoint struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Heading         float64 `json:"heading"`
	T               float64 `json:"t"`
	ArcLength       float64 `json:"arc_length"`
	Radius          float64 `json:"-"`
	AngularVelocity float64 `json:"angular_velocity"`
	Velocity        float64 `json:"velocity"`
	Time            float64 `json:"time"`
}

func (p *ProfiledPoint) setVelocity(v float64) {
	p.Velocity = v
	if math.IsInf(p.Radius, 0) {
		p.AngularVelocity = 0
		return
	}
	p.AngularVelocity = v / p.Radius
}

// Curvature is 1/Radius, zero when straight. Positive curves clockwise.
func (p ProfiledPoint) Curvature() float64 {
	if math.IsInf(p.Radius, 0) || p.Radius == 0 {
		return 0
	}
	return 1 / p.Radius
}

func (p ProfiledPoint) Position() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Path is a time-parameterised trajectory.
type Path []ProfiledPoint

// Duration returns the time at the final point.
func (p Path) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Time
}

// Length returns the total distance along the path.
func (p Path) Length() float64 {
	return floats.Sum(p.ArcLengths())
}

func (p Path) PeakVelocity() float64 {
	if len(p) == 0 {
		return 0
	}
	return floats.Max(p.Velocities())
}

func (p Path) Velocities() []float64 {
	out := make([]float64, len(p))
	for i, pt := range p {
		out[i] = pt.Velocity
	}
	return out
}

func (p Path) AngularVelocities() []float64 {
	out := make([]float64, len(p))
	for i, pt := range p {
		out[i] = pt.AngularVelocity
	}
	return out
}

func (p Path) Times() []float64 {
	out := make([]float64, len(p))
	for i, pt := range p {
		out[i] = pt.Time
	}
	return out
}

func (p Path) ArcLengths() []float64 {
	out := make([]float64, len(p))
	for i, pt := range p {
		out[i] = pt.ArcLength
	}
	return out
}

// Polyline returns the retained positions in order.
func (p Path) Polyline() []r2.Point {
	out := make([]r2.Point, len(p))
	for i, pt := range p {
		out[i] = pt.Position()
	}
	return out
}

// Sample returns the profiled state at time t, interpolating position and
// speeds linearly between neighbouring points.
func (p Path) Sample(t float64) ProfiledPoint {
	if len(p) == 0 {
		return ProfiledPoint{}
	}
	if t <= 0 {
		return p[0]
	}
	i := sort.Search(len(p), func(i int) bool { return p[i].Time >= t })
	if i >= len(p) {
		return p[len(p)-1]
	}
	if i == 0 {
		return p[0]
	}
	a, b := p[i-1], p[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b
	}
	f := (t - a.Time) / span
	out := b
	out.X = a.X + f*(b.X-a.X)
	out.Y = a.Y + f*(b.Y-a.Y)
	out.Velocity = a.Velocity + f*(b.Velocity-a.Velocity)
	out.AngularVelocity = a.AngularVelocity + f*(b.AngularVelocity-a.AngularVelocity)
	out.Time = t
	return out
}
