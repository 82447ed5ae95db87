package path

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Segment is a quadratic bezier curve from Start to End pulled toward Control.
type Segment struct {
	Start   r2.Point
	Control r2.Point
	End     r2.Point
}

// Route is an ordered list of segments, normally with each End equal to the
// next Start.
type Route []Segment

func NewSegment(x0, y0, x1, y1, x2, y2 float64) Segment {
	return Segment{
		Start:   r2.Point{X: x0, Y: y0},
		Control: r2.Point{X: x1, Y: y1},
		End:     r2.Point{X: x2, Y: y2},
	}
}

// RouteFromPoints builds a route from [segment][point][x, y] triples, the
// shape used in configuration files.
func RouteFromPoints(points [][][]float64) (Route, error) {
	route := make(Route, 0, len(points))
	for i, seg := range points {
		if len(seg) != 3 {
			return nil, errors.Errorf("path: segment %d has %d points, want 3", i, len(seg))
		}
		var p [3]r2.Point
		for j, xy := range seg {
			if len(xy) != 2 {
				return nil, errors.Errorf("path: segment %d point %d has %d coordinates, want 2", i, j, len(xy))
			}
			p[j] = r2.Point{X: xy[0], Y: xy[1]}
		}
		route = append(route, Segment{Start: p[0], Control: p[1], End: p[2]})
	}
	return route, nil
}

// Points returns the route in the [segment][point][x, y] shape.
func (r Route) Points() [][][]float64 {
	out := make([][][]float64, len(r))
	for i, s := range r {
		out[i] = [][]float64{
			{s.Start.X, s.Start.Y},
			{s.Control.X, s.Control.Y},
			{s.End.X, s.End.Y},
		}
	}
	return out
}

func (s Segment) Point(t float64) r2.Point {
	u := 1 - t
	return s.Start.Mul(u * u).Add(s.Control.Mul(2 * u * t)).Add(s.End.Mul(t * t))
}

// Derivative returns dB/dt.
func (s Segment) Derivative(t float64) r2.Point {
	return s.Control.Sub(s.Start).Mul(2 * (1 - t)).Add(s.End.Sub(s.Control).Mul(2 * t))
}

// SecondDerivative returns d²B/dt², constant along a quadratic curve.
func (s Segment) SecondDerivative() r2.Point {
	return s.End.Sub(s.Control.Mul(2)).Add(s.Start).Mul(2)
}

// Heading returns the tangent direction at t in radians, compass convention.
func (s Segment) Heading(t float64) float64 {
	d := s.Derivative(t)
	return math.Atan2(d.X, d.Y)
}

// Radius returns the signed radius of curvature at t. Positive radii turn
// clockwise. Straight stretches return +Inf.
func (s Segment) Radius(t float64) float64 {
	d := s.Derivative(t)
	dd := s.SecondDerivative()
	cross := d.X*dd.Y - d.Y*dd.X
	if math.Abs(cross) <= 1e-12*(d.Dot(d)+dd.Dot(dd)) {
		return math.Inf(1)
	}
	// Negated so clockwise is positive in the compass frame.
	return -math.Pow(d.Dot(d), 1.5) / cross
}

// Length returns the full arc length of the segment.
func (s Segment) Length() float64 {
	return ArcLength(s, 0, 1)
}

func (s Segment) finite() bool {
	for _, p := range []r2.Point{s.Start, s.Control, s.End} {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// ArcLength returns the length of s between parameters t0 and t1 in closed
// form. With d = Control-Start and e = End-2·Control+Start the speed is
// |B'(t)| = 2·sqrt(a·t² + 2b·t + c) for a = e·e, b = d·e, c = d·d.
func ArcLength(s Segment, t0, t1 float64) float64 {
	d := s.Control.Sub(s.Start)
	e := s.End.Sub(s.Control.Mul(2)).Add(s.Start)
	a, b, c := e.Dot(e), d.Dot(e), d.Dot(d)
	return 2 * (sqrtIntegral(a, b, c, t1) - sqrtIntegral(a, b, c, t0))
}

// sqrtIntegral is an antiderivative of sqrt(a·t² + 2b·t + c).
func sqrtIntegral(a, b, c, t float64) float64 {
	scale := math.Max(a, c)
	if scale == 0 {
		return 0
	}
	if a <= 1e-14*scale {
		// constant speed: the control point is the midpoint of a straight segment
		return math.Sqrt(c) * t
	}

	disc := a*c - b*b
	if disc <= 1e-12*a*c {
		// collinear control points: sqrt(q) = sqrt(a)·|t + b/a|
		u := t + b/a
		return math.Sqrt(a) * u * math.Abs(u) / 2
	}

	u := a*t + b
	q := math.Max(t*(a*t+2*b)+c, 0)
	return u*math.Sqrt(q)/(2*a) + disc/(2*math.Pow(a, 1.5))*math.Asinh(u/math.Sqrt(disc))
}
