package path

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/motionlab/internal/units"
)

// DefaultResolution is the number of parameter samples taken per segment.
const DefaultResolution = 1000

// Limits are the kinematic bounds a generated path must respect.
type Limits struct {
	MaxVelocity     float64 `yaml:"max_velocity" json:"max_velocity"`
	MaxAcceleration float64 `yaml:"max_acceleration" json:"max_acceleration"`
	TrackWidth      float64 `yaml:"track_width" json:"track_width"`
	PointSpacing    float64 `yaml:"point_spacing" json:"point_spacing"`
}

// Validate reports every invalid limit. MaxAcceleration may be +Inf, which
// leaves only the curvature bound.
func (l Limits) Validate() error {
	var err error
	check := func(name string, v float64, allowInf bool) {
		if math.IsNaN(v) || v <= 0 || (!allowInf && math.IsInf(v, 1)) {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidLimits, "%s = %v", name, v))
		}
	}
	check("max velocity", l.MaxVelocity, false)
	check("max acceleration", l.MaxAcceleration, true)
	check("track width", l.TrackWidth, false)
	check("point spacing", l.PointSpacing, false)
	return err
}

// Planner turns routes into motion-profiled paths. It holds no state between
// calls and is safe for concurrent use.
type Planner struct {
	limits     Limits
	resolution int
}

type Option func(*Planner)

// WithResolution sets the number of samples per segment.
func WithResolution(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.resolution = n
		}
	}
}

func NewPlanner(limits Limits, opts ...Option) (*Planner, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	p := &Planner{limits: limits, resolution: DefaultResolution}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Planner) Limits() Limits { return p.limits }

// Generate samples, decimates and profiles route.
func (p *Planner) Generate(route Route) (Path, error) {
	if err := p.validateRoute(route); err != nil {
		return nil, err
	}

	pts := p.sample(route)
	p.limitCurvature(pts)
	p.forwardPass(pts)
	p.backwardPass(pts)
	if err := timestamp(pts); err != nil {
		return nil, err
	}
	return pts, nil
}

func (p *Planner) validateRoute(route Route) error {
	if len(route) == 0 {
		return ErrEmptyRoute
	}
	for i, seg := range route {
		if !seg.finite() {
			return errors.Wrapf(ErrNonFinitePoint, "segment %d", i)
		}
		if seg.Start == seg.Control && seg.Control == seg.End {
			return errors.Wrapf(ErrDegenerateSegment, "segment %d at %v", i, seg.Start)
		}
	}
	return nil
}

func newPoint(seg Segment, t float64) ProfiledPoint {
	pos := seg.Point(t)
	return ProfiledPoint{
		X:       pos.X,
		Y:       pos.Y,
		Heading: seg.Heading(t),
		T:       t,
		Radius:  seg.Radius(t),
	}
}

// sample walks every segment at a fixed parameter step and keeps a point
// each time the distance from the last kept point exceeds the spacing.
func (p *Planner) sample(route Route) Path {
	n := p.resolution
	out := make(Path, 0, 64)

	var (
		pending float64
		prevT   float64
	)
	for i, seg := range route {
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			if i == 0 && k == 0 {
				out = append(out, newPoint(seg, 0))
				continue
			}
			if k == 0 {
				pending += ArcLength(route[i-1], prevT, 1)
			} else {
				pending += ArcLength(seg, prevT, t)
			}
			prevT = t

			if pending > p.limits.PointSpacing {
				pt := newPoint(seg, t)
				pt.ArcLength = pending
				out = append(out, pt)
				pending = 0
			}
		}
	}

	last := route[len(route)-1]
	pending += ArcLength(last, prevT, 1)
	end := newPoint(last, 1)
	end.ArcLength = pending
	return append(out, end)
}

func (p *Planner) limitCurvature(pts Path) {
	half := p.limits.TrackWidth / 2
	for i := range pts {
		r := pts[i].Radius
		if math.IsInf(r, 0) {
			pts[i].AngularVelocity = 0
			pts[i].Velocity = p.limits.MaxVelocity
			continue
		}
		pts[i].AngularVelocity = units.Sign(r) * p.limits.MaxVelocity / (math.Abs(r) + half)
		pts[i].Velocity = pts[i].AngularVelocity * r
	}
}

func (p *Planner) forwardPass(pts Path) {
	pts[0].setVelocity(0)
	for i := 1; i < len(pts); i++ {
		v := reachable(pts[i-1].Velocity, p.limits.MaxAcceleration, pts[i].ArcLength)
		if v < pts[i].Velocity {
			pts[i].setVelocity(v)
		}
	}
}

func (p *Planner) backwardPass(pts Path) {
	pts[len(pts)-1].setVelocity(0)
	for i := len(pts) - 2; i >= 0; i-- {
		v := reachable(pts[i+1].Velocity, p.limits.MaxAcceleration, pts[i+1].ArcLength)
		if v < pts[i].Velocity {
			pts[i].setVelocity(v)
		}
	}
}

// reachable is the speed attainable from v0 over distance s at acceleration a.
func reachable(v0, a, s float64) float64 {
	return math.Sqrt(v0*v0 + 2*a*s)
}

func timestamp(pts Path) error {
	pts[0].Time = 0
	for i := 1; i < len(pts); i++ {
		s := pts[i].ArcLength
		sum := pts[i].Velocity + pts[i-1].Velocity
		var dt float64
		switch {
		case s == 0:
		case sum <= 0:
			return errors.Wrapf(ErrStalledProfile, "between points %d and %d", i-1, i)
		default:
			dt = 2 * s / sum
		}
		pts[i].Time = pts[i-1].Time + dt
	}
	return nil
}
