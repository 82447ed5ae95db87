package path_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/motionlab/internal/path"
)

var _ = Describe("Planner", func() {
	var limits path.Limits

	BeforeEach(func() {
		limits = path.Limits{MaxVelocity: 48, MaxAcceleration: 24, TrackWidth: 12, PointSpacing: 1}
	})

	generate := func(l path.Limits, route path.Route) path.Path {
		planner, err := path.NewPlanner(l)
		Expect(err).NotTo(HaveOccurred())
		p, err := planner.Generate(route)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	sCurve := path.Route{path.NewSegment(0, 0, 24, 24, 0, 48)}

	Context("an s-curve at 48/24/12/1", func() {
		var p path.Path

		BeforeEach(func() {
			p = generate(limits, sCurve)
		})

		It("starts and ends at rest", func() {
			Expect(p[0].Velocity).To(Equal(0.0))
			Expect(p[len(p)-1].Velocity).To(Equal(0.0))
			Expect(p[0].AngularVelocity).To(Equal(0.0))
		})

		It("keeps time non-decreasing", func() {
			for i := 1; i < len(p); i++ {
				Expect(p[i].Time).To(BeNumerically(">=", p[i-1].Time))
			}
			Expect(p.Duration()).To(BeNumerically(">", 0))
		})

		It("never exceeds the velocity limit", func() {
			Expect(p.PeakVelocity()).To(BeNumerically("<=", 48))
		})

		It("respects acceleration in both directions", func() {
			for i := 1; i < len(p); i++ {
				s := p[i].ArcLength
				Expect(p[i].Velocity).To(BeNumerically("<=", math.Sqrt(p[i-1].Velocity*p[i-1].Velocity+2*24*s)+1e-9))
				Expect(p[i-1].Velocity).To(BeNumerically("<=", math.Sqrt(p[i].Velocity*p[i].Velocity+2*24*s)+1e-9))
			}
		})

		It("stays under the curvature bound", func() {
			for _, pt := range p {
				if math.IsInf(pt.Radius, 0) {
					continue
				}
				bound := 48 * math.Abs(pt.Radius) / (math.Abs(pt.Radius) + 6)
				Expect(pt.Velocity).To(BeNumerically("<=", bound+1e-9))
			}
		})

		It("ends exactly at the route endpoint", func() {
			last := p[len(p)-1]
			Expect(last.X).To(BeNumerically("~", 0, 1e-9))
			Expect(last.Y).To(BeNumerically("~", 48, 1e-9))
		})

		It("accounts for the whole route length", func() {
			Expect(p.Length()).To(BeNumerically("~", sCurve[0].Length(), 1e-6))
		})

		It("spaces points by more than the requested distance", func() {
			for i := 1; i < len(p)-1; i++ {
				Expect(p[i].ArcLength).To(BeNumerically(">", 1))
			}
		})
	})

	It("profiles a straight segment without rotation", func() {
		p := generate(limits, path.Route{path.NewSegment(0, 0, 0, 24, 0, 48)})
		for _, pt := range p {
			Expect(math.IsInf(pt.Radius, 1)).To(BeTrue())
			Expect(pt.AngularVelocity).To(Equal(0.0))
		}
	})

	It("reduces to the curvature limit with unbounded acceleration", func() {
		l := limits
		l.MaxAcceleration = math.Inf(1)
		p := generate(l, sCurve)
		for i := 1; i < len(p)-1; i++ {
			pt := p[i]
			want := l.MaxVelocity
			if !math.IsInf(pt.Radius, 0) {
				want = l.MaxVelocity * math.Abs(pt.Radius) / (math.Abs(pt.Radius) + l.TrackWidth/2)
			}
			Expect(pt.Velocity).To(BeNumerically("~", want, 1e-9))
		}
	})

	It("never adds points when spacing grows", func() {
		route := path.Route{
			path.NewSegment(0, 0, 0, 24, 24, 24),
			path.NewSegment(24, 24, 48, 24, 48, 48),
		}
		prev := math.MaxInt
		for _, spacing := range []float64{0.5, 1, 2, 4, 8} {
			l := limits
			l.PointSpacing = spacing
			n := len(generate(l, route))
			Expect(n).To(BeNumerically("<=", prev))
			prev = n
		}
	})

	It("carries distance across segment boundaries", func() {
		route := path.Route{
			path.NewSegment(0, 0, 0, 12, 0, 24),
			path.NewSegment(0, 24, 0, 36, 0, 48),
		}
		p := generate(limits, route)
		Expect(p.Length()).To(BeNumerically("~", 48, 1e-6))
	})

	It("interpolates samples in time", func() {
		p := generate(limits, sCurve)
		mid := p.Sample(p.Duration() / 2)
		Expect(mid.Time).To(BeNumerically("~", p.Duration()/2, 1e-9))
		Expect(p.Sample(-1)).To(Equal(p[0]))
		Expect(p.Sample(p.Duration() + 1)).To(Equal(p[len(p)-1]))
	})

	DescribeTable("rejects invalid input",
		func(l path.Limits, route path.Route, target error) {
			planner, err := path.NewPlanner(l)
			if err != nil {
				Expect(err).To(MatchError(ContainSubstring(target.Error())))
				return
			}
			_, err = planner.Generate(route)
			Expect(err).To(MatchError(target))
		},
		Entry("empty route", path.Limits{MaxVelocity: 1, MaxAcceleration: 1, TrackWidth: 1, PointSpacing: 1},
			path.Route{}, path.ErrEmptyRoute),
		Entry("degenerate segment", path.Limits{MaxVelocity: 1, MaxAcceleration: 1, TrackWidth: 1, PointSpacing: 1},
			path.Route{path.NewSegment(1, 1, 1, 1, 1, 1)}, path.ErrDegenerateSegment),
		Entry("nan control point", path.Limits{MaxVelocity: 1, MaxAcceleration: 1, TrackWidth: 1, PointSpacing: 1},
			path.Route{path.NewSegment(0, 0, math.NaN(), 1, 2, 2)}, path.ErrNonFinitePoint),
		Entry("zero velocity limit", path.Limits{MaxVelocity: 0, MaxAcceleration: 1, TrackWidth: 1, PointSpacing: 1},
			path.Route{path.NewSegment(0, 0, 0, 1, 0, 2)}, path.ErrInvalidLimits),
	)
})
