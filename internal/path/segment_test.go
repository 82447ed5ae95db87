package path_test

import (
	"math"

	"github.com/golang/geo/r2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/motionlab/internal/path"
)

// numericLength integrates |B'(t)| panel by panel so a speed zero on a
// panel boundary does not spoil the Gauss-Legendre rule.
func numericLength(s path.Segment, t0, t1 float64) float64 {
	const panels = 60
	speed := func(t float64) float64 { return s.Derivative(t).Norm() }
	var total float64
	for k := 0; k < panels; k++ {
		a := t0 + (t1-t0)*float64(k)/panels
		b := t0 + (t1-t0)*float64(k+1)/panels
		total += quad.Fixed(speed, a, b, 16, nil, 0)
	}
	return total
}

var _ = Describe("Segment", func() {
	DescribeTable("closed-form arc length matches quadrature",
		func(s path.Segment, t0, t1 float64) {
			Expect(path.ArcLength(s, t0, t1)).To(BeNumerically("~", numericLength(s, t0, t1), 1e-6))
		},
		Entry("s-curve", path.NewSegment(0, 0, 24, 24, 0, 48), 0.0, 1.0),
		Entry("gentle arc", path.NewSegment(0, 0, 0, 24, 24, 24), 0.0, 1.0),
		Entry("partial interval", path.NewSegment(0, 0, 0, 24, 24, 24), 0.25, 0.6),
		Entry("straight with midpoint control", path.NewSegment(0, 0, 0, 12, 0, 24), 0.0, 1.0),
		Entry("straight with off-centre control", path.NewSegment(0, 0, 0, 20, 0, 24), 0.0, 1.0),
		Entry("collinear overshoot", path.NewSegment(0, 0, 0, 30, 0, 24), 0.0, 1.0),
	)

	It("measures a straight segment by its endpoints", func() {
		s := path.NewSegment(0, 0, 5, 5, 10, 10)
		Expect(s.Length()).To(BeNumerically("~", math.Hypot(10, 10), 1e-9))
	})

	It("reports infinite radius on straight segments", func() {
		s := path.NewSegment(0, 0, 0, 7, 0, 24)
		for _, t := range []float64{0, 0.3, 0.9} {
			Expect(math.IsInf(s.Radius(t), 1)).To(BeTrue())
		}
	})

	It("signs radius positive for clockwise turns", func() {
		right := path.NewSegment(0, 0, 0, 24, 24, 24)
		left := path.NewSegment(0, 0, 0, 24, -24, 24)
		Expect(right.Radius(0.5)).To(BeNumerically(">", 0))
		Expect(left.Radius(0.5)).To(BeNumerically("<", 0))
	})

	It("uses compass headings", func() {
		s := path.NewSegment(0, 0, 0, 24, 24, 24)
		Expect(s.Heading(0)).To(BeNumerically("~", 0, 1e-12))
		Expect(s.Heading(1)).To(BeNumerically("~", math.Pi/2, 1e-12))
		Expect(s.Point(1)).To(Equal(r2.Point{X: 24, Y: 24}))
	})

	It("round-trips routes through point triples", func() {
		route := path.Route{path.NewSegment(0, 0, 0, 24, 24, 24), path.NewSegment(24, 24, 48, 24, 48, 48)}
		back, err := path.RouteFromPoints(route.Points())
		Expect(err).NotTo(HaveOccurred())
		Expect(back).To(Equal(route))
	})

	It("rejects malformed point triples", func() {
		_, err := path.RouteFromPoints([][][]float64{{{0, 0}, {1, 1}}})
		Expect(err).To(HaveOccurred())
		_, err = path.RouteFromPoints([][][]float64{{{0, 0}, {1}, {2, 2}}})
		Expect(err).To(HaveOccurred())
	})
})
