package viz

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/units"
)

// Bounds is a world-space rectangle.
type Bounds struct {
	Min, Max r2.Point
}

// BoundsOf returns the box around every point, padded by 10% and at least
// one unit wide in each axis.
func BoundsOf(sets ...[]r2.Point) Bounds {
	b := Bounds{
		Min: r2.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, pts := range sets {
		for _, p := range pts {
			b.Min.X = math.Min(b.Min.X, p.X)
			b.Min.Y = math.Min(b.Min.Y, p.Y)
			b.Max.X = math.Max(b.Max.X, p.X)
			b.Max.Y = math.Max(b.Max.Y, p.Y)
		}
	}
	if math.IsInf(b.Min.X, 1) {
		return Bounds{Max: r2.Point{X: 1, Y: 1}}
	}

	pad := func(lo, hi float64) (float64, float64) {
		span := math.Max(hi-lo, 1)
		mid := (lo + hi) / 2
		return mid - span*0.6, mid + span*0.6
	}
	b.Min.X, b.Max.X = pad(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = pad(b.Min.Y, b.Max.Y)
	return b
}

// Field projects world coordinates onto a canvas with one scale for both
// axes, +y up.
type Field struct {
	*Canvas
	bounds Bounds
	scale  float64
}

func NewField(width, height int, bounds Bounds) *Field {
	c := NewCanvas(width, height)
	sx := float64(c.SubWidth()-1) / (bounds.Max.X - bounds.Min.X)
	sy := float64(c.SubHeight()-1) / (bounds.Max.Y - bounds.Min.Y)
	return &Field{Canvas: c, bounds: bounds, scale: math.Min(sx, sy)}
}

// Project maps a world point to canvas dots.
func (f *Field) Project(p r2.Point) (int, int) {
	x := (p.X - f.bounds.Min.X) * f.scale
	y := float64(f.SubHeight()-1) - (p.Y-f.bounds.Min.Y)*f.scale
	return int(math.Round(x)), int(math.Round(y))
}

func (f *Field) Plot(p r2.Point) {
	f.Set(f.Project(p))
}

// Polyline joins consecutive points.
func (f *Field) Polyline(pts []r2.Point) {
	if len(pts) == 1 {
		f.Plot(pts[0])
	}
	for i := 1; i < len(pts); i++ {
		x0, y0 := f.Project(pts[i-1])
		x1, y1 := f.Project(pts[i])
		f.DrawLine(x0, y0, x1, y1)
	}
}

// Robot marks the pose with a short stroke along the heading.
func (f *Field) Robot(pose hardware.Pose, length float64) {
	sin, cos := math.Sincos(units.DegToRad(pose.Heading))
	from := r2.Point{X: pose.X, Y: pose.Y}
	to := r2.Point{X: pose.X + length*sin, Y: pose.Y + length*cos}
	x0, y0 := f.Project(from)
	x1, y1 := f.Project(to)
	f.DrawLine(x0, y0, x1, y1)
	f.Set(x0+1, y0)
	f.Set(x0-1, y0)
	f.Set(x0, y0+1)
	f.Set(x0, y0-1)
}
