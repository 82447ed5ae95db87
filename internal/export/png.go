package export

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
)

var (
	plannedColor = color.RGBA{R: 0xff, G: 0xaa, B: 0x00, A: 0xff}
	drivenColor  = color.RGBA{R: 0x00, G: 0x99, B: 0x55, A: 0xff}
	angularColor = color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}
)

// ProfilePNG plots planned linear and angular velocity against time and,
// when trace is not empty, the speed the robot actually drove.
func ProfilePNG(file string, p path.Path, trace []sim.Sample) error {
	if len(p) == 0 {
		return errors.New("export: empty path")
	}

	pl := plot.New()
	pl.Title.Text = "Velocity profile"
	pl.X.Label.Text = "time (s)"
	pl.Y.Label.Text = "velocity (in/s), angular velocity (rad/s)"
	pl.Add(plotter.NewGrid())

	v := make(plotter.XYs, len(p))
	w := make(plotter.XYs, len(p))
	for i, pt := range p {
		v[i] = plotter.XY{X: pt.Time, Y: pt.Velocity}
		w[i] = plotter.XY{X: pt.Time, Y: pt.AngularVelocity}
	}
	if err := addLine(pl, "planned velocity", v, plannedColor); err != nil {
		return err
	}
	if err := addLine(pl, "planned angular velocity", w, angularColor); err != nil {
		return err
	}

	if len(trace) > 1 {
		driven := make(plotter.XYs, 0, len(trace))
		t0 := trace[0].Time
		for _, s := range trace {
			driven = append(driven, plotter.XY{X: s.Time - t0, Y: (s.Left + s.Right) / 2})
		}
		if err := addLine(pl, "commanded wheel speed", driven, drivenColor); err != nil {
			return err
		}
	}

	if err := pl.Save(8*vg.Inch, 4*vg.Inch, file); err != nil {
		return errors.Wrap(err, "export: save png")
	}
	return nil
}

func addLine(pl *plot.Plot, name string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrapf(err, "export: %s", name)
	}
	line.Color = c
	line.Width = vg.Points(1)
	pl.Add(line)
	pl.Legend.Add(name, line)
	return nil
}
