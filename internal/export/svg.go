// Package export renders runs for people outside the terminal: an SVG of the
// field, PNG plots of the motion profile and a JSON dump.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/san-kum/motionlab/internal/viz"
)

// Series is one polyline on the field.
type Series struct {
	Name   string
	Points []r2.Point
	Stroke string
}

// FieldSVG draws every series on one field with a shared scale and +y up,
// marking the start and end of each.
func FieldSVG(w io.Writer, width, height int, series ...Series) error {
	var sets [][]r2.Point
	for _, s := range series {
		sets = append(sets, s.Points)
	}
	b := viz.BoundsOf(sets...)
	scale := min(float64(width)/(b.Max.X-b.Min.X), float64(height)/(b.Max.Y-b.Min.Y))
	project := func(p r2.Point) (float64, float64) {
		return (p.X - b.Min.X) * scale, float64(height) - (p.Y-b.Min.Y)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<g id="%s">`+"\n", s.Name)
		sb.WriteString(`<path fill="none" stroke="` + s.Stroke + `" stroke-width="1.5" d="M`)
		for i, p := range s.Points {
			x, y := project(p)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x0, y0 := project(s.Points[0])
		x1, y1 := project(s.Points[len(s.Points)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", x0, y0, s.Stroke)
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="6" height="6" fill="%s"/>`+"\n", x1-3, y1-3, s.Stroke)
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "export: write svg")
}
