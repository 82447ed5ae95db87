package viz

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/san-kum/motionlab/internal/hardware"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(100, 100)
	c.Set(-1, 0)

	if c.Dots() != 2 {
		t.Errorf("expected 2 dots, got %d", c.Dots())
	}
	if c.Cell(0, 0) != brailleBase|0x01|0x80 {
		t.Errorf("unexpected cell %U", c.Cell(0, 0))
	}

	c.Clear()
	if c.Dots() != 0 {
		t.Errorf("expected empty canvas, got %d dots", c.Dots())
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 0)
	if c.Dots() != 20 {
		t.Errorf("expected 20 dots on a full row, got %d", c.Dots())
	}
	if lines := strings.Count(c.String(), "\n"); lines != 5 {
		t.Errorf("expected 5 rows, got %d", lines)
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]r2.Point{{X: 0, Y: 0}, {X: 0, Y: 10}})
	if b.Min.Y >= 0 || b.Max.Y <= 10 {
		t.Errorf("bounds should pad the points, got %+v", b)
	}
	if b.Max.X-b.Min.X < 1 {
		t.Errorf("degenerate axis should get a minimum span, got %+v", b)
	}

	empty := BoundsOf()
	if empty.Max.X <= empty.Min.X {
		t.Errorf("empty bounds should still be usable, got %+v", empty)
	}
}

func TestFieldProjectsUpward(t *testing.T) {
	f := NewField(20, 10, Bounds{Max: r2.Point{X: 10, Y: 10}})

	x0, y0 := f.Project(r2.Point{X: 0, Y: 0})
	x1, y1 := f.Project(r2.Point{X: 0, Y: 10})
	if x0 != x1 {
		t.Errorf("vertical line should keep x, got %d and %d", x0, x1)
	}
	if y1 >= y0 {
		t.Errorf("+y should go up the screen, got %d then %d", y0, y1)
	}

	f.Polyline([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 10}})
	f.Robot(hardware.Pose{X: 5, Y: 5, Heading: 90}, 2)
	if f.Dots() == 0 {
		t.Error("expected drawn dots")
	}
}
