package viz

import (
	"math/bits"
	"strings"
)

// brailleBase is the empty braille cell; each cell carries a 2x4 block of
// dots as a bit mask on top of it.
const brailleBase = 0x2800

// dotBits[row][col] is the mask bit for a dot inside one cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid drawn at braille resolution: a canvas of
// Width by Height characters holds 2*Width by 4*Height dots.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

func (c *Canvas) SubWidth() int { return c.Width * 2 }

func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set turns on the dot at (x, y). Dots off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.SubWidth() || y >= c.SubHeight() {
		return
	}
	c.cells[(y/4)*c.Width+x/2] |= dotBits[y%4][x%2]
}

// Cell returns the character at column col and row row.
func (c *Canvas) Cell(col, row int) rune {
	return brailleBase + rune(c.cells[row*c.Width+col])
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

// DrawLine sets every dot on the Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	dy = -dy
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// span returns |b-a| and the unit step from a toward b.
func span(a, b int) (int, int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

func (c *Canvas) Dots() int {
	n := 0
	for _, m := range c.cells {
		n += bits.OnesCount8(m)
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
