package viz

import (
	"math"
	"strings"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	// marks are not braille cells
	if !isBraille(c.Grid[row][col]) {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	if !isBraille(c.Grid[row][col]) {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Project maps a point of region r onto sub-pixel coordinates, with y
// growing upwards. ok is false outside the region or for non-finite input.
func (c *Canvas) Project(r dynamo.Region, x, y float64) (px, py int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) || !r.Contains(x, y, 0) {
		return 0, 0, false
	}
	fx := (x - r.XMin) / (r.XMax - r.XMin)
	fy := (r.YMax - y) / (r.YMax - r.YMin)
	px = int(math.Round(fx * float64(c.Width*2-1)))
	py = int(math.Round(fy * float64(c.Height*4-1)))
	return px, py, true
}

// Plot sets the pixel under (x, y) in region coordinates.
func (c *Canvas) Plot(r dynamo.Region, x, y float64) {
	if px, py, ok := c.Project(r, x, y); ok {
		c.Set(px, py)
	}
}

// PlotPath joins consecutive points that both fall inside the region.
func (c *Canvas) PlotPath(r dynamo.Region, xs, ys []float64) {
	n := min(len(xs), len(ys))
	prevOK := false
	var px, py int
	for i := 0; i < n; i++ {
		qx, qy, ok := c.Project(r, xs[i], ys[i])
		switch {
		case ok && prevOK:
			c.DrawLine(px, py, qx, qy)
		case ok:
			c.Set(qx, qy)
		}
		px, py, prevOK = qx, qy, ok
	}
}

// Mark overwrites the cell under (x, y) with glyph.
func (c *Canvas) Mark(r dynamo.Region, x, y float64, glyph rune) {
	if px, py, ok := c.Project(r, x, y); ok {
		c.Grid[py/4][px/2] = glyph
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func isBraille(r rune) bool { return r >= 0x2800 && r <= 0x28ff }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
