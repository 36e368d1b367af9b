package analysis

import (
	"strings"

	"github.com/san-kum/odelab/internal/dynamo"
)

// PhasePortrait2D holds the projected orbits and fixed points of a phase
// plane plot.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Orbits         [][]struct{ X, Y float64 }
	FixedPoints    []FixedPoint
}

// NewPhasePortrait projects trajectories onto the (xIdx, yIdx) plane.
func NewPhasePortrait(trajs []*dynamo.Trajectory, fps []FixedPoint, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{XIndex: xIdx, YIndex: yIdx, FixedPoints: fps}
	for _, tr := range trajs {
		orbit := make([]struct{ X, Y float64 }, 0, tr.Len())
		for _, x := range tr.States {
			if xIdx >= len(x) || yIdx >= len(x) {
				continue
			}
			orbit = append(orbit, struct{ X, Y float64 }{X: x[xIdx], Y: x[yIdx]})
		}
		portrait.Orbits = append(portrait.Orbits, orbit)
	}
	return portrait
}

// fixedPointGlyph marks fixed points by stability.
func fixedPointGlyph(fp FixedPoint) rune {
	switch fp.Stability {
	case StabilityStable:
		return '●'
	case StabilityUnstable:
		return '○'
	default:
		return '◎'
	}
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || width <= 1 || height <= 1 {
		return ""
	}

	// Find bounds
	first := true
	var minX, maxX, minY, maxY float64
	grow := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	for _, orbit := range portrait.Orbits {
		for _, p := range orbit {
			grow(p.X, p.Y)
		}
	}
	for _, fp := range portrait.FixedPoints {
		if len(fp.Location) == 2 {
			grow(fp.Location[0], fp.Location[1])
		}
	}
	if first {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(x, y float64) (int, int, bool) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	for _, orbit := range portrait.Orbits {
		for _, p := range orbit {
			if row, col, ok := cell(p.X, p.Y); ok {
				canvas[row][col] = '•'
			}
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	for _, fp := range portrait.FixedPoints {
		if len(fp.Location) != 2 {
			continue
		}
		if row, col, ok := cell(fp.Location[0], fp.Location[1]); ok {
			canvas[row][col] = fixedPointGlyph(fp)
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
