package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/odelab/internal/analysis"
)

type point = struct{ X, Y float64 }

var orbitColors = []string{"#00ccff", "#ff9f43", "#a29bfe", "#55efc4", "#fd79a8", "#ffeaa7"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// pad widens the box by 10% on each side and gives a degenerate axis unit
// extent.
func (b *bounds) pad() {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func (b bounds) empty() bool { return b.minX > b.maxX }

func (b bounds) project(p point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func writePath(sb *strings.Builder, b bounds, pts []point, width, height int, stroke string) {
	started := false
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		x, y := b.project(p, width, height)
		if !started {
			fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M%.1f,%.1f`, stroke, x, y)
			started = true
			continue
		}
		fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
	}
	if started {
		sb.WriteString("\"/>\n")
	}
}

// TrajectoryToSVG draws a single polyline scaled to fit the canvas.
func TrajectoryToSVG(points []struct{ X, Y float64 }, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	b := newBounds()
	for _, p := range points {
		b.add(p.X, p.Y)
	}
	if b.empty() {
		return ""
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	writePath(&sb, b, points, width, height, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// PortraitToSVG draws every orbit of the portrait and its fixed points,
// filled when stable and hollow otherwise.
func PortraitToSVG(p *analysis.PhasePortrait2D, width, height int) string {
	b := newBounds()
	for _, orbit := range p.Orbits {
		for _, pt := range orbit {
			b.add(pt.X, pt.Y)
		}
	}
	for _, fp := range p.FixedPoints {
		if len(fp.Location) == 2 {
			b.add(fp.Location[0], fp.Location[1])
		}
	}
	if b.empty() {
		return ""
	}
	b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	for i, orbit := range p.Orbits {
		writePath(&sb, b, orbit, width, height, orbitColors[i%len(orbitColors)])
	}
	for _, fp := range p.FixedPoints {
		if len(fp.Location) != 2 {
			continue
		}
		x, y := b.project(point{fp.Location[0], fp.Location[1]}, width, height)
		fill := "none"
		if fp.Stability == analysis.StabilityStable {
			fill = "#ffffff"
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s" stroke="#ffffff" stroke-width="1.5"><title>%s %s</title></circle>
`, x, y, fill, fp.Type, fp.Stability)
	}
	sb.WriteString("</svg>")
	return sb.String()
}
