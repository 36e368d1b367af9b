package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/viz"
)

const (
	liveWidth   = 60
	liveHeight  = 18
	historySize = 240
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a simulation observer that redraws the run in place.
// Planar and larger states trail through the phase plane of the first two
// components; scalar states show a sparkline of recent values.
type LiveRenderer struct {
	out       io.Writer
	name      string
	labels    []string
	region    dynamo.Region
	frameRate int
	lastFrame time.Time
	canvas    *viz.Canvas
	trail     [][2]float64
	history   []float64
	frames    int
}

// NewLiveRenderer draws at most frameRate frames per second; zero or less
// draws every step.
func NewLiveRenderer(out io.Writer, name string, labels []string, region dynamo.Region, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		name:      name,
		labels:    labels,
		region:    region,
		frameRate: frameRate,
		canvas:    viz.NewCanvas(liveWidth, liveHeight),
		trail:     make([][2]float64, 0, historySize),
		history:   make([]float64, 0, historySize),
	}
}

func (r *LiveRenderer) OnStep(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	if len(x) >= 2 {
		r.trail = push(r.trail, [2]float64{x[0], x[1]})
	}
	r.history = push(r.history, x[0])

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}
	r.render(x, t)
}

func push[T any](buf []T, v T) []T {
	if len(buf) == historySize {
		copy(buf, buf[1:])
		buf = buf[:historySize-1]
	}
	return append(buf, v)
}

func (r *LiveRenderer) render(x dynamo.State, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "%s  t=%.3f\n", r.name, t)

	if len(x) >= 2 {
		r.canvas.Clear()
		xs := make([]float64, len(r.trail))
		ys := make([]float64, len(r.trail))
		for i, p := range r.trail {
			xs[i], ys[i] = p[0], p[1]
		}
		r.canvas.PlotPath(r.region, xs, ys)
		r.canvas.Mark(r.region, x[0], x[1], 'O')
		b.WriteString(r.canvas.String())
	} else {
		b.WriteString(viz.Sparkline(r.history, liveWidth) + "\n")
	}

	for i, v := range x {
		label := fmt.Sprintf("x%d", i)
		if i < len(r.labels) {
			label = r.labels[i]
		}
		fmt.Fprintf(&b, "%s=%.4g  ", label, v)
	}
	b.WriteString("\n")

	io.WriteString(r.out, b.String())
	r.frames++
}

func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
