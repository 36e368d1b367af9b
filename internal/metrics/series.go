package metrics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Peak tracks the maximum of one state component and when it occurred.
type Peak struct {
	name  string
	idx   int
	value float64
	time  float64
	seen  bool
}

func NewPeak(label string, idx int) *Peak {
	return &Peak{name: "peak_" + label, idx: idx}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.idx >= len(x) {
		return
	}
	if !p.seen || x[p.idx] > p.value {
		p.value = x[p.idx]
		p.time = t
		p.seen = true
	}
}

func (p *Peak) Value() float64 { return p.value }

// Time is when the peak was first reached.
func (p *Peak) Time() float64 { return p.time }

func (p *Peak) Reset() {
	p.value = 0
	p.time = 0
	p.seen = false
}

// Final is the last observed value of one component.
type Final struct {
	name  string
	idx   int
	value float64
}

func NewFinal(label string, idx int) *Final {
	return &Final{name: "final_" + label, idx: idx}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, _ float64) {
	if f.idx < len(x) {
		f.value = x[f.idx]
	}
}

func (f *Final) Value() float64 { return f.value }
func (f *Final) Reset()         { f.value = 0 }

// ArcLength is the distance travelled through state space.
type ArcLength struct {
	name   string
	prev   dynamo.State
	length float64
}

func NewArcLength() *ArcLength {
	return &ArcLength{name: "arc_length"}
}

func (a *ArcLength) Name() string { return a.name }

func (a *ArcLength) Observe(x dynamo.State, _ float64) {
	if a.prev != nil {
		a.length += x.Sub(a.prev).Norm()
	}
	a.prev = x.Clone()
}

func (a *ArcLength) Value() float64 {
	if math.IsNaN(a.length) {
		return 0
	}
	return a.length
}

func (a *ArcLength) Reset() {
	a.prev = nil
	a.length = 0
}
