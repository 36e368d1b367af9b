package metrics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// InvariantDrift is the largest absolute deviation of a conserved quantity
// from its value at the first sample. Samples where the quantity is not
// finite (Lotka-Volterra on an axis) are skipped.
type InvariantDrift struct {
	name     string
	sys      dynamo.Conserved
	initial  float64
	maxDrift float64
	samples  int
}

func NewInvariantDrift(sys dynamo.Conserved) *InvariantDrift {
	return &InvariantDrift{
		name: "invariant_drift",
		sys:  sys,
	}
}

func (d *InvariantDrift) Name() string { return d.name }

func (d *InvariantDrift) Observe(x dynamo.State, _ float64) {
	v := d.sys.Invariant(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++
	d.maxDrift = math.Max(d.maxDrift, math.Abs(v-d.initial))
}

func (d *InvariantDrift) Value() float64 {
	return d.maxDrift
}

// Initial is the invariant at the first finite sample.
func (d *InvariantDrift) Initial() float64 { return d.initial }

func (d *InvariantDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
