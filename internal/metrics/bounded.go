package metrics

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Bounded is the fraction of samples whose components all stay within
// ±threshold. Diverging orbits drive it towards zero.
type Bounded struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{
		name:      "bounded",
		threshold: threshold,
	}
}

func (s *Bounded) Name() string {
	return s.name
}

func (s *Bounded) Observe(x dynamo.State, _ float64) {
	s.samples++
	for _, val := range x {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.violations = 0
	s.samples = 0
}
