package sim

import (
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// Trajectory integrates x0 over [0, T] with RK4 and returns every sample,
// x0 at time 0 first.
func Trajectory(sys dynamo.System, x0 dynamo.State, T, h float64) *dynamo.Trajectory {
	if h <= 0 {
		h = DefaultStep
	}
	return integrators.Integrate(integrators.NewRK4(), sys, x0, T, h)
}

// StateAt returns the state at time T. T <= 0 returns a copy of x0. Systems
// with a closed form are evaluated directly and h is ignored; the rest are
// integrated from 0 with RK4.
func StateAt(sys dynamo.System, x0 dynamo.State, T, h float64) dynamo.State {
	if T <= 0 {
		return x0.Clone()
	}
	if cf, ok := sys.(dynamo.ClosedForm); ok {
		return cf.StateAt(x0, T)
	}
	if h <= 0 {
		h = DefaultStep
	}
	return integrators.Advance(integrators.NewRK4(), sys, x0, T, h)
}

// SampleField evaluates a planar system on the region lattice. Systems that
// are not two-dimensional yield no samples.
func SampleField(sys dynamo.System, region dynamo.Region) []FieldSample {
	if sys.StateDim() != 2 {
		return []FieldSample{}
	}
	pts := region.Lattice()
	out := make([]FieldSample, 0, len(pts))
	for _, p := range pts {
		out = append(out, FieldSample{Point: p, Vector: sys.Derive(p)})
	}
	return out
}
