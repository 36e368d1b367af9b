package integrators

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// StepCount is the number of steps needed to cover [0, T] with nominal step
// h: ceil(T/h), the last one clipped.
func StepCount(T, h float64) int {
	if T <= 0 || h <= 0 {
		return 0
	}
	return int(math.Ceil(T / h))
}

// Integrate advances x0 from time 0 to T and records every accepted step.
// The first sample is x0 at time 0. Each step is min(h, T-elapsed), so the
// final sample lands on T without overshoot.
func Integrate(st Stepper, sys dynamo.System, x0 dynamo.State, T, h float64) *dynamo.Trajectory {
	traj := dynamo.NewTrajectory(StepCount(T, h) + 1)
	traj.Append(0, x0)
	Walk(st, sys, x0, T, h, func(t float64, x dynamo.State) bool {
		traj.Append(t, x)
		return true
	})
	return traj
}

// Advance is Integrate without the intermediate samples.
func Advance(st Stepper, sys dynamo.System, x0 dynamo.State, T, h float64) dynamo.State {
	return Walk(st, sys, x0, T, h, nil)
}

// Walk steps x0 towards T and hands every accepted state to visit, which
// may stop the walk early by returning false. States of NonNegative systems
// are clamped after each step. The returned state is the last one reached.
func Walk(st Stepper, sys dynamo.System, x0 dynamo.State, T, h float64, visit func(float64, dynamo.State) bool) dynamo.State {
	x := x0.Clone()
	steps := StepCount(T, h)
	_, clamp := sys.(dynamo.NonNegative)

	elapsed := 0.0
	for i := 0; i < steps; i++ {
		last := i == steps-1
		dt := math.Min(h, T-elapsed)
		if last {
			dt = T - elapsed
		}
		if dt <= 0 {
			break
		}
		x = st.Step(sys, x, dt)
		if clamp {
			x.ClampNonNegative()
		}
		if last {
			elapsed = T
		} else {
			elapsed += dt
		}
		if visit != nil && !visit(elapsed, x) {
			break
		}
	}
	return x
}
