package sim

import (
	"time"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// referenceRefinement is how much finer the RK4 reference runs when the
// system has no closed form.
const referenceRefinement = 100

// StepperScore is one row of an integrator comparison.
type StepperScore struct {
	Name    string
	Final   dynamo.State
	Error   float64
	Elapsed time.Duration
}

// CompareSteppers advances x0 to T with each named stepper and measures the
// distance of the final state from a reference: the closed form when the
// system has one, otherwise RK4 at a step refined by referenceRefinement.
// exact reports which reference was used.
func CompareSteppers(sys dynamo.System, x0 dynamo.State, T, h float64, names []string, steppers []integrators.Stepper) (scores []StepperScore, exact bool) {
	var ref dynamo.State
	if cf, ok := sys.(dynamo.ClosedForm); ok {
		ref, exact = cf.StateAt(x0, T), true
	} else {
		ref = integrators.Advance(integrators.NewRK4(), sys, x0, T, h/referenceRefinement)
	}

	scores = make([]StepperScore, 0, len(steppers))
	for i, st := range steppers {
		start := time.Now()
		final := integrators.Advance(st, sys, x0, T, h)
		scores = append(scores, StepperScore{
			Name:    names[i],
			Final:   final,
			Error:   final.Sub(ref).Norm(),
			Elapsed: time.Since(start),
		})
	}
	return scores, exact
}
