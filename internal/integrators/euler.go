package integrators

import "github.com/san-kum/odelab/internal/dynamo"

// Euler is the explicit first-order stepper. It exists for side-by-side
// accuracy comparisons with RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, dt float64) dynamo.State {
	dx := sys.Derive(x)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
