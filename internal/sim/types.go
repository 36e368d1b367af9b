package sim

import "github.com/san-kum/odelab/internal/dynamo"

// DefaultStep is the nominal step used when a caller passes h <= 0.
const DefaultStep = 0.01

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x dynamo.State, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Trajectory *dynamo.Trajectory
	Metrics    map[string]float64
	StepsTaken int
}

// FieldSample is the vector field evaluated at one lattice point.
type FieldSample struct {
	Point  dynamo.State
	Vector dynamo.State
}
