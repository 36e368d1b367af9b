package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// ClampNonNegative zeroes every negative component in place.
func (s State) ClampNonNegative() {
	for i, v := range s {
		if v < 0 {
			s[i] = 0
		}
	}
}

// System is an autonomous vector field dX/dt = f(X). Derive must be pure
// and must not retain x.
type System interface {
	Derive(x State) State
	StateDim() int
}

// ClosedForm is implemented by systems that admit an explicit solution.
type ClosedForm interface {
	StateAt(x0 State, t float64) State
}

// NonNegative marks systems whose components are population or compartment
// sizes. Integrators clamp them to >= 0 after every step.
type NonNegative interface {
	NonNegative()
}

// KnownEquilibria is implemented by systems with closed-form equilibria.
// Candidates are still checked against the vector field by the caller.
type KnownEquilibria interface {
	Equilibria(r Region) []State
}

// Conserved is implemented by systems with a first integral.
type Conserved interface {
	Invariant(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Sample is one (time, state) pair of a trajectory.
type Sample struct {
	Time  float64
	State State
}

// Trajectory is an ordered, time non-decreasing sequence of samples. The
// first sample is always the initial state.
type Trajectory struct {
	Times  []float64
	States []State
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

// Append records a copy of x at time t.
func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) At(i int) Sample {
	return Sample{Time: tr.Times[i], State: tr.States[i]}
}

// Final returns the last state, or nil for an empty trajectory.
func (tr *Trajectory) Final() State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// Component extracts one state coordinate as a series.
func (tr *Trajectory) Component(idx int) []float64 {
	out := make([]float64, 0, len(tr.States))
	for _, s := range tr.States {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}

// Region is an axis-aligned rectangle in the phase plane with a lattice
// resolution. Grid N means an (N+1)x(N+1) lattice.
type Region struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
	Grid int     `yaml:"grid" json:"grid"`
}

func DefaultRegion() Region {
	return Region{XMin: -10, XMax: 10, YMin: -10, YMax: 10, Grid: 20}
}

// Contains reports whether (x, y) lies inside the region grown by margin on
// every side.
func (r Region) Contains(x, y, margin float64) bool {
	return x >= r.XMin-margin && x <= r.XMax+margin &&
		y >= r.YMin-margin && y <= r.YMax+margin
}

// Lattice returns the (Grid+1)^2 points of the region, row by row in x.
func (r Region) Lattice() []State {
	n := r.Grid
	if n < 1 {
		n = 1
	}
	dx := (r.XMax - r.XMin) / float64(n)
	dy := (r.YMax - r.YMin) / float64(n)
	pts := make([]State, 0, (n+1)*(n+1))
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			pts = append(pts, State{r.XMin + float64(i)*dx, r.YMin + float64(j)*dy})
		}
	}
	return pts
}
