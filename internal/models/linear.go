package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// LinearSpiral is dx = A·x − B·y, dy = B·x + A·y. A < 0 gives a stable
// focus, A > 0 an unstable one, A = 0 a center.
type LinearSpiral struct {
	A float64
	B float64
}

func NewLinearSpiral() *LinearSpiral {
	return &LinearSpiral{A: -0.2, B: 1}
}

func (l *LinearSpiral) Kind() Kind                 { return KindLinearSpiral }
func (l *LinearSpiral) StateDim() int              { return 2 }
func (l *LinearSpiral) Labels() []string           { return []string{"x", "y"} }
func (l *LinearSpiral) DefaultState() dynamo.State { return dynamo.State{2, 0} }

func (l *LinearSpiral) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{l.A*x[0] - l.B*x[1], l.B*x[0] + l.A*x[1]}
}

// StateAt rotates x0 by B·t and scales it by e^{A·t}.
func (l *LinearSpiral) StateAt(x0 dynamo.State, t float64) dynamo.State {
	return rotateScale(x0, l.A*t, l.B*t)
}

func (l *LinearSpiral) GetParams() map[string]float64 {
	return map[string]float64{"a": l.A, "b": l.B}
}

func (l *LinearSpiral) SetParam(name string, value float64) error {
	switch name {
	case "a":
		l.A = value
	case "b":
		l.B = value
	default:
		return unknownParam(l.Kind(), name)
	}
	return nil
}

// Saddle is dx = x, dy = −y.
type Saddle struct{}

func NewSaddle() *Saddle { return &Saddle{} }

func (s *Saddle) Kind() Kind                 { return KindSaddle }
func (s *Saddle) StateDim() int              { return 2 }
func (s *Saddle) Labels() []string           { return []string{"x", "y"} }
func (s *Saddle) DefaultState() dynamo.State { return dynamo.State{0.1, 5} }

func (s *Saddle) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{x[0], -x[1]}
}

func (s *Saddle) StateAt(x0 dynamo.State, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(t), x0[1] * math.Exp(-t)}
}

func (s *Saddle) GetParams() map[string]float64 { return map[string]float64{} }

func (s *Saddle) SetParam(name string, _ float64) error {
	return unknownParam(s.Kind(), name)
}

// Center is dx = −y, dy = x. Orbits are circles around the origin.
type Center struct{}

func NewCenter() *Center { return &Center{} }

func (c *Center) Kind() Kind                 { return KindCenter }
func (c *Center) StateDim() int              { return 2 }
func (c *Center) Labels() []string           { return []string{"x", "y"} }
func (c *Center) DefaultState() dynamo.State { return dynamo.State{1, 0} }

func (c *Center) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{-x[1], x[0]}
}

func (c *Center) StateAt(x0 dynamo.State, t float64) dynamo.State {
	return rotateScale(x0, 0, t)
}

// Invariant is the squared radius.
func (c *Center) Invariant(x dynamo.State) float64 {
	return x[0]*x[0] + x[1]*x[1]
}

func (c *Center) GetParams() map[string]float64 { return map[string]float64{} }

func (c *Center) SetParam(name string, _ float64) error {
	return unknownParam(c.Kind(), name)
}

// Richardson is the arms race model: dx = K·y − A·x + G, dy = L·x − B·y + H.
type Richardson struct {
	K float64 // defence coefficient of x
	L float64 // defence coefficient of y
	A float64 // fatigue of x
	B float64 // fatigue of y
	G float64 // grievance of x
	H float64 // grievance of y
}

func NewRichardson() *Richardson {
	return &Richardson{K: 0.5, L: 0.5, A: 1, B: 1, G: 1, H: 1}
}

func (r *Richardson) Kind() Kind                 { return KindRichardson }
func (r *Richardson) StateDim() int              { return 2 }
func (r *Richardson) Labels() []string           { return []string{"x", "y"} }
func (r *Richardson) DefaultState() dynamo.State { return dynamo.State{0.5, 3} }

func (r *Richardson) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{
		r.K*x[1] - r.A*x[0] + r.G,
		r.L*x[0] - r.B*x[1] + r.H,
	}
}

// Equilibria returns the unique solution of the linear system when it is
// not singular and lies near the region.
func (r *Richardson) Equilibria(reg dynamo.Region) []dynamo.State {
	det := r.A*r.B - r.K*r.L
	if math.Abs(det) <= 1e-10 {
		return nil
	}
	return nearRegion(reg, dynamo.State{
		(r.G*r.B + r.K*r.H) / det,
		(r.A*r.H + r.L*r.G) / det,
	})
}

func (r *Richardson) GetParams() map[string]float64 {
	return map[string]float64{"k": r.K, "l": r.L, "a": r.A, "b": r.B, "g": r.G, "h": r.H}
}

func (r *Richardson) SetParam(name string, value float64) error {
	switch name {
	case "k":
		r.K = value
	case "l":
		r.L = value
	case "a":
		r.A = value
	case "b":
		r.B = value
	case "g":
		r.G = value
	case "h":
		r.H = value
	default:
		return unknownParam(r.Kind(), name)
	}
	return nil
}

func rotateScale(x0 dynamo.State, growth, angle float64) dynamo.State {
	e := math.Exp(growth)
	sin, cos := math.Sincos(angle)
	return dynamo.State{
		e * (x0[0]*cos - x0[1]*sin),
		e * (x0[0]*sin + x0[1]*cos),
	}
}
