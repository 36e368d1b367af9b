package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Pendulum is the damped pendulum in angle/angular velocity coordinates:
// dθ = ω, dω = −Damping·ω − (Gravity/Length)·sin θ.
type Pendulum struct {
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Length:  1.0,
		Damping: 0.5,
		Gravity: 9.81,
	}
}

func (p *Pendulum) Kind() Kind                 { return KindPendulum }
func (p *Pendulum) StateDim() int              { return 2 }
func (p *Pendulum) Labels() []string           { return []string{"theta", "omega"} }
func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{2.5, 0} }

func (p *Pendulum) Derive(x dynamo.State) dynamo.State {
	theta := x[0]
	omega := x[1]
	alpha := -p.Damping*omega - p.Gravity/p.Length*math.Sin(theta)
	return dynamo.State{omega, alpha}
}

// Equilibria returns (kπ, 0) for every k with kπ inside the region's
// x range, provided the region straddles ω = 0.
func (p *Pendulum) Equilibria(r dynamo.Region) []dynamo.State {
	if r.YMin > 0 || r.YMax < 0 {
		return nil
	}
	var out []dynamo.State
	for k := math.Ceil(r.XMin / math.Pi); k*math.Pi <= r.XMax; k++ {
		out = append(out, dynamo.State{k * math.Pi, 0})
	}
	return out
}

// Invariant is the energy per unit mass and length², conserved when Damping is zero.
func (p *Pendulum) Invariant(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + p.Gravity/p.Length*(1.0-math.Cos(x[0]))
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "length":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam(p.Kind(), name)
	}
	return nil
}
