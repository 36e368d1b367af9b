package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// VanDerPol is dx = y, dy = −x + Mu(1 − x²)y.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1}
}

func (v *VanDerPol) Kind() Kind                 { return KindVanDerPol }
func (v *VanDerPol) StateDim() int              { return 2 }
func (v *VanDerPol) Labels() []string           { return []string{"x", "y"} }
func (v *VanDerPol) DefaultState() dynamo.State { return dynamo.State{0.5, 0} }

func (v *VanDerPol) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0] + v.Mu*(1-x[0]*x[0])*x[1]}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Kind(), name)
	}
	v.Mu = value
	return nil
}

// Duffing is the unforced oscillator dx = y, dy = −Delta·y − Alpha·x − Beta·x³.
type Duffing struct {
	Alpha float64
	Beta  float64
	Delta float64
}

func NewDuffing() *Duffing {
	return &Duffing{Alpha: -1, Beta: 1, Delta: 0.3}
}

func (d *Duffing) Kind() Kind                 { return KindDuffing }
func (d *Duffing) StateDim() int              { return 2 }
func (d *Duffing) Labels() []string           { return []string{"x", "y"} }
func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{0.1, 0.5} }

func (d *Duffing) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -d.Delta*x[1] - d.Alpha*x[0] - d.Beta*x[0]*x[0]*x[0]}
}

// Equilibria returns the two wells near the region when −Alpha/Beta > 0.
func (d *Duffing) Equilibria(r dynamo.Region) []dynamo.State {
	if math.Abs(d.Beta) <= 1e-10 {
		return nil
	}
	q := -d.Alpha / d.Beta
	if q <= 0 {
		return nil
	}
	w := math.Sqrt(q)
	return nearRegion(r, dynamo.State{w, 0}, dynamo.State{-w, 0})
}

// Invariant is the undamped energy y²/2 + Alpha·x²/2 + Beta·x⁴/4. It is
// conserved only when Delta is zero.
func (d *Duffing) Invariant(x dynamo.State) float64 {
	x2 := x[0] * x[0]
	return 0.5*x[1]*x[1] + 0.5*d.Alpha*x2 + 0.25*d.Beta*x2*x2
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta}
}

func (d *Duffing) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		d.Alpha = value
	case "beta":
		d.Beta = value
	case "delta":
		d.Delta = value
	default:
		return unknownParam(d.Kind(), name)
	}
	return nil
}
