package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// scalar carries the shape shared by every single-population model.
type scalar struct{}

func (scalar) StateDim() int    { return 1 }
func (scalar) Labels() []string { return []string{"P"} }
func (scalar) NonNegative()     {}

// Exponential is dP = R·P.
type Exponential struct {
	scalar
	R float64
}

func NewExponential() *Exponential {
	return &Exponential{R: 0.5}
}

func (e *Exponential) Kind() Kind                 { return KindExponential }
func (e *Exponential) DefaultState() dynamo.State { return dynamo.State{10} }

func (e *Exponential) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{e.R * x[0]}
}

func (e *Exponential) StateAt(x0 dynamo.State, t float64) dynamo.State {
	if x0[0] <= 0 {
		return dynamo.State{0}
	}
	return dynamo.State{x0[0] * math.Exp(e.R*t)}
}

func (e *Exponential) Equilibria(_ dynamo.Region) []dynamo.State {
	return []dynamo.State{{0}}
}

func (e *Exponential) GetParams() map[string]float64 {
	return map[string]float64{"r": e.R}
}

func (e *Exponential) SetParam(name string, value float64) error {
	if name != "r" {
		return unknownParam(e.Kind(), name)
	}
	e.R = value
	return nil
}

// Logistic is dP = R·P(1 − P/K).
type Logistic struct {
	scalar
	R float64
	K float64
}

func NewLogistic() *Logistic {
	return &Logistic{R: 0.5, K: 100}
}

func (l *Logistic) Kind() Kind                 { return KindLogistic }
func (l *Logistic) DefaultState() dynamo.State { return dynamo.State{10} }

func (l *Logistic) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{l.R * x[0] * (1 - x[0]/l.K)}
}

func (l *Logistic) StateAt(x0 dynamo.State, t float64) dynamo.State {
	return dynamo.State{logisticAt(x0[0], l.R, l.K, t)}
}

func (l *Logistic) Equilibria(_ dynamo.Region) []dynamo.State {
	return []dynamo.State{{0}, {l.K}}
}

func (l *Logistic) GetParams() map[string]float64 {
	return map[string]float64{"r": l.R, "k": l.K}
}

func (l *Logistic) SetParam(name string, value float64) error {
	switch name {
	case "r":
		l.R = value
	case "k":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		l.K = value
	default:
		return unknownParam(l.Kind(), name)
	}
	return nil
}

// ExponentialHarvest is dP = R·P − H.
type ExponentialHarvest struct {
	scalar
	R float64
	H float64
}

func NewExponentialHarvest() *ExponentialHarvest {
	return &ExponentialHarvest{R: 0.5, H: 10}
}

func (e *ExponentialHarvest) Kind() Kind                 { return KindExponentialHarvest }
func (e *ExponentialHarvest) DefaultState() dynamo.State { return dynamo.State{25} }

func (e *ExponentialHarvest) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{e.R*x[0] - e.H}
}

// StateAt switches to linear decay when R is zero. Extinct populations stay
// at zero.
func (e *ExponentialHarvest) StateAt(x0 dynamo.State, t float64) dynamo.State {
	if math.Abs(e.R) < 1e-12 {
		return dynamo.State{math.Max(0, x0[0]-e.H*t)}
	}
	eq := e.H / e.R
	return dynamo.State{math.Max(0, eq+(x0[0]-eq)*math.Exp(e.R*t))}
}

func (e *ExponentialHarvest) Equilibria(_ dynamo.Region) []dynamo.State {
	if math.Abs(e.R) < 1e-12 {
		return nil
	}
	return []dynamo.State{{e.H / e.R}}
}

func (e *ExponentialHarvest) GetParams() map[string]float64 {
	return map[string]float64{"r": e.R, "h": e.H}
}

func (e *ExponentialHarvest) SetParam(name string, value float64) error {
	switch name {
	case "r":
		e.R = value
	case "h":
		e.H = value
	default:
		return unknownParam(e.Kind(), name)
	}
	return nil
}

// LogisticHarvest is logistic growth with a constant harvest:
// dP = R·P(1 − P/K) − H.
type LogisticHarvest struct {
	scalar
	R float64
	K float64
	H float64
}

func NewLogisticHarvest() *LogisticHarvest {
	return &LogisticHarvest{R: 0.5, K: 100, H: 10}
}

func (l *LogisticHarvest) Kind() Kind                 { return KindLogisticHarvest }
func (l *LogisticHarvest) DefaultState() dynamo.State { return dynamo.State{50} }

func (l *LogisticHarvest) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{l.R*x[0]*(1-x[0]/l.K) - l.H}
}

// Equilibria returns the roots of R·P(1 − P/K) = H. Above the maximum
// sustainable yield R·K/4 there are none.
func (l *LogisticHarvest) Equilibria(_ dynamo.Region) []dynamo.State {
	if math.Abs(l.R) < 1e-12 {
		return nil
	}
	disc := 1 - 4*l.H/(l.R*l.K)
	if disc < 0 {
		return nil
	}
	s := math.Sqrt(disc)
	if s == 0 {
		return []dynamo.State{{l.K / 2}}
	}
	return []dynamo.State{{l.K / 2 * (1 - s)}, {l.K / 2 * (1 + s)}}
}

func (l *LogisticHarvest) GetParams() map[string]float64 {
	return map[string]float64{"r": l.R, "k": l.K, "h": l.H}
}

func (l *LogisticHarvest) SetParam(name string, value float64) error {
	switch name {
	case "r":
		l.R = value
	case "k":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		l.K = value
	case "h":
		l.H = value
	default:
		return unknownParam(l.Kind(), name)
	}
	return nil
}

// ProportionalHarvest removes a fixed fraction E of the stock:
// dP = R·P(1 − P/K) − E·P.
type ProportionalHarvest struct {
	scalar
	R float64
	K float64
	E float64
}

func NewProportionalHarvest() *ProportionalHarvest {
	return &ProportionalHarvest{R: 0.5, K: 100, E: 0.1}
}

func (p *ProportionalHarvest) Kind() Kind                 { return KindProportionalHarvest }
func (p *ProportionalHarvest) DefaultState() dynamo.State { return dynamo.State{10} }

func (p *ProportionalHarvest) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{p.R*x[0]*(1-x[0]/p.K) - p.E*x[0]}
}

// StateAt uses the equivalent logistic with rate R − E and capacity
// K(1 − E/R). Without growth the stock decays as P0·e^{−E·t}.
func (p *ProportionalHarvest) StateAt(x0 dynamo.State, t float64) dynamo.State {
	r := p.R - p.E
	switch {
	case math.Abs(p.R) < 1e-12:
		return dynamo.State{math.Max(0, x0[0]) * math.Exp(-p.E*t)}
	case math.Abs(r) < 1e-12:
		return p.criticalAt(x0, t)
	}
	return dynamo.State{logisticAt(x0[0], r, p.K*(1-p.E/p.R), t)}
}

// criticalAt covers R == E, where dP = −(R/K)·P² has P0/(1 + R·P0·t/K).
func (p *ProportionalHarvest) criticalAt(x0 dynamo.State, t float64) dynamo.State {
	if x0[0] <= 0 {
		return dynamo.State{0}
	}
	return dynamo.State{x0[0] / (1 + p.R*x0[0]*t/p.K)}
}

func (p *ProportionalHarvest) Equilibria(_ dynamo.Region) []dynamo.State {
	out := []dynamo.State{{0}}
	if math.Abs(p.R) < 1e-12 {
		return out
	}
	return append(out, dynamo.State{p.K * (1 - p.E/p.R)})
}

func (p *ProportionalHarvest) GetParams() map[string]float64 {
	return map[string]float64{"r": p.R, "k": p.K, "e": p.E}
}

func (p *ProportionalHarvest) SetParam(name string, value float64) error {
	switch name {
	case "r":
		p.R = value
	case "k":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		p.K = value
	case "e":
		p.E = value
	default:
		return unknownParam(p.Kind(), name)
	}
	return nil
}

// Allee is growth with a strong Allee threshold A below which the
// population declines: dP = R·P(P/A − 1)(1 − P/K).
type Allee struct {
	scalar
	R float64
	K float64
	A float64
}

func NewAllee() *Allee {
	return &Allee{R: 0.5, K: 100, A: 20}
}

func (a *Allee) Kind() Kind                 { return KindAllee }
func (a *Allee) DefaultState() dynamo.State { return dynamo.State{30} }

func (a *Allee) Derive(x dynamo.State) dynamo.State {
	p := x[0]
	return dynamo.State{a.R * p * (p/a.A - 1) * (1 - p/a.K)}
}

func (a *Allee) Equilibria(_ dynamo.Region) []dynamo.State {
	return []dynamo.State{{0}, {a.A}, {a.K}}
}

func (a *Allee) GetParams() map[string]float64 {
	return map[string]float64{"r": a.R, "k": a.K, "a": a.A}
}

func (a *Allee) SetParam(name string, value float64) error {
	switch name {
	case "r":
		a.R = value
	case "k", "a":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		if name == "k" {
			a.K = value
		} else {
			a.A = value
		}
	default:
		return unknownParam(a.Kind(), name)
	}
	return nil
}

// logisticAt is the logistic solution K·P0·e^{rt} / (K + P0(e^{rt} − 1)).
func logisticAt(p0, r, k, t float64) float64 {
	if p0 <= 0 {
		return 0
	}
	if math.Abs(p0-k) <= 1e-12*math.Max(1, math.Abs(k)) {
		return k
	}
	e := math.Exp(r * t)
	return k * p0 * e / (k + p0*(e-1))
}
