package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// LotkaVolterra is the predator-prey system
// dx = Alpha·x − Beta·x·y, dy = Delta·x·y − Gamma·y.
type LotkaVolterra struct {
	Alpha float64 // prey growth
	Beta  float64 // predation rate
	Delta float64 // predator conversion
	Gamma float64 // predator death
}

func NewLotkaVolterra() *LotkaVolterra {
	return &LotkaVolterra{Alpha: 1, Beta: 0.5, Delta: 0.5, Gamma: 0.5}
}

func (lv *LotkaVolterra) Kind() Kind                 { return KindLotkaVolterra }
func (lv *LotkaVolterra) StateDim() int              { return 2 }
func (lv *LotkaVolterra) Labels() []string           { return []string{"prey", "predator"} }
func (lv *LotkaVolterra) DefaultState() dynamo.State { return dynamo.State{2, 1} }
func (lv *LotkaVolterra) NonNegative()               {}

func (lv *LotkaVolterra) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{
		lv.Alpha*x[0] - lv.Beta*x[0]*x[1],
		lv.Delta*x[0]*x[1] - lv.Gamma*x[1],
	}
}

func (lv *LotkaVolterra) Equilibria(_ dynamo.Region) []dynamo.State {
	if math.Abs(lv.Delta) <= 1e-10 || math.Abs(lv.Beta) <= 1e-10 {
		return nil
	}
	return []dynamo.State{{lv.Gamma / lv.Delta, lv.Alpha / lv.Beta}}
}

// Invariant is V = Delta·x − Gamma·ln x + Beta·y − Alpha·ln y, constant along
// orbits in the open positive quadrant and NaN elsewhere.
func (lv *LotkaVolterra) Invariant(x dynamo.State) float64 {
	if x[0] <= 0 || x[1] <= 0 {
		return math.NaN()
	}
	return lv.Delta*x[0] - lv.Gamma*math.Log(x[0]) + lv.Beta*x[1] - lv.Alpha*math.Log(x[1])
}

func (lv *LotkaVolterra) GetParams() map[string]float64 {
	return map[string]float64{"alpha": lv.Alpha, "beta": lv.Beta, "delta": lv.Delta, "gamma": lv.Gamma}
}

func (lv *LotkaVolterra) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		lv.Alpha = value
	case "beta":
		lv.Beta = value
	case "delta":
		lv.Delta = value
	case "gamma":
		lv.Gamma = value
	default:
		return unknownParam(lv.Kind(), name)
	}
	return nil
}

// LotkaVolterraLogistic limits prey growth to a carrying capacity K:
// dx = Alpha·x(1 − x/K) − Beta·x·y, dy = Delta·x·y − Gamma·y.
type LotkaVolterraLogistic struct {
	Alpha float64
	Beta  float64
	Delta float64
	Gamma float64
	K     float64
}

func NewLotkaVolterraLogistic() *LotkaVolterraLogistic {
	return &LotkaVolterraLogistic{Alpha: 1, Beta: 0.5, Delta: 0.5, Gamma: 0.5, K: 10}
}

func (lv *LotkaVolterraLogistic) Kind() Kind                 { return KindLotkaVolterraLogistic }
func (lv *LotkaVolterraLogistic) StateDim() int              { return 2 }
func (lv *LotkaVolterraLogistic) Labels() []string           { return []string{"prey", "predator"} }
func (lv *LotkaVolterraLogistic) DefaultState() dynamo.State { return dynamo.State{2, 1} }
func (lv *LotkaVolterraLogistic) NonNegative()               {}

func (lv *LotkaVolterraLogistic) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{
		lv.Alpha*x[0]*(1-x[0]/lv.K) - lv.Beta*x[0]*x[1],
		lv.Delta*x[0]*x[1] - lv.Gamma*x[1],
	}
}

// Equilibria returns the prey-only point (K, 0) and the coexistence point,
// when near the region.
func (lv *LotkaVolterraLogistic) Equilibria(r dynamo.Region) []dynamo.State {
	out := []dynamo.State{{lv.K, 0}}
	if math.Abs(lv.Delta) > 1e-10 && math.Abs(lv.Beta) > 1e-10 {
		xs := lv.Gamma / lv.Delta
		out = append(out, dynamo.State{xs, lv.Alpha * (1 - xs/lv.K) / lv.Beta})
	}
	return nearRegion(r, out...)
}

func (lv *LotkaVolterraLogistic) GetParams() map[string]float64 {
	return map[string]float64{"alpha": lv.Alpha, "beta": lv.Beta, "delta": lv.Delta, "gamma": lv.Gamma, "k": lv.K}
}

func (lv *LotkaVolterraLogistic) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		lv.Alpha = value
	case "beta":
		lv.Beta = value
	case "delta":
		lv.Delta = value
	case "gamma":
		lv.Gamma = value
	case "k":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		lv.K = value
	default:
		return unknownParam(lv.Kind(), name)
	}
	return nil
}

// Competition is two-species Lotka–Volterra competition:
// dx = R1·x(1 − (x + A12·y)/K1), dy = R2·y(1 − (y + A21·x)/K2).
type Competition struct {
	R1  float64
	R2  float64
	K1  float64
	K2  float64
	A12 float64 // effect of y on x
	A21 float64 // effect of x on y
}

func NewCompetition() *Competition {
	return &Competition{R1: 1, R2: 0.8, K1: 10, K2: 8, A12: 0.6, A21: 0.5}
}

func (c *Competition) Kind() Kind                 { return KindCompetition }
func (c *Competition) StateDim() int              { return 2 }
func (c *Competition) Labels() []string           { return []string{"x", "y"} }
func (c *Competition) DefaultState() dynamo.State { return dynamo.State{1, 1} }
func (c *Competition) NonNegative()               {}

func (c *Competition) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{
		c.R1 * x[0] * (1 - (x[0]+c.A12*x[1])/c.K1),
		c.R2 * x[1] * (1 - (x[1]+c.A21*x[0])/c.K2),
	}
}

// Equilibria returns the two single-species points and, when the
// competition matrix is not singular, the coexistence point. Points far
// outside the region are dropped.
func (c *Competition) Equilibria(r dynamo.Region) []dynamo.State {
	out := []dynamo.State{{c.K1, 0}, {0, c.K2}}
	if den := 1 - c.A12*c.A21; math.Abs(den) > 1e-10 {
		out = append(out, dynamo.State{
			(c.K1 - c.A12*c.K2) / den,
			(c.K2 - c.A21*c.K1) / den,
		})
	}
	return nearRegion(r, out...)
}

func (c *Competition) GetParams() map[string]float64 {
	return map[string]float64{"r1": c.R1, "r2": c.R2, "k1": c.K1, "k2": c.K2, "a12": c.A12, "a21": c.A21}
}

func (c *Competition) SetParam(name string, value float64) error {
	switch name {
	case "r1":
		c.R1 = value
	case "r2":
		c.R2 = value
	case "k1", "k2":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		if name == "k1" {
			c.K1 = value
		} else {
			c.K2 = value
		}
	case "a12":
		c.A12 = value
	case "a21":
		c.A21 = value
	default:
		return unknownParam(c.Kind(), name)
	}
	return nil
}
