package models

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// SI is the susceptible-infected model on (S, I) with no recovery:
// dS = −Beta·S·I, dI = Beta·S·I. N only seeds the default state; the
// closed form uses the conserved total S0 + I0.
type SI struct {
	Beta float64
	N    float64
}

func NewSI() *SI {
	return &SI{Beta: 0.0003, N: 1000}
}

func (s *SI) Kind() Kind                 { return KindSI }
func (s *SI) StateDim() int              { return 2 }
func (s *SI) Labels() []string           { return []string{"S", "I"} }
func (s *SI) DefaultState() dynamo.State { return dynamo.State{s.N - 1, 1} }
func (s *SI) NonNegative()               {}

func (s *SI) Derive(x dynamo.State) dynamo.State {
	inf := s.Beta * x[0] * x[1]
	return dynamo.State{-inf, inf}
}

func (s *SI) StateAt(x0 dynamo.State, t float64) dynamo.State {
	n := x0[0] + x0[1]
	i := logisticAt(math.Min(x0[1], n), s.Beta*n, n, t)
	return dynamo.State{n - i, i}
}

func (s *SI) Invariant(x dynamo.State) float64 { return x[0] + x[1] }

func (s *SI) GetParams() map[string]float64 {
	return map[string]float64{"beta": s.Beta, "n": s.N}
}

func (s *SI) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		s.Beta = value
	case "n":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		s.N = value
	default:
		return unknownParam(s.Kind(), name)
	}
	return nil
}

// SIS lets infected individuals return to the susceptible pool at rate Gamma:
// dS = −Beta·S·I + Gamma·I, dI = Beta·S·I − Gamma·I.
type SIS struct {
	Beta  float64
	Gamma float64
	N     float64
}

func NewSIS() *SIS {
	return &SIS{Beta: 0.0003, Gamma: 0.1, N: 1000}
}

func (s *SIS) Kind() Kind                 { return KindSIS }
func (s *SIS) StateDim() int              { return 2 }
func (s *SIS) Labels() []string           { return []string{"S", "I"} }
func (s *SIS) DefaultState() dynamo.State { return dynamo.State{s.N - 1, 1} }
func (s *SIS) NonNegative()               {}

func (s *SIS) Derive(x dynamo.State) dynamo.State {
	inf := s.Beta * x[0] * x[1]
	rec := s.Gamma * x[1]
	return dynamo.State{rec - inf, inf - rec}
}

// StateAt reduces to a logistic in I with rate Beta·n − Gamma and effective
// capacity n − Gamma/Beta, where n = S0 + I0.
func (s *SIS) StateAt(x0 dynamo.State, t float64) dynamo.State {
	n := x0[0] + x0[1]
	i0 := math.Min(x0[1], n)
	var i float64
	switch {
	case i0 <= 0:
		i = 0
	case s.Beta <= 0:
		i = i0 * math.Exp(-s.Gamma*t)
	default:
		keff := n - s.Gamma/s.Beta
		if keff <= 0 {
			i = i0 * math.Exp((s.Beta*n-s.Gamma)*t)
		} else {
			i = logisticAt(i0, s.Beta*n-s.Gamma, keff, t)
		}
	}
	return dynamo.State{n - i, i}
}

func (s *SIS) Invariant(x dynamo.State) float64 { return x[0] + x[1] }

func (s *SIS) GetParams() map[string]float64 {
	return map[string]float64{"beta": s.Beta, "gamma": s.Gamma, "n": s.N}
}

func (s *SIS) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		s.Beta = value
	case "gamma":
		s.Gamma = value
	case "n":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		s.N = value
	default:
		return unknownParam(s.Kind(), name)
	}
	return nil
}

// SIR is the mass-action susceptible-infected-recovered model on (S, I, R):
// dS = −Beta·S·I, dI = Beta·S·I − Gamma·I, dR = Gamma·I.
type SIR struct {
	Beta  float64
	Gamma float64
	N     float64
}

func NewSIR() *SIR {
	return &SIR{Beta: 0.0003, Gamma: 0.1, N: 1000}
}

func (s *SIR) Kind() Kind                 { return KindSIR }
func (s *SIR) StateDim() int              { return 3 }
func (s *SIR) Labels() []string           { return []string{"S", "I", "R"} }
func (s *SIR) DefaultState() dynamo.State { return dynamo.State{s.N - 1, 1, 0} }
func (s *SIR) NonNegative()               {}

func (s *SIR) Derive(x dynamo.State) dynamo.State {
	inf := s.Beta * x[0] * x[1]
	rec := s.Gamma * x[1]
	return dynamo.State{-inf, inf - rec, rec}
}

// R0 is the basic reproduction number Beta·N/Gamma.
func (s *SIR) R0() float64 {
	if s.Gamma == 0 {
		return math.Inf(1)
	}
	return s.Beta * s.N / s.Gamma
}

func (s *SIR) Invariant(x dynamo.State) float64 { return x[0] + x[1] + x[2] }

func (s *SIR) GetParams() map[string]float64 {
	return map[string]float64{"beta": s.Beta, "gamma": s.Gamma, "n": s.N}
}

func (s *SIR) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		s.Beta = value
	case "gamma":
		s.Gamma = value
	case "n":
		if err := mustBePositive(name, value); err != nil {
			return err
		}
		s.N = value
	default:
		return unknownParam(s.Kind(), name)
	}
	return nil
}
