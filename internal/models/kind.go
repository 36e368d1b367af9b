package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Kind selects a vector field formula and its parameter record.
type Kind int

const (
	KindLinearSpiral Kind = iota
	KindSaddle
	KindCenter
	KindVanDerPol
	KindLotkaVolterra
	KindLotkaVolterraLogistic
	KindCompetition
	KindDuffing
	KindPendulum
	KindRichardson
	KindExponential
	KindLogistic
	KindExponentialHarvest
	KindLogisticHarvest
	KindProportionalHarvest
	KindAllee
	KindSI
	KindSIS
	KindSIR

	numKinds
)

var kindNames = [numKinds]string{
	KindLinearSpiral:          "linear_spiral",
	KindSaddle:                "saddle",
	KindCenter:                "center",
	KindVanDerPol:             "vanderpol",
	KindLotkaVolterra:         "lotka_volterra",
	KindLotkaVolterraLogistic: "lotka_volterra_logistic",
	KindCompetition:           "competition",
	KindDuffing:               "duffing",
	KindPendulum:              "pendulum",
	KindRichardson:            "richardson",
	KindExponential:           "exponential",
	KindLogistic:              "logistic",
	KindExponentialHarvest:    "exponential_harvest",
	KindLogisticHarvest:       "logistic_harvest",
	KindProportionalHarvest:   "proportional_harvest",
	KindAllee:                 "allee",
	KindSI:                    "si",
	KindSIS:                   "sis",
	KindSIR:                   "sir",
}

var constructors = [numKinds]func() Model{
	KindLinearSpiral:          func() Model { return NewLinearSpiral() },
	KindSaddle:                func() Model { return NewSaddle() },
	KindCenter:                func() Model { return NewCenter() },
	KindVanDerPol:             func() Model { return NewVanDerPol() },
	KindLotkaVolterra:         func() Model { return NewLotkaVolterra() },
	KindLotkaVolterraLogistic: func() Model { return NewLotkaVolterraLogistic() },
	KindCompetition:           func() Model { return NewCompetition() },
	KindDuffing:               func() Model { return NewDuffing() },
	KindPendulum:              func() Model { return NewPendulum() },
	KindRichardson:            func() Model { return NewRichardson() },
	KindExponential:           func() Model { return NewExponential() },
	KindLogistic:              func() Model { return NewLogistic() },
	KindExponentialHarvest:    func() Model { return NewExponentialHarvest() },
	KindLogisticHarvest:       func() Model { return NewLogisticHarvest() },
	KindProportionalHarvest:   func() Model { return NewProportionalHarvest() },
	KindAllee:                 func() Model { return NewAllee() },
	KindSI:                    func() Model { return NewSI() },
	KindSIS:                   func() Model { return NewSIS() },
	KindSIR:                   func() Model { return NewSIR() },
}

var kindInfo = map[Kind]string{
	KindLinearSpiral: "linear spiral / focus", KindSaddle: "linear saddle", KindCenter: "linear center",
	KindVanDerPol: "limit cycle oscillator", KindLotkaVolterra: "predator-prey", KindLotkaVolterraLogistic: "predator-prey, self-limiting prey",
	KindCompetition: "two-species competition", KindDuffing: "double-well oscillator", KindPendulum: "damped pendulum",
	KindRichardson: "arms race", KindExponential: "unbounded growth", KindLogistic: "limited growth",
	KindExponentialHarvest: "growth with constant harvest", KindLogisticHarvest: "logistic with constant harvest",
	KindProportionalHarvest: "logistic with effort harvest", KindAllee: "strong allee effect",
	KindSI: "susceptible-infected", KindSIS: "susceptible-infected-susceptible", KindSIR: "susceptible-infected-recovered",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Description is a one-line summary used by listings and the explorer.
func (k Kind) Description() string {
	return kindInfo[k]
}

// New returns the model for k with its documented default parameters.
func (k Kind) New() Model {
	if k < 0 || k >= numKinds {
		return nil
	}
	return constructors[k]()
}

// Kinds lists every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", dynamo.ErrUnknownSystem, name)
}

// Lookup builds the default model registered under name.
func Lookup(name string) (Model, error) {
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return k.New(), nil
}

// Model is a vector field plus the metadata the boundary layers need.
type Model interface {
	dynamo.System
	dynamo.Configurable
	Kind() Kind
	DefaultState() dynamo.State
	Labels() []string
}

// ParamNames returns the model's parameter names in a stable order.
func ParamNames(m dynamo.Configurable) []string {
	params := m.GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone builds an independent model of the same kind carrying m's parameters.
func Clone(m Model) Model {
	c := m.Kind().New()
	for name, v := range m.GetParams() {
		_ = c.SetParam(name, v)
	}
	return c
}

// nearRegionMargin matches how far the Newton search may leave the region.
const nearRegionMargin = 2.0

// nearRegion keeps the planar points within nearRegionMargin of r.
func nearRegion(r dynamo.Region, pts ...dynamo.State) []dynamo.State {
	out := pts[:0]
	for _, p := range pts {
		if r.Contains(p[0], p[1], nearRegionMargin) {
			out = append(out, p)
		}
	}
	return out
}

func unknownParam(k Kind, name string) error {
	return &dynamo.ParamError{System: k.String(), Name: name}
}

func mustBePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrParameterBounds, name, v)
	}
	return nil
}
