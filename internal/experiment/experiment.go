package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/metrics"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/sim"
)

// lyapunovOffset is the initial separation of the companion orbit.
const lyapunovOffset = 1e-8

// Outcome is everything one run produces.
type Outcome struct {
	System      string                `json:"system"`
	Params      map[string]float64    `json:"params"`
	InitState   dynamo.State          `json:"init_state"`
	Trajectory  *dynamo.Trajectory    `json:"-"`
	FixedPoints []analysis.FixedPoint `json:"fixed_points"`
	Metrics     map[string]float64    `json:"metrics"`
}

type Experiment struct {
	cfg       *config.Config
	model     models.Model
	x0        dynamo.State
	simulator *sim.Simulator
}

// New validates cfg and wires the model, stepper and standard metrics.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := cfg.BuildSystem()
	if err != nil {
		return nil, err
	}
	x0, err := cfg.InitialState(m)
	if err != nil {
		return nil, err
	}
	stepper, err := cfg.Stepper()
	if err != nil {
		return nil, err
	}

	s := sim.New(m, stepper)
	for _, metric := range metrics.Standard(m) {
		s.AddMetric(metric)
	}
	return &Experiment{cfg: cfg.Clone(), model: m, x0: x0, simulator: s}, nil
}

func (e *Experiment) Model() models.Model { return e.model }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Run integrates the configured initial state, evaluates the metrics and
// locates the equilibria in the configured region. Planar systems also get
// a Lyapunov estimate.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	res, err := e.simulator.Run(ctx, e.x0, sim.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", e.cfg.System, err)
	}

	out := &Outcome{
		System:      e.cfg.System,
		Params:      e.model.GetParams(),
		InitState:   e.x0.Clone(),
		Trajectory:  res.Trajectory,
		FixedPoints: analysis.Equilibria(e.model, e.cfg.Region),
		Metrics:     res.Metrics,
	}
	if e.model.StateDim() == 2 {
		out.Metrics["lyapunov"] = analysis.LyapunovExponent(e.model, e.x0, e.cfg.Dt, e.cfg.Duration, lyapunovOffset)
	}
	return out, nil
}

// RunConfig is New followed by Run.
func RunConfig(ctx context.Context, cfg *config.Config) (*Outcome, error) {
	exp, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
