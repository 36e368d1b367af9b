package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// Simulator runs one system with one stepper and feeds every sample,
// the initial one included, to its metrics and observers.
type Simulator struct {
	sys       dynamo.System
	stepper   integrators.Stepper
	metrics   []Metric
	observers []Observer
}

func New(sys dynamo.System, stepper integrators.Stepper) *Simulator {
	if stepper == nil {
		stepper = integrators.NewRK4()
	}
	return &Simulator{
		sys:       sys,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates x0 over [0, cfg.Duration]. A cancelled context stops the
// run between steps and returns the samples gathered so far with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: dynamo.NewTrajectory(integrators.StepCount(cfg.Duration, cfg.Dt) + 1),
		Metrics:    make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.record(result, 0, x0)

	var runErr error
	integrators.Walk(s.stepper, s.sys, x0, cfg.Duration, cfg.Dt, func(t float64, x dynamo.State) bool {
		if err := ctx.Err(); err != nil {
			runErr = err
			return false
		}
		result.StepsTaken++
		s.record(result, t, x)
		return true
	})

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

func (s *Simulator) record(result *Result, t float64, x dynamo.State) {
	result.Trajectory.Append(t, x)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) validateConfig(x0 dynamo.State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system needs %d", dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	if !x0.IsValid() {
		return fmt.Errorf("%w: initial state contains NaN or Inf", dynamo.ErrInvalidConfig)
	}
	return nil
}
