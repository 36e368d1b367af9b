package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/experiment"
)

// ErrNoCandidate is returned when no grid point produced a finite metric.
var ErrNoCandidate = errors.New("optim: no grid point produced the metric")

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

type Candidate struct {
	Params map[string]float64
	Value  float64
}

// GridSearch runs the experiment pipeline at every point of the Cartesian
// product of its axes and keeps the best value of one metric.
type GridSearch struct {
	axes     []Axis
	maximize bool
}

func NewGridSearch(axes []Axis, maximize bool) *GridSearch {
	return &GridSearch{axes: axes, maximize: maximize}
}

// Search returns the best candidate and the number of grid points that ran.
// Points whose parameters are out of bounds are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string) (*Candidate, int, error) {
	var best *Candidate
	evaluated := 0

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			cfg.Params[k] = v
		}

		out, err := experiment.RunConfig(ctx, cfg)
		if errors.Is(err, dynamo.ErrParameterBounds) {
			return nil
		}
		if err != nil {
			return err
		}
		evaluated++

		val, ok := out.Metrics[metric]
		if !ok {
			return fmt.Errorf("%w: %s has no metric %q", dynamo.ErrInvalidConfig, cfg.System, metric)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if best == nil || g.better(val, best.Value) {
			best = &Candidate{Params: params, Value: val}
		}
		return nil
	})
	if err != nil {
		return nil, evaluated, err
	}
	if best == nil {
		return nil, evaluated, ErrNoCandidate
	}
	return best, evaluated, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.axes) {
		return eval(current)
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}
