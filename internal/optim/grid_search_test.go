package optim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
)

func TestGridSearchMaximize(t *testing.T) {
	cfg := config.GetPreset("logistic", "growth")
	cfg.Duration = 5

	g := NewGridSearch([]Axis{{Name: "r", Values: []float64{0.1, 0.5, 1}}}, true)
	best, n, err := g.Search(context.Background(), cfg, "final_P")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1.0, best.Params["r"])
}

func TestGridSearchMinimizeTwoAxes(t *testing.T) {
	cfg := config.GetPreset("sir", "epidemic")
	cfg.Duration = 100
	cfg.Dt = 0.1

	g := NewGridSearch([]Axis{
		{Name: "beta", Values: []float64{0.0002, 0.0004}},
		{Name: "gamma", Values: []float64{0.1, 0.2}},
	}, false)
	best, n, err := g.Search(context.Background(), cfg, "peak_I")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, map[string]float64{"beta": 0.0002, "gamma": 0.2}, best.Params)
}

func TestGridSearchSkipsOutOfBounds(t *testing.T) {
	cfg := config.GetPreset("logistic", "growth")
	cfg.Duration = 1

	g := NewGridSearch([]Axis{{Name: "k", Values: []float64{-5, 50}}}, true)
	best, n, err := g.Search(context.Background(), cfg, "final_P")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 50.0, best.Params["k"])

	g = NewGridSearch([]Axis{{Name: "k", Values: []float64{-5}}}, true)
	_, _, err = g.Search(context.Background(), cfg, "final_P")
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestGridSearchErrors(t *testing.T) {
	cfg := config.GetPreset("logistic", "growth")
	cfg.Duration = 1
	g := NewGridSearch([]Axis{{Name: "r", Values: []float64{0.5}}}, false)

	_, _, err := g.Search(context.Background(), cfg, "nope")
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, cfg, "final_P")
	assert.ErrorIs(t, err, context.Canceled)
}
