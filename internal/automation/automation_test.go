package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/storage"
)

const scenarioYAML = `
name: harvest-study
description: logistic growth then two harvest levels
steps:
  - system: logistic
    preset: growth
    duration: 5
    save_as: baseline
  - system: logistic_harvest
    params:
      h: 5
    init_state: [50]
    duration: 5
    region: {x_min: 0, x_max: 150, y_min: 0, y_max: 1, grid: 30}
  - system: logistic_harvest
    params:
      h: 20
    init_state: [50]
    duration: 5
    save_as: collapse
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "harvest-study", sc.Name)
	require.Len(t, sc.Steps, 3)
	assert.Equal(t, "growth", sc.Steps[0].Preset)
	assert.Equal(t, 20.0, sc.Steps[2].Params["h"])
}

func TestLoadScenarioRejectsEmpty(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = LoadScenario(writeScenario(t, "steps: [oops"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestStepConfig(t *testing.T) {
	base := config.DefaultConfig()
	base.Params = map[string]float64{"alpha": 2}

	cfg, err := ScenarioStep{Dt: 0.05}.Config(base)
	require.NoError(t, err)
	assert.Equal(t, "lotka_volterra", cfg.System)
	assert.Equal(t, 2.0, cfg.Params["alpha"])
	assert.Equal(t, 0.05, cfg.Dt)

	cfg, err = ScenarioStep{System: "logistic"}.Config(base)
	require.NoError(t, err)
	assert.Empty(t, cfg.Params)

	region := dynamo.Region{XMin: 0, XMax: 1, YMin: 0, YMax: 1, Grid: 4}
	cfg, err = ScenarioStep{System: "pendulum", Preset: "large", Region: &region}.Config(base)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 0}, cfg.InitState)
	assert.Equal(t, region, cfg.Region)

	_, err = ScenarioStep{System: "pendulum", Preset: "nope"}.Config(base)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	assert.Equal(t, 0.01, base.Dt, "base must not change")
}

func TestRunScenarioSavesMarkedSteps(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	store := storage.New(t.TempDir(), nil)
	results, err := NewRunner(config.DefaultConfig(), store, nil).RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotEmpty(t, results[0].RunID)
	assert.Empty(t, results[1].RunID)
	assert.NotEmpty(t, results[2].RunID)

	assert.Len(t, results[1].Outcome.FixedPoints, 2)
	assert.Empty(t, results[2].Outcome.FixedPoints)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "baseline", runs[0].Name)
	assert.Equal(t, "collapse", runs[1].Name)
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{System: "logistic", Duration: 1},
		{System: "lorenz"},
	}}
	results, err := NewRunner(config.DefaultConfig(), nil, nil).RunScenario(context.Background(), sc)
	assert.ErrorIs(t, err, dynamo.ErrUnknownSystem)
	assert.Len(t, results, 1)
}

func TestRunSweepThroughCache(t *testing.T) {
	cache, err := analysis.NewSweepCache(4)
	require.NoError(t, err)

	spec := SweepSpec{
		System: "logistic_harvest",
		Param:  "h",
		Min:    0,
		Max:    20,
		Steps:  5,
		Region: dynamo.Region{XMin: 0, XMax: 150, YMin: 0, YMax: 1, Grid: 30},
	}
	pts, err := RunSweep(spec, cache)
	require.NoError(t, err)
	require.Len(t, pts, 5)

	counts := []int{2, 2, 2, 0, 0}
	for i, p := range pts {
		assert.Len(t, p.Points, counts[i], "h=%g", p.Param)
	}
	assert.Equal(t, 1, cache.Len())

	again, err := RunSweep(spec, cache)
	require.NoError(t, err)
	assert.Equal(t, pts, again)
	assert.Equal(t, 1, cache.Len())
}

func TestRunSweepRejectsBadInput(t *testing.T) {
	_, err := RunSweep(SweepSpec{System: "logistic", Param: "zeta", Steps: 3, Region: dynamo.DefaultRegion()}, nil)
	assert.ErrorIs(t, err, dynamo.ErrUnknownParam)

	_, err = RunSweep(SweepSpec{System: "logistic", Param: "r", Steps: 0}, nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = RunSweep(SweepSpec{System: "lorenz", Param: "r", Steps: 3}, nil)
	assert.ErrorIs(t, err, dynamo.ErrUnknownSystem)
}

func TestMonteCarloCompetitionSettles(t *testing.T) {
	cfg := config.GetPreset("competition", "coexistence")
	cfg.Duration = 60
	cfg.Dt = 0.05

	results, fps, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Config:       cfg,
		Perturbation: 0.5,
		NumTrials:    8,
		Seed:         7,
	})
	require.NoError(t, err)
	require.Len(t, results, 8)

	bounded, unbounded := MonteCarloStats(results)
	assert.Equal(t, 8, bounded)
	assert.Zero(t, unbounded)

	basins := Basins(results)
	require.Len(t, basins, 1)
	for idx, n := range basins {
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, 8, n)
		assert.InDelta(t, 5.2/0.7, fps[idx].Location[0], 1e-6)
		assert.Equal(t, analysis.StabilityStable, fps[idx].Stability)
	}
}

func TestMonteCarloIsSeeded(t *testing.T) {
	cfg := config.GetPreset("logistic", "growth")
	cfg.Duration = 1
	mc := &MonteCarloConfig{Config: cfg, Perturbation: 5, NumTrials: 4, Seed: 42}

	a, _, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	b, _, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	for i := range a {
		assert.Equal(t, a[i].InitState, b[i].InitState)
	}
}
