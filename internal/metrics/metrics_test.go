package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
	"github.com/san-kum/odelab/internal/sim"
)

func TestInvariantDriftSIR(t *testing.T) {
	s := &models.SIR{Beta: 0.0005, Gamma: 0.1, N: 1000}
	traj := sim.Trajectory(s, dynamo.State{990, 10, 0}, 200, 0.05)

	drift := NewInvariantDrift(s)
	got := Evaluate(traj, drift)
	assert.Less(t, got["invariant_drift"], 1e-6)
	assert.Equal(t, 1000.0, drift.Initial())
}

func TestInvariantDriftSkipsNonFinite(t *testing.T) {
	lv := models.NewLotkaVolterra()
	d := NewInvariantDrift(lv)
	d.Observe(dynamo.State{0, 1}, 0)
	d.Observe(dynamo.State{1, 2}, 1)
	d.Observe(dynamo.State{1, 2}, 2)
	assert.Equal(t, 0.0, d.Value())
	assert.Equal(t, lv.Invariant(dynamo.State{1, 2}), d.Initial())

	d.Reset()
	assert.Equal(t, 0.0, d.Value())
}

func TestInvariantDriftDetectsDissipation(t *testing.T) {
	p := models.NewPendulum()
	traj := sim.Trajectory(p, dynamo.State{1, 0}, 10, 0.01)
	got := Evaluate(traj, NewInvariantDrift(p))
	assert.Greater(t, got["invariant_drift"], 0.1)
}

func TestPeakAndFinal(t *testing.T) {
	traj := dynamo.NewTrajectory(4)
	traj.Append(0, dynamo.State{1})
	traj.Append(1, dynamo.State{5})
	traj.Append(2, dynamo.State{5})
	traj.Append(3, dynamo.State{2})

	peak := NewPeak("P", 0)
	got := Evaluate(traj, peak, NewFinal("P", 0))
	assert.Equal(t, 5.0, got["peak_P"])
	assert.Equal(t, 1.0, peak.Time())
	assert.Equal(t, 2.0, got["final_P"])
}

func TestPeakOfNegativeSeries(t *testing.T) {
	p := NewPeak("x", 0)
	p.Observe(dynamo.State{-3}, 0)
	p.Observe(dynamo.State{-2}, 1)
	assert.Equal(t, -2.0, p.Value())
}

func TestArcLength(t *testing.T) {
	traj := sim.Trajectory(models.NewCenter(), dynamo.State{1, 0}, 2*math.Pi, 0.001)
	got := Evaluate(traj, NewArcLength())
	assert.InDelta(t, 2*math.Pi, got["arc_length"], 1e-3)
}

func TestBounded(t *testing.T) {
	b := NewBounded(10)
	b.Observe(dynamo.State{1, 2}, 0)
	b.Observe(dynamo.State{11, 2}, 1)
	assert.Equal(t, 0.5, b.Value())
	b.Reset()
	assert.Equal(t, 1.0, b.Value())
}

func TestStandardSet(t *testing.T) {
	names := func(ms []sim.Metric) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Name())
		}
		return out
	}

	sir := names(Standard(models.NewSIR()))
	assert.Contains(t, sir, "peak_I")
	assert.Contains(t, sir, "final_R")
	assert.Contains(t, sir, "invariant_drift")

	vdp := names(Standard(models.NewVanDerPol()))
	assert.NotContains(t, vdp, "invariant_drift")
	assert.Contains(t, vdp, "arc_length")
}

func TestStandardMetricsThroughSimulator(t *testing.T) {
	s := models.NewSIR()
	run := sim.New(s, nil)
	for _, m := range Standard(s) {
		run.AddMetric(m)
	}
	res, err := run.Run(context.Background(), s.DefaultState(), sim.Config{Dt: 0.1, Duration: 150})
	require.NoError(t, err)
	assert.Greater(t, res.Metrics["peak_I"], 1.0)
	assert.Less(t, res.Metrics["invariant_drift"], 1e-6)
}
