package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

func TestRegistryCoversEveryKind(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		m := k.New()
		require.NotNil(t, m, k.String())
		assert.Equal(t, k, m.Kind())
		assert.NotEmpty(t, k.Description())
		assert.Len(t, m.DefaultState(), m.StateDim(), k.String())
		assert.Len(t, m.Labels(), m.StateDim(), k.String())
		assert.False(t, seen[k.String()], "duplicate name %s", k)
		seen[k.String()] = true

		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, seen, 19)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("lorenz")
	assert.ErrorIs(t, err, dynamo.ErrUnknownSystem)
	assert.Nil(t, Kind(99).New())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestSetParamRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		m := k.New()
		for _, name := range ParamNames(m) {
			require.NoError(t, m.SetParam(name, 3.5), "%s.%s", k, name)
			assert.Equal(t, 3.5, m.GetParams()[name])
		}
		err := m.SetParam("nope", 1)
		var pe *dynamo.ParamError
		require.True(t, errors.As(err, &pe), k.String())
		assert.Equal(t, k.String(), pe.System)
		assert.ErrorIs(t, err, dynamo.ErrUnknownParam)
	}
}

func TestSetParamBounds(t *testing.T) {
	assert.ErrorIs(t, NewPendulum().SetParam("length", 0), dynamo.ErrParameterBounds)
	assert.ErrorIs(t, NewLogistic().SetParam("k", -1), dynamo.ErrParameterBounds)
	assert.ErrorIs(t, NewSIR().SetParam("n", 0), dynamo.ErrParameterBounds)
}

func TestClone(t *testing.T) {
	lv := NewLotkaVolterra()
	lv.Alpha = 2
	c := Clone(lv).(*LotkaVolterra)
	assert.Equal(t, 2.0, c.Alpha)
	c.Alpha = 3
	assert.Equal(t, 2.0, lv.Alpha)
}

// closed forms must satisfy d/dt StateAt(x0, t) = f(StateAt(x0, t)).
func TestClosedFormsSolveTheirFields(t *testing.T) {
	cases := []struct {
		sys dynamo.System
		x0  dynamo.State
	}{
		{NewLinearSpiral(), dynamo.State{2, -1}},
		{NewSaddle(), dynamo.State{0.3, 2}},
		{NewCenter(), dynamo.State{1, 0.5}},
		{NewExponential(), dynamo.State{10}},
		{NewLogistic(), dynamo.State{10}},
		{NewExponentialHarvest(), dynamo.State{25}},
		{NewProportionalHarvest(), dynamo.State{10}},
		{&ProportionalHarvest{R: 0, K: 100, E: 0.1}, dynamo.State{50}},
		{&ProportionalHarvest{R: 0.5, K: 100, E: 0.5}, dynamo.State{50}},
		{&ProportionalHarvest{R: 0.5, K: 100, E: 0.8}, dynamo.State{50}},
		{NewSI(), dynamo.State{990, 10}},
		{NewSIS(), dynamo.State{990, 10}},
	}
	const h = 1e-5
	for _, tc := range cases {
		cf := tc.sys.(dynamo.ClosedForm)
		for _, tm := range []float64{0.5, 1, 3} {
			x := cf.StateAt(tc.x0, tm)
			fwd := cf.StateAt(tc.x0, tm+h)
			bwd := cf.StateAt(tc.x0, tm-h)
			f := tc.sys.Derive(x)
			for i := range x {
				slope := (fwd[i] - bwd[i]) / (2 * h)
				assert.InDelta(t, f[i], slope, 1e-4*math.Max(1, math.Abs(f[i])), "%T t=%v i=%d", tc.sys, tm, i)
			}
		}
		assert.InDeltaSlice(t, tc.x0, cf.StateAt(tc.x0, 0), 1e-12, "%T", tc.sys)
	}
}

func TestProportionalHarvestDegenerateRates(t *testing.T) {
	for _, p := range []*ProportionalHarvest{
		{R: 0, K: 100, E: 0.1},
		{R: 0.5, K: 100, E: 0.5},
		{R: 0.5, K: 100, E: 0.8},
	} {
		x0 := dynamo.State{50}
		closed := p.StateAt(x0, 10)
		numeric := integrators.Advance(integrators.NewRK4(), p, x0, 10, 0.001)
		assert.InDelta(t, numeric[0], closed[0], 1e-6, "R=%v E=%v", p.R, p.E)
	}

	noGrowth := &ProportionalHarvest{R: 0, K: 100, E: 0.1}
	assert.InDelta(t, 50*math.Exp(-1), noGrowth.StateAt(dynamo.State{50}, 10)[0], 1e-12)
	assert.Equal(t, 0.0, noGrowth.StateAt(dynamo.State{-3}, 10)[0])
}

func TestLogisticGuards(t *testing.T) {
	l := NewLogistic()
	for _, tm := range []float64{0, 1, 10, 1000} {
		assert.Equal(t, 100.0, l.StateAt(dynamo.State{100}, tm)[0])
		assert.Equal(t, 0.0, l.StateAt(dynamo.State{0}, tm)[0])
		assert.Equal(t, 0.0, l.StateAt(dynamo.State{-5}, tm)[0])
	}
}

func TestExponentialHarvestZeroRate(t *testing.T) {
	e := NewExponentialHarvest()
	e.R = 0
	assert.InDelta(t, 5.0, e.StateAt(dynamo.State{25}, 2)[0], 1e-12)
	assert.Equal(t, 0.0, e.StateAt(dynamo.State{25}, 100)[0])
	assert.Empty(t, e.Equilibria(dynamo.DefaultRegion()))
}

func TestSISBranches(t *testing.T) {
	s := NewSIS()

	s.Beta = 0
	got := s.StateAt(dynamo.State{990, 10}, 2)
	assert.InDelta(t, 10*math.Exp(-0.2), got[1], 1e-9)
	assert.InDelta(t, 1000.0, got[0]+got[1], 1e-9)

	// gamma/beta above the population: infection dies out exponentially
	s.Beta = 0.0001
	s.Gamma = 0.5
	got = s.StateAt(dynamo.State{990, 10}, 3)
	assert.InDelta(t, 10*math.Exp((0.1-0.5)*3), got[1], 1e-9)

	// saturation
	s = NewSIS()
	got = s.StateAt(dynamo.State{-5, 1005}, 0)
	assert.LessOrEqual(t, got[1], 1000.0)

	// endemic level n − gamma/beta
	got = s.StateAt(dynamo.State{990, 10}, 500)
	assert.InDelta(t, 1000-0.1/0.0003, got[1], 1e-3)
}

func TestSISaturation(t *testing.T) {
	s := NewSI()
	got := s.StateAt(dynamo.State{0, 1000}, 5)
	assert.Equal(t, 1000.0, got[1])
	assert.Equal(t, 0.0, got[0])
}

func TestEquilibriaAreZerosOfTheField(t *testing.T) {
	region := dynamo.Region{XMin: -7, XMax: 7, YMin: -5, YMax: 5, Grid: 10}
	for _, k := range Kinds() {
		m := k.New()
		eq, ok := m.(dynamo.KnownEquilibria)
		if !ok {
			continue
		}
		for _, p := range eq.Equilibria(region) {
			f := m.Derive(p)
			assert.Less(t, f.Norm(), 1e-9, "%s at %v", k, p)
		}
	}
}

func TestPendulumEquilibria(t *testing.T) {
	p := NewPendulum()
	pts := p.Equilibria(dynamo.Region{XMin: -4, XMax: 7, YMin: -1, YMax: 1})
	require.Len(t, pts, 4)
	assert.InDelta(t, -math.Pi, pts[0][0], 1e-12)
	assert.InDelta(t, 2*math.Pi, pts[3][0], 1e-12)

	assert.Empty(t, p.Equilibria(dynamo.Region{XMin: -4, XMax: 4, YMin: 1, YMax: 2}))
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0
	dx := p.Derive(dynamo.State{math.Pi / 2, 0})
	assert.InDelta(t, -p.Gravity/p.Length, dx[1], 1e-9)
	assert.Equal(t, 0.0, dx[0])
}

func TestLogisticHarvestAboveMSY(t *testing.T) {
	l := NewLogisticHarvest()
	l.H = 20
	assert.Empty(t, l.Equilibria(dynamo.DefaultRegion()))
	l.H = 12.5
	assert.Len(t, l.Equilibria(dynamo.DefaultRegion()), 1)
}

func TestLotkaVolterraInvariant(t *testing.T) {
	lv := NewLotkaVolterra()
	assert.True(t, math.IsNaN(lv.Invariant(dynamo.State{0, 1})))
	assert.False(t, math.IsNaN(lv.Invariant(dynamo.State{1, 2})))
}

func TestSIRR0(t *testing.T) {
	s := NewSIR()
	assert.InDelta(t, 3.0, s.R0(), 1e-12)
	s.Gamma = 0
	assert.True(t, math.IsInf(s.R0(), 1))
}

func TestCandidateRegionPolicy(t *testing.T) {
	small := dynamo.Region{XMin: 5, XMax: 10, YMin: 5, YMax: 10}

	assert.Equal(t, []dynamo.State{{1, 2}}, NewLotkaVolterra().Equilibria(small))

	r := NewRichardson()
	r.G, r.H = 100, 100
	assert.Empty(t, r.Equilibria(dynamo.DefaultRegion()))
	assert.Len(t, NewRichardson().Equilibria(dynamo.DefaultRegion()), 1)

	comp := NewCompetition().Equilibria(dynamo.Region{XMin: 8, XMax: 12, YMin: -1, YMax: 1})
	assert.Equal(t, []dynamo.State{{10, 0}}, comp)
}
