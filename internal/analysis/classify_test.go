package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
)

func TestClassifyFromTraceAndDeterminant(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix2
		typ  Type
		stab Stability
	}{
		{"eigenvalues -1,-2", Matrix2{{0, -2}, {1, -3}}, TypeStableNode, StabilityStable},
		{"eigenvalues ±i", Matrix2{{0, -1}, {1, 0}}, TypeCenter, StabilitySemiStable},
		{"eigenvalues 1±2i", Matrix2{{1, -2}, {2, 1}}, TypeUnstableSpiral, StabilityUnstable},
		{"eigenvalues -1±2i", Matrix2{{-1, -2}, {2, -1}}, TypeStableSpiral, StabilityStable},
		{"eigenvalues 1,-1", Matrix2{{1, 0}, {0, -1}}, TypeSaddle, StabilityUnstable},
		{"eigenvalues 2,3", Matrix2{{2, 0}, {0, 3}}, TypeUnstableNode, StabilityUnstable},
		{"zero matrix", Matrix2{}, TypeCenter, StabilitySemiStable},
		{"one zero eigenvalue", Matrix2{{0, 0}, {0, -1}}, TypeCenter, StabilitySemiStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, typ, stab := ClassifyMatrix(tt.m)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.stab, stab)
		})
	}
}

func TestEigenvalueOrder(t *testing.T) {
	eigs := Eigenvalues(Matrix2{{0, -2}, {1, -3}})
	assert.Equal(t, Eigenvalue{Re: -1}, eigs[0])
	assert.Equal(t, Eigenvalue{Re: -2}, eigs[1])

	eigs = Eigenvalues(Matrix2{{1, -2}, {2, 1}})
	assert.Equal(t, 1.0, eigs[0].Re)
	assert.Equal(t, 2.0, eigs[0].Im)
	assert.Equal(t, -2.0, eigs[1].Im)
	assert.Equal(t, "1+2i", eigs[0].String())
	assert.Equal(t, "1-2i", eigs[1].String())
}

func TestEigenvaluesAgreeWithGonum(t *testing.T) {
	for _, m := range []Matrix2{
		{{0, -2}, {1, -3}},
		{{1, -2}, {2, 1}},
		{{0.3, 4}, {-1, 0.7}},
		{{2, 1}, {1, 2}},
	} {
		var eig mat.Eigen
		require.True(t, eig.Factorize(m.dense(), mat.EigenNone))
		want := eig.Values(nil)

		got := Eigenvalues(m)
		for _, g := range got {
			matched := false
			for _, w := range want {
				if math.Abs(real(w)-g.Re) < 1e-9 && math.Abs(imag(w)-g.Im) < 1e-9 {
					matched = true
				}
			}
			assert.True(t, matched, "eigenvalue %v of %v not in %v", g, m, want)
		}
	}
}

func TestJacobianCentralDifference(t *testing.T) {
	j := Jacobian(models.NewLinearSpiral(), dynamo.State{3, -2})
	assert.InDelta(t, -0.2, j[0][0], 1e-8)
	assert.InDelta(t, -1.0, j[0][1], 1e-8)
	assert.InDelta(t, 1.0, j[1][0], 1e-8)
	assert.InDelta(t, -0.2, j[1][1], 1e-8)

	// nonlinear: Lotka-Volterra at (1, 2)
	j = Jacobian(models.NewLotkaVolterra(), dynamo.State{1, 2})
	assert.InDelta(t, 0, j[0][0], 1e-6)
	assert.InDelta(t, -0.5, j[0][1], 1e-6)
	assert.InDelta(t, 1, j[1][0], 1e-6)
	assert.InDelta(t, 0, j[1][1], 1e-6)
	assert.InDelta(t, 0.5, j.Det(), 1e-6)
}

type countingField struct {
	calls int
}

func (c *countingField) Derive(x dynamo.State) dynamo.State {
	c.calls++
	return dynamo.State{x[0] * x[1], x[0] - x[1]}
}
func (c *countingField) StateDim() int { return 2 }

func TestJacobianUsesFourEvaluations(t *testing.T) {
	f := &countingField{}
	j := Jacobian(f, dynamo.State{2, 3})
	assert.Equal(t, 4, f.calls)
	assert.InDelta(t, 3, j[0][0], 1e-6)
	assert.InDelta(t, 2, j[0][1], 1e-6)
}

func TestSlope(t *testing.T) {
	assert.InDelta(t, -0.5, Slope(models.NewLogistic(), 100), 1e-6)
	assert.InDelta(t, 0.5, Slope(models.NewLogistic(), 0), 1e-6)
}

func TestMatrixSolve(t *testing.T) {
	x, ok := Matrix2{{2, 1}, {1, 3}}.Solve([2]float64{3, 5})
	require.True(t, ok)
	assert.InDelta(t, 0.8, x[0], 1e-12)
	assert.InDelta(t, 1.4, x[1], 1e-12)

	_, ok = Matrix2{{1, 2}, {2, 4}}.Solve([2]float64{1, 1})
	assert.False(t, ok)
}
