package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odelab/internal/dynamo"
)

// FDStep is the fixed central-difference perturbation.
const FDStep = 1e-6

// Matrix2 is a 2×2 matrix in row-major order.
type Matrix2 [2][2]float64

func (m Matrix2) Trace() float64 { return m[0][0] + m[1][1] }

func (m Matrix2) Det() float64 { return m[0][0]*m[1][1] - m[0][1]*m[1][0] }

func (m Matrix2) dense() *mat.Dense {
	return mat.NewDense(2, 2, []float64{m[0][0], m[0][1], m[1][0], m[1][1]})
}

// Solve returns x with m·x = b. It reports false when m is singular.
func (m Matrix2) Solve(b [2]float64) ([2]float64, bool) {
	var x mat.VecDense
	err := x.SolveVec(m.dense(), mat.NewVecDense(2, b[:]))
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return [2]float64{}, false
		}
	}
	return [2]float64{x.AtVec(0), x.AtVec(1)}, true
}

// Jacobian estimates ∂f_i/∂x_j at x by central differences with step FDStep,
// four evaluations of the field in total.
func Jacobian(sys dynamo.System, x dynamo.State) Matrix2 {
	dst := mat.NewDense(2, 2, nil)
	fd.Jacobian(dst, func(y, p []float64) {
		copy(y, sys.Derive(dynamo.State(p)))
	}, []float64{x[0], x[1]}, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    FDStep,
	})
	return Matrix2{
		{dst.At(0, 0), dst.At(0, 1)},
		{dst.At(1, 0), dst.At(1, 1)},
	}
}

// Slope is the one-dimensional counterpart of Jacobian: f'(x) by central
// differences.
func Slope(sys dynamo.System, x float64) float64 {
	return fd.Derivative(func(p float64) float64 {
		return sys.Derive(dynamo.State{p})[0]
	}, x, &fd.Settings{
		Formula: fd.Central,
		Step:    FDStep,
	})
}
