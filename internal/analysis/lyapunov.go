package analysis

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A companion orbit starts d0 away along the
// first axis; after every step the separation is measured and rescaled back
// to d0, and the exponent is the mean log growth per unit time.
//
// Negative values mean nearby orbits converge (stable equilibrium), values
// near zero mean neutral orbits (centers, limit cycles).
func LyapunovExponent(sys dynamo.System, x0 dynamo.State, dt, duration, d0 float64) float64 {
	if len(x0) == 0 || d0 <= 0 {
		return 0
	}
	steps := integrators.StepCount(duration, dt)
	if steps == 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += d0

	rk := integrators.NewRK4()
	sumLog := 0.0
	elapsed := 0.0

	for i := 0; i < steps; i++ {
		h := math.Min(dt, duration-elapsed)
		if h <= 0 {
			break
		}
		x = rk.Step(sys, x, h)
		xp = rk.Step(sys, xp, h)
		elapsed += h

		sep := xp.Sub(x).Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for k := range xp {
			xp[k] = x[k] + (xp[k]-x[k])*scale
		}
	}

	if elapsed == 0 {
		return 0
	}
	return sumLog / elapsed
}
