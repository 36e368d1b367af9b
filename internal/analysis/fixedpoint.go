package analysis

import (
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

const (
	maxNewtonIter = 50
	maxNewtonStep = 0.5   // per coordinate, per iteration
	singularDet   = 1e-10 // |det J| below this aborts a refinement
	escapeMargin  = 2.0   // how far an iterate may leave the region
	residualTol   = 1e-4  // ‖f‖ below this is a fixed point
)

// FixedPoint is a classified equilibrium.
type FixedPoint struct {
	Location    dynamo.State  `json:"location"`
	Eigenvalues [2]Eigenvalue `json:"eigenvalues"`
	Type        Type          `json:"type"`
	Stability   Stability     `json:"stability"`
}

// FindFixedPoints returns the equilibria of a planar system found from the
// origin, the system's closed-form candidates (taken as given, the system
// decides which lie close enough to the region), and Newton refinement of
// every region lattice seed. Points are deduplicated on their coordinates
// rounded to three decimals, first found wins. Systems that are not
// two-dimensional yield an empty list.
func FindFixedPoints(sys dynamo.System, region dynamo.Region) []FixedPoint {
	l := &locator{sys: sys, region: region, seen: make(map[[2]int64]struct{}), points: []FixedPoint{}}
	if sys.StateDim() != 2 {
		return l.points
	}

	l.accept(dynamo.State{0, 0})
	if ke, ok := sys.(dynamo.KnownEquilibria); ok {
		for _, c := range ke.Equilibria(region) {
			if len(c) == 2 {
				l.accept(c)
			}
		}
	}

	for _, seed := range region.Lattice() {
		if _, dup := l.seen[dedupKey(seed)]; dup {
			continue
		}
		if root, ok := l.newton(seed); ok {
			l.accept(root)
		}
	}
	return l.points
}

type locator struct {
	sys    dynamo.System
	region dynamo.Region
	seen   map[[2]int64]struct{}
	points []FixedPoint
}

// accept records p if the field vanishes there and no point with the same
// key is recorded yet.
func (l *locator) accept(p dynamo.State) {
	if !(l.sys.Derive(p).Norm() < residualTol) {
		return
	}
	key := dedupKey(p)
	if _, dup := l.seen[key]; dup {
		return
	}
	l.seen[key] = struct{}{}

	eigs, typ, stab := ClassifyMatrix(Jacobian(l.sys, p))
	l.points = append(l.points, FixedPoint{
		Location:    p.Clone(),
		Eigenvalues: eigs,
		Type:        typ,
		Stability:   stab,
	})
}

func (l *locator) newton(seed dynamo.State) (dynamo.State, bool) {
	x := seed.Clone()
	for i := 0; i < maxNewtonIter; i++ {
		f := l.sys.Derive(x)
		if f.Norm() < residualTol {
			return x, true
		}
		j := Jacobian(l.sys, x)
		if math.Abs(j.Det()) < singularDet {
			return nil, false
		}
		step, ok := j.Solve([2]float64{f[0], f[1]})
		if !ok {
			return nil, false
		}
		for k := range step {
			x[k] -= clampStep(step[k])
		}
		if !x.IsValid() || !l.region.Contains(x[0], x[1], escapeMargin) {
			return nil, false
		}
	}
	if l.sys.Derive(x).Norm() < residualTol {
		return x, true
	}
	return nil, false
}

func clampStep(v float64) float64 {
	return math.Max(-maxNewtonStep, math.Min(maxNewtonStep, v))
}

// dedupKey rounds both coordinates to three decimals. Integer keys make
// -0.0004 and 0.0004 collide with 0.
func dedupKey(p dynamo.State) [2]int64 {
	return [2]int64{roundKey(p[0]), roundKey(p[1])}
}

func roundKey(v float64) int64 {
	return int64(math.Round(v * 1000))
}

// FixedPoints1D returns the equilibria of a scalar system on the region's
// x range. Closed-form candidates are checked first, then every lattice
// abscissa is refined with Newton's method under the same limits as the
// planar locator. The eigenvalue pair is (f'(p), f'(p)).
func FixedPoints1D(sys dynamo.System, region dynamo.Region) []FixedPoint {
	out := []FixedPoint{}
	if sys.StateDim() != 1 {
		return out
	}
	seen := make(map[int64]struct{})
	accept := func(p float64) {
		if !(math.Abs(sys.Derive(dynamo.State{p})[0]) < residualTol) {
			return
		}
		key := roundKey(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		lambda := Eigenvalue{Re: Slope(sys, p)}
		eigs := [2]Eigenvalue{lambda, lambda}
		typ, stab := Classify(eigs)
		out = append(out, FixedPoint{Location: dynamo.State{p}, Eigenvalues: eigs, Type: typ, Stability: stab})
	}

	inRange := func(p float64) bool {
		return p >= region.XMin-escapeMargin && p <= region.XMax+escapeMargin
	}

	if ke, ok := sys.(dynamo.KnownEquilibria); ok {
		for _, c := range ke.Equilibria(region) {
			if len(c) == 1 && inRange(c[0]) {
				accept(c[0])
			}
		}
	}

	n := region.Grid
	if n < 1 {
		n = 1
	}
	dx := (region.XMax - region.XMin) / float64(n)
	for i := 0; i <= n; i++ {
		x := region.XMin + float64(i)*dx
		if _, dup := seen[roundKey(x)]; dup {
			continue
		}
		for it := 0; it < maxNewtonIter; it++ {
			f := sys.Derive(dynamo.State{x})[0]
			if math.Abs(f) < residualTol {
				accept(x)
				break
			}
			d := Slope(sys, x)
			if math.Abs(d) < singularDet {
				break
			}
			x -= clampStep(f / d)
			if math.IsNaN(x) || !inRange(x) {
				break
			}
		}
	}
	return out
}

// Equilibria dispatches on dimension: scalar systems go to FixedPoints1D,
// planar ones to FindFixedPoints. Anything else has no analysis.
func Equilibria(sys dynamo.System, region dynamo.Region) []FixedPoint {
	switch sys.StateDim() {
	case 1:
		return FixedPoints1D(sys, region)
	case 2:
		return FindFixedPoints(sys, region)
	default:
		return []FixedPoint{}
	}
}
