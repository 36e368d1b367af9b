package analysis

import (
	"fmt"
	"math"
)

// Type is the topological type of a planar fixed point.
type Type string

const (
	TypeCenter         Type = "center"
	TypeSaddle         Type = "saddle"
	TypeStableNode     Type = "stable-node"
	TypeUnstableNode   Type = "unstable-node"
	TypeStableSpiral   Type = "stable-spiral"
	TypeUnstableSpiral Type = "unstable-spiral"
)

type Stability string

const (
	StabilityStable     Stability = "stable"
	StabilityUnstable   Stability = "unstable"
	StabilitySemiStable Stability = "semi-stable"
)

// nearZero is the threshold below which an eigenvalue or real part counts
// as zero.
const nearZero = 1e-6

// Eigenvalue is a real or complex eigenvalue, kept as two floats so fixed
// points encode cleanly to JSON.
type Eigenvalue struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func (e Eigenvalue) Complex() complex128 { return complex(e.Re, e.Im) }

func (e Eigenvalue) IsReal() bool { return e.Im == 0 }

func (e Eigenvalue) String() string {
	if e.IsReal() {
		return fmt.Sprintf("%.4g", e.Re)
	}
	if e.Im < 0 {
		return fmt.Sprintf("%.4g-%.4gi", e.Re, -e.Im)
	}
	return fmt.Sprintf("%.4g+%.4gi", e.Re, e.Im)
}

// Eigenvalues of m from its trace τ and determinant Δ. With D = τ² − 4Δ,
// D >= 0 gives (τ+√D)/2 then (τ−√D)/2; D < 0 gives τ/2 ± i√(−D)/2 with the
// positive imaginary part first.
func Eigenvalues(m Matrix2) [2]Eigenvalue {
	tr := m.Trace()
	det := m.Det()
	disc := tr*tr - 4*det
	if disc >= 0 {
		s := math.Sqrt(disc)
		return [2]Eigenvalue{{Re: (tr + s) / 2}, {Re: (tr - s) / 2}}
	}
	im := math.Sqrt(-disc) / 2
	return [2]Eigenvalue{{Re: tr / 2, Im: im}, {Re: tr / 2, Im: -im}}
}

// Classify maps an eigenvalue pair to a type and stability. Real pairs that
// are neither both near zero, of opposite sign, nor of one strict sign fall
// back to center/semi-stable.
func Classify(eigs [2]Eigenvalue) (Type, Stability) {
	l1, l2 := eigs[0], eigs[1]
	if l1.IsReal() && l2.IsReal() {
		switch {
		case math.Abs(l1.Re) < nearZero && math.Abs(l2.Re) < nearZero:
			return TypeCenter, StabilitySemiStable
		case l1.Re*l2.Re < 0:
			return TypeSaddle, StabilityUnstable
		case l1.Re < 0 && l2.Re < 0:
			return TypeStableNode, StabilityStable
		case l1.Re > 0 && l2.Re > 0:
			return TypeUnstableNode, StabilityUnstable
		default:
			return TypeCenter, StabilitySemiStable
		}
	}

	switch re := l1.Re; {
	case math.Abs(re) < nearZero:
		return TypeCenter, StabilitySemiStable
	case re < 0:
		return TypeStableSpiral, StabilityStable
	default:
		return TypeUnstableSpiral, StabilityUnstable
	}
}

// ClassifyMatrix is Eigenvalues followed by Classify.
func ClassifyMatrix(m Matrix2) ([2]Eigenvalue, Type, Stability) {
	eigs := Eigenvalues(m)
	typ, stab := Classify(eigs)
	return eigs, typ, stab
}
