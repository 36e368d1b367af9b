package analysis

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/dynamo"
)

// shifted is f = x − (5, 5), counting field evaluations.
type shifted struct{ calls int }

func (s *shifted) Derive(x dynamo.State) dynamo.State {
	s.calls++
	return dynamo.State{x[0] - 5, x[1] - 5}
}

func (s *shifted) StateDim() int { return 2 }

var _ = Describe("newton", func() {
	It("limits every coordinate step to half a unit", func() {
		sys := &shifted{}
		l := &locator{sys: sys, region: dynamo.DefaultRegion(), seen: make(map[[2]int64]struct{})}

		root, ok := l.newton(dynamo.State{0, 0})
		Expect(ok).To(BeTrue())
		Expect(root[0]).To(BeNumerically("~", 5, 1e-6))
		Expect(root[1]).To(BeNumerically("~", 5, 1e-6))

		// One residual check and four Jacobian evaluations per iteration,
		// plus the final residual check. An unclamped step would land on
		// the root after a single iteration.
		iterations := (sys.calls - 1) / 5
		Expect(iterations).To(Equal(10))
	})

	It("clamps in both directions", func() {
		Expect(clampStep(3)).To(Equal(0.5))
		Expect(clampStep(-3)).To(Equal(-0.5))
		Expect(clampStep(0.2)).To(Equal(0.2))
	})
})
