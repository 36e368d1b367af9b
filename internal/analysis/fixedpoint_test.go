package analysis_test

import (
	"math"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odelab/internal/analysis"
	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/models"
)

func byLocation(fps []analysis.FixedPoint) []analysis.FixedPoint {
	out := append([]analysis.FixedPoint(nil), fps...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	return out
}

func locate(fps []analysis.FixedPoint, x, y float64) *analysis.FixedPoint {
	for i := range fps {
		if math.Abs(fps[i].Location[0]-x) < 1e-3 && math.Abs(fps[i].Location[1]-y) < 1e-3 {
			return &fps[i]
		}
	}
	return nil
}

// skewLine has its only zero at (0.5, 0) and det J = scale.
type skewLine struct{ scale float64 }

func (s skewLine) Derive(x dynamo.State) dynamo.State {
	return dynamo.State{x[0] + x[1] - 0.5, s.scale * x[1]}
}

func (skewLine) StateDim() int { return 2 }

var _ = Describe("FindFixedPoints", func() {
	region := dynamo.Region{XMin: -10, XMax: 10, YMin: -10, YMax: 10, Grid: 20}

	Context("Lotka-Volterra with alpha=1, beta=0.5, delta=0.5, gamma=0.5", func() {
		var fps []analysis.FixedPoint

		BeforeEach(func() {
			fps = analysis.FindFixedPoints(models.NewLotkaVolterra(), region)
		})

		It("finds exactly the origin and the coexistence point", func() {
			Expect(fps).To(HaveLen(2))
			Expect(locate(fps, 0, 0)).NotTo(BeNil())
			Expect(locate(fps, 1, 2)).NotTo(BeNil())
		})

		It("classifies the origin as a saddle", func() {
			fp := locate(fps, 0, 0)
			Expect(fp.Type).To(Equal(analysis.TypeSaddle))
			Expect(fp.Stability).To(Equal(analysis.StabilityUnstable))
		})

		It("classifies the coexistence point as a center", func() {
			fp := locate(fps, 1, 2)
			Expect(fp.Type).To(Equal(analysis.TypeCenter))
			Expect(fp.Stability).To(Equal(analysis.StabilitySemiStable))
			Expect(fp.Eigenvalues[0].Im).To(BeNumerically("~", math.Sqrt(0.5), 1e-4))
		})

		It("is idempotent", func() {
			again := analysis.FindFixedPoints(models.NewLotkaVolterra(), region)
			Expect(again).To(HaveLen(len(fps)))
			a, b := byLocation(fps), byLocation(again)
			for i := range a {
				Expect(a[i].Location[0]).To(BeNumerically("~", b[i].Location[0], 1e-3))
				Expect(a[i].Location[1]).To(BeNumerically("~", b[i].Location[1], 1e-3))
				Expect(a[i].Type).To(Equal(b[i].Type))
			}
		})
	})

	It("returns every field zero with a residual below tolerance", func() {
		for _, k := range models.Kinds() {
			m := k.New()
			for _, fp := range analysis.FindFixedPoints(m, region) {
				Expect(m.Derive(fp.Location).Norm()).To(BeNumerically("<", 1e-4), k.String())
			}
		}
	})

	It("deduplicates points that round to the same key", func() {
		fps := analysis.FindFixedPoints(models.NewDuffing(), region)
		seen := map[[2]float64]bool{}
		for _, fp := range fps {
			key := [2]float64{math.Round(fp.Location[0]*1000) / 1000, math.Round(fp.Location[1]*1000) / 1000}
			Expect(seen[key]).To(BeFalse())
			seen[key] = true
		}
		Expect(fps).To(HaveLen(3))
		Expect(locate(fps, 0, 0).Type).To(Equal(analysis.TypeSaddle))
		Expect(locate(fps, 1, 0).Type).To(Equal(analysis.TypeStableSpiral))
		Expect(locate(fps, -1, 0).Type).To(Equal(analysis.TypeStableSpiral))
	})

	It("finds the damped pendulum's rest points on the angle axis", func() {
		fps := analysis.FindFixedPoints(models.NewPendulum(), region)
		Expect(fps).To(HaveLen(7))
		Expect(locate(fps, 0, 0).Stability).To(Equal(analysis.StabilityStable))
		Expect(locate(fps, math.Pi, 0).Type).To(Equal(analysis.TypeSaddle))
	})

	It("finds the three competition equilibria and the origin", func() {
		fps := analysis.FindFixedPoints(models.NewCompetition(), region)
		Expect(locate(fps, 0, 0).Type).To(Equal(analysis.TypeUnstableNode))
		Expect(locate(fps, 10, 0)).NotTo(BeNil())
		Expect(locate(fps, 0, 8)).NotTo(BeNil())
		coexist := locate(fps, 5.2/0.7, 3/0.7)
		Expect(coexist).NotTo(BeNil())
		Expect(coexist.Type).To(Equal(analysis.TypeStableNode))
	})

	It("returns an empty list when the field has no zero in range", func() {
		r := models.NewRichardson()
		r.G, r.H = 100, 100
		fps := analysis.FindFixedPoints(r, region)
		Expect(fps).NotTo(BeNil())
		Expect(fps).To(BeEmpty())
	})

	It("returns an empty list for systems that are not planar", func() {
		Expect(analysis.FindFixedPoints(models.NewSIR(), region)).To(BeEmpty())
		Expect(analysis.FindFixedPoints(models.NewLogistic(), region)).To(BeEmpty())
	})

	It("tests Lotka-Volterra's interior point even outside the region", func() {
		fps := analysis.FindFixedPoints(models.NewLotkaVolterra(), dynamo.Region{XMin: 5, XMax: 10, YMin: 5, YMax: 10, Grid: 10})
		Expect(fps).To(HaveLen(2))
		Expect(locate(fps, 0, 0)).NotTo(BeNil())
		interior := locate(fps, 1, 2)
		Expect(interior).NotTo(BeNil())
		Expect(interior.Type).To(Equal(analysis.TypeCenter))
	})

	It("abandons a refinement when the Jacobian is singular", func() {
		Expect(analysis.FindFixedPoints(skewLine{scale: 1e-11}, region)).To(BeEmpty())

		fps := analysis.FindFixedPoints(skewLine{scale: 1}, region)
		Expect(fps).To(HaveLen(1))
		Expect(fps[0].Location[0]).To(BeNumerically("~", 0.5, 1e-6))
		Expect(fps[0].Location[1]).To(BeNumerically("~", 0, 1e-6))
	})

	It("refines Van der Pol's origin from the lattice", func() {
		fps := analysis.FindFixedPoints(models.NewVanDerPol(), region)
		Expect(fps).To(HaveLen(1))
		Expect(fps[0].Type).To(Equal(analysis.TypeUnstableSpiral))
	})
})

var _ = Describe("FixedPoints1D", func() {
	region := dynamo.Region{XMin: 0, XMax: 150, YMin: 0, YMax: 1, Grid: 30}

	It("finds both logistic equilibria with opposite stability", func() {
		fps := analysis.FixedPoints1D(models.NewLogistic(), region)
		Expect(fps).To(HaveLen(2))
		Expect(fps[0].Location[0]).To(Equal(0.0))
		Expect(fps[0].Stability).To(Equal(analysis.StabilityUnstable))
		Expect(fps[1].Location[0]).To(Equal(100.0))
		Expect(fps[1].Stability).To(Equal(analysis.StabilityStable))
	})

	It("finds the Allee threshold as unstable", func() {
		fps := analysis.FixedPoints1D(models.NewAllee(), region)
		Expect(fps).To(HaveLen(3))
		Expect(fps[1].Location[0]).To(Equal(20.0))
		Expect(fps[1].Stability).To(Equal(analysis.StabilityUnstable))
	})

	It("finds nothing when harvest exceeds the maximum sustainable yield", func() {
		l := models.NewLogisticHarvest()
		l.H = 20
		Expect(analysis.FixedPoints1D(l, region)).To(BeEmpty())
	})

	It("dispatches on dimension", func() {
		Expect(analysis.Equilibria(models.NewLogistic(), region)).To(HaveLen(2))
		Expect(analysis.Equilibria(models.NewSIR(), region)).To(BeEmpty())
	})
})
