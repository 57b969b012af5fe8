package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
	"github.com/san-kum/nchain/internal/physics"
)

const (
	energySteps  = 10000
	energyDt     = 0.001
	energyWindow = 1000
)

type energyTrace struct {
	initial float64
	maxDev  float64
	early   float64
	late    float64
	finite  bool
}

// runEnergy steps a double pendulum and records how its energy evolves.
func runEnergy(kind integrators.Kind, thetas, dots []float64) energyTrace {
	integ, err := integrators.New(kind, len(thetas), physics.StandardGravity)
	Expect(err).NotTo(HaveOccurred())

	s := dynamo.ChainState{Thetas: thetas, ThetaDots: dots}
	model := physics.Model{Gravity: physics.StandardGravity}

	tr := energyTrace{initial: model.Energy(s), finite: true}
	for i := 0; i < energySteps; i++ {
		integ.Solve(energyDt, s.Thetas, s.ThetaDots)
		if !s.IsValid() {
			tr.finite = false
			return tr
		}
		e := model.Energy(s)
		tr.maxDev = math.Max(tr.maxDev, math.Abs(e-tr.initial))
		if i < energyWindow {
			tr.early += e / energyWindow
		}
		if i >= energySteps-energyWindow {
			tr.late += e / energyWindow
		}
	}
	return tr
}

var _ = Describe("Chain integrators", func() {
	Describe("a double pendulum over 10000 steps at dt=0.001", func() {
		var thetas, dots []float64

		BeforeEach(func() {
			thetas = []float64{0.5, -0.3}
			dots = []float64{0, 0}
		})

		DescribeTable("keeps total energy in a bounded band without secular drift",
			func(kind integrators.Kind) {
				tr := runEnergy(kind, thetas, dots)
				Expect(tr.finite).To(BeTrue())

				scale := math.Abs(tr.initial)
				Expect(tr.maxDev/scale).To(BeNumerically("<", 1e-2))
				Expect(math.Abs(tr.late-tr.early)/scale).To(BeNumerically("<", 5e-3))
			},
			Entry("symplectic euler", integrators.SymplecticEuler),
			Entry("leapfrog", integrators.Leapfrog),
		)

		It("stays bounded under RK4", func() {
			tr := runEnergy(integrators.RungeKutta4, thetas, dots)
			Expect(tr.finite).To(BeTrue())
			Expect(tr.maxDev / math.Abs(tr.initial)).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("explicit Euler ordering", func() {
		It("drifts far more than the symplectic update", func() {
			thetas := []float64{0.5, -0.3}
			dots := []float64{0, 0}
			model := physics.Model{Gravity: physics.StandardGravity}
			s := dynamo.ChainState{Thetas: thetas, ThetaDots: dots}
			e0 := model.Energy(s)

			// Position first, then velocity: the order the symplectic
			// integrator must not use.
			eq := physics.NewEquations(2, physics.StandardGravity)
			acc := make([]float64, 2)
			for i := 0; i < energySteps; i++ {
				eq.Populate(thetas, dots)
				solveSmall(eq, acc)
				for j := range thetas {
					thetas[j] += energyDt * dots[j]
					dots[j] += energyDt * acc[j]
				}
			}
			explicit := math.Abs(model.Energy(s)-e0) / math.Abs(e0)

			tr := runEnergy(integrators.SymplecticEuler, []float64{0.5, -0.3}, []float64{0, 0})
			Expect(explicit).To(BeNumerically(">", 3*tr.maxDev/math.Abs(tr.initial)))
		})
	})

	Describe("projection of an integrated chain", func() {
		It("always yields n+1 joints anchored at the origin", func() {
			for n := 1; n <= 6; n++ {
				thetas := make([]float64, n)
				dots := make([]float64, n)
				for i := range thetas {
					thetas[i] = 0.2 * float64(i+1)
				}
				integ, err := integrators.New(integrators.Leapfrog, n, physics.StandardGravity)
				Expect(err).NotTo(HaveOccurred())
				for i := 0; i < 100; i++ {
					integ.Solve(0.005, thetas, dots)
				}

				origin := dynamo.Point{X: 40, Y: 12}
				pts := physics.Project(thetas, origin, 1)
				Expect(pts).To(HaveLen(n + 1))
				Expect(pts[0]).To(Equal(origin))
			}
		})
	})
})

// solveSmall solves the 2×2 system held by eq with Cramer's rule.
func solveSmall(eq *physics.Equations, out []float64) {
	m, f := eq.Matrix(), eq.Vector()
	det := m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
	out[0] = (f[0]*m.At(1, 1) - m.At(0, 1)*f[1]) / det
	out[1] = (m.At(0, 0)*f[1] - f[0]*m.At(1, 0)) / det
}
