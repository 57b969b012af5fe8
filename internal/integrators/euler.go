package integrators

// SymplecticEulerSolver is the semi-implicit Euler method: the velocity is
// kicked first and the angles then drift with the new velocity. Swapping the
// two updates turns it into explicit Euler, which gains energy without bound.
type SymplecticEulerSolver struct {
	base
	acc []float64
}

func NewSymplecticEuler(n int, gravity float64) *SymplecticEulerSolver {
	return &SymplecticEulerSolver{
		base: newBase(n, gravity),
		acc:  make([]float64, n),
	}
}

// Solve advances thetas and thetaDots in place by dt.
func (e *SymplecticEulerSolver) Solve(dt float64, thetas, thetaDots []float64) {
	e.accelerate(thetas, thetaDots, e.acc)
	e.add.apply(thetaDots, thetaDots, e.acc, dt)
	e.add.apply(thetas, thetas, thetaDots, dt)
}
