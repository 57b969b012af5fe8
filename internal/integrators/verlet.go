package integrators

// LeapfrogSolver is the kick-drift-kick (velocity Verlet) scheme. The second
// acceleration is evaluated at the drifted angles with the half-kicked
// velocity, which keeps the step time-symmetric.
type LeapfrogSolver struct {
	base
	acc    []float64
	newAcc []float64
}

func NewLeapfrog(n int, gravity float64) *LeapfrogSolver {
	return &LeapfrogSolver{
		base:   newBase(n, gravity),
		acc:    make([]float64, n),
		newAcc: make([]float64, n),
	}
}

// Solve advances thetas and thetaDots in place by dt.
func (l *LeapfrogSolver) Solve(dt float64, thetas, thetaDots []float64) {
	halfDt := 0.5 * dt

	l.accelerate(thetas, thetaDots, l.acc)
	l.add.apply(thetaDots, thetaDots, l.acc, halfDt)
	l.add.apply(thetas, thetas, thetaDots, dt)

	l.accelerate(thetas, thetaDots, l.newAcc)
	l.add.apply(thetaDots, thetaDots, l.newAcc, halfDt)
}
