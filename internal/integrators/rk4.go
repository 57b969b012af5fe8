package integrators

import "github.com/san-kum/nchain/internal/dynamo"

// RK4 applies the classical four-stage Runge-Kutta method to the first-order
// system θ' = θ̇, θ̇' = a(θ, θ̇). Each step costs four assemble+solve
// evaluations, run strictly in sequence.
type RK4 struct {
	base
	pos    []float64    // stage angles, rewritten by every stage
	vel    [4][]float64 // stage angular velocities; vel[0] is unused
	acc    [4][]float64 // stage accelerations
	dt     float64
	thetas []float64
	dots   []float64
	finish func(start, end int)
}

func NewRK4(n int, gravity float64) *RK4 {
	r := &RK4{
		base: newBase(n, gravity),
		pos:  make([]float64, n),
	}
	for s := 0; s < 4; s++ {
		r.vel[s] = make([]float64, n)
		r.acc[s] = make([]float64, n)
	}
	r.finish = r.combine
	return r
}

// Solve advances thetas and thetaDots in place by dt.
func (r *RK4) Solve(dt float64, thetas, thetaDots []float64) {
	half := 0.5 * dt

	// k1 at the current state.
	r.accelerate(thetas, thetaDots, r.acc[0])

	// k2 at the midpoint reached with k1.
	r.add.apply(r.pos, thetas, thetaDots, half)
	r.add.apply(r.vel[1], thetaDots, r.acc[0], half)
	r.accelerate(r.pos, r.vel[1], r.acc[1])

	// k3 at the midpoint reached with k2.
	r.add.apply(r.pos, thetas, r.vel[1], half)
	r.add.apply(r.vel[2], thetaDots, r.acc[1], half)
	r.accelerate(r.pos, r.vel[2], r.acc[2])

	// k4 at the full step reached with k3.
	r.add.apply(r.pos, thetas, r.vel[2], dt)
	r.add.apply(r.vel[3], thetaDots, r.acc[2], dt)
	r.accelerate(r.pos, r.vel[3], r.acc[3])

	r.dt, r.thetas, r.dots = dt, thetas, thetaDots
	dynamo.ParallelFor(r.n, dynamo.RowChunk, r.finish)
	r.thetas, r.dots = nil, nil
}

// combine applies the weighted average. The θ-derivative of stage 1 is the
// current θ̇ itself, so it must be read before θ̇ is overwritten.
func (r *RK4) combine(start, end int) {
	dt6 := r.dt / 6
	for i := start; i < end; i++ {
		r.thetas[i] += dt6 * (r.dots[i] + 2*(r.vel[1][i]+r.vel[2][i]) + r.vel[3][i])
		r.dots[i] += dt6 * (r.acc[0][i] + 2*(r.acc[1][i]+r.acc[2][i]) + r.acc[3][i])
	}
}
