package integrators

import (
	"fmt"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/linalg"
	"github.com/san-kum/nchain/internal/physics"
)

// base is the plumbing every chain integrator shares: one equation assembler,
// one LU solver, and a row-parallel buffer combiner. All of it is sized once
// for n links and owned by a single integrator.
type base struct {
	n   int
	eq  *physics.Equations
	lu  *linalg.LU
	add *combiner
}

func newBase(n int, gravity float64) base {
	return base{
		n:   n,
		eq:  physics.NewEquations(n, gravity),
		lu:  linalg.NewLU(n),
		add: newCombiner(),
	}
}

// accelerate evaluates θ̈ at (thetas, thetaDots) into out.
func (b *base) accelerate(thetas, thetaDots, out []float64) {
	b.eq.Populate(thetas, thetaDots)
	if err := b.lu.Eliminate(b.eq.Matrix(), b.eq.Vector(), out); err != nil {
		// Only reachable when the integrator is fed arrays of the wrong length.
		panic(fmt.Sprintf("integrators: %v", err))
	}
}

// Equations exposes the assembler for inspection in tests and tooling.
func (b *base) Equations() *physics.Equations { return b.eq }

// combiner computes dst[i] = src[i] + scale·x[i] across rows in parallel.
// dst may alias src.
type combiner struct {
	dst, src, x []float64
	scale       float64
	fn          func(start, end int)
}

func newCombiner() *combiner {
	c := &combiner{}
	c.fn = c.run
	return c
}

func (c *combiner) apply(dst, src, x []float64, scale float64) {
	c.dst, c.src, c.x, c.scale = dst, src, x, scale
	dynamo.ParallelFor(len(dst), dynamo.RowChunk, c.fn)
	c.dst, c.src, c.x = nil, nil, nil
}

func (c *combiner) run(start, end int) {
	for i := start; i < end; i++ {
		c.dst[i] = c.src[i] + c.scale*c.x[i]
	}
}
