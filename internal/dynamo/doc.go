// Package dynamo provides the core primitives shared by the chain simulator.
//
// The package defines the state and capability types every other package
// builds on:
//
//   - [ChainState]: angle and angular-velocity arrays of an N-link chain
//   - [Integrator]: advances a chain state in place by one time step
//   - [Hamiltonian]: total mechanical energy of a state
//   - [Metric], [Observer]: hooks notified by the headless runner
//   - [ParallelFor]: row-wise fan-out with a join barrier
//
// # Example
//
//	s, err := dynamo.NewChainState([]float64{math.Pi / 2, math.Pi / 2}, []float64{0, 0})
//	if err != nil {
//	    return err
//	}
//	integ, _ := integrators.New(integrators.RungeKutta4, s.Len(), physics.StandardGravity)
//	integ.Solve(0.01, s.Thetas, s.ThetaDots)
//
// # Thread Safety
//
// Integrators own scratch buffers and are NOT safe for concurrent use.
// Independent chains may be stepped on separate goroutines.
package dynamo
