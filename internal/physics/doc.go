// Package physics assembles the equations of motion of an N-link planar
// pendulum chain and projects its angles into joint positions.
//
// Every link has unit length and unit mass. Angles are measured from the
// rest direction of a chain under positive gravity, so with g > 0 the state
// θ = 0 is the stable equilibrium:
//
//   - [Equations]: fills the coupling matrix M(θ) and forcing vector f(θ, θ̇)
//     such that M·θ̈ = f
//   - [Energy]: total mechanical energy, kinetic plus gravitational
//   - [Project]: joint positions anchored at a screen-space origin
//
// # Energy Conservation
//
// [Model] implements [dynamo.Hamiltonian], so metrics can monitor drift:
//
//	m := physics.Model{Gravity: physics.StandardGravity}
//	e := m.Energy(state)
package physics
