// Package analysis characterises chain trajectories.
//
// The package includes:
//
//   - [PowerSpectrum] and [DominantFrequency]: power spectrum of a sampled signal
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LyapunovSpectrum]: separation rate per perturbed coordinate
//   - [AmplitudeSweep]: Poincaré values of the last link against release angle
//   - [PhasePortrait] and [PoincareSection]: 2D views of recorded states
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(analysis.LyapunovConfig{
//	    Thetas: []float64{2, 2}, ThetaDots: []float64{0, 0},
//	    Kind: integrators.RungeKutta4, Dt: 0.001, Duration: 20,
//	})
//	if err == nil && lambda > 0 {
//	    // chaotic
//	}
package analysis
