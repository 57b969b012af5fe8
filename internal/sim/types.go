package sim

import (
	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
)

// Config controls a headless run.
type Config struct {
	Dt       float64
	Duration float64

	// ValidateState stops the run with ErrInvalidState once an angle or
	// angular velocity turns NaN or Inf.
	ValidateState bool

	// SampleEvery records every k-th step into the result. Zero or one
	// records every step.
	SampleEvery int
}

// Result holds the samples of a headless run. Sample 0 is the initial
// condition.
type Result struct {
	Kind     integrators.Kind
	Times    []float64
	Energies []float64
	Tips     []dynamo.Point
	States   []dynamo.ChainState
	Metrics  map[string]float64

	// EnergyDrift is |E_final - E_0| / |E_0|, or zero when E_0 is zero.
	EnergyDrift float64
	StepsTaken  int

	// Err is set when the run stopped early on a non-finite state.
	Err error
}

// FinalState returns the last recorded state.
func (r *Result) FinalState() dynamo.ChainState {
	return r.States[len(r.States)-1]
}
