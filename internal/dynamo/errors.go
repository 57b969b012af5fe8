package dynamo

import "errors"

// Domain errors for chain construction and simulation.
var (
	// ErrInvalidArgument indicates empty or mismatched initial-condition arrays,
	// or a non-positive run parameter.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrShapeMismatch indicates a non-square coefficient matrix or a vector
	// whose length does not match it.
	ErrShapeMismatch = errors.New("dynamo: matrix shape mismatch")

	// ErrUnknownSolver indicates a solver kind outside the supported set.
	ErrUnknownSolver = errors.New("dynamo: unknown solver kind")

	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	// Step is how many steps the failing run had taken, counting the step
	// that produced the bad state.
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
