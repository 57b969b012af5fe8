package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/nchain/internal/dynamo"
)

// Kind selects one of the chain integrators. It is chosen once when a chain
// is built.
type Kind int

const (
	RungeKutta4 Kind = iota
	SymplecticEuler
	Leapfrog
)

var kindNames = map[Kind]string{
	RungeKutta4:     "rk4",
	SymplecticEuler: "symplectic_euler",
	Leapfrog:        "leapfrog",
}

var kindAliases = map[string]Kind{
	"rk4":              RungeKutta4,
	"rungekutta4":      RungeKutta4,
	"runge_kutta4":     RungeKutta4,
	"symplectic_euler": SymplecticEuler,
	"symplectic-euler": SymplecticEuler,
	"symeuler":         SymplecticEuler,
	"euler":            SymplecticEuler,
	"leapfrog":         Leapfrog,
	"verlet":           Leapfrog,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{RungeKutta4, SymplecticEuler, Leapfrog}
}

// Evaluations returns how many times one step of k assembles and solves the
// equations of motion.
func (k Kind) Evaluations() int {
	switch k {
	case RungeKutta4:
		return 4
	case Leapfrog:
		return 2
	default:
		return 1
	}
}

func ParseKind(name string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownSolver, name)
	}
	return k, nil
}

// New builds the integrator for kind, sized for an n-link chain.
func New(kind Kind, n int, gravity float64) (dynamo.Integrator, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: chain needs at least one link, got %d", dynamo.ErrInvalidArgument, n)
	}
	switch kind {
	case RungeKutta4:
		return NewRK4(n, gravity), nil
	case SymplecticEuler:
		return NewSymplecticEuler(n, gravity), nil
	case Leapfrog:
		return NewLeapfrog(n, gravity), nil
	default:
		return nil, fmt.Errorf("%w: %d", dynamo.ErrUnknownSolver, int(kind))
	}
}
