package dynamo

import (
	"fmt"
	"math"
)

// ChainState holds the generalized coordinates of an N-link chain. Index i is
// the i-th joint counted from the anchor. Both slices always have the same
// length n >= 1.
type ChainState struct {
	Thetas    []float64
	ThetaDots []float64
}

// NewChainState copies the initial conditions into a fresh state.
func NewChainState(thetas, thetaDots []float64) (ChainState, error) {
	if len(thetas) == 0 {
		return ChainState{}, fmt.Errorf("%w: no angles given", ErrInvalidArgument)
	}
	if len(thetas) != len(thetaDots) {
		return ChainState{}, fmt.Errorf("%w: %d angles but %d angular velocities",
			ErrInvalidArgument, len(thetas), len(thetaDots))
	}
	s := ChainState{
		Thetas:    make([]float64, len(thetas)),
		ThetaDots: make([]float64, len(thetaDots)),
	}
	copy(s.Thetas, thetas)
	copy(s.ThetaDots, thetaDots)
	return s, nil
}

// Len returns the number of links.
func (s ChainState) Len() int { return len(s.Thetas) }

func (s ChainState) Clone() ChainState {
	c := ChainState{
		Thetas:    make([]float64, len(s.Thetas)),
		ThetaDots: make([]float64, len(s.ThetaDots)),
	}
	copy(c.Thetas, s.Thetas)
	copy(c.ThetaDots, s.ThetaDots)
	return c
}

// CopyFrom overwrites s with other without allocating. Lengths must match.
func (s ChainState) CopyFrom(other ChainState) {
	copy(s.Thetas, other.Thetas)
	copy(s.ThetaDots, other.ThetaDots)
}

func (s ChainState) IsValid() bool {
	for i := range s.Thetas {
		if !finite(s.Thetas[i]) || !finite(s.ThetaDots[i]) {
			return false
		}
	}
	return true
}

// Distance is the Euclidean distance between two states in (θ, θ̇) space.
func (s ChainState) Distance(other ChainState) float64 {
	sum := 0.0
	for i := range s.Thetas {
		d := s.Thetas[i] - other.Thetas[i]
		v := s.ThetaDots[i] - other.ThetaDots[i]
		sum += d*d + v*v
	}
	return math.Sqrt(sum)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Point is a 2D position with y pointing up. Terminal and SVG views mirror y
// when drawing.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Integrator advances thetas and thetaDots in place by dt. Both slices must
// have the length the integrator was sized for.
type Integrator interface {
	Solve(dt float64, thetas, thetaDots []float64)
}

type Hamiltonian interface {
	Energy(s ChainState) float64
}

type Metric interface {
	Name() string
	Observe(s ChainState, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s ChainState, t float64)
}
