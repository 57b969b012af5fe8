package physics

import (
	"math"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/linalg"
)

const StandardGravity = 9.81

// Equations holds the coupling matrix and forcing vector of an n-link chain.
// Both are rebuilt from scratch by every Populate call; nothing is carried
// over between angle configurations.
//
// Row i of the system is
//
//	Σⱼ (n-max(i,j))·cos(θᵢ-θⱼ)·θ̈ⱼ = -Σⱼ (n-max(i,j))·sin(θᵢ-θⱼ)·θ̇ⱼ² - g·(n-i)·sin θᵢ
//
// where the weight n-max(i,j) counts the links outboard of both joints.
type Equations struct {
	n       int
	gravity float64
	matrix  *linalg.Dense
	vector  []float64

	// bound for the duration of one Populate call
	thetas, thetaDots []float64
	rows              func(start, end int)
}

func NewEquations(n int, gravity float64) *Equations {
	e := &Equations{
		n:       n,
		gravity: gravity,
		matrix:  linalg.NewDense(n, n),
		vector:  make([]float64, n),
	}
	e.rows = e.populateRows
	return e
}

func (e *Equations) N() int                { return e.n }
func (e *Equations) Gravity() float64      { return e.gravity }
func (e *Equations) Matrix() *linalg.Dense { return e.matrix }
func (e *Equations) Vector() []float64     { return e.vector }

// Populate fills the matrix and vector for the given state. Rows are
// independent and are computed in parallel; the call returns only after
// every row is written. thetas and thetaDots must have length n and must not
// be mutated while the call runs.
func (e *Equations) Populate(thetas, thetaDots []float64) {
	e.thetas, e.thetaDots = thetas, thetaDots
	dynamo.ParallelFor(e.n, dynamo.RowChunk, e.rows)
	e.thetas, e.thetaDots = nil, nil
}

func (e *Equations) populateRows(start, end int) {
	n := e.n
	thetas, thetaDots := e.thetas, e.thetaDots
	for i := start; i < end; i++ {
		row := e.matrix.Row(i)
		theta := thetas[i]
		sum := 0.0
		for j := 0; j < n; j++ {
			sin, cos := math.Sincos(theta - thetas[j])
			w := float64(n - max(i, j))
			row[j] = w * cos
			sum -= w * sin * thetaDots[j] * thetaDots[j]
		}
		sum -= e.gravity * float64(n-i) * math.Sin(theta)
		e.vector[i] = sum
	}
}

// Energy returns kinetic plus potential energy of the chain:
//
//	T = ½ Σᵢⱼ (n-max(i,j))·cos(θᵢ-θⱼ)·θ̇ᵢ·θ̇ⱼ
//	V = -g Σᵢ (n-i)·cos θᵢ
func Energy(s dynamo.ChainState, gravity float64) float64 {
	n := s.Len()
	ke, pe := 0.0, 0.0
	for i := 0; i < n; i++ {
		wi := s.ThetaDots[i]
		ke += 0.5 * float64(n-i) * wi * wi
		for j := i + 1; j < n; j++ {
			ke += float64(n-j) * math.Cos(s.Thetas[i]-s.Thetas[j]) * wi * s.ThetaDots[j]
		}
		pe -= gravity * float64(n-i) * math.Cos(s.Thetas[i])
	}
	return ke + pe
}

// Model carries the chain's physical constants.
type Model struct {
	Gravity float64
}

func (m Model) Energy(s dynamo.ChainState) float64 {
	return Energy(s, m.Gravity)
}
