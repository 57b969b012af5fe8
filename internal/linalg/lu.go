package linalg

import (
	"fmt"

	"github.com/san-kum/nchain/internal/dynamo"
)

// LU factors an n×n matrix with the Doolittle recurrence and solves against
// it by forward and back substitution.
//
// No pivoting is performed. The coupling matrix of a unit-mass, unit-length
// chain has a positive diagonal (n-i at equal angles) and stays
// well-conditioned enough for this path at moderate n. A near-zero pivot is
// not detected: the division blows up and NaN/Inf propagate into the
// solution. Do not reuse this solver for arbitrary matrices.
//
// All buffers are allocated once in NewLU; Decompose and Eliminate never
// allocate.
type LU struct {
	n int
	l *Dense
	u *Dense
	y []float64
}

func NewLU(n int) *LU {
	return &LU{
		n: n,
		l: NewDense(n, n),
		u: NewDense(n, n),
		y: make([]float64, n),
	}
}

func (s *LU) N() int { return s.n }

// L returns the unit lower-triangular factor from the last decomposition.
func (s *LU) L() *Dense { return s.l }

// U returns the upper-triangular factor from the last decomposition.
func (s *LU) U() *Dense { return s.u }

func (s *LU) checkMatrix(a *Dense) error {
	rows, cols := a.Dims()
	if rows != cols {
		return fmt.Errorf("%w: coefficient matrix is %dx%d, not square", dynamo.ErrShapeMismatch, rows, cols)
	}
	if rows != s.n {
		return fmt.Errorf("%w: solver sized for %d, matrix is %dx%d", dynamo.ErrShapeMismatch, s.n, rows, cols)
	}
	return nil
}

// Decompose factors a = L·U. The strictly upper part of L and the strictly
// lower part of U are never written, so they stay zero from construction.
func (s *LU) Decompose(a *Dense) error {
	if err := s.checkMatrix(a); err != nil {
		return err
	}
	s.decompose(a)
	return nil
}

func (s *LU) decompose(a *Dense) {
	n := s.n
	for i := 0; i < n; i++ {
		li := s.l.Row(i)
		for k := i; k < n; k++ {
			sum := 0.0
			for j := 0; j < i; j++ {
				sum += li[j] * s.u.At(j, k)
			}
			s.u.Set(i, k, a.At(i, k)-sum)
		}

		li[i] = 1
		pivot := s.u.At(i, i)
		for k := i + 1; k < n; k++ {
			lk := s.l.Row(k)
			sum := 0.0
			for j := 0; j < i; j++ {
				sum += lk[j] * s.u.At(j, i)
			}
			lk[i] = (a.At(k, i) - sum) / pivot
		}
	}
}

// Eliminate solves a·solution = coefficients. It re-decomposes a on every
// call because the chain's matrix changes with each evaluation.
func (s *LU) Eliminate(a *Dense, coefficients, solution []float64) error {
	if err := s.checkMatrix(a); err != nil {
		return err
	}
	if len(coefficients) != s.n || len(solution) != s.n {
		return fmt.Errorf("%w: vectors of length %d and %d against %dx%d matrix",
			dynamo.ErrShapeMismatch, len(coefficients), len(solution), s.n, s.n)
	}

	s.decompose(a)

	for i := 0; i < s.n; i++ {
		li := s.l.Row(i)
		sum := 0.0
		for j := 0; j < i; j++ {
			sum += s.y[j] * li[j]
		}
		s.y[i] = coefficients[i] - sum
	}

	for i := s.n - 1; i >= 0; i-- {
		ui := s.u.Row(i)
		sum := 0.0
		for j := i + 1; j < s.n; j++ {
			sum += solution[j] * ui[j]
		}
		solution[i] = (s.y[i] - sum) / ui[i]
	}

	return nil
}
