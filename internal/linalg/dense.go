// Package linalg holds the dense matrix type and the LU solver used to
// resolve the chain's equations of motion at every evaluation.
package linalg

// Dense is a row-major matrix backed by a single slice.
type Dense struct {
	rows, cols int
	data       []float64
}

func NewDense(rows, cols int) *Dense {
	return &Dense{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// NewDenseFrom builds a matrix from nested rows. All rows must have the same
// length as the first one.
func NewDenseFrom(rows [][]float64) *Dense {
	if len(rows) == 0 {
		return NewDense(0, 0)
	}
	m := NewDense(len(rows), len(rows[0]))
	for i, r := range rows {
		copy(m.Row(i), r)
	}
	return m
}

func (m *Dense) Dims() (rows, cols int) { return m.rows, m.cols }

func (m *Dense) At(i, j int) float64 { return m.data[i*m.cols+j] }

func (m *Dense) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Row returns row i as a view into the backing slice.
func (m *Dense) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// MulVec writes m·x into dst and returns dst.
func (m *Dense) MulVec(dst, x []float64) []float64 {
	for i := 0; i < m.rows; i++ {
		sum := 0.0
		row := m.Row(i)
		for j, v := range row {
			sum += v * x[j]
		}
		dst[i] = sum
	}
	return dst
}
