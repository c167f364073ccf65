// Package dataset provides dense row-major matrices and non-owning point
// views. It is the data interchange format between the KDE engines, the
// near-neighbor index and downstream graph-construction code.
package dataset

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a matrix with zero rows or zero columns is
// constructed or loaded.
var ErrEmpty = errors.New("dataset: matrix has no entries")

// ErrRaggedRows indicates that input rows have inconsistent dimensions.
type ErrRaggedRows struct {
	Row      int // Index of the offending row
	Expected int // Dimension of the first row
	Actual   int // Dimension of the offending row
}

func (e *ErrRaggedRows) Error() string {
	return fmt.Sprintf("dataset: row %d has dimension %d, expected %d", e.Row, e.Actual, e.Expected)
}

// Point is a non-owning view of a single row of a Matrix. The coordinate
// slice aliases the backing storage; callers must treat it as read-only.
type Point struct {
	Dim    int
	Coords []float64
}

// Matrix is a dense n x d matrix stored in row-major order.
// It is immutable once handed to an engine.
type Matrix struct {
	rows int
	dim  int
	data []float64
}

// New creates a zero-valued rows x dim matrix.
func New(rows, dim int) (*Matrix, error) {
	if rows <= 0 || dim <= 0 {
		return nil, ErrEmpty
	}
	return &Matrix{
		rows: rows,
		dim:  dim,
		data: make([]float64, rows*dim),
	}, nil
}

// FromRows builds a matrix by copying the given rows.
// All rows must share the dimension of the first one.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}

	dim := len(rows[0])
	m := &Matrix{
		rows: len(rows),
		dim:  dim,
		data: make([]float64, len(rows)*dim),
	}

	for i, row := range rows {
		if len(row) != dim {
			return nil, &ErrRaggedRows{Row: i, Expected: dim, Actual: len(row)}
		}
		copy(m.data[i*dim:(i+1)*dim], row)
	}

	return m, nil
}

// FromSlice wraps an existing row-major backing slice without copying.
// The slice length must be exactly rows*dim.
func FromSlice(rows, dim int, data []float64) (*Matrix, error) {
	if rows <= 0 || dim <= 0 {
		return nil, ErrEmpty
	}
	if len(data) != rows*dim {
		return nil, fmt.Errorf("dataset: backing slice has %d entries, expected %d", len(data), rows*dim)
	}
	return &Matrix{rows: rows, dim: dim, data: data}, nil
}

// Rows returns the number of rows (data points).
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the number of columns (coordinates per point).
func (m *Matrix) Dim() int { return m.dim }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.dim+j] }

// Set assigns the entry at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.dim+j] = v }

// Row returns the coordinate slice of row i, aliasing the backing storage.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// Point returns a non-owning view of row i.
func (m *Matrix) Point(i int) Point {
	return Point{Dim: m.dim, Coords: m.Row(i)}
}

// Points materializes views of all rows. The views alias the matrix storage.
func (m *Matrix) Points() []Point {
	points := make([]Point, m.rows)
	for i := range points {
		points[i] = m.Point(i)
	}
	return points
}
