// SPDX-License-Identifier: MIT

// Package matrix - immutable row-compressed (CSR) sparse storage.
//
// Purpose:
//   - Hold system matrices and prolongations with O(nnz) memory.
//   - Guarantee the compressed-form invariant: within each row, column indices
//     are strictly increasing (sorted, duplicate-free).
//   - Never mutate after construction; every transform returns a new *CSR.
//
// Determinism:
//   - All loops run row by row in storage order; no map iteration.
//
// Complexity quicksheet:
//   - At: O(log rowNnz); RowSums, Positions, ToCOO: O(nnz); ToDense: O(r*c).
package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CSR is an immutable compressed-sparse-row matrix.
type CSR struct {
	rows, cols int
	indptr     []int     // len rows+1; row i occupies [indptr[i], indptr[i+1])
	indices    []int     // column index per stored entry
	data       []float64 // value per stored entry
}

// NewCSR validates raw compressed arrays and returns a CSR owning copies of them.
//
// Errors:
//   - ErrInvalidDimensions when rows or cols is negative.
//   - ErrShapeMismatch when array lengths are inconsistent with the shape.
//   - ErrOutOfRange when a column index is outside [0, cols).
//   - ErrInvariantViolation when indptr decreases or a row is not strictly increasing.
//   - ErrNaNInf when a value is not finite.
func NewCSR(rows, cols int, indptr, indices []int, data []float64) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf("NewCSR", ErrInvalidDimensions)
	}
	if len(indptr) != rows+1 || len(indices) != len(data) {
		return nil, matrixErrorf("NewCSR", ErrShapeMismatch)
	}
	if indptr[0] != 0 || indptr[rows] != len(indices) {
		return nil, matrixErrorf("NewCSR", fmt.Errorf("indptr bounds: %w", ErrShapeMismatch))
	}
	for i := 0; i < rows; i++ {
		if indptr[i+1] < indptr[i] {
			return nil, matrixErrorf("NewCSR", fmt.Errorf("indptr decreases at row %d: %w", i, ErrInvariantViolation))
		}
		if indptr[i+1] > len(indices) {
			return nil, matrixErrorf("NewCSR",
				fmt.Errorf("indptr[%d]=%d exceeds %d entries: %w", i+1, indptr[i+1], len(indices), ErrShapeMismatch))
		}
	}
	for i := 0; i < rows; i++ {
		lo, hi := indptr[i], indptr[i+1]
		for k := lo; k < hi; k++ {
			if indices[k] < 0 || indices[k] >= cols {
				return nil, matrixErrorf("NewCSR", fmt.Errorf("row %d col %d: %w", i, indices[k], ErrOutOfRange))
			}
			if k > lo && indices[k] <= indices[k-1] {
				return nil, matrixErrorf("NewCSR",
					fmt.Errorf("row %d not strictly increasing at col %d: %w", i, indices[k], ErrInvariantViolation))
			}
			if math.IsNaN(data[k]) || math.IsInf(data[k], 0) {
				return nil, matrixErrorf("NewCSR", fmt.Errorf("row %d col %d: %w", i, indices[k], ErrNaNInf))
			}
		}
	}

	return &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  append([]int(nil), indptr...),
		indices: append([]int(nil), indices...),
		data:    append([]float64(nil), data...),
	}, nil
}

// FromTriplets is a shorthand for NewCOO(...).ToCSR(): duplicates are rejected.
func FromTriplets(rows, cols int, row, col []int, val []float64) (*CSR, error) {
	c, err := NewCOO(rows, cols, row, col, val)
	if err != nil {
		return nil, err
	}

	return c.ToCSR()
}

// Rows returns the row count.
func (m *CSR) Rows() int { return m.rows }

// Cols returns the column count.
func (m *CSR) Cols() int { return m.cols }

// Shape packs Rows() and Cols() into a single call.
func (m *CSR) Shape() (rows, cols int) { return m.rows, m.cols }

// Nnz returns the number of stored entries (explicit zeros included).
func (m *CSR) Nnz() int { return len(m.data) }

// IsSquare reports whether Rows() == Cols().
func (m *CSR) IsSquare() bool { return m.rows == m.cols }

// Indptr returns a copy of the row pointer array.
func (m *CSR) Indptr() []int { return append([]int(nil), m.indptr...) }

// Indices returns a copy of the column index array.
func (m *CSR) Indices() []int { return append([]int(nil), m.indices...) }

// Data returns a copy of the value array.
func (m *CSR) Data() []float64 { return append([]float64(nil), m.data...) }

// RowNnz returns the number of stored entries in row i (0 for out-of-range rows).
func (m *CSR) RowNnz(i int) int {
	if i < 0 || i >= m.rows {
		return 0
	}

	return m.indptr[i+1] - m.indptr[i]
}

// Row returns read-only views of the column indices and values of row i.
// The slices alias internal storage and MUST NOT be modified.
func (m *CSR) Row(i int) (cols []int, vals []float64, err error) {
	if i < 0 || i >= m.rows {
		return nil, nil, matrixErrorf("CSR.Row", fmt.Errorf("row %d: %w", i, ErrOutOfRange))
	}
	lo, hi := m.indptr[i], m.indptr[i+1]

	return m.indices[lo:hi:hi], m.data[lo:hi:hi], nil
}

// At returns the value at (i, j); positions without a stored entry read as 0.
// Complexity: O(log rowNnz) binary search.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, matrixErrorf("CSR.At", fmt.Errorf("(%d,%d): %w", i, j, ErrOutOfRange))
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], j)
	if k < hi && m.indices[k] == j {
		return m.data[k], nil
	}

	return 0, nil
}

// Has reports whether (i, j) is a stored entry.
func (m *CSR) Has(i, j int) bool {
	if i < 0 || i >= m.rows {
		return false
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], j)

	return k < hi && m.indices[k] == j
}

// Do visits every stored entry in row-major order.
func (m *CSR) Do(f func(i, j int, v float64)) {
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			f(i, m.indices[k], m.data[k])
		}
	}
}

// Positions returns the coordinates of all stored entries in row-major order.
func (m *CSR) Positions() []Position {
	out := make([]Position, 0, len(m.data))
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			out = append(out, Position{Row: i, Col: m.indices[k]})
		}
	}

	return out
}

// NonzeroPositions returns the coordinates of stored entries whose value is
// not zero (explicit zeros are not part of the sparsity pattern).
func (m *CSR) NonzeroPositions() []Position {
	out := make([]Position, 0, len(m.data))
	m.Do(func(i, j int, v float64) {
		if v != 0 {
			out = append(out, Position{Row: i, Col: j})
		}
	})

	return out
}

// ToCOO returns the coordinate-list form in row-major order.
func (m *CSR) ToCOO() *COO {
	row := make([]int, len(m.data))
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			row[k] = i
		}
	}

	return &COO{
		rows: m.rows,
		cols: m.cols,
		row:  row,
		col:  append([]int(nil), m.indices...),
		val:  append([]float64(nil), m.data...),
	}
}

// RowSums returns s where s[i] is the sum of the stored values in row i.
// Complexity: O(nnz).
func (m *CSR) RowSums() []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = floats.Sum(m.data[m.indptr[i]:m.indptr[i+1]])
	}

	return out
}

// ToDense materializes the matrix into a row-major Dense.
// Zero-sized shapes are legal and return an empty Dense.
func (m *CSR) ToDense() *Dense {
	d, _ := newDenseZeroOK(m.rows, m.cols) // shape already validated
	for i := 0; i < m.rows; i++ {
		base := i * m.cols
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			d.data[base+m.indices[k]] = m.data[k]
		}
	}

	return d
}

// FromDense compresses d, dropping exact zeros.
func FromDense(d *Dense) *CSR {
	r, c := d.Shape()
	indptr := make([]int, r+1)
	indices := make([]int, 0)
	data := make([]float64, 0)
	for i := 0; i < r; i++ {
		base := i * c
		for j := 0; j < c; j++ {
			if v := d.data[base+j]; v != 0 {
				indices = append(indices, j)
				data = append(data, v)
			}
		}
		indptr[i+1] = len(data)
	}

	return &CSR{rows: r, cols: c, indptr: indptr, indices: indices, data: data}
}

// String renders the stored entries one per line as "(i,j) v" for diagnostics.
func (m *CSR) String() string {
	s := fmt.Sprintf("CSR %dx%d nnz=%d\n", m.rows, m.cols, len(m.data))
	m.Do(func(i, j int, v float64) {
		s += fmt.Sprintf("  (%d,%d) %g\n", i, j, v)
	})

	return s
}
