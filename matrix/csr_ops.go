// SPDX-License-Identifier: MIT

// Package matrix - structural transforms on CSR.
//
// Every transform returns a fresh *CSR; receivers are never modified.
// These are the building blocks of the sparse prolongation assembler:
// WithDiagonal -> SelectColumns -> MaskBy -> EliminateZeros -> ScaleRows.
package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WithDiagonal returns a copy of m whose diagonal entries (i,i), for
// i < min(Rows, Cols), are set to v. Missing diagonal entries are inserted.
// Complexity: O(nnz + min(r,c)).
func (m *CSR) WithDiagonal(v float64) *CSR {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, len(m.indices)+n)
	data := make([]float64, 0, len(m.data)+n)

	for i := 0; i < m.rows; i++ {
		placed := i >= n // rows beyond the square part have no diagonal
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			j := m.indices[k]
			if !placed && j >= i {
				indices = append(indices, i)
				data = append(data, v)
				placed = true
				if j == i {
					continue // replaced
				}
			}
			indices = append(indices, j)
			data = append(data, m.data[k])
		}
		if !placed {
			indices = append(indices, i)
			data = append(data, v)
		}
		indptr[i+1] = len(data)
	}

	return &CSR{rows: m.rows, cols: m.cols, indptr: indptr, indices: indices, data: data}
}

// SelectColumns returns the rows×len(cols) submatrix whose column k is column
// cols[k] of m. Rows of the result are re-sorted so the compressed invariant holds.
//
// Errors:
//   - ErrOutOfRange when a requested column is outside [0, Cols()).
//   - ErrInvariantViolation when cols contains a duplicate.
//
// Complexity: O(nnz log rowNnz + Cols()).
func (m *CSR) SelectColumns(cols []int) (*CSR, error) {
	colMap := make([]int, m.cols)
	for j := range colMap {
		colMap[j] = -1
	}
	for k, c := range cols {
		if c < 0 || c >= m.cols {
			return nil, matrixErrorf("CSR.SelectColumns", fmt.Errorf("column %d: %w", c, ErrOutOfRange))
		}
		if colMap[c] >= 0 {
			return nil, matrixErrorf("CSR.SelectColumns", fmt.Errorf("duplicate column %d: %w", c, ErrInvariantViolation))
		}
		colMap[c] = k
	}

	type entry struct {
		col int
		val float64
	}
	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, len(m.indices))
	data := make([]float64, 0, len(m.data))
	var row []entry
	for i := 0; i < m.rows; i++ {
		row = row[:0]
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if nc := colMap[m.indices[k]]; nc >= 0 {
				row = append(row, entry{col: nc, val: m.data[k]})
			}
		}
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
		for _, e := range row {
			indices = append(indices, e.col)
			data = append(data, e.val)
		}
		indptr[i+1] = len(data)
	}

	return &CSR{rows: m.rows, cols: len(cols), indptr: indptr, indices: indices, data: data}, nil
}

// MaskBy keeps only the entries of m whose position holds a nonzero value in
// pattern (explicit zeros in pattern do not count). Both rows are walked as a
// sorted merge.
//
// Errors:
//   - ErrShapeMismatch when the shapes differ.
//
// Complexity: O(nnz(m) + nnz(pattern)).
func (m *CSR) MaskBy(pattern *CSR) (*CSR, error) {
	if pattern == nil {
		return nil, matrixErrorf("CSR.MaskBy", ErrNilMatrix)
	}
	if m.rows != pattern.rows || m.cols != pattern.cols {
		return nil, matrixErrorf("CSR.MaskBy",
			fmt.Errorf("%dx%d vs %dx%d: %w", m.rows, m.cols, pattern.rows, pattern.cols, ErrShapeMismatch))
	}

	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, len(m.indices))
	data := make([]float64, 0, len(m.data))
	for i := 0; i < m.rows; i++ {
		a, aEnd := m.indptr[i], m.indptr[i+1]
		b, bEnd := pattern.indptr[i], pattern.indptr[i+1]
		for a < aEnd && b < bEnd {
			switch ca, cb := m.indices[a], pattern.indices[b]; {
			case ca < cb:
				a++
			case ca > cb:
				b++
			default:
				if pattern.data[b] != 0 {
					indices = append(indices, ca)
					data = append(data, m.data[a])
				}
				a++
				b++
			}
		}
		indptr[i+1] = len(data)
	}

	return &CSR{rows: m.rows, cols: m.cols, indptr: indptr, indices: indices, data: data}, nil
}

// EliminateZeros drops stored entries whose value is exactly zero.
func (m *CSR) EliminateZeros() *CSR {
	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, len(m.indices))
	data := make([]float64, 0, len(m.data))
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if m.data[k] != 0 {
				indices = append(indices, m.indices[k])
				data = append(data, m.data[k])
			}
		}
		indptr[i+1] = len(data)
	}

	return &CSR{rows: m.rows, cols: m.cols, indptr: indptr, indices: indices, data: data}
}

// ScaleRows returns a copy of m with row i multiplied by scale[i].
//
// Errors:
//   - ErrShapeMismatch when len(scale) != Rows().
func (m *CSR) ScaleRows(scale []float64) (*CSR, error) {
	if len(scale) != m.rows {
		return nil, matrixErrorf("CSR.ScaleRows",
			fmt.Errorf("len(scale)=%d rows=%d: %w", len(scale), m.rows, ErrShapeMismatch))
	}
	data := append([]float64(nil), m.data...)
	for i := 0; i < m.rows; i++ {
		floats.Scale(scale[i], data[m.indptr[i]:m.indptr[i+1]])
	}

	return &CSR{
		rows:    m.rows,
		cols:    m.cols,
		indptr:  append([]int(nil), m.indptr...),
		indices: append([]int(nil), m.indices...),
		data:    data,
	}, nil
}

// Equal reports whether a and b have the same shape, the same stored
// positions and bitwise-equal values.
func Equal(a, b *CSR) bool {
	if a.rows != b.rows || a.cols != b.cols || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.indptr {
		if a.indptr[i] != b.indptr[i] {
			return false
		}
	}
	for k := range a.indices {
		if a.indices[k] != b.indices[k] || a.data[k] != b.data[k] {
			return false
		}
	}

	return true
}

// AllClose checks |a-b| <= atol + rtol*|b| entrywise over the union of the
// stored positions (a missing entry reads as 0).
//
// Errors:
//   - ErrShapeMismatch when the shapes differ.
func AllClose(a, b *CSR, rtol, atol float64) (bool, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return false, matrixErrorf("AllClose", ErrShapeMismatch)
	}
	near := func(x, y float64) bool { return math.Abs(x-y) <= math.Abs(atol)+math.Abs(rtol)*math.Abs(y) }
	for i := 0; i < a.rows; i++ {
		p, pEnd := a.indptr[i], a.indptr[i+1]
		q, qEnd := b.indptr[i], b.indptr[i+1]
		for p < pEnd || q < qEnd {
			switch {
			case q >= qEnd || (p < pEnd && a.indices[p] < b.indices[q]):
				if !near(a.data[p], 0) {
					return false, nil
				}
				p++
			case p >= pEnd || b.indices[q] < a.indices[p]:
				if !near(0, b.data[q]) {
					return false, nil
				}
				q++
			default:
				if !near(a.data[p], b.data[q]) {
					return false, nil
				}
				p++
				q++
			}
		}
	}

	return true, nil
}
