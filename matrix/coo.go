// SPDX-License-Identifier: MIT

// Package matrix - coordinate-list (COO) sparse storage.
//
// Purpose:
//   - Accept (row, col, value) triples in any order, as produced by graph edge
//     lists or external readers.
//   - Convert to CSR strictly (duplicates rejected) or by coalescing (duplicates summed).
//
// Complexity quicksheet:
//   - NewCOO: O(nnz) validation + copy; ToCSR/Coalesce: O(nnz log nnz) sort.
package matrix

import (
	"fmt"
	"math"
	"sort"
)

// COO is an immutable coordinate-list sparse matrix.
// Entry k is (row[k], col[k], val[k]); order is arbitrary and duplicates are
// allowed until conversion.
type COO struct {
	rows, cols int
	row, col   []int
	val        []float64
}

// NewCOO validates and copies the triples into a COO of shape rows×cols.
//
// Errors:
//   - ErrInvalidDimensions when rows or cols is negative.
//   - ErrShapeMismatch when the three slices differ in length.
//   - ErrOutOfRange when an index falls outside the shape.
//   - ErrNaNInf when a value is not finite.
func NewCOO(rows, cols int, row, col []int, val []float64) (*COO, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf("NewCOO", ErrInvalidDimensions)
	}
	if len(row) != len(col) || len(row) != len(val) {
		return nil, matrixErrorf("NewCOO",
			fmt.Errorf("len(row)=%d len(col)=%d len(val)=%d: %w", len(row), len(col), len(val), ErrShapeMismatch))
	}
	for k := range row {
		if row[k] < 0 || row[k] >= rows || col[k] < 0 || col[k] >= cols {
			return nil, matrixErrorf("NewCOO",
				fmt.Errorf("entry %d at (%d,%d) outside %dx%d: %w", k, row[k], col[k], rows, cols, ErrOutOfRange))
		}
		if math.IsNaN(val[k]) || math.IsInf(val[k], 0) {
			return nil, matrixErrorf("NewCOO", fmt.Errorf("entry %d at (%d,%d): %w", k, row[k], col[k], ErrNaNInf))
		}
	}

	c := &COO{
		rows: rows,
		cols: cols,
		row:  append([]int(nil), row...),
		col:  append([]int(nil), col...),
		val:  append([]float64(nil), val...),
	}

	return c, nil
}

// Rows returns the row count.
func (c *COO) Rows() int { return c.rows }

// Cols returns the column count.
func (c *COO) Cols() int { return c.cols }

// Nnz returns the number of stored triples (duplicates included).
func (c *COO) Nnz() int { return len(c.val) }

// Entry returns triple k. It panics on an out-of-range k like a slice index.
func (c *COO) Entry(k int) (row, col int, v float64) { return c.row[k], c.col[k], c.val[k] }

// Positions returns the stored coordinates in storage order.
func (c *COO) Positions() []Position {
	out := make([]Position, len(c.row))
	for k := range c.row {
		out[k] = Position{Row: c.row[k], Col: c.col[k]}
	}

	return out
}

// sortedOrder returns the permutation that sorts entries row-major. The sort
// is stable so that coalescing sums duplicates in storage order.
func (c *COO) sortedOrder() []int {
	perm := make([]int, len(c.row))
	for k := range perm {
		perm[k] = k
	}
	sort.SliceStable(perm, func(a, b int) bool {
		pa, pb := perm[a], perm[b]
		if c.row[pa] != c.row[pb] {
			return c.row[pa] < c.row[pb]
		}
		return c.col[pa] < c.col[pb]
	})

	return perm
}

// ToCSR converts to row-compressed form, rejecting duplicate coordinates.
//
// Errors:
//   - ErrInvariantViolation when two triples share a (row,col) pair.
func (c *COO) ToCSR() (*CSR, error) {
	return c.toCSR(false)
}

// Coalesce converts to row-compressed form, summing duplicate coordinates.
// Explicit zeros (including sums that cancel) are kept as stored entries;
// call EliminateZeros to drop them.
func (c *COO) Coalesce() *CSR {
	m, _ := c.toCSR(true) // coalescing never fails
	return m
}

func (c *COO) toCSR(sum bool) (*CSR, error) {
	perm := c.sortedOrder()
	indptr := make([]int, c.rows+1)
	indices := make([]int, 0, len(perm))
	data := make([]float64, 0, len(perm))

	last := Position{Row: -1, Col: -1}
	for _, k := range perm {
		p := Position{Row: c.row[k], Col: c.col[k]}
		if p == last {
			if !sum {
				return nil, matrixErrorf("COO.ToCSR", fmt.Errorf("duplicate entry %s: %w", p, ErrInvariantViolation))
			}
			data[len(data)-1] += c.val[k]
			continue
		}
		indices = append(indices, p.Col)
		data = append(data, c.val[k])
		indptr[p.Row+1]++
		last = p
	}
	for i := 0; i < c.rows; i++ {
		indptr[i+1] += indptr[i] // prefix sums turn counts into offsets
	}

	return &CSR{rows: c.rows, cols: c.cols, indptr: indptr, indices: indices, data: data}, nil
}
