// SPDX-License-Identifier: MIT

// Package matrix - Dense, the row-major buffer behind the differentiable
// prolongation assembler and the training loss.
//
// Entry (i, j) lives at data[i*cols+j]. Accessors return errors instead of
// panicking; hot loops in prolong/ and train/ work on RawData directly.
//
// Complexity: NewDense O(r*c); At/Set O(1); Clone, Apply, String O(r*c).
package matrix

import (
	"fmt"
	"math"
	"strings"
)

// denseErrorf tags err with the Dense method and the offending cell.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Dense is a mutable rows×cols matrix of float64 in row-major order.
// With the finite-only policy on (DefaultValidateNaNInf), Set and Apply
// reject NaN and ±Inf.
type Dense struct {
	rows, cols int
	data       []float64
	finiteOnly bool
}

var _ fmt.Stringer = (*Dense)(nil)

// NewDense returns a zero rows×cols matrix.
//
// Errors: ErrInvalidDimensions when rows <= 0 or cols <= 0.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf("NewDense", fmt.Errorf("%dx%d: %w", rows, cols, ErrInvalidDimensions))
	}

	return newDenseZeroOK(rows, cols)
}

// NewDenseFrom copies data (row-major, len rows*cols) into a new Dense.
//
// Errors:
//   - ErrInvalidDimensions for non-positive shapes;
//   - ErrShapeMismatch when len(data) != rows*cols;
//   - ErrNaNInf for a non-finite value.
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, matrixErrorf("NewDenseFrom",
			fmt.Errorf("%d values for %dx%d: %w", len(data), rows, cols, ErrShapeMismatch))
	}
	for k, v := range data {
		if m.finiteOnly && !finite(v) {
			return nil, denseErrorf("NewDenseFrom", k/cols, k%cols, ErrNaNInf)
		}
	}
	copy(m.data, data)

	return m, nil
}

// newDenseZeroOK also accepts empty shapes, which CSR.ToDense can produce.
func newDenseZeroOK(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols), finiteOnly: DefaultValidateNaNInf}, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// Shape returns (Rows, Cols).
func (m *Dense) Shape() (rows, cols int) { return m.rows, m.cols }

// RawData exposes the backing slice. Writes through it skip the finite-only check.
func (m *Dense) RawData() []float64 { return m.data }

func (m *Dense) offset(row, col int) (int, bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, false
	}

	return row*m.cols + col, true
}

// At returns entry (row, col).
//
// Errors: ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	off, ok := m.offset(row, col)
	if !ok {
		return 0, denseErrorf("At", row, col, ErrOutOfRange)
	}

	return m.data[off], nil
}

// Set stores v at (row, col).
//
// Errors: ErrOutOfRange; ErrNaNInf for a non-finite v under the finite-only policy.
func (m *Dense) Set(row, col int, v float64) error {
	off, ok := m.offset(row, col)
	if !ok {
		return denseErrorf("Set", row, col, ErrOutOfRange)
	}
	if m.finiteOnly && !finite(v) {
		return denseErrorf("Set", row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy with the same policy.
func (m *Dense) Clone() *Dense {
	return &Dense{rows: m.rows, cols: m.cols, data: append([]float64(nil), m.data...), finiteOnly: m.finiteOnly}
}

// Do calls f on every entry in row-major order until f returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	for k, v := range m.data {
		if !f(k/m.cols, k%m.cols, v) {
			return
		}
	}
}

// Apply replaces every entry with f(i, j, v) in row-major order. On a
// non-finite result it stops with ErrNaNInf; entries already visited keep
// their new values.
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	for k, v := range m.data {
		i, j := k/m.cols, k%m.cols
		nv := f(i, j, v)
		if m.finiteOnly && !finite(nv) {
			return denseErrorf("Apply", i, j, ErrNaNInf)
		}
		m.data[k] = nv
	}

	return nil
}

// String prints one bracketed, comma-separated row per line.
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteByte('[')
		for j, v := range m.data[i*m.cols : (i+1)*m.cols] {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteString("]\n")
	}

	return b.String()
}
