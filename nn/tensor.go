// SPDX-License-Identifier: MIT

package nn

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Tensor is a row-major rows×cols matrix. Data has length Rows*Cols.
type Tensor struct {
	Rows, Cols int
	Data       []float64
}

// NewTensor returns a zero tensor.
func NewTensor(rows, cols int) *Tensor {
	return &Tensor{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// TensorFrom wraps data (no copy).
func TensorFrom(rows, cols int, data []float64) (*Tensor, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, shapeErr("TensorFrom", "%d values for %dx%d", len(data), rows, cols)
	}

	return &Tensor{Rows: rows, Cols: cols, Data: data}, nil
}

// Row returns row i as a view.
func (t *Tensor) Row(i int) []float64 { return t.Data[i*t.Cols : (i+1)*t.Cols] }

// At returns element (i, j).
func (t *Tensor) At(i, j int) float64 { return t.Data[i*t.Cols+j] }

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{Rows: t.Rows, Cols: t.Cols, Data: append([]float64(nil), t.Data...)}
}

// Zero sets every element to 0.
func (t *Tensor) Zero() { clear(t.Data) }

// SameShape reports whether t and u have equal dimensions.
func (t *Tensor) SameShape(u *Tensor) bool { return t.Rows == u.Rows && t.Cols == u.Cols }

// AddInPlace accumulates u into t.
func (t *Tensor) AddInPlace(u *Tensor) error {
	if !t.SameShape(u) {
		return shapeErr("AddInPlace", "%dx%d += %dx%d", t.Rows, t.Cols, u.Rows, u.Cols)
	}
	floats.Add(t.Data, u.Data)

	return nil
}

func (t *Tensor) general() blas64.General {
	return blas64.General{Rows: t.Rows, Cols: t.Cols, Stride: max(1, t.Cols), Data: t.Data}
}

// gemm computes c = alpha·op(a)·op(b) + beta·c. Shapes are checked by callers.
func gemm(tA, tB blas.Transpose, alpha float64, a, b *Tensor, beta float64, c *Tensor) {
	if c.Rows == 0 || c.Cols == 0 {
		return
	}
	k := a.Cols
	if tA == blas.Trans {
		k = a.Rows
	}
	if k == 0 {
		floats.Scale(beta, c.Data)
		return
	}
	blas64.Gemm(tA, tB, alpha, a.general(), b.general(), beta, c.general())
}

// ConcatCols returns [a | b] for tensors with equal row counts.
func ConcatCols(a, b *Tensor) (*Tensor, error) {
	if a.Rows != b.Rows {
		return nil, shapeErr("ConcatCols", "%d vs %d rows", a.Rows, b.Rows)
	}
	out := NewTensor(a.Rows, a.Cols+b.Cols)
	for i := 0; i < a.Rows; i++ {
		row := out.Row(i)
		copy(row, a.Row(i))
		copy(row[a.Cols:], b.Row(i))
	}

	return out, nil
}

// SplitCols is the inverse of ConcatCols: the first left columns and the rest.
func SplitCols(t *Tensor, left int) (*Tensor, *Tensor) {
	a, b := NewTensor(t.Rows, left), NewTensor(t.Rows, t.Cols-left)
	for i := 0; i < t.Rows; i++ {
		row := t.Row(i)
		copy(a.Row(i), row[:left])
		copy(b.Row(i), row[left:])
	}

	return a, b
}

// ReLU returns max(x, 0) elementwise.
func ReLU(x *Tensor) *Tensor {
	out := NewTensor(x.Rows, x.Cols)
	for i, v := range x.Data {
		if v > 0 {
			out.Data[i] = v
		}
	}

	return out
}

// ReLUBackward masks dy by the positive entries of the ReLU output y.
func ReLUBackward(y, dy *Tensor) *Tensor {
	dx := NewTensor(dy.Rows, dy.Cols)
	for i, v := range y.Data {
		if v > 0 {
			dx.Data[i] = dy.Data[i]
		}
	}

	return dx
}
