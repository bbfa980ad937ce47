// SPDX-License-Identifier: MIT

package prolong

import (
	"github.com/katalvlaran/prolongnet/matrix"
)

// Kind tags the storage of an Operator.
type Kind int

const (
	KindSparse Kind = iota
	KindDense
)

// String returns "sparse" or "dense".
func (k Kind) String() string {
	if k == KindDense {
		return "dense"
	}

	return "sparse"
}

// Operator holds a prolongation in exactly one of the two storages.
type Operator struct {
	kind   Kind
	sparse *matrix.CSR
	dense  *matrix.Dense
}

// SparseOperator wraps a CSR prolongation.
func SparseOperator(p *matrix.CSR) Operator { return Operator{kind: KindSparse, sparse: p} }

// DenseOperator wraps a dense prolongation.
func DenseOperator(p *matrix.Dense) Operator { return Operator{kind: KindDense, dense: p} }

// Kind returns the storage tag.
func (op Operator) Kind() Kind { return op.kind }

// Shape returns (N, |C|).
func (op Operator) Shape() (rows, cols int) {
	if op.kind == KindDense {
		return op.dense.Shape()
	}

	return op.sparse.Shape()
}

// ToSparse returns the CSR form; dense operators are compressed, dropping
// exact zeros.
func (op Operator) ToSparse() *matrix.CSR {
	if op.kind == KindDense {
		return matrix.FromDense(op.dense)
	}

	return op.sparse
}

// ToDense returns the dense form.
func (op Operator) ToDense() *matrix.Dense {
	if op.kind == KindDense {
		return op.dense
	}

	return op.sparse.ToDense()
}
