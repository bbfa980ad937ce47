// SPDX-License-Identifier: MIT

// Package matrix: domain value types shared by the sparse adapters, the graph
// builder and the prolongation assembler.
package matrix

import "fmt"

// Position is a single (row, col) coordinate of a sparsity pattern.
// Positions are comparable and usable as map keys.
type Position struct {
	Row int // zero-based row index
	Col int // zero-based column index
}

// Less orders positions row-major (row first, then column), the order in
// which a CSR matrix stores its nonzeros.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}

	return p.Col < q.Col
}

// String renders the position as "(row,col)" for diagnostics.
func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Partition is a validated coarse/fine split of the node set {0..n-1}.
//
// The coarse indices keep the caller's order: column j of every prolongation
// built against this partition corresponds to Coarse()[j]. The complement of
// the coarse set is the fine set.
//
// Invariants (checked by NewPartition):
//   - n > 0;
//   - 0 < len(coarse) < n (strict, non-empty subset);
//   - every index is in [0, n) and appears once.
type Partition struct {
	n       int   // total number of nodes
	coarse  []int // coarse node indices, caller order
	colOf   []int // node -> coarse column index, or -1 for fine nodes
	nCoarse int   // len(coarse), cached
}

// NewPartition validates coarse against n and returns an immutable Partition.
// The input slice is copied; later mutation by the caller has no effect.
//
// Errors:
//   - ErrInvalidPartition for n <= 0, an empty coarse set, a coarse set that
//     covers every node, an out-of-range index, or a duplicate index.
//
// Complexity: O(n + len(coarse)).
func NewPartition(n int, coarse []int) (Partition, error) {
	if n <= 0 {
		return Partition{}, matrixErrorf("NewPartition", fmt.Errorf("n=%d: %w", n, ErrInvalidPartition))
	}
	if len(coarse) == 0 {
		return Partition{}, matrixErrorf("NewPartition", fmt.Errorf("empty coarse set: %w", ErrInvalidPartition))
	}
	if len(coarse) >= n {
		return Partition{}, matrixErrorf("NewPartition",
			fmt.Errorf("coarse set of size %d covers all %d nodes: %w", len(coarse), n, ErrInvalidPartition))
	}

	colOf := make([]int, n)
	for i := range colOf {
		colOf[i] = -1 // fine by default
	}
	cp := make([]int, len(coarse))
	for j, c := range coarse {
		if c < 0 || c >= n {
			return Partition{}, matrixErrorf("NewPartition",
				fmt.Errorf("coarse index %d outside [0,%d): %w", c, n, ErrInvalidPartition))
		}
		if colOf[c] >= 0 {
			return Partition{}, matrixErrorf("NewPartition",
				fmt.Errorf("duplicate coarse index %d: %w", c, ErrInvalidPartition))
		}
		colOf[c] = j
		cp[j] = c
	}

	return Partition{n: n, coarse: cp, colOf: colOf, nCoarse: len(cp)}, nil
}

// N returns the total number of nodes.
func (p Partition) N() int { return p.n }

// NumCoarse returns the number of coarse nodes (columns of a prolongation).
func (p Partition) NumCoarse() int { return p.nCoarse }

// NumFine returns the number of fine nodes.
func (p Partition) NumFine() int { return p.n - p.nCoarse }

// Coarse returns a copy of the coarse indices in column order.
func (p Partition) Coarse() []int {
	out := make([]int, len(p.coarse))
	copy(out, p.coarse)

	return out
}

// Fine returns the fine indices (the complement of the coarse set) ascending.
func (p Partition) Fine() []int {
	out := make([]int, 0, p.n-p.nCoarse)
	for i := 0; i < p.n; i++ {
		if p.colOf[i] < 0 {
			out = append(out, i)
		}
	}

	return out
}

// IsCoarse reports whether node i is coarse. Out-of-range indices are fine=false, coarse=false.
func (p Partition) IsCoarse(i int) bool {
	return i >= 0 && i < p.n && p.colOf[i] >= 0
}

// ColumnOf returns the prolongation column of node i, or (-1, false) for fine
// or out-of-range nodes.
func (p Partition) ColumnOf(i int) (int, bool) {
	if i < 0 || i >= p.n || p.colOf[i] < 0 {
		return -1, false
	}

	return p.colOf[i], true
}

// IsZero reports whether p is the zero Partition (never validated).
func (p Partition) IsZero() bool { return p.n == 0 }
