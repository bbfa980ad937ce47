// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix,
// graph and prolong packages. Algorithms MUST return these sentinels (wrapped
// with call-site context) and tests MUST check them via errors.Is.
// No algorithm panics on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Call sites wrap with fmt.Errorf("ctx: %w", ErrX);
// callers still match with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape -> partition -> index -> uniqueness -> numeric.

var (
	// ErrShapeMismatch is returned when a matrix is not square where a square
	// system matrix is required, or when operand dimensions disagree
	// (e.g. baseline prolongation rows != system rows).
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrInvalidPartition signals a malformed coarse/fine split: empty coarse
	// set, coarse set covering every node, or an index outside [0, n).
	ErrInvalidPartition = errors.New("matrix: invalid coarse/fine partition")

	// ErrInvariantViolation signals broken uniqueness/order invariants, such as
	// duplicate (row,col) pairs in a compressed matrix or a pattern.
	ErrInvariantViolation = errors.New("matrix: invariant violation")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrInvalidDimensions indicates that requested matrix dimensions are negative
	// (or non-positive for public dense constructors).
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
