// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels (matcher, builder, assembler) minimal by delegating
//    shape/nil/uniqueness checks here.
//  - Return sentinel errors wrapped with the validator tag so call sites can
//    wrap uniformly and callers can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure and deterministic; ValidateUnique allocates one set.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the CSR reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m *CSR) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix, ErrShapeMismatch.
// Complexity: O(1).
func ValidateSquare(m *CSR) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}
	if m.rows != m.cols {
		return validatorErrorf("ValidateSquare", fmt.Errorf("%dx%d: %w", m.rows, m.cols, ErrShapeMismatch))
	}

	return nil
}

// ValidateShape checks that m is non-nil and exactly rows×cols.
//
// Errors: ErrNilMatrix, ErrShapeMismatch.
func ValidateShape(m *CSR, rows, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateShape", err)
	}
	if m.rows != rows || m.cols != cols {
		return validatorErrorf("ValidateShape",
			fmt.Errorf("got %dx%d, want %dx%d: %w", m.rows, m.cols, rows, cols, ErrShapeMismatch))
	}

	return nil
}

// ValidatePartitionFor checks that the partition was built for an n-node system.
//
// Errors: ErrInvalidPartition for a zero Partition, ErrShapeMismatch for a size mismatch.
func ValidatePartitionFor(p Partition, n int) error {
	if p.IsZero() {
		return validatorErrorf("ValidatePartitionFor", ErrInvalidPartition)
	}
	if p.N() != n {
		return validatorErrorf("ValidatePartitionFor", fmt.Errorf("partition over %d nodes, system has %d: %w",
			p.N(), n, ErrShapeMismatch))
	}

	return nil
}

// ValidateVecLen ensures the vector length matches n.
//
// Errors: ErrShapeMismatch.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", fmt.Errorf("len=%d want %d: %w", len(x), n, ErrShapeMismatch))
	}

	return nil
}

// ValidateUnique reports ErrInvariantViolation when ps contains a duplicate position.
// Complexity: O(len(ps)) expected.
func ValidateUnique(ps []Position) error {
	seen := make(map[Position]struct{}, len(ps))
	for _, p := range ps {
		if _, dup := seen[p]; dup {
			return validatorErrorf("ValidateUnique", fmt.Errorf("duplicate position %s: %w", p, ErrInvariantViolation))
		}
		seen[p] = struct{}{}
	}

	return nil
}

// validateStrictlySorted reports ErrInvariantViolation unless ps is strictly
// increasing in row-major order.
func validateStrictlySorted(ps []Position) error {
	for i := 1; i < len(ps); i++ {
		if !ps[i-1].Less(ps[i]) {
			return validatorErrorf("validateStrictlySorted",
				fmt.Errorf("%s then %s: %w", ps[i-1], ps[i], ErrInvariantViolation))
		}
	}

	return nil
}
