// SPDX-License-Identifier: MIT

package graph

import "fmt"

// The graph package reports the matrix package sentinels
// (matrix.ErrShapeMismatch, matrix.ErrInvalidPartition,
// matrix.ErrInvariantViolation) so callers match one taxonomy with errors.Is.

// graphErrorf wraps err with an operation tag.
func graphErrorf(tag string, err error) error {
	return fmt.Errorf("graph.%s: %w", tag, err)
}
