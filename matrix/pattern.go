// SPDX-License-Identifier: MIT

// Package matrix - sparsity pattern matching.
//
// Purpose:
//   - Label every query position with "also present in the reference pattern".
//   - Stay linear in the pattern sizes: matrices carry tens of thousands of
//     nonzeros, so quadratic scans are ruled out.
//
// Two kernels:
//   - Match: hash-set membership, any input order, O(|q| + |r|).
//   - MatchSorted: two-pointer merge for row-major sorted inputs (CSR order),
//     O(|q| + |r|) without allocating a set.
package matrix

import (
	"fmt"
	"sort"
)

// Match returns a slice aligned with query: result[i] is true iff query[i]
// appears in reference.
//
// Both inputs are assumed duplicate-free (caller's responsibility). With
// WithValidation(true), duplicates in either input fail with ErrInvariantViolation.
//
// Complexity: O(|query| + |reference|) expected time, O(|reference|) space.
func Match(query, reference []Position, opts ...MatchOption) ([]bool, error) {
	o := gatherMatchOptions(opts)

	ref := make(map[Position]struct{}, len(reference))
	for _, p := range reference {
		if o.validate {
			if _, dup := ref[p]; dup {
				return nil, matrixErrorf("Match", fmt.Errorf("duplicate reference position %s: %w", p, ErrInvariantViolation))
			}
		}
		ref[p] = struct{}{}
	}
	if o.validate {
		if err := ValidateUnique(query); err != nil {
			return nil, matrixErrorf("Match", err)
		}
	}

	out := make([]bool, len(query))
	for i, p := range query {
		_, out[i] = ref[p]
	}

	return out, nil
}

// MatchSorted is the sorted-merge variant of Match. Both inputs must be
// strictly increasing in row-major order (as produced by CSR.Positions);
// any violation, including duplicates, fails with ErrInvariantViolation.
//
// Complexity: O(|query| + |reference|) time, O(|query|) space.
func MatchSorted(query, reference []Position) ([]bool, error) {
	if err := validateStrictlySorted(query); err != nil {
		return nil, matrixErrorf("MatchSorted: query", err)
	}
	if err := validateStrictlySorted(reference); err != nil {
		return nil, matrixErrorf("MatchSorted: reference", err)
	}

	out := make([]bool, len(query))
	r := 0
	for i, p := range query {
		for r < len(reference) && reference[r].Less(p) {
			r++
		}
		out[i] = r < len(reference) && reference[r] == p
	}

	return out, nil
}

// SquarePattern maps the pattern of a rows×k baseline prolongation into the
// rows×rows node space: entry (i, j) of baseline becomes (i, coarse[j]).
// Only nonzero-valued entries are part of the pattern. The result is sorted
// row-major and duplicate-free.
//
// Errors:
//   - ErrNilMatrix when baseline is nil.
//   - ErrShapeMismatch when baseline is not N×NumCoarse for the partition.
func SquarePattern(baseline *CSR, coarse Partition) ([]Position, error) {
	if baseline == nil {
		return nil, matrixErrorf("SquarePattern", ErrNilMatrix)
	}
	if baseline.rows != coarse.N() || baseline.cols != coarse.NumCoarse() {
		return nil, matrixErrorf("SquarePattern",
			fmt.Errorf("baseline %dx%d vs partition %dx%d: %w",
				baseline.rows, baseline.cols, coarse.N(), coarse.NumCoarse(), ErrShapeMismatch))
	}

	cols := coarse.Coarse()
	out := baseline.NonzeroPositions()
	for k, p := range out {
		out[k].Col = cols[p.Col]
	}
	// coarse order is caller-defined, so node columns may come out of order
	sort.Slice(out, func(a, b int) bool { return out[a].Less(out[b]) })

	return out, nil
}
