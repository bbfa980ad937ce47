// Package matrix provides the sparse and dense matrix representations used by
// the prolongation pipeline, together with the sparsity-pattern matcher.
//
// The matrix package provides:
//
//   - CSR, an immutable row-compressed sparse matrix (sorted, duplicate-free),
//     and COO, its coordinate-list counterpart with strict and coalescing
//     conversions.
//   - Dense, a row-major mutable buffer with error-returning accessors, used
//     where every entry takes part in a computation (differentiable assembly).
//   - Position / Partition value types for sparsity patterns and coarse/fine
//     splits, with central validators.
//   - Match / MatchSorted, the sparsity matcher labelling every query position
//     that also appears in a reference pattern.
//
// All errors are sentinels from errors.go wrapped with call-site context;
// compare them with errors.Is.
package matrix
