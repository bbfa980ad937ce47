// SPDX-License-Identifier: MIT

// Package graph - Graph Builder.
//
// Build converts (A, coarse/fine split, baseline pattern) into an
// AttributedGraph:
//
//	Stage 1: validate A is square and the partition belongs to it.
//	Stage 2: label every stored entry of A with the sparsity matcher.
//	Stage 3: emit one directed edge per entry, one node per index.
//
// Complexity: O(N + nnz(A) + |baseline|).
package graph

import (
	"github.com/katalvlaran/prolongnet/matrix"
)

// Build constructs the attributed graph of A.
//
// Errors:
//   - matrix.ErrShapeMismatch when A is nil-free but not square, or the
//     partition was built for a different N;
//   - matrix.ErrInvalidPartition for a zero (unvalidated) partition;
//   - matrix.ErrInvariantViolation for duplicate baseline positions in
//     validation mode.
func Build(a *matrix.CSR, coarse matrix.Partition, baseline []matrix.Position, opts ...Option) (*AttributedGraph, error) {
	o := gatherOptions(opts)

	if err := matrix.ValidateSquare(a); err != nil {
		return nil, graphErrorf("Build", err)
	}
	n := a.Rows()
	if err := matrix.ValidatePartitionFor(coarse, n); err != nil {
		return nil, graphErrorf("Build", err)
	}

	query := a.Positions() // row-major: edge k == stored entry k
	labels, err := matrix.Match(query, baseline, matrix.WithValidation(o.validate))
	if err != nil {
		return nil, graphErrorf("Build", err)
	}

	g := &AttributedGraph{
		numNodes: n,
		src:      make([]int, len(query)),
		dst:      make([]int, len(query)),
		values:   a.Data(),
		matches:  labels,
		coarse:   make([]bool, n),
		inDegree: make([]int, n),
	}
	for k, p := range query {
		g.src[k] = p.Row
		g.dst[k] = p.Col
		g.inDegree[p.Col]++
	}
	for _, c := range coarse.Coarse() {
		g.coarse[c] = true // fine nodes are the complement
	}

	return g, nil
}

// BuildFromBaseline derives the square sparsity pattern of the N×|C|
// baseline prolongation (column j ↦ node coarse[j]) and builds the graph.
func BuildFromBaseline(a *matrix.CSR, coarse matrix.Partition, baselineP *matrix.CSR, opts ...Option) (*AttributedGraph, error) {
	pattern, err := matrix.SquarePattern(baselineP, coarse)
	if err != nil {
		return nil, graphErrorf("BuildFromBaseline", err)
	}

	return Build(a, coarse, pattern, opts...)
}
