// SPDX-License-Identifier: MIT

// Package graph - batching.
//
// Batch concatenates several graphs into one disconnected graph so a single
// model pass covers all of them. Node and edge indices of graph b are shifted
// by the node/edge totals of graphs 0..b-1. Split undoes the edge shift for a
// per-edge output vector.
package graph

import (
	"fmt"

	"github.com/katalvlaran/prolongnet/matrix"
)

// Batched is a disjoint union of graphs plus the offsets to split it again.
type Batched struct {
	*AttributedGraph
	parts       []*AttributedGraph
	nodeOffsets []int // len(parts)+1
	edgeOffsets []int // len(parts)+1
}

// Batch merges graphs into one. At least one graph is required.
//
// Errors: matrix.ErrShapeMismatch for an empty argument list or a nil graph.
func Batch(graphs ...*AttributedGraph) (*Batched, error) {
	if len(graphs) == 0 {
		return nil, graphErrorf("Batch", fmt.Errorf("no graphs: %w", matrix.ErrShapeMismatch))
	}

	b := &Batched{
		parts:       append([]*AttributedGraph(nil), graphs...),
		nodeOffsets: make([]int, len(graphs)+1),
		edgeOffsets: make([]int, len(graphs)+1),
	}
	for i, g := range graphs {
		if g == nil {
			return nil, graphErrorf("Batch", fmt.Errorf("graph %d is nil: %w", i, matrix.ErrShapeMismatch))
		}
		b.nodeOffsets[i+1] = b.nodeOffsets[i] + g.numNodes
		b.edgeOffsets[i+1] = b.edgeOffsets[i] + len(g.src)
	}

	n, e := b.nodeOffsets[len(graphs)], b.edgeOffsets[len(graphs)]
	u := &AttributedGraph{
		numNodes: n,
		src:      make([]int, 0, e),
		dst:      make([]int, 0, e),
		values:   make([]float64, 0, e),
		matches:  make([]bool, 0, e),
		coarse:   make([]bool, 0, n),
		inDegree: make([]int, 0, n),
	}
	for i, g := range graphs {
		off := b.nodeOffsets[i]
		for k := range g.src {
			u.src = append(u.src, g.src[k]+off)
			u.dst = append(u.dst, g.dst[k]+off)
		}
		u.values = append(u.values, g.values...)
		u.matches = append(u.matches, g.matches...)
		u.coarse = append(u.coarse, g.coarse...)
		u.inDegree = append(u.inDegree, g.inDegree...)
	}
	b.AttributedGraph = u

	return b, nil
}

// Len returns the number of member graphs.
func (b *Batched) Len() int { return len(b.parts) }

// Part returns member graph i.
func (b *Batched) Part(i int) *AttributedGraph { return b.parts[i] }

// EdgeRange returns the half-open edge index range of member graph i.
func (b *Batched) EdgeRange(i int) (lo, hi int) { return b.edgeOffsets[i], b.edgeOffsets[i+1] }

// NodeRange returns the half-open node index range of member graph i.
func (b *Batched) NodeRange(i int) (lo, hi int) { return b.nodeOffsets[i], b.nodeOffsets[i+1] }

// Split cuts a per-edge vector of the union back into per-graph vectors.
// The returned slices alias values.
//
// Errors: matrix.ErrShapeMismatch when len(values) != NumEdges().
func (b *Batched) Split(values []float64) ([][]float64, error) {
	if len(values) != b.NumEdges() {
		return nil, graphErrorf("Split", fmt.Errorf("%d values for %d edges: %w",
			len(values), b.NumEdges(), matrix.ErrShapeMismatch))
	}
	out := make([][]float64, len(b.parts))
	for i := range b.parts {
		lo, hi := b.EdgeRange(i)
		out[i] = values[lo:hi:hi]
	}

	return out, nil
}
