// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/katalvlaran/prolongnet/matrix"
)

// EdgeListItem is a flat export record for one edge.
type EdgeListItem struct {
	Src, Dst int
	Value    float64
	Matches  bool
}

// ToEdgeList returns the edges in build order.
func (g *AttributedGraph) ToEdgeList() []EdgeListItem {
	list := make([]EdgeListItem, len(g.src))
	for k := range g.src {
		list[k] = EdgeListItem{Src: g.src[k], Dst: g.dst[k], Value: g.values[k], Matches: g.matches[k]}
	}

	return list
}

// ToMatrix scatters one value per edge into an N×N sparse matrix at the
// edge's (src, dst) position. Repeated positions are summed; the result is
// sorted and coalesced.
//
// Errors: matrix.ErrShapeMismatch when len(values) != NumEdges().
func (g *AttributedGraph) ToMatrix(values []float64) (*matrix.CSR, error) {
	if len(values) != len(g.src) {
		return nil, graphErrorf("ToMatrix", fmt.Errorf("%d values for %d edges: %w",
			len(values), len(g.src), matrix.ErrShapeMismatch))
	}
	coo, err := matrix.NewCOO(g.numNodes, g.numNodes, g.src, g.dst, values)
	if err != nil {
		return nil, graphErrorf("ToMatrix", err)
	}

	return coo.Coalesce(), nil
}

// SystemMatrix reconstructs A from the edge value attributes.
func (g *AttributedGraph) SystemMatrix() (*matrix.CSR, error) {
	return g.ToMatrix(g.values)
}
