// SPDX-License-Identifier: MIT

// Package graph: the attributed graph built from a sparse system matrix.
//
// Nodes are the row/column indices 0..N-1 of a square system matrix A; edges
// are its stored entries, one directed edge src=row → dst=col per entry
// (self-loops when the diagonal is stored).
//
// Attributes:
//   - node i: is_coarse / is_fine (mutually exclusive, exhaustive);
//   - edge k: value A[src,dst], matches_baseline_pattern / not_matches
//     (mutually exclusive, exhaustive).
//
// An AttributedGraph is immutable after Build and owned by the pipeline run
// that created it; it may be cached (pipeline.Dataset) and reused read-only.
package graph

// AttributedGraph is the graph representation consumed by the model.
type AttributedGraph struct {
	numNodes int
	src      []int     // edge k source (row of A)
	dst      []int     // edge k destination (column of A)
	values   []float64 // edge k value A[src,dst]
	matches  []bool    // edge k position lies in the baseline pattern
	coarse   []bool    // node i is coarse
	inDegree []int     // number of edges with dst == i
}

// NumNodes returns N.
func (g *AttributedGraph) NumNodes() int { return g.numNodes }

// NumEdges returns the number of directed edges (nnz of the source matrix).
func (g *AttributedGraph) NumEdges() int { return len(g.src) }

// Edge returns the endpoints of edge k.
func (g *AttributedGraph) Edge(k int) (src, dst int) { return g.src[k], g.dst[k] }

// Sources returns a copy of the edge source indices.
func (g *AttributedGraph) Sources() []int { return append([]int(nil), g.src...) }

// Destinations returns a copy of the edge destination indices.
func (g *AttributedGraph) Destinations() []int { return append([]int(nil), g.dst...) }

// Values returns a copy of the edge values.
func (g *AttributedGraph) Values() []float64 { return append([]float64(nil), g.values...) }

// Value returns the value attribute of edge k.
func (g *AttributedGraph) Value(k int) float64 { return g.values[k] }

// MatchesBaseline reports the matches_baseline_pattern attribute of edge k.
func (g *AttributedGraph) MatchesBaseline(k int) bool { return g.matches[k] }

// NotMatchesBaseline reports the not_matches_baseline_pattern attribute of edge k.
func (g *AttributedGraph) NotMatchesBaseline(k int) bool { return !g.matches[k] }

// IsCoarse reports the is_coarse attribute of node i.
func (g *AttributedGraph) IsCoarse(i int) bool { return g.coarse[i] }

// IsFine reports the is_fine attribute of node i.
func (g *AttributedGraph) IsFine(i int) bool { return !g.coarse[i] }

// InDegree returns a copy of the per-node count of incoming edges.
func (g *AttributedGraph) InDegree() []int { return append([]int(nil), g.inDegree...) }

// SourcesView and DestinationsView expose the endpoint arrays without copying
// for hot message-passing loops. Callers MUST NOT modify them.
func (g *AttributedGraph) SourcesView() []int { return g.src }

// DestinationsView: see SourcesView.
func (g *AttributedGraph) DestinationsView() []int { return g.dst }

// InDegreeView exposes the in-degree array without copying. Read-only.
func (g *AttributedGraph) InDegreeView() []int { return g.inDegree }

// CountMatches returns how many edges lie in the baseline pattern.
func (g *AttributedGraph) CountMatches() int {
	n := 0
	for _, m := range g.matches {
		if m {
			n++
		}
	}

	return n
}
