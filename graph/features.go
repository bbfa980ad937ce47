// SPDX-License-Identifier: MIT

package graph

// Feature widths of the raw model inputs.
const (
	NodeFeatureWidth        = 2 // [is_coarse, is_fine]
	EdgeFeatureWidth        = 3 // [value, matches_baseline, not_matches_baseline]
	NodeFeatureWidthNoFlags = 1 // constant zero placeholder
	EdgeFeatureWidthNoFlags = 1 // [value]
)

func indicator(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// NodeFeatures returns the row-major N×w node input matrix and its width w.
//
// With indicators: row i = [is_coarse(i), is_fine(i)].
// Without: a single zero column, so the encoder sees no split information.
func (g *AttributedGraph) NodeFeatures(indicators bool) ([]float64, int) {
	if !indicators {
		return make([]float64, g.numNodes), NodeFeatureWidthNoFlags
	}
	out := make([]float64, g.numNodes*NodeFeatureWidth)
	for i, c := range g.coarse {
		out[i*NodeFeatureWidth] = indicator(c)
		out[i*NodeFeatureWidth+1] = indicator(!c)
	}

	return out, NodeFeatureWidth
}

// EdgeFeatures returns the row-major E×w edge input matrix and its width w.
//
// With indicators: row k = [value, matches_baseline, not_matches_baseline].
// Without: row k = [value].
func (g *AttributedGraph) EdgeFeatures(indicators bool) ([]float64, int) {
	if !indicators {
		return append([]float64(nil), g.values...), EdgeFeatureWidthNoFlags
	}
	out := make([]float64, len(g.values)*EdgeFeatureWidth)
	for k, v := range g.values {
		out[k*EdgeFeatureWidth] = v
		out[k*EdgeFeatureWidth+1] = indicator(g.matches[k])
		out[k*EdgeFeatureWidth+2] = indicator(!g.matches[k])
	}

	return out, EdgeFeatureWidth
}
