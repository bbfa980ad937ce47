// SPDX-License-Identifier: MIT

// Package nn - GraphSAGE convolution, mean aggregator.
//
// For every node v with incoming edges e = (u → v):
//
//	neigh(v) = (1/deg(v)) · Σ_e  f(u) ⊙ w_e
//	out(v)   = x(v)·W_selfᵀ + P(neigh(v)) + b
//
// where w_e is a per-edge, per-channel weight row. When In > Out the
// neighbour projection runs before message passing (f = x·W_neighᵀ, P = id),
// otherwise after aggregation (f = x, P = ·W_neighᵀ). Nodes without incoming
// edges get neigh = 0.
//
// Complexity: O(N·In·Out + E·min(In, Out)) per pass.
package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Topology is the read-only graph structure the convolution runs on.
// *graph.AttributedGraph implements it.
type Topology interface {
	NumNodes() int
	NumEdges() int
	SourcesView() []int
	DestinationsView() []int
	InDegreeView() []int
}

// SAGEConv is a mean-aggregating GraphSAGE layer with edge weights.
type SAGEConv struct {
	In, Out int
	Self    *Linear // bias-free
	Neigh   *Linear // bias-free
	Bias    *Param  // 1×Out
}

// SAGETape records one SAGEConv.Forward.
type SAGETape struct {
	g      Topology
	x, w   *Tensor
	feat   *Tensor // message source features: x, or x·W_neighᵀ when projecting first
	agg    *Tensor // mean-aggregated messages
	before bool
}

// NewSAGEConv registers "<name>.fc_self", "<name>.fc_neigh" and "<name>.bias".
func NewSAGEConv(reg *Registry, name string, in, out int, rng *rand.Rand) (*SAGEConv, error) {
	self, err := NewLinear(reg, name+".fc_self", in, out, false, rng)
	if err != nil {
		return nil, err
	}
	neigh, err := NewLinear(reg, name+".fc_neigh", in, out, false, rng)
	if err != nil {
		return nil, err
	}
	bias, err := reg.Add(name+".bias", 1, out)
	if err != nil {
		return nil, err
	}

	return &SAGEConv{In: in, Out: out, Self: self, Neigh: neigh, Bias: bias}, nil
}

// projectFirst reports whether W_neigh is applied before message passing.
func (c *SAGEConv) projectFirst() bool { return c.In > c.Out }

// MessageWidth is the width edge weights must have.
func (c *SAGEConv) MessageWidth() int {
	if c.projectFirst() {
		return c.Out
	}

	return c.In
}

// Forward runs the layer on node features x (N×In) with edge weights w
// (E×MessageWidth).
func (c *SAGEConv) Forward(g Topology, x, w *Tensor) (*Tensor, *SAGETape, error) {
	n, e := g.NumNodes(), g.NumEdges()
	if x.Rows != n || x.Cols != c.In {
		return nil, nil, shapeErr("SAGEConv.Forward", "x %dx%d, want %dx%d", x.Rows, x.Cols, n, c.In)
	}
	if w.Rows != e || w.Cols != c.MessageWidth() {
		return nil, nil, shapeErr("SAGEConv.Forward", "edge weights %dx%d, want %dx%d", w.Rows, w.Cols, e, c.MessageWidth())
	}

	tape := &SAGETape{g: g, x: x, w: w, feat: x, before: c.projectFirst()}
	var err error
	if tape.before {
		if tape.feat, err = c.Neigh.Forward(x); err != nil {
			return nil, nil, err
		}
	}
	tape.agg = aggregateMean(g, tape.feat, w)

	neigh := tape.agg
	if !tape.before {
		if neigh, err = c.Neigh.Forward(tape.agg); err != nil {
			return nil, nil, err
		}
	}
	out, err := c.Self.Forward(x)
	if err != nil {
		return nil, nil, err
	}
	if err = out.AddInPlace(neigh); err != nil {
		return nil, nil, err
	}
	b := c.Bias.Value.Data
	for i := 0; i < out.Rows; i++ {
		row := out.Row(i)
		for j := range row {
			row[j] += b[j]
		}
	}

	return out, tape, nil
}

func aggregateMean(g Topology, feat, w *Tensor) *Tensor {
	src, dst, deg := g.SourcesView(), g.DestinationsView(), g.InDegreeView()
	agg := NewTensor(feat.Rows, feat.Cols)
	for k := range src {
		to := agg.Row(dst[k])
		from, wk := feat.Row(src[k]), w.Row(k)
		for f := range to {
			to[f] += from[f] * wk[f]
		}
	}
	for v, d := range deg {
		if d > 1 {
			floats.Scale(1/float64(d), agg.Row(v))
		}
	}

	return agg
}

// Backward returns ∂x (N×In) and ∂w (E×MessageWidth) and accumulates the
// layer's parameter gradients into grads.
func (c *SAGEConv) Backward(tape *SAGETape, dOut *Tensor, grads *Grads) (dx, dw *Tensor, err error) {
	if dOut.Rows != tape.x.Rows || dOut.Cols != c.Out {
		return nil, nil, shapeErr("SAGEConv.Backward", "dOut %dx%d, want %dx%d", dOut.Rows, dOut.Cols, tape.x.Rows, c.Out)
	}

	gb := grads.Of(c.Bias).Data
	for i := 0; i < dOut.Rows; i++ {
		for j, v := range dOut.Row(i) {
			gb[j] += v
		}
	}
	if dx, err = c.Self.Backward(tape.x, dOut, grads); err != nil {
		return nil, nil, err
	}

	dAgg := dOut
	if !tape.before {
		if dAgg, err = c.Neigh.Backward(tape.agg, dOut, grads); err != nil {
			return nil, nil, err
		}
	}

	g := tape.g
	src, dst, deg := g.SourcesView(), g.DestinationsView(), g.InDegreeView()
	dFeat := NewTensor(tape.feat.Rows, tape.feat.Cols)
	dw = NewTensor(tape.w.Rows, tape.w.Cols)
	for k := range src {
		inv := 1 / float64(deg[dst[k]])
		up := dAgg.Row(dst[k])
		from, wk := tape.feat.Row(src[k]), tape.w.Row(k)
		df, dwk := dFeat.Row(src[k]), dw.Row(k)
		for f := range wk {
			m := up[f] * inv
			df[f] += m * wk[f]
			dwk[f] = m * from[f]
		}
	}

	if tape.before {
		dxn, err := c.Neigh.Backward(tape.x, dFeat, grads)
		if err != nil {
			return nil, nil, err
		}
		dFeat = dxn
	}
	if err = dx.AddInPlace(dFeat); err != nil {
		return nil, nil, err
	}

	return dx, dw, nil
}
