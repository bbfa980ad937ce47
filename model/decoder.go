// SPDX-License-Identifier: MIT

package model

import (
	"math/rand"

	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/nn"
)

// Decoder maps each edge's endpoint latents to one scalar.
type Decoder struct {
	MLP    *nn.MLP
	latent int
}

// DecoderTape records one Decoder.Forward.
type DecoderTape struct {
	g   *graph.AttributedGraph
	mlp *nn.MLPTape
}

func newDecoder(reg *nn.Registry, latent int, rng *rand.Rand) (*Decoder, error) {
	mlp, err := nn.NewMLP(reg, "decoder", 2*latent, latent, 1, rng)
	if err != nil {
		return nil, err
	}

	return &Decoder{MLP: mlp, latent: latent}, nil
}

// Forward returns one prediction per edge, in edge order. The input row of
// edge k is [h(src_k) | h(dst_k)].
func (d *Decoder) Forward(g *graph.AttributedGraph, h *nn.Tensor) ([]float64, *DecoderTape, error) {
	src, dst := g.SourcesView(), g.DestinationsView()
	in := nn.NewTensor(len(src), 2*d.latent)
	for k := range src {
		row := in.Row(k)
		copy(row, h.Row(src[k]))
		copy(row[d.latent:], h.Row(dst[k]))
	}
	y, tape, err := d.MLP.Forward(in)
	if err != nil {
		return nil, nil, err
	}

	return y.Data, &DecoderTape{g: g, mlp: tape}, nil
}

// Backward scatters per-edge gradients back to the node latents (N×L).
func (d *Decoder) Backward(tape *DecoderTape, dPred []float64, grads *nn.Grads) (*nn.Tensor, error) {
	dy, err := nn.TensorFrom(len(dPred), 1, dPred)
	if err != nil {
		return nil, err
	}
	dIn, err := d.MLP.Backward(tape.mlp, dy, grads)
	if err != nil {
		return nil, err
	}

	g := tape.g
	src, dst := g.SourcesView(), g.DestinationsView()
	dh := nn.NewTensor(g.NumNodes(), d.latent)
	for k := range src {
		row := dIn.Row(k)
		a, b := dh.Row(src[k]), dh.Row(dst[k])
		for f := 0; f < d.latent; f++ {
			a[f] += row[f]
			b[f] += row[d.latent+f]
		}
	}

	return dh, nil
}
