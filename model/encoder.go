// SPDX-License-Identifier: MIT

package model

import (
	"math/rand"

	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/nn"
)

// Encoder maps raw node and edge attributes to latent vectors of width L.
type Encoder struct {
	Node, Edge     *nn.MLP
	nodeIndicators bool
	edgeIndicators bool
}

// EncoderTape records one Encoder.Forward.
type EncoderTape struct {
	node, edge *nn.MLPTape
}

func newEncoder(reg *nn.Registry, latent int, nodeInd, edgeInd bool, rng *rand.Rand) (*Encoder, error) {
	nodeIn, edgeIn := graph.NodeFeatureWidthNoFlags, graph.EdgeFeatureWidthNoFlags
	if nodeInd {
		nodeIn = graph.NodeFeatureWidth
	}
	if edgeInd {
		edgeIn = graph.EdgeFeatureWidth
	}
	node, err := nn.NewMLP(reg, "encoder.node", nodeIn, latent, latent, rng)
	if err != nil {
		return nil, err
	}
	edge, err := nn.NewMLP(reg, "encoder.edge", edgeIn, latent, latent, rng)
	if err != nil {
		return nil, err
	}

	return &Encoder{Node: node, Edge: edge, nodeIndicators: nodeInd, edgeIndicators: edgeInd}, nil
}

// Forward returns the N×L node and E×L edge encodings of g.
func (e *Encoder) Forward(g *graph.AttributedGraph) (nodes, edges *nn.Tensor, tape *EncoderTape, err error) {
	nf, nw := g.NodeFeatures(e.nodeIndicators)
	ef, ew := g.EdgeFeatures(e.edgeIndicators)
	nx := &nn.Tensor{Rows: g.NumNodes(), Cols: nw, Data: nf}
	ex := &nn.Tensor{Rows: g.NumEdges(), Cols: ew, Data: ef}

	tape = &EncoderTape{}
	if nodes, tape.node, err = e.Node.Forward(nx); err != nil {
		return nil, nil, nil, err
	}
	if edges, tape.edge, err = e.Edge.Forward(ex); err != nil {
		return nil, nil, nil, err
	}

	return nodes, edges, tape, nil
}

// Backward accumulates the encoder's parameter gradients. Raw attributes are
// constants, so no input gradient is returned.
func (e *Encoder) Backward(tape *EncoderTape, dNodes, dEdges *nn.Tensor, grads *nn.Grads) error {
	if _, err := e.Node.Backward(tape.node, dNodes, grads); err != nil {
		return err
	}
	_, err := e.Edge.Backward(tape.edge, dEdges, grads)

	return err
}
