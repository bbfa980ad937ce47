// SPDX-License-Identifier: MIT

// Package model - Processor.
//
// Round 1:   h₁ = ReLU(conv₁(n, w))
// Round r>1: h_r = conv_r([h_{r-1} | n], w), ReLU on every round but the last
//
// with n the encoded node latents and w the encoded edge latents, both fixed
// for the whole pass. With shared weights conv_r is one layer for all r>1.
// A single-round processor keeps its ReLU.
package model

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/nn"
)

// Processor runs the message-passing rounds.
type Processor struct {
	Rounds []*nn.SAGEConv // len == mp_rounds; entries alias when shared
	latent int
}

type roundTape struct {
	conv *nn.SAGETape
	out  *nn.Tensor // post-activation output, nil when the round is linear
}

// ProcessorTape records one Processor.Forward.
type ProcessorTape struct {
	rounds []roundTape
}

func newProcessor(reg *nn.Registry, latent, rounds int, share bool, rng *rand.Rand) (*Processor, error) {
	p := &Processor{Rounds: make([]*nn.SAGEConv, rounds), latent: latent}
	var err error
	if p.Rounds[0], err = nn.NewSAGEConv(reg, "processor.conv1", latent, latent, rng); err != nil {
		return nil, err
	}
	for r := 1; r < rounds; r++ {
		if share && r > 1 {
			p.Rounds[r] = p.Rounds[1]
			continue
		}
		name := fmt.Sprintf("processor.conv%d", r+1)
		if p.Rounds[r], err = nn.NewSAGEConv(reg, name, 2*latent, latent, rng); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Processor) activated(r int) bool {
	return r < len(p.Rounds)-1 || len(p.Rounds) == 1
}

// Forward returns the final N×L node latents.
func (p *Processor) Forward(g *graph.AttributedGraph, nodes, edges *nn.Tensor) (*nn.Tensor, *ProcessorTape, error) {
	tape := &ProcessorTape{rounds: make([]roundTape, len(p.Rounds))}
	h := nodes
	for r, conv := range p.Rounds {
		x := h
		if r > 0 {
			var err error
			if x, err = nn.ConcatCols(h, nodes); err != nil {
				return nil, nil, err
			}
		}
		out, ct, err := conv.Forward(g, x, edges)
		if err != nil {
			return nil, nil, fmt.Errorf("model: round %d: %w", r+1, err)
		}
		tape.rounds[r].conv = ct
		if p.activated(r) {
			out = nn.ReLU(out)
			tape.rounds[r].out = out
		}
		h = out
	}

	return h, tape, nil
}

// Backward returns the gradients with respect to the node and edge encodings.
func (p *Processor) Backward(tape *ProcessorTape, dh *nn.Tensor, grads *nn.Grads) (dNodes, dEdges *nn.Tensor, err error) {
	for r := len(p.Rounds) - 1; r >= 0; r-- {
		rt := tape.rounds[r]
		if rt.out != nil {
			dh = nn.ReLUBackward(rt.out, dh)
		}
		dx, dw, err := p.Rounds[r].Backward(rt.conv, dh, grads)
		if err != nil {
			return nil, nil, fmt.Errorf("model: round %d: %w", r+1, err)
		}
		if dEdges == nil {
			dEdges = dw
		} else if err = dEdges.AddInPlace(dw); err != nil {
			return nil, nil, err
		}

		if r == 0 {
			dh = dx
			break
		}
		prev, dn := nn.SplitCols(dx, p.latent)
		if dNodes == nil {
			dNodes = dn
		} else if err = dNodes.AddInPlace(dn); err != nil {
			return nil, nil, err
		}
		dh = prev
	}

	if dNodes == nil {
		return dh, dEdges, nil
	}
	if err = dNodes.AddInPlace(dh); err != nil {
		return nil, nil, err
	}

	return dNodes, dEdges, nil
}
