// SPDX-License-Identifier: MIT

// Package model assembles the encode-process-decode network that predicts
// one value per edge of an attributed graph.
//
//	Encoder:   node MLP (2→L→L) and edge MLP (3→L→L) over the raw attributes.
//	Processor: mp_rounds GraphSAGE rounds; rounds ≥2 see [h | node encoding].
//	Decoder:   per edge, MLP([h(src) | h(dst)]) (2L→L→1).
//
// Model guards its weights with a sync.RWMutex: forward and backward passes
// read-lock, ApplyGradients write-locks and applies a whole optimizer step.
package model
