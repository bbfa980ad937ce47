// SPDX-License-Identifier: MIT

// Package pipeline wires the stages together for one or many examples:
//
//	A ──Coarsener──▶ C ──BaselineProvider──▶ P₀
//	(A, C, P₀) ──graph.Build──▶ G ──model──▶ per-edge values
//	values ──prolong.AssembleSparse──▶ P
//
// Coarsening and the baseline prolongation come from outside (classical AMG
// setup codes); the package only defines the interfaces it needs. Examples
// may also carry C and P₀ precomputed, in which case the collaborators are
// not called.
//
// Processing is sequential. RunBatch checks the context between examples and
// skips examples that fail with a structural error, logging and counting
// each skip.
package pipeline
