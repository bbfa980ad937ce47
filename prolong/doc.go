// SPDX-License-Identifier: MIT

// Package prolong turns per-edge predictions into a prolongation operator.
//
// Given the predicted N×N matrix M (one value per nonzero of A), the coarse
// set C and the baseline prolongation P₀ (N×|C|):
//
//	1. M(i,i) := 1 for every i (coarse points interpolate to themselves);
//	2. P := M[:, C], column k of P is column C[k] of M;
//	3. keep only positions where P₀ is nonzero, drop exact zeros;
//	4. optionally rescale row i to the target sum t(i): P₀'s row sum, or the
//	   node volume when volumes are supplied. Rows whose sum is zero become
//	   zero rows; they are reported, logged and counted, never an error.
//
// AssembleSparse works on CSR and is meant for inference. AssembleDense works
// on dense storage and is differentiable: DenseResult.Backward maps ∂L/∂P to
// ∂L/∂M, and EdgeGradients gathers that per graph edge. Both produce the same
// matrix up to floating point rounding.
package prolong
