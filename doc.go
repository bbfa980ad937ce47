// SPDX-License-Identifier: MIT

// Package prolongnet predicts algebraic-multigrid prolongation operators with
// a message-passing graph network.
//
// Given a sparse system matrix A, a coarse/fine split C and a classical
// baseline prolongation P₀, the pipeline
//
//  1. builds an attributed graph whose nodes are the unknowns of A and whose
//     edges are the stored entries of A, flagged by coarse membership and by
//     whether the entry lies on the sparsity pattern of P₀ (graph/);
//  2. runs an encode-process-decode network over it and emits one scalar per
//     edge (nn/, model/);
//  3. assembles the N×|C| prolongation from those scalars: unit diagonal,
//     coarse columns, P₀ pattern, optional row normalisation to the row sums
//     of P₀ (prolong/).
//
// Training minimises the Frobenius distance to a reference prolongation with
// Adam and periodic checkpoints (train/, checkpoint/). The pipeline/ package
// ties the pieces together for batch prediction.
//
// Layout:
//
//	matrix/     - CSR / COO / Dense, partitions, sparsity matcher, validators
//	graph/      - attributed graph builder, features, batching
//	nn/         - tensors, linear / MLP / SAGE layers, parameter registry, Adam
//	model/      - encoder, processor, decoder
//	prolong/    - sparse and differentiable dense assemblers
//	train/      - loss and training loop
//	checkpoint/ - gob snapshots with optional float16 weights
//	pipeline/   - example resolution, datasets, batch prediction, model loading
//	config/     - YAML configuration
//	execctx/    - logger, validation switch, detected CPU features
//	metrics/    - Prometheus collectors
//
// Install:
//
//	go get github.com/katalvlaran/prolongnet
package prolongnet
