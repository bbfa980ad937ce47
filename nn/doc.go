// SPDX-License-Identifier: MIT

// Package nn provides the small neural-network toolkit the prolongation model
// is built from:
//
//   - Tensor: row-major rows×cols float64 storage.
//   - Param, Registry: named trainable tensors kept in a name-ordered B-tree so
//     iteration (and therefore checkpoint layout) is deterministic.
//   - Grads: gradient buffers aligned with a Registry, owned by the caller so
//     several backward passes can run against one set of weights.
//   - Linear, MLP: dense layers backed by gonum BLAS.
//   - SAGEConv: GraphSAGE convolution with mean aggregation and per-edge,
//     per-channel weights.
//   - Adam: the optimizer, with exponential learning-rate decay.
//
// Every layer exposes Forward (returning a tape with what Backward needs) and
// Backward (accumulating parameter gradients into Grads and returning input
// gradients). Layers never mutate their weights; only Adam.Step does.
package nn
