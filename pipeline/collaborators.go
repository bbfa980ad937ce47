// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"

	"github.com/katalvlaran/prolongnet/matrix"
)

// Coarsener splits the nodes of A into coarse and fine.
type Coarsener interface {
	Coarsen(ctx context.Context, a *matrix.CSR) (matrix.Partition, error)
}

// BaselineProvider computes the classical N×|C| prolongation for (A, C).
type BaselineProvider interface {
	ComputeBaseline(ctx context.Context, a *matrix.CSR, coarse matrix.Partition) (*matrix.CSR, error)
}

// CoarsenerFunc adapts a function to Coarsener.
type CoarsenerFunc func(ctx context.Context, a *matrix.CSR) (matrix.Partition, error)

// Coarsen calls f.
func (f CoarsenerFunc) Coarsen(ctx context.Context, a *matrix.CSR) (matrix.Partition, error) {
	return f(ctx, a)
}

// BaselineFunc adapts a function to BaselineProvider.
type BaselineFunc func(ctx context.Context, a *matrix.CSR, coarse matrix.Partition) (*matrix.CSR, error)

// ComputeBaseline calls f.
func (f BaselineFunc) ComputeBaseline(ctx context.Context, a *matrix.CSR, coarse matrix.Partition) (*matrix.CSR, error) {
	return f(ctx, a, coarse)
}
