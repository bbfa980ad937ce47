// SPDX-License-Identifier: MIT

// Package train fits the model to reference prolongations.
//
// One Step runs, for every item of a batch, the model forward pass, the
// dense differentiable assembler and the loss, then back-propagates through
// assembler and model into a trainer-owned gradient buffer. The averaged
// gradients are applied in a single exclusive optimizer step.
package train

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/prolongnet/matrix"
)

var (
	// ErrNoReference is returned for items without a reference prolongation.
	ErrNoReference = errors.New("train: item has no reference prolongation")

	// ErrEmptyBatch is returned when a step gets no items.
	ErrEmptyBatch = errors.New("train: empty batch")
)

// FrobeniusLoss returns ‖P − R‖²_F and its gradient 2(P − R).
//
// Errors: matrix.ErrNilMatrix, matrix.ErrShapeMismatch.
func FrobeniusLoss(p *matrix.Dense, ref *matrix.CSR) (float64, *matrix.Dense, error) {
	if p == nil || ref == nil {
		return 0, nil, fmt.Errorf("train.FrobeniusLoss: %w", matrix.ErrNilMatrix)
	}
	rows, cols := p.Shape()
	if err := matrix.ValidateShape(ref, rows, cols); err != nil {
		return 0, nil, fmt.Errorf("train.FrobeniusLoss: %w", err)
	}

	diff := p.Clone()
	raw := diff.RawData()
	ref.Do(func(i, j int, v float64) { raw[i*cols+j] -= v })

	loss := 0.0
	for k, d := range raw {
		loss += d * d
		raw[k] = 2 * d
	}

	return loss, diff, nil
}
