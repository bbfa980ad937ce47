// SPDX-License-Identifier: MIT

package prolong

import (
	"fmt"

	"github.com/katalvlaran/prolongnet/matrix"
	"github.com/katalvlaran/prolongnet/metrics"
)

// checkInputs validates the operands shared by both assemblers and returns
// the per-row normalisation targets.
func checkInputs(tag string, n int, coarse matrix.Partition, p0 *matrix.CSR, o options) ([]float64, error) {
	if err := matrix.ValidatePartitionFor(coarse, n); err != nil {
		return nil, prolongErrorf(tag, err)
	}
	if err := matrix.ValidateShape(p0, n, coarse.NumCoarse()); err != nil {
		return nil, prolongErrorf(tag, fmt.Errorf("baseline: %w", err))
	}
	if o.byNode && o.normalize {
		if err := matrix.ValidateVecLen(o.volumes, n); err != nil {
			return nil, prolongErrorf(tag, fmt.Errorf("node volumes: %w", err))
		}
		return o.volumes, nil
	}

	return p0.RowSums(), nil
}

// AssembleSparse builds the N×|C| prolongation from the N×N prediction pred.
//
// Errors:
//   - matrix.ErrNilMatrix for nil operands;
//   - matrix.ErrShapeMismatch when pred is not N×N, p0 is not N×|C| or the
//     volumes have the wrong length;
//   - matrix.ErrInvalidPartition for a zero partition.
//
// Zero-sum rows never fail the call; see Report.
// Complexity: O(nnz(pred) log d + nnz(p0)), d the widest row.
func AssembleSparse(pred *matrix.CSR, coarse matrix.Partition, p0 *matrix.CSR, opts ...Option) (*matrix.CSR, Report, error) {
	o := gatherOptions(opts)
	rep := Report{Variant: metrics.VariantSparse}

	if err := matrix.ValidateSquare(pred); err != nil {
		return nil, rep, prolongErrorf("AssembleSparse", err)
	}
	n := pred.Rows()
	rep.Rows = n
	targets, err := checkInputs("AssembleSparse", n, coarse, p0, o)
	if err != nil {
		return nil, rep, err
	}

	selected, err := pred.WithDiagonal(1).SelectColumns(coarse.Coarse())
	if err != nil {
		return nil, rep, prolongErrorf("AssembleSparse", err)
	}
	masked, err := selected.MaskBy(p0)
	if err != nil {
		return nil, rep, prolongErrorf("AssembleSparse", err)
	}
	p := masked.EliminateZeros()
	if !o.normalize {
		return p, rep, nil
	}

	rep.Normalized = true
	scale, bad := rowScales(p.RowSums(), targets, p.RowNnz)
	rep.DegenerateRows = bad
	if p, err = p.ScaleRows(scale); err != nil {
		return nil, rep, prolongErrorf("AssembleSparse", err)
	}
	rep.publish(o.logger)

	return p.EliminateZeros(), rep, nil
}
