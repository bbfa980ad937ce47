// SPDX-License-Identifier: MIT

package prolong

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/prolongnet/metrics"
)

// Report describes what normalisation did to one operator.
type Report struct {
	Variant        string // metrics.VariantSparse or metrics.VariantDense
	Rows           int
	Normalized     bool
	DegenerateRows []int // rows with a zero sum that could not reach their target
}

// Degenerate reports whether any row was zeroed.
func (r Report) Degenerate() bool { return len(r.DegenerateRows) > 0 }

// Err returns nil or an error wrapping ErrNumericDegeneracy.
func (r Report) Err() error {
	if !r.Degenerate() {
		return nil
	}

	return fmt.Errorf("%s: %d of %d rows %v: %w", r.Variant, len(r.DegenerateRows), r.Rows, r.DegenerateRows, ErrNumericDegeneracy)
}

// publish logs and counts degenerate rows.
func (r Report) publish(logger *slog.Logger) {
	if !r.Degenerate() {
		return
	}
	metrics.DegenerateRows.WithLabelValues(r.Variant).Add(float64(len(r.DegenerateRows)))
	logger.Warn("prolongation rows zeroed by normalisation",
		"variant", r.Variant, "rows", len(r.DegenerateRows), "total", r.Rows, "error", r.Err())
}

// rowScales returns t(i)/s(i), or 0 when s(i) == 0; a zero-sum row is
// degenerate when it held entries or had a nonzero target.
func rowScales(sums, targets []float64, nnz func(i int) int) ([]float64, []int) {
	scale := make([]float64, len(sums))
	var bad []int
	for i, s := range sums {
		if s == 0 {
			if targets[i] != 0 || nnz(i) > 0 {
				bad = append(bad, i)
			}
			continue
		}
		scale[i] = targets[i] / s
	}

	return scale, bad
}
