// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/prolongnet/matrix"
	"github.com/katalvlaran/prolongnet/metrics"
	"github.com/katalvlaran/prolongnet/model"
	"github.com/katalvlaran/prolongnet/prolong"
)

// Skip reasons, used as the metrics label.
const (
	ReasonShapeMismatch      = "shape_mismatch"
	ReasonInvalidPartition   = "invalid_partition"
	ReasonInvariantViolation = "invariant_violation"
	ReasonNilMatrix          = "nil_matrix"
	ReasonNaNInf             = "nan_inf"
)

// skipReason classifies structural errors; others are not skippable.
func skipReason(err error) (string, bool) {
	switch {
	case errors.Is(err, matrix.ErrShapeMismatch):
		return ReasonShapeMismatch, true
	case errors.Is(err, matrix.ErrInvalidPartition):
		return ReasonInvalidPartition, true
	case errors.Is(err, matrix.ErrInvariantViolation):
		return ReasonInvariantViolation, true
	case errors.Is(err, matrix.ErrNilMatrix):
		return ReasonNilMatrix, true
	case errors.Is(err, matrix.ErrNaNInf):
		return ReasonNaNInf, true
	default:
		return "", false
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Exec != nil && r.Exec.Logger != nil {
		return r.Exec.Logger
	}

	return slog.Default()
}

// Result is the prolongation predicted for one example.
type Result struct {
	Item   *Item
	Values []float64   // per-edge model output
	P      *matrix.CSR // N×|C|
	Report prolong.Report
}

// Predictor runs the model on examples.
type Predictor struct {
	Resolver
	Model *model.Model
}

// Predict resolves ex and returns its prolongation.
func (p *Predictor) Predict(ctx context.Context, ex Example) (*Result, error) {
	item, err := p.Resolve(ctx, ex)
	if err != nil {
		return nil, err
	}

	return p.PredictItem(item)
}

// PredictItem runs the model and the sparse assembler on a resolved item.
func (p *Predictor) PredictItem(item *Item) (*Result, error) {
	values, err := p.Model.Predict(item.Graph)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", item.Name, err)
	}
	pred, err := item.Graph.ToMatrix(values)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", item.Name, err)
	}

	opts := append(prolong.FromRunConfig(p.Run, item.Volumes), prolong.WithLogger(p.logger()))
	pm, rep, err := prolong.AssembleSparse(pred, item.Coarse, item.Baseline, opts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", item.Name, err)
	}

	return &Result{Item: item, Values: values, P: pm, Report: rep}, nil
}

// Outcome is the per-example result of RunBatch: exactly one of Result and
// Err is set; Reason names the skip cause when Err is set.
type Outcome struct {
	Index  int
	Result *Result
	Err    error
	Reason string
}

// RunBatch predicts every example in order. Examples failing with a
// structural error are logged, counted and reported in their Outcome; the
// batch continues. Any other error, or context cancellation (checked between
// examples), stops the batch and is returned with the outcomes so far.
func (p *Predictor) RunBatch(ctx context.Context, examples []Example) ([]Outcome, error) {
	out := make([]Outcome, 0, len(examples))
	for i, ex := range examples {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := p.Predict(ctx, ex)
		if err == nil {
			out = append(out, Outcome{Index: i, Result: res})
			continue
		}
		reason, ok := skipReason(err)
		if !ok {
			return out, fmt.Errorf("pipeline: example %d: %w", i, err)
		}
		p.logger().Warn("batch example skipped", "index", i, "name", ex.Name, "reason", reason, "error", err)
		metrics.ExamplesSkipped.WithLabelValues(reason).Inc()
		out = append(out, Outcome{Index: i, Err: err, Reason: reason})
	}

	return out, nil
}
