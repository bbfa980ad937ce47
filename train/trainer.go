// SPDX-License-Identifier: MIT

package train

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/prolongnet/checkpoint"
	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/metrics"
	"github.com/katalvlaran/prolongnet/model"
	"github.com/katalvlaran/prolongnet/nn"
	"github.com/katalvlaran/prolongnet/pipeline"
	"github.com/katalvlaran/prolongnet/prolong"
)

// Trainer owns the optimizer and gradient buffer of one training run.
// It is not safe for concurrent use; the model it trains may be shared with
// concurrent predictors.
type Trainer struct {
	model  *model.Model
	opt    *nn.Adam
	run    config.RunConfig
	grads  *nn.Grads
	ckpt   *checkpoint.Manager
	every  int
	logger *slog.Logger
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithCheckpoints saves through mgr every n optimizer steps (n > 0).
func WithCheckpoints(mgr *checkpoint.Manager, n int) Option {
	if n <= 0 {
		panic("train: WithCheckpoints requires n > 0")
	}

	return func(t *Trainer) { t.ckpt, t.every = mgr, n }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a trainer for m. opt must have been created by m.NewOptimizer.
func New(m *model.Model, opt *nn.Adam, run config.RunConfig, opts ...Option) *Trainer {
	t := &Trainer{model: m, opt: opt, run: run, grads: m.NewGrads(), logger: slog.Default()}
	for _, fn := range opts {
		if fn != nil {
			fn(t)
		}
	}

	return t
}

// Optimizer returns the trainer's optimizer.
func (t *Trainer) Optimizer() *nn.Adam { return t.opt }

// itemLoss assembles the prolongation from one item's edge values and
// returns the loss and its gradient with respect to those values.
func (t *Trainer) itemLoss(item *pipeline.Item, values []float64) (float64, []float64, error) {
	g := item.Graph
	pred, err := prolong.DenseFromEdges(g, values)
	if err != nil {
		return 0, nil, err
	}
	opts := append(prolong.FromRunConfig(t.run, item.Volumes), prolong.WithLogger(t.logger))
	res, err := prolong.AssembleDense(pred, item.Coarse, item.Baseline, opts...)
	if err != nil {
		return 0, nil, err
	}
	loss, dP, err := FrobeniusLoss(res.P, item.Reference)
	if err != nil {
		return 0, nil, err
	}
	dPred, err := res.Backward(dP)
	if err != nil {
		return 0, nil, err
	}
	dValues, err := prolong.EdgeGradients(g, dPred)
	if err != nil {
		return 0, nil, err
	}

	return loss, dValues, nil
}

// Gradients returns the mean loss over items and the gradient of that mean
// in the trainer's buffer. The items are batched into one disconnected graph
// so the model runs a single forward and backward pass; the context is
// checked between the per-item assemblies.
func (t *Trainer) Gradients(ctx context.Context, items []*pipeline.Item) (float64, *nn.Grads, error) {
	if len(items) == 0 {
		return 0, nil, ErrEmptyBatch
	}
	graphs := make([]*graph.AttributedGraph, len(items))
	for i, item := range items {
		if item.Reference == nil {
			return 0, nil, fmt.Errorf("train: %s: %w", item.Name, ErrNoReference)
		}
		graphs[i] = item.Graph
	}
	batch, err := graph.Batch(graphs...)
	if err != nil {
		return 0, nil, err
	}
	values, tr, err := t.model.Forward(batch.AttributedGraph)
	if err != nil {
		return 0, nil, err
	}
	parts, err := batch.Split(values)
	if err != nil {
		return 0, nil, err
	}

	inv := 1 / float64(len(items))
	dValues := make([]float64, len(values))
	total := 0.0
	for i, item := range items {
		if err = ctx.Err(); err != nil {
			return 0, nil, err
		}
		loss, dv, err := t.itemLoss(item, parts[i])
		if err != nil {
			return 0, nil, fmt.Errorf("train: %s: %w", item.Name, err)
		}
		total += loss
		lo, hi := batch.EdgeRange(i)
		floats.AddScaled(dValues[lo:hi], inv, dv)
	}

	t.grads.Zero()
	if err = t.model.Backward(tr, dValues, t.grads); err != nil {
		return 0, nil, err
	}

	return total * inv, t.grads, nil
}

// Step computes the batch gradients and applies one optimizer step.
// It returns the mean loss before the update.
func (t *Trainer) Step(ctx context.Context, items []*pipeline.Item) (float64, error) {
	loss, grads, err := t.Gradients(ctx, items)
	if err != nil {
		return 0, err
	}
	if err = t.model.ApplyGradients(t.opt, grads); err != nil {
		return 0, err
	}
	metrics.TrainLoss.Set(loss)
	step := t.opt.StepCount()
	t.logger.Debug("train step", "step", step, "loss", loss, "lr", t.opt.LearningRate())

	if t.ckpt != nil && step%t.every == 0 {
		err = t.model.View(func(reg *nn.Registry) error {
			_, err := t.ckpt.Save(step, reg, t.opt)
			return err
		})
		if err != nil {
			return loss, err
		}
	}

	return loss, nil
}

// Epoch steps through ds in consecutive batches of batchSize (the last batch
// may be shorter) and returns the mean of the batch losses.
func (t *Trainer) Epoch(ctx context.Context, ds *pipeline.Dataset, batchSize int) (float64, error) {
	if batchSize <= 0 {
		batchSize = 1
	}
	items := ds.Items()
	sum, batches := 0.0, 0
	for lo := 0; lo < len(items); lo += batchSize {
		hi := min(lo+batchSize, len(items))
		loss, err := t.Step(ctx, items[lo:hi])
		if err != nil {
			return 0, err
		}
		sum += loss
		batches++
	}
	if batches == 0 {
		return 0, nil
	}

	return sum / float64(batches), nil
}
