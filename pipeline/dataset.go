// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/execctx"
	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/matrix"
	"github.com/katalvlaran/prolongnet/metrics"
)

// ErrNoCollaborator is returned when an example lacks C or P₀ and no
// collaborator was configured to compute it.
var ErrNoCollaborator = errors.New("pipeline: missing coarsener or baseline provider")

// Example is one system to process. Coarse and Baseline are optional.
// Volumes is required when the run normalises rows by node volume and
// ignored otherwise. Reference is the target prolongation used in training.
type Example struct {
	Name      string
	A         *matrix.CSR
	Coarse    matrix.Partition
	Baseline  *matrix.CSR
	Volumes   []float64
	Reference *matrix.CSR
}

// Item is an example with everything resolved and its graph built.
type Item struct {
	Example
	Graph *graph.AttributedGraph
}

// Resolver completes examples and builds their graphs.
type Resolver struct {
	Coarsener Coarsener
	Baseline  BaselineProvider
	Run       config.RunConfig
	Exec      *execctx.Context
}

// Resolve fills in C and P₀ (calling the collaborators when absent) and
// builds the attributed graph.
func (r *Resolver) Resolve(ctx context.Context, ex Example) (*Item, error) {
	if err := matrix.ValidateSquare(ex.A); err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", ex.Name, err)
	}
	var err error
	if ex.Coarse.IsZero() {
		if r.Coarsener == nil {
			return nil, fmt.Errorf("pipeline: %s: coarse set: %w", ex.Name, ErrNoCollaborator)
		}
		if ex.Coarse, err = r.Coarsener.Coarsen(ctx, ex.A); err != nil {
			return nil, fmt.Errorf("pipeline: %s: coarsen: %w", ex.Name, err)
		}
	}
	if ex.Baseline == nil {
		if r.Baseline == nil {
			return nil, fmt.Errorf("pipeline: %s: baseline: %w", ex.Name, ErrNoCollaborator)
		}
		if ex.Baseline, err = r.Baseline.ComputeBaseline(ctx, ex.A, ex.Coarse); err != nil {
			return nil, fmt.Errorf("pipeline: %s: baseline: %w", ex.Name, err)
		}
	}

	validate := r.Run.Validate || (r.Exec != nil && r.Exec.Validate)
	g, err := graph.BuildFromBaseline(ex.A, ex.Coarse, ex.Baseline, graph.WithValidation(validate))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", ex.Name, err)
	}
	metrics.GraphsBuilt.Inc()

	return &Item{Example: ex, Graph: g}, nil
}

// Dataset resolves a fixed list of examples once and serves the cached items
// across epochs.
type Dataset struct {
	items []*Item
}

// NewDataset resolves every example. Examples failing with a structural
// error are skipped and counted; any other error aborts.
func NewDataset(ctx context.Context, r *Resolver, examples []Example) (*Dataset, error) {
	d := &Dataset{items: make([]*Item, 0, len(examples))}
	for i, ex := range examples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := r.Resolve(ctx, ex)
		if err != nil {
			if reason, ok := skipReason(err); ok {
				r.logger().Warn("dataset example skipped", "index", i, "name", ex.Name, "reason", reason, "error", err)
				metrics.ExamplesSkipped.WithLabelValues(reason).Inc()
				continue
			}
			return nil, err
		}
		d.items = append(d.items, item)
	}

	return d, nil
}

// Len returns the number of usable items.
func (d *Dataset) Len() int { return len(d.items) }

// Item returns item i.
func (d *Dataset) Item(i int) *Item { return d.items[i] }

// Items returns the cached items (shared, read-only).
func (d *Dataset) Items() []*Item { return d.items }
