// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors of the prediction and
// training pipeline. Collectors are registered on the default registry at
// package init (promauto); exposing them over HTTP is the embedding
// program's job.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphsBuilt counts attributed graphs constructed from system matrices.
	GraphsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prolongnet_graphs_built_total",
			Help: "Total number of attributed graphs built",
		},
	)

	// DegenerateRows counts prolongation rows that normalised to zero because
	// their sum was zero. Label: variant (sparse|dense).
	DegenerateRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prolongnet_degenerate_rows_total",
			Help: "Prolongation rows zeroed by a zero row sum during normalisation",
		},
		[]string{"variant"},
	)

	// ExamplesSkipped counts batch examples dropped on a structural error.
	// Label: reason (the sentinel that caused the skip).
	ExamplesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prolongnet_examples_skipped_total",
			Help: "Batch examples skipped because of a structural error",
		},
		[]string{"reason"},
	)

	// ForwardDuration measures one model forward pass.
	ForwardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "prolongnet_forward_duration_seconds",
			Help: "Duration of model forward passes in seconds",
			// small graphs run in microseconds, large batches in seconds
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// TrainSteps counts applied optimizer steps.
	TrainSteps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prolongnet_train_steps_total",
			Help: "Total number of optimizer steps applied",
		},
	)

	// TrainLoss is the mean loss of the last training step.
	TrainLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prolongnet_train_loss",
			Help: "Mean loss of the most recent training step",
		},
	)
)

// Variant labels for DegenerateRows.
const (
	VariantSparse = "sparse"
	VariantDense  = "dense"
)
