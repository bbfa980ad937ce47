// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/metrics"
	"github.com/katalvlaran/prolongnet/nn"
)

// Model is the full encode-process-decode network.
type Model struct {
	mu   sync.RWMutex
	cfg  config.ModelConfig
	reg  *nn.Registry
	enc  *Encoder
	proc *Processor
	dec  *Decoder
}

// Trace is everything Backward needs from one forward pass.
type Trace struct {
	g    *graph.AttributedGraph
	enc  *EncoderTape
	proc *ProcessorTape
	dec  *DecoderTape
}

// New builds a freshly initialised model. Weights are drawn from a source
// seeded with mc.Seed, so equal configs give equal models.
func New(mc config.ModelConfig, rc config.RunConfig) (*Model, error) {
	if mc.LatentSize <= 0 || mc.MPRounds <= 0 {
		return nil, fmt.Errorf("model: latent_size=%d mp_rounds=%d: %w", mc.LatentSize, mc.MPRounds, config.ErrInvalidConfig)
	}
	rng := rand.New(rand.NewSource(mc.Seed))
	reg := nn.NewRegistry()

	enc, err := newEncoder(reg, mc.LatentSize, rc.NodeIndicators, rc.EdgeIndicators, rng)
	if err != nil {
		return nil, err
	}
	proc, err := newProcessor(reg, mc.LatentSize, mc.MPRounds, mc.ShareRoundWeights, rng)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(reg, mc.LatentSize, rng)
	if err != nil {
		return nil, err
	}

	return &Model{cfg: mc, reg: reg, enc: enc, proc: proc, dec: dec}, nil
}

// Config returns the model configuration.
func (m *Model) Config() config.ModelConfig { return m.cfg }

// Encoder, Processor and Decoder expose the stages for inspection.
func (m *Model) Encoder() *Encoder { return m.enc }

// Processor: see Encoder.
func (m *Model) Processor() *Processor { return m.proc }

// Decoder: see Encoder.
func (m *Model) Decoder() *Decoder { return m.dec }

// Predict returns one value per edge of g.
func (m *Model) Predict(g *graph.AttributedGraph) ([]float64, error) {
	pred, _, err := m.Forward(g)

	return pred, err
}

// Forward returns per-edge predictions and the trace for Backward.
func (m *Model) Forward(g *graph.AttributedGraph) ([]float64, *Trace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := time.Now()
	defer func() { metrics.ForwardDuration.Observe(time.Since(start).Seconds()) }()

	tr := &Trace{g: g}
	nodes, edges, tape, err := m.enc.Forward(g)
	if err != nil {
		return nil, nil, fmt.Errorf("model: encode: %w", err)
	}
	tr.enc = tape
	h, pt, err := m.proc.Forward(g, nodes, edges)
	if err != nil {
		return nil, nil, fmt.Errorf("model: process: %w", err)
	}
	tr.proc = pt
	pred, dt, err := m.dec.Forward(g, h)
	if err != nil {
		return nil, nil, fmt.Errorf("model: decode: %w", err)
	}
	tr.dec = dt

	return pred, tr, nil
}

// NewGrads allocates a zero gradient buffer for this model's parameters.
func (m *Model) NewGrads() *nn.Grads { return m.reg.NewGrads() }

// NewOptimizer creates an Adam optimizer over the model parameters.
func (m *Model) NewOptimizer(cfg nn.AdamConfig) *nn.Adam { return nn.NewAdam(m.reg, cfg) }

// Backward accumulates ∂L/∂θ into grads given ∂L/∂pred for the traced pass.
func (m *Model) Backward(tr *Trace, dPred []float64, grads *nn.Grads) error {
	if len(dPred) != tr.g.NumEdges() {
		return fmt.Errorf("model: %d gradients for %d edges: %w", len(dPred), tr.g.NumEdges(), nn.ErrShapeMismatch)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	dh, err := m.dec.Backward(tr.dec, dPred, grads)
	if err != nil {
		return fmt.Errorf("model: decode: %w", err)
	}
	dNodes, dEdges, err := m.proc.Backward(tr.proc, dh, grads)
	if err != nil {
		return fmt.Errorf("model: process: %w", err)
	}
	if err = m.enc.Backward(tr.enc, dNodes, dEdges, grads); err != nil {
		return fmt.Errorf("model: encode: %w", err)
	}

	return nil
}

// ApplyGradients runs one optimizer step under the write lock, so no forward
// pass observes a partially updated model.
func (m *Model) ApplyGradients(opt *nn.Adam, grads *nn.Grads) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := opt.Step(grads); err != nil {
		return err
	}
	metrics.TrainSteps.Inc()

	return nil
}

// View calls fn with the parameter registry under the read lock.
// fn must not modify the parameters.
func (m *Model) View(fn func(reg *nn.Registry) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(m.reg)
}

// Update calls fn with the parameter registry under the write lock.
func (m *Model) Update(fn func(reg *nn.Registry) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(m.reg)
}
