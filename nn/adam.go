// SPDX-License-Identifier: MIT

package nn

import (
	"fmt"
	"math"
)

// AdamConfig holds the optimizer hyperparameters. The effective learning rate
// at step t is LearningRate · DecayRate^(t/DecaySteps).
type AdamConfig struct {
	LearningRate float64
	Beta1, Beta2 float64
	Epsilon      float64
	DecaySteps   int
	DecayRate    float64
}

// DefaultAdamConfig mirrors the usual Adam defaults with no decay.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 1e-3,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		DecaySteps:   100,
		DecayRate:    1.0,
	}
}

// Adam keeps first/second moment estimates for every parameter of a Registry.
// It is not safe for concurrent use.
type Adam struct {
	cfg  AdamConfig
	reg  *Registry
	step int
	m, v []*Tensor
}

// AdamState is the serialisable optimizer state, keyed by parameter name.
type AdamState struct {
	Step int
	M, V map[string][]float64
}

// NewAdam creates an optimizer for reg at step 0.
func NewAdam(reg *Registry, cfg AdamConfig) *Adam {
	a := &Adam{cfg: cfg, reg: reg, m: make([]*Tensor, len(reg.params)), v: make([]*Tensor, len(reg.params))}
	for i, p := range reg.params {
		a.m[i] = NewTensor(p.Value.Rows, p.Value.Cols)
		a.v[i] = NewTensor(p.Value.Rows, p.Value.Cols)
	}

	return a
}

// StepCount returns the number of applied steps.
func (a *Adam) StepCount() int { return a.step }

// LearningRate returns the decayed rate used by the next Step.
func (a *Adam) LearningRate() float64 {
	lr := a.cfg.LearningRate
	if a.cfg.DecaySteps > 0 && a.cfg.DecayRate != 1 {
		lr *= math.Pow(a.cfg.DecayRate, float64(a.step)/float64(a.cfg.DecaySteps))
	}

	return lr
}

// Step applies one update to every parameter of the registry.
func (a *Adam) Step(grads *Grads) error {
	if grads.reg != a.reg {
		return nnErrorf("Adam.Step", fmt.Errorf("gradients of another registry: %w", ErrShapeMismatch))
	}
	lr := a.LearningRate()
	a.step++
	t := float64(a.step)
	c1 := 1 - math.Pow(a.cfg.Beta1, t)
	c2 := 1 - math.Pow(a.cfg.Beta2, t)
	for i, p := range a.reg.params {
		g, m, v, w := grads.t[i].Data, a.m[i].Data, a.v[i].Data, p.Value.Data
		for j := range w {
			m[j] = a.cfg.Beta1*m[j] + (1-a.cfg.Beta1)*g[j]
			v[j] = a.cfg.Beta2*v[j] + (1-a.cfg.Beta2)*g[j]*g[j]
			w[j] -= lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + a.cfg.Epsilon)
		}
	}

	return nil
}

// State snapshots the optimizer.
func (a *Adam) State() AdamState {
	s := AdamState{Step: a.step, M: make(map[string][]float64, len(a.m)), V: make(map[string][]float64, len(a.v))}
	for i, p := range a.reg.params {
		s.M[p.Name] = append([]float64(nil), a.m[i].Data...)
		s.V[p.Name] = append([]float64(nil), a.v[i].Data...)
	}

	return s
}

// Restore loads a snapshot taken from an optimizer over the same parameters.
//
// Errors: ErrUnknownParam for a missing name, ErrShapeMismatch for a size
// disagreement.
func (a *Adam) Restore(s AdamState) error {
	for i, p := range a.reg.params {
		m, okM := s.M[p.Name]
		v, okV := s.V[p.Name]
		if !okM || !okV {
			return nnErrorf("Adam.Restore", fmt.Errorf("%q: %w", p.Name, ErrUnknownParam))
		}
		if len(m) != len(a.m[i].Data) || len(v) != len(a.v[i].Data) {
			return shapeErr("Adam.Restore", "%q: %d/%d moments for %d values", p.Name, len(m), len(v), len(a.m[i].Data))
		}
	}
	for i, p := range a.reg.params {
		copy(a.m[i].Data, s.M[p.Name])
		copy(a.v[i].Data, s.V[p.Name])
	}
	a.step = s.Step

	return nil
}
