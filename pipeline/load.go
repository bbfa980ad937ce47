// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"github.com/katalvlaran/prolongnet/checkpoint"
	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/execctx"
	"github.com/katalvlaran/prolongnet/model"
	"github.com/katalvlaran/prolongnet/nn"
)

// AdamConfig maps the training section onto the optimizer settings.
func AdamConfig(tc config.TrainConfig) nn.AdamConfig {
	return nn.AdamConfig{
		LearningRate: tc.LearningRate,
		Beta1:        tc.Beta1,
		Beta2:        tc.Beta2,
		Epsilon:      tc.Epsilon,
		DecaySteps:   tc.DecaySteps,
		DecayRate:    tc.DecayRate,
	}
}

// LoadModel builds a model from cfg and restores the newest checkpoint in
// dir. With withOptimizer it also restores the Adam state and returns the
// optimizer and its step; otherwise the optimizer is nil and step is the
// checkpoint's step.
//
// Errors: checkpoint.ErrCheckpointNotFound, checkpoint.ErrIncompatible.
func LoadModel(dir string, cfg config.Config, ec *execctx.Context, withOptimizer bool) (*model.Model, *nn.Adam, int, error) {
	if ec == nil {
		ec = execctx.New()
	}
	m, err := model.New(cfg.Model, cfg.Run)
	if err != nil {
		return nil, nil, 0, err
	}
	path, step, err := checkpoint.Latest(dir)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("pipeline: load model: %w", err)
	}
	payload, err := checkpoint.Read(path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("pipeline: load model: %w", err)
	}

	var opt *nn.Adam
	if withOptimizer {
		opt = m.NewOptimizer(AdamConfig(cfg.Train))
	}
	if err = m.Update(func(reg *nn.Registry) error { return checkpoint.Restore(payload, reg, opt) }); err != nil {
		return nil, nil, 0, fmt.Errorf("pipeline: load model: %w", err)
	}
	if opt != nil {
		step = opt.StepCount()
	}
	ec.Logger.Info("model restored", "path", path, "step", step, "run", payload.RunID,
		"optimizer", withOptimizer, "device", ec.Device.String())

	return m, opt, step, nil
}
