// SPDX-License-Identifier: MIT

// Package config holds the model, run and training configuration and loads
// it from YAML.
//
// Load starts from Default() and overlays the file, so a file only needs the
// keys it changes. Unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and Load for nonsensical values.
var ErrInvalidConfig = errors.New("config: invalid value")

// ModelConfig shapes the network.
type ModelConfig struct {
	LatentSize        int   `yaml:"latent_size"`
	MPRounds          int   `yaml:"mp_rounds"`
	ShareRoundWeights bool  `yaml:"share_round_weights"` // rounds ≥2 reuse one aggregator
	Seed              int64 `yaml:"seed"`                // weight initialisation
}

// RunConfig controls feature construction and assembly.
type RunConfig struct {
	NodeIndicators      bool `yaml:"node_indicators"`
	EdgeIndicators      bool `yaml:"edge_indicators"`
	NormalizeRows       bool `yaml:"normalize_rows"`
	NormalizeRowsByNode bool `yaml:"normalize_rows_by_node"` // target = node volumes
	Validate            bool `yaml:"validate"`               // duplicate checks in the matcher
}

// TrainConfig holds optimizer and checkpoint settings.
type TrainConfig struct {
	LearningRate    float64 `yaml:"learning_rate"`
	DecaySteps      int     `yaml:"decay_steps"`
	DecayRate       float64 `yaml:"decay_rate"`
	Beta1           float64 `yaml:"beta1"`
	Beta2           float64 `yaml:"beta2"`
	Epsilon         float64 `yaml:"epsilon"`
	CheckpointEvery int     `yaml:"checkpoint_every"` // steps; 0 disables periodic saves
	Float16         bool    `yaml:"float16"`          // half-precision checkpoint tensors
}

// Config aggregates every section.
type Config struct {
	Model         ModelConfig `yaml:"model"`
	Run           RunConfig   `yaml:"run"`
	Train         TrainConfig `yaml:"train"`
	CheckpointDir string      `yaml:"checkpoint_dir"`
	LogLevel      string      `yaml:"log_level"` // debug|info|warn|error
}

// Default returns the configuration of the three-round reference model.
func Default() Config {
	return Config{
		Model: ModelConfig{
			LatentSize:        64,
			MPRounds:          3,
			ShareRoundWeights: true,
			Seed:              1,
		},
		Run: RunConfig{
			NodeIndicators: true,
			EdgeIndicators: true,
			NormalizeRows:  true,
		},
		Train: TrainConfig{
			LearningRate: 3e-3,
			DecaySteps:   100,
			DecayRate:    1.0,
			Beta1:        0.9,
			Beta2:        0.999,
			Epsilon:      1e-8,
		},
		CheckpointDir: "checkpoints",
		LogLevel:      "info",
	}
}

// Load reads the YAML file at path over Default() using strict parsing.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects values no run can work with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvalidConfig)...))
		}
	}

	check(c.Model.LatentSize > 0, "model.latent_size=%d", c.Model.LatentSize)
	check(c.Model.MPRounds > 0, "model.mp_rounds=%d", c.Model.MPRounds)
	check(!c.Run.NormalizeRowsByNode || c.Run.NormalizeRows,
		"run.normalize_rows_by_node requires run.normalize_rows")
	check(c.Train.LearningRate > 0, "train.learning_rate=%g", c.Train.LearningRate)
	check(c.Train.DecaySteps > 0, "train.decay_steps=%d", c.Train.DecaySteps)
	check(c.Train.DecayRate > 0, "train.decay_rate=%g", c.Train.DecayRate)
	check(c.Train.Beta1 >= 0 && c.Train.Beta1 < 1, "train.beta1=%g", c.Train.Beta1)
	check(c.Train.Beta2 >= 0 && c.Train.Beta2 < 1, "train.beta2=%g", c.Train.Beta2)
	check(c.Train.Epsilon > 0, "train.epsilon=%g", c.Train.Epsilon)
	check(c.Train.CheckpointEvery >= 0, "train.checkpoint_every=%d", c.Train.CheckpointEvery)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		check(false, "log_level=%q", c.LogLevel)
	}

	return errors.Join(errs...)
}
