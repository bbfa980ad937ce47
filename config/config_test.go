// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 3, cfg.Model.MPRounds)
	require.True(t, cfg.Model.ShareRoundWeights)
	require.True(t, cfg.Run.NormalizeRows)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
model:
  latent_size: 16
  share_round_weights: false
run:
  edge_indicators: false
train:
  decay_rate: 0.9
log_level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Model.LatentSize)
	require.False(t, cfg.Model.ShareRoundWeights)
	require.Equal(t, 3, cfg.Model.MPRounds) // untouched default
	require.False(t, cfg.Run.EdgeIndicators)
	require.True(t, cfg.Run.NodeIndicators)
	require.Equal(t, 0.9, cfg.Train.DecayRate)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "model:\n  latent_sise: 16\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"latent size", func(c *config.Config) { c.Model.LatentSize = 0 }},
		{"rounds", func(c *config.Config) { c.Model.MPRounds = -1 }},
		{"by node without normalize", func(c *config.Config) {
			c.Run.NormalizeRows = false
			c.Run.NormalizeRowsByNode = true
		}},
		{"learning rate", func(c *config.Config) { c.Train.LearningRate = 0 }},
		{"beta1", func(c *config.Config) { c.Train.Beta1 = 1 }},
		{"log level", func(c *config.Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}
