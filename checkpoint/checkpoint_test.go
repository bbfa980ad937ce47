// SPDX-License-Identifier: MIT

package checkpoint_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/checkpoint"
	"github.com/katalvlaran/prolongnet/nn"
)

func registry(t *testing.T, fill float64) *nn.Registry {
	t.Helper()
	reg := nn.NewRegistry()
	w, err := reg.Add("layer.weight", 2, 3)
	require.NoError(t, err)
	b, err := reg.Add("layer.bias", 1, 2)
	require.NoError(t, err)
	for i := range w.Value.Data {
		w.Value.Data[i] = fill + 0.125*float64(i)
	}
	copy(b.Value.Data, []float64{fill, -fill})
	return reg
}

func quietManager(dir string, opts ...checkpoint.Option) *checkpoint.Manager {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return checkpoint.NewManager(dir, append(opts, checkpoint.WithLogger(logger))...)
}

func TestLatest_EmptyOrMissingDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, _, err := checkpoint.Latest(dir)
	require.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)

	_, _, err = checkpoint.Latest(filepath.Join(dir, "absent"))
	require.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)

	// unrelated files do not count
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ckpt-abc.gob"), []byte("x"), 0o600))
	_, err = checkpoint.ReadLatest(dir)
	require.ErrorIs(t, err, checkpoint.ErrCheckpointNotFound)
}

func TestManager_SaveAndRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := registry(t, 1.5)
	opt := nn.NewAdam(src, nn.DefaultAdamConfig())
	grads := src.NewGrads()
	grads.Scale(0) // zero gradients still advance the step counter
	require.NoError(t, opt.Step(grads))

	id := uuid.New()
	m := quietManager(dir, checkpoint.WithRunID(id))
	_, err := m.Save(3, src, opt)
	require.NoError(t, err)
	path, err := m.Save(12, src, opt)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "ckpt-00000012.gob"), path)

	latest, step, err := checkpoint.Latest(dir)
	require.NoError(t, err)
	require.Equal(t, path, latest)
	require.Equal(t, 12, step)

	p, err := checkpoint.Read(latest)
	require.NoError(t, err)
	require.Equal(t, id, p.RunID)
	require.Equal(t, 12, p.Step)
	require.Equal(t, []string{"layer.bias", "layer.weight"}, []string{p.Params[0].Name, p.Params[1].Name})

	dst := registry(t, 0)
	dstOpt := nn.NewAdam(dst, nn.DefaultAdamConfig())
	require.NoError(t, checkpoint.Restore(p, dst, dstOpt))
	require.Equal(t, 1, dstOpt.StepCount())
	src.Each(func(sp *nn.Param) bool {
		dp, err := dst.Get(sp.Name)
		require.NoError(t, err)
		require.Equal(t, sp.Value.Data, dp.Value.Data)
		return true
	})
}

func TestManager_Float16(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := registry(t, 0.3)
	_, err := quietManager(dir, checkpoint.WithFloat16(true)).Save(1, src, nil)
	require.NoError(t, err)

	p, err := checkpoint.ReadLatest(dir)
	require.NoError(t, err)
	require.Nil(t, p.Optimizer)
	require.Nil(t, p.Params[0].Data)
	require.NotNil(t, p.Params[0].Half)

	dst := registry(t, 0)
	require.NoError(t, checkpoint.Restore(p, dst, nil))
	src.Each(func(sp *nn.Param) bool {
		dp, err := dst.Get(sp.Name)
		require.NoError(t, err)
		require.InDeltaSlice(t, sp.Value.Data, dp.Value.Data, 1e-3)
		return true
	})
}

func TestRestore_Incompatible(t *testing.T) {
	t.Parallel()
	p := checkpoint.Capture(registry(t, 1), nil, uuid.New(), 0, false)

	other := nn.NewRegistry()
	_, err := other.Add("layer.weight", 3, 2)
	require.NoError(t, err)
	_, err = other.Add("layer.bias", 1, 2)
	require.NoError(t, err)
	require.ErrorIs(t, checkpoint.Restore(p, other, nil), checkpoint.ErrIncompatible)

	renamed := nn.NewRegistry()
	_, err = renamed.Add("layer.weights", 2, 3)
	require.NoError(t, err)
	_, err = renamed.Add("layer.bias", 1, 2)
	require.NoError(t, err)
	require.ErrorIs(t, checkpoint.Restore(p, renamed, nil), checkpoint.ErrIncompatible)

	// weights-only payload cannot resume an optimizer
	reg := registry(t, 0)
	require.ErrorIs(t, checkpoint.Restore(p, reg, nn.NewAdam(reg, nn.DefaultAdamConfig())), checkpoint.ErrIncompatible)

	p.Version = 99
	require.ErrorIs(t, checkpoint.Restore(p, registry(t, 0), nil), checkpoint.ErrIncompatible)
}

func TestManager_Keep(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	m := quietManager(dir, checkpoint.WithKeep(2))
	reg := registry(t, 1)
	for step := 1; step <= 4; step++ {
		_, err := m.Save(step, reg, nil)
		require.NoError(t, err)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{checkpoint.FileName(3), checkpoint.FileName(4)}, names)
}
