// SPDX-License-Identifier: MIT

package execctx_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/execctx"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	ec := execctx.New()
	require.NotNil(t, ec.Logger)
	require.False(t, ec.Validate)
	require.Equal(t, execctx.DetectDevice(), ec.Device)
}

func TestFromConfig_LevelAndValidation(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.LogLevel = "warn"
	cfg.Run.Validate = true

	var buf bytes.Buffer
	dev := execctx.Device{Brand: "test", LogicalCores: 2}
	ec := execctx.FromConfig(cfg, &buf, execctx.WithDevice(dev))
	require.True(t, ec.Validate)
	require.Equal(t, dev, ec.Device)

	ec.Logger.Info("hidden")
	ec.Logger.Warn("shown", "rows", 3)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "rows=3")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	require.Equal(t, slog.LevelDebug, execctx.ParseLevel("debug"))
	require.Equal(t, slog.LevelInfo, execctx.ParseLevel("nope"))
	require.Contains(t, execctx.Device{Brand: "x", LogicalCores: 4, AVX2: true}.String(), "avx2=true")
}
