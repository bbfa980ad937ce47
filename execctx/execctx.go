// SPDX-License-Identifier: MIT

// Package execctx carries the process-wide execution context: the logger,
// the validation mode and a description of the compute device. It is created
// once and passed by reference to every component that logs or validates.
package execctx

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/cpuid/v2"

	"github.com/katalvlaran/prolongnet/config"
)

// Device describes the CPU the numeric kernels run on.
type Device struct {
	Brand        string
	LogicalCores int
	AVX2         bool
	FMA          bool
}

// String renders the device for log lines.
func (d Device) String() string {
	return fmt.Sprintf("%s (%d logical cores, avx2=%t, fma=%t)", d.Brand, d.LogicalCores, d.AVX2, d.FMA)
}

// DetectDevice inspects the host CPU.
func DetectDevice() Device {
	return Device{
		Brand:        cpuid.CPU.BrandName,
		LogicalCores: cpuid.CPU.LogicalCores,
		AVX2:         cpuid.CPU.Has(cpuid.AVX2),
		FMA:          cpuid.CPU.Has(cpuid.FMA3),
	}
}

// Context is shared, read-only after New.
type Context struct {
	Logger   *slog.Logger
	Validate bool
	Device   Device
}

// Option configures New.
type Option func(*Context)

// WithLogger replaces the default logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithValidation turns debug/validation checks on.
func WithValidation(on bool) Option {
	return func(c *Context) { c.Validate = on }
}

// WithDevice overrides the detected device (tests, remote workers).
func WithDevice(d Device) Option {
	return func(c *Context) { c.Device = d }
}

// New builds a context around slog.Default() and the detected device.
func New(opts ...Option) *Context {
	c := &Context{Logger: slog.Default(), Device: DetectDevice()}
	for _, fn := range opts {
		if fn != nil {
			fn(c)
		}
	}

	return c
}

// FromConfig builds a context whose text logger writes to w (stderr when
// nil) at cfg.LogLevel, with validation taken from cfg.Run.Validate.
func FromConfig(cfg config.Config, w io.Writer, opts ...Option) *Context {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}))
	base := []Option{WithLogger(logger), WithValidation(cfg.Run.Validate)}

	return New(append(base, opts...)...)
}

// ParseLevel maps a config level name to slog; unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a context that drops all log output.
func Discard() *Context {
	return New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}
