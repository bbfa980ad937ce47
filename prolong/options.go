// SPDX-License-Identifier: MIT

package prolong

import (
	"log/slog"

	"github.com/katalvlaran/prolongnet/config"
)

// Option configures the assemblers.
type Option func(*options)

type options struct {
	normalize bool
	byNode    bool      // row targets are node volumes
	volumes   []float64 // len N when byNode
	logger    *slog.Logger
}

// DefaultNormalize is the normalisation default.
const DefaultNormalize = true

// WithNormalize toggles row normalisation (default true).
func WithNormalize(on bool) Option {
	return func(o *options) { o.normalize = on }
}

// WithNodeVolumes normalises row i to volumes[i] instead of P₀'s row sum.
// len(volumes) must equal N; a nil slice is a length mismatch, not a
// fallback to P₀.
func WithNodeVolumes(volumes []float64) Option {
	return func(o *options) {
		o.byNode = true
		o.volumes = volumes
	}
}

// WithLogger sets the logger used for degeneracy warnings.
// Default: slog.Default(). A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// FromRunConfig translates the run settings. volumes is used only when
// rc.NormalizeRowsByNode is set, and must then be present.
func FromRunConfig(rc config.RunConfig, volumes []float64) []Option {
	opts := []Option{WithNormalize(rc.NormalizeRows)}
	if rc.NormalizeRowsByNode {
		opts = append(opts, WithNodeVolumes(volumes))
	}

	return opts
}

func gatherOptions(opts []Option) options {
	o := options{normalize: DefaultNormalize, logger: slog.Default()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
