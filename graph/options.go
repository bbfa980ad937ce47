// SPDX-License-Identifier: MIT

package graph

// Option configures Build.
type Option func(*options)

type options struct {
	validate bool // duplicate detection in the pattern matcher
}

// WithValidation turns on the matcher's duplicate checks (debug/validation
// mode); duplicates in the baseline pattern then fail the build with
// matrix.ErrInvariantViolation.
func WithValidation(on bool) Option {
	return func(o *options) { o.validate = on }
}

func gatherOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
