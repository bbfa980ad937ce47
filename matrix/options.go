// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults and functional options for the
// sparsity matcher.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
package matrix

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation in Dense.Set/Apply.
	DefaultValidateNaNInf = true

	// DefaultMatchValidation controls whether Match checks its inputs for
	// duplicate positions. Off by default: the check costs an extra pass and
	// callers normally pass CSR-derived (duplicate-free) patterns.
	DefaultMatchValidation = false
)

// MatchOption configures Match / MatchSorted.
type MatchOption func(*matchOptions)

type matchOptions struct {
	validate bool // detect duplicates in query and reference
}

// WithValidation enables (or disables) duplicate detection in the matcher
// (debug/validation mode). Duplicates then fail with ErrInvariantViolation.
func WithValidation(on bool) MatchOption {
	return func(o *matchOptions) { o.validate = on }
}

func gatherMatchOptions(opts []MatchOption) matchOptions {
	o := matchOptions{validate: DefaultMatchValidation}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
