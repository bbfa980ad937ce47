// SPDX-License-Identifier: MIT

package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch signals tensor operands whose dimensions disagree.
	ErrShapeMismatch = errors.New("nn: shape mismatch")

	// ErrDuplicateParam is returned when a parameter name is registered twice.
	ErrDuplicateParam = errors.New("nn: duplicate parameter name")

	// ErrUnknownParam is returned for lookups of unregistered names.
	ErrUnknownParam = errors.New("nn: unknown parameter")
)

func nnErrorf(tag string, err error) error {
	return fmt.Errorf("nn.%s: %w", tag, err)
}

func shapeErr(tag string, format string, args ...any) error {
	return nnErrorf(tag, fmt.Errorf(format+": %w", append(args, ErrShapeMismatch)...))
}
