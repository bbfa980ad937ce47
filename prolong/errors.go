// SPDX-License-Identifier: MIT

package prolong

import (
	"errors"
	"fmt"
)

// ErrNumericDegeneracy marks rows whose sum was zero during normalisation.
// It is a warning: assemblers return it only through Report.Err.
var ErrNumericDegeneracy = errors.New("prolong: zero row sum during normalisation")

func prolongErrorf(tag string, err error) error {
	return fmt.Errorf("prolong.%s: %w", tag, err)
}
