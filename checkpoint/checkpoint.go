// SPDX-License-Identifier: MIT

// Package checkpoint persists model parameters and optimizer state.
//
// A checkpoint directory holds files named ckpt-<step>.gob (step zero-padded
// to eight digits). Each file is one gob-encoded Payload. Files are written
// to a temporary name and renamed, so a crashed save never leaves a partial
// checkpoint behind. Latest picks the highest step.
package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCheckpointNotFound is returned when the directory is missing or holds
	// no checkpoint file.
	ErrCheckpointNotFound = errors.New("checkpoint: no checkpoint found")

	// ErrIncompatible is returned when a payload does not fit the model it is
	// restored into (names, shapes or missing optimizer state).
	ErrIncompatible = errors.New("checkpoint: incompatible with model")
)

// FormatVersion is bumped on breaking payload changes.
const FormatVersion = 1

// Tensor is one named parameter. Exactly one of Data and Half is set.
type Tensor struct {
	Name       string
	Rows, Cols int
	Data       []float64
	Half       []uint16 // IEEE 754 binary16 bits
}

// OptimizerState is the serialised Adam state.
type OptimizerState struct {
	Step int
	M, V []Tensor
}

// Payload is the gob-encoded content of one checkpoint file.
type Payload struct {
	Version   int
	RunID     uuid.UUID
	Step      int
	Created   time.Time
	Params    []Tensor // registry name order
	Optimizer *OptimizerState
}

func checkpointErrorf(tag string, err error) error {
	return fmt.Errorf("checkpoint.%s: %w", tag, err)
}
