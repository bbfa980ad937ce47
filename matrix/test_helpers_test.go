// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures (tridiagonal systems, random patterns).
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/matrix"
)

// tridiag builds the n×n matrix with diag on the diagonal and off on the
// first sub/super diagonals.
func tridiag(t testing.TB, n int, diag, off float64) *matrix.CSR {
	t.Helper()
	var rows, cols []int
	var vals []float64
	for i := 0; i < n; i++ {
		if i > 0 {
			rows, cols, vals = append(rows, i), append(cols, i-1), append(vals, off)
		}
		rows, cols, vals = append(rows, i), append(cols, i), append(vals, diag)
		if i+1 < n {
			rows, cols, vals = append(rows, i), append(cols, i+1), append(vals, off)
		}
	}
	m, err := matrix.FromTriplets(n, n, rows, cols, vals)
	require.NoError(t, err)
	return m
}

// randomCSR draws a rows×cols matrix where each position is stored with
// probability density, values uniform in [-1, 1).
func randomCSR(t testing.TB, rng *rand.Rand, rows, cols int, density float64) *matrix.CSR {
	t.Helper()
	var r, c []int
	var v []float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float64() < density {
				r, c, v = append(r, i), append(c, j), append(v, 2*rng.Float64()-1)
			}
		}
	}
	m, err := matrix.FromTriplets(rows, cols, r, c, v)
	require.NoError(t, err)
	return m
}

func mustPartition(t testing.TB, n int, coarse []int) matrix.Partition {
	t.Helper()
	p, err := matrix.NewPartition(n, coarse)
	require.NoError(t, err)
	return p
}
