// SPDX-License-Identifier: MIT

package matrix_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/matrix"
)

func pos(rc ...int) []matrix.Position {
	out := make([]matrix.Position, 0, len(rc)/2)
	for i := 0; i+1 < len(rc); i += 2 {
		out = append(out, matrix.Position{Row: rc[i], Col: rc[i+1]})
	}
	return out
}

func TestMatch_IdenticalSetsAllTrue(t *testing.T) {
	t.Parallel()
	q := pos(0, 0, 0, 1, 1, 0, 2, 2, 3, 1)
	got, err := matrix.Match(q, q, matrix.WithValidation(true))
	require.NoError(t, err)
	require.Len(t, got, len(q))
	for i, v := range got {
		require.True(t, v, "position %d", i)
	}

	sorted, err := matrix.MatchSorted(q, q)
	require.NoError(t, err)
	require.Equal(t, got, sorted)
}

func TestMatch_DisjointSetsAllFalse(t *testing.T) {
	t.Parallel()
	q := pos(0, 0, 1, 1, 2, 2)
	r := pos(0, 1, 1, 0, 2, 1, 5, 5)
	got, err := matrix.Match(q, r)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, false}, got)

	sorted, err := matrix.MatchSorted(q, r)
	require.NoError(t, err)
	require.Equal(t, got, sorted)
}

func TestMatch_OrderFollowsQuery(t *testing.T) {
	t.Parallel()
	q := pos(3, 3, 0, 1, 2, 0, 1, 1) // deliberately unsorted
	r := pos(1, 1, 3, 3)
	got, err := matrix.Match(q, r)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false, true}, got)
}

func TestMatch_EmptyInputs(t *testing.T) {
	t.Parallel()
	got, err := matrix.Match(nil, pos(0, 0))
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = matrix.Match(pos(0, 0), nil)
	require.NoError(t, err)
	require.Equal(t, []bool{false}, got)
}

func TestMatch_DuplicatesInValidationMode(t *testing.T) {
	t.Parallel()
	dupQ := pos(0, 0, 0, 0)
	_, err := matrix.Match(dupQ, pos(1, 1), matrix.WithValidation(true))
	require.True(t, errors.Is(err, matrix.ErrInvariantViolation), "got %v", err)

	dupR := pos(1, 1, 1, 1)
	_, err = matrix.Match(pos(0, 0), dupR, matrix.WithValidation(true))
	require.True(t, errors.Is(err, matrix.ErrInvariantViolation), "got %v", err)

	// without validation the caller's promise is trusted
	_, err = matrix.Match(dupQ, dupR)
	require.NoError(t, err)
}

func TestMatchSorted_RejectsUnsorted(t *testing.T) {
	t.Parallel()
	_, err := matrix.MatchSorted(pos(1, 0, 0, 0), pos(0, 0))
	require.ErrorIs(t, err, matrix.ErrInvariantViolation)

	_, err = matrix.MatchSorted(pos(0, 0), pos(0, 1, 0, 1))
	require.ErrorIs(t, err, matrix.ErrInvariantViolation)
}

func TestMatch_HashAndMergeAgreeOnRandomPatterns(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	const n = 40
	a := randomCSR(t, rng, n, n, 0.2)
	b := randomCSR(t, rng, n, n, 0.2)

	hash, err := matrix.Match(a.Positions(), b.Positions(), matrix.WithValidation(true))
	require.NoError(t, err)
	merge, err := matrix.MatchSorted(a.Positions(), b.Positions())
	require.NoError(t, err)
	require.Equal(t, hash, merge)

	for k, p := range a.Positions() {
		require.Equal(t, b.Has(p.Row, p.Col), hash[k], "position %s", p)
	}
}

func TestSquarePattern_MapsColumnsThroughPartition(t *testing.T) {
	t.Parallel()
	part, err := matrix.NewPartition(4, []int{3, 0}) // column 0 -> node 3, column 1 -> node 0
	require.NoError(t, err)
	p0, err := matrix.FromTriplets(4, 2,
		[]int{0, 1, 1, 2, 3},
		[]int{1, 0, 1, 0, 0},
		[]float64{1, 0.5, 0.5, 1, 1})
	require.NoError(t, err)

	got, err := matrix.SquarePattern(p0, part)
	require.NoError(t, err)
	require.Equal(t, pos(0, 0, 1, 0, 1, 3, 2, 3, 3, 3), got)

	_, err = matrix.SquarePattern(p0, mustPartition(t, 5, []int{0, 1}))
	require.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestSquarePattern_SkipsExplicitZeros(t *testing.T) {
	t.Parallel()
	part := mustPartition(t, 3, []int{0})
	p0, err := matrix.FromTriplets(3, 1, []int{0, 1, 2}, []int{0, 0, 0}, []float64{1, 0, 2})
	require.NoError(t, err)
	got, err := matrix.SquarePattern(p0, part)
	require.NoError(t, err)
	require.Equal(t, pos(0, 0, 2, 0), got)
}
