// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/matrix"
)

func TestNewPartition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		n      int
		coarse []int
		ok     bool
	}{
		{"valid", 4, []int{0, 3}, true},
		{"caller order kept", 4, []int{3, 0}, true},
		{"empty", 4, nil, false},
		{"covers all", 3, []int{0, 1, 2}, false},
		{"out of range", 3, []int{3}, false},
		{"negative", 3, []int{-1}, false},
		{"duplicate", 4, []int{1, 1}, false},
		{"no nodes", 0, []int{0}, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := matrix.NewPartition(tc.n, tc.coarse)
			if !tc.ok {
				require.ErrorIs(t, err, matrix.ErrInvalidPartition)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.coarse, p.Coarse())
			require.Equal(t, tc.n-len(tc.coarse), p.NumFine())
		})
	}
}

func TestPartition_Lookups(t *testing.T) {
	t.Parallel()
	coarse := []int{3, 0}
	p, err := matrix.NewPartition(5, coarse)
	require.NoError(t, err)
	coarse[0] = 4 // caller mutation must not leak

	require.True(t, p.IsCoarse(3))
	require.False(t, p.IsCoarse(4))
	require.False(t, p.IsCoarse(9))
	require.Equal(t, []int{1, 2, 4}, p.Fine())

	col, ok := p.ColumnOf(0)
	require.True(t, ok)
	require.Equal(t, 1, col)
	_, ok = p.ColumnOf(2)
	require.False(t, ok)
}

func TestPosition_Less(t *testing.T) {
	t.Parallel()
	a := matrix.Position{Row: 1, Col: 5}
	b := matrix.Position{Row: 2, Col: 0}
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
	require.Equal(t, "(1,5)", a.String())
}
