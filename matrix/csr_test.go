// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/prolongnet/matrix"
)

// CSRSuite groups construction and transform tests for CSR.
type CSRSuite struct {
	suite.Suite
	a *matrix.CSR // 4×4 tridiagonal, 2 on the diagonal and -1 off it
}

func (s *CSRSuite) SetupTest() {
	s.a = tridiag(s.T(), 4, 2, -1)
}

func (s *CSRSuite) TestShapeAndNnz() {
	r, c := s.a.Shape()
	s.Require().Equal(4, r)
	s.Require().Equal(4, c)
	s.Require().Equal(10, s.a.Nnz())
	s.Require().True(s.a.IsSquare())
	s.Require().Equal([]int{0, 2, 5, 8, 10}, s.a.Indptr())
}

func (s *CSRSuite) TestAtAndHas() {
	v, err := s.a.At(1, 2)
	s.Require().NoError(err)
	s.Require().Equal(-1.0, v)

	v, err = s.a.At(0, 3)
	s.Require().NoError(err)
	s.Require().Zero(v)
	s.Require().False(s.a.Has(0, 3))

	_, err = s.a.At(4, 0)
	s.Require().ErrorIs(err, matrix.ErrOutOfRange)
}

func (s *CSRSuite) TestRowSums() {
	s.Require().Equal([]float64{1, 0, 0, 1}, s.a.RowSums())
}

func (s *CSRSuite) TestCOORoundTrip() {
	back, err := s.a.ToCOO().ToCSR()
	s.Require().NoError(err)
	s.Require().True(matrix.Equal(s.a, back))
}

func (s *CSRSuite) TestDenseRoundTrip() {
	d := s.a.ToDense()
	v, err := d.At(2, 2)
	s.Require().NoError(err)
	s.Require().Equal(2.0, v)
	s.Require().True(matrix.Equal(s.a, matrix.FromDense(d)))
}

func (s *CSRSuite) TestWithDiagonal() {
	off, err := matrix.FromTriplets(3, 3, []int{0, 1, 2}, []int{1, 2, 0}, []float64{5, 6, 7})
	s.Require().NoError(err)
	d := off.WithDiagonal(1)
	s.Require().Equal(6, d.Nnz())
	for i := 0; i < 3; i++ {
		v, _ := d.At(i, i)
		s.Require().Equal(1.0, v)
	}
	v, _ := d.At(1, 2)
	s.Require().Equal(6.0, v)
	s.Require().Equal(3, off.Nnz(), "receiver must stay untouched")

	replaced := s.a.WithDiagonal(1)
	s.Require().Equal(s.a.Nnz(), replaced.Nnz())
	s.Require().Equal([]float64{0, -1, -1, 0}, replaced.RowSums())
}

func (s *CSRSuite) TestWithDiagonalRectangular() {
	m, err := matrix.FromTriplets(3, 2, []int{2}, []int{0}, []float64{4})
	s.Require().NoError(err)
	d := m.WithDiagonal(1)
	s.Require().Equal(3, d.Nnz()) // (0,0), (1,1), (2,0)
	s.Require().False(d.Has(2, 2))
}

func (s *CSRSuite) TestSelectColumnsKeepsCallerOrder() {
	sel, err := s.a.SelectColumns([]int{3, 0})
	s.Require().NoError(err)
	s.Require().Equal(4, sel.Rows())
	s.Require().Equal(2, sel.Cols())
	// row 0 holds (0,0)=2 -> new col 1; row 3 holds (3,3)=2 -> new col 0
	v, _ := sel.At(0, 1)
	s.Require().Equal(2.0, v)
	v, _ = sel.At(3, 0)
	s.Require().Equal(2.0, v)
	v, _ = sel.At(2, 0)
	s.Require().Equal(-1.0, v)

	_, err = s.a.SelectColumns([]int{0, 0})
	s.Require().ErrorIs(err, matrix.ErrInvariantViolation)
	_, err = s.a.SelectColumns([]int{9})
	s.Require().ErrorIs(err, matrix.ErrOutOfRange)
}

func (s *CSRSuite) TestMaskByIgnoresExplicitZeros() {
	pattern, err := matrix.FromTriplets(4, 4, []int{0, 1, 2}, []int{0, 2, 1}, []float64{1, 0, 3})
	s.Require().NoError(err)
	masked, err := s.a.MaskBy(pattern)
	s.Require().NoError(err)
	s.Require().Equal(2, masked.Nnz())
	s.Require().True(masked.Has(0, 0))
	s.Require().True(masked.Has(2, 1))
	s.Require().False(masked.Has(1, 2))

	_, err = s.a.MaskBy(tridiag(s.T(), 3, 1, 1))
	s.Require().ErrorIs(err, matrix.ErrShapeMismatch)
}

func (s *CSRSuite) TestEliminateZerosAndScaleRows() {
	m, err := matrix.FromTriplets(2, 2, []int{0, 0, 1}, []int{0, 1, 1}, []float64{0, 3, 4})
	s.Require().NoError(err)
	e := m.EliminateZeros()
	s.Require().Equal(2, e.Nnz())

	sc, err := e.ScaleRows([]float64{2, 0.5})
	s.Require().NoError(err)
	s.Require().Equal([]float64{6, 2}, sc.Data())
	s.Require().Equal([]float64{3, 4}, e.Data())

	_, err = e.ScaleRows([]float64{1})
	s.Require().ErrorIs(err, matrix.ErrShapeMismatch)
}

func (s *CSRSuite) TestAllClose() {
	b, err := s.a.ScaleRows([]float64{1, 1, 1, 1 + 1e-12})
	s.Require().NoError(err)
	ok, err := matrix.AllClose(s.a, b, 1e-9, 0)
	s.Require().NoError(err)
	s.Require().True(ok)

	c := s.a.WithDiagonal(3)
	ok, err = matrix.AllClose(s.a, c, 1e-9, 0)
	s.Require().NoError(err)
	s.Require().False(ok)
}

func TestCSRSuite(t *testing.T) {
	suite.Run(t, new(CSRSuite))
}

func TestCSR_NonzeroPositionsSkipsExplicitZeros(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []float64{1, 0, -2})
	require.NoError(t, err)
	require.Equal(t, []matrix.Position{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 1, Col: 1}}, m.Positions())
	require.Equal(t, []matrix.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, m.NonzeroPositions())
}

func TestNewCSR_Validation(t *testing.T) {
	t.Parallel()
	_, err := matrix.NewCSR(2, 2, []int{0, 2, 2}, []int{1, 0}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrInvariantViolation, "row not increasing")

	_, err = matrix.NewCSR(2, 2, []int{0, 1}, []int{0}, []float64{1})
	require.ErrorIs(t, err, matrix.ErrShapeMismatch, "indptr too short")

	_, err = matrix.NewCSR(2, 2, []int{0, 1, 1}, []int{5}, []float64{1})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = matrix.NewCSR(2, 3, []int{0, 5, 2}, []int{0, 1}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrShapeMismatch, "indptr points past the entries")

	_, err = matrix.NewCSR(3, 3, []int{0, 2, 1, 2}, []int{0, 1}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrInvariantViolation, "indptr decreases")

	m, err := matrix.NewCSR(2, 3, []int{0, 1, 3}, []int{2, 0, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, m.Nnz())
}

func TestCOO_DuplicatesStrictAndCoalesced(t *testing.T) {
	t.Parallel()
	c, err := matrix.NewCOO(2, 2, []int{1, 0, 1}, []int{1, 0, 1}, []float64{2, 1, 3})
	require.NoError(t, err)

	_, err = c.ToCSR()
	require.ErrorIs(t, err, matrix.ErrInvariantViolation)

	m := c.Coalesce()
	require.Equal(t, 2, m.Nnz())
	v, _ := m.At(1, 1)
	require.Equal(t, 5.0, v)
}

func TestCOO_Validation(t *testing.T) {
	t.Parallel()
	_, err := matrix.NewCOO(2, 2, []int{0}, []int{0, 1}, []float64{1})
	require.ErrorIs(t, err, matrix.ErrShapeMismatch)
	_, err = matrix.NewCOO(2, 2, []int{2}, []int{0}, []float64{1})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.NewCOO(-1, 2, nil, nil, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestCSR_RandomSelectThenMaskIsIdempotent(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	a := randomCSR(t, rng, 30, 30, 0.15)
	sel, err := a.SelectColumns([]int{1, 5, 7, 20})
	require.NoError(t, err)
	pattern := randomCSR(t, rng, 30, 4, 0.4)

	once, err := sel.MaskBy(pattern)
	require.NoError(t, err)
	twice, err := once.MaskBy(pattern)
	require.NoError(t, err)
	require.True(t, matrix.Equal(once, twice))
}
