// SPDX-License-Identifier: MIT

package prolong

import (
	"fmt"

	"github.com/katalvlaran/prolongnet/graph"
	"github.com/katalvlaran/prolongnet/matrix"
	"github.com/katalvlaran/prolongnet/metrics"
)

// DenseResult is the output of AssembleDense plus what Backward needs.
type DenseResult struct {
	P      *matrix.Dense // N×|C|
	Report Report

	n, nc     int
	cols      []int     // coarse node of each column
	mask      []bool    // N×|C|, baseline nonzero
	masked    []float64 // N×|C|, values before normalisation
	sums      []float64
	targets   []float64
	normalize bool
}

// AssembleDense is the dense, differentiable counterpart of AssembleSparse.
// Errors are those of AssembleSparse.
//
// Complexity: O(N·|C| + nnz(p0)) time and space.
func AssembleDense(pred *matrix.Dense, coarse matrix.Partition, p0 *matrix.CSR, opts ...Option) (*DenseResult, error) {
	o := gatherOptions(opts)
	if pred == nil {
		return nil, prolongErrorf("AssembleDense", matrix.ErrNilMatrix)
	}
	if pred.Rows() != pred.Cols() {
		return nil, prolongErrorf("AssembleDense", fmt.Errorf("prediction %dx%d: %w", pred.Rows(), pred.Cols(), matrix.ErrShapeMismatch))
	}
	n := pred.Rows()
	targets, err := checkInputs("AssembleDense", n, coarse, p0, o)
	if err != nil {
		return nil, err
	}

	nc := coarse.NumCoarse()
	r := &DenseResult{
		Report:    Report{Variant: metrics.VariantDense, Rows: n},
		n:         n,
		nc:        nc,
		cols:      coarse.Coarse(),
		mask:      make([]bool, n*nc),
		masked:    make([]float64, n*nc),
		targets:   targets,
		normalize: o.normalize,
	}
	p0.Do(func(i, j int, v float64) {
		if v != 0 {
			r.mask[i*nc+j] = true
		}
	})

	raw := pred.RawData()
	for i := 0; i < n; i++ {
		for j, c := range r.cols {
			if !r.mask[i*nc+j] {
				continue
			}
			if i == c {
				r.masked[i*nc+j] = 1
			} else {
				r.masked[i*nc+j] = raw[i*n+c]
			}
		}
	}

	out := append([]float64(nil), r.masked...)
	if o.normalize {
		r.Report.Normalized = true
		r.sums = make([]float64, n)
		for i := range r.sums {
			for _, v := range r.masked[i*nc : (i+1)*nc] {
				r.sums[i] += v
			}
		}
		scale, bad := rowScales(r.sums, targets, r.rowNnz)
		r.Report.DegenerateRows = bad
		for i, s := range scale {
			row := out[i*nc : (i+1)*nc]
			for j := range row {
				row[j] *= s
			}
		}
		r.Report.publish(o.logger)
	}

	if r.P, err = matrix.NewDenseFrom(n, nc, out); err != nil {
		return nil, prolongErrorf("AssembleDense", err)
	}

	return r, nil
}

func (r *DenseResult) rowNnz(i int) int {
	k := 0
	for _, v := range r.masked[i*r.nc : (i+1)*r.nc] {
		if v != 0 {
			k++
		}
	}

	return k
}

// Backward maps ∂L/∂P (N×|C|) to ∂L/∂pred (N×N). Diagonal and masked-out
// entries of pred do not influence P and get zero gradient; so do rows that
// normalisation zeroed.
//
// With s = Σ_k M(i,k) and t the row target:
//
//	∂L/∂M(i,j) = t/s · (∂L/∂P(i,j) − Σ_k ∂L/∂P(i,k)·M(i,k)/s)
func (r *DenseResult) Backward(dP *matrix.Dense) (*matrix.Dense, error) {
	if dP == nil {
		return nil, prolongErrorf("DenseResult.Backward", matrix.ErrNilMatrix)
	}
	if dP.Rows() != r.n || dP.Cols() != r.nc {
		return nil, prolongErrorf("DenseResult.Backward",
			fmt.Errorf("gradient %dx%d, want %dx%d: %w", dP.Rows(), dP.Cols(), r.n, r.nc, matrix.ErrShapeMismatch))
	}

	g := dP.RawData()
	dM := make([]float64, r.n*r.nc)
	for i := 0; i < r.n; i++ {
		lo, hi := i*r.nc, (i+1)*r.nc
		if !r.normalize {
			copy(dM[lo:hi], g[lo:hi])
			continue
		}
		s := r.sums[i]
		if s == 0 {
			continue
		}
		dot := 0.0
		for k := lo; k < hi; k++ {
			dot += g[k] * r.masked[k] / s
		}
		f := r.targets[i] / s
		for k := lo; k < hi; k++ {
			dM[k] = f * (g[k] - dot)
		}
	}

	dPred := make([]float64, r.n*r.n)
	for i := 0; i < r.n; i++ {
		for j, c := range r.cols {
			if r.mask[i*r.nc+j] && i != c {
				dPred[i*r.n+c] = dM[i*r.nc+j]
			}
		}
	}

	out, err := matrix.NewDenseFrom(r.n, r.n, dPred)
	if err != nil {
		return nil, prolongErrorf("DenseResult.Backward", err)
	}

	return out, nil
}

// DenseFromEdges scatters per-edge values of g into an N×N dense prediction.
func DenseFromEdges(g *graph.AttributedGraph, values []float64) (*matrix.Dense, error) {
	m, err := g.ToMatrix(values)
	if err != nil {
		return nil, prolongErrorf("DenseFromEdges", err)
	}

	return m.ToDense(), nil
}

// EdgeGradients gathers ∂L/∂pred at every edge position of g, in edge order.
func EdgeGradients(g *graph.AttributedGraph, dPred *matrix.Dense) ([]float64, error) {
	n := g.NumNodes()
	if dPred == nil {
		return nil, prolongErrorf("EdgeGradients", matrix.ErrNilMatrix)
	}
	if dPred.Rows() != n || dPred.Cols() != n {
		return nil, prolongErrorf("EdgeGradients",
			fmt.Errorf("gradient %dx%d for %d nodes: %w", dPred.Rows(), dPred.Cols(), n, matrix.ErrShapeMismatch))
	}
	raw := dPred.RawData()
	src, dst := g.SourcesView(), g.DestinationsView()
	out := make([]float64, len(src))
	for k := range src {
		out[k] = raw[src[k]*n+dst[k]]
	}

	return out, nil
}
