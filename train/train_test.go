// SPDX-License-Identifier: MIT

package train_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prolongnet/checkpoint"
	"github.com/katalvlaran/prolongnet/config"
	"github.com/katalvlaran/prolongnet/execctx"
	"github.com/katalvlaran/prolongnet/matrix"
	"github.com/katalvlaran/prolongnet/model"
	"github.com/katalvlaran/prolongnet/nn"
	"github.com/katalvlaran/prolongnet/pipeline"
	"github.com/katalvlaran/prolongnet/train"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)) }

// problem returns the 1D Laplacian item on n nodes with even nodes coarse,
// an equal-weight baseline and a skewed (0.3/0.7) reference.
func problem(t *testing.T, n int) *pipeline.Item {
	t.Helper()
	var r, c []int
	var v []float64
	for i := 0; i < n; i++ {
		if i > 0 {
			r, c, v = append(r, i), append(c, i-1), append(v, -1)
		}
		r, c, v = append(r, i), append(c, i), append(v, 2)
		if i+1 < n {
			r, c, v = append(r, i), append(c, i+1), append(v, -1)
		}
	}
	a, err := matrix.FromTriplets(n, n, r, c, v)
	require.NoError(t, err)

	var coarse []int
	for i := 0; i < n; i += 2 {
		coarse = append(coarse, i)
	}
	part, err := matrix.NewPartition(n, coarse)
	require.NoError(t, err)

	var br, bc []int
	var bv, rv []float64
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			br, bc, bv, rv = append(br, i), append(bc, i/2), append(bv, 1), append(rv, 1)
			continue
		}
		left, right := (i-1)/2, (i+1)/2
		if i+1 >= n {
			br, bc, bv, rv = append(br, i), append(bc, left), append(bv, 1), append(rv, 1)
			continue
		}
		br, bc, bv, rv = append(br, i, i), append(bc, left, right), append(bv, 0.5, 0.5), append(rv, 0.3, 0.7)
	}
	baseline, err := matrix.FromTriplets(n, len(coarse), br, bc, bv)
	require.NoError(t, err)
	reference, err := matrix.FromTriplets(n, len(coarse), br, bc, rv)
	require.NoError(t, err)

	res := &pipeline.Resolver{Run: config.Default().Run, Exec: execctx.Discard()}
	item, err := res.Resolve(context.Background(), pipeline.Example{
		Name: "lap", A: a, Coarse: part, Baseline: baseline, Reference: reference,
	})
	require.NoError(t, err)
	return item
}

func newTrainer(t *testing.T, lr float64, opts ...train.Option) (*model.Model, *train.Trainer) {
	t.Helper()
	cfg := config.Default()
	cfg.Model.LatentSize = 4
	m, err := model.New(cfg.Model, cfg.Run)
	require.NoError(t, err)
	ac := pipeline.AdamConfig(cfg.Train)
	ac.LearningRate = lr
	return m, train.New(m, m.NewOptimizer(ac), cfg.Run, append(opts, train.WithLogger(quietLogger()))...)
}

func TestFrobeniusLoss(t *testing.T) {
	t.Parallel()
	p, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	ref, err := matrix.FromTriplets(2, 2, []int{0, 1}, []int{0, 1}, []float64{1, 2})
	require.NoError(t, err)

	loss, grad, err := train.FrobeniusLoss(p, ref)
	require.NoError(t, err)
	require.Equal(t, 0.0+4+9+4, loss)
	require.Equal(t, []float64{0, 4, 6, 4}, grad.RawData())
	require.Equal(t, []float64{1, 2, 3, 4}, p.RawData(), "input untouched")

	wrong, err := matrix.FromTriplets(3, 2, nil, nil, nil)
	require.NoError(t, err)
	_, _, err = train.FrobeniusLoss(p, wrong)
	require.ErrorIs(t, err, matrix.ErrShapeMismatch)
}

func TestTrainer_GradientsMatchFiniteDifferences(t *testing.T) {
	t.Parallel()
	m, tr := newTrainer(t, 1e-3)
	items := []*pipeline.Item{problem(t, 5), problem(t, 6)}
	ctx := context.Background()

	_, grads, err := tr.Gradients(ctx, items)
	require.NoError(t, err)
	analytic := map[string][]float64{}
	require.NoError(t, m.View(func(reg *nn.Registry) error {
		reg.Each(func(p *nn.Param) bool {
			analytic[p.Name] = append([]float64(nil), grads.Of(p).Data...)
			return true
		})
		return nil
	}))

	set := func(name string, i int, v float64) {
		require.NoError(t, m.Update(func(reg *nn.Registry) error {
			p, err := reg.Get(name)
			if err != nil {
				return err
			}
			p.Value.Data[i] = v
			return nil
		}))
	}
	lossAt := func() float64 {
		l, _, err := tr.Gradients(ctx, items)
		require.NoError(t, err)
		return l
	}

	for name, an := range analytic {
		var orig []float64
		require.NoError(t, m.View(func(reg *nn.Registry) error {
			p, err := reg.Get(name)
			if err != nil {
				return err
			}
			orig = append([]float64(nil), p.Value.Data...)
			return nil
		}))
		for i := 0; i < len(orig) && i < 4; i++ {
			set(name, i, orig[i]+1e-6)
			up := lossAt()
			set(name, i, orig[i]-1e-6)
			down := lossAt()
			set(name, i, orig[i])
			num := (up - down) / 2e-6
			require.InDelta(t, num, an[i], 1e-4*(1+math.Abs(num)), "%s[%d]", name, i)
		}
	}
}

func TestTrainer_BatchedGradientsAreMeanOfSingles(t *testing.T) {
	t.Parallel()
	m, tr := newTrainer(t, 1e-3)
	a, b := problem(t, 5), problem(t, 8)
	ctx := context.Background()

	snapshot := func(items ...*pipeline.Item) (float64, map[string][]float64) {
		loss, grads, err := tr.Gradients(ctx, items)
		require.NoError(t, err)
		out := map[string][]float64{}
		require.NoError(t, m.View(func(reg *nn.Registry) error {
			reg.Each(func(p *nn.Param) bool {
				out[p.Name] = append([]float64(nil), grads.Of(p).Data...)
				return true
			})
			return nil
		}))
		return loss, out
	}
	la, ga := snapshot(a)
	lb, gb := snapshot(b)
	lab, gab := snapshot(a, b)

	require.InDelta(t, (la+lb)/2, lab, 1e-12)
	for name, g := range gab {
		for i := range g {
			require.InDelta(t, (ga[name][i]+gb[name][i])/2, g[i], 1e-10, "%s[%d]", name, i)
		}
	}
}

func TestTrainer_StepReducesLoss(t *testing.T) {
	t.Parallel()
	_, tr := newTrainer(t, 1e-2)
	items := []*pipeline.Item{problem(t, 7)}
	ctx := context.Background()

	first, err := tr.Step(ctx, items)
	require.NoError(t, err)
	last := first
	for i := 0; i < 60; i++ {
		last, err = tr.Step(ctx, items)
		require.NoError(t, err)
	}
	require.Less(t, last, first)
	require.Equal(t, 61, tr.Optimizer().StepCount())
}

func TestTrainer_EpochAndCheckpoints(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	mgr := checkpoint.NewManager(dir, checkpoint.WithLogger(quietLogger()))
	_, tr := newTrainer(t, 1e-3, train.WithCheckpoints(mgr, 2))

	res := &pipeline.Resolver{Run: config.Default().Run, Exec: execctx.Discard()}
	var examples []pipeline.Example
	for _, n := range []int{5, 6, 7} {
		examples = append(examples, problem(t, n).Example)
	}
	ds, err := pipeline.NewDataset(context.Background(), res, examples)
	require.NoError(t, err)

	loss, err := tr.Epoch(context.Background(), ds, 2) // batches of 2 and 1
	require.NoError(t, err)
	require.Greater(t, loss, 0.0)
	require.Equal(t, 2, tr.Optimizer().StepCount())

	_, step, err := checkpoint.Latest(dir)
	require.NoError(t, err)
	require.Equal(t, 2, step)
}

func TestTrainer_Errors(t *testing.T) {
	t.Parallel()
	_, tr := newTrainer(t, 1e-3)
	_, err := tr.Step(context.Background(), nil)
	require.ErrorIs(t, err, train.ErrEmptyBatch)

	item := problem(t, 5)
	item.Reference = nil
	_, err = tr.Step(context.Background(), []*pipeline.Item{item})
	require.ErrorIs(t, err, train.ErrNoReference)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tr.Step(ctx, []*pipeline.Item{problem(t, 5)})
	require.ErrorIs(t, err, context.Canceled)
}
