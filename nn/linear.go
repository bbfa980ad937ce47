// SPDX-License-Identifier: MIT

package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas"
)

// Linear computes y = x·Wᵀ + b with W of shape Out×In and b of shape 1×Out.
// B is nil for bias-free layers.
type Linear struct {
	In, Out int
	W, B    *Param
}

// NewLinear registers "<name>.weight" and, when bias is set, "<name>.bias",
// drawn from U(-1/√In, 1/√In).
func NewLinear(reg *Registry, name string, in, out int, bias bool, rng *rand.Rand) (*Linear, error) {
	if in <= 0 || out <= 0 {
		return nil, shapeErr("NewLinear", "%s: in=%d out=%d", name, in, out)
	}
	w, err := reg.Add(name+".weight", out, in)
	if err != nil {
		return nil, err
	}
	l := &Linear{In: in, Out: out, W: w}
	bound := 1 / math.Sqrt(float64(in))
	uniform(rng, w.Value.Data, bound)
	if bias {
		if l.B, err = reg.Add(name+".bias", 1, out); err != nil {
			return nil, err
		}
		uniform(rng, l.B.Value.Data, bound)
	}

	return l, nil
}

func uniform(rng *rand.Rand, dst []float64, bound float64) {
	for i := range dst {
		dst[i] = (2*rng.Float64() - 1) * bound
	}
}

// Forward returns x·Wᵀ + b for an n×In input.
func (l *Linear) Forward(x *Tensor) (*Tensor, error) {
	if x.Cols != l.In {
		return nil, shapeErr("Linear.Forward", "%s: input width %d, want %d", l.W.Name, x.Cols, l.In)
	}
	y := NewTensor(x.Rows, l.Out)
	gemm(blas.NoTrans, blas.Trans, 1, x, l.W.Value, 0, y)
	if l.B != nil {
		b := l.B.Value.Data
		for i := 0; i < y.Rows; i++ {
			row := y.Row(i)
			for j := range row {
				row[j] += b[j]
			}
		}
	}

	return y, nil
}

// Backward accumulates ∂W = dyᵀ·x and ∂b = Σ rows(dy) into grads and returns
// ∂x = dy·W.
func (l *Linear) Backward(x, dy *Tensor, grads *Grads) (*Tensor, error) {
	if x.Cols != l.In || dy.Cols != l.Out || x.Rows != dy.Rows {
		return nil, shapeErr("Linear.Backward", "%s: x %dx%d, dy %dx%d", l.W.Name, x.Rows, x.Cols, dy.Rows, dy.Cols)
	}
	gemm(blas.Trans, blas.NoTrans, 1, dy, x, 1, grads.Of(l.W))
	if l.B != nil {
		gb := grads.Of(l.B).Data
		for i := 0; i < dy.Rows; i++ {
			for j, v := range dy.Row(i) {
				gb[j] += v
			}
		}
	}
	dx := NewTensor(x.Rows, l.In)
	gemm(blas.NoTrans, blas.NoTrans, 1, dy, l.W.Value, 0, dx)

	return dx, nil
}

// MLP is Linear → ReLU → Linear.
type MLP struct {
	L1, L2 *Linear
}

// MLPTape records the intermediate activations of one MLP.Forward.
type MLPTape struct {
	x, h *Tensor // input, ReLU output of the hidden layer
}

// NewMLP registers "<name>.0" (in→hidden) and "<name>.1" (hidden→out).
func NewMLP(reg *Registry, name string, in, hidden, out int, rng *rand.Rand) (*MLP, error) {
	l1, err := NewLinear(reg, name+".0", in, hidden, true, rng)
	if err != nil {
		return nil, err
	}
	l2, err := NewLinear(reg, name+".1", hidden, out, true, rng)
	if err != nil {
		return nil, err
	}

	return &MLP{L1: l1, L2: l2}, nil
}

// Forward applies the network to x.
func (m *MLP) Forward(x *Tensor) (*Tensor, *MLPTape, error) {
	pre, err := m.L1.Forward(x)
	if err != nil {
		return nil, nil, err
	}
	h := ReLU(pre)
	y, err := m.L2.Forward(h)
	if err != nil {
		return nil, nil, err
	}

	return y, &MLPTape{x: x, h: h}, nil
}

// Backward propagates dy through the network recorded in tape.
func (m *MLP) Backward(tape *MLPTape, dy *Tensor, grads *Grads) (*Tensor, error) {
	dh, err := m.L2.Backward(tape.h, dy, grads)
	if err != nil {
		return nil, err
	}

	return m.L1.Backward(tape.x, ReLUBackward(tape.h, dh), grads)
}
