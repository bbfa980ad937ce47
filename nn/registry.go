// SPDX-License-Identifier: MIT

package nn

import (
	"fmt"

	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/floats"
)

// Param is one named trainable tensor.
type Param struct {
	Name  string
	Value *Tensor
	id    int // registration index, aligns with Grads
}

// Registry owns the parameters of a model. Iteration is by name, so the
// order is stable across processes and independent of construction order.
//
// A Registry is not safe for concurrent mutation; model.Model serialises
// writers behind its own lock.
type Registry struct {
	tree   *btree.BTreeG[*Param]
	params []*Param
}

func paramLess(a, b *Param) bool { return a.Name < b.Name }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tree: btree.NewBTreeG[*Param](paramLess)}
}

// Add registers a zero rows×cols parameter.
//
// Errors: ErrDuplicateParam, ErrShapeMismatch for negative dimensions.
func (r *Registry) Add(name string, rows, cols int) (*Param, error) {
	if rows < 0 || cols < 0 {
		return nil, shapeErr("Registry.Add", "%s: %dx%d", name, rows, cols)
	}
	if _, ok := r.tree.Get(&Param{Name: name}); ok {
		return nil, nnErrorf("Registry.Add", fmt.Errorf("%q: %w", name, ErrDuplicateParam))
	}
	p := &Param{Name: name, Value: NewTensor(rows, cols), id: len(r.params)}
	r.tree.Set(p)
	r.params = append(r.params, p)

	return p, nil
}

// Get looks a parameter up by name.
func (r *Registry) Get(name string) (*Param, error) {
	p, ok := r.tree.Get(&Param{Name: name})
	if !ok {
		return nil, nnErrorf("Registry.Get", fmt.Errorf("%q: %w", name, ErrUnknownParam))
	}

	return p, nil
}

// Len returns the number of parameters.
func (r *Registry) Len() int { return len(r.params) }

// NumScalars returns the total number of trainable values.
func (r *Registry) NumScalars() int {
	n := 0
	for _, p := range r.params {
		n += len(p.Value.Data)
	}

	return n
}

// Each visits parameters in name order until fn returns false.
func (r *Registry) Each(fn func(p *Param) bool) {
	r.tree.Scan(fn)
}

// Names returns the parameter names in iteration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.params))
	r.Each(func(p *Param) bool {
		out = append(out, p.Name)
		return true
	})

	return out
}

// Grads holds one gradient tensor per parameter of a Registry.
type Grads struct {
	reg *Registry
	t   []*Tensor
}

// NewGrads allocates zero gradients shaped like the registry's parameters.
func (r *Registry) NewGrads() *Grads {
	g := &Grads{reg: r, t: make([]*Tensor, len(r.params))}
	for i, p := range r.params {
		g.t[i] = NewTensor(p.Value.Rows, p.Value.Cols)
	}

	return g
}

// Of returns the gradient buffer of p.
func (g *Grads) Of(p *Param) *Tensor { return g.t[p.id] }

// Zero clears all buffers.
func (g *Grads) Zero() {
	for _, t := range g.t {
		t.Zero()
	}
}

// Add accumulates other into g. Both must come from the same registry.
func (g *Grads) Add(other *Grads) error {
	if g.reg != other.reg {
		return nnErrorf("Grads.Add", fmt.Errorf("different registries: %w", ErrShapeMismatch))
	}
	for i := range g.t {
		if err := g.t[i].AddInPlace(other.t[i]); err != nil {
			return err
		}
	}

	return nil
}

// Scale multiplies every gradient by c.
func (g *Grads) Scale(c float64) {
	for _, t := range g.t {
		floats.Scale(c, t.Data)
	}
}
