// SPDX-License-Identifier: MIT

package checkpoint

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/x448/float16"

	"github.com/katalvlaran/prolongnet/nn"
)

func encodeValues(name string, rows, cols int, data []float64, half bool) Tensor {
	t := Tensor{Name: name, Rows: rows, Cols: cols}
	if !half {
		t.Data = append([]float64(nil), data...)
		return t
	}
	t.Half = make([]uint16, len(data))
	for i, v := range data {
		t.Half[i] = float16.Fromfloat32(float32(v)).Bits()
	}

	return t
}

// Values returns the tensor contents as float64, expanding half precision.
func (t Tensor) Values() []float64 {
	if t.Half == nil {
		return t.Data
	}
	out := make([]float64, len(t.Half))
	for i, b := range t.Half {
		out[i] = float64(float16.Frombits(b).Float32())
	}

	return out
}

// Capture snapshots reg (and opt when non-nil) into a payload. Optimizer
// moments are always kept at full precision.
func Capture(reg *nn.Registry, opt *nn.Adam, runID uuid.UUID, step int, half bool) *Payload {
	p := &Payload{Version: FormatVersion, RunID: runID, Step: step, Created: time.Now().UTC()}
	reg.Each(func(prm *nn.Param) bool {
		v := prm.Value
		p.Params = append(p.Params, encodeValues(prm.Name, v.Rows, v.Cols, v.Data, half))
		return true
	})
	if opt == nil {
		return p
	}

	st := opt.State()
	state := &OptimizerState{Step: st.Step}
	reg.Each(func(prm *nn.Param) bool {
		r, c := prm.Value.Rows, prm.Value.Cols
		state.M = append(state.M, encodeValues(prm.Name, r, c, st.M[prm.Name], false))
		state.V = append(state.V, encodeValues(prm.Name, r, c, st.V[prm.Name], false))
		return true
	})
	p.Optimizer = state

	return p
}

// Restore copies the payload into reg, and into opt when non-nil. Nothing is
// modified unless the whole payload fits.
func Restore(p *Payload, reg *nn.Registry, opt *nn.Adam) error {
	if p.Version != FormatVersion {
		return checkpointErrorf("Restore", fmt.Errorf("format version %d, want %d: %w", p.Version, FormatVersion, ErrIncompatible))
	}
	if len(p.Params) != reg.Len() {
		return checkpointErrorf("Restore", fmt.Errorf("%d tensors for %d parameters: %w", len(p.Params), reg.Len(), ErrIncompatible))
	}

	values := make(map[string][]float64, len(p.Params))
	for _, t := range p.Params {
		prm, err := reg.Get(t.Name)
		if err != nil {
			return checkpointErrorf("Restore", fmt.Errorf("%q: %w", t.Name, ErrIncompatible))
		}
		v := t.Values()
		if t.Rows != prm.Value.Rows || t.Cols != prm.Value.Cols || len(v) != len(prm.Value.Data) {
			return checkpointErrorf("Restore", fmt.Errorf("%q: %dx%d, model has %dx%d: %w",
				t.Name, t.Rows, t.Cols, prm.Value.Rows, prm.Value.Cols, ErrIncompatible))
		}
		values[t.Name] = v
	}

	var st nn.AdamState
	if opt != nil {
		if p.Optimizer == nil {
			return checkpointErrorf("Restore", fmt.Errorf("no optimizer state: %w", ErrIncompatible))
		}
		st = nn.AdamState{Step: p.Optimizer.Step, M: tensorMap(p.Optimizer.M), V: tensorMap(p.Optimizer.V)}
		probe := opt.State()
		for name, m := range probe.M {
			if len(st.M[name]) != len(m) || len(st.V[name]) != len(m) {
				return checkpointErrorf("Restore", fmt.Errorf("optimizer moments of %q: %w", name, ErrIncompatible))
			}
		}
	}

	reg.Each(func(prm *nn.Param) bool {
		copy(prm.Value.Data, values[prm.Name])
		return true
	})
	if opt != nil {
		if err := opt.Restore(st); err != nil {
			return checkpointErrorf("Restore", fmt.Errorf("%v: %w", err, ErrIncompatible))
		}
	}

	return nil
}

func tensorMap(ts []Tensor) map[string][]float64 {
	out := make(map[string][]float64, len(ts))
	for _, t := range ts {
		out[t.Name] = t.Values()
	}

	return out
}
