package tensor

import (
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
)

// ApplyInPlace runs a unary operator on every element of t.
// Returns ErrNotAvailable for float-only operators on integer arrays and
// ErrInvalidArgument when t repeats addresses.
func (t *DArray[N]) ApplyInPlace(op kernel.UnaryOp) error {
	if err := op.Available(t.DType()); err != nil {
		return err
	}
	if err := t.writable(); err != nil {
		return err
	}
	return kernel.Unary(op, t.storage.Data(), loop.NewDescriptor(t.layout, layout.S))
}

// Apply returns a copy of t (native order) with op applied.
//
// Example:
//
//	y, err := x.Apply(kernel.Op(kernel.Sqrt))
func (t *DArray[N]) Apply(op kernel.UnaryOp) (*DArray[N], error) {
	if err := op.Available(t.DType()); err != nil {
		return nil, err
	}
	c := t.Clone()
	if err := c.ApplyInPlace(op); err != nil {
		return nil, err
	}
	return c, nil
}

// Fill sets every element to v.
func (t *DArray[N]) Fill(v N) error {
	return t.ApplyInPlace(kernel.FillOp(float64(v)))
}

// FillNaN replaces NaN elements by v.
func (t *DArray[N]) FillNaN(v N) error {
	return t.ApplyInPlace(kernel.FillNaNOp(float64(v)))
}

// Clamp limits every element to [lo, hi]; NaN is kept.
func (t *DArray[N]) Clamp(lo, hi N) error {
	return t.ApplyInPlace(kernel.ClampOp(float64(lo), float64(hi)))
}

// Compare returns a mask holding 1 where the comparison against v holds
// and 0 elsewhere.
func (t *DArray[N]) Compare(c kernel.Comparison, v N) (*DArray[N], error) {
	return t.Apply(kernel.CompareOp(c, float64(v)))
}

// BinaryInPlace computes t = k(t, other) elementwise. other is broadcast to
// t's shape; a rank-0 other acts as a scalar. A source that shares t's
// storage under another layout is copied first.
func (t *DArray[N]) BinaryInPlace(k kernel.BinaryKind, other *DArray[N]) error {
	if err := t.writable(); err != nil {
		return err
	}
	if other.Rank() == 0 {
		kernel.BinaryScalar(k, t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), other.Item())
		return nil
	}
	src, sl, err := t.operand(other)
	if err != nil {
		return err
	}
	ds, err := loop.NewDescriptors(layout.S, t.layout, sl)
	if err != nil {
		return err
	}
	return kernel.Binary(k, t.storage.Data(), ds[0], src, ds[1])
}

// BinaryScalarInPlace computes t = k(t, v) elementwise.
func (t *DArray[N]) BinaryScalarInPlace(k kernel.BinaryKind, v N) error {
	if err := t.writable(); err != nil {
		return err
	}
	kernel.BinaryScalar(k, t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), v)
	return nil
}

// Binary returns k(t, other) in a new C-ordered array of the broadcast
// shape of both operands.
//
// Example:
//
//	a := tensor.Seq[float64](layout.C, 3, 1)
//	b := tensor.Seq[float64](layout.C, 3, 4)
//	c, _ := a.Binary(kernel.Add, b) // shape [3 4], c[i,j] = a[i,0] + b[i,j]
func (t *DArray[N]) Binary(k kernel.BinaryKind, other *DArray[N]) (*DArray[N], error) {
	shape, _, err := layout.BroadcastShapes(t.Shape(), other.Shape())
	if err != nil {
		return nil, err
	}
	bt, err := t.BroadcastTo(shape...)
	if err != nil {
		return nil, err
	}
	out, err := bt.Copy(layout.C)
	if err != nil {
		return nil, err
	}
	if err := out.BinaryInPlace(k, other); err != nil {
		return nil, err
	}
	return out, nil
}

// BinaryScalar returns k(t, v) in a copy of t.
func (t *DArray[N]) BinaryScalar(k kernel.BinaryKind, v N) *DArray[N] {
	c := t.Clone()
	kernel.BinaryScalar(k, c.storage.Data(), loop.NewDescriptor(c.layout, layout.S), v)
	return c
}

// Add returns t + other with broadcasting.
func (t *DArray[N]) Add(other *DArray[N]) (*DArray[N], error) {
	return t.Binary(kernel.Add, other)
}

// Sub returns t - other with broadcasting.
func (t *DArray[N]) Sub(other *DArray[N]) (*DArray[N], error) {
	return t.Binary(kernel.Sub, other)
}

// Mul returns t * other with broadcasting.
func (t *DArray[N]) Mul(other *DArray[N]) (*DArray[N], error) {
	return t.Binary(kernel.Mul, other)
}

// Div returns t / other with broadcasting. Integer division by zero
// yields 0.
func (t *DArray[N]) Div(other *DArray[N]) (*DArray[N], error) {
	return t.Binary(kernel.Div, other)
}

// Fma computes t += a*other in place, broadcasting other to t's shape.
func (t *DArray[N]) Fma(a N, other *DArray[N]) error {
	if err := t.writable(); err != nil {
		return err
	}
	src, sl, err := t.operand(other)
	if err != nil {
		return err
	}
	ds, err := loop.NewDescriptors(layout.S, t.layout, sl)
	if err != nil {
		return err
	}
	return kernel.Fma(t.storage.Data(), ds[0], a, src, ds[1])
}

// operand returns the buffer and layout of other broadcast to t's shape,
// detached from t's storage when the two would overlap differently.
func (t *DArray[N]) operand(other *DArray[N]) ([]N, layout.Layout, error) {
	sl, err := other.layout.BroadcastTo(t.Shape())
	if err != nil {
		return nil, layout.Layout{}, err
	}
	if other.SameStorage(t) && !sl.Equal(t.layout) {
		c, err := other.Copy(layout.C)
		if err != nil {
			return nil, layout.Layout{}, err
		}
		sl, err = c.layout.BroadcastTo(t.Shape())
		if err != nil {
			return nil, layout.Layout{}, err
		}
		return c.storage.Data(), sl, nil
	}
	return other.storage.Data(), sl, nil
}

// Softmax returns softmax along axis in a new array.
// Only floating-point arrays are supported.
func (t *DArray[N]) Softmax(axis int) (*DArray[N], error) {
	return t.softmax(axis, false)
}

// LogSoftmax returns log-softmax along axis in a new array.
func (t *DArray[N]) LogSoftmax(axis int) (*DArray[N], error) {
	return t.softmax(axis, true)
}

func (t *DArray[N]) softmax(axis int, logarithmic bool) (*DArray[N], error) {
	if !t.DType().IsFloat() {
		return nil, layout.NotAvailablef("tensor: softmax on %s", t.DType())
	}
	c := t.Clone()
	d, err := axisRuns(c.layout, axis)
	if err != nil {
		return nil, err
	}
	return c, kernel.Softmax(c.storage.Data(), d, logarithmic)
}

// axisRuns returns a descriptor with one run along axis for every position
// of the other axes, in C order of those positions.
func axisRuns(l layout.Layout, axis int) (loop.Descriptor, error) {
	ax, err := layout.NormAxis(axis, l.Rank())
	if err != nil {
		return loop.Descriptor{}, err
	}
	rest, err := dropAxis(l, ax)
	if err != nil {
		return loop.Descriptor{}, err
	}
	offsets := make([]int, 0, rest.Size())
	for p := range loop.Pointers(rest, layout.C) {
		offsets = append(offsets, p)
	}
	return loop.Descriptor{Offsets: offsets, Bound: l.Dim(ax), Step: l.Stride(ax)}, nil
}

// dropAxis removes axis from l keeping the offset, which addresses index 0
// of the dropped axis.
func dropAxis(l layout.Layout, ax int) (layout.Layout, error) {
	shape := l.Shape()
	strides := l.Strides()
	shape = append(shape[:ax:ax], shape[ax+1:]...)
	strides = append(strides[:ax:ax], strides[ax+1:]...)
	return layout.New(shape, l.Offset(), strides)
}
