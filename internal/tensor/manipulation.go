package tensor

import (
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/movement"
	"github.com/born-ml/strided/internal/storage"
)

// Transpose reverses the axes (view).
func (t *DArray[N]) Transpose() *DArray[N] {
	return t.view(t.layout.Transpose())
}

// Permute reorders the axes: axis i of the result is axis axes[i] of t (view).
func (t *DArray[N]) Permute(axes ...int) (*DArray[N], error) {
	l, err := t.layout.Permute(axes...)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// MoveAxis moves axis src to position dst (view).
func (t *DArray[N]) MoveAxis(src, dst int) (*DArray[N], error) {
	l, err := t.layout.MoveAxis(src, dst)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// SwapAxis exchanges two axes (view).
func (t *DArray[N]) SwapAxis(a, b int) (*DArray[N], error) {
	l, err := t.layout.SwapAxis(a, b)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// Narrow restricts axis to [start, end) (view). With keepDim false a
// resulting size-1 axis is dropped.
func (t *DArray[N]) Narrow(axis int, keepDim bool, start, end int) (*DArray[N], error) {
	l, err := t.layout.Narrow(axis, keepDim, start, end)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// NarrowAll restricts every axis at once (view).
func (t *DArray[N]) NarrowAll(keepDim bool, starts, ends []int) (*DArray[N], error) {
	l, err := t.layout.NarrowAll(keepDim, starts, ends)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// Sel selects one position along axis and drops that axis (view).
func (t *DArray[N]) Sel(axis, index int) (*DArray[N], error) {
	return t.Narrow(axis, false, index, index+1)
}

// Squeeze drops the given size-1 axes, or all of them when none are given
// (view).
func (t *DArray[N]) Squeeze(axes ...int) (*DArray[N], error) {
	l, err := t.layout.Squeeze(axes...)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// Stretch inserts size-1 axes at the given result positions (view).
func (t *DArray[N]) Stretch(axes ...int) (*DArray[N], error) {
	l, err := t.layout.Stretch(axes...)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// Expand repeats a size-1 axis n times with stride 0 (view). Every
// repeated position aliases one element: Set and Inc through the result
// write that single element, and in-place kernels reject it as a
// destination.
func (t *DArray[N]) Expand(axis, n int) (*DArray[N], error) {
	l, err := t.layout.Expand(axis, n)
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// BroadcastTo expands t to shape following broadcasting rules (view).
func (t *DArray[N]) BroadcastTo(shape ...int) (*DArray[N], error) {
	l, err := t.layout.BroadcastTo(layout.Shape(shape))
	if err != nil {
		return nil, err
	}
	return t.view(l), nil
}

// Reshape returns t with a new shape, reading and placing elements in
// order. It is a view when the strides allow it and a copy dense in order
// otherwise. A and S use t's native order.
//
// Example:
//
//	t := tensor.Seq[float64](layout.C, 2, 3)
//	v, _ := t.Reshape(layout.C, 3, 2)             // view
//	w, _ := t.Transpose().Reshape(layout.C, 6)    // copy
func (t *DArray[N]) Reshape(order layout.Order, shape ...int) (*DArray[N], error) {
	target := layout.Shape(shape).Clone()
	l, ok, err := t.layout.TryReshape(target, order)
	if err != nil {
		return nil, err
	}
	if ok {
		return t.view(l), nil
	}
	if !order.Dense() {
		order = t.NativeOrder()
	}
	c, err := t.Copy(order)
	if err != nil {
		return nil, err
	}
	l, ok, err = c.layout.TryReshape(target, order)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, layout.Invalidf("tensor: reshape %v to %v failed after copy", t.Shape(), target)
	}
	return c.view(l), nil
}

// Take gathers positions along axis. Arithmetic progressions with a
// non-zero step (and single indices) are views; anything else is copied
// into a new C-ordered array.
func (t *DArray[N]) Take(axis int, indices ...int) (*DArray[N], error) {
	l, ok, err := t.layout.Take(axis, indices...)
	if err != nil {
		return nil, err
	}
	if ok {
		return t.view(l), nil
	}

	ax, _ := layout.NormAxis(axis, t.Rank())
	shape := t.Shape().Clone()
	shape[ax] = len(indices)
	out := Zeros[N](layout.C, shape...)
	cfg := Config()
	for i, ix := range indices {
		src, err := t.layout.Narrow(ax, true, ix, ix+1)
		if err != nil {
			return nil, err
		}
		dst, err := out.layout.Narrow(ax, true, i, i+1)
		if err != nil {
			return nil, err
		}
		if err := movement.Copy(t.storage.Data(), src, out.storage.Data(), dst, cfg); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Split partitions axis at the given boundaries (views). Empty parts are
// skipped.
func (t *DArray[N]) Split(axis int, keepDim bool, indices ...int) ([]*DArray[N], error) {
	ls, err := t.layout.Split(axis, keepDim, indices...)
	if err != nil {
		return nil, err
	}
	return t.views(ls), nil
}

// SplitAll partitions every axis at its boundaries (views, C order of the
// part grid).
func (t *DArray[N]) SplitAll(keepDim bool, indices [][]int) ([]*DArray[N], error) {
	ls, err := t.layout.SplitAll(keepDim, indices)
	if err != nil {
		return nil, err
	}
	return t.views(ls), nil
}

// Chunk partitions axis in pieces of step elements (views); the last piece
// may be shorter.
func (t *DArray[N]) Chunk(axis int, keepDim bool, step int) ([]*DArray[N], error) {
	ls, err := t.layout.Chunk(axis, keepDim, step)
	if err != nil {
		return nil, err
	}
	return t.views(ls), nil
}

// ChunkAll chunks every axis with its own step (views).
func (t *DArray[N]) ChunkAll(keepDim bool, steps []int) ([]*DArray[N], error) {
	ls, err := t.layout.ChunkAll(keepDim, steps)
	if err != nil {
		return nil, err
	}
	return t.views(ls), nil
}

func (t *DArray[N]) views(ls []layout.Layout) []*DArray[N] {
	out := make([]*DArray[N], len(ls))
	for i, l := range ls {
		out[i] = t.view(l)
	}
	return out
}

// Copy returns a new array with its own storage holding t's elements,
// dense in order. A keeps t's native order (C when t is not dense) and S
// keeps t's storage axis order.
func (t *DArray[N]) Copy(order layout.Order) (*DArray[N], error) {
	if !order.Valid() {
		return nil, layout.Invalidf("tensor: invalid order %d", order)
	}
	var dl layout.Layout
	switch order {
	case layout.A:
		dl = layout.NewDense(t.Shape(), t.NativeOrder())
	case layout.S:
		dl = denseLike(t.layout)
	default:
		dl = layout.NewDense(t.Shape(), order)
	}
	out := &DArray[N]{layout: dl, storage: storage.New[N](dl.Size())}
	if err := movement.Copy(t.storage.Data(), t.layout, out.storage.Data(), dl, Config()); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone is Copy in native order.
func (t *DArray[N]) Clone() *DArray[N] {
	c, err := t.Copy(layout.A)
	if err != nil {
		// A valid order on a valid array cannot fail.
		panic(err.Error())
	}
	return c
}

// Assign copies src into t. src is broadcast to t's shape. A source that
// shares t's storage under another layout is copied first.
func (t *DArray[N]) Assign(src *DArray[N]) error {
	if err := t.writable(); err != nil {
		return err
	}
	sl, err := src.layout.BroadcastTo(t.Shape())
	if err != nil {
		return err
	}
	if src.SameStorage(t) && !sl.Equal(t.layout) {
		c, err := src.Copy(layout.C)
		if err != nil {
			return err
		}
		src = c
		sl, _ = c.layout.BroadcastTo(t.Shape())
	}
	return movement.Copy(src.storage.Data(), sl, t.storage.Data(), t.layout, Config())
}

// denseLike returns a dense layout with l's shape whose axes have the same
// storage order as l.
func denseLike(l layout.Layout) layout.Layout {
	shape := l.Shape()
	strides := make([]int, len(shape))
	stride := 1
	for _, ax := range l.AxisOrder(layout.S) {
		strides[ax] = stride
		stride *= max(shape[ax], 1)
	}
	dl, err := layout.New(shape, 0, strides)
	if err != nil {
		panic(err.Error())
	}
	return dl
}

// writable rejects destinations that repeat addresses (expanded or
// broadcast views).
func (t *DArray[N]) writable() error {
	if t.layout.HasZeroStride() {
		return layout.Invalidf("tensor: cannot write in place through a view with repeated addresses %v", t.layout)
	}
	return nil
}
