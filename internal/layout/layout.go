package layout

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
)

// Layout maps logical indices to storage addresses:
//
//	address = offset + Σ index[i]·strides[i]
//
// Strides are counted in elements, not bytes, and may be zero (broadcast) or
// negative. A Layout is an immutable value; view operations return new ones.
type Layout struct {
	shape   Shape
	offset  int
	strides []int
}

// New creates a layout from explicit shape, offset and strides.
func New(shape Shape, offset int, strides []int) (Layout, error) {
	if err := shape.Validate(); err != nil {
		return Layout{}, err
	}
	if len(shape) != len(strides) {
		return Layout{}, Invalidf("shape %v and strides %v have different ranks", shape, strides)
	}
	if offset < 0 {
		return Layout{}, Invalidf("negative offset %d", offset)
	}
	return Layout{shape: shape.Clone(), offset: offset, strides: slices.Clone(strides)}, nil
}

// NewDense creates a gap-free layout for shape in C or F order, starting at 0.
func NewDense(shape Shape, order Order) Layout {
	return NewDenseAt(shape, 0, order)
}

// NewDenseAt creates a gap-free layout for shape in C or F order at offset.
func NewDenseAt(shape Shape, offset int, order Order) Layout {
	return Layout{shape: shape.Clone(), offset: offset, strides: shape.Strides(order)}
}

// Scalar returns the rank 0 layout at offset.
func Scalar(offset int) Layout {
	return Layout{shape: Shape{}, offset: offset, strides: []int{}}
}

// Shape returns the layout's shape. The slice must not be modified.
func (l Layout) Shape() Shape {
	return l.shape
}

// Strides returns the layout's strides. The slice must not be modified.
func (l Layout) Strides() []int {
	return l.strides
}

// Offset returns the base address.
func (l Layout) Offset() int {
	return l.offset
}

// Rank returns the number of axes.
func (l Layout) Rank() int {
	return len(l.shape)
}

// Size returns the number of logical elements.
func (l Layout) Size() int {
	return l.shape.Size()
}

// Dim returns the size of axis; negative axes count from the end.
func (l Layout) Dim(axis int) int {
	return l.shape.Dim(axis)
}

// Stride returns the stride of axis; negative axes count from the end.
func (l Layout) Stride(axis int) int {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		panic(err.Error())
	}
	return l.strides[ax]
}

// Pointer returns the storage address of the element at idx.
// Panics if the number of indices or any index is out of range.
func (l Layout) Pointer(idx ...int) int {
	if len(idx) != len(l.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(l.shape), len(idx)))
	}
	ptr := l.offset
	for i, ix := range idx {
		if ix < 0 || ix >= l.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", ix, i, l.shape[i]))
		}
		ptr += ix * l.strides[i]
	}
	return ptr
}

// Index converts a linear position, counted in the given order, into an index
// tuple. S and A orders are resolved against the layout strides.
func (l Layout) Index(order Order, pos int) []int {
	axes := l.AxisOrder(order)
	idx := make([]int, len(l.shape))
	for _, ax := range axes {
		idx[ax] = pos % l.shape[ax]
		pos /= l.shape[ax]
	}
	return idx
}

// PointerAt returns the storage address of the element at linear position pos
// counted in the given order.
func (l Layout) PointerAt(order Order, pos int) int {
	axes := l.AxisOrder(order)
	ptr := l.offset
	for _, ax := range axes {
		ptr += (pos % l.shape[ax]) * l.strides[ax]
		pos /= l.shape[ax]
	}
	return ptr
}

// AxisOrder returns the axes from fastest to slowest varying for order.
// For S, axes are sorted by increasing |stride|; ties keep the C preference
// (later axes faster). A resolves through FastOrder with C as default.
func (l Layout) AxisOrder(order Order) []int {
	r := len(l.shape)
	axes := make([]int, r)
	switch l.Resolve(order, C) {
	case F:
		for i := range axes {
			axes[i] = i
		}
	case S:
		for i := range axes {
			axes[i] = r - 1 - i
		}
		slices.SortStableFunc(axes, func(a, b int) int {
			return absInt(l.strides[a]) - absInt(l.strides[b])
		})
	default:
		for i := range axes {
			axes[i] = r - 1 - i
		}
	}
	return axes
}

// Resolve turns A into the layout's fast order (or def) and returns other
// orders unchanged.
func (l Layout) Resolve(order Order, def Order) Order {
	if order == A {
		return l.FastOrder(def)
	}
	return order
}

// IsCOrdered reports whether the layout is dense in row-major order.
// Strides of size-1 axes are ignored.
func (l Layout) IsCOrdered() bool {
	expected := 1
	for i := len(l.shape) - 1; i >= 0; i-- {
		if l.shape[i] == 1 {
			continue
		}
		if l.strides[i] != expected {
			return false
		}
		expected *= l.shape[i]
	}
	return true
}

// IsFOrdered reports whether the layout is dense in column-major order.
func (l Layout) IsFOrdered() bool {
	expected := 1
	for i := range l.shape {
		if l.shape[i] == 1 {
			continue
		}
		if l.strides[i] != expected {
			return false
		}
		expected *= l.shape[i]
	}
	return true
}

// IsDense reports whether the layout covers a gap-free address range in
// some axis order (each address visited exactly once).
func (l Layout) IsDense() bool {
	dims, strides := l.Canonical()
	if len(dims) == 0 {
		return true
	}
	return len(dims) == 1 && strides[0] == 1
}

// FastOrder returns C or F when the layout is dense in that order, else def.
// Layouts that are both (vectors, scalars) report C.
func (l Layout) FastOrder(def Order) Order {
	if l.IsCOrdered() {
		return C
	}
	if l.IsFOrdered() {
		return F
	}
	return def
}

// Canonical returns the normalized comparison form of the layout: size-1
// axes dropped, remaining axes sorted by increasing |stride| and neighbours
// that are contiguous (stride[i+1] == stride[i]*dim[i]) merged.
// Two layouts that visit the same addresses in storage order share a
// canonical form.
func (l Layout) Canonical() (dims, strides []int) {
	axes := l.AxisOrder(S)
	for _, ax := range axes {
		if l.shape[ax] == 1 {
			continue
		}
		if l.shape[ax] == 0 {
			return []int{0}, []int{1}
		}
		n := len(dims)
		if n > 0 && strides[n-1]*dims[n-1] == l.strides[ax] {
			dims[n-1] *= l.shape[ax]
			continue
		}
		dims = append(dims, l.shape[ax])
		strides = append(strides, l.strides[ax])
	}
	return dims, strides
}

// Span returns the lowest and highest address the layout can touch.
// For empty layouts hi < lo.
func (l Layout) Span() (lo, hi int) {
	if l.Size() == 0 {
		return l.offset, l.offset - 1
	}
	lo, hi = l.offset, l.offset
	for i, dim := range l.shape {
		ext := (dim - 1) * l.strides[i]
		if ext < 0 {
			lo += ext
		} else {
			hi += ext
		}
	}
	return lo, hi
}

// Fits reports whether every address of the layout lies in [0, length).
func (l Layout) Fits(length int) bool {
	lo, hi := l.Span()
	if hi < lo {
		return true
	}
	return lo >= 0 && hi < length
}

// HasZeroStride reports whether an axis of size > 1 repeats one address,
// as produced by Expand and BroadcastTo.
func (l Layout) HasZeroStride() bool {
	for i, dim := range l.shape {
		if dim > 1 && l.strides[i] == 0 {
			return true
		}
	}
	return false
}

// Equal compares shape, offset and strides.
func (l Layout) Equal(other Layout) bool {
	return l.offset == other.offset && l.shape.Equal(other.shape) && slices.Equal(l.strides, other.strides)
}

// Hash returns a hash consistent with Equal.
func (l Layout) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	put(len(l.shape))
	put(l.offset)
	for i := range l.shape {
		put(l.shape[i])
		put(l.strides[i])
	}
	return h.Sum64()
}

// String formats the layout for debugging.
func (l Layout) String() string {
	return fmt.Sprintf("Layout{shape:%v, offset:%d, strides:%v}", []int(l.shape), l.offset, l.strides)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
