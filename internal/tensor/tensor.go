// Package tensor implements DArray, a dense strided multidimensional array.
//
// A DArray is a Layout over a Storage. Views (transpose, narrow, reshape,
// broadcast, ...) produce new DArrays over the same Storage, so writes
// through any view are visible through every other view of that Storage.
// Aliasing is part of the contract: callers that need independent data
// call Copy.
package tensor

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
)

// DArray is a dense strided array of N.
//
// Type Parameters:
//   - N: element type (int8, int32, float32 or float64)
//
// Example:
//
//	t := tensor.Seq[float64](layout.C, 2, 3)
//	row, _ := t.Sel(0, 1)   // view of [3 4 5]
//	row.Set(40, 1)          // t.Get(1, 1) == 40
type DArray[N storage.Number] struct {
	layout  layout.Layout
	storage *storage.Storage[N]
}

var config atomic.Pointer[parallel.Config]

// Config returns the parallel configuration used by blocked operations.
func Config() parallel.Config {
	if cfg := config.Load(); cfg != nil {
		return *cfg
	}
	return parallel.DefaultConfig()
}

// SetConfig installs cfg for blocked operations until the returned restore
// function is called.
func SetConfig(cfg parallel.Config) (restore func()) {
	prev := config.Swap(&cfg)
	return func() {
		config.Store(prev)
	}
}

// New creates a DArray over s with layout l. Every address of l must lie
// inside s.
func New[N storage.Number](s *storage.Storage[N], l layout.Layout) (*DArray[N], error) {
	if !l.Fits(s.Len()) {
		return nil, layout.Invalidf("tensor: layout %v exceeds storage of %d elements", l, s.Len())
	}
	return &DArray[N]{layout: l, storage: s}, nil
}

// view shares t's storage under l.
func (t *DArray[N]) view(l layout.Layout) *DArray[N] {
	return &DArray[N]{layout: l, storage: t.storage}
}

// Layout returns the layout.
func (t *DArray[N]) Layout() layout.Layout {
	return t.layout
}

// Storage returns the shared storage.
func (t *DArray[N]) Storage() *storage.Storage[N] {
	return t.storage
}

// Shape returns the shape. The slice must not be modified.
func (t *DArray[N]) Shape() layout.Shape {
	return t.layout.Shape()
}

// Strides returns the strides. The slice must not be modified.
func (t *DArray[N]) Strides() []int {
	return t.layout.Strides()
}

// Rank returns the number of axes.
func (t *DArray[N]) Rank() int {
	return t.layout.Rank()
}

// Size returns the number of elements.
func (t *DArray[N]) Size() int {
	return t.layout.Size()
}

// Dim returns the size of axis; negative axes count from the end.
func (t *DArray[N]) Dim(axis int) int {
	return t.layout.Dim(axis)
}

// DType returns the element type tag.
func (t *DArray[N]) DType() storage.DType {
	return storage.DTypeOf[N]()
}

// NativeOrder returns C or F when t is dense in that order, else C.
func (t *DArray[N]) NativeOrder() layout.Order {
	return t.layout.FastOrder(layout.C)
}

// SameStorage reports whether t and other share storage.
func (t *DArray[N]) SameStorage(other *DArray[N]) bool {
	return t.storage.Same(other.storage)
}

// Ptr returns the storage address of the element at idx.
// Panics if idx is out of bounds.
func (t *DArray[N]) Ptr(idx ...int) int {
	return t.layout.Pointer(idx...)
}

// Get returns the element at idx.
// Panics if idx is out of bounds.
func (t *DArray[N]) Get(idx ...int) N {
	return t.storage.Get(t.layout.Pointer(idx...))
}

// Set stores v at idx.
// Panics if idx is out of bounds.
func (t *DArray[N]) Set(v N, idx ...int) {
	t.storage.Set(t.layout.Pointer(idx...), v)
}

// Inc adds v to the element at idx.
// Panics if idx is out of bounds.
func (t *DArray[N]) Inc(v N, idx ...int) {
	t.storage.Inc(t.layout.Pointer(idx...), v)
}

// GetAt returns the element at storage address ptr.
func (t *DArray[N]) GetAt(ptr int) N {
	return t.storage.Get(ptr)
}

// SetAt stores v at storage address ptr.
func (t *DArray[N]) SetAt(ptr int, v N) {
	t.storage.Set(ptr, v)
}

// Item returns the single element of a size-1 array.
// Panics otherwise.
func (t *DArray[N]) Item() N {
	if t.Size() != 1 {
		panic(fmt.Sprintf("Item() needs exactly one element, got shape %v", t.Shape()))
	}
	return t.storage.Get(t.layout.PointerAt(layout.C, 0))
}

// ToSlice returns the elements in C order as a new slice.
func (t *DArray[N]) ToSlice() []N {
	out := make([]N, 0, t.Size())
	data := t.storage.Data()
	for p := range loop.Pointers(t.layout, layout.C) {
		out = append(out, data[p])
	}
	return out
}

// AllClose reports whether t and other have the same shape and every pair
// of elements differs by at most tol. NaNs match NaNs.
func (t *DArray[N]) AllClose(other *DArray[N], tol float64) bool {
	if !t.Shape().Equal(other.Shape()) {
		return false
	}
	a, b := t.ToSlice(), other.ToSlice()
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		if math.IsNaN(x) || math.IsNaN(y) {
			if math.IsNaN(x) != math.IsNaN(y) {
				return false
			}
			continue
		}
		if math.Abs(x-y) > tol {
			return false
		}
	}
	return true
}

// String returns a short summary; element rendering is left to callers.
func (t *DArray[N]) String() string {
	return fmt.Sprintf("DArray[%s]%v", t.DType(), t.Shape())
}
