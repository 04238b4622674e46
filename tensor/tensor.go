// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
	"github.com/born-ml/strided/internal/tensor"
)

// Type aliases for public API

// Number is the closed set of element types.
type Number = storage.Number

// DType is the runtime tag of an element type.
type DType = storage.DType

// Element type tags.
const (
	Int8    DType = storage.Int8
	Int32   DType = storage.Int32
	Float32 DType = storage.Float32
	Float64 DType = storage.Float64
)

// Shape represents the dimensions of an array.
type Shape = layout.Shape

// Layout maps logical indices to storage addresses.
type Layout = layout.Layout

// Order names a traversal or allocation order.
type Order = layout.Order

// Orders.
const (
	C Order = layout.C
	F Order = layout.F
	S Order = layout.S
	A Order = layout.A
)

// Storage is the flat buffer shared by every view of an array.
type Storage[N Number] = storage.Storage[N]

// DArray is a dense strided array.
type DArray[N Number] = tensor.DArray[N]

// Config controls worker fan-out for copies, reductions and matrix products.
type Config = parallel.Config

// Errors.
var (
	ErrInvalidArgument = layout.ErrInvalidArgument
	ErrNotAvailable    = layout.ErrNotAvailable
	ErrWorkerFailed    = parallel.ErrWorkerFailed
)

// NewLayout returns a layout with explicit strides.
func NewLayout(shape Shape, offset int, strides []int) (Layout, error) {
	return layout.New(shape, offset, strides)
}

// NewDenseLayout returns a dense layout of shape in order (C or F).
func NewDenseLayout(shape Shape, order Order) Layout {
	return layout.NewDense(shape, order)
}

// BroadcastShapes computes the broadcast shape of a and b.
// The flag reports whether either operand needs broadcasting.
//
// Example:
//
//	s, _, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{4})
//	// s = [3, 4]
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return layout.BroadcastShapes(a, b)
}

// CurrentConfig returns the configuration used by array operations.
func CurrentConfig() Config {
	return tensor.Config()
}

// SetConfig installs cfg and returns a function restoring the previous one.
func SetConfig(cfg Config) (restore func()) {
	return tensor.SetConfig(cfg)
}

// DefaultConfig returns the configuration derived from the machine and the
// environment.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// Creation functions

// New wraps storage s with layout l.
func New[N Number](s *Storage[N], l Layout) (*DArray[N], error) {
	return tensor.New(s, l)
}

// Zeros creates an array filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.C, 2, 3)
func Zeros[N Number](order Order, shape ...int) *DArray[N] {
	return tensor.Zeros[N](order, shape...)
}

// Ones creates an array filled with ones.
func Ones[N Number](order Order, shape ...int) *DArray[N] {
	return tensor.Ones[N](order, shape...)
}

// Full creates an array filled with v.
func Full[N Number](v N, order Order, shape ...int) *DArray[N] {
	return tensor.Full(v, order, shape...)
}

// Seq creates an array whose elements are 0, 1, 2, ... in storage order.
//
// Example:
//
//	x := tensor.Seq[int32](tensor.F, 2, 3) // [[0 2 4] [1 3 5]]
func Seq[N Number](order Order, shape ...int) *DArray[N] {
	return tensor.Seq[N](order, shape...)
}

// Scalar creates a rank-0 array.
func Scalar[N Number](v N) *DArray[N] {
	return tensor.Scalar(v)
}

// Eye creates an n×n identity matrix.
func Eye[N Number](order Order, n int) *DArray[N] {
	return tensor.Eye[N](order, n)
}

// Random fills a new array from rng: uniform [0, 1) for floats, the full
// range for integers.
func Random[N Number](rng *rand.Rand, order Order, shape ...int) *DArray[N] {
	return tensor.Random[N](rng, order, shape...)
}

// FromSlice copies data, read in order, into a new array of the given shape.
func FromSlice[N Number](data []N, order Order, shape ...int) (*DArray[N], error) {
	return tensor.FromSlice(data, order, shape...)
}

// Wrap uses data as storage without copying.
func Wrap[N Number](data []N, l Layout) (*DArray[N], error) {
	return tensor.Wrap(data, l)
}

// FromRows builds a C-ordered matrix from row slices.
func FromRows[N Number](rows [][]float64) (*DArray[N], error) {
	return tensor.FromRows[N](rows)
}

// FromColumns builds an F-ordered matrix from column slices.
func FromColumns[N Number](columns [][]float64) (*DArray[N], error) {
	return tensor.FromColumns[N](columns)
}

// Concat joins arrays along axis.
//
// Example:
//
//	a := tensor.Ones[float32](tensor.C, 2, 3)
//	b := tensor.Zeros[float32](tensor.C, 2, 3)
//	c, err := tensor.Concat(0, a, b) // shape [4 3]
func Concat[N Number](axis int, arrays ...*DArray[N]) (*DArray[N], error) {
	return tensor.Concat(axis, arrays...)
}
