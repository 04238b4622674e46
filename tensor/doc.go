// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense strided arrays of int8, int32, float32 and
// float64 elements.
//
// # Overview
//
// A DArray is a Layout (shape, offset, strides) over a shared Storage.
// Transpose, Permute, Narrow, Squeeze, Expand, BroadcastTo and most reshapes
// return views: the result shares storage with its source, so writes through
// a view are visible through every other view of the same storage.
//
//	a := tensor.Seq[float32](tensor.C, 3, 4)
//	row, _ := a.Sel(0, 1)      // view of the second row
//	_ = row.Fill(0)            // a now has a zero row
//	b := a.Transpose().Clone() // independent F-ordered copy
//
// # Orders
//
// Traversal and allocation orders are C (row-major), F (column-major),
// S (storage order, fastest for reductions) and A (the array's own dense
// order when it has one).
//
// # Kernels
//
// Elementwise operators and reductions run on unit-stride, strided or scalar
// kernels depending on the memory layout and the detected SIMD level. All
// paths produce the same results. Set STRIDED_NO_SIMD=1 to force the scalar
// path.
//
// # Concurrency
//
// Large copies and matrix products are split across workers bounded by
// Config().NumWorkers (STRIDED_NUM_WORKERS). Arrays themselves are not
// synchronized: concurrent writes to overlapping views are a data race.
package tensor
