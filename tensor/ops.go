// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/strided/internal/kernel"

// UnaryOp is an elementwise operator, optionally with parameters.
type UnaryOp = kernel.UnaryOp

// UnaryKind names a parameterless elementwise operator.
type UnaryKind = kernel.UnaryKind

// Elementwise operators. Sqrt through Sigmoid are only available for
// float32 and float64.
const (
	Abs     UnaryKind = kernel.Abs
	Neg     UnaryKind = kernel.Neg
	Sqr     UnaryKind = kernel.Sqr
	Sqrt    UnaryKind = kernel.Sqrt
	Log     UnaryKind = kernel.Log
	Log1p   UnaryKind = kernel.Log1p
	Exp     UnaryKind = kernel.Exp
	Expm1   UnaryKind = kernel.Expm1
	Sin     UnaryKind = kernel.Sin
	Cos     UnaryKind = kernel.Cos
	Tan     UnaryKind = kernel.Tan
	Asin    UnaryKind = kernel.Asin
	Acos    UnaryKind = kernel.Acos
	Atan    UnaryKind = kernel.Atan
	Sinh    UnaryKind = kernel.Sinh
	Cosh    UnaryKind = kernel.Cosh
	Tanh    UnaryKind = kernel.Tanh
	Sigmoid UnaryKind = kernel.Sigmoid
	Rint    UnaryKind = kernel.Rint
	Ceil    UnaryKind = kernel.Ceil
	Floor   UnaryKind = kernel.Floor
)

// Op returns the operator for k.
func Op(k UnaryKind) UnaryOp {
	return kernel.Op(k)
}

// Comparison is the predicate of Compare.
type Comparison = kernel.Comparison

// Comparisons.
const (
	LT Comparison = kernel.LT
	LE Comparison = kernel.LE
	GT Comparison = kernel.GT
	GE Comparison = kernel.GE
	EQ Comparison = kernel.EQ
	NE Comparison = kernel.NE
)

// BinaryKind names an elementwise binary operator.
type BinaryKind = kernel.BinaryKind

// Binary operators. Integer division by zero yields 0.
const (
	Add BinaryKind = kernel.Add
	Sub BinaryKind = kernel.Sub
	Mul BinaryKind = kernel.Mul
	Div BinaryKind = kernel.Div
	Min BinaryKind = kernel.Min
	Max BinaryKind = kernel.Max
)

// ReduceKind names a reduction for ReduceAxis.
type ReduceKind = kernel.ReduceKind

// Reductions. The Nan variants skip NaN elements.
const (
	Sum     ReduceKind = kernel.Sum
	Prod    ReduceKind = kernel.Prod
	MinOf   ReduceKind = kernel.MinOf
	MaxOf   ReduceKind = kernel.MaxOf
	NanSum  ReduceKind = kernel.NanSum
	NanProd ReduceKind = kernel.NanProd
	NanMin  ReduceKind = kernel.NanMin
	NanMax  ReduceKind = kernel.NanMax
)
