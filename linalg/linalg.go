// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linalg connects arrays to an external decomposition library.
//
// Implement Decomposer with your LU and QR routines; Solve and Inverse try
// LU first and fall back to QR when it fails.
//
//	inv, err := linalg.Inverse(a, myDecomposer)
package linalg

import (
	"github.com/born-ml/strided/internal/linalg"
	"github.com/born-ml/strided/tensor"
)

// ErrSingular should be returned by decompositions of singular matrices.
var ErrSingular = linalg.ErrSingular

// Solver solves A·X = B for a factored A.
type Solver[N tensor.Number] = linalg.Solver[N]

// Decomposer factors square matrices.
type Decomposer[N tensor.Number] = linalg.Decomposer[N]

// Solve solves a·x = b.
func Solve[N tensor.Number](a, b *tensor.DArray[N], dec Decomposer[N]) (*tensor.DArray[N], error) {
	return linalg.Solve(a, b, dec)
}

// Inverse returns the inverse of the square matrix a.
func Inverse[N tensor.Number](a *tensor.DArray[N], dec Decomposer[N]) (*tensor.DArray[N], error) {
	return linalg.Inverse(a, dec)
}
