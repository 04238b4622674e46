// Package linalg defines the seam between arrays and a decomposition
// library. Decompositions themselves live outside this module; linalg only
// orchestrates them.
package linalg

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/storage"
	"github.com/born-ml/strided/internal/tensor"
)

// ErrSingular is returned by decompositions of singular (or numerically
// rank-deficient) matrices.
var ErrSingular = errors.New("matrix is singular")

// Solver solves A·X = B for the matrix A it was built from.
type Solver[N storage.Number] interface {
	Solve(b *tensor.DArray[N]) (*tensor.DArray[N], error)
}

// Decomposer factors square matrices. Implementations read their input
// through Get, Shape and Transpose and must not retain it.
type Decomposer[N storage.Number] interface {
	LU(a *tensor.DArray[N]) (Solver[N], error)
	QR(a *tensor.DArray[N]) (Solver[N], error)
}

// Solve solves a·x = b, attempting an LU decomposition first and falling
// back to QR when LU fails.
func Solve[N storage.Number](a, b *tensor.DArray[N], dec Decomposer[N]) (*tensor.DArray[N], error) {
	if a.Rank() != 2 || a.Dim(0) != a.Dim(1) {
		return nil, layout.Invalidf("linalg: solve needs a square matrix, got %v", a.Shape())
	}
	if b.Rank() < 1 || b.Rank() > 2 || b.Dim(0) != a.Dim(0) {
		return nil, layout.Invalidf("linalg: right-hand side %v does not match %v", b.Shape(), a.Shape())
	}

	x, luErr := solveWith(dec.LU, a, b)
	if luErr == nil {
		return x, nil
	}
	slog.Debug("linalg: LU failed, falling back to QR", "shape", a.Shape().String(), "err", luErr)

	x, qrErr := solveWith(dec.QR, a, b)
	if qrErr != nil {
		return nil, errors.Wrapf(qrErr, "linalg: LU (%v) and QR both failed", luErr)
	}
	return x, nil
}

// Inverse returns a⁻¹ by solving a·X = I.
func Inverse[N storage.Number](a *tensor.DArray[N], dec Decomposer[N]) (*tensor.DArray[N], error) {
	if a.Rank() != 2 || a.Dim(0) != a.Dim(1) {
		return nil, layout.Invalidf("linalg: inverse needs a square matrix, got %v", a.Shape())
	}
	return Solve(a, tensor.Eye[N](layout.C, a.Dim(0)), dec)
}

func solveWith[N storage.Number](factor func(*tensor.DArray[N]) (Solver[N], error), a, b *tensor.DArray[N]) (*tensor.DArray[N], error) {
	s, err := factor(a)
	if err != nil {
		return nil, err
	}
	return s.Solve(b)
}
