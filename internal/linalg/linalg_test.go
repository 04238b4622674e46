package linalg

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/tensor"
)

// diagSolver solves diagonal systems; it stands in for a real factorization.
type diagSolver struct {
	a *tensor.DArray[float64]
}

func (s diagSolver) Solve(b *tensor.DArray[float64]) (*tensor.DArray[float64], error) {
	x := b.Clone()
	n := s.a.Dim(0)
	for i := range n {
		d := s.a.Get(i, i)
		if d == 0 {
			return nil, ErrSingular
		}
		row, err := x.Sel(0, i)
		if err != nil {
			return nil, err
		}
		if row.Rank() == 0 {
			row.Set(row.Item() / d)
			continue
		}
		if err := row.BinaryScalarInPlace(kernel.Div, d); err != nil {
			return nil, err
		}
	}
	return x, nil
}

type stubDecomposer struct {
	luErr, qrErr error
	calls        []string
}

func (d *stubDecomposer) LU(a *tensor.DArray[float64]) (Solver[float64], error) {
	d.calls = append(d.calls, "lu")
	if d.luErr != nil {
		return nil, d.luErr
	}
	return diagSolver{a}, nil
}

func (d *stubDecomposer) QR(a *tensor.DArray[float64]) (Solver[float64], error) {
	d.calls = append(d.calls, "qr")
	if d.qrErr != nil {
		return nil, d.qrErr
	}
	return diagSolver{a}, nil
}

func diag(v ...float64) *tensor.DArray[float64] {
	a := tensor.Zeros[float64](layout.C, len(v), len(v))
	for i, x := range v {
		a.Set(x, i, i)
	}
	return a
}

func TestInverseUsesLU(t *testing.T) {
	dec := &stubDecomposer{}
	inv, err := Inverse[float64](diag(2, 4, 0.5), dec)
	require.NoError(t, err)
	assert.Equal(t, []string{"lu"}, dec.calls)
	assert.True(t, diag(0.5, 0.25, 2).AllClose(inv, 1e-12))
}

func TestInverseFallsBackToQR(t *testing.T) {
	dec := &stubDecomposer{luErr: ErrSingular}
	inv, err := Inverse[float64](diag(2, 4), dec)
	require.NoError(t, err)
	assert.Equal(t, []string{"lu", "qr"}, dec.calls)
	assert.True(t, diag(0.5, 0.25).AllClose(inv, 1e-12))
}

func TestInverseBothFail(t *testing.T) {
	dec := &stubDecomposer{}
	_, err := Inverse[float64](diag(1, 0), dec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingular))
	assert.Equal(t, []string{"lu", "qr"}, dec.calls)
}

func TestSolveVector(t *testing.T) {
	b, err := tensor.FromSlice([]float64{4, 8}, layout.C, 2)
	require.NoError(t, err)
	x, err := Solve[float64](diag(2, 4), b, &stubDecomposer{})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2}, x.ToSlice())
}

func TestContractViolations(t *testing.T) {
	dec := &stubDecomposer{}
	_, err := Inverse[float64](tensor.Zeros[float64](layout.C, 2, 3), dec)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	_, err = Solve[float64](diag(1, 1), tensor.Zeros[float64](layout.C, 3), dec)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	assert.Empty(t, dec.calls)
}
