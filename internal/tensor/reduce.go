package tensor

import (
	"math"

	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
)

// Reductions over all elements. Order-insensitive ones walk storage order;
// positional ones walk C order.

func (t *DArray[N]) reduce(k kernel.ReduceKind) N {
	v, _ := kernel.Reduce(k, t.storage.Data(), loop.NewDescriptor(t.layout, layout.S))
	return v
}

// Sum returns the sum of all elements (0 when empty).
func (t *DArray[N]) Sum() N { return t.reduce(kernel.Sum) }

// Prod returns the product of all elements (1 when empty).
func (t *DArray[N]) Prod() N { return t.reduce(kernel.Prod) }

// Min returns the smallest element. NaN propagates; an empty float array
// yields NaN and an empty integer array 0.
func (t *DArray[N]) Min() N { return t.reduce(kernel.MinOf) }

// Max returns the largest element, with the same NaN and empty rules as Min.
func (t *DArray[N]) Max() N { return t.reduce(kernel.MaxOf) }

// NanSum returns the sum of the non-NaN elements.
func (t *DArray[N]) NanSum() N { return t.reduce(kernel.NanSum) }

// NanProd returns the product of the non-NaN elements.
func (t *DArray[N]) NanProd() N { return t.reduce(kernel.NanProd) }

// NanMin returns the smallest non-NaN element (NaN if there is none).
func (t *DArray[N]) NanMin() N { return t.reduce(kernel.NanMin) }

// NanMax returns the largest non-NaN element (NaN if there is none).
func (t *DArray[N]) NanMax() N { return t.reduce(kernel.NanMax) }

// NanCount returns the number of NaN elements.
func (t *DArray[N]) NanCount() int {
	return kernel.NanCount(t.storage.Data(), loop.NewDescriptor(t.layout, layout.S))
}

// Mean returns the arithmetic mean, accumulated in float64.
func (t *DArray[N]) Mean() float64 {
	m, _ := kernel.Mean(t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), false)
	return m
}

// NanMean returns the mean of the non-NaN elements.
func (t *DArray[N]) NanMean() float64 {
	m, _ := kernel.Mean(t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), true)
	return m
}

// Var returns the variance with ddof delta degrees of freedom; NaN when
// fewer than ddof+1 elements contribute.
func (t *DArray[N]) Var(ddof int) float64 {
	return kernel.Variance(t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), ddof, false)
}

// NanVar returns the variance of the non-NaN elements.
func (t *DArray[N]) NanVar(ddof int) float64 {
	return kernel.Variance(t.storage.Data(), loop.NewDescriptor(t.layout, layout.S), ddof, true)
}

// Std returns the standard deviation with ddof delta degrees of freedom.
func (t *DArray[N]) Std(ddof int) float64 {
	return math.Sqrt(t.Var(ddof))
}

// NanStd returns the standard deviation of the non-NaN elements.
func (t *DArray[N]) NanStd(ddof int) float64 {
	return math.Sqrt(t.NanVar(ddof))
}

// ArgMin returns the C-order position of the smallest element, -1 when
// empty. A NaN counts as smallest; ties go to the first position.
func (t *DArray[N]) ArgMin() int {
	return kernel.ArgReduce(false, t.storage.Data(), loop.NewDescriptor(t.layout, layout.C))
}

// ArgMax returns the C-order position of the largest element, -1 when
// empty. A NaN counts as largest; ties go to the first position.
func (t *DArray[N]) ArgMax() int {
	return kernel.ArgReduce(true, t.storage.Data(), loop.NewDescriptor(t.layout, layout.C))
}

// ReduceAxis folds axis with k. The result is C-ordered; with keepDim the
// reduced axis stays with size 1.
//
// Example:
//
//	t := tensor.Seq[int32](layout.C, 2, 3)
//	s, _ := t.ReduceAxis(kernel.Sum, 1, false) // [3 12]
func (t *DArray[N]) ReduceAxis(k kernel.ReduceKind, axis int, keepDim bool) (*DArray[N], error) {
	return reduceAxis(t, axis, keepDim, func(data []N, d loop.Descriptor) N {
		v, _ := kernel.Reduce(k, data, d)
		return v
	})
}

// MeanAxis returns the float64 mean along axis.
func (t *DArray[N]) MeanAxis(axis int, keepDim bool) (*DArray[float64], error) {
	return reduceAxis(t, axis, keepDim, func(data []N, d loop.Descriptor) float64 {
		m, _ := kernel.Mean(data, d, false)
		return m
	})
}

// VarAxis returns the float64 variance along axis.
func (t *DArray[N]) VarAxis(axis, ddof int, keepDim bool) (*DArray[float64], error) {
	return reduceAxis(t, axis, keepDim, func(data []N, d loop.Descriptor) float64 {
		return kernel.Variance(data, d, ddof, false)
	})
}

// ArgMinAxis returns the positions of the minima along axis.
func (t *DArray[N]) ArgMinAxis(axis int, keepDim bool) (*DArray[int32], error) {
	return reduceAxis(t, axis, keepDim, func(data []N, d loop.Descriptor) int32 {
		return int32(kernel.ArgReduce(false, data, d))
	})
}

// ArgMaxAxis returns the positions of the maxima along axis.
func (t *DArray[N]) ArgMaxAxis(axis int, keepDim bool) (*DArray[int32], error) {
	return reduceAxis(t, axis, keepDim, func(data []N, d loop.Descriptor) int32 {
		return int32(kernel.ArgReduce(true, data, d))
	})
}

func reduceAxis[N, R storage.Number](t *DArray[N], axis int, keepDim bool, f func([]N, loop.Descriptor) R) (*DArray[R], error) {
	d, err := axisRuns(t.layout, axis)
	if err != nil {
		return nil, err
	}
	ax, _ := layout.NormAxis(axis, t.Rank())
	shape := t.Shape().Clone()
	if keepDim {
		shape[ax] = 1
	} else {
		shape = append(shape[:ax:ax], shape[ax+1:]...)
	}

	out := Zeros[R](layout.C, shape...)
	od := out.storage.Data()
	data := t.storage.Data()
	parallel.For(len(d.Offsets), func(i int) {
		od[i] = f(data, loop.Descriptor{Offsets: d.Offsets[i : i+1], Bound: d.Bound, Step: d.Step})
	}, Config())
	return out, nil
}
