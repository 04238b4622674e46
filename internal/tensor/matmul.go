package tensor

import (
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/matmul"
)

// Mm returns the matrix product of t (m×k) and other (k×n) as an m×n array
// dense in order, which must be C or F.
func (t *DArray[N]) Mm(other *DArray[N], order layout.Order) (*DArray[N], error) {
	if err := matmul.ValidOrder(order); err != nil {
		return nil, err
	}
	if t.Rank() != 2 || other.Rank() != 2 {
		return nil, layout.Invalidf("tensor: mm needs matrices, got %v and %v", t.Shape(), other.Shape())
	}
	out := Zeros[N](order, t.Dim(0), other.Dim(1))
	if err := matmul.MM(t.storage.Data(), t.layout, other.storage.Data(), other.layout,
		out.storage.Data(), out.layout, Config()); err != nil {
		return nil, err
	}
	return out, nil
}

// Mv returns the product of matrix t (m×k) and vector x (k).
func (t *DArray[N]) Mv(x *DArray[N]) (*DArray[N], error) {
	if t.Rank() != 2 || x.Rank() != 1 {
		return nil, layout.Invalidf("tensor: mv needs a matrix and a vector, got %v and %v", t.Shape(), x.Shape())
	}
	out := Zeros[N](layout.C, t.Dim(0))
	if err := matmul.MV(t.storage.Data(), t.layout, x.storage.Data(), x.layout,
		out.storage.Data(), out.layout, Config()); err != nil {
		return nil, err
	}
	return out, nil
}

// Vtm returns the product of vector t (k) and matrix a (k×n).
func (t *DArray[N]) Vtm(a *DArray[N]) (*DArray[N], error) {
	if t.Rank() != 1 || a.Rank() != 2 {
		return nil, layout.Invalidf("tensor: vtm needs a vector and a matrix, got %v and %v", t.Shape(), a.Shape())
	}
	out := Zeros[N](layout.C, a.Dim(1))
	if err := matmul.VTM(t.storage.Data(), t.layout, a.storage.Data(), a.layout,
		out.storage.Data(), out.layout, Config()); err != nil {
		return nil, err
	}
	return out, nil
}

// Bmm multiplies batches of matrices: [B1, m, k] · [B2, k, n] -> [B, m, n]
// where a batch size of 1 matches any other. Every result matrix is dense
// in order.
func (t *DArray[N]) Bmm(other *DArray[N], order layout.Order) (*DArray[N], error) {
	if err := matmul.ValidOrder(order); err != nil {
		return nil, err
	}
	if t.Rank() != 3 || other.Rank() != 3 {
		return nil, layout.Invalidf("tensor: bmm needs rank-3 arrays, got %v and %v", t.Shape(), other.Shape())
	}
	batch, err := batchSize(t.Dim(0), other.Dim(0))
	if err != nil {
		return nil, err
	}
	m, n := t.Dim(1), other.Dim(2)
	out := Zeros[N](layout.C, batch, m, n)
	if order == layout.F {
		// Batch outermost, each matrix column-major.
		if out.layout, err = layout.New(out.Shape(), 0, []int{m * n, 1, max(m, 1)}); err != nil {
			return nil, err
		}
	}
	return out, t.batched(other, out, batch, func(a, b, c *DArray[N]) error {
		return matmul.MM(a.storage.Data(), a.layout, b.storage.Data(), b.layout,
			c.storage.Data(), c.layout, Config())
	})
}

// Bmv multiplies batches of matrices by batches of vectors:
// [B1, m, k] · [B2, k] -> [B, m].
func (t *DArray[N]) Bmv(x *DArray[N]) (*DArray[N], error) {
	if t.Rank() != 3 || x.Rank() != 2 {
		return nil, layout.Invalidf("tensor: bmv needs rank-3 and rank-2 arrays, got %v and %v", t.Shape(), x.Shape())
	}
	batch, err := batchSize(t.Dim(0), x.Dim(0))
	if err != nil {
		return nil, err
	}
	out := Zeros[N](layout.C, batch, t.Dim(1))
	return out, t.batched(x, out, batch, func(a, v, y *DArray[N]) error {
		return matmul.MV(a.storage.Data(), a.layout, v.storage.Data(), v.layout,
			y.storage.Data(), y.layout, Config())
	})
}

// Bvtm multiplies batches of vectors by batches of matrices:
// [B1, k] · [B2, k, n] -> [B, n].
func (t *DArray[N]) Bvtm(a *DArray[N]) (*DArray[N], error) {
	if t.Rank() != 2 || a.Rank() != 3 {
		return nil, layout.Invalidf("tensor: bvtm needs rank-2 and rank-3 arrays, got %v and %v", t.Shape(), a.Shape())
	}
	batch, err := batchSize(t.Dim(0), a.Dim(0))
	if err != nil {
		return nil, err
	}
	out := Zeros[N](layout.C, batch, a.Dim(2))
	return out, t.batched(a, out, batch, func(v, m, y *DArray[N]) error {
		return matmul.VTM(v.storage.Data(), v.layout, m.storage.Data(), m.layout,
			y.storage.Data(), y.layout, Config())
	})
}

// batched runs op on the batch slices of t, other and out; a batch axis of
// size 1 is reused for every batch.
func (t *DArray[N]) batched(other, out *DArray[N], batch int, op func(a, b, c *DArray[N]) error) error {
	for i := range batch {
		a, err := t.Sel(0, min(i, t.Dim(0)-1))
		if err != nil {
			return err
		}
		b, err := other.Sel(0, min(i, other.Dim(0)-1))
		if err != nil {
			return err
		}
		c, err := out.Sel(0, i)
		if err != nil {
			return err
		}
		if err := op(a, b, c); err != nil {
			return err
		}
	}
	return nil
}

func batchSize(a, b int) (int, error) {
	switch {
	case a == b:
		return a, nil
	case a == 1:
		return b, nil
	case b == 1:
		return a, nil
	default:
		return 0, layout.Invalidf("tensor: batch sizes %d and %d do not broadcast", a, b)
	}
}

// Dot returns the inner product of two vectors of equal length.
func (t *DArray[N]) Dot(other *DArray[N]) (N, error) {
	if t.Rank() != 1 || other.Rank() != 1 || t.Dim(0) != other.Dim(0) {
		return 0, layout.Invalidf("tensor: dot needs vectors of equal length, got %v and %v", t.Shape(), other.Shape())
	}
	return kernel.Dot(t.storage.Data(), t.layout.Offset(), t.layout.Stride(0),
		other.storage.Data(), other.layout.Offset(), other.layout.Stride(0), t.Dim(0)), nil
}

// MatMul dispatches on the operand ranks:
//
//	1·1 -> Dot (rank-0 result)
//	2·1 -> Mv     1·2 -> Vtm     2·2 -> Mm
//	3·2 -> Bmv    2·3 -> Bvtm    3·3 -> Bmm
//
// order (C or F) applies to matrix results.
func (t *DArray[N]) MatMul(other *DArray[N], order layout.Order) (*DArray[N], error) {
	if err := matmul.ValidOrder(order); err != nil {
		return nil, err
	}
	switch [2]int{t.Rank(), other.Rank()} {
	case [2]int{1, 1}:
		v, err := t.Dot(other)
		if err != nil {
			return nil, err
		}
		return Scalar(v), nil
	case [2]int{2, 1}:
		return t.Mv(other)
	case [2]int{1, 2}:
		return t.Vtm(other)
	case [2]int{2, 2}:
		return t.Mm(other, order)
	case [2]int{3, 2}:
		return t.Bmv(other)
	case [2]int{2, 3}:
		return t.Bvtm(other)
	case [2]int{3, 3}:
		return t.Bmm(other, order)
	default:
		return nil, layout.Invalidf("tensor: matmul not defined for ranks %d and %d", t.Rank(), other.Rank())
	}
}
