// Package matmul implements the cache-blocked parallel matrix product and
// the matrix-vector kernels built on the kernel dot product.
package matmul

import (
	"context"
	"log/slog"
	"math"

	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/movement"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
)

// Blocking holds the tile sizes of one product.
type Blocking struct {
	Chunk       int // base chunk derived from the L2 cache size
	InnerChunk  int // output tile edge (rows and columns)
	VectorChunk int // reduction range accumulated per pass
}

// NewBlocking derives tile sizes from the cache size and worker count:
// chunk = floor(sqrt(L2 / 2 / workers / elemSize)) rounded down to a
// multiple of 8 (at least 8). Above 64 the reduction range grows to
// 4·chunk and the tile edge shrinks to chunk/4.
func NewBlocking(elemSize int, cfg parallel.Config) Blocking {
	chunk := int(math.Sqrt(float64(cfg.L2()) / 2 / float64(cfg.Workers()) / float64(elemSize)))
	chunk = max(chunk/8*8, 8)
	b := Blocking{Chunk: chunk, InnerChunk: chunk, VectorChunk: chunk}
	if chunk > 64 {
		b.VectorChunk = 4 * chunk
		b.InnerChunk = max(chunk/4/8*8, 8)
	}
	return b
}

// ValidOrder rejects result orders other than C and F.
func ValidOrder(order layout.Order) error {
	if order != layout.C && order != layout.F {
		return layout.Invalidf("matmul: result order must be C or F, got %s", order)
	}
	return nil
}

// MM computes c = a·b for an m×k matrix a, a k×n matrix b and an m×n
// destination c, which is overwritten. c must not share storage with a or
// b and must not repeat addresses.
func MM[N storage.Number](a []N, al layout.Layout, b []N, bl layout.Layout, c []N, cl layout.Layout, cfg parallel.Config) error {
	if al.Rank() != 2 || bl.Rank() != 2 || cl.Rank() != 2 {
		return layout.Invalidf("matmul: mm needs matrices, got ranks %d, %d, %d", al.Rank(), bl.Rank(), cl.Rank())
	}
	m, k, n := al.Dim(0), al.Dim(1), bl.Dim(1)
	if bl.Dim(0) != k {
		return layout.Invalidf("matmul: inner dimensions differ: %v · %v", al.Shape(), bl.Shape())
	}
	if cl.Dim(0) != m || cl.Dim(1) != n {
		return layout.Invalidf("matmul: result shape %v, want [%d %d]", cl.Shape(), m, n)
	}
	if cl.HasZeroStride() {
		return layout.Invalidf("matmul: result layout repeats addresses")
	}
	if m == 0 || n == 0 {
		return nil
	}

	// Rows of a and columns of b become contiguous runs of length k.
	ad, aoff, err := pack(a, al, layout.C, cfg)
	if err != nil {
		return err
	}
	bd, boff, err := pack(b, bl, layout.F, cfg)
	if err != nil {
		return err
	}

	blk := NewBlocking(storage.DTypeOf[N]().Size(), cfg)
	tile, vc := blk.InnerChunk, blk.VectorChunk
	cs0, cs1, coff := cl.Stride(0), cl.Stride(1), cl.Offset()

	var tasks []func() error
	for i0 := 0; i0 < m; i0 += tile {
		for j0 := 0; j0 < n; j0 += tile {
			i1, j1 := min(i0+tile, m), min(j0+tile, n)
			tasks = append(tasks, func() error {
				for i := i0; i < i1; i++ {
					for j := j0; j < j1; j++ {
						c[coff+i*cs0+j*cs1] = 0
					}
				}
				for k0 := 0; k0 < k; k0 += vc {
					kn := min(vc, k-k0)
					for i := i0; i < i1; i++ {
						arow := aoff + i*k + k0
						for j := j0; j < j1; j++ {
							c[coff+i*cs0+j*cs1] += kernel.Dot(ad, arow, 1, bd, boff+j*k+k0, 1, kn)
						}
					}
				}
				return nil
			})
		}
	}
	slog.Debug("matmul: blocked product",
		"m", m, "k", k, "n", n, "tile", tile, "vector", vc, "tasks", len(tasks), "workers", cfg.Workers())
	return parallel.Run(context.Background(), cfg, tasks)
}

// pack returns a buffer and base offset where l's elements are dense in
// order, copying only when l is not already dense in that order.
func pack[N storage.Number](data []N, l layout.Layout, order layout.Order, cfg parallel.Config) ([]N, int, error) {
	if (order == layout.C && l.IsCOrdered()) || (order == layout.F && l.IsFOrdered()) {
		return data, l.Offset(), nil
	}
	dl := layout.NewDense(l.Shape(), order)
	out := make([]N, dl.Size())
	if err := movement.Copy(data, l, out, dl, cfg); err != nil {
		return nil, 0, err
	}
	return out, 0, nil
}

// MV computes y = a·x for an m×k matrix a and a length-k vector x into a
// length-m vector y.
func MV[N storage.Number](a []N, al layout.Layout, x []N, xl layout.Layout, y []N, yl layout.Layout, cfg parallel.Config) error {
	if al.Rank() != 2 || xl.Rank() != 1 || yl.Rank() != 1 {
		return layout.Invalidf("matmul: mv needs a matrix and vectors, got ranks %d, %d, %d", al.Rank(), xl.Rank(), yl.Rank())
	}
	m, k := al.Dim(0), al.Dim(1)
	if xl.Dim(0) != k || yl.Dim(0) != m {
		return layout.Invalidf("matmul: mv shapes %v · %v -> %v", al.Shape(), xl.Shape(), yl.Shape())
	}
	as0, as1, aoff := al.Stride(0), al.Stride(1), al.Offset()
	xs, xoff := xl.Stride(0), xl.Offset()
	ys, yoff := yl.Stride(0), yl.Offset()
	parallel.For(m, func(i int) {
		y[yoff+i*ys] = kernel.Dot(a, aoff+i*as0, as1, x, xoff, xs, k)
	}, cfg)
	return nil
}

// VTM computes y = x·a for a length-k vector x and a k×n matrix a into a
// length-n vector y.
func VTM[N storage.Number](x []N, xl layout.Layout, a []N, al layout.Layout, y []N, yl layout.Layout, cfg parallel.Config) error {
	if al.Rank() != 2 || xl.Rank() != 1 || yl.Rank() != 1 {
		return layout.Invalidf("matmul: vtm needs vectors and a matrix, got ranks %d, %d, %d", xl.Rank(), al.Rank(), yl.Rank())
	}
	k, n := al.Dim(0), al.Dim(1)
	if xl.Dim(0) != k || yl.Dim(0) != n {
		return layout.Invalidf("matmul: vtm shapes %v · %v -> %v", xl.Shape(), al.Shape(), yl.Shape())
	}
	as0, as1, aoff := al.Stride(0), al.Stride(1), al.Offset()
	xs, xoff := xl.Stride(0), xl.Offset()
	ys, yoff := yl.Stride(0), yl.Offset()
	parallel.For(n, func(j int) {
		y[yoff+j*ys] = kernel.Dot(x, xoff, xs, a, aoff+j*as1, as0, k)
	}, cfg)
	return nil
}
