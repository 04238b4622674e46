// Package movement copies elements between layouts.
//
// Three modes are used depending on the operands:
//
//   - linear: both layouts are dense with identical strides, so the copy is
//     a single contiguous transcription
//   - paired: both layouts are walked in lock-step along the destination's
//     storage order
//   - blocked: large paired copies are cut into cache-sized blocks that are
//     copied concurrently
package movement

import (
	"context"
	"log/slog"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/storage"
)

// Mode is a copy strategy.
type Mode int

// Copy strategies.
const (
	ModeLinear Mode = iota
	ModePaired
	ModeBlocked
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModePaired:
		return "paired"
	case ModeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Threshold returns the element count above which a paired copy is
// blocked: L2 / (elemSize · 2 · workers · 4), at least 1.
func Threshold(elemSize int, cfg parallel.Config) int {
	return max(cfg.L2()/(elemSize*2*cfg.Workers()*4), 1)
}

// Plan selects the copy mode for src and dst layouts of equal shape.
func Plan(src, dst layout.Layout, elemSize int, cfg parallel.Config) Mode {
	if src.IsDense() && dst.IsDense() && sameStrides(src, dst) {
		return ModeLinear
	}
	if cfg.Workers() > 1 && src.Size() > Threshold(elemSize, cfg) {
		return ModeBlocked
	}
	return ModePaired
}

// Copy writes every element of src (addressed by sl) to the logically
// corresponding element of dst (addressed by dl). The layouts must have the
// same shape and must not overlap in a shared buffer.
func Copy[N storage.Number](src []N, sl layout.Layout, dst []N, dl layout.Layout, cfg parallel.Config) error {
	if !sl.Shape().Equal(dl.Shape()) {
		return layout.Invalidf("movement: shape mismatch %v vs %v", sl.Shape(), dl.Shape())
	}
	if !sl.Fits(len(src)) || !dl.Fits(len(dst)) {
		return layout.Invalidf("movement: layout exceeds storage")
	}
	if sl.Size() == 0 {
		return nil
	}

	elemSize := storage.DTypeOf[N]().Size()
	switch Plan(sl, dl, elemSize, cfg) {
	case ModeLinear:
		slo, shi := sl.Span()
		dlo, _ := dl.Span()
		copy(dst[dlo:], src[slo:shi+1])
		return nil
	case ModeBlocked:
		return copyBlocked(src, sl, dst, dl, Threshold(elemSize, cfg), cfg)
	default:
		return copyPaired(src, sl, dst, dl)
	}
}

func copyPaired[N storage.Number](src []N, sl layout.Layout, dst []N, dl layout.Layout) error {
	ds, err := loop.NewDescriptors(layout.S, dl, sl)
	if err != nil {
		return err
	}
	dd, sd := ds[0], ds[1]
	for r, doff := range dd.Offsets {
		soff := sd.Offsets[r]
		if dd.Step == 1 && sd.Step == 1 {
			copy(dst[doff:doff+dd.Bound], src[soff:soff+dd.Bound])
			continue
		}
		p, q := doff, soff
		for range dd.Bound {
			dst[p] = src[q]
			p += dd.Step
			q += sd.Step
		}
	}
	return nil
}

func copyBlocked[N storage.Number](src []N, sl layout.Layout, dst []N, dl layout.Layout, threshold int, cfg parallel.Config) error {
	shape := sl.Shape()
	counts := BlockCounts(shape, threshold)

	total := 1
	for _, c := range counts {
		total *= c
	}
	slog.Debug("movement: blocked copy",
		"shape", shape.String(), "blocks", total, "threshold", threshold, "workers", cfg.Workers())

	tasks := make([]func() error, 0, total)
	starts := make([]int, len(shape))
	ends := make([]int, len(shape))
	block := make([]int, len(shape))
	for range total {
		for ax, b := range block {
			starts[ax], ends[ax] = blockBounds(shape[ax], counts[ax], b)
		}
		sv, err := sl.NarrowAll(true, starts, ends)
		if err != nil {
			return err
		}
		dv, err := dl.NarrowAll(true, starts, ends)
		if err != nil {
			return err
		}
		tasks = append(tasks, func() error {
			return copyPaired(src, sv, dst, dv)
		})

		// Advance the block odometer, last axis fastest.
		for ax := len(block) - 1; ax >= 0; ax-- {
			block[ax]++
			if block[ax] < counts[ax] {
				break
			}
			block[ax] = 0
		}
	}
	return parallel.Run(context.Background(), cfg, tasks)
}

// BlockCounts returns the number of blocks per axis such that each block
// holds at most threshold elements, bisecting the axis with the largest
// block extent until the bound holds or no axis can be split further.
func BlockCounts(shape layout.Shape, threshold int) []int {
	counts := make([]int, len(shape))
	for i := range counts {
		counts[i] = 1
	}
	for {
		size, axis, widest := 1, -1, 1
		for i, dim := range shape {
			ext := ceilDiv(dim, counts[i])
			size *= ext
			if ext > widest {
				axis, widest = i, ext
			}
		}
		if size <= threshold || axis < 0 {
			return counts
		}
		counts[axis] = min(counts[axis]*2, shape[axis])
	}
}

// blockBounds returns the half-open range of block b out of count along an
// axis of length dim.
func blockBounds(dim, count, b int) (start, end int) {
	return b * dim / count, (b + 1) * dim / count
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func sameStrides(a, b layout.Layout) bool {
	for i, dim := range a.Shape() {
		if dim > 1 && a.Stride(i) != b.Stride(i) {
			return false
		}
	}
	return true
}
