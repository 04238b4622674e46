package kernel

import (
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// fold reduces the elements visited by d into an accumulator of type A.
//
// A run shorter than foldWidth is stepped sequentially from init. A longer
// run starts foldWidth fresh accumulators, feeds element i of each chunk
// into accumulator i, merges them left to right and steps the tail into the
// result. Run results are merged into init in traversal order. The order
// depends only on the descriptor, never on the dispatch level, which is
// what lets reduceVec reproduce it bit for bit.
func fold[N storage.Number, A any](data []N, d loop.Descriptor, init A, step func(A, N) A, merge func(A, A) A) A {
	var accs [foldWidth]A
	total := init
	for _, off := range d.Offsets {
		run := init
		i := 0
		if d.Bound >= foldWidth {
			for j := range accs {
				accs[j] = init
			}
			for ; i+foldWidth <= d.Bound; i += foldWidth {
				p := off + i*d.Step
				for j := range accs {
					accs[j] = step(accs[j], data[p])
					p += d.Step
				}
			}
			run = accs[0]
			for _, a := range accs[1:] {
				run = merge(run, a)
			}
		}
		for ; i < d.Bound; i++ {
			run = step(run, data[off+i*d.Step])
		}
		total = merge(total, run)
	}
	return total
}
