package kernel

import (
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// ReduceKind enumerates full reductions.
type ReduceKind int

// Reductions. The Nan variants skip NaN elements; the plain variants
// propagate them.
const (
	Sum ReduceKind = iota
	Prod
	MinOf
	MaxOf
	NanSum
	NanProd
	NanMin
	NanMax
)

var reduceNames = [...]string{"sum", "prod", "min", "max", "nansum", "nanprod", "nanmin", "nanmax"}

// String returns the reduction name.
func (k ReduceKind) String() string {
	if k < 0 || int(k) >= len(reduceNames) {
		return "unknown"
	}
	return reduceNames[k]
}

// SkipsNaN reports whether k ignores NaN elements.
func (k ReduceKind) SkipsNaN() bool {
	return k >= NanSum
}

type partial[N storage.Number] struct {
	v N
	n int
}

// Reduce folds the elements visited by d with k. It returns the result and
// the number of contributing elements (non-NaN ones for the Nan variants).
// Every path accumulates in fold's order, so float results do not depend
// on the dispatch level or the vector width of the host.
//
// Empty input yields the identity for sums and products. Min and max of an
// empty (or, for NanMin/NanMax, all-NaN) input is NaN for floats and 0 for
// integers.
func Reduce[N storage.Number](k ReduceKind, data []N, d loop.Descriptor) (N, int) {
	var (
		f    func(a, b N) N
		init N
	)
	switch k {
	case Sum, NanSum:
		f, init = func(a, b N) N { return a + b }, 0
	case Prod, NanProd:
		f, init = func(a, b N) N { return a * b }, 1
	case MinOf, NanMin:
		f, init = minProp[N], maxValue[N]()
	case MaxOf, NanMax:
		f, init = maxProp[N], minValue[N]()
	default:
		panic("kernel: unknown reduction " + k.String())
	}

	skip := k.SkipsNaN() && storage.DTypeOf[N]().IsFloat()
	step := func(a partial[N], x N) partial[N] {
		if skip && isNaN(x) {
			return a
		}
		return partial[N]{f(a.v, x), a.n + 1}
	}
	merge := func(a, b partial[N]) partial[N] {
		return partial[N]{f(a.v, b.v), a.n + b.n}
	}
	var res partial[N]
	ok := false
	if path := SelectPath(storage.DTypeOf[N](), d); path != PathScalar {
		res, ok = reduceVec(k, data, d, path == PathUnit, f, init)
	}
	if !ok {
		res = fold(data, d, partial[N]{v: init}, step, merge)
	}

	if res.n == 0 && (k == MinOf || k == MaxOf || k == NanMin || k == NanMax) {
		return nan[N](), 0
	}
	return res.v, res.n
}

// NanCount returns the number of NaN elements visited by d.
func NanCount[N storage.Number](data []N, d loop.Descriptor) int {
	if !storage.DTypeOf[N]().IsFloat() {
		return 0
	}
	step := func(a int, x N) int {
		if isNaN(x) {
			return a + 1
		}
		return a
	}
	return fold(data, d, 0, step, func(a, b int) int { return a + b })
}

// ArgReduce returns the traversal position of the minimum (largest false)
// or maximum (largest true) element visited by d, or -1 when d is empty. NaN counts
// as the extreme value, so the first NaN wins; ties resolve to the smallest
// position.
func ArgReduce[N storage.Number](largest bool, data []N, d loop.Descriptor) int {
	best, pos := -1, 0
	var bv N
	for _, off := range d.Offsets {
		p := off
		for range d.Bound {
			x := data[p]
			switch {
			case best < 0:
				best, bv = pos, x
			case isNaN(x):
				best, bv = pos, x
			case largest && x > bv, !largest && x < bv:
				best, bv = pos, x
			}
			if isNaN(bv) {
				return best
			}
			p += d.Step
			pos++
		}
	}
	return best
}
