// Package kernel executes elementwise, binary and reduction operators over
// loop descriptors.
//
// Every operator has three execution paths selected once per call from the
// descriptor steps and the dispatch level:
//
//   - unit: contiguous runs loaded straight into hwy vectors
//   - strided: run elements gathered into a lane buffer, computed as one
//     vector, then scattered back at the run step
//   - scalar: one element at a time (dispatch level scalar, short runs,
//     integer division, defined element types)
//
// Reductions split long runs over a fixed number of accumulators, so their
// rounding does not depend on the path or on the host vector width.
package kernel

import (
	"math"

	"github.com/born-ml/strided/internal/cpuinfo"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// Path is a kernel execution strategy.
type Path int

// Execution paths.
const (
	PathScalar Path = iota
	PathUnit
	PathStrided
)

// String returns the path name.
func (p Path) String() string {
	switch p {
	case PathUnit:
		return "unit"
	case PathStrided:
		return "strided"
	default:
		return "scalar"
	}
}

// SelectPath chooses the execution path for descriptors consumed in
// lock-step. Vector paths need a SIMD dispatch level and runs of at least
// one full vector.
func SelectPath(dtype storage.DType, descs ...loop.Descriptor) Path {
	if cpuinfo.CurrentLevel() == cpuinfo.LevelScalar {
		return PathScalar
	}
	if len(descs) == 0 || descs[0].Bound < cpuinfo.Lanes(dtype.Size()) {
		return PathScalar
	}
	for _, d := range descs {
		if d.Step != 1 {
			return PathStrided
		}
	}
	return PathUnit
}

// maxValue returns the largest finite-or-infinite value of N
// (+Inf for floats).
func maxValue[N storage.Number]() N {
	switch storage.DTypeOf[N]() {
	case storage.Int8:
		return storage.FromFloat64[N](math.MaxInt8)
	case storage.Int32:
		return storage.FromFloat64[N](math.MaxInt32)
	default:
		return storage.FromFloat64[N](math.Inf(1))
	}
}

// minValue returns the smallest value of N (-Inf for floats).
func minValue[N storage.Number]() N {
	switch storage.DTypeOf[N]() {
	case storage.Int8:
		return storage.FromFloat64[N](math.MinInt8)
	case storage.Int32:
		return storage.FromFloat64[N](math.MinInt32)
	default:
		return storage.FromFloat64[N](math.Inf(-1))
	}
}

// nan returns NaN for floats and zero for integers.
func nan[N storage.Number]() N {
	if storage.DTypeOf[N]().IsFloat() {
		return storage.FromFloat64[N](math.NaN())
	}
	return 0
}

func isNaN[N storage.Number](v N) bool {
	return v != v
}
