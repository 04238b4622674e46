package kernel

import (
	"github.com/ajroetker/go-highway/hwy"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// BinaryKind enumerates elementwise binary operators.
type BinaryKind int

// Binary operators.
const (
	Add BinaryKind = iota
	Sub
	Mul
	Div
	Min
	Max
)

// String returns the operator name.
func (k BinaryKind) String() string {
	switch k {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// binaryFunc compiles k for N. Integer arithmetic wraps; integer division
// by zero yields 0. Min and Max propagate NaN.
func binaryFunc[N storage.Number](k BinaryKind) func(a, b N) N {
	switch k {
	case Add:
		return func(a, b N) N { return a + b }
	case Sub:
		return func(a, b N) N { return a - b }
	case Mul:
		return func(a, b N) N { return a * b }
	case Div:
		if storage.DTypeOf[N]().IsFloat() {
			return func(a, b N) N { return a / b }
		}
		return func(a, b N) N {
			if b == 0 {
				return 0
			}
			return a / b
		}
	case Min:
		return minProp[N]
	case Max:
		return maxProp[N]
	default:
		panic("kernel: unknown binary operator " + k.String())
	}
}

func minProp[N storage.Number](a, b N) N {
	if isNaN(a) {
		return a
	}
	if isNaN(b) || b < a {
		return b
	}
	return a
}

func maxProp[N storage.Number](a, b N) N {
	if isNaN(a) {
		return a
	}
	if isNaN(b) || b > a {
		return b
	}
	return a
}

// Binary computes dst = k(dst, src) elementwise. dd and sd must come from
// one loop.NewDescriptors call so that they walk in lock-step.
func Binary[N storage.Number](k BinaryKind, dst []N, dd loop.Descriptor, src []N, sd loop.Descriptor) error {
	return binaryApply(binaryFunc[N](k), binaryVec[N](k), dst, dd, src, sd)
}

// BinaryScalar computes dst = k(dst, v) elementwise.
func BinaryScalar[N storage.Number](k BinaryKind, dst []N, dd loop.Descriptor, v N) {
	if path := SelectPath(storage.DTypeOf[N](), dd); path != PathScalar {
		if vf := binaryVec[N](k); vf != nil {
			c := hwy.Set(v)
			g := func(x hwy.Vec[N]) hwy.Vec[N] { return vf(x, c) }
			if mapRuns(g, dst, dd, path == PathUnit) {
				return
			}
		}
	}
	f := binaryFunc[N](k)
	unaryScalar(func(x N) N { return f(x, v) }, dst, dd)
}

// Fma computes dst += a*src elementwise. The product is rounded before the
// addition on every path.
func Fma[N storage.Number](dst []N, dd loop.Descriptor, a N, src []N, sd loop.Descriptor) error {
	return binaryApply(func(x, y N) N { return x + N(a*y) }, fmaVec(a), dst, dd, src, sd)
}

func binaryApply[N storage.Number](f func(a, b N) N, vf vecFn2[N], dst []N, dd loop.Descriptor, src []N, sd loop.Descriptor) error {
	if dd.Bound != sd.Bound || dd.Runs() != sd.Runs() {
		return layout.Invalidf("kernel: descriptors do not match (%d×%d vs %d×%d)",
			dd.Runs(), dd.Bound, sd.Runs(), sd.Bound)
	}
	if path := SelectPath(storage.DTypeOf[N](), dd, sd); path != PathScalar && mapRuns2(vf, dst, dd, src, sd, path == PathUnit) {
		return nil
	}
	binaryScalar(f, dst, dd, src, sd)
	return nil
}

func binaryScalar[N storage.Number](f func(a, b N) N, dst []N, dd loop.Descriptor, src []N, sd loop.Descriptor) {
	for r, off := range dd.Offsets {
		p, q := off, sd.Offsets[r]
		for range dd.Bound {
			dst[p] = f(dst[p], src[q])
			p += dd.Step
			q += sd.Step
		}
	}
}
