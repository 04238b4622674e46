package kernel

import (
	"github.com/ajroetker/go-highway/hwy"
	hmath "github.com/ajroetker/go-highway/hwy/contrib/math"

	"github.com/born-ml/strided/internal/cpuinfo"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// foldWidth is the number of partial accumulators a run of at least
// foldWidth elements is split into. Element i of every chunk feeds
// accumulator i on every path and every host, so float reductions round
// identically whatever the vector width.
const foldWidth = 16

type vecFn[N storage.Number] func(hwy.Vec[N]) hwy.Vec[N]

type vecFn2[N storage.Number] func(a, b hwy.Vec[N]) hwy.Vec[N]

// vecLanes returns the hwy vector length for N, or 0 when N is a defined
// type (hwy's portable ops switch on the exact lane type) or the length
// does not fit a kernel lane buffer.
func vecLanes[N storage.Number]() int {
	switch any(*new(N)).(type) {
	case float32, float64, int8, int32:
	default:
		return 0
	}
	w := hwy.MaxLanes[N]()
	if w < 1 || w > cpuinfo.MaxLanes {
		return 0
	}
	return w
}

func gather[N storage.Number](dst, data []N, base, step int) {
	for j := range dst {
		dst[j] = data[base+j*step]
	}
}

func scatter[N storage.Number](data []N, base, step int, src []N) {
	for j, v := range src {
		data[base+j*step] = v
	}
}

// mapRuns applies f to every run of d one vector at a time. Strided chunks
// are gathered into a lane buffer and scattered back; the run tail goes
// through the same buffer zero-padded. It reports false when N has no
// usable vector length.
func mapRuns[N storage.Number](f vecFn[N], data []N, d loop.Descriptor, unit bool) bool {
	w := vecLanes[N]()
	if w == 0 || f == nil {
		return false
	}
	var buf [cpuinfo.MaxLanes]N
	lane := buf[:w]
	for _, off := range d.Offsets {
		i := 0
		if unit {
			run := data[off : off+d.Bound : off+d.Bound]
			for ; i+w <= len(run); i += w {
				hwy.Store(f(hwy.Load(run[i:])), run[i:])
			}
		} else {
			for ; i+w <= d.Bound; i += w {
				base := off + i*d.Step
				gather(lane, data, base, d.Step)
				hwy.Store(f(hwy.Load(lane)), lane)
				scatter(data, base, d.Step, lane)
			}
		}
		if rest := d.Bound - i; rest > 0 {
			clear(lane)
			base := off + i*d.Step
			gather(lane[:rest], data, base, d.Step)
			hwy.Store(f(hwy.Load(lane)), lane)
			scatter(data, base, d.Step, lane[:rest])
		}
	}
	return true
}

// mapRuns2 computes dst = f(dst, src) over descriptors walking in lock-step.
func mapRuns2[N storage.Number](f vecFn2[N], dst []N, dd loop.Descriptor, src []N, sd loop.Descriptor, unit bool) bool {
	w := vecLanes[N]()
	if w == 0 || f == nil {
		return false
	}
	var bufA, bufB [cpuinfo.MaxLanes]N
	la, lb := bufA[:w], bufB[:w]
	n := dd.Bound
	for r, off := range dd.Offsets {
		soff := sd.Offsets[r]
		i := 0
		if unit {
			a := dst[off : off+n : off+n]
			b := src[soff : soff+n : soff+n]
			for ; i+w <= n; i += w {
				hwy.Store(f(hwy.Load(a[i:]), hwy.Load(b[i:])), a[i:])
			}
		} else {
			for ; i+w <= n; i += w {
				baseA, baseB := off+i*dd.Step, soff+i*sd.Step
				gather(la, dst, baseA, dd.Step)
				gather(lb, src, baseB, sd.Step)
				hwy.Store(f(hwy.Load(la), hwy.Load(lb)), la)
				scatter(dst, baseA, dd.Step, la)
			}
		}
		if rest := n - i; rest > 0 {
			clear(la)
			clear(lb)
			baseA, baseB := off+i*dd.Step, soff+i*sd.Step
			gather(la[:rest], dst, baseA, dd.Step)
			gather(lb[:rest], src, baseB, sd.Step)
			hwy.Store(f(hwy.Load(la), hwy.Load(lb)), la)
			scatter(dst, baseA, dd.Step, la[:rest])
		}
	}
	return true
}

func isNaNVec[N storage.Number](v hwy.Vec[N]) hwy.Mask[N] {
	return hwy.NotEqual(v, v)
}

// minVec and maxVec match minProp and maxProp lane by lane.
func minVec[N storage.Number](a, b hwy.Vec[N]) hwy.Vec[N] {
	pick := hwy.MaskOr(isNaNVec(b), hwy.LessThan(b, a))
	return hwy.IfThenElse(isNaNVec(a), a, hwy.IfThenElse(pick, b, a))
}

func maxVec[N storage.Number](a, b hwy.Vec[N]) hwy.Vec[N] {
	pick := hwy.MaskOr(isNaNVec(b), hwy.GreaterThan(b, a))
	return hwy.IfThenElse(isNaNVec(a), a, hwy.IfThenElse(pick, b, a))
}

func compareVec[N storage.Number](c Comparison, x, v hwy.Vec[N]) hwy.Mask[N] {
	switch c {
	case LT:
		return hwy.LessThan(x, v)
	case LE:
		return hwy.LessEqual(x, v)
	case GT:
		return hwy.GreaterThan(x, v)
	case GE:
		return hwy.GreaterEqual(x, v)
	case EQ:
		return hwy.Equal(x, v)
	default:
		return hwy.NotEqual(x, v)
	}
}

// unaryVec returns the vector form of op for N, or nil when it has none.
func unaryVec[N storage.Number](op UnaryOp) vecFn[N] {
	switch op.Kind {
	case Abs:
		return hwy.Abs[N]
	case Neg:
		return hwy.Neg[N]
	case Sqr:
		return func(v hwy.Vec[N]) hwy.Vec[N] { return hwy.Mul(v, v) }
	case Clamp:
		lo, hi := hwy.Set(storage.FromFloat64[N](op.A)), hwy.Set(storage.FromFloat64[N](op.B))
		return func(v hwy.Vec[N]) hwy.Vec[N] {
			v = hwy.IfThenElse(hwy.LessThan(v, lo), lo, v)
			return hwy.IfThenElse(hwy.GreaterThan(v, hi), hi, v)
		}
	case Fill:
		c := hwy.Set(storage.FromFloat64[N](op.A))
		return func(hwy.Vec[N]) hwy.Vec[N] { return c }
	case FillNaN:
		c := hwy.Set(storage.FromFloat64[N](op.A))
		return func(v hwy.Vec[N]) hwy.Vec[N] { return hwy.IfThenElse(isNaNVec(v), c, v) }
	case Compare:
		c, one, zero := hwy.Set(storage.FromFloat64[N](op.A)), hwy.Set[N](1), hwy.Zero[N]()
		cmp := op.Cmp
		return func(v hwy.Vec[N]) hwy.Vec[N] { return hwy.IfThenElse(compareVec(cmp, v, c), one, zero) }
	case Rint, Ceil, Floor:
		if !storage.DTypeOf[N]().IsFloat() {
			return func(v hwy.Vec[N]) hwy.Vec[N] { return v }
		}
	}
	return floatVec[N](op.Kind)
}

// floatVec instantiates the float-only operators. The result is nil for
// integer N and for operators without a vector form.
func floatVec[N storage.Number](k UnaryKind) vecFn[N] {
	var f any
	switch any(*new(N)).(type) {
	case float32:
		f = floatKernel[float32](k)
	case float64:
		f = floatKernel[float64](k)
	default:
		return nil
	}
	g, _ := f.(vecFn[N])
	return g
}

func floatKernel[F hwy.Floats](k UnaryKind) vecFn[F] {
	switch k {
	case Sqrt:
		return hwy.Sqrt[F]
	case Log:
		return hmath.Log[F]
	case Log1p:
		return hmath.Log1p[F]
	case Exp:
		return hmath.Exp[F]
	case Expm1:
		return hmath.Expm1[F]
	case Sin:
		return hmath.Sin[F]
	case Cos:
		return hmath.Cos[F]
	case Tan:
		return hmath.Tan[F]
	case Asin:
		return hmath.Asin[F]
	case Acos:
		return hmath.Acos[F]
	case Atan:
		return hmath.Atan[F]
	case Sinh:
		return hmath.Sinh[F]
	case Cosh:
		return hmath.Cosh[F]
	case Tanh:
		return hmath.Tanh[F]
	case Sigmoid:
		return hmath.Sigmoid[F]
	case Rint:
		return hwy.RoundToEven[F]
	case Ceil:
		return hwy.Ceil[F]
	case Floor:
		return hwy.Floor[F]
	default:
		return nil
	}
}

// binaryVec returns the vector form of k for N, or nil when it has none
// (integer division keeps its divide-by-zero policy on the scalar path).
func binaryVec[N storage.Number](k BinaryKind) vecFn2[N] {
	switch k {
	case Add:
		return hwy.Add[N]
	case Sub:
		return hwy.Sub[N]
	case Mul:
		return hwy.Mul[N]
	case Min:
		return minVec[N]
	case Max:
		return maxVec[N]
	case Div:
		var f any
		switch any(*new(N)).(type) {
		case float32:
			f = vecFn2[float32](hwy.Div[float32])
		case float64:
			f = vecFn2[float64](hwy.Div[float64])
		default:
			return nil
		}
		g, _ := f.(vecFn2[N])
		return g
	default:
		return nil
	}
}

// fmaVec is x + a*y without fusing, so it rounds like the scalar form.
func fmaVec[N storage.Number](a N) vecFn2[N] {
	av := hwy.Set(a)
	return func(x, y hwy.Vec[N]) hwy.Vec[N] { return hwy.Add(x, hwy.Mul(av, y)) }
}

// reduceVec is Reduce on hwy vectors. It reproduces fold's accumulation
// order exactly: foldWidth/w vectors hold the foldWidth partial
// accumulators, which are merged left to right before the run tail.
func reduceVec[N storage.Number](k ReduceKind, data []N, d loop.Descriptor, unit bool, f func(a, b N) N, init N) (partial[N], bool) {
	w := vecLanes[N]()
	if w == 0 || w > foldWidth || foldWidth%w != 0 {
		return partial[N]{}, false
	}
	var op vecFn2[N]
	switch k {
	case Sum, NanSum:
		op = hwy.Add[N]
	case Prod, NanProd:
		op = hwy.Mul[N]
	case MinOf, NanMin:
		op = minVec[N]
	case MaxOf, NanMax:
		op = maxVec[N]
	default:
		return partial[N]{}, false
	}
	skip := k.SkipsNaN() && storage.DTypeOf[N]().IsFloat()
	ident := hwy.Set(init)

	accs := make([]hwy.Vec[N], foldWidth/w)
	var flat, buf [foldWidth]N
	total := partial[N]{v: init}
	for _, off := range d.Offsets {
		run := partial[N]{v: init}
		i := 0
		if d.Bound >= foldWidth {
			for j := range accs {
				accs[j] = ident
			}
			for ; i+foldWidth <= d.Bound; i += foldWidth {
				chunk := buf[:]
				if unit {
					chunk = data[off+i : off+i+foldWidth : off+i+foldWidth]
				} else {
					gather(chunk, data, off+i*d.Step, d.Step)
				}
				for j := range accs {
					v := hwy.Load(chunk[j*w:])
					if skip {
						missing := isNaNVec(v)
						run.n += w - missing.CountTrue()
						v = hwy.IfThenElse(missing, ident, v)
					} else {
						run.n += w
					}
					accs[j] = op(accs[j], v)
				}
			}
			for j, a := range accs {
				hwy.Store(a, flat[j*w:])
			}
			run.v = flat[0]
			for _, x := range flat[1:] {
				run.v = f(run.v, x)
			}
		}
		for ; i < d.Bound; i++ {
			x := data[off+i*d.Step]
			if skip && isNaN(x) {
				continue
			}
			run.v = f(run.v, x)
			run.n++
		}
		total = partial[N]{f(total.v, run.v), total.n + run.n}
	}
	return total, true
}
