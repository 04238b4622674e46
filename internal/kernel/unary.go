package kernel

import (
	"math"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// UnaryKind enumerates elementwise operators.
type UnaryKind int

// Unary operators.
const (
	Abs UnaryKind = iota
	Neg
	Sqr
	Sqrt
	Log
	Log1p
	Exp
	Expm1
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Sinh
	Cosh
	Tanh
	Sigmoid
	Rint
	Ceil
	Floor
	Clamp
	Fill
	FillNaN
	Compare
)

var unaryNames = [...]string{
	Abs: "abs", Neg: "neg", Sqr: "sqr", Sqrt: "sqrt", Log: "log", Log1p: "log1p",
	Exp: "exp", Expm1: "expm1", Sin: "sin", Cos: "cos", Tan: "tan", Asin: "asin",
	Acos: "acos", Atan: "atan", Sinh: "sinh", Cosh: "cosh", Tanh: "tanh",
	Sigmoid: "sigmoid", Rint: "rint", Ceil: "ceil", Floor: "floor", Clamp: "clamp",
	Fill: "fill", FillNaN: "fillNaN", Compare: "compare",
}

// String returns the operator name.
func (k UnaryKind) String() string {
	if k < 0 || int(k) >= len(unaryNames) {
		return "unknown"
	}
	return unaryNames[k]
}

// FloatOnly reports whether the operator is only defined for floating point
// element types.
func (k UnaryKind) FloatOnly() bool {
	switch k {
	case Sqrt, Log, Log1p, Exp, Expm1, Sin, Cos, Tan, Asin, Acos, Atan,
		Sinh, Cosh, Tanh, Sigmoid:
		return true
	default:
		return false
	}
}

// Comparison is the predicate of a Compare operator.
type Comparison int

// Comparisons against a scalar.
const (
	LT Comparison = iota
	LE
	GT
	GE
	EQ
	NE
)

func holds[N storage.Number](c Comparison, x, v N) bool {
	switch c {
	case LT:
		return x < v
	case LE:
		return x <= v
	case GT:
		return x > v
	case GE:
		return x >= v
	case EQ:
		return x == v
	default:
		return x != v
	}
}

// UnaryOp is an operator with its parameters.
type UnaryOp struct {
	Kind UnaryKind
	A, B float64    // Clamp bounds, Fill/FillNaN/Compare value
	Cmp  Comparison // Compare predicate
}

// Op returns a parameterless operator.
func Op(k UnaryKind) UnaryOp {
	return UnaryOp{Kind: k}
}

// ClampOp limits values to [lo, hi]. NaN passes through.
func ClampOp(lo, hi float64) UnaryOp {
	return UnaryOp{Kind: Clamp, A: lo, B: hi}
}

// FillOp sets every element to v.
func FillOp(v float64) UnaryOp {
	return UnaryOp{Kind: Fill, A: v}
}

// FillNaNOp replaces NaN elements by v.
func FillNaNOp(v float64) UnaryOp {
	return UnaryOp{Kind: FillNaN, A: v}
}

// CompareOp writes 1 where the predicate holds against v and 0 elsewhere.
func CompareOp(c Comparison, v float64) UnaryOp {
	return UnaryOp{Kind: Compare, A: v, Cmp: c}
}

// Available checks that the operator supports dtype.
func (op UnaryOp) Available(dtype storage.DType) error {
	if op.Kind.FloatOnly() && !dtype.IsFloat() {
		return layout.NotAvailablef("%s is not available for %s", op.Kind, dtype)
	}
	return nil
}

func floatFn[N storage.Number](f func(float64) float64) func(N) N {
	return func(x N) N { return N(f(float64(x))) }
}

// unaryFunc compiles op into a per-element function for N.
func unaryFunc[N storage.Number](op UnaryOp) func(N) N {
	switch op.Kind {
	case Abs:
		return func(x N) N {
			if x < 0 {
				return -x
			}
			return x
		}
	case Neg:
		return func(x N) N { return -x }
	case Sqr:
		return func(x N) N { return x * x }
	case Sqrt:
		return floatFn[N](math.Sqrt)
	case Log:
		return floatFn[N](math.Log)
	case Log1p:
		return floatFn[N](math.Log1p)
	case Exp:
		return floatFn[N](math.Exp)
	case Expm1:
		return floatFn[N](math.Expm1)
	case Sin:
		return floatFn[N](math.Sin)
	case Cos:
		return floatFn[N](math.Cos)
	case Tan:
		return floatFn[N](math.Tan)
	case Asin:
		return floatFn[N](math.Asin)
	case Acos:
		return floatFn[N](math.Acos)
	case Atan:
		return floatFn[N](math.Atan)
	case Sinh:
		return floatFn[N](math.Sinh)
	case Cosh:
		return floatFn[N](math.Cosh)
	case Tanh:
		return floatFn[N](math.Tanh)
	case Sigmoid:
		return floatFn[N](func(v float64) float64 { return 1 / (1 + math.Exp(-v)) })
	case Rint:
		if !storage.DTypeOf[N]().IsFloat() {
			return func(x N) N { return x }
		}
		return floatFn[N](math.RoundToEven)
	case Ceil:
		if !storage.DTypeOf[N]().IsFloat() {
			return func(x N) N { return x }
		}
		return floatFn[N](math.Ceil)
	case Floor:
		if !storage.DTypeOf[N]().IsFloat() {
			return func(x N) N { return x }
		}
		return floatFn[N](math.Floor)
	case Clamp:
		lo, hi := storage.FromFloat64[N](op.A), storage.FromFloat64[N](op.B)
		return func(x N) N {
			if x < lo {
				return lo
			}
			if x > hi {
				return hi
			}
			return x
		}
	case Fill:
		v := storage.FromFloat64[N](op.A)
		return func(N) N { return v }
	case FillNaN:
		v := storage.FromFloat64[N](op.A)
		return func(x N) N {
			if isNaN(x) {
				return v
			}
			return x
		}
	case Compare:
		v := storage.FromFloat64[N](op.A)
		c := op.Cmp
		return func(x N) N {
			if holds(c, x, v) {
				return 1
			}
			return 0
		}
	default:
		panic("kernel: unknown unary operator " + op.Kind.String())
	}
}

// Unary applies op in place to every element addressed by d.
// Returns ErrNotAvailable for float-only operators on integer types.
func Unary[N storage.Number](op UnaryOp, data []N, d loop.Descriptor) error {
	dtype := storage.DTypeOf[N]()
	if err := op.Available(dtype); err != nil {
		return err
	}
	if path := SelectPath(dtype, d); path != PathScalar && mapRuns(unaryVec[N](op), data, d, path == PathUnit) {
		return nil
	}
	unaryScalar(unaryFunc[N](op), data, d)
	return nil
}

func unaryScalar[N storage.Number](f func(N) N, data []N, d loop.Descriptor) {
	for _, off := range d.Offsets {
		p := off
		for range d.Bound {
			data[p] = f(data[p])
			p += d.Step
		}
	}
}
