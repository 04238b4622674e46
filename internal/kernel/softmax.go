package kernel

import (
	"math"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// Softmax normalizes every run of d in place: x ↦ exp(x-m)/Σexp(x-m) where
// m is the run maximum. With logarithmic set it stores the log-softmax
// x-m-log Σexp(x-m) instead. Only floating-point types are supported.
//
// A run whose maximum is +Inf splits the unit mass evenly over its +Inf
// elements and gives every other element 0 (log-softmax: -log c and -Inf).
// Each step runs on the dispatched unary, binary and reduction kernels.
func Softmax[N storage.Number](data []N, d loop.Descriptor, logarithmic bool) error {
	if !storage.DTypeOf[N]().IsFloat() {
		return layout.NotAvailablef("kernel: softmax on %s", storage.DTypeOf[N]())
	}
	var scratch []N
	if logarithmic {
		scratch = make([]N, d.Bound)
	}
	dense := loop.Descriptor{Offsets: []int{0}, Bound: d.Bound, Step: 1}
	for _, off := range d.Offsets {
		run := loop.Descriptor{Offsets: []int{off}, Bound: d.Bound, Step: d.Step}
		m, _ := Reduce(MaxOf, data, run)
		switch mf := float64(m); {
		case math.IsInf(mf, 1):
			softmaxInf(data, run, logarithmic)
			continue
		case math.IsInf(mf, -1):
			// All -Inf: every exp term is zero; keep the shift finite.
			m = 0
		}
		BinaryScalar(Sub, data, run, m)
		if !logarithmic {
			mustUnary(Op(Exp), data, run)
			s, _ := Reduce(Sum, data, run)
			BinaryScalar(Div, data, run, s)
			continue
		}
		gather(scratch, data, off, d.Step)
		mustUnary(Op(Exp), scratch, dense)
		s, _ := Reduce(Sum, scratch, dense)
		BinaryScalar(Sub, data, run, N(math.Log(float64(s))))
	}
	return nil
}

// softmaxInf handles a run whose maximum is +Inf.
func softmaxInf[N storage.Number](data []N, run loop.Descriptor, logarithmic bool) {
	mustUnary(CompareOp(EQ, math.Inf(1)), data, run)
	c, _ := Reduce(Sum, data, run)
	if logarithmic {
		mustUnary(Op(Log), data, run)
		BinaryScalar(Sub, data, run, N(math.Log(float64(c))))
		return
	}
	BinaryScalar(Div, data, run, c)
}

// mustUnary applies a float operator already checked by the caller.
func mustUnary[N storage.Number](op UnaryOp, data []N, d loop.Descriptor) {
	if err := Unary(op, data, d); err != nil {
		panic(err)
	}
}
