package kernel

import (
	"github.com/ajroetker/go-highway/hwy"

	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

// Dot returns Σ a[aOff+i*aStep] * b[bOff+i*bStep] for i in [0, n).
// Products are accumulated in fold's order on every path.
func Dot[N storage.Number](a []N, aOff, aStep int, b []N, bOff, bStep int, n int) N {
	da := loop.Descriptor{Offsets: []int{aOff}, Bound: n, Step: aStep}
	db := loop.Descriptor{Offsets: []int{bOff}, Bound: n, Step: bStep}
	if path := SelectPath(storage.DTypeOf[N](), da, db); path != PathScalar {
		if s, ok := dotVec(a, da, b, db, path == PathUnit); ok {
			return s
		}
	}

	var s N
	i := 0
	if n >= foldWidth {
		var acc [foldWidth]N
		for ; i+foldWidth <= n; i += foldWidth {
			pa, pb := aOff+i*aStep, bOff+i*bStep
			for j := range acc {
				acc[j] += N(a[pa] * b[pb])
				pa += aStep
				pb += bStep
			}
		}
		s = acc[0]
		for _, v := range acc[1:] {
			s += v
		}
	}
	for ; i < n; i++ {
		s += N(a[aOff+i*aStep] * b[bOff+i*bStep])
	}
	return s
}

func dotVec[N storage.Number](a []N, da loop.Descriptor, b []N, db loop.Descriptor, unit bool) (N, bool) {
	w := vecLanes[N]()
	if w == 0 || w > foldWidth || foldWidth%w != 0 {
		return 0, false
	}
	n := da.Bound
	aOff, bOff := da.Offsets[0], db.Offsets[0]

	var s N
	i := 0
	if n >= foldWidth {
		accs := make([]hwy.Vec[N], foldWidth/w)
		for j := range accs {
			accs[j] = hwy.Zero[N]()
		}
		var bufA, bufB, flat [foldWidth]N
		for ; i+foldWidth <= n; i += foldWidth {
			x, y := bufA[:], bufB[:]
			if unit {
				x = a[aOff+i : aOff+i+foldWidth : aOff+i+foldWidth]
				y = b[bOff+i : bOff+i+foldWidth : bOff+i+foldWidth]
			} else {
				gather(x, a, aOff+i*da.Step, da.Step)
				gather(y, b, bOff+i*db.Step, db.Step)
			}
			for j := range accs {
				accs[j] = hwy.Add(accs[j], hwy.Mul(hwy.Load(x[j*w:]), hwy.Load(y[j*w:])))
			}
		}
		for j, v := range accs {
			hwy.Store(v, flat[j*w:])
		}
		s = flat[0]
		for _, v := range flat[1:] {
			s += v
		}
	}
	for ; i < n; i++ {
		s += N(a[aOff+i*da.Step] * b[bOff+i*db.Step])
	}
	return s, true
}
