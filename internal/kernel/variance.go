package kernel

import (
	"math"

	"github.com/born-ml/strided/internal/loop"
	"github.com/born-ml/strided/internal/storage"
)

type moments struct {
	s, s2 float64
	n     int
}

func addMoments(a, b moments) moments {
	return moments{a.s + b.s, a.s2 + b.s2, a.n + b.n}
}

// Mean returns the float64 mean of the elements visited by d and their
// count. NaN elements are skipped when skipNaN is set. The mean of nothing
// is NaN.
//
// The raw mean μ₀ = Σx/n is refined with a second pass, μ = μ₀ + Σ(x-μ₀)/n,
// which removes the rounding error of the first sum when the data sits on a
// large offset.
func Mean[N storage.Number](data []N, d loop.Descriptor, skipNaN bool) (float64, int) {
	var (
		s float64
		n int
	)
	if storage.DTypeOf[N]() == storage.Float64 {
		k := Sum
		if skipNaN {
			k = NanSum
		}
		v, c := Reduce(k, data, d)
		s, n = float64(v), c
	} else {
		m := fold(data, d, moments{}, func(a moments, x N) moments {
			if skipNaN && isNaN(x) {
				return a
			}
			a.s += float64(x)
			a.n++
			return a
		}, addMoments)
		s, n = m.s, m.n
	}
	if n == 0 {
		return math.NaN(), 0
	}
	mu := s / float64(n)
	if math.IsNaN(mu) || math.IsInf(mu, 0) {
		return mu, n
	}
	r := fold(data, d, 0.0, func(a float64, x N) float64 {
		if skipNaN && isNaN(x) {
			return a
		}
		return a + (float64(x) - mu)
	}, func(a, b float64) float64 { return a + b })
	return mu + r/float64(n), n
}

// Variance returns the variance of the elements visited by d with ddof
// delta degrees of freedom. It centers on the refined Mean and uses the
// compensated form
//
//	(Σ(x-μ)² - (Σ(x-μ))²/n) / (n - ddof)
//
// where the second term cancels the rounding error of μ. The result is NaN
// when n - ddof <= 0.
func Variance[N storage.Number](data []N, d loop.Descriptor, ddof int, skipNaN bool) float64 {
	mean, n := Mean(data, d, skipNaN)
	if n-ddof <= 0 {
		return math.NaN()
	}
	m := fold(data, d, moments{}, func(a moments, x N) moments {
		if skipNaN && isNaN(x) {
			return a
		}
		dx := float64(x) - mean
		a.s += dx
		a.s2 += dx * dx
		a.n++
		return a
	}, addMoments)
	return (m.s2 - m.s*m.s/float64(m.n)) / float64(m.n-ddof)
}
