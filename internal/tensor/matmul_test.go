package tensor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/layout"
)

// naiveMM is the triple loop reference product.
func naiveMM(a, b *DArray[float64]) *DArray[float64] {
	m, k, n := a.Dim(0), a.Dim(1), b.Dim(1)
	out := Zeros[float64](layout.C, m, n)
	for i := range m {
		for j := range n {
			var s float64
			for p := range k {
				s += a.Get(i, p) * b.Get(p, j)
			}
			out.Set(s, i, j)
		}
	}
	return out
}

func TestMmMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	a := Random[float64](rng, layout.C, 67, 45)
	b := Random[float64](rng, layout.F, 45, 38)
	want := naiveMM(a, b)

	for _, w := range []int{1, 2, 8} {
		workers(t, w)
		for _, order := range []layout.Order{layout.C, layout.F} {
			c, err := a.Mm(b, order)
			require.NoError(t, err)
			assert.Equal(t, order, c.NativeOrder())
			assert.True(t, want.AllClose(c, 1e-10), "workers=%d order=%s", w, order)
		}
	}

	// Transposed views multiply without explicit copies by the caller.
	c, err := b.Transpose().Mm(a.Transpose(), layout.C)
	require.NoError(t, err)
	assert.True(t, want.Transpose().AllClose(c, 1e-10))

	_, err = a.Mm(a, layout.C)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	_, err = a.Mm(b, layout.S)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	_, err = a.MatMul(b, layout.A)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func TestMvVtmDot(t *testing.T) {
	a := Seq[float64](layout.C, 2, 3)
	x := Ones[float64](layout.C, 3)

	y, err := a.Mv(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 12}, y.ToSlice())

	z, err := Ones[float64](layout.C, 2).Vtm(a)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 7}, z.ToSlice())

	d, err := x.Dot(Seq[float64](layout.C, 3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, d)

	// Strided vectors.
	col, err := a.Sel(1, 2)
	require.NoError(t, err)
	d, err = col.Dot(col)
	require.NoError(t, err)
	assert.Equal(t, 29.0, d)

	_, err = a.Mv(Ones[float64](layout.C, 2))
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
	_, err = x.Dot(Ones[float64](layout.C, 2))
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func TestBatched(t *testing.T) {
	a := Seq[float64](layout.C, 2, 2, 3)
	b := Seq[float64](layout.C, 1, 3, 2)

	for _, order := range []layout.Order{layout.C, layout.F} {
		c, err := a.Bmm(b, order)
		require.NoError(t, err)
		assert.Equal(t, layout.Shape{2, 2, 2}, c.Shape())
		b0, _ := b.Sel(0, 0)
		for i := range 2 {
			ai, _ := a.Sel(0, i)
			ci, _ := c.Sel(0, i)
			assert.True(t, naiveMM(ai, b0).AllClose(ci, 1e-12))
		}
	}
	_, err := a.Bmm(Seq[float64](layout.C, 3, 3, 2), layout.C)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)

	x := Ones[float64](layout.C, 2, 3)
	y, err := a.Bmv(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 12, 21, 30}, y.ToSlice())

	v := Ones[float64](layout.C, 3, 3)
	w, err := v.Bvtm(b)
	require.NoError(t, err)
	assert.Equal(t, layout.Shape{3, 2}, w.Shape())
	assert.Equal(t, []float64{6, 9, 6, 9, 6, 9}, w.ToSlice())
}

func TestMatMulDispatch(t *testing.T) {
	m := Seq[float64](layout.C, 2, 2)
	v := Ones[float64](layout.C, 2)
	b3 := Seq[float64](layout.C, 2, 2, 2)

	cases := []struct {
		a, b  *DArray[float64]
		shape layout.Shape
	}{
		{v, v, layout.Shape{}},
		{m, v, layout.Shape{2}},
		{v, m, layout.Shape{2}},
		{m, m, layout.Shape{2, 2}},
		{b3, m, layout.Shape{2, 2}},
		{m, b3, layout.Shape{2, 2}},
		{b3, b3, layout.Shape{2, 2, 2}},
	}
	for _, tc := range cases {
		r, err := tc.a.MatMul(tc.b, layout.C)
		require.NoError(t, err)
		assert.Equal(t, tc.shape, r.Shape())
	}
	s, err := v.MatMul(v, layout.F)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Item())

	_, err = Scalar(1.0).MatMul(m, layout.C)
	assert.ErrorIs(t, err, layout.ErrInvalidArgument)
}

func BenchmarkMm(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	x := Random[float32](rng, layout.C, 256, 256)
	y := Random[float32](rng, layout.C, 256, 256)
	b.ResetTimer()
	for b.Loop() {
		_, _ = x.Mm(y, layout.C)
	}
}
