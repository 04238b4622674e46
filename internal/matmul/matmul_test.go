package matmul

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/parallel"
)

func workers(n int) parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = n > 1
	cfg.NumWorkers = n
	return cfg
}

func random(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// naive computes a·b with a triple loop over logical indices.
func naive(a []float64, al layout.Layout, b []float64, bl layout.Layout) [][]float64 {
	m, k, n := al.Dim(0), al.Dim(1), bl.Dim(1)
	out := make([][]float64, m)
	for i := range m {
		out[i] = make([]float64, n)
		for j := range n {
			var s float64
			for p := range k {
				s += a[al.Pointer(i, p)] * b[bl.Pointer(p, j)]
			}
			out[i][j] = s
		}
	}
	return out
}

func TestNewBlocking(t *testing.T) {
	cfg := workers(1)
	cfg.L2CacheSize = 256 * 1024
	// sqrt(262144/2/1/8) = 128 -> vector 512, tile 32.
	assert.Equal(t, Blocking{Chunk: 128, InnerChunk: 32, VectorChunk: 512}, NewBlocking(8, cfg))

	cfg = workers(4)
	cfg.L2CacheSize = 256 * 1024
	// sqrt(262144/2/4/8) = 64 -> not above 64.
	assert.Equal(t, Blocking{Chunk: 64, InnerChunk: 64, VectorChunk: 64}, NewBlocking(8, cfg))

	cfg.L2CacheSize = 1000
	assert.Equal(t, Blocking{Chunk: 8, InnerChunk: 8, VectorChunk: 8}, NewBlocking(8, cfg))

	cfg = workers(2)
	cfg.L2CacheSize = 100 * 1000
	// sqrt(100000/2/2/4) = 79.05 -> 72 -> vector 288, tile 16.
	assert.Equal(t, Blocking{Chunk: 72, InnerChunk: 16, VectorChunk: 288}, NewBlocking(4, cfg))
}

func TestValidOrder(t *testing.T) {
	assert.NoError(t, ValidOrder(layout.C))
	assert.NoError(t, ValidOrder(layout.F))
	assert.True(t, errors.Is(ValidOrder(layout.S), layout.ErrInvalidArgument))
	assert.True(t, errors.Is(ValidOrder(layout.A), layout.ErrInvalidArgument))
}

func TestMMMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m, k, n := 45, 70, 33
	a := random(rng, m*k)
	b := random(rng, k*n)

	cases := []struct {
		name   string
		al, bl layout.Layout
	}{
		{"cc", layout.NewDense(layout.Shape{m, k}, layout.C), layout.NewDense(layout.Shape{k, n}, layout.C)},
		{"ff", layout.NewDense(layout.Shape{m, k}, layout.F), layout.NewDense(layout.Shape{k, n}, layout.F)},
		{"transposed", layout.NewDense(layout.Shape{k, m}, layout.C).Transpose(), layout.NewDense(layout.Shape{n, k}, layout.C).Transpose()},
	}
	for _, tc := range cases {
		want := naive(a, tc.al, b, tc.bl)
		for _, w := range []int{1, 4} {
			for _, order := range []layout.Order{layout.C, layout.F} {
				cfg := workers(w)
				// A small cache forces several tiles and reduction passes.
				cfg.L2CacheSize = 4 * 1024
				cl := layout.NewDense(layout.Shape{m, n}, order)
				c := random(rng, m*n)
				require.NoError(t, MM(a, tc.al, b, tc.bl, c, cl, cfg))
				for i := range m {
					for j := range n {
						assert.InDelta(t, want[i][j], c[cl.Pointer(i, j)], 1e-9, "%s w=%d %s (%d,%d)", tc.name, w, order, i, j)
					}
				}
			}
		}
	}
}

func TestMMInt(t *testing.T) {
	a := []int32{1, 2, 3, 4, 5, 6}
	b := []int32{7, 8, 9, 10, 11, 12}
	al := layout.NewDense(layout.Shape{2, 3}, layout.C)
	bl := layout.NewDense(layout.Shape{3, 2}, layout.C)
	cl := layout.NewDense(layout.Shape{2, 2}, layout.C)
	c := make([]int32, 4)
	require.NoError(t, MM(a, al, b, bl, c, cl, workers(2)))
	assert.Equal(t, []int32{58, 64, 139, 154}, c)
}

func TestMMEmptyInner(t *testing.T) {
	al := layout.NewDense(layout.Shape{2, 0}, layout.C)
	bl := layout.NewDense(layout.Shape{0, 3}, layout.C)
	cl := layout.NewDense(layout.Shape{2, 3}, layout.C)
	c := []float64{1, 1, 1, 1, 1, 1}
	require.NoError(t, MM([]float64{}, al, []float64{}, bl, c, cl, workers(2)))
	assert.Equal(t, make([]float64, 6), c)
}

func TestMMErrors(t *testing.T) {
	al := layout.NewDense(layout.Shape{2, 3}, layout.C)
	bl := layout.NewDense(layout.Shape{4, 2}, layout.C)
	cl := layout.NewDense(layout.Shape{2, 2}, layout.C)
	err := MM(make([]float64, 6), al, make([]float64, 8), bl, make([]float64, 4), cl, workers(1))
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))

	vec := layout.NewDense(layout.Shape{3}, layout.C)
	err = MM(make([]float64, 6), al, make([]float64, 3), vec, make([]float64, 4), cl, workers(1))
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))

	row := layout.NewDense(layout.Shape{1, 2}, layout.C)
	expanded, err := row.BroadcastTo(layout.Shape{2, 2})
	require.NoError(t, err)
	sq := layout.NewDense(layout.Shape{2, 2}, layout.C)
	err = MM(make([]float64, 4), sq, make([]float64, 4), sq, make([]float64, 2), expanded, workers(1))
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))
}

func TestMV(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	al := layout.NewDense(layout.Shape{2, 3}, layout.C)
	x := []float64{1, 0, -1}
	xl := layout.NewDense(layout.Shape{3}, layout.C)
	y := make([]float64, 2)
	yl := layout.NewDense(layout.Shape{2}, layout.C)
	require.NoError(t, MV(a, al, x, xl, y, yl, workers(1)))
	assert.Equal(t, []float64{-2, -2}, y)

	// Transposed matrix: [[1 4] [2 5] [3 6]] · [1 1] = [5 7 9].
	yt := make([]float64, 3)
	require.NoError(t, MV(a, al.Transpose(), []float64{1, 1}, yl, yt, xl, workers(1)))
	assert.Equal(t, []float64{5, 7, 9}, yt)

	err := MV(a, al, x, yl, y, yl, workers(1))
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))
}

func TestVTM(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	al := layout.NewDense(layout.Shape{2, 3}, layout.C)
	x := []float64{1, -1}
	xl := layout.NewDense(layout.Shape{2}, layout.C)
	y := make([]float64, 3)
	yl := layout.NewDense(layout.Shape{3}, layout.C)
	require.NoError(t, VTM(x, xl, a, al, y, yl, workers(1)))
	assert.Equal(t, []float64{-3, -3, -3}, y)

	err := VTM(x, yl, a, al, y, yl, workers(1))
	assert.True(t, errors.Is(err, layout.ErrInvalidArgument))
}

func TestMVMatchesMM(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	m, k := 130, 90
	a := random(rng, m*k)
	x := random(rng, k)
	al := layout.NewDense(layout.Shape{m, k}, layout.C)
	xl := layout.NewDense(layout.Shape{k}, layout.C)
	yl := layout.NewDense(layout.Shape{m}, layout.C)

	y := make([]float64, m)
	require.NoError(t, MV(a, al, x, xl, y, yl, workers(4)))

	c := make([]float64, m)
	require.NoError(t, MM(a, al, x, layout.NewDense(layout.Shape{k, 1}, layout.C), c, layout.NewDense(layout.Shape{m, 1}, layout.C), workers(4)))
	for i := range m {
		assert.InDelta(t, c[i], y[i], 1e-9)
	}
}

func BenchmarkMM(b *testing.B) {
	rng := rand.New(rand.NewPCG(5, 6))
	n := 256
	a := random(rng, n*n)
	bb := random(rng, n*n)
	c := make([]float64, n*n)
	l := layout.NewDense(layout.Shape{n, n}, layout.C)
	cfg := parallel.DefaultConfig()
	b.ResetTimer()
	for b.Loop() {
		_ = MM(a, l, bb, l, c, l, cfg)
	}
}
