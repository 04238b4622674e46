package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDTypeOf(t *testing.T) {
	assert.Equal(t, Int8, DTypeOf[int8]())
	assert.Equal(t, Int32, DTypeOf[int32]())
	assert.Equal(t, Float32, DTypeOf[float32]())
	assert.Equal(t, Float64, DTypeOf[float64]())

	type celsius float32
	assert.Equal(t, Float32, DTypeOf[celsius]())
}

func TestDTypeSize(t *testing.T) {
	assert.Equal(t, 1, Int8.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Panics(t, func() { DType(99).Size() })
}

func TestDTypeIsFloat(t *testing.T) {
	assert.False(t, Int8.IsFloat())
	assert.False(t, Int32.IsFloat())
	assert.True(t, Float32.IsFloat())
	assert.True(t, Float64.IsFloat())
}

func TestFromFloat64(t *testing.T) {
	assert.Equal(t, float32(1.5), FromFloat64[float32](1.5))
	assert.Equal(t, int32(-2), FromFloat64[int32](-2.7))
	assert.Equal(t, int8(0), FromFloat64[int8](math.NaN()))
	// 300 wraps to 44 in int8.
	assert.Equal(t, int8(44), FromFloat64[int8](300))
}

func TestIsNaN(t *testing.T) {
	assert.True(t, IsNaN(math.NaN()))
	assert.True(t, IsNaN(float32(math.NaN())))
	assert.False(t, IsNaN(1.0))
	assert.False(t, IsNaN(int32(3)))
}

func TestStorageAliasing(t *testing.T) {
	s := New[float64](4)
	require.Equal(t, 4, s.Len())

	alias := s
	alias.Set(2, 7)
	assert.Equal(t, 7.0, s.Get(2))

	s.Inc(2, 1)
	assert.Equal(t, 8.0, alias.Data()[2])
	assert.True(t, s.Same(alias))
	assert.False(t, s.Same(New[float64](4)))
}

func TestWrap(t *testing.T) {
	data := []int32{1, 2, 3}
	s := Wrap(data)
	s.Set(0, 10)
	assert.Equal(t, int32(10), data[0])
	assert.Equal(t, Int32, s.DType())
}

func TestNewNegativePanics(t *testing.T) {
	assert.Panics(t, func() { New[int8](-1) })
}
