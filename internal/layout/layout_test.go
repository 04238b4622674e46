package layout

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New(Shape{2, 3}, 0, []int{1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = New(Shape{2}, -1, []int{1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	l, err := New(Shape{2, 3}, 5, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 5, l.Offset())
	assert.Equal(t, 6, l.Size())
}

func TestPointer(t *testing.T) {
	l := NewDense(Shape{2, 3, 4}, C)
	assert.Equal(t, 0, l.Pointer(0, 0, 0))
	assert.Equal(t, 23, l.Pointer(1, 2, 3))
	assert.Equal(t, 17, l.Pointer(1, 1, 1))

	f := NewDense(Shape{2, 3, 4}, F)
	assert.Equal(t, 1+2+6, f.Pointer(1, 1, 1))

	assert.Panics(t, func() { l.Pointer(2, 0, 0) })
	assert.Panics(t, func() { l.Pointer(0, 0) })

	s := Scalar(7)
	assert.Equal(t, 7, s.Pointer())
}

func TestIndexAndPointerAt(t *testing.T) {
	l := NewDense(Shape{2, 3}, F)
	for pos := range 6 {
		assert.Equal(t, pos, l.PointerAt(F, pos))
		assert.Equal(t, l.Pointer(l.Index(C, pos)...), l.PointerAt(C, pos))
	}
	// Storage order of an F layout is F order.
	for pos := range 6 {
		assert.Equal(t, pos, l.PointerAt(S, pos))
	}
}

func TestOrderedPredicates(t *testing.T) {
	c := NewDense(Shape{2, 3}, C)
	f := NewDense(Shape{2, 3}, F)
	assert.True(t, c.IsCOrdered())
	assert.False(t, c.IsFOrdered())
	assert.True(t, f.IsFOrdered())
	assert.False(t, f.IsCOrdered())
	assert.True(t, c.IsDense())
	assert.True(t, f.IsDense())
	assert.Equal(t, C, c.FastOrder(S))
	assert.Equal(t, F, f.FastOrder(S))

	narrowed, err := c.Narrow(1, true, 0, 2)
	require.NoError(t, err)
	assert.False(t, narrowed.IsDense())
	assert.Equal(t, S, narrowed.FastOrder(S))

	// Vectors are both C and F ordered, C wins.
	v := NewDense(Shape{5}, F)
	assert.Equal(t, C, v.FastOrder(S))
}

func TestCanonical(t *testing.T) {
	c := NewDense(Shape{2, 1, 3}, C)
	dims, strides := c.Canonical()
	assert.Equal(t, []int{6}, dims)
	assert.Equal(t, []int{1}, strides)

	tr := NewDense(Shape{2, 3}, C).Transpose()
	dims, strides = tr.Canonical()
	assert.Equal(t, []int{6}, dims)
	assert.Equal(t, []int{1}, strides)

	n, err := NewDense(Shape{4, 4}, C).Narrow(1, true, 1, 3)
	require.NoError(t, err)
	dims, strides = n.Canonical()
	assert.Equal(t, []int{2, 4}, dims)
	assert.Equal(t, []int{1, 4}, strides)
}

func TestSpanAndFits(t *testing.T) {
	l := NewDense(Shape{2, 3}, C)
	lo, hi := l.Span()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)
	assert.True(t, l.Fits(6))
	assert.False(t, l.Fits(5))

	neg, err := New(Shape{3}, 2, []int{-1})
	require.NoError(t, err)
	lo, hi = neg.Span()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	empty := NewDense(Shape{0, 3}, C)
	assert.True(t, empty.Fits(0))
}

func TestEqualAndHash(t *testing.T) {
	a := NewDense(Shape{2, 3}, C)
	b := NewDense(Shape{2, 3}, C)
	f := NewDense(Shape{2, 3}, F)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(f))
	assert.NotEqual(t, a.Hash(), f.Hash())
}

func TestHasZeroStride(t *testing.T) {
	l := NewDense(Shape{3, 1}, C)
	assert.False(t, l.HasZeroStride())
	e, err := l.Expand(1, 4)
	require.NoError(t, err)
	assert.True(t, e.HasZeroStride())
}
