package layout

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransposeAndPermute(t *testing.T) {
	l := NewDense(Shape{2, 3, 4}, C)
	tr := l.Transpose()
	assert.Equal(t, Shape{4, 3, 2}, tr.Shape())
	assert.Equal(t, []int{1, 4, 12}, tr.Strides())
	assert.True(t, tr.IsFOrdered())

	p, err := l.Permute(1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4, 2}, p.Shape())
	assert.Equal(t, []int{4, 1, 12}, p.Strides())

	back, err := p.Permute(2, 0, 1)
	require.NoError(t, err)
	assert.True(t, back.Equal(l))

	_, err = l.Permute(0, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = l.Permute(0, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestMoveAndSwapAxis(t *testing.T) {
	l := NewDense(Shape{2, 3, 4}, C)
	m, err := l.MoveAxis(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4, 2}, m.Shape())

	s, err := l.SwapAxis(0, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 3, 2}, s.Shape())
	assert.Equal(t, []int{1, 4, 12}, s.Strides())
}

func TestNarrow(t *testing.T) {
	l := NewDense(Shape{4, 5}, C)
	n, err := l.Narrow(1, true, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 3}, n.Shape())
	assert.Equal(t, 1, n.Offset())
	assert.Equal(t, []int{5, 1}, n.Strides())

	row, err := l.Narrow(0, false, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{5}, row.Shape())
	assert.Equal(t, 10, row.Offset())

	kept, err := l.Narrow(0, true, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 5}, kept.Shape())

	_, err = l.Narrow(0, true, 3, 5)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = l.Narrow(2, true, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestNarrowAll(t *testing.T) {
	l := NewDense(Shape{4, 5}, C)
	n, err := l.NarrowAll(false, []int{1, 2}, []int{2, 5})
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, n.Shape())
	assert.Equal(t, 7, n.Offset())
	assert.Equal(t, []int{1}, n.Strides())
}

func TestSqueezeStretch(t *testing.T) {
	base := NewDense(Shape{2, 3, 4}, C)
	st, err := base.Stretch(1, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 1, 3, 1, 4, 1}, st.Shape())

	sq, err := st.Squeeze()
	require.NoError(t, err)
	assert.True(t, sq.Equal(base))

	partial, err := st.Squeeze(1)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3, 1, 4, 1}, partial.Shape())

	_, err = st.Squeeze(0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = base.Stretch(1, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestExpand(t *testing.T) {
	l := NewDense(Shape{3, 1}, C)
	e, err := l.Expand(1, 4)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 4}, e.Shape())
	assert.Equal(t, []int{1, 0}, e.Strides())
	assert.Equal(t, e.Pointer(2, 0), e.Pointer(2, 3))

	_, err = l.Expand(0, 4)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestBroadcastTo(t *testing.T) {
	l := NewDense(Shape{3, 1}, C)
	b, err := l.BroadcastTo(Shape{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, b.Strides())

	_, err = NewDense(Shape{3, 4}, C).BroadcastTo(Shape{4, 5})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestTake(t *testing.T) {
	l := NewDense(Shape{6, 2}, C)
	v, ok, err := l.Take(0, 1, 3, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Shape{3, 2}, v.Shape())
	assert.Equal(t, 2, v.Offset())
	assert.Equal(t, []int{4, 1}, v.Strides())

	_, ok, err = l.Take(0, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = l.Take(0, 0, 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = l.Take(0, 6)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSplit(t *testing.T) {
	l := NewDense(Shape{5, 2}, C)
	parts, err := l.Split(0, true, 2, 2, 4)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, 2, parts[0].Dim(0))
	assert.Equal(t, 2, parts[1].Dim(0))
	assert.Equal(t, 1, parts[2].Dim(0))
	assert.Equal(t, 8, parts[2].Offset())

	_, err = l.Split(0, true, 3, 1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSplitAll(t *testing.T) {
	l := NewDense(Shape{4, 4}, C)
	parts, err := l.SplitAll(true, [][]int{{2}, {1}})
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, Shape{2, 1}, parts[0].Shape())
	assert.Equal(t, Shape{2, 3}, parts[1].Shape())
	assert.Equal(t, 9, parts[3].Offset())
}

func TestChunk(t *testing.T) {
	l := NewDense(Shape{6}, C)
	parts, err := l.Chunk(0, true, 1)
	require.NoError(t, err)
	require.Len(t, parts, 6)
	for i, p := range parts {
		assert.Equal(t, Shape{1}, p.Shape())
		assert.Equal(t, i, p.Offset())
	}

	parts, err = l.Chunk(0, true, 4)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, 4, parts[0].Dim(0))
	assert.Equal(t, 2, parts[1].Dim(0))

	// More chunks than elements yields fewer, never empty, chunks.
	parts, err = l.Chunk(0, true, 10)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, 6, parts[0].Dim(0))

	_, err = l.Chunk(0, true, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestChunkAll(t *testing.T) {
	l := NewDense(Shape{3, 4}, C)
	parts, err := l.ChunkAll(true, []int{2, 3})
	require.NoError(t, err)
	require.Len(t, parts, 4)
	assert.Equal(t, Shape{2, 3}, parts[0].Shape())
	assert.Equal(t, Shape{2, 1}, parts[1].Shape())
	assert.Equal(t, Shape{1, 3}, parts[2].Shape())
	assert.Equal(t, Shape{1, 1}, parts[3].Shape())
	assert.Equal(t, 11, parts[3].Offset())
}
