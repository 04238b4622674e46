package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/internal/layout"
)

func TestAsDoubleArray(t *testing.T) {
	v := Seq[float64](layout.C, 4)
	buf := v.AsDoubleArray()
	buf[2] = 20
	assert.Equal(t, 20.0, v.Get(2))

	// Views that do not span the storage exactly are copied.
	narrowed, err := v.Narrow(0, true, 1, 3)
	require.NoError(t, err)
	cp := narrowed.AsDoubleArray()
	assert.Equal(t, []float64{1, 20}, cp)
	cp[0] = -1
	assert.Equal(t, 1.0, v.Get(1))

	strided, err := v.Take(0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 20}, strided.AsDoubleArray())

	m := Seq[float64](layout.C, 2, 2)
	flat := m.AsDoubleArray()
	flat[0] = 9
	assert.Equal(t, 0.0, m.Get(0, 0))

	i := Seq[int32](layout.C, 3)
	assert.Equal(t, []float64{0, 1, 2}, i.AsDoubleArray())
}

func TestToDoubleArray(t *testing.T) {
	a := Seq[int8](layout.F, 2, 3)
	assert.Equal(t, []float64{0, 2, 4, 1, 3, 5}, a.ToDoubleArray())
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, a.Transpose().ToDoubleArray())
}
