package tensor

import (
	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/loop"
)

// ToDoubleArray returns the elements in C order converted to float64.
func (t *DArray[N]) ToDoubleArray() []float64 {
	out := make([]float64, 0, t.Size())
	data := t.storage.Data()
	for p := range loop.Pointers(t.layout, layout.C) {
		out = append(out, float64(data[p]))
	}
	return out
}

// AsDoubleArray returns the backing buffer itself when t is a float64
// vector with unit stride spanning its whole storage, and a copy
// (ToDoubleArray) otherwise. Only in the first case do writes to the
// result reach t.
func (t *DArray[N]) AsDoubleArray() []float64 {
	if buf, ok := any(t.storage.Data()).([]float64); ok &&
		t.Rank() == 1 && t.layout.Offset() == 0 &&
		(t.Dim(0) <= 1 || t.layout.Stride(0) == 1) &&
		t.Dim(0) == len(buf) {
		return buf
	}
	return t.ToDoubleArray()
}

// Rows returns the elements of a matrix as row slices of float64.
func (t *DArray[N]) Rows() ([][]float64, error) {
	if t.Rank() != 2 {
		return nil, layout.Invalidf("tensor: rows need a matrix, got %v", t.Shape())
	}
	flat := t.ToDoubleArray()
	rows := make([][]float64, t.Dim(0))
	for i := range rows {
		rows[i] = flat[i*t.Dim(1) : (i+1)*t.Dim(1) : (i+1)*t.Dim(1)]
	}
	return rows, nil
}
