package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/strided/internal/layout"
	"github.com/born-ml/strided/internal/movement"
	"github.com/born-ml/strided/internal/storage"
)

// Zeros creates a zero-filled array dense in order (C or F; A and S mean C).
// Panics on negative dimensions.
//
// Example:
//
//	t := tensor.Zeros[float32](layout.C, 3, 4)
func Zeros[N storage.Number](order layout.Order, shape ...int) *DArray[N] {
	s := layout.Shape(shape).Clone()
	if err := s.Validate(); err != nil {
		panic(err.Error())
	}
	if order != layout.F {
		order = layout.C
	}
	return &DArray[N]{
		layout:  layout.NewDense(s, order),
		storage: storage.New[N](s.Size()),
	}
}

// Full creates an array with every element set to v.
func Full[N storage.Number](v N, order layout.Order, shape ...int) *DArray[N] {
	t := Zeros[N](order, shape...)
	data := t.storage.Data()
	for i := range data {
		data[i] = v
	}
	return t
}

// Ones creates an array of ones.
func Ones[N storage.Number](order layout.Order, shape ...int) *DArray[N] {
	return Full[N](1, order, shape...)
}

// Seq creates an array holding 0, 1, 2, ... in order traversal. Integer
// element types wrap.
//
// Example:
//
//	t := tensor.Seq[int32](layout.C, 2, 3) // [[0 1 2] [3 4 5]]
func Seq[N storage.Number](order layout.Order, shape ...int) *DArray[N] {
	t := Zeros[N](order, shape...)
	data := t.storage.Data()
	for i := range data {
		data[i] = N(i)
	}
	return t
}

// Scalar creates a rank-0 array holding v.
func Scalar[N storage.Number](v N) *DArray[N] {
	t := Zeros[N](layout.C)
	t.storage.Set(0, v)
	return t
}

// Eye creates an n×n identity matrix.
func Eye[N storage.Number](order layout.Order, n int) *DArray[N] {
	t := Zeros[N](order, n, n)
	for i := range n {
		t.Set(1, i, i)
	}
	return t
}

// Random creates an array filled from rng. Floating types are uniform in
// [0, 1); integer types are uniform over their whole range.
// The generator is owned by the caller; Random is as deterministic as rng.
func Random[N storage.Number](rng *rand.Rand, order layout.Order, shape ...int) *DArray[N] {
	t := Zeros[N](order, shape...)
	data := t.storage.Data()
	if t.DType().IsFloat() {
		for i := range data {
			data[i] = N(rng.Float64())
		}
		return t
	}
	for i := range data {
		data[i] = N(int32(rng.Uint32()))
	}
	return t
}

// FromSlice creates an array dense in order holding a copy of data, which
// is read in that same order.
func FromSlice[N storage.Number](data []N, order layout.Order, shape ...int) (*DArray[N], error) {
	s := layout.Shape(shape).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Size() != len(data) {
		return nil, layout.Invalidf("tensor: shape %v requires %d elements, but got %d", s, s.Size(), len(data))
	}
	t := Zeros[N](order, shape...)
	copy(t.storage.Data(), data)
	return t, nil
}

// Wrap strides the caller's buffer with l without copying. Later writes to
// data are visible through the array and vice versa.
func Wrap[N storage.Number](data []N, l layout.Layout) (*DArray[N], error) {
	return New(storage.Wrap(data), l)
}

// FromRows creates a C-ordered matrix from row slices of equal length,
// converting each value to N.
func FromRows[N storage.Number](rows [][]float64) (*DArray[N], error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	t := Zeros[N](layout.C, len(rows), cols)
	data := t.storage.Data()
	for i, row := range rows {
		if len(row) != cols {
			return nil, layout.Invalidf("tensor: row %d has %d values, want %d", i, len(row), cols)
		}
		for j, v := range row {
			data[i*cols+j] = storage.FromFloat64[N](v)
		}
	}
	return t, nil
}

// FromColumns creates an F-ordered matrix from column slices of equal
// length, converting each value to N.
func FromColumns[N storage.Number](columns [][]float64) (*DArray[N], error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}
	t := Zeros[N](layout.F, rows, len(columns))
	data := t.storage.Data()
	for j, col := range columns {
		if len(col) != rows {
			return nil, layout.Invalidf("tensor: column %d has %d values, want %d", j, len(col), rows)
		}
		for i, v := range col {
			data[j*rows+i] = storage.FromFloat64[N](v)
		}
	}
	return t, nil
}

// Concat joins arrays along axis into a new C-ordered array. All arrays
// must have the same rank and the same dimensions off axis.
//
// Example:
//
//	a := tensor.Seq[float32](layout.C, 2, 3)
//	b := tensor.Seq[float32](layout.C, 2, 5)
//	c, _ := tensor.Concat(1, a, b) // shape [2 8]
func Concat[N storage.Number](axis int, arrays ...*DArray[N]) (*DArray[N], error) {
	if len(arrays) == 0 {
		return nil, layout.Invalidf("tensor: concat needs at least one array")
	}
	first := arrays[0].Shape()
	ax, err := layout.NormAxis(axis, first.Rank())
	if err != nil {
		return nil, err
	}
	shape := first.Clone()
	shape[ax] = 0
	for i, a := range arrays {
		s := a.Shape()
		if s.Rank() != first.Rank() {
			return nil, layout.Invalidf("tensor: concat rank mismatch at %d: %v vs %v", i, s, first)
		}
		for d := range s {
			if d != ax && s[d] != first[d] {
				return nil, layout.Invalidf("tensor: concat shape mismatch at %d: %v vs %v", i, s, first)
			}
		}
		shape[ax] += s[ax]
	}

	out := Zeros[N](layout.C, shape...)
	cfg := Config()
	start := 0
	for _, a := range arrays {
		end := start + a.Dim(ax)
		dst, err := out.layout.Narrow(ax, true, start, end)
		if err != nil {
			return nil, err
		}
		if err := movement.Copy(a.storage.Data(), a.layout, out.storage.Data(), dst, cfg); err != nil {
			return nil, err
		}
		start = end
	}
	return out, nil
}
