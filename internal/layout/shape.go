// Package layout describes how logical indices of a strided array map to
// addresses in a flat storage, and builds new layouts for view operations.
package layout

import "fmt"

// Shape represents the dimensions of an array.
type Shape []int

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Size returns the total number of elements. A rank 0 shape is a scalar.
func (s Shape) Size() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Dim returns the size of axis. Negative axes count from the end.
// Panics if axis is out of range.
func (s Shape) Dim(axis int) int {
	ax, err := NormAxis(axis, len(s))
	if err != nil {
		panic(err.Error())
	}
	return s[ax]
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return Invalidf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as [d0 d1 ...].
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}

// Strides calculates dense strides for the shape in the given order.
// C gives stride[i] = product of all dimensions after i, F the mirror image.
// Any other order is treated as C.
func (s Shape) Strides(order Order) []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	if order == F {
		strides[0] = 1
		for i := 1; i < len(s); i++ {
			strides[i] = strides[i-1] * max(s[i-1], 1)
		}
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * max(s[i+1], 1)
	}
	return strides
}

// Index converts a linear position in C or F order into an index tuple.
func (s Shape) Index(order Order, pos int) []int {
	idx := make([]int, len(s))
	if order == F {
		for i := 0; i < len(s); i++ {
			idx[i] = pos % s[i]
			pos /= s[i]
		}
		return idx
	}
	for i := len(s) - 1; i >= 0; i-- {
		idx[i] = pos % s[i]
		pos /= s[i]
	}
	return idx
}

// Position converts an index tuple into a linear position in C or F order.
func (s Shape) Position(order Order, idx []int) int {
	pos := 0
	if order == F {
		for i := len(s) - 1; i >= 0; i-- {
			pos = pos*s[i] + idx[i]
		}
		return pos
	}
	for i := range s {
		pos = pos*s[i] + idx[i]
	}
	return pos
}

// NormAxis normalizes a possibly negative axis against rank.
func NormAxis(axis, rank int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return 0, Invalidf("axis %d out of range for rank %d", axis, rank)
	}
	return axis, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (4, 5) → nil, false, Error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, Invalidf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}
