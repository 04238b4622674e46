// Package storage provides the element types and the shared flat buffer that
// every strided view reads and writes.
package storage

import (
	"math"
	"unsafe"
)

// Number is the closed set of element types supported by the engine.
type Number interface {
	~int8 | ~int32 | ~float32 | ~float64
}

// DType is the runtime tag of an element type.
type DType int

// Supported element types.
const (
	Int8 DType = iota
	Int32
	Float32
	Float64
)

// Size returns the byte size of the element type.
func (dt DType) Size() int {
	switch dt {
	case Int8:
		return 1
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// IsFloat reports whether the element type is a floating point type.
func (dt DType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// String returns a human-readable name for the data type.
func (dt DType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// DTypeOf returns the tag of N.
func DTypeOf[N Number]() DType {
	var dummy N
	switch any(dummy).(type) {
	case int8:
		return Int8
	case int32:
		return Int32
	case float32:
		return Float32
	case float64:
		return Float64
	}
	// Named types over the basic ones fall through to a size check.
	switch {
	case isFloat(dummy) && unsafe.Sizeof(dummy) == 4:
		return Float32
	case isFloat(dummy):
		return Float64
	case unsafe.Sizeof(dummy) == 1:
		return Int8
	default:
		return Int32
	}
}

// FromFloat64 converts v to N. Integer targets truncate toward zero and wrap
// to the width of N; NaN becomes zero.
func FromFloat64[N Number](v float64) N {
	var dummy N
	if isFloat(dummy) {
		return N(v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return N(int64(v))
}

// IsNaN reports whether v is a floating point NaN. Integers are never NaN.
func IsNaN[N Number](v N) bool {
	return v != v
}

func isFloat[N Number](v N) bool {
	// 0.5 survives the conversion only for floating types.
	half := 0.5
	return N(half) != 0
}
