package storage

import "fmt"

// Storage is a flat fixed-length buffer shared by reference between an array
// and all of its views. Writes through one view are visible through every
// other view that maps the same address; there is no copy-on-write.
//
// Storage performs no synchronization. Concurrent writes to overlapping
// addresses are the caller's responsibility.
type Storage[N Number] struct {
	data []N
}

// New allocates a zero-filled storage of n elements.
func New[N Number](n int) *Storage[N] {
	if n < 0 {
		panic(fmt.Sprintf("storage: negative length %d", n))
	}
	return &Storage[N]{data: make([]N, n)}
}

// Wrap creates a storage backed directly by data (zero-copy).
// The caller must not resize data afterwards.
func Wrap[N Number](data []N) *Storage[N] {
	return &Storage[N]{data: data}
}

// Len returns the number of elements in the buffer.
func (s *Storage[N]) Len() int {
	return len(s.data)
}

// DType returns the element type tag.
func (s *Storage[N]) DType() DType {
	return DTypeOf[N]()
}

// Get returns the element at address ptr.
func (s *Storage[N]) Get(ptr int) N {
	return s.data[ptr]
}

// Set stores v at address ptr.
func (s *Storage[N]) Set(ptr int, v N) {
	s.data[ptr] = v
}

// Inc adds v to the element at address ptr.
func (s *Storage[N]) Inc(ptr int, v N) {
	s.data[ptr] += v
}

// Data returns the backing slice.
//
// WARNING: Direct access to underlying memory. Modifications are visible
// through every view of this storage.
func (s *Storage[N]) Data() []N {
	return s.data
}

// Same reports whether s and other are the same buffer.
func (s *Storage[N]) Same(other *Storage[N]) bool {
	return s == other
}
