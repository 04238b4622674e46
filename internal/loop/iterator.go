package loop

import (
	"iter"

	"github.com/born-ml/strided/internal/layout"
)

// Iterator yields the storage address of every logical element of a layout
// exactly once, in a requested order. For a layout that is dense in that
// order the walk is a single fixed-stride run.
type Iterator struct {
	desc Descriptor
	run  int
	pos  int
}

// NewIterator creates a pointer iterator over l in order.
func NewIterator(l layout.Layout, order layout.Order) *Iterator {
	return &Iterator{desc: NewDescriptor(l, order)}
}

// Next returns the next address, or false when the traversal is exhausted.
func (it *Iterator) Next() (int, bool) {
	if it.run >= len(it.desc.Offsets) {
		return 0, false
	}
	ptr := it.desc.Offsets[it.run] + it.pos*it.desc.Step
	it.pos++
	if it.pos >= it.desc.Bound {
		it.pos = 0
		it.run++
	}
	return ptr, true
}

// Reset rewinds the iterator to the first address.
func (it *Iterator) Reset() {
	it.run, it.pos = 0, 0
}

// Size returns the total number of addresses the iterator yields.
func (it *Iterator) Size() int {
	return it.desc.Size()
}

// Pointers returns the address sequence of l in order as a range-over-func
// iterator.
func Pointers(l layout.Layout, order layout.Order) iter.Seq[int] {
	d := NewDescriptor(l, order)
	return func(yield func(int) bool) {
		for _, off := range d.Offsets {
			for j := range d.Bound {
				if !yield(off + j*d.Step) {
					return
				}
			}
		}
	}
}
