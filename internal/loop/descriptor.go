// Package loop turns layouts into the address sequences kernels consume.
//
// A Descriptor is the compact form of one traversal: a list of run start
// addresses plus a run length (Bound) and an address increment inside a run
// (Step). Building it costs O(rank) setup plus one entry per run, after which
// kernels never compute multidimensional indices.
package loop

import (
	"github.com/born-ml/strided/internal/layout"
)

// Descriptor describes the traversal of one layout.
type Descriptor struct {
	Offsets []int // start address of each run, in traversal order
	Bound   int   // elements per run
	Step    int   // address increment between consecutive elements of a run
}

// Size returns the number of elements visited.
func (d Descriptor) Size() int {
	return len(d.Offsets) * d.Bound
}

// Runs returns the number of runs.
func (d Descriptor) Runs() int {
	return len(d.Offsets)
}

// Unit reports whether runs are contiguous in storage.
func (d Descriptor) Unit() bool {
	return d.Step == 1
}

// NewDescriptor builds the descriptor of l traversed in order.
func NewDescriptor(l layout.Layout, order layout.Order) Descriptor {
	ds, err := NewDescriptors(order, l)
	if err != nil {
		// A single layout always agrees with itself.
		panic(err.Error())
	}
	return ds[0]
}

// NewDescriptors builds one descriptor per layout, all walking the logical
// elements in the same sequence with the same Bound, so that kernels can
// consume them in lock-step. All layouts must have the same shape.
//
// The axis order comes from the first layout: C and F are fixed, S follows
// its storage order and A resolves to its dense order (C when not dense).
// Axes are merged only when they are contiguous in every layout.
func NewDescriptors(order layout.Order, layouts ...layout.Layout) ([]Descriptor, error) {
	if len(layouts) == 0 {
		return nil, layout.Invalidf("loop: no layouts")
	}
	if !order.Valid() {
		return nil, layout.Invalidf("loop: invalid order %d", order)
	}
	primary := layouts[0]
	for _, l := range layouts[1:] {
		if !l.Shape().Equal(primary.Shape()) {
			return nil, layout.Invalidf("loop: shape mismatch %v vs %v", primary.Shape(), l.Shape())
		}
	}

	out := make([]Descriptor, len(layouts))
	size := primary.Size()
	if size == 0 {
		for k := range out {
			out[k] = Descriptor{Offsets: []int{}, Bound: 0, Step: 1}
		}
		return out, nil
	}

	// Collect the non-trivial axes fastest first and merge contiguous ones.
	var dims []int
	strides := make([][]int, len(layouts))
	for _, ax := range primary.AxisOrder(order) {
		dim := primary.Shape()[ax]
		if dim == 1 {
			continue
		}
		n := len(dims)
		mergeable := n > 0
		for k := 0; mergeable && k < len(layouts); k++ {
			mergeable = strides[k][n-1]*dims[n-1] == layouts[k].Strides()[ax]
		}
		if mergeable {
			dims[n-1] *= dim
			continue
		}
		dims = append(dims, dim)
		for k, l := range layouts {
			strides[k] = append(strides[k], l.Strides()[ax])
		}
	}

	if len(dims) == 0 {
		for k, l := range layouts {
			out[k] = Descriptor{Offsets: []int{l.Offset()}, Bound: 1, Step: 1}
		}
		return out, nil
	}

	bound := dims[0]
	outer := dims[1:]
	runs := size / bound
	for k, l := range layouts {
		out[k] = Descriptor{
			Offsets: runOffsets(l.Offset(), outer, strides[k][1:], runs),
			Bound:   bound,
			Step:    strides[k][0],
		}
	}
	return out, nil
}

// runOffsets enumerates start addresses for the outer axes (fastest first)
// with an odometer.
func runOffsets(base int, dims, strides []int, runs int) []int {
	offsets := make([]int, runs)
	pos := make([]int, len(dims))
	ptr := base
	for r := range runs {
		offsets[r] = ptr
		for j := range dims {
			pos[j]++
			ptr += strides[j]
			if pos[j] < dims[j] {
				break
			}
			ptr -= pos[j] * strides[j]
			pos[j] = 0
		}
	}
	return offsets
}
