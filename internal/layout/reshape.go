package layout

// TryReshape returns a layout of shape over the same addresses when reading l
// in order visits exactly the elements that a dense layout of shape would
// visit in that order. ok is false when the reshape needs a copy.
//
// Order must be C or F; A resolves to the fast order of l (C by default),
// S is treated like A.
func (l Layout) TryReshape(shape Shape, order Order) (Layout, bool, error) {
	if err := shape.Validate(); err != nil {
		return Layout{}, false, err
	}
	if shape.Size() != l.Size() {
		return Layout{}, false, Invalidf("reshape: cannot reshape %v (%d elements) into %v (%d elements)",
			l.shape, l.Size(), shape, shape.Size())
	}
	if order == A || order == S {
		order = l.FastOrder(C)
	}
	if shape.Size() == 0 {
		return NewDenseAt(shape, l.offset, order), true, nil
	}

	if order == F {
		// An F read of l is a C read of the reversed layout.
		rev := reverse(shape)
		strides, ok := noCopyStrides(reverse(l.shape), reverseInts(l.strides), rev)
		if !ok {
			return Layout{}, false, nil
		}
		return Layout{shape: shape.Clone(), offset: l.offset, strides: reverseInts(strides)}, true, nil
	}
	strides, ok := noCopyStrides(l.shape, l.strides, shape)
	if !ok {
		return Layout{}, false, nil
	}
	return Layout{shape: shape.Clone(), offset: l.offset, strides: strides}, true, nil
}

// noCopyStrides computes row-major strides for newDims over the addresses of
// (oldDims, oldStrides). Groups of old axes are matched with groups of new
// axes of equal element count; a group is only valid when its old axes are
// contiguous with each other.
func noCopyStrides(oldDims Shape, oldStrides []int, newDims Shape) ([]int, bool) {
	var od, os []int
	for i, d := range oldDims {
		if d != 1 {
			od = append(od, d)
			os = append(os, oldStrides[i])
		}
	}
	newStrides := make([]int, len(newDims))

	oi, oj := 0, 1
	ni, nj := 0, 1
	for ni < len(newDims) && oi < len(od) {
		np := newDims[ni]
		op := od[oi]
		for np != op {
			if np < op {
				if nj >= len(newDims) {
					return nil, false
				}
				np *= newDims[nj]
				nj++
			} else {
				if oj >= len(od) {
					return nil, false
				}
				op *= od[oj]
				oj++
			}
		}
		for ok := oi; ok < oj-1; ok++ {
			if os[ok] != od[ok+1]*os[ok+1] {
				return nil, false
			}
		}
		newStrides[nj-1] = os[oj-1]
		for nk := nj - 1; nk > ni; nk-- {
			newStrides[nk-1] = newStrides[nk] * newDims[nk]
		}
		ni = nj
		nj++
		oi = oj
		oj++
	}

	// Remaining new axes can only be size 1.
	last := 1
	if ni > 0 {
		last = newStrides[ni-1]
	}
	for ; ni < len(newDims); ni++ {
		if newDims[ni] != 1 {
			return nil, false
		}
		newStrides[ni] = last
	}
	return newStrides, oi >= len(od)
}

func reverse(s Shape) Shape {
	out := make(Shape, len(s))
	for i := range s {
		out[i] = s[len(s)-1-i]
	}
	return out
}

func reverseInts(s []int) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = s[len(s)-1-i]
	}
	return out
}
