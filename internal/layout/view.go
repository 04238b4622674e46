package layout

import "slices"

// Transpose reverses the axes. No data moves.
func (l Layout) Transpose() Layout {
	r := len(l.shape)
	shape := make(Shape, r)
	strides := make([]int, r)
	for i := range r {
		shape[i] = l.shape[r-1-i]
		strides[i] = l.strides[r-1-i]
	}
	return Layout{shape: shape, offset: l.offset, strides: strides}
}

// Permute reorders axes: axis i of the result is axis axes[i] of l.
func (l Layout) Permute(axes ...int) (Layout, error) {
	r := len(l.shape)
	if len(axes) != r {
		return Layout{}, Invalidf("permute: axes length %d != rank %d", len(axes), r)
	}
	seen := make([]bool, r)
	shape := make(Shape, r)
	strides := make([]int, r)
	for i, ax := range axes {
		a, err := NormAxis(ax, r)
		if err != nil {
			return Layout{}, err
		}
		if seen[a] {
			return Layout{}, Invalidf("permute: duplicate axis %d", ax)
		}
		seen[a] = true
		shape[i] = l.shape[a]
		strides[i] = l.strides[a]
	}
	return Layout{shape: shape, offset: l.offset, strides: strides}, nil
}

// MoveAxis moves axis src to position dst keeping the order of the others.
func (l Layout) MoveAxis(src, dst int) (Layout, error) {
	r := len(l.shape)
	s, err := NormAxis(src, r)
	if err != nil {
		return Layout{}, err
	}
	d, err := NormAxis(dst, r)
	if err != nil {
		return Layout{}, err
	}
	axes := make([]int, 0, r)
	for i := range r {
		if i != s {
			axes = append(axes, i)
		}
	}
	axes = slices.Insert(axes, d, s)
	return l.Permute(axes...)
}

// SwapAxis exchanges two axes.
func (l Layout) SwapAxis(a, b int) (Layout, error) {
	r := len(l.shape)
	x, err := NormAxis(a, r)
	if err != nil {
		return Layout{}, err
	}
	y, err := NormAxis(b, r)
	if err != nil {
		return Layout{}, err
	}
	axes := make([]int, r)
	for i := range axes {
		axes[i] = i
	}
	axes[x], axes[y] = axes[y], axes[x]
	return l.Permute(axes...)
}

// Narrow restricts axis to [start, end). When keepDim is false and the
// resulting size is 1, the axis is dropped.
func (l Layout) Narrow(axis int, keepDim bool, start, end int) (Layout, error) {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		return Layout{}, err
	}
	if start < 0 || end > l.shape[ax] || start > end {
		return Layout{}, Invalidf("narrow: range [%d, %d) invalid for axis %d of size %d",
			start, end, ax, l.shape[ax])
	}
	offset := l.offset
	if end > start {
		offset += start * l.strides[ax]
	}
	if !keepDim && end-start == 1 {
		shape := slices.Delete(l.shape.Clone(), ax, ax+1)
		strides := slices.Delete(slices.Clone(l.strides), ax, ax+1)
		return Layout{shape: shape, offset: offset, strides: strides}, nil
	}
	shape := l.shape.Clone()
	shape[ax] = end - start
	return Layout{shape: shape, offset: offset, strides: slices.Clone(l.strides)}, nil
}

// NarrowAll restricts every axis to [starts[i], ends[i]).
func (l Layout) NarrowAll(keepDim bool, starts, ends []int) (Layout, error) {
	r := len(l.shape)
	if len(starts) != r || len(ends) != r {
		return Layout{}, Invalidf("narrow: expected %d starts and ends, got %d and %d", r, len(starts), len(ends))
	}
	out := l
	// Walk backwards so dropped axes do not shift the remaining ones.
	for ax := r - 1; ax >= 0; ax-- {
		var err error
		out, err = out.Narrow(ax, keepDim, starts[ax], ends[ax])
		if err != nil {
			return Layout{}, err
		}
	}
	return out, nil
}

// Squeeze drops the given size-1 axes, or every size-1 axis when none are
// given.
func (l Layout) Squeeze(axes ...int) (Layout, error) {
	r := len(l.shape)
	drop := make([]bool, r)
	if len(axes) == 0 {
		for i, dim := range l.shape {
			drop[i] = dim == 1
		}
	}
	for _, axis := range axes {
		ax, err := NormAxis(axis, r)
		if err != nil {
			return Layout{}, err
		}
		if l.shape[ax] != 1 {
			return Layout{}, Invalidf("squeeze: axis %d has size %d, not 1", ax, l.shape[ax])
		}
		drop[ax] = true
	}
	shape := make(Shape, 0, r)
	strides := make([]int, 0, r)
	for i := range r {
		if !drop[i] {
			shape = append(shape, l.shape[i])
			strides = append(strides, l.strides[i])
		}
	}
	return Layout{shape: shape, offset: l.offset, strides: strides}, nil
}

// Stretch inserts size-1 axes (stride 0) so that they land at the given
// positions of the result.
func (l Layout) Stretch(axes ...int) (Layout, error) {
	r := len(l.shape) + len(axes)
	insert := make([]bool, r)
	for _, axis := range axes {
		ax, err := NormAxis(axis, r)
		if err != nil {
			return Layout{}, err
		}
		if insert[ax] {
			return Layout{}, Invalidf("stretch: duplicate axis %d", axis)
		}
		insert[ax] = true
	}
	shape := make(Shape, r)
	strides := make([]int, r)
	src := 0
	for i := range r {
		if insert[i] {
			shape[i] = 1
			continue
		}
		shape[i] = l.shape[src]
		strides[i] = l.strides[src]
		src++
	}
	return Layout{shape: shape, offset: l.offset, strides: strides}, nil
}

// Expand repeats a size-1 axis n times by giving it stride 0. Every logical
// position along the axis maps to one physical slot.
func (l Layout) Expand(axis, n int) (Layout, error) {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		return Layout{}, err
	}
	if l.shape[ax] != 1 {
		return Layout{}, Invalidf("expand: axis %d has size %d, not 1", ax, l.shape[ax])
	}
	if n < 1 {
		return Layout{}, Invalidf("expand: size %d must be positive", n)
	}
	shape := l.shape.Clone()
	strides := slices.Clone(l.strides)
	shape[ax] = n
	strides[ax] = 0
	return Layout{shape: shape, offset: l.offset, strides: strides}, nil
}

// BroadcastTo right-aligns the layout against shape, pads missing leading
// axes and gives stride 0 to every expanded axis.
func (l Layout) BroadcastTo(shape Shape) (Layout, error) {
	if len(shape) < len(l.shape) {
		return Layout{}, Invalidf("broadcast: target %v has fewer axes than %v", shape, l.shape)
	}
	pad := len(shape) - len(l.shape)
	strides := make([]int, len(shape))
	for i := range shape {
		if i < pad {
			continue
		}
		dim := l.shape[i-pad]
		switch {
		case dim == shape[i]:
			strides[i] = l.strides[i-pad]
		case dim == 1:
			strides[i] = 0
		default:
			return Layout{}, Invalidf("broadcast: cannot expand %v to %v (axis %d: %d vs %d)",
				l.shape, shape, i, dim, shape[i])
		}
	}
	return Layout{shape: shape.Clone(), offset: l.offset, strides: strides}, nil
}

// Take selects positions along axis as a strided view when they form an
// arithmetic progression with non-zero step (or a single index).
// ok is false when the selection needs a copy.
func (l Layout) Take(axis int, indices ...int) (Layout, bool, error) {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		return Layout{}, false, err
	}
	if len(indices) == 0 {
		return Layout{}, false, Invalidf("take: no indices")
	}
	for _, ix := range indices {
		if ix < 0 || ix >= l.shape[ax] {
			return Layout{}, false, Invalidf("take: index %d out of range for axis %d of size %d", ix, ax, l.shape[ax])
		}
	}
	step := 1
	if len(indices) > 1 {
		step = indices[1] - indices[0]
		if step == 0 {
			return Layout{}, false, nil
		}
		for i := 2; i < len(indices); i++ {
			if indices[i]-indices[i-1] != step {
				return Layout{}, false, nil
			}
		}
	}
	shape := l.shape.Clone()
	strides := slices.Clone(l.strides)
	shape[ax] = len(indices)
	strides[ax] = l.strides[ax] * step
	return Layout{shape: shape, offset: l.offset + indices[0]*l.strides[ax], strides: strides}, true, nil
}

// Split partitions axis at the given boundaries. Boundaries must be
// non-decreasing and within [0, dim]; empty parts are skipped.
func (l Layout) Split(axis int, keepDim bool, indices ...int) ([]Layout, error) {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		return nil, err
	}
	bounds, err := splitBounds(l.shape[ax], indices)
	if err != nil {
		return nil, err
	}
	parts := make([]Layout, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		if bounds[i] == bounds[i+1] {
			continue
		}
		part, err := l.Narrow(ax, keepDim, bounds[i], bounds[i+1])
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// SplitAll partitions every axis at the given boundaries and returns the
// cartesian product of the parts in C order of the part grid.
func (l Layout) SplitAll(keepDim bool, indices [][]int) ([]Layout, error) {
	r := len(l.shape)
	if len(indices) != r {
		return nil, Invalidf("split: expected boundaries for %d axes, got %d", r, len(indices))
	}
	bounds := make([][]int, r)
	for ax := range r {
		b, err := splitBounds(l.shape[ax], indices[ax])
		if err != nil {
			return nil, err
		}
		bounds[ax] = compactBounds(b)
	}
	return l.gridViews(keepDim, bounds)
}

// Chunk partitions axis in pieces of step elements; the last may be shorter.
func (l Layout) Chunk(axis int, keepDim bool, step int) ([]Layout, error) {
	ax, err := NormAxis(axis, len(l.shape))
	if err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, Invalidf("chunk: step %d must be positive", step)
	}
	bounds := chunkBounds(l.shape[ax], step)
	parts := make([]Layout, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		part, err := l.Narrow(ax, keepDim, bounds[i], bounds[i+1])
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// ChunkAll chunks every axis with its own step.
func (l Layout) ChunkAll(keepDim bool, steps []int) ([]Layout, error) {
	r := len(l.shape)
	if len(steps) != r {
		return nil, Invalidf("chunk: expected %d steps, got %d", r, len(steps))
	}
	bounds := make([][]int, r)
	for ax, step := range steps {
		if step < 1 {
			return nil, Invalidf("chunk: step %d must be positive", step)
		}
		bounds[ax] = chunkBounds(l.shape[ax], step)
	}
	return l.gridViews(keepDim, bounds)
}

func (l Layout) gridViews(keepDim bool, bounds [][]int) ([]Layout, error) {
	r := len(l.shape)
	counts := make([]int, r)
	total := 1
	for ax := range r {
		counts[ax] = len(bounds[ax]) - 1
		total *= counts[ax]
	}
	parts := make([]Layout, 0, max(total, 0))
	if total <= 0 {
		return parts, nil
	}
	pos := make([]int, r)
	starts := make([]int, r)
	ends := make([]int, r)
	for range total {
		for ax := range r {
			starts[ax] = bounds[ax][pos[ax]]
			ends[ax] = bounds[ax][pos[ax]+1]
		}
		part, err := l.NarrowAll(keepDim, starts, ends)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		for ax := r - 1; ax >= 0; ax-- {
			pos[ax]++
			if pos[ax] < counts[ax] {
				break
			}
			pos[ax] = 0
		}
	}
	return parts, nil
}

func splitBounds(dim int, indices []int) ([]int, error) {
	bounds := make([]int, 0, len(indices)+2)
	bounds = append(bounds, 0)
	for _, ix := range indices {
		if ix < bounds[len(bounds)-1] || ix > dim {
			return nil, Invalidf("split: boundaries %v invalid for size %d", indices, dim)
		}
		bounds = append(bounds, ix)
	}
	return append(bounds, dim), nil
}

func compactBounds(bounds []int) []int {
	out := bounds[:1]
	for _, b := range bounds[1:] {
		if b != out[len(out)-1] {
			out = append(out, b)
		}
	}
	return out
}

func chunkBounds(dim, step int) []int {
	bounds := []int{0}
	for prev := 0; prev < dim; {
		prev = min(prev+step, dim)
		bounds = append(bounds, prev)
	}
	return bounds
}
