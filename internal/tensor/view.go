package tensor

import (
	"github.com/pkg/errors"
)

// strided returns a strided view over t's buffer.
func (t *Tensor[T]) strided(shape Shape, strides []int, offset int, layout Layout) *Tensor[T] {
	return &Tensor[T]{
		buf:      t.buf,
		shape:    shape,
		strides:  strides,
		offset:   offset,
		layout:   layout,
		kind:     Strided,
		readOnly: t.readOnly,
	}
}

// reindex builds an indirect view of t with the given shape. srcOf maps a
// position of the new view onto a multi-index of t.
func (t *Tensor[T]) reindex(op string, shape Shape, layout Layout, srcOf func(dst, src []int)) (*Tensor[T], error) {
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	index := make([]int, n)
	src := make([]int, len(t.shape))
	for pos, idx := range Indices(shape, layout) {
		srcOf(idx, src)
		index[pos] = t.offsetOf(src)
	}
	return &Tensor[T]{
		buf:      t.buf,
		shape:    shape,
		index:    index,
		layout:   layout,
		kind:     Indirect,
		readOnly: t.readOnly,
	}, nil
}

// Transpose permutes the axes of t. With no permutation the axes are reversed,
// which turns a row-major tensor into a column-major view of the same memory.
func Transpose[T DType](t *Tensor[T], perm ...int) (*Tensor[T], error) {
	rank := len(t.shape)
	reversed := len(perm) == 0
	if reversed {
		perm = make([]int, rank)
		for i := range perm {
			perm[i] = rank - 1 - i
		}
	}
	if len(perm) != rank {
		return nil, errors.Wrapf(ErrShapeMismatch, "transpose: permutation %v for shape %v", perm, t.shape)
	}
	seen := make([]bool, rank)
	axes := make([]int, rank)
	for i, p := range perm {
		a, err := normalizeAxis("transpose", p, rank)
		if err != nil {
			return nil, err
		}
		if seen[a] {
			return nil, argError("transpose", "repeated axis %d in permutation %v", p, perm)
		}
		seen[a] = true
		axes[i] = a
	}

	shape := make(Shape, rank)
	for i, a := range axes {
		shape[i] = t.shape[a]
	}
	if t.kind == Indirect {
		return t.reindex("transpose", shape, t.layout, func(dst, src []int) {
			for i, a := range axes {
				src[a] = dst[i]
			}
		})
	}
	strides := make([]int, rank)
	for i, a := range axes {
		strides[i] = t.strides[a]
	}
	layout := t.layout
	if reversed && rank > 1 {
		layout = 1 - layout
	}
	return t.strided(shape, strides, t.offset, layout), nil
}

// SwapAxes exchanges two axes.
func SwapAxes[T DType](t *Tensor[T], a, b int) (*Tensor[T], error) {
	rank := len(t.shape)
	a, err := normalizeAxis("swapaxes", a, rank)
	if err != nil {
		return nil, err
	}
	b, err = normalizeAxis("swapaxes", b, rank)
	if err != nil {
		return nil, err
	}
	perm := make([]int, rank)
	for i := range perm {
		perm[i] = i
	}
	perm[a], perm[b] = perm[b], perm[a]
	return Transpose(t, perm...)
}

// Range selects positions along one axis for Slice.
type Range struct {
	Start, Stop, Step int

	full  bool
	point bool
}

// All selects the whole axis.
func All() Range { return Range{Step: 1, full: true} }

// Span selects [start, stop). Negative bounds count from the end; bounds are clamped.
func Span(start, stop int) Range { return Range{Start: start, Stop: stop, Step: 1} }

// Step selects [start, stop) every step positions. Step must be positive.
func Step(start, stop, step int) Range { return Range{Start: start, Stop: stop, Step: step} }

// Point selects one position and removes the axis from the result.
func Point(i int) Range { return Range{Start: i, Step: 1, point: true} }

// resolve returns start, length and step for an axis of size dim.
func (r Range) resolve(axis, dim int) (start, n, step int, err error) {
	if r.full {
		return 0, dim, 1, nil
	}
	if r.point {
		i := r.Start
		if i < 0 {
			i += dim
		}
		if i < 0 || i >= dim {
			return 0, 0, 0, rangeError("slice", "index %d out of bounds for axis %d (size %d)", r.Start, axis, dim)
		}
		return i, 1, 1, nil
	}
	if r.Step <= 0 {
		return 0, 0, 0, argError("slice", "step must be positive, got %d", r.Step)
	}
	clamp := func(v int) int {
		if v < 0 {
			v += dim
		}
		return min(max(v, 0), dim)
	}
	start, stop := clamp(r.Start), clamp(r.Stop)
	if stop > start {
		n = (stop - start + r.Step - 1) / r.Step
	}
	return start, n, r.Step, nil
}

// Slice returns a view selecting ranges along the leading axes; axes without a
// range are kept whole. Point ranges drop their axis.
//
// Example:
//
//	row, _ := tensor.Slice(m, tensor.Point(1))                 // second row
//	odd, _ := tensor.Slice(m, tensor.All(), tensor.Step(1, 10, 2)) // odd columns
func Slice[T DType](t *Tensor[T], ranges ...Range) (*Tensor[T], error) {
	rank := len(t.shape)
	if len(ranges) > rank {
		return nil, rangeError("slice", "%d ranges for rank %d", len(ranges), rank)
	}
	starts := make([]int, rank)
	steps := make([]int, rank)
	keep := make([]bool, rank)
	var shape Shape
	for axis := 0; axis < rank; axis++ {
		r := All()
		if axis < len(ranges) {
			r = ranges[axis]
		}
		start, n, step, err := r.resolve(axis, t.shape[axis])
		if err != nil {
			return nil, err
		}
		starts[axis], steps[axis] = start, step
		if !r.point {
			keep[axis] = true
			shape = append(shape, n)
		}
	}
	if shape == nil {
		shape = Shape{}
	}

	if t.kind == Indirect {
		return t.reindex("slice", shape, t.layout, func(dst, src []int) {
			j := 0
			for axis := range src {
				if keep[axis] {
					src[axis] = starts[axis] + dst[j]*steps[axis]
					j++
				} else {
					src[axis] = starts[axis]
				}
			}
		})
	}
	offset := t.offset
	strides := make([]int, 0, len(shape))
	for axis := 0; axis < rank; axis++ {
		offset += starts[axis] * t.strides[axis]
		if keep[axis] {
			strides = append(strides, t.strides[axis]*steps[axis])
		}
	}
	return t.strided(shape, strides, offset, t.layout), nil
}

// Flip reverses the order of elements along axis.
func Flip[T DType](t *Tensor[T], axis int) (*Tensor[T], error) {
	axis, err := normalizeAxis("flip", axis, len(t.shape))
	if err != nil {
		return nil, err
	}
	n := t.shape[axis]
	if t.kind == Indirect {
		return t.reindex("flip", t.shape.Clone(), t.layout, func(dst, src []int) {
			copy(src, dst)
			src[axis] = n - 1 - dst[axis]
		})
	}
	strides := append([]int(nil), t.strides...)
	offset := t.offset
	if n > 0 {
		offset += (n - 1) * strides[axis]
	}
	strides[axis] = -strides[axis]
	return t.strided(t.shape.Clone(), strides, offset, t.layout), nil
}

// Reshape returns t with a new shape holding the same elements in t's layout
// order. One dimension may be -1 and is inferred. The result is a view when t
// is contiguous or indirect, and a copy otherwise.
func Reshape[T DType](t *Tensor[T], shape Shape) (*Tensor[T], error) {
	shape = shape.Clone()
	infer := -1
	rest := make(Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case d == -1 && infer < 0:
			infer = i
		case d < 0:
			return nil, argError("reshape", "invalid dimension %d in %v", d, shape)
		default:
			rest = append(rest, d)
		}
	}
	known, err := rest.CheckedNumElements()
	if err != nil {
		return nil, errors.Wrap(err, "reshape")
	}
	size := t.Size()
	if infer >= 0 {
		if known == 0 || size%known != 0 {
			return nil, shapeError("reshape", t.shape, shape)
		}
		shape[infer] = size / known
	}
	if n, err := shape.CheckedNumElements(); err != nil {
		return nil, errors.Wrap(err, "reshape")
	} else if n != size {
		return nil, shapeError("reshape", t.shape, shape)
	}

	switch {
	case t.kind == Indirect:
		return &Tensor[T]{
			buf:      t.buf,
			shape:    shape,
			index:    t.index,
			layout:   t.layout,
			kind:     Indirect,
			readOnly: t.readOnly,
		}, nil
	case t.IsContiguous():
		return t.strided(shape, shape.Strides(t.layout), t.offset, t.layout), nil
	default:
		c, err := Copy(t, t.layout)
		if err != nil {
			return nil, err
		}
		c.shape = shape
		c.strides = shape.Strides(c.layout)
		return c, nil
	}
}

// Ravel returns t as a 1-D tensor in its layout order, as a view when possible.
func Ravel[T DType](t *Tensor[T]) (*Tensor[T], error) {
	return Reshape(t, Shape{t.Size()})
}

// AsStrided builds an arbitrary strided view over t's buffer. Every reachable
// offset must fall inside the buffer.
func AsStrided[T DType](t *Tensor[T], shape Shape, strides []int, offset int) (*Tensor[T], error) {
	if t.kind == Indirect {
		return nil, argError("as_strided", "source is indirect")
	}
	if len(strides) != len(shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "as_strided: %d strides for shape %v", len(strides), shape)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() > 0 {
		lo, hi := offset, offset
		ok := true
		for i, d := range shape {
			span, fits := mulInt(d-1, strides[i])
			ok = ok && fits
			if span < 0 {
				lo, fits = addInt(lo, span)
			} else {
				hi, fits = addInt(hi, span)
			}
			ok = ok && fits
		}
		if !ok {
			return nil, rangeError("as_strided", "strides %v over shape %v overflow the offset range", strides, shape)
		}
		if lo < 0 || hi >= len(t.buf.data) {
			return nil, rangeError("as_strided", "offsets [%d, %d] outside buffer of %d elements", lo, hi, len(t.buf.data))
		}
	}
	return t.strided(shape.Clone(), append([]int(nil), strides...), offset, t.layout), nil
}

// IndexView returns a 1-D indirect view selecting the given multi-indices of
// t, in order. Writes through the view land in t.
func IndexView[T DType](t *Tensor[T], indices []Index) (*Tensor[T], error) {
	for _, idx := range indices {
		if err := checkIndex("index_view", idx, t.shape); err != nil {
			return nil, err
		}
	}
	return t.reindex("index_view", Shape{len(indices)}, t.layout, func(dst, src []int) {
		copy(src, indices[dst[0]])
	})
}

// Filter returns a 1-D indirect view of the elements of t where cond is true,
// in t's layout order. cond must have t's shape. Writes through the view land
// in t, so Filter(a, mask).Fill(0) zeroes the masked elements.
func Filter[T DType](t *Tensor[T], cond Expr[bool]) (*Tensor[T], error) {
	if !cond.Shape().Equal(t.shape) {
		return nil, shapeError("filter", t.shape, cond.Shape())
	}
	var offsets []int
	for _, idx := range Indices(t.shape, t.layout) {
		if cond.Elem(idx) {
			offsets = append(offsets, t.offsetOf(idx))
		}
	}
	return &Tensor[T]{
		buf:      t.buf,
		shape:    Shape{len(offsets)},
		index:    offsets,
		layout:   t.layout,
		kind:     Indirect,
		readOnly: t.readOnly,
	}, nil
}
