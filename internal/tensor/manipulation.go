package tensor

import (
	"sort"

	"github.com/pkg/errors"
)

// BroadcastTo returns a read-only view of t repeated to shape. Axes that were
// size 1 in t get stride 0, so every repeated position aliases the same source
// element; no data is copied.
//
// Example:
//
//	z, _ := tensor.Zeros[int](Shape{1, 1}, RowMajor)
//	b, _ := tensor.BroadcastTo(z, Shape{3, 5}) // 3x5, all positions read z[0, 0]
func BroadcastTo[T DType](t *Tensor[T], shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !CanBroadcastTo(t.shape, shape) {
		return nil, shapeError("broadcast_to", t.shape, shape)
	}
	shape = shape.Clone()
	if t.kind == Indirect {
		v, err := t.reindex("broadcast_to", shape, t.layout, func(dst, src []int) {
			broadcastInto(src, dst, t.shape)
		})
		if err != nil {
			return nil, err
		}
		v.readOnly = true
		return v, nil
	}
	v := t.strided(shape, broadcastStrides(t.shape, t.strides, shape), t.offset, t.layout)
	v.readOnly = true
	return v, nil
}

// ExpandDims inserts a size-1 axis at position axis, which may range over
// [-(rank+1), rank]. This is a view operation (no data copy).
//
// Example:
//
//	y, _ := tensor.ExpandDims(x, 1)  // [2, 3] -> [2, 1, 3]
//	z, _ := tensor.ExpandDims(x, -1) // [2, 3] -> [2, 3, 1]
func ExpandDims[T DType](t *Tensor[T], axis int) (*Tensor[T], error) {
	rank := len(t.shape)
	axis, err := normalizeAxis("expand_dims", axis, rank+1)
	if err != nil {
		return nil, err
	}
	shape := make(Shape, 0, rank+1)
	shape = append(shape, t.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, t.shape[axis:]...)
	if t.kind == Indirect {
		v := *t
		v.shape = shape
		return &v, nil
	}
	strides := make([]int, 0, rank+1)
	strides = append(strides, t.strides[:axis]...)
	strides = append(strides, 0)
	strides = append(strides, t.strides[axis:]...)
	return t.strided(shape, strides, t.offset, t.layout), nil
}

// Squeeze removes size-1 axes. With no axes every size-1 axis is removed;
// naming an axis whose length is not 1 is an error.
// This is a view operation (no data copy).
func Squeeze[T DType](t *Tensor[T], axes ...int) (*Tensor[T], error) {
	rank := len(t.shape)
	drop := make([]bool, rank)
	if len(axes) == 0 {
		for i, d := range t.shape {
			drop[i] = d == 1
		}
	}
	for _, ax := range axes {
		a, err := normalizeAxis("squeeze", ax, rank)
		if err != nil {
			return nil, err
		}
		if t.shape[a] != 1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "squeeze: axis %d of shape %v has length %d, not 1", ax, t.shape, t.shape[a])
		}
		drop[a] = true
	}
	shape := Shape{}
	var strides []int
	for i, d := range t.shape {
		if drop[i] {
			continue
		}
		shape = append(shape, d)
		if t.kind != Indirect {
			strides = append(strides, t.strides[i])
		}
	}
	if t.kind == Indirect {
		v := *t
		v.shape = shape
		return &v, nil
	}
	if strides == nil {
		strides = []int{}
	}
	return t.strided(shape, strides, t.offset, t.layout), nil
}

// Copy materializes e into a new owned tensor in the given layout.
func Copy[T DType](e Expr[T], layout Layout) (*Tensor[T], error) {
	return Eval(e, layout)
}

// AsContiguous returns a row-major contiguous tensor with e's elements. An
// owned or strided tensor that already qualifies is returned as is.
func AsContiguous[T DType](e Expr[T]) (*Tensor[T], error) {
	return asLayout(e, RowMajor)
}

// AsFortran returns a column-major contiguous tensor with e's elements. An
// owned or strided tensor that already qualifies is returned as is.
func AsFortran[T DType](e Expr[T]) (*Tensor[T], error) {
	return asLayout(e, ColumnMajor)
}

func asLayout[T DType](e Expr[T], layout Layout) (*Tensor[T], error) {
	if t, ok := e.(*Tensor[T]); ok && t.layout == layout && t.IsContiguous() {
		return t, nil
	}
	return Eval(e, layout)
}

// Flatten copies e into a new 1-D tensor, reading elements in order.
func Flatten[T DType](e Expr[T], order Layout) (*Tensor[T], error) {
	out, err := Empty[T](Shape{e.Shape().NumElements()}, RowMajor)
	if err != nil {
		return nil, err
	}
	for pos, v := range Values(e, order) {
		out.buf.data[pos] = v
	}
	return out, nil
}

// Concatenate joins tensors along an existing axis.
//
// All inputs must have the same shape except along axis.
// Supports negative axis indexing (-1 = last axis).
//
// Example:
//
//	a: [2, 3], b: [2, 5]
//	c, _ := tensor.Concatenate([]Expr[float32]{a, b}, 1) // Shape: [2, 8]
func Concatenate[T DType](xs []Expr[T], axis int) (*Tensor[T], error) {
	if len(xs) == 0 {
		return nil, argError("concatenate", "at least one tensor required")
	}
	first := xs[0].Shape()
	rank := len(first)
	if rank == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "concatenate: zero-rank inputs cannot be concatenated")
	}
	axis, err := normalizeAxis("concatenate", axis, rank)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, x := range xs {
		s := x.Shape()
		if len(s) != rank {
			return nil, shapeError("concatenate", first, s)
		}
		for d := 0; d < rank; d++ {
			if d != axis && s[d] != first[d] {
				return nil, shapeError("concatenate", first, s)
			}
		}
		var ok bool
		if total, ok = addInt(total, s[axis]); !ok {
			return nil, errors.Wrapf(ErrOutOfMemory, "concatenate: axis %d length overflows", axis)
		}
	}

	shape := first.Clone()
	shape[axis] = total
	out, err := Empty[T](shape, xs[0].Layout())
	if err != nil {
		return nil, err
	}
	dst := make([]int, rank)
	base := 0
	for _, x := range xs {
		for _, idx := range Indices(x.Shape(), out.layout) {
			copy(dst, idx)
			dst[axis] += base
			out.SetElem(dst, x.Elem(idx))
		}
		base += x.Shape()[axis]
	}
	return out, nil
}

// Stack joins tensors of identical shape along a new axis in [0, rank].
func Stack[T DType](xs []Expr[T], axis int) (*Tensor[T], error) {
	if len(xs) == 0 {
		return nil, argError("stack", "at least one tensor required")
	}
	first := xs[0].Shape()
	rank := len(first)
	axis, err := normalizeAxis("stack", axis, rank+1)
	if err != nil {
		return nil, err
	}
	for _, x := range xs[1:] {
		if !x.Shape().Equal(first) {
			return nil, shapeError("stack", first, x.Shape())
		}
	}
	shape := make(Shape, 0, rank+1)
	shape = append(shape, first[:axis]...)
	shape = append(shape, len(xs))
	shape = append(shape, first[axis:]...)
	out, err := Empty[T](shape, xs[0].Layout())
	if err != nil {
		return nil, err
	}
	dst := make([]int, rank+1)
	for k, x := range xs {
		for _, idx := range Indices(first, out.layout) {
			copy(dst, idx[:axis])
			dst[axis] = k
			copy(dst[axis+1:], idx[axis:])
			out.SetElem(dst, x.Elem(idx))
		}
	}
	return out, nil
}

// Tile repeats e reps[i] times along each axis. Shorter reps are left-padded
// with 1; a shorter shape is left-padded with 1.
func Tile[T DType](e Expr[T], reps []int) (*Tensor[T], error) {
	src := e.Shape()
	rank := max(len(src), len(reps))
	shape := make(Shape, rank)
	padded := make(Shape, rank)
	for i := 0; i < rank; i++ {
		d, r := 1, 1
		if j := i - (rank - len(src)); j >= 0 {
			d = src[j]
		}
		if j := i - (rank - len(reps)); j >= 0 {
			r = reps[j]
		}
		if r < 0 {
			return nil, argError("tile", "negative repetition %d", r)
		}
		padded[i] = d
		n, ok := mulInt(d, r)
		if !ok {
			return nil, errors.Wrapf(ErrOutOfMemory, "tile: axis %d of length %d repeated %d times overflows", i, d, r)
		}
		shape[i] = n
	}
	out, err := Empty[T](shape, e.Layout())
	if err != nil {
		return nil, err
	}
	off := rank - len(src)
	s := make([]int, len(src))
	for _, idx := range Indices(shape, out.layout) {
		for j := range s {
			s[j] = idx[off+j] % padded[off+j]
		}
		out.SetElem(idx, e.Elem(s))
	}
	return out, nil
}

// Repeat repeats each element along axis. repeats holds either one count for
// every position or one count per position of the axis.
func Repeat[T DType](e Expr[T], repeats []int, axis int) (*Tensor[T], error) {
	src := e.Shape()
	axis, err := normalizeAxis("repeat", axis, len(src))
	if err != nil {
		return nil, err
	}
	n := src[axis]
	if len(repeats) != 1 && len(repeats) != n {
		return nil, errors.Wrapf(ErrShapeMismatch, "repeat: %d repeat counts for axis %d of shape %v", len(repeats), axis, src)
	}
	ends := make([]int, n) // running total of output positions through each source position
	total := 0
	for i := range ends {
		r := repeats[0]
		if len(repeats) == n {
			r = repeats[i]
		}
		if r < 0 {
			return nil, argError("repeat", "negative repetition %d", r)
		}
		var ok bool
		if total, ok = addInt(total, r); !ok {
			return nil, errors.Wrapf(ErrOutOfMemory, "repeat: axis %d of shape %v grows past the int range", axis, src)
		}
		ends[i] = total
	}
	shape := src.Clone()
	shape[axis] = total
	out, err := Empty[T](shape, e.Layout())
	if err != nil {
		return nil, err
	}
	s := make([]int, len(src))
	for _, idx := range Indices(shape, out.layout) {
		copy(s, idx)
		p := idx[axis]
		s[axis] = sort.Search(n, func(i int) bool { return ends[i] > p })
		out.SetElem(idx, e.Elem(s))
	}
	return out, nil
}

// PadMode selects how Pad fills the border.
type PadMode int

// Padding modes.
const (
	PadConstant  PadMode = iota // fill with a constant value
	PadEdge                     // repeat the edge element
	PadReflect                  // mirror without repeating the edge
	PadSymmetric                // mirror repeating the edge
	PadWrap                     // wrap around periodically
)

// String returns the numpy name of the mode.
func (m PadMode) String() string {
	switch m {
	case PadConstant:
		return "constant"
	case PadEdge:
		return "edge"
	case PadReflect:
		return "reflect"
	case PadSymmetric:
		return "symmetric"
	case PadWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Pad adds widths[i][0] elements before and widths[i][1] after axis i. A single
// width pair applies to every axis. value is used by PadConstant only.
func Pad[T DType](e Expr[T], widths [][2]int, mode PadMode, value T) (*Tensor[T], error) {
	src := e.Shape()
	rank := len(src)
	if len(widths) != 1 && len(widths) != rank {
		return nil, errors.Wrapf(ErrShapeMismatch, "pad: %d width pairs for shape %v", len(widths), src)
	}
	if mode < PadConstant || mode > PadWrap {
		return nil, argError("pad", "unknown mode %d", int(mode))
	}
	before := make([]int, rank)
	shape := make(Shape, rank)
	for i := 0; i < rank; i++ {
		w := widths[0]
		if len(widths) == rank {
			w = widths[i]
		}
		if w[0] < 0 || w[1] < 0 {
			return nil, argError("pad", "negative width %v on axis %d", w, i)
		}
		if mode != PadConstant && src[i] == 0 && (w[0] > 0 || w[1] > 0) {
			return nil, argError("pad", "%s padding of empty axis %d", mode, i)
		}
		before[i] = w[0]
		n, ok := addInt(src[i], w[0])
		if ok {
			n, ok = addInt(n, w[1])
		}
		if !ok {
			return nil, errors.Wrapf(ErrOutOfMemory, "pad: widths %v overflow axis %d of length %d", w, i, src[i])
		}
		shape[i] = n
	}
	out, err := Empty[T](shape, e.Layout())
	if err != nil {
		return nil, err
	}
	s := make([]int, rank)
	for _, idx := range Indices(shape, out.layout) {
		inside := true
		for i := range s {
			s[i], inside = padSource(idx[i]-before[i], src[i], mode, inside)
		}
		if inside {
			out.SetElem(idx, e.Elem(s))
		} else {
			out.SetElem(idx, value)
		}
	}
	return out, nil
}

// padSource maps a coordinate relative to the original start onto [0, n).
func padSource(i, n int, mode PadMode, inside bool) (int, bool) {
	if i >= 0 && i < n {
		return i, inside
	}
	switch mode {
	case PadEdge:
		return min(max(i, 0), n-1), inside
	case PadReflect:
		if n == 1 {
			return 0, inside
		}
		period := 2 * (n - 1)
		i = mod(i, period)
		if i >= n {
			i = period - i
		}
		return i, inside
	case PadSymmetric:
		period := 2 * n
		i = mod(i, period)
		if i >= n {
			i = period - 1 - i
		}
		return i, inside
	case PadWrap:
		return mod(i, n), inside
	default:
		return 0, false
	}
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
