// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// View functions. The results share memory with their source.

// Transpose permutes the axes of t; with no permutation the axes are reversed.
//
// Example:
//
//	tr, _ := tensor.Transpose(x)          // (2, 3) -> (3, 2)
//	p, _ := tensor.Transpose(y, 1, 2, 0)  // (a, b, c) -> (b, c, a)
func Transpose[T DType](t *Tensor[T], perm ...int) (*Tensor[T], error) {
	return tensor.Transpose(t, perm...)
}

// SwapAxes exchanges two axes.
func SwapAxes[T DType](t *Tensor[T], a, b int) (*Tensor[T], error) {
	return tensor.SwapAxes(t, a, b)
}

// All selects a whole axis.
func All() Range { return tensor.All() }

// Span selects [start, stop) along an axis.
func Span(start, stop int) Range { return tensor.Span(start, stop) }

// Step selects [start, stop) every step positions.
func Step(start, stop, step int) Range { return tensor.Step(start, stop, step) }

// Point selects one position and drops the axis.
func Point(i int) Range { return tensor.Point(i) }

// Slice returns a view selecting ranges along the leading axes.
//
// Example:
//
//	row, _ := tensor.Slice(m, tensor.Point(1))
//	odd, _ := tensor.Slice(m, tensor.All(), tensor.Step(1, 10, 2))
func Slice[T DType](t *Tensor[T], ranges ...Range) (*Tensor[T], error) {
	return tensor.Slice(t, ranges...)
}

// Flip reverses the order of elements along axis.
func Flip[T DType](t *Tensor[T], axis int) (*Tensor[T], error) {
	return tensor.Flip(t, axis)
}

// Reshape gives t a new shape; one dimension may be -1.
// Returns a view when t is contiguous, a copy otherwise.
func Reshape[T DType](t *Tensor[T], shape Shape) (*Tensor[T], error) {
	return tensor.Reshape(t, shape)
}

// Ravel returns t as a 1-D tensor in its layout order.
func Ravel[T DType](t *Tensor[T]) (*Tensor[T], error) {
	return tensor.Ravel(t)
}

// AsStrided builds an arbitrary strided view over t's buffer.
func AsStrided[T DType](t *Tensor[T], shape Shape, strides []int, offset int) (*Tensor[T], error) {
	return tensor.AsStrided(t, shape, strides, offset)
}

// IndexView returns a 1-D view selecting the given multi-indices of t.
func IndexView[T DType](t *Tensor[T], indices []Index) (*Tensor[T], error) {
	return tensor.IndexView(t, indices)
}

// Filter returns a 1-D view of the elements of t where cond is true.
//
// Example:
//
//	neg, _ := tensor.Less[float32](x, tensor.Scalar[float32](0))
//	v, _ := tensor.Filter(x, neg)
//	_ = v.Fill(0) // ReLU in place
func Filter[T DType](t *Tensor[T], cond Expr[bool]) (*Tensor[T], error) {
	return tensor.Filter(t, cond)
}

// BroadcastTo returns a read-only view of t repeated to shape.
//
// Example:
//
//	z, _ := tensor.Zeros[int](tensor.Shape{1, 1}, tensor.RowMajor)
//	b, _ := tensor.BroadcastTo(z, tensor.Shape{3, 5})
func BroadcastTo[T DType](t *Tensor[T], shape Shape) (*Tensor[T], error) {
	return tensor.BroadcastTo(t, shape)
}

// ExpandDims inserts a size-1 axis at position axis.
func ExpandDims[T DType](t *Tensor[T], axis int) (*Tensor[T], error) {
	return tensor.ExpandDims(t, axis)
}

// Squeeze removes size-1 axes; with no axes every size-1 axis is removed.
func Squeeze[T DType](t *Tensor[T], axes ...int) (*Tensor[T], error) {
	return tensor.Squeeze(t, axes...)
}

// Copying manipulation functions

// Copy materializes e into a new tensor in the given layout.
func Copy[T DType](e Expr[T], layout Layout) (*Tensor[T], error) {
	return tensor.Copy(e, layout)
}

// AsContiguous returns a row-major contiguous tensor with e's elements.
func AsContiguous[T DType](e Expr[T]) (*Tensor[T], error) {
	return tensor.AsContiguous(e)
}

// AsFortran returns a column-major contiguous tensor with e's elements.
func AsFortran[T DType](e Expr[T]) (*Tensor[T], error) {
	return tensor.AsFortran(e)
}

// Flatten copies e into a new 1-D tensor, reading elements in order.
func Flatten[T DType](e Expr[T], order Layout) (*Tensor[T], error) {
	return tensor.Flatten(e, order)
}

// Concatenate joins tensors along an existing axis.
//
// Example:
//
//	c, _ := tensor.Concatenate([]tensor.Expr[float32]{a, b}, 0)
func Concatenate[T DType](xs []Expr[T], axis int) (*Tensor[T], error) {
	return tensor.Concatenate(xs, axis)
}

// Stack joins tensors of identical shape along a new axis.
func Stack[T DType](xs []Expr[T], axis int) (*Tensor[T], error) {
	return tensor.Stack(xs, axis)
}

// Tile repeats e reps[i] times along each axis.
func Tile[T DType](e Expr[T], reps []int) (*Tensor[T], error) {
	return tensor.Tile(e, reps)
}

// Repeat repeats each element along axis.
func Repeat[T DType](e Expr[T], repeats []int, axis int) (*Tensor[T], error) {
	return tensor.Repeat(e, repeats, axis)
}

// PadMode selects how Pad fills the border.
type PadMode = tensor.PadMode

// Padding modes.
const (
	PadConstant  PadMode = tensor.PadConstant
	PadEdge      PadMode = tensor.PadEdge
	PadReflect   PadMode = tensor.PadReflect
	PadSymmetric PadMode = tensor.PadSymmetric
	PadWrap      PadMode = tensor.PadWrap
)

// Pad adds widths[i][0] elements before and widths[i][1] after axis i.
func Pad[T DType](e Expr[T], widths [][2]int, mode PadMode, value T) (*Tensor[T], error) {
	return tensor.Pad(e, widths, mode, value)
}
