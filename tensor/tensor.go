// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"iter"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types: bool and every Go integer
// and floating-point kind.
type DType = tensor.DType

// Numeric is the subset of DType that supports arithmetic.
type Numeric = tensor.Numeric

// Integer is the constraint for index tensors.
type Integer = tensor.Integer

// DataType is the runtime tag of a fixed-size element type.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Uint16  DataType = tensor.Uint16
	Uint32  DataType = tensor.Uint32
	Uint64  DataType = tensor.Uint64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Index is a multi-index, one coordinate per axis.
type Index = tensor.Index

// Layout determines how a flat offset maps to a multi-index.
type Layout = tensor.Layout

// Layout constants.
const (
	RowMajor    Layout = tensor.RowMajor
	ColumnMajor Layout = tensor.ColumnMajor
)

// Kind tells how a tensor maps positions onto its buffer.
type Kind = tensor.Kind

// Storage kinds.
const (
	Owned    Kind = tensor.Owned
	Strided  Kind = tensor.Strided
	Indirect Kind = tensor.Indirect
)

// Tensor is the engine's single storage type. It owns a contiguous buffer or
// views another tensor's buffer through strides or an index map.
//
// Example:
//
//	x, _ := tensor.Zeros[float32](tensor.Shape{2, 3}, tensor.RowMajor)
//	x.Set(1.5, 0, 2)
//	v := x.At(0, 2) // 1.5
type Tensor[T DType] = tensor.Tensor[T]

// Iterator is a random-access cursor over an expression.
type Iterator[T DType] = tensor.Iterator[T]

// Range selects positions along one axis for Slice.
type Range = tensor.Range

// Errors.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrOutOfRange      = tensor.ErrOutOfRange
	ErrOutOfMemory     = tensor.ErrOutOfMemory
	ErrReadOnly        = tensor.ErrReadOnly
	ErrInvalidArgument = tensor.ErrInvalidArgument
)

// Shape and index utilities

// ParseShape parses "(3, 5)", "[3 5]", "3x5" or "3,5".
func ParseShape(text string) (Shape, error) {
	return tensor.ParseShape(text)
}

// ParseIndex parses a multi-index in the syntax of ParseShape.
func ParseIndex(text string) (Index, error) {
	return tensor.ParseIndex(text)
}

// ParseLayout accepts "row_major"/"C" and "column_major"/"F".
func ParseLayout(text string) (Layout, error) {
	return tensor.ParseLayout(text)
}

// RavelIndex converts a multi-index into a flat offset under layout.
//
// Example:
//
//	flat, _ := tensor.RavelIndex(tensor.Index{1, 2}, tensor.Shape{3, 4}, tensor.RowMajor) // 6
func RavelIndex(idx Index, shape Shape, layout Layout) (int, error) {
	return tensor.RavelIndex(idx, shape, layout)
}

// UnravelIndex converts a flat offset into a multi-index under layout.
func UnravelIndex(flat int, shape Shape, layout Layout) (Index, error) {
	return tensor.UnravelIndex(flat, shape, layout)
}

// BroadcastShapes computes the common shape of any number of shapes following
// NumPy broadcasting rules.
//
// Example:
//
//	s, _ := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{1, 4}) // (3, 4)
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return tensor.BroadcastShapes(shapes...)
}

// CanBroadcastTo reports whether src broadcasts to dst without changing dst.
func CanBroadcastTo(src, dst Shape) bool {
	return tensor.CanBroadcastTo(src, dst)
}

// BroadcastIndex maps a position of the broadcast shape onto an operand of shape src.
func BroadcastIndex(idx Index, src Shape) Index {
	return tensor.BroadcastIndex(idx, src)
}

// Creation functions

// Empty allocates a tensor with zero-valued elements.
func Empty[T DType](shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.Empty[T](shape, layout)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x, _ := tensor.Zeros[float32](tensor.Shape{2, 3}, tensor.RowMajor)
func Zeros[T DType](shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.Zeros[T](shape, layout)
}

// Ones creates a tensor filled with ones.
func Ones[T Numeric](shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.Ones[T](shape, layout)
}

// Full creates a tensor filled with a specific value.
func Full[T DType](shape Shape, value T, layout Layout) (*Tensor[T], error) {
	return tensor.Full(shape, value, layout)
}

// ZerosLike creates a zero tensor with the shape and layout of e.
func ZerosLike[T DType](e Expr[T]) (*Tensor[T], error) {
	return tensor.ZerosLike(e)
}

// FromSlice creates a tensor from a Go slice read in the given layout. The
// slice is copied.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor)
func FromSlice[T DType](data []T, shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape, layout)
}

// Wrap creates a tensor over data without copying.
func Wrap[T DType](data []T, shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.Wrap(data, shape, layout)
}

// FromSeq creates a tensor from an iterator, filling it in layout order.
func FromSeq[T DType](seq iter.Seq[T], shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.FromSeq(seq, shape, layout)
}

// Arange creates a 1D tensor with values start, start+step, ... up to stop (exclusive).
//
// Example:
//
//	x, _ := tensor.Arange[float32](0, 10, 1) // [0, 1, 2, ..., 9]
func Arange[T Numeric](start, stop, step T) (*Tensor[T], error) {
	return tensor.Arange(start, stop, step)
}

// Linspace creates num evenly spaced values over [start, stop].
func Linspace[T ~float32 | ~float64](start, stop T, num int) (*Tensor[T], error) {
	return tensor.Linspace(start, stop, num)
}

// Eye creates a 2D identity matrix.
func Eye[T Numeric](n int) (*Tensor[T], error) {
	return tensor.Eye[T](n)
}

// Iteration

// Begin returns an iterator at the first element of e in the given order.
func Begin[T DType](e Expr[T], order Layout) *Iterator[T] {
	return tensor.Begin(e, order)
}

// End returns the past-the-end iterator of e in the given order.
func End[T DType](e Expr[T], order Layout) *Iterator[T] {
	return tensor.End(e, order)
}

// Indices iterates over every multi-index of shape in the given order.
func Indices(shape Shape, order Layout) iter.Seq2[int, []int] {
	return tensor.Indices(shape, order)
}

// Values iterates over the elements of e in the given order.
//
// Example:
//
//	for i, v := range tensor.Values[float32](x, tensor.ColumnMajor) {
//	    fmt.Println(i, v)
//	}
func Values[T DType](e Expr[T], order Layout) iter.Seq2[int, T] {
	return tensor.Values(e, order)
}
