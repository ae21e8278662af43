// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// Gather

// Take gathers elements of a. For a 1-D a, indices holds plain positions;
// otherwise the trailing axis of indices holds full multi-indices.
//
// Example:
//
//	a := [7, 13, 19, 11, 5, 8, -2, 7, 11, 3]
//	tensor.Take[int, int](a, [9, 4, 0, 7, 5]) // [3, 5, 7, 7, 8]
func Take[T DType, I Integer](a Expr[T], indices Expr[I]) (*Tensor[T], error) {
	return tensor.Take(a, indices)
}

// TakeFlat gathers elements of a by flat position in a's layout order.
func TakeFlat[T DType, I Integer](a Expr[T], indices Expr[I]) (*Tensor[T], error) {
	return tensor.TakeFlat(a, indices)
}

// TakeAxis gathers along one axis; the axis is replaced by indices' shape.
func TakeAxis[T DType, I Integer](a Expr[T], indices Expr[I], axis int) (*Tensor[T], error) {
	return tensor.TakeAxis(a, indices, axis)
}

// TakeAlongAxis gathers with per-position indices along axis.
func TakeAlongAxis[T DType, I Integer](a Expr[T], indices Expr[I], axis int) (*Tensor[T], error) {
	return tensor.TakeAlongAxis(a, indices, axis)
}

// Scatter

// Put scatters values into a in place. Duplicate destinations keep the last
// value written in row-major order of indices.
//
// Example:
//
//	tensor.Put[int, int](a, [9, 4, 0, 7, 5], [10, 20, 30, 40, 50])
//	// a = [30, 13, 19, 11, 20, 50, -2, 40, 11, 10]
func Put[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T]) error {
	return tensor.Put(a, indices, values)
}

// PutFlat scatters values into a by flat position in a's layout order.
func PutFlat[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T]) error {
	return tensor.PutFlat(a, indices, values)
}

// PutAlongAxis is the scatter counterpart of TakeAlongAxis.
func PutAlongAxis[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T], axis int) error {
	return tensor.PutAlongAxis(a, indices, values, axis)
}

// Masks

// Compress keeps the elements of a where cond is true, as a 1-D tensor.
func Compress[T DType](a Expr[T], cond Expr[bool]) (*Tensor[T], error) {
	return tensor.Compress(a, cond)
}

// CompressAxis keeps whole slices of a along axis where the 1-D cond is true.
func CompressAxis[T DType](a Expr[T], cond Expr[bool], axis int) (*Tensor[T], error) {
	return tensor.CompressAxis(a, cond, axis)
}

// Place fills the true positions of cond, in order, with consecutive values.
func Place[T DType](a *Tensor[T], cond Expr[bool], values Expr[T]) error {
	return tensor.Place(a, cond, values)
}

// PutMask sets a[i] = values[i] wherever cond[i], with values broadcast to a.
func PutMask[T DType](a *Tensor[T], cond Expr[bool], values Expr[T]) error {
	return tensor.PutMask(a, cond, values)
}

// CountTrue returns the number of true elements.
func CountTrue(cond Expr[bool]) int {
	return tensor.CountTrue(cond)
}

// ArgWhere returns the multi-indices of true elements as an (N, rank) tensor.
func ArgWhere(cond Expr[bool]) (*Tensor[int], error) {
	return tensor.ArgWhere(cond)
}

// Vectorized index conversion

// RavelExpr is the lazy form of RavelIndex over coordinate arrays.
type RavelExpr[I Integer] = tensor.RavelExpr[I]

// UnravelExpr is one axis of the lazy form of UnravelIndex.
type UnravelExpr[I Integer] = tensor.UnravelExpr[I]

// RavelMultiIndex converts per-axis coordinate arrays into flat offsets.
func RavelMultiIndex[I Integer](coords []Expr[I], target Shape, layout Layout) (*RavelExpr[I], error) {
	return tensor.RavelMultiIndex(coords, target, layout)
}

// UnravelIndices converts flat offsets into one coordinate expression per axis.
func UnravelIndices[I Integer](flat Expr[I], target Shape, layout Layout) ([]*UnravelExpr[I], error) {
	return tensor.UnravelIndices(flat, target, layout)
}
