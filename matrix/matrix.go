// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix connects rank-2 float64 tensors to gonum's mat package.
//
// Example:
//
//	v, _ := matrix.AsMatrix(t) // t is a (m, n) *tensor.Tensor[float64]
//	var gram mat.Dense
//	gram.Mul(v.T(), v)
package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/ndarray/internal/matrix"
	"github.com/born-ml/ndarray/tensor"
)

// View exposes a rank-2 tensor as a mat.Mutable without copying.
type View = matrix.View

// AsMatrix wraps a rank-2 tensor of any storage kind.
func AsMatrix(t *tensor.Tensor[float64]) (*View, error) {
	return matrix.AsMatrix(t)
}

// FromMatrix copies a gonum matrix into a new tensor.
func FromMatrix(m mat.Matrix, layout tensor.Layout) (*tensor.Tensor[float64], error) {
	return matrix.FromMatrix(m, layout)
}

// WrapDense returns a tensor view sharing d's storage.
func WrapDense(d *mat.Dense) (*tensor.Tensor[float64], error) {
	return matrix.WrapDense(d)
}

// ToDense copies a rank-2 expression into a new gonum Dense matrix.
func ToDense(e tensor.Expr[float64]) (*mat.Dense, error) {
	return matrix.ToDense(e)
}
