// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// PrintOptions configures Format.
type PrintOptions = tensor.PrintOptions

// SignMode controls the sign printed for non-negative numbers.
type SignMode = tensor.SignMode

// Sign modes.
const (
	SignMinus SignMode = tensor.SignMinus
	SignPlus  SignMode = tensor.SignPlus
	SignSpace SignMode = tensor.SignSpace
)

// FloatMode controls how many fractional digits floats get.
type FloatMode = tensor.FloatMode

// Float modes.
const (
	FloatMaxPrec      FloatMode = tensor.FloatMaxPrec
	FloatFixed        FloatMode = tensor.FloatFixed
	FloatUnique       FloatMode = tensor.FloatUnique
	FloatMaxPrecEqual FloatMode = tensor.FloatMaxPrecEqual
)

// DefaultPrintOptions returns NumPy's defaults: precision 8, threshold 1000,
// 3 edge items, 75 columns.
func DefaultPrintOptions() PrintOptions {
	return tensor.DefaultPrintOptions()
}

// Format renders e as nested brackets.
//
// Example:
//
//	fmt.Println(tensor.Format[int](m, tensor.DefaultPrintOptions()))
//	// [[ 1  2  3]
//	//  [-4  5  6]]
func Format[T DType](e Expr[T], opts PrintOptions) string {
	return tensor.Format(e, opts)
}
