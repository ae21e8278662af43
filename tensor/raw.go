// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// DataTypeOf returns the runtime tag of T, and false for int, uint and named
// types that have no fixed-size tag.
func DataTypeOf[T DType]() (DataType, bool) {
	return tensor.DataTypeOf[T]()
}

// FromRaw builds a tensor from native-order bytes holding elements of dtype,
// laid out in the given layout. The bytes are copied.
//
// Example:
//
//	raw, dtype, _ := x.Bytes()
//	y, _ := tensor.FromRaw[float32](raw, dtype, x.Shape(), x.Layout())
func FromRaw[T DType](raw []byte, dtype DataType, shape Shape, layout Layout) (*Tensor[T], error) {
	return tensor.FromRaw[T](raw, dtype, shape, layout)
}
