// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is an N-dimensional array engine in the style of NumPy.
//
// # Overview
//
// The package provides:
//   - Generic type-safe tensors (Tensor[T]) in row-major or column-major layout
//   - Owned, strided and indirect (index-mapped) storage behind one type
//   - NumPy-style broadcasting
//   - Lazy elementwise expressions that never allocate until evaluated
//   - Fancy indexing: take, put, compress, place, putmask and their axis forms
//   - Shape manipulation: broadcast_to, expand_dims, squeeze, concatenate,
//     stack, tile, repeat and pad
//
// # Basic Usage
//
//	import "github.com/born-ml/ndarray/tensor"
//
//	func main() {
//	    a, _ := tensor.FromSlice([]int{7, 13, 19, 11, 5}, tensor.Shape{5}, tensor.RowMajor)
//
//	    mask, _ := tensor.Greater[int](a, tensor.Scalar(10))
//	    big, _ := tensor.Compress[int](a, mask) // [13 19 11]
//
//	    idx, _ := tensor.FromSlice([]int{4, 0}, tensor.Shape{2}, tensor.RowMajor)
//	    picked, _ := tensor.Take[int, int](a, idx) // [5 7]
//	}
//
// # Views and Aliasing
//
// Transpose, Slice, Flip, Reshape, ExpandDims, Squeeze, BroadcastTo, IndexView
// and Filter return views that share the source buffer. Writes through a view
// are visible through the source and vice versa. BroadcastTo views are
// read-only because several positions alias one element.
//
// # Lazy Expressions
//
// Add, Mul, Where, Map and the comparison functions build expression nodes.
// Nothing is computed until Eval, Assign or an iterator reads the node.
// Assign buffers its input when it may read the destination, so
//
//	sum, _ := tensor.Add[int](a, flipped) // flipped is a view of a
//	_ = tensor.Assign[int](a, sum)
//
// is well defined.
//
// # Errors
//
// Every error wraps one of ErrShapeMismatch, ErrOutOfRange, ErrOutOfMemory,
// ErrReadOnly or ErrInvalidArgument; test with errors.Is. Operations that
// fail leave their destination unchanged.
//
// # Thread Safety
//
// Tensors carry no locks. Concurrent reads are safe; concurrent writes, or a
// write concurrent with reads of an aliasing view, need external
// synchronization. Expression nodes keep scratch state and must not be
// evaluated from several goroutines at once.
//
// Nothing runs concurrently unless asked: EvalParallel splits a large copy
// across goroutines and returns once every chunk is written.
package tensor
