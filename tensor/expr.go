// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndarray/internal/tensor"
)

// Expr is anything with a shape, a layout and read access by multi-index.
// *Tensor, *Node, *Compare and *Convert all implement it, and so can user types.
type Expr[T DType] = tensor.Expr[T]

// Node is a lazy elementwise expression.
type Node[T DType] = tensor.Node[T]

// Op tags the variant of a Node.
type Op = tensor.Op

// Node variants.
const (
	OpScalar    Op = tensor.OpScalar
	OpUnary     Op = tensor.OpUnary
	OpBinary    Op = tensor.OpBinary
	OpWhere     Op = tensor.OpWhere
	OpBroadcast Op = tensor.OpBroadcast
)

// Compare is a lazy elementwise comparison producing booleans.
type Compare[T Numeric] = tensor.Compare[T]

// CmpOp identifies a comparison.
type CmpOp = tensor.CmpOp

// Comparisons.
const (
	CmpEqual        CmpOp = tensor.CmpEqual
	CmpNotEqual     CmpOp = tensor.CmpNotEqual
	CmpLess         CmpOp = tensor.CmpLess
	CmpLessEqual    CmpOp = tensor.CmpLessEqual
	CmpGreater      CmpOp = tensor.CmpGreater
	CmpGreaterEqual CmpOp = tensor.CmpGreaterEqual
)

// Convert is a lazy element type conversion.
type Convert[S, T Numeric] = tensor.Convert[S, T]

// Scalar wraps a value as a rank-0 expression that broadcasts to any shape.
func Scalar[T DType](v T) *Node[T] { return tensor.Scalar(v) }

// Map applies f lazily to every element of x.
func Map[T DType](x Expr[T], f func(T) T) *Node[T] { return tensor.Map(x, f) }

// Zip combines x and y lazily with f, broadcasting their shapes.
func Zip[T DType](x, y Expr[T], f func(T, T) T) (*Node[T], error) { return tensor.Zip(x, y, f) }

// Where selects from x where cond is true and from y elsewhere.
func Where[T DType](cond Expr[bool], x, y Expr[T]) (*Node[T], error) {
	return tensor.Where(cond, x, y)
}

// Broadcast lazily repeats x to shape.
func Broadcast[T DType](x Expr[T], shape Shape) (*Node[T], error) {
	return tensor.Broadcast(x, shape)
}

// Add returns the lazy sum x + y.
func Add[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Add(x, y) }

// Sub returns the lazy difference x - y.
func Sub[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Sub(x, y) }

// Mul returns the lazy product x * y.
func Mul[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Mul(x, y) }

// Div returns the lazy quotient x / y.
func Div[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Div(x, y) }

// Minimum returns the lazy elementwise minimum.
func Minimum[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Minimum(x, y) }

// Maximum returns the lazy elementwise maximum.
func Maximum[T Numeric](x, y Expr[T]) (*Node[T], error) { return tensor.Maximum(x, y) }

// Neg returns the lazy negation.
func Neg[T Numeric](x Expr[T]) *Node[T] { return tensor.Neg(x) }

// Abs returns the lazy absolute value.
func Abs[T Numeric](x Expr[T]) *Node[T] { return tensor.Abs(x) }

// And returns the lazy logical conjunction.
func And(x, y Expr[bool]) (*Node[bool], error) { return tensor.And(x, y) }

// Or returns the lazy logical disjunction.
func Or(x, y Expr[bool]) (*Node[bool], error) { return tensor.Or(x, y) }

// Not returns the lazy logical negation.
func Not(x Expr[bool]) *Node[bool] { return tensor.Not(x) }

// Cmp builds a lazy comparison of x and y.
func Cmp[T Numeric](op CmpOp, x, y Expr[T]) (*Compare[T], error) { return tensor.Cmp(op, x, y) }

// Equal returns the lazy mask x == y.
func Equal[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.Equal(x, y) }

// NotEqual returns the lazy mask x != y.
func NotEqual[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.NotEqual(x, y) }

// Less returns the lazy mask x < y.
func Less[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.Less(x, y) }

// LessEqual returns the lazy mask x <= y.
func LessEqual[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.LessEqual(x, y) }

// Greater returns the lazy mask x > y.
func Greater[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.Greater(x, y) }

// GreaterEqual returns the lazy mask x >= y.
func GreaterEqual[T Numeric](x, y Expr[T]) (*Compare[T], error) { return tensor.GreaterEqual(x, y) }

// Cast returns a lazy conversion of x to element type T.
//
// Example:
//
//	f := tensor.Cast[float64, int](counts)
func Cast[T, S Numeric](x Expr[S]) *Convert[S, T] { return tensor.Cast[T](x) }

// Eval materializes e into a new tensor with the given layout.
func Eval[T DType](e Expr[T], layout Layout) (*Tensor[T], error) { return tensor.Eval(e, layout) }

// EvalParallel is Eval with copies of tensors split across up to workers
// goroutines; 0 means GOMAXPROCS. Lazy nodes are evaluated on the caller.
//
// Example:
//
//	tr, _ := tensor.Transpose(big)
//	c, _ := tensor.EvalParallel[float32](tr, tensor.RowMajor, 0)
func EvalParallel[T DType](e Expr[T], layout Layout, workers int) (*Tensor[T], error) {
	return tensor.EvalParallel(e, layout, workers)
}

// Assign evaluates e into dst, broadcasting e to dst's shape. Assigning an
// expression that reads dst is well defined.
func Assign[T DType](dst *Tensor[T], e Expr[T]) error { return tensor.Assign(dst, e) }
