package tensor

import (
	"github.com/pkg/errors"

	"github.com/born-ml/ndarray/internal/parallel"
)

// Expr is anything with a shape, a layout and read access by multi-index.
// Tensors, lazy nodes and user types all satisfy it; every operation in this
// package accepts an Expr wherever it only needs to read.
//
// Elem must not retain idx and performs no bounds checking.
type Expr[T DType] interface {
	Shape() Shape
	Layout() Layout
	Elem(idx []int) T
}

// aliaser is implemented by expressions that can tell whether evaluating them
// reads a given buffer. Foreign Expr implementations are assumed to alias.
type aliaser interface {
	dependsOn(buf any) bool
}

func exprDependsOn[T DType](e Expr[T], buf any) bool {
	if a, ok := e.(aliaser); ok {
		return a.dependsOn(buf)
	}
	return true
}

// Op tags the variant of a Node.
type Op int

// Node variants.
const (
	OpScalar Op = iota
	OpUnary
	OpBinary
	OpWhere
	OpBroadcast
)

// String returns the variant name.
func (op Op) String() string {
	switch op {
	case OpScalar:
		return "scalar"
	case OpUnary:
		return "unary"
	case OpBinary:
		return "binary"
	case OpWhere:
		return "where"
	case OpBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// Node is a lazy elementwise expression. It never allocates a result buffer:
// Elem evaluates the operation on demand, reading each operand at its
// broadcast position. Materialize with Eval or Assign.
//
// A Node keeps per-operand scratch indices, so a single Node must not be
// evaluated from several goroutines at once.
type Node[T DType] struct {
	op     Op
	name   string
	shape  Shape
	layout Layout
	value  T
	cond   Expr[bool]
	x, y   Expr[T]
	unary  func(T) T
	binary func(T, T) T

	cs, xs, ys []int
}

// Op returns the node variant.
func (n *Node[T]) Op() Op {
	return n.op
}

// Name returns the operation name given at construction ("add", "map", ...).
func (n *Node[T]) Name() string {
	return n.name
}

// Shape returns the broadcast shape of the operands.
func (n *Node[T]) Shape() Shape {
	return n.shape
}

// Layout returns the layout of the first operand.
func (n *Node[T]) Layout() Layout {
	return n.layout
}

// Elem evaluates the node at idx.
func (n *Node[T]) Elem(idx []int) T {
	switch n.op {
	case OpScalar:
		return n.value
	case OpUnary:
		return n.unary(n.x.Elem(n.mapX(idx)))
	case OpBinary:
		return n.binary(n.x.Elem(n.mapX(idx)), n.y.Elem(n.mapY(idx)))
	case OpWhere:
		broadcastInto(n.cs, idx, n.cond.Shape())
		if n.cond.Elem(n.cs) {
			return n.x.Elem(n.mapX(idx))
		}
		return n.y.Elem(n.mapY(idx))
	case OpBroadcast:
		return n.x.Elem(n.mapX(idx))
	default:
		panic(errors.Errorf("node: unknown op %d", int(n.op)))
	}
}

func (n *Node[T]) mapX(idx []int) []int {
	broadcastInto(n.xs, idx, n.x.Shape())
	return n.xs
}

func (n *Node[T]) mapY(idx []int) []int {
	broadcastInto(n.ys, idx, n.y.Shape())
	return n.ys
}

func (n *Node[T]) dependsOn(buf any) bool {
	if n.cond != nil && exprDependsOn(n.cond, buf) {
		return true
	}
	if n.x != nil && exprDependsOn(n.x, buf) {
		return true
	}
	return n.y != nil && exprDependsOn(n.y, buf)
}

// Scalar wraps a single value as a rank-0 expression that broadcasts to any shape.
func Scalar[T DType](v T) *Node[T] {
	return &Node[T]{op: OpScalar, name: "scalar", shape: Shape{}, value: v}
}

// Map applies f lazily to every element of x.
func Map[T DType](x Expr[T], f func(T) T) *Node[T] {
	shape := x.Shape().Clone()
	return &Node[T]{
		op:     OpUnary,
		name:   "map",
		shape:  shape,
		layout: x.Layout(),
		x:      x,
		unary:  f,
		xs:     make([]int, len(shape)),
	}
}

// Zip combines x and y lazily with f, broadcasting their shapes.
func Zip[T DType](x, y Expr[T], f func(T, T) T) (*Node[T], error) {
	return binary("zip", x, y, f)
}

func binary[T DType](name string, x, y Expr[T], f func(T, T) T) (*Node[T], error) {
	shape, err := BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return &Node[T]{
		op:     OpBinary,
		name:   name,
		shape:  shape,
		layout: x.Layout(),
		x:      x,
		y:      y,
		binary: f,
		xs:     make([]int, len(x.Shape())),
		ys:     make([]int, len(y.Shape())),
	}, nil
}

// Where selects from x where cond is true and from y elsewhere, broadcasting
// all three operands.
func Where[T DType](cond Expr[bool], x, y Expr[T]) (*Node[T], error) {
	shape, err := BroadcastShapes(cond.Shape(), x.Shape(), y.Shape())
	if err != nil {
		return nil, errors.Wrap(err, "where")
	}
	return &Node[T]{
		op:     OpWhere,
		name:   "where",
		shape:  shape,
		layout: x.Layout(),
		cond:   cond,
		x:      x,
		y:      y,
		cs:     make([]int, len(cond.Shape())),
		xs:     make([]int, len(x.Shape())),
		ys:     make([]int, len(y.Shape())),
	}, nil
}

// Broadcast lazily repeats x to shape. Unlike BroadcastTo it accepts any Expr
// and never builds a view.
func Broadcast[T DType](x Expr[T], shape Shape) (*Node[T], error) {
	if !CanBroadcastTo(x.Shape(), shape) {
		return nil, shapeError("broadcast", x.Shape(), shape)
	}
	return &Node[T]{
		op:     OpBroadcast,
		name:   "broadcast",
		shape:  shape.Clone(),
		layout: x.Layout(),
		x:      x,
		xs:     make([]int, len(x.Shape())),
	}, nil
}

// Add returns the lazy sum x + y.
func Add[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("add", x, y, func(a, b T) T { return a + b })
}

// Sub returns the lazy difference x - y.
func Sub[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("sub", x, y, func(a, b T) T { return a - b })
}

// Mul returns the lazy product x * y.
func Mul[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("mul", x, y, func(a, b T) T { return a * b })
}

// Div returns the lazy quotient x / y. Integer division by zero panics on evaluation.
func Div[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("div", x, y, func(a, b T) T { return a / b })
}

// Minimum returns the lazy elementwise minimum.
func Minimum[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("minimum", x, y, func(a, b T) T { return min(a, b) })
}

// Maximum returns the lazy elementwise maximum.
func Maximum[T Numeric](x, y Expr[T]) (*Node[T], error) {
	return binary("maximum", x, y, func(a, b T) T { return max(a, b) })
}

// Neg returns the lazy negation -x.
func Neg[T Numeric](x Expr[T]) *Node[T] {
	n := Map(x, func(a T) T { return -a })
	n.name = "neg"
	return n
}

// Abs returns the lazy absolute value.
func Abs[T Numeric](x Expr[T]) *Node[T] {
	n := Map(x, func(a T) T {
		if a < 0 {
			return -a
		}
		return a
	})
	n.name = "abs"
	return n
}

// And returns the lazy logical conjunction.
func And(x, y Expr[bool]) (*Node[bool], error) {
	return binary("and", x, y, func(a, b bool) bool { return a && b })
}

// Or returns the lazy logical disjunction.
func Or(x, y Expr[bool]) (*Node[bool], error) {
	return binary("or", x, y, func(a, b bool) bool { return a || b })
}

// Not returns the lazy logical negation.
func Not(x Expr[bool]) *Node[bool] {
	n := Map(x, func(a bool) bool { return !a })
	n.name = "not"
	return n
}

// CmpOp identifies a comparison.
type CmpOp int

// Comparisons.
const (
	CmpEqual CmpOp = iota
	CmpNotEqual
	CmpLess
	CmpLessEqual
	CmpGreater
	CmpGreaterEqual
)

// String returns the operator symbol.
func (c CmpOp) String() string {
	return [...]string{"==", "!=", "<", "<=", ">", ">="}[c]
}

// Ordered is the constraint for comparable-by-order element types.
type Ordered interface {
	Numeric
}

// Compare is a lazy elementwise comparison producing booleans.
type Compare[T Ordered] struct {
	op     CmpOp
	shape  Shape
	x, y   Expr[T]
	xs, ys []int
}

// Shape returns the broadcast shape of the operands.
func (c *Compare[T]) Shape() Shape {
	return c.shape
}

// Layout returns the layout of the left operand.
func (c *Compare[T]) Layout() Layout {
	return c.x.Layout()
}

// Elem evaluates the comparison at idx.
func (c *Compare[T]) Elem(idx []int) bool {
	broadcastInto(c.xs, idx, c.x.Shape())
	broadcastInto(c.ys, idx, c.y.Shape())
	a, b := c.x.Elem(c.xs), c.y.Elem(c.ys)
	switch c.op {
	case CmpEqual:
		return a == b
	case CmpNotEqual:
		return a != b
	case CmpLess:
		return a < b
	case CmpLessEqual:
		return a <= b
	case CmpGreater:
		return a > b
	default:
		return a >= b
	}
}

func (c *Compare[T]) dependsOn(buf any) bool {
	return exprDependsOn(c.x, buf) || exprDependsOn(c.y, buf)
}

// Cmp builds a lazy comparison of x and y.
func Cmp[T Ordered](op CmpOp, x, y Expr[T]) (*Compare[T], error) {
	shape, err := BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		return nil, errors.Wrapf(err, "compare %s", op)
	}
	return &Compare[T]{
		op:    op,
		shape: shape,
		x:     x,
		y:     y,
		xs:    make([]int, len(x.Shape())),
		ys:    make([]int, len(y.Shape())),
	}, nil
}

// Equal returns the lazy mask x == y.
func Equal[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpEqual, x, y) }

// NotEqual returns the lazy mask x != y.
func NotEqual[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpNotEqual, x, y) }

// Less returns the lazy mask x < y.
func Less[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpLess, x, y) }

// LessEqual returns the lazy mask x <= y.
func LessEqual[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpLessEqual, x, y) }

// Greater returns the lazy mask x > y.
func Greater[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpGreater, x, y) }

// GreaterEqual returns the lazy mask x >= y.
func GreaterEqual[T Ordered](x, y Expr[T]) (*Compare[T], error) { return Cmp(CmpGreaterEqual, x, y) }

// Convert is a lazy element type conversion.
type Convert[S, T Numeric] struct {
	x Expr[S]
}

// Cast returns a lazy conversion of x to element type T.
func Cast[T, S Numeric](x Expr[S]) *Convert[S, T] {
	return &Convert[S, T]{x: x}
}

// Shape returns the shape of the source.
func (c *Convert[S, T]) Shape() Shape { return c.x.Shape() }

// Layout returns the layout of the source.
func (c *Convert[S, T]) Layout() Layout { return c.x.Layout() }

// Elem converts the source element at idx.
func (c *Convert[S, T]) Elem(idx []int) T { return T(c.x.Elem(idx)) }

func (c *Convert[S, T]) dependsOn(buf any) bool { return exprDependsOn(c.x, buf) }

// Eval materializes e into a new owned tensor with the given layout. All
// work happens on the calling goroutine.
func Eval[T DType](e Expr[T], layout Layout) (*Tensor[T], error) {
	return evalWith(e, layout, parallel.Config{})
}

// EvalParallel is Eval with tensor-to-tensor copies split across up to
// workers goroutines (GOMAXPROCS when workers is 0). Lazy nodes are still
// evaluated on the calling goroutine, since Map and Zip callbacks need not be
// safe for concurrent use. The call returns once every element is written.
func EvalParallel[T DType](e Expr[T], layout Layout, workers int) (*Tensor[T], error) {
	if workers < 0 {
		return nil, argError("eval", "negative worker count %d", workers)
	}
	cfg := parallel.DefaultConfig()
	if workers > 0 {
		cfg.Enabled = workers > 1
		cfg.NumWorkers = workers
	}
	return evalWith(e, layout, cfg)
}

func evalWith[T DType](e Expr[T], layout Layout, cfg parallel.Config) (*Tensor[T], error) {
	out, err := Empty[T](e.Shape(), layout)
	if err != nil {
		return nil, errors.Wrap(err, "eval")
	}
	if src, ok := e.(*Tensor[T]); ok {
		copyInto(out, src, cfg)
		return out, nil
	}
	data := out.buf.data
	for pos, idx := range Indices(out.shape, layout) {
		data[pos] = e.Elem(idx)
	}
	return out, nil
}

// copyInto fills the contiguous dst from src, which has dst's shape. Tensor
// reads have no side effects, so chunks may run concurrently.
func copyInto[T DType](dst, src *Tensor[T], cfg parallel.Config) {
	data := dst.buf.data
	shape, layout := dst.shape, dst.layout
	parallel.For(len(data), cfg, func(start, end int) {
		idx := make([]int, len(shape))
		unravelInto(idx, start, shape, layout)
		for pos := start; pos < end; pos++ {
			data[pos] = src.Elem(idx)
			increment(idx, shape, layout)
		}
	})
}

// Assign evaluates e into dst, broadcasting e to dst's shape. When e may read
// dst's buffer the result is buffered first, so assigning an expression into
// one of its own operands is well defined.
func Assign[T DType](dst *Tensor[T], e Expr[T]) error {
	if dst.readOnly {
		return errors.Wrap(ErrReadOnly, "assign")
	}
	if !CanBroadcastTo(e.Shape(), dst.shape) {
		return shapeError("assign", e.Shape(), dst.shape)
	}
	if exprDependsOn(e, dst.buf) {
		tmp, err := Eval(e, dst.layout)
		if err != nil {
			return errors.Wrap(err, "assign")
		}
		e = tmp
	}
	src := make([]int, len(e.Shape()))
	srcShape := e.Shape()
	for _, idx := range Indices(dst.shape, dst.layout) {
		broadcastInto(src, idx, srcShape)
		dst.SetElem(idx, e.Elem(src))
	}
	return nil
}
