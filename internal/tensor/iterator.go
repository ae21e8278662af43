package tensor

import (
	"iter"
	"reflect"

	"github.com/pkg/errors"
)

// Iterator is a random-access cursor over any Expr. It holds a logical linear
// position in [0, size] and converts it to a multi-index on demand, walking in
// the requested order regardless of how the underlying buffer is laid out.
//
// Arithmetic (Advance, Distance) works purely on the linear position.
type Iterator[T DType] struct {
	src   Expr[T]
	shape Shape
	order Layout
	size  int
	pos   int
	idx   []int
	valid bool // idx matches pos
}

// Begin returns an iterator at the first element of e in the given order.
func Begin[T DType](e Expr[T], order Layout) *Iterator[T] {
	return newIterator(e, order, 0)
}

// End returns the past-the-end iterator of e in the given order.
func End[T DType](e Expr[T], order Layout) *Iterator[T] {
	return newIterator(e, order, e.Shape().NumElements())
}

func newIterator[T DType](e Expr[T], order Layout, pos int) *Iterator[T] {
	shape := e.Shape()
	return &Iterator[T]{
		src:   e,
		shape: shape,
		order: order,
		size:  shape.NumElements(),
		pos:   pos,
		idx:   make([]int, len(shape)),
	}
}

// Order returns the traversal order.
func (it *Iterator[T]) Order() Layout {
	return it.order
}

// Pos returns the linear position.
func (it *Iterator[T]) Pos() int {
	return it.pos
}

// Done reports whether the iterator is at or past the end.
func (it *Iterator[T]) Done() bool {
	return it.pos >= it.size
}

// Index returns the multi-index at the current position. The returned slice is
// owned by the iterator and must not be modified.
func (it *Iterator[T]) Index() Index {
	it.sync()
	return it.idx
}

// Value dereferences the iterator. Panics past the end.
func (it *Iterator[T]) Value() T {
	it.sync()
	return it.src.Elem(it.idx)
}

// Set writes through the iterator. The source must be a writable *Tensor.
func (it *Iterator[T]) Set(v T) error {
	dst, ok := it.src.(*Tensor[T])
	if !ok {
		return errors.Wrapf(ErrReadOnly, "iterator set: %T is not assignable", it.src)
	}
	if dst.readOnly {
		return errors.Wrap(ErrReadOnly, "iterator set")
	}
	it.sync()
	dst.SetElem(it.idx, v)
	return nil
}

// Next advances by one position.
func (it *Iterator[T]) Next() {
	if it.valid && it.pos+1 < it.size {
		increment(it.idx, it.shape, it.order)
	} else {
		it.valid = false
	}
	it.pos++
}

// Prev steps back by one position.
func (it *Iterator[T]) Prev() {
	if it.valid && it.pos > 0 {
		decrement(it.idx, it.shape, it.order)
	} else {
		it.valid = false
	}
	it.pos--
}

// Advance moves the position by n (it += n).
func (it *Iterator[T]) Advance(n int) {
	it.pos += n
	it.valid = false
}

// Add returns a new iterator n positions ahead (it + n).
func (it *Iterator[T]) Add(n int) *Iterator[T] {
	return newIterator(it.src, it.order, it.pos+n)
}

// Distance returns it - other.
func (it *Iterator[T]) Distance(other *Iterator[T]) int {
	return it.pos - other.pos
}

// Equal reports whether both iterators walk the same source in the same order
// and sit at the same position. Sources of a non-comparable dynamic type,
// such as a struct holding a slice, never compare equal.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	return it.order == other.order && it.pos == other.pos && sameSource(it.src, other.src)
}

func sameSource(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.ValueOf(a).Comparable() {
		return false
	}
	return a == b
}

func (it *Iterator[T]) sync() {
	if it.valid {
		return
	}
	if it.pos < 0 || it.pos >= it.size {
		panic(rangeError("iterator", "position %d outside [0, %d)", it.pos, it.size))
	}
	unravelInto(it.idx, it.pos, it.shape, it.order)
	it.valid = true
}

// Indices iterates over every multi-index of shape in the given order.
//
// It yields the linear position and the multi-index. The yielded index is
// owned by the sequence: don't change it inside the loop.
func Indices(shape Shape, order Layout) iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		n := shape.NumElements()
		if n == 0 {
			return
		}
		idx := make([]int, len(shape))
		for pos := 0; pos < n; pos++ {
			if !yield(pos, idx) {
				return
			}
			increment(idx, shape, order)
		}
	}
}

// Values iterates over the elements of e in the given order.
func Values[T DType](e Expr[T], order Layout) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for pos, idx := range Indices(e.Shape(), order) {
			if !yield(pos, e.Elem(idx)) {
				return
			}
		}
	}
}
