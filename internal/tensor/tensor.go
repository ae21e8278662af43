package tensor

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
)

// Kind tells how a Tensor maps logical positions onto its buffer.
type Kind int

// Storage kinds.
const (
	// Owned tensors allocated their buffer and are contiguous in their layout.
	Owned Kind = iota
	// Strided tensors borrow a buffer through shape, strides and an offset.
	Strided
	// Indirect tensors borrow a buffer through an explicit per-position offset map.
	Indirect
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Owned:
		return "owned"
	case Strided:
		return "strided"
	case Indirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// maxAllocBytes bounds a single buffer allocation.
const maxAllocBytes = 1 << 40

// buffer is the storage shared by an owner and all of its views.
type buffer[T DType] struct {
	data []T
}

func allocate[T DType](op string, n int) (buf *buffer[T], err error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	if n < 0 || n > maxAllocBytes/size {
		return nil, errors.Wrapf(ErrOutOfMemory, "%s: cannot allocate %d elements of %d bytes", op, n, size)
	}
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			buf, err = nil, errors.Wrapf(ErrOutOfMemory, "%s: %v", op, re)
		}
	}()
	return &buffer[T]{data: make([]T, n)}, nil
}

// Tensor is the single storage type of the engine. Depending on Kind it owns a
// contiguous buffer, views another tensor's buffer through strides, or views it
// through an index map.
//
// Views alias their source: writes through a view are visible through the
// owner and every other view of the same buffer. The engine does not track
// lifetimes or guard concurrent mutation; sharing a mutable view across
// goroutines requires external synchronization.
type Tensor[T DType] struct {
	buf      *buffer[T]
	shape    Shape
	strides  []int // Owned, Strided
	offset   int   // Owned, Strided
	index    []int // Indirect: buffer offset per logical position, in layout order
	layout   Layout
	kind     Kind
	readOnly bool
}

// Empty allocates an owned tensor with zero-valued elements.
func Empty[T DType](shape Shape, layout Layout) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, err
	}
	buf, err := allocate[T]("empty", n)
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{
		buf:     buf,
		shape:   shape.Clone(),
		strides: shape.Strides(layout),
		layout:  layout,
		kind:    Owned,
	}, nil
}

// Kind returns the storage kind.
func (t *Tensor[T]) Kind() Kind {
	return t.kind
}

// Shape returns the tensor's shape. The returned slice must not be modified.
func (t *Tensor[T]) Shape() Shape {
	return t.shape
}

// Dim returns the length of one axis; negative axes count from the end.
func (t *Tensor[T]) Dim(axis int) int {
	a, err := normalizeAxis("dim", axis, len(t.shape))
	if err != nil {
		panic(err)
	}
	return t.shape[a]
}

// Rank returns the number of axes.
func (t *Tensor[T]) Rank() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor[T]) Size() int {
	return t.shape.NumElements()
}

// Layout returns the layout that defines the tensor's flat ordering.
func (t *Tensor[T]) Layout() Layout {
	return t.layout
}

// Strides returns per-axis element strides, or nil for indirect tensors.
func (t *Tensor[T]) Strides() []int {
	if t.kind == Indirect {
		return nil
	}
	return append([]int(nil), t.strides...)
}

// Offset returns the buffer offset of the first element of a strided tensor.
func (t *Tensor[T]) Offset() int {
	return t.offset
}

// ReadOnly reports whether writes through this tensor are rejected.
func (t *Tensor[T]) ReadOnly() bool {
	return t.readOnly
}

// IsContiguous reports whether the elements occupy one dense run of the
// buffer in the tensor's own layout order.
func (t *Tensor[T]) IsContiguous() bool {
	if t.kind == Indirect {
		return false
	}
	want := t.shape.Strides(t.layout)
	for i, d := range t.shape {
		if d != 1 && t.strides[i] != want[i] {
			return false
		}
	}
	return true
}

// Aliases reports whether t and other share a buffer.
func (t *Tensor[T]) Aliases(other *Tensor[T]) bool {
	return t.buf == other.buf
}

func (t *Tensor[T]) offsetOf(idx []int) int {
	if t.kind == Indirect {
		return t.index[ravel(idx, t.shape, t.layout)]
	}
	off := t.offset
	for i, v := range idx {
		off += v * t.strides[i]
	}
	return off
}

// flatOffset returns the buffer offset of logical flat position i.
func (t *Tensor[T]) flatOffset(i int, scratch []int) int {
	if t.kind == Indirect {
		return t.index[i]
	}
	if t.kind == Owned {
		return t.offset + i
	}
	unravelInto(scratch, i, t.shape, t.layout)
	return t.offsetOf(scratch)
}

// Elem returns the element at idx without bounds checks.
func (t *Tensor[T]) Elem(idx []int) T {
	return t.buf.data[t.offsetOf(idx)]
}

// SetElem writes the element at idx without bounds or read-only checks.
func (t *Tensor[T]) SetElem(idx []int, v T) {
	t.buf.data[t.offsetOf(idx)] = v
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
//
// Example:
//
//	t, _ := tensor.Zeros[float32](Shape{3, 4}, RowMajor)
//	value := t.At(1, 2) // Row 1, column 2
func (t *Tensor[T]) At(indices ...int) T {
	mustIndex("at", indices, t.shape)
	return t.Elem(indices)
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds or the tensor is read-only.
func (t *Tensor[T]) Set(value T, indices ...int) {
	if err := t.Store(value, indices...); err != nil {
		panic(err)
	}
}

// Get is the error-returning form of At.
func (t *Tensor[T]) Get(indices ...int) (T, error) {
	if err := checkIndex("get", indices, t.shape); err != nil {
		var zero T
		return zero, err
	}
	return t.Elem(indices), nil
}

// Store is the error-returning form of Set.
func (t *Tensor[T]) Store(value T, indices ...int) error {
	if t.readOnly {
		return errors.Wrap(ErrReadOnly, "store")
	}
	if err := checkIndex("store", indices, t.shape); err != nil {
		return err
	}
	t.SetElem(indices, value)
	return nil
}

// Flat returns the element at flat position i in the tensor's layout order.
// Panics if i is out of range.
func (t *Tensor[T]) Flat(i int) T {
	if i < 0 || i >= t.Size() {
		panic(rangeError("flat", "flat index %d for size %d", i, t.Size()))
	}
	return t.buf.data[t.flatOffset(i, make([]int, len(t.shape)))]
}

// SetFlat writes the element at flat position i in the tensor's layout order.
// Panics if i is out of range or the tensor is read-only.
func (t *Tensor[T]) SetFlat(i int, v T) {
	if t.readOnly {
		panic(errors.Wrap(ErrReadOnly, "set_flat"))
	}
	if i < 0 || i >= t.Size() {
		panic(rangeError("set_flat", "flat index %d for size %d", i, t.Size()))
	}
	t.buf.data[t.flatOffset(i, make([]int, len(t.shape)))] = v
}

// Data returns the backing slice of a contiguous tensor, in layout order.
// The slice directly accesses the underlying memory (zero-copy).
// Panics if the tensor is not contiguous; use ToSlice for a copy.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T]) Data() []T {
	if !t.IsContiguous() {
		panic(errors.Errorf("data: %s tensor of shape %v is not contiguous", t.kind, t.shape))
	}
	return t.buf.data[t.offset : t.offset+t.Size()]
}

// ToSlice copies the elements into a new slice in the given traversal order.
func (t *Tensor[T]) ToSlice(order Layout) []T {
	out := make([]T, 0, t.Size())
	for _, v := range Values[T](t, order) {
		out = append(out, v)
	}
	return out
}

// Clone creates a deep copy of the tensor as an owned tensor in the same layout.
func (t *Tensor[T]) Clone() *Tensor[T] {
	c, err := Copy[T](t, t.layout)
	if err != nil {
		panic(err)
	}
	return c
}

// Item returns the value of a tensor holding exactly one element.
func (t *Tensor[T]) Item() T {
	if t.Size() != 1 {
		panic(errors.Wrapf(ErrShapeMismatch, "item: tensor of shape %v has %d elements", t.shape, t.Size()))
	}
	return t.buf.data[t.flatOffset(0, make([]int, len(t.shape)))]
}

// Fill writes v to every element.
func (t *Tensor[T]) Fill(v T) error {
	if t.readOnly {
		return errors.Wrap(ErrReadOnly, "fill")
	}
	if t.IsContiguous() {
		data := t.Data()
		for i := range data {
			data[i] = v
		}
		return nil
	}
	for _, idx := range Indices(t.shape, t.layout) {
		t.SetElem(idx, v)
	}
	return nil
}

// String returns the tensor formatted with DefaultPrintOptions.
func (t *Tensor[T]) String() string {
	return Format[T](t, DefaultPrintOptions())
}

// dependsOn implements aliasing detection for Assign.
func (t *Tensor[T]) dependsOn(buf any) bool {
	b, ok := buf.(*buffer[T])
	return ok && b == t.buf
}
