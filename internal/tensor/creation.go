package tensor

import (
	"iter"
	"math"

	"github.com/pkg/errors"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t, err := tensor.Zeros[float32](Shape{3, 4}, RowMajor)
func Zeros[T DType](shape Shape, layout Layout) (*Tensor[T], error) {
	// Data is already zero-initialized by make()
	return Empty[T](shape, layout)
}

// Ones creates a numeric tensor filled with ones.
func Ones[T Numeric](shape Shape, layout Layout) (*Tensor[T], error) {
	return Full[T](shape, 1, layout)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t, err := tensor.Full[float32](Shape{3, 3}, 3.14, RowMajor)
func Full[T DType](shape Shape, value T, layout Layout) (*Tensor[T], error) {
	t, err := Empty[T](shape, layout)
	if err != nil {
		return nil, err
	}
	data := t.buf.data
	for i := range data {
		data[i] = value
	}
	return t, nil
}

// ZerosLike creates a zero tensor with the shape and layout of e.
func ZerosLike[T DType](e Expr[T]) (*Tensor[T], error) {
	return Empty[T](e.Shape(), e.Layout())
}

// FromSlice creates a tensor from a Go slice interpreted in the given layout.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape, layout Layout) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "from_slice: shape %v requires %d elements, but got %d", shape, n, len(data))
	}
	t, err := Empty[T](shape, layout)
	if err != nil {
		return nil, err
	}
	copy(t.buf.data, data)
	return t, nil
}

// Wrap creates an owned tensor over data without copying. The caller hands
// ownership of data to the tensor.
func Wrap[T DType](data []T, shape Shape, layout Layout) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "wrap: shape %v requires %d elements, but got %d", shape, n, len(data))
	}
	return &Tensor[T]{
		buf:     &buffer[T]{data: data},
		shape:   shape.Clone(),
		strides: shape.Strides(layout),
		layout:  layout,
		kind:    Owned,
	}, nil
}

// FromSeq creates a tensor from an iterator range, filling it in layout
// order. The sequence must yield exactly shape.NumElements() values.
func FromSeq[T DType](seq iter.Seq[T], shape Shape, layout Layout) (*Tensor[T], error) {
	t, err := Empty[T](shape, layout)
	if err != nil {
		return nil, err
	}
	data := t.buf.data
	n := 0
	for v := range seq {
		if n == len(data) {
			return nil, errors.Wrapf(ErrShapeMismatch, "from_seq: shape %v requires %d elements, sequence is longer", shape, len(data))
		}
		data[n] = v
		n++
	}
	if n != len(data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "from_seq: shape %v requires %d elements, but got %d", shape, len(data), n)
	}
	return t, nil
}

// Arange creates a 1D tensor with values start, start+step, ... below stop
// (above stop for a negative step).
//
// Example:
//
//	t, _ := tensor.Arange[int32](0, 10, 1) // [0, 1, 2, ..., 9]
func Arange[T Numeric](start, stop, step T) (*Tensor[T], error) {
	if step == 0 {
		return nil, argError("arange", "step must be non-zero")
	}
	n, err := arangeLen(start, stop, step)
	if err != nil {
		return nil, err
	}
	t, err := Empty[T](Shape{n}, RowMajor)
	if err != nil {
		return nil, err
	}
	for i := range t.buf.data {
		t.buf.data[i] = start + T(i)*step
	}
	return t, nil
}

// arangeLen returns ceil((stop-start)/step) clamped at zero. Integer counts
// are computed in uint64 two's complement, which is exact for every Integer
// type; float counts go through float64.
func arangeLen[T Numeric](start, stop, step T) (int, error) {
	var half T = 1
	half /= 2
	if half != 0 {
		f := math.Ceil((float64(stop) - float64(start)) / float64(step))
		switch {
		case math.IsNaN(f) || f <= 0:
			return 0, nil
		case f >= math.MaxInt:
			return 0, errors.Wrapf(ErrOutOfMemory, "arange: %v elements", f)
		}
		return int(f), nil
	}

	var dist, s uint64
	switch {
	case step > 0 && stop > start:
		dist, s = uint64(stop)-uint64(start), uint64(step)
	case step < 0 && stop < start:
		dist, s = uint64(start)-uint64(stop), -uint64(step)
	default:
		return 0, nil
	}
	n := dist / s
	if dist%s != 0 {
		n++
	}
	if n > math.MaxInt {
		return 0, errors.Wrapf(ErrOutOfMemory, "arange: %d elements", n)
	}
	return int(n), nil
}

// Linspace creates num evenly spaced values over [start, stop].
func Linspace[T ~float32 | ~float64](start, stop T, num int) (*Tensor[T], error) {
	if num < 0 {
		return nil, argError("linspace", "num must be non-negative, got %d", num)
	}
	t, err := Empty[T](Shape{num}, RowMajor)
	if err != nil {
		return nil, err
	}
	if num == 1 {
		t.buf.data[0] = start
		return t, nil
	}
	for i := range t.buf.data {
		t.buf.data[i] = start + (stop-start)*T(i)/T(num-1)
	}
	return t, nil
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	t, _ := tensor.Eye[float32](3) // 3x3 identity matrix
func Eye[T Numeric](n int) (*Tensor[T], error) {
	t, err := Zeros[T](Shape{n, n}, RowMajor)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		t.buf.data[i*n+i] = 1
	}
	return t, nil
}
