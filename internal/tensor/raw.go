package tensor

import (
	"unsafe"

	"github.com/pkg/errors"
)

// FromRaw builds an owned tensor from a raw byte buffer holding elements of
// type T in native byte order, laid out in the given layout. This is the
// entry point for deserializers. The bytes are copied.
func FromRaw[T DType](raw []byte, dtype DataType, shape Shape, layout Layout) (*Tensor[T], error) {
	want, ok := DataTypeOf[T]()
	if !ok {
		return nil, argError("from_raw", "element type has no fixed-size representation")
	}
	if want != dtype {
		return nil, argError("from_raw", "buffer dtype is %s, tensor dtype is %s", dtype, want)
	}
	t, err := Empty[T](shape, layout)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(t.buf.data)*dtype.Size() {
		return nil, errors.Wrapf(ErrShapeMismatch, "from_raw: shape %v of %s needs %d bytes, got %d",
			shape, dtype, len(t.buf.data)*dtype.Size(), len(raw))
	}
	copy(asBytes(t.buf.data), raw)
	return t, nil
}

// Bytes returns the elements as raw native-order bytes in the tensor's layout
// order, together with their DataType. Non-contiguous tensors are compacted.
func (t *Tensor[T]) Bytes() ([]byte, DataType, error) {
	dtype, ok := DataTypeOf[T]()
	if !ok {
		return nil, 0, argError("bytes", "element type has no fixed-size representation")
	}
	src := t
	if !t.IsContiguous() {
		c, err := Copy[T](t, t.layout)
		if err != nil {
			return nil, 0, err
		}
		src = c
	}
	out := make([]byte, src.Size()*dtype.Size())
	copy(out, asBytes(src.Data()))
	return out, dtype, nil
}

// asBytes reinterprets a typed slice as bytes.
func asBytes[T DType](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounded by len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(zero)))
}
