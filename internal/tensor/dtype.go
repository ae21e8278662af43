// Package tensor implements the N-dimensional array engine: shapes, layouts,
// broadcasting, owning/strided/indirect storage, iterators, lazy elementwise
// expressions and the fancy-indexing operations built on top of them.
package tensor

import "fmt"

// DType is a constraint for supported tensor element types.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	~bool | Numeric
}

// Numeric is the subset of DType that supports arithmetic.
type Numeric interface {
	Integer | ~float32 | ~float64
}

// Integer is the constraint for index-valued tensors.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// DataType represents runtime type information for tensors.
// It is used when a tensor is built from an untyped byte buffer.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
	Int8
	Int16
	Uint16
	Uint32
	Uint64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Uint8, Int8, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Float32, Int32, Uint32:
		return 4
	case Float64, Int64, Uint64:
		return 8
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	default:
		return "unknown"
	}
}

// DataTypeOf returns the runtime tag for T, and false when T has no
// fixed-size representation (int, uint and named types).
func DataTypeOf[T DType]() (DataType, bool) {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32, true
	case float64:
		return Float64, true
	case int32:
		return Int32, true
	case int64:
		return Int64, true
	case uint8:
		return Uint8, true
	case bool:
		return Bool, true
	case int8:
		return Int8, true
	case int16:
		return Int16, true
	case uint16:
		return Uint16, true
	case uint32:
		return Uint32, true
	case uint64:
		return Uint64, true
	default:
		return 0, false
	}
}
