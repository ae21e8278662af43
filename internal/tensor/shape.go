package tensor

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor.
// A zero-length Shape is a scalar; a zero entry makes the tensor empty.
type Shape []int

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
// Callers that need overflow detection use CheckedNumElements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// CheckedNumElements returns the element count, or ErrOutOfMemory when the
// product overflows an int.
func (s Shape) CheckedNumElements() (int, error) {
	n := uint64(1)
	for _, dim := range s {
		if dim == 0 {
			return 0, nil
		}
	}
	for _, dim := range s {
		hi, lo := bits.Mul64(n, uint64(dim))
		if hi != 0 || lo > math.MaxInt {
			return 0, errors.Wrapf(ErrOutOfMemory, "shape %v: element count overflows", s)
		}
		n = lo
	}
	return int(n), nil
}

// Validate checks that no dimension is negative.
// Zero-length dimensions are allowed and produce empty tensors.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Wrapf(ErrInvalidArgument, "invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides calculates the element strides implied by the shape and layout.
// Row-major: stride[i] = product of dims after i. Column-major: product of dims before i.
func (s Shape) Strides(layout Layout) []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	acc := 1
	if layout == ColumnMajor {
		for i := 0; i < len(s); i++ {
			strides[i] = acc
			acc *= s[i]
		}
		return strides
	}
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// ComputeStrides calculates row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	return s.Strides(RowMajor)
}

// Contains reports whether idx is a valid multi-index for the shape.
func (s Shape) Contains(idx Index) bool {
	if len(idx) != len(s) {
		return false
	}
	for i, v := range idx {
		if v < 0 || v >= s[i] {
			return false
		}
	}
	return true
}

// String formats the shape as a tuple, e.g. "(3, 5)".
func (s Shape) String() string {
	return formatTuple([]int(s))
}

// Index is a multi-index, one coordinate per axis.
type Index []int

// Equal checks if two indices are equal.
func (x Index) Equal(other Index) bool {
	return Shape(x).Equal(Shape(other))
}

// Clone returns a copy of the index.
func (x Index) Clone() Index {
	clone := make(Index, len(x))
	copy(clone, x)
	return clone
}

// Add returns the elementwise sum of two indices of the same rank.
func (x Index) Add(other Index) (Index, error) {
	if len(x) != len(other) {
		return nil, shapeError("index add", Shape(x), Shape(other))
	}
	out := make(Index, len(x))
	for i := range x {
		out[i] = x[i] + other[i]
	}
	return out, nil
}

// Sub returns the elementwise difference of two indices of the same rank.
func (x Index) Sub(other Index) (Index, error) {
	if len(x) != len(other) {
		return nil, shapeError("index sub", Shape(x), Shape(other))
	}
	out := make(Index, len(x))
	for i := range x {
		out[i] = x[i] - other[i]
	}
	return out, nil
}

// String formats the index as a tuple.
func (x Index) String() string {
	return formatTuple([]int(x))
}

func formatTuple(v []int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, d := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(d))
	}
	if len(v) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// ParseShape parses "(3, 5)", "[3 5]", "3x5" or "3,5". Empty brackets give a scalar shape.
func ParseShape(text string) (Shape, error) {
	v, err := parseTuple(text)
	if err != nil {
		return nil, err
	}
	s := Shape(v)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseIndex parses a multi-index in the same syntax as ParseShape.
// Negative coordinates are accepted; bounds are checked on access.
func ParseIndex(text string) (Index, error) {
	v, err := parseTuple(text)
	if err != nil {
		return nil, err
	}
	return Index(v), nil
}

func parseTuple(text string) ([]int, error) {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && (s[0] == '(' && s[len(s)-1] == ')' || s[0] == '[' && s[len(s)-1] == ']') {
		s = s[1 : len(s)-1]
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == 'x' || r == ' ' || r == '\t'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "parse %q: %v", text, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// checkIndex validates a multi-index against a shape.
func checkIndex(op string, idx []int, shape Shape) error {
	if len(idx) != len(shape) {
		return errors.Wrapf(ErrOutOfRange, "%s: expected %d indices, got %d", op, len(shape), len(idx))
	}
	for i, v := range idx {
		if v < 0 || v >= shape[i] {
			return errors.Wrapf(ErrOutOfRange, "%s: index %d out of bounds for axis %d (size %d)", op, v, i, shape[i])
		}
	}
	return nil
}

// mustIndex is checkIndex for paths that cannot return an error.
func mustIndex(op string, idx []int, shape Shape) {
	if err := checkIndex(op, idx, shape); err != nil {
		panic(err)
	}
}

// mulInt returns a*b and whether the product fits in an int.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == math.MinInt && b == -1) {
		return 0, false
	}
	return p, true
}

// addInt returns a+b and whether the sum fits in an int.
func addInt(a, b int) (int, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}
