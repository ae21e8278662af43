package tensor

import (
	"github.com/pkg/errors"
)

// Error taxonomy. Every error returned by this package wraps exactly one of
// these sentinels; test with errors.Is.
var (
	// ErrShapeMismatch reports shapes that cannot be unified or an index
	// tensor whose shape does not fit the operand.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrOutOfRange reports a multi-index, flat index or axis outside its shape.
	ErrOutOfRange = errors.New("index out of range")

	// ErrOutOfMemory reports an element count that overflows or exceeds the
	// allocation limit.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrReadOnly reports a write through a read-only view.
	ErrReadOnly = errors.New("read-only tensor")

	// ErrInvalidArgument reports a malformed argument that is not a shape or
	// bounds problem (step of zero, negative repeat count, unknown mode).
	ErrInvalidArgument = errors.New("invalid argument")
)

func shapeError(op string, a, b Shape) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: %v vs %v", op, a, b)
}

func rangeError(op string, format string, args ...any) error {
	return errors.Wrapf(ErrOutOfRange, op+": "+format, args...)
}

func argError(op string, format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, op+": "+format, args...)
}

// normalizeAxis resolves a possibly negative axis against rank.
func normalizeAxis(op string, axis, rank int) (int, error) {
	a := axis
	if a < 0 {
		a += rank
	}
	if a < 0 || a >= rank {
		return 0, rangeError(op, "axis %d for rank %d", axis, rank)
	}
	return a, nil
}
