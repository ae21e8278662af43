package tensor

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout determines how a flat offset maps to a multi-index.
type Layout int

// Supported layouts.
const (
	RowMajor    Layout = iota // last axis contiguous (C order)
	ColumnMajor               // first axis contiguous (Fortran order)
)

// String returns "row_major" or "column_major".
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row_major"
	case ColumnMajor:
		return "column_major"
	default:
		return "unknown"
	}
}

// ParseLayout accepts "row_major"/"C" and "column_major"/"F".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row_major", "row-major", "c":
		return RowMajor, nil
	case "column_major", "column-major", "col_major", "f":
		return ColumnMajor, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown layout %q", s)
}

// RavelIndex converts a multi-index into a flat offset under layout.
//
// Row-major:    flat = Σ idx[i] · Π_{j>i} shape[j]
// Column-major: flat = Σ idx[i] · Π_{j<i} shape[j]
func RavelIndex(idx Index, shape Shape, layout Layout) (int, error) {
	if err := checkIndex("ravel_index", idx, shape); err != nil {
		return 0, err
	}
	return ravel(idx, shape, layout), nil
}

// UnravelIndex converts a flat offset into a multi-index under layout.
// A flat offset outside [0, size) is an ErrOutOfRange, never wrapped.
func UnravelIndex(flat int, shape Shape, layout Layout) (Index, error) {
	size := shape.NumElements()
	if flat < 0 || flat >= size {
		return nil, rangeError("unravel_index", "flat index %d for shape %v (size %d)", flat, shape, size)
	}
	idx := make(Index, len(shape))
	unravelInto(idx, flat, shape, layout)
	return idx, nil
}

// ravel is RavelIndex without bounds checks.
func ravel(idx []int, shape Shape, layout Layout) int {
	flat := 0
	if layout == ColumnMajor {
		for i := len(shape) - 1; i >= 0; i-- {
			flat = flat*shape[i] + idx[i]
		}
		return flat
	}
	for i := 0; i < len(shape); i++ {
		flat = flat*shape[i] + idx[i]
	}
	return flat
}

// unravelInto writes the multi-index of flat into dst, processing axes from
// the fastest-varying one outward.
func unravelInto(dst []int, flat int, shape Shape, layout Layout) {
	if layout == ColumnMajor {
		for i := 0; i < len(shape); i++ {
			d := shape[i]
			dst[i] = flat % d
			flat /= d
		}
		return
	}
	for i := len(shape) - 1; i >= 0; i-- {
		d := shape[i]
		dst[i] = flat % d
		flat /= d
	}
}

// increment advances idx to the next position in traversal order and reports
// false when it wraps past the end.
func increment(idx []int, shape Shape, order Layout) bool {
	if order == ColumnMajor {
		for i := 0; i < len(shape); i++ {
			idx[i]++
			if idx[i] < shape[i] {
				return true
			}
			idx[i] = 0
		}
		return false
	}
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return true
		}
		idx[i] = 0
	}
	return false
}

// decrement is the inverse of increment.
func decrement(idx []int, shape Shape, order Layout) bool {
	if order == ColumnMajor {
		for i := 0; i < len(shape); i++ {
			idx[i]--
			if idx[i] >= 0 {
				return true
			}
			idx[i] = shape[i] - 1
		}
		return false
	}
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i]--
		if idx[i] >= 0 {
			return true
		}
		idx[i] = shape[i] - 1
	}
	return false
}
